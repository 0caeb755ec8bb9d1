package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"sareemart/internal/caching"
	"sareemart/internal/repositories"

	"github.com/google/uuid"
)

const alertScanLimit = 1000

// StockAlertService scans the catalogue for sarees running low on stock and
// orders still carrying dues, and logs a summary on a schedule.
type StockAlertService struct {
	sareeRepo repositories.SareeRepository
	orderRepo repositories.OrderRepository
	cacheSvc  caching.CacheService
	threshold int
}

// StockAlert reports a single saree at or below the low-stock threshold
type StockAlert struct {
	SareeID      uuid.UUID
	SareeName    string
	Category     string
	CurrentStock int
	Threshold    int
}

func NewStockAlertService(sareeRepo repositories.SareeRepository, orderRepo repositories.OrderRepository,
	cacheSvc caching.CacheService, threshold int) *StockAlertService {
	if threshold <= 0 {
		threshold = 5 // Default threshold
	}
	return &StockAlertService{
		sareeRepo: sareeRepo,
		orderRepo: orderRepo,
		cacheSvc:  cacheSvc,
		threshold: threshold,
	}
}

// CheckLowStock returns alerts for every saree at or below the threshold
func (a *StockAlertService) CheckLowStock(ctx context.Context) ([]StockAlert, error) {
	sarees, err := a.sareeRepo.ListLowStock(ctx, a.threshold, alertScanLimit)
	if err != nil {
		log.Printf("Failed to list low stock sarees: %v", err)
		return nil, err
	}

	var alerts []StockAlert
	for _, saree := range sarees {
		alerts = append(alerts, StockAlert{
			SareeID:      saree.ID,
			SareeName:    saree.Name,
			Category:     saree.Category,
			CurrentStock: saree.Stock,
			Threshold:    a.threshold,
		})
	}

	return alerts, nil
}

// LogLowStockAlerts writes a log line per low-stock saree
func (a *StockAlertService) LogLowStockAlerts(alerts []StockAlert) {
	if len(alerts) == 0 {
		log.Println("No low stock alerts to log")
		return
	}

	log.Printf("Low stock alerts (%d sarees):", len(alerts))
	for _, alert := range alerts {
		log.Printf("- Saree '%s' (%s) has %d units (threshold: %d)",
			alert.SareeName,
			alert.Category,
			alert.CurrentStock,
			alert.Threshold)
	}
}

// ScheduledLowStockCheck runs the full scan-and-log cycle and caches the
// latest alert count for dashboards.
func (a *StockAlertService) ScheduledLowStockCheck(ctx context.Context) error {
	log.Println("Starting scheduled low stock check")

	alerts, err := a.CheckLowStock(ctx)
	if err != nil {
		log.Printf("Scheduled low stock check failed: %v", err)
		return err
	}

	a.LogLowStockAlerts(alerts)

	if a.cacheSvc != nil {
		count := fmt.Sprintf("%d", len(alerts))
		if err := a.cacheSvc.SetString(ctx, "sareemart:alerts:low_stock_count", count, time.Hour); err != nil {
			log.Printf("Failed to cache low stock count: %v", err)
		}
	}

	log.Println("Scheduled low stock check completed successfully")
	return nil
}

// ScheduledOutstandingDuesCheck summarizes orders that still carry a due
// amount so the shop can chase payments.
func (a *StockAlertService) ScheduledOutstandingDuesCheck(ctx context.Context) error {
	log.Println("Starting scheduled outstanding dues check")

	orders, err := a.orderRepo.ListOutstanding(ctx, alertScanLimit)
	if err != nil {
		log.Printf("Scheduled outstanding dues check failed: %v", err)
		return err
	}

	var totalDue float64
	for _, order := range orders {
		totalDue += order.DueAmount
	}
	log.Printf("Outstanding dues: %d orders, %.2f total due", len(orders), totalDue)

	if a.cacheSvc != nil {
		summary := fmt.Sprintf("%d:%.2f", len(orders), totalDue)
		if err := a.cacheSvc.SetString(ctx, "sareemart:alerts:outstanding_dues", summary, time.Hour); err != nil {
			log.Printf("Failed to cache outstanding dues summary: %v", err)
		}
	}

	log.Println("Scheduled outstanding dues check completed successfully")
	return nil
}
