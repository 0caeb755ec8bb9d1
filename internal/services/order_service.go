package services

import (
	"context"
	"log"
	"time"

	"sareemart/internal/caching"
	"sareemart/internal/common"
	"sareemart/internal/models"
	"sareemart/internal/repositories"

	"github.com/google/uuid"
)

const (
	orderCacheTTL   = 2 * time.Minute
	maxItemQuantity = 10000
	maxOrderAmount  = 10000000.0
)

// OrderItemInput is one line of a nested-items create payload.
type OrderItemInput struct {
	SareeID  uuid.UUID
	Quantity int
	Price    float64
}

// CreateOrderInput carries everything needed to create an order with its
// line items. DueAmount is always recomputed as total minus paid.
type CreateOrderInput struct {
	CustomerID  uuid.UUID
	TotalAmount float64
	PaidAmount  float64
	Status      string // optional; derived from amounts when empty
	Notes       *string
	Date        *time.Time
	Items       []OrderItemInput
}

type OrderService interface {
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*models.OrderDetail, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.OrderDetail, error)
	ListOrders(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.OrderDetail, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	AddPayment(ctx context.Context, orderID uuid.UUID, amount float64, method string, notes *string) (*models.Payment, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) error
}

type orderService struct {
	orderRepo    repositories.OrderRepository
	customerRepo repositories.CustomerRepository
	cacheService caching.CacheService
}

// NewOrderService creates a new order service instance
func NewOrderService(orderRepo repositories.OrderRepository, customerRepo repositories.CustomerRepository, cacheService caching.CacheService) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		cacheService: cacheService,
	}
}

// CreateOrder creates an order with its line items, decrementing each saree's
// stock inside a single transaction. A failure on any step leaves no partial
// state behind.
func (s *orderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*models.OrderDetail, error) {
	if input.CustomerID == uuid.Nil {
		return nil, common.NewValidationError("customer", "customer is required")
	}
	if _, err := s.customerRepo.GetByID(ctx, input.CustomerID); err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewValidationError("customer", "unknown customer")
		}
		return nil, err
	}

	if len(input.Items) == 0 {
		return nil, common.NewValidationError("items", "at least one item is required")
	}
	for _, item := range input.Items {
		if item.SareeID == uuid.Nil {
			return nil, common.NewValidationError("items", "saree is required on every item")
		}
		if err := common.ValidatePositiveInteger(item.Quantity, "quantity", maxItemQuantity); err != nil {
			return nil, err
		}
		if err := common.ValidatePositiveFloat(item.Price, "price", maxOrderAmount); err != nil {
			return nil, err
		}
	}

	if err := common.ValidateNonNegativeFloat(input.TotalAmount, "total_amount", maxOrderAmount); err != nil {
		return nil, err
	}
	if err := common.ValidateNonNegativeFloat(input.PaidAmount, "paid_amount", maxOrderAmount); err != nil {
		return nil, err
	}

	status := models.OrderStatus(input.Status)
	if input.Status == "" {
		status = models.NextStatus(models.StatusPending, input.PaidAmount, input.TotalAmount)
	} else if !models.ValidOrderStatus(input.Status) {
		return nil, common.NewValidationError("status", "status must be one of: Pending, Partial, Paid, Cancelled")
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	order := &models.Order{
		ID:          uuid.New(),
		CustomerID:  input.CustomerID,
		TotalAmount: input.TotalAmount,
		PaidAmount:  input.PaidAmount,
		DueAmount:   input.TotalAmount - input.PaidAmount,
		Status:      status,
		Notes:       input.Notes,
		Date:        date,
	}

	items := make([]*models.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, &models.OrderItem{
			ID:       uuid.New(),
			OrderID:  order.ID,
			SareeID:  in.SareeID,
			Quantity: in.Quantity,
			Price:    in.Price,
		})
	}

	if err := s.orderRepo.CreateWithItems(ctx, order, items); err != nil {
		return nil, err
	}

	s.invalidateSarees(ctx, items)

	return s.orderRepo.GetDetail(ctx, order.ID)
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.OrderDetail, error) {
	if cached, err := s.cacheService.GetOrderDetail(ctx, orderID); err == nil && cached != nil {
		return cached, nil
	}

	detail, err := s.orderRepo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetOrderDetail(ctx, detail, orderCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache order %s: %v", orderID, cacheErr)
	}
	return detail, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.OrderDetail, error) {
	if filter == nil {
		filter = &models.OrderSearchFilter{}
	}
	return s.orderRepo.ListDetails(ctx, filter)
}

// UpdateOrder updates the order's scalar fields. Items are immutable after
// creation and the status keeps following the payment position; due_amount is
// always recomputed.
func (s *orderService) UpdateOrder(ctx context.Context, order *models.Order) error {
	existing, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return err
	}

	if order.CustomerID == uuid.Nil {
		order.CustomerID = existing.CustomerID
	}
	if err := common.ValidateNonNegativeFloat(order.TotalAmount, "total_amount", maxOrderAmount); err != nil {
		return err
	}
	if err := common.ValidateNonNegativeFloat(order.PaidAmount, "paid_amount", maxOrderAmount); err != nil {
		return err
	}

	order.CreatedAt = existing.CreatedAt
	order.DueAmount = order.TotalAmount - order.PaidAmount
	order.Status = models.NextStatus(existing.Status, order.PaidAmount, order.TotalAmount)
	if order.Date.IsZero() {
		order.Date = existing.Date
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	s.invalidateOrder(ctx, order.ID)
	return nil
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}
	s.invalidateOrder(ctx, orderID)
	return nil
}

// AddPayment appends a payment to the order and recomputes paid_amount,
// due_amount and status in one transaction. A malformed payload fails with a
// validation error and leaves the order untouched.
func (s *orderService) AddPayment(ctx context.Context, orderID uuid.UUID, amount float64, method string, notes *string) (*models.Payment, error) {
	if err := common.ValidatePositiveFloat(amount, "amount", maxOrderAmount); err != nil {
		return nil, err
	}
	if !models.ValidPaymentMethod(method) {
		return nil, common.NewValidationError("method", "method must be one of: Cash, UPI, Other")
	}

	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: orderID,
		Amount:  amount,
		Method:  method,
		Notes:   notes,
		Date:    time.Now(),
	}

	// The repository folds the amount into the order aggregates under the
	// row lock; the status it derives matches NextStatus for a positive
	// payment.
	if err := s.orderRepo.AddPayment(ctx, payment); err != nil {
		return nil, err
	}

	s.invalidateOrder(ctx, orderID)
	return payment, nil
}

// CancelOrder restores the stock consumed at creation and marks the order
// cancelled. Orders that already collected payments must be refunded first;
// there is no automatic refund path.
func (s *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status == models.StatusCancelled {
		return common.NewConflictError("Order is already cancelled")
	}
	if order.PaidAmount > 0 {
		return common.NewConflictError("Cannot cancel order with payments. Please refund payments first.")
	}

	items, err := s.orderRepo.ListItems(ctx, orderID)
	if err != nil {
		return err
	}

	// The repository re-checks status and paid_amount inside the
	// transaction, so a concurrent cancel loses there with a conflict.
	if err := s.orderRepo.CancelWithRestore(ctx, orderID, items); err != nil {
		return err
	}

	s.invalidateOrder(ctx, orderID)
	s.invalidateSarees(ctx, items)
	return nil
}

func (s *orderService) invalidateOrder(ctx context.Context, orderID uuid.UUID) {
	if err := s.cacheService.DeleteOrderDetail(ctx, orderID); err != nil {
		log.Printf("Failed to invalidate cache for order %s: %v", orderID, err)
	}
}

func (s *orderService) invalidateSarees(ctx context.Context, items []*models.OrderItem) {
	for _, item := range items {
		if err := s.cacheService.DeleteSaree(ctx, item.SareeID); err != nil {
			log.Printf("Failed to invalidate cache for saree %s: %v", item.SareeID, err)
		}
	}
}
