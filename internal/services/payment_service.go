package services

import (
	"context"
	"log"

	"sareemart/internal/caching"
	"sareemart/internal/common"
	"sareemart/internal/models"
	"sareemart/internal/repositories"

	"github.com/google/uuid"
)

type PaymentService interface {
	// Create routes through the order lifecycle so the parent order's
	// paid/due/status always track the payment rows.
	Create(ctx context.Context, orderID uuid.UUID, amount float64, method string, notes *string) (*models.Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Payment, error)
	Search(ctx context.Context, filter *models.PaymentSearchFilter) ([]*models.Payment, error)
}

type paymentService struct {
	paymentRepo  repositories.PaymentRepository
	orderService OrderService
	cacheService caching.CacheService
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, orderService OrderService, cacheService caching.CacheService) PaymentService {
	return &paymentService{
		paymentRepo:  paymentRepo,
		orderService: orderService,
		cacheService: cacheService,
	}
}

func (s *paymentService) Create(ctx context.Context, orderID uuid.UUID, amount float64, method string, notes *string) (*models.Payment, error) {
	return s.orderService.AddPayment(ctx, orderID, amount, method, notes)
}

func (s *paymentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

func (s *paymentService) Update(ctx context.Context, payment *models.Payment) error {
	if err := common.ValidatePositiveFloat(payment.Amount, "amount", maxOrderAmount); err != nil {
		return err
	}
	if !models.ValidPaymentMethod(payment.Method) {
		return common.NewValidationError("method", "method must be one of: Cash, UPI, Other")
	}

	existing, err := s.paymentRepo.GetByID(ctx, payment.ID)
	if err != nil {
		return err
	}
	payment.OrderID = existing.OrderID
	payment.CreatedAt = existing.CreatedAt
	if payment.Date.IsZero() {
		payment.Date = existing.Date
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return err
	}

	s.invalidateOrder(ctx, payment.OrderID)
	return nil
}

func (s *paymentService) Delete(ctx context.Context, id uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateOrder(ctx, payment.OrderID)
	return nil
}

func (s *paymentService) List(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	return s.paymentRepo.List(ctx, limit, offset)
}

func (s *paymentService) Search(ctx context.Context, filter *models.PaymentSearchFilter) ([]*models.Payment, error) {
	if filter == nil {
		filter = &models.PaymentSearchFilter{}
	}
	return s.paymentRepo.AdvancedSearch(ctx, filter)
}

func (s *paymentService) invalidateOrder(ctx context.Context, orderID uuid.UUID) {
	if err := s.cacheService.DeleteOrderDetail(ctx, orderID); err != nil {
		log.Printf("Failed to invalidate cache for order %s: %v", orderID, err)
	}
}
