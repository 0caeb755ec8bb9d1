package services

import (
	"context"

	"sareemart/internal/common"
	"sareemart/internal/models"
	"sareemart/internal/repositories"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Customer, error)
	Search(ctx context.Context, filter *models.CustomerSearchFilter) ([]*models.Customer, error)
}

type customerService struct {
	customerRepo repositories.CustomerRepository
}

func NewCustomerService(customerRepo repositories.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) Create(ctx context.Context, customer *models.Customer) error {
	if err := common.ValidateRequiredString(customer.Name, "name"); err != nil {
		return err
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	return s.customerRepo.Create(ctx, customer)
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) Update(ctx context.Context, customer *models.Customer) error {
	if err := common.ValidateRequiredString(customer.Name, "name"); err != nil {
		return err
	}

	existing, err := s.customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		return err
	}
	customer.CreatedAt = existing.CreatedAt

	return s.customerRepo.Update(ctx, customer)
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.customerRepo.Delete(ctx, id)
}

func (s *customerService) List(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	return s.customerRepo.List(ctx, limit, offset)
}

func (s *customerService) Search(ctx context.Context, filter *models.CustomerSearchFilter) ([]*models.Customer, error) {
	if filter == nil {
		filter = &models.CustomerSearchFilter{}
	}
	if filter.Query != "" {
		filter.Query = common.SanitizeSearchQuery(filter.Query)
	}
	return s.customerRepo.AdvancedSearch(ctx, filter)
}
