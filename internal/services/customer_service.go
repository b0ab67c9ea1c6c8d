package services

import (
	"context"
	"fmt"
	"time"

	"garagepro/internal/common"
	"garagepro/internal/models"
	"garagepro/internal/repositories"
)

type CustomerServiceInterface interface {
	CreateCustomer(ctx context.Context, data models.CreateCustomerData) (*models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
	// UpdateCustomer never touches invoices already holding a snapshot of the customer.
	UpdateCustomer(ctx context.Context, id string, data models.UpdateCustomerData) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) (bool, error)
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	now          func() time.Time
}

func NewCustomerService(customerRepo repositories.CustomerRepository) CustomerServiceInterface {
	return &customerService{
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, data models.CreateCustomerData) (*models.Customer, error) {
	if err := validate.Validate(data); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	customer := &models.Customer{
		ID:        common.NewID(common.CustomerIDPrefix, now),
		Name:      data.Name,
		Email:     data.Email,
		Phone:     data.Phone,
		Address:   data.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.customerRepo.List(ctx)
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, data models.UpdateCustomerData) (*models.Customer, error) {
	if err := validate.Validate(data); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data.Apply(customer)
	customer.UpdatedAt = s.now().UTC()

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	return s.customerRepo.Delete(ctx, id)
}
