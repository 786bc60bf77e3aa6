package services

import (
	"context"
	"strings"
	"time"

	"warung-pos/internal/domain/customer"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
)

type CustomerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

type CustomerInput struct {
	Name             string
	Phone            string
	Address          string
	Notes            string
	DeliverySchedule string
	IsRegular        bool
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (customer.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return customer.Customer{}, warung_errors.ErrInvalidInput
	}

	now := time.Now()
	c := &customer.Customer{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(in.Name),
		Phone:            toNullString(in.Phone),
		Address:          toNullString(in.Address),
		Notes:            toNullString(in.Notes),
		DeliverySchedule: toNullString(in.DeliverySchedule),
		IsRegular:        in.IsRegular,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.customerRepo.Create(ctx, c); err != nil {
		return customer.Customer{}, err
	}
	return *c, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (customer.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context) ([]customer.Customer, error) {
	return s.customerRepo.List(ctx)
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, in CustomerInput) (customer.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return customer.Customer{}, warung_errors.ErrInvalidInput
	}

	c, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return customer.Customer{}, err
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Phone = toNullString(in.Phone)
	c.Address = toNullString(in.Address)
	c.Notes = toNullString(in.Notes)
	c.DeliverySchedule = toNullString(in.DeliverySchedule)
	c.IsRegular = in.IsRegular

	if err := s.customerRepo.Update(ctx, c); err != nil {
		return customer.Customer{}, err
	}
	return c, nil
}

func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.customerRepo.Delete(ctx, id)
}
