package repository

import (
	"context"
	"errors"
	"time"

	"warung-pos/internal/domain/customer"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresCustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

func (r *PostgresCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	res := r.db.WithContext(ctx).Create(c)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return warung_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (customer.Customer, error) {
	var c customer.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return customer.Customer{}, warung_errors.ErrNotFound
		}
		return customer.Customer{}, err
	}
	return c, nil
}

func (r *PostgresCustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	var customers []customer.Customer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *PostgresCustomerRepository) Update(ctx context.Context, c customer.Customer) error {
	c.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Save(&c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return warung_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&customer.Customer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return warung_errors.ErrNotFound
	}
	return nil
}
