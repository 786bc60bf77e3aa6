package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"warung-pos/internal/domain/catalog"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	res := r.db.WithContext(ctx).Create(p)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return warung_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id uuid.UUID) (catalog.Product, error) {
	var p catalog.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Product{}, warung_errors.ErrNotFound
		}
		return catalog.Product{}, err
	}
	return p, nil
}

func (r *PostgresProductRepository) List(ctx context.Context, activeOnly bool) ([]catalog.Product, error) {
	var products []catalog.Product
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("name ASC").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PostgresProductRepository) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	var products []catalog.Product
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND (LOWER(name) LIKE ? OR LOWER(category) LIKE ?)", true, pattern, pattern).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, p catalog.Product) error {
	p.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Save(&p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return warung_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresProductRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return warung_errors.ErrNotFound
	}
	return nil
}

// DecrementStock atomically reduces stock, refusing to go negative.
func (r *PostgresProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return warung_errors.ErrInsufficientStock
	}
	return nil
}

func (r *PostgresProductRepository) LowStock(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND stock <= min_stock", true).
		Order("stock ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
