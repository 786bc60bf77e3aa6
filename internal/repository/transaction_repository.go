package repository

import (
	"context"
	"errors"
	"time"

	"warung-pos/internal/domain/sales"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresTransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

func (r *PostgresTransactionRepository) Create(ctx context.Context, t *sales.Transaction) error {
	res := r.db.WithContext(ctx).Create(t)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return warung_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresTransactionRepository) CreateItems(ctx context.Context, items []sales.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *PostgresTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (sales.Transaction, error) {
	var t sales.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sales.Transaction{}, warung_errors.ErrNotFound
		}
		return sales.Transaction{}, err
	}
	return t, nil
}

func (r *PostgresTransactionRepository) GetByNumber(ctx context.Context, number string) (sales.Transaction, error) {
	var t sales.Transaction
	err := r.db.WithContext(ctx).Where("transaction_number = ?", number).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sales.Transaction{}, warung_errors.ErrNotFound
		}
		return sales.Transaction{}, err
	}
	return t, nil
}

func (r *PostgresTransactionRepository) GetItems(ctx context.Context, transactionID uuid.UUID) ([]sales.TransactionItem, error) {
	var items []sales.TransactionItem
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresTransactionRepository) List(ctx context.Context, limit int) ([]sales.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	var transactions []sales.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *PostgresTransactionRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]sales.Transaction, error) {
	var transactions []sales.Transaction
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// ListItemsByDateRange returns line items belonging to transactions in the
// window, for cost and best-seller rollups.
func (r *PostgresTransactionRepository) ListItemsByDateRange(ctx context.Context, from, to time.Time) ([]sales.TransactionItem, error) {
	var items []sales.TransactionItem
	err := r.db.WithContext(ctx).
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Where("transactions.created_at >= ? AND transactions.created_at < ?", from, to).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresTransactionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&sales.Transaction{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, paidAmount float64) error {
	res := r.db.WithContext(ctx).
		Model(&sales.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"paid_amount": paidAmount,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return warung_errors.ErrNotFound
	}
	return nil
}
