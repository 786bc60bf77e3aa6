package services

import (
	"context"
	"fmt"
	"time"

	"warung-pos/internal/domain/sales"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionService owns checkout. The whole flow runs in one database
// transaction so a failed stock decrement rolls back the sale.
type TransactionService struct {
	db              *gorm.DB
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
}

func NewTransactionService(db *gorm.DB, transactionRepo repository.TransactionRepository, productRepo repository.ProductRepository, customerRepo repository.CustomerRepository) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
	}
}

type CheckoutItem struct {
	ProductID uuid.UUID
	Quantity  int
	Discount  float64
}

type CheckoutInput struct {
	UserID          uuid.UUID
	CustomerID      *uuid.UUID
	TransactionType string
	PaymentMethod   string
	Items           []CheckoutItem
	Discount        float64
	DeliveryFee     float64
	PaidAmount      float64
	DeliveryAddress string
	Notes           string
}

// TransactionDetail is a transaction with its line items.
type TransactionDetail struct {
	Transaction sales.Transaction       `json:"transaction"`
	Items       []sales.TransactionItem `json:"items"`
}

// Checkout prices the cart, decrements stock, assigns a transaction number
// and persists everything atomically.
func (s *TransactionService) Checkout(ctx context.Context, in CheckoutInput) (TransactionDetail, error) {
	if err := validateCheckout(in); err != nil {
		return TransactionDetail{}, err
	}

	if in.CustomerID != nil {
		if _, err := s.customerRepo.GetByID(ctx, *in.CustomerID); err != nil {
			return TransactionDetail{}, err
		}
	}

	var detail TransactionDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transactionRepo := repository.NewTransactionRepository(tx)
		productRepo := repository.NewProductRepository(tx)

		now := time.Now()
		transactionID := uuid.New()

		var subtotal float64
		items := make([]sales.TransactionItem, 0, len(in.Items))
		for _, item := range in.Items {
			p, err := productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if !p.IsActive {
				return warung_errors.ErrInvalidInput
			}
			if err := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}

			lineSubtotal := p.Price*float64(item.Quantity) - item.Discount
			if lineSubtotal < 0 {
				return warung_errors.ErrInvalidInput
			}
			subtotal += lineSubtotal
			items = append(items, sales.TransactionItem{
				ID:            uuid.New(),
				TransactionID: transactionID,
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				Price:         p.Price,
				Discount:      item.Discount,
				Subtotal:      lineSubtotal,
				CreatedAt:     now,
			})
		}

		total := subtotal - in.Discount + in.DeliveryFee
		if total < 0 {
			return warung_errors.ErrInvalidInput
		}

		number, err := s.nextNumber(ctx, transactionRepo, now)
		if err != nil {
			return err
		}

		status := sales.StatusCompleted
		paid := in.PaidAmount
		change := 0.0
		switch in.PaymentMethod {
		case sales.PaymentTempo:
			// Tempo sales stay pending until the customer settles up.
			status = sales.StatusPending
		default:
			if paid < total {
				return warung_errors.ErrInvalidInput
			}
			change = paid - total
		}

		t := &sales.Transaction{
			ID:                transactionID,
			TransactionNumber: number,
			UserID:            in.UserID,
			TransactionType:   in.TransactionType,
			PaymentMethod:     in.PaymentMethod,
			Status:            status,
			Subtotal:          subtotal,
			Discount:          in.Discount,
			DeliveryFee:       in.DeliveryFee,
			Total:             total,
			PaidAmount:        paid,
			ChangeAmount:      change,
			DeliveryAddress:   toNullString(in.DeliveryAddress),
			Notes:             toNullString(in.Notes),
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if in.CustomerID != nil {
			t.CustomerID = uuid.NullUUID{UUID: *in.CustomerID, Valid: true}
		}

		if err := transactionRepo.Create(ctx, t); err != nil {
			return err
		}
		if err := transactionRepo.CreateItems(ctx, items); err != nil {
			return err
		}

		detail = TransactionDetail{Transaction: *t, Items: items}
		return nil
	})
	if err != nil {
		return TransactionDetail{}, err
	}
	return detail, nil
}

// CompletePayment settles a pending tempo transaction.
func (s *TransactionService) CompletePayment(ctx context.Context, id uuid.UUID, paidAmount float64) (sales.Transaction, error) {
	t, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return sales.Transaction{}, err
	}
	if t.Status != sales.StatusPending {
		return sales.Transaction{}, warung_errors.ErrConflict
	}
	if paidAmount < t.Total {
		return sales.Transaction{}, warung_errors.ErrInvalidInput
	}

	if err := s.transactionRepo.UpdateStatus(ctx, id, sales.StatusCompleted, paidAmount); err != nil {
		return sales.Transaction{}, err
	}
	t.Status = sales.StatusCompleted
	t.PaidAmount = paidAmount
	return t, nil
}

func (s *TransactionService) GetDetail(ctx context.Context, id uuid.UUID) (TransactionDetail, error) {
	t, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return TransactionDetail{}, err
	}
	items, err := s.transactionRepo.GetItems(ctx, id)
	if err != nil {
		return TransactionDetail{}, err
	}
	return TransactionDetail{Transaction: t, Items: items}, nil
}

func (s *TransactionService) List(ctx context.Context, limit int) ([]sales.Transaction, error) {
	return s.transactionRepo.List(ctx, limit)
}

func (s *TransactionService) ListByDate(ctx context.Context, day time.Time) ([]sales.Transaction, error) {
	from := startOfDay(day)
	return s.transactionRepo.ListByDateRange(ctx, from, from.AddDate(0, 0, 1))
}

// nextNumber generates TRX-YYYYMMDD-NNNN, numbering within the day.
func (s *TransactionService) nextNumber(ctx context.Context, repo repository.TransactionRepository, now time.Time) (string, error) {
	count, err := repo.CountSince(ctx, startOfDay(now))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TRX-%s-%04d", now.Format("20060102"), count+1), nil
}

func validateCheckout(in CheckoutInput) error {
	if len(in.Items) == 0 {
		return warung_errors.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 || item.Discount < 0 {
			return warung_errors.ErrInvalidInput
		}
	}
	switch in.TransactionType {
	case sales.TypeStore, sales.TypeDelivery:
	default:
		return warung_errors.ErrInvalidInput
	}
	switch in.PaymentMethod {
	case sales.PaymentCash, sales.PaymentTransfer, sales.PaymentTempo:
	default:
		return warung_errors.ErrInvalidInput
	}
	if in.TransactionType == sales.TypeDelivery && in.DeliveryAddress == "" && in.CustomerID == nil {
		return warung_errors.ErrInvalidInput
	}
	if in.Discount < 0 || in.DeliveryFee < 0 || in.PaidAmount < 0 {
		return warung_errors.ErrInvalidInput
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
