package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"warung-pos/internal/domain/catalog"
	"warung-pos/internal/domain/sales"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type posFixture struct {
	db           *gorm.DB
	transactions *TransactionService
	products     *ProductService
	customers    *CustomerService
	productRepo  repository.ProductRepository
}

func newPOSFixture(t *testing.T) *posFixture {
	t.Helper()

	db := openTestDB(t)
	transactionRepo := repository.NewTransactionRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	return &posFixture{
		db:           db,
		transactions: NewTransactionService(db, transactionRepo, productRepo, customerRepo),
		products:     NewProductService(productRepo),
		customers:    NewCustomerService(customerRepo),
		productRepo:  productRepo,
	}
}

func (f *posFixture) seedProduct(t *testing.T, name string, price, cost float64, stock int) catalog.Product {
	t.Helper()

	p, err := f.products.Create(context.Background(), ProductInput{
		Name:      name,
		Category:  "sembako",
		Price:     price,
		CostPrice: cost,
		Stock:     stock,
		MinStock:  2,
		Unit:      "pcs",
	})
	require.NoError(t, err)
	return p
}

func TestCheckoutCashSale(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()

	beras := f.seedProduct(t, "Beras 5kg", 70000, 62000, 10)
	minyak := f.seedProduct(t, "Minyak Goreng", 18000, 15000, 20)
	cashier := uuid.New()

	detail, err := f.transactions.Checkout(ctx, CheckoutInput{
		UserID:          cashier,
		TransactionType: sales.TypeStore,
		PaymentMethod:   sales.PaymentCash,
		Items: []CheckoutItem{
			{ProductID: beras.ID, Quantity: 2},
			{ProductID: minyak.ID, Quantity: 1, Discount: 1000},
		},
		PaidAmount: 160000,
	})
	require.NoError(t, err)

	tr := detail.Transaction
	assert.Equal(t, sales.StatusCompleted, tr.Status)
	assert.Equal(t, float64(2*70000+18000-1000), tr.Subtotal)
	assert.Equal(t, tr.Subtotal, tr.Total)
	assert.Equal(t, 160000-tr.Total, tr.ChangeAmount)
	require.Len(t, detail.Items, 2)

	expectedNumber := fmt.Sprintf("TRX-%s-0001", time.Now().Format("20060102"))
	assert.Equal(t, expectedNumber, tr.TransactionNumber)

	// Stock was decremented.
	after, err := f.productRepo.GetByID(ctx, beras.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, after.Stock)

	// Second sale of the day gets the next sequence number.
	second, err := f.transactions.Checkout(ctx, CheckoutInput{
		UserID:          cashier,
		TransactionType: sales.TypeStore,
		PaymentMethod:   sales.PaymentCash,
		Items:           []CheckoutItem{{ProductID: minyak.ID, Quantity: 1}},
		PaidAmount:      18000,
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TRX-%s-0002", time.Now().Format("20060102")), second.Transaction.TransactionNumber)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()

	beras := f.seedProduct(t, "Beras 5kg", 70000, 62000, 10)
	gula := f.seedProduct(t, "Gula", 15000, 13000, 1)

	_, err := f.transactions.Checkout(ctx, CheckoutInput{
		UserID:          uuid.New(),
		TransactionType: sales.TypeStore,
		PaymentMethod:   sales.PaymentCash,
		Items: []CheckoutItem{
			{ProductID: beras.ID, Quantity: 3},
			{ProductID: gula.ID, Quantity: 5},
		},
		PaidAmount: 500000,
	})
	assert.ErrorIs(t, err, warung_errors.ErrInsufficientStock)

	// The whole sale rolled back, including the successful first decrement.
	after, err := f.productRepo.GetByID(ctx, beras.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, after.Stock)

	transactions, err := f.transactions.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestCheckoutTempoStaysPending(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()

	beras := f.seedProduct(t, "Beras 5kg", 70000, 62000, 10)
	langganan, err := f.customers.Create(ctx, CustomerInput{Name: "Bu Darmi", IsRegular: true})
	require.NoError(t, err)

	detail, err := f.transactions.Checkout(ctx, CheckoutInput{
		UserID:          uuid.New(),
		CustomerID:      &langganan.ID,
		TransactionType: sales.TypeDelivery,
		PaymentMethod:   sales.PaymentTempo,
		DeliveryFee:     5000,
		Items:           []CheckoutItem{{ProductID: beras.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, sales.StatusPending, detail.Transaction.Status)
	assert.Equal(t, float64(75000), detail.Transaction.Total)
	assert.Equal(t, float64(0), detail.Transaction.PaidAmount)

	// Settling the tempo completes it.
	settled, err := f.transactions.CompletePayment(ctx, detail.Transaction.ID, 75000)
	require.NoError(t, err)
	assert.Equal(t, sales.StatusCompleted, settled.Status)
	assert.Equal(t, float64(75000), settled.PaidAmount)

	// A completed transaction cannot be settled twice.
	_, err = f.transactions.CompletePayment(ctx, detail.Transaction.ID, 75000)
	assert.ErrorIs(t, err, warung_errors.ErrConflict)
}

func TestCheckoutValidation(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()

	beras := f.seedProduct(t, "Beras 5kg", 70000, 62000, 10)

	cases := []CheckoutInput{
		{UserID: uuid.New(), TransactionType: sales.TypeStore, PaymentMethod: sales.PaymentCash, PaidAmount: 100000},
		{UserID: uuid.New(), TransactionType: "online", PaymentMethod: sales.PaymentCash, Items: []CheckoutItem{{ProductID: beras.ID, Quantity: 1}}, PaidAmount: 100000},
		{UserID: uuid.New(), TransactionType: sales.TypeStore, PaymentMethod: "kredit", Items: []CheckoutItem{{ProductID: beras.ID, Quantity: 1}}, PaidAmount: 100000},
		{UserID: uuid.New(), TransactionType: sales.TypeStore, PaymentMethod: sales.PaymentCash, Items: []CheckoutItem{{ProductID: beras.ID, Quantity: 0}}, PaidAmount: 100000},
	}
	for _, in := range cases {
		_, err := f.transactions.Checkout(ctx, in)
		assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
	}

	// Cash sale must cover the total.
	_, err := f.transactions.Checkout(ctx, CheckoutInput{
		UserID:          uuid.New(),
		TransactionType: sales.TypeStore,
		PaymentMethod:   sales.PaymentCash,
		Items:           []CheckoutItem{{ProductID: beras.ID, Quantity: 1}},
		PaidAmount:      50000,
	})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
}

func TestDeactivatedProductCannotBeSold(t *testing.T) {
	f := newPOSFixture(t)
	ctx := context.Background()

	beras := f.seedProduct(t, "Beras 5kg", 70000, 62000, 10)
	require.NoError(t, f.products.Deactivate(ctx, beras.ID))

	_, err := f.transactions.Checkout(ctx, CheckoutInput{
		UserID:          uuid.New(),
		TransactionType: sales.TypeStore,
		PaymentMethod:   sales.PaymentCash,
		Items:           []CheckoutItem{{ProductID: beras.ID, Quantity: 1}},
		PaidAmount:      70000,
	})
	assert.ErrorIs(t, err, warung_errors.ErrInvalidInput)
}
