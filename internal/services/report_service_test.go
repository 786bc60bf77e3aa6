package services

import (
	"context"
	"testing"
	"time"

	"warung-pos/internal/domain/sales"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService(f *posFixture) *ReportService {
	return NewReportService(
		repository.NewReportRepository(f.db),
		repository.NewTransactionRepository(f.db),
		f.productRepo,
	)
}

func TestGenerateDailyReport(t *testing.T) {
	f := newPOSFixture(t)
	reports := newReportService(f)
	ctx := context.Background()
	cashier := uuid.New()

	beras := f.seedProduct(t, "Beras 5kg", 70000, 62000, 50)

	// One sale per payment method; tempo stays pending but still counts
	// toward the day's sales.
	_, err := f.transactions.Checkout(ctx, CheckoutInput{
		UserID: cashier, TransactionType: sales.TypeStore, PaymentMethod: sales.PaymentCash,
		Items: []CheckoutItem{{ProductID: beras.ID, Quantity: 2}}, PaidAmount: 140000,
	})
	require.NoError(t, err)
	_, err = f.transactions.Checkout(ctx, CheckoutInput{
		UserID: cashier, TransactionType: sales.TypeStore, PaymentMethod: sales.PaymentTransfer,
		Items: []CheckoutItem{{ProductID: beras.ID, Quantity: 1}}, PaidAmount: 70000,
	})
	require.NoError(t, err)
	_, err = f.transactions.Checkout(ctx, CheckoutInput{
		UserID: cashier, TransactionType: sales.TypeStore, PaymentMethod: sales.PaymentTempo,
		Items: []CheckoutItem{{ProductID: beras.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	report, err := reports.Generate(ctx, time.Now(), cashier, 100000)
	require.NoError(t, err)

	assert.Equal(t, float64(280000), report.TotalSales)
	assert.Equal(t, 3, report.TotalTransactions)
	assert.Equal(t, float64(140000), report.CashSales)
	assert.Equal(t, float64(70000), report.TransferSales)
	assert.Equal(t, float64(70000), report.TempoSales)
	assert.Equal(t, float64(4*62000), report.TotalCost)
	assert.Equal(t, report.TotalSales-report.TotalCost, report.TotalProfit)
	// Only cash ends up in the drawer.
	assert.Equal(t, float64(100000+140000), report.ClosingBalance)
}

func TestGenerateReportUpsertsSingleRow(t *testing.T) {
	f := newPOSFixture(t)
	reports := newReportService(f)
	ctx := context.Background()
	cashier := uuid.New()

	beras := f.seedProduct(t, "Beras 5kg", 70000, 62000, 50)
	_, err := f.transactions.Checkout(ctx, CheckoutInput{
		UserID: cashier, TransactionType: sales.TypeStore, PaymentMethod: sales.PaymentCash,
		Items: []CheckoutItem{{ProductID: beras.ID, Quantity: 1}}, PaidAmount: 70000,
	})
	require.NoError(t, err)

	first, err := reports.Generate(ctx, time.Now(), cashier, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(70000), first.TotalSales)

	// More sales come in, the report is regenerated in place.
	_, err = f.transactions.Checkout(ctx, CheckoutInput{
		UserID: cashier, TransactionType: sales.TypeStore, PaymentMethod: sales.PaymentCash,
		Items: []CheckoutItem{{ProductID: beras.ID, Quantity: 1}}, PaidAmount: 70000,
	})
	require.NoError(t, err)

	second, err := reports.Generate(ctx, time.Now(), cashier, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(140000), second.TotalSales)

	recent, err := reports.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, float64(140000), recent[0].TotalSales)

	byDate, err := reports.GetByDate(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, second.TotalSales, byDate.TotalSales)
}

func TestGetReportMissingDay(t *testing.T) {
	f := newPOSFixture(t)
	reports := newReportService(f)

	_, err := reports.GetByDate(context.Background(), time.Now().AddDate(0, 0, -7))
	assert.ErrorIs(t, err, warung_errors.ErrNotFound)
}
