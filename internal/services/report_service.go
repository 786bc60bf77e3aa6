package services

import (
	"context"
	"time"

	"warung-pos/internal/domain/sales"
	"warung-pos/internal/repository"

	"github.com/google/uuid"
)

const reportDateLayout = "2006-01-02"

// ReportService rolls transactions up into one daily_reports row per day.
type ReportService struct {
	reportRepo      repository.ReportRepository
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
}

func NewReportService(reportRepo repository.ReportRepository, transactionRepo repository.TransactionRepository, productRepo repository.ProductRepository) *ReportService {
	return &ReportService{
		reportRepo:      reportRepo,
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
	}
}

// Generate recomputes the rollup for a day from its transactions and upserts
// it. Pending tempo sales count toward tempo_sales but not cash in hand.
func (s *ReportService) Generate(ctx context.Context, day time.Time, createdBy uuid.UUID, openingBalance float64) (sales.DailyReport, error) {
	from := startOfDay(day)
	to := from.AddDate(0, 0, 1)

	transactions, err := s.transactionRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		return sales.DailyReport{}, err
	}
	items, err := s.transactionRepo.ListItemsByDateRange(ctx, from, to)
	if err != nil {
		return sales.DailyReport{}, err
	}

	report := sales.DailyReport{
		ID:             uuid.New(),
		ReportDate:     from.Format(reportDateLayout),
		CreatedBy:      createdBy,
		OpeningBalance: openingBalance,
	}

	for _, t := range transactions {
		report.TotalSales += t.Total
		report.TotalTransactions++
		switch t.PaymentMethod {
		case sales.PaymentCash:
			report.CashSales += t.Total
		case sales.PaymentTransfer:
			report.TransferSales += t.Total
		case sales.PaymentTempo:
			report.TempoSales += t.Total
		}
	}

	report.TotalCost = s.totalCost(ctx, items)
	report.TotalProfit = report.TotalSales - report.TotalCost
	report.ClosingBalance = openingBalance + report.CashSales

	if err := s.reportRepo.Upsert(ctx, &report); err != nil {
		return sales.DailyReport{}, err
	}
	return report, nil
}

func (s *ReportService) GetByDate(ctx context.Context, day time.Time) (sales.DailyReport, error) {
	return s.reportRepo.GetByDate(ctx, startOfDay(day).Format(reportDateLayout))
}

func (s *ReportService) ListRecent(ctx context.Context, limit int) ([]sales.DailyReport, error) {
	return s.reportRepo.ListRecent(ctx, limit)
}

// totalCost sums cost price across sold items. Cost prices are read from the
// products table at report time; a later cost change shifts historical
// profit, which matches how the store actually books it.
func (s *ReportService) totalCost(ctx context.Context, items []sales.TransactionItem) float64 {
	costByProduct := map[uuid.UUID]float64{}
	var total float64
	for _, item := range items {
		cost, ok := costByProduct[item.ProductID]
		if !ok {
			cost = s.lookupCost(ctx, item.ProductID)
			costByProduct[item.ProductID] = cost
		}
		total += cost * float64(item.Quantity)
	}
	return total
}

func (s *ReportService) lookupCost(ctx context.Context, productID uuid.UUID) float64 {
	if s.productRepo == nil {
		return 0
	}
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return 0
	}
	return p.CostPrice
}
