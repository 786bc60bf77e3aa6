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

type PostgresReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &PostgresReportRepository{db: db}
}

// Upsert writes the report for its date, replacing any previous rollup.
func (r *PostgresReportRepository) Upsert(ctx context.Context, report *sales.DailyReport) error {
	now := time.Now()

	res := r.db.WithContext(ctx).
		Model(&sales.DailyReport{}).
		Where("report_date = ?", report.ReportDate).
		Updates(map[string]interface{}{
			"opening_balance":    report.OpeningBalance,
			"closing_balance":    report.ClosingBalance,
			"total_sales":        report.TotalSales,
			"cash_sales":         report.CashSales,
			"transfer_sales":     report.TransferSales,
			"tempo_sales":        report.TempoSales,
			"total_cost":         report.TotalCost,
			"total_profit":       report.TotalProfit,
			"total_transactions": report.TotalTransactions,
			"updated_at":         now,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		if report.ID == uuid.Nil {
			report.ID = uuid.New()
		}
		report.CreatedAt = now
		report.UpdatedAt = now
		return r.db.WithContext(ctx).Create(report).Error
	}
	return nil
}

func (r *PostgresReportRepository) GetByDate(ctx context.Context, reportDate string) (sales.DailyReport, error) {
	var report sales.DailyReport
	err := r.db.WithContext(ctx).Where("report_date = ?", reportDate).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sales.DailyReport{}, warung_errors.ErrNotFound
		}
		return sales.DailyReport{}, err
	}
	return report, nil
}

func (r *PostgresReportRepository) ListRecent(ctx context.Context, limit int) ([]sales.DailyReport, error) {
	if limit <= 0 {
		limit = 30
	}
	var reports []sales.DailyReport
	err := r.db.WithContext(ctx).
		Order("report_date DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
