package services

import (
	"context"
	"sort"
	"time"

	"warung-pos/internal/domain/catalog"
	"warung-pos/internal/domain/sales"
	"warung-pos/internal/repository"

	"github.com/google/uuid"
)

// AnalyticsService computes the dashboard numbers on demand; nothing here is
// cached or precomputed.
type AnalyticsService struct {
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
}

func NewAnalyticsService(transactionRepo repository.TransactionRepository, productRepo repository.ProductRepository, customerRepo repository.CustomerRepository) *AnalyticsService {
	return &AnalyticsService{
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
	}
}

type DashboardSummary struct {
	TodaySales        float64           `json:"today_sales"`
	TodayTransactions int               `json:"today_transactions"`
	TodayProfit       float64           `json:"today_profit"`
	PendingTempo      float64           `json:"pending_tempo"`
	LowStockProducts  []catalog.Product `json:"low_stock_products"`
}

type BestSeller struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	QuantitySold int       `json:"quantity_sold"`
	Revenue      float64   `json:"revenue"`
}

type SalesPoint struct {
	Date         string  `json:"date"`
	Total        float64 `json:"total"`
	Transactions int     `json:"transactions"`
}

type TopCustomer struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	Name         string    `json:"name"`
	Transactions int       `json:"transactions"`
	TotalSpent   float64   `json:"total_spent"`
}

type CategorySales struct {
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type HourlySales struct {
	Hour         int     `json:"hour"`
	Total        float64 `json:"total"`
	Transactions int     `json:"transactions"`
}

// Dashboard builds today's summary card.
func (s *AnalyticsService) Dashboard(ctx context.Context, now time.Time) (DashboardSummary, error) {
	from := startOfDay(now)
	to := from.AddDate(0, 0, 1)

	transactions, err := s.transactionRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		return DashboardSummary{}, err
	}
	items, err := s.transactionRepo.ListItemsByDateRange(ctx, from, to)
	if err != nil {
		return DashboardSummary{}, err
	}
	lowStock, err := s.productRepo.LowStock(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := DashboardSummary{LowStockProducts: lowStock}
	for _, t := range transactions {
		summary.TodaySales += t.Total
		summary.TodayTransactions++
		if t.PaymentMethod == sales.PaymentTempo && t.Status == sales.StatusPending {
			summary.PendingTempo += t.Total
		}
	}

	var cost float64
	costByProduct := map[uuid.UUID]float64{}
	for _, item := range items {
		c, ok := costByProduct[item.ProductID]
		if !ok {
			if p, err := s.productRepo.GetByID(ctx, item.ProductID); err == nil {
				c = p.CostPrice
			}
			costByProduct[item.ProductID] = c
		}
		cost += c * float64(item.Quantity)
	}
	summary.TodayProfit = summary.TodaySales - cost

	return summary, nil
}

// BestSellers ranks products by quantity sold over a window.
func (s *AnalyticsService) BestSellers(ctx context.Context, from, to time.Time, limit int) ([]BestSeller, error) {
	if limit <= 0 {
		limit = 10
	}

	items, err := s.transactionRepo.ListItemsByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byProduct := map[uuid.UUID]*BestSeller{}
	for _, item := range items {
		entry, ok := byProduct[item.ProductID]
		if !ok {
			entry = &BestSeller{ProductID: item.ProductID}
			if p, err := s.productRepo.GetByID(ctx, item.ProductID); err == nil {
				entry.Name = p.Name
			}
			byProduct[item.ProductID] = entry
		}
		entry.QuantitySold += item.Quantity
		entry.Revenue += item.Subtotal
	}

	ranked := make([]BestSeller, 0, len(byProduct))
	for _, entry := range byProduct {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].QuantitySold != ranked[j].QuantitySold {
			return ranked[i].QuantitySold > ranked[j].QuantitySold
		}
		return ranked[i].Revenue > ranked[j].Revenue
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// TopCustomers ranks named customers by spend over a window. Walk-in sales
// carry no customer and are skipped.
func (s *AnalyticsService) TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]TopCustomer, error) {
	if limit <= 0 {
		limit = 10
	}

	transactions, err := s.transactionRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byCustomer := map[uuid.UUID]*TopCustomer{}
	for _, t := range transactions {
		if !t.CustomerID.Valid {
			continue
		}
		id := t.CustomerID.UUID
		entry, ok := byCustomer[id]
		if !ok {
			entry = &TopCustomer{CustomerID: id}
			if c, err := s.customerRepo.GetByID(ctx, id); err == nil {
				entry.Name = c.Name
			}
			byCustomer[id] = entry
		}
		entry.Transactions++
		entry.TotalSpent += t.Total
	}

	ranked := make([]TopCustomer, 0, len(byCustomer))
	for _, entry := range byCustomer {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].TotalSpent > ranked[j].TotalSpent
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// SalesByCategory groups sold items by their product's category.
func (s *AnalyticsService) SalesByCategory(ctx context.Context, from, to time.Time) ([]CategorySales, error) {
	items, err := s.transactionRepo.ListItemsByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	categoryByProduct := map[uuid.UUID]string{}
	byCategory := map[string]*CategorySales{}
	for _, item := range items {
		category, ok := categoryByProduct[item.ProductID]
		if !ok {
			if p, err := s.productRepo.GetByID(ctx, item.ProductID); err == nil {
				category = p.Category
			}
			categoryByProduct[item.ProductID] = category
		}
		entry, ok := byCategory[category]
		if !ok {
			entry = &CategorySales{Category: category}
			byCategory[category] = entry
		}
		entry.Quantity += item.Quantity
		entry.Revenue += item.Subtotal
	}

	grouped := make([]CategorySales, 0, len(byCategory))
	for _, entry := range byCategory {
		grouped = append(grouped, *entry)
	}
	sort.Slice(grouped, func(i, j int) bool {
		return grouped[i].Revenue > grouped[j].Revenue
	})
	return grouped, nil
}

// SalesByHour buckets one day's transactions into 24 hourly slots.
func (s *AnalyticsService) SalesByHour(ctx context.Context, day time.Time) ([]HourlySales, error) {
	from := startOfDay(day)
	transactions, err := s.transactionRepo.ListByDateRange(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	hours := make([]HourlySales, 24)
	for i := range hours {
		hours[i].Hour = i
	}
	for _, t := range transactions {
		h := t.CreatedAt.Hour()
		hours[h].Total += t.Total
		hours[h].Transactions++
	}
	return hours, nil
}

// SalesTrend returns per-day totals for the window, including zero days.
func (s *AnalyticsService) SalesTrend(ctx context.Context, from, to time.Time) ([]SalesPoint, error) {
	from = startOfDay(from)
	to = startOfDay(to)

	transactions, err := s.transactionRepo.ListByDateRange(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	byDay := map[string]*SalesPoint{}
	for _, t := range transactions {
		key := startOfDay(t.CreatedAt).Format(reportDateLayout)
		point, ok := byDay[key]
		if !ok {
			point = &SalesPoint{Date: key}
			byDay[key] = point
		}
		point.Total += t.Total
		point.Transactions++
	}

	var points []SalesPoint
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(reportDateLayout)
		if point, ok := byDay[key]; ok {
			points = append(points, *point)
		} else {
			points = append(points, SalesPoint{Date: key})
		}
	}
	return points, nil
}
