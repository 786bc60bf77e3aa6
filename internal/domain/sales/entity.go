package sales

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Payment methods.
const (
	PaymentCash     = "tunai"
	PaymentTransfer = "transfer"
	PaymentTempo    = "tempo"
)

// Transaction types.
const (
	TypeStore    = "toko"
	TypeDelivery = "antar"
)

// Transaction statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Transaction represents the transactions table
type Transaction struct {
	ID                uuid.UUID
	TransactionNumber string
	UserID            uuid.UUID
	CustomerID        uuid.NullUUID
	TransactionType   string
	PaymentMethod     string
	Status            string
	Subtotal          float64
	Discount          float64
	DeliveryFee       float64
	Total             float64
	PaidAmount        float64
	ChangeAmount      float64
	DeliveryAddress   sql.NullString
	Notes             sql.NullString
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TransactionItem represents the transaction_items table
type TransactionItem struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	ProductID     uuid.UUID
	Quantity      int
	Price         float64
	Discount      float64
	Subtotal      float64
	CreatedAt     time.Time
}

// DailyReport represents the daily_reports table, one row per report_date.
type DailyReport struct {
	ID                uuid.UUID
	ReportDate        string
	CreatedBy         uuid.UUID
	OpeningBalance    float64
	ClosingBalance    float64
	TotalSales        float64
	CashSales         float64
	TransferSales     float64
	TempoSales        float64
	TotalCost         float64
	TotalProfit       float64
	TotalTransactions int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Transaction) TableName() string {
	return "transactions"
}

func (TransactionItem) TableName() string {
	return "transaction_items"
}

func (DailyReport) TableName() string {
	return "daily_reports"
}
