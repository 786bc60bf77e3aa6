package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Settings represents the store_settings table. The store keeps a single row;
// updates go through an upsert.
type Settings struct {
	ID            uuid.UUID
	StoreName     string
	StoreAddress  sql.NullString
	StorePhone    sql.NullString
	StoreLogo     sql.NullString
	ReceiptFooter sql.NullString
	TaxRate       float64
	UpdatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Settings) TableName() string {
	return "store_settings"
}
