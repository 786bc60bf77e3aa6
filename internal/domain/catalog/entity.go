package catalog

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Product represents the products table
type Product struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Description sql.NullString
	Price       float64
	CostPrice   float64
	Stock       int
	MinStock    int
	Unit        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LowOnStock reports whether the product has fallen to or below its minimum.
func (p Product) LowOnStock() bool {
	return p.Stock <= p.MinStock
}

func (Product) TableName() string {
	return "products"
}
