package customer

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Customer represents the customers table
type Customer struct {
	ID               uuid.UUID
	Name             string
	Phone            sql.NullString
	Address          sql.NullString
	Notes            sql.NullString
	DeliverySchedule sql.NullString
	IsRegular        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Customer) TableName() string {
	return "customers"
}
