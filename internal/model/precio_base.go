package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrecioBase is the default piece price for one envase. Rows are never updated
// in place: a new price deactivates the previous active row, so the table is
// also the price history.
type PrecioBase struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Envase    string          `gorm:"not null;index"`
	Precio    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Activo    bool            `gorm:"not null"` // no default: gorm omits zero values that have one
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PrecioBase) TableName() string { return "precios_base" }
