package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entrega is one harvest delivery line of a Carga. PrecioUnitario and Monto are
// written only by the recalculation pass; everything else is immutable after ingest.
type Entrega struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CargaID   uuid.UUID `gorm:"type:uuid;not null;index"`
	IDEntrega *string   `gorm:"index"` // external delivery id from the source sheet

	Dimensiones `gorm:"embedded"`

	Fecha            *time.Time `gorm:"type:date;index"`
	IDTrabajador     *int64     `gorm:"index"`
	NombreTrabajador *string
	NroEnvases       int             `gorm:"not null;default:0"`
	PrecioUnitario   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Monto            decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Entrega) TableName() string { return "entregas" }

// Liquidable reports whether the delivery carries the two keys pricing needs.
func (e *Entrega) Liquidable() bool {
	return e.Envase != nil && *e.Envase != "" && e.IDTrabajador != nil
}

// PrecioCalculado is the (entrega, unit price, amount) tuple persisted by a recalculation.
type PrecioCalculado struct {
	EntregaID      uuid.UUID
	PrecioUnitario decimal.Decimal
	Monto          decimal.Decimal
}
