package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ModoPrecio selects how a matching rule combines with the base price.
type ModoPrecio string

const (
	ModoOverride ModoPrecio = "OVERRIDE" // rule amount replaces the base price
	ModoDelta    ModoPrecio = "DELTA"    // rule amount is added to the base price
)

// Valido reports whether m is one of the two known modes.
func (m ModoPrecio) Valido() bool {
	return m == ModoOverride || m == ModoDelta
}

// Aplicar combines base and monto according to the mode.
// Negative results are allowed; DELTA applies no floor.
func (m ModoPrecio) Aplicar(base, monto decimal.Decimal) (decimal.Decimal, error) {
	switch m {
	case ModoOverride:
		return monto, nil
	case ModoDelta:
		return base.Add(monto), nil
	default:
		return decimal.Zero, fmt.Errorf("modo de precio desconocido %q", string(m))
	}
}

// ReglaPrecio is a conditional price. Each nil dimension is a wildcard;
// FechaInicio/FechaFin are inclusive and DiasSemana uses 1=lunes..7=domingo.
type ReglaPrecio struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre *string

	Dimensiones `gorm:"embedded"`

	FechaInicio *time.Time      `gorm:"type:date"`
	FechaFin    *time.Time      `gorm:"type:date"`
	DiasSemana  []int           `gorm:"serializer:json;type:jsonb"`
	Modo        ModoPrecio      `gorm:"type:varchar(10);not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Prioridad   int             `gorm:"not null;default:0;index"`
	Activa      bool            `gorm:"not null;index"` // no default: gorm omits zero values that have one
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ReglaPrecio) TableName() string { return "reglas_precio" }

// Etiqueta is the display name used in audit output.
func (r *ReglaPrecio) Etiqueta() string {
	if r.Nombre != nil && *r.Nombre != "" {
		return *r.Nombre
	}
	return fmt.Sprintf("Regla %s (Prioridad: %d)", r.ID, r.Prioridad)
}
