package dto

import (
	"liquidacion/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ReglaPrecioRequest creates a rule, or replaces it when ID is set.
// Dates are YYYY-MM-DD; DiasSemana uses 1=lunes..7=domingo.
type ReglaPrecioRequest struct {
	ID     *string `json:"id"     validate:"omitempty,uuid"`
	Nombre *string `json:"nombre" validate:"omitempty,max=120"`

	model.Dimensiones

	FechaInicio *string         `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	FechaFin    *string         `json:"fecha_fin"    validate:"omitempty,datetime=2006-01-02"`
	DiasSemana  []int           `json:"dias_semana"  validate:"omitempty,dive,min=1,max=7"`
	Modo        string          `json:"modo"         validate:"required,oneof=OVERRIDE DELTA"`
	Monto       decimal.Decimal `json:"monto"`
	Prioridad   int             `json:"prioridad"    validate:"min=0"`
	Activa      *bool           `json:"activa"`
}

// GuardarReglasRequest is the body of POST /v1/reglas: deletions run first,
// then every upsert.
type GuardarReglasRequest struct {
	Upsert   []ReglaPrecioRequest `json:"upsert"   validate:"dive"`
	Eliminar []string             `json:"eliminar" validate:"dive,uuid"`
}

type CambiarEstadoReglaRequest struct {
	Activa *bool `json:"activa" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReglaPrecioResponse struct {
	ID     string  `json:"id"`
	Nombre *string `json:"nombre,omitempty"`

	model.Dimensiones

	FechaInicio   *string         `json:"fecha_inicio,omitempty"`
	FechaFin      *string         `json:"fecha_fin,omitempty"`
	DiasSemana    []int           `json:"dias_semana"`
	Modo          string          `json:"modo"`
	Monto         decimal.Decimal `json:"monto"`
	Prioridad     int             `json:"prioridad"`
	Activa        bool            `json:"activa"`
	Especificidad int             `json:"especificidad"`
	CreatedAt     string          `json:"created_at"`
}

type GuardarReglasResponse struct {
	Eliminadas int                   `json:"eliminadas"`
	Guardadas  []ReglaPrecioResponse `json:"guardadas"`
	Conflictos []string              `json:"conflictos"`
}

type ConflictosResponse struct {
	Conflictos []string `json:"conflictos"`
}
