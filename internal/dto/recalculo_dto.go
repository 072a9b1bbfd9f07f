package dto

import "github.com/shopspring/decimal"

// TotalTrabajador is the liquidación total of one worker in a carga.
type TotalTrabajador struct {
	IDTrab     int64           `json:"idTrab"`
	NombreTrab string          `json:"nombreTrab"`
	Monto      decimal.Decimal `json:"monto"`
}

// TotalFecha is the liquidación total of one calendar day (YYYY-MM-DD).
type TotalFecha struct {
	Fecha string          `json:"fecha"`
	Monto decimal.Decimal `json:"monto"`
}

// RecalculoResult is the outcome of one recalculation pass. A populated Errors
// list does not mean nothing was updated.
type RecalculoResult struct {
	CargaID        string            `json:"cargaId"`
	UpdatedCount   int               `json:"updatedCount"`
	TotalsByWorker []TotalTrabajador `json:"totalsByWorker"`
	TotalsByDate   []TotalFecha      `json:"totalsByDate"`
	Errors         []string          `json:"errors"`
	Conflictos     []string          `json:"conflictos,omitempty"`
	Duracion       string            `json:"duracion,omitempty"`
}
