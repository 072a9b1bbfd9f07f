package dto

import "github.com/shopspring/decimal"

// ResumenTrabajadoresQuery selects the days to summarize. Both bounds are
// inclusive and required; Trabajador narrows the result to one worker.
type ResumenTrabajadoresQuery struct {
	Desde      string `form:"desde"      validate:"required"`
	Hasta      string `form:"hasta"      validate:"required"`
	Trabajador *int64 `form:"trabajador"`
}

// ResumenTrabajadorDia is what one worker delivered on one day across every
// carga, priced with the amounts of the last recalculation of each carga.
type ResumenTrabajadorDia struct {
	Fecha        string          `json:"fecha"`
	IDTrab       int64           `json:"idTrab"`
	NombreTrab   string          `json:"nombreTrab"`
	TiposEnvase  string          `json:"tiposEnvase"`
	TotalEnvases int64           `json:"totalEnvases"`
	Monto        decimal.Decimal `json:"monto"`
}

type ResumenTrabajadoresResponse struct {
	Desde     string                 `json:"desde"`
	Hasta     string                 `json:"hasta"`
	Resumenes []ResumenTrabajadorDia `json:"resumenes"`
	Total     int                    `json:"total"`
	Monto     decimal.Decimal        `json:"monto"`
}
