package dto

import "liquidacion/internal/model"

// EntregaRequest is one already-normalized delivery line. Spreadsheet parsing
// happens upstream; this service only receives the flat record.
type EntregaRequest struct {
	IDEntrega *string `json:"id_entrega"`

	model.Dimensiones

	Fecha            *string `json:"fecha"             validate:"omitempty,datetime=2006-01-02"`
	IDTrabajador     *int64  `json:"id_trabajador"`
	NombreTrabajador *string `json:"nombre_trabajador"`
	NroEnvases       int     `json:"nro_envases"`
}

// CrearCargaRequest is the body of POST /v1/cargas.
type CrearCargaRequest struct {
	NombreArchivo string           `json:"nombre_archivo" validate:"required,max=255"`
	Entregas      []EntregaRequest `json:"entregas"       validate:"required,min=1,dive"`
}

type CargaResponse struct {
	ID            string   `json:"id"`
	NombreArchivo string   `json:"nombre_archivo"`
	Filas         int      `json:"filas"`
	CreatedAt     string   `json:"created_at"`
	Advertencias  []string `json:"advertencias,omitempty"`
}

// EnvaseResumen is the total of containers delivered per envase in a carga.
type EnvaseResumen struct {
	Envase string `json:"envase"`
	Count  int64  `json:"count"`
}

type EnvasesResponse struct {
	Envases      []EnvaseResumen `json:"envases"`
	TotalRecords int64           `json:"total_records"`
}
