package dto

import "github.com/shopspring/decimal"

// PrecioBaseItem is one envase price in a bulk write.
type PrecioBaseItem struct {
	Envase string          `json:"envase" validate:"required,max=120"`
	Precio decimal.Decimal `json:"precio" validate:"min=0"`
	Activo *bool           `json:"activo"`
}

// GuardarPreciosBaseRequest is the body of POST /v1/precios-base.
type GuardarPreciosBaseRequest struct {
	Items []PrecioBaseItem `json:"items" validate:"required,min=1,dive"`
}

// DesactivarPrecioBaseRequest is the body of DELETE /v1/precios-base.
type DesactivarPrecioBaseRequest struct {
	Envase string `json:"envase" validate:"required"`
}

type PrecioBaseResponse struct {
	ID        string          `json:"id"`
	Envase    string          `json:"envase"`
	Precio    decimal.Decimal `json:"precio"`
	Activo    bool            `json:"activo"`
	CreatedAt string          `json:"created_at"`
}

type PrecioBaseListResponse struct {
	Data  []PrecioBaseResponse `json:"data"`
	Total int                  `json:"total"`
}
