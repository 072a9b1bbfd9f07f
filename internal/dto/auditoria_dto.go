package dto

import "github.com/shopspring/decimal"

// AuditoriaResponse explains how the unit price of one delivery is obtained
// under the rules active right now.
type AuditoriaResponse struct {
	FactID     string          `json:"factId"`
	IDEntrega  *string         `json:"idEntrega,omitempty"`
	PriceBase  decimal.Decimal `json:"priceBase"`
	RuleID     *string         `json:"ruleId,omitempty"`
	RuleName   *string         `json:"ruleName,omitempty"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
	Trace      []string        `json:"trace"`
}

// AuditoriaQuery selects the deliveries to audit; exactly one form is used,
// checked in field order.
type AuditoriaQuery struct {
	EntregaID string `form:"entrega_id" validate:"omitempty,uuid"`
	IDEntrega string `form:"id_entrega"`
	IDTrab    *int64 `form:"id_trab"`
	Fecha     string `form:"fecha"` // YYYY-MM-DD, parsed by the handler
}
