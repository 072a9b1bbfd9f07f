package pricing

import (
	"fmt"

	"liquidacion/internal/model"

	"github.com/shopspring/decimal"
)

// Resultado is the outcome of pricing one delivery. Traza holds the
// human-readable steps in order, for audit display.
type Resultado struct {
	PrecioBase  decimal.Decimal
	PrecioFinal decimal.Decimal
	Regla       *Candidata
	Traza       []string
}

// Evaluar computes the unit price of e against snap.
//
//  1. base price of the envase (0 if missing, reported in the trace)
//  2. winning rule, if any
//  3. no rule: base; OVERRIDE: rule amount; DELTA: base + rule amount
func Evaluar(e *model.Entrega, snap *Snapshot) (Resultado, error) {
	envase := ""
	if e.Envase != nil {
		envase = *e.Envase
	}

	base := snap.PrecioBase(envase)
	res := Resultado{PrecioBase: base}
	res.traza("Precio base para envase %q: $%s", envase, base.String())
	if base.IsZero() {
		res.traza("Advertencia: no se encontró precio base para envase %q", envase)
	}

	regla := ReglaAplicable(e, snap.Reglas())
	if regla == nil {
		res.traza("No se aplicaron reglas condicionales")
		res.PrecioFinal = base
		res.traza("Precio final: $%s", base.String())
		return res, nil
	}

	res.Regla = regla
	res.traza("Regla aplicada: %s (prioridad: %d, especificidad: %d)", regla.ID, regla.Prioridad, regla.Especificidad)

	final, err := regla.Modo.Aplicar(base, regla.Monto)
	if err != nil {
		return res, fmt.Errorf("regla %s: %w", regla.ID, err)
	}
	switch regla.Modo {
	case model.ModoOverride:
		res.traza("Modo OVERRIDE: precio final = $%s", final.String())
	case model.ModoDelta:
		res.traza("Modo DELTA: precio base + delta = $%s + $%s = $%s", base.String(), regla.Monto.String(), final.String())
	}
	res.PrecioFinal = final
	return res, nil
}

// Importe is the line amount: containers times unit price.
func Importe(nroEnvases int, precioUnitario decimal.Decimal) decimal.Decimal {
	return precioUnitario.Mul(decimal.NewFromInt(int64(nroEnvases)))
}

func (r *Resultado) traza(format string, args ...any) {
	r.Traza = append(r.Traza, fmt.Sprintf(format, args...))
}
