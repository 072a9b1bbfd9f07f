package pricing

import (
	"liquidacion/internal/model"

	"github.com/shopspring/decimal"
)

// Snapshot is the read-only view of rules and base prices used for one
// recalculation or audit. It is built once and never refreshed, so a rule edited
// mid-batch only takes effect on the next run.
type Snapshot struct {
	reglas  []model.ReglaPrecio
	precios map[string]decimal.Decimal
}

// NuevoSnapshot copies reglas and resolves one base price per envase: among the
// active rows for an envase, the most recently created wins.
func NuevoSnapshot(reglas []model.ReglaPrecio, bases []model.PrecioBase) *Snapshot {
	copia := make([]model.ReglaPrecio, len(reglas))
	copy(copia, reglas)

	precios := make(map[string]decimal.Decimal, len(bases))
	vigentes := make(map[string]*model.PrecioBase, len(bases))
	for i := range bases {
		b := &bases[i]
		if !b.Activo {
			continue
		}
		if actual, ok := vigentes[b.Envase]; ok && !b.CreatedAt.After(actual.CreatedAt) {
			continue
		}
		vigentes[b.Envase] = b
		precios[b.Envase] = b.Precio
	}
	return &Snapshot{reglas: copia, precios: precios}
}

// Reglas returns the rules of the snapshot. Callers must not modify them.
func (s *Snapshot) Reglas() []model.ReglaPrecio { return s.reglas }

// PrecioBase returns the base price for envase, or zero when there is none.
// The lookup is case-sensitive.
func (s *Snapshot) PrecioBase(envase string) decimal.Decimal {
	if p, ok := s.precios[envase]; ok {
		return p
	}
	return decimal.Zero
}

// TienePrecioBase reports whether envase has an active base price.
func (s *Snapshot) TienePrecioBase(envase string) bool {
	_, ok := s.precios[envase]
	return ok
}
