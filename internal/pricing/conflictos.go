package pricing

import (
	"fmt"
	"strings"

	"liquidacion/internal/model"
)

// DetectarConflictos lists pairs of active OVERRIDE rules that share a priority
// and could both apply to the same delivery. The check is deliberately loose:
// it is meant to surface ambiguous rule sets for review, so false positives are
// expected. DELTA rules never conflict.
func DetectarConflictos(reglas []model.ReglaPrecio) []string {
	var prioridades []int
	grupos := make(map[int][]*model.ReglaPrecio)
	for i := range reglas {
		r := &reglas[i]
		if !r.Activa || r.Modo != model.ModoOverride {
			continue
		}
		if _, ok := grupos[r.Prioridad]; !ok {
			prioridades = append(prioridades, r.Prioridad)
		}
		grupos[r.Prioridad] = append(grupos[r.Prioridad], r)
	}

	conflictos := []string{}
	for _, p := range prioridades {
		grupo := grupos[p]
		for i := 0; i < len(grupo); i++ {
			for j := i + 1; j < len(grupo); j++ {
				if podrianCoincidir(grupo[i], grupo[j]) {
					conflictos = append(conflictos, fmt.Sprintf(
						"Conflicto detectado: Reglas %q y %q tienen la misma prioridad (%d) y podrían coincidir con la misma entrega",
						grupo[i].ID.String(), grupo[j].ID.String(), p))
				}
			}
		}
	}
	return conflictos
}

func podrianCoincidir(a, b *model.ReglaPrecio) bool {
	if definido(a.Envase) && definido(b.Envase) && strings.EqualFold(*a.Envase, *b.Envase) {
		return true
	}
	if a.IDUsuario != nil && b.IDUsuario != nil && *a.IDUsuario == *b.IDUsuario {
		return true
	}
	if a.IDContratista != nil && b.IDContratista != nil && *a.IDContratista == *b.IDContratista {
		return true
	}
	if rangoCompleto(a) && rangoCompleto(b) &&
		!dia(*a.FechaInicio).After(dia(*b.FechaFin)) &&
		!dia(*b.FechaInicio).After(dia(*a.FechaFin)) {
		return true
	}
	// A rule without any date bound can coincide with anything in its group.
	return sinFechas(a) || sinFechas(b)
}

func rangoCompleto(r *model.ReglaPrecio) bool { return r.FechaInicio != nil && r.FechaFin != nil }

func sinFechas(r *model.ReglaPrecio) bool { return r.FechaInicio == nil && r.FechaFin == nil }
