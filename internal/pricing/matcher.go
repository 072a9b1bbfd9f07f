// Package pricing resolves the unit price of a delivery from the base price of
// its envase and the conditional price rules. Everything here is pure: callers
// pass an explicit Snapshot of rules and bases and nothing is read from storage.
package pricing

import (
	"slices"
	"strings"
	"time"

	"liquidacion/internal/model"
)

// Candidata is a rule that matched a delivery, with its computed specificity.
type Candidata struct {
	*model.ReglaPrecio
	Especificidad int
}

// Coincide reports whether rule r applies to delivery e. Inactive rules are not
// filtered here; see Ordenar.
func Coincide(e *model.Entrega, r *model.ReglaPrecio) bool {
	if !coincidenDimensiones(&e.Dimensiones, &r.Dimensiones) {
		return false
	}

	// A delivery without date passes every date and weekday constraint.
	if e.Fecha == nil {
		return true
	}
	fecha := dia(*e.Fecha)
	if r.FechaInicio != nil && fecha.Before(dia(*r.FechaInicio)) {
		return false
	}
	if r.FechaFin != nil && fecha.After(dia(*r.FechaFin)) {
		return false
	}
	if len(r.DiasSemana) > 0 && !slices.Contains(r.DiasSemana, DiaISO(fecha)) {
		return false
	}
	return true
}

func coincidenDimensiones(f, r *model.Dimensiones) bool {
	return coincideTexto(f.NombreCosecha, r.NombreCosecha) &&
		coincideTexto(f.NombreCampo, r.NombreCampo) &&
		coincideTexto(f.CecoCampo, r.CecoCampo) &&
		coincideTexto(f.EtiquetasCampo, r.EtiquetasCampo) &&
		coincideTexto(f.Cuartel, r.Cuartel) &&
		coincideTexto(f.CecoCuartel, r.CecoCuartel) &&
		coincideTexto(f.EtiquetasCuartel, r.EtiquetasCuartel) &&
		coincideTexto(f.Especie, r.Especie) &&
		coincideTexto(f.Variedad, r.Variedad) &&
		coincideTexto(f.Contratista, r.Contratista) &&
		coincideID(f.IDContratista, r.IDContratista) &&
		coincideTexto(f.Envase, r.Envase) &&
		coincideTexto(f.Usuario, r.Usuario) &&
		coincideID(f.IDUsuario, r.IDUsuario) &&
		coincideTexto(f.Cuadrilla, r.Cuadrilla)
}

// coincideTexto: an unset rule value is a wildcard; a set one needs a
// case-insensitive equal value on the delivery.
func coincideTexto(hecho, regla *string) bool {
	if !definido(regla) {
		return true
	}
	return hecho != nil && strings.EqualFold(*hecho, *regla)
}

func coincideID(hecho, regla *int64) bool {
	if regla == nil {
		return true
	}
	return hecho != nil && *hecho == *regla
}

func definido(s *string) bool { return s != nil && *s != "" }

// Especificidad counts the constrained dimensions of r.
func Especificidad(r *model.ReglaPrecio) int {
	d := &r.Dimensiones
	n := 0
	for _, s := range []*string{
		d.NombreCosecha, d.NombreCampo, d.CecoCampo, d.EtiquetasCampo,
		d.Cuartel, d.CecoCuartel, d.EtiquetasCuartel, d.Especie, d.Variedad,
		d.Contratista, d.Envase, d.Usuario, d.Cuadrilla,
	} {
		if definido(s) {
			n++
		}
	}
	for _, id := range []*int64{d.IDContratista, d.IDUsuario} {
		if id != nil {
			n++
		}
	}
	if r.FechaInicio != nil {
		n++
	}
	if r.FechaFin != nil {
		n++
	}
	if len(r.DiasSemana) > 0 {
		n++
	}
	return n
}

// Ordenar returns the active rules matching e, highest priority first, then
// most specific first. Ties keep the input order.
func Ordenar(e *model.Entrega, reglas []model.ReglaPrecio) []Candidata {
	var out []Candidata
	for i := range reglas {
		r := &reglas[i]
		if !r.Activa || !Coincide(e, r) {
			continue
		}
		out = append(out, Candidata{ReglaPrecio: r, Especificidad: Especificidad(r)})
	}
	slices.SortStableFunc(out, func(a, b Candidata) int {
		if a.Prioridad != b.Prioridad {
			return b.Prioridad - a.Prioridad
		}
		return b.Especificidad - a.Especificidad
	})
	return out
}

// ReglaAplicable returns the winning rule for e, or nil when none matches.
func ReglaAplicable(e *model.Entrega, reglas []model.ReglaPrecio) *Candidata {
	candidatas := Ordenar(e, reglas)
	if len(candidatas) == 0 {
		return nil
	}
	return &candidatas[0]
}

// DiaISO returns the ISO weekday of t: 1 for Monday through 7 for Sunday.
func DiaISO(t time.Time) int {
	d := int(t.Weekday())
	if d == 0 {
		return 7
	}
	return d
}

// dia truncates t to its calendar day. Dates are compared by wall-clock day in
// the location they carry.
func dia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
