package service

import (
	"strings"
	"time"

	"liquidacion/internal/model"
)

// normalizarTexto trims s and turns blank values into nil.
func normalizarTexto(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func normalizarDimensiones(d *model.Dimensiones) {
	for _, campo := range []**string{
		&d.NombreCosecha, &d.NombreCampo, &d.CecoCampo, &d.EtiquetasCampo,
		&d.Cuartel, &d.CecoCuartel, &d.EtiquetasCuartel, &d.Especie, &d.Variedad,
		&d.Contratista, &d.Envase, &d.Usuario, &d.Cuadrilla,
	} {
		*campo = normalizarTexto(*campo)
	}
}

// parseFecha parses an optional YYYY-MM-DD value.
func parseFecha(s *string) (*time.Time, error) {
	s = normalizarTexto(s)
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatFecha(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
