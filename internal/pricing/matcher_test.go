package pricing

import (
	"strings"
	"testing"

	"liquidacion/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoincide_ReglaGlobal(t *testing.T) {
	r := regla(model.ModoOverride, 100, 0, model.Dimensiones{})
	assert.True(t, Coincide(&model.Entrega{}, &r))
	assert.True(t, Coincide(entrega("Bin", 3), &r))
	assert.Equal(t, 0, Especificidad(&r))
}

func TestCoincide_IgnoraMayusculas(t *testing.T) {
	e := &model.Entrega{Dimensiones: model.Dimensiones{
		Envase:  str("BASQUETA"),
		Especie: str("cereza"),
		Cuartel: str("Cuartel 7"),
	}}
	r := regla(model.ModoOverride, 1, 1, model.Dimensiones{
		Envase:  str("basqueta"),
		Especie: str("Cereza"),
		Cuartel: str("cUARTEL 7"),
	})
	assert.True(t, Coincide(e, &r))

	// Swapping case on both sides never changes the result.
	e.Envase = str(strings.ToLower(*e.Envase))
	r.Especie = str(strings.ToUpper(*r.Especie))
	assert.True(t, Coincide(e, &r))

	r.Variedad = str("Lapins")
	assert.False(t, Coincide(e, &r))
}

func TestCoincide_HechoNuloNoEsComodin(t *testing.T) {
	r := regla(model.ModoOverride, 1, 1, model.Dimensiones{Cuadrilla: str("C1")})
	assert.False(t, Coincide(&model.Entrega{}, &r))
}

func TestCoincide_IDsExactos(t *testing.T) {
	e := &model.Entrega{Dimensiones: model.Dimensiones{IDContratista: id(10), IDUsuario: id(7)}}

	r := regla(model.ModoDelta, 5, 1, model.Dimensiones{IDContratista: id(10)})
	assert.True(t, Coincide(e, &r))

	r = regla(model.ModoDelta, 5, 1, model.Dimensiones{IDUsuario: id(8)})
	assert.False(t, Coincide(e, &r))

	r = regla(model.ModoDelta, 5, 1, model.Dimensiones{IDUsuario: id(7)})
	assert.False(t, Coincide(&model.Entrega{}, &r))
}

func TestCoincide_RangoFechas(t *testing.T) {
	r := regla(model.ModoOverride, 1, 1, model.Dimensiones{})
	r.FechaInicio = fecha("2024-01-10")
	r.FechaFin = fecha("2024-01-20")

	cases := []struct {
		fecha string
		want  bool
	}{
		{"2024-01-09", false},
		{"2024-01-10", true},
		{"2024-01-15", true},
		{"2024-01-20", true},
		{"2024-01-21", false},
	}
	for _, tc := range cases {
		e := &model.Entrega{Fecha: fecha(tc.fecha)}
		assert.Equal(t, tc.want, Coincide(e, &r), tc.fecha)
	}
}

func TestCoincide_SinFechaEsPermisivo(t *testing.T) {
	r := regla(model.ModoOverride, 1, 1, model.Dimensiones{})
	r.FechaInicio = fecha("2030-01-01")
	r.DiasSemana = []int{7}
	assert.True(t, Coincide(&model.Entrega{}, &r))
}

func TestCoincide_DiasSemana(t *testing.T) {
	r := regla(model.ModoDelta, 10, 1, model.Dimensiones{})
	r.DiasSemana = []int{6, 7}

	// 2024-03-09 is a Saturday, 2024-03-10 a Sunday, 2024-03-11 a Monday.
	assert.True(t, Coincide(&model.Entrega{Fecha: fecha("2024-03-09")}, &r))
	assert.True(t, Coincide(&model.Entrega{Fecha: fecha("2024-03-10")}, &r))
	assert.False(t, Coincide(&model.Entrega{Fecha: fecha("2024-03-11")}, &r))

	assert.Equal(t, 1, DiaISO(*fecha("2024-03-11")))
	assert.Equal(t, 7, DiaISO(*fecha("2024-03-10")))
}

func TestEspecificidad(t *testing.T) {
	r := regla(model.ModoOverride, 1, 1, model.Dimensiones{
		Envase:        str("Bin"),
		Especie:       str("Manzana"),
		IDContratista: id(3),
		Cuadrilla:     str(""), // empty counts as unset
	})
	r.FechaInicio = fecha("2024-01-01")
	r.DiasSemana = []int{1}
	assert.Equal(t, 5, Especificidad(&r))
}

func TestOrdenar_PrioridadLuegoEspecificidad(t *testing.T) {
	e := &model.Entrega{Dimensiones: model.Dimensiones{Envase: str("Bin"), Especie: str("Pera")}}

	global := regla(model.ModoOverride, 1, 1, model.Dimensiones{})
	especifica := regla(model.ModoOverride, 2, 1, model.Dimensiones{Envase: str("bin"), Especie: str("pera")})
	alta := regla(model.ModoOverride, 3, 5, model.Dimensiones{})
	inactiva := regla(model.ModoOverride, 4, 9, model.Dimensiones{})
	inactiva.Activa = false
	ajena := regla(model.ModoOverride, 5, 9, model.Dimensiones{Envase: str("Basqueta")})

	got := Ordenar(e, []model.ReglaPrecio{global, especifica, alta, inactiva, ajena})
	require.Len(t, got, 3)
	assert.Equal(t, alta.ID, got[0].ID)
	assert.Equal(t, especifica.ID, got[1].ID)
	assert.Equal(t, global.ID, got[2].ID)

	for i := 1; i < len(got); i++ {
		a, b := got[i-1], got[i]
		assert.True(t, a.Prioridad > b.Prioridad ||
			(a.Prioridad == b.Prioridad && a.Especificidad >= b.Especificidad))
	}
}

func TestOrdenar_EmpateConservaOrdenDeEntrada(t *testing.T) {
	e := entrega("Basqueta", 1)
	a := regla(model.ModoOverride, 120, 1, model.Dimensiones{Envase: str("Basqueta")})
	b := regla(model.ModoOverride, 130, 1, model.Dimensiones{Envase: str("Basqueta")})
	reglas := []model.ReglaPrecio{a, b}

	for i := 0; i < 20; i++ {
		got := ReglaAplicable(e, reglas)
		require.NotNil(t, got)
		assert.Equal(t, a.ID, got.ID)
	}
}

func TestReglaAplicable_SiempreCoincide(t *testing.T) {
	e := &model.Entrega{
		Dimensiones: model.Dimensiones{Envase: str("Bin"), IDUsuario: id(4)},
		Fecha:       fecha("2024-02-05"),
	}
	r1 := regla(model.ModoOverride, 1, 3, model.Dimensiones{IDUsuario: id(5)})
	r2 := regla(model.ModoDelta, 1, 2, model.Dimensiones{Envase: str("BIN")})
	r2.FechaFin = fecha("2024-01-31")
	r3 := regla(model.ModoDelta, 1, 1, model.Dimensiones{IDUsuario: id(4)})
	reglas := []model.ReglaPrecio{r1, r2, r3}

	got := ReglaAplicable(e, reglas)
	require.NotNil(t, got)
	assert.Equal(t, r3.ID, got.ID)
	assert.True(t, Coincide(e, got.ReglaPrecio))

	assert.Nil(t, ReglaAplicable(e, reglas[:2]))
	assert.Nil(t, ReglaAplicable(e, nil))
}
