package service_test

import (
	"context"
	"testing"

	"liquidacion/internal/model"
	"liquidacion/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecalculo(entregas *stubEntregaRepo, reglas *stubReglaRepo, bases *stubPrecioBaseRepo, opts service.RecalculoOpciones) service.RecalculoService {
	return service.NewRecalculoService(entregas, nil, reglas, bases, opts)
}

func TestRecalcular_BaseOverrideDelta(t *testing.T) {
	cases := []struct {
		name   string
		reglas []model.ReglaPrecio
		precio int64
	}{
		{"sin reglas usa precio base", nil, 100},
		{"override reemplaza el precio base", []model.ReglaPrecio{reglaEnvase("Basqueta", model.ModoOverride, 120, 1)}, 120},
		{"delta suma al precio base", []model.ReglaPrecio{reglaEnvase("Basqueta", model.ModoDelta, -20, 1)}, 80},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cargaID := uuid.New()
			e := entrega(cargaID, "Basqueta", 7, 10)
			entregas := newStubEntregaRepo(e)
			svc := newRecalculo(entregas, &stubReglaRepo{reglas: tc.reglas},
				&stubPrecioBaseRepo{rows: []model.PrecioBase{basePrecio("Basqueta", 100)}}, service.RecalculoOpciones{})

			res, err := svc.Recalcular(context.Background(), cargaID)
			require.NoError(t, err)
			assert.Empty(t, res.Errors)
			assert.Equal(t, 1, res.UpdatedCount)

			got := entregas.buscar(e.ID)
			assert.True(t, decimal.NewFromInt(tc.precio).Equal(got.PrecioUnitario))
			assert.True(t, decimal.NewFromInt(tc.precio*10).Equal(got.Monto))

			require.Len(t, res.TotalsByWorker, 1)
			assert.Equal(t, int64(7), res.TotalsByWorker[0].IDTrab)
			assert.True(t, decimal.NewFromInt(tc.precio*10).Equal(res.TotalsByWorker[0].Monto))
			require.Len(t, res.TotalsByDate, 1)
			assert.Equal(t, "2024-03-04", res.TotalsByDate[0].Fecha)
		})
	}
}

func TestRecalcular_CargaVacia(t *testing.T) {
	svc := newRecalculo(newStubEntregaRepo(), &stubReglaRepo{}, &stubPrecioBaseRepo{}, service.RecalculoOpciones{})

	res, err := svc.Recalcular(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, res.UpdatedCount)
	assert.Equal(t, []string{"No se encontraron entregas para la carga especificada"}, res.Errors)
	assert.Empty(t, res.TotalsByWorker)
	assert.Empty(t, res.TotalsByDate)
}

func TestRecalcular_FallaLecturaDeReglas(t *testing.T) {
	cargaID := uuid.New()
	entregas := newStubEntregaRepo(entrega(cargaID, "Basqueta", 1, 1))
	svc := newRecalculo(entregas, &stubReglaRepo{err: errDB}, &stubPrecioBaseRepo{}, service.RecalculoOpciones{})

	res, err := svc.Recalcular(context.Background(), cargaID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.UpdatedCount)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Error general")
	assert.Contains(t, res.Errors[0], "connection refused")
	assert.Zero(t, entregas.escrituras)
}

func TestRecalcular_FallaLecturaDeEntregas(t *testing.T) {
	entregas := newStubEntregaRepo()
	entregas.errListar = errDB
	svc := newRecalculo(entregas, &stubReglaRepo{}, &stubPrecioBaseRepo{}, service.RecalculoOpciones{})

	res, err := svc.Recalcular(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, res.UpdatedCount)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "connection refused")
}

func TestRecalcular_OmiteEntregasNoLiquidables(t *testing.T) {
	cargaID := uuid.New()
	ok := entrega(cargaID, "Basqueta", 1, 2)
	sinEnvase := entrega(cargaID, "Basqueta", 1, 2)
	sinEnvase.Envase = nil
	sinTrabajador := entrega(cargaID, "Basqueta", 1, 2)
	sinTrabajador.IDTrabajador = nil

	entregas := newStubEntregaRepo(ok, sinEnvase, sinTrabajador)
	svc := newRecalculo(entregas, &stubReglaRepo{},
		&stubPrecioBaseRepo{rows: []model.PrecioBase{basePrecio("Basqueta", 100)}}, service.RecalculoOpciones{})

	res, err := svc.Recalcular(context.Background(), cargaID)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 1, res.UpdatedCount)
	assert.True(t, entregas.buscar(sinEnvase.ID).Monto.IsZero())
	assert.True(t, entregas.buscar(sinTrabajador.ID).Monto.IsZero())
}

func TestRecalcular_ErrorPorEntregaNoAbortaElLote(t *testing.T) {
	cargaID := uuid.New()
	buena := entrega(cargaID, "Basqueta", 1, 1)
	mala := entrega(cargaID, "Bins", 2, 1)

	reglaRota := reglaEnvase("Bins", model.ModoPrecio("PERCENT"), 10, 5)
	svc := newRecalculo(newStubEntregaRepo(buena, mala), &stubReglaRepo{reglas: []model.ReglaPrecio{reglaRota}},
		&stubPrecioBaseRepo{rows: []model.PrecioBase{basePrecio("Basqueta", 100), basePrecio("Bins", 300)}}, service.RecalculoOpciones{})

	res, err := svc.Recalcular(context.Background(), cargaID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.UpdatedCount)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Error procesando entrega "+mala.ID.String())
}

func TestRecalcular_LoteFallidoSeReintentaFilaPorFila(t *testing.T) {
	cargaID := uuid.New()
	var lista []model.Entrega
	for i := 0; i < 5; i++ {
		lista = append(lista, entrega(cargaID, "Basqueta", int64(i+1), 1))
	}
	entregas := newStubEntregaRepo(lista...)
	entregas.fallan[lista[3].ID] = true

	svc := newRecalculo(entregas, &stubReglaRepo{},
		&stubPrecioBaseRepo{rows: []model.PrecioBase{basePrecio("Basqueta", 100)}},
		service.RecalculoOpciones{Workers: 2, LoteEscritura: 2})

	res, err := svc.Recalcular(context.Background(), cargaID)
	require.NoError(t, err)
	assert.Equal(t, 4, res.UpdatedCount)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], lista[3].ID.String())
	// lotes [0,1] [2,3] [4]; el segundo se reintenta como [2] y [3]
	assert.Equal(t, 5, entregas.escrituras)
	assert.True(t, decimal.NewFromInt(100).Equal(entregas.buscar(lista[2].ID).Monto))
}

func TestRecalcular_Idempotente(t *testing.T) {
	cargaID := uuid.New()
	entregas := newStubEntregaRepo(
		entrega(cargaID, "Basqueta", 1, 3),
		entrega(cargaID, "Basqueta", 2, 4),
	)
	svc := newRecalculo(entregas,
		&stubReglaRepo{reglas: []model.ReglaPrecio{reglaEnvase("basqueta", model.ModoDelta, 15, 1)}},
		&stubPrecioBaseRepo{rows: []model.PrecioBase{basePrecio("Basqueta", 100)}}, service.RecalculoOpciones{})

	primero, err := svc.Recalcular(context.Background(), cargaID)
	require.NoError(t, err)
	segundo, err := svc.Recalcular(context.Background(), cargaID)
	require.NoError(t, err)

	assert.Equal(t, primero.UpdatedCount, segundo.UpdatedCount)
	assert.Equal(t, primero.TotalsByWorker, segundo.TotalsByWorker)
	assert.Equal(t, primero.TotalsByDate, segundo.TotalsByDate)
	assert.True(t, decimal.NewFromInt(805).Equal(segundo.TotalsByDate[0].Monto))
}

func TestRecalcular_ReportaConflictos(t *testing.T) {
	cargaID := uuid.New()
	svc := newRecalculo(newStubEntregaRepo(entrega(cargaID, "Basqueta", 1, 1)),
		&stubReglaRepo{reglas: []model.ReglaPrecio{
			reglaEnvase("Basqueta", model.ModoOverride, 120, 1),
			reglaEnvase("Basqueta", model.ModoOverride, 130, 1),
		}},
		&stubPrecioBaseRepo{rows: []model.PrecioBase{basePrecio("Basqueta", 100)}}, service.RecalculoOpciones{})

	res, err := svc.Recalcular(context.Background(), cargaID)
	require.NoError(t, err)
	assert.Len(t, res.Conflictos, 1)
	assert.Equal(t, 1, res.UpdatedCount)
}

func TestRecalcular_FallaDeTotalesSePropaga(t *testing.T) {
	cargaID := uuid.New()
	entregas := newStubEntregaRepo(entrega(cargaID, "Basqueta", 1, 1))
	entregas.errTotales = errDB
	svc := newRecalculo(entregas, &stubReglaRepo{},
		&stubPrecioBaseRepo{rows: []model.PrecioBase{basePrecio("Basqueta", 100)}}, service.RecalculoOpciones{})

	_, err := svc.Recalcular(context.Background(), cargaID)
	require.ErrorIs(t, err, errDB)
}

func TestRecalcular_ContextoCancelado(t *testing.T) {
	cargaID := uuid.New()
	entregas := newStubEntregaRepo(entrega(cargaID, "Basqueta", 1, 1), entrega(cargaID, "Basqueta", 2, 1))
	svc := newRecalculo(entregas, &stubReglaRepo{},
		&stubPrecioBaseRepo{rows: []model.PrecioBase{basePrecio("Basqueta", 100)}}, service.RecalculoOpciones{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.Recalcular(ctx, cargaID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.UpdatedCount)
	assert.Len(t, res.Errors, 2)
}
