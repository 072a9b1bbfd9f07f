package service

import (
	"context"
	"fmt"
	"time"

	"liquidacion/internal/dto"
	"liquidacion/internal/model"
	"liquidacion/internal/pricing"
	"liquidacion/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const msgCargaVacia = "No se encontraron entregas para la carga especificada"

// RecalculoService prices every delivery of a carga and recomputes its totals.
// It does not serialize concurrent runs on the same carga; see RecalculoRunner.
type RecalculoService interface {
	Recalcular(ctx context.Context, cargaID uuid.UUID) (dto.RecalculoResult, error)
}

// RecalculoOpciones tunes the batch. Zero values fall back to the defaults.
type RecalculoOpciones struct {
	Workers       int // concurrent evaluations
	LoteEscritura int // rows per price write
}

type recalculoService struct {
	entregas repository.EntregaRepository
	writer   repository.PrecioWriter
	reglas   repository.ReglaPrecioRepository
	bases    repository.PrecioBaseRepository
	opts     RecalculoOpciones
}

// NewRecalculoService wires the batch. writer may be nil, in which case prices
// are written through the entrega repository.
func NewRecalculoService(
	entregas repository.EntregaRepository,
	writer repository.PrecioWriter,
	reglas repository.ReglaPrecioRepository,
	bases repository.PrecioBaseRepository,
	opts RecalculoOpciones,
) RecalculoService {
	if writer == nil {
		writer = entregas
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.LoteEscritura <= 0 {
		opts.LoteEscritura = 500
	}
	return &recalculoService{entregas: entregas, writer: writer, reglas: reglas, bases: bases, opts: opts}
}

// Recalcular never fails because of a single delivery: per-row problems end up
// in Errors. Failures before any row is processed are reported in Errors with
// zero updates. Only a failure to read the totals is returned as error.
func (s *recalculoService) Recalcular(ctx context.Context, cargaID uuid.UUID) (dto.RecalculoResult, error) {
	inicio := time.Now()
	res := dto.RecalculoResult{
		CargaID:        cargaID.String(),
		TotalsByWorker: []dto.TotalTrabajador{},
		TotalsByDate:   []dto.TotalFecha{},
		Errors:         []string{},
	}

	entregas, err := s.entregas.ListarPorCarga(ctx, cargaID)
	if err != nil {
		res.Errors = append(res.Errors, "Error general: "+err.Error())
		return res, nil
	}
	if len(entregas) == 0 {
		res.Errors = append(res.Errors, msgCargaVacia)
		return res, nil
	}

	snap, err := cargarSnapshot(ctx, s.reglas, s.bases)
	if err != nil {
		res.Errors = append(res.Errors, "Error general: "+err.Error())
		return res, nil
	}
	res.Conflictos = pricing.DetectarConflictos(snap.Reglas())

	precios, fallos := s.evaluar(ctx, entregas, snap)
	res.Errors = append(res.Errors, fallos...)

	actualizadas, fallos := s.escribir(ctx, precios)
	res.UpdatedCount = actualizadas
	res.Errors = append(res.Errors, fallos...)

	if res.TotalsByWorker, err = s.entregas.TotalesPorTrabajador(ctx, cargaID); err != nil {
		return res, fmt.Errorf("totales por trabajador: %w", err)
	}
	if res.TotalsByDate, err = s.entregas.TotalesPorFecha(ctx, cargaID); err != nil {
		return res, fmt.Errorf("totales por fecha: %w", err)
	}
	res.Duracion = time.Since(inicio).Round(time.Millisecond).String()

	log.Info().
		Str("carga_id", res.CargaID).
		Int("entregas", len(entregas)).
		Int("actualizadas", res.UpdatedCount).
		Int("errores", len(res.Errors)).
		Int("conflictos", len(res.Conflictos)).
		Str("duracion", res.Duracion).
		Msg("recálculo finalizado")
	return res, nil
}

// evaluar prices the liquidable deliveries concurrently. Results keep the
// input order so errors and writes are reported deterministically.
func (s *recalculoService) evaluar(ctx context.Context, entregas []model.Entrega, snap *pricing.Snapshot) ([]model.PrecioCalculado, []string) {
	calculados := make([]*model.PrecioCalculado, len(entregas))
	fallos := make([]string, len(entregas))

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i := range entregas {
		e := &entregas[i]
		if !e.Liquidable() {
			continue
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					fallos[i] = errorEntrega(e.ID, fmt.Errorf("panic: %v", r))
				}
			}()
			if err := ctx.Err(); err != nil {
				fallos[i] = errorEntrega(e.ID, err)
				return nil
			}
			r, err := pricing.Evaluar(e, snap)
			if err != nil {
				fallos[i] = errorEntrega(e.ID, err)
				return nil
			}
			calculados[i] = &model.PrecioCalculado{
				EntregaID:      e.ID,
				PrecioUnitario: r.PrecioFinal,
				Monto:          pricing.Importe(e.NroEnvases, r.PrecioFinal),
			}
			return nil
		})
	}
	_ = g.Wait()

	precios := make([]model.PrecioCalculado, 0, len(entregas))
	var errores []string
	for i := range entregas {
		if fallos[i] != "" {
			errores = append(errores, fallos[i])
		}
		if calculados[i] != nil {
			precios = append(precios, *calculados[i])
		}
	}
	return precios, errores
}

// escribir flushes prices in chunks. When a chunk fails it is retried row by
// row so that only the rows that actually fail are reported.
func (s *recalculoService) escribir(ctx context.Context, precios []model.PrecioCalculado) (int, []string) {
	var (
		actualizadas int
		errores      []string
	)
	for desde := 0; desde < len(precios); desde += s.opts.LoteEscritura {
		lote := precios[desde:min(desde+s.opts.LoteEscritura, len(precios))]
		err := s.writer.ActualizarPrecios(ctx, lote)
		if err == nil {
			actualizadas += len(lote)
			continue
		}
		log.Warn().Err(err).Int("filas", len(lote)).Msg("lote de precios rechazado, reintentando fila por fila")

		for _, p := range lote {
			if err := s.writer.ActualizarPrecios(ctx, []model.PrecioCalculado{p}); err != nil {
				errores = append(errores, errorEntrega(p.EntregaID, err))
				continue
			}
			actualizadas++
		}
	}
	return actualizadas, errores
}

func errorEntrega(id uuid.UUID, err error) string {
	return fmt.Sprintf("Error procesando entrega %s: %v", id, err)
}
