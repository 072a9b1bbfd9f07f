package service

import (
	"context"
	"errors"
	"fmt"

	"liquidacion/internal/dto"
	"liquidacion/internal/model"
	"liquidacion/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CargaService ingests normalized delivery batches.
type CargaService interface {
	Registrar(ctx context.Context, req dto.CrearCargaRequest) (*dto.CargaResponse, error)
	Listar(ctx context.Context) ([]dto.CargaResponse, error)
	Envases(ctx context.Context, cargaID uuid.UUID) (*dto.EnvasesResponse, error)
}

type cargaService struct {
	cargas   repository.CargaRepository
	entregas repository.EntregaRepository
}

func NewCargaService(cargas repository.CargaRepository, entregas repository.EntregaRepository) CargaService {
	return &cargaService{cargas: cargas, entregas: entregas}
}

// Registrar stores the carga. Data-quality problems never reject a row: they are
// returned as warnings, and rows without envase or worker id are simply not priced later.
func (s *cargaService) Registrar(ctx context.Context, req dto.CrearCargaRequest) (*dto.CargaResponse, error) {
	entregas := make([]model.Entrega, 0, len(req.Entregas))
	var advertencias []string

	for i, item := range req.Entregas {
		fila := i + 1
		e, warns, err := entregaDesdeRequest(item)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", fila, err)
		}
		for _, w := range warns {
			advertencias = append(advertencias, fmt.Sprintf("Fila %d: %s", fila, w))
		}
		entregas = append(entregas, e)
	}

	carga := &model.Carga{NombreArchivo: req.NombreArchivo}
	if err := s.cargas.CrearConEntregas(ctx, carga, entregas); err != nil {
		return nil, err
	}

	log.Info().
		Str("carga_id", carga.ID.String()).
		Int("filas", carga.Filas).
		Int("advertencias", len(advertencias)).
		Msg("carga registrada")

	resp := mapCarga(*carga)
	resp.Advertencias = advertencias
	return &resp, nil
}

func entregaDesdeRequest(req dto.EntregaRequest) (model.Entrega, []string, error) {
	var warns []string

	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return model.Entrega{}, nil, fmt.Errorf("%w: fecha %q", ErrEntregaInvalida, *req.Fecha)
	}

	e := model.Entrega{
		IDEntrega:        normalizarTexto(req.IDEntrega),
		Dimensiones:      req.Dimensiones,
		Fecha:            fecha,
		IDTrabajador:     req.IDTrabajador,
		NombreTrabajador: normalizarTexto(req.NombreTrabajador),
		NroEnvases:       req.NroEnvases,
	}
	normalizarDimensiones(&e.Dimensiones)

	if e.NroEnvases < 0 {
		warns = append(warns, fmt.Sprintf("nro_envases negativo (%d) normalizado a 0", e.NroEnvases))
		e.NroEnvases = 0
	}
	if e.Envase == nil {
		warns = append(warns, "sin envase, no se liquidará")
	}
	if e.IDTrabajador == nil {
		warns = append(warns, "sin id de trabajador, no se liquidará")
	}
	return e, warns, nil
}

func (s *cargaService) Listar(ctx context.Context) ([]dto.CargaResponse, error) {
	list, err := s.cargas.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CargaResponse, 0, len(list))
	for _, c := range list {
		out = append(out, mapCarga(c))
	}
	return out, nil
}

func (s *cargaService) Envases(ctx context.Context, cargaID uuid.UUID) (*dto.EnvasesResponse, error) {
	if _, err := s.cargas.FindByID(ctx, cargaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCargaNoEncontrada
		}
		return nil, err
	}
	envases, total, err := s.entregas.ResumenEnvases(ctx, cargaID)
	if err != nil {
		return nil, err
	}
	if envases == nil {
		envases = []dto.EnvaseResumen{}
	}
	return &dto.EnvasesResponse{Envases: envases, TotalRecords: total}, nil
}

func mapCarga(c model.Carga) dto.CargaResponse {
	return dto.CargaResponse{
		ID:            c.ID.String(),
		NombreArchivo: c.NombreArchivo,
		Filas:         c.Filas,
		CreatedAt:     c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
