package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"liquidacion/internal/dto"
	"liquidacion/internal/model"
	"liquidacion/internal/pricing"
	"liquidacion/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReglaService is the rule-authoring path. It validates what the matcher
// assumes (known mode, priority >= 0, ordered dates, weekdays 1..7) and
// reports priority conflicts after every write.
type ReglaService interface {
	Listar(ctx context.Context) ([]dto.ReglaPrecioResponse, error)
	Guardar(ctx context.Context, req dto.GuardarReglasRequest) (*dto.GuardarReglasResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, activa bool) (*dto.ReglaPrecioResponse, error)
	Conflictos(ctx context.Context) (*dto.ConflictosResponse, error)
}

type reglaService struct {
	repo repository.ReglaPrecioRepository
}

func NewReglaService(repo repository.ReglaPrecioRepository) ReglaService {
	return &reglaService{repo: repo}
}

func (s *reglaService) Listar(ctx context.Context) ([]dto.ReglaPrecioResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReglaPrecioResponse, 0, len(list))
	for i := range list {
		out = append(out, mapRegla(&list[i]))
	}
	return out, nil
}

func (s *reglaService) Guardar(ctx context.Context, req dto.GuardarReglasRequest) (*dto.GuardarReglasResponse, error) {
	eliminar := make([]uuid.UUID, 0, len(req.Eliminar))
	for _, raw := range req.Eliminar {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: id a eliminar inválido %q", ErrReglaInvalida, raw)
		}
		eliminar = append(eliminar, id)
	}

	guardar := make([]*model.ReglaPrecio, 0, len(req.Upsert))
	for i, item := range req.Upsert {
		regla, err := reglaDesdeRequest(item)
		if err != nil {
			return nil, fmt.Errorf("regla %d: %w", i+1, err)
		}
		if err := s.completarIdentidad(ctx, regla); err != nil {
			return nil, err
		}
		guardar = append(guardar, regla)
	}

	eliminadas, err := s.repo.Aplicar(ctx, eliminar, guardar)
	if err != nil {
		return nil, err
	}

	conflictos, err := s.conflictos(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.GuardarReglasResponse{
		Eliminadas: int(eliminadas),
		Guardadas:  make([]dto.ReglaPrecioResponse, 0, len(guardar)),
		Conflictos: conflictos,
	}
	for _, r := range guardar {
		resp.Guardadas = append(resp.Guardadas, mapRegla(r))
	}

	log.Info().
		Int("guardadas", len(guardar)).
		Int64("eliminadas", eliminadas).
		Int("conflictos", len(conflictos)).
		Msg("reglas de precio actualizadas")
	return resp, nil
}

// completarIdentidad assigns an id to new rules and keeps CreatedAt on updates,
// since CreatedAt is the recency tie-break of the rule list.
func (s *reglaService) completarIdentidad(ctx context.Context, r *model.ReglaPrecio) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
		return nil
	}
	actual, err := s.repo.FindByID(ctx, r.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	r.CreatedAt = actual.CreatedAt
	return nil
}

func (s *reglaService) CambiarEstado(ctx context.Context, id uuid.UUID, activa bool) (*dto.ReglaPrecioResponse, error) {
	if err := s.repo.CambiarEstado(ctx, id, activa); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReglaNoEncontrada
		}
		return nil, err
	}
	regla, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info().Str("regla_id", id.String()).Bool("activa", activa).Msg("estado de regla cambiado")
	resp := mapRegla(regla)
	return &resp, nil
}

func (s *reglaService) Conflictos(ctx context.Context) (*dto.ConflictosResponse, error) {
	c, err := s.conflictos(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ConflictosResponse{Conflictos: c}, nil
}

func (s *reglaService) conflictos(ctx context.Context) ([]string, error) {
	activas, err := s.repo.ListarActivas(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.DetectarConflictos(activas), nil
}

func reglaDesdeRequest(req dto.ReglaPrecioRequest) (*model.ReglaPrecio, error) {
	r := &model.ReglaPrecio{
		Nombre:      normalizarTexto(req.Nombre),
		Dimensiones: req.Dimensiones,
		Modo:        model.ModoPrecio(req.Modo),
		Monto:       req.Monto,
		Prioridad:   req.Prioridad,
		Activa:      true,
	}
	normalizarDimensiones(&r.Dimensiones)

	if req.ID != nil && *req.ID != "" {
		id, err := uuid.Parse(*req.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: id %q", ErrReglaInvalida, *req.ID)
		}
		r.ID = id
	}
	if req.Activa != nil {
		r.Activa = *req.Activa
	}
	if !r.Modo.Valido() {
		return nil, fmt.Errorf("%w: modo %q, se espera OVERRIDE o DELTA", ErrReglaInvalida, req.Modo)
	}
	if r.Prioridad < 0 {
		return nil, fmt.Errorf("%w: prioridad negativa (%d)", ErrReglaInvalida, r.Prioridad)
	}

	var err error
	if r.FechaInicio, err = parseFecha(req.FechaInicio); err != nil {
		return nil, fmt.Errorf("%w: fecha_inicio %q", ErrReglaInvalida, *req.FechaInicio)
	}
	if r.FechaFin, err = parseFecha(req.FechaFin); err != nil {
		return nil, fmt.Errorf("%w: fecha_fin %q", ErrReglaInvalida, *req.FechaFin)
	}
	if r.FechaInicio != nil && r.FechaFin != nil && r.FechaInicio.After(*r.FechaFin) {
		return nil, fmt.Errorf("%w: fecha_inicio posterior a fecha_fin", ErrReglaInvalida)
	}

	dias := slices.Clone(req.DiasSemana)
	for _, d := range dias {
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("%w: día de semana fuera de rango (%d)", ErrReglaInvalida, d)
		}
	}
	slices.Sort(dias)
	r.DiasSemana = slices.Compact(dias)
	return r, nil
}

func mapRegla(r *model.ReglaPrecio) dto.ReglaPrecioResponse {
	dias := r.DiasSemana
	if dias == nil {
		dias = []int{}
	}
	return dto.ReglaPrecioResponse{
		ID:            r.ID.String(),
		Nombre:        r.Nombre,
		Dimensiones:   r.Dimensiones,
		FechaInicio:   formatFecha(r.FechaInicio),
		FechaFin:      formatFecha(r.FechaFin),
		DiasSemana:    dias,
		Modo:          string(r.Modo),
		Monto:         r.Monto,
		Prioridad:     r.Prioridad,
		Activa:        r.Activa,
		Especificidad: pricing.Especificidad(r),
		CreatedAt:     r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
