package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"liquidacion/internal/dto"
	"liquidacion/internal/model"
	"liquidacion/internal/pricing"
	"liquidacion/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditoriaService explains prices. Every lookup re-evaluates against the rules
// and base prices active now, never against the stored unit price.
type AuditoriaService interface {
	PorEntrega(ctx context.Context, id uuid.UUID) (*dto.AuditoriaResponse, error)
	PorIDEntrega(ctx context.Context, idEntrega string) (*dto.AuditoriaResponse, error)
	PorTrabajadorFecha(ctx context.Context, idTrabajador int64, fecha time.Time) ([]dto.AuditoriaResponse, error)
}

type auditoriaService struct {
	entregas repository.EntregaRepository
	reglas   repository.ReglaPrecioRepository
	bases    repository.PrecioBaseRepository
}

func NewAuditoriaService(entregas repository.EntregaRepository, reglas repository.ReglaPrecioRepository, bases repository.PrecioBaseRepository) AuditoriaService {
	return &auditoriaService{entregas: entregas, reglas: reglas, bases: bases}
}

func (s *auditoriaService) PorEntrega(ctx context.Context, id uuid.UUID) (*dto.AuditoriaResponse, error) {
	e, err := s.entregas.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrada(err)
	}
	return s.auditarUna(ctx, e)
}

func (s *auditoriaService) PorIDEntrega(ctx context.Context, idEntrega string) (*dto.AuditoriaResponse, error) {
	e, err := s.entregas.FindByIDEntrega(ctx, idEntrega)
	if err != nil {
		return nil, noEncontrada(err)
	}
	return s.auditarUna(ctx, e)
}

func (s *auditoriaService) PorTrabajadorFecha(ctx context.Context, idTrabajador int64, fecha time.Time) ([]dto.AuditoriaResponse, error) {
	list, err := s.entregas.ListarPorTrabajadorFecha(ctx, idTrabajador, fecha)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrEntregaNoEncontrada
	}
	snap, err := cargarSnapshot(ctx, s.reglas, s.bases)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditoriaResponse, 0, len(list))
	for i := range list {
		a, err := auditar(&list[i], snap)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *auditoriaService) auditarUna(ctx context.Context, e *model.Entrega) (*dto.AuditoriaResponse, error) {
	snap, err := cargarSnapshot(ctx, s.reglas, s.bases)
	if err != nil {
		return nil, err
	}
	a, err := auditar(e, snap)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func auditar(e *model.Entrega, snap *pricing.Snapshot) (dto.AuditoriaResponse, error) {
	res, err := pricing.Evaluar(e, snap)
	if err != nil {
		return dto.AuditoriaResponse{}, fmt.Errorf("entrega %s: %w", e.ID, err)
	}
	a := dto.AuditoriaResponse{
		FactID:     e.ID.String(),
		IDEntrega:  e.IDEntrega,
		PriceBase:  res.PrecioBase,
		FinalPrice: res.PrecioFinal,
		Trace:      res.Traza,
	}
	if res.Regla != nil {
		id, nombre := res.Regla.ID.String(), res.Regla.Etiqueta()
		a.RuleID, a.RuleName = &id, &nombre
	}
	return a, nil
}

func noEncontrada(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEntregaNoEncontrada
	}
	return err
}
