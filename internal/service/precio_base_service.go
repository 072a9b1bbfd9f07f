package service

import (
	"context"
	"fmt"
	"strings"

	"liquidacion/internal/dto"
	"liquidacion/internal/model"
	"liquidacion/internal/repository"

	"github.com/rs/zerolog/log"
)

type PrecioBaseService interface {
	Listar(ctx context.Context) (*dto.PrecioBaseListResponse, error)
	Guardar(ctx context.Context, req dto.GuardarPreciosBaseRequest) (*dto.PrecioBaseListResponse, error)
	Desactivar(ctx context.Context, envase string) error
}

type precioBaseService struct {
	repo repository.PrecioBaseRepository
}

func NewPrecioBaseService(repo repository.PrecioBaseRepository) PrecioBaseService {
	return &precioBaseService{repo: repo}
}

func (s *precioBaseService) Listar(ctx context.Context) (*dto.PrecioBaseListResponse, error) {
	rows, err := s.repo.ListarActivos(ctx)
	if err != nil {
		return nil, err
	}
	return mapPreciosBase(rows), nil
}

// Guardar appends a new row per item. An item with activo=false still closes
// the current active price of its envase, leaving the envase without base price.
func (s *precioBaseService) Guardar(ctx context.Context, req dto.GuardarPreciosBaseRequest) (*dto.PrecioBaseListResponse, error) {
	rows := make([]model.PrecioBase, 0, len(req.Items))
	vistos := make(map[string]int, len(req.Items))
	for i, item := range req.Items {
		envase := strings.TrimSpace(item.Envase)
		if envase == "" {
			return nil, fmt.Errorf("%w: item %d sin envase", ErrPrecioBaseInvalido, i+1)
		}
		if item.Precio.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo para envase %q", ErrPrecioBaseInvalido, envase)
		}
		activo := true
		if item.Activo != nil {
			activo = *item.Activo
		}
		row := model.PrecioBase{Envase: envase, Precio: item.Precio, Activo: activo}
		// Last item wins when an envase is repeated in the same request.
		if j, ok := vistos[envase]; ok {
			rows[j] = row
			continue
		}
		vistos[envase] = len(rows)
		rows = append(rows, row)
	}

	if err := s.repo.Reemplazar(ctx, rows); err != nil {
		return nil, err
	}
	log.Info().Int("items", len(rows)).Msg("precios base actualizados")
	return mapPreciosBase(rows), nil
}

func (s *precioBaseService) Desactivar(ctx context.Context, envase string) error {
	n, err := s.repo.Desactivar(ctx, strings.TrimSpace(envase))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPrecioBaseNoEncontrado
	}
	log.Info().Str("envase", envase).Msg("precio base desactivado")
	return nil
}

func mapPreciosBase(rows []model.PrecioBase) *dto.PrecioBaseListResponse {
	data := make([]dto.PrecioBaseResponse, 0, len(rows))
	for _, r := range rows {
		data = append(data, dto.PrecioBaseResponse{
			ID:        r.ID.String(),
			Envase:    r.Envase,
			Precio:    r.Precio,
			Activo:    r.Activo,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.PrecioBaseListResponse{Data: data, Total: len(data)}
}
