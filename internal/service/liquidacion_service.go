package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"liquidacion/internal/dto"
	"liquidacion/internal/infra"
	"liquidacion/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LiquidacionService renders the per-worker and per-day summary of a carga from
// the amounts stored by the last recalculation, and the same per-worker view
// across cargas for a date range.
type LiquidacionService interface {
	EscribirPDF(ctx context.Context, cargaID uuid.UUID, w io.Writer) error
	GenerarPDF(ctx context.Context, cargaID uuid.UUID) (string, error)
	ResumenTrabajadores(ctx context.Context, desde, hasta time.Time, trabajador *int64) (*dto.ResumenTrabajadoresResponse, error)
}

// maxDiasResumen bounds the range of ResumenTrabajadores to one season.
const maxDiasResumen = 366

type liquidacionService struct {
	cargas         repository.CargaRepository
	entregas       repository.EntregaRepository
	pdfStoragePath string
}

func NewLiquidacionService(cargas repository.CargaRepository, entregas repository.EntregaRepository, pdfStoragePath string) LiquidacionService {
	return &liquidacionService{cargas: cargas, entregas: entregas, pdfStoragePath: pdfStoragePath}
}

func (s *liquidacionService) EscribirPDF(ctx context.Context, cargaID uuid.UUID, w io.Writer) error {
	datos, err := s.datos(ctx, cargaID)
	if err != nil {
		return err
	}
	return infra.EscribirLiquidacionPDF(w, datos)
}

// GenerarPDF stores the summary under the configured PDF directory.
func (s *liquidacionService) GenerarPDF(ctx context.Context, cargaID uuid.UUID) (string, error) {
	datos, err := s.datos(ctx, cargaID)
	if err != nil {
		return "", err
	}
	return infra.GenerarLiquidacionPDF(datos, s.pdfStoragePath)
}

func (s *liquidacionService) ResumenTrabajadores(ctx context.Context, desde, hasta time.Time, trabajador *int64) (*dto.ResumenTrabajadoresResponse, error) {
	if hasta.Before(desde) {
		return nil, fmt.Errorf("%w: hasta (%s) anterior a desde (%s)", ErrRangoFechasInvalido,
			hasta.Format(time.DateOnly), desde.Format(time.DateOnly))
	}
	if hasta.Sub(desde) > maxDiasResumen*24*time.Hour {
		return nil, fmt.Errorf("%w: máximo %d días", ErrRangoFechasInvalido, maxDiasResumen)
	}

	resumenes, err := s.entregas.ResumenTrabajadores(ctx, desde, hasta, trabajador)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, r := range resumenes {
		total = total.Add(r.Monto)
	}
	return &dto.ResumenTrabajadoresResponse{
		Desde:     desde.Format(time.DateOnly),
		Hasta:     hasta.Format(time.DateOnly),
		Resumenes: resumenes,
		Total:     len(resumenes),
		Monto:     total,
	}, nil
}

func (s *liquidacionService) datos(ctx context.Context, cargaID uuid.UUID) (infra.LiquidacionPDF, error) {
	carga, err := s.cargas.FindByID(ctx, cargaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return infra.LiquidacionPDF{}, ErrCargaNoEncontrada
		}
		return infra.LiquidacionPDF{}, err
	}
	porTrabajador, err := s.entregas.TotalesPorTrabajador(ctx, cargaID)
	if err != nil {
		return infra.LiquidacionPDF{}, err
	}
	porFecha, err := s.entregas.TotalesPorFecha(ctx, cargaID)
	if err != nil {
		return infra.LiquidacionPDF{}, err
	}
	return infra.LiquidacionPDF{
		Carga:         carga,
		PorTrabajador: porTrabajador,
		PorFecha:      porFecha,
		GeneradoEn:    time.Now(),
	}, nil
}
