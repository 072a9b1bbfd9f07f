package worker

// recalculo_worker.go
// Processes recalculation jobs from QueueRecalculo. After a successful run it
// renders the liquidación PDF and queues it by email when a recipient is known.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"liquidacion/internal/dto"
	"liquidacion/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RecalculoJobPayload is the job envelope sent to QueueRecalculo.
type RecalculoJobPayload struct {
	CargaID   string `json:"carga_id"`
	Notificar string `json:"notificar,omitempty"`
}

// Recalculador runs one locked recalculation; *service.RecalculoRunner implements it.
type Recalculador interface {
	Ejecutar(ctx context.Context, cargaID uuid.UUID) (*dto.RecalculoResult, error)
}

// GeneradorPDF stores the liquidación PDF of a carga and returns its path.
type GeneradorPDF interface {
	GenerarPDF(ctx context.Context, cargaID uuid.UUID) (string, error)
}

// EmailQueue is the part of Dispatcher the recalculation worker needs.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type RecalculoWorker struct {
	runner              Recalculador
	pdf                 GeneradorPDF
	emails              EmailQueue
	notificarPorDefecto string
}

// NewRecalculoWorker wires the worker. pdf and emails may be nil to disable
// notifications.
func NewRecalculoWorker(runner Recalculador, pdf GeneradorPDF, emails EmailQueue, notificarPorDefecto string) *RecalculoWorker {
	return &RecalculoWorker{runner: runner, pdf: pdf, emails: emails, notificarPorDefecto: notificarPorDefecto}
}

// Process handles a single recalculation job:
//  1. Parse RecalculoJobPayload
//  2. Run the recalculation under the carga lock
//  3. Render the liquidación PDF
//  4. Enqueue the notification email
//
// A run already in progress for the same carga is not an error: its result
// supersedes this job.
func (w *RecalculoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload RecalculoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recalculo_worker: invalid payload")
		return nil
	}
	cargaID, err := uuid.Parse(payload.CargaID)
	if err != nil {
		log.Error().Str("carga_id", payload.CargaID).Msg("recalculo_worker: invalid carga_id")
		return nil
	}

	res, err := w.runner.Ejecutar(ctx, cargaID)
	switch {
	case errors.Is(err, service.ErrRecalculoEnCurso):
		log.Warn().Str("carga_id", payload.CargaID).Msg("recalculo_worker: recálculo ya en curso, job descartado")
		return nil
	case errors.Is(err, service.ErrCargaNoEncontrada):
		log.Error().Str("carga_id", payload.CargaID).Msg("recalculo_worker: carga not found")
		return nil
	case err != nil:
		return fmt.Errorf("recalculo_worker: carga %s: %w", payload.CargaID, err)
	}

	log.Info().
		Str("carga_id", payload.CargaID).
		Int("actualizadas", res.UpdatedCount).
		Int("errores", len(res.Errors)).
		Msg("recalculo_worker: recálculo completado")

	destino := payload.Notificar
	if destino == "" {
		destino = w.notificarPorDefecto
	}
	if destino == "" || w.pdf == nil || w.emails == nil {
		return nil
	}

	pdfPath, err := w.pdf.GenerarPDF(ctx, cargaID)
	if err != nil {
		log.Warn().Err(err).Str("carga_id", payload.CargaID).Msg("recalculo_worker: PDF generation failed")
		return nil
	}

	emailJob := EmailJobPayload{
		ToEmail: destino,
		Subject: fmt.Sprintf("Liquidación de cosecha — carga %s", payload.CargaID),
		Body:    resumen(res),
		PDFPath: pdfPath,
	}
	if err := w.emails.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", destino).Msg("recalculo_worker: failed to enqueue email")
	} else {
		log.Info().Str("email", destino).Msg("recalculo_worker: email job enqueued")
	}
	return nil
}

func resumen(res *dto.RecalculoResult) string {
	s := fmt.Sprintf("Recálculo finalizado.\nEntregas actualizadas: %d\nTrabajadores: %d\n", res.UpdatedCount, len(res.TotalsByWorker))
	if len(res.Errors) > 0 {
		s += fmt.Sprintf("Errores: %d (ver detalle en GET /v1/cargas/%s/recalculo)\n", len(res.Errors), res.CargaID)
	}
	if len(res.Conflictos) > 0 {
		s += fmt.Sprintf("Conflictos de reglas: %d\n", len(res.Conflictos))
	}
	return s
}
