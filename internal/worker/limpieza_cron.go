package worker

// limpieza_cron.go
// Background goroutine that removes liquidación PDFs older than a maximum age
// from the PDF storage directory. Emailed PDFs are only needed until sent.

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const limpiezaTickInterval = time.Hour

// StartLimpiezaPDF launches the cleanup goroutine. It respects ctx for
// graceful shutdown.
func StartLimpiezaPDF(ctx context.Context, dir string, maxEdad time.Duration) {
	go func() {
		ticker := time.NewTicker(limpiezaTickInterval)
		defer ticker.Stop()

		log.Info().Str("dir", dir).Msg("limpieza_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("limpieza_cron: shutting down")
				return
			case <-ticker.C:
				if n, err := limpiarPDFs(dir, time.Now().Add(-maxEdad)); err != nil {
					log.Warn().Err(err).Msg("limpieza_cron: scan failed")
				} else if n > 0 {
					log.Info().Int("eliminados", n).Msg("limpieza_cron: PDFs removed")
				}
			}
		}
	}()
}

// limpiarPDFs deletes liquidacion_*.pdf files modified before limite.
func limpiarPDFs(dir string, limite time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	eliminados := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "liquidacion_") || filepath.Ext(name) != ".pdf" {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(limite) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			log.Warn().Err(err).Str("file", name).Msg("limpieza_cron: remove failed")
			continue
		}
		eliminados++
	}
	return eliminados, nil
}
