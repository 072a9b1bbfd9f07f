package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liquidacion/internal/config"
	"liquidacion/internal/handler"
	"liquidacion/internal/infra"
	"liquidacion/internal/router"
	"liquidacion/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title           Liquidación de cosecha API
// @version         1.0
// @description     Motor de precios por regla para la liquidación de cosecha a trato.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in development, JSON in production
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pool *pgxpool.Pool
	if cfg.PGXBulkWrites {
		pool, err = infra.NewPGXPool(ctx, cfg.DatabaseURL, int32(cfg.RecalcWorkers+2))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open pgx pool")
		}
		defer pool.Close()
	}

	svcs := router.NuevosServicios(cfg, db, rdb, pool)

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	if !mailer.Configurado() {
		log.Warn().Msg("SMTP_HOST vacío: las notificaciones por email fallarán")
	}
	dispatcher := worker.NewDispatcher(rdb)
	worker.NewPool(rdb, map[string]worker.JobHandler{
		worker.JobRecalculo: worker.NewRecalculoWorker(svcs.Recalculo, svcs.Liquidacion, dispatcher, cfg.NotifyEmail),
		worker.JobEmail:     worker.NewEmailWorker(mailer),
	}, cfg.RecalcMaxIntentos).Start(ctx, cfg.WorkerPoolSize)

	worker.StartLimpiezaPDF(ctx, cfg.PDFStoragePath, 7*24*time.Hour)

	r := router.NewWithServicios(cfg, svcs, dispatcher, handler.Health(db, rdb, pool), rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("liquidación backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
