package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"liquidacion/internal/dto"
	"liquidacion/internal/infra"
	"liquidacion/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	prefijoLock      = "recalculo:lock:"
	prefijoResultado = "recalculo:resultado:"
)

// RecalculoRunner is the caller-side wrapper around RecalculoService used by
// the HTTP handler and the queue worker. It holds a Redis lock per carga while
// the batch runs and caches the last result. With a nil client it runs
// unlocked and keeps no results.
type RecalculoRunner struct {
	svc      RecalculoService
	cargas   repository.CargaRepository
	rdb      *redis.Client
	lockTTL  time.Duration
	cacheTTL time.Duration
}

func NewRecalculoRunner(svc RecalculoService, cargas repository.CargaRepository, rdb *redis.Client, lockTTL, cacheTTL time.Duration) *RecalculoRunner {
	return &RecalculoRunner{svc: svc, cargas: cargas, rdb: rdb, lockTTL: lockTTL, cacheTTL: cacheTTL}
}

// Ejecutar recalculates cargaID. It returns ErrRecalculoEnCurso when another
// run holds the lock.
func (r *RecalculoRunner) Ejecutar(ctx context.Context, cargaID uuid.UUID) (*dto.RecalculoResult, error) {
	if err := r.Existe(ctx, cargaID); err != nil {
		return nil, err
	}

	if r.rdb != nil {
		key, token := prefijoLock+cargaID.String(), uuid.NewString()
		ok, err := infra.AdquirirLock(ctx, r.rdb, key, token, r.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRecalculoEnCurso
		}
		defer func() {
			if err := infra.LiberarLock(context.WithoutCancel(ctx), r.rdb, key, token); err != nil {
				log.Warn().Err(err).Str("carga_id", cargaID.String()).Msg("no se pudo liberar el lock de recálculo")
			}
		}()
	}

	res, err := r.svc.Recalcular(ctx, cargaID)
	if err != nil {
		return nil, err
	}
	r.guardar(ctx, res)
	return &res, nil
}

// Existe reports ErrCargaNoEncontrada for unknown cargas.
func (r *RecalculoRunner) Existe(ctx context.Context, cargaID uuid.UUID) error {
	if _, err := r.cargas.FindByID(ctx, cargaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCargaNoEncontrada
		}
		return err
	}
	return nil
}

// Ultimo returns the cached result of the last run on cargaID.
func (r *RecalculoRunner) Ultimo(ctx context.Context, cargaID uuid.UUID) (*dto.RecalculoResult, error) {
	if r.rdb == nil {
		return nil, ErrResultadoNoDisponible
	}
	data, err := r.rdb.Get(ctx, prefijoResultado+cargaID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrResultadoNoDisponible
	}
	if err != nil {
		return nil, err
	}
	var res dto.RecalculoResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *RecalculoRunner) guardar(ctx context.Context, res dto.RecalculoResult) {
	if r.rdb == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo serializar el resultado de recálculo")
		return
	}
	if err := r.rdb.Set(ctx, prefijoResultado+res.CargaID, data, r.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("carga_id", res.CargaID).Msg("no se pudo cachear el resultado de recálculo")
	}
}
