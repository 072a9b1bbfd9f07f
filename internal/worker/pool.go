package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueRecalculo = "jobs:recalculo"
	QueueEmail     = "jobs:email"

	JobRecalculo = "recalculo"
	JobEmail     = "email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JobHandler processes the payload of one job type. A returned error is
// retried and, after the last attempt, the job goes to the DLQ.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueRecalculo pushes a recalculation job to Redis.
func (d *Dispatcher) EnqueueRecalculo(ctx context.Context, cargaID uuid.UUID, notificar string) error {
	return d.enqueue(ctx, QueueRecalculo, JobRecalculo, RecalculoJobPayload{CargaID: cargaID.String(), Notificar: notificar})
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb         *redis.Client
	handlers    map[string]JobHandler
	maxAttempts int
	backoff     func(attempt int) time.Duration
	// pausaError is how long a worker waits after a Redis error other than a timeout.
	pausaError time.Duration
}

// NewPool registers one handler per job type. maxAttempts below 1 means 1.
func NewPool(rdb *redis.Client, handlers map[string]JobHandler, maxAttempts int) *Pool {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Pool{
		rdb:         rdb,
		handlers:    handlers,
		maxAttempts: maxAttempts,
		// 1s, 2s, 4s …
		backoff:    func(attempt int) time.Duration { return time.Duration(1<<uint(attempt-1)) * time.Second },
		pausaError: time.Second,
	}
}

// Start launches numWorkers goroutines consuming every queue.
// Each goroutine blocks on BRPOP, so idle workers use no CPU.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	queues := []string{QueueRecalculo, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue // timeout or shutting down
			}
			if err != nil {
				log.Error().Err(err).Int("worker", id).Dur("pausa", p.pausaError).Msg("worker: BRPOP failed")
				select {
				case <-ctx.Done():
				case <-time.After(p.pausaError):
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "", json.RawMessage(raw), "payload ilegible: "+err.Error(), 0)
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "tipo de job desconocido", 0)
		return
	}

	log.Info().Str("type", job.Type).Str("queue", queue).Msg("processing job")
	attempts, err := p.ejecutar(ctx, h, job)
	if err != nil {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), attempts)
	}
}

// ejecutar runs h up to maxAttempts times with exponential backoff between
// attempts. It returns the attempts made and the last error.
func (p *Pool) ejecutar(ctx context.Context, h JobHandler, job Job) (int, error) {
	var lastErr error
	for i := 1; i <= p.maxAttempts; i++ {
		if i > 1 {
			select {
			case <-ctx.Done():
				return i - 1, ctx.Err()
			case <-time.After(p.backoff(i - 1)):
			}
		}
		err := p.safeProcess(ctx, h, job.Payload)
		if err == nil {
			return i, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("type", job.Type).Int("attempt", i).Msg("job attempt failed")
	}
	return p.maxAttempts, lastErr
}

func (p *Pool) safeProcess(ctx context.Context, h JobHandler, raw json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.Process(ctx, raw)
}
