package repository

import (
	"context"
	"fmt"

	"liquidacion/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const updatePrecioSQL = `
	UPDATE entregas
	SET precio_unitario = $1, monto = $2, updated_at = now()
	WHERE id = $3`

// entregaPGXWriter sends a whole chunk of price updates as one pgx batch,
// which is much cheaper than one ORM round trip per row on large cargas.
type entregaPGXWriter struct{ pool *pgxpool.Pool }

func NewEntregaPGXWriter(pool *pgxpool.Pool) PrecioWriter {
	return &entregaPGXWriter{pool: pool}
}

func (w *entregaPGXWriter) ActualizarPrecios(ctx context.Context, precios []model.PrecioCalculado) error {
	if len(precios) == 0 {
		return nil
	}
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgx begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, p := range precios {
		batch.Queue(updatePrecioSQL, p.PrecioUnitario.String(), p.Monto.String(), p.EntregaID.String())
	}

	br := tx.SendBatch(ctx, batch)
	for _, p := range precios {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return fmt.Errorf("entrega %s: %w", p.EntregaID, err)
		}
		if tag.RowsAffected() == 0 {
			br.Close()
			return fmt.Errorf("entrega %s: no existe", p.EntregaID)
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
