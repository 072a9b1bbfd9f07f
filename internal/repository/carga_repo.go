package repository

import (
	"context"

	"liquidacion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const insertBatchSize = 500

// CargaRepository stores delivery batches.
type CargaRepository interface {
	// CrearConEntregas inserts the carga and all its deliveries in one transaction.
	CrearConEntregas(ctx context.Context, c *model.Carga, entregas []model.Entrega) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Carga, error)
	Listar(ctx context.Context) ([]model.Carga, error)
}

type cargaRepository struct{ db *gorm.DB }

func NewCargaRepository(db *gorm.DB) CargaRepository {
	return &cargaRepository{db: db}
}

func (r *cargaRepository) CrearConEntregas(ctx context.Context, c *model.Carga, entregas []model.Entrega) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c.Filas = len(entregas)
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		for i := range entregas {
			entregas[i].CargaID = c.ID
		}
		if len(entregas) == 0 {
			return nil
		}
		return tx.CreateInBatches(entregas, insertBatchSize).Error
	})
}

func (r *cargaRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Carga, error) {
	var c model.Carga
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cargaRepository) Listar(ctx context.Context) ([]model.Carga, error) {
	var list []model.Carga
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}
