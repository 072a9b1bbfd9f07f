package repository

import (
	"context"

	"liquidacion/internal/model"

	"gorm.io/gorm"
)

type PrecioBaseRepository interface {
	// ListarActivos returns active rows ordered by envase, newest first within an envase.
	ListarActivos(ctx context.Context) ([]model.PrecioBase, error)
	// Reemplazar deactivates the current active row of each envase and appends the new rows.
	Reemplazar(ctx context.Context, precios []model.PrecioBase) error
	// Desactivar deactivates every active row for envase and reports how many changed.
	Desactivar(ctx context.Context, envase string) (int64, error)
}

type precioBaseRepository struct{ db *gorm.DB }

func NewPrecioBaseRepository(db *gorm.DB) PrecioBaseRepository {
	return &precioBaseRepository{db: db}
}

func (r *precioBaseRepository) ListarActivos(ctx context.Context) ([]model.PrecioBase, error) {
	var rows []model.PrecioBase
	err := r.db.WithContext(ctx).
		Where("activo = true").
		Order("envase ASC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *precioBaseRepository) Reemplazar(ctx context.Context, precios []model.PrecioBase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range precios {
			if err := tx.Model(&model.PrecioBase{}).
				Where("envase = ? AND activo = true", precios[i].Envase).
				Update("activo", false).Error; err != nil {
				return err
			}
			if err := tx.Create(&precios[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *precioBaseRepository) Desactivar(ctx context.Context, envase string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.PrecioBase{}).
		Where("envase = ? AND activo = true", envase).
		Update("activo", false)
	return res.RowsAffected, res.Error
}
