package repository

import (
	"context"

	"liquidacion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReglaPrecioRepository defines the data access contract for price rules.
// Every list is ordered by priority desc, then most recent first: the order the
// matcher uses as its last tie-break.
type ReglaPrecioRepository interface {
	Listar(ctx context.Context) ([]model.ReglaPrecio, error)
	ListarActivas(ctx context.Context) ([]model.ReglaPrecio, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReglaPrecio, error)
	// Aplicar deletes the given ids and saves (insert or full update) the given
	// rules in one transaction. It returns the number of deleted rows.
	Aplicar(ctx context.Context, eliminar []uuid.UUID, guardar []*model.ReglaPrecio) (int64, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, activa bool) error
}

type reglaPrecioRepository struct{ db *gorm.DB }

func NewReglaPrecioRepository(db *gorm.DB) ReglaPrecioRepository {
	return &reglaPrecioRepository{db: db}
}

func (r *reglaPrecioRepository) Listar(ctx context.Context) ([]model.ReglaPrecio, error) {
	var list []model.ReglaPrecio
	err := r.db.WithContext(ctx).Order("prioridad DESC, created_at DESC").Find(&list).Error
	return list, err
}

func (r *reglaPrecioRepository) ListarActivas(ctx context.Context) ([]model.ReglaPrecio, error) {
	var list []model.ReglaPrecio
	err := r.db.WithContext(ctx).
		Where("activa = true").
		Order("prioridad DESC, created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *reglaPrecioRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ReglaPrecio, error) {
	var regla model.ReglaPrecio
	if err := r.db.WithContext(ctx).First(&regla, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &regla, nil
}

func (r *reglaPrecioRepository) Aplicar(ctx context.Context, eliminar []uuid.UUID, guardar []*model.ReglaPrecio) (int64, error) {
	var eliminadas int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(eliminar) > 0 {
			res := tx.Where("id IN ?", eliminar).Delete(&model.ReglaPrecio{})
			if res.Error != nil {
				return res.Error
			}
			eliminadas = res.RowsAffected
		}
		for _, regla := range guardar {
			var existe int64
			if err := tx.Model(&model.ReglaPrecio{}).Where("id = ?", regla.ID).Count(&existe).Error; err != nil {
				return err
			}
			// Save on an unknown id falls back to an upsert; insert new rules explicitly.
			if existe == 0 {
				if err := tx.Create(regla).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Save(regla).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return eliminadas, err
}

func (r *reglaPrecioRepository) CambiarEstado(ctx context.Context, id uuid.UUID, activa bool) error {
	res := r.db.WithContext(ctx).Model(&model.ReglaPrecio{}).Where("id = ?", id).Update("activa", activa)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
