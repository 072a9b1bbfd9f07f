package repository

import (
	"context"
	"fmt"
	"time"

	"liquidacion/internal/dto"
	"liquidacion/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// liquidable restricts a query to deliveries the recalculation prices.
const liquidable = "id_trabajador IS NOT NULL AND envase IS NOT NULL AND envase <> ''"

// PrecioWriter persists computed unit prices and amounts.
type PrecioWriter interface {
	ActualizarPrecios(ctx context.Context, precios []model.PrecioCalculado) error
}

// EntregaRepository is the read side of deliveries plus the gorm price writer.
type EntregaRepository interface {
	PrecioWriter

	// ListarPorCarga returns every delivery of a carga ordered by worker id, then date.
	ListarPorCarga(ctx context.Context, cargaID uuid.UUID) ([]model.Entrega, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Entrega, error)
	// FindByIDEntrega returns the first delivery carrying the external id.
	FindByIDEntrega(ctx context.Context, idEntrega string) (*model.Entrega, error)
	// ListarPorTrabajadorFecha returns every delivery of a worker on one calendar day.
	ListarPorTrabajadorFecha(ctx context.Context, idTrabajador int64, fecha time.Time) ([]model.Entrega, error)

	TotalesPorTrabajador(ctx context.Context, cargaID uuid.UUID) ([]dto.TotalTrabajador, error)
	TotalesPorFecha(ctx context.Context, cargaID uuid.UUID) ([]dto.TotalFecha, error)
	ResumenEnvases(ctx context.Context, cargaID uuid.UUID) ([]dto.EnvaseResumen, int64, error)
	// ResumenTrabajadores groups liquidable deliveries of every carga by (day, worker)
	// for days in [desde, hasta]. A non-nil idTrabajador keeps only that worker.
	ResumenTrabajadores(ctx context.Context, desde, hasta time.Time, idTrabajador *int64) ([]dto.ResumenTrabajadorDia, error)
}

type entregaRepository struct{ db *gorm.DB }

func NewEntregaRepository(db *gorm.DB) EntregaRepository {
	return &entregaRepository{db: db}
}

func (r *entregaRepository) ListarPorCarga(ctx context.Context, cargaID uuid.UUID) ([]model.Entrega, error) {
	var list []model.Entrega
	err := r.db.WithContext(ctx).
		Where("carga_id = ?", cargaID).
		Order("id_trabajador ASC NULLS LAST, fecha ASC NULLS LAST, created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *entregaRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Entrega, error) {
	var e model.Entrega
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entregaRepository) FindByIDEntrega(ctx context.Context, idEntrega string) (*model.Entrega, error) {
	var e model.Entrega
	err := r.db.WithContext(ctx).
		Where("id_entrega = ?", idEntrega).
		Order("created_at ASC").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entregaRepository) ListarPorTrabajadorFecha(ctx context.Context, idTrabajador int64, fecha time.Time) ([]model.Entrega, error) {
	var list []model.Entrega
	err := r.db.WithContext(ctx).
		Where("id_trabajador = ? AND fecha = ?", idTrabajador, fecha.Format(time.DateOnly)).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// ActualizarPrecios writes every tuple inside one transaction; a missing row
// aborts the whole chunk so the caller can retry row by row.
func (r *entregaRepository) ActualizarPrecios(ctx context.Context, precios []model.PrecioCalculado) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range precios {
			res := tx.Model(&model.Entrega{}).
				Where("id = ?", p.EntregaID).
				Updates(map[string]interface{}{
					"precio_unitario": p.PrecioUnitario,
					"monto":           p.Monto,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("entrega %s: %w", p.EntregaID, gorm.ErrRecordNotFound)
			}
		}
		return nil
	})
}

func (r *entregaRepository) TotalesPorTrabajador(ctx context.Context, cargaID uuid.UUID) ([]dto.TotalTrabajador, error) {
	var rows []struct {
		IDTrabajador     int64
		NombreTrabajador *string
		Monto            decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Entrega{}).
		Select("id_trabajador, nombre_trabajador, COALESCE(SUM(monto), 0) AS monto").
		Where("carga_id = ? AND "+liquidable, cargaID).
		Group("id_trabajador, nombre_trabajador").
		Order("id_trabajador ASC, nombre_trabajador ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.TotalTrabajador, 0, len(rows))
	for _, row := range rows {
		nombre := "Sin nombre"
		if row.NombreTrabajador != nil && *row.NombreTrabajador != "" {
			nombre = *row.NombreTrabajador
		}
		out = append(out, dto.TotalTrabajador{IDTrab: row.IDTrabajador, NombreTrab: nombre, Monto: row.Monto})
	}
	return out, nil
}

func (r *entregaRepository) TotalesPorFecha(ctx context.Context, cargaID uuid.UUID) ([]dto.TotalFecha, error) {
	var rows []struct {
		Fecha time.Time
		Monto decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Entrega{}).
		Select("fecha, COALESCE(SUM(monto), 0) AS monto").
		Where("carga_id = ? AND fecha IS NOT NULL AND "+liquidable, cargaID).
		Group("fecha").
		Order("fecha ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.TotalFecha, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.TotalFecha{Fecha: row.Fecha.Format(time.DateOnly), Monto: row.Monto})
	}
	return out, nil
}

func (r *entregaRepository) ResumenEnvases(ctx context.Context, cargaID uuid.UUID) ([]dto.EnvaseResumen, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Entrega{}).
		Where("carga_id = ?", cargaID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	const envaseExpr = "COALESCE(NULLIF(envase, ''), 'Sin especificar')"
	var rows []dto.EnvaseResumen
	err := r.db.WithContext(ctx).Model(&model.Entrega{}).
		Select(envaseExpr+" AS envase, COALESCE(SUM(nro_envases), 0) AS count").
		Where("carga_id = ?", cargaID).
		Group(envaseExpr).
		Order("envase ASC").
		Scan(&rows).Error
	return rows, total, err
}

func (r *entregaRepository) ResumenTrabajadores(ctx context.Context, desde, hasta time.Time, idTrabajador *int64) ([]dto.ResumenTrabajadorDia, error) {
	var rows []struct {
		Fecha            time.Time
		IDTrabajador     int64
		NombreTrabajador *string
		TiposEnvase      string
		TotalEnvases     int64
		Monto            decimal.Decimal
	}
	q := r.db.WithContext(ctx).Model(&model.Entrega{}).
		Select(`fecha, id_trabajador,
			MAX(nombre_trabajador) AS nombre_trabajador,
			STRING_AGG(DISTINCT envase, ', ' ORDER BY envase) AS tipos_envase,
			COALESCE(SUM(nro_envases), 0) AS total_envases,
			COALESCE(SUM(monto), 0) AS monto`).
		Where("fecha BETWEEN ? AND ? AND "+liquidable, desde.Format(time.DateOnly), hasta.Format(time.DateOnly))
	if idTrabajador != nil {
		q = q.Where("id_trabajador = ?", *idTrabajador)
	}
	err := q.Group("fecha, id_trabajador").
		Order("fecha ASC, id_trabajador ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.ResumenTrabajadorDia, 0, len(rows))
	for _, row := range rows {
		nombre := "Sin nombre"
		if row.NombreTrabajador != nil && *row.NombreTrabajador != "" {
			nombre = *row.NombreTrabajador
		}
		out = append(out, dto.ResumenTrabajadorDia{
			Fecha:        row.Fecha.Format(time.DateOnly),
			IDTrab:       row.IDTrabajador,
			NombreTrab:   nombre,
			TiposEnvase:  row.TiposEnvase,
			TotalEnvases: row.TotalEnvases,
			Monto:        row.Monto,
		})
	}
	return out, nil
}
