package infra

import (
	"fmt"

	"liquidacion/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate for
// every model, then applies the idempotent SQL patches GORM cannot express
// (partial indexes, cascading FKs).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the schema. It is safe to run on every start.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() is built in from PostgreSQL 13; older servers need pgcrypto.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pre-migration patches: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Carga{},
		&model.Entrega{},
		&model.PrecioBase{},
		&model.ReglaPrecio{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own. Each statement uses IF NOT EXISTS semantics so re-running on
// an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one active base price per envase; Reemplazar relies on it.
		{"unique active precio_base per envase", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_precios_base_envase_activo
    ON precios_base (envase) WHERE activo`},

		// Audit lookup by (worker, day).
		{"entregas worker/day index", `
CREATE INDEX IF NOT EXISTS idx_entregas_trabajador_fecha
    ON entregas (id_trabajador, fecha)`},

		// Recalculation reads a carga in (worker, date) order.
		{"entregas carga order index", `
CREATE INDEX IF NOT EXISTS idx_entregas_carga_orden
    ON entregas (carga_id, id_trabajador, fecha)`},

		{"entregas → cargas cascading FK", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_entregas_carga') THEN
    ALTER TABLE entregas
      ADD CONSTRAINT fk_entregas_carga
      FOREIGN KEY (carga_id) REFERENCES cargas(id) ON DELETE CASCADE;
  END IF;
END $$`},

		// Older schemas carried DEFAULT true, which made inserts of inactive rows active.
		{"drop activo/activa defaults", `
ALTER TABLE precios_base ALTER COLUMN activo DROP DEFAULT;
ALTER TABLE reglas_precio ALTER COLUMN activa DROP DEFAULT`},

		{"reglas_precio modo check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_reglas_precio_modo') THEN
    ALTER TABLE reglas_precio
      ADD CONSTRAINT chk_reglas_precio_modo CHECK (modo IN ('OVERRIDE', 'DELTA'));
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
