package infra

import (
	"fmt"

	"desposte/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// AutoMigrate cannot express (partial indexes, composite indexes over
// expressions).
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

// RunMigrations creates or updates all tables and applies the SQL patches.
// Integration tests call it directly against their own database.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on PostgreSQL < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Item{},
		&model.ListaPrecio{},
		&model.PrecioRechazado{},
		&model.TallerGrupo{},
		&model.Taller{},
		&model.TallerDetalle{},
		&model.AlertaSubcorte{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
// Each statement is guarded by an existence check so re-running on an
// already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Historial y dashboard filtran siempre por sede + fecha.
		{"idx talleres sede/fecha", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_talleres_sede_creado') THEN
    CREATE INDEX idx_talleres_sede_creado ON talleres (sede, created_at DESC);
  END IF;
END $$`},
		// El inventario agrega por codigo de subcorte; el indice cubre el
		// GROUP BY sin tocar la tabla de talleres.
		{"idx detalles codigo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_talleres_detalle_codigo') THEN
    CREATE INDEX idx_talleres_detalle_codigo ON talleres_detalle (codigo_producto);
  END IF;
END $$`},
		// Partial index: la bandeja de alertas solo consulta las no revisadas.
		{"idx alertas pendientes", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_alertas_pendientes') THEN
    CREATE INDEX idx_alertas_pendientes ON alertas_subcorte (created_at DESC)
        WHERE revisada = false;
  END IF;
END $$`},
		// La resolucion de precios matchea por referencia sobre filas activas.
		{"idx precios_lista referencia activa", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_precios_lista_ref_activa') THEN
    CREATE INDEX idx_precios_lista_ref_activa ON precios_lista (referencia)
        WHERE activo = true;
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
