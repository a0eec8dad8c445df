package infra

import (
	"fmt"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and brings the
// schema up to date.
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

// RunMigrations creates or updates every table, then applies the indexes
// AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Empresa{},
		&model.Usuario{},
		&model.Tecnico{},
		&model.Entrega{},
		&model.Pendencia{},
		&model.DemandaComercial{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL. Each statement is guarded so
// re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// company names are matched case-insensitively on registration
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_empresas_nome_lower ON empresas (LOWER(nome))`,
		// listing and reporting filter by tenant and issue date
		`CREATE INDEX IF NOT EXISTS idx_entregas_empresa_emissao ON entregas (empresa_id, data_emissao DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_demandas_empresa_pedido ON demandas_comerciais (empresa_id, data_pedido)`,
		// partial index for the open-pendency calendar query
		`CREATE INDEX IF NOT EXISTS idx_pendencias_abertas ON pendencias (empresa_id, previsao_resolucao) WHERE resolvida = false`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pendencias_quantidade') THEN
		    ALTER TABLE pendencias ADD CONSTRAINT chk_pendencias_quantidade CHECK (quantidade > 0);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
