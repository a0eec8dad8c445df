package repository

import (
	"context"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Restauracao lists the collections a backup restore replaces. A nil field
// leaves that collection untouched.
type Restauracao struct {
	Entregas   *[]model.Entrega
	Pendencias *[]model.Pendencia
	Demandas   *[]model.DemandaComercial
	Tecnicos   *[]model.Tecnico
}

type BackupRepository interface {
	// Restaurar replaces every present collection of the tenant in a single
	// transaction. Either all of them are replaced or none is.
	Restaurar(ctx context.Context, empresaID uuid.UUID, r Restauracao) error
}

type backupRepo struct{ db *gorm.DB }

func NewBackupRepository(db *gorm.DB) BackupRepository { return &backupRepo{db: db} }

func (r *backupRepo) Restaurar(ctx context.Context, empresaID uuid.UUID, rest Restauracao) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rest.Entregas != nil {
			if err := substituir(tx, empresaID, *rest.Entregas); err != nil {
				return err
			}
		}
		if rest.Pendencias != nil {
			if err := substituir(tx, empresaID, *rest.Pendencias); err != nil {
				return err
			}
		}
		if rest.Demandas != nil {
			if err := substituir(tx, empresaID, *rest.Demandas); err != nil {
				return err
			}
		}
		if rest.Tecnicos != nil {
			return substituir(tx, empresaID, *rest.Tecnicos)
		}
		return nil
	})
}
