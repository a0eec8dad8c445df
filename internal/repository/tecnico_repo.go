package repository

import (
	"context"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TecnicoRepository interface {
	Create(ctx context.Context, t *model.Tecnico) error
	ListByEmpresa(ctx context.Context, empresaID uuid.UUID) ([]model.Tecnico, error)
	Delete(ctx context.Context, empresaID, id uuid.UUID) error
}

type tecnicoRepo struct{ db *gorm.DB }

func NewTecnicoRepository(db *gorm.DB) TecnicoRepository { return &tecnicoRepo{db: db} }

func (r *tecnicoRepo) Create(ctx context.Context, t *model.Tecnico) error {
	if t.ID == uuid.Nil {
		t.ID = model.NovoID()
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tecnicoRepo) ListByEmpresa(ctx context.Context, empresaID uuid.UUID) ([]model.Tecnico, error) {
	var tecnicos []model.Tecnico
	err := r.db.WithContext(ctx).Where("empresa_id = ?", empresaID).Order("nome").Find(&tecnicos).Error
	return tecnicos, err
}

func (r *tecnicoRepo) Delete(ctx context.Context, empresaID, id uuid.UUID) error {
	return apagar(r.db.WithContext(ctx), &model.Tecnico{}, empresaID, id)
}
