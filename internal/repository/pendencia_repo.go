package repository

import (
	"context"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PendenciaRepository interface {
	Create(ctx context.Context, p *model.Pendencia) error
	FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.Pendencia, error)
	ListByEmpresa(ctx context.Context, empresaID uuid.UUID) ([]model.Pendencia, error)
	Update(ctx context.Context, p *model.Pendencia) error
	Delete(ctx context.Context, empresaID, id uuid.UUID) error
}

type pendenciaRepo struct{ db *gorm.DB }

func NewPendenciaRepository(db *gorm.DB) PendenciaRepository { return &pendenciaRepo{db: db} }

func (r *pendenciaRepo) Create(ctx context.Context, p *model.Pendencia) error {
	if p.ID == uuid.Nil {
		p.ID = model.NovoID()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pendenciaRepo) FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.Pendencia, error) {
	var p model.Pendencia
	err := r.db.WithContext(ctx).Where("empresa_id = ? AND id = ?", empresaID, id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pendenciaRepo) ListByEmpresa(ctx context.Context, empresaID uuid.UUID) ([]model.Pendencia, error) {
	var pendencias []model.Pendencia
	err := r.db.WithContext(ctx).
		Where("empresa_id = ?", empresaID).
		Order("resolvida, data DESC").
		Find(&pendencias).Error
	return pendencias, err
}

func (r *pendenciaRepo) Update(ctx context.Context, p *model.Pendencia) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pendenciaRepo) Delete(ctx context.Context, empresaID, id uuid.UUID) error {
	return apagar(r.db.WithContext(ctx), &model.Pendencia{}, empresaID, id)
}
