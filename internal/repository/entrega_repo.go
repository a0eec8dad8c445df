package repository

import (
	"context"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntregaRepository interface {
	Create(ctx context.Context, e *model.Entrega) error
	FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.Entrega, error)
	ListByEmpresa(ctx context.Context, empresaID uuid.UUID) ([]model.Entrega, error)
	// ListByPeriodo returns deliveries issued within [inicio, fim]. Empty bounds are open.
	ListByPeriodo(ctx context.Context, empresaID uuid.UUID, inicio, fim datas.Data) ([]model.Entrega, error)
	Update(ctx context.Context, e *model.Entrega) error
	Delete(ctx context.Context, empresaID, id uuid.UUID) error
}

type entregaRepo struct{ db *gorm.DB }

func NewEntregaRepository(db *gorm.DB) EntregaRepository { return &entregaRepo{db: db} }

func (r *entregaRepo) Create(ctx context.Context, e *model.Entrega) error {
	if e.ID == uuid.Nil {
		e.ID = model.NovoID()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *entregaRepo) FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.Entrega, error) {
	var e model.Entrega
	err := r.db.WithContext(ctx).Where("empresa_id = ? AND id = ?", empresaID, id).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entregaRepo) ListByEmpresa(ctx context.Context, empresaID uuid.UUID) ([]model.Entrega, error) {
	var entregas []model.Entrega
	err := r.db.WithContext(ctx).
		Where("empresa_id = ?", empresaID).
		Order("data_emissao DESC").
		Find(&entregas).Error
	return entregas, err
}

func (r *entregaRepo) ListByPeriodo(ctx context.Context, empresaID uuid.UUID, inicio, fim datas.Data) ([]model.Entrega, error) {
	q := r.db.WithContext(ctx).Where("empresa_id = ?", empresaID)
	if !inicio.Vazia() {
		q = q.Where("data_emissao >= ?", inicio)
	}
	if !fim.Vazia() {
		q = q.Where("data_emissao <= ?", fim)
	}
	var entregas []model.Entrega
	err := q.Order("data_emissao").Find(&entregas).Error
	return entregas, err
}

func (r *entregaRepo) Update(ctx context.Context, e *model.Entrega) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *entregaRepo) Delete(ctx context.Context, empresaID, id uuid.UUID) error {
	return apagar(r.db.WithContext(ctx), &model.Entrega{}, empresaID, id)
}
