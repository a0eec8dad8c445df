package repository

import (
	"context"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DemandaRepository interface {
	Create(ctx context.Context, d *model.DemandaComercial) error
	FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.DemandaComercial, error)
	ListByEmpresa(ctx context.Context, empresaID uuid.UUID) ([]model.DemandaComercial, error)
	// ListByPeriodo filters on the request date (data_pedido).
	ListByPeriodo(ctx context.Context, empresaID uuid.UUID, inicio, fim datas.Data) ([]model.DemandaComercial, error)
	Update(ctx context.Context, d *model.DemandaComercial) error
	Delete(ctx context.Context, empresaID, id uuid.UUID) error
}

type demandaRepo struct{ db *gorm.DB }

func NewDemandaRepository(db *gorm.DB) DemandaRepository { return &demandaRepo{db: db} }

func (r *demandaRepo) Create(ctx context.Context, d *model.DemandaComercial) error {
	if d.ID == uuid.Nil {
		d.ID = model.NovoID()
	}
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *demandaRepo) FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.DemandaComercial, error) {
	var d model.DemandaComercial
	err := r.db.WithContext(ctx).Where("empresa_id = ? AND id = ?", empresaID, id).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *demandaRepo) ListByEmpresa(ctx context.Context, empresaID uuid.UUID) ([]model.DemandaComercial, error) {
	var demandas []model.DemandaComercial
	err := r.db.WithContext(ctx).
		Where("empresa_id = ?", empresaID).
		Order("prazo").
		Find(&demandas).Error
	return demandas, err
}

func (r *demandaRepo) ListByPeriodo(ctx context.Context, empresaID uuid.UUID, inicio, fim datas.Data) ([]model.DemandaComercial, error) {
	q := r.db.WithContext(ctx).Where("empresa_id = ?", empresaID)
	if !inicio.Vazia() {
		q = q.Where("data_pedido >= ?", inicio)
	}
	if !fim.Vazia() {
		q = q.Where("data_pedido <= ?", fim)
	}
	var demandas []model.DemandaComercial
	err := q.Order("data_pedido").Find(&demandas).Error
	return demandas, err
}

func (r *demandaRepo) Update(ctx context.Context, d *model.DemandaComercial) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *demandaRepo) Delete(ctx context.Context, empresaID, id uuid.UUID) error {
	return apagar(r.db.WithContext(ctx), &model.DemandaComercial{}, empresaID, id)
}
