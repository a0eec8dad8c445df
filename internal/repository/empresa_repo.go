package repository

import (
	"context"
	"strings"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmpresaRepository interface {
	Create(ctx context.Context, e *model.Empresa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error)
	// FindByNome matches case-insensitively after trimming.
	FindByNome(ctx context.Context, nome string) (*model.Empresa, error)
}

type empresaRepo struct{ db *gorm.DB }

func NewEmpresaRepository(db *gorm.DB) EmpresaRepository { return &empresaRepo{db: db} }

func (r *empresaRepo) Create(ctx context.Context, e *model.Empresa) error {
	if e.ID == uuid.Nil {
		e.ID = model.NovoID()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *empresaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error) {
	var e model.Empresa
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *empresaRepo) FindByNome(ctx context.Context, nome string) (*model.Empresa, error) {
	var e model.Empresa
	err := r.db.WithContext(ctx).
		Where("LOWER(nome) = LOWER(?)", strings.TrimSpace(nome)).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}
