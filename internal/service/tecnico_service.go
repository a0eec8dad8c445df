package service

import (
	"context"
	"strings"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"

	"github.com/google/uuid"
)

// TecnicoService manages the receiver registry. Deliveries copy the name, so
// removing a technician leaves history untouched.
type TecnicoService interface {
	Listar(ctx context.Context, ator Ator) ([]model.Tecnico, error)
	Criar(ctx context.Context, ator Ator, nome string) (*model.Tecnico, error)
	Excluir(ctx context.Context, ator Ator, id uuid.UUID) error
}

type tecnicoService struct {
	repo repository.TecnicoRepository
}

func NewTecnicoService(repo repository.TecnicoRepository) TecnicoService {
	return &tecnicoService{repo: repo}
}

func (s *tecnicoService) Listar(ctx context.Context, ator Ator) ([]model.Tecnico, error) {
	return s.repo.ListByEmpresa(ctx, ator.EmpresaID)
}

func (s *tecnicoService) Criar(ctx context.Context, ator Ator, nome string) (*model.Tecnico, error) {
	if !permissao.ParaAdministracao(ator.Papel).Criar {
		return nil, ErrSemPermissao
	}
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, &ErroValidacao{Campos: map[string]string{"nome": "nome obrigatorio"}}
	}
	existentes, err := s.repo.ListByEmpresa(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	for _, t := range existentes {
		if strings.EqualFold(t.Nome, nome) {
			return nil, ErrConflito
		}
	}
	t := &model.Tecnico{EmpresaID: ator.EmpresaID, Nome: nome}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *tecnicoService) Excluir(ctx context.Context, ator Ator, id uuid.UUID) error {
	if !permissao.ParaAdministracao(ator.Papel).Excluir {
		return ErrSemPermissao
	}
	return traduzir(s.repo.Delete(ctx, ator.EmpresaID, id))
}
