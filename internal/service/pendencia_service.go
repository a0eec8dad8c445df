package service

import (
	"context"
	"strings"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"

	"github.com/google/uuid"
)

type PendenciaService interface {
	Listar(ctx context.Context, ator Ator) ([]model.Pendencia, error)
	Criar(ctx context.Context, ator Ator, req dto.CriarPendenciaRequest) (*model.Pendencia, error)
	Atualizar(ctx context.Context, ator Ator, id uuid.UUID, req dto.AtualizarPendenciaRequest) (*model.Pendencia, error)
	// Resolver marks the pendency resolved. There is no way back.
	Resolver(ctx context.Context, ator Ator, id uuid.UUID) (*model.Pendencia, error)
	Excluir(ctx context.Context, ator Ator, id uuid.UUID) error
}

type pendenciaService struct {
	repo repository.PendenciaRepository
	loc  *time.Location
}

func NewPendenciaService(repo repository.PendenciaRepository, loc *time.Location) PendenciaService {
	return &pendenciaService{repo: repo, loc: loc}
}

func (s *pendenciaService) Listar(ctx context.Context, ator Ator) ([]model.Pendencia, error) {
	return s.repo.ListByEmpresa(ctx, ator.EmpresaID)
}

func (s *pendenciaService) Criar(ctx context.Context, ator Ator, req dto.CriarPendenciaRequest) (*model.Pendencia, error) {
	if !permissao.ParaPendencia(ator.Papel, false, false).Criar {
		return nil, ErrSemPermissao
	}
	v := validacao{}
	p := &model.Pendencia{
		EmpresaID:         ator.EmpresaID,
		Prestador:         strings.TrimSpace(req.Prestador),
		Referencia:        strings.TrimSpace(req.Referencia),
		Item:              strings.TrimSpace(req.Item),
		Quantidade:        req.Quantidade,
		Motivo:            req.Motivo,
		Data:              lerData(v, "data", req.Data),
		PrevisaoResolucao: lerData(v, "previsao_resolucao", req.PrevisaoResolucao),
	}
	if p.Data.Vazia() {
		p.Data = datas.Hoje(s.loc)
	}
	validarPendencia(v, p)
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *pendenciaService) Atualizar(ctx context.Context, ator Ator, id uuid.UUID, req dto.AtualizarPendenciaRequest) (*model.Pendencia, error) {
	p, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	c := permissao.ParaPendencia(ator.Papel, true, p.Resolvida)
	if !c.Criar {
		return nil, ErrSemPermissao
	}
	if !c.EditarCampos {
		return nil, ErrBloqueado
	}

	v := validacao{}
	if req.Prestador != nil {
		p.Prestador = strings.TrimSpace(*req.Prestador)
	}
	if req.Referencia != nil {
		p.Referencia = strings.TrimSpace(*req.Referencia)
	}
	if req.Item != nil {
		p.Item = strings.TrimSpace(*req.Item)
	}
	if req.Quantidade != nil {
		p.Quantidade = *req.Quantidade
	}
	if req.Motivo != nil {
		p.Motivo = *req.Motivo
	}
	if req.Data != nil {
		p.Data = lerData(v, "data", *req.Data)
	}
	if req.PrevisaoResolucao != nil {
		p.PrevisaoResolucao = lerData(v, "previsao_resolucao", *req.PrevisaoResolucao)
	}
	validarPendencia(v, p)
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *pendenciaService) Resolver(ctx context.Context, ator Ator, id uuid.UUID) (*model.Pendencia, error) {
	p, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	c := permissao.ParaPendencia(ator.Papel, true, p.Resolvida)
	if !c.Criar {
		return nil, ErrSemPermissao
	}
	if !c.Resolver {
		return nil, ErrConflito
	}
	p.Resolvida = true
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *pendenciaService) Excluir(ctx context.Context, ator Ator, id uuid.UUID) error {
	p, err := s.carregar(ctx, ator, id)
	if err != nil {
		return err
	}
	if !permissao.ParaPendencia(ator.Papel, true, p.Resolvida).Excluir {
		return ErrSemPermissao
	}
	return traduzir(s.repo.Delete(ctx, ator.EmpresaID, id))
}

func (s *pendenciaService) carregar(ctx context.Context, ator Ator, id uuid.UUID) (*model.Pendencia, error) {
	p, err := s.repo.FindByID(ctx, ator.EmpresaID, id)
	if err != nil {
		return nil, traduzir(err)
	}
	return p, nil
}

func validarPendencia(v validacao, p *model.Pendencia) {
	if p.Prestador == "" {
		v.add("prestador", "prestador obrigatorio")
	}
	if p.Referencia == "" {
		v.add("referencia", "referencia obrigatoria")
	}
	if p.Item == "" {
		v.add("item", "item obrigatorio")
	}
	if p.Quantidade <= 0 {
		v.add("quantidade", "quantidade deve ser maior que zero")
	}
	if p.Data.Vazia() {
		if _, ok := v["data"]; !ok {
			v.add("data", "data obrigatoria")
		}
	}
}
