package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/filtro"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// limiteLote bounds the concurrent writes of a bulk operation.
const limiteLote = 8

type EntregaService interface {
	Listar(ctx context.Context, ator Ator, f filtro.Filtro, pagina int) (*filtro.Pagina[model.Entrega], error)
	Obter(ctx context.Context, ator Ator, id uuid.UUID) (*dto.EntregaDetalheResponse, error)
	Criar(ctx context.Context, ator Ator, req dto.CriarEntregaRequest) (*model.Entrega, error)
	Atualizar(ctx context.Context, ator Ator, id uuid.UUID, req dto.AtualizarEntregaRequest) (*model.Entrega, error)
	Excluir(ctx context.Context, ator Ator, id uuid.UUID) error
	// AtualizarStatusLote applies one status to many deliveries and reports
	// the outcome of every record, in request order.
	AtualizarStatusLote(ctx context.Context, ator Ator, ids []uuid.UUID, status model.StatusEntrega) (*dto.LoteStatusResponse, error)
}

type entregaService struct {
	repo repository.EntregaRepository
}

func NewEntregaService(repo repository.EntregaRepository) EntregaService {
	return &entregaService{repo: repo}
}

func (s *entregaService) Listar(ctx context.Context, ator Ator, f filtro.Filtro, pagina int) (*filtro.Pagina[model.Entrega], error) {
	entregas, err := s.repo.ListByEmpresa(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	visiveis := filtro.Aplicar(entregas, f)
	filtro.Ordenar(visiveis)
	p := filtro.Paginar(visiveis, pagina, filtro.TamanhoPagina)
	return &p, nil
}

func (s *entregaService) Obter(ctx context.Context, ator Ator, id uuid.UUID) (*dto.EntregaDetalheResponse, error) {
	e, err := s.repo.FindByID(ctx, ator.EmpresaID, id)
	if err != nil {
		return nil, traduzir(err)
	}
	return &dto.EntregaDetalheResponse{
		Entrega:    *e,
		Permissoes: permissao.ParaEntrega(ator.Papel, permissao.RegistroEntrega{Persistido: true, StatusAdmin: e.StatusAdmin}),
	}, nil
}

func (s *entregaService) Criar(ctx context.Context, ator Ator, req dto.CriarEntregaRequest) (*model.Entrega, error) {
	if !permissao.ParaEntrega(ator.Papel, permissao.RegistroEntrega{}).Criar {
		return nil, ErrSemPermissao
	}

	v := validacao{}
	e := &model.Entrega{
		EmpresaID:     ator.EmpresaID,
		NumeroNF:      strings.TrimSpace(req.NumeroNF),
		DataEmissao:   lerData(v, "data_emissao", req.DataEmissao),
		DataEntrega:   lerData(v, "data_entrega", req.DataEntrega),
		DataDevolucao: lerData(v, "data_devolucao", req.DataDevolucao),
		Status:        model.EntregaPendente,
		Retirante:     strings.TrimSpace(req.Retirante),
		Observacoes:   req.Observacoes,
		StatusAdmin:   model.AdminAberto,
	}
	if req.Status != "" {
		e.Status = model.StatusEntrega(req.Status)
	}
	if req.StatusAdmin != "" {
		e.StatusAdmin = model.StatusAdmin(req.StatusAdmin)
	}
	validarEntrega(v, e)
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := permissao.VerificarAlteracaoEntrega(ator.Papel, nil, e); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *entregaService) Atualizar(ctx context.Context, ator Ator, id uuid.UUID, req dto.AtualizarEntregaRequest) (*model.Entrega, error) {
	antes, err := s.repo.FindByID(ctx, ator.EmpresaID, id)
	if err != nil {
		return nil, traduzir(err)
	}

	v := validacao{}
	depois := *antes
	if req.NumeroNF != nil {
		depois.NumeroNF = strings.TrimSpace(*req.NumeroNF)
	}
	if req.DataEmissao != nil {
		depois.DataEmissao = lerData(v, "data_emissao", *req.DataEmissao)
	}
	if req.DataEntrega != nil {
		depois.DataEntrega = lerData(v, "data_entrega", *req.DataEntrega)
	}
	if req.DataDevolucao != nil {
		depois.DataDevolucao = lerData(v, "data_devolucao", *req.DataDevolucao)
	}
	if req.Status != nil {
		depois.Status = model.StatusEntrega(*req.Status)
	}
	if req.Retirante != nil {
		depois.Retirante = strings.TrimSpace(*req.Retirante)
	}
	if req.Observacoes != nil {
		depois.Observacoes = *req.Observacoes
	}
	if req.StatusAdmin != nil {
		depois.StatusAdmin = model.StatusAdmin(*req.StatusAdmin)
	}

	if err := permissao.VerificarAlteracaoEntrega(ator.Papel, antes, &depois); err != nil {
		return nil, err
	}
	validarEntrega(v, &depois)
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &depois); err != nil {
		return nil, err
	}
	return &depois, nil
}

func (s *entregaService) Excluir(ctx context.Context, ator Ator, id uuid.UUID) error {
	e, err := s.repo.FindByID(ctx, ator.EmpresaID, id)
	if err != nil {
		return traduzir(err)
	}
	c := permissao.ParaEntrega(ator.Papel, permissao.RegistroEntrega{Persistido: true, StatusAdmin: e.StatusAdmin})
	if !c.Excluir {
		return ErrSemPermissao
	}
	return traduzir(s.repo.Delete(ctx, ator.EmpresaID, id))
}

func (s *entregaService) AtualizarStatusLote(ctx context.Context, ator Ator, ids []uuid.UUID, status model.StatusEntrega) (*dto.LoteStatusResponse, error) {
	if !status.Valido() {
		return nil, &ErroValidacao{Campos: map[string]string{"status": "status de entrega invalido"}}
	}
	if !permissao.ParaEntrega(ator.Papel, permissao.RegistroEntrega{}).Criar {
		return nil, ErrSemPermissao
	}

	resultados := make([]dto.ResultadoLote, len(ids))
	var g errgroup.Group
	g.SetLimit(limiteLote)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			resultados[i] = dto.ResultadoLote{ID: id.String(), OK: true}
			if err := s.alterarStatus(ctx, ator, id, status); err != nil {
				resultados[i].OK = false
				resultados[i].Erro = mensagemErro(err)
			}
			return nil
		})
	}
	_ = g.Wait()

	resp := &dto.LoteStatusResponse{Total: len(ids), Resultados: resultados}
	for _, r := range resultados {
		if r.OK {
			resp.Sucesso++
		} else {
			resp.Falhas++
		}
	}
	log.Info().
		Str("empresa_id", ator.EmpresaID.String()).
		Str("status", string(status)).
		Int("total", resp.Total).
		Int("falhas", resp.Falhas).
		Msg("entregas: bulk status update")
	return resp, nil
}

func (s *entregaService) alterarStatus(ctx context.Context, ator Ator, id uuid.UUID, status model.StatusEntrega) error {
	antes, err := s.repo.FindByID(ctx, ator.EmpresaID, id)
	if err != nil {
		return traduzir(err)
	}
	depois := *antes
	depois.Status = status
	if err := permissao.VerificarAlteracaoEntrega(ator.Papel, antes, &depois); err != nil {
		return err
	}
	v := validacao{}
	validarEntrega(v, &depois)
	if err := v.err(); err != nil {
		return err
	}
	return s.repo.Update(ctx, &depois)
}

func validarEntrega(v validacao, e *model.Entrega) {
	if e.NumeroNF == "" {
		v.add("numero_nf", "numero da nota fiscal obrigatorio")
	}
	if e.DataEmissao.Vazia() {
		if _, ok := v["data_emissao"]; !ok {
			v.add("data_emissao", "data de emissao obrigatoria")
		}
	}
	if !e.Status.Valido() {
		v.add("status", "status de entrega invalido")
	}
	if !e.StatusAdmin.Valido() {
		v.add("status_admin", "status administrativo invalido")
	}
	if e.Status == model.EntregaEntregue && e.Retirante == "" {
		v.add("retirante", "tecnico obrigatorio quando o status e Entregue")
	}
}

// lerData parses s, recording a field error when it is malformed.
func lerData(v validacao, campo, s string) datas.Data {
	d, err := datas.Parse(s)
	if err != nil {
		v.add(campo, "data invalida, use AAAA-MM-DD ou DD/MM/AAAA")
		return ""
	}
	return d
}

// mensagemErro renders an error for per-record reports.
func mensagemErro(err error) string {
	var ve *ErroValidacao
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve.Campos))
		for _, m := range ve.Campos {
			msgs = append(msgs, m)
		}
		sort.Strings(msgs)
		return strings.Join(msgs, "; ")
	}
	switch {
	case errors.Is(err, ErrNaoEncontrado), errors.Is(err, ErrSemPermissao),
		errors.Is(err, ErrBloqueado), errors.Is(err, permissao.ErrCampoImutavel):
		return err.Error()
	}
	log.Error().Err(err).Msg("bulk write failed")
	return "erro ao gravar registro"
}
