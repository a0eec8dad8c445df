package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/checklist"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/estatisticas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/infra"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrChecklistIncompleto is returned when a summary is requested before every
// item is checked.
var ErrChecklistIncompleto = errors.New("resumo disponivel apenas com checklist 100% concluido")

type DemandaService interface {
	Listar(ctx context.Context, ator Ator, busca string) ([]dto.DemandaResponse, error)
	Agrupadas(ctx context.Context, ator Ator, busca string) (*estatisticas.Quadro, error)
	Obter(ctx context.Context, ator Ator, id uuid.UUID) (*dto.DemandaResponse, error)
	Criar(ctx context.Context, ator Ator, req dto.CriarDemandaRequest) (*dto.DemandaResponse, error)
	Atualizar(ctx context.Context, ator Ator, id uuid.UUID, req dto.AtualizarDemandaRequest) (*dto.DemandaResponse, error)
	AlternarItem(ctx context.Context, ator Ator, id uuid.UUID, indice int) (*dto.DemandaResponse, error)
	// Concluir is the only path to Concluído; it stamps the completion date
	// (today when data is empty).
	Concluir(ctx context.Context, ator Ator, id uuid.UUID, data string) (*dto.DemandaResponse, error)
	AlterarStatus(ctx context.Context, ator Ator, id uuid.UUID, status model.StatusDemanda) (*dto.DemandaResponse, error)
	Excluir(ctx context.Context, ator Ator, id uuid.UUID) error
	ResumoPNG(ctx context.Context, ator Ator, id uuid.UUID) ([]byte, error)
	ResumoPDF(ctx context.Context, ator Ator, id uuid.UUID) ([]byte, error)
	EnviarResumo(ctx context.Context, ator Ator, id uuid.UUID, email string) error
}

type demandaService struct {
	repo       repository.DemandaRepository
	dispatcher *worker.Dispatcher
	loc        *time.Location
}

func NewDemandaService(repo repository.DemandaRepository, dispatcher *worker.Dispatcher, loc *time.Location) DemandaService {
	return &demandaService{repo: repo, dispatcher: dispatcher, loc: loc}
}

func (s *demandaService) Listar(ctx context.Context, ator Ator, busca string) ([]dto.DemandaResponse, error) {
	demandas, err := s.repo.ListByEmpresa(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DemandaResponse, 0, len(demandas))
	for i := range demandas {
		if estatisticas.Corresponde(&demandas[i], busca) {
			resp = append(resp, demandaResponse(ator, &demandas[i]))
		}
	}
	return resp, nil
}

func (s *demandaService) Agrupadas(ctx context.Context, ator Ator, busca string) (*estatisticas.Quadro, error) {
	demandas, err := s.repo.ListByEmpresa(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	q := estatisticas.AgruparPorPrioridade(demandas, busca)
	return &q, nil
}

func (s *demandaService) Obter(ctx context.Context, ator Ator, id uuid.UUID) (*dto.DemandaResponse, error) {
	d, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	resp := demandaResponse(ator, d)
	return &resp, nil
}

func (s *demandaService) Criar(ctx context.Context, ator Ator, req dto.CriarDemandaRequest) (*dto.DemandaResponse, error) {
	if !permissao.ParaDemanda(ator.Papel, false, false).Criar {
		return nil, ErrSemPermissao
	}
	v := validacao{}
	d := &model.DemandaComercial{
		EmpresaID:   ator.EmpresaID,
		Titulo:      strings.TrimSpace(req.Titulo),
		Cliente:     strings.TrimSpace(req.Cliente),
		Projeto:     strings.TrimSpace(req.Projeto),
		Vendedor:    strings.TrimSpace(req.Vendedor),
		Observacoes: req.Observacoes,
		DataPedido:  lerData(v, "data_pedido", req.DataPedido),
		Prazo:       lerData(v, "prazo", req.Prazo),
		Itens:       req.Itens,
		Status:      model.DemandaPendente,
		Prioridade:  model.PrioridadeMedia,
	}
	if req.Prioridade != "" {
		d.Prioridade = model.Prioridade(req.Prioridade)
	}
	if d.DataPedido.Vazia() {
		d.DataPedido = datas.Hoje(s.loc)
	}
	validarDemanda(v, d)
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	resp := demandaResponse(ator, d)
	return &resp, nil
}

func (s *demandaService) Atualizar(ctx context.Context, ator Ator, id uuid.UUID, req dto.AtualizarDemandaRequest) (*dto.DemandaResponse, error) {
	d, err := s.editavel(ctx, ator, id, func(c permissao.Conjunto) bool { return c.EditarCampos })
	if err != nil {
		return nil, err
	}

	v := validacao{}
	if req.Titulo != nil {
		d.Titulo = strings.TrimSpace(*req.Titulo)
	}
	if req.Cliente != nil {
		d.Cliente = strings.TrimSpace(*req.Cliente)
	}
	if req.Projeto != nil {
		d.Projeto = strings.TrimSpace(*req.Projeto)
	}
	if req.Vendedor != nil {
		d.Vendedor = strings.TrimSpace(*req.Vendedor)
	}
	if req.Observacoes != nil {
		d.Observacoes = *req.Observacoes
	}
	if req.DataPedido != nil {
		d.DataPedido = lerData(v, "data_pedido", *req.DataPedido)
	}
	if req.Prazo != nil {
		d.Prazo = lerData(v, "prazo", *req.Prazo)
	}
	if req.Itens != nil {
		d.Itens = *req.Itens
	}
	if req.Prioridade != nil {
		d.Prioridade = model.Prioridade(*req.Prioridade)
	}
	validarDemanda(v, d)
	if err := v.err(); err != nil {
		return nil, err
	}
	return s.salvar(ctx, ator, d)
}

func (s *demandaService) AlternarItem(ctx context.Context, ator Ator, id uuid.UUID, indice int) (*dto.DemandaResponse, error) {
	d, err := s.editavel(ctx, ator, id, func(c permissao.Conjunto) bool { return c.AlternarItens })
	if err != nil {
		return nil, err
	}
	itens, err := checklist.Alternar(d.Itens, indice)
	if errors.Is(err, checklist.ErrIndiceInvalido) || errors.Is(err, checklist.ErrItemVazio) {
		return nil, &ErroValidacao{Campos: map[string]string{"indice": err.Error()}}
	}
	if err != nil {
		return nil, err
	}
	d.Itens = itens
	return s.salvar(ctx, ator, d)
}

func (s *demandaService) Concluir(ctx context.Context, ator Ator, id uuid.UUID, data string) (*dto.DemandaResponse, error) {
	d, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	c := permissao.ParaDemanda(ator.Papel, true, d.Concluida())
	if !c.Criar {
		return nil, ErrSemPermissao
	}
	if d.Concluida() {
		return nil, ErrConflito
	}
	if !c.Concluir {
		return nil, ErrSemPermissao
	}

	v := validacao{}
	conclusao := lerData(v, "data_conclusao", data)
	if err := v.err(); err != nil {
		return nil, err
	}
	if conclusao.Vazia() {
		conclusao = datas.Hoje(s.loc)
	}
	d.Status = model.DemandaConcluida
	d.DataConclusao = conclusao
	return s.salvar(ctx, ator, d)
}

func (s *demandaService) AlterarStatus(ctx context.Context, ator Ator, id uuid.UUID, status model.StatusDemanda) (*dto.DemandaResponse, error) {
	if !status.Valido() {
		return nil, &ErroValidacao{Campos: map[string]string{"status": "status invalido"}}
	}
	if status == model.DemandaConcluida {
		return nil, &ErroValidacao{Campos: map[string]string{"status": "use a acao de conclusao para concluir a demanda"}}
	}
	d, err := s.editavel(ctx, ator, id, func(c permissao.Conjunto) bool { return c.EditarCampos })
	if err != nil {
		return nil, err
	}
	d.Status = status
	return s.salvar(ctx, ator, d)
}

func (s *demandaService) Excluir(ctx context.Context, ator Ator, id uuid.UUID) error {
	d, err := s.carregar(ctx, ator, id)
	if err != nil {
		return err
	}
	if !permissao.ParaDemanda(ator.Papel, true, d.Concluida()).Excluir {
		return ErrSemPermissao
	}
	return traduzir(s.repo.Delete(ctx, ator.EmpresaID, id))
}

func (s *demandaService) ResumoPNG(ctx context.Context, ator Ator, id uuid.UUID) ([]byte, error) {
	d, err := s.completa(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	return infra.GerarResumoPNG(infra.NovoResumo(d))
}

func (s *demandaService) ResumoPDF(ctx context.Context, ator Ator, id uuid.UUID) ([]byte, error) {
	d, err := s.completa(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	return infra.GerarResumoPDF(infra.NovoResumo(d))
}

func (s *demandaService) EnviarResumo(ctx context.Context, ator Ator, id uuid.UUID, email string) error {
	d, err := s.completa(ctx, ator, id)
	if err != nil {
		return err
	}
	if !permissao.ParaDemanda(ator.Papel, true, d.Concluida()).EnviarResumo {
		return ErrSemPermissao
	}
	payload := worker.ResumoEmailPayload{EmpresaID: ator.EmpresaID, DemandaID: d.ID, ToEmail: email}
	if err := s.dispatcher.EnqueueResumoEmail(ctx, payload); err != nil {
		return err
	}
	log.Info().Str("demanda_id", d.ID.String()).Str("to", email).Msg("demandas: summary e-mail queued")
	return nil
}

func (s *demandaService) carregar(ctx context.Context, ator Ator, id uuid.UUID) (*model.DemandaComercial, error) {
	d, err := s.repo.FindByID(ctx, ator.EmpresaID, id)
	if err != nil {
		return nil, traduzir(err)
	}
	return d, nil
}

// editavel loads the demand and checks the capability selected by pode.
// A completed demand is reported as locked rather than forbidden.
func (s *demandaService) editavel(ctx context.Context, ator Ator, id uuid.UUID, pode func(permissao.Conjunto) bool) (*model.DemandaComercial, error) {
	d, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	c := permissao.ParaDemanda(ator.Papel, true, d.Concluida())
	if !c.Criar {
		return nil, ErrSemPermissao
	}
	if !pode(c) {
		return nil, ErrBloqueado
	}
	return d, nil
}

func (s *demandaService) completa(ctx context.Context, ator Ator, id uuid.UUID) (*model.DemandaComercial, error) {
	d, err := s.carregar(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	if !checklist.Completo(d.Itens) {
		return nil, ErrChecklistIncompleto
	}
	return d, nil
}

func (s *demandaService) salvar(ctx context.Context, ator Ator, d *model.DemandaComercial) (*dto.DemandaResponse, error) {
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	resp := demandaResponse(ator, d)
	return &resp, nil
}

func validarDemanda(v validacao, d *model.DemandaComercial) {
	if d.Titulo == "" {
		d.Titulo = d.Cliente
	}
	if d.Titulo == "" {
		v.add("titulo", "titulo ou cliente obrigatorio")
	}
	if d.Prazo.Vazia() {
		if _, ok := v["prazo"]; !ok {
			v.add("prazo", "prazo obrigatorio")
		}
	}
	if !d.Prioridade.Valido() {
		v.add("prioridade", "prioridade invalida")
	}
}

func demandaResponse(ator Ator, d *model.DemandaComercial) dto.DemandaResponse {
	itens := checklist.Parse(d.Itens)
	return dto.DemandaResponse{
		DemandaComercial: *d,
		Checklist:        itens,
		Progresso:        checklist.Progresso(itens),
		Permissoes:       permissao.ParaDemanda(ator.Papel, true, d.Concluida()),
	}
}
