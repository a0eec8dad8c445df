// Package painel holds the state of one signed-in client session: the
// tenant's records loaded at sign-in, views derived from them, and
// single-record edits applied optimistically against a Remote.
package painel

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/checklist"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/estatisticas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/filtro"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// TamanhoPagina is the number of deliveries shown per page.
const TamanhoPagina = 50

var (
	ErrSessaoEncerrada      = errors.New("sessao encerrada")
	ErrNaoEncontrado        = errors.New("registro nao encontrado na sessao")
	ErrRetiranteObrigatorio = errors.New("retirante obrigatorio para entregas com status Entregue")
)

// Remote is the backend the session reads from and writes to.
type Remote interface {
	Entregas(ctx context.Context) ([]model.Entrega, error)
	Pendencias(ctx context.Context) ([]model.Pendencia, error)
	Demandas(ctx context.Context) ([]dto.DemandaResponse, error)
	LimiteCritico(ctx context.Context) (int, error)
	AtualizarEntrega(ctx context.Context, id uuid.UUID, req dto.AtualizarEntregaRequest) (*model.Entrega, error)
	ResolverPendencia(ctx context.Context, id uuid.UUID) (*model.Pendencia, error)
	AlternarItem(ctx context.Context, id uuid.UUID, indice int) (*dto.DemandaResponse, error)
}

// Resultado reports the outcome of one optimistic mutation. When Revertido is
// true the in-memory record was restored to its prior value and Err holds the
// remote failure.
type Resultado[T any] struct {
	Registro  T
	Revertido bool
	Err       error
}

func (r Resultado[T]) OK() bool { return r.Err == nil }

// Sessao is safe for concurrent use. It is created by Abrir and becomes
// unusable after Encerrar.
type Sessao struct {
	remote  Remote
	usuario dto.UsuarioResponse

	mu         sync.RWMutex
	aberta     bool
	limite     int
	filtro     filtro.Filtro
	pagina     int
	entregas   []model.Entrega
	pendencias []model.Pendencia
	demandas   []dto.DemandaResponse
}

// Abrir loads every collection of the user's company concurrently. Any load
// failure aborts the sign-in.
func Abrir(ctx context.Context, remote Remote, usuario dto.UsuarioResponse) (*Sessao, error) {
	s := &Sessao{remote: remote, usuario: usuario, pagina: 1}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.entregas, err = remote.Entregas(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.pendencias, err = remote.Pendencias(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.demandas, err = remote.Demandas(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.limite, err = remote.LimiteCritico(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.aberta = true
	log.Info().
		Str("usuario", usuario.Username).
		Int("entregas", len(s.entregas)).
		Int("pendencias", len(s.pendencias)).
		Int("demandas", len(s.demandas)).
		Msg("painel: session loaded")
	return s, nil
}

// Encerrar discards every record held by the session.
func (s *Sessao) Encerrar() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aberta = false
	s.filtro, s.pagina = filtro.Filtro{}, 1
	s.entregas, s.pendencias, s.demandas = nil, nil, nil
}

func (s *Sessao) Aberta() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aberta
}

func (s *Sessao) Usuario() dto.UsuarioResponse { return s.usuario }

func (s *Sessao) papel() model.Papel { return model.Papel(s.usuario.Papel) }

// Entregas filters, orders and paginates the loaded deliveries.
func (s *Sessao) Entregas(f filtro.Filtro, pagina int) filtro.Pagina[model.Entrega] {
	s.mu.RLock()
	lista := filtro.Aplicar(s.entregas, f)
	s.mu.RUnlock()
	filtro.Ordenar(lista)
	return filtro.Paginar(lista, pagina, TamanhoPagina)
}

// Filtrar replaces the active delivery filter. Any change to it moves the
// view back to the first page.
func (s *Sessao) Filtrar(f filtro.Filtro) filtro.Pagina[model.Entrega] {
	s.mu.Lock()
	if f != s.filtro {
		s.filtro = f
		s.pagina = 1
	}
	s.mu.Unlock()
	return s.Visao()
}

// IrParaPagina keeps the active filter and moves to page n.
func (s *Sessao) IrParaPagina(n int) filtro.Pagina[model.Entrega] {
	s.mu.Lock()
	s.pagina = max(n, 1)
	s.mu.Unlock()
	return s.Visao()
}

// Visao is the active page under the active filter.
func (s *Sessao) Visao() filtro.Pagina[model.Entrega] {
	s.mu.RLock()
	f, pagina := s.filtro, s.pagina
	s.mu.RUnlock()
	return s.Entregas(f, pagina)
}

func (s *Sessao) Pendencias() []model.Pendencia {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Pendencia(nil), s.pendencias...)
}

// Demandas returns the demands matching busca, as the server would.
func (s *Sessao) Demandas(busca string) []dto.DemandaResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []dto.DemandaResponse
	for i := range s.demandas {
		if estatisticas.Corresponde(&s.demandas[i].DemandaComercial, busca) {
			out = append(out, s.demandas[i])
		}
	}
	return out
}

// Painel recomputes the dashboard figures from memory.
func (s *Sessao) Painel(referencia datas.Data) estatisticas.Painel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	demandas := make([]model.DemandaComercial, len(s.demandas))
	for i := range s.demandas {
		demandas[i] = s.demandas[i].DemandaComercial
	}
	return estatisticas.Calcular(s.entregas, demandas, s.pendencias, referencia, s.limite)
}

// AlterarStatusEntrega changes the status of one delivery. Local validation
// runs before any network call; the change is applied immediately and
// reverted if the backend rejects it.
func (s *Sessao) AlterarStatusEntrega(ctx context.Context, id uuid.UUID, status model.StatusEntrega, retirante string) Resultado[model.Entrega] {
	if !status.Valido() {
		return Resultado[model.Entrega]{Err: errors.New("status invalido")}
	}
	retirante = strings.TrimSpace(retirante)

	s.mu.Lock()
	if !s.aberta {
		s.mu.Unlock()
		return Resultado[model.Entrega]{Err: ErrSessaoEncerrada}
	}
	i := indiceEntrega(s.entregas, id)
	if i < 0 {
		s.mu.Unlock()
		return Resultado[model.Entrega]{Err: ErrNaoEncontrado}
	}
	anterior := s.entregas[i]
	nova := anterior
	nova.Status = status
	if retirante != "" {
		nova.Retirante = retirante
	}
	if nova.Status == model.EntregaEntregue && strings.TrimSpace(nova.Retirante) == "" {
		s.mu.Unlock()
		return Resultado[model.Entrega]{Registro: anterior, Err: ErrRetiranteObrigatorio}
	}
	if err := permissao.VerificarAlteracaoEntrega(s.papel(), &anterior, &nova); err != nil {
		s.mu.Unlock()
		return Resultado[model.Entrega]{Registro: anterior, Err: err}
	}
	s.entregas[i] = nova
	s.mu.Unlock()

	st := string(status)
	req := dto.AtualizarEntregaRequest{Status: &st}
	if retirante != "" {
		req.Retirante = &retirante
	}
	salva, err := s.remote.AtualizarEntrega(ctx, id, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	j := indiceEntrega(s.entregas, id)
	if err != nil {
		log.Warn().Err(err).Str("entrega_id", id.String()).Msg("painel: delivery update rejected, reverting")
		if j >= 0 {
			s.entregas[j] = anterior
		}
		return Resultado[model.Entrega]{Registro: anterior, Revertido: true, Err: err}
	}
	if j >= 0 {
		s.entregas[j] = *salva
	}
	return Resultado[model.Entrega]{Registro: *salva}
}

// ResolverPendencia marks a pendency resolved optimistically.
func (s *Sessao) ResolverPendencia(ctx context.Context, id uuid.UUID) Resultado[model.Pendencia] {
	s.mu.Lock()
	if !s.aberta {
		s.mu.Unlock()
		return Resultado[model.Pendencia]{Err: ErrSessaoEncerrada}
	}
	i := indicePendencia(s.pendencias, id)
	if i < 0 {
		s.mu.Unlock()
		return Resultado[model.Pendencia]{Err: ErrNaoEncontrado}
	}
	anterior := s.pendencias[i]
	if !permissao.ParaPendencia(s.papel(), true, anterior.Resolvida).Resolver {
		s.mu.Unlock()
		return Resultado[model.Pendencia]{Registro: anterior, Err: permissao.ErrBloqueado}
	}
	s.pendencias[i].Resolvida = true
	s.mu.Unlock()

	salva, err := s.remote.ResolverPendencia(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	j := indicePendencia(s.pendencias, id)
	if err != nil {
		log.Warn().Err(err).Str("pendencia_id", id.String()).Msg("painel: pendency resolution rejected, reverting")
		if j >= 0 {
			s.pendencias[j] = anterior
		}
		return Resultado[model.Pendencia]{Registro: anterior, Revertido: true, Err: err}
	}
	if j >= 0 {
		s.pendencias[j] = *salva
	}
	return Resultado[model.Pendencia]{Registro: *salva}
}

// AlternarItem flips one checklist line of a demand optimistically.
func (s *Sessao) AlternarItem(ctx context.Context, id uuid.UUID, indice int) Resultado[dto.DemandaResponse] {
	s.mu.Lock()
	if !s.aberta {
		s.mu.Unlock()
		return Resultado[dto.DemandaResponse]{Err: ErrSessaoEncerrada}
	}
	i := indiceDemanda(s.demandas, id)
	if i < 0 {
		s.mu.Unlock()
		return Resultado[dto.DemandaResponse]{Err: ErrNaoEncontrado}
	}
	anterior := s.demandas[i]
	switch c := permissao.ParaDemanda(s.papel(), true, anterior.Concluida()); {
	case !c.Criar:
		s.mu.Unlock()
		return Resultado[dto.DemandaResponse]{Registro: anterior, Err: permissao.ErrSemPermissao}
	case !c.AlternarItens:
		s.mu.Unlock()
		return Resultado[dto.DemandaResponse]{Registro: anterior, Err: permissao.ErrBloqueado}
	}
	itens, err := checklist.Alternar(anterior.Itens, indice)
	if err != nil {
		s.mu.Unlock()
		return Resultado[dto.DemandaResponse]{Registro: anterior, Err: err}
	}
	nova := anterior
	nova.Itens = itens
	nova.Checklist = checklist.Parse(itens)
	nova.Progresso = checklist.Progresso(nova.Checklist)
	s.demandas[i] = nova
	s.mu.Unlock()

	salva, err := s.remote.AlternarItem(ctx, id, indice)

	s.mu.Lock()
	defer s.mu.Unlock()
	j := indiceDemanda(s.demandas, id)
	if err != nil {
		log.Warn().Err(err).Str("demanda_id", id.String()).Msg("painel: checklist toggle rejected, reverting")
		if j >= 0 {
			s.demandas[j] = anterior
		}
		return Resultado[dto.DemandaResponse]{Registro: anterior, Revertido: true, Err: err}
	}
	if j >= 0 {
		s.demandas[j] = *salva
	}
	return Resultado[dto.DemandaResponse]{Registro: *salva}
}

func indiceEntrega(l []model.Entrega, id uuid.UUID) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

func indicePendencia(l []model.Pendencia, id uuid.UUID) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

func indiceDemanda(l []dto.DemandaResponse, id uuid.UUID) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}
