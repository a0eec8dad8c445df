package painel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/filtro"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fake Remote ───────────────────────────────────────────────────────────────

type fakeRemote struct {
	mu         sync.Mutex
	entregas   []model.Entrega
	pendencias []model.Pendencia
	demandas   []dto.DemandaResponse
	limite     int
	falhaLoad  error
	falhaWrite error
	escritas   int
	// during, when set, runs while the write is in flight
	during func()
}

func (f *fakeRemote) Entregas(context.Context) ([]model.Entrega, error) {
	return append([]model.Entrega(nil), f.entregas...), f.falhaLoad
}

func (f *fakeRemote) Pendencias(context.Context) ([]model.Pendencia, error) {
	return append([]model.Pendencia(nil), f.pendencias...), nil
}

func (f *fakeRemote) Demandas(context.Context) ([]dto.DemandaResponse, error) {
	return append([]dto.DemandaResponse(nil), f.demandas...), nil
}

func (f *fakeRemote) LimiteCritico(context.Context) (int, error) { return f.limite, nil }

func (f *fakeRemote) escrever() error {
	f.mu.Lock()
	f.escritas++
	f.mu.Unlock()
	if f.during != nil {
		f.during()
	}
	return f.falhaWrite
}

func (f *fakeRemote) AtualizarEntrega(_ context.Context, id uuid.UUID, req dto.AtualizarEntregaRequest) (*model.Entrega, error) {
	if err := f.escrever(); err != nil {
		return nil, err
	}
	for _, e := range f.entregas {
		if e.ID == id {
			e.Status = model.StatusEntrega(*req.Status)
			if req.Retirante != nil {
				e.Retirante = *req.Retirante
			}
			e.Observacoes = "salvo"
			return &e, nil
		}
	}
	return nil, errors.New("nao encontrado")
}

func (f *fakeRemote) ResolverPendencia(_ context.Context, id uuid.UUID) (*model.Pendencia, error) {
	if err := f.escrever(); err != nil {
		return nil, err
	}
	for _, p := range f.pendencias {
		if p.ID == id {
			p.Resolvida = true
			return &p, nil
		}
	}
	return nil, errors.New("nao encontrado")
}

func (f *fakeRemote) AlternarItem(_ context.Context, id uuid.UUID, _ int) (*dto.DemandaResponse, error) {
	if err := f.escrever(); err != nil {
		return nil, err
	}
	for _, d := range f.demandas {
		if d.ID == id {
			d.Itens = "[x] A\nB"
			d.Progresso = 50
			return &d, nil
		}
	}
	return nil, errors.New("nao encontrado")
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func novoRemote() *fakeRemote {
	f := &fakeRemote{limite: 4}
	for i := 1; i <= 60; i++ {
		f.entregas = append(f.entregas, model.Entrega{
			ID:          uuid.New(),
			NumeroNF:    fmt.Sprintf("NF-%d", i),
			DataEmissao: "2024-01-10",
			Status:      model.EntregaPendente,
			StatusAdmin: model.AdminAberto,
		})
	}
	f.pendencias = []model.Pendencia{{ID: uuid.New(), Prestador: "Alfa", Item: "Cabo", Quantidade: 1, Data: "2024-01-05"}}
	f.demandas = []dto.DemandaResponse{{DemandaComercial: model.DemandaComercial{
		ID: uuid.New(), Titulo: "Obra Centro", Cliente: "Construtora", Itens: "A\nB",
	}}}
	return f
}

func abrir(t *testing.T, f *fakeRemote, papel model.Papel) *Sessao {
	t.Helper()
	s, err := Abrir(context.Background(), f, dto.UsuarioResponse{Username: "ana", Papel: string(papel)})
	require.NoError(t, err)
	return s
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAbrir_LoadsEverything(t *testing.T) {
	s := abrir(t, novoRemote(), model.PapelEditor)
	assert.True(t, s.Aberta())

	p := s.Entregas(filtro.Filtro{}, 1)
	assert.Equal(t, 60, p.Total)
	assert.Len(t, p.Itens, TamanhoPagina)
	// same issue date, so natural invoice order descending
	assert.Equal(t, "NF-60", p.Itens[0].NumeroNF)
	assert.Equal(t, "NF-1", s.Entregas(filtro.Filtro{}, 2).Itens[9].NumeroNF)

	assert.Len(t, s.Pendencias(), 1)
	assert.Len(t, s.Demandas("centro"), 1)
	assert.Empty(t, s.Demandas("inexistente"))
	assert.Equal(t, 60, s.Painel("2024-01-20").Estagnadas)
}

func TestAbrir_LoadFailure(t *testing.T) {
	f := novoRemote()
	f.falhaLoad = errors.New("offline")
	_, err := Abrir(context.Background(), f, dto.UsuarioResponse{})
	assert.EqualError(t, err, "offline")
}

func TestAlterarStatusEntrega_Optimistic(t *testing.T) {
	f := novoRemote()
	s := abrir(t, f, model.PapelEditor)
	id := f.entregas[0].ID

	// the change is visible while the remote call is in flight
	f.during = func() {
		atual := s.Entregas(filtro.Filtro{NumeroNF: "NF-1", Status: model.EntregaEntregue}, 1)
		assert.Equal(t, 1, atual.Total)
	}
	res := s.AlterarStatusEntrega(context.Background(), id, model.EntregaEntregue, "João")
	require.True(t, res.OK())
	assert.False(t, res.Revertido)
	assert.Equal(t, "salvo", res.Registro.Observacoes)
}

func TestAlterarStatusEntrega_RevertsOnRemoteFailure(t *testing.T) {
	f := novoRemote()
	s := abrir(t, f, model.PapelEditor)
	id := f.entregas[0].ID
	f.falhaWrite = errors.New("timeout")

	res := s.AlterarStatusEntrega(context.Background(), id, model.EntregaEntregue, "João")
	assert.True(t, res.Revertido)
	assert.EqualError(t, res.Err, "timeout")
	assert.Equal(t, model.EntregaPendente, res.Registro.Status)

	assert.Zero(t, s.Entregas(filtro.Filtro{Status: model.EntregaEntregue}, 1).Total)
}

func TestAlterarStatusEntrega_LocalValidation(t *testing.T) {
	f := novoRemote()
	s := abrir(t, f, model.PapelEditor)
	id := f.entregas[0].ID

	res := s.AlterarStatusEntrega(context.Background(), id, model.EntregaEntregue, " ")
	assert.ErrorIs(t, res.Err, ErrRetiranteObrigatorio)

	res = s.AlterarStatusEntrega(context.Background(), uuid.New(), model.EntregaNaoRetirado, "")
	assert.ErrorIs(t, res.Err, ErrNaoEncontrado)

	viewer := abrir(t, f, model.PapelVisualizador)
	res = viewer.AlterarStatusEntrega(context.Background(), id, model.EntregaNaoRetirado, "")
	assert.Error(t, res.Err)

	assert.Zero(t, f.escritas, "no request is sent when local validation fails")
}

func TestResolverPendencia(t *testing.T) {
	f := novoRemote()
	s := abrir(t, f, model.PapelEditor)
	id := f.pendencias[0].ID

	res := s.ResolverPendencia(context.Background(), id)
	require.NoError(t, res.Err)
	assert.True(t, s.Pendencias()[0].Resolvida)

	// already resolved locally, refused without a request
	res = s.ResolverPendencia(context.Background(), id)
	assert.Error(t, res.Err)
	assert.Equal(t, 1, f.escritas)
}

func TestAlternarItem_RevertsOnFailure(t *testing.T) {
	f := novoRemote()
	s := abrir(t, f, model.PapelComercial)
	id := f.demandas[0].ID

	f.during = func() { assert.Equal(t, 50, s.Demandas("")[0].Progresso) }
	f.falhaWrite = errors.New("503")
	res := s.AlternarItem(context.Background(), id, 0)
	assert.True(t, res.Revertido)
	assert.Equal(t, "A\nB", s.Demandas("")[0].Itens)

	f.during, f.falhaWrite = nil, nil
	res = s.AlternarItem(context.Background(), id, 0)
	require.NoError(t, res.Err)
	assert.Equal(t, "[x] A\nB", s.Demandas("")[0].Itens)
}

func TestFiltrar_ResetsPage(t *testing.T) {
	s := abrir(t, novoRemote(), model.PapelEditor)

	p := s.IrParaPagina(2)
	assert.Equal(t, 2, p.Pagina)
	assert.Len(t, p.Itens, 10)

	// same filter keeps the page
	assert.Equal(t, 2, s.Filtrar(filtro.Filtro{}).Pagina)

	p = s.Filtrar(filtro.Filtro{NumeroNF: "NF-1"})
	assert.Equal(t, 1, p.Pagina)
	assert.Equal(t, 11, p.Total)
	assert.Equal(t, p, s.Visao())

	s.IrParaPagina(3)
	assert.Equal(t, 1, s.Filtrar(filtro.Filtro{NumeroNF: "NF-1", Status: model.EntregaPendente}).Pagina)
	assert.Equal(t, 1, s.IrParaPagina(-4).Pagina)
}

func TestAlterarStatusEntrega_UsesStoredRetirante(t *testing.T) {
	f := novoRemote()
	f.entregas[0].Retirante = "Maria"
	s := abrir(t, f, model.PapelEditor)

	res := s.AlterarStatusEntrega(context.Background(), f.entregas[0].ID, model.EntregaEntregue, "")
	require.NoError(t, res.Err)
	assert.Equal(t, "Maria", res.Registro.Retirante)
	assert.Equal(t, model.EntregaEntregue, res.Registro.Status)
	assert.Equal(t, 1, f.escritas)
}

func TestAlternarItem_LocalPermission(t *testing.T) {
	f := novoRemote()
	id := f.demandas[0].ID

	viewer := abrir(t, f, model.PapelVisualizador)
	res := viewer.AlternarItem(context.Background(), id, 0)
	assert.ErrorIs(t, res.Err, permissao.ErrSemPermissao)
	assert.Equal(t, "A\nB", viewer.Demandas("")[0].Itens)

	f.demandas[0].Status = model.DemandaConcluida
	s := abrir(t, f, model.PapelComercial)
	res = s.AlternarItem(context.Background(), id, 0)
	assert.ErrorIs(t, res.Err, permissao.ErrBloqueado)

	assert.Zero(t, f.escritas)
}

func TestEncerrar_DiscardsState(t *testing.T) {
	f := novoRemote()
	s := abrir(t, f, model.PapelEditor)
	s.Encerrar()

	assert.False(t, s.Aberta())
	assert.Zero(t, s.Entregas(filtro.Filtro{}, 1).Total)
	res := s.AlterarStatusEntrega(context.Background(), f.entregas[0].ID, model.EntregaNaoRetirado, "")
	assert.ErrorIs(t, res.Err, ErrSessaoEncerrada)
}
