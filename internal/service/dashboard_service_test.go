package service

import (
	"context"
	"testing"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardFixture() (DashboardService, *stubPreferenciaRepo) {
	e1 := entregaAberta("1")
	e2 := entregaAberta("2")
	e2.Status = model.EntregaEntregue
	e2.Retirante = "Carlos"
	e2.DataEntrega = "2024-01-12"

	d := demanda("[x] A")
	d.Status = model.DemandaConcluida
	d.DataConclusao = "2024-01-15"

	p := model.Pendencia{EmpresaID: empresaA, Prestador: "x", Referencia: "y", Item: "z", Quantidade: 1, Data: "2024-01-05", PrevisaoResolucao: "2024-01-25"}
	prefs := &stubPreferenciaRepo{}
	svc := NewDashboardService(newStubEntregaRepo(e1, e2), newStubDemandaRepo(d), newStubPendenciaRepo(p), prefs, 0, time.UTC)
	return svc, prefs
}

func TestPainel_Figures(t *testing.T) {
	svc, _ := newDashboardFixture()
	ctx := context.Background()
	a := atorCom(model.PapelVisualizador)

	p, err := svc.Painel(ctx, a, "2024-01-20")
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalEntregas)
	assert.Equal(t, 4, p.LimiteCritico)
	assert.Equal(t, 1, p.Estagnadas)
	assert.Equal(t, 1, p.DemandasConcluidas)
	assert.Equal(t, 100, p.ConformidadeSLA)
	assert.Equal(t, 1, p.PendenciasAtivas)
}

func TestLimiteCritico_DefaultSetAndClamp(t *testing.T) {
	svc, _ := newDashboardFixture()
	ctx := context.Background()

	l, err := svc.LimiteCritico(ctx, atorCom(model.PapelEditor))
	require.NoError(t, err)
	assert.True(t, l.Padrao)
	assert.Equal(t, 4, l.Dias)

	_, err = svc.DefinirLimiteCritico(ctx, atorCom(model.PapelVisualizador), 10)
	assert.ErrorIs(t, err, ErrSemPermissao)

	l, err = svc.DefinirLimiteCritico(ctx, atorCom(model.PapelComercial), -3)
	require.NoError(t, err)
	assert.Equal(t, 1, l.Dias)

	l, err = svc.LimiteCritico(ctx, atorCom(model.PapelEditor))
	require.NoError(t, err)
	assert.False(t, l.Padrao)
	assert.Equal(t, 1, l.Dias)
}

func TestCalendario_ValidatesMonth(t *testing.T) {
	svc, _ := newDashboardFixture()
	_, err := svc.Calendario(context.Background(), atorCom(model.PapelVisualizador), 2024, 13)
	var ve *ErroValidacao
	assert.ErrorAs(t, err, &ve)

	eventos, err := svc.Calendario(context.Background(), atorCom(model.PapelVisualizador), 2024, 1)
	require.NoError(t, err)
	require.Len(t, eventos, 1, "completed demands are left out")
	assert.Equal(t, "Pend: x", eventos[0].Titulo)
}

func TestAnalise_Runs(t *testing.T) {
	svc, _ := newDashboardFixture()
	a, err := svc.Analise(context.Background(), atorCom(model.PapelVisualizador), "2024-01-20")
	require.NoError(t, err)
	assert.NotNil(t, a)
}
