package service

import (
	"context"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/estatisticas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	// Painel computes the dashboard figures as of referencia (today when empty).
	Painel(ctx context.Context, ator Ator, referencia datas.Data) (*estatisticas.Painel, error)
	LimiteCritico(ctx context.Context, ator Ator) (*dto.LimiteCriticoResponse, error)
	// DefinirLimiteCritico stores the stagnation threshold, raising values below 1 to 1.
	DefinirLimiteCritico(ctx context.Context, ator Ator, dias int) (*dto.LimiteCriticoResponse, error)
	Analise(ctx context.Context, ator Ator, referencia datas.Data) (*estatisticas.Analise, error)
	Calendario(ctx context.Context, ator Ator, ano, mes int) ([]estatisticas.Evento, error)
}

type dashboardService struct {
	entregas     repository.EntregaRepository
	demandas     repository.DemandaRepository
	pendencias   repository.PendenciaRepository
	preferencias repository.PreferenciaRepository
	limitePadrao int
	loc          *time.Location
}

func NewDashboardService(
	entregas repository.EntregaRepository,
	demandas repository.DemandaRepository,
	pendencias repository.PendenciaRepository,
	preferencias repository.PreferenciaRepository,
	limitePadrao int,
	loc *time.Location,
) DashboardService {
	if limitePadrao <= 0 {
		limitePadrao = estatisticas.LimiteCriticoPadrao
	}
	return &dashboardService{
		entregas:     entregas,
		demandas:     demandas,
		pendencias:   pendencias,
		preferencias: preferencias,
		limitePadrao: limitePadrao,
		loc:          loc,
	}
}

// conjunto is the full record set of one company.
type conjunto struct {
	entregas   []model.Entrega
	demandas   []model.DemandaComercial
	pendencias []model.Pendencia
}

func (s *dashboardService) carregar(ctx context.Context, empresaID uuid.UUID) (*conjunto, error) {
	var c conjunto
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.entregas, err = s.entregas.ListByEmpresa(gctx, empresaID)
		return err
	})
	g.Go(func() (err error) {
		c.demandas, err = s.demandas.ListByEmpresa(gctx, empresaID)
		return err
	})
	g.Go(func() (err error) {
		c.pendencias, err = s.pendencias.ListByEmpresa(gctx, empresaID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *dashboardService) Painel(ctx context.Context, ator Ator, referencia datas.Data) (*estatisticas.Painel, error) {
	if referencia.Vazia() {
		referencia = datas.Hoje(s.loc)
	}
	limite, err := s.LimiteCritico(ctx, ator)
	if err != nil {
		return nil, err
	}
	c, err := s.carregar(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	p := estatisticas.Calcular(c.entregas, c.demandas, c.pendencias, referencia, limite.Dias)
	return &p, nil
}

func (s *dashboardService) LimiteCritico(ctx context.Context, ator Ator) (*dto.LimiteCriticoResponse, error) {
	dias, ok, err := s.preferencias.LimiteCritico(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &dto.LimiteCriticoResponse{Dias: s.limitePadrao, Padrao: true}, nil
	}
	return &dto.LimiteCriticoResponse{Dias: estatisticas.NormalizarLimite(dias)}, nil
}

func (s *dashboardService) DefinirLimiteCritico(ctx context.Context, ator Ator, dias int) (*dto.LimiteCriticoResponse, error) {
	if ator.Papel == model.PapelVisualizador {
		return nil, ErrSemPermissao
	}
	dias = estatisticas.NormalizarLimite(dias)
	if err := s.preferencias.SalvarLimiteCritico(ctx, ator.EmpresaID, dias); err != nil {
		return nil, err
	}
	return &dto.LimiteCriticoResponse{Dias: dias}, nil
}

func (s *dashboardService) Analise(ctx context.Context, ator Ator, referencia datas.Data) (*estatisticas.Analise, error) {
	if referencia.Vazia() {
		referencia = datas.Hoje(s.loc)
	}
	entregas, err := s.entregas.ListByEmpresa(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	a := estatisticas.Analisar(entregas, referencia)
	return &a, nil
}

func (s *dashboardService) Calendario(ctx context.Context, ator Ator, ano, mes int) ([]estatisticas.Evento, error) {
	if mes < 1 || mes > 12 {
		return nil, &ErroValidacao{Campos: map[string]string{"mes": "mes deve estar entre 1 e 12"}}
	}
	c, err := s.carregar(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	return estatisticas.Calendario(c.demandas, c.pendencias, ano, mes), nil
}
