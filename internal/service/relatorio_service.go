package service

import (
	"context"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/relatorio"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"
)

type RelatorioService interface {
	// Mensal builds the closing workbook for [inicio, fim] and returns its
	// file name and bytes.
	Mensal(ctx context.Context, ator Ator, inicio, fim datas.Data) (string, []byte, error)
}

type relatorioService struct {
	entregas repository.EntregaRepository
	demandas repository.DemandaRepository
}

func NewRelatorioService(entregas repository.EntregaRepository, demandas repository.DemandaRepository) RelatorioService {
	return &relatorioService{entregas: entregas, demandas: demandas}
}

func (s *relatorioService) Mensal(ctx context.Context, ator Ator, inicio, fim datas.Data) (string, []byte, error) {
	v := validacao{}
	if inicio.Vazia() {
		v.add("inicio", "data inicial obrigatoria")
	}
	if fim.Vazia() {
		v.add("fim", "data final obrigatoria")
	}
	if !inicio.Vazia() && !fim.Vazia() && fim < inicio {
		v.add("fim", "data final anterior a inicial")
	}
	if err := v.err(); err != nil {
		return "", nil, err
	}

	entregas, err := s.entregas.ListByPeriodo(ctx, ator.EmpresaID, inicio, fim)
	if err != nil {
		return "", nil, err
	}
	demandas, err := s.demandas.ListByPeriodo(ctx, ator.EmpresaID, inicio, fim)
	if err != nil {
		return "", nil, err
	}
	data, err := relatorio.Gerar(entregas, demandas)
	if err != nil {
		return "", nil, err
	}
	return relatorio.NomeArquivo(inicio, fim), data, nil
}
