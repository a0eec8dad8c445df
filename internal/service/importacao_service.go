package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/importacao"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrEntradaInvalida marks input that could not be parsed at all. Nothing is
// written when it is returned.
var ErrEntradaInvalida = errors.New("entrada invalida")

type ImportacaoService interface {
	ImportarPlanilha(ctx context.Context, ator Ator, r io.Reader) (*dto.ImportacaoResponse, error)
	ImportarTexto(ctx context.Context, ator Ator, texto string) (*dto.ImportacaoResponse, error)
}

type importacaoService struct {
	entregas repository.EntregaRepository
	loc      *time.Location
}

func NewImportacaoService(entregas repository.EntregaRepository, loc *time.Location) ImportacaoService {
	return &importacaoService{entregas: entregas, loc: loc}
}

func (s *importacaoService) ImportarPlanilha(ctx context.Context, ator Ator, r io.Reader) (*dto.ImportacaoResponse, error) {
	if !permissao.ParaAdministracao(ator.Papel).Criar {
		return nil, ErrSemPermissao
	}
	linhas, err := importacao.LerPlanilha(r, datas.Hoje(s.loc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntradaInvalida, err)
	}
	return s.gravar(ctx, ator, linhas)
}

func (s *importacaoService) ImportarTexto(ctx context.Context, ator Ator, texto string) (*dto.ImportacaoResponse, error) {
	if !permissao.ParaAdministracao(ator.Papel).Criar {
		return nil, ErrSemPermissao
	}
	linhas, err := importacao.LerTexto(texto, datas.Hoje(s.loc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntradaInvalida, err)
	}
	return s.gravar(ctx, ator, linhas)
}

// gravar writes one delivery per parsed row concurrently and reports every
// failed row.
func (s *importacaoService) gravar(ctx context.Context, ator Ator, linhas []importacao.Linha) (*dto.ImportacaoResponse, error) {
	entregas := importacao.Entregas(linhas, ator.EmpresaID)
	falhas := make([]error, len(entregas))

	var g errgroup.Group
	g.SetLimit(limiteLote)
	for i := range entregas {
		i := i
		g.Go(func() error {
			falhas[i] = s.entregas.Create(ctx, &entregas[i])
			return nil
		})
	}
	_ = g.Wait()

	resp := &dto.ImportacaoResponse{TotalLinhas: len(entregas), Detalhes: []dto.ErroImportacao{}}
	for i, err := range falhas {
		if err == nil {
			resp.Criadas++
			continue
		}
		resp.Erros++
		log.Error().Err(err).Str("numero_nf", entregas[i].NumeroNF).Msg("importacao: row write failed")
		resp.Detalhes = append(resp.Detalhes, dto.ErroImportacao{
			Linha:    i + 1,
			NumeroNF: entregas[i].NumeroNF,
			Motivo:   "erro ao gravar registro",
		})
	}
	log.Info().
		Str("empresa_id", ator.EmpresaID.String()).
		Int("total", resp.TotalLinhas).
		Int("criadas", resp.Criadas).
		Int("erros", resp.Erros).
		Msg("importacao: finished")
	return resp, nil
}
