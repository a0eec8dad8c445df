package service

import (
	"context"
	"fmt"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/dto"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BackupService exports and restores a company snapshot. Users are exported
// without password material and are never restored.
type BackupService interface {
	Exportar(ctx context.Context, ator Ator) (*dto.Backup, error)
	// Importar replaces every collection present in b in one transaction;
	// absent ones are untouched. Restored rows get fresh IDs.
	Importar(ctx context.Context, ator Ator, b dto.Backup) (*dto.BackupImportResponse, error)
}

type backupService struct {
	entregas   repository.EntregaRepository
	pendencias repository.PendenciaRepository
	demandas   repository.DemandaRepository
	tecnicos   repository.TecnicoRepository
	usuarios   repository.UsuarioRepository
	restauro   repository.BackupRepository
}

func NewBackupService(
	entregas repository.EntregaRepository,
	pendencias repository.PendenciaRepository,
	demandas repository.DemandaRepository,
	tecnicos repository.TecnicoRepository,
	usuarios repository.UsuarioRepository,
	restauro repository.BackupRepository,
) BackupService {
	return &backupService{
		entregas:   entregas,
		pendencias: pendencias,
		demandas:   demandas,
		tecnicos:   tecnicos,
		usuarios:   usuarios,
		restauro:   restauro,
	}
}

func (s *backupService) Exportar(ctx context.Context, ator Ator) (*dto.Backup, error) {
	if !permissao.ParaAdministracao(ator.Papel).EditarCampos {
		return nil, ErrSemPermissao
	}
	entregas, err := s.entregas.ListByEmpresa(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	pendencias, err := s.pendencias.ListByEmpresa(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	demandas, err := s.demandas.ListByEmpresa(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	tecnicos, err := s.tecnicos.ListByEmpresa(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	usuarios, err := s.usuarios.ListByEmpresa(ctx, ator.EmpresaID)
	if err != nil {
		return nil, err
	}
	users := make([]dto.UsuarioResponse, len(usuarios))
	for i := range usuarios {
		users[i] = usuarioResponse(&usuarios[i])
	}
	return &dto.Backup{
		Deliveries:        &entregas,
		Pendencies:        &pendencias,
		CommercialDemands: &demandas,
		Users:             &users,
		Technicians:       &tecnicos,
	}, nil
}

func (s *backupService) Importar(ctx context.Context, ator Ator, b dto.Backup) (*dto.BackupImportResponse, error) {
	if !permissao.ParaAdministracao(ator.Papel).EditarCampos {
		return nil, ErrSemPermissao
	}

	// normalise everything before the first write
	v := validacao{}
	if b.Deliveries != nil {
		normalizarEntregas(v, ator.EmpresaID, *b.Deliveries)
	}
	if b.Pendencies != nil {
		normalizarPendencias(v, ator.EmpresaID, *b.Pendencies)
	}
	if b.CommercialDemands != nil {
		normalizarDemandas(v, ator.EmpresaID, *b.CommercialDemands)
	}
	if b.Technicians != nil {
		for i := range *b.Technicians {
			t := &(*b.Technicians)[i]
			t.EmpresaID = ator.EmpresaID
			t.ID = model.NovoID()
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	rest := repository.Restauracao{
		Entregas:   b.Deliveries,
		Pendencias: b.Pendencies,
		Demandas:   b.CommercialDemands,
		Tecnicos:   b.Technicians,
	}
	if err := s.restauro.Restaurar(ctx, ator.EmpresaID, rest); err != nil {
		return nil, err
	}

	resp := &dto.BackupImportResponse{Restaurados: map[string]int{}, Ignorados: []string{}}
	if b.Deliveries != nil {
		resp.Restaurados["deliveries"] = len(*b.Deliveries)
	}
	if b.Pendencies != nil {
		resp.Restaurados["pendencies"] = len(*b.Pendencies)
	}
	if b.CommercialDemands != nil {
		resp.Restaurados["commercialDemands"] = len(*b.CommercialDemands)
	}
	if b.Technicians != nil {
		resp.Restaurados["technicians"] = len(*b.Technicians)
	}
	if b.Users != nil {
		resp.Ignorados = append(resp.Ignorados, "users")
		log.Warn().Str("empresa_id", ator.EmpresaID.String()).Msg("backup: users collection ignored on import")
	}

	log.Info().
		Str("empresa_id", ator.EmpresaID.String()).
		Interface("restaurados", resp.Restaurados).
		Msg("backup: imported")
	return resp, nil
}

// normalizarData re-parses a date that may carry a time part or the BR layout.
func normalizarData(v validacao, campo string, d *datas.Data) {
	n, err := datas.Parse(string(*d))
	if err != nil {
		v.add(campo, fmt.Sprintf("data invalida: %q", string(*d)))
		return
	}
	*d = n
}

func normalizarEntregas(v validacao, empresaID uuid.UUID, rows []model.Entrega) {
	for i := range rows {
		e := &rows[i]
		e.EmpresaID = empresaID
		e.ID = model.NovoID()
		if e.Status == "" {
			e.Status = model.EntregaPendente
		}
		if e.StatusAdmin == "" {
			e.StatusAdmin = model.AdminAberto
		}
		campo := fmt.Sprintf("deliveries[%d]", i)
		normalizarData(v, campo+".data_emissao", &e.DataEmissao)
		normalizarData(v, campo+".data_entrega", &e.DataEntrega)
		normalizarData(v, campo+".data_devolucao", &e.DataDevolucao)
		if !e.Status.Valido() || !e.StatusAdmin.Valido() {
			v.add(campo+".status", "status invalido")
		}
	}
}

func normalizarPendencias(v validacao, empresaID uuid.UUID, rows []model.Pendencia) {
	for i := range rows {
		p := &rows[i]
		p.EmpresaID = empresaID
		p.ID = model.NovoID()
		campo := fmt.Sprintf("pendencies[%d]", i)
		normalizarData(v, campo+".data", &p.Data)
		normalizarData(v, campo+".previsao_resolucao", &p.PrevisaoResolucao)
		if p.Quantidade <= 0 {
			v.add(campo+".quantidade", "quantidade deve ser maior que zero")
		}
	}
}

func normalizarDemandas(v validacao, empresaID uuid.UUID, rows []model.DemandaComercial) {
	for i := range rows {
		d := &rows[i]
		d.EmpresaID = empresaID
		d.ID = model.NovoID()
		if d.Status == "" {
			d.Status = model.DemandaPendente
		}
		if d.Prioridade == "" {
			d.Prioridade = model.PrioridadeMedia
		}
		if d.Titulo == "" {
			d.Titulo = d.Cliente
		}
		campo := fmt.Sprintf("commercialDemands[%d]", i)
		normalizarData(v, campo+".data_pedido", &d.DataPedido)
		normalizarData(v, campo+".prazo", &d.Prazo)
		normalizarData(v, campo+".data_conclusao", &d.DataConclusao)
		if !d.Status.Valido() || !d.Prioridade.Valido() {
			v.add(campo+".status", "status ou prioridade invalidos")
		}
	}
}
