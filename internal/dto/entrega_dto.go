package dto

import (
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// Dates are accepted as YYYY-MM-DD or DD/MM/YYYY.
type CriarEntregaRequest struct {
	NumeroNF      string `json:"numero_nf"      validate:"required,max=60"`
	DataEmissao   string `json:"data_emissao"   validate:"required"`
	DataEntrega   string `json:"data_entrega"`
	DataDevolucao string `json:"data_devolucao"`
	Status        string `json:"status"`
	Retirante     string `json:"retirante"      validate:"max=120"`
	Observacoes   string `json:"observacoes"`
	StatusAdmin   string `json:"status_admin"`
}

// AtualizarEntregaRequest is a partial update; nil fields are left as they are.
type AtualizarEntregaRequest struct {
	NumeroNF      *string `json:"numero_nf"`
	DataEmissao   *string `json:"data_emissao"`
	DataEntrega   *string `json:"data_entrega"`
	DataDevolucao *string `json:"data_devolucao"`
	Status        *string `json:"status"`
	Retirante     *string `json:"retirante"      validate:"omitempty,max=120"`
	Observacoes   *string `json:"observacoes"`
	StatusAdmin   *string `json:"status_admin"`
}

type LoteStatusRequest struct {
	IDs    []string `json:"ids"    validate:"required,min=1,dive,uuid"`
	Status string   `json:"status" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EntregaDetalheResponse struct {
	Entrega    model.Entrega      `json:"entrega"`
	Permissoes permissao.Conjunto `json:"permissoes"`
}

type ResultadoLote struct {
	ID   string `json:"id"`
	OK   bool   `json:"ok"`
	Erro string `json:"erro,omitempty"`
}

type LoteStatusResponse struct {
	Total      int             `json:"total"`
	Sucesso    int             `json:"sucesso"`
	Falhas     int             `json:"falhas"`
	Resultados []ResultadoLote `json:"resultados"`
}
