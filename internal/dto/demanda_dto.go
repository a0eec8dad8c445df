package dto

import (
	"github.com/felipedarroz/Almoxarifado-Pro/internal/checklist"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/permissao"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CriarDemandaRequest: Titulo falls back to Cliente when empty.
type CriarDemandaRequest struct {
	Titulo      string `json:"titulo"`
	Cliente     string `json:"cliente"      validate:"required_without=Titulo"`
	Projeto     string `json:"projeto"`
	Vendedor    string `json:"vendedor"`
	Observacoes string `json:"observacoes"`
	DataPedido  string `json:"data_pedido"`
	Prazo       string `json:"prazo"        validate:"required"`
	Itens       string `json:"itens"`
	Prioridade  string `json:"prioridade"   validate:"omitempty,oneof=Baixa Média Alta Urgente"`
}

type AtualizarDemandaRequest struct {
	Titulo      *string `json:"titulo"`
	Cliente     *string `json:"cliente"`
	Projeto     *string `json:"projeto"`
	Vendedor    *string `json:"vendedor"`
	Observacoes *string `json:"observacoes"`
	DataPedido  *string `json:"data_pedido"`
	Prazo       *string `json:"prazo"`
	Itens       *string `json:"itens"`
	Prioridade  *string `json:"prioridade"   validate:"omitempty,oneof=Baixa Média Alta Urgente"`
}

type AlterarStatusDemandaRequest struct {
	Status string `json:"status" validate:"required"`
}

// ConcluirDemandaRequest: an empty DataConclusao means today.
type ConcluirDemandaRequest struct {
	DataConclusao string `json:"data_conclusao"`
}

type EnviarResumoRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DemandaResponse struct {
	model.DemandaComercial
	Checklist  []checklist.Item   `json:"checklist"`
	Progresso  int                `json:"progresso"`
	Permissoes permissao.Conjunto `json:"permissoes"`
}

type EnvioResumoResponse struct {
	Mensagem string `json:"mensagem"`
	Email    string `json:"email"`
}
