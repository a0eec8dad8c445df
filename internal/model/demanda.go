package model

import (
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"

	"github.com/google/uuid"
)

// DemandaComercial is a sales request whose Itens field holds the checklist
// text (see package checklist).
type DemandaComercial struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmpresaID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"empresa_id"`
	Titulo        string        `gorm:"not null" json:"titulo"`
	Cliente       string        `json:"cliente"`
	Projeto       string        `json:"projeto"`
	Vendedor      string        `json:"vendedor"`
	Observacoes   string        `json:"observacoes"`
	DataPedido    datas.Data    `gorm:"type:date;not null" json:"data_pedido"`
	Prazo         datas.Data    `gorm:"type:date;not null" json:"prazo"`
	DataConclusao datas.Data    `gorm:"type:date" json:"data_conclusao,omitempty"`
	Itens         string        `gorm:"type:text" json:"itens"`
	Status        StatusDemanda `gorm:"type:varchar(20);not null" json:"status"`
	Prioridade    Prioridade    `gorm:"type:varchar(10);not null" json:"prioridade"`
	CreatedAt     time.Time     `json:"-"`
	UpdatedAt     time.Time     `json:"-"`
}

func (DemandaComercial) TableName() string { return "demandas_comerciais" }

func (d *DemandaComercial) Concluida() bool { return d.Status == DemandaConcluida }
