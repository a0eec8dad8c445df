package model

import (
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"

	"github.com/google/uuid"
)

// Entrega tracks one invoice (nota fiscal) through the warehouse.
// NumeroNF and DataEmissao are immutable once persisted.
type Entrega struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmpresaID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"empresa_id"`
	NumeroNF      string        `gorm:"column:numero_nf;not null;index" json:"numero_nf"`
	DataEmissao   datas.Data    `gorm:"type:date;not null;index" json:"data_emissao"`
	DataEntrega   datas.Data    `gorm:"type:date" json:"data_entrega,omitempty"`
	DataDevolucao datas.Data    `gorm:"type:date" json:"data_devolucao,omitempty"`
	Status        StatusEntrega `gorm:"type:varchar(30);not null" json:"status"`
	Retirante     string        `json:"retirante"`
	Observacoes   string        `json:"observacoes"`
	StatusAdmin   StatusAdmin   `gorm:"type:varchar(20);not null;default:'Aberto'" json:"status_admin"`
	CreatedAt     time.Time     `json:"-"`
	UpdatedAt     time.Time     `json:"-"`
}

func (Entrega) TableName() string { return "entregas" }
