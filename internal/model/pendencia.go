package model

import (
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/datas"

	"github.com/google/uuid"
)

// Pendencia records an item a service provider still owes the warehouse.
// Once Resolvida is set the record is read-only.
type Pendencia struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmpresaID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"empresa_id"`
	Prestador         string     `gorm:"not null" json:"prestador"`
	Referencia        string     `gorm:"not null" json:"referencia"`
	Item              string     `gorm:"not null" json:"item"`
	Quantidade        int        `gorm:"not null" json:"quantidade"`
	Motivo            string     `json:"motivo"`
	Data              datas.Data `gorm:"type:date;not null" json:"data"`
	PrevisaoResolucao datas.Data `gorm:"type:date" json:"previsao_resolucao,omitempty"`
	Resolvida         bool       `gorm:"not null;default:false" json:"resolvida"`
	CreatedAt         time.Time  `json:"-"`
	UpdatedAt         time.Time  `json:"-"`
}

func (Pendencia) TableName() string { return "pendencias" }
