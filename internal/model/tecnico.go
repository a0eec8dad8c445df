package model

import (
	"time"

	"github.com/google/uuid"
)

// Tecnico is a technician who may withdraw deliveries. Deliveries reference
// technicians by name, so removing one never touches existing deliveries.
type Tecnico struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmpresaID uuid.UUID `gorm:"type:uuid;not null;index" json:"empresa_id"`
	Nome      string    `gorm:"not null" json:"nome"`
	CreatedAt time.Time `json:"-"`
}

func (Tecnico) TableName() string { return "tecnicos" }
