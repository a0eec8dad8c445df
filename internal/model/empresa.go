package model

import (
	"time"

	"github.com/google/uuid"
)

// Empresa is the tenant boundary. Every record belongs to exactly one.
type Empresa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func (Empresa) TableName() string { return "empresas" }
