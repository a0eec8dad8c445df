package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores company users with role-based access.
// Only users in status Ativo may sign in.
type Usuario struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	Username     string        `gorm:"uniqueIndex;not null"`
	Email        *string       `gorm:"uniqueIndex"`
	PasswordHash string        `gorm:"not null"`
	Papel        Papel         `gorm:"type:varchar(20);not null"`
	Status       StatusUsuario `gorm:"type:varchar(20);not null;default:'Pendente'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Empresa *Empresa `gorm:"foreignKey:EmpresaID"`
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) Ativo() bool { return u.Status == UsuarioAtivo }
