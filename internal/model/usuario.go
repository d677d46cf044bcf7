package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores system users with role flags.
// IsAdmin = global admin, IsGerente = manager (reporting access),
// IsSedeAdmin = branch admin restricted to operators of their own sede.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        *string   `gorm:"uniqueIndex"`
	FullName     *string
	PasswordHash string `gorm:"not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	IsGerente    bool   `gorm:"not null;default:false"`
	IsSedeAdmin  bool   `gorm:"not null;default:false"`
	Activo       bool   `gorm:"not null;default:true"`
	// Sede is the assigned branch; nil for back-office users without one.
	Sede      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
