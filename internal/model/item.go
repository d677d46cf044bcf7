package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a priced catalog entry. Rows are materialized from the uploaded
// price spreadsheets and referenced (never owned) by taller sub-cuts.
type Item struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoProducto string    `gorm:"uniqueIndex;not null"`
	// Nombre is the clean display name; Descripcion keeps the raw text from
	// the source file.
	Nombre        string `gorm:"type:varchar(120)"`
	Descripcion   string
	Especie       string          `gorm:"type:varchar(10)"` // "res" | "cerdo"
	Activo        bool            `gorm:"not null;default:true"`
	PrecioVenta   decimal.Decimal `gorm:"type:decimal(14,4)"`
	FuenteArchivo string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
