package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListaPrecio is one row of the separately ingested reference price list.
// Several rows can share the same (normalized) referencia across sources and
// validity dates; the resolver in service/precio picks one deterministically.
type ListaPrecio struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Location        *string
	Sede            *string
	ListaID         *int
	Referencia      string `gorm:"not null;index"`
	Descripcion     string `gorm:"not null"`
	FechaVigencia   *time.Time `gorm:"type:date"`
	Precio          *decimal.Decimal `gorm:"type:decimal(14,4)"`
	Unidad          *string
	FechaActivacion *time.Time `gorm:"type:date"`
	SourceFile      *string
	FileHash        *string
	IngestedAt      *time.Time
	Activo          bool `gorm:"not null;default:true"`
}

func (ListaPrecio) TableName() string { return "precios_lista" }

// PrecioRechazado keeps spreadsheet rows that failed price parsing so a batch
// upload never fails wholesale. Rows are immutable.
type PrecioRechazado struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RawItem        string
	RawDescripcion string
	RawPrecio      string
	Motivo         string
	FuenteArchivo  string
	CreatedAt      time.Time
}

func (PrecioRechazado) TableName() string { return "precios_rechazados" }
