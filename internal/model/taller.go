package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Taller is one processing run: a primary cut weighed in, a set of weighed
// sub-cuts out, and the derived loss. A taller optionally belongs to a
// TallerGrupo when it was created as part of a multi-material batch.
type Taller struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreTaller      string    `gorm:"not null"`
	Descripcion       *string
	Sede              string           `gorm:"not null;index"`
	Especie           string           `gorm:"type:varchar(10);not null;index"` // "res" | "cerdo"
	PesoInicial       decimal.Decimal  `gorm:"type:decimal(14,4);not null"`
	PesoFinal         decimal.Decimal  `gorm:"type:decimal(14,4);not null"`
	PorcentajePerdida *decimal.Decimal `gorm:"type:decimal(14,4)"`
	CodigoPrincipal   *string
	ItemPrincipalID   *uuid.UUID `gorm:"type:uuid"`
	TallerGrupoID     *uuid.UUID `gorm:"type:uuid;index"`
	CreadoPorID       *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt         time.Time

	// Detalles share the taller's lifecycle: created and deleted together.
	Detalles []TallerDetalle `gorm:"foreignKey:TallerID;constraint:OnDelete:CASCADE"`
}

func (Taller) TableName() string { return "talleres" }

// TallerDetalle is one weighed sub-cut. CodigoProducto is free text and is not
// required to exist in the catalog; ItemID is set only when the cut was linked
// to a catalog entry at creation time.
type TallerDetalle struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TallerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID         *uuid.UUID `gorm:"type:uuid"`
	CodigoProducto string
	NombreSubcorte string
	Peso           decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	CreatedAt      time.Time
}

func (TallerDetalle) TableName() string { return "talleres_detalle" }

// TallerGrupo bundles the talleres created together from one intake event
// (e.g. a res and a cerdo primary cut). Its name is inherited from the first
// generated material name. Deleting a grupo cascades to its materiales.
type TallerGrupo struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreTaller string    `gorm:"not null"`
	Descripcion  *string
	Sede         string `gorm:"not null"`
	Especie      string `gorm:"type:varchar(10)"`
	CreadoPorID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time

	Materiales []Taller `gorm:"foreignKey:TallerGrupoID;constraint:OnDelete:CASCADE"`
}

func (TallerGrupo) TableName() string { return "talleres_grupo" }
