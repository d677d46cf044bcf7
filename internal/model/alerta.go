package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertaSubcorte flags a sub-cut whose share of the initial weight exceeded
// the review threshold at creation time. Revisada is flipped manually by an
// admin after review.
type AlertaSubcorte struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TallerID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Sede             string    `gorm:"not null;index"`
	CreadoPorID      *uuid.UUID `gorm:"type:uuid"`
	NombreSubcorte   string
	CodigoProducto   string
	Peso             decimal.Decimal `gorm:"type:decimal(14,4)"`
	Porcentaje       decimal.Decimal `gorm:"type:decimal(14,4)"`
	PorcentajeUmbral decimal.Decimal `gorm:"type:decimal(14,4)"`
	Revisada         bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time
}

func (AlertaSubcorte) TableName() string { return "alertas_subcorte" }
