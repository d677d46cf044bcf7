package repository

import (
	"context"

	"desposte/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertaRepository interface {
	// CreateTx se usa dentro de la transaccion de creacion del taller.
	CreateTx(tx *gorm.DB, a *model.AlertaSubcorte) error
	// List devuelve todas las alertas o, con sede no nil, solo las de esa sede.
	List(ctx context.Context, sede *string) ([]model.AlertaSubcorte, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.AlertaSubcorte, error)
	Update(ctx context.Context, a *model.AlertaSubcorte) error
}

type alertaRepo struct{ db *gorm.DB }

func NewAlertaRepository(db *gorm.DB) AlertaRepository { return &alertaRepo{db: db} }

func (r *alertaRepo) CreateTx(tx *gorm.DB, a *model.AlertaSubcorte) error {
	return tx.Create(a).Error
}

func (r *alertaRepo) List(ctx context.Context, sede *string) ([]model.AlertaSubcorte, error) {
	q := r.db.WithContext(ctx).Model(&model.AlertaSubcorte{})
	if sede != nil {
		q = q.Where("sede = ?", *sede)
	}
	var alertas []model.AlertaSubcorte
	err := q.Order("created_at DESC").Find(&alertas).Error
	return alertas, err
}

func (r *alertaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AlertaSubcorte, error) {
	var a model.AlertaSubcorte
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *alertaRepo) Update(ctx context.Context, a *model.AlertaSubcorte) error {
	return r.db.WithContext(ctx).Save(a).Error
}
