package repository

import (
	"context"

	"desposte/internal/model"

	"gorm.io/gorm"
)

type ListaPreciosRepository interface {
	ListActivos(ctx context.Context) ([]model.ListaPrecio, error)
	// FindActivosPorReferencias trae candidatos activos que matchean por
	// referencia exacta o normalizada, mas recientes primero. El tie-break
	// final entre candidatos es responsabilidad del resolutor de precios.
	FindActivosPorReferencias(ctx context.Context, referencias, normalizadas []string) ([]model.ListaPrecio, error)
	// FindActivosPorNombres matchea descripcion o referencia contra nombres
	// libres, case-insensitive.
	FindActivosPorNombres(ctx context.Context, nombres []string) ([]model.ListaPrecio, error)
}

type listaPreciosRepo struct{ db *gorm.DB }

func NewListaPreciosRepository(db *gorm.DB) ListaPreciosRepository {
	return &listaPreciosRepo{db: db}
}

func (r *listaPreciosRepo) ListActivos(ctx context.Context) ([]model.ListaPrecio, error) {
	var filas []model.ListaPrecio
	err := r.db.WithContext(ctx).
		Where("activo = true").
		Order("referencia ASC, lista_id ASC").
		Find(&filas).Error
	return filas, err
}

func (r *listaPreciosRepo) FindActivosPorReferencias(ctx context.Context, referencias, normalizadas []string) ([]model.ListaPrecio, error) {
	if len(referencias) == 0 && len(normalizadas) == 0 {
		return nil, nil
	}
	var filas []model.ListaPrecio
	err := r.db.WithContext(ctx).
		Where(
			"activo = true AND (referencia IN ? OR COALESCE(NULLIF(LTRIM(REGEXP_REPLACE(UPPER(referencia), '\\s+', '', 'g'), '0'), ''), '0') IN ?)",
			referencias, normalizadas,
		).
		Order("fecha_vigencia DESC NULLS LAST, id ASC").
		Find(&filas).Error
	return filas, err
}

func (r *listaPreciosRepo) FindActivosPorNombres(ctx context.Context, nombres []string) ([]model.ListaPrecio, error) {
	if len(nombres) == 0 {
		return nil, nil
	}
	var filas []model.ListaPrecio
	err := r.db.WithContext(ctx).
		Where(
			"activo = true AND (LOWER(descripcion) IN ? OR LOWER(referencia) IN ?)",
			nombres, nombres,
		).
		Order("fecha_vigencia DESC NULLS LAST, id ASC").
		Find(&filas).Error
	return filas, err
}
