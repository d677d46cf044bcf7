package repository

import (
	"context"

	"desposte/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error)
	// FindByCodigos trae los items cuyo codigo matchea exactamente alguno de
	// codigos, o cuya forma normalizada en SQL cae en normalizados. El caller
	// reindexa por codigo normalizado en Go; la consulta puede sobre-traer.
	FindByCodigos(ctx context.Context, codigos, normalizados []string) ([]model.Item, error)
	// UpsertPorCodigo inserta o actualiza (descripcion, precio, fuente) por
	// codigo_producto.
	UpsertPorCodigo(ctx context.Context, tx *gorm.DB, item *model.Item) error
	CreateRechazado(ctx context.Context, tx *gorm.DB, r *model.PrecioRechazado) error
	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	return &item, err
}

func (r *itemRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []model.Item
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByCodigos(ctx context.Context, codigos, normalizados []string) ([]model.Item, error) {
	if len(codigos) == 0 && len(normalizados) == 0 {
		return nil, nil
	}
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where(
			"codigo_producto IN ? OR COALESCE(NULLIF(LTRIM(REGEXP_REPLACE(UPPER(codigo_producto), '\\s+', '', 'g'), '0'), ''), '0') IN ?",
			codigos, normalizados,
		).
		Find(&items).Error
	return items, err
}

func (r *itemRepo) UpsertPorCodigo(ctx context.Context, tx *gorm.DB, item *model.Item) error {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	var existente model.Item
	err := db.Where("codigo_producto = ?", item.CodigoProducto).First(&existente).Error
	if err == nil {
		existente.Descripcion = item.Descripcion
		existente.PrecioVenta = item.PrecioVenta
		existente.FuenteArchivo = item.FuenteArchivo
		if item.Nombre != "" {
			existente.Nombre = item.Nombre
		}
		return db.Save(&existente).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return db.Create(item).Error
}

func (r *itemRepo) CreateRechazado(ctx context.Context, tx *gorm.DB, rec *model.PrecioRechazado) error {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	return db.Create(rec).Error
}

func (r *itemRepo) DB() *gorm.DB { return r.db }
