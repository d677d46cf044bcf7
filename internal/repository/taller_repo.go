package repository

import (
	"context"
	"time"

	"desposte/internal/dto"
	"desposte/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ActividadRow es una celda cruda del reporte de actividad: cuantas unidades
// de trabajo creo un usuario en un dia. Un taller agrupado cuenta una sola vez
// por grupo, no una vez por material.
type ActividadRow struct {
	UserID   uuid.UUID
	Fecha    time.Time
	Cantidad int
}

// InventarioRow es un agregado de stock por (codigo, sede, especie) tal como
// sale de la base; la fusion por codigo normalizado ocurre en el servicio.
type InventarioRow struct {
	CodigoProducto string
	Descripcion    string
	TotalPeso      decimal.Decimal
	Sede           string
	Especie        string
}

type TallerRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, tx *gorm.DB, t *model.Taller) error
	CreateGrupo(ctx context.Context, tx *gorm.DB, g *model.TallerGrupo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Taller, error)
	FindGrupoByID(ctx context.Context, id uuid.UUID) (*model.TallerGrupo, error)
	List(ctx context.Context) ([]model.Taller, error)
	ListConDetalles(ctx context.Context) ([]model.Taller, error)
	Update(ctx context.Context, tx *gorm.DB, t *model.Taller) error
	// ReplaceDetallesTx borra y recrea los subcortes de un taller dentro de la
	// transaccion del caller.
	ReplaceDetallesTx(tx *gorm.DB, tallerID uuid.UUID, detalles []model.TallerDetalle) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteGrupo(ctx context.Context, id uuid.UUID) error
	CountPorSedeEspecie(ctx context.Context, sede, especie string) (int64, error)
	Historial(ctx context.Context, f dto.HistorialFilter, desde, hasta *time.Time) ([]model.Taller, int64, error)
	Actividad(ctx context.Context, desde, hasta time.Time) ([]ActividadRow, error)
	Inventario(ctx context.Context, f dto.InventarioFilter) ([]InventarioRow, error)
}

type tallerRepo struct{ db *gorm.DB }

func NewTallerRepository(db *gorm.DB) TallerRepository { return &tallerRepo{db: db} }

func (r *tallerRepo) DB() *gorm.DB { return r.db }

func (r *tallerRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Taller) error {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	return db.Create(t).Error
}

func (r *tallerRepo) CreateGrupo(ctx context.Context, tx *gorm.DB, g *model.TallerGrupo) error {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	return db.Create(g).Error
}

func (r *tallerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Taller, error) {
	var t model.Taller
	err := r.db.WithContext(ctx).Preload("Detalles").First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tallerRepo) FindGrupoByID(ctx context.Context, id uuid.UUID) (*model.TallerGrupo, error) {
	var g model.TallerGrupo
	err := r.db.WithContext(ctx).
		Preload("Materiales.Detalles").
		Preload("Materiales").
		First(&g, "id = ?", id).Error
	return &g, err
}

func (r *tallerRepo) List(ctx context.Context) ([]model.Taller, error) {
	var talleres []model.Taller
	err := r.db.WithContext(ctx).Preload("Detalles").Order("created_at DESC").Find(&talleres).Error
	return talleres, err
}

func (r *tallerRepo) ListConDetalles(ctx context.Context) ([]model.Taller, error) {
	return r.List(ctx)
}

func (r *tallerRepo) Update(ctx context.Context, tx *gorm.DB, t *model.Taller) error {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}
	return db.Omit("Detalles").Save(t).Error
}

func (r *tallerRepo) ReplaceDetallesTx(tx *gorm.DB, tallerID uuid.UUID, detalles []model.TallerDetalle) error {
	if err := tx.Delete(&model.TallerDetalle{}, "taller_id = ?", tallerID).Error; err != nil {
		return err
	}
	for i := range detalles {
		detalles[i].TallerID = tallerID
	}
	if len(detalles) == 0 {
		return nil
	}
	return tx.Create(&detalles).Error
}

func (r *tallerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.TallerDetalle{}, "taller_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.AlertaSubcorte{}, "taller_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Taller{}, "id = ?", id).Error
	})
}

func (r *tallerRepo) DeleteGrupo(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&model.Taller{}).Where("taller_grupo_id = ?", id).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Delete(&model.TallerDetalle{}, "taller_id IN ?", ids).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.AlertaSubcorte{}, "taller_id IN ?", ids).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.Taller{}, "id IN ?", ids).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.TallerGrupo{}, "id = ?", id).Error
	})
}

// CountPorSedeEspecie alimenta el numero secuencial del auto-nombre. Es un
// count-then-insert sin lock: dos altas simultaneas para la misma sede y
// especie pueden repetir numero. Ver DESIGN.md.
func (r *tallerRepo) CountPorSedeEspecie(ctx context.Context, sede, especie string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Taller{}).
		Where("sede = ? AND especie = ?", sede, especie).
		Count(&total).Error
	return total, err
}

func (r *tallerRepo) Historial(ctx context.Context, f dto.HistorialFilter, desde, hasta *time.Time) ([]model.Taller, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Taller{})

	if f.Sede != "" {
		q = q.Where("LOWER(sede) = LOWER(?)", f.Sede)
	}
	if f.Especie != "" {
		q = q.Where("LOWER(especie) = LOWER(?)", f.Especie)
	}
	if f.Texto != "" {
		patron := "%" + f.Texto + "%"
		q = q.Where("nombre_taller ILIKE ? OR descripcion ILIKE ?", patron, patron)
	}
	if f.Codigo != "" {
		q = q.Where(
			"id IN (SELECT taller_id FROM talleres_detalle WHERE codigo_producto ILIKE ?)",
			"%"+f.Codigo+"%",
		)
	}
	if desde != nil {
		q = q.Where("created_at >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("created_at < ?", *hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orden := "created_at DESC"
	switch f.Orden {
	case "creado_asc":
		orden = "created_at ASC"
	case "nombre":
		orden = "nombre_taller ASC"
	case "perdida_desc":
		orden = "porcentaje_perdida DESC NULLS LAST"
	}

	var talleres []model.Taller
	offset := (f.Page - 1) * f.Limit
	err := q.Preload("Detalles").Order(orden).Limit(f.Limit).Offset(offset).Find(&talleres).Error
	return talleres, total, err
}

func (r *tallerRepo) Actividad(ctx context.Context, desde, hasta time.Time) ([]ActividadRow, error) {
	var rows []ActividadRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT creado_por_id AS user_id,
		       DATE(created_at) AS fecha,
		       COUNT(DISTINCT COALESCE(taller_grupo_id, id)) AS cantidad
		FROM talleres
		WHERE creado_por_id IS NOT NULL AND created_at >= ? AND created_at < ?
		GROUP BY creado_por_id, DATE(created_at)`,
		desde, hasta,
	).Scan(&rows).Error
	return rows, err
}

func (r *tallerRepo) Inventario(ctx context.Context, f dto.InventarioFilter) ([]InventarioRow, error) {
	q := r.db.WithContext(ctx).
		Table("talleres_detalle AS d").
		Select(`d.codigo_producto,
			MAX(d.nombre_subcorte) AS descripcion,
			SUM(d.peso) AS total_peso,
			t.sede,
			t.especie`).
		Joins("JOIN talleres t ON t.id = d.taller_id").
		Group("d.codigo_producto, t.sede, t.especie")

	if f.Sede != "" {
		q = q.Where("LOWER(t.sede) = LOWER(?)", f.Sede)
	}
	if f.Especie != "" {
		q = q.Where("LOWER(t.especie) = LOWER(?)", f.Especie)
	}
	if f.Search != "" {
		patron := "%" + f.Search + "%"
		q = q.Where("d.codigo_producto ILIKE ? OR d.nombre_subcorte ILIKE ?", patron, patron)
	}

	var rows []InventarioRow
	err := q.Order("SUM(d.peso) DESC").Scan(&rows).Error
	return rows, err
}
