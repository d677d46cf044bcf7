package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SubcorteRequest struct {
	CodigoProducto string          `json:"codigo_producto"`
	NombreSubcorte string          `json:"nombre_subcorte" validate:"required"`
	Peso           decimal.Decimal `json:"peso"            validate:"min=0"`
}

type CrearTallerRequest struct {
	NombreTaller    string            `json:"nombre_taller"    validate:"required,min=2"`
	Descripcion     *string           `json:"descripcion"`
	Sede            string            `json:"sede"`
	Especie         string            `json:"especie"          validate:"required"`
	PesoInicial     decimal.Decimal   `json:"peso_inicial"     validate:"required"`
	PesoFinal       decimal.Decimal   `json:"peso_final"`
	CodigoPrincipal *string           `json:"codigo_principal"`
	Cortes          []SubcorteRequest `json:"cortes"           validate:"required,min=1,dive"`
}

// ActualizarTallerRequest reemplaza el taller completo, incluidos sus
// subcortes, de forma atomica.
type ActualizarTallerRequest struct {
	NombreTaller    string            `json:"nombre_taller"    validate:"required,min=2"`
	Descripcion     *string           `json:"descripcion"`
	Especie         string            `json:"especie"          validate:"required"`
	PesoInicial     decimal.Decimal   `json:"peso_inicial"     validate:"required"`
	PesoFinal       decimal.Decimal   `json:"peso_final"`
	CodigoPrincipal *string           `json:"codigo_principal"`
	Cortes          []SubcorteRequest `json:"cortes"           validate:"required,min=1,dive"`
}

// MaterialRequest es un taller dentro de un alta agrupada. El nombre se
// genera solo, por eso no viene en el payload.
type MaterialRequest struct {
	Especie         string            `json:"especie"          validate:"required"`
	Descripcion     *string           `json:"descripcion"`
	PesoInicial     decimal.Decimal   `json:"peso_inicial"     validate:"required"`
	PesoFinal       decimal.Decimal   `json:"peso_final"`
	CodigoPrincipal *string           `json:"codigo_principal"`
	Cortes          []SubcorteRequest `json:"cortes"           validate:"required,min=1,dive"`
}

type CrearTallerCompletoRequest struct {
	Descripcion *string           `json:"descripcion"`
	Sede        string            `json:"sede"`
	Materiales  []MaterialRequest `json:"materiales" validate:"required,min=1,dive"`
}

// HistorialFilter llega por query string.
type HistorialFilter struct {
	Sede    string `form:"sede"`
	Especie string `form:"especie"`
	Texto   string `form:"texto"`
	Codigo  string `form:"codigo"`
	Desde   string `form:"desde"` // YYYY-MM-DD
	Hasta   string `form:"hasta"` // YYYY-MM-DD
	Orden   string `form:"orden,default=creado_desc"`
	Page    int    `form:"page,default=1"  validate:"min=1"`
	Limit   int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SubcorteResponse struct {
	ID             string          `json:"id"`
	CodigoProducto string          `json:"codigo_producto"`
	NombreSubcorte string          `json:"nombre_subcorte"`
	Peso           decimal.Decimal `json:"peso"`
}

type TallerResponse struct {
	ID                string             `json:"id"`
	NombreTaller      string             `json:"nombre_taller"`
	Descripcion       *string            `json:"descripcion"`
	Sede              string             `json:"sede"`
	Especie           string             `json:"especie"`
	PesoInicial       decimal.Decimal    `json:"peso_inicial"`
	PesoFinal         decimal.Decimal    `json:"peso_final"`
	PorcentajePerdida *decimal.Decimal   `json:"porcentaje_perdida"`
	CodigoPrincipal   *string            `json:"codigo_principal"`
	TallerGrupoID     *string            `json:"taller_grupo_id"`
	CreadoEn          string             `json:"creado_en"`
	Cortes            []SubcorteResponse `json:"cortes"`
}

type TallerListItem struct {
	ID                string           `json:"id"`
	NombreTaller      string           `json:"nombre_taller"`
	Descripcion       *string          `json:"descripcion"`
	Sede              string           `json:"sede"`
	Especie           string           `json:"especie"`
	PesoInicial       decimal.Decimal  `json:"peso_inicial"`
	PesoFinal         decimal.Decimal  `json:"peso_final"`
	PorcentajePerdida *decimal.Decimal `json:"porcentaje_perdida"`
	TotalPeso         decimal.Decimal  `json:"total_peso"`
	DetallesCount     int              `json:"detalles_count"`
	TallerGrupoID     *string          `json:"taller_grupo_id"`
	CreadoEn          string           `json:"creado_en"`
}

type TallerGrupoResponse struct {
	ID           string           `json:"id"`
	NombreTaller string           `json:"nombre_taller"`
	Descripcion  *string          `json:"descripcion"`
	Sede         string           `json:"sede"`
	CreadoEn     string           `json:"creado_en"`
	Materiales   []TallerResponse `json:"materiales"`
}

// TallerCalculoRow es una fila del calculo re-derivado en lectura.
type TallerCalculoRow struct {
	TallerID          string          `json:"taller_id"`
	NombreCorte       string          `json:"nombre_corte"`
	CodigoProducto    string          `json:"codigo_producto"`
	Descripcion       string          `json:"descripcion"`
	PrecioVenta       decimal.Decimal `json:"precio_venta"`
	Peso              decimal.Decimal `json:"peso"`
	// PesoTotal es el peso base de los porcentajes: el peso inicial del
	// taller, o la suma de subcortes cuando no hay peso inicial.
	PesoTotal         decimal.Decimal `json:"peso_total"`
	PorcentajeDefault decimal.Decimal `json:"porcentaje_default"`
	PorcentajeReal    decimal.Decimal `json:"porcentaje_real"`
	DeltaPct          decimal.Decimal `json:"delta_pct"`
	ValorEstimado     decimal.Decimal `json:"valor_estimado"`
}

type HistorialResponse struct {
	Data  []TallerListItem `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ─── Actividad ───────────────────────────────────────────────────────────────

type ActividadDia struct {
	Fecha    string `json:"fecha"` // YYYY-MM-DD
	Cantidad int    `json:"cantidad"`
}

type ActividadUsuario struct {
	UserID   string         `json:"user_id"`
	Username string         `json:"username"`
	FullName *string        `json:"full_name"`
	Sede     string         `json:"sede"`
	Dias     []ActividadDia `json:"dias"`
}
