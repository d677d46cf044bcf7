package dto

import "github.com/shopspring/decimal"

// DashboardMetric: Trend nil = sin periodo previo comparable.
type DashboardMetric struct {
	Value int      `json:"value"`
	Trend *float64 `json:"trend"`
}

type DashboardStats struct {
	TalleresActivos  DashboardMetric `json:"talleres_activos"`
	CompletadosHoy   DashboardMetric `json:"completados_hoy"`
	InventarioBajo   DashboardMetric `json:"inventario_bajo"`
	UsuariosActivos  DashboardMetric `json:"usuarios_activos"`
}

// AlertaSubcorteResponse serializa una alerta de subcorte para revision.
type AlertaSubcorteResponse struct {
	ID               string          `json:"id"`
	TallerID         string          `json:"taller_id"`
	Sede             string          `json:"sede"`
	CreadoPor        *string         `json:"creado_por"`
	NombreSubcorte   string          `json:"nombre_subcorte"`
	CodigoProducto   string          `json:"codigo_producto"`
	Peso             decimal.Decimal `json:"peso"`
	Porcentaje       decimal.Decimal `json:"porcentaje"`
	PorcentajeUmbral decimal.Decimal `json:"porcentaje_umbral"`
	Revisada         bool            `json:"revisada"`
	CreadoEn         string          `json:"creado_en"`
}

type RevisarAlertaRequest struct {
	Revisada bool `json:"revisada"`
}
