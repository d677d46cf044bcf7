package dto

import "github.com/shopspring/decimal"

type InventarioFilter struct {
	Sede    string `form:"sede"`
	Search  string `form:"search"`
	Especie string `form:"especie"`
}

type InventarioItem struct {
	CodigoProducto string          `json:"codigo_producto"`
	Descripcion    string          `json:"descripcion"`
	TotalPeso      decimal.Decimal `json:"total_peso"`
	Sede           string          `json:"sede"`
	Especie        string          `json:"especie"`
	Entradas       decimal.Decimal `json:"entradas"`
	SalidasPend    decimal.Decimal `json:"salidas_pendientes"`
}
