package dto

import "github.com/shopspring/decimal"

// ListaPrecioResponse expone una fila activa de la lista de precios.
type ListaPrecioResponse struct {
	ID             string           `json:"id"`
	CodigoProducto string           `json:"codigo_producto"`
	Referencia     string           `json:"referencia"`
	ListaID        *int             `json:"lista_id"`
	Location       *string          `json:"location"`
	Sede           *string          `json:"sede"`
	Descripcion    string           `json:"descripcion"`
	Precio         *decimal.Decimal `json:"precio"`
	FechaVigencia  *string          `json:"fecha_vigencia"`
	Unidad         *string          `json:"unidad"`
	Fuente         *string          `json:"fuente"`
	Activo         bool             `json:"activo"`
}

// ConsultaPrecioResponse es la respuesta del consulta-precio publico cacheado.
// Origen dice de donde salio el precio (catalogo, lista de referencia o sin
// precio), con los mismos valores que expone el calculo de talleres.
type ConsultaPrecioResponse struct {
	CodigoProducto string          `json:"codigo_producto"`
	Descripcion    string          `json:"descripcion"`
	Precio         decimal.Decimal `json:"precio"`
	Origen         string          `json:"origen"`
}

// CargaPreciosResponse resume un upload de planilla de precios.
type CargaPreciosResponse struct {
	InsertadosActualizados int `json:"insertados_actualizados"`
	Rechazados             int `json:"rechazados"`
}
