package handler

import (
	"net/http"

	"desposte/internal/apierror"
	"desposte/internal/dto"
	"desposte/internal/model"
	"desposte/internal/repository"

	"github.com/gin-gonic/gin"
)

// ItemsHandler lists the active reference price list. Es una lectura directa
// del repositorio: no hay logica de negocio entre la tabla y la respuesta.
type ItemsHandler struct{ listas repository.ListaPreciosRepository }

func NewItemsHandler(listas repository.ListaPreciosRepository) *ItemsHandler {
	return &ItemsHandler{listas: listas}
}

// Listar godoc
// @Summary Lista de precios de referencia activa
// @Tags items
// @Produce json
// @Success 200 {array} dto.ListaPrecioResponse
// @Router /v1/items [get]
func (h *ItemsHandler) Listar(c *gin.Context) {
	filas, err := h.listas.ListActivos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar precios"))
		return
	}

	resp := make([]dto.ListaPrecioResponse, 0, len(filas))
	for i := range filas {
		resp = append(resp, mapListaPrecio(&filas[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func mapListaPrecio(fila *model.ListaPrecio) dto.ListaPrecioResponse {
	out := dto.ListaPrecioResponse{
		ID:             fila.ID.String(),
		CodigoProducto: fila.Referencia,
		Referencia:     fila.Referencia,
		ListaID:        fila.ListaID,
		Location:       fila.Location,
		Sede:           fila.Sede,
		Descripcion:    fila.Descripcion,
		Precio:         fila.Precio,
		Unidad:         fila.Unidad,
		Fuente:         fila.SourceFile,
		Activo:         fila.Activo,
	}
	if fila.FechaVigencia != nil {
		fecha := fila.FechaVigencia.Format("2006-01-02")
		out.FechaVigencia = &fecha
	}
	return out
}
