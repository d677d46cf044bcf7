package handler

import (
	"net/http"

	"desposte/internal/dto"
	"desposte/internal/middleware"
	"desposte/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Listar godoc
// @Summary Inventario agregado por codigo, sede y especie
// @Tags inventario
// @Produce json
// @Param sede query string false "Filtra por sede"
// @Param especie query string false "res o cerdo"
// @Param search query string false "Texto en codigo o descripcion"
// @Success 200 {array} dto.InventarioItem
// @Router /v1/inventario [get]
func (h *InventarioHandler) Listar(c *gin.Context) {
	var f dto.InventarioFilter
	if !bindQueryAndValidate(c, &f) {
		return
	}

	// Sin filtro explicito, un operador con sede ve la suya.
	actor := middleware.GetActor(c)
	if f.Sede == "" && !actor.IsAdmin && !actor.IsGerente {
		f.Sede = actor.Sede
	}

	resp, err := h.svc.Listar(c.Request.Context(), f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
