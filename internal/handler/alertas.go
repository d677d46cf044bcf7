package handler

import (
	"net/http"

	"desposte/internal/dto"
	"desposte/internal/middleware"
	"desposte/internal/service"

	"github.com/gin-gonic/gin"
)

// AlertasHandler sirve las alertas de subcortes dominantes. El alcance por
// sede lo decide la politica dentro del servicio.
type AlertasHandler struct{ svc service.AlertaService }

func NewAlertasHandler(svc service.AlertaService) *AlertasHandler {
	return &AlertasHandler{svc: svc}
}

func (h *AlertasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AlertasHandler) Revisar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.RevisarAlertaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Revisar(c.Request.Context(), middleware.GetActor(c), id, req.Revisada)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
