package handler

import (
	"net/http"

	"desposte/internal/apierror"
	"desposte/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Resumen godoc
// @Summary Metricas del panel principal con tendencia semanal
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardStats
// @Router /v1/dashboard/resumen [get]
func (h *DashboardHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular metricas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
