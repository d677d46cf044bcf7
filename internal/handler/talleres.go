package handler

import (
	"context"
	"net/http"
	"time"

	"desposte/internal/apierror"
	"desposte/internal/autorizacion"
	"desposte/internal/dto"
	"desposte/internal/middleware"
	"desposte/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TalleresHandler struct {
	svc      service.TallerService
	informes service.InformeService
}

func NewTalleresHandler(svc service.TallerService, informes service.InformeService) *TalleresHandler {
	return &TalleresHandler{svc: svc, informes: informes}
}

// Crear godoc
// @Summary Registro de un taller de desposte
// @Tags talleres
// @Accept json
// @Produce json
// @Param body body dto.CrearTallerRequest true "Taller"
// @Success 201 {object} dto.TallerResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/talleres [post]
func (h *TalleresHandler) Crear(c *gin.Context) {
	var req dto.CrearTallerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sede, ok := resolverSede(c, req.Sede)
	if !ok {
		return
	}
	req.Sede = sede

	actor := middleware.GetActor(c)
	resp, err := h.svc.Crear(c.Request.Context(), &actor.ID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CrearCompleto da de alta un grupo de materias primas en una transaccion.
// Los nombres de cada taller se generan secuencialmente por (sede, especie).
func (h *TalleresHandler) CrearCompleto(c *gin.Context) {
	var req dto.CrearTallerCompletoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sede, ok := resolverSede(c, req.Sede)
	if !ok {
		return
	}
	req.Sede = sede

	actor := middleware.GetActor(c)
	resp, err := h.svc.CrearCompleto(c.Request.Context(), &actor.ID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TalleresHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar talleres"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TalleresHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Calculo godoc
// @Summary Calculo de rendimiento de un taller
// @Tags talleres
// @Produce json
// @Param id path string true "ID del taller"
// @Success 200 {array} dto.TallerCalculoRow
// @Failure 404 {object} apierror.APIError
// @Router /v1/talleres/{id}/calculo [get]
func (h *TalleresHandler) Calculo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rows, err := h.svc.Calculo(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *TalleresHandler) Historial(c *gin.Context) {
	var f dto.HistorialFilter
	if !bindQueryAndValidate(c, &f) {
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actividad devuelve la matriz densa (usuario x dia) de talleres creados.
// Sin rango explicito cubre los ultimos 7 dias.
func (h *TalleresHandler) Actividad(c *gin.Context) {
	hasta := time.Now()
	desde := hasta.AddDate(0, 0, -6)

	const dia = "2006-01-02"
	var err error
	if raw := c.Query("desde"); raw != "" {
		if desde, err = time.Parse(dia, raw); err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Fecha desde invalida: use YYYY-MM-DD"))
			return
		}
	}
	if raw := c.Query("hasta"); raw != "" {
		if hasta, err = time.Parse(dia, raw); err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Fecha hasta invalida: use YYYY-MM-DD"))
			return
		}
	}

	resp, err := h.svc.Actividad(c.Request.Context(), desde, hasta)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TalleresHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarTallerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar borra un taller. La politica exige admin global o admin de la
// sede del taller, asi que primero se carga el recurso.
func (h *TalleresHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	taller, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	if !autorizarEliminacion(c, taller.Sede) {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EliminarGrupo borra un grupo con todos sus materiales.
func (h *TalleresHandler) EliminarGrupo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	grupo, err := h.svc.ObtenerGrupo(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	if !autorizarEliminacion(c, grupo.Sede) {
		return
	}
	if err := h.svc.EliminarGrupo(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func autorizarEliminacion(c *gin.Context, sede string) bool {
	actor := middleware.GetActor(c)
	d := autorizacion.Evaluar(actor, autorizacion.AccionEliminarTaller, autorizacion.Recurso{Sede: sede})
	if !d.Permitido {
		c.JSON(http.StatusForbidden, apierror.New("Permisos insuficientes: "+d.Motivo))
		return false
	}
	return true
}

// Informe descarga el informe del taller como planilla xlsx.
func (h *TalleresHandler) Informe(c *gin.Context) {
	h.descargar(c, h.informes.ExportarXlsx,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// InformePDF descarga el informe del taller como PDF.
func (h *TalleresHandler) InformePDF(c *gin.Context) {
	h.descargar(c, h.informes.ExportarPDF, "application/pdf")
}

func (h *TalleresHandler) descargar(c *gin.Context, exportar func(ctx context.Context, id uuid.UUID) ([]byte, string, error), contentType string) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	data, nombre, err := exportar(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, contentType, data)
}
