package handler

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"desposte/internal/apierror"
	"desposte/internal/config"
	"desposte/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// maxPlanillaBytes caps uploaded spreadsheets at 20 MB.
const maxPlanillaBytes = 20 << 20

// UploadHandler recibe las planillas de precios y las pasa al ETL. Una copia
// del archivo original queda archivada en disco para auditoria.
type UploadHandler struct {
	svc service.CargaPreciosService
	cfg *config.Config
}

func NewUploadHandler(svc service.CargaPreciosService, cfg *config.Config) *UploadHandler {
	return &UploadHandler{svc: svc, cfg: cfg}
}

// CargarPrecios godoc
// @Summary Carga masiva de precios desde planilla xlsx
// @Tags precios
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Planilla de precios"
// @Success 200 {object} dto.CargaPreciosResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/upload/precios [post]
func (h *UploadHandler) CargarPrecios(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo: use el campo file"))
		return
	}
	if fh.Size > maxPlanillaBytes {
		c.JSON(http.StatusBadRequest, apierror.New("El archivo supera el tamano maximo permitido"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo abrir el archivo"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPlanillaBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}

	h.archivar(fh.Filename, data)

	resp, err := h.svc.CargarPlanilla(c.Request.Context(), bytes.NewReader(data), fh.Filename)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// archivar guarda la copia original en UploadDir. Es best-effort: si el disco
// falla la carga sigue, pero queda el warning en el log.
func (h *UploadHandler) archivar(nombre string, data []byte) {
	if h.cfg.UploadDir == "" {
		return
	}
	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		log.Warn().Err(err).Msg("no se pudo crear el directorio de uploads")
		return
	}
	destino := filepath.Join(h.cfg.UploadDir,
		time.Now().Format("20060102-150405")+"_"+sanitizarNombre(nombre))
	if err := os.WriteFile(destino, data, 0o644); err != nil {
		log.Warn().Err(err).Str("archivo", destino).Msg("no se pudo archivar la planilla")
	}
}

func sanitizarNombre(nombre string) string {
	base := filepath.Base(nombre)
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" || base == "." {
		base = "planilla.xlsx"
	}
	return base
}
