package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"desposte/internal/apierror"
	"desposte/internal/dto"
	"desposte/internal/normalizador"
	"desposte/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const precioCacheTTL = 4 * time.Hour

// ConsultaPreciosHandler serves the public price check endpoint.
// No authentication required and no side effects.
type ConsultaPreciosHandler struct {
	precios service.PrecioService
	rdb     *redis.Client
}

func NewConsultaPreciosHandler(precios service.PrecioService, rdb *redis.Client) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{precios: precios, rdb: rdb}
}

// GetPrecioPorCodigo godoc
// @Summary Consulta de precio por codigo de producto (sin autenticacion)
// @Tags precios
// @Produce json
// @Param codigo path string true "Codigo de producto"
// @Success 200 {object} dto.ConsultaPrecioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precios/{codigo} [get]
func (h *ConsultaPreciosHandler) GetPrecioPorCodigo(c *gin.Context) {
	ctx := c.Request.Context()
	// La clave de cache usa el codigo normalizado para que "07" y "7"
	// compartan entrada.
	codigo := normalizador.NormalizarCodigo(c.Param("codigo"))
	cacheKey := "precio:" + codigo

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaPrecioResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — resolve against catalog and reference list
	resuelto, err := h.precios.ConsultarPorCodigo(ctx, codigo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar el precio"))
		return
	}
	if resuelto.Origen == service.OrigenSinPrecio {
		c.JSON(http.StatusNotFound, apierror.New("Codigo sin precio conocido"))
		return
	}

	resp := dto.ConsultaPrecioResponse{
		CodigoProducto: codigo,
		Descripcion:    resuelto.Descripcion,
		Precio:         resuelto.Precio,
		Origen:         resuelto.Origen,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, precioCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
