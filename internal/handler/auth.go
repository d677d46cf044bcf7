package handler

import (
	"net/http"

	"desposte/internal/apierror"
	"desposte/internal/dto"
	"desposte/internal/middleware"
	"desposte/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/token [post]
func (h *AuthHandler) Login(c *gin.Context) {
	// ShouldBind acepta tanto JSON como form-urlencoded; los clientes de
	// escritorio mandan el login como form.
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Credenciales mal formadas"))
		return
	}
	if !validateStruct(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Registrar godoc
// @Summary Alta de operador sin roles
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegistroRequest true "Datos del usuario"
// @Success 201 {object} dto.UsuarioResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/auth/register [post]
func (h *AuthHandler) Registrar(c *gin.Context) {
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Me devuelve el perfil del usuario autenticado.
func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.GetActor(c)
	resp, err := h.svc.Me(c.Request.Context(), actor.ID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
