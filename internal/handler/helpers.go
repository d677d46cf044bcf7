package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"desposte/internal/apierror"
	"desposte/internal/autorizacion"
	"desposte/internal/middleware"
	"desposte/internal/normalizador"
	"desposte/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQueryAndValidate does the same for query-string filters with form tags.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// responderError maps a service error to a status code. Permission
// rejections come wrapped in service.ErrProhibido; not-found conditions are
// Spanish business errors; everything else is a 400.
func responderError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, service.ErrProhibido):
		status = http.StatusForbidden
	case esNoEncontrado(err):
		status = http.StatusNotFound
	}
	c.JSON(status, apierror.New(err.Error()))
}

func esNoEncontrado(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no encontrado") || strings.Contains(msg, "no encontrada")
}

// resolverSede decides which sede a mutating request operates on. Operators
// always work on their own sede; choosing another one is an admin-only
// action per the policy.
func resolverSede(c *gin.Context, solicitada string) (string, bool) {
	actor := middleware.GetActor(c)

	pedida := strings.TrimSpace(solicitada)
	if pedida == "" {
		return actor.Sede, true
	}

	normalizada, ok := normalizador.NormalizarSede(pedida)
	if !ok {
		c.JSON(http.StatusBadRequest, apierror.New("Sede invalida: "+pedida))
		return "", false
	}
	if normalizada == actor.Sede {
		return normalizada, true
	}

	d := autorizacion.Evaluar(actor, autorizacion.AccionElegirSede, autorizacion.Recurso{Sede: normalizada})
	if !d.Permitido {
		c.JSON(http.StatusForbidden, apierror.New("No puede operar sobre otra sede: "+d.Motivo))
		return "", false
	}
	return normalizada, true
}
