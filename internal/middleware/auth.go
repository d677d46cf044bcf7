package middleware

import (
	"net/http"
	"strings"

	"desposte/internal/apierror"
	"desposte/internal/autorizacion"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ActorKey = "actor"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	IsAdmin     bool   `json:"is_admin"`
	IsGerente   bool   `json:"is_gerente"`
	IsSedeAdmin bool   `json:"is_sede_admin"`
	Sede        string `json:"sede"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route and leaves the
// authenticated actor in the Gin context for handlers and the policy engine.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		c.Set(ActorKey, autorizacion.Actor{
			ID:          id,
			Username:    claims.Username,
			IsAdmin:     claims.IsAdmin,
			IsGerente:   claims.IsGerente,
			IsSedeAdmin: claims.IsSedeAdmin,
			Sede:        claims.Sede,
		})
		c.Next()
	}
}

// Autorizar rejects the request when the policy denies the action for the
// authenticated actor. Sirve para acciones que no dependen de un recurso
// concreto; las que si dependen (eliminar un taller de cierta sede) se
// evaluan en el handler con el recurso cargado.
func Autorizar(accion autorizacion.Accion) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := autorizacion.Evaluar(GetActor(c), accion, autorizacion.Recurso{})
		if !d.Permitido {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes: "+d.Motivo))
			return
		}
		c.Next()
	}
}

// GetActor is a helper to retrieve the typed actor from the Gin context.
func GetActor(c *gin.Context) autorizacion.Actor {
	actor, _ := c.MustGet(ActorKey).(autorizacion.Actor)
	return actor
}
