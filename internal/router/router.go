package router

import (
	"time"

	"desposte/internal/autorizacion"
	"desposte/internal/config"
	"desposte/internal/handler"
	"desposte/internal/middleware"
	"desposte/internal/repository"
	"desposte/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	itemRepo := repository.NewItemRepository(db)
	listaRepo := repository.NewListaPreciosRepository(db)
	tallerRepo := repository.NewTallerRepository(db)
	alertaRepo := repository.NewAlertaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	precioSvc := service.NewPrecioService(itemRepo, listaRepo)
	tallerSvc := service.NewTallerService(tallerRepo, itemRepo, usuarioRepo, alertaRepo, precioSvc)
	inventarioSvc := service.NewInventarioService(tallerRepo, itemRepo)
	dashboardSvc := service.NewDashboardService(tallerRepo, usuarioRepo, nil)
	alertaSvc := service.NewAlertaService(alertaRepo)
	cargaSvc := service.NewCargaPreciosService(itemRepo)
	informeSvc := service.NewInformeService(tallerSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	talleresH := handler.NewTalleresHandler(tallerSvc, informeSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	alertasH := handler.NewAlertasHandler(alertaSvc)
	itemsH := handler.NewItemsHandler(listaRepo)
	uploadH := handler.NewUploadHandler(cargaSvc, cfg)
	consultaH := handler.NewConsultaPreciosHandler(precioSvc, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/token", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/register", authH.Registrar)
	}

	// Price check — no auth required
	r.GET("/v1/precios/:codigo", consultaH.GetPrecioPorCodigo)

	// Protected routes. La autorizacion fina (sede, roles) vive en la
	// politica; aca solo se gatean las acciones sin recurso.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		talleres := v1.Group("/talleres")
		{
			talleres.POST("", talleresH.Crear)
			talleres.POST("/completo", talleresH.CrearCompleto)
			talleres.GET("", talleresH.Listar)
			talleres.GET("/historial", talleresH.Historial)
			talleres.GET("/actividad", middleware.Autorizar(autorizacion.AccionVerActividad), talleresH.Actividad)
			talleres.GET("/:id", talleresH.ObtenerPorID)
			talleres.GET("/:id/calculo", talleresH.Calculo)
			talleres.GET("/:id/informe", talleresH.Informe)
			talleres.GET("/:id/informe.pdf", talleresH.InformePDF)
			talleres.PUT("/:id", talleresH.Actualizar)
			talleres.DELETE("/:id", talleresH.Eliminar)
		}
		v1.DELETE("/talleres/grupo/:id", talleresH.EliminarGrupo)

		v1.GET("/inventario", inventarioH.Listar)
		v1.GET("/dashboard/resumen", dashboardH.Resumen)
		v1.GET("/items", itemsH.Listar)

		v1.POST("/upload/precios", middleware.Autorizar(autorizacion.AccionCargarPrecios), uploadH.CargarPrecios)

		alertas := v1.Group("/alertas")
		{
			alertas.GET("/subcortes", alertasH.Listar)
			alertas.PATCH("/subcortes/:id", alertasH.Revisar)
		}

		usuarios := v1.Group("/users")
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.GET("/:id", usuariosH.ObtenerPorID)
			usuarios.PATCH("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Eliminar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
