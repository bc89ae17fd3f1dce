package router

import (
	"time"

	"movibanca/internal/config"
	"movibanca/internal/handler"
	"movibanca/internal/middleware"
	"movibanca/internal/repository"
	"movibanca/internal/service"
	"movibanca/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← Postgres/Mongo/Redis
func New(cfg *config.Config, db *gorm.DB, mongoDB *mongo.Database, rdb *redis.Client) *gin.Engine {
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
	clienteRepo := repository.NewClienteRepository(db)
	cuentaRepo := repository.NewCuentaRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(mongoDB)
	domiciliacionRepo := repository.NewDomiciliacionRepository(mongoDB)

	// Worker dispatcher — sumidero de notificaciones del motor
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	movimientoSvc := service.NewMovimientoService(
		movimientoRepo, domiciliacionRepo, cuentaRepo, clienteRepo, usuarioRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	movimientosH := handler.NewMovimientosHandler(movimientoSvc)
	domiciliacionesH := handler.NewDomiciliacionesHandler(movimientoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, mongoDB.Client(), rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Operaciones del cliente sobre sus propias cuentas
		mov := v1.Group("/movimientos", middleware.RequireRole("cliente", "empleado", "administrador"))
		{
			mov.POST("/ingreso-nomina", movimientosH.RegistrarIngresoNomina)
			mov.POST("/pago-tarjeta", movimientosH.RegistrarPagoTarjeta)
			mov.POST("/transferencia", movimientosH.RegistrarTransferencia)
			mov.DELETE("/transferencia/:guid", movimientosH.RevocarTransferencia)
		}

		// Consultas de back-office
		v1.GET("/movimientos", middleware.RequireRole("empleado", "administrador"), movimientosH.Listar)
		v1.GET("/movimientos/:guid", middleware.RequireRole("empleado", "administrador"), movimientosH.ObtenerPorGuid)
		v1.GET("/movimientos/cliente/:clienteGuid", middleware.RequireRole("empleado", "administrador"), movimientosH.ListarPorCliente)

		dom := v1.Group("/domiciliaciones", middleware.RequireRole("cliente", "empleado", "administrador"))
		{
			dom.POST("", domiciliacionesH.Registrar)
			dom.GET("", domiciliacionesH.ListarPropias)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
