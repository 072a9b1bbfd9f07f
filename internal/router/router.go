package router

import (
	"net/http"
	"strings"
	"time"

	"liquidacion/internal/config"
	"liquidacion/internal/handler"
	"liquidacion/internal/middleware"
	"liquidacion/internal/repository"
	"liquidacion/internal/service"
	"liquidacion/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Servicios is the service layer shared by the HTTP router and the worker pool.
type Servicios struct {
	Cargas      service.CargaService
	PreciosBase service.PrecioBaseService
	Reglas      service.ReglaService
	Recalculo   *service.RecalculoRunner
	Auditoria   service.AuditoriaService
	Liquidacion service.LiquidacionService
}

// NuevosServicios wires Service ← Repository ← DB/Redis. With PGX_BULK_WRITES and
// a non-nil pool, price writes go through the pgx batch writer instead of GORM.
func NuevosServicios(cfg *config.Config, db *gorm.DB, rdb *redis.Client, pool *pgxpool.Pool) *Servicios {
	// ── Repositories ─────────────────────────────────────────────────────────
	cargaRepo := repository.NewCargaRepository(db)
	entregaRepo := repository.NewEntregaRepository(db)
	precioBaseRepo := repository.NewPrecioBaseRepository(db)
	reglaRepo := repository.NewReglaPrecioRepository(db)

	var writer repository.PrecioWriter
	if pool != nil && cfg.PGXBulkWrites {
		writer = repository.NewEntregaPGXWriter(pool)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	recalculoSvc := service.NewRecalculoService(entregaRepo, writer, reglaRepo, precioBaseRepo, service.RecalculoOpciones{
		Workers:       cfg.RecalcWorkers,
		LoteEscritura: cfg.RecalcWriteBatch,
	})

	return &Servicios{
		Cargas:      service.NewCargaService(cargaRepo, entregaRepo),
		PreciosBase: service.NewPrecioBaseService(precioBaseRepo),
		Reglas:      service.NewReglaService(reglaRepo),
		Recalculo:   service.NewRecalculoRunner(recalculoSvc, cargaRepo, rdb, cfg.RecalcLockTTL(), cfg.ResultCacheTTL()),
		Auditoria:   service.NewAuditoriaService(entregaRepo, reglaRepo, precioBaseRepo),
		Liquidacion: service.NewLiquidacionService(cargaRepo, entregaRepo, cfg.PDFStoragePath),
	}
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, pool *pgxpool.Pool) *gin.Engine {
	return NewWithServicios(cfg, NuevosServicios(cfg, db, rdb, pool), worker.NewDispatcher(rdb), handler.Health(db, rdb, pool), rdb)
}

// NewWithServicios builds the engine on an already wired service layer.
// cola may be nil, which makes ?async=true run synchronously.
func NewWithServicios(cfg *config.Config, svcs *Servicios, cola handler.RecalculoQueue, health gin.HandlerFunc, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(strings.Split(cfg.CORSOrigins, ",")))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	cargasH := handler.NewCargasHandler(svcs.Cargas)
	preciosH := handler.NewPreciosBaseHandler(svcs.PreciosBase)
	reglasH := handler.NewReglasHandler(svcs.Reglas)
	recalculoH := handler.NewRecalculoHandler(svcs.Recalculo, cola)
	auditoriaH := handler.NewAuditoriaHandler(svcs.Auditoria)
	liquidacionH := handler.NewLiquidacionHandler(svcs.Liquidacion)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	if health != nil {
		r.GET("/health", health)
	}

	lectura := middleware.RequireRole(middleware.RolSupervisor, middleware.RolAdministrador)
	admin := middleware.RequireRole(middleware.RolAdministrador)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		cargas := v1.Group("/cargas", lectura)
		{
			cargas.POST("", cargasH.Crear)
			cargas.GET("", cargasH.Listar)
			cargas.GET("/:id/envases", cargasH.Envases)
			cargas.POST("/:id/recalcular",
				middleware.RecalculoRateLimiter(max(cfg.RecalcPorMinuto, 1), time.Minute),
				recalculoH.Recalcular)
			cargas.GET("/:id/recalculo", recalculoH.Ultimo)
			cargas.GET("/:id/liquidacion.pdf", liquidacionH.DescargarPDF)
		}

		// Reads for supervisors, writes for administradores.
		v1.GET("/precios-base", lectura, preciosH.Listar)
		v1.POST("/precios-base", admin, preciosH.Guardar)
		v1.DELETE("/precios-base", admin, preciosH.Desactivar)

		v1.GET("/reglas", lectura, reglasH.Listar)
		v1.GET("/reglas/conflictos", lectura, reglasH.Conflictos)
		v1.POST("/reglas", admin, reglasH.Guardar)
		v1.PATCH("/reglas/:id/estado", admin, reglasH.CambiarEstado)

		v1.GET("/auditoria", lectura, auditoriaH.Consultar)
		v1.GET("/liquidacion/resumen", lectura, liquidacionH.Resumen)

		if rdb != nil {
			v1.GET("/colas", admin, func(c *gin.Context) {
				estado, err := worker.EstadoColas(c.Request.Context(), rdb)
				if err != nil {
					_ = c.Error(err)
					return
				}
				c.JSON(http.StatusOK, estado)
			})
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
