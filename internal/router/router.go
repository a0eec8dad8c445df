package router

import (
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/config"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/handler"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/infra"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/middleware"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/model"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/repository"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/service"
	"github.com/felipedarroz/Almoxarifado-Pro/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	loc := cfg.Location()

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
	empresaRepo := repository.NewEmpresaRepository(db)
	entregaRepo := repository.NewEntregaRepository(db)
	pendenciaRepo := repository.NewPendenciaRepository(db)
	demandaRepo := repository.NewDemandaRepository(db)
	tecnicoRepo := repository.NewTecnicoRepository(db)
	backupRepo := repository.NewBackupRepository(db)
	preferenciaRepo := repository.NewPreferenciaRepository(rdb)

	// Worker dispatcher, injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, empresaRepo, cfg)
	entregaSvc := service.NewEntregaService(entregaRepo)
	pendenciaSvc := service.NewPendenciaService(pendenciaRepo, loc)
	tecnicoSvc := service.NewTecnicoService(tecnicoRepo)
	demandaSvc := service.NewDemandaService(demandaRepo, dispatcher, loc)
	dashboardSvc := service.NewDashboardService(entregaRepo, demandaRepo, pendenciaRepo, preferenciaRepo, cfg.DefaultCriticalDays, loc)
	importacaoSvc := service.NewImportacaoService(entregaRepo, loc)
	backupSvc := service.NewBackupService(entregaRepo, pendenciaRepo, demandaRepo, tecnicoRepo, usuarioRepo, backupRepo)
	relatorioSvc := service.NewRelatorioService(entregaRepo, demandaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	entregasH := handler.NewEntregasHandler(entregaSvc)
	pendenciasH := handler.NewPendenciasHandler(pendenciaSvc)
	tecnicosH := handler.NewTecnicosHandler(tecnicoSvc)
	demandasH := handler.NewDemandasHandler(demandaSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc, loc)
	importacaoH := handler.NewImportacaoHandler(importacaoSvc)
	backupH := handler.NewBackupHandler(backupSvc)
	relatoriosH := handler.NewRelatoriosHandler(relatorioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/registro", middleware.LoginRateLimiter(), authH.Registro)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Per-record permissions are checked by the services;
	// the role guards here only cover admin-only areas.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		usuarios := v1.Group("/usuarios", middleware.RequireRole(model.PapelAdmin))
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.PATCH("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Excluir)
		}

		v1.GET("/tecnicos", tecnicosH.Listar)
		v1.POST("/tecnicos", middleware.RequireRole(model.PapelAdmin), tecnicosH.Criar)
		v1.DELETE("/tecnicos/:id", middleware.RequireRole(model.PapelAdmin), tecnicosH.Excluir)

		entregas := v1.Group("/entregas")
		{
			entregas.GET("", entregasH.Listar)
			entregas.POST("", entregasH.Criar)
			entregas.POST("/lote/status", entregasH.AtualizarStatusLote)
			entregas.GET("/:id", entregasH.Obter)
			entregas.PATCH("/:id", entregasH.Atualizar)
			entregas.DELETE("/:id", entregasH.Excluir)
		}

		pendencias := v1.Group("/pendencias")
		{
			pendencias.GET("", pendenciasH.Listar)
			pendencias.POST("", pendenciasH.Criar)
			pendencias.PATCH("/:id", pendenciasH.Atualizar)
			pendencias.POST("/:id/resolver", pendenciasH.Resolver)
			pendencias.DELETE("/:id", pendenciasH.Excluir)
		}

		demandas := v1.Group("/demandas")
		{
			demandas.GET("", demandasH.Listar)
			demandas.GET("/agrupadas", demandasH.Agrupadas)
			demandas.POST("", demandasH.Criar)
			demandas.GET("/:id", demandasH.Obter)
			demandas.PATCH("/:id", demandasH.Atualizar)
			demandas.DELETE("/:id", demandasH.Excluir)
			demandas.POST("/:id/itens/:indice/alternar", demandasH.AlternarItem)
			demandas.POST("/:id/concluir", demandasH.Concluir)
			demandas.PATCH("/:id/status", demandasH.AlterarStatus)
			demandas.GET("/:id/resumo.png", demandasH.ResumoPNG)
			demandas.GET("/:id/resumo.pdf", demandasH.ResumoPDF)
			demandas.POST("/:id/resumo/enviar", demandasH.EnviarResumo)
		}

		dash := v1.Group("/dashboard")
		{
			dash.GET("", dashboardH.Painel)
			dash.GET("/analise", dashboardH.Analise)
			dash.GET("/limite-critico", dashboardH.LimiteCritico)
			dash.PUT("/limite-critico", dashboardH.DefinirLimiteCritico)
		}
		v1.GET("/calendario", dashboardH.Calendario)

		imp := v1.Group("/importacao", middleware.RequireRole(model.PapelAdmin))
		{
			imp.POST("/planilha", importacaoH.Planilha)
			imp.POST("/texto", importacaoH.Texto)
		}

		backup := v1.Group("/backup", middleware.RequireRole(model.PapelAdmin))
		{
			backup.GET("", backupH.Exportar)
			backup.POST("", backupH.Importar)
		}

		v1.GET("/relatorios/mensal", relatoriosH.Mensal)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
