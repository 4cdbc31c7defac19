package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/school-vault-api/api/swagger"
	"github.com/noah-isme/school-vault-api/internal/handler"
	"github.com/noah-isme/school-vault-api/internal/kv"
	"github.com/noah-isme/school-vault-api/internal/middleware"
	"github.com/noah-isme/school-vault-api/internal/repository"
	"github.com/noah-isme/school-vault-api/internal/service"
	"github.com/noah-isme/school-vault-api/pkg/config"
	"github.com/noah-isme/school-vault-api/pkg/jobs"
	"github.com/noah-isme/school-vault-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-vault-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-vault-api/pkg/middleware/requestid"
	"github.com/noah-isme/school-vault-api/pkg/ratelimit"
	"github.com/noah-isme/school-vault-api/pkg/storage"
)

// @title School Vault API
// @version 0.1.0
// @description Local data vault for per-user student records
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	store, err := buildStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init vault store", "error", err)
	}

	metrics := service.NewMetricsService()
	instrumented := kv.NewInstrumentedStore(store, metrics)

	sessionRepo := repository.NewSessionRepository(instrumented)
	credentialRepo := repository.NewCredentialRepository(instrumented)
	studentRepo := repository.NewStudentRepository(instrumented)
	attendanceRepo := repository.NewAttendanceRepository(instrumented)
	marksRepo := repository.NewMarksRepository(instrumented)

	sessions := service.NewSessionService(sessionRepo, logr, service.SessionConfig{
		MaxAge:      cfg.Session.MaxAge,
		IdleTimeout: cfg.Session.IdleTimeout,
	})
	limiter := ratelimit.New(cfg.Login.MaxAttempts, cfg.Login.Window, cfg.Login.BlockDuration)
	auth := service.NewAuthService(credentialRepo, sessions, limiter, service.LegacyHasher{}, nil, logr)
	students := service.NewStudentService(studentRepo, sessions, nil, logr)
	attendance := service.NewAttendanceService(attendanceRepo, sessions, logr)
	marks := service.NewMarksService(marksRepo, sessions, logr)
	vault := service.NewVaultService(students, attendance, marks, logr)

	var reports *service.ReportService
	if cfg.Sheets.Enabled {
		sheetStorage, err := storage.NewLocalStorage(cfg.Sheets.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init sheet storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Sheets.SignedURLSecret, cfg.Sheets.SignedURLTTL)
		reports = service.NewReportService(students, marks, attendance, sessions, sheetStorage, signer, service.ReportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Sheets.SignedURLTTL,
		}, logr)
		reports.AttachMetrics(metrics)

		queue := jobs.NewQueue("sheets", reports.Process, jobs.QueueConfig{
			Workers:    cfg.Sheets.WorkerConcurrency,
			MaxRetries: cfg.Sheets.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(context.Background())
		defer queue.Stop()
		reports.AttachQueue(queue)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	authHandler := handler.NewAuthHandler(auth, sessions, metrics)
	studentHandler := handler.NewStudentHandler(students)
	attendanceHandler := handler.NewAttendanceHandler(attendance)
	marksHandler := handler.NewMarksHandler(marks)
	vaultHandler := handler.NewVaultHandler(vault)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/session", authHandler.Session)

		protected := api.Group("", middleware.Session(sessions))
		{
			protected.GET("/students", studentHandler.List)
			protected.POST("/students", studentHandler.Save)
			protected.DELETE("/students", studentHandler.Clear)
			protected.GET("/students/:id", studentHandler.Get)
			protected.DELETE("/students/:id", studentHandler.Delete)
			protected.PATCH("/students/:id/health", studentHandler.UpdateHealth)

			protected.GET("/attendance", attendanceHandler.Get)
			protected.PUT("/attendance", attendanceHandler.Save)
			protected.DELETE("/attendance", attendanceHandler.Clear)
			protected.GET("/attendance/summary", attendanceHandler.Summary)

			protected.GET("/marks", marksHandler.Get)
			protected.DELETE("/marks", marksHandler.Clear)
			protected.GET("/marks/:id", marksHandler.ForStudent)
			protected.PUT("/marks/:id", marksHandler.SaveTerm)

			protected.DELETE("/vault", vaultHandler.Clear)
		}

		if reports != nil {
			reportHandler := handler.NewReportHandler(reports)
			api.POST("/reports", middleware.Session(sessions), reportHandler.Create)
			api.GET("/reports/jobs/:id", middleware.Session(sessions), reportHandler.Status)
			// The signed token is the credential; no session needed.
			api.GET("/reports/download/:token", reportHandler.Download)
		}
	}

	if cfg.StaticDir != "" {
		r.NoRoute(staticFallback(cfg.StaticDir))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "backend", cfg.Vault.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func buildStore(cfg *config.Config) (kv.Store, error) {
	switch cfg.Vault.Backend {
	case config.StorageBackendRedis:
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		return kv.NewRedisStore(addr, cfg.Redis.Password, cfg.Redis.DB)
	default:
		return kv.NewFileStore(cfg.Vault.DataFile)
	}
}

// staticFallback serves the bundled record-keeper UI for any unmatched GET.
func staticFallback(dir string) gin.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
