package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mss-edu/school-api/api/swagger"
	"github.com/mss-edu/school-api/internal/access"
	"github.com/mss-edu/school-api/internal/handler"
	"github.com/mss-edu/school-api/internal/middleware"
	"github.com/mss-edu/school-api/internal/repository"
	"github.com/mss-edu/school-api/internal/service"
	"github.com/mss-edu/school-api/internal/session"
	"github.com/mss-edu/school-api/pkg/cache"
	"github.com/mss-edu/school-api/pkg/config"
	"github.com/mss-edu/school-api/pkg/database"
	"github.com/mss-edu/school-api/pkg/genai"
	"github.com/mss-edu/school-api/pkg/logger"
	corsmiddleware "github.com/mss-edu/school-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mss-edu/school-api/pkg/middleware/requestid"
)

// @title Mogadishu School System API
// @version 1.0.0
// @description Role-gated school administration backend
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.MigrationsDir); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	// Redis is optional: the dashboard simply skips caching without it.
	var cacheSvc *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
		}
	}

	validate := validator.New()
	sessions := session.NewStore()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	authSvc := service.NewAuthService(userRepo, sessions, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, cacheSvc, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, cacheSvc, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, studentRepo, validate)
	feeSvc := service.NewFeeService(feeRepo, studentRepo, cacheSvc, validate, logr, cfg.Fees.DefaultCurrency)
	statsSvc := service.NewStatsService(statsRepo, cacheSvc, metricsSvc, cfg.Dashboard.CacheTTL, logr)

	generator := genai.NewClient(cfg.AI)
	reportSvc := service.NewReportService(generator, studentRepo, statsSvc, logr, service.ReportServiceConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		QueueSize:  cfg.Reports.QueueSize,
		ResultTTL:  cfg.Reports.ResultTTL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reportSvc.Start(ctx)
	defer reportSvc.Stop()

	authHandler := handler.NewAuthHandler(authSvc)
	navHandler := handler.NewNavigationHandler()
	studentHandler := handler.NewStudentHandler(studentSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	feeHandler := handler.NewFeeHandler(feeSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/me", authHandler.Me)
	authed.GET("/navigation", navHandler.Modules)

	stats := authed.Group("/stats", middleware.RequireModule(access.ModuleDashboard))
	stats.GET("/overview", statsHandler.Overview)

	students := authed.Group("/students", middleware.RequireModule(access.ModuleStudents))
	students.GET("", studentHandler.List)
	students.POST("", studentHandler.Create)
	students.GET("/export", studentHandler.Export)
	students.GET("/:id", studentHandler.Get)
	students.PATCH("/:id/status", studentHandler.SetStatus)

	teachers := authed.Group("/teachers", middleware.RequireModule(access.ModuleTeachers))
	teachers.GET("", teacherHandler.List)
	teachers.POST("", teacherHandler.Create)

	grades := authed.Group("/grades", middleware.RequireModule(access.ModuleGrades))
	grades.GET("", gradeHandler.List)
	grades.POST("", gradeHandler.Create)

	fees := authed.Group("/fees", middleware.RequireModule(access.ModuleFees))
	fees.GET("", feeHandler.List)
	fees.POST("", feeHandler.Create)
	fees.GET("/summary", feeHandler.Summary)
	fees.GET("/export", feeHandler.Export)
	fees.POST("/:id/pay", feeHandler.Pay)

	reports := authed.Group("/reports", middleware.RequireModule(access.ModuleReports))
	reports.POST("/students/:id", reportHandler.EnqueueStudentReport)
	reports.POST("/insights", reportHandler.EnqueueInsights)
	reports.GET("/jobs/:id", reportHandler.Job)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
