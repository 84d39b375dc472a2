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
	"go.uber.org/zap"

	_ "github.com/yu47362/sc2002InternshipApplication/api/swagger"
	"github.com/yu47362/sc2002InternshipApplication/internal/handler"
	"github.com/yu47362/sc2002InternshipApplication/internal/middleware"
	"github.com/yu47362/sc2002InternshipApplication/internal/models"
	"github.com/yu47362/sc2002InternshipApplication/internal/repository"
	"github.com/yu47362/sc2002InternshipApplication/internal/service"
	"github.com/yu47362/sc2002InternshipApplication/internal/session"
	"github.com/yu47362/sc2002InternshipApplication/pkg/cache"
	"github.com/yu47362/sc2002InternshipApplication/pkg/config"
	"github.com/yu47362/sc2002InternshipApplication/pkg/database"
	"github.com/yu47362/sc2002InternshipApplication/pkg/jobs"
	"github.com/yu47362/sc2002InternshipApplication/pkg/logger"
	corsmiddleware "github.com/yu47362/sc2002InternshipApplication/pkg/middleware/cors"
	reqidmiddleware "github.com/yu47362/sc2002InternshipApplication/pkg/middleware/requestid"
	"github.com/yu47362/sc2002InternshipApplication/pkg/storage"
)

// @title Internship Placement API
// @version 1.0.0
// @description Internship posting and application lifecycle service
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	actors := repository.NewActorRepository()
	opportunities := repository.NewOpportunityRepository()
	applications := repository.NewApplicationRepository()

	var records *repository.RecordSource
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Warn("database unavailable, running with empty actor records", zap.Error(err))
	} else {
		defer db.Close()
		records = repository.NewRecordSource(db)
		students, err := records.LoadStudents(ctx)
		if err != nil {
			logr.Fatal("failed to load student records", zap.Error(err))
		}
		reps, err := records.LoadRepresentatives(ctx)
		if err != nil {
			logr.Fatal("failed to load representative records", zap.Error(err))
		}
		staff, err := records.LoadStaff(ctx)
		if err != nil {
			logr.Fatal("failed to load staff records", zap.Error(err))
		}
		actors.Seed(students, reps, staff)
		logr.Info("actor records seeded",
			zap.Int("students", len(students)),
			zap.Int("representatives", len(reps)),
			zap.Int("staff", len(staff)))
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, report caching disabled", zap.Error(err))
		redisClient = nil
	}
	reportCache := repository.NewCacheRepository(redisClient, logr)
	defer reportCache.Close() //nolint:errcheck

	var exportArchive *storage.ExportArchive
	var archiveQueue *jobs.Queue
	var downloadSigner *storage.DownloadTokenSigner
	if cfg.Reports.Enabled {
		exportArchive, err = storage.NewExportArchive(cfg.Reports.ExportDir)
		if err != nil {
			logr.Fatal("failed to init export archive", zap.Error(err))
		}
		if deleted, err := exportArchive.CleanupOlderThan(cfg.Reports.ExportTTL); err != nil {
			logr.Warn("export archive cleanup failed", zap.Error(err))
		} else if len(deleted) > 0 {
			logr.Info("expired report exports removed", zap.Int("count", len(deleted)))
		}
		archiveQueue = handler.NewReportArchiveQueue(exportArchive, logr)
		archiveQueue.Start(ctx)
		defer archiveQueue.Stop()
		downloadSigner = storage.NewDownloadTokenSigner(cfg.JWT.Secret, cfg.Reports.ExportTTL)
	}

	sessions := session.NewRegistry(cfg.Session.SweepInterval, cfg.Session.IdleTimeout, logr)
	if err := sessions.Start(); err != nil {
		logr.Fatal("failed to start session sweep", zap.Error(err))
	}
	defer sessions.Shutdown()

	validate := validator.New()
	metricsSvc := service.NewMetricsService(sessions.Count)

	filterSvc := service.NewFilterService()
	eligibilitySvc := service.NewEligibilityService(opportunities, actors, logr)
	opportunitySvc := service.NewOpportunityService(opportunities, actors, applications, validate, logr)
	applicationSvc := service.NewApplicationService(applications, opportunities, actors, logr)
	reportSvc := service.NewReportService(opportunities, applications, actors, reportCache, cfg.Reports.CacheTTL, metricsSvc, logr)
	authSvc := service.NewAuthService(actors, credentialPersister(records), sessions, cfg.JWT, validate, logr)
	approvalSvc := service.NewApprovalService(actors, opportunities, applications, approvalPersister(records), invalidatorFor(cfg, reportSvc), logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Catalog:     handler.NewCatalogHandler(eligibilitySvc, filterSvc, opportunitySvc, actors, sessions),
		Opportunity: handler.NewOpportunityHandler(opportunitySvc, applicationSvc),
		Application: handler.NewApplicationHandler(applicationSvc, metricsSvc),
		Approval:    handler.NewApprovalHandler(approvalSvc, opportunitySvc, metricsSvc),
		Report:      handler.NewReportHandler(reportSvc, exportArchive, archiveQueue, downloadSigner, logr),
		Session:     handler.NewSessionHandler(sessions),
		Metrics:     metricsHandler,
	}
	handler.Register(r.Group(cfg.APIPrefix), handlers, authSvc)

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
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("server shutdown incomplete", zap.Error(err))
	}
}

// The helpers below avoid handing the services a typed-nil pointer when the
// optional backends are not configured.

func credentialPersister(records *repository.RecordSource) interface {
	UpdatePassword(ctx context.Context, role models.Role, id, passwordHash string) error
} {
	if records == nil {
		return nil
	}
	return records
}

func approvalPersister(records *repository.RecordSource) interface {
	SetRepresentativeApproved(ctx context.Context, repID string, approved bool) error
} {
	if records == nil {
		return nil
	}
	return records
}

func invalidatorFor(cfg *config.Config, reports *service.ReportService) interface {
	InvalidateCache(ctx context.Context)
} {
	if !cfg.Reports.Enabled {
		return nil
	}
	return reports
}
