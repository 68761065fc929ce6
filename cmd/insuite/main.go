package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/insuite-dev/insuite/internal/app"
	"github.com/insuite-dev/insuite/internal/audit"
	"github.com/insuite-dev/insuite/internal/backup"
	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/company"
	"github.com/insuite-dev/insuite/internal/inventory"
	"github.com/insuite-dev/insuite/internal/observability"
	"github.com/insuite-dev/insuite/internal/platform/cache"
	"github.com/insuite-dev/insuite/internal/platform/db"
	"github.com/insuite-dev/insuite/internal/reports"
	"github.com/insuite-dev/insuite/internal/shared"
	"github.com/insuite-dev/insuite/internal/users"
	"github.com/insuite-dev/insuite/internal/vouchers"
	"github.com/insuite-dev/insuite/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(dbpool)
	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)

	companyRepo := company.NewRepository(dbpool)
	companyService := company.NewService(companyRepo, auditLogger)
	companyHandler := company.NewHandler(logger, companyService)

	coaRepo := coa.NewRepository(dbpool)
	coaService := coa.NewService(coaRepo, auditLogger)
	coaHandler := coa.NewHandler(logger, coaService)

	voucherRepo := vouchers.NewRepository(dbpool)
	voucherService := vouchers.NewService(voucherRepo, auditLogger, reportCache)
	voucherHandler := vouchers.NewHandler(logger, voucherService)

	inventoryRepo := inventory.NewRepository(dbpool)
	inventoryService := inventory.NewService(inventoryRepo, auditLogger)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	reportRepo := reports.NewRepository(dbpool)
	reportService := reports.NewService(reportRepo, reportCache)
	reportHandler := reports.NewHandler(reportService)

	backupRepo := backup.NewRepository(dbpool)
	backupService := backup.NewService(backupRepo, companyService, auditLogger)
	backupHandler := backup.NewHandler(logger, backupService)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, auditLogger)
	usersHandler := users.NewHandler(usersService)

	auditHandler := audit.NewHandler(logger, audit.NewRepository(dbpool))
	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobsClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		CompanyHandler:   companyHandler,
		CoAHandler:       coaHandler,
		VoucherHandler:   voucherHandler,
		InventoryHandler: inventoryHandler,
		ReportHandler:    reportHandler,
		BackupHandler:    backupHandler,
		UsersHandler:     usersHandler,
		AuditHandler:     auditHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
