package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/campus-systems/exeat-workflow/internal/application/service"
	"github.com/campus-systems/exeat-workflow/internal/config"
	httpserver "github.com/campus-systems/exeat-workflow/internal/interfaces/http"
	"github.com/campus-systems/exeat-workflow/internal/report"
	"github.com/campus-systems/exeat-workflow/internal/repository"
	"github.com/campus-systems/exeat-workflow/internal/worker"
	"github.com/campus-systems/exeat-workflow/pkg/database"
	"github.com/campus-systems/exeat-workflow/pkg/utils"
)

func main() {
	// Local overrides from .env, ignored when absent
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Exeat Workflow System",
		zap.String("version", "1.0.0"),
		zap.String("institution", cfg.Campus.InstitutionName),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	exeatRepo := repository.NewExeatRepository(db.DB, logger)
	approvalRepo := repository.NewApprovalRepository(db.DB, logger)
	auditRepo := repository.NewAuditLogRepository(db.DB, logger)
	debtRepo := repository.NewDebtRepository(db.DB, logger)
	hostelRepo := repository.NewHostelRepository(db.DB, logger)

	svcLogger := &zapLoggerAdapter{logger: logger}

	// Initialize services
	exeatService := service.NewExeatService(exeatRepo, approvalRepo, auditRepo, debtRepo, hostelRepo, db, svcLogger)
	debtService := service.NewDebtService(debtRepo, svcLogger)
	hostelService := service.NewHostelService(hostelRepo, svcLogger)
	exporter := report.NewRegisterExporter(exeatRepo, logger)

	// Background workers
	overduePoller := worker.NewOverduePoller(exeatRepo, auditRepo, logger)
	if cfg.Worker.OverduePollInterval > 0 {
		overduePoller.SetPollInterval(cfg.Worker.OverduePollInterval)
	}

	workerManager := worker.NewManager(logger)
	workerManager.Register(overduePoller)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}

	// HTTP server
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, exeatService, debtService, hostelService, exporter, svcLogger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	cancel()
	workerManager.StopAll()

	if err := server.Stop(); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// zapLoggerAdapter adapts zap to the key/value Logger interfaces used by the
// service and HTTP layers
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
