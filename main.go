package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/config"
	"github.com/cleargraph/crm-engine/pkg/database"
	"github.com/cleargraph/crm-engine/pkg/handlers"
	"github.com/cleargraph/crm-engine/pkg/repositories"
	"github.com/cleargraph/crm-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("db_host", cfg.Database.Host),
		zap.Int("audit_step_timeout_seconds", cfg.Audit.StepTimeoutSeconds),
		zap.Int("scan_batch_limit", cfg.Scan.BatchLimit))

	// Migrations run over database/sql; the application pool is pgx.
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	contactRepo := repositories.NewContactRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	suggestionRepo := repositories.NewSuggestionRepository(db)
	engagementRepo := repositories.NewEngagementRepository(db)
	actionLogRepo := repositories.NewActionLogRepository(db)
	spamRepo := repositories.NewSpamRepository(db)

	resolver := services.NewResolverService(contactRepo, logger)
	completeness := services.NewCompletenessService(contactRepo, logger)
	duplicates := services.NewDuplicateService(contactRepo, logger)
	mobiles := services.NewMobileAuditService(contactRepo, logger)
	companies := services.NewCompanyAuditService(contactRepo, companyRepo, logger)
	audits := services.NewAuditService(
		resolver, completeness, duplicates, mobiles, companies,
		contactRepo, engagementRepo,
		time.Duration(cfg.Audit.StepTimeoutSeconds)*time.Second,
		logger,
	)
	executor := services.NewExecutorService(contactRepo, companyRepo, engagementRepo, logger)
	scans := services.NewScanService(contactRepo, suggestionRepo, actionLogRepo, logger)
	suggestions := services.NewSuggestionService(suggestionRepo, actionLogRepo, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuditHandler(audits, spamRepo, logger).RegisterRoutes(mux)
	handlers.NewActionHandler(executor, logger).RegisterRoutes(mux)
	handlers.NewScanHandler(scans, cfg.Scan.BatchLimit, logger).RegisterRoutes(mux)
	handlers.NewSuggestionHandler(suggestions, logger).RegisterRoutes(mux)
	handlers.NewStatsHandler(suggestions, actionLogRepo, logger).RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting crm-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
