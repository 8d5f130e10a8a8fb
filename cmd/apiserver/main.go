// API server entry point for SupplyGuard-Compliance.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/SupplyGuard-Compliance/internal/application/graphrisk"
	appingestion "github.com/turtacn/SupplyGuard-Compliance/internal/application/ingestion"
	"github.com/turtacn/SupplyGuard-Compliance/internal/application/resolution"
	"github.com/turtacn/SupplyGuard-Compliance/internal/application/scoring"
	appscreening "github.com/turtacn/SupplyGuard-Compliance/internal/application/screening"
	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/auth"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/neo4j"
	neo4jrepos "github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/neo4j/repositories"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/postgres"
	pgrepos "github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/redis"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/SupplyGuard-Compliance/internal/interfaces/http"
	"github.com/turtacn/SupplyGuard-Compliance/internal/interfaces/http/handlers"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	runMigrations := flag.Bool("migrate", false, "apply pending schema migrations before serving")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting SupplyGuard API server",
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode),
	)

	if err := run(cfg, logger, *runMigrations); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger, migrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics.
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
		EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	// PostgreSQL.
	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer conn.Close()

	if migrate {
		if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("pgx pool: %w", err)
	}
	defer pool.Close()

	// Neo4j ownership graph.
	driver, err := neo4j.NewDriver(cfg.Neo4j, logger)
	if err != nil {
		return fmt.Errorf("neo4j: %w", err)
	}
	defer driver.Close()

	// Redis cache.
	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewRedisCache(redisClient, logger)

	// Kafka event publisher; a no-op stand-in when publishing is disabled.
	publisher := kafka.NewPublisher(cfg.Kafka, logger)
	defer publisher.Close()

	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	// Repositories.
	entityRepo := pgrepos.NewPostgresEntityRepo(conn, logger)
	supplierRepo := pgrepos.NewPostgresSupplierRepo(conn, logger)
	screeningRepo := pgrepos.NewPostgresScreeningRepo(conn, logger)
	configRepo := pgrepos.NewPostgresConfigRepo(conn, logger)
	recordRepo := pgrepos.NewPostgresRecordRepo(conn, logger)
	auditRepo := kafka.NewAuditMirror(pgrepos.NewPostgresAuditRepo(conn, logger), publisher, logger)
	ingestionRepo := pgrepos.NewPgxIngestionRepo(pool, logger)
	graphStore := neo4jrepos.NewNeo4jRelationshipRepo(driver, logger)

	// Application services.
	checks := appscreening.NewService(screeningRepo, entityRepo, graphStore, auditRepo, logger)
	media := appscreening.NewHTTPMediaSignal(cfg.Media, cache, logger)
	graphRisk := graphrisk.NewService(graphStore, cache, logger, appMetrics)
	resolver := resolution.NewService(entityRepo, supplierRepo, graphStore, auditRepo, publisher, logger, appMetrics)
	engine := scoring.NewService(configRepo, recordRepo, supplierRepo, entityRepo,
		checks, media, graphRisk, auditRepo, publisher, logger, appMetrics)
	imports := appingestion.NewService(ingestionRepo, auditRepo, publisher, logger)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Suppliers:      handlers.NewSupplierHandler(supplierRepo, resolver, auditRepo, logger),
		Assessments:    handlers.NewAssessmentHandler(engine),
		Entities:       handlers.NewEntityHandler(entityRepo, checks),
		Graph:          handlers.NewGraphHandler(graphRisk),
		Ingestion:      handlers.NewIngestionHandler(imports),
		Audit:          handlers.NewAuditHandler(auditRepo),
		Health:         handlers.NewHealthHandler(healthCheckers(conn, driver, redisClient)),
		Verifier:       verifier,
		Multitenancy:   cfg.Multitenancy,
		Logger:         logger,
		Metrics:        appMetrics,
		MetricsHandler: collector.Handler(),
	})

	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	return srv.Shutdown(context.Background())
}

// loadConfig reads the YAML file when present and falls back to pure
// environment configuration otherwise.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
