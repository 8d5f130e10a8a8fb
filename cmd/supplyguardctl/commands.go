package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/SupplyGuard-Compliance/internal/application/graphrisk"
	"github.com/turtacn/SupplyGuard-Compliance/internal/application/resolution"
	"github.com/turtacn/SupplyGuard-Compliance/internal/application/scoring"
	appscreening "github.com/turtacn/SupplyGuard-Compliance/internal/application/screening"
	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/entity"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/screening"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/auth"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/neo4j"
	neo4jrepos "github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/neo4j/repositories"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/postgres"
	pgrepos "github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/redis"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/prometheus"
	pkgerrors "github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "supplyguardctl",
		Short:         "SupplyGuard-Compliance operations CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to configuration file")

	root.AddCommand(
		newVersionCmd(),
		newConfigValidateCmd(&configPath),
		newMigrateCmd(&configPath),
		newSeedCmd(&configPath),
		newTokenCmd(&configPath),
		newResolveCmd(&configPath),
		newAssessCmd(&configPath),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "supplyguardctl %s (commit %s, built %s)\n", version, commit, buildDate)
		},
	}
}

func newConfigValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config-validate",
		Short: "Load and validate the configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration valid (server port %d, mode %s)\n",
				cfg.Server.Port, cfg.Server.Mode)
			return nil
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			conn, err := openPostgres(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()
			return conn.RunMigrations(cfg.Database.MigrationPath)
		},
	}
}

// newSeedCmd loads a small canonical-entity corpus with a few regulatory
// designations, enough to exercise resolution and screening end to end.
func newSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a demo canonical-entity corpus with designations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			conn, err := openPostgres(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			logger := logging.NewNopLogger()
			entities := pgrepos.NewPostgresEntityRepo(conn, logger)
			designations := pgrepos.NewPostgresScreeningRepo(conn, logger)
			ctx := context.Background()

			seeds := []struct {
				name      string
				country   string
				authority screening.Authority
				program   string
			}{
				{name: "Acme Industrial Co., Ltd.", country: "US"},
				{name: "Globex Trading GmbH", country: "DE", authority: screening.AuthorityBIS, program: "Entity List"},
				{name: "Northwind Logistics LLC", country: "US"},
				{name: "Vostok Machinery JSC", country: "RU", authority: screening.AuthorityOFAC, program: "SDN"},
			}

			for _, s := range seeds {
				e, err := entity.New(s.name, entity.KindCompany, s.country)
				if err != nil {
					return err
				}
				if err := entities.Create(ctx, e); err != nil {
					if pkgerrors.IsConflict(err) {
						fmt.Fprintf(cmd.OutOrStdout(), "skipping %q: already present\n", s.name)
						continue
					}
					return err
				}
				if s.authority != "" {
					d, err := screening.NewDesignation(e.ID, s.authority, s.program)
					if err != nil {
						return err
					}
					if err := designations.Create(ctx, d); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %q as entity %d\n", s.name, e.ID)
			}
			return nil
		},
	}
}

func newTokenCmd(configPath *string) *cobra.Command {
	var (
		subject string
		tenant  int64
		roles   string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			svc, err := auth.NewTokenService(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := svc.Issue(subject, tenant, strings.Split(roles, ","), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().Int64Var(&tenant, "tenant", 0, "tenant ID claim")
	cmd.Flags().StringVar(&roles, "roles", string(auth.RoleViewer), "comma-separated roles")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token validity window")
	return cmd
}

// newResolveCmd runs entity resolution for one supplier and prints the result.
func newResolveCmd(configPath *string) *cobra.Command {
	var (
		supplierID int64
		tenant     int64
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a supplier against the canonical-entity corpus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRiskStack(*configPath, func(ctx context.Context, stack *riskStack) error {
				res, err := stack.resolver.Resolve(ctx, &resolution.ResolveInput{
					TenantID:   common.TenantID(tenant),
					SupplierID: common.ID(supplierID),
					Actor:      "supplyguardctl",
				})
				if err != nil {
					return err
				}
				return printJSON(cmd, res)
			})
		},
	}
	cmd.Flags().Int64Var(&supplierID, "supplier", 0, "supplier ID to resolve")
	cmd.Flags().Int64Var(&tenant, "tenant", 0, "tenant ID owning the supplier")
	_ = cmd.MarkFlagRequired("supplier")
	return cmd
}

// newAssessCmd runs a full scoring pass for one supplier and prints the result.
func newAssessCmd(configPath *string) *cobra.Command {
	var (
		supplierID int64
		tenant     int64
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run a compliance risk assessment for a supplier",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRiskStack(*configPath, func(ctx context.Context, stack *riskStack) error {
				out, err := stack.engine.Assess(ctx, &scoring.AssessInput{
					TenantID:   common.TenantID(tenant),
					SupplierID: common.ID(supplierID),
					Actor:      "supplyguardctl",
				})
				if err != nil {
					return err
				}
				return printJSON(cmd, out)
			})
		},
	}
	cmd.Flags().Int64Var(&supplierID, "supplier", 0, "supplier ID to assess")
	cmd.Flags().Int64Var(&tenant, "tenant", 0, "tenant ID owning the supplier")
	_ = cmd.MarkFlagRequired("supplier")
	return cmd
}

// riskStack is the subset of the server's service graph the CLI needs for
// one-shot resolution and assessment runs.
type riskStack struct {
	resolver resolution.Service
	engine   scoring.Service
}

// withRiskStack builds the service stack from configuration, runs fn, and
// tears the connections down again. Events stay local: the CLI publishes
// nothing to Kafka.
func withRiskStack(configPath string, fn func(context.Context, *riskStack) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}

	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	driver, err := neo4j.NewDriver(cfg.Neo4j, logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cache := redis.NewRedisCache(redisClient, logger)

	publisher := kafka.NopPublisher{}
	metrics := prometheus.NewNopAppMetrics()

	entityRepo := pgrepos.NewPostgresEntityRepo(conn, logger)
	supplierRepo := pgrepos.NewPostgresSupplierRepo(conn, logger)
	screeningRepo := pgrepos.NewPostgresScreeningRepo(conn, logger)
	configRepo := pgrepos.NewPostgresConfigRepo(conn, logger)
	recordRepo := pgrepos.NewPostgresRecordRepo(conn, logger)
	auditRepo := pgrepos.NewPostgresAuditRepo(conn, logger)
	graphStore := neo4jrepos.NewNeo4jRelationshipRepo(driver, logger)

	checks := appscreening.NewService(screeningRepo, entityRepo, graphStore, auditRepo, logger)
	media := appscreening.NewHTTPMediaSignal(cfg.Media, cache, logger)
	graphRisk := graphrisk.NewService(graphStore, cache, logger, metrics)

	stack := &riskStack{
		resolver: resolution.NewService(entityRepo, supplierRepo, graphStore, auditRepo, publisher, logger, metrics),
		engine: scoring.NewService(configRepo, recordRepo, supplierRepo, entityRepo,
			checks, media, graphRisk, auditRepo, publisher, logger, metrics),
	}
	return fn(context.Background(), stack)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func openPostgres(cfg *config.Config) (*postgres.Connection, error) {
	logger, err := logging.NewLogger(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}
	return postgres.NewConnection(cfg.Database, logger)
}
