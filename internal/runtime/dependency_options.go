package runtime

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	inboundhttp "github.com/architeacher/device-admin/internal/adapters/inbound/http"
	"github.com/architeacher/device-admin/internal/adapters/repos"
	"github.com/architeacher/device-admin/internal/adapters/tablestore"
	"github.com/architeacher/device-admin/internal/config"
	infraPostgres "github.com/architeacher/device-admin/internal/infrastructure/postgres"
	"github.com/architeacher/device-admin/internal/infrastructure/telemetry"
	"github.com/architeacher/device-admin/internal/usecases"
	"github.com/architeacher/device-admin/pkg/circuitbreaker"
	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/architeacher/device-admin/pkg/metrics/noop"
	"github.com/architeacher/device-admin/pkg/metrics/otelmetrics"
	"github.com/cenkalti/backoff/v5"
	"github.com/hashicorp/vault/api"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultQueryTable = "query_list"

	databaseConnectAttempts = 5
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithConfig(),
		WithLogger(),
		WithTracing(ctx),
		WithMetrics(ctx),
		WithSecretsRepository(),
		WithSecrets(ctx),
		WithDatabase(ctx),
		WithMigrations(),
		WithTableStore(ctx),
		WithRepositories(),
		WithApplication(),
		WithHTTPServer(),
	}
}

func WithConfig() DependencyOption {
	return func(d *dependencies) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("initializing configuration: %w", err)
		}

		d.config = cfg

		return nil
	}
}

func WithLogger() DependencyOption {
	return func(d *dependencies) error {
		d.infra.logger = logger.New(d.config.Logging.Level, d.config.Logging.Format)

		return nil
	}
}

func WithTracing(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !telemetry.TracingEnabled(d.config.Telemetry) {
			d.infra.tracerProvider = telemetry.NewNoopTracerProvider()

			return nil
		}

		tp, shutdown, err := telemetry.NewTracerProvider(ctx, d.config.App, d.config.Telemetry)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}

		d.infra.tracerProvider = tp
		d.addCleanup("tracer", shutdown)

		return nil
	}
}

func WithMetrics(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Metrics.Enabled || d.config.Telemetry.OTLPEndpoint == "" {
			d.infra.metricsClient = noop.NewMetricsClient()

			return nil
		}

		mp, shutdown, err := telemetry.NewMeterProvider(ctx, d.config.App, d.config.Telemetry)
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}

		client := otelmetrics.NewClient(mp, d.config.App.ServiceName, shutdown)

		d.infra.metricsClient = client
		d.addCleanup("metrics", client.Shutdown)

		return nil
	}
}

func WithSecretsRepository() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.SecretsStorage.Enabled {
			return nil
		}

		vaultConfig := api.DefaultConfig()
		vaultConfig.Address = d.config.SecretsStorage.Address
		vaultConfig.Timeout = d.config.SecretsStorage.Timeout

		if d.config.SecretsStorage.TLSSkipVerify {
			vaultConfig.HttpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			}
		}

		client, err := api.NewClient(vaultConfig)
		if err != nil {
			return fmt.Errorf("creating Vault client: %w", err)
		}

		if d.config.SecretsStorage.Namespace != "" {
			client.SetNamespace(d.config.SecretsStorage.Namespace)
		}

		d.repos.secretsRepo = repos.NewVaultRepository(client)

		return nil
	}
}

func WithSecrets(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if d.repos.secretsRepo != nil {
			if err := config.ApplySecrets(ctx, d.repos.secretsRepo, d.config); err != nil {
				return fmt.Errorf("loading secrets from Vault: %w", err)
			}

			d.infra.logger.Info().
				Str("path", d.config.StorageSecretPath()).
				Msg("storage connection string loaded from Vault")
		}

		return d.config.ValidateStorage()
	}
}

func WithDatabase(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		pool, err := backoff.Retry(ctx, func() (*pgxpool.Pool, error) {
			pool, err := infraPostgres.NewPool(ctx, d.config.Storage.ConnectionString, d.config.Database)
			if err != nil {
				d.infra.logger.Warn().Err(err).Msg("database not reachable yet, retrying")

				return nil, err
			}

			return pool, nil
		},
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxTries(databaseConnectAttempts),
		)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}

		d.infra.dbPool = pool
		d.addCleanup("database", func(context.Context) error {
			pool.Close()

			return nil
		})

		return nil
	}
}

func WithMigrations() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Storage.RunMigrations {
			return nil
		}

		if err := infraPostgres.RunMigrations(d.infra.dbPool, d.infra.logger.Component("migrations")); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		return nil
	}
}

func WithTableStore(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		breaker := d.config.CircuitBreaker

		client, err := tablestore.NewClient(
			d.infra.dbPool,
			tablestore.NewPgxScanner(),
			d.config.Storage.QueryTableName,
			d.infra.logger,
			tablestore.WithCircuitBreaker(circuitbreaker.Config{
				Name:             "tablestore",
				Enabled:          breaker.Enabled,
				MaxRequests:      breaker.MaxRequests,
				Interval:         breaker.Interval,
				Timeout:          breaker.Timeout,
				FailureThreshold: breaker.FailureThreshold,
			}),
		)
		if err != nil {
			return fmt.Errorf("creating table store client: %w", err)
		}

		if client.Table() != defaultQueryTable {
			if err := client.EnsureTable(ctx); err != nil {
				return fmt.Errorf("creating table %s: %w", client.Table(), err)
			}
		}

		d.infra.tableClient = client

		return nil
	}
}

func WithRepositories() DependencyOption {
	return func(d *dependencies) error {
		d.repos.queryRepo = repos.NewDeviceListQueryRepository(d.infra.tableClient, d.infra.logger)
		d.repos.deviceTypes = repos.NewDeviceTypesRepository()

		return nil
	}
}

func WithApplication() DependencyOption {
	return func(d *dependencies) error {
		d.app = usecases.NewApplication(
			d.repos.queryRepo,
			d.repos.deviceTypes,
			d.infra.tableClient,
			d.infra.tableClient,
			d.infra.logger,
			d.infra.tracerProvider,
			d.infra.metricsClient,
		)

		return nil
	}
}

func WithHTTPServer() DependencyOption {
	return func(d *dependencies) error {
		cfg := d.config.HTTPServer

		d.infra.httpServer = &http.Server{
			Addr: net.JoinHostPort(cfg.Host, strconv.FormatUint(uint64(cfg.Port), 10)),
			Handler: inboundhttp.NewRouter(inboundhttp.RouterConfig{
				App:            d.app,
				Logger:         d.infra.logger,
				TracerProvider: d.infra.tracerProvider,
			}),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       time.Minute,
		}

		return nil
	}
}
