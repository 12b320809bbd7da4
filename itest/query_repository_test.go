//go:build integration

package itest

import (
	"context"
	"testing"
	"time"

	"github.com/architeacher/device-admin/internal/adapters/repos"
	"github.com/architeacher/device-admin/internal/adapters/tablestore"
	"github.com/architeacher/device-admin/internal/config"
	"github.com/architeacher/device-admin/internal/domain/model"
	infraPostgres "github.com/architeacher/device-admin/internal/infrastructure/postgres"
	"github.com/architeacher/device-admin/internal/ports"
	"github.com/architeacher/device-admin/pkg/circuitbreaker"
	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage    = "postgres:18-alpine"
	postgresDatabase = "device_admin_test"
	postgresUsername = "test"
	postgresPassword = "test"
)

type QueryRepositoryIntegrationTestSuite struct {
	suite.Suite
	suiteCtx    context.Context
	suiteCancel context.CancelFunc
	container   *postgres.PostgresContainer
	pool        *pgxpool.Pool
	client      *tablestore.Client
	repo        *repos.DeviceListQueryRepository
}

func TestQueryRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(QueryRepositoryIntegrationTestSuite))
}

func (s *QueryRepositoryIntegrationTestSuite) SetupSuite() {
	s.suiteCtx, s.suiteCancel = context.WithTimeout(context.Background(), 5*time.Minute)

	container, err := postgres.Run(s.suiteCtx,
		postgresImage,
		postgres.WithDatabase(postgresDatabase),
		postgres.WithUsername(postgresUsername),
		postgres.WithPassword(postgresPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.suiteCtx, "sslmode=disable")
	s.Require().NoError(err)

	pool, err := infraPostgres.NewPool(s.suiteCtx, connStr, config.Database{
		MaxConnections:  4,
		MinConnections:  1,
		ConnectTimeout:  10 * time.Second,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	})
	s.Require().NoError(err)
	s.pool = pool

	log := logger.NewTestLogger()

	s.Require().NoError(infraPostgres.RunMigrations(s.pool, log))
	s.Require().NoError(infraPostgres.RunMigrations(s.pool, log), "migrations must be idempotent")

	s.client, err = tablestore.NewClient(s.pool, tablestore.NewPgxScanner(), "query_list", log,
		tablestore.WithCircuitBreaker(circuitbreaker.Config{Name: "itest", Enabled: true, FailureThreshold: 5}),
	)
	s.Require().NoError(err)

	s.repo = repos.NewDeviceListQueryRepository(s.client, log)
}

func (s *QueryRepositoryIntegrationTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}

	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}

	if s.suiteCancel != nil {
		s.suiteCancel()
	}
}

func (s *QueryRepositoryIntegrationTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.suiteCtx, "TRUNCATE TABLE query_list")
	s.Require().NoError(err)
}

func (s *QueryRepositoryIntegrationTestSuite) runningQuery(name string) *model.DeviceListQuery {
	query := model.NewDeviceListQuery(name,
		model.Filter{ColumnName: "Status", FilterType: model.FilterTypeEQ, FilterValue: "Running"},
	)
	query.SortColumn = "DeviceID"
	query.SortOrder = model.SortOrderAscending

	return query
}

func (s *QueryRepositoryIntegrationTestSuite) TestSaveAndGetRoundTrip() {
	ctx := s.suiteCtx

	saved, err := s.repo.Save(ctx, s.runningQuery("running"))
	s.Require().NoError(err)
	s.Require().True(saved)

	saved, err = s.repo.Save(ctx, s.runningQuery("running"))
	s.Require().NoError(err)
	s.Require().False(saved, "second save without force must be declined")

	stored, err := s.repo.GetByName(ctx, "running")
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Require().Equal("running", stored.Name)
	s.Require().Len(stored.Filters, 1)
	s.Require().Equal("DeviceID", stored.SortColumn)
	s.Require().Equal(model.SortOrderAscending, stored.SortOrder)
	s.Require().False(stored.Timestamp.IsZero())

	missing, err := s.repo.GetByName(ctx, "missing")
	s.Require().NoError(err)
	s.Require().Nil(missing)
}

func (s *QueryRepositoryIntegrationTestSuite) TestRecencyOrdering() {
	ctx := s.suiteCtx

	for _, name := range []string{"alpha", "beta", "gamma"} {
		_, err := s.repo.Save(ctx, s.runningQuery(name))
		s.Require().NoError(err)
	}

	touched, err := s.repo.Touch(ctx, "alpha")
	s.Require().NoError(err)
	s.Require().True(touched)

	recent, err := s.repo.ListRecent(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Require().Equal("alpha", recent[0].Name)
	s.Require().Equal("gamma", recent[1].Name)
	s.Require().Len(recent[0].Filters, 1, "touch must keep the payload")

	all, err := s.repo.ListRecent(ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(all, 3)

	names, err := s.repo.ListNames(ctx)
	s.Require().NoError(err)
	s.Require().Equal([]string{"alpha", "beta", "gamma"}, names)
}

func (s *QueryRepositoryIntegrationTestSuite) TestOptimisticConcurrency() {
	ctx := s.suiteCtx

	_, err := s.repo.Save(ctx, s.runningQuery("running"))
	s.Require().NoError(err)

	entities, err := s.client.ExecuteQuery(ctx, tablestore.NewQuery(repos.QueryPartitionKey).WhereRowKey("running"))
	s.Require().NoError(err)
	s.Require().Len(entities, 1)

	current := model.Optimistic(entities[0].ETag)

	saved, err := s.repo.Save(ctx, s.runningQuery("running"), ports.WithForce(), ports.WithConcurrencyMode(current))
	s.Require().NoError(err)
	s.Require().True(saved)

	saved, err = s.repo.Save(ctx, s.runningQuery("running"), ports.WithForce(), ports.WithConcurrencyMode(current))
	s.Require().NoError(err)
	s.Require().False(saved, "stale etag must be rejected")

	response, err := s.client.Delete(ctx, tablestore.Entity{PartitionKey: repos.QueryPartitionKey, RowKey: "running"}, current)
	s.Require().NoError(err)
	s.Require().Equal(tablestore.StatusConflict, response.Status)
}

func (s *QueryRepositoryIntegrationTestSuite) TestDelete() {
	ctx := s.suiteCtx

	_, err := s.repo.Save(ctx, s.runningQuery("running"))
	s.Require().NoError(err)

	deleted, err := s.repo.Delete(ctx, "running")
	s.Require().NoError(err)
	s.Require().True(deleted)

	deleted, err = s.repo.Delete(ctx, "running")
	s.Require().NoError(err)
	s.Require().False(deleted)
}

func (s *QueryRepositoryIntegrationTestSuite) TestEnsureTableForOverride() {
	ctx := s.suiteCtx

	client, err := tablestore.NewClient(s.pool, tablestore.NewPgxScanner(), "saved_queries", logger.NewTestLogger())
	s.Require().NoError(err)

	s.Require().NoError(client.EnsureTable(ctx))
	s.Require().NoError(client.EnsureTable(ctx))

	repo := repos.NewDeviceListQueryRepository(client, logger.NewTestLogger())

	saved, err := repo.Save(ctx, s.runningQuery("custom"))
	s.Require().NoError(err)
	s.Require().True(saved)

	exists, err := s.repo.NameExists(ctx, "custom")
	s.Require().NoError(err)
	s.Require().False(exists, "override table must be separate from the default")
}
