package tablestore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/device-admin/internal/domain/model"
	"github.com/architeacher/device-admin/pkg/circuitbreaker"
	"github.com/architeacher/device-admin/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	serverTimestamp = "clock_timestamp()"

	createTableTemplate = `CREATE TABLE IF NOT EXISTS %s (
	partition_key TEXT NOT NULL,
	row_key TEXT NOT NULL,
	etag TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
	name TEXT NOT NULL DEFAULT '',
	filters TEXT NOT NULL DEFAULT '',
	sort_column TEXT NOT NULL DEFAULT '',
	sort_order TEXT NOT NULL DEFAULT '',
	sql_text TEXT NOT NULL DEFAULT '',
	is_advanced BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (partition_key, row_key)
);
CREATE INDEX IF NOT EXISTS idx_%s_recent ON %s (partition_key, updated_at DESC)`
)

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

	entityColumns = []string{
		"partition_key", "row_key", "etag", "updated_at",
		"name", "filters", "sort_column", "sort_order", "sql_text", "is_advanced",
	}
)

type (
	// PoolOps defines the database operations the client needs.
	// This allows injecting pgxmock in tests.
	PoolOps interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
		Ping(ctx context.Context) error
	}

	// Client is a keyed table store on top of a single PostgreSQL table.
	Client struct {
		pool    PoolOps
		scanner Scanner
		table   string
		breaker *circuitbreaker.CircuitBreaker[any]
		logger  logger.Logger
		newETag func() string
	}

	Option func(*Client)
)

// WithCircuitBreaker routes every storage call through breaker.
func WithCircuitBreaker(cfg circuitbreaker.Config) Option {
	return func(c *Client) {
		cfg.IgnoreError = isCallerFault
		c.breaker = circuitbreaker.New[any](cfg)
	}
}

// WithETagGenerator overrides how new row versions are minted.
func WithETagGenerator(fn func() string) Option {
	return func(c *Client) {
		c.newETag = fn
	}
}

// NewClient creates a table client bound to table. The table name is
// interpolated into SQL, so it must be a plain lower-case identifier.
func NewClient(pool PoolOps, scanner Scanner, table string, log logger.Logger, opts ...Option) (*Client, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidTableName, table)
	}

	client := &Client{
		pool:    pool,
		scanner: scanner,
		table:   table,
		logger:  log.Component("tablestore"),
		newETag: uuid.NewString,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func (c *Client) Table() string {
	return c.table
}

// BreakerState reports the state of the storage circuit breaker.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// ExecuteQuery returns all entities matching q, in no particular order.
func (c *Client) ExecuteQuery(ctx context.Context, q Query) ([]Entity, error) {
	builder := psql.Select(entityColumns...).
		From(c.table).
		Where(sq.Eq{"partition_key": q.PartitionKey})

	if rowKey, ok := q.RowKey(); ok {
		builder = builder.Where(sq.Eq{"row_key": rowKey})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return guarded(c, func() ([]Entity, error) {
		rows, err := c.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, classify(err)
		}
		defer rows.Close()

		entities := make([]Entity, 0)
		if err := c.scanner.ScanAll(&entities, rows); err != nil {
			return nil, classify(err)
		}

		return entities, nil
	})
}

// InsertOrReplace writes entity. Unconditional mode upserts; optimistic mode
// only replaces an existing row whose ETag matches.
func (c *Client) InsertOrReplace(ctx context.Context, entity Entity, mode model.ConcurrencyMode) (Response, error) {
	etag := c.newETag()

	var (
		query string
		args  []any
		err   error
	)

	if mode.IsUnconditional() {
		query, args, err = psql.Insert(c.table).
			Columns(entityColumns...).
			Values(
				entity.PartitionKey,
				entity.RowKey,
				etag,
				sq.Expr(serverTimestamp),
				entity.Name,
				entity.Filters,
				entity.SortColumn,
				entity.SortOrder,
				entity.SQL,
				entity.IsAdvanced,
			).
			Suffix("ON CONFLICT (partition_key, row_key) DO UPDATE SET " +
				"etag = EXCLUDED.etag, updated_at = EXCLUDED.updated_at, name = EXCLUDED.name, " +
				"filters = EXCLUDED.filters, sort_column = EXCLUDED.sort_column, " +
				"sort_order = EXCLUDED.sort_order, sql_text = EXCLUDED.sql_text, " +
				"is_advanced = EXCLUDED.is_advanced").
			ToSql()
	} else {
		query, args, err = psql.Update(c.table).
			Set("etag", etag).
			Set("updated_at", sq.Expr(serverTimestamp)).
			Set("name", entity.Name).
			Set("filters", entity.Filters).
			Set("sort_column", entity.SortColumn).
			Set("sort_order", entity.SortOrder).
			Set("sql_text", entity.SQL).
			Set("is_advanced", entity.IsAdvanced).
			Where(sq.Eq{"partition_key": entity.PartitionKey}).
			Where(sq.Eq{"row_key": entity.RowKey}).
			Where(sq.Eq{"etag": mode.ETag()}).
			ToSql()
	}

	if err != nil {
		return Response{}, fmt.Errorf("failed to build write query: %w", err)
	}

	return c.write(ctx, entity, mode, etag, query, args)
}

// Touch inserts a key-only row, or refreshes the version and timestamp of an
// existing one without touching its payload.
func (c *Client) Touch(ctx context.Context, partitionKey, rowKey string) (Response, error) {
	etag := c.newETag()

	query, args, err := psql.Insert(c.table).
		Columns("partition_key", "row_key", "etag", "updated_at").
		Values(partitionKey, rowKey, etag, sq.Expr(serverTimestamp)).
		Suffix("ON CONFLICT (partition_key, row_key) DO UPDATE SET " +
			"etag = EXCLUDED.etag, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return Response{}, fmt.Errorf("failed to build touch query: %w", err)
	}

	entity := Entity{PartitionKey: partitionKey, RowKey: rowKey}

	return c.write(ctx, entity, model.Unconditional(), etag, query, args)
}

// Delete removes entity. A missing row yields StatusNotFound, a version
// mismatch in optimistic mode yields StatusConflict.
func (c *Client) Delete(ctx context.Context, entity Entity, mode model.ConcurrencyMode) (Response, error) {
	builder := psql.Delete(c.table).
		Where(sq.Eq{"partition_key": entity.PartitionKey}).
		Where(sq.Eq{"row_key": entity.RowKey})

	if !mode.IsUnconditional() {
		builder = builder.Where(sq.Eq{"etag": mode.ETag()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return Response{}, fmt.Errorf("failed to build delete query: %w", err)
	}

	return c.write(ctx, entity, mode, "", query, args)
}

// EnsureTable creates the client's table when it does not exist yet. The
// default table is owned by migrations; this covers configured overrides.
func (c *Client) EnsureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(createTableTemplate, c.table, c.table, c.table)

	_, err := guarded(c, func() (struct{}, error) {
		if _, err := c.pool.Exec(ctx, ddl); err != nil {
			return struct{}{}, classify(err)
		}

		return struct{}{}, nil
	})

	return err
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := guarded(c, func() (struct{}, error) {
		if err := c.pool.Ping(ctx); err != nil {
			return struct{}{}, classify(err)
		}

		return struct{}{}, nil
	})

	return err
}

func (c *Client) write(
	ctx context.Context,
	entity Entity,
	mode model.ConcurrencyMode,
	etag string,
	query string,
	args []any,
) (Response, error) {
	return guarded(c, func() (Response, error) {
		result, err := c.pool.Exec(ctx, query, args...)
		if err != nil {
			return Response{}, classify(err)
		}

		if result.RowsAffected() > 0 {
			return Response{Status: StatusSuccessful, ETag: etag}, nil
		}

		if mode.IsUnconditional() {
			return Response{Status: StatusNotFound}, nil
		}

		exists, err := c.exists(ctx, entity.PartitionKey, entity.RowKey)
		if err != nil {
			return Response{}, err
		}

		if !exists {
			return Response{Status: StatusNotFound}, nil
		}

		log := c.logger.WithContext(ctx)
		log.Debug().
			Str("row_key", entity.RowKey).
			Str("expected_etag", mode.ETag()).
			Msg("optimistic write rejected, stored version differs")

		return Response{Status: StatusConflict}, nil
	})
}

func (c *Client) exists(ctx context.Context, partitionKey, rowKey string) (bool, error) {
	query, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From(c.table).
		Where(sq.Eq{"partition_key": partitionKey}).
		Where(sq.Eq{"row_key": rowKey}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var exists bool
	if err := c.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, classify(err)
	}

	return exists, nil
}

// guarded runs fn through the client's circuit breaker. Rejections by an
// open breaker surface as model.ErrStorageUnavailable.
func guarded[T any](c *Client, fn func() (T, error)) (T, error) {
	result, err := circuitbreaker.Execute(c.breaker, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T

		if circuitbreaker.IsRejection(err) {
			return zero, fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
		}

		return zero, err
	}

	return result.(T), nil
}

func classify(err error) error {
	var (
		connectErr *pgconn.ConnectError
		netErr     net.Error
	)

	if errors.As(err, &connectErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
	}

	return fmt.Errorf("%w: %w", model.ErrDatabaseQuery, err)
}

// isCallerFault reports errors caused by the caller rather than the backend:
// cancellation, data exceptions (SQLSTATE class 22) and integrity constraint
// violations (class 23). They do not count against the circuit breaker.
func isCallerFault(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23")
	}

	return false
}
