// Package postgres is the pgx-backed store implementation. Tenant-scoped
// reads run through the query interceptor chain; the session mirror lands on
// the connection checked out for the read, where set_config feeds the
// optional row-security policies declared in schema.sql.
package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goalkeep/goalkeep/internal/storage"
)

// Config holds connection settings.
type Config struct {
	// DSN is a pgx connection string or URL.
	DSN string `conf:"dsn" yaml:"dsn" json:"dsn"`
	// MaxConns caps the pool size. Zero keeps the pgxpool default.
	MaxConns int32 `conf:"max_conns" yaml:"max_conns" json:"max_conns"`
	// ConnectTimeout bounds the initial connectivity probe.
	ConnectTimeout time.Duration `conf:"connect_timeout" yaml:"connect_timeout" json:"connect_timeout"`
}

// NewPool opens a pgx pool and verifies connectivity once.
func NewPool(ctx context.Context, config Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(config.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}

	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return pool, nil
}

// Client shares the pool and the interceptor chain across the per-entity
// repositories.
type Client struct {
	pool         *pgxpool.Pool
	interceptors storage.Interceptors
}

func NewClient(pool *pgxpool.Pool, interceptors storage.Interceptors) *Client {
	return &Client{pool: pool, interceptors: interceptors}
}

// connSession is the session state of one checked-out connection. The
// mirrored scope lives in Postgres session settings, scoped to the
// connection, so concurrent operations never observe each other's tenant.
type connSession struct {
	conn *pgxpool.Conn
}

func (s *connSession) SetTenantScope(ctx context.Context, tenantID string, superuser bool) error {
	_, err := s.conn.Exec(ctx,
		`SELECT set_config('app.tenant_id', $1, false), set_config('app.is_superuser', $2, false)`,
		tenantID, fmt.Sprintf("%t", superuser),
	)
	if err != nil {
		return fmt.Errorf("postgres: set session tenant scope: %w", err)
	}

	return nil
}

// scopedRead checks out a connection, runs the interceptor chain with the
// connection's session attached, and hands the rewritten filter plus the
// same connection to fn. Executing on the checked-out connection is what
// keeps the mirrored session settings and the read together.
func (c *Client) scopedRead(ctx context.Context, kind storage.Kind, filter storage.Filter,
	fn func(ctx context.Context, conn *pgxpool.Conn, filter storage.Filter) error,
) error {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("postgres: acquire connection: %w", err)
	}
	defer conn.Release()

	q := &storage.Query{Kind: kind, Filter: filter.Clone(), Session: &connSession{conn: conn}}
	if err := c.interceptors.Apply(ctx, q); err != nil {
		return err
	}

	return fn(ctx, conn, q.Filter)
}

// whereClause renders a conjunctive equality filter. Keys are sorted so the
// generated SQL is stable for logging and prepared-statement caching.
func whereClause(filter storage.Filter) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var (
		parts = make([]string, 0, len(keys))
		args  = make([]any, 0, len(keys))
	)

	for i, key := range keys {
		parts = append(parts, fmt.Sprintf("%s = $%d", key, i+1))
		args = append(args, filter[key])
	}

	return " WHERE " + strings.Join(parts, " AND "), args
}
