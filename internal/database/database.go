package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"taskboard/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const healthTimeout = 2 * time.Second

// Service is a stateless facade over the database: a pgx pool for health
// checks and a bun.DB for the repositories. It holds no mutable state, so a
// single instance is constructed at startup and injected everywhere.
type Service interface {
	Bun() *bun.DB
	Pool() *pgxpool.Pool
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error
	Health(ctx context.Context) map[string]string
	Migrate() error
	Close() error
}

type service struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
	dsn   string
}

func New(ctx context.Context, cfg config.DBConfig) (Service, error) {
	return NewFromDSN(ctx, cfg.DSN())
}

func NewFromDSN(ctx context.Context, dsn string) (Service, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	return &service{pool: pool, bunDB: bunDB, dsn: dsn}, nil
}

func (s *service) Bun() *bun.DB {
	return s.bunDB
}

func (s *service) Pool() *pgxpool.Pool {
	return s.pool
}

// RunInTx runs fn inside a single transaction: committed when fn returns nil,
// rolled back as soon as it returns an error.
func (s *service) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return s.bunDB.RunInTx(ctx, nil, fn)
}

func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	health := make(map[string]string)
	if err := s.pool.Ping(ctx); err != nil {
		health["status"] = "down"
		health["error"] = err.Error()
		return health
	}

	stats := s.pool.Stat()
	health["status"] = "up"
	health["total_conns"] = strconv.Itoa(int(stats.TotalConns()))
	health["idle_conns"] = strconv.Itoa(int(stats.IdleConns()))
	health["acquired_conns"] = strconv.Itoa(int(stats.AcquiredConns()))
	return health
}

// Migrate applies the embedded SQL migrations up to the latest version.
func (s *service) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, s.dsn)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *service) Close() error {
	s.pool.Close()
	return s.bunDB.Close()
}
