// Package db provides database connectivity and migration functionality for the
// devconnector application. It establishes the pgx connection pool, enables the
// required PostgreSQL extensions, and runs schema migrations at startup.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// File source driver for golang-migrate, imported for its side effect of
	// registering the "file://" scheme.
	_ "github.com/golang-migrate/migrate/v4/source/file"
	// Postgres database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	// lib/pq backs migrate's postgres driver when given a DSN.
	_ "github.com/lib/pq"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/devconnector-go/apperror"
	"github.com/user/devconnector-go/config"
)

// Querier is the connection surface the services depend on. *pgxpool.Pool
// satisfies it; tests substitute a mock.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewPool establishes a PostgreSQL connection pool using the provided
// configuration. The pool is shared by all services; pgxpool is safe for
// concurrent use.
func NewPool(cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&pool_max_conns=%d",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.MaxSize,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	// Verify the connection before handing the pool to the application.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s", cfg.DBName), err)
	}

	return pool, nil
}

// getDSN constructs a DSN string from DatabaseConfig, suitable for golang-migrate.
func getDSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)
}

// EnableExtensions enables the PostgreSQL extensions the schema depends on.
// pgcrypto provides gen_random_uuid(), used as the default for post, comment,
// experience and education identifiers.
func EnableExtensions(pool *pgxpool.Pool) error {
	extensions := []string{"pgcrypto"}

	for _, ext := range extensions {
		// CREATE EXTENSION IF NOT EXISTS is idempotent.
		query := fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %s;", ext)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := pool.Exec(ctx, query)
		cancel()
		if err != nil {
			return apperror.NewDatabaseError(fmt.Sprintf("failed to create extension %s", ext), err)
		}
	}

	return nil
}

// RunMigrations applies any pending database migrations from the specified
// migrations directory. golang-migrate handles versioning and execution; it
// needs its own lib/pq-backed connection, hence the DSN rather than the pool.
func RunMigrations(cfg *config.DatabaseConfig, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, getDSN(cfg))
	if err != nil {
		return apperror.NewDatabaseError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			if srcErr != nil {
				fmt.Printf("Warning: error closing migration source: %v\n", srcErr)
			}
			if dbErr != nil {
				fmt.Printf("Warning: error closing migration database instance: %v\n", dbErr)
			}
		}
	}()

	// ErrNoChange simply means the schema is already current.
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperror.NewDatabaseError("failed to run migrations", err)
	}

	return nil
}
