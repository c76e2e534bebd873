// Package postgres implements lanshare.CatalogRepo on PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/lanshare"
)

// Database provides PostgreSQL catalog operations.
type Database struct {
	pool   *pgxpool.Pool
	tables lanshare.Tables
}

// Connect establishes a pool. Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables lanshare.Tables) (*Database, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &Database{pool: pool, tables: tables}, nil
}

func (d *Database) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Migrate creates the shares table and its list index.
func (d *Database) Migrate(ctx context.Context) error {
	if err := Migrate(ctx, d.pool, d.tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the shares table has the expected columns.
func (d *Database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.pool, d.tables)
}

func (d *Database) GetRepo() lanshare.CatalogRepo {
	return &repo{pool: d.pool, tableName: d.tables.Shares}
}

// Close closes the connection pool.
func (d *Database) Close() error {
	d.pool.Close()
	return nil
}

// DropTables removes the catalog tables.
func (d *Database) DropTables(ctx context.Context) error {
	return DropTables(ctx, d.pool, d.tables)
}
