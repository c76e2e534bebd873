package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/lanshare"

	_ "modernc.org/sqlite" // SQLite driver
)

// Database provides SQLite catalog operations.
type Database struct {
	db     *sql.DB
	tables lanshare.Tables
}

// Connect opens a SQLite database. Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables lanshare.Tables) (*Database, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// A single connection keeps :memory: databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	return &Database{
		db:     db,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate creates the shares table and its index.
func (d *Database) Migrate(ctx context.Context) error {
	if err := Migrate(ctx, d.db, d.tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the database schema matches expected structure.
func (d *Database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.db, d.tables)
}

func (d *Database) GetRepo() lanshare.CatalogRepo {
	return &repo{db: d.db, tableName: d.tables.Shares}
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}
