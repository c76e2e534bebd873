package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/lanshare"
	"github.com/sagarc03/lanshare/database/postgres"
	"github.com/sagarc03/lanshare/database/sqlite"
)

// Config holds the configuration for connecting to a catalog backend.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	// DSN is the data source name (connection string)
	DSN string `mapstructure:"dsn" validate:"required"`
	// Tables holds the table names
	Tables lanshare.Tables `mapstructure:"tables"`
}

// Database is a connected catalog backend.
type Database interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Validate(ctx context.Context) error
	GetRepo() lanshare.CatalogRepo
	Close() error
}

// Connect establishes a connection to the configured backend without
// touching the schema.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case "sqlite":
		db, err := sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// Open connects, pings, migrates and validates the schema, returning a
// ready-to-use Database.
func Open(ctx context.Context, cfg Config) (Database, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Type, err)
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", cfg.Type, err)
	}

	if err := db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("validate %s schema: %w", cfg.Type, err)
	}

	return db, nil
}
