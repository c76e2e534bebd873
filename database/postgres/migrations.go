package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/lanshare"
)

// Migrate creates every catalog table that does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables lanshare.Tables) error {
	if err := createSharesTable(ctx, pool, tables.Shares); err != nil {
		return fmt.Errorf("migrate up %s: %w", tables.Shares, err)
	}
	return nil
}

// DropTables removes every catalog table.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables lanshare.Tables) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pgx.Identifier{tables.Shares}.Sanitize())
	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("migrate down %s: %w", tables.Shares, err)
	}
	return nil
}

func createSharesTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexList := pgx.Identifier{fmt.Sprintf("idx_%s_list", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			size_bytes BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (created_at, id);
	`, quotedTable, indexList, quotedTable)

	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("create shares table: %w", err)
	}
	return nil
}
