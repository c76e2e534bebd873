package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/lanshare"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

type TableMigration struct {
	TableName string
	Up        func(ctx context.Context, db *sql.DB) error
	Down      func(ctx context.Context, db *sql.DB) error
}

func getTableMigrations(tables lanshare.Tables) []TableMigration {
	return []TableMigration{
		{
			TableName: tables.Shares,
			Up:        createSharesTable(tables.Shares),
			Down:      dropTable(tables.Shares),
		},
	}
}

func Migrate(ctx context.Context, db *sql.DB, tables lanshare.Tables) error {
	for _, migration := range getTableMigrations(tables) {
		if err := migration.Up(ctx, db); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func DropTables(ctx context.Context, db *sql.DB, tables lanshare.Tables) error {
	migrations := getTableMigrations(tables)

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if err := migration.Down(ctx, db); err != nil {
			return fmt.Errorf("migrate down %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func createSharesTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		indexList := quoteIdentifier(fmt.Sprintf("idx_%s_list", tableName))

		createTableSQL := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT NOT NULL PRIMARY KEY,
				name TEXT NOT NULL,
				path TEXT NOT NULL,
				size_bytes INTEGER NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)
		`, quotedTable)

		if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}

		indexSQL := fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s ON %s (created_at, id)
		`, indexList, quotedTable)

		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index list: %w", err)
		}

		return nil
	}
}

func dropTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdentifier(tableName))

		_, err := db.ExecContext(ctx, dropSQL)
		return err
	}
}
