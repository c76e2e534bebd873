package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/lanshare"
)

type column struct {
	dataType string
	nullable bool
}

var sharesColumns = map[string]column{
	"id":         {"text", false},
	"name":       {"text", false},
	"path":       {"text", false},
	"size_bytes": {"bigint", false},
	"created_at": {"timestamp with time zone", false},
	"updated_at": {"timestamp with time zone", false},
}

// ValidateSchema checks every catalog table against its expected columns.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, tables lanshare.Tables) error {
	if err := validateTable(ctx, pool, tables.Shares, sharesColumns); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.Shares, err)
	}
	return nil
}

func validateTable(ctx context.Context, pool *pgxpool.Pool, tableName string, want map[string]column) error {
	if !lanshare.IsValidTableName(tableName) {
		return fmt.Errorf("invalid table name: %s", tableName)
	}

	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, tableName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check table exists: %w", err)
	}

	if !exists {
		return fmt.Errorf("table %s does not exist", tableName)
	}

	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1`, tableName)
	if err != nil {
		return fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	got := make(map[string]column)
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return fmt.Errorf("scan column: %w", err)
		}
		got[name] = column{dataType: strings.ToLower(dataType), nullable: nullable == "YES"}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	var problems []string
	for name, w := range want {
		g, ok := got[name]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("missing column %s", name))
		case g.dataType != w.dataType:
			problems = append(problems, fmt.Sprintf("%s: expected %s, got %s", name, w.dataType, g.dataType))
		case g.nullable != w.nullable:
			problems = append(problems, fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", name, w.nullable, g.nullable))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return errors.New("table " + tableName + " schema validation failed: " + strings.Join(problems, "; "))
	}

	return nil
}
