package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

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
	"size_bytes": {"integer", false},
	"created_at": {"text", false},
	"updated_at": {"text", false},
}

// ValidateSchema checks every catalog table against its expected columns.
func ValidateSchema(ctx context.Context, db *sql.DB, tables lanshare.Tables) error {
	if err := validateTable(ctx, db, tables.Shares, sharesColumns); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.Shares, err)
	}
	return nil
}

func validateTable(ctx context.Context, db *sql.DB, tableName string, want map[string]column) error {
	if !lanshare.IsValidTableName(tableName) {
		return fmt.Errorf("invalid table name: %s", tableName)
	}

	var name string
	err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, tableName).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("table %s does not exist", tableName)
	}
	if err != nil {
		return fmt.Errorf("check table exists: %w", err)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(tableName)))
	if err != nil {
		return fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	got := make(map[string]column)
	for rows.Next() {
		var (
			cid, notNull, pk int
			colName, colType string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("scan column: %w", err)
		}
		got[colName] = column{dataType: strings.ToLower(colType), nullable: notNull == 0}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	var problems []string
	for col, w := range want {
		g, ok := got[col]
		switch {
		case !ok:
			problems = append(problems, "missing column "+col)
		case g.dataType != w.dataType:
			problems = append(problems, fmt.Sprintf("%s: expected %s, got %s", col, w.dataType, g.dataType))
		case g.nullable != w.nullable:
			problems = append(problems, fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", col, w.nullable, g.nullable))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return errors.New("table " + tableName + " schema validation failed: " + strings.Join(problems, "; "))
	}

	return nil
}
