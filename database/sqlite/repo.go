// Package sqlite implements lanshare.CatalogRepo on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sagarc03/lanshare"
)

type repo struct {
	db        *sql.DB
	tableName string
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (lanshare.CatalogEntry, error) {
	var (
		e                    lanshare.CatalogEntry
		createdAt, updatedAt string
		err                  error
	)

	if err = row.Scan(&e.ID, &e.Name, &e.Path, &e.SizeBytes, &createdAt, &updatedAt); err != nil {
		return lanshare.CatalogEntry{}, err
	}

	e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return lanshare.CatalogEntry{}, fmt.Errorf("parse created_at: %w", err)
	}

	e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return lanshare.CatalogEntry{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return e, nil
}

func (r *repo) Get(ctx context.Context, id string) (lanshare.CatalogEntry, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, name, path, size_bytes, created_at, updated_at
		FROM %s
		WHERE id = ?`, quoteIdentifier(r.tableName))

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lanshare.CatalogEntry{}, lanshare.ErrNotFound
		}
		return lanshare.CatalogEntry{}, fmt.Errorf("get: %w", err)
	}

	return e, nil
}

func (r *repo) Upsert(ctx context.Context, entry lanshare.CatalogEntry) (lanshare.CatalogEntry, bool, error) {
	if entry.ID == "" || entry.Path == "" {
		return lanshare.CatalogEntry{}, false, fmt.Errorf("upsert: id and path are required: %w", lanshare.ErrInvalidInput)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return lanshare.CatalogEntry{}, false, fmt.Errorf("upsert: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var createdAt string
	checkQuery := fmt.Sprintf(`SELECT created_at FROM %s WHERE id = ?`, quoteIdentifier(r.tableName)) //nolint:gosec // table name is validated
	err = tx.QueryRowContext(ctx, checkQuery, entry.ID).Scan(&createdAt)
	isInsert := errors.Is(err, sql.ErrNoRows)
	if err != nil && !isInsert {
		return lanshare.CatalogEntry{}, false, fmt.Errorf("upsert: check existing: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	if isInsert {
		createdAt = now
		insertQuery := fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`INSERT INTO %s (id, name, path, size_bytes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`, quoteIdentifier(r.tableName))

		if _, err = tx.ExecContext(ctx, insertQuery, entry.ID, entry.Name, entry.Path, entry.SizeBytes, now, now); err != nil {
			return lanshare.CatalogEntry{}, false, fmt.Errorf("upsert: insert: %w", err)
		}
	} else {
		updateQuery := fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`UPDATE %s
			SET name = ?, path = ?, size_bytes = ?, updated_at = ?
			WHERE id = ?`, quoteIdentifier(r.tableName))

		if _, err = tx.ExecContext(ctx, updateQuery, entry.Name, entry.Path, entry.SizeBytes, now, entry.ID); err != nil {
			return lanshare.CatalogEntry{}, false, fmt.Errorf("upsert: update: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return lanshare.CatalogEntry{}, false, fmt.Errorf("upsert: commit: %w", err)
	}

	entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	entry.UpdatedAt, _ = time.Parse(time.RFC3339Nano, now)

	return entry, isInsert, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, quoteIdentifier(r.tableName)) //nolint:gosec // table name is validated

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if n == 0 {
		return lanshare.ErrNotFound
	}

	return nil
}

func (r *repo) List(ctx context.Context) ([]lanshare.CatalogEntry, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, name, path, size_bytes, created_at, updated_at
		FROM %s
		ORDER BY created_at ASC, id ASC`, quoteIdentifier(r.tableName))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []lanshare.CatalogEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return entries, nil
}
