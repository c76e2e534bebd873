package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/lanshare"
)

type repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func (r *repo) table() string {
	return pgx.Identifier{r.tableName}.Sanitize()
}

func (r *repo) Get(ctx context.Context, id string) (lanshare.CatalogEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, name, path, size_bytes, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.table())

	var e lanshare.CatalogEntry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.Path, &e.SizeBytes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, path, size_bytes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			path = EXCLUDED.path,
			size_bytes = EXCLUDED.size_bytes,
			updated_at = NOW()
		RETURNING id, name, path, size_bytes, created_at, updated_at,
			(xmax = 0) AS inserted
	`, r.table())

	var (
		e        lanshare.CatalogEntry
		inserted bool
	)

	err := r.pool.QueryRow(ctx, query, entry.ID, entry.Name, entry.Path, entry.SizeBytes).Scan(
		&e.ID, &e.Name, &e.Path, &e.SizeBytes, &e.CreatedAt, &e.UpdatedAt, &inserted,
	)
	if err != nil {
		return lanshare.CatalogEntry{}, false, fmt.Errorf("upsert: %w", err)
	}

	return e, inserted, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table())

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return lanshare.ErrNotFound
	}

	return nil
}

func (r *repo) List(ctx context.Context) ([]lanshare.CatalogEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, name, path, size_bytes, created_at, updated_at
		FROM %s
		ORDER BY created_at ASC, id ASC
	`, r.table())

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	entries := []lanshare.CatalogEntry{}
	for rows.Next() {
		var e lanshare.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Path, &e.SizeBytes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return entries, nil
}
