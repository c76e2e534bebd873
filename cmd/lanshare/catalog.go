package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sagarc03/lanshare"
	"github.com/sagarc03/lanshare/config"
	"github.com/sagarc03/lanshare/database"
)

// openCatalog opens the configured catalog database. The returned close
// function is safe to call when the catalog is disabled.
func openCatalog(ctx context.Context, cfg *config.Config) (lanshare.CatalogRepo, func(), error) {
	if !cfg.Catalog.Enabled {
		return nil, func() {}, nil
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}

	slog.Debug("catalog opened", "type", cfg.Database.Type)

	return db.GetRepo(), func() { _ = db.Close() }, nil
}

// requireCatalog is openCatalog for commands that only make sense with a
// catalog.
func requireCatalog(ctx context.Context, cfg *config.Config) (lanshare.CatalogRepo, func(), error) {
	if !cfg.Catalog.Enabled {
		return nil, nil, errors.New("catalog is disabled (set catalog.enabled: true)")
	}
	return openCatalog(ctx, cfg)
}
