package lanshare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// CatalogRepo persists path-backed shares so they survive a restart.
// Implementations must be safe for concurrent use.
//
// All methods accept a context for cancellation and timeout control.
type CatalogRepo interface {
	// Get returns the entry with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (CatalogEntry, error)

	// Upsert creates or updates an entry keyed by its ID.
	//
	// Returns:
	//   - CatalogEntry: The stored entry with timestamps
	//   - bool: true if a new entry was created, false if an existing one was updated
	//   - error: Any database or validation error
	Upsert(ctx context.Context, entry CatalogEntry) (CatalogEntry, bool, error)

	// Delete removes the entry with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns all entries ordered by creation time, then id.
	List(ctx context.Context) ([]CatalogEntry, error)
}

// Registrar is the part of FileRegistry the catalog feeds.
type Registrar interface {
	AddByPath(id, name, path string, size int64) error
	Remove(id string)
}

// ShareRequest describes a path to share. Empty fields are filled in by
// ResolveShare: ID with PathID of the absolute path, Name with the base name of Path and
// Size with the file's current size.
type ShareRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Path string `json:"path" validate:"required"`
	Size int64  `json:"size,omitempty" validate:"gte=0"`
}

// ResolveShare fills the defaults of req from the filesystem. The path must
// name an existing regular file.
func ResolveShare(req ShareRequest) (CatalogEntry, error) {
	if req.Path == "" {
		return CatalogEntry{}, fmt.Errorf("resolve share: empty path: %w", ErrInvalidInput)
	}

	abs, err := filepath.Abs(req.Path)
	if err != nil {
		return CatalogEntry{}, fmt.Errorf("resolve share: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return CatalogEntry{}, fmt.Errorf("resolve share %s: %w: %w", abs, ErrInvalidInput, err)
	}

	if !info.Mode().IsRegular() {
		return CatalogEntry{}, fmt.Errorf("resolve share %s: not a regular file: %w", abs, ErrInvalidInput)
	}

	entry := CatalogEntry{
		ID:        req.ID,
		Name:      req.Name,
		Path:      abs,
		SizeBytes: req.Size,
	}

	if entry.ID == "" {
		entry.ID = PathID(abs)
	}

	if entry.Name == "" {
		entry.Name = filepath.Base(abs)
	}

	if entry.SizeBytes <= 0 {
		entry.SizeBytes = info.Size()
	}

	return entry, nil
}

// PathID returns the id given to a share of path when none is chosen. The
// same absolute path always maps to the same id, so sharing a file again
// replaces its catalog row instead of adding one.
func PathID(path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+path)).String()
}

// Catalog keeps a registry and an optional CatalogRepo in step.
type Catalog struct {
	repo     CatalogRepo
	registry Registrar
	logger   *slog.Logger
}

// NewCatalog returns a Catalog. repo may be nil, in which case shares live
// only in the registry.
func NewCatalog(repo CatalogRepo, registry Registrar, logger *slog.Logger) (*Catalog, error) {
	if registry == nil {
		return nil, errors.New("new catalog: registry cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Catalog{repo: repo, registry: registry, logger: logger}, nil
}

// Share resolves req, persists it and registers it for serving.
func (c *Catalog) Share(ctx context.Context, req ShareRequest) (CatalogEntry, error) {
	entry, err := ResolveShare(req)
	if err != nil {
		return CatalogEntry{}, fmt.Errorf("share: %w", err)
	}

	if c.repo != nil {
		entry, _, err = c.repo.Upsert(ctx, entry)
		if err != nil {
			return CatalogEntry{}, fmt.Errorf("share: %w", err)
		}
	}

	if err := c.registry.AddByPath(entry.ID, entry.Name, entry.Path, entry.SizeBytes); err != nil {
		return CatalogEntry{}, fmt.Errorf("share: %w", err)
	}

	c.logger.Info("file shared", "id", entry.ID, "name", entry.Name, "size", entry.SizeBytes)

	return entry, nil
}

// Unshare drops id from the registry and the repo. A missing catalog row is
// not an error since handle-backed shares are never persisted.
func (c *Catalog) Unshare(ctx context.Context, id string) error {
	c.registry.Remove(id)

	if c.repo == nil {
		return nil
	}

	if err := c.repo.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("unshare: %w", err)
	}

	c.logger.Info("file unshared", "id", id)

	return nil
}

// Load registers every persisted entry and returns how many were registered.
// Entries whose file has disappeared are still registered; downloading them
// yields a not-found response.
func (c *Catalog) Load(ctx context.Context) (int, error) {
	if c.repo == nil {
		return 0, nil
	}

	entries, err := c.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}

	n := 0
	for _, e := range entries {
		if _, err := os.Stat(e.Path); err != nil {
			c.logger.Warn("catalog entry missing on disk", "id", e.ID, "path", e.Path, "error", err)
		}

		if err := c.registry.AddByPath(e.ID, e.Name, e.Path, e.SizeBytes); err != nil {
			c.logger.Warn("skip catalog entry", "id", e.ID, "error", err)
			continue
		}
		n++
	}

	return n, nil
}
