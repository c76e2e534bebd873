package lanshare

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// SourceKind tells how a shared file's bytes are reached.
type SourceKind string

const (
	SourcePath   SourceKind = "path"
	SourceHandle SourceKind = "handle"
)

// SharedFile is a snapshot of one registry entry. The underlying handle of a
// handle-backed entry stays owned by the registry and is never exposed.
type SharedFile struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Size   int64      `json:"size"`
	Path   string     `json:"path,omitempty"`
	Source SourceKind `json:"source"`
}

// FileInfo is the public listing view of a shared file.
type FileInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func (f SharedFile) Info() FileInfo {
	return FileInfo{ID: f.ID, Name: f.Name, Size: f.Size}
}

// CatalogEntry is a persisted path-backed share.
type CatalogEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tables holds configurable table names for the share catalog.
type Tables struct {
	Shares string `mapstructure:"shares"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Shares == "" {
		return errors.New("validate tables: shares table name cannot be empty")
	}

	if !IsValidTableName(t.Shares) {
		return fmt.Errorf("validate tables: invalid shares table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Shares)
	}

	return nil
}
