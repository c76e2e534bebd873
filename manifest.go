package lanshare

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Manifest is a YAML list of files to share at startup:
//
//	files:
//	  - path: /srv/share/report.pdf
//	  - id: movie
//	    name: Holiday.mp4
//	    path: /srv/share/holiday.mp4
type Manifest struct {
	Files []ManifestEntry `yaml:"files" validate:"dive"`
}

type ManifestEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Path string `yaml:"path" validate:"required"`
	Size int64  `yaml:"size" validate:"gte=0"`
}

func (e ManifestEntry) ShareRequest() ShareRequest {
	return ShareRequest{ID: e.ID, Name: e.Name, Path: e.Path, Size: e.Size}
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("load manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := ParseManifest(f)
	if err != nil {
		return Manifest{}, fmt.Errorf("load manifest %s: %w", path, err)
	}

	return m, nil
}

func ParseManifest(r io.Reader) (Manifest, error) {
	var m Manifest

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return Manifest{}, fmt.Errorf("parse manifest: %w: %w", ErrInvalidInput, err)
	}

	if err := validator.New().Struct(m); err != nil {
		return Manifest{}, fmt.Errorf("validate manifest: %w: %w", ErrInvalidInput, err)
	}

	return m, nil
}
