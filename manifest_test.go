package lanshare_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sagarc03/lanshare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	t.Parallel()

	m, err := lanshare.ParseManifest(strings.NewReader(`
files:
  - path: /srv/share/report.pdf
  - id: movie
    name: Holiday.mp4
    path: /srv/share/holiday.mp4
    size: 2048
`))
	require.NoError(t, err)
	require.Len(t, m.Files, 2)

	assert.Equal(t, "/srv/share/report.pdf", m.Files[0].Path)
	assert.Empty(t, m.Files[0].ID)

	req := m.Files[1].ShareRequest()
	assert.Equal(t, lanshare.ShareRequest{ID: "movie", Name: "Holiday.mp4", Path: "/srv/share/holiday.mp4", Size: 2048}, req)
}

func TestParseManifest_Empty(t *testing.T) {
	t.Parallel()

	m, err := lanshare.ParseManifest(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Files)
}

func TestParseManifest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing path", yaml: "files:\n  - name: x\n"},
		{name: "negative size", yaml: "files:\n  - path: /x\n    size: -1\n"},
		{name: "unknown field", yaml: "files:\n  - path: /x\n    colour: red\n"},
		{name: "not yaml", yaml: "files: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lanshare.ParseManifest(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, lanshare.ErrInvalidInput)
		})
	}
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "share.yaml")
	require.NoError(t, os.WriteFile(path, []byte("files:\n  - path: /srv/a.txt\n"), 0o600))

	m, err := lanshare.LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Files, 1)

	_, err = lanshare.LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
