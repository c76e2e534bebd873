package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sagarc03/lanshare/client"
)

func TestE2E_ShareAndDownload_SQLite(t *testing.T) {
	cfg := ServerConfig{
		Port:   getOpenPort(t),
		DBType: "sqlite",
		DBDSN:  filepath.Join(t.TempDir(), "catalog.db"),
	}

	runShareTests(t, cfg)
}

// runShareTests seeds the catalog through the CLI, starts the server and
// exercises every public route.
func runShareTests(t *testing.T, cfg ServerConfig) {
	t.Helper()

	configPath := createConfigFile(t, cfg)
	notes := writeFile(t, "notes.txt", "Hello, LAN!")

	out := runCLI(t, configPath, "add", "--id", "notes", notes)
	assert.Contains(t, out, "Added:")

	out = runCLI(t, configPath, "list", "-o", "json")
	assert.Contains(t, out, `"id": "notes"`)

	extra := writeFile(t, "extra.json", `{"k":1}`)
	baseURL := startServer(t, cfg, extra)

	c, err := client.New(&client.Config{Endpoint: baseURL})
	require.NoError(t, err)

	t.Run("index page", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Equal(t, "close", resp.Header.Get("Connection"))
	})

	t.Run("listing contains catalog and argument files", func(t *testing.T) {
		files, err := c.List(context.Background())
		require.NoError(t, err)
		require.Len(t, files, 2)

		assert.Equal(t, client.FileInfo{ID: "notes", Name: "notes.txt", Size: 11}, files[0])
		assert.Equal(t, "extra.json", files[1].Name)
	})

	t.Run("download", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/download/notes")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
		assert.Equal(t, `attachment; filename="notes.txt"`, resp.Header.Get("Content-Disposition"))
		assert.Equal(t, "Hello, LAN!", string(body))
	})

	t.Run("unknown id", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/download/nope")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := http.Post(baseURL+"/api/files", "application/json", strings.NewReader("{}"))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestE2E_BasicAuth(t *testing.T) {
	cfg := ServerConfig{
		Port:     getOpenPort(t),
		DBType:   "sqlite",
		DBDSN:    filepath.Join(t.TempDir(), "catalog.db"),
		Username: "admin",
		Password: "secret",
	}

	path := writeFile(t, "secret.txt", "top secret")
	baseURL := startServer(t, cfg, path)

	resp, err := http.Get(baseURL + "/api/files")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `Basic realm="FileServer"`, resp.Header.Get("WWW-Authenticate"))

	c, err := client.New(&client.Config{Endpoint: baseURL, Username: "admin", Password: "secret"})
	require.NoError(t, err)

	files, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)

	dir := t.TempDir()
	res, _, err := c.Download(context.Background(), client.DownloadOptions{ID: files[0].ID, Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "secret.txt"), res.LocalPath)
	assert.Equal(t, int64(10), res.Size)
}

func TestE2E_Manifest(t *testing.T) {
	a := writeFile(t, "a.txt", "aaa")
	b := writeFile(t, "b.txt", "bbbb")
	manifest := writeFile(t, "manifest.yaml", fmt.Sprintf(`files:
  - id: first
    path: %q
  - id: second
    name: renamed.txt
    path: %q
`, a, b))

	cfg := ServerConfig{
		Port:     getOpenPort(t),
		DBType:   "sqlite",
		DBDSN:    filepath.Join(t.TempDir(), "catalog.db"),
		Manifest: manifest,
	}
	baseURL := startServer(t, cfg)

	c, err := client.New(&client.Config{Endpoint: baseURL})
	require.NoError(t, err)

	files, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []client.FileInfo{
		{ID: "first", Name: "a.txt", Size: 3},
		{ID: "second", Name: "renamed.txt", Size: 4},
	}, files)
}

func TestE2E_ControlAPI(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("control-token"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := ServerConfig{
		Port:        getOpenPort(t),
		DBType:      "sqlite",
		DBDSN:       filepath.Join(t.TempDir(), "catalog.db"),
		ControlPort: getOpenPort(t),
		TokenHash:   string(hash),
	}
	baseURL := startServer(t, cfg)
	controlURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.ControlPort)
	waitForControl(t, controlURL)

	do := func(method, path, body string) *http.Response {
		t.Helper()

		req, err := http.NewRequest(method, controlURL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer control-token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	t.Run("rejects missing token", func(t *testing.T) {
		resp, err := http.Get(controlURL + "/status")
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("share through control api", func(t *testing.T) {
		path := writeFile(t, "ctl.txt", "via control")
		resp := do(http.MethodPost, "/files", fmt.Sprintf(`{"id":"ctl","path":%q}`, path))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		dl, err := http.Get(baseURL + "/download/ctl")
		require.NoError(t, err)
		defer func() { _ = dl.Body.Close() }()
		body, _ := io.ReadAll(dl.Body)
		assert.Equal(t, "via control", string(body))
	})

	t.Run("set credentials", func(t *testing.T) {
		resp := do(http.MethodPut, "/credentials", `{"username":"u","password":"p"}`)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		r, err := http.Get(baseURL + "/api/files")
		require.NoError(t, err)
		_ = r.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, r.StatusCode)

		resp = do(http.MethodPut, "/credentials", `{"username":"","password":""}`)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("stop and start", func(t *testing.T) {
		resp := do(http.MethodPost, "/server/stop", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var status struct {
			Running bool `json:"running"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
		assert.False(t, status.Running)

		resp = do(http.MethodPost, "/server/start", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		waitForServer(t, baseURL, 5*time.Second)
	})

	t.Run("unshare", func(t *testing.T) {
		resp := do(http.MethodDelete, "/files/ctl", "")
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		dl, err := http.Get(baseURL + "/download/ctl")
		require.NoError(t, err)
		_ = dl.Body.Close()
		assert.Equal(t, http.StatusNotFound, dl.StatusCode)
	})
}

func waitForControl(t *testing.T, controlURL string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(controlURL + "/status")
		if err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("control api failed to start")
}
