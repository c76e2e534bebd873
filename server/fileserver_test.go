package server_test

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sagarc03/lanshare"
	"github.com/sagarc03/lanshare/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startFileServer(t *testing.T) (*server.FileServer, string) {
	t.Helper()

	fs := server.NewFileServer(server.Config{Host: "127.0.0.1", Logger: quietLogger()})
	require.NoError(t, fs.Start(0))
	t.Cleanup(func() { _ = fs.Close() })

	return fs, fmt.Sprintf("http://127.0.0.1:%d", fs.Port())
}

func fetch(t *testing.T, url string, auth ...string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if len(auth) == 2 {
		req.SetBasicAuth(auth[0], auth[1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestFileServer_EndToEnd(t *testing.T) {
	fs, base := startFileServer(t)

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o600))
	require.NoError(t, fs.AddFile("r1", "report.pdf", path, 13))

	resp, body := fetch(t, base+"/api/files")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[{"id":"r1","name":"report.pdf","size":13}]`, body)

	resp, body = fetch(t, base+"/download/r1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 test", body)

	fs.RemoveFile("r1")
	resp, _ = fetch(t, base+"/download/r1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFileServer_Credentials(t *testing.T) {
	fs, base := startFileServer(t)
	fs.SetCredentials("admin", "secret")
	assert.True(t, fs.AuthEnabled())

	resp, _ := fetch(t, base+"/")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `Basic realm="FileServer"`, resp.Header.Get("WWW-Authenticate"))

	resp, _ = fetch(t, base+"/", "admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := fetch(t, base+"/", "admin", "secret")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "File Server")

	fs.SetCredentials("", "")
	resp, _ = fetch(t, base+"/api/files")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFileServer_HandleDownloads(t *testing.T) {
	fs, base := startFileServer(t)

	content := strings.Repeat("handle-backed ", 5000)
	path := filepath.Join(t.TempDir(), "h.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	f, err := os.Open(path)
	require.NoError(t, err)
	require.NoError(t, fs.AddHandle("h1", "h.txt", f, int64(len(content))))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, body := fetch(t, base+"/download/h1")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, content, body)
		}()
	}
	wg.Wait()
}

func TestFileServer_StopStart(t *testing.T) {
	fs, _ := startFileServer(t)
	port := fs.Port()

	require.NoError(t, fs.AddFile("a", "a.txt", "/tmp/a.txt", 1))

	fs.Stop()
	assert.False(t, fs.IsRunning())
	assert.Len(t, fs.Files(), 1, "stopping keeps the shared set")

	require.NoError(t, fs.Start(port))
	assert.True(t, fs.IsRunning())

	fs.ClearFiles()
	assert.Empty(t, fs.Files())
	assert.Equal(t, 0, fs.Registry().Len())
}

func TestFileServer_InvalidInput(t *testing.T) {
	fs := server.NewFileServer(server.Config{Logger: quietLogger()})

	assert.ErrorIs(t, fs.AddFile("a", "a", "", 1), lanshare.ErrInvalidInput)
	assert.ErrorIs(t, fs.AddHandle("a", "a", nil, 1), lanshare.ErrInvalidInput)
}

func TestURLs(t *testing.T) {
	ips, err := server.LocalIPv4s()
	require.NoError(t, err)

	urls := server.URLs(ips, 8080)
	assert.Len(t, urls, len(ips))
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, "http://"))
		assert.True(t, strings.HasSuffix(u, ":8080"))
	}
}
