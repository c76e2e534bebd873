package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds a whole List call and the wait for response
// headers on a download. Download bodies are bounded only by the context.
const DefaultTimeout = 30 * time.Second

type Config struct {
	Endpoint string
	Username string
	Password string
}

// Client lists and downloads files from a lanshare server.
type Client struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout. It does not cut off download bodies.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}

	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	c := &Client{
		endpoint:   endpoint,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: DefaultTimeout, Transport: defaultTransport()},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func defaultTransport() http.RoundTripper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.ResponseHeaderTimeout = DefaultTimeout
	return t
}

// streamClient is the configured client without an overall timeout.
func (c *Client) streamClient() *http.Client {
	hc := *c.httpClient
	hc.Timeout = 0
	return &hc
}

func (c *Client) newRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	return req, nil
}

// List returns the server's shared files in listing order.
func (c *Client) List(ctx context.Context) ([]FileInfo, error) {
	req, err := c.newRequest(ctx, "/api/files")
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	files := []FileInfo{}
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return files, nil
}

// Download fetches one file. If opts.LocalPath is "-" the body is returned
// and must be closed by the caller; otherwise it is written to disk and the
// returned io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	if opts.ID == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrEmptyID)
	}

	req, err := c.newRequest(ctx, "/download/"+opts.ID)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.streamClient().Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	result := &DownloadResult{
		ID:          opts.ID,
		Name:        attachmentName(resp.Header.Get("Content-Disposition"), opts.ID),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}
	defer func() { _ = resp.Body.Close() }()

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = filepath.Join(opts.Dir, result.Name)
	}
	result.LocalPath = localPath

	if dir := filepath.Dir(localPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("create directory: %w", err)
		}
	}

	file, err := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return nil, nil, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(localPath)
		return nil, nil, fmt.Errorf("write file: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(localPath)
		return nil, nil, fmt.Errorf("close file: %w", err)
	}

	result.Size = written
	return result, nil, nil
}

// attachmentName extracts a safe base name from a Content-Disposition value.
func attachmentName(disposition, fallback string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return fallback
	}

	name := filepath.Base(filepath.Clean("/" + params["filename"]))
	if name == "/" || name == "." || name == "" {
		return fallback
	}

	return name
}
