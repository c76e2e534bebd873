package server

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sagarc03/lanshare"
)

// DefaultIdleTimeout bounds every read and write on an accepted connection.
const DefaultIdleTimeout = 30 * time.Second

const downloadPrefix = "/download/"

// Authenticator decides whether a request may proceed.
type Authenticator interface {
	HasCredentials() bool
	Validate(header string) bool
	Realm() string
}

// FileSource lists shared files and opens them for download.
type FileSource interface {
	List() []lanshare.SharedFile
	ResolveForRead(id string) (*lanshare.FileReader, error)
}

// Router serves exactly one request per connection.
type Router struct {
	auth        Authenticator
	files       FileSource
	logger      *slog.Logger
	idleTimeout time.Duration
}

type RouterConfig struct {
	// IdleTimeout applies to each read and write. Zero means DefaultIdleTimeout,
	// negative disables deadlines.
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

func NewRouter(cfg RouterConfig, auth Authenticator, files FileSource) *Router {
	timeout := cfg.IdleTimeout
	if timeout == 0 {
		timeout = DefaultIdleTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Router{
		auth:        auth,
		files:       files,
		logger:      logger,
		idleTimeout: timeout,
	}
}

// ServeConn reads one request from conn, answers it and closes conn.
// Malformed requests are dropped without a response.
func (rt *Router) ServeConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	c := &idleConn{Conn: conn, timeout: rt.idleTimeout}
	remote := conn.RemoteAddr().String()

	req, err := ReadRequest(c)
	if err != nil {
		rt.logger.Debug("dropping connection", "remote", remote, "error", err)
		return
	}

	status, err := rt.Handle(c, req)
	if err != nil {
		rt.logger.Debug("response aborted", "method", req.Method, "path", req.Path, "remote", remote, "error", err)
	}

	rt.logger.Info("request", "method", req.Method, "path", req.Path, "status", status, "remote", remote)
}

// Handle writes the response for req to w and returns the status sent.
func (rt *Router) Handle(w io.Writer, req *Request) (int, error) {
	if rt.auth.HasCredentials() {
		value, ok := req.Headers["authorization"]
		if !ok || !rt.auth.Validate(value) {
			rt.logger.Info("authentication failed", "path", req.Path, "header_present", ok)
			return http.StatusUnauthorized, writeResponse(w, http.StatusUnauthorized, []header{
				{"WWW-Authenticate", `Basic realm="` + rt.auth.Realm() + `"`},
				{"Content-Type", contentTypeHTML},
			}, []byte(unauthorizedHTML))
		}
	}

	if req.Method != http.MethodGet {
		return http.StatusMethodNotAllowed, writeResponse(w, http.StatusMethodNotAllowed,
			[]header{{"Content-Type", contentTypeHTML}}, []byte(methodNotAllowedHTML))
	}

	switch {
	case req.Path == "/" || req.Path == "/index.html":
		return http.StatusOK, writeResponse(w, http.StatusOK,
			[]header{{"Content-Type", contentTypeHTML}}, indexHTML)
	case req.Path == "/api/files":
		return http.StatusOK, writeResponse(w, http.StatusOK,
			[]header{{"Content-Type", contentTypeJSON}}, encodeListing(rt.files.List()))
	case strings.HasPrefix(req.Path, downloadPrefix):
		return rt.download(w, strings.TrimPrefix(req.Path, downloadPrefix))
	default:
		return http.StatusNotFound, writeNotFound(w)
	}
}

func (rt *Router) download(w io.Writer, id string) (int, error) {
	rd, err := rt.files.ResolveForRead(id)
	if err != nil {
		if !errors.Is(err, lanshare.ErrNotFound) {
			rt.logger.Warn("download unavailable", "id", id, "error", err)
		}
		return http.StatusNotFound, writeNotFound(w)
	}
	defer func() { _ = rd.Close() }()

	return http.StatusOK, writeFile(w, rd)
}

func writeNotFound(w io.Writer) error {
	return writeResponse(w, http.StatusNotFound,
		[]header{{"Content-Type", contentTypeHTML}}, []byte(notFoundHTML))
}

// idleConn refreshes the connection deadline before every read and write.
type idleConn struct {
	net.Conn
	timeout time.Duration
}

func (c *idleConn) Read(p []byte) (int, error) {
	if c.timeout > 0 {
		_ = c.Conn.SetReadDeadline(time.Now().Add(c.timeout))
	}
	return c.Conn.Read(p)
}

func (c *idleConn) Write(p []byte) (int, error) {
	if c.timeout > 0 {
		_ = c.Conn.SetWriteDeadline(time.Now().Add(c.timeout))
	}
	return c.Conn.Write(p)
}
