package server

import (
	"log/slog"
	"os"
	"time"

	"github.com/sagarc03/lanshare"
)

type Config struct {
	// Host is the bind address. Empty binds every interface.
	Host        string
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

// FileServer is the host-facing API: credentials, the shared file set and
// the listener lifecycle, all owned by one value.
type FileServer struct {
	creds    *lanshare.CredentialStore
	files    *lanshare.FileRegistry
	acceptor *Acceptor
	logger   *slog.Logger
}

func NewFileServer(cfg Config) *FileServer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	creds := lanshare.NewCredentialStore()
	files := lanshare.NewFileRegistry(lanshare.WithRegistryLogger(logger))
	router := NewRouter(RouterConfig{IdleTimeout: cfg.IdleTimeout, Logger: logger}, creds, files)

	return &FileServer{
		creds:    creds,
		files:    files,
		acceptor: NewAcceptor(AcceptorConfig{Host: cfg.Host, Logger: logger}, router),
		logger:   logger,
	}
}

// SetCredentials sets the Basic credentials. Two empty strings disable auth.
func (s *FileServer) SetCredentials(username, password string) {
	s.creds.SetCredentials(username, password)
	s.logger.Info("credentials updated", "auth_enabled", s.creds.HasCredentials())
}

func (s *FileServer) AuthEnabled() bool {
	return s.creds.HasCredentials()
}

func (s *FileServer) AddFile(id, name, path string, size int64) error {
	return s.files.AddByPath(id, name, path, size)
}

// AddHandle shares an open file. The server takes ownership of f.
func (s *FileServer) AddHandle(id, name string, f *os.File, size int64) error {
	return s.files.AddByHandle(id, name, f, size)
}

// AddFileDescriptor shares a raw descriptor. The server takes ownership of fd.
func (s *FileServer) AddFileDescriptor(id, name string, fd uintptr, size int64) error {
	return s.files.AddByFD(id, name, fd, size)
}

func (s *FileServer) RemoveFile(id string) {
	s.files.Remove(id)
}

func (s *FileServer) ClearFiles() {
	s.files.Clear()
}

func (s *FileServer) Files() []lanshare.SharedFile {
	return s.files.List()
}

// Registry exposes the underlying registry, e.g. to feed a lanshare.Catalog.
func (s *FileServer) Registry() *lanshare.FileRegistry {
	return s.files
}

func (s *FileServer) Start(port int) error {
	return s.acceptor.Start(port)
}

func (s *FileServer) Stop() {
	s.acceptor.Stop()
}

func (s *FileServer) IsRunning() bool {
	return s.acceptor.IsRunning()
}

func (s *FileServer) Port() int {
	return s.acceptor.Port()
}

// Close stops the listener and releases every shared handle.
func (s *FileServer) Close() error {
	s.acceptor.Stop()
	s.files.Clear()
	return nil
}
