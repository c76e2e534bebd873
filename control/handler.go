package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/sagarc03/lanshare"
)

// maxBodyBytes caps request bodies; every payload is a small JSON object.
const maxBodyBytes = 64 << 10

// Controller is the file server surface driven by the API.
// *server.FileServer satisfies it.
type Controller interface {
	SetCredentials(username, password string)
	AuthEnabled() bool
	AddFile(id, name, path string, size int64) error
	RemoveFile(id string)
	ClearFiles()
	Files() []lanshare.SharedFile
	Start(port int) error
	Stop()
	IsRunning() bool
	Port() int
}

// Sharer persists shares. *lanshare.Catalog satisfies it.
type Sharer interface {
	Share(ctx context.Context, req lanshare.ShareRequest) (lanshare.CatalogEntry, error)
	Unshare(ctx context.Context, id string) error
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	// TokenHash is a bcrypt hash of the bearer token. Empty disables auth.
	TokenHash string
	CORS      CORSConfig
	// Sharer is optional. Without it shares are not persisted.
	Sharer Sharer
	Logger *slog.Logger
}

// Status is the body of GET /status and the server lifecycle routes.
type Status struct {
	Running     bool `json:"running"`
	Port        int  `json:"port"`
	AuthEnabled bool `json:"auth_enabled"`
	Files       int  `json:"files"`
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required_with=Password"`
	Password string `json:"password" validate:"required_with=Username"`
}

type StartRequest struct {
	Port *int `json:"port" validate:"omitempty,min=0,max=65535"`
}

// Handler serves the control API.
type Handler struct {
	config    HandlerConfig
	server    Controller
	validate  *validator.Validate
	logger    *slog.Logger
	startPort int
}

// NewHandler returns a Handler driving srv. startPort is used by
// POST /server/start when the body names no port.
func NewHandler(config HandlerConfig, srv Controller, startPort int) *Handler {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		config:    config,
		server:    srv,
		validate:  validator.New(),
		logger:    logger,
		startPort: startPort,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Group(func(r chi.Router) {
		r.Use(TokenMiddleware(h.config.TokenHash))

		r.Get("/status", h.handleStatus)
		r.Put("/credentials", h.handleCredentials)

		r.Get("/files", h.handleListFiles)
		r.Post("/files", h.handleShare)
		r.Delete("/files", h.handleClear)
		r.Delete("/files/{id}", h.handleUnshare)

		r.Post("/server/start", h.handleStart)
		r.Post("/server/stop", h.handleStop)
	})

	return r
}

func (h *Handler) status() Status {
	return Status{
		Running:     h.server.IsRunning(),
		Port:        h.server.Port(),
		AuthEnabled: h.server.AuthEnabled(),
		Files:       len(h.server.Files()),
	}
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, h.status())
}

func (h *Handler) handleCredentials(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := h.decode(w, r, &req, false); err != nil {
		HandleError(w, err)
		return
	}

	h.server.SetCredentials(req.Username, req.Password)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListFiles(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, h.server.Files())
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	var req lanshare.ShareRequest
	if err := h.decode(w, r, &req, false); err != nil {
		HandleError(w, err)
		return
	}

	var (
		entry lanshare.CatalogEntry
		err   error
	)

	if h.config.Sharer != nil {
		entry, err = h.config.Sharer.Share(r.Context(), req)
	} else {
		entry, err = lanshare.ResolveShare(req)
		if err == nil {
			err = h.server.AddFile(entry.ID, entry.Name, entry.Path, entry.SizeBytes)
		}
	}

	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, lanshare.FileInfo{ID: entry.ID, Name: entry.Name, Size: entry.SizeBytes})
}

func (h *Handler) handleUnshare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !h.isShared(id) {
		HandleError(w, fmt.Errorf("unshare %q: %w", id, lanshare.ErrNotFound))
		return
	}

	if err := h.unshare(r.Context(), id); err != nil {
		HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if h.config.Sharer == nil {
		h.server.ClearFiles()
		w.WriteHeader(http.StatusNoContent)
		return
	}

	for _, f := range h.server.Files() {
		if err := h.unshare(r.Context(), f.ID); err != nil {
			HandleError(w, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := h.decode(w, r, &req, true); err != nil {
		HandleError(w, err)
		return
	}

	port := h.startPort
	if req.Port != nil {
		port = *req.Port
	}

	if err := h.server.Start(port); err != nil {
		HandleError(w, err)
		return
	}

	h.logger.Info("server started via control api", "port", h.server.Port())
	_ = WriteJSON(w, http.StatusOK, h.status())
}

func (h *Handler) handleStop(w http.ResponseWriter, _ *http.Request) {
	h.server.Stop()
	h.logger.Info("server stopped via control api")
	_ = WriteJSON(w, http.StatusOK, h.status())
}

func (h *Handler) unshare(ctx context.Context, id string) error {
	if h.config.Sharer != nil {
		return h.config.Sharer.Unshare(ctx, id)
	}
	h.server.RemoveFile(id)
	return nil
}

func (h *Handler) isShared(id string) bool {
	for _, f := range h.server.Files() {
		if f.ID == id {
			return true
		}
	}
	return false
}

// decode reads a JSON body into dst and validates it. An empty body is
// accepted only when allowEmpty is set.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return fmt.Errorf("decode body: %w: %w", lanshare.ErrInvalidInput, err)
		}
	}

	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("validate body: %w: %w", lanshare.ErrInvalidInput, err)
	}

	return nil
}
