package lanshare

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
)

type registryEntry struct {
	file   SharedFile
	handle *os.File
	// named is set when handle.Name() is the file's path.
	named  bool
	added  uint64
}

// FileRegistry maps file ids to shared files. Each entry is backed either by a
// filesystem path or by an open handle owned by the registry. All operations
// are safe for concurrent use.
type FileRegistry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	seq     uint64
	logger  *slog.Logger
}

// RegistryOption configures a FileRegistry.
type RegistryOption func(*FileRegistry)

// WithRegistryLogger sets the logger used for registry events.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *FileRegistry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewFileRegistry(opts ...RegistryOption) *FileRegistry {
	r := &FileRegistry{
		entries: make(map[string]*registryEntry),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// AddByPath registers a path-backed file, replacing any entry with the same id.
// The path is not checked until the file is read.
func (r *FileRegistry) AddByPath(id, name, path string, size int64) error {
	if path == "" {
		return fmt.Errorf("add file %q: empty path: %w", id, ErrInvalidInput)
	}

	if size < 0 {
		return fmt.Errorf("add file %q: negative size: %w", id, ErrInvalidInput)
	}

	r.put(&registryEntry{
		file: SharedFile{ID: id, Name: name, Size: size, Path: path, Source: SourcePath},
	})

	r.logger.Debug("file added", "id", id, "name", name, "path", path, "size", size)

	return nil
}

// AddByHandle registers a handle-backed file. The registry takes ownership of
// f and closes it exactly once, when the entry is replaced, removed or cleared.
func (r *FileRegistry) AddByHandle(id, name string, f *os.File, size int64) error {
	return r.addHandle(id, name, f, size, true)
}

// AddByFD registers a raw file descriptor. Ownership of fd passes to the registry.
func (r *FileRegistry) AddByFD(id, name string, fd uintptr, size int64) error {
	f := os.NewFile(fd, name)
	if f == nil {
		return fmt.Errorf("add descriptor %q: invalid descriptor %d: %w", id, fd, ErrInvalidInput)
	}

	return r.addHandle(id, name, f, size, false)
}

func (r *FileRegistry) addHandle(id, name string, f *os.File, size int64, named bool) error {
	if f == nil {
		return fmt.Errorf("add handle %q: nil handle: %w", id, ErrInvalidInput)
	}

	if size < 0 {
		return fmt.Errorf("add handle %q: negative size: %w", id, ErrInvalidInput)
	}

	r.put(&registryEntry{
		file:   SharedFile{ID: id, Name: name, Size: size, Source: SourceHandle},
		handle: f,
		named:  named,
	})

	r.logger.Debug("handle added", "id", id, "name", name, "size", size)

	return nil
}

func (r *FileRegistry) put(e *registryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	e.added = r.seq

	if prev, ok := r.entries[e.file.ID]; ok && prev.handle != e.handle {
		r.release(prev)
	}

	r.entries[e.file.ID] = e
}

// Remove deletes the entry with the given id. Unknown ids are ignored.
func (r *FileRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}

	r.release(e)
	delete(r.entries, id)

	r.logger.Debug("file removed", "id", id)
}

// Clear removes every entry, closing all owned handles.
func (r *FileRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.entries {
		r.release(e)
		delete(r.entries, id)
	}

	r.logger.Debug("files cleared")
}

// release must be called with r.mu held.
func (r *FileRegistry) release(e *registryEntry) {
	if e.handle == nil {
		return
	}

	if err := e.handle.Close(); err != nil {
		r.logger.Warn("close handle failed", "id", e.file.ID, "error", err)
	}

	e.handle = nil
}

// List returns a snapshot of all entries in insertion order.
func (r *FileRegistry) List() []SharedFile {
	r.mu.Lock()
	entries := make([]*registryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].added < entries[j].added
	})

	files := make([]SharedFile, len(entries))
	for i, e := range entries {
		files[i] = e.file
	}

	return files
}

// Get returns the snapshot of a single entry.
func (r *FileRegistry) Get(id string) (SharedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return SharedFile{}, fmt.Errorf("get file %q: %w", id, ErrNotFound)
	}

	return e.file, nil
}

func (r *FileRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// FileReader streams the content of a resolved file. Reads start at offset 0
// and stop after Size bytes. Close releases the reader's own handle.
type FileReader struct {
	Name string
	Size int64

	r io.Reader
	c io.Closer
}

func (f *FileReader) Read(p []byte) (int, error) {
	return f.r.Read(p)
}

func (f *FileReader) Close() error {
	return f.c.Close()
}

// ResolveForRead opens an independent reader for the entry with the given id.
// Path-backed entries are opened fresh. Handle-backed entries are read with
// positional reads through a duplicate (see handleReader), so the registry's
// cursor is never moved.
func (r *FileRegistry) ResolveForRead(id string) (*FileReader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("resolve file %q: %w", id, ErrNotFound)
	}

	var (
		ra  io.ReaderAt
		c   io.Closer
		err error
	)

	switch {
	case e.handle != nil:
		ra, c, err = handleReader(e.handle, e.named)
	case e.file.Path != "":
		var f *os.File
		f, err = os.Open(e.file.Path)
		ra, c = f, f
	default:
		err = errors.New("no path or handle")
	}

	if err != nil {
		r.logger.Warn("open shared file failed", "id", id, "error", err)
		return nil, fmt.Errorf("resolve file %q: %w: %w", id, ErrOpen, err)
	}

	return &FileReader{
		Name: e.file.Name,
		Size: e.file.Size,
		r:    io.NewSectionReader(ra, 0, e.file.Size),
		c:    c,
	}, nil
}
