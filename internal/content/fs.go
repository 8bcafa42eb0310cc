package content

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// FSService keeps resources on disk under a private temporary directory that
// is removed on Close. Large video files stay out of the heap this way.
type FSService struct {
	baseDir string

	mu     sync.RWMutex
	meta   map[Handle]fsEntry
	closed bool
}

type fsEntry struct {
	name        string
	contentType string
}

var _ Service = (*FSService)(nil)

// NewFSService creates its directory inside parent, or inside the system temp
// dir when parent is empty.
func NewFSService(parent string) (*FSService, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, err
		}
	}
	dir, err := os.MkdirTemp(parent, "streamflix-media-*")
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	return &FSService{baseDir: dir, meta: make(map[Handle]fsEntry)}, nil
}

// Dir is the directory holding the resources.
func (s *FSService) Dir() string {
	return s.baseDir
}

// Put stores the data under baseDir/handle/name.
func (s *FSService) Put(name, contentType string, r io.Reader) (Handle, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return "", ErrClosed
	}

	h := Handle(uuid.NewString())
	dir := filepath.Join(s.baseDir, string(h))
	// Mkdir, not MkdirAll: a concurrent Close must not see baseDir come back
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(filepath.Join(dir, fileName(name)))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.RemoveAll(dir)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.RemoveAll(dir)
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		// Close may have run while the file was being written
		os.RemoveAll(s.baseDir)
		return "", ErrClosed
	}
	s.meta[h] = fsEntry{name: name, contentType: contentType}
	return h, nil
}

func (s *FSService) Open(h Handle) (*Object, error) {
	s.mu.RLock()
	e, ok := s.meta[h]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.baseDir, string(h), fileName(e.name)))
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Object{
		Name:        e.name,
		ContentType: e.contentType,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Body:        f,
	}, nil
}

func (s *FSService) Release(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meta[h]; !ok {
		return ErrNotFound
	}
	delete(s.meta, h)
	return os.RemoveAll(filepath.Join(s.baseDir, string(h)))
}

// Close forgets every handle and removes the directory.
func (s *FSService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.meta = make(map[Handle]fsEntry)
	return os.RemoveAll(s.baseDir)
}

// fileName keeps only the last element so uploads cannot escape their
// handle directory.
func fileName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) || base == "" {
		return "data"
	}
	return base
}
