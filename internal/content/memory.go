package content

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

type blob struct {
	name        string
	contentType string
	data        []byte
	created     time.Time
}

// MemoryService keeps resources in process memory.
type MemoryService struct {
	mu     sync.RWMutex
	blobs  map[Handle]*blob
	closed bool
}

var _ Service = (*MemoryService)(nil)

func NewMemoryService() *MemoryService {
	return &MemoryService{blobs: make(map[Handle]*blob)}
}

func (s *MemoryService) Put(name, contentType string, r io.Reader) (Handle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	h := Handle(uuid.NewString())
	s.blobs[h] = &blob{name: name, contentType: contentType, data: data, created: time.Now()}
	return h, nil
}

func (s *MemoryService) Open(h Handle) (*Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[h]
	if !ok {
		return nil, ErrNotFound
	}
	return &Object{
		Name:        b.name,
		ContentType: b.contentType,
		Size:        int64(len(b.data)),
		ModTime:     b.created,
		Body:        nopCloser{bytes.NewReader(b.data)},
	}, nil
}

func (s *MemoryService) Release(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[h]; !ok {
		return ErrNotFound
	}
	delete(s.blobs, h)
	return nil
}

func (s *MemoryService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = make(map[Handle]*blob)
	s.closed = true
	return nil
}

type nopCloser struct {
	io.ReadSeeker
}

func (nopCloser) Close() error { return nil }
