// Package catalog holds the in-memory media catalog and the queries the views
// are built from.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Store is the single source of truth for the media collection.
//
// A Store starts uninitialized and becomes ready after exactly one call to
// Bootstrap. Every other method panics before that. Only the upload
// controller is expected to call Append; everything else reads.
type Store struct {
	repo   Repository
	logger hclog.Logger

	mu        sync.RWMutex
	ready     bool
	featured  *MediaItem
	observers []subscription // in subscription order
	nextObs   int
}

func NewStore(repo Repository, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{
		repo:   repo,
		logger: logger,
	}
}

// Bootstrap loads the seed in order and fixes the featured item: the first
// flagged item, else the first item, else none.
func (s *Store) Bootstrap(seed []MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return ErrAlreadyBootstrapped
	}

	for _, it := range seed {
		if err := s.repo.Insert(it); err != nil {
			// leave the repository empty so Bootstrap can be retried
			if rerr := s.repo.Reset(); rerr != nil {
				return errors.Join(err, rerr)
			}
			return fmt.Errorf("bootstrap: %w", err)
		}
	}
	for i := range seed {
		if seed[i].Featured {
			f := seed[i].Clone()
			s.featured = &f
			break
		}
	}
	if s.featured == nil && len(seed) > 0 {
		f := seed[0].Clone()
		s.featured = &f
	}

	s.ready = true
	s.logger.Info("catalog ready", "items", len(seed), "featured", s.featuredID())
	return nil
}

func (s *Store) featuredID() string {
	if s.featured == nil {
		return ""
	}
	return s.featured.ID
}

// Ready reports whether Bootstrap has run.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

const notReady = "catalog: store used before Bootstrap"

func (s *Store) mustBeReady() {
	if !s.ready {
		panic(notReady)
	}
}

// Append adds item to the end of the collection and then notifies observers.
// Ids are not checked for uniqueness and the featured item is left alone.
func (s *Store) Append(item MediaItem) {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		panic(notReady)
	}
	if err := s.repo.Insert(item); err != nil {
		s.mu.Unlock()
		s.logger.Error("append failed", "id", item.ID, "error", err)
		return
	}
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	s.logger.Debug("item appended", "id", item.ID, "category", item.Category)
	for _, o := range observers {
		o.fn(Event{Type: EventAppended, Item: item.Clone()})
	}
}

// ByID returns the first item with the given id.
func (s *Store) ByID(id string) (MediaItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.mustBeReady()

	it, err := s.repo.Get(id)
	if err != nil {
		if !errors.Is(err, ErrItemNotFound) {
			s.logger.Error("lookup failed", "id", id, "error", err)
		}
		return MediaItem{}, false
	}
	return *it, true
}

// ByCategory returns, in collection order, every item whose category equals
// tag exactly.
func (s *Store) ByCategory(tag string) []MediaItem {
	return s.list("category", func() ([]MediaItem, error) { return s.repo.ListByCategory(tag) })
}

// Search matches query case-insensitively against title, description and
// genres. The empty query matches everything.
func (s *Store) Search(query string) []MediaItem {
	return s.list("search", func() ([]MediaItem, error) { return s.repo.Search(query) })
}

// All returns the whole collection in order.
func (s *Store) All() []MediaItem {
	return s.list("list", s.repo.List)
}

func (s *Store) Len() int {
	return len(s.All())
}

func (s *Store) list(op string, fn func() ([]MediaItem, error)) []MediaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.mustBeReady()

	items, err := fn()
	if err != nil {
		s.logger.Error("query failed", "op", op, "error", err)
		return []MediaItem{}
	}
	return items
}

// Featured returns the item picked at Bootstrap.
func (s *Store) Featured() (MediaItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.mustBeReady()

	if s.featured == nil {
		return MediaItem{}, false
	}
	return s.featured.Clone(), true
}

// Subscribe registers o for append events. Observers run in the order they
// subscribed. The returned func removes o.
func (s *Store) Subscribe(o Observer) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, subscription{id: id, fn: o})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool { return sub.id == id })
	}
}

type subscription struct {
	id int
	fn Observer
}
