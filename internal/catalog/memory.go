package catalog

import (
	"slices"
	"strings"
)

// MemoryRepository keeps items in a slice in insertion order.
type MemoryRepository struct {
	items []MediaItem
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Insert(item MediaItem) error {
	r.items = append(r.items, item.Clone())
	return nil
}

func (r *MemoryRepository) Get(id string) (*MediaItem, error) {
	for _, it := range r.items {
		if it.ID == id {
			found := it.Clone()
			return &found, nil
		}
	}
	return nil, ErrItemNotFound
}

func (r *MemoryRepository) List() ([]MediaItem, error) {
	return cloneAll(r.items), nil
}

func (r *MemoryRepository) ListByCategory(tag string) ([]MediaItem, error) {
	return r.filter(func(it MediaItem) bool { return it.Category == tag }), nil
}

func (r *MemoryRepository) Search(query string) ([]MediaItem, error) {
	q := strings.ToLower(query)
	return r.filter(func(it MediaItem) bool { return matches(it, q) }), nil
}

func (r *MemoryRepository) Reset() error {
	r.items = nil
	return nil
}

func (r *MemoryRepository) filter(keep func(MediaItem) bool) []MediaItem {
	out := []MediaItem{}
	for _, it := range r.items {
		if keep(it) {
			out = append(out, it.Clone())
		}
	}
	return out
}

// matches expects q to be lowercased already.
func matches(it MediaItem, q string) bool {
	if strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Description), q) {
		return true
	}
	return slices.ContainsFunc(it.Genres, func(g string) bool {
		return strings.Contains(strings.ToLower(g), q)
	})
}
