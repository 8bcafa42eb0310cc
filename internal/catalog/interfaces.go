package catalog

import "errors"

var (
	ErrItemNotFound        = errors.New("media item not found")
	ErrAlreadyBootstrapped = errors.New("catalog already bootstrapped")
)

type Repository interface { //Repository holds the ordered collection behind a Store
	Insert(item MediaItem) error
	Get(id string) (*MediaItem, error) // first item with id, ErrItemNotFound otherwise
	List() ([]MediaItem, error)
	ListByCategory(tag string) ([]MediaItem, error)
	Search(query string) ([]MediaItem, error)
	Reset() error // drops every item
}

// EventType names what happened to the catalog.
type EventType string

const EventAppended EventType = "appended"

// Event is delivered to observers after a write is visible to readers.
type Event struct {
	Type EventType `json:"type"`
	Item MediaItem `json:"item"`
}

// Observer is called synchronously on the appending goroutine.
type Observer func(Event)
