package catalog

import "slices"

// Kind tells which of Duration or Seasons is meaningful for an item.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// SourceKind tags the playable source of an item.
type SourceKind string

const (
	SourceRemote SourceKind = "remote"
	SourceLocal  SourceKind = "local"
)

// Source is either a remote URL or a handle to local bytes that only live
// for the current process run.
type Source struct {
	Kind   SourceKind `json:"kind" yaml:"kind"`
	URL    string     `json:"url,omitempty" yaml:"url,omitempty"`
	Handle string     `json:"handle,omitempty" yaml:"handle,omitempty"`
}

func RemoteSource(url string) Source {
	return Source{Kind: SourceRemote, URL: url}
}

func LocalSource(handle string) Source {
	return Source{Kind: SourceLocal, Handle: handle}
}

// Href returns the address a player should load.
func (s Source) Href() string {
	if s.Kind == SourceLocal {
		return "/media/" + s.Handle
	}
	return s.URL
}

// MediaItem is one entry of the catalog.
type MediaItem struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Thumbnail   string   `json:"thumbnail" yaml:"thumbnail"`
	Source      Source   `json:"source" yaml:"source"`
	Category    string   `json:"category" yaml:"category"`
	Kind        Kind     `json:"kind" yaml:"kind"`
	Year        int      `json:"year" yaml:"year"`
	Duration    string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Seasons     int      `json:"seasons,omitempty" yaml:"seasons,omitempty"`
	Rating      string   `json:"rating" yaml:"rating"`
	Genres      []string `json:"genres" yaml:"genres"`
	Featured    bool     `json:"featured,omitempty" yaml:"featured,omitempty"`
}

// Clone returns a copy that shares no slices with m.
func (m MediaItem) Clone() MediaItem {
	m.Genres = slices.Clone(m.Genres)
	if m.Genres == nil {
		m.Genres = []string{}
	}
	return m
}

func cloneAll(items []MediaItem) []MediaItem {
	out := make([]MediaItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.Clone())
	}
	return out
}
