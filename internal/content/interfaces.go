// Package content keeps user-selected local files for the lifetime of the
// process. Nothing here is persisted or sent anywhere.
package content

import (
	"errors"
	"io"
	"time"
)

var (
	ErrNotFound = errors.New("content not found")
	ErrClosed   = errors.New("content service closed")
)

// Handle names a local transient resource. It is only valid in the process
// that created it.
type Handle string

// Path is the href the web server serves a handle under.
func Path(h Handle) string {
	return "/media/" + string(h)
}

// Object is an open local resource. Callers must close Body.
type Object struct {
	Name        string
	ContentType string
	Size        int64
	ModTime     time.Time
	Body        io.ReadSeekCloser
}

type Service interface { //Service stores local transient resources
	Put(name, contentType string, r io.Reader) (Handle, error)
	Open(h Handle) (*Object, error)
	Release(h Handle) error
	Close() error // releases every handle
}
