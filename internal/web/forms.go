package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"streamflix/internal/upload"
)

// formTTL bounds how long an unsubmitted upload form keeps its controller.
const formTTL = time.Hour

// forms maps the id rendered into each upload form to the controller that
// owns it, so a re-posted form reaches the same submitting guard.
type forms struct {
	newUpload func() *upload.Controller
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]*formEntry
}

type formEntry struct {
	ctl     *upload.Controller
	touched time.Time
}

func newForms(newUpload func() *upload.Controller) *forms {
	return &forms{
		newUpload: newUpload,
		now:       time.Now,
		entries:   make(map[string]*formEntry),
	}
}

// issue starts a new form.
func (f *forms) issue() (string, *upload.Controller) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prune()

	id := uuid.NewString()
	ctl := f.newUpload()
	f.entries[id] = &formEntry{ctl: ctl, touched: f.now()}
	return id, ctl
}

// get returns the controller of form id. An unknown or expired id starts a
// new form.
func (f *forms) get(id string) (string, *upload.Controller) {
	f.mu.Lock()
	e, ok := f.entries[id]
	if ok {
		e.touched = f.now()
	}
	f.mu.Unlock()
	if ok {
		return id, e.ctl
	}
	return f.issue()
}

// done forgets a submitted form.
func (f *forms) done(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, id)
}

func (f *forms) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// prune must be called with f.mu held. Forms in the middle of a submit are kept.
func (f *forms) prune() {
	cutoff := f.now().Add(-formTTL)
	for id, e := range f.entries {
		if e.touched.Before(cutoff) && !e.ctl.Submitting() {
			delete(f.entries, id)
		}
	}
}
