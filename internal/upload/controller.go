// Package upload turns a filled-in upload form into a new catalog item.
package upload

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"

	"streamflix/internal/catalog"
	"streamflix/internal/content"
)

const (
	// DefaultDelay stands in for the transfer time of a real upload.
	DefaultDelay = 2 * time.Second
	// RedirectDelay is how long the view waits before going back home.
	RedirectDelay = 1500 * time.Millisecond

	PlaceholderThumbnail = "https://images.unsplash.com/photo-1489599746576-b47c5e1b5f36?w=600&h=900&fit=crop"
	DefaultDuration      = "120m"
	DefaultRating        = "PG-13"
	DefaultGenre         = "Drama"
)

// Appender is the write side of the catalog.
type Appender interface {
	Append(item catalog.MediaItem)
}

// Controller drives one upload form.
type Controller struct {
	store   Appender
	content content.Service
	logger  hclog.Logger
	delay   time.Duration
	now     func() time.Time
	sleep   func(time.Duration)

	mu         sync.Mutex
	draft      Form
	submitting atomic.Bool
}

type Option func(*Controller)

func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Controller) { c.sleep = sleep }
}

func WithLogger(l hclog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func NewController(store Appender, svc content.Service, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		content: svc,
		logger:  hclog.NewNullLogger(),
		delay:   DefaultDelay,
		now:     time.Now,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.draft = NewForm(c.now())
	return c
}

// Draft returns a copy of the current form.
func (c *Controller) Draft() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.clone()
}

// Edit applies fn to the draft.
func (c *Controller) Edit(fn func(*Form)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.draft)
}

// Submitting reports whether a submission is between validation and append.
func (c *Controller) Submitting() bool {
	return c.submitting.Load()
}

// Submit validates the draft, waits out the simulated upload, resolves the
// video source and appends the new item. On failure the draft is untouched;
// on success it is reset.
func (c *Controller) Submit() (catalog.MediaItem, error) {
	if !c.submitting.CompareAndSwap(false, true) {
		return catalog.MediaItem{}, ErrSubmitInProgress
	}
	defer c.submitting.Store(false)

	form := c.Draft()
	if err := form.Validate(); err != nil {
		c.logger.Debug("upload rejected", "error", err)
		return catalog.MediaItem{}, err
	}

	if c.delay > 0 {
		c.sleep(c.delay)
	}

	item, err := c.build(form)
	if err != nil {
		c.logger.Error("upload failed", "title", form.Title, "error", err)
		return catalog.MediaItem{}, err
	}
	c.store.Append(item)

	c.mu.Lock()
	c.draft = NewForm(c.now())
	c.mu.Unlock()

	c.logger.Info("upload complete", "id", item.ID, "title", item.Title, "source", item.Source.Kind)
	return item, nil
}

func (c *Controller) build(f Form) (catalog.MediaItem, error) {
	item := catalog.MediaItem{
		ID:          strconv.FormatInt(c.now().UnixMilli(), 10),
		Title:       f.Title,
		Description: f.Description,
		Thumbnail:   PlaceholderThumbnail,
		Category:    f.Category,
		Kind:        f.Kind,
		Year:        f.Year,
		Duration:    f.Duration,
		Rating:      f.Rating,
		Genres:      f.Genres,
	}
	if item.Kind == "" {
		item.Kind = catalog.KindMovie
	}
	if item.Duration == "" {
		item.Duration = DefaultDuration
	}
	if item.Rating == "" {
		item.Rating = DefaultRating
	}
	if len(item.Genres) == 0 {
		item.Genres = []string{DefaultGenre}
	}
	if item.Kind == catalog.KindSeries {
		item.Seasons = max(f.Seasons, 1)
	}

	var thumb content.Handle
	if f.Thumbnail != nil {
		h, err := c.put(f.Thumbnail)
		if err != nil {
			return catalog.MediaItem{}, fmt.Errorf("store thumbnail: %w", err)
		}
		thumb = h
		item.Thumbnail = content.Path(h)
	}

	if f.Mode == ModeURL {
		item.Source = catalog.RemoteSource(f.VideoURL)
		return item, nil
	}
	h, err := c.put(f.Video)
	if err != nil {
		if thumb != "" {
			c.content.Release(thumb)
		}
		return catalog.MediaItem{}, fmt.Errorf("store video: %w", err)
	}
	item.Source = catalog.LocalSource(string(h))
	return item, nil
}

func (c *Controller) put(f *File) (content.Handle, error) {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return c.content.Put(f.Name, ct, f.Data)
}
