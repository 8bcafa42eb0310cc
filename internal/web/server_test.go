package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamflix/internal/catalog"
	"streamflix/internal/content"
	"streamflix/internal/upload"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

const uploadedID = "1714564800000"

type fixture struct {
	server *Server
	store  *catalog.Store
	media  *content.MemoryService
	hub    *Hub
}

func newFixture(t *testing.T, opts ...upload.Option) *fixture {
	t.Helper()
	seed, err := catalog.DefaultSeed()
	require.NoError(t, err)
	store := catalog.NewStore(catalog.NewMemoryRepository(), nil)
	require.NoError(t, store.Bootstrap(seed))

	media := content.NewMemoryService()
	t.Cleanup(func() { media.Close() })
	hub := NewHub(hclog.NewNullLogger())
	t.Cleanup(hub.Close)

	opts = append([]upload.Option{
		upload.WithDelay(0),
		upload.WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	newUpload := func() *upload.Controller {
		return upload.NewController(store, media, opts...)
	}
	return &fixture{
		server: NewServer(store, media, newUpload, hub, hclog.NewNullLogger()),
		store:  store,
		media:  media,
		hub:    hub,
	}
}

func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type filePart struct {
	field, name string
	data        []byte
}

func (f *fixture) postUpload(t *testing.T, values url.Values, files ...filePart) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, uploadRequest(t, values, files...))
	return rec
}

func uploadRequest(t *testing.T, values url.Values, files ...filePart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range values {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	for _, fp := range files {
		w, err := mw.CreateFormFile(fp.field, fp.name)
		require.NoError(t, err)
		_, err = w.Write(fp.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var formIDPattern = regexp.MustCompile(`name="form_id" value="([^"]+)"`)

// openForm renders the upload page and returns the id of its form.
func (f *fixture) openForm(t *testing.T) string {
	t.Helper()
	rec := f.get(t, "/upload")
	require.Equal(t, http.StatusOK, rec.Code)
	m := formIDPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2)
	return m[1]
}

func remoteFilm(formID string) url.Values {
	return url.Values{
		"form_id":     {formID},
		"title":       {"Remote Film"},
		"description": {"Streams from elsewhere"},
		"category":    {"drama"},
		"mode":        {"url"},
		"video_url":   {"https://example.com/film.mp4"},
	}
}

// postConcurrently serves every request at once and returns the status codes sorted.
func (f *fixture) postConcurrently(reqs ...*http.Request) []int {
	codes := make([]int, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		i, req := i, req
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			f.server.Handler().ServeHTTP(rec, req)
			codes[i] = rec.Code
		}()
	}
	wg.Wait()
	slices.Sort(codes)
	return codes
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.get(t, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPages(t *testing.T) {
	f := newFixture(t)

	t.Run("home shows featured and non-empty rows", func(t *testing.T) {
		rec := f.get(t, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Stranger Things")
		assert.Contains(t, body, "Trending Now")
		assert.Contains(t, body, "Crime Thrillers")
		assert.Contains(t, body, "Sci-Fi")
		assert.Contains(t, body, "The Mandalorian")
	})

	t.Run("search", func(t *testing.T) {
		rec := f.get(t, "/search?q=witcher")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "The Witcher")
		assert.NotContains(t, rec.Body.String(), "Ozark")
	})

	t.Run("search without matches", func(t *testing.T) {
		rec := f.get(t, "/search?q=zzzz")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No titles match.")
	})

	t.Run("title", func(t *testing.T) {
		rec := f.get(t, "/titles/5")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "The Witcher")
	})

	t.Run("unknown title", func(t *testing.T) {
		rec := f.get(t, "/titles/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("upload form", func(t *testing.T) {
		rec := f.get(t, "/upload")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="title"`)
	})
}

func TestUpload_ValidationKeepsDraft(t *testing.T) {
	f := newFixture(t)
	before := f.store.Len()

	rec := f.postUpload(t, url.Values{
		"description": {"Kept across the failed submit"},
		"category":    {"drama"},
		"mode":        {"url"},
		"video_url":   {"https://example.com/film.mp4"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing title")
	assert.Contains(t, rec.Body.String(), "Kept across the failed submit")
	assert.Equal(t, before, f.store.Len())
}

func TestUpload_MissingFile(t *testing.T) {
	f := newFixture(t)

	rec := f.postUpload(t, url.Values{
		"title":       {"No Video"},
		"description": {"Nothing attached"},
		"category":    {"drama"},
		"mode":        {"file"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing video file")
}

func TestUpload_URL(t *testing.T) {
	f := newFixture(t)
	before := f.store.Len()

	rec := f.postUpload(t, url.Values{
		"title":       {"Remote Film"},
		"description": {"Streams from elsewhere"},
		"category":    {"drama"},
		"mode":        {"url"},
		"video_url":   {"https://example.com/film.mp4"},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Movie uploaded successfully!")
	assert.Contains(t, rec.Body.String(), `content="1.5;url=/"`)
	assert.Equal(t, before+1, f.store.Len())

	item, ok := f.store.ByID(uploadedID)
	require.True(t, ok)
	assert.Equal(t, "Remote Film", item.Title)
	assert.Equal(t, catalog.RemoteSource("https://example.com/film.mp4"), item.Source)
	assert.Equal(t, upload.PlaceholderThumbnail, item.Thumbnail)
	assert.Equal(t, "120m", item.Duration)
	assert.Equal(t, "PG-13", item.Rating)
	assert.Equal(t, []string{"Drama"}, item.Genres)
	assert.Equal(t, catalog.KindMovie, item.Kind)
	assert.Equal(t, 2024, item.Year)

	featured, ok := f.store.Featured()
	require.True(t, ok)
	assert.Equal(t, "1", featured.ID)
}

func TestUpload_SeriesWithChoices(t *testing.T) {
	f := newFixture(t)

	rec := f.postUpload(t, url.Values{
		"title":       {"My Show"},
		"description": {"Three seasons"},
		"category":    {"comedy"},
		"kind":        {"series"},
		"year":        {"2020"},
		"seasons":     {"3"},
		"rating":      {"TV-MA"},
		"genre":       {"Comedy", "Romance"},
		"mode":        {"url"},
		"video_url":   {"https://example.com/show.mp4"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	item, ok := f.store.ByID(uploadedID)
	require.True(t, ok)
	assert.Equal(t, catalog.KindSeries, item.Kind)
	assert.Equal(t, 3, item.Seasons)
	assert.Equal(t, 2020, item.Year)
	assert.Equal(t, "TV-MA", item.Rating)
	assert.Equal(t, []string{"Comedy", "Romance"}, item.Genres)
}

func TestUpload_FileIsServed(t *testing.T) {
	f := newFixture(t)
	video := []byte("not really an mp4")

	rec := f.postUpload(t, url.Values{
		"title":       {"Home Movie"},
		"description": {"Shot on a phone"},
		"category":    {"drama"},
		"mode":        {"file"},
	}, filePart{field: "video", name: "home.mp4", data: video})
	require.Equal(t, http.StatusCreated, rec.Code)

	item, ok := f.store.ByID(uploadedID)
	require.True(t, ok)
	require.Equal(t, catalog.SourceLocal, item.Source.Kind)

	media := f.get(t, item.Source.Href())
	require.Equal(t, http.StatusOK, media.Code)
	assert.Equal(t, video, media.Body.Bytes())

	page := f.get(t, "/titles/"+uploadedID)
	assert.Contains(t, page.Body.String(), item.Source.Href())
}

func TestUpload_DoubleSubmitOfOneForm(t *testing.T) {
	f := newFixture(t, upload.WithDelay(200*time.Millisecond))
	before := f.store.Len()
	id := f.openForm(t)

	codes := f.postConcurrently(
		uploadRequest(t, remoteFilm(id)),
		uploadRequest(t, remoteFilm(id)),
	)

	assert.Equal(t, []int{http.StatusCreated, http.StatusConflict}, codes)
	assert.Equal(t, before+1, f.store.Len())
	assert.Equal(t, 0, f.server.forms.len())
}

func TestUpload_SeparateFormsDoNotBlockEachOther(t *testing.T) {
	f := newFixture(t, upload.WithDelay(100*time.Millisecond))
	before := f.store.Len()

	codes := f.postConcurrently(
		uploadRequest(t, remoteFilm(f.openForm(t))),
		uploadRequest(t, remoteFilm(f.openForm(t))),
	)

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated}, codes)
	assert.Equal(t, before+2, f.store.Len())
}

func TestUpload_FormSurvivesValidationFailure(t *testing.T) {
	f := newFixture(t)
	id := f.openForm(t)

	first := remoteFilm(id)
	first.Set("title", "")
	first.Set("kind", "series")
	first["genre"] = []string{"Comedy", "War"}
	rec := f.postUpload(t, first)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="form_id" value="`+id+`"`)
	assert.Equal(t, 1, f.server.forms.len())

	// unchecked genres and the movie toggle replace the earlier choices
	second := remoteFilm(id)
	second["genre"] = []string{"War"}
	rec = f.postUpload(t, second)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 0, f.server.forms.len())

	item, ok := f.store.ByID(uploadedID)
	require.True(t, ok)
	assert.Equal(t, catalog.KindMovie, item.Kind)
	assert.Equal(t, 0, item.Seasons)
	assert.Equal(t, []string{"War"}, item.Genres)
}

func TestForms_PruneKeepsFreshForms(t *testing.T) {
	f := newFixture(t)
	forms := f.server.forms
	now := fixedNow
	forms.now = func() time.Time { return now }

	stale, _ := forms.issue()
	now = now.Add(formTTL + time.Minute)
	fresh, _ := forms.issue()

	assert.Equal(t, 1, forms.len())
	got, _ := forms.get(fresh)
	assert.Equal(t, fresh, got)
	got, _ = forms.get(stale)
	assert.NotEqual(t, stale, got)
}

func TestMedia_Unknown(t *testing.T) {
	f := newFixture(t)
	rec := f.get(t, "/media/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	return v
}

func TestAPI(t *testing.T) {
	f := newFixture(t)

	t.Run("featured", func(t *testing.T) {
		rec := f.get(t, "/api/v1/featured")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		item := decode[catalog.MediaItem](t, rec.Body)
		assert.Equal(t, "1", item.ID)
	})

	t.Run("rows", func(t *testing.T) {
		rec := f.get(t, "/api/v1/rows")
		require.Equal(t, http.StatusOK, rec.Code)
		rows := decode[[]Row](t, rec.Body)
		require.Len(t, rows, 5)
		assert.Equal(t, "Trending Now", rows[0].Title)
		assert.Len(t, rows[0].Items, 3)
	})

	t.Run("titles by category", func(t *testing.T) {
		rec := f.get(t, "/api/v1/titles?category=crime&q=witcher")
		require.Equal(t, http.StatusOK, rec.Code)
		items := decode[[]catalog.MediaItem](t, rec.Body)
		require.Len(t, items, 2)
		assert.Equal(t, "Ozark", items[0].Title)
		assert.Equal(t, "Money Heist", items[1].Title)
	})

	t.Run("titles by query", func(t *testing.T) {
		rec := f.get(t, "/api/v1/titles?q=Witcher")
		require.Equal(t, http.StatusOK, rec.Code)
		items := decode[[]catalog.MediaItem](t, rec.Body)
		require.Len(t, items, 1)
		assert.Equal(t, "5", items[0].ID)
	})

	t.Run("empty category is an empty list", func(t *testing.T) {
		rec := f.get(t, "/api/v1/titles?category=documentary")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("all titles", func(t *testing.T) {
		rec := f.get(t, "/api/v1/titles")
		items := decode[[]catalog.MediaItem](t, rec.Body)
		assert.Len(t, items, f.store.Len())
	})

	t.Run("title", func(t *testing.T) {
		rec := f.get(t, "/api/v1/titles/4")
		require.Equal(t, http.StatusOK, rec.Code)
		item := decode[catalog.MediaItem](t, rec.Body)
		assert.Equal(t, "Ozark", item.Title)
	})

	t.Run("unknown title", func(t *testing.T) {
		rec := f.get(t, "/api/v1/titles/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"title not found"}`, rec.Body.String())
	})
}

func TestAPI_NoFeatured(t *testing.T) {
	store := catalog.NewStore(catalog.NewMemoryRepository(), nil)
	require.NoError(t, store.Bootstrap(nil))
	srv := NewServer(store, content.NewMemoryService(), nil, NewHub(hclog.NewNullLogger()), hclog.NewNullLogger())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/featured", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
