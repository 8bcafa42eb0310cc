// Package web renders the catalog as HTML pages and a small JSON API.
package web

import (
	"errors"
	"html/template"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"streamflix/internal/catalog"
	"streamflix/internal/content"
	"streamflix/internal/upload"
)

// Catalog is the read surface the views are composed from.
type Catalog interface {
	Featured() (catalog.MediaItem, bool)
	ByID(id string) (catalog.MediaItem, bool)
	ByCategory(tag string) []catalog.MediaItem
	Search(query string) []catalog.MediaItem
}

// Row is one titled category strip of the home page.
type Row struct {
	Title    string              `json:"title"`
	Category string              `json:"category"`
	Items    []catalog.MediaItem `json:"items"`
}

var homeRows = []Row{
	{Title: "Trending Now", Category: "trending"},
	{Title: "Crime Thrillers", Category: "crime"},
	{Title: "Fantasy Adventures", Category: "fantasy"},
	{Title: "Animation", Category: "animation"},
	{Title: "Sci-Fi", Category: "sci-fi"},
}

type Server struct {
	catalog Catalog
	content content.Service
	forms   *forms // one controller per rendered upload form
	hub     *Hub
	logger  hclog.Logger

	router chi.Router
	tmpl   *template.Template
}

func NewServer(
	cat Catalog,
	svc content.Service,
	newUpload func() *upload.Controller,
	hub *Hub,
	logger hclog.Logger,
) *Server {
	tmpl := template.Must(template.New("pages").Funcs(template.FuncMap{
		"hasGenre": func(f upload.Form, g string) bool { return slices.Contains(f.Genres, g) },
	}).Parse(layoutHTML + homeHTML + searchHTML + titleHTML + uploadHTML + uploadDoneHTML))

	s := &Server{
		catalog: cat,
		content: svc,
		forms:   newForms(newUpload),
		hub:     hub,
		logger:  logger,
		tmpl:    tmpl,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", s.handleIndex)
	r.Get("/search", s.handleSearch)
	r.Get("/titles/{id}", s.handleTitle)
	r.Get("/upload", s.handleUploadForm)
	r.Post("/upload", s.handleUpload)
	r.Get("/media/{handle}", s.handleMedia)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/featured", s.apiFeatured)
		r.Get("/rows", s.apiRows)
		r.Get("/titles", s.apiTitles)
		r.Get("/titles/{id}", s.apiTitle)
		r.Get("/ws", s.hub.HandleWebSocket)
	})

	s.router = r
}

// rows skips categories that have nothing in them.
func (s *Server) rows() []Row {
	rows := make([]Row, 0, len(homeRows))
	for _, row := range homeRows {
		row.Items = s.catalog.ByCategory(row.Category)
		if len(row.Items) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Featured *catalog.MediaItem
		Rows     []Row
	}{Rows: s.rows()}
	if f, ok := s.catalog.Featured(); ok {
		data.Featured = &f
	}
	s.render(w, http.StatusOK, "home", data)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s.render(w, http.StatusOK, "search", struct {
		Query string
		Items []catalog.MediaItem
	}{q, s.catalog.Search(q)})
}

func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	item, ok := s.catalog.ByID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "title not found", http.StatusNotFound)
		return
	}
	s.render(w, http.StatusOK, "title", item)
}

type uploadPage struct {
	FormID     string
	Form       upload.Form
	Error      string
	Categories []upload.SelectOption
	Ratings    []upload.SelectOption
	Genres     []string
}

func newUploadPage(id string, f upload.Form, msg string) uploadPage {
	return uploadPage{
		FormID:     id,
		Form:       f,
		Error:      msg,
		Categories: upload.Categories,
		Ratings:    upload.Ratings,
		Genres:     upload.Genres,
	}
}

func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	id, ctl := s.forms.issue()
	s.render(w, http.StatusOK, "upload", newUploadPage(id, ctl.Draft(), ""))
}

/*
Fill the form's controller from the multipart body and submit it.
The form is found by the form_id rendered into it; a post without one starts a new form.
A validation failure re-renders the form with the values kept (422).
A second post of a form that is still submitting is rejected (409).
Success shows a short confirmation that goes back home after the redirect delay.
*/
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// limit RAM use from form parsing
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	video, err := formFile(r, "video", &opened)
	if err != nil {
		http.Error(w, "Unable to read video", http.StatusBadRequest)
		return
	}
	thumb, err := formFile(r, "thumbnail", &opened)
	if err != nil {
		http.Error(w, "Unable to read thumbnail", http.StatusBadRequest)
		return
	}

	id, ctl := s.forms.get(r.FormValue("form_id"))
	if ctl.Submitting() {
		http.Error(w, upload.ErrSubmitInProgress.Error(), http.StatusConflict)
		return
	}
	ctl.Edit(func(f *upload.Form) {
		f.Title = r.FormValue("title")
		f.Description = r.FormValue("description")
		f.Category = r.FormValue("category")
		f.Kind = catalog.KindMovie
		if kind := catalog.Kind(r.FormValue("kind")); kind == catalog.KindSeries {
			f.Kind = kind
		}
		if year, err := strconv.Atoi(r.FormValue("year")); err == nil {
			f.Year = year
		}
		f.Duration = r.FormValue("duration")
		f.Rating = r.FormValue("rating")
		if seasons, err := strconv.Atoi(r.FormValue("seasons")); err == nil {
			f.Seasons = seasons
		}
		// the post carries the whole selection
		f.Genres = []string{}
		for _, g := range r.MultipartForm.Value["genre"] {
			if !slices.Contains(f.Genres, g) {
				f.ToggleGenre(g)
			}
		}
		f.AttachThumbnail(thumb)
		if upload.Mode(r.FormValue("mode")) == upload.ModeURL {
			f.Mode = upload.ModeURL
			f.SetVideoURL(r.FormValue("video_url"))
		} else {
			f.Mode = upload.ModeFile
			f.AttachVideo(video)
		}
	})

	item, err := ctl.Submit()
	var verr *upload.ValidationError
	switch {
	case errors.As(err, &verr):
		s.render(w, http.StatusUnprocessableEntity, "upload", newUploadPage(id, ctl.Draft(), verr.Reason))
		return
	case errors.Is(err, upload.ErrSubmitInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, "failed to upload", http.StatusInternalServerError)
		return
	}
	s.forms.done(id)

	s.render(w, http.StatusCreated, "uploaded", struct {
		Item  catalog.MediaItem
		Delay string
	}{item, strconv.FormatFloat(upload.RedirectDelay.Seconds(), 'f', -1, 64)})
}

// formFile returns nil when the field carries no file. Opened parts are
// appended to opened for the caller to close.
func formFile(r *http.Request, field string, opened *[]multipart.File) (*upload.File, error) {
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	h := headers[0]
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	*opened = append(*opened, f)
	return &upload.File{
		Name:        h.Filename,
		ContentType: h.Header.Get("Content-Type"),
		Size:        h.Size,
		Data:        f,
	}, nil
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	obj, err := s.content.Open(content.Handle(chi.URLParam(r, "handle")))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			http.Error(w, "media not found", http.StatusNotFound)
		} else {
			http.Error(w, "failed to open media", http.StatusInternalServerError)
		}
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	http.ServeContent(w, r, obj.Name, obj.ModTime, obj.Body)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template execution error", "template", name, "error", err)
	}
}
