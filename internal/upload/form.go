package upload

import (
	"io"
	"slices"
	"time"

	"streamflix/internal/catalog"
)

// Mode selects where the video of a new item comes from.
type Mode string

const (
	ModeFile Mode = "file"
	ModeURL  Mode = "url"
)

// File is a user-selected local file.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        io.Reader
}

// Form is the draft of a new catalog item.
type Form struct {
	Title       string
	Description string
	Category    string
	Kind        catalog.Kind
	Year        int
	Duration    string
	Rating      string
	Genres      []string
	Seasons     int
	Thumbnail   *File
	Mode        Mode
	Video       *File
	VideoURL    string
}

// NewForm returns the empty draft a fresh upload page starts from.
func NewForm(now time.Time) Form {
	return Form{
		Kind:    catalog.KindMovie,
		Year:    now.Year(),
		Genres:  []string{},
		Seasons: 1,
		Mode:    ModeFile,
	}
}

// ToggleGenre selects g, or deselects it when already selected.
func (f *Form) ToggleGenre(g string) {
	if i := slices.Index(f.Genres, g); i >= 0 {
		f.Genres = slices.Delete(f.Genres, i, i+1)
		return
	}
	f.Genres = append(f.Genres, g)
}

// SetVideoURL also drops any attached video file.
func (f *Form) SetVideoURL(url string) {
	f.VideoURL = url
	f.Video = nil
}

func (f *Form) AttachVideo(file *File) {
	f.Video = file
}

func (f *Form) AttachThumbnail(file *File) {
	f.Thumbnail = file
}

func (f Form) clone() Form {
	f.Genres = slices.Clone(f.Genres)
	return f
}

// Validate checks required fields in order and stops at the first failure.
func (f Form) Validate() error {
	switch {
	case f.Title == "":
		return &ValidationError{Field: "title", Reason: "missing title"}
	case f.Description == "":
		return &ValidationError{Field: "description", Reason: "missing description"}
	case f.Category == "":
		return &ValidationError{Field: "category", Reason: "missing category"}
	}

	switch f.Mode {
	case ModeFile, "":
		if f.Video == nil {
			return &ValidationError{Field: "video", Reason: "missing video file"}
		}
	case ModeURL:
		if f.VideoURL == "" {
			return &ValidationError{Field: "video_url", Reason: "missing video url"}
		}
	default:
		return &ValidationError{Field: "mode", Reason: "unknown video source"}
	}
	return nil
}

// SelectOption is one entry of a select list.
type SelectOption struct {
	Value string
	Label string
}

var Categories = []SelectOption{
	{"trending", "Trending"},
	{"crime", "Crime"},
	{"fantasy", "Fantasy"},
	{"animation", "Animation"},
	{"sci-fi", "Sci-Fi"},
	{"drama", "Drama"},
	{"comedy", "Comedy"},
	{"horror", "Horror"},
}

var Ratings = []SelectOption{
	{"G", "G - General Audiences"},
	{"PG", "PG - Parental Guidance"},
	{"PG-13", "PG-13 - Parents Strongly Cautioned"},
	{"R", "R - Restricted"},
	{"TV-Y", "TV-Y - All Children"},
	{"TV-Y7", "TV-Y7 - Directed to Older Children"},
	{"TV-G", "TV-G - General Audience"},
	{"TV-PG", "TV-PG - Parental Guidance"},
	{"TV-14", "TV-14 - Parents Strongly Cautioned"},
	{"TV-MA", "TV-MA - Mature Audience Only"},
}

var Genres = []string{
	"Action", "Adventure", "Animation", "Biography", "Comedy", "Crime",
	"Documentary", "Drama", "Family", "Fantasy", "History", "Horror",
	"Mystery", "Romance", "Sci-Fi", "Thriller", "War", "Western",
}
