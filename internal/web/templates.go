package web

const layoutHTML = `
{{define "head"}}
<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8" />
    <title>{{.}} - Streamflix</title>
    <link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.8/dist/css/bootstrap.min.css" rel="stylesheet">
    <style>
      body { background: #000; color: #fff; }
      .row-scroll { display: flex; gap: 0.75rem; overflow-x: auto; padding-bottom: 0.5rem; }
      .poster { width: 180px; flex: 0 0 auto; }
      .poster img { width: 100%; aspect-ratio: 2 / 3; object-fit: cover; border-radius: 4px; }
      .hero { min-height: 60vh; background-size: cover; background-position: center; display: flex; align-items: flex-end; }
      .hero .shade { background: linear-gradient(transparent, #000); width: 100%; padding: 3rem 2rem; }
    </style>
  </head>
  <body>
    <nav class="navbar bg-black border-bottom border-secondary" data-bs-theme="dark">
      <div class="container-fluid">
        <a class="navbar-brand text-danger fw-bold" href="/">STREAMFLIX</a>
        <form class="d-flex" action="/search" method="get">
          <input class="form-control me-2" type="search" name="q" placeholder="Search movies..." />
        </form>
        <a class="btn btn-danger" href="/upload">Upload</a>
      </div>
    </nav>
{{end}}

{{define "foot"}}
  </body>
</html>
{{end}}

{{define "poster"}}
<div class="poster">
  <a href="/titles/{{.ID | urlquery}}"><img src="{{.Thumbnail}}" alt="{{.Title}}" /></a>
  <div class="small mt-1 text-truncate">{{.Title}}</div>
</div>
{{end}}
`

const homeHTML = `
{{define "home"}}
{{template "head" "Home"}}
{{with .Featured}}
<div class="hero" style="background-image: url('{{.Thumbnail}}')">
  <div class="shade">
    <h1 class="display-4 fw-bold">{{.Title}}</h1>
    <p class="lead col-md-6">{{.Description}}</p>
    <a class="btn btn-light" href="/titles/{{.ID | urlquery}}">Play</a>
  </div>
</div>
{{end}}
<div class="container-fluid mt-4">
  {{range .Rows}}
  <h4 class="mt-4">{{.Title}}</h4>
  <div class="row-scroll">
    {{range .Items}}{{template "poster" .}}{{end}}
  </div>
  {{end}}
</div>
{{template "foot"}}
{{end}}
`

const searchHTML = `
{{define "search"}}
{{template "head" "Search"}}
<div class="container-fluid mt-4">
  <h4>Results for "{{.Query}}"</h4>
  {{if .Items}}
  <div class="d-flex flex-wrap gap-3">
    {{range .Items}}{{template "poster" .}}{{end}}
  </div>
  {{else}}
  <div class="alert alert-secondary">No titles match.</div>
  {{end}}
</div>
{{template "foot"}}
{{end}}
`

const titleHTML = `
{{define "title"}}
{{template "head" .Title}}
<div class="hero" style="background-image: url('{{.Thumbnail}}')">
  <div class="shade">
    <h1 class="display-4 fw-bold">{{.Title}}</h1>
    <p>
      <span class="badge bg-secondary">{{.Rating}}</span>
      <span class="ms-2">{{.Year}}</span>
      {{if eq .Kind "series"}}<span class="ms-2">{{.Seasons}} Seasons</span>{{else}}<span class="ms-2">{{.Duration}}</span>{{end}}
    </p>
  </div>
</div>
<div class="container mt-4">
  <p class="lead">{{.Description}}</p>
  <p>{{range .Genres}}<span class="badge rounded-pill text-bg-dark border me-1">{{.}}</span>{{end}}</p>
  <div class="ratio ratio-16x9">
    <video controls src="{{.Source.Href}}"></video>
  </div>
</div>
{{template "foot"}}
{{end}}
`

const uploadHTML = `
{{define "upload"}}
{{template "head" "Upload"}}
<div class="container mt-4" style="max-width: 48rem">
  <h1 class="text-center mb-4">Upload New Movie</h1>
  {{if .Error}}<div class="alert alert-danger">{{.Error}}</div>{{end}}
  <form action="/upload" method="post" enctype="multipart/form-data" data-bs-theme="dark">
    <input type="hidden" name="form_id" value="{{.FormID}}" />
    <div class="mb-3">
      <input class="btn-check" type="radio" name="kind" id="kind-movie" value="movie" {{if ne .Form.Kind "series"}}checked{{end}} />
      <label class="btn btn-outline-light" for="kind-movie">Movie</label>
      <input class="btn-check" type="radio" name="kind" id="kind-series" value="series" {{if eq .Form.Kind "series"}}checked{{end}} />
      <label class="btn btn-outline-light" for="kind-series">TV Show</label>
    </div>
    <div class="row mb-3">
      <div class="col-md-8">
        <label class="form-label" for="title">Title *</label>
        <input class="form-control" id="title" name="title" value="{{.Form.Title}}" />
      </div>
      <div class="col-md-4">
        <label class="form-label" for="year">Year</label>
        <input class="form-control" id="year" name="year" type="number" value="{{.Form.Year}}" />
      </div>
    </div>
    <div class="mb-3">
      <label class="form-label" for="description">Description *</label>
      <textarea class="form-control" id="description" name="description">{{.Form.Description}}</textarea>
    </div>
    <div class="row mb-3">
      <div class="col-md-4">
        <label class="form-label" for="category">Category *</label>
        <select class="form-select" id="category" name="category">
          <option value="">Select category</option>
          {{range .Categories}}<option value="{{.Value}}" {{if eq .Value $.Form.Category}}selected{{end}}>{{.Label}}</option>{{end}}
        </select>
      </div>
      <div class="col-md-4">
        <label class="form-label" for="rating">Rating</label>
        <select class="form-select" id="rating" name="rating">
          <option value="">Select rating</option>
          {{range .Ratings}}<option value="{{.Value}}" {{if eq .Value $.Form.Rating}}selected{{end}}>{{.Label}}</option>{{end}}
        </select>
      </div>
      <div class="col-md-2">
        <label class="form-label" for="duration">Duration</label>
        <input class="form-control" id="duration" name="duration" placeholder="e.g., 120m" value="{{.Form.Duration}}" />
      </div>
      <div class="col-md-2">
        <label class="form-label" for="seasons">Seasons</label>
        <input class="form-control" id="seasons" name="seasons" type="number" min="1" value="{{.Form.Seasons}}" />
      </div>
    </div>
    <div class="mb-3">
      <div class="form-label">Genres</div>
      {{range .Genres}}
      <input class="btn-check" type="checkbox" name="genre" id="genre-{{.}}" value="{{.}}" {{if hasGenre $.Form .}}checked{{end}} />
      <label class="btn btn-sm btn-outline-danger mb-1" for="genre-{{.}}">{{.}}</label>
      {{end}}
    </div>
    <div class="row mb-3">
      <div class="col-md-6">
        <label class="form-label" for="thumbnail">Thumbnail Image</label>
        <input class="form-control" id="thumbnail" name="thumbnail" type="file" accept="image/*" />
      </div>
      <div class="col-md-6">
        <div class="form-label">Video Source</div>
        <input class="btn-check" type="radio" name="mode" id="mode-file" value="file" {{if ne .Form.Mode "url"}}checked{{end}} />
        <label class="btn btn-sm btn-outline-light" for="mode-file">Upload File</label>
        <input class="btn-check" type="radio" name="mode" id="mode-url" value="url" {{if eq .Form.Mode "url"}}checked{{end}} />
        <label class="btn btn-sm btn-outline-light" for="mode-url">Use URL</label>
        <input class="form-control mt-2" name="video" type="file" accept="video/*" />
        <input class="form-control mt-2" name="video_url" type="url" placeholder="https://example.com/video.mp4" value="{{.Form.VideoURL}}" />
      </div>
    </div>
    <div class="text-center">
      <button class="btn btn-danger btn-lg px-5" type="submit">Upload Movie</button>
    </div>
  </form>
</div>
{{template "foot"}}
{{end}}
`

const uploadDoneHTML = `
{{define "uploaded"}}
<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8" />
    <meta http-equiv="refresh" content="{{.Delay}};url=/" />
    <title>Uploaded - Streamflix</title>
  </head>
  <body style="background: #000; color: #fff">
    <p>Movie uploaded successfully! <a href="/titles/{{.Item.ID | urlquery}}">{{.Item.Title}}</a></p>
  </body>
</html>
{{end}}
`
