package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/woozymasta/wpmap/internal/catalog"

	"github.com/rs/zerolog/log"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Waypoints</title>
  <style>
    body { font-family: sans-serif; margin: 1em; }
    td, th { padding: 2px 8px; text-align: left; }
    tr.selected { background: #ffe9a8; }
    img { width: 16px; height: 16px; vertical-align: middle; }
  </style>
</head>
<body>
  <form method="get" action="/">
    <input type="search" name="filter" value="{{ .Filter }}" placeholder="Search waypoints">
  </form>
  <table>
    <tr><th></th><th>Name</th><th>Position</th><th>Type</th></tr>
    {{- range .Cells }}
    <tr{{ if .Selected }} class="selected"{{ end }}>
      <td><img src="/icons/{{ .IconPath }}" alt=""></td>
      <td><a href="/api/waypoints/{{ .Key }}">{{ .Label }}</a></td>
      <td>{{ .Detail }}</td>
      <td>{{ .Type }}</td>
    </tr>
    {{- end }}
  </table>
  <p>{{ len .Cells }} waypoints</p>
</body>
</html>
`))

type indexData struct {
	Filter string
	Cells  []catalog.Cell
}

// HandleIndex serves the waypoint list as a minified HTML page.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	cells, err := s.list(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, indexData{Filter: filter, Cells: cells}); err != nil {
		log.Error().Err(err).Msg("Failed to render index")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	page, err := s.minifier.Bytes("text/html", buf.Bytes())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to minify index, serving as is")
		page = buf.Bytes()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(page)
}
