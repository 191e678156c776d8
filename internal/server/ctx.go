package server

import (
	"sync"

	"github.com/woozymasta/wpmap/internal/catalog"
	"github.com/woozymasta/wpmap/internal/config"
	"github.com/woozymasta/wpmap/internal/icon"
	"github.com/woozymasta/wpmap/internal/store"
	"github.com/woozymasta/wpmap/internal/waypoint"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config  *config.Config
	Catalog *catalog.Controller
	Icons   *icon.Cache

	// Store receives the full collection after every change. Nil disables
	// persistence.
	Store *store.Store

	minifier *minify.M

	mu          sync.Mutex
	highlighted string
}

// NewServerContext wires the handlers to a running catalog controller.
func NewServerContext(cfg *config.Config, ctl *catalog.Controller, icons *icon.Cache, st *store.Store) *ServerContext {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)

	log.Info().
		Int("icon_size", cfg.IconSize).
		Bool("persistent", st != nil).
		Msg("Server context initialized")

	return &ServerContext{
		Config:   cfg,
		Catalog:  ctl,
		Icons:    icons,
		Store:    st,
		minifier: m,
	}
}

// HighlightWaypoint marks w as the waypoint highlighted on the map.
func (s *ServerContext) HighlightWaypoint(w *waypoint.Waypoint) {
	s.mu.Lock()
	s.highlighted = w.Key()
	s.mu.Unlock()

	log.Debug().Str("key", w.Key()).Msg("Waypoint highlighted")
}

// Highlighted returns the key of the highlighted waypoint, if any.
func (s *ServerContext) Highlighted() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlighted
}

// persist saves ws as the full store contents. It runs on the controller
// goroutine before the collection is changed.
func (s *ServerContext) persist(ws []*waypoint.Waypoint) error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Save(ws)
}
