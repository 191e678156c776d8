// Package server exposes the waypoint catalog over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/url"

	"github.com/woozymasta/wpmap/internal/catalog"
	"github.com/woozymasta/wpmap/internal/icon"
	"github.com/woozymasta/wpmap/internal/readout"
	"github.com/woozymasta/wpmap/internal/waypoint"

	"github.com/rs/zerolog/log"
)

// Routes returns the handler tree.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/waypoints", s.HandleList)
	mux.HandleFunc("POST /api/waypoints", s.HandleCreate)
	mux.HandleFunc("GET /api/waypoints/{key}", s.HandleSelect)
	mux.HandleFunc("DELETE /api/waypoints/{key}", s.HandleDelete)
	mux.HandleFunc("POST /api/markers", s.HandleCreateMarker)
	mux.HandleFunc("GET /api/waypoints/{key}/icon", s.HandleWaypointIcon)
	mux.HandleFunc("GET /icons/{name...}", s.HandleIcon)
	mux.HandleFunc("GET /{$}", s.HandleIndex)
	return mux
}

// SelectionResponse is the readout of a selected waypoint.
type SelectionResponse struct {
	Key   string        `json:"key"`
	Title string        `json:"title"`
	Icon  string        `json:"icon"`
	Rows  []readout.Row `json:"rows"`
}

// HandleList serves the filtered waypoint list.
func (s *ServerContext) HandleList(w http.ResponseWriter, r *http.Request) {
	cells, err := s.list(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cells)
}

func (s *ServerContext) list(ctx context.Context, filter string) ([]catalog.Cell, error) {
	selected := s.Highlighted()

	var cells []catalog.Cell
	err := s.Catalog.Do(ctx, func(c *catalog.Collection) error {
		c.SetFilter(filter)
		cells = catalog.Cells(c.RefreshAll(), selected)
		return nil
	})
	return cells, err
}

// HandleSelect resolves a waypoint by key and serves its readout.
func (s *ServerContext) HandleSelect(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	ro := &readout.Controller{Map: s}

	var resp SelectionResponse
	err := s.Catalog.Do(r.Context(), func(c *catalog.Collection) error {
		if _, err := c.Select(key, r.URL.Query().Get("title"), ro); err != nil {
			return err
		}
		resp = SelectionResponse{
			Key:   key,
			Title: ro.Title,
			Icon:  "/api/waypoints/" + url.PathEscape(key) + "/icon",
			Rows:  ro.Rows(),
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCreate adds or replaces a waypoint given as a property list.
func (s *ServerContext) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var pl waypoint.PropertyList
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&pl); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	wp, err := waypoint.FromPropertyList(pl)
	if err != nil {
		writeError(w, err)
		return
	}
	s.put(w, r, wp)
}

type markerRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Name      string   `json:"name,omitempty"`
}

// HandleCreateMarker drops a marker at a bare position.
func (s *ServerContext) HandleCreateMarker(w http.ResponseWriter, r *http.Request) {
	var req markerRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "latitude and longitude are required"})
		return
	}

	wp, err := waypoint.FromDegrees(*req.Latitude, *req.Longitude)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Name != "" {
		wp.DisplayName = req.Name
	}
	s.put(w, r, wp)
}

// put stores wp, replacing any waypoint with the same key. The store is
// written first so a failed save leaves the collection untouched.
func (s *ServerContext) put(w http.ResponseWriter, r *http.Request, wp *waypoint.Waypoint) {
	err := s.Catalog.Do(r.Context(), func(c *catalog.Collection) error {
		next := c.All()
		replaced := false
		for i, e := range next {
			if e.Key() == wp.Key() {
				next[i] = wp
				replaced = true
				break
			}
		}
		if !replaced {
			next = append(next, wp)
		}

		if err := s.persist(next); err != nil {
			return err
		}
		c.Put(wp)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	log.Info().Str("key", wp.Key()).Str("type", wp.Type().String()).Msg("Waypoint stored")
	writeJSON(w, http.StatusCreated, catalog.CellFor(wp))
}

// HandleDelete removes a waypoint.
func (s *ServerContext) HandleDelete(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	err := s.Catalog.Do(r.Context(), func(c *catalog.Collection) error {
		if _, err := c.Get(key); err != nil {
			return err
		}

		all := c.All()
		next := make([]*waypoint.Waypoint, 0, len(all))
		for _, e := range all {
			if e.Key() != key {
				next = append(next, e)
			}
		}

		if err := s.persist(next); err != nil {
			return err
		}
		return c.Remove(key)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleIcon serves an icon thumbnail as webp. A missing or broken icon is
// answered with the fallback image.
func (s *ServerContext) HandleIcon(w http.ResponseWriter, r *http.Request) {
	img, err := s.Icons.Load(r.Context(), r.PathValue("name"))
	s.writeIcon(w, img, err)
}

// HandleWaypointIcon serves the icon of one waypoint, memoized on the
// waypoint itself.
func (s *ServerContext) HandleWaypointIcon(w http.ResponseWriter, r *http.Request) {
	var wp *waypoint.Waypoint
	err := s.Catalog.Do(r.Context(), func(c *catalog.Collection) error {
		var err error
		wp, err = c.Get(r.PathValue("key"))
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// Loading blocks, so it runs outside the controller.
	img, err := wp.IconImage(r.Context(), s.Icons)
	s.writeIcon(w, img, err)
}

func (s *ServerContext) writeIcon(w http.ResponseWriter, img image.Image, loadErr error) {
	if loadErr != nil && !errors.Is(loadErr, icon.ErrLoadFailed) {
		writeError(w, loadErr)
		return
	}

	var buf bytes.Buffer
	if err := icon.EncodeWebP(&buf, icon.Thumbnail(img, s.Config.IconSize)); err != nil {
		log.Error().Err(err).Msg("Failed to encode icon")
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	if loadErr != nil {
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=86400")
	}
	_, _ = w.Write(buf.Bytes())
}

// writeJSON serializes v as JSON with the provided status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, waypoint.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, waypoint.ErrMalformedRecord), errors.Is(err, waypoint.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, catalog.ErrStopped):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
