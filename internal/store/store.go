// Package store persists waypoints as a list of property lists.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/wpmap/internal/waypoint"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Format selects the file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFor picks the format from a file name extension. Anything that is
// not .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Encode writes ws as a list of property lists.
func Encode(w io.Writer, ws []*waypoint.Waypoint, format Format) error {
	lists := make([]waypoint.PropertyList, len(ws))
	for i, wp := range ws {
		lists[i] = wp.PropertyList()
	}

	if format == YAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(lists); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(lists)
}

// Decode reads a list of property lists. YAML decoding also accepts JSON.
// The first malformed entry aborts decoding.
func Decode(r io.Reader, format Format) ([]*waypoint.Waypoint, error) {
	var lists []map[string]any

	var err error
	if format == YAML {
		err = yaml.NewDecoder(r).Decode(&lists)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	} else {
		err = json.NewDecoder(r).Decode(&lists)
	}
	if err != nil {
		return nil, err
	}

	ws := make([]*waypoint.Waypoint, 0, len(lists))
	for i, pl := range lists {
		w, err := waypoint.FromPropertyList(pl)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		ws = append(ws, w)
	}
	return ws, nil
}

// Store is a waypoint file on disk.
type Store struct {
	Path   string
	Format Format
}

// New returns a store at path using the format implied by its extension.
func New(path string) *Store {
	return &Store{Path: path, Format: FormatFor(path)}
}

// Load reads every stored waypoint. A missing file is an empty store.
func (s *Store) Load() ([]*waypoint.Waypoint, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", s.Path).Msg("Store file not found, starting empty")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	ws, err := Decode(f, s.Format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return ws, nil
}

// Save replaces the store contents with ws. The file is written next to the
// target and renamed over it.
func (s *Store) Save(ws []*waypoint.Waypoint) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Encode(tmp, ws, s.Format); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return err
	}

	log.Debug().Str("path", s.Path).Int("count", len(ws)).Msg("Store saved")
	return nil
}
