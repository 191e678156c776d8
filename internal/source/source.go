// Package source reads external waypoint tables into waypoints.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/woozymasta/wpmap/internal/config"
	"github.com/woozymasta/wpmap/internal/waypoint"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// Supported source formats.
const (
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatGeoJSON = "geojson"
	FormatPlist   = "plist"
)

// Result is the outcome of reading one source.
type Result struct {
	Source    config.Source
	Waypoints []*waypoint.Waypoint
	Skipped   int
	Err       error
}

// DetectFormat returns src.Format, or guesses it from the path extension.
func DetectFormat(src config.Source) (string, error) {
	if src.Format != "" {
		return strings.ToLower(src.Format), nil
	}

	p := strings.TrimSuffix(strings.ToLower(src.Path), ".zst")
	switch path.Ext(p) {
	case ".csv":
		return FormatCSV, nil
	case ".geojson":
		return FormatGeoJSON, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatPlist, nil
	default:
		return "", fmt.Errorf("cannot guess format of %s", src.Path)
	}
}

// Load reads one source. Malformed records are logged and skipped; only
// I/O and framing errors fail the whole source.
func Load(ctx context.Context, client *http.Client, src config.Source) Result {
	res := Result{Source: src}

	format, err := DetectFormat(src)
	if err != nil {
		res.Err = err
		return res
	}

	rc, err := open(ctx, client, src.Path)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if strings.HasSuffix(strings.ToLower(src.Path), ".zst") {
		zr, err := zstd.NewReader(rc, zstd.WithDecoderConcurrency(0))
		if err != nil {
			res.Err = fmt.Errorf("zstd: %w", err)
			return res
		}
		defer zr.Close()
		r = zr
	}

	switch format {
	case FormatCSV:
		res.Waypoints, res.Skipped, res.Err = readCSV(r, src.Name)
	case FormatJSON:
		res.Waypoints, res.Skipped, res.Err = readJSONRows(r, src.Name)
	case FormatGeoJSON:
		res.Waypoints, res.Skipped, res.Err = readGeoJSON(r, src.Name)
	case FormatPlist:
		res.Waypoints, res.Err = readPlist(r)
	default:
		res.Err = fmt.Errorf("unsupported format %q", format)
	}

	if res.Err == nil {
		log.Info().
			Str("source", src.Name).
			Str("format", format).
			Int("waypoints", len(res.Waypoints)).
			Int("skipped", res.Skipped).
			Msg("Source loaded")
	}
	return res
}

// LoadAll reads sources with up to concurrency workers. Results keep the
// order of sources; disabled sources are left out.
func LoadAll(ctx context.Context, client *http.Client, sources []config.Source, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}

	enabled := make([]config.Source, 0, len(sources))
	for _, src := range sources {
		if src.Disabled {
			log.Debug().Str("source", src.Name).Msg("Source disabled, skipping")
			continue
		}
		enabled = append(enabled, src)
	}

	results := make([]Result, len(enabled))
	jobs := make(chan int, len(enabled))
	for i := range enabled {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j] = Load(ctx, client, enabled[j])
			}
		}()
	}
	wg.Wait()

	return results
}

func open(ctx context.Context, client *http.Client, location string) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return os.Open(location)
	}

	log.Debug().Str("url", location).Msg("Downloading source")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download failed: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// skip logs a record that could not become a waypoint.
func skip(source string, record int, err error) {
	log.Warn().
		Err(err).
		Str("source", source).
		Int("record", record).
		Msg("Skipping malformed record")
}
