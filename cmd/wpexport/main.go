package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/woozymasta/wpmap/internal/catalog"
	"github.com/woozymasta/wpmap/internal/geo"
	"github.com/woozymasta/wpmap/internal/store"
	"github.com/woozymasta/wpmap/internal/waypoint"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input  string   `short:"i" long:"in" description:"Waypoint store file" required:"true"`
	Output string   `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Format string   `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Filter string   `short:"q" long:"filter" description:"Export only waypoints whose name matches"`
	Fields []string `short:"F" long:"field" description:"Property also searched by --filter (repeatable)"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	ws, err := store.New(opts.Input).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading store: %v\n", err)
		os.Exit(1)
	}

	coll := catalog.New(catalog.WithSearchFields(opts.Fields...))
	coll.PutAll(ws)
	coll.SetFilter(opts.Filter)

	fc := toFeatureCollection(coll.RefreshAll())

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(fc)
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully exported %d waypoints to %s (format: %s)\n", len(fc.Features), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

// toFeatureCollection writes each waypoint as a Point feature whose
// properties are its property list without the coordinates.
func toFeatureCollection(ws []*waypoint.Waypoint) geo.GeoJSONFeatureCollection {
	fc := geo.NewFeatureCollection(len(ws))
	for _, w := range ws {
		props := w.PropertyList()
		delete(props, waypoint.FieldLatitude)
		delete(props, waypoint.FieldLongitude)
		delete(props, waypoint.FieldAltitude)

		fc.Features = append(fc.Features, geo.NewPointFeature(w.Location(), props))
	}
	return fc
}
