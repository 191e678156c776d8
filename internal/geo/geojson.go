// Package geo handles geographic locations and GeoJSON structures.
package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature. Only points are read back.
type GeoJSONGeometry struct {
	Type        string    `json:"type" yaml:"type"`
	Coordinates []float64 `json:"coordinates" yaml:"coordinates"` // [Lon, Lat, Alt?]
}

// NewFeatureCollection returns an empty collection ready for appending.
func NewFeatureCollection(capacity int) GeoJSONFeatureCollection {
	return GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]GeoJSONFeature, 0, capacity),
	}
}

// NewPointFeature builds a Point feature at loc. Altitude is written as the
// third coordinate only when set.
func NewPointFeature(loc Location, props map[string]interface{}) GeoJSONFeature {
	coords := []float64{loc.Longitude, loc.Latitude}
	if loc.Altitude != 0 {
		coords = append(coords, loc.Altitude)
	}

	return GeoJSONFeature{
		Type: "Feature",
		Geometry: GeoJSONGeometry{
			Type:        "Point",
			Coordinates: coords,
		},
		Properties: props,
	}
}

// Point returns the location of a Point feature.
// ok is false for other geometry types or short coordinate arrays.
func (f GeoJSONFeature) Point() (loc Location, ok bool) {
	if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
		return Location{}, false
	}

	loc = Location{
		Longitude: f.Geometry.Coordinates[0],
		Latitude:  f.Geometry.Coordinates[1],
	}
	if len(f.Geometry.Coordinates) > 2 {
		loc.Altitude = f.Geometry.Coordinates[2]
	}

	return loc, true
}
