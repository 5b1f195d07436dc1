// Package geo builds the GeoJSON search geometry and normalized date
// ranges used by catalog queries. It is pure: no I/O, no state.
package geo

// DefaultSearchDelta is the canonical half-width, in degrees, of the
// bounding square built around a search point.
const DefaultSearchDelta = 0.04

// Polygon is a GeoJSON polygon geometry.
type Polygon struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// BuildSearchWindow returns a closed 5-point square ring centered on
// (lon, lat) with half-width delta degrees. Points are in
// (longitude, latitude) order and the first and last points are equal.
func BuildSearchWindow(lon, lat, delta float64) Polygon {
	c1 := [2]float64{lon + delta, lat + delta}
	c2 := [2]float64{lon + delta, lat - delta}
	c3 := [2]float64{lon - delta, lat - delta}
	c4 := [2]float64{lon - delta, lat + delta}
	return Polygon{
		Type:        "Polygon",
		Coordinates: [][][2]float64{{c1, c2, c3, c4, c1}},
	}
}
