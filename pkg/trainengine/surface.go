package trainengine

import "time"

// MapSurface is the capability interface the engine requires from a map
// rendering backend. The Ebiten implementation lives in pkg/mapview; tests
// use a hand-rolled fake.
type MapSurface interface {
	// Markers.
	UpsertMarker(id string, pos LatLng, popup string)
	RemoveMarker(id string)

	// Trails. AppendTrailPoint is the cheap incremental path; SetTrail
	// replaces the whole point sequence and is reserved for window slides.
	SetTrail(id string, pts []LatLng)
	AppendTrailPoint(id string, pt LatLng)
	RemoveTrail(id string)

	// Camera.
	PanTo(pos LatLng, animated bool, duration time.Duration)
	PanByPixels(dx, dy int)
	SetView(pos LatLng, zoom float64)
	FitBounds(sw, ne LatLng, paddingPx int, maxZoom float64)
	Center() LatLng
	Zoom() float64
	MinZoom() float64
	MaxZoom() float64

	// Geometry.
	Size() (w, h int)
	Project(pos LatLng) (x, y float64)
	Distance(a, b LatLng) float64

	// OnTransition registers handlers for discrete camera operations
	// (zooms). Smooth pans must not fire these.
	OnTransition(start, end func())
}
