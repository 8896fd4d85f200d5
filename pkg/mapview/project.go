// Package mapview is the Ebiten rendering backend for the train engine. It
// implements the engine's MapSurface: a slippy-map style camera over a
// GeoJSON world basemap, with circle markers and polyline trails.
package mapview

import (
	"math"

	"github.com/railsight/train-stream/pkg/trainengine"
)

// tileSize is the standard slippy-map tile edge; world pixel size at zoom z
// is tileSize * 2^z.
const tileSize = 256

const earthRadiusMeters = 6371000

// worldPixels projects a point to absolute Web Mercator pixel coordinates
// at the given zoom.
func worldPixels(pos trainengine.LatLng, zoom float64) (x, y float64) {
	scale := tileSize * math.Pow(2, zoom)
	lat := clampLat(pos.Lat)
	latRad := lat * math.Pi / 180
	x = (pos.Lng + 180) / 360 * scale
	y = (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * scale
	return x, y
}

// unprojectWorld is the inverse of worldPixels.
func unprojectWorld(x, y, zoom float64) trainengine.LatLng {
	scale := tileSize * math.Pow(2, zoom)
	lng := x/scale*360 - 180
	n := math.Pi - 2*math.Pi*y/scale
	lat := 180 / math.Pi * math.Atan(0.5*(math.Exp(n)-math.Exp(-n)))
	return trainengine.LatLng{Lat: lat, Lng: lng}
}

// Mercator blows up at the poles; Leaflet clamps around ±85.05 and so do we.
func clampLat(lat float64) float64 {
	const maxLat = 85.05112878
	if lat > maxLat {
		return maxLat
	}
	if lat < -maxLat {
		return -maxLat
	}
	return lat
}

// haversineMeters is the great-circle distance between two points.
func haversineMeters(a, b trainengine.LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
