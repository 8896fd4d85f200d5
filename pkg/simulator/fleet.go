// Package simulator runs a small fleet of fake trains wandering inside a
// bounding box and broadcasts their positions over WebSocket, in the same
// JSON shape the viewer consumes.
package simulator

import (
	"fmt"
	"math/rand"

	"github.com/railsight/train-stream/pkg/trainengine"
)

// Bounds is the box the fleet is kept inside.
type Bounds struct {
	LatMin, LatMax float64
	LngMin, LngMax float64
}

// IndiaBounds matches the viewer's default overview region.
var IndiaBounds = Bounds{
	LatMin: trainengine.OverviewSW.Lat, LatMax: trainengine.OverviewNE.Lat,
	LngMin: trainengine.OverviewSW.Lng, LngMax: trainengine.OverviewNE.Lng,
}

const (
	maxSpeedDeg = 10.0
	noiseDeg    = 0.003
)

// Train is one simulated vehicle: a position plus a velocity that random-walks.
type Train struct {
	ID    string  `json:"id"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Popup string  `json:"popup,omitempty"`

	vx, vy float64
}

// Fleet steps a set of trains. Not safe for concurrent use; the hub owns it
// and steps it from the tick loop.
type Fleet struct {
	bounds Bounds
	trains []*Train
	rng    *rand.Rand
}

// NewFleet seeds n trains near the middle of the box with small random
// velocities. Ids run train-1..train-n.
func NewFleet(n int, bounds Bounds, rng *rand.Rand) *Fleet {
	f := &Fleet{bounds: bounds, rng: rng}
	midLat := (bounds.LatMin + bounds.LatMax) / 2
	midLng := (bounds.LngMin + bounds.LngMax) / 2
	for i := 0; i < n; i++ {
		f.trains = append(f.trains, &Train{
			ID:  fmt.Sprintf("train-%d", i+1),
			Lat: midLat + f.uniform(-3, 3),
			Lng: midLng + f.uniform(-3, 3),
			vx:  f.uniform(-0.00015, 0.00015),
			vy:  f.uniform(-0.00015, 0.00015),
		})
	}
	return f
}

func (f *Fleet) uniform(min, max float64) float64 {
	return f.rng.Float64()*(max-min) + min
}

// Step advances every train one tick: jitter the velocity, move, and
// reflect off the box edges so trains never leave the region.
func (f *Fleet) Step() {
	b := f.bounds
	for _, t := range f.trains {
		vx := clamp(t.vx+f.uniform(-noiseDeg, noiseDeg), -maxSpeedDeg, maxSpeedDeg)
		vy := clamp(t.vy+f.uniform(-noiseDeg, noiseDeg), -maxSpeedDeg, maxSpeedDeg)

		lat := t.Lat + vy
		lng := t.Lng + vx

		if lat < b.LatMin {
			lat = b.LatMin + (b.LatMin - lat)
			vy = abs(vy)
		}
		if lat > b.LatMax {
			lat = b.LatMax - (lat - b.LatMax)
			vy = -abs(vy)
		}
		if lng < b.LngMin {
			lng = b.LngMin + (b.LngMin - lng)
			vx = abs(vx)
		}
		if lng > b.LngMax {
			lng = b.LngMax - (lng - b.LngMax)
			vx = -abs(vx)
		}

		t.Lat, t.Lng, t.vx, t.vy = lat, lng, vx, vy
		t.Popup = fmt.Sprintf("🚆 %s", t.ID)
	}
}

// Snapshot copies the current fleet state for broadcasting.
func (f *Fleet) Snapshot() []Train {
	out := make([]Train, len(f.trains))
	for i, t := range f.trains {
		out[i] = *t
	}
	return out
}

// Restore places a train at a stored position if it exists in the fleet.
func (f *Fleet) Restore(id string, lat, lng float64) bool {
	for _, t := range f.trains {
		if t.ID == id {
			t.Lat, t.Lng = lat, lng
			return true
		}
	}
	return false
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
