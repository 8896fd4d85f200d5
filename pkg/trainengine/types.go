// Package trainengine turns an irregular stream of train position updates
// into smooth, bounded, camera-aware render state. It knows nothing about
// the rendering backend; everything it needs from the map is behind the
// MapSurface interface.
package trainengine

import "time"

// TrainUpdate is one inbound position record from the feed.
type TrainUpdate struct {
	ID    string  `json:"id"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Popup string  `json:"popup,omitempty"`
}

// LatLng is a geographic point in degrees.
type LatLng struct {
	Lat, Lng float64
}

// RenderState is the authoritative per-train visual state. The store is the
// only writer of Displayed.
type RenderState struct {
	ID        string
	Displayed LatLng
	Popup     string
}

const (
	// TinyMoveDeg is the per-axis delta below which an update is applied
	// instantly instead of animated.
	TinyMoveDeg = 0.00005

	// MinSegmentMeters is the minimum spacing between consecutive trail
	// points; closer samples are jitter and get dropped.
	MinSegmentMeters = 5.0

	// MaxTrailPoints bounds each trail as a sliding window.
	MaxTrailPoints = 500

	// FollowPaddingPx insets the viewport rectangle used to decide whether
	// the camera needs to recenter on the selected train.
	FollowPaddingPx = 100

	// Animation durations scale with move distance and clamp to this range.
	MinTweenDuration = 200 * time.Millisecond
	MaxTweenDuration = 1000 * time.Millisecond

	// tweenMsPerDegree converts planar degree distance to milliseconds.
	tweenMsPerDegree = 6000

	// FollowPanDuration is the smooth pan used to keep the selected train
	// inside the padded viewport.
	FollowPanDuration = 250 * time.Millisecond

	// MinSelectZoom is the lowest zoom a selection will ever snap to.
	MinSelectZoom = 7

	// SelectZoomBoost is added to the current zoom when a train is selected.
	SelectZoomBoost = 2
)

// Default overview region: India.
var (
	OverviewSW = LatLng{Lat: 6.465, Lng: 68.1097}
	OverviewNE = LatLng{Lat: 35.5133, Lng: 97.3956}
)

const (
	OverviewPaddingPx = 20
	OverviewMaxZoom   = 6
)
