package trainengine

// TrailManager keeps a bounded, distance-thresholded position history per
// train and mirrors it onto the surface's polylines. Appends inside the
// window are pushed incrementally; only a window slide forces a full
// polyline rewrite.
type TrailManager struct {
	surface    MapSurface
	capacity   int
	minSegment float64
	trails     map[string][]LatLng
}

func NewTrailManager(surface MapSurface, capacity int, minSegmentMeters float64) *TrailManager {
	if capacity <= 0 {
		capacity = MaxTrailPoints
	}
	if minSegmentMeters <= 0 {
		minSegmentMeters = MinSegmentMeters
	}
	return &TrailManager{
		surface:    surface,
		capacity:   capacity,
		minSegment: minSegmentMeters,
		trails:     make(map[string][]LatLng),
	}
}

// Append records pt for id. Points closer than the minimum segment length to
// the last stored point are jitter and get dropped.
func (t *TrailManager) Append(id string, pt LatLng) {
	pts, ok := t.trails[id]
	if !ok {
		t.trails[id] = []LatLng{pt}
		t.surface.SetTrail(id, []LatLng{pt})
		return
	}

	last := pts[len(pts)-1]
	if t.surface.Distance(last, pt) < t.minSegment {
		return
	}

	pts = append(pts, pt)
	if len(pts) > t.capacity {
		// Copy instead of re-slicing so the backing array doesn't grow
		// without bound under long update sequences.
		trimmed := make([]LatLng, t.capacity)
		copy(trimmed, pts[len(pts)-t.capacity:])
		t.trails[id] = trimmed
		t.surface.SetTrail(id, trimmed)
		return
	}
	t.trails[id] = pts
	t.surface.AppendTrailPoint(id, pt)
}

// Points returns the stored sequence for id, or nil.
func (t *TrailManager) Points(id string) []LatLng {
	return t.trails[id]
}

// Teardown releases every trail and removes its polyline.
func (t *TrailManager) Teardown() {
	for id := range t.trails {
		t.surface.RemoveTrail(id)
		delete(t.trails, id)
	}
}
