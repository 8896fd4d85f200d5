package trainengine

import "time"

// fakeSurface is a MapSurface that records everything the engine asks of
// it. Projection is linear: pxPerDeg screen pixels per degree around the
// camera center.
type fakeSurface struct {
	markers map[string]fakeMarker
	trails  map[string][]LatLng

	setTrailCalls    int
	appendTrailCalls int

	center   LatLng
	zoom     float64
	minZoom  float64
	maxZoom  float64
	w, h     int
	pxPerDeg float64

	pans      []fakePan
	pixelPans [][2]int
	setViews  []fakeView
	fitCalls  int

	onStart, onEnd func()
}

type fakeMarker struct {
	pos   LatLng
	popup string
}

type fakePan struct {
	pos      LatLng
	animated bool
	duration time.Duration
}

type fakeView struct {
	pos  LatLng
	zoom float64
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		markers:  make(map[string]fakeMarker),
		trails:   make(map[string][]LatLng),
		zoom:     5,
		minZoom:  3,
		maxZoom:  20,
		w:        800,
		h:        600,
		pxPerDeg: 100,
	}
}

func (f *fakeSurface) UpsertMarker(id string, pos LatLng, popup string) {
	f.markers[id] = fakeMarker{pos: pos, popup: popup}
}

func (f *fakeSurface) RemoveMarker(id string) { delete(f.markers, id) }

func (f *fakeSurface) SetTrail(id string, pts []LatLng) {
	f.setTrailCalls++
	cp := make([]LatLng, len(pts))
	copy(cp, pts)
	f.trails[id] = cp
}

func (f *fakeSurface) AppendTrailPoint(id string, pt LatLng) {
	f.appendTrailCalls++
	f.trails[id] = append(f.trails[id], pt)
}

func (f *fakeSurface) RemoveTrail(id string) { delete(f.trails, id) }

func (f *fakeSurface) PanTo(pos LatLng, animated bool, duration time.Duration) {
	f.pans = append(f.pans, fakePan{pos: pos, animated: animated, duration: duration})
	f.center = pos
}

func (f *fakeSurface) PanByPixels(dx, dy int) {
	f.pixelPans = append(f.pixelPans, [2]int{dx, dy})
}

func (f *fakeSurface) SetView(pos LatLng, zoom float64) {
	f.setViews = append(f.setViews, fakeView{pos: pos, zoom: zoom})
	f.center = pos
	f.zoom = zoom
}

func (f *fakeSurface) FitBounds(sw, ne LatLng, paddingPx int, maxZoom float64) {
	f.fitCalls++
	f.center = LatLng{Lat: (sw.Lat + ne.Lat) / 2, Lng: (sw.Lng + ne.Lng) / 2}
	f.zoom = maxZoom
}

func (f *fakeSurface) Center() LatLng   { return f.center }
func (f *fakeSurface) Zoom() float64    { return f.zoom }
func (f *fakeSurface) MinZoom() float64 { return f.minZoom }
func (f *fakeSurface) MaxZoom() float64 { return f.maxZoom }
func (f *fakeSurface) Size() (int, int) { return f.w, f.h }

func (f *fakeSurface) Project(pos LatLng) (x, y float64) {
	x = float64(f.w)/2 + (pos.Lng-f.center.Lng)*f.pxPerDeg
	y = float64(f.h)/2 - (pos.Lat-f.center.Lat)*f.pxPerDeg
	return x, y
}

// Distance is planar degrees scaled to meters; close enough for threshold
// tests.
func (f *fakeSurface) Distance(a, b LatLng) float64 {
	return planarNorm(b.Lat-a.Lat, b.Lng-a.Lng) * 111320
}

func (f *fakeSurface) OnTransition(start, end func()) {
	f.onStart = start
	f.onEnd = end
}

// fireTransition simulates a discrete camera operation.
func (f *fakeSurface) fireTransitionStart() {
	if f.onStart != nil {
		f.onStart()
	}
}

func (f *fakeSurface) fireTransitionEnd() {
	if f.onEnd != nil {
		f.onEnd()
	}
}

// fakeClock steps time manually for animation tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1700000000, 0)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

// newTestEngine builds a fully wired engine on a fake surface.
func newTestEngine() (*Engine, *fakeSurface, *fakeClock) {
	clock := newFakeClock()
	surface := newFakeSurface()
	e := NewEngine(DefaultConfig(), clock.now)
	e.AttachSurface(surface)
	return e, surface, clock
}
