package trainengine

import (
	"math"
	"time"
)

// PositionWriter receives interpolated positions. In the engine it is the
// store's displayed-position setter; markers never move themselves.
type PositionWriter func(id string, pos LatLng)

// tween is one in-flight marker animation. At most one exists per train id.
type tween struct {
	from, to LatLng
	start    time.Time
	duration time.Duration
}

// Animator advances marker tweens one discrete step per UI frame. It owns no
// goroutines; the frame loop calls Step and cancellation just drops the
// tween before its next step.
type Animator struct {
	now    func() time.Time
	write  PositionWriter
	active map[string]*tween
}

func NewAnimator(now func() time.Time, write PositionWriter) *Animator {
	if now == nil {
		now = time.Now
	}
	return &Animator{
		now:    now,
		write:  write,
		active: make(map[string]*tween),
	}
}

// Start begins animating id from one position to another, replacing any
// in-flight tween for that id. Duration scales with the planar degree
// distance of the move, clamped to [MinTweenDuration, MaxTweenDuration].
func (a *Animator) Start(id string, from, to LatLng) {
	a.active[id] = &tween{
		from:     from,
		to:       to,
		start:    a.now(),
		duration: tweenDuration(from, to),
	}
}

// Step applies one frame of progress to every active tween and retires the
// ones that reached their target.
func (a *Animator) Step(now time.Time) {
	for id, tw := range a.active {
		t := float64(now.Sub(tw.start)) / float64(tw.duration)
		if t >= 1 {
			a.write(id, tw.to)
			delete(a.active, id)
			continue
		}
		if t < 0 {
			t = 0
		}
		k := easeInOutQuad(t)
		a.write(id, LatLng{
			Lat: tw.from.Lat + (tw.to.Lat-tw.from.Lat)*k,
			Lng: tw.from.Lng + (tw.to.Lng-tw.from.Lng)*k,
		})
	}
}

// Cancel stops the tween for id without rolling back applied positions.
func (a *Animator) Cancel(id string) {
	delete(a.active, id)
}

// CancelAll stops every in-flight tween.
func (a *Animator) CancelAll() {
	clear(a.active)
}

// Active reports whether id has an in-flight tween.
func (a *Animator) Active(id string) bool {
	_, ok := a.active[id]
	return ok
}

// Len returns the number of in-flight tweens.
func (a *Animator) Len() int {
	return len(a.active)
}

func tweenDuration(from, to LatLng) time.Duration {
	dLat := to.Lat - from.Lat
	dLng := to.Lng - from.Lng
	dist := planarNorm(dLat, dLng)
	d := time.Duration(dist * tweenMsPerDegree * float64(time.Millisecond))
	if d < MinTweenDuration {
		return MinTweenDuration
	}
	if d > MaxTweenDuration {
		return MaxTweenDuration
	}
	return d
}

// planarNorm is the deliberate simplification from the original design:
// Euclidean norm of the degree deltas, not geodesic distance.
func planarNorm(dLat, dLng float64) float64 {
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}
