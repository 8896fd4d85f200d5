package trainengine

import (
	"log"
	"time"
)

// Status is the two-valued connection indicator surfaced to the HUD.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Engine ties the validator, store, animator, trails, follow controller and
// selection together behind a frame-loop-friendly API. All methods must be
// called from the same goroutine as the UI frame loop; the feed listener
// hands messages over on a channel that the viewer drains inside its Update.
type Engine struct {
	cfg Config
	now func() time.Time

	surface   MapSurface
	anim      *Animator
	trails    *TrailManager
	store     *RenderStateStore
	follow    *FollowController
	selection *Selection

	status  Status
	dropped int // updates that arrived before the surface was ready
}

// NewEngine creates an engine that drops everything until AttachSurface is
// called; a feed can connect before the map is up without crashing anything.
func NewEngine(cfg Config, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{cfg: cfg, now: now, status: StatusDisconnected}
}

// AttachSurface wires the engine to its rendering backend. Must be called
// before updates have any effect.
func (e *Engine) AttachSurface(surface MapSurface) {
	e.surface = surface
	e.anim = NewAnimator(e.now, func(id string, pos LatLng) {
		e.store.SetDisplayed(id, pos)
	})
	e.trails = NewTrailManager(surface, e.cfg.TrailCapacity, e.cfg.MinSegmentMeters)
	e.store = NewRenderStateStore(surface, e.anim, e.trails, func() bool {
		return e.follow != nil && e.follow.Transitioning()
	})
	e.selection = NewSelection(surface, e.store)
	e.selection.SetOverview(
		LatLng{Lat: e.cfg.Overview.SWLat, Lng: e.cfg.Overview.SWLng},
		LatLng{Lat: e.cfg.Overview.NELat, Lng: e.cfg.Overview.NELng},
	)
	e.follow = NewFollowController(surface, e.anim, e.store, e.selection, e.cfg.FollowPaddingPx)
}

// Ready reports whether a surface is attached.
func (e *Engine) Ready() bool {
	return e.surface != nil
}

// HandleMessage decodes one raw feed message and applies its updates in
// order. Undecodable payloads are logged and dropped whole; messages that
// arrive before the surface is ready are dropped, not buffered.
func (e *Engine) HandleMessage(raw []byte) {
	if !e.Ready() {
		e.dropped++
		return
	}
	updates, err := DecodeUpdates(raw)
	if err != nil {
		log.Printf("Dropping feed message: %v", err)
		return
	}
	for _, u := range updates {
		res := e.store.Upsert(u)
		if !res.Created {
			e.follow.TrainMoved(u.ID, LatLng{Lat: u.Lat, Lng: u.Lng})
		}
	}
}

// Step advances every in-flight tween by one frame. No tween steps while a
// camera transition is running; the transition start already cancelled them.
func (e *Engine) Step(now time.Time) {
	if !e.Ready() {
		return
	}
	e.anim.Step(now)
}

// Select focuses a train; the click path and the programmatic entry point
// both end up here.
func (e *Engine) Select(id string) {
	if !e.Ready() {
		return
	}
	e.selection.Select(id)
}

// ClearSelection is the reset trigger: drop selection, restore the overview.
func (e *Engine) ClearSelection() {
	if !e.Ready() {
		return
	}
	e.selection.Clear()
}

// Selected returns the focused train id, if any.
func (e *Engine) Selected() (string, bool) {
	if !e.Ready() {
		return "", false
	}
	return e.selection.Selected()
}

// Train returns the render state for id, or nil.
func (e *Engine) Train(id string) *RenderState {
	if !e.Ready() {
		return nil
	}
	return e.store.Get(id)
}

// TrainCount returns the number of trains seen this session.
func (e *Engine) TrainCount() int {
	if !e.Ready() {
		return 0
	}
	return e.store.Len()
}

// SetStatus records the transport state for the HUD.
func (e *Engine) SetStatus(s Status) {
	e.status = s
}

// Status returns the current transport state.
func (e *Engine) Status() Status {
	return e.status
}

// Teardown releases all render state. Called once when the session ends.
func (e *Engine) Teardown() {
	if !e.Ready() {
		return
	}
	e.store.Teardown()
}
