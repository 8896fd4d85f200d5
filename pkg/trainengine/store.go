package trainengine

// RenderStateStore owns every RenderState and is the single writer of
// displayed positions. The animator mutates positions only through
// SetDisplayed, and the surface marker follows every write.
type RenderStateStore struct {
	surface MapSurface
	anim    *Animator
	trails  *TrailManager

	// transitioning reports whether a discrete camera operation is in
	// progress; moves applied during one snap instead of animating.
	transitioning func() bool

	states map[string]*RenderState
}

// UpsertResult tells the caller what Upsert did, so follow logic can react
// to moves without re-deriving them.
type UpsertResult struct {
	Created  bool
	Animated bool
}

func NewRenderStateStore(surface MapSurface, anim *Animator, trails *TrailManager, transitioning func() bool) *RenderStateStore {
	if transitioning == nil {
		transitioning = func() bool { return false }
	}
	return &RenderStateStore{
		surface:       surface,
		anim:          anim,
		trails:        trails,
		transitioning: transitioning,
		states:        make(map[string]*RenderState),
	}
}

// Upsert applies one validated update. First sight of an id snaps the train
// in place with no animation; later updates either snap (tiny move, or a
// camera transition is running) or start a fresh tween toward the target,
// cancelling any stale one first.
func (s *RenderStateStore) Upsert(u TrainUpdate) UpsertResult {
	target := LatLng{Lat: u.Lat, Lng: u.Lng}

	st, ok := s.states[u.ID]
	if !ok {
		st = &RenderState{ID: u.ID, Displayed: target, Popup: u.Popup}
		s.states[u.ID] = st
		s.surface.UpsertMarker(u.ID, target, st.Popup)
		s.trails.Append(u.ID, target)
		return UpsertResult{Created: true}
	}

	if u.Popup != "" {
		st.Popup = u.Popup
	}

	// A newer update always kills the stale tween before anything else.
	s.anim.Cancel(u.ID)

	from := st.Displayed
	dLat := abs(target.Lat - from.Lat)
	dLng := abs(target.Lng - from.Lng)
	tinyMove := dLat < TinyMoveDeg && dLng < TinyMoveDeg

	res := UpsertResult{}
	if tinyMove || s.transitioning() {
		s.SetDisplayed(u.ID, target)
	} else {
		s.anim.Start(u.ID, from, target)
		res.Animated = true
	}
	s.trails.Append(u.ID, target)
	return res
}

// SetDisplayed writes a displayed position and moves the marker with it.
// This is the single write path for positions; the animator calls it every
// frame step.
func (s *RenderStateStore) SetDisplayed(id string, pos LatLng) {
	st, ok := s.states[id]
	if !ok {
		return
	}
	st.Displayed = pos
	s.surface.UpsertMarker(id, pos, st.Popup)
}

// Get returns the render state for id, or nil if the train is unknown.
func (s *RenderStateStore) Get(id string) *RenderState {
	return s.states[id]
}

// Len returns the number of known trains.
func (s *RenderStateStore) Len() int {
	return len(s.states)
}

// Teardown cancels all tweens and releases every state, marker, and trail.
// Called once when the owning session ends.
func (s *RenderStateStore) Teardown() {
	s.anim.CancelAll()
	s.trails.Teardown()
	for id := range s.states {
		s.surface.RemoveMarker(id)
		delete(s.states, id)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
