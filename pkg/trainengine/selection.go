package trainengine

// Selection tracks the single focused train, if any. Clicks and the
// programmatic entry point both land in Select; the reset trigger (Escape)
// lands in Clear.
type Selection struct {
	surface MapSurface
	store   *RenderStateStore

	overviewSW LatLng
	overviewNE LatLng

	selected string // "" when unselected
}

func NewSelection(surface MapSurface, store *RenderStateStore) *Selection {
	return &Selection{
		surface:    surface,
		store:      store,
		overviewSW: OverviewSW,
		overviewNE: OverviewNE,
	}
}

// SetOverview overrides the default overview region. Zero bounds keep the
// default.
func (s *Selection) SetOverview(sw, ne LatLng) {
	if sw == ne {
		return
	}
	s.overviewSW = sw
	s.overviewNE = ne
}

// Select focuses id and snaps the camera onto it, zoomed in by a fixed
// boost from the current level, capped at the surface maximum and floored
// at a readable minimum. Selecting "" just drops the focus. An id the store
// has never seen becomes the selection without moving the camera; the
// camera catches up as soon as its updates arrive.
func (s *Selection) Select(id string) {
	s.selected = id
	if id == "" {
		return
	}
	st := s.store.Get(id)
	if st == nil {
		return
	}
	zoom := s.surface.Zoom() + SelectZoomBoost
	if zoom < MinSelectZoom {
		zoom = MinSelectZoom
	}
	if max := s.surface.MaxZoom(); zoom > max {
		zoom = max
	}
	s.surface.SetView(st.Displayed, zoom)
}

// Clear drops the selection and resets the camera to the default overview
// region. It always issues exactly one reset, selected or not.
func (s *Selection) Clear() {
	s.selected = ""
	s.surface.FitBounds(s.overviewSW, s.overviewNE, OverviewPaddingPx, OverviewMaxZoom)
}

// Selected returns the focused train id and whether one is focused.
func (s *Selection) Selected() (string, bool) {
	return s.selected, s.selected != ""
}
