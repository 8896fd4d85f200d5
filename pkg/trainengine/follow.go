package trainengine

// FollowController keeps the selected train on screen and keeps camera
// transitions from racing marker tweens: a transition start cancels every
// in-flight tween, and no tween runs until the transition settles.
type FollowController struct {
	surface   MapSurface
	anim      *Animator
	store     *RenderStateStore
	selection *Selection

	paddingPx     int
	transitioning bool
}

func NewFollowController(surface MapSurface, anim *Animator, store *RenderStateStore, selection *Selection, paddingPx int) *FollowController {
	if paddingPx <= 0 {
		paddingPx = FollowPaddingPx
	}
	f := &FollowController{
		surface:   surface,
		anim:      anim,
		store:     store,
		selection: selection,
		paddingPx: paddingPx,
	}
	surface.OnTransition(f.transitionStart, f.transitionEnd)
	return f
}

// Transitioning reports whether a discrete camera operation is in progress.
func (f *FollowController) Transitioning() bool {
	return f.transitioning
}

func (f *FollowController) transitionStart() {
	f.transitioning = true
	f.anim.CancelAll()
}

func (f *FollowController) transitionEnd() {
	f.transitioning = false
	if id, ok := f.selection.Selected(); ok {
		if st := f.store.Get(id); st != nil && !f.withinPaddedViewport(st.Displayed) {
			f.surface.PanTo(st.Displayed, false, 0)
		}
	}
	// One pixel out and back to force a reprojection pass; some backends
	// leave residual artifacts after a zoom otherwise.
	f.surface.PanByPixels(1, 1)
	f.surface.PanByPixels(-1, -1)
}

// TrainMoved is called after each position update. If the moved train is
// the selected one and it drifted outside the padded viewport, the camera
// follows with a short smooth pan. Pans never fire transition events.
func (f *FollowController) TrainMoved(id string, target LatLng) {
	if f.transitioning {
		return
	}
	selected, ok := f.selection.Selected()
	if !ok || selected != id {
		return
	}
	if f.withinPaddedViewport(target) {
		return
	}
	f.surface.PanTo(target, true, FollowPanDuration)
}

func (f *FollowController) withinPaddedViewport(pos LatLng) bool {
	w, h := f.surface.Size()
	if w <= 0 || h <= 0 {
		return true
	}
	x, y := f.surface.Project(pos)
	pad := float64(f.paddingPx)
	return x >= pad && x <= float64(w)-pad && y >= pad && y <= float64(h)-pad
}
