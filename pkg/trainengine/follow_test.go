package trainengine

import (
	"testing"
	"time"
)

func TestTransitionStartCancelsAllAnimations(t *testing.T) {
	e, surface, _ := newTestEngine()

	e.HandleMessage([]byte(`[{"id":"a","lat":10,"lng":10},{"id":"b","lat":20,"lng":20}]`))
	e.HandleMessage([]byte(`[{"id":"a","lat":10.5,"lng":10},{"id":"b","lat":20.5,"lng":20}]`))
	if e.anim.Len() != 2 {
		t.Fatalf("expected 2 live tweens before transition, got %d", e.anim.Len())
	}

	surface.fireTransitionStart()

	if e.anim.Len() != 0 {
		t.Errorf("%d tweens survived transition start", e.anim.Len())
	}
	if !e.follow.Transitioning() {
		t.Error("follow controller not in transitioning state")
	}
}

func TestNoAnimationStartsDuringTransition(t *testing.T) {
	e, surface, clock := newTestEngine()

	e.HandleMessage([]byte(`{"id":"a","lat":10,"lng":10}`))
	surface.fireTransitionStart()

	e.HandleMessage([]byte(`{"id":"a","lat":11,"lng":11}`))
	e.Step(clock.advance(16 * time.Millisecond))

	if e.anim.Len() != 0 {
		t.Error("an animation ran during a camera transition")
	}
	if got := e.Train("a").Displayed; got != (LatLng{Lat: 11, Lng: 11}) {
		t.Errorf("displayed = %v; want snap to (11,11) during transition", got)
	}
}

func TestTransitionEndRecentersSelectedAndNudges(t *testing.T) {
	e, surface, _ := newTestEngine()

	e.HandleMessage([]byte(`{"id":"a","lat":10,"lng":10}`))
	e.Select("a")
	surface.fireTransitionStart()

	// Camera drifted during the transition; train now far off screen.
	surface.center = LatLng{Lat: 30, Lng: 50}
	surface.pans = nil
	surface.fireTransitionEnd()

	if len(surface.pans) != 1 {
		t.Fatalf("got %d pans after transition end; want 1 recenter", len(surface.pans))
	}
	if surface.pans[0].animated {
		t.Error("recenter after transition must not animate")
	}
	if surface.pans[0].pos != (LatLng{Lat: 10, Lng: 10}) {
		t.Errorf("recentered on %v; want the selected train", surface.pans[0].pos)
	}
	if len(surface.pixelPans) != 2 {
		t.Errorf("got %d pixel pans; want the out-and-back nudge", len(surface.pixelPans))
	}
	if e.follow.Transitioning() {
		t.Error("still transitioning after transition end")
	}
}

func TestTransitionEndWithoutSelectionOnlyNudges(t *testing.T) {
	e, surface, _ := newTestEngine()

	e.HandleMessage([]byte(`{"id":"a","lat":10,"lng":10}`))
	surface.fireTransitionStart()
	surface.pans = nil
	surface.fireTransitionEnd()

	if len(surface.pans) != 0 {
		t.Errorf("got %d pans with nothing selected; want none", len(surface.pans))
	}
	if len(surface.pixelPans) != 2 {
		t.Errorf("got %d pixel pans; want the nudge", len(surface.pixelPans))
	}
}

func TestSelectedTrainPansWhenLeavingPaddedViewport(t *testing.T) {
	e, surface, _ := newTestEngine()

	e.HandleMessage([]byte(`{"id":"a","lat":10,"lng":10}`))
	e.Select("a") // camera now centered on the train
	surface.pans = nil

	// Small move: stays inside the padded viewport, no pan.
	e.HandleMessage([]byte(`{"id":"a","lat":10.1,"lng":10.1}`))
	if len(surface.pans) != 0 {
		t.Fatalf("in-view move triggered %d pans; want 0", len(surface.pans))
	}

	// Large move: leaves the padded viewport, smooth pan follows.
	e.HandleMessage([]byte(`{"id":"a","lat":10.1,"lng":16}`))
	if len(surface.pans) != 1 {
		t.Fatalf("out-of-view move triggered %d pans; want 1", len(surface.pans))
	}
	if !surface.pans[0].animated {
		t.Error("follow pan must be smooth, not a jump")
	}
	if surface.pans[0].duration != FollowPanDuration {
		t.Errorf("follow pan duration = %v; want %v", surface.pans[0].duration, FollowPanDuration)
	}
}

func TestUnselectedTrainNeverPansCamera(t *testing.T) {
	e, surface, _ := newTestEngine()

	e.HandleMessage([]byte(`{"id":"a","lat":10,"lng":10}`))
	e.HandleMessage([]byte(`{"id":"b","lat":20,"lng":20}`))
	e.Select("a")
	surface.pans = nil

	e.HandleMessage([]byte(`{"id":"b","lat":25,"lng":28}`))
	if len(surface.pans) != 0 {
		t.Errorf("unselected train move triggered %d pans", len(surface.pans))
	}
}
