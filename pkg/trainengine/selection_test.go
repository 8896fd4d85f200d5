package trainengine

import "testing"

func TestSelectCentersAndBoostsZoom(t *testing.T) {
	e, surface, _ := newTestEngine()

	e.HandleMessage([]byte(`{"id":"train-3","lat":21.0,"lng":79.0}`))
	surface.zoom = 5
	e.Select("train-3")

	if len(surface.setViews) != 1 {
		t.Fatalf("got %d SetView calls; want 1", len(surface.setViews))
	}
	v := surface.setViews[0]
	if v.pos != (LatLng{Lat: 21.0, Lng: 79.0}) {
		t.Errorf("centered on %v; want (21,79)", v.pos)
	}
	// min(maxZoom, max(7, currentZoom+2)) with zoom 5 -> 7.
	if v.zoom != 7 {
		t.Errorf("zoom = %v; want 7", v.zoom)
	}
	if id, ok := e.Selected(); !ok || id != "train-3" {
		t.Errorf("selected = %q, %v; want train-3", id, ok)
	}
}

func TestSelectZoomBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		maxZoom  float64
		wantZoom float64
	}{
		{"boost from mid zoom", 10, 20, 12},
		{"floored at readable zoom", 3, 20, 7},
		{"capped at surface max", 19, 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, surface, _ := newTestEngine()
			e.HandleMessage([]byte(`{"id":"t","lat":21,"lng":79}`))
			surface.zoom = tt.current
			surface.maxZoom = tt.maxZoom
			e.Select("t")

			if got := surface.setViews[0].zoom; got != tt.wantZoom {
				t.Errorf("zoom = %v; want %v", got, tt.wantZoom)
			}
		})
	}
}

func TestSelectOverwritesPriorSelection(t *testing.T) {
	e, _, _ := newTestEngine()

	e.HandleMessage([]byte(`[{"id":"a","lat":10,"lng":10},{"id":"b","lat":20,"lng":20}]`))
	e.Select("a")
	e.Select("b")

	if id, _ := e.Selected(); id != "b" {
		t.Errorf("selected = %q; want b", id)
	}
}

func TestSelectUnknownTrainLeavesCameraAlone(t *testing.T) {
	e, surface, _ := newTestEngine()

	e.Select("ghost")

	if len(surface.setViews) != 0 {
		t.Errorf("selecting an unknown id moved the camera %d times", len(surface.setViews))
	}
	if id, ok := e.Selected(); !ok || id != "ghost" {
		t.Errorf("selected = %q, %v; want the id to stick", id, ok)
	}
}

func TestClearSelectionResetsOverviewExactlyOnce(t *testing.T) {
	e, surface, _ := newTestEngine()

	e.HandleMessage([]byte(`{"id":"a","lat":10,"lng":10}`))
	e.Select("a")
	e.ClearSelection()

	if _, ok := e.Selected(); ok {
		t.Error("selection survived the reset trigger")
	}
	if surface.fitCalls != 1 {
		t.Errorf("got %d overview resets; want exactly 1", surface.fitCalls)
	}

	// Reset with nothing selected still resets the view once.
	e.ClearSelection()
	if surface.fitCalls != 2 {
		t.Errorf("got %d overview resets after second Escape; want 2", surface.fitCalls)
	}
}
