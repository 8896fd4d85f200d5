package mapview

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/railsight/train-stream/pkg/trainengine"
)

var (
	colorTrain    = color.RGBA{22, 163, 74, 255} // #16a34a, like the original map
	colorTrailRGB = color.RGBA{22, 163, 74, 204}
	colorSelected = color.RGBA{240, 240, 240, 255}
)

const (
	markerRadius    = 5.0
	markerHitRadius = 8.0
	zoomStep        = 0.5
	zoomDuration    = 200 * time.Millisecond
)

type marker struct {
	pos   trainengine.LatLng
	popup string
}

type trail struct {
	pts []trainengine.LatLng
}

type panAnim struct {
	from, to trainengine.LatLng
	start    time.Time
	duration time.Duration
}

type zoomAnim struct {
	from, to float64
	start    time.Time
	duration time.Duration
}

// View is the Ebiten game that renders the train map. It implements
// trainengine.MapSurface; the engine drives markers, trails and the camera
// exclusively through that interface.
type View struct {
	width, height int
	now           func() time.Time

	engine *trainengine.Engine
	feed   *trainengine.FeedListener

	center  trainengine.LatLng
	zoom    float64
	minZoom float64
	maxZoom float64

	markers map[string]*marker
	trails  map[string]*trail

	pan      *panAnim
	zoomAnim *zoomAnim

	onTransitionStart func()
	onTransitionEnd   func()

	basemap  *Basemap
	bg       *ebiten.Image
	bgCenter trainengine.LatLng
	bgZoom   float64

	dragging       bool
	dragX, dragY   int
	pressX, pressY int

	fontSource *text.GoTextFaceSource
	monoSource *text.GoTextFaceSource
}

// New builds a view sized width x height with the camera fitted to the
// configured overview region. The basemap may be nil; the map then renders
// on a plain dark background.
func New(width, height int, cfg trainengine.Config, engine *trainengine.Engine, feed *trainengine.FeedListener, basemap *Basemap) *View {
	s, _ := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	m, _ := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))

	v := &View{
		width:      width,
		height:     height,
		now:        time.Now,
		engine:     engine,
		feed:       feed,
		minZoom:    cfg.MinZoom,
		maxZoom:    cfg.MaxZoom,
		markers:    make(map[string]*marker),
		trails:     make(map[string]*trail),
		basemap:    basemap,
		fontSource: s,
		monoSource: m,
	}
	v.FitBounds(
		trainengine.LatLng{Lat: cfg.Overview.SWLat, Lng: cfg.Overview.SWLng},
		trainengine.LatLng{Lat: cfg.Overview.NELat, Lng: cfg.Overview.NELng},
		trainengine.OverviewPaddingPx, trainengine.OverviewMaxZoom,
	)
	return v
}

// ---- trainengine.MapSurface ----

func (v *View) UpsertMarker(id string, pos trainengine.LatLng, popup string) {
	if m, ok := v.markers[id]; ok {
		m.pos = pos
		if popup != "" {
			m.popup = popup
		}
		return
	}
	v.markers[id] = &marker{pos: pos, popup: popup}
}

func (v *View) RemoveMarker(id string) { delete(v.markers, id) }

func (v *View) SetTrail(id string, pts []trainengine.LatLng) {
	cp := make([]trainengine.LatLng, len(pts))
	copy(cp, pts)
	v.trails[id] = &trail{pts: cp}
}

func (v *View) AppendTrailPoint(id string, pt trainengine.LatLng) {
	tr, ok := v.trails[id]
	if !ok {
		v.trails[id] = &trail{pts: []trainengine.LatLng{pt}}
		return
	}
	tr.pts = append(tr.pts, pt)
}

func (v *View) RemoveTrail(id string) { delete(v.trails, id) }

func (v *View) PanTo(pos trainengine.LatLng, animated bool, duration time.Duration) {
	if !animated || duration <= 0 {
		v.pan = nil
		v.center = pos
		return
	}
	v.pan = &panAnim{from: v.center, to: pos, start: v.now(), duration: duration}
}

func (v *View) PanByPixels(dx, dy int) {
	x, y := worldPixels(v.center, v.zoom)
	v.center = unprojectWorld(x+float64(dx), y+float64(dy), v.zoom)
}

func (v *View) SetView(pos trainengine.LatLng, zoom float64) {
	v.pan = nil
	v.zoomAnim = nil
	v.center = pos
	v.zoom = v.clampZoom(zoom)
}

// FitBounds centers on the box and picks the highest zoom at which the
// whole box fits inside the padded viewport.
func (v *View) FitBounds(sw, ne trainengine.LatLng, paddingPx int, maxZoom float64) {
	swX, swY := worldPixels(sw, 0)
	neX, neY := worldPixels(ne, 0)
	dx := math.Abs(neX - swX)
	dy := math.Abs(swY - neY)

	availW := float64(v.width - 2*paddingPx)
	availH := float64(v.height - 2*paddingPx)
	zoom := maxZoom
	if dx > 0 && dy > 0 && availW > 0 && availH > 0 {
		zoom = math.Min(math.Log2(availW/dx), math.Log2(availH/dy))
		if zoom > maxZoom {
			zoom = maxZoom
		}
	}

	v.pan = nil
	v.zoomAnim = nil
	v.zoom = v.clampZoom(zoom)
	v.center = unprojectWorld((swX+neX)/2, (swY+neY)/2, 0)
}

func (v *View) Center() trainengine.LatLng { return v.center }
func (v *View) Zoom() float64              { return v.zoom }
func (v *View) MinZoom() float64           { return v.minZoom }
func (v *View) MaxZoom() float64           { return v.maxZoom }
func (v *View) Size() (int, int)           { return v.width, v.height }

func (v *View) Project(pos trainengine.LatLng) (x, y float64) {
	px, py := worldPixels(pos, v.zoom)
	cx, cy := worldPixels(v.center, v.zoom)
	return px - cx + float64(v.width)/2, py - cy + float64(v.height)/2
}

func (v *View) Distance(a, b trainengine.LatLng) float64 {
	return haversineMeters(a, b)
}

func (v *View) OnTransition(start, end func()) {
	v.onTransitionStart = start
	v.onTransitionEnd = end
}

// ---- camera motion ----

// beginZoomTo starts (or retargets) the animated zoom transition. The first
// wheel notch fires the transition-start handler; piling more notches onto
// a running transition only moves its target.
func (v *View) beginZoomTo(target float64) {
	target = v.clampZoom(target)
	if target == v.zoom && v.zoomAnim == nil {
		return
	}
	if v.zoomAnim == nil {
		if v.onTransitionStart != nil {
			v.onTransitionStart()
		}
	}
	v.zoomAnim = &zoomAnim{from: v.zoom, to: target, start: v.now(), duration: zoomDuration}
}

// stepCamera advances the running zoom transition and smooth pan by one
// frame.
func (v *View) stepCamera(now time.Time) {
	if za := v.zoomAnim; za != nil {
		t := float64(now.Sub(za.start)) / float64(za.duration)
		if t >= 1 {
			v.zoom = za.to
			v.zoomAnim = nil
			if v.onTransitionEnd != nil {
				v.onTransitionEnd()
			}
		} else {
			if t < 0 {
				t = 0
			}
			k := easeInOutQuad(t)
			v.zoom = za.from + (za.to-za.from)*k
		}
	}

	if p := v.pan; p != nil {
		t := float64(now.Sub(p.start)) / float64(p.duration)
		if t >= 1 {
			v.center = p.to
			v.pan = nil
			return
		}
		if t < 0 {
			t = 0
		}
		k := easeInOutQuad(t)
		// Interpolate in world pixel space so the pan tracks straight
		// across the projected map.
		fx, fy := worldPixels(p.from, v.zoom)
		tx, ty := worldPixels(p.to, v.zoom)
		v.center = unprojectWorld(fx+(tx-fx)*k, fy+(ty-fy)*k, v.zoom)
	}
}

func (v *View) clampZoom(z float64) float64 {
	if z < v.minZoom {
		return v.minZoom
	}
	if z > v.maxZoom {
		return v.maxZoom
	}
	return z
}

// hitTest finds a marker within clicking distance of a screen point.
func (v *View) hitTest(x, y float64) (string, bool) {
	bestID := ""
	bestDist := markerHitRadius
	for id, m := range v.markers {
		mx, my := v.Project(m.pos)
		d := math.Hypot(mx-x, my-y)
		if d <= bestDist {
			bestID = id
			bestDist = d
		}
	}
	return bestID, bestID != ""
}

// ---- ebiten.Game ----

func (v *View) Update() error {
	now := v.now()

	if v.feed != nil && v.engine != nil {
		for {
			select {
			case s := <-v.feed.Statuses():
				v.engine.SetStatus(s)
				continue
			default:
			}
			break
		}
		for {
			select {
			case msg := <-v.feed.Messages():
				v.engine.HandleMessage(msg)
				continue
			default:
			}
			break
		}
	}

	v.handleInput()
	v.stepCamera(now)
	if v.engine != nil {
		v.engine.Step(now)
	}
	return nil
}

func (v *View) handleInput() {
	if v.engine == nil {
		return
	}

	// Zoom: wheel or +/- keys run as a camera transition.
	if _, wy := ebiten.Wheel(); wy != 0 {
		target := v.zoom
		if za := v.zoomAnim; za != nil {
			target = za.to
		}
		v.beginZoomTo(target + wy*zoomStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		v.beginZoomTo(v.zoom + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		v.beginZoomTo(v.zoom - 1)
	}

	// Escape resets selection and the overview region.
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		v.engine.ClearSelection()
	}

	// Digits select train-1..train-9 without touching the mouse.
	for d := 0; d < 9; d++ {
		if inpututil.IsKeyJustPressed(ebiten.KeyDigit1 + ebiten.Key(d)) {
			v.engine.Select(fmt.Sprintf("train-%d", d+1))
		}
	}

	// Click selects a train; click-and-drag pans the map.
	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.dragging = true
		v.dragX, v.dragY = mx, my
		v.pressX, v.pressY = mx, my
	}
	if v.dragging && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if dx, dy := v.dragX-mx, v.dragY-my; dx != 0 || dy != 0 {
			v.pan = nil
			v.PanByPixels(dx, dy)
			v.dragX, v.dragY = mx, my
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && v.dragging {
		v.dragging = false
		// A release that barely moved since the press is a click, not a drag.
		if abs(mx-v.pressX) < 4 && abs(my-v.pressY) < 4 {
			if id, ok := v.hitTest(float64(mx), float64(my)); ok {
				v.engine.Select(id)
			}
		}
	}
}

func (v *View) Draw(screen *ebiten.Image) {
	v.drawBasemap(screen)
	v.drawTrails(screen)
	v.drawMarkers(screen)
	v.drawHUD(screen)
}

func (v *View) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

func (v *View) drawTrails(screen *ebiten.Image) {
	for _, tr := range v.trails {
		if len(tr.pts) < 2 {
			continue
		}
		prevX, prevY := v.Project(tr.pts[0])
		for _, pt := range tr.pts[1:] {
			x, y := v.Project(pt)
			if onScreen(v.width, v.height, prevX, prevY) || onScreen(v.width, v.height, x, y) {
				vector.StrokeLine(screen, float32(prevX), float32(prevY), float32(x), float32(y), 2, colorTrailRGB, true)
			}
			prevX, prevY = x, y
		}
	}
}

func (v *View) drawMarkers(screen *ebiten.Image) {
	selected := ""
	if v.engine != nil {
		selected, _ = v.engine.Selected()
	}
	for id, m := range v.markers {
		x, y := v.Project(m.pos)
		if !onScreen(v.width, v.height, x, y) {
			continue
		}
		if id == selected {
			vector.StrokeCircle(screen, float32(x), float32(y), markerRadius+4, 2, colorSelected, true)
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), markerRadius, colorTrain, true)
		if id == selected && m.popup != "" && v.fontSource != nil {
			face := &text.GoTextFace{Source: v.fontSource, Size: 14}
			op := &text.DrawOptions{}
			op.GeoM.Translate(x+12, y-18)
			op.ColorScale.ScaleWithColor(colorSelected)
			text.Draw(screen, m.popup, face, op)
		}
	}
}

func onScreen(w, h int, x, y float64) bool {
	const slack = 50
	return x >= -slack && x <= float64(w)+slack && y >= -slack && y <= float64(h)+slack
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}
