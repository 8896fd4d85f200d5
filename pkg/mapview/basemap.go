package mapview

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	geojson "github.com/paulmach/go.geojson"

	"github.com/railsight/train-stream/pkg/trainengine"
)

var (
	colorWater   = color.RGBA{8, 10, 15, 255}
	colorLand    = color.RGBA{26, 29, 35, 255}
	colorOutline = color.RGBA{36, 42, 53, 255}
)

// Basemap is the parsed country-outline GeoJSON. Rendering is done on the
// CPU into an RGBA image for whatever camera the view currently holds; the
// result is cached until the camera settles somewhere else.
type Basemap struct {
	fc *geojson.FeatureCollection
}

func NewBasemap(data []byte) (*Basemap, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	return &Basemap{fc: fc}, nil
}

// Render rasterizes land and outlines for the given camera.
func (b *Basemap) Render(width, height int, center trainengine.LatLng, zoom float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{colorWater}, image.Point{}, draw.Src)

	cx, cy := worldPixels(center, zoom)
	proj := func(lat, lng float64) (float64, float64) {
		x, y := worldPixels(trainengine.LatLng{Lat: lat, Lng: lng}, zoom)
		return x - cx + float64(width)/2, y - cy + float64(height)/2
	}

	for _, f := range b.fc.Features {
		if f.Geometry.IsPolygon() {
			fillPolygon(img, width, height, proj, f.Geometry.Polygon, colorLand)
			for _, ring := range f.Geometry.Polygon {
				drawRing(img, width, height, proj, ring, colorOutline)
			}
		} else if f.Geometry.IsMultiPolygon() {
			for _, poly := range f.Geometry.MultiPolygon {
				fillPolygon(img, width, height, proj, poly, colorLand)
				for _, ring := range poly {
					drawRing(img, width, height, proj, ring, colorOutline)
				}
			}
		}
	}
	return img
}

// drawBasemap blits the cached land raster, regenerating it only once the
// camera has settled. While a pan or zoom transition runs, the stale raster
// is scaled and shifted to approximate the moving camera.
func (v *View) drawBasemap(screen *ebiten.Image) {
	screen.Fill(colorWater)
	if v.basemap == nil {
		return
	}

	settled := v.pan == nil && v.zoomAnim == nil
	if v.bg == nil || (settled && (v.bgCenter != v.center || v.bgZoom != v.zoom)) {
		cpu := v.basemap.Render(v.width, v.height, v.center, v.zoom)
		v.bg = ebiten.NewImageFromImage(cpu)
		v.bgCenter, v.bgZoom = v.center, v.zoom
	}

	op := &ebiten.DrawImageOptions{}
	if v.bgZoom != v.zoom || v.bgCenter != v.center {
		scale := math.Pow(2, v.zoom-v.bgZoom)
		bx, by := worldPixels(v.bgCenter, v.zoom)
		cx, cy := worldPixels(v.center, v.zoom)
		op.GeoM.Translate(-float64(v.width)/2, -float64(v.height)/2)
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(float64(v.width)/2+(bx-cx), float64(v.height)/2+(by-cy))
		op.Filter = ebiten.FilterLinear
	}
	screen.DrawImage(v.bg, op)
}

func fillPolygon(img *image.RGBA, width, height int, proj func(lat, lng float64) (float64, float64), rings [][][]float64, c color.RGBA) {
	if len(rings) == 0 {
		return
	}
	type point struct{ x, y float64 }
	projected := make([][]point, len(rings))
	minY, maxY := math.Inf(1), math.Inf(-1)
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i, ring := range rings {
		projected[i] = make([]point, len(ring))
		for j, p := range ring {
			x, y := proj(p[1], p[0])
			projected[i][j] = point{x, y}
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		}
	}
	if maxY < 0 || minY >= float64(height) || maxX < 0 || minX >= float64(width) {
		return
	}

	yStart, yEnd := int(math.Max(minY, 0)), int(math.Min(maxY, float64(height-1)))
	for y := yStart; y <= yEnd; y++ {
		var nodes []int
		fy := float64(y)
		for _, ring := range projected {
			for i := 0; i < len(ring); i++ {
				j := (i + 1) % len(ring)
				if (ring[i].y < fy && ring[j].y >= fy) || (ring[j].y < fy && ring[i].y >= fy) {
					nodeX := ring[i].x + (fy-ring[i].y)/(ring[j].y-ring[i].y)*(ring[j].x-ring[i].x)
					nodes = append(nodes, int(nodeX))
				}
			}
		}
		sort.Ints(nodes)
		for i := 0; i < len(nodes)-1; i += 2 {
			xs, xe := nodes[i], nodes[i+1]
			if xs < 0 {
				xs = 0
			}
			if xe >= width {
				xe = width - 1
			}
			for x := xs; x < xe; x++ {
				off := y*img.Stride + x*4
				img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = c.R, c.G, c.B, 255
			}
		}
	}
}

func drawRing(img *image.RGBA, width, height int, proj func(lat, lng float64) (float64, float64), coords [][]float64, c color.RGBA) {
	for i := 0; i < len(coords)-1; i++ {
		x1, y1 := proj(coords[i][1], coords[i][0])
		x2, y2 := proj(coords[i+1][1], coords[i+1][0])
		drawLine(img, width, height, int(x1), int(y1), int(x2), int(y2), c)
	}
}

func drawLine(img *image.RGBA, width, height, x1, y1, x2, y2 int, c color.RGBA) {
	if (x1 < 0 && x2 < 0) || (x1 >= width && x2 >= width) ||
		(y1 < 0 && y2 < 0) || (y1 >= height && y2 >= height) {
		return
	}
	dx, dy := math.Abs(float64(x2-x1)), math.Abs(float64(y2-y1))
	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}
	err := dx - dy
	for {
		if x1 >= 0 && x1 < width && y1 >= 0 && y1 < height {
			off := y1*img.Stride + x1*4
			img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = c.R, c.G, c.B, 255
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}
