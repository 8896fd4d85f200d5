package mapview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/railsight/train-stream/pkg/trainengine"
)

var (
	colorConnected    = color.RGBA{34, 197, 94, 255}
	colorDisconnected = color.RGBA{239, 68, 68, 255}
	colorHUDText      = color.RGBA{203, 213, 225, 255}
	colorHUDDim       = color.RGBA{100, 116, 139, 255}
)

func (v *View) drawHUD(screen *ebiten.Image) {
	if v.engine == nil || v.fontSource == nil {
		return
	}
	const margin, fontSize = 14.0, 15.0
	face := &text.GoTextFace{Source: v.fontSource, Size: fontSize}
	smallFace := &text.GoTextFace{Source: v.fontSource, Size: fontSize * 0.8}

	// Panel backdrop keeps the text readable over land.
	vector.DrawFilledRect(screen, margin-6, margin-6, 230, 90, color.RGBA{0, 0, 0, 110}, false)
	vector.StrokeRect(screen, margin-6, margin-6, 230, 90, 1, colorOutline, false)

	// Connection state dot plus label.
	status := v.engine.Status()
	dotColor, label := colorDisconnected, "disconnected"
	if status == trainengine.StatusConnected {
		dotColor, label = colorConnected, "connected"
	}
	vector.DrawFilledCircle(screen, margin+6, margin+9, 5, dotColor, true)
	op := &text.DrawOptions{}
	op.GeoM.Translate(margin+18, margin)
	op.ColorScale.ScaleWithColor(colorHUDText)
	text.Draw(screen, label, face, op)

	op = &text.DrawOptions{}
	op.GeoM.Translate(margin, margin+22)
	op.ColorScale.ScaleWithColor(colorHUDText)
	text.Draw(screen, fmt.Sprintf("%d trains", v.engine.TrainCount()), face, op)

	if id, ok := v.engine.Selected(); ok {
		line := fmt.Sprintf("following %s", id)
		if st := v.engine.Train(id); st != nil && v.monoSource != nil {
			monoFace := &text.GoTextFace{Source: v.monoSource, Size: fontSize * 0.8}
			posOp := &text.DrawOptions{}
			posOp.GeoM.Translate(margin, margin+62)
			posOp.ColorScale.ScaleWithColor(colorHUDDim)
			text.Draw(screen, fmt.Sprintf("%.4f, %.4f", st.Displayed.Lat, st.Displayed.Lng), monoFace, posOp)
		}
		op = &text.DrawOptions{}
		op.GeoM.Translate(margin, margin+44)
		op.ColorScale.ScaleWithColor(colorTrain)
		text.Draw(screen, line, face, op)
	} else {
		op = &text.DrawOptions{}
		op.GeoM.Translate(margin, margin+44)
		op.ColorScale.ScaleWithColor(colorHUDDim)
		text.Draw(screen, "click a train to follow it", smallFace, op)
	}

	hint := &text.DrawOptions{}
	hint.GeoM.Translate(margin, float64(v.height)-26)
	hint.ColorScale.ScaleWithColor(colorHUDDim)
	text.Draw(screen, "esc: overview   1-9: select   wheel: zoom", smallFace, hint)
}
