package viewer

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/battlescape/internal/terrain"
)

const (
	hudHeight   = 56
	headingStep = math.Pi / 4
	wallWidth   = 3
)

var (
	backgroundCol = color.RGBA{R: 12, G: 14, B: 12, A: 255}
	gridCol       = color.RGBA{R: 0, G: 0, B: 0, A: 60}
	fogCol        = color.RGBA{R: 8, G: 8, B: 10, A: 220}

	tierCols = [...]color.RGBA{
		terrain.FloorNone: {R: 22, G: 22, B: 30, A: 255},
		terrain.Floor0:    {R: 68, G: 88, B: 66, A: 255},
		terrain.Floor30:   {R: 96, G: 108, B: 78, A: 255},
		terrain.Floor70:   {R: 128, G: 128, B: 90, A: 255},
	}
	blockedCol   = color.RGBA{R: 40, G: 36, B: 32, A: 255}
	viewBlockCol = color.RGBA{R: 110, G: 80, B: 50, A: 255}
	liftCol      = color.RGBA{R: 80, G: 160, B: 200, A: 255}
	xcorpPadCol  = color.RGBA{R: 90, G: 60, B: 60, A: 255}
	alienPadCol  = color.RGBA{R: 60, G: 70, B: 110, A: 255}
	smokeCol     = color.RGBA{R: 200, G: 200, B: 200, A: 90}

	wallBothCol   = color.RGBA{R: 220, G: 215, B: 200, A: 255}
	wallSolidCol  = color.RGBA{R: 120, G: 200, B: 230, A: 255} // windows
	wallOpaqueCol = color.RGBA{R: 170, G: 120, B: 200, A: 255} // curtains, holo screens

	xcorpCol  = color.RGBA{R: 210, G: 70, B: 70, A: 255}
	alienCol  = color.RGBA{R: 70, G: 110, B: 210, A: 255}
	selectCol = color.RGBA{R: 255, G: 230, B: 80, A: 255}
	coneCol   = color.RGBA{R: 255, G: 230, B: 80, A: 90}
	clearCol  = color.RGBA{R: 80, G: 230, B: 100, A: 220}
	blockCol  = color.RGBA{R: 240, G: 60, B: 60, A: 220}
)

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundCol)
	v.drawCells(screen)
	v.drawWalls(screen)
	v.drawProbe(screen)
	v.drawCombatants(screen)
	v.drawHUD(screen)

	w, h := v.WindowSize()
	v.panel.Draw(screen, w-panelWidth, h, v.face)
}

// cellRect returns the screen rectangle of column (x, z).
func (v *Viewer) cellRect(x, z int) (float32, float32, float32) {
	s := float32(v.scale)
	return float32(borderWidth) + float32(x)*s, float32(borderWidth) + float32(z)*s, s
}

// cellCentre returns the screen position of a world position's x/z.
func (v *Viewer) cellCentre(p terrain.Point) (float32, float32) {
	x, y, s := v.cellRect(p.X, p.Z)
	return x + s/2, y + s/2
}

func groundColour(g terrain.GroundFace) color.RGBA {
	switch {
	case g.Blocked():
		return blockedCol
	case g.ViewBlocking():
		return viewBlockCol
	case g.UpGravLift(), g.DownGravLift():
		return liftCol
	case g.Flags.Has(terrain.GroundXCorpStart):
		return xcorpPadCol
	case g.Flags.Has(terrain.GroundAlienStart):
		return alienPadCol
	}
	return tierCols[g.Tier()]
}

func (v *Viewer) drawCells(screen *ebiten.Image) {
	t := v.terrain
	for z := 0; z < t.Length(); z++ {
		for x := 0; x < t.Width(); x++ {
			px, py, s := v.cellRect(x, z)
			g := t.GroundFace(x, v.level, z)
			vector.FillRect(screen, px, py, s, s, groundColour(g), false)
			vector.StrokeRect(screen, px, py, s, s, 1, gridCol, false)

			props := t.CellProperty(x, v.level, z)
			if props&terrain.PropSmoke != 0 {
				vector.FillRect(screen, px, py, s, s, smokeCol, false)
			}
			if g.Tier() == terrain.Floor70 {
				// High steps get an inner frame so they read as raised.
				vector.StrokeRect(screen, px+3, py+3, s-6, s-6, 1, tierCols[terrain.Floor30], false)
			}
			if v.fog && props&terrain.PropSeen == 0 {
				vector.FillRect(screen, px, py, s, s, fogCol, false)
			}
		}
	}
}

func wallColour(w terrain.WallFace) (color.RGBA, bool) {
	switch {
	case w.Solid() && w.Opaque():
		return wallBothCol, true
	case w.Solid():
		return wallSolidCol, true
	case w.Opaque():
		return wallOpaqueCol, true
	}
	return color.RGBA{}, false
}

func (v *Viewer) drawWalls(screen *ebiten.Image) {
	t := v.terrain
	for z := 0; z < t.Length(); z++ {
		for x := 0; x < t.Width(); x++ {
			px, py, s := v.cellRect(x, z)
			if col, ok := wallColour(t.WallFace(x, v.level, z, terrain.SideNorth)); ok {
				vector.StrokeLine(screen, px, py, px+s, py, wallWidth, col, false)
			}
			if col, ok := wallColour(t.WallFace(x, v.level, z, terrain.SideWest)); ok {
				vector.StrokeLine(screen, px, py, px, py+s, wallWidth, col, false)
			}
		}
	}
}

// visibleToXCorp reports whether an alien should be drawn under fog.
func (v *Viewer) visibleToXCorp(c *terrain.Combatant) bool {
	return !v.fog || c.Faction == terrain.FactionXCorp || c.OpponentsViewing != 0
}

func (v *Viewer) drawCombatants(screen *ebiten.Image) {
	r := float32(v.scale) * 0.35
	for _, c := range v.terrain.Combatants() {
		p := c.Cell()
		if p.Y != v.level || !v.visibleToXCorp(c) {
			continue
		}
		cx, cy := v.cellCentre(p)
		col := xcorpCol
		if c.Faction == terrain.FactionAlien {
			col = alienCol
		}
		vector.FillCircle(screen, cx, cy, r, col, true)
		hx := cx + float32(math.Cos(c.Heading))*r*1.6
		hy := cy + float32(math.Sin(c.Heading))*r*1.6
		vector.StrokeLine(screen, cx, cy, hx, hy, 2, col, true)

		if c == v.selected {
			vector.StrokeCircle(screen, cx, cy, r+3, 2, selectCol, true)
			v.drawCone(screen, c, cx, cy)
		}
		if c.OpponentsInView != 0 {
			ebitenutil.DebugPrintAt(screen, "!", int(cx)+int(r), int(cy)-int(r)*2)
		}
	}
}

// drawCone outlines the field of view of c out to its vision range.
func (v *Viewer) drawCone(screen *ebiten.Image, c *terrain.Combatant, cx, cy float32) {
	vis := v.terrain.Vision()
	half := math.Acos(vis.FOVCos)
	length := float32(vis.Range) * float32(v.scale)
	for _, a := range []float64{c.Heading - half, c.Heading + half} {
		ex := cx + float32(math.Cos(a))*length
		ey := cy + float32(math.Sin(a))*length
		vector.StrokeLine(screen, cx, cy, ex, ey, 1, coneCol, true)
	}
}

func (v *Viewer) drawProbe(screen *ebiten.Image) {
	if v.probe.points == 0 || v.probe.from.Y != v.level {
		return
	}
	fx, fy := v.cellCentre(v.probe.from)
	vector.StrokeCircle(screen, fx, fy, 4, 2, selectCol, true)
	if v.probe.points < 2 {
		return
	}
	tx, ty := v.cellCentre(v.probe.to)
	col := clearCol
	if !v.probe.los {
		col = blockCol
	}
	vector.StrokeLine(screen, fx, fy, tx, ty, 2, col, true)
	if !v.probe.lof && v.probe.stop.Y == v.level {
		px, py, s := v.cellRect(v.probe.stop.X, v.probe.stop.Z)
		vector.StrokeRect(screen, px+1, py+1, s-2, s-2, 2, blockCol, false)
	}
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	t := v.terrain
	y := borderWidth + t.Length()*v.scale + 8

	fogState := "on"
	if !v.fog {
		fogState = "off"
	}
	line := fmt.Sprintf("level %d/%d  fog %s  turn %d  seen %d cells", v.level, t.Levels()-1, fogState, v.turn, t.SeenCells())
	if v.selected != nil {
		line += "  selected " + v.selected.Name
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(borderWidth, float64(y))
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, line, v.face, op)

	if v.status != "" {
		op = &text.DrawOptions{}
		op.GeoM.Translate(borderWidth, float64(y+16))
		op.ColorScale.ScaleWithColor(selectCol)
		text.Draw(screen, v.status, v.face, op)
	}
	ebitenutil.DebugPrintAt(screen, "[PgUp/PgDn] level [Tab] select [Q/E] turn [arrows] step [R] reveal [F] fog [C] copy", borderWidth, y+32)
}
