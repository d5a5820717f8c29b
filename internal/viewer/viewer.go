// Package viewer is an ebiten debug view of a battlescape terrain: one level
// at a time, walls, occupants, fog and an interactive LOS probe.
package viewer

import (
	"fmt"
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/battlescape/internal/terrain"
)

// borderWidth is the pixel gap between the window edge and the map.
const borderWidth = 24

// Viewer implements ebiten.Game for a single terrain.
type Viewer struct {
	terrain *terrain.Terrain
	xcorp   *terrain.Team
	aliens  *terrain.Team
	log     zerolog.Logger

	scale int // pixels per cell
	level int
	fog   bool
	turn  int

	selected *terrain.Combatant
	probe    probe

	panel  *EventPanel
	face   *text.GoXFace
	status string

	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
}

// probe is a pair of cells whose line of sight is shown on the map.
type probe struct {
	from, to terrain.Point
	points   int // 0, 1 or 2 cells set
	los, lof bool
	stop     terrain.Point // where the line of fire ended
}

// New creates a viewer. Visibility is computed once for the initial
// deployment.
func New(t *terrain.Terrain, xcorp, aliens *terrain.Team, scale int, logger zerolog.Logger) *Viewer {
	v := &Viewer{
		terrain:  t,
		xcorp:    xcorp,
		aliens:   aliens,
		log:      logger,
		scale:    scale,
		fog:      true,
		panel:    NewEventPanel(t.Journal()),
		face:     text.NewGoXFace(basicfont.Face7x13),
		prevKeys: map[ebiten.Key]bool{},
	}
	if members := xcorp.Alive(); len(members) > 0 {
		v.selected = members[0]
		v.level = members[0].Cell().Y
	}
	v.updateVisibility()
	for _, c := range xcorp.Alive() {
		t.RevealFrom(c)
	}
	return v
}

// WindowSize returns the window size that fits the map and the event panel.
func (v *Viewer) WindowSize() (int, int) {
	w := borderWidth*2 + v.terrain.Width()*v.scale + panelWidth
	h := max(borderWidth*2+v.terrain.Length()*v.scale+hudHeight, panelMinHeight)
	return w, h
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.WindowSize()
}

func (v *Viewer) Update() error {
	v.handleInput()
	return nil
}

// updateVisibility refreshes every X-Corp/alien pair.
func (v *Viewer) updateVisibility() {
	v.terrain.SetTurn(v.turn)
	enemies := v.aliens.Members
	for _, c := range v.xcorp.Members {
		v.terrain.UpdateVisibility(c, enemies)
	}
}

// justPressed reports a key edge and records the key state for next frame.
func (v *Viewer) justPressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !v.prevKeys[k]
}

func (v *Viewer) handleInput() {
	cur := map[ebiten.Key]bool{}

	// Level selection.
	if v.justPressed(cur, ebiten.KeyPageUp) && v.level+1 < v.terrain.Levels() {
		v.level++
	}
	if v.justPressed(cur, ebiten.KeyPageDown) && v.level > 0 {
		v.level--
	}

	// F: fog of war on/off.
	if v.justPressed(cur, ebiten.KeyF) {
		v.fog = !v.fog
	}

	// Tab: cycle the selected combatant.
	if v.justPressed(cur, ebiten.KeyTab) {
		v.selectNext()
	}

	// R: reveal from the selected combatant.
	if v.justPressed(cur, ebiten.KeyR) && v.selected != nil {
		n := v.terrain.RevealFrom(v.selected)
		v.status = fmt.Sprintf("%s revealed %d cells", v.selected.Name, n)
	}

	// C: copy the current level to the clipboard.
	if v.justPressed(cur, ebiten.KeyC) {
		v.copyLevel()
	}

	// Q/E: turn the selected combatant by 45 degrees.
	if v.justPressed(cur, ebiten.KeyQ) {
		v.turnSelected(-1)
	}
	if v.justPressed(cur, ebiten.KeyE) {
		v.turnSelected(1)
	}

	// Arrows and numpad diagonals step the selected combatant.
	for k, d := range stepKeys {
		if v.justPressed(cur, k) {
			v.stepSelected(d)
		}
	}

	// Left click: select a combatant, otherwise set a probe end.
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if left && !v.prevMouseLeft {
		mx, my := ebiten.CursorPosition()
		if p, ok := screenToCell(mx, my, v.scale, v.level, v.terrain); ok {
			v.click(p)
		}
	}
	v.prevMouseLeft = left
	v.prevKeys = cur
}

var stepKeys = map[ebiten.Key]terrain.Direction{
	ebiten.KeyArrowUp:    terrain.North,
	ebiten.KeyArrowDown:  terrain.South,
	ebiten.KeyArrowRight: terrain.East,
	ebiten.KeyArrowLeft:  terrain.West,
	ebiten.KeyNumpad9:    terrain.NorthEast,
	ebiten.KeyNumpad7:    terrain.NorthWest,
	ebiten.KeyNumpad3:    terrain.SouthEast,
	ebiten.KeyNumpad1:    terrain.SouthWest,
}

// screenToCell maps a cursor position to a cell on the shown level.
func screenToCell(mx, my, scale, level int, t *terrain.Terrain) (terrain.Point, bool) {
	if mx < borderWidth || my < borderWidth {
		return terrain.Point{}, false
	}
	p := terrain.Point{X: (mx - borderWidth) / scale, Y: level, Z: (my - borderWidth) / scale}
	return p, t.IsOnTerrain(p.X, p.Y, p.Z)
}

func (v *Viewer) click(p terrain.Point) {
	if c := v.terrain.CombatantAt(p.X, p.Y, p.Z); c != nil {
		v.selected = c
		v.status = fmt.Sprintf("selected %s (%s) at %s", c.Name, c.Faction, p)
		return
	}
	switch v.probe.points {
	case 0, 2:
		v.probe = probe{from: p, points: 1}
		v.status = fmt.Sprintf("probe from %s", p)
	case 1:
		v.probe.to = p
		v.probe.points = 2
		from, to := v.probe.from.Centre(), p.Centre()
		v.probe.los = v.terrain.IsLineOfSight(from, to)
		lof, end := v.terrain.IsLineOfSightWith(from, to, terrain.CheckLineOfFire)
		v.probe.lof = lof
		v.probe.stop = terrain.PointOf(end)
		v.status = fmt.Sprintf("%s -> %s  los=%t  lof=%t", v.probe.from, p, v.probe.los, v.probe.lof)
		v.log.Debug().
			Stringer("from", v.probe.from).
			Stringer("to", p).
			Bool("los", v.probe.los).
			Bool("lof", v.probe.lof).
			Msg("probe")
	}
}

func (v *Viewer) selectNext() {
	all := append(v.xcorp.Alive(), v.aliens.Alive()...)
	if len(all) == 0 {
		v.selected = nil
		return
	}
	next := 0
	for i, c := range all {
		if c == v.selected {
			next = (i + 1) % len(all)
		}
	}
	v.selected = all[next]
	v.level = v.selected.Cell().Y
}

func (v *Viewer) turnSelected(octants int) {
	if v.selected == nil {
		return
	}
	v.selected.Heading = math.Remainder(v.selected.Heading+float64(octants)*headingStep, 2*math.Pi)
	v.turn++
	v.updateVisibility()
}

// stepSelected moves the selected combatant one cell if the terrain allows.
func (v *Viewer) stepSelected(d terrain.Direction) {
	c := v.selected
	if c == nil || !v.terrain.OnTerrain(c) {
		return
	}
	from := c.Cell()
	dy := v.terrain.CanMoveHorizontal(from.X, from.Y, from.Z, c.CanFly, d)
	if dy == terrain.CannotMove {
		v.status = fmt.Sprintf("%s cannot move %s", c.Name, d)
		return
	}
	dx, dz := d.Delta()
	to := from.Add(dx, dy, dz)
	v.terrain.MoveCombatant(c, from, to)
	v.level = to.Y
	v.turn++
	v.updateVisibility()
	if c.Faction == terrain.FactionXCorp {
		v.terrain.RevealFrom(c)
	}
}

func (v *Viewer) copyLevel() {
	dump := v.terrain.DumpLevel(v.level, v.fog)
	if err := clipboard.WriteAll(dump); err != nil {
		v.log.Warn().Err(err).Msg("clipboard unavailable")
		v.status = "clipboard unavailable"
		return
	}
	v.status = fmt.Sprintf("level %d copied to clipboard", v.level)
}
