package terrain

import (
	"fmt"
	"strings"
)

// DumpLevel renders one level as ASCII, north at the top. Each cell is drawn
// as its west wall followed by a glyph; north walls sit on the line above.
// With fog set, cells nobody has seen are drawn as '?'.
//
//	walls:  - |  opaque and solid    = !  solid only    . '  opaque only
//	floors: ' ' none  . flat  : low step  = high step  # blocked  B view-blocking
//	marks:  ^ v grav lifts  x a start tiles  X A occupants  % smoke  * mine
func (t *Terrain) DumpLevel(y int, fog bool) string {
	t.assertOnTerrain(0, y, 0)
	var sb strings.Builder
	fmt.Fprintf(&sb, "level %d (%dx%d)\n", y, t.width, t.length)
	for z := 0; z < t.length; z++ {
		for x := 0; x < t.width; x++ {
			sb.WriteByte('+')
			sb.WriteByte(wallGlyph(t.WallFace(x, y, z, SideNorth), '-', '=', '.'))
		}
		sb.WriteString("+\n")
		for x := 0; x < t.width; x++ {
			sb.WriteByte(wallGlyph(t.WallFace(x, y, z, SideWest), '|', '!', '\''))
			sb.WriteByte(t.cellGlyph(x, y, z, fog))
		}
		sb.WriteString("|\n")
	}
	for x := 0; x < t.width; x++ {
		sb.WriteString("+-")
	}
	sb.WriteString("+\n")
	return sb.String()
}

func wallGlyph(w WallFace, both, solid, opaque byte) byte {
	switch {
	case w.Solid() && w.Opaque():
		return both
	case w.Solid():
		return solid
	case w.Opaque():
		return opaque
	default:
		return ' '
	}
}

func (t *Terrain) cellGlyph(x, y, z int, fog bool) byte {
	c := t.Cell(x, y, z)
	if fog && !c.Has(PropSeen) {
		return '?'
	}
	if occ := t.Combatant(c.Combatant); occ != nil {
		if occ.Faction == FactionAlien {
			return 'A'
		}
		return 'X'
	}
	switch {
	case c.Has(PropSmoke):
		return '%'
	case c.Has(PropProximityMine):
		return '*'
	}
	g := t.grounds[c.Ground]
	switch {
	case g.Blocked():
		return '#'
	case g.ViewBlocking():
		return 'B'
	case g.UpGravLift():
		return '^'
	case g.DownGravLift():
		return 'v'
	case g.Flags.Has(GroundXCorpStart):
		return 'x'
	case g.Flags.Has(GroundAlienStart):
		return 'a'
	}
	switch g.Tier() {
	case Floor0:
		return '.'
	case Floor30:
		return ':'
	case Floor70:
		return '='
	default:
		return ' '
	}
}
