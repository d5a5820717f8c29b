package terrain

// Movement costs in time units.
const (
	VerticalMoveCost   = 2
	HorizontalMoveCost = 2
	DiagonalMoveCost   = 3 // rounded down from 2*sqrt(2) to stay integral
)

// CannotMove is returned by CanMoveHorizontal when the step is illegal.
const CannotMove = 2

// maxNeighbours is up, down and the eight horizontal directions.
const maxNeighbours = 10

// Direction is one of the eight horizontal compass directions. North is -z,
// west is -x.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

var horizontalDirections = [...]Direction{North, South, East, West, NorthEast, NorthWest, SouthEast, SouthWest}

// Delta returns the x and z offsets of one step in d.
func (d Direction) Delta() (dx, dz int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	case NorthEast:
		return 1, -1
	case NorthWest:
		return -1, -1
	case SouthEast:
		return 1, 1
	case SouthWest:
		return -1, 1
	}
	panic("terrain: bad direction")
}

// Diagonal reports whether d moves along both axes.
func (d Direction) Diagonal() bool { return d >= NorthEast }

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	case NorthEast:
		return "NE"
	case NorthWest:
		return "NW"
	case SouthEast:
		return "SE"
	case SouthWest:
		return "SW"
	}
	return "?"
}

// Cost returns the time units of one step in d.
func (d Direction) Cost() int {
	if d.Diagonal() {
		return DiagonalMoveCost
	}
	return HorizontalMoveCost
}

// ListAccessibleNeighbours appends to out every cell a combatant at (x, y, z)
// can reach in one step, with its cost, and returns the extended slice.
func (t *Terrain) ListAccessibleNeighbours(x, y, z int, canFly bool, out []MoveData) []MoveData {
	t.assertOnTerrain(x, y, z)
	if out == nil {
		out = make([]MoveData, 0, maxNeighbours)
	}
	if t.CanMoveUp(x, y, z, canFly) {
		out = append(out, NewMoveData(x, y+1, z, VerticalMoveCost))
	}
	if t.CanMoveDown(x, y, z, canFly) {
		out = append(out, NewMoveData(x, y-1, z, VerticalMoveCost))
	}
	for _, d := range horizontalDirections {
		dy := t.CanMoveHorizontal(x, y, z, canFly, d)
		if dy == CannotMove {
			continue
		}
		dx, dz := d.Delta()
		out = append(out, NewMoveData(x+dx, y+dy, z+dz, d.Cost()))
	}
	return out
}

// CanMoveUp reports whether a combatant can rise one level from (x, y, z).
func (t *Terrain) CanMoveUp(x, y, z int, canFly bool) bool {
	t.assertOnTerrain(x, y, z)
	if y+1 >= t.levels || t.IsOccupied(x, y+1, z) {
		return false
	}
	if t.GroundFace(x, y, z).UpGravLift() {
		return true
	}
	above := t.GroundFace(x, y+1, z)
	return canFly && !above.HasFloor() && !above.Blocked()
}

// CanMoveDown reports whether a combatant can drop one level from (x, y, z).
func (t *Terrain) CanMoveDown(x, y, z int, canFly bool) bool {
	t.assertOnTerrain(x, y, z)
	if y == 0 || t.IsOccupied(x, y-1, z) {
		return false
	}
	here := t.GroundFace(x, y, z)
	if here.DownGravLift() {
		return true
	}
	return canFly && !here.HasFloor() && !t.GroundFace(x, y-1, z).Blocked()
}

// CanMoveHorizontal tests one step from (sx, sy, sz) in direction d. It
// returns CannotMove, or the level change of the step: +1 when climbing onto
// the level above, negative when a walker drops through missing floors.
func (t *Terrain) CanMoveHorizontal(sx, sy, sz int, canFly bool, d Direction) int {
	t.assertOnTerrain(sx, sy, sz)
	dx, dz := d.Delta()
	nx, nz := sx+dx, sz+dz
	if !t.IsOnTerrain(nx, sy, nz) {
		return CannotMove
	}
	src := t.GroundFace(sx, sy, sz)
	if !src.CanMoveOff(canFly) || t.wallBlocksMove(sx, sy, sz, d) {
		return CannotMove
	}

	dy := 0
	switch {
	case t.canClimb(src, sy, nx, nz):
		dy = 1
	case t.GroundFace(nx, sy, nz).Blocked():
		return CannotMove
	case !canFly:
		for y := sy; !t.GroundFace(nx, y, nz).HasFloor(); y-- {
			if y == 0 || t.GroundFace(nx, y-1, nz).Blocked() {
				return CannotMove
			}
			dy--
		}
	}
	if t.IsOccupied(nx, sy+dy, nz) {
		return CannotMove
	}
	return dy
}

// canClimb reports whether a step off a high floor lands on the flat floor
// of the level above the destination column.
func (t *Terrain) canClimb(src GroundFace, sy, nx, nz int) bool {
	if src.Tier() != Floor70 || sy+1 >= t.levels {
		return false
	}
	above := t.GroundFace(nx, sy+1, nz)
	return above.Tier() == Floor0 && !above.Blocked()
}

// wallBlocksMove tests the walls a step in d passes. A diagonal step checks
// both flanking walls at the source and at the destination, so it cannot
// slip between two walls meeting at a corner.
func (t *Terrain) wallBlocksMove(x, y, z int, d Direction) bool {
	switch d {
	case North:
		return t.WallFace(x, y, z, SideNorth).Solid()
	case South:
		return t.WallFace(x, y, z, SideSouth).Solid()
	case East:
		return t.WallFace(x, y, z, SideEast).Solid()
	case West:
		return t.WallFace(x, y, z, SideWest).Solid()
	}
	dx, dz := d.Delta()
	sideX, backX := SideEast, SideWest
	if dx < 0 {
		sideX, backX = SideWest, SideEast
	}
	sideZ, backZ := SideSouth, SideNorth
	if dz < 0 {
		sideZ, backZ = SideNorth, SideSouth
	}
	nx, nz := x+dx, z+dz
	return t.WallFace(x, y, z, sideX).Solid() ||
		t.WallFace(x, y, z, sideZ).Solid() ||
		t.WallFace(nx, y, nz, backX).Solid() ||
		t.WallFace(nx, y, nz, backZ).Solid()
}
