package terrain

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// VisibilityCheck is a per-cell hook run on every cell a ray enters.
type VisibilityCheck uint8

const (
	// CheckNone is a plain line-of-sight query.
	CheckNone VisibilityCheck = iota
	// CheckLineOfFire treats occupied cells as blocking, except the last
	// cell of the ray where the target stands.
	CheckLineOfFire
	// CheckMarkVisible sets PropSeen on every cell the ray reaches.
	CheckMarkVisible
)

// rayEpsilon nudges each step off exact cell boundaries.
const rayEpsilon = 0.001

type axis uint8

const (
	axisX axis = iota
	axisY
	axisZ
)

// snapToCentre moves a position to the centre of its cell.
func snapToCentre(v r3.Vec) r3.Vec {
	return r3.Vec{X: math.Floor(v.X) + 0.5, Y: math.Floor(v.Y) + 0.5, Z: math.Floor(v.Z) + 0.5}
}

// signOf returns -1 for negative values and +1 otherwise.
func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// dominantAxis picks the axis of greatest extent. Ties go to X, then Z, so a
// ray is only walked vertically when it climbs faster than it travels.
func dominantAxis(abs r3.Vec) axis {
	switch {
	case abs.X >= abs.Z && abs.X >= abs.Y:
		return axisX
	case abs.Z >= abs.Y:
		return axisZ
	default:
		return axisY
	}
}

// IsLineOfSight reports whether nothing blocks sight between the cells
// containing start and end.
func (t *Terrain) IsLineOfSight(start, end r3.Vec) bool {
	ok, _ := t.IsLineOfSightWith(start, end, CheckNone)
	return ok
}

// IsLineOfSightWith walks a ray from the centre of start's cell to the centre
// of end's cell, one cell per step along the dominant axis, and runs check on
// every cell entered. It returns false at the first obstruction along with
// the position sampled there; otherwise true and the final sample.
func (t *Terrain) IsLineOfSightWith(start, end r3.Vec, check VisibilityCheck) (bool, r3.Vec) {
	start, end = snapToCentre(start), snapToCentre(end)
	from, to := PointOf(start), PointOf(end)
	t.assertOnTerrain(from.X, from.Y, from.Z)
	t.assertOnTerrain(to.X, to.Y, to.Z)

	delta := r3.Sub(end, start)
	abs := r3.Vec{X: math.Abs(delta.X), Y: math.Abs(delta.Y), Z: math.Abs(delta.Z)}
	steps := int(math.Max(abs.X, math.Max(abs.Y, abs.Z)))
	if steps == 0 {
		return true, start
	}
	sign := r3.Vec{X: signOf(delta.X), Y: signOf(delta.Y), Z: signOf(delta.Z)}
	step := r3.Add(r3.Scale(1/float64(steps), delta), r3.Scale(rayEpsilon, sign))
	dominant := dominantAxis(abs)

	pos := start
	prev := from
	for i := 1; i <= steps; i++ {
		pos = r3.Add(pos, step)
		cur := PointOf(pos)

		var blocked bool
		switch dominant {
		case axisY:
			blocked = t.verticalStepBlocked(prev, cur)
		case axisX:
			blocked = t.xStepBlocked(prev, cur)
		default:
			blocked = t.zStepBlocked(prev, cur)
		}
		if blocked || !t.visit(check, cur, i == steps) {
			return false, pos
		}
		prev = cur
	}
	return true, pos
}

// verticalStepBlocked tests a step whose level always changes: the floor
// crossed under the old column, then the walls crossed on the new level.
func (t *Terrain) verticalStepBlocked(prev, cur Point) bool {
	if t.floorBlocksSight(prev.X, prev.Y, cur.Y, prev.Z) {
		return true
	}
	if cur.Z != prev.Z && t.zWall(prev.X, cur.Y, prev.Z, cur.Z).Opaque() {
		return true
	}
	if cur.X != prev.X && t.xWall(cur.Y, cur.Z, prev.X, cur.X).Opaque() {
		return true
	}
	return t.GroundFace(cur.X, cur.Y, cur.Z).ViewBlocking()
}

// xStepBlocked tests a step that always crosses an x boundary: the wall
// ahead, the z wall beside it, then any floor.
func (t *Terrain) xStepBlocked(prev, cur Point) bool {
	if t.xWall(prev.Y, prev.Z, prev.X, cur.X).Opaque() {
		return true
	}
	if cur.Z != prev.Z && t.zWall(cur.X, prev.Y, prev.Z, cur.Z).Opaque() {
		return true
	}
	if cur.Y != prev.Y && t.floorBlocksSight(cur.X, prev.Y, cur.Y, cur.Z) {
		return true
	}
	return t.GroundFace(cur.X, cur.Y, cur.Z).ViewBlocking()
}

// zStepBlocked mirrors xStepBlocked for rays travelling mostly north-south.
func (t *Terrain) zStepBlocked(prev, cur Point) bool {
	if t.zWall(prev.X, prev.Y, prev.Z, cur.Z).Opaque() {
		return true
	}
	if cur.X != prev.X && t.xWall(prev.Y, cur.Z, prev.X, cur.X).Opaque() {
		return true
	}
	if cur.Y != prev.Y && t.floorBlocksSight(cur.X, prev.Y, cur.Y, cur.Z) {
		return true
	}
	return t.GroundFace(cur.X, cur.Y, cur.Z).ViewBlocking()
}

// xWall returns the wall between columns x0 and x1 (adjacent) on row z.
// It is the west face of the eastern cell.
func (t *Terrain) xWall(y, z, x0, x1 int) WallFace {
	return t.walls[t.Cell(max(x0, x1), y, z).West]
}

// zWall returns the wall between rows z0 and z1 (adjacent) in column x.
// It is the north face of the southern cell.
func (t *Terrain) zWall(x, y, z0, z1 int) WallFace {
	return t.walls[t.Cell(x, y, max(z0, z1)).North]
}

// floorBlocksSight tests the floor between levels y0 and y1. Only floors are
// modelled, so the boundary belongs to the upper cell whichever way the ray
// travels.
func (t *Terrain) floorBlocksSight(x, y0, y1, z int) bool {
	return t.GroundFace(x, max(y0, y1), z).blocksSight()
}

// visit runs the per-cell hook. It reports false when the cell blocks.
func (t *Terrain) visit(check VisibilityCheck, p Point, last bool) bool {
	switch check {
	case CheckLineOfFire:
		return last || !t.IsOccupied(p.X, p.Y, p.Z)
	case CheckMarkVisible:
		t.SetCellProperty(p.X, p.Y, p.Z, PropSeen)
	}
	return true
}
