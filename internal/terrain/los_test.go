package terrain

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestLOS_Reflexive(t *testing.T) {
	tr := newTestTerrain(3, 2, 3, withGround(pt(1, 0, 1), faceCrate))
	for _, p := range []Point{pt(0, 0, 0), pt(1, 0, 1), pt(2, 1, 2)} {
		if !tr.IsLineOfSight(p.Centre(), p.Centre()) {
			t.Fatalf("LOS %s to itself should be true", p)
		}
	}
	// Points anywhere inside the same cell snap to its centre.
	if !tr.IsLineOfSight(r3.Vec{X: 1.1, Y: 0.2, Z: 1.9}, r3.Vec{X: 1.8, Y: 0.9, Z: 1.0}) {
		t.Fatal("two points in one cell should see each other")
	}
}

func TestLOS_ViewBlockingCellOccludes(t *testing.T) {
	tr := newTestTerrain(5, 1, 1, withGround(pt(2, 0, 0), faceCrate))
	from, to := pt(0, 0, 0).Centre(), pt(4, 0, 0).Centre()
	if tr.IsLineOfSight(from, to) {
		t.Fatal("crate in the corridor should block sight")
	}
	if tr.IsLineOfSight(to, from) {
		t.Fatal("crate should block sight in the reverse direction too")
	}
	tr.SetCell(2, 0, 0, NewCell(0, 0, 0))
	if !tr.IsLineOfSight(from, to) {
		t.Fatal("corridor without the crate should be clear")
	}
}

func TestLOS_ReturnsImpactPosition(t *testing.T) {
	tr := newTestTerrain(5, 1, 1, withGround(pt(2, 0, 0), faceCrate))
	ok, last := tr.IsLineOfSightWith(pt(0, 0, 0).Centre(), pt(4, 0, 0).Centre(), CheckNone)
	if ok {
		t.Fatal("expected blocked ray")
	}
	if PointOf(last) != pt(2, 0, 0) {
		t.Fatalf("ray stopped at %v (%s), want inside the crate cell", last, PointOf(last))
	}
	ok, last = tr.IsLineOfSightWith(pt(3, 0, 0).Centre(), pt(4, 0, 0).Centre(), CheckNone)
	if !ok || PointOf(last) != pt(4, 0, 0) {
		t.Fatalf("clear ray ended at %s ok=%v", PointOf(last), ok)
	}
}

func TestLOS_OpaqueWallBlocksSolidWallDoesNot(t *testing.T) {
	brick := newTestTerrain(4, 1, 1, withWestWall(pt(2, 0, 0), wallBrick))
	if brick.IsLineOfSight(pt(0, 0, 0).Centre(), pt(3, 0, 0).Centre()) {
		t.Fatal("brick wall should block sight")
	}
	window := newTestTerrain(4, 1, 1, withWestWall(pt(2, 0, 0), wallWindow))
	if !window.IsLineOfSight(pt(0, 0, 0).Centre(), pt(3, 0, 0).Centre()) {
		t.Fatal("window is solid but transparent")
	}
	curtain := newTestTerrain(4, 1, 1, withWestWall(pt(2, 0, 0), wallCurtain))
	if curtain.IsLineOfSight(pt(3, 0, 0).Centre(), pt(0, 0, 0).Centre()) {
		t.Fatal("curtain is passable but opaque")
	}
}

func TestLOS_NorthWallBlocksZRay(t *testing.T) {
	tr := newTestTerrain(1, 1, 4, withNorthWall(pt(0, 0, 2), wallBrick))
	if tr.IsLineOfSight(pt(0, 0, 0).Centre(), pt(0, 0, 3).Centre()) {
		t.Fatal("north wall should block a north-south ray")
	}
	if !tr.IsLineOfSight(pt(0, 0, 0).Centre(), pt(0, 0, 1).Centre()) {
		t.Fatal("cells north of the wall see each other")
	}
}

func TestLOS_DiagonalRayCrossesSideWall(t *testing.T) {
	// The ray from (0,0) to (3,1) is x-dominant and changes row on its
	// second step, crossing the north face of (2,0,1).
	tr := newTestTerrain(4, 1, 2, withNorthWall(pt(2, 0, 1), wallBrick))
	if tr.IsLineOfSight(pt(0, 0, 0).Centre(), pt(3, 0, 1).Centre()) {
		t.Fatal("ray changing row through a wall should be blocked")
	}
	if !tr.IsLineOfSight(pt(0, 0, 0).Centre(), pt(3, 0, 0).Centre()) {
		t.Fatal("ray along row 0 should not touch the wall")
	}
}

func TestLOS_FloorBlocksVerticalRay(t *testing.T) {
	tr := newTestTerrain(1, 2, 1)
	if tr.IsLineOfSight(pt(0, 0, 0).Centre(), pt(0, 1, 0).Centre()) {
		t.Fatal("flat floor between levels should block sight upwards")
	}
	if tr.IsLineOfSight(pt(0, 1, 0).Centre(), pt(0, 0, 0).Centre()) {
		t.Fatal("flat floor between levels should block sight downwards")
	}
	open := newTestTerrain(1, 2, 1, withGround(pt(0, 1, 0), faceOpen))
	if !open.IsLineOfSight(pt(0, 0, 0).Centre(), pt(0, 1, 0).Centre()) {
		t.Fatal("missing floor should not block sight")
	}
}

func TestLOS_DownGravLiftSeeThrough(t *testing.T) {
	for _, tier := range []FloorTier{Floor0, Floor30, Floor70} {
		lift := GroundFace{Flags: TierFlag(tier) | GroundDownGravLift}
		tr := newTestTerrain(1, 3, 1,
			withGround(pt(0, 1, 0), lift),
			withGround(pt(0, 2, 0), lift),
		)
		if !tr.IsLineOfSight(pt(0, 0, 0).Centre(), pt(0, 2, 0).Centre()) {
			t.Fatalf("down lift with tier %d should not block an upward ray", tier)
		}
		if !tr.IsLineOfSight(pt(0, 2, 0).Centre(), pt(0, 0, 0).Centre()) {
			t.Fatalf("down lift with tier %d should not block a downward ray", tier)
		}
	}
}

func TestLOS_UpGravLiftFloorBlocks(t *testing.T) {
	tr := newTestTerrain(1, 2, 1,
		withGround(pt(0, 0, 0), GroundFace{Flags: TierFlag(Floor0) | GroundUpGravLift}),
		withGround(pt(0, 1, 0), GroundFace{Flags: TierFlag(Floor0) | GroundUpGravLift}),
	)
	if tr.IsLineOfSight(pt(0, 0, 0).Centre(), pt(0, 1, 0).Centre()) {
		t.Fatal("only down lifts are see-through")
	}
}

func TestLOS_ShallowSlopeCrossesFloor(t *testing.T) {
	// x-dominant ray climbing one level must pass the floor of the upper
	// level in the column where it rises.
	tr := newTestTerrain(3, 2, 1)
	if tr.IsLineOfSight(pt(0, 0, 0).Centre(), pt(2, 1, 0).Centre()) {
		t.Fatal("floor of level 1 should block a rising ray")
	}
	open := newTestTerrain(3, 2, 1, withLevelGround(1, faceOpen))
	if !open.IsLineOfSight(pt(0, 0, 0).Centre(), pt(2, 1, 0).Centre()) {
		t.Fatal("with no upper floor the rising ray is clear")
	}
}

func TestLOS_BlockedButTransparent(t *testing.T) {
	tr := newTestTerrain(3, 1, 1, withGround(pt(1, 0, 0), faceBlocked))
	if !tr.IsLineOfSight(pt(0, 0, 0).Centre(), pt(2, 0, 0).Centre()) {
		t.Fatal("impassable cell without ViewBlocking should not block sight")
	}
}

func TestLOS_LineOfFireStopsAtOccupants(t *testing.T) {
	shooter := NewCombatant("X0", FactionXCorp, 0)
	target := NewCombatant("A0", FactionAlien, 0)
	bystander := NewCombatant("X1", FactionXCorp, 1)
	tr := newTestTerrain(5, 1, 1,
		withCombatant(shooter, pt(0, 0, 0)),
		withCombatant(target, pt(4, 0, 0)),
	)
	from, to := shooter.Position, target.Position
	if ok, _ := tr.IsLineOfSightWith(from, to, CheckLineOfFire); !ok {
		t.Fatal("target's own cell must not block the shot")
	}
	tr.PlaceCombatant(bystander, pt(2, 0, 0))
	ok, last := tr.IsLineOfSightWith(from, to, CheckLineOfFire)
	if ok {
		t.Fatal("bystander should block the line of fire")
	}
	if PointOf(last) != pt(2, 0, 0) {
		t.Fatalf("shot stopped at %s, want the bystander", PointOf(last))
	}
	if !tr.IsLineOfSight(from, to) {
		t.Fatal("occupants do not block plain sight")
	}
}

func TestLOS_MarkVisible(t *testing.T) {
	tr := newTestTerrain(6, 1, 1, withGround(pt(4, 0, 0), faceCrate))
	ok, _ := tr.IsLineOfSightWith(pt(0, 0, 0).Centre(), pt(5, 0, 0).Centre(), CheckMarkVisible)
	if ok {
		t.Fatal("crate should still block a marking ray")
	}
	for x, want := range []bool{false, true, true, true, false, false} {
		if got := tr.Cell(x, 0, 0).Has(PropSeen); got != want {
			t.Fatalf("cell %d seen=%v, want %v", x, got, want)
		}
	}
	if tr.SeenCells() != 3 {
		t.Fatalf("seen count %d", tr.SeenCells())
	}
}

func TestLOS_OffTerrainPanics(t *testing.T) {
	tr := New(2, 1, 2)
	mustPanic(t, "end off grid", func() {
		tr.IsLineOfSight(pt(0, 0, 0).Centre(), r3.Vec{X: 5, Y: 0, Z: 0})
	})
}

func TestLOS_FlatTerrainAllPairs(t *testing.T) {
	tr := newTestTerrain(3, 1, 3, withLevelGround(0, faceHigh))
	var cells []Point
	for z := 0; z < 3; z++ {
		for x := 0; x < 3; x++ {
			cells = append(cells, pt(x, 0, z))
		}
	}
	for _, a := range cells {
		for _, b := range cells {
			if !tr.IsLineOfSight(a.Centre(), b.Centre()) {
				t.Fatalf("flat terrain: no LOS %s -> %s", a, b)
			}
		}
	}
}
