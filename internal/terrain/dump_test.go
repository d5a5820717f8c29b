package terrain

import "testing"

func TestDumpLevel(t *testing.T) {
	tr := newTestTerrain(2, 1, 2,
		withNorthWall(pt(1, 0, 1), wallBrick),
		withCombatant(NewCombatant("X0", FactionXCorp, 0), pt(0, 0, 0)),
	)
	want := "level 0 (2x2)\n" +
		"+ + +\n" +
		" X .|\n" +
		"+ +-+\n" +
		" . .|\n" +
		"+-+-+\n"
	if got := tr.DumpLevel(0, false); got != want {
		t.Fatalf("dump mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestDumpLevel_Fog(t *testing.T) {
	tr := newTestTerrain(2, 1, 2, withCombatant(NewCombatant("A0", FactionAlien, 0), pt(1, 0, 1)))
	tr.SetCellProperty(0, 0, 0, PropSeen)
	want := "level 0 (2x2)\n" +
		"+ + +\n" +
		" . ?|\n" +
		"+ + +\n" +
		" ? ?|\n" +
		"+-+-+\n"
	if got := tr.DumpLevel(0, true); got != want {
		t.Fatalf("fogged dump mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestDumpLevel_Glyphs(t *testing.T) {
	tr := newTestTerrain(8, 1, 1,
		withGround(pt(0, 0, 0), faceBlocked),
		withGround(pt(1, 0, 0), faceCrate),
		withGround(pt(2, 0, 0), GroundFace{Flags: TierFlag(Floor0) | GroundUpGravLift}),
		withGround(pt(3, 0, 0), faceXCorpPad),
		withGround(pt(4, 0, 0), faceAlienPad),
		withGround(pt(5, 0, 0), GroundFace{Flags: TierFlag(Floor30)}),
		withGround(pt(6, 0, 0), faceOpen),
		withWestWall(pt(1, 0, 0), wallWindow),
		withWestWall(pt(2, 0, 0), wallCurtain),
	)
	tr.SetCellProperty(7, 0, 0, PropSmoke)
	want := "level 0 (8x1)\n" +
		"+ + + + + + + + +\n" +
		" #!B'^ x a :   %|\n" +
		"+-+-+-+-+-+-+-+-+\n"
	if got := tr.DumpLevel(0, false); got != want {
		t.Fatalf("glyph dump mismatch:\n%s\nwant:\n%s", got, want)
	}
	mustPanic(t, "level out of range", func() { tr.DumpLevel(1, false) })
}
