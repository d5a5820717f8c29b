package terrain

import (
	"errors"
	"testing"
)

func TestParseCell_RoundTrip(t *testing.T) {
	c, err := ParseCell("1a2b3c")
	if err != nil {
		t.Fatalf("ParseCell: %v", err)
	}
	if c.Ground != 0x1a || c.North != 0x2b || c.West != 0x3c {
		t.Fatalf("got ground=%#x north=%#x west=%#x, want 0x1a 0x2b 0x3c", c.Ground, c.North, c.West)
	}
	if c.String() != "1a2b3c" {
		t.Fatalf("String() = %q, want 1a2b3c", c.String())
	}
	if c.Occupied() || c.Props != 0 {
		t.Fatal("parsed cell should be empty with no properties")
	}
}

func TestParseCell_UpperCase(t *testing.T) {
	c, err := ParseCell("FF00A0")
	if err != nil {
		t.Fatalf("ParseCell: %v", err)
	}
	if c != NewCell(0xff, 0x00, 0xa0) {
		t.Fatalf("got %+v", c)
	}
}

func TestParseCell_Malformed(t *testing.T) {
	for _, s := range []string{"", "1a2b3", "1a2b3c4", "1g2b3c", "-12b3c", "  2b3c"} {
		if _, err := ParseCell(s); !errors.Is(err, ErrFormat) {
			t.Fatalf("ParseCell(%q) err=%v, want ErrFormat", s, err)
		}
	}
}

func TestMustParseCell_Panics(t *testing.T) {
	mustPanic(t, "MustParseCell", func() { MustParseCell("xyz") })
}

func TestCell_Has(t *testing.T) {
	c := Cell{Props: PropSeen | PropSmoke}
	if !c.Has(PropSeen) || !c.Has(PropSmoke) || c.Has(PropProximityMine) {
		t.Fatalf("unexpected property bits %b", c.Props)
	}
	if c.Has(PropSeen | PropProximityMine) {
		t.Fatal("Has should require every bit")
	}
}

func TestGroundFace_TierAndHeight(t *testing.T) {
	cases := []struct {
		tier   FloorTier
		height float64
		floor  bool
	}{
		{FloorNone, 0, false},
		{Floor0, 0, true},
		{Floor30, 0.33, true},
		{Floor70, 0.67, true},
	}
	for _, tc := range cases {
		g := GroundFace{Flags: TierFlag(tc.tier) | GroundViewBlocking | GroundXCorpStart}
		if g.Tier() != tc.tier {
			t.Fatalf("tier %d read back as %d", tc.tier, g.Tier())
		}
		if g.Height() != tc.height {
			t.Fatalf("tier %d height=%f, want %f", tc.tier, g.Height(), tc.height)
		}
		if g.HasFloor() != tc.floor {
			t.Fatalf("tier %d HasFloor=%v", tc.tier, g.HasFloor())
		}
	}
}

func TestGroundFace_CanMoveOff(t *testing.T) {
	if !faceFlat.CanMoveOff(false) {
		t.Fatal("walker should leave a flat floor")
	}
	if faceOpen.CanMoveOff(false) {
		t.Fatal("walker with no floor under it cannot move off")
	}
	if !faceOpen.CanMoveOff(true) {
		t.Fatal("flier can leave open air")
	}
	if faceBlocked.CanMoveOff(true) {
		t.Fatal("blocked cell can never be moved off")
	}
}

func TestGroundFace_IsExitTile(t *testing.T) {
	if !faceXCorpPad.IsExitTile() {
		t.Fatal("X-Corp start should be an exit tile")
	}
	if faceAlienPad.IsExitTile() || faceFlat.IsExitTile() {
		t.Fatal("only X-Corp start tiles are exits")
	}
}

func TestGroundFlag_BitsDoNotOverlapTier(t *testing.T) {
	for _, f := range []GroundFlag{GroundBlocked, GroundViewBlocking, GroundUpGravLift, GroundDownGravLift, GroundAlienStart, GroundXCorpStart} {
		if f&FloorTierMask != 0 {
			t.Fatalf("flag %b overlaps the tier bits", f)
		}
	}
}

func TestWallFace_IndependentBits(t *testing.T) {
	if !wallWindow.Solid() || wallWindow.Opaque() {
		t.Fatal("window should be solid and transparent")
	}
	if wallCurtain.Solid() || !wallCurtain.Opaque() {
		t.Fatal("curtain should be opaque and passable")
	}
}
