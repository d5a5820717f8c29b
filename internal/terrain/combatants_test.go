package terrain

import (
	"errors"
	"math"
	"testing"
)

func withPads(f GroundFace, ps ...Point) setup {
	return func(tr *Terrain) {
		idx := tr.AddGroundFace(f)
		for _, p := range ps {
			tr.cell(p.X, p.Y, p.Z).Ground = idx
		}
	}
}

func TestPlaceCombatant(t *testing.T) {
	tr := newTestTerrain(3, 1, 3)
	a := NewCombatant("X0", FactionXCorp, 0)
	b := NewCombatant("A0", FactionAlien, 0)
	tr.PlaceCombatant(a, pt(1, 0, 1))
	tr.PlaceCombatant(b, pt(2, 0, 2))

	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("ids %d, %d; want 1, 2", a.ID, b.ID)
	}
	if a.Position != pt(1, 0, 1).Centre() || a.Cell() != pt(1, 0, 1) {
		t.Fatalf("position %v", a.Position)
	}
	if tr.CombatantAt(1, 0, 1) != a || tr.Combatant(2) != b {
		t.Fatal("lookup mismatch")
	}
	if tr.CombatantAt(0, 0, 0) != nil || tr.Combatant(0) != nil || tr.Combatant(9) != nil {
		t.Fatal("empty lookups should be nil")
	}
	if got := len(tr.Combatants()); got != 2 {
		t.Fatalf("combatants %d", got)
	}
	if !tr.Journal().HasEntry("deploy", "place", "(2,0,2)") {
		t.Fatal("placement not journaled")
	}

	mustPanic(t, "occupied", func() { tr.PlaceCombatant(NewCombatant("X1", FactionXCorp, 1), pt(1, 0, 1)) })
	mustPanic(t, "twice", func() { tr.PlaceCombatant(a, pt(0, 0, 0)) })
	mustPanic(t, "off grid", func() { tr.PlaceCombatant(NewCombatant("X2", FactionXCorp, 2), pt(3, 0, 0)) })
}

func TestMoveCombatant(t *testing.T) {
	c := NewCombatant("X0", FactionXCorp, 0)
	tr := newTestTerrain(3, 2, 1, withCombatant(c, pt(0, 0, 0)))
	tr.MoveCombatant(c, pt(0, 0, 0), pt(1, 1, 0))

	if tr.IsOccupied(0, 0, 0) || tr.CombatantAt(1, 1, 0) != c {
		t.Fatal("grid not updated")
	}
	if c.Cell() != pt(1, 1, 0) {
		t.Fatalf("combatant at %s", c.Cell())
	}
	if !tr.Journal().HasEntry("move", "step", "(1,1,0)") {
		t.Fatal("move not journaled")
	}

	mustPanic(t, "wrong source", func() { tr.MoveCombatant(c, pt(0, 0, 0), pt(2, 0, 0)) })
	other := NewCombatant("A0", FactionAlien, 0)
	tr.PlaceCombatant(other, pt(2, 0, 0))
	mustPanic(t, "occupied destination", func() { tr.MoveCombatant(c, pt(1, 1, 0), pt(2, 0, 0)) })
	if tr.CombatantAt(1, 1, 0) != c {
		t.Fatal("failed move must not disturb the grid")
	}
}

func TestRemoveCombatant(t *testing.T) {
	c := NewCombatant("X0", FactionXCorp, 0)
	tr := newTestTerrain(2, 1, 1, withCombatant(c, pt(1, 0, 0)))
	id := c.ID
	tr.RemoveCombatant(c)

	if tr.IsOccupied(1, 0, 0) || tr.Combatant(id) != nil || tr.OnTerrain(c) {
		t.Fatal("combatant still on the terrain")
	}
	if len(tr.Combatants()) != 0 {
		t.Fatal("combatant list not updated")
	}
	mustPanic(t, "remove twice", func() { tr.RemoveCombatant(c) })

	tr.PlaceCombatant(c, pt(0, 0, 0))
	if c.ID != id {
		t.Fatalf("re-placed combatant got id %d, want its old id %d", c.ID, id)
	}
	if tr.Journal().CountCategory("remove", "") != 1 {
		t.Fatal("removal not journaled")
	}
}

func TestNewTeam(t *testing.T) {
	team := NewTeam(FactionAlien, "A", 3)
	if len(team.Members) != 3 || team.Members[2].Name != "A2" || team.Members[2].Slot != 2 {
		t.Fatalf("unexpected roster %+v", team.Members)
	}
	team.Members[1].Alive = false
	if got := len(team.Alive()); got != 2 {
		t.Fatalf("alive %d", got)
	}
	if FactionAlien.String() != "alien" || FactionXCorp.String() != "xcorp" {
		t.Fatal("faction names")
	}
}

func TestDeployXCorpTeam(t *testing.T) {
	pads := []Point{pt(0, 0, 0), pt(1, 0, 0), pt(2, 0, 0), pt(0, 0, 1), pt(1, 0, 1), pt(2, 0, 1)}
	tr := newTestTerrain(4, 1, 4,
		withPads(faceXCorpPad, pads...),
		withPads(faceAlienPad, pt(3, 0, 3)),
	)
	team := NewTeam(FactionXCorp, "X", 4)
	if err := tr.DeployXCorpTeam(team); err != nil {
		t.Fatalf("deploy: %v", err)
	}

	used := map[Point]bool{}
	for _, c := range team.Members {
		p := c.Cell()
		if used[p] {
			t.Fatalf("two combatants on %s", p)
		}
		used[p] = true
		if !tr.GroundFace(p.X, p.Y, p.Z).Flags.Has(GroundXCorpStart) {
			t.Fatalf("%s deployed off-pad at %s", c.Name, p)
		}
		if tr.CombatantAt(p.X, p.Y, p.Z) != c {
			t.Fatalf("%s not recorded in its cell", c.Name)
		}
		steps := c.Heading / (math.Pi / 4)
		if math.Abs(steps-math.Round(steps)) > 1e-9 || c.Heading <= -math.Pi || c.Heading > math.Pi {
			t.Fatalf("%s heading %v is not an octant in (-pi, pi]", c.Name, c.Heading)
		}
	}
}

func TestDeployAlienTeam_SkipsDeadAndPlaced(t *testing.T) {
	tr := newTestTerrain(3, 1, 1, withPads(faceAlienPad, pt(0, 0, 0), pt(1, 0, 0), pt(2, 0, 0)))
	team := NewTeam(FactionAlien, "A", 3)
	team.Members[0].Alive = false
	tr.PlaceCombatant(team.Members[1], pt(1, 0, 0))

	if err := tr.DeployAlienTeam(team); err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if tr.OnTerrain(team.Members[0]) {
		t.Fatal("dead member deployed")
	}
	if team.Members[1].Cell() != pt(1, 0, 0) {
		t.Fatal("already placed member moved")
	}
	if !tr.OnTerrain(team.Members[2]) {
		t.Fatal("living member left out")
	}
}

func TestDeploy_NotEnoughTiles(t *testing.T) {
	tr := newTestTerrain(3, 1, 1, withPads(faceXCorpPad, pt(0, 0, 0), pt(2, 0, 0)))
	err := tr.DeployXCorpTeam(NewTeam(FactionXCorp, "X", 3))
	if !errors.Is(err, ErrNoStartTiles) {
		t.Fatalf("got %v, want ErrNoStartTiles", err)
	}
	if len(tr.Combatants()) != 0 {
		t.Fatal("a failed deployment must not place anyone")
	}
	if err := tr.DeployAlienTeam(NewTeam(FactionAlien, "A", 1)); !errors.Is(err, ErrNoStartTiles) {
		t.Fatalf("map without alien pads: %v", err)
	}
}

func TestDeploy_DeterministicForSeed(t *testing.T) {
	pads := []Point{pt(0, 0, 0), pt(1, 0, 0), pt(2, 0, 0), pt(3, 0, 0), pt(4, 0, 0)}
	layout := func() []Point {
		tr := newTestTerrain(5, 1, 1, withPads(faceXCorpPad, pads...))
		team := NewTeam(FactionXCorp, "X", 3)
		if err := tr.DeployXCorpTeam(team); err != nil {
			t.Fatalf("deploy: %v", err)
		}
		var out []Point
		for _, c := range team.Members {
			out = append(out, c.Cell())
		}
		return out
	}
	first, second := layout(), layout()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("seeded deployment differs: %v vs %v", first, second)
		}
	}
}
