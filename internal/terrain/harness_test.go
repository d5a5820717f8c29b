package terrain

import (
	"math/rand"
	"testing"
)

// Common faces used across tests.
var (
	faceFlat     = GroundFace{Flags: TierFlag(Floor0)}
	faceHigh     = GroundFace{Flags: TierFlag(Floor70)}
	faceOpen     = GroundFace{Flags: TierFlag(FloorNone)}
	faceBlocked  = GroundFace{Flags: TierFlag(Floor0) | GroundBlocked}
	faceCrate    = GroundFace{Flags: TierFlag(Floor0) | GroundViewBlocking}
	faceXCorpPad = GroundFace{Flags: TierFlag(Floor0) | GroundXCorpStart}
	faceAlienPad = GroundFace{Flags: TierFlag(Floor0) | GroundAlienStart}
	wallBrick    = WallFace{Flags: WallOpaque | WallSolid, Texture: 3}
	wallWindow   = WallFace{Flags: WallSolid, Texture: 4}
	wallCurtain  = WallFace{Flags: WallOpaque, Texture: 5}
)

// setup mutates a test terrain after construction.
type setup func(*Terrain)

// newTestTerrain builds a terrain and applies setups in order. Every test
// terrain has a journal and a fixed seed.
func newTestTerrain(width, levels, length int, setups ...setup) *Terrain {
	tr := New(width, levels, length,
		WithRand(rand.New(rand.NewSource(7))), // #nosec G404 -- test determinism
		WithJournal(NewJournal()),
	)
	for _, s := range setups {
		s(tr)
	}
	return tr
}

func withGround(p Point, f GroundFace) setup {
	return func(tr *Terrain) {
		tr.cell(p.X, p.Y, p.Z).Ground = tr.AddGroundFace(f)
	}
}

// withLevelGround sets the ground of every cell on level y.
func withLevelGround(y int, f GroundFace) setup {
	return func(tr *Terrain) {
		idx := tr.AddGroundFace(f)
		for z := 0; z < tr.Length(); z++ {
			for x := 0; x < tr.Width(); x++ {
				tr.cell(x, y, z).Ground = idx
			}
		}
	}
}

func withNorthWall(p Point, w WallFace) setup {
	return func(tr *Terrain) {
		tr.cell(p.X, p.Y, p.Z).North = tr.AddWallFace(w)
	}
}

func withWestWall(p Point, w WallFace) setup {
	return func(tr *Terrain) {
		tr.cell(p.X, p.Y, p.Z).West = tr.AddWallFace(w)
	}
}

// withCombatant places a named combatant at p.
func withCombatant(c *Combatant, p Point) setup {
	return func(tr *Terrain) {
		tr.PlaceCombatant(c, p)
	}
}

func mustPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", what)
		}
	}()
	fn()
}

func pt(x, y, z int) Point { return Point{X: x, Y: y, Z: z} }
