package mission

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/Garsondee/battlescape/internal/terrain"
)

// Build creates a terrain from a validated descriptor. Faces are registered
// in descriptor order and every layout row is decoded with SetCells. On any
// error no terrain is returned.
func Build(desc *Descriptor, rng *rand.Rand, logger zerolog.Logger, opts ...terrain.Option) (*terrain.Terrain, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	opts = append([]terrain.Option{terrain.WithRand(rng), terrain.WithLogger(logger)}, opts...)
	t := terrain.New(desc.Width, desc.Levels, desc.Length, opts...)

	for i, g := range desc.Grounds {
		face, err := g.Face()
		if err != nil {
			return nil, fmt.Errorf("ground %d (%s): %w", i+1, g.Name, err)
		}
		if idx := t.AddGroundFace(face); int(idx) != i+1 {
			return nil, invalidf("ground %d (%s) duplicates ground %d", i+1, g.Name, idx)
		}
	}
	for i, w := range desc.Walls {
		if idx := t.AddWallFace(w.Face()); int(idx) != i+1 {
			return nil, invalidf("wall %d (%s) duplicates wall %d", i+1, w.Name, idx)
		}
	}

	for y, rows := range desc.Layout {
		for z, row := range rows {
			if err := t.SetCells(0, y, z, row); err != nil {
				return nil, fmt.Errorf("mission %q: %w", desc.Name, err)
			}
		}
	}

	logger.Info().
		Str("mission", desc.Name).
		Int("width", desc.Width).
		Int("levels", desc.Levels).
		Int("length", desc.Length).
		Int("groundFaces", t.GroundFaces()).
		Int("wallFaces", t.WallFaces()).
		Int("exitTiles", len(t.ExitTiles())).
		Msg("terrain built")
	return t, nil
}

// Deploy creates both teams at the sizes the descriptor asks for and places
// them on their start tiles.
func Deploy(t *terrain.Terrain, desc *Descriptor) (xcorp, aliens *terrain.Team, err error) {
	xcorp = terrain.NewTeam(terrain.FactionXCorp, "X", desc.Teams.XCorp)
	aliens = terrain.NewTeam(terrain.FactionAlien, "A", desc.Teams.Aliens)
	if err := t.DeployXCorpTeam(xcorp); err != nil {
		return nil, nil, err
	}
	if err := t.DeployAlienTeam(aliens); err != nil {
		return nil, nil, err
	}
	return xcorp, aliens, nil
}
