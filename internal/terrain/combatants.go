package terrain

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoStartTiles reports a map with too few free start tiles for a team.
var ErrNoStartTiles = errors.New("terrain: not enough start tiles")

// maxCombatants is the number of ids a cell can store.
const maxCombatants = math.MaxUint8

// Faction identifies which side a combatant fights for.
type Faction uint8

const (
	FactionXCorp Faction = iota
	FactionAlien
)

func (f Faction) String() string {
	if f == FactionAlien {
		return "alien"
	}
	return "xcorp"
}

// Combatant is the terrain's view of a unit: where it stands, where it looks
// and who it can see. OpponentsInView and OpponentsViewing are bitmasks
// indexed by the opponents' team slots.
type Combatant struct {
	ID       uint8 // assigned on first placement, 1-based
	Name     string
	Faction  Faction
	Slot     int
	Position r3.Vec
	Heading  float64
	CanFly   bool
	Alive    bool

	OpponentsInView  uint32
	OpponentsViewing uint32
}

// NewCombatant returns a living combatant not yet on any terrain.
func NewCombatant(name string, faction Faction, slot int) *Combatant {
	return &Combatant{Name: name, Faction: faction, Slot: slot, Alive: true}
}

// Cell returns the cell the combatant stands in.
func (c *Combatant) Cell() Point { return PointOf(c.Position) }

// Sees reports whether the opponent in slot is in view.
func (c *Combatant) Sees(slot int) bool { return c.OpponentsInView&(1<<slot) != 0 }

// SeenBy reports whether the opponent in slot is watching.
func (c *Combatant) SeenBy(slot int) bool { return c.OpponentsViewing&(1<<slot) != 0 }

// Team is one side's roster.
type Team struct {
	Faction Faction
	Members []*Combatant
}

// NewTeam creates n living combatants named prefix0..prefixN-1 in slots 0..n-1.
func NewTeam(faction Faction, prefix string, n int) *Team {
	team := &Team{Faction: faction}
	for i := 0; i < n; i++ {
		team.Members = append(team.Members, NewCombatant(fmt.Sprintf("%s%d", prefix, i), faction, i))
	}
	return team
}

// Alive returns the living members.
func (tm *Team) Alive() []*Combatant {
	var out []*Combatant
	for _, c := range tm.Members {
		if c.Alive {
			out = append(out, c)
		}
	}
	return out
}

// Combatant returns the combatant with the given id, or nil.
func (t *Terrain) Combatant(id uint8) *Combatant {
	if id == 0 || int(id) > len(t.combatants) {
		return nil
	}
	return t.combatants[id-1]
}

// CombatantAt returns the combatant standing in (x, y, z), or nil.
func (t *Terrain) CombatantAt(x, y, z int) *Combatant {
	return t.Combatant(t.Cell(x, y, z).Combatant)
}

// Combatants returns every combatant currently on the terrain.
func (t *Terrain) Combatants() []*Combatant {
	var out []*Combatant
	for _, c := range t.combatants {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// OnTerrain reports whether c is currently placed on t.
func (t *Terrain) OnTerrain(c *Combatant) bool {
	return c != nil && c.ID != 0 && t.Combatant(c.ID) == c
}

// active reports whether c is placed and alive.
func (t *Terrain) active(c *Combatant) bool {
	return c.Alive && t.OnTerrain(c)
}

// PlaceCombatant puts c in cell p. The cell must be empty and c must not
// already be on the terrain.
func (t *Terrain) PlaceCombatant(c *Combatant, p Point) {
	if t.OnTerrain(c) {
		panic(fmt.Sprintf("terrain: %q already placed at %s", c.Name, c.Cell()))
	}
	dst := t.cell(p.X, p.Y, p.Z)
	if dst.Occupied() {
		panic(fmt.Sprintf("terrain: cannot place %q at %s: occupied by id %d", c.Name, p, dst.Combatant))
	}
	if c.ID == 0 || int(c.ID) > len(t.combatants) || t.combatants[c.ID-1] != nil {
		if len(t.combatants) >= maxCombatants {
			panic("terrain: combatant table full")
		}
		t.combatants = append(t.combatants, c)
		c.ID = uint8(len(t.combatants))
	} else {
		t.combatants[c.ID-1] = c
	}
	dst.Combatant = c.ID
	c.Position = p.Centre()
	t.record(c, "deploy", "place", p.String(), 0)
}

// MoveCombatant moves c from oldPos to newPos. c must be standing at oldPos
// and newPos must be empty.
func (t *Terrain) MoveCombatant(c *Combatant, oldPos, newPos Point) {
	src := t.cell(oldPos.X, oldPos.Y, oldPos.Z)
	if !t.OnTerrain(c) || src.Combatant != c.ID {
		panic(fmt.Sprintf("terrain: %q is not at %s", c.Name, oldPos))
	}
	dst := t.cell(newPos.X, newPos.Y, newPos.Z)
	if dst.Occupied() {
		panic(fmt.Sprintf("terrain: cannot move %q to %s: occupied by id %d", c.Name, newPos, dst.Combatant))
	}
	src.Combatant = 0
	dst.Combatant = c.ID
	c.Position = newPos.Centre()
	t.record(c, "move", "step", fmt.Sprintf("%s → %s", oldPos, newPos), 0)
}

// RemoveCombatant takes c off the terrain, e.g. when killed or evacuated.
func (t *Terrain) RemoveCombatant(c *Combatant) {
	if !t.OnTerrain(c) {
		panic(fmt.Sprintf("terrain: %q is not on the terrain", c.Name))
	}
	p := c.Cell()
	cell := t.cell(p.X, p.Y, p.Z)
	if cell.Combatant != c.ID {
		panic(fmt.Sprintf("terrain: %q position %s does not match grid", c.Name, p))
	}
	for _, o := range t.combatants {
		if o == nil || o.Faction == c.Faction {
			continue
		}
		t.setSight(o, c, false)
		t.setSight(c, o, false)
	}
	c.OpponentsInView, c.OpponentsViewing = 0, 0
	cell.Combatant = 0
	t.combatants[c.ID-1] = nil
	t.log.Debug().Str("combatant", c.Name).Stringer("cell", p).Msg("combatant removed")
	t.record(c, "remove", "remove", p.String(), 0)
}

// DeployAlienTeam places every living, unplaced alien on a random free alien
// start tile.
func (t *Terrain) DeployAlienTeam(team *Team) error {
	return t.deploy(team, GroundAlienStart)
}

// DeployXCorpTeam places every living, unplaced X-Corp member on a random free
// X-Corp start tile.
func (t *Terrain) DeployXCorpTeam(team *Team) error {
	return t.deploy(team, GroundXCorpStart)
}

func (t *Terrain) deploy(team *Team, flag GroundFlag) error {
	var members []*Combatant
	for _, c := range team.Alive() {
		if !t.OnTerrain(c) {
			members = append(members, c)
		}
	}
	var tiles []Point
	for _, p := range t.cellsWithGround(flag) {
		if !t.IsOccupied(p.X, p.Y, p.Z) {
			tiles = append(tiles, p)
		}
	}
	if len(tiles) < len(members) {
		return fmt.Errorf("%s team needs %d tiles, map has %d: %w", team.Faction, len(members), len(tiles), ErrNoStartTiles)
	}
	t.rng.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })
	for i, c := range members {
		t.PlaceCombatant(c, tiles[i])
		c.Heading = normalizeAngle(float64(t.rng.Intn(8)) * math.Pi / 4)
	}
	t.log.Debug().
		Stringer("faction", team.Faction).
		Int("deployed", len(members)).
		Int("startTiles", len(tiles)).
		Msg("team deployed")
	return nil
}
