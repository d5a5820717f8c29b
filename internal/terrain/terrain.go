package terrain

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid bounds.
const (
	MaxWidth  = 128
	MaxLength = 128
	MaxLevels = 8
)

// ErrFormat reports malformed hex cell data.
var ErrFormat = errors.New("terrain: malformed cell data")

// Point is an integer cell coordinate. X runs west to east, Y is the level
// (0 = lowest) and Z runs north to south.
type Point struct {
	X, Y, Z int
}

// Add returns p offset by (dx, dy, dz).
func (p Point) Add(dx, dy, dz int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Centre returns the world position at the middle of the cell.
func (p Point) Centre() r3.Vec {
	return r3.Vec{X: float64(p.X) + 0.5, Y: float64(p.Y) + 0.5, Z: float64(p.Z) + 0.5}
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z) }

// PointOf returns the cell containing a world position.
func PointOf(v r3.Vec) Point {
	return Point{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y)), Z: int(math.Floor(v.Z))}
}

// Side names one face of a cell.
type Side uint8

const (
	SideGround Side = iota
	SideNorth
	SideSouth
	SideEast
	SideWest
)

func (s Side) String() string {
	switch s {
	case SideGround:
		return "ground"
	case SideNorth:
		return "north"
	case SideSouth:
		return "south"
	case SideEast:
		return "east"
	case SideWest:
		return "west"
	default:
		return "unknown"
	}
}

// Terrain is the 3D battlescape grid. It owns the cells and the face tables
// they index. A Terrain is not safe for concurrent use.
type Terrain struct {
	width  int
	levels int
	length int
	cells  []Cell

	grounds []GroundFace
	walls   []WallFace

	combatants []*Combatant // index = id-1; nil once removed

	vision  VisionConfig
	rng     *rand.Rand
	log     zerolog.Logger
	journal *Journal
	turn    int
	seen    int // cells with PropSeen
}

// Option configures a Terrain at construction.
type Option func(*Terrain)

// WithRand sets the random source used for deployment.
func WithRand(rng *rand.Rand) Option {
	return func(t *Terrain) { t.rng = rng }
}

// WithLogger sets the structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Terrain) { t.log = l }
}

// WithJournal records combatant and visibility events into j.
func WithJournal(j *Journal) Option {
	return func(t *Terrain) { t.journal = j }
}

// WithVision overrides the default vision parameters.
func WithVision(v VisionConfig) Option {
	return func(t *Terrain) { t.vision = v }
}

// New creates a terrain of the given size. Every cell starts with ground face
// 0 (flat walkable floor) and wall face 0 (no wall).
func New(width, levels, length int, opts ...Option) *Terrain {
	if width <= 0 || width > MaxWidth || levels <= 0 || levels > MaxLevels || length <= 0 || length > MaxLength {
		panic(fmt.Sprintf("terrain: size %dx%dx%d outside %dx%dx%d", width, levels, length, MaxWidth, MaxLevels, MaxLength))
	}
	t := &Terrain{
		width:   width,
		levels:  levels,
		length:  length,
		cells:   make([]Cell, width*levels*length),
		grounds: []GroundFace{{Flags: TierFlag(Floor0)}},
		walls:   []WallFace{{}},
		vision:  DefaultVision(),
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(t)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(1)) // #nosec G404 -- deterministic deployment
	}
	return t
}

func (t *Terrain) Width() int  { return t.width }
func (t *Terrain) Levels() int { return t.levels }
func (t *Terrain) Length() int { return t.length }

// Journal returns the event journal, or nil when none was configured.
func (t *Terrain) Journal() *Journal { return t.journal }

// Vision returns the vision parameters in use.
func (t *Terrain) Vision() VisionConfig { return t.vision }

// SetTurn sets the turn number stamped on journal entries.
func (t *Terrain) SetTurn(turn int) { t.turn = turn }

// IsOnTerrain reports whether (x, y, z) is inside the grid.
func (t *Terrain) IsOnTerrain(x, y, z int) bool {
	return x >= 0 && x < t.width && y >= 0 && y < t.levels && z >= 0 && z < t.length
}

// IsOnTerrainVec reports whether a world position lies inside the grid.
func (t *Terrain) IsOnTerrainVec(v r3.Vec) bool {
	p := PointOf(v)
	return t.IsOnTerrain(p.X, p.Y, p.Z)
}

func (t *Terrain) assertOnTerrain(x, y, z int) {
	if !t.IsOnTerrain(x, y, z) {
		panic(fmt.Sprintf("terrain: cell (%d,%d,%d) outside %dx%dx%d grid", x, y, z, t.width, t.levels, t.length))
	}
}

func (t *Terrain) index(x, y, z int) int {
	t.assertOnTerrain(x, y, z)
	return ((y*t.length)+z)*t.width + x
}

func (t *Terrain) cell(x, y, z int) *Cell {
	return &t.cells[t.index(x, y, z)]
}

// Cell returns a copy of the cell at (x, y, z).
func (t *Terrain) Cell(x, y, z int) Cell {
	return t.cells[t.index(x, y, z)]
}

// SetCell overwrites the face indices of a cell, keeping its occupant and
// properties.
func (t *Terrain) SetCell(x, y, z int, c Cell) {
	dst := t.cell(x, y, z)
	t.assertFaces(c)
	dst.Ground, dst.North, dst.West = c.Ground, c.North, c.West
}

func (t *Terrain) assertFaces(c Cell) {
	if int(c.Ground) >= len(t.grounds) || int(c.North) >= len(t.walls) || int(c.West) >= len(t.walls) {
		panic(fmt.Sprintf("terrain: cell %s references missing face (grounds=%d walls=%d)", c, len(t.grounds), len(t.walls)))
	}
}

// AddGroundFace registers a ground face and returns its index. An identical
// face already in the table is reused.
func (t *Terrain) AddGroundFace(f GroundFace) uint8 {
	for i, g := range t.grounds {
		if g == f {
			return uint8(i)
		}
	}
	if len(t.grounds) > math.MaxUint8 {
		panic("terrain: ground face table full")
	}
	t.grounds = append(t.grounds, f)
	return uint8(len(t.grounds) - 1)
}

// AddWallFace registers a wall face and returns its index. An identical face
// already in the table is reused.
func (t *Terrain) AddWallFace(f WallFace) uint8 {
	for i, w := range t.walls {
		if w == f {
			return uint8(i)
		}
	}
	if len(t.walls) > math.MaxUint8 {
		panic("terrain: wall face table full")
	}
	t.walls = append(t.walls, f)
	return uint8(len(t.walls) - 1)
}

// GroundFaces returns the number of registered ground faces.
func (t *Terrain) GroundFaces() int { return len(t.grounds) }

// WallFaces returns the number of registered wall faces.
func (t *Terrain) WallFaces() int { return len(t.walls) }

// GroundFaceAt returns a ground face by table index.
func (t *Terrain) GroundFaceAt(i uint8) GroundFace { return t.grounds[i] }

// WallFaceAt returns a wall face by table index.
func (t *Terrain) WallFaceAt(i uint8) WallFace { return t.walls[i] }

// GroundFace returns the floor of cell (x, y, z).
func (t *Terrain) GroundFace(x, y, z int) GroundFace {
	return t.grounds[t.cells[t.index(x, y, z)].Ground]
}

// WallFace returns one wall of cell (x, y, z). South and east walls are read
// from the neighbouring cell's north and west faces; a wall on the grid's
// south or east edge is empty.
func (t *Terrain) WallFace(x, y, z int, side Side) WallFace {
	t.assertOnTerrain(x, y, z)
	switch side {
	case SideNorth:
		return t.walls[t.Cell(x, y, z).North]
	case SideWest:
		return t.walls[t.Cell(x, y, z).West]
	case SideSouth:
		if z+1 >= t.length {
			return WallFace{}
		}
		return t.walls[t.Cell(x, y, z+1).North]
	case SideEast:
		if x+1 >= t.width {
			return WallFace{}
		}
		return t.walls[t.Cell(x+1, y, z).West]
	default:
		panic(fmt.Sprintf("terrain: %s is not a wall side", side))
	}
}

// FaceTexture returns the texture index of one face of a cell.
func (t *Terrain) FaceTexture(x, y, z int, side Side) uint8 {
	if side == SideGround {
		return t.GroundFace(x, y, z).Texture
	}
	return t.WallFace(x, y, z, side).Texture
}

// GroundHeight returns the absolute height of the floor under pos, in levels.
func (t *Terrain) GroundHeight(pos r3.Vec) float64 {
	p := PointOf(pos)
	return float64(p.Y) + t.GroundFace(p.X, p.Y, p.Z).Height()
}

// CellProperty returns the transient flags of a cell.
func (t *Terrain) CellProperty(x, y, z int) CellProperty {
	return t.Cell(x, y, z).Props
}

// SetCellProperty sets flags on a cell.
func (t *Terrain) SetCellProperty(x, y, z int, p CellProperty) {
	c := t.cell(x, y, z)
	if p&PropSeen != 0 && !c.Has(PropSeen) {
		t.seen++
	}
	c.Props |= p
}

// ClearCellProperty clears flags on a cell.
func (t *Terrain) ClearCellProperty(x, y, z int, p CellProperty) {
	c := t.cell(x, y, z)
	if p&PropSeen != 0 && c.Has(PropSeen) {
		t.seen--
	}
	c.Props &^= p
}

// SeenCells returns how many cells carry PropSeen.
func (t *Terrain) SeenCells() int { return t.seen }

// IsOccupied reports whether a combatant stands in (x, y, z).
func (t *Terrain) IsOccupied(x, y, z int) bool {
	return t.Cell(x, y, z).Occupied()
}

// SetCells decodes consecutive 6-hex-digit records into the row starting at
// (x, y, z), advancing along x. Records may be separated by whitespace or run
// together, but a record must not be split. On error no cell is modified.
func (t *Terrain) SetCells(x, y, z int, encoded string) error {
	t.assertOnTerrain(x, y, z)
	var digits []byte
	for _, field := range strings.Fields(encoded) {
		if len(field)%cellRecordLen != 0 {
			return fmt.Errorf("row (%d,%d,%d): field %q is not a whole number of records: %w", x, y, z, field, ErrFormat)
		}
		digits = append(digits, field...)
	}
	n := len(digits) / cellRecordLen
	if x+n > t.width {
		return fmt.Errorf("row (%d,%d,%d): %d cells overrun width %d: %w", x, y, z, n, t.width, ErrFormat)
	}
	parsed := make([]Cell, n)
	for i := range parsed {
		c, err := ParseCell(string(digits[i*cellRecordLen : (i+1)*cellRecordLen]))
		if err != nil {
			return fmt.Errorf("row (%d,%d,%d) cell %d: %w", x, y, z, i, err)
		}
		if int(c.Ground) >= len(t.grounds) || int(c.North) >= len(t.walls) || int(c.West) >= len(t.walls) {
			return fmt.Errorf("row (%d,%d,%d) cell %d: %s references missing face: %w", x, y, z, i, c, ErrFormat)
		}
		parsed[i] = c
	}
	for i, c := range parsed {
		t.SetCell(x+i, y, z, c)
	}
	return nil
}

// ExitTiles returns every cell whose ground is an exit tile.
func (t *Terrain) ExitTiles() []Point {
	return t.cellsWithGround(GroundXCorpStart)
}

func (t *Terrain) cellsWithGround(flag GroundFlag) []Point {
	var out []Point
	for y := 0; y < t.levels; y++ {
		for z := 0; z < t.length; z++ {
			for x := 0; x < t.width; x++ {
				if t.GroundFace(x, y, z).Flags.Has(flag) {
					out = append(out, Point{X: x, Y: y, Z: z})
				}
			}
		}
	}
	return out
}
