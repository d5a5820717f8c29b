// Package mission loads battlescape maps from YAML descriptors and builds
// terrains from them.
package mission

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/battlescape/internal/terrain"
)

// ErrInvalidDescriptor reports a descriptor that cannot describe a terrain.
var ErrInvalidDescriptor = errors.New("mission: invalid descriptor")

// Descriptor is a mission map as stored on disk.
//
// Face lists are numbered from 1 in the order given; index 0 is always the
// built-in flat floor and the empty wall. Layout holds, per level, rows of
// hex cell records (see terrain.ParseCell) from north to south. Missing
// levels and rows keep the built-in faces.
type Descriptor struct {
	Name    string      `yaml:"name"`
	Width   int         `yaml:"width"`
	Levels  int         `yaml:"levels"`
	Length  int         `yaml:"length"`
	Grounds []GroundDef `yaml:"grounds"`
	Walls   []WallDef   `yaml:"walls"`
	Layout  [][]string  `yaml:"layout"`
	Teams   TeamsDef    `yaml:"teams"`
}

// GroundDef describes one ground face.
type GroundDef struct {
	Name    string   `yaml:"name"`
	Tier    string   `yaml:"tier"` // none, flat, low, high
	Flags   []string `yaml:"flags"`
	Texture uint8    `yaml:"texture"`
}

// WallDef describes one wall face.
type WallDef struct {
	Name    string `yaml:"name"`
	Opaque  bool   `yaml:"opaque"`
	Solid   bool   `yaml:"solid"`
	Texture uint8  `yaml:"texture"`
}

// TeamsDef sizes the two sides deployed on the map.
type TeamsDef struct {
	XCorp  int `yaml:"xcorp"`
	Aliens int `yaml:"aliens"`
}

var tierNames = map[string]terrain.FloorTier{
	"none": terrain.FloorNone,
	"flat": terrain.Floor0,
	"low":  terrain.Floor30,
	"high": terrain.Floor70,
}

var groundFlagNames = map[string]terrain.GroundFlag{
	"blocked":      terrain.GroundBlocked,
	"viewBlocking": terrain.GroundViewBlocking,
	"upLift":       terrain.GroundUpGravLift,
	"downLift":     terrain.GroundDownGravLift,
	"alienStart":   terrain.GroundAlienStart,
	"xcorpStart":   terrain.GroundXCorpStart,
}

// Load reads and validates a descriptor file.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mission %s: %w", path, err)
	}
	desc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("mission %s: %w", path, err)
	}
	return desc, nil
}

// Parse decodes and validates a YAML descriptor. Unknown keys are rejected.
func Parse(data []byte) (*Descriptor, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var desc Descriptor
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("decode: %v: %w", err, ErrInvalidDescriptor)
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &desc, nil
}

// Validate checks sizes, face definitions and layout shape. Cell records are
// checked when the terrain is built.
func (d *Descriptor) Validate() error {
	switch {
	case d.Width <= 0 || d.Width > terrain.MaxWidth:
		return invalidf("width %d outside 1..%d", d.Width, terrain.MaxWidth)
	case d.Levels <= 0 || d.Levels > terrain.MaxLevels:
		return invalidf("levels %d outside 1..%d", d.Levels, terrain.MaxLevels)
	case d.Length <= 0 || d.Length > terrain.MaxLength:
		return invalidf("length %d outside 1..%d", d.Length, terrain.MaxLength)
	case len(d.Grounds) > 255:
		return invalidf("%d ground faces, at most 255", len(d.Grounds))
	case len(d.Walls) > 255:
		return invalidf("%d wall faces, at most 255", len(d.Walls))
	case len(d.Layout) > d.Levels:
		return invalidf("layout has %d levels, map has %d", len(d.Layout), d.Levels)
	case d.Teams.XCorp < 0 || d.Teams.Aliens < 0:
		return invalidf("negative team size")
	case d.Teams.XCorp > terrain.MaxSlots || d.Teams.Aliens > terrain.MaxSlots:
		return invalidf("teams are limited to %d members", terrain.MaxSlots)
	}
	for y, rows := range d.Layout {
		if len(rows) > d.Length {
			return invalidf("level %d has %d rows, map length is %d", y, len(rows), d.Length)
		}
	}
	for i, g := range d.Grounds {
		if _, err := g.Face(); err != nil {
			return fmt.Errorf("ground %d (%s): %w", i+1, g.Name, err)
		}
	}
	return nil
}

// Face converts the definition to a terrain ground face.
func (g GroundDef) Face() (terrain.GroundFace, error) {
	tier, ok := tierNames[g.Tier]
	if !ok {
		return terrain.GroundFace{}, invalidf("unknown tier %q", g.Tier)
	}
	flags := terrain.TierFlag(tier)
	for _, name := range g.Flags {
		f, ok := groundFlagNames[name]
		if !ok {
			return terrain.GroundFace{}, invalidf("unknown ground flag %q", name)
		}
		flags |= f
	}
	return terrain.GroundFace{Flags: flags, Texture: g.Texture}, nil
}

// Face converts the definition to a terrain wall face.
func (w WallDef) Face() terrain.WallFace {
	var flags terrain.WallFlag
	if w.Opaque {
		flags |= terrain.WallOpaque
	}
	if w.Solid {
		flags |= terrain.WallSolid
	}
	return terrain.WallFace{Flags: flags, Texture: w.Texture}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidDescriptor)
}
