package terrain

import (
	"fmt"
	"strconv"
)

// CellProperty is a bitfield of transient per-cell state.
type CellProperty uint8

const (
	PropSeen          CellProperty = 1 << iota // revealed to the player's side
	PropSmoke                                  // smoke cloud present
	PropProximityMine                          // armed mine on the floor
)

// cellRecordLen is the width of one hex-encoded cell record.
const cellRecordLen = 6

// Cell is one cube of the battlescape grid. Ground, North and West index the
// terrain's face tables. The south and east walls belong to the neighbouring
// cells (north face of z+1, west face of x+1).
type Cell struct {
	Ground    uint8
	North     uint8
	West      uint8
	Combatant uint8 // 0 = empty, else 1-based combatant id
	Props     CellProperty
}

// NewCell builds an unoccupied cell from three face indices.
func NewCell(ground, north, west uint8) Cell {
	return Cell{Ground: ground, North: north, West: west}
}

// ParseCell decodes a 6-hex-digit record: ground, north, west.
func ParseCell(s string) (Cell, error) {
	if len(s) != cellRecordLen {
		return Cell{}, fmt.Errorf("cell record %q: want %d hex digits: %w", s, cellRecordLen, ErrFormat)
	}
	var idx [3]uint8
	for i := range idx {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return Cell{}, fmt.Errorf("cell record %q: %w", s, ErrFormat)
		}
		idx[i] = uint8(v)
	}
	return NewCell(idx[0], idx[1], idx[2]), nil
}

// MustParseCell is ParseCell for literals known to be valid.
func MustParseCell(s string) Cell {
	c, err := ParseCell(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String re-encodes the face indices in record form.
func (c Cell) String() string {
	return fmt.Sprintf("%02x%02x%02x", c.Ground, c.North, c.West)
}

// Occupied reports whether a combatant stands in the cell.
func (c Cell) Occupied() bool { return c.Combatant != 0 }

// Has reports whether all bits of p are set.
func (c Cell) Has(p CellProperty) bool { return c.Props&p == p }
