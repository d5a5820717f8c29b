package terrain

import "fmt"

// MoveData bit layout.
const (
	moveXBits    = 8
	moveZBits    = 8
	moveYBits    = 4
	moveCostBits = 12

	moveZShift    = moveXBits
	moveYShift    = moveZShift + moveZBits
	moveCostShift = moveYShift + moveYBits

	moveXMask    = 1<<moveXBits - 1
	moveZMask    = 1<<moveZBits - 1
	moveYMask    = 1<<moveYBits - 1
	moveCostMask = 1<<moveCostBits - 1

	// MaxMoveCost is the largest cost a MoveData can carry.
	MaxMoveCost = moveCostMask

	moveKeyMask = 1<<moveCostShift - 1
)

// MoveData is a candidate destination cell plus the cost of reaching it,
// packed as x:8, z:8, y:4, cost:12. Equal and Hash ignore the cost so a
// destination can be looked up regardless of the route that found it.
type MoveData uint32

// NewMoveData packs a destination and cost. Values wider than their field
// are a programming error.
func NewMoveData(x, y, z, cost int) MoveData {
	if x < 0 || x > moveXMask || z < 0 || z > moveZMask || y < 0 || y > moveYMask || cost < 0 || cost > moveCostMask {
		panic(fmt.Sprintf("terrain: move data out of range x=%d y=%d z=%d cost=%d", x, y, z, cost))
	}
	return MoveData(uint32(x) | uint32(z)<<moveZShift | uint32(y)<<moveYShift | uint32(cost)<<moveCostShift)
}

func (m MoveData) X() int    { return int(m & moveXMask) }
func (m MoveData) Z() int    { return int(m >> moveZShift & moveZMask) }
func (m MoveData) Y() int    { return int(m >> moveYShift & moveYMask) }
func (m MoveData) Cost() int { return int(m >> moveCostShift & moveCostMask) }

// Point returns the destination cell.
func (m MoveData) Point() Point { return Point{X: m.X(), Y: m.Y(), Z: m.Z()} }

// Key is the destination without the cost.
func (m MoveData) Key() uint32 { return uint32(m) & moveKeyMask }

// Equal reports whether m and o name the same destination.
func (m MoveData) Equal(o MoveData) bool { return m.Key() == o.Key() }

// Hash is consistent with Equal.
func (m MoveData) Hash() uint32 { return m.Key() }

// WithCost returns m with its cost replaced.
func (m MoveData) WithCost(cost int) MoveData {
	return NewMoveData(m.X(), m.Y(), m.Z(), cost)
}

func (m MoveData) String() string {
	return fmt.Sprintf("(%d,%d,%d)+%d", m.X(), m.Y(), m.Z(), m.Cost())
}
