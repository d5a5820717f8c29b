package terrain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Default vision parameters.
const (
	defaultViewRange = 20.0 // cells
	defaultFOVDeg    = 90.0 // total arc width
)

// MaxSlots is the number of team slots a visibility bitmask can address.
const MaxSlots = 32

// VisionConfig bounds what a combatant can see.
type VisionConfig struct {
	Range  float64 // cells
	FOVCos float64 // cosine of half the field of view
}

// DefaultVision returns the standard 20 cell, 90 degree vision.
func DefaultVision() VisionConfig {
	return VisionFromDegrees(defaultViewRange, defaultFOVDeg)
}

// VisionFromDegrees builds a config from a range in cells and a total field
// of view in degrees.
func VisionFromDegrees(rangeCells, fovDeg float64) VisionConfig {
	return VisionConfig{
		Range:  rangeCells,
		FOVCos: math.Cos(fovDeg * math.Pi / 360.0),
	}
}

// InCone reports whether target lies within the field of view of a viewer
// at origin facing heading. Only the horizontal plane is considered.
func (v VisionConfig) InCone(origin r3.Vec, heading float64, target r3.Vec) bool {
	dx := target.X - origin.X
	dz := target.Z - origin.Z
	dist := math.Hypot(dx, dz)
	if dist < 1e-9 {
		return true
	}
	dot := (dx*math.Cos(heading) + dz*math.Sin(heading)) / dist
	return dot >= v.FOVCos
}

// InRange reports whether b is within vision range of a.
func (v VisionConfig) InRange(a, b r3.Vec) bool {
	d := r3.Sub(b, a)
	return r3.Dot(d, d) <= v.Range*v.Range
}

// UpdateVisibility recomputes who sees whom between c and each enemy. The
// four bitmask bits of a pair are written independently since one side can
// be facing away.
func (t *Terrain) UpdateVisibility(c *Combatant, enemies []*Combatant) {
	for _, e := range enemies {
		var cSeesE, eSeesC bool
		if t.active(c) && t.active(e) &&
			t.vision.InRange(c.Position, e.Position) &&
			t.IsLineOfSight(c.Position, e.Position) {
			if sameColumn(c.Position, e.Position) {
				cSeesE, eSeesC = true, true
			} else {
				cSeesE = t.vision.InCone(c.Position, c.Heading, e.Position)
				eSeesC = t.vision.InCone(e.Position, e.Heading, c.Position)
			}
		}
		t.setSight(c, e, cSeesE)
		t.setSight(e, c, eSeesC)
	}
}

// setSight records whether viewer sees target in both bitmasks.
func (t *Terrain) setSight(viewer, target *Combatant, visible bool) {
	assertSlot(viewer)
	assertSlot(target)
	tBit := uint32(1) << target.Slot
	vBit := uint32(1) << viewer.Slot
	had := viewer.OpponentsInView&tBit != 0
	if visible {
		viewer.OpponentsInView |= tBit
		target.OpponentsViewing |= vBit
	} else {
		viewer.OpponentsInView &^= tBit
		target.OpponentsViewing &^= vBit
	}
	if had == visible {
		return
	}
	key := "contact_lost"
	if visible {
		key = "contact_new"
	}
	t.record(viewer, "vision", key, target.Name, float64(target.Slot))
}

func assertSlot(c *Combatant) {
	if c.Slot < 0 || c.Slot >= MaxSlots {
		panic(fmt.Sprintf("terrain: combatant %q slot %d outside 0..%d", c.Name, c.Slot, MaxSlots-1))
	}
}

// sameColumn reports whether two positions share a horizontal cell.
func sameColumn(a, b r3.Vec) bool {
	return math.Floor(a.X) == math.Floor(b.X) && math.Floor(a.Z) == math.Floor(b.Z)
}

// CalcTurnAngle returns the signed rotation from heading to face the
// direction (dx, dz), normalised to (-pi, pi].
func CalcTurnAngle(heading, dx, dz float64) float64 {
	return normalizeAngle(math.Atan2(dz, dx) - heading)
}

// HeadingTo returns the heading from a towards b on the horizontal plane.
func HeadingTo(a, b r3.Vec) float64 {
	return math.Atan2(b.Z-a.Z, b.X-a.X)
}

// normalizeAngle wraps an angle to (-pi, pi]. Non-finite input yields NaN.
func normalizeAngle(a float64) float64 {
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
