package terrain

import "math"

// RevealFrom marks as seen every cell c could see from where it stands:
// cells within vision range and inside its field of view that a ray reaches
// unobstructed. It returns the number of newly seen cells.
func (t *Terrain) RevealFrom(c *Combatant) int {
	if !t.active(c) {
		return 0
	}
	before := t.seen
	origin := c.Cell()
	t.SetCellProperty(origin.X, origin.Y, origin.Z, PropSeen)

	r := int(math.Ceil(t.vision.Range))
	for y := max(0, origin.Y-r); y <= min(t.levels-1, origin.Y+r); y++ {
		for z := max(0, origin.Z-r); z <= min(t.length-1, origin.Z+r); z++ {
			for x := max(0, origin.X-r); x <= min(t.width-1, origin.X+r); x++ {
				p := Point{X: x, Y: y, Z: z}
				target := p.Centre()
				if !t.vision.InRange(c.Position, target) {
					continue
				}
				if !sameColumn(c.Position, target) && !t.vision.InCone(c.Position, c.Heading, target) {
					continue
				}
				t.IsLineOfSightWith(c.Position, target, CheckMarkVisible)
			}
		}
	}

	revealed := t.seen - before
	t.log.Debug().Str("combatant", c.Name).Int("revealed", revealed).Msg("fog revealed")
	if revealed > 0 {
		t.record(c, "reveal", "cells", origin.String(), float64(revealed))
	}
	return revealed
}

// ScoreSightline returns the fraction of in-range cells on p's level that a
// viewer standing at p could see looking in any direction.
func (t *Terrain) ScoreSightline(p Point) float64 {
	t.assertOnTerrain(p.X, p.Y, p.Z)
	origin := p.Centre()
	r := int(math.Ceil(t.vision.Range))
	total, visible := 0, 0
	for z := max(0, p.Z-r); z <= min(t.length-1, p.Z+r); z++ {
		for x := max(0, p.X-r); x <= min(t.width-1, p.X+r); x++ {
			target := Point{X: x, Y: p.Y, Z: z}
			if target == p || !t.vision.InRange(origin, target.Centre()) {
				continue
			}
			total++
			if t.IsLineOfSight(origin, target.Centre()) {
				visible++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(visible) / float64(total)
}
