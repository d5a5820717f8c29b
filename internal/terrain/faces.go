package terrain

// FloorTier is the height of a cell's floor. FloorNone means the cell has no
// floor at all (open air above the level below).
type FloorTier uint8

const (
	FloorNone FloorTier = iota
	Floor0              // flat floor at the bottom of the level
	Floor30             // raised a third of a level
	Floor70             // raised two thirds of a level, a climbable step
)

// GroundFlag is a bitfield describing a ground face. The low two bits hold the
// FloorTier.
type GroundFlag uint16

const (
	// FloorTierMask selects the FloorTier bits.
	FloorTierMask GroundFlag = 0x3

	GroundBlocked      GroundFlag = 1 << (iota + 1) // impassable
	GroundViewBlocking                              // opaque contents, e.g. a crate
	GroundUpGravLift
	GroundDownGravLift
	GroundAlienStart
	GroundXCorpStart
)

// TierFlag converts a FloorTier into its GroundFlag bits.
func TierFlag(t FloorTier) GroundFlag { return GroundFlag(t) & FloorTierMask }

// Tier returns the floor height tier encoded in f.
func (f GroundFlag) Tier() FloorTier { return FloorTier(f & FloorTierMask) }

// Has reports whether all bits of o are set.
func (f GroundFlag) Has(o GroundFlag) bool { return f&o == o }

// WallFlag is a bitfield describing a wall face. Sight and movement are
// independent: a window is solid but not opaque, a curtain the reverse.
type WallFlag uint8

const (
	WallOpaque WallFlag = 1 << iota // blocks sight
	WallSolid                       // blocks movement
)

// GroundFace is a shared floor definition referenced by index from cells.
type GroundFace struct {
	Flags   GroundFlag
	Texture uint8
}

// Tier returns the face's floor height tier.
func (g GroundFace) Tier() FloorTier { return g.Flags.Tier() }

// HasFloor reports whether there is anything to stand on.
func (g GroundFace) HasFloor() bool { return g.Tier() != FloorNone }

// Height returns the floor height as a fraction of a level.
func (g GroundFace) Height() float64 {
	switch g.Tier() {
	case Floor30:
		return 0.33
	case Floor70:
		return 0.67
	default:
		return 0
	}
}

// Blocked reports whether the cell is impassable.
func (g GroundFace) Blocked() bool { return g.Flags.Has(GroundBlocked) }

// ViewBlocking reports whether the cell's contents block sight.
func (g GroundFace) ViewBlocking() bool { return g.Flags.Has(GroundViewBlocking) }

// UpGravLift reports whether the cell lifts occupants one level up.
func (g GroundFace) UpGravLift() bool { return g.Flags.Has(GroundUpGravLift) }

// DownGravLift reports whether the cell lowers occupants one level down.
// A down lift floor never blocks sight.
func (g GroundFace) DownGravLift() bool { return g.Flags.Has(GroundDownGravLift) }

// CanMoveOff reports whether a combatant standing here may leave horizontally.
// Walkers need a floor under them; fliers do not.
func (g GroundFace) CanMoveOff(canFly bool) bool {
	return !g.Blocked() && (canFly || g.HasFloor())
}

// IsExitTile reports whether X-Corp may leave the mission from this cell.
func (g GroundFace) IsExitTile() bool { return g.Flags.Has(GroundXCorpStart) }

// blocksSight reports whether the floor stops a ray crossing it vertically.
func (g GroundFace) blocksSight() bool {
	return g.HasFloor() && !g.DownGravLift()
}

// WallFace is a shared wall definition referenced by index from cells.
type WallFace struct {
	Flags   WallFlag
	Texture uint8
}

// Opaque reports whether the wall blocks sight.
func (w WallFace) Opaque() bool { return w.Flags&WallOpaque != 0 }

// Solid reports whether the wall blocks movement.
func (w WallFace) Solid() bool { return w.Flags&WallSolid != 0 }
