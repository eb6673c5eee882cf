package debugdraw

// Group selects which accumulation group an append targets.
type Group uint8

const (
	// GroupFrame holds per-frame shapes: cleared whenever game time
	// advances, retained while it is paused.
	GroupFrame Group = iota

	// GroupGizmo holds shapes recorded during a host gizmo capture:
	// cleared on capture entry so shapes never leak across capture
	// cycles.
	GroupGizmo
)

// String returns the group name.
func (g Group) String() string {
	switch g {
	case GroupFrame:
		return "frame"
	case GroupGizmo:
		return "gizmo"
	default:
		return "unknown"
	}
}

// group owns the four shape batches of one accumulation group.
type group struct {
	lines    batch[Line]
	arcs     batch[Arc]
	boxes    batch[Box]
	outlines batch[OutlineGroup]
}

func newGroup(caps Capacities) group {
	return group{
		lines:    batch[Line]{kind: KindLine, initCap: caps.Lines},
		arcs:     batch[Arc]{kind: KindArc, initCap: caps.Arcs},
		boxes:    batch[Box]{kind: KindBox, initCap: caps.Boxes},
		outlines: batch[OutlineGroup]{kind: KindOutlineGroup, initCap: caps.Outlines},
	}
}

// batches returns the group's batches in draw order. The order is
// load-bearing: shared-buffer offsets accumulate across it, so it must
// match the upload order of the shared color and modification mirrors.
func (g *group) batches() [kindCount]anyBatch {
	return [kindCount]anyBatch{&g.lines, &g.arcs, &g.boxes, &g.outlines}
}

// clear empties every batch, retaining capacity.
func (g *group) clear() {
	for _, b := range g.batches() {
		b.clear()
	}
}

// reset releases every batch's CPU buffers.
func (g *group) reset() {
	for _, b := range g.batches() {
		b.reset()
	}
}

// total returns the record count across all batches.
func (g *group) total() int {
	n := 0
	for _, b := range g.batches() {
		n += b.count()
	}
	return n
}

// anyDirty reports whether any batch changed since its last sync.
func (g *group) anyDirty() bool {
	for _, b := range g.batches() {
		if b.isDirty() {
			return true
		}
	}
	return false
}
