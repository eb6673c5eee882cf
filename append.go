package debugdraw

// dropAppends reports whether appends are currently discarded.
func (d *Drawer) dropAppends() bool {
	return d.closed || d.state == StateIgnore
}

// target returns the accumulation group addressed by g.
func (d *Drawer) target(g Group) *group {
	if g == GroupGizmo {
		return &d.gizmo
	}
	return &d.frame
}

// AppendLine records a line segment into group g. The color, the
// modification flags, and the intended lifetime in seconds are stored
// alongside the shape; shapes currently live until their group is next
// cleared, regardless of duration.
//
// Appends are dropped silently while the drawer is ignoring or closed.
func (d *Drawer) AppendLine(g Group, line Line, c Color, mods DrawModifications, duration float32) {
	if d.dropAppends() {
		return
	}
	d.target(g).lines.append(line, c, mods, duration)
}

// AppendArc records a circular arc into group g. See AppendLine for
// the shared append semantics.
func (d *Drawer) AppendArc(g Group, arc Arc, c Color, mods DrawModifications, duration float32) {
	if d.dropAppends() {
		return
	}
	d.target(g).arcs.append(arc, c, mods, duration)
}

// AppendBox records a wireframe box into group g. See AppendLine for
// the shared append semantics.
func (d *Drawer) AppendBox(g Group, box Box, c Color, mods DrawModifications, duration float32) {
	if d.dropAppends() {
		return
	}
	d.target(g).boxes.append(box, c, mods, duration)
}

// AppendOutlineGroup records up to three view-facing outline members
// drawn as one instance into group g. Use NewOutlineCapsule for the
// common capsule silhouette. See AppendLine for the shared append
// semantics.
func (d *Drawer) AppendOutlineGroup(g Group, og OutlineGroup, c Color, mods DrawModifications, duration float32) {
	if d.dropAppends() {
		return
	}
	d.target(g).outlines.append(og, c, mods, duration)
}
