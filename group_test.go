package debugdraw

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func fillGroup(g *group) {
	g.lines.append(Line{}, White, ModNone, 0)
	g.arcs.append(NewArcCircle(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 1), White, ModNone, 0)
	g.boxes.append(NewBoxAxisAligned(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), White, ModNone, 0)
	g.outlines.append(NewOutlineCapsule(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 1), White, ModNone, 0)
}

// TestGroupBatchOrder tests that batches() yields the fixed draw order
// the shared-buffer offsets accumulate over.
func TestGroupBatchOrder(t *testing.T) {
	g := newGroup(Capacities{})

	want := []Kind{KindLine, KindArc, KindBox, KindOutlineGroup}
	for i, b := range g.batches() {
		if b.kindID() != want[i] {
			t.Errorf("batch %d kind = %v, want %v", i, b.kindID(), want[i])
		}
	}
}

// TestGroupTotalAndClear tests record counting and the group-wide clear.
func TestGroupTotalAndClear(t *testing.T) {
	g := newGroup(Capacities{})
	fillGroup(&g)

	if g.total() != 4 {
		t.Errorf("total = %d, want 4", g.total())
	}
	if !g.anyDirty() {
		t.Error("filled group is not dirty")
	}

	g.clear()
	if g.total() != 0 {
		t.Errorf("total after clear = %d, want 0", g.total())
	}
	if !g.anyDirty() {
		t.Error("cleared group lost its dirty mark before a sync")
	}
}

// TestGroupReset tests that reset releases every batch.
func TestGroupReset(t *testing.T) {
	g := newGroup(Capacities{})
	fillGroup(&g)

	g.reset()
	if g.total() != 0 {
		t.Errorf("total after reset = %d, want 0", g.total())
	}
	if g.anyDirty() {
		t.Error("reset group is dirty")
	}
	for _, b := range g.batches() {
		if b.capacity() != 0 {
			t.Errorf("%v capacity after reset = %d, want 0", b.kindID(), b.capacity())
		}
	}
}

// TestGroupCapacityHints tests that configured capacities reach the
// per-kind batches.
func TestGroupCapacityHints(t *testing.T) {
	g := newGroup(Capacities{Lines: 64, Arcs: 16, Boxes: 8, Outlines: 4})
	fillGroup(&g)

	want := map[Kind]int{KindLine: 64, KindArc: 16, KindBox: 8, KindOutlineGroup: 4}
	for _, b := range g.batches() {
		if b.capacity() != want[b.kindID()] {
			t.Errorf("%v capacity = %d, want %d", b.kindID(), b.capacity(), want[b.kindID()])
		}
	}
}

// TestGroupString tests the group names used in log output.
func TestGroupString(t *testing.T) {
	if GroupFrame.String() != "frame" || GroupGizmo.String() != "gizmo" {
		t.Errorf("String() = %q/%q, want frame/gizmo", GroupFrame, GroupGizmo)
	}
}
