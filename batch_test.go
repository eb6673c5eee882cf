package debugdraw

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// TestBatchAppendLockstep tests that one append grows all four buffers
// together and returns stable indices.
func TestBatchAppendLockstep(t *testing.T) {
	var b batch[Line]
	b.kind = KindLine

	for i := 0; i < 3; i++ {
		idx := b.append(NewLine(mgl32.Vec3{}, mgl32.Vec3{float32(i), 0, 0}), Red, ModNone, 0)
		if idx != i {
			t.Errorf("append %d returned index %d", i, idx)
		}
	}

	if len(b.recs) != 3 || len(b.colors) != 3 || len(b.mods) != 3 || len(b.durations) != 3 {
		t.Errorf("buffer lengths = %d/%d/%d/%d, want 3/3/3/3",
			len(b.recs), len(b.colors), len(b.mods), len(b.durations))
	}
}

// TestBatchDirty tests the dirty flag over the append, clean, and clear
// cycle.
func TestBatchDirty(t *testing.T) {
	var b batch[Line]
	b.kind = KindLine

	if b.isDirty() {
		t.Error("fresh batch is dirty")
	}

	b.append(Line{}, White, ModNone, 0)
	if !b.isDirty() {
		t.Error("append did not mark dirty")
	}

	b.markClean()
	if b.isDirty() {
		t.Error("markClean did not clear dirty")
	}

	b.clear()
	if !b.isDirty() {
		t.Error("clearing a non-empty batch did not mark dirty")
	}
}

// TestBatchClearRetainsCapacity tests that clear keeps the allocations
// and that clearing an empty batch is a no-op.
func TestBatchClearRetainsCapacity(t *testing.T) {
	b := batch[Line]{kind: KindLine, initCap: 8}

	for i := 0; i < 5; i++ {
		b.append(Line{}, White, ModNone, 0)
	}
	capBefore := b.capacity()

	b.clear()
	if b.count() != 0 {
		t.Errorf("count after clear = %d, want 0", b.count())
	}
	if b.capacity() != capBefore {
		t.Errorf("capacity after clear = %d, want %d", b.capacity(), capBefore)
	}

	// Clearing an already-empty batch must not touch the dirty flag.
	b.markClean()
	b.clear()
	if b.isDirty() {
		t.Error("empty clear marked the batch dirty")
	}
}

// TestBatchInitialCapacity tests the capacity hint and its fallback.
func TestBatchInitialCapacity(t *testing.T) {
	hinted := batch[Line]{kind: KindLine, initCap: 8}
	hinted.append(Line{}, White, ModNone, 0)
	if hinted.capacity() != 8 {
		t.Errorf("hinted capacity = %d, want 8", hinted.capacity())
	}

	var def batch[Line]
	def.kind = KindLine
	def.append(Line{}, White, ModNone, 0)
	if def.capacity() != initialBatchCapacity {
		t.Errorf("default capacity = %d, want %d", def.capacity(), initialBatchCapacity)
	}
}

// TestBatchReset tests that reset releases the buffers and that the
// batch is usable afterwards.
func TestBatchReset(t *testing.T) {
	var b batch[Line]
	b.kind = KindLine
	b.append(Line{}, White, ModNone, 0)

	b.reset()
	if b.count() != 0 || b.capacity() != 0 {
		t.Errorf("after reset count=%d cap=%d, want 0/0", b.count(), b.capacity())
	}
	if b.isDirty() {
		t.Error("reset batch is dirty")
	}

	b.append(Line{}, White, ModNone, 0)
	if b.count() != 1 {
		t.Errorf("count after re-append = %d, want 1", b.count())
	}
}

// TestBatchEncoding tests that records, colors, and modification words
// pack in append order.
func TestBatchEncoding(t *testing.T) {
	var b batch[Line]
	b.kind = KindLine
	b.append(NewLine(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 0, 0}), RGBA(1, 0, 0, 1), ModNone, 0)
	b.append(NewLine(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{4, 0, 0}), RGBA(0, 1, 0, 1), ModNormalFade, 0)

	recs := b.appendRecords(nil)
	if len(recs) != 2*lineStride {
		t.Fatalf("records = %d bytes, want %d", len(recs), 2*lineStride)
	}
	if got := f32At(t, recs, lineStride); got != 3 {
		t.Errorf("second record A.x = %v, want 3", got)
	}

	colors := b.appendColors(nil)
	if len(colors) != 2*colorStride {
		t.Fatalf("colors = %d bytes, want %d", len(colors), 2*colorStride)
	}
	if got := f32At(t, colors, colorStride+4); got != 1 {
		t.Errorf("second color G = %v, want 1", got)
	}

	mods := b.appendMods(nil)
	if len(mods) != 2*modStride {
		t.Fatalf("mods = %d bytes, want %d", len(mods), 2*modStride)
	}
	if got := u32At(t, mods, modStride); got != uint32(ModNormalFade) {
		t.Errorf("second mod word = %#x, want %#x", got, uint32(ModNormalFade))
	}
}

// TestKindStrides tests the kind-to-stride mapping used by the GPU sync.
func TestKindStrides(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindLine, lineStride},
		{KindArc, arcStride},
		{KindBox, boxStride},
		{KindOutlineGroup, outlineGroupStride},
	}
	for _, tt := range tests {
		if got := tt.kind.stride(); got != tt.want {
			t.Errorf("%s stride = %d, want %d", tt.kind, got, tt.want)
		}
	}
}
