package debugdraw

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func testView(id uint32) *View {
	return &View{
		ID:             id,
		Name:           "test",
		ViewProj:       mgl32.Ident4(),
		Eye:            mgl32.Vec3{0, 0, 5},
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		Interactive:    true,
	}
}

// attachTargets creates a color and depth attachment pair on the
// drawer's device and hangs them on v. Returns a cleanup function.
func attachTargets(t *testing.T, d *Drawer, v *View) func() {
	t.Helper()
	mk := func(label string, format gputypes.TextureFormat) (hal.Texture, hal.TextureView) {
		tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
			Label: label,
			Size: hal.Extent3D{
				Width:              64,
				Height:             64,
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        format,
			Usage:         gputypes.TextureUsageRenderAttachment,
		})
		if err != nil {
			t.Fatalf("CreateTexture %s failed: %v", label, err)
		}
		view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label: label + "_view",
		})
		if err != nil {
			t.Fatalf("CreateTextureView %s failed: %v", label, err)
		}
		return tex, view
	}
	colorTex, colorView := mk("test_color", gputypes.TextureFormatBGRA8Unorm)
	depthTex, depthView := mk("test_depth", gputypes.TextureFormatDepth24PlusStencil8)
	v.ColorTarget, v.DepthTarget = colorView, depthView
	return func() {
		d.device.DestroyTextureView(colorView)
		d.device.DestroyTexture(colorTex)
		d.device.DestroyTextureView(depthView)
		d.device.DestroyTexture(depthTex)
	}
}

// TestPrepareFrameEmpty tests that an empty drawer skips the draw.
func TestPrepareFrameEmpty(t *testing.T) {
	d, cleanup := newTestDrawer(t)
	defer cleanup()

	d.Tick(1.0)
	ok, err := d.PrepareFrame(testView(1))
	if err != nil {
		t.Fatalf("PrepareFrame failed: %v", err)
	}
	if ok {
		t.Error("empty drawer prepared a draw")
	}
}

// TestPrepareFrameOffsets tests the accumulated shared-buffer start
// offsets across kinds in draw order.
func TestPrepareFrameOffsets(t *testing.T) {
	d, cleanup := newTestDrawer(t)
	defer cleanup()

	d.Tick(1.0)
	for i := 0; i < 3; i++ {
		appendTestLine(d, GroupFrame)
	}
	arc := NewArcCircle(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 1)
	d.AppendArc(GroupFrame, arc, Green, ModNone, 0)
	d.AppendArc(GroupFrame, arc, Green, ModNone, 0)
	d.AppendBox(GroupFrame, NewBoxAxisAligned(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), Blue, ModNone, 0)

	d.AppendLine(GroupGizmo, NewLine(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}), Yellow, ModNone, 0)

	ok, err := d.PrepareFrame(testView(1))
	if err != nil {
		t.Fatalf("PrepareFrame failed: %v", err)
	}
	if !ok {
		t.Fatal("PrepareFrame skipped a non-empty draw")
	}

	// Three lines, two arcs, one box: starts accumulate 0, 3, 5, 6.
	wantStarts := [kindCount]uint32{0, 3, 5, 6}
	if d.frameRes.starts != wantStarts {
		t.Errorf("frame starts = %v, want %v", d.frameRes.starts, wantStarts)
	}
	wantCounts := [kindCount]uint32{3, 2, 1, 0}
	if d.frameRes.counts != wantCounts {
		t.Errorf("frame counts = %v, want %v", d.frameRes.counts, wantCounts)
	}

	// The gizmo group accumulates its own offsets independently.
	if d.gizmoRes.starts != ([kindCount]uint32{0, 1, 1, 1}) {
		t.Errorf("gizmo starts = %v, want [0 1 1 1]", d.gizmoRes.starts)
	}
	if d.gizmoRes.counts != ([kindCount]uint32{1, 0, 0, 0}) {
		t.Errorf("gizmo counts = %v, want [1 0 0 0]", d.gizmoRes.counts)
	}

	if got := d.Stats().MirrorBytes; got == 0 {
		t.Error("MirrorBytes = 0 after a prepared frame")
	}
}

// TestPrepareFrameDedup tests the once-per-view-per-tick guard across
// paused and advancing ticks.
func TestPrepareFrameDedup(t *testing.T) {
	d, cleanup := newTestDrawer(t)
	defer cleanup()

	d.Tick(1.0)
	appendTestLine(d, GroupGizmo)
	v := testView(7)

	if ok, err := d.PrepareFrame(v); err != nil || !ok {
		t.Fatalf("first prepare = %v, %v; want true, nil", ok, err)
	}
	if ok, err := d.PrepareFrame(v); err != nil || ok {
		t.Fatalf("second prepare same tick = %v, %v; want false, nil", ok, err)
	}

	// A paused tick still redraws: the sequence advances even when the
	// game time does not.
	d.Tick(1.0)
	if ok, err := d.PrepareFrame(v); err != nil || !ok {
		t.Fatalf("prepare after paused tick = %v, %v; want true, nil", ok, err)
	}

	// An advancing tick clears the frame group; the gizmo group
	// survives and keeps the draw going.
	d.Tick(2.0)
	if ok, err := d.PrepareFrame(v); err != nil || !ok {
		t.Fatalf("prepare after advancing tick = %v, %v; want true, nil", ok, err)
	}
}

// TestPrepareFrameMultiView tests that distinct views draw within one
// tick while each one stays deduplicated.
func TestPrepareFrameMultiView(t *testing.T) {
	d, cleanup := newTestDrawer(t)
	defer cleanup()

	d.Tick(1.0)
	appendTestLine(d, GroupFrame)

	v1, v2 := testView(1), testView(2)
	if ok, _ := d.PrepareFrame(v1); !ok {
		t.Error("view 1 refused")
	}
	if ok, _ := d.PrepareFrame(v2); !ok {
		t.Error("view 2 refused")
	}
	if ok, _ := d.PrepareFrame(v1); ok {
		t.Error("view 1 drew twice in one tick")
	}
}

// TestPrepareFrameSkips tests the gate and state refusals.
func TestPrepareFrameSkips(t *testing.T) {
	d, cleanup := newTestDrawer(t)
	defer cleanup()

	d.Tick(1.0)
	appendTestLine(d, GroupFrame)

	offscreen := testView(1)
	offscreen.Interactive = false
	offscreen.OffscreenTarget = true
	if ok, err := d.PrepareFrame(offscreen); err != nil || ok {
		t.Errorf("offscreen prepare = %v, %v; want false, nil", ok, err)
	}

	d.SetGizmosEnabled(false)
	if ok, err := d.PrepareFrame(testView(2)); err != nil || ok {
		t.Errorf("disabled prepare = %v, %v; want false, nil", ok, err)
	}
	d.SetGizmosEnabled(true)

	d.SetIgnore(true)
	if ok, err := d.PrepareFrame(testView(3)); err != nil || ok {
		t.Errorf("ignoring prepare = %v, %v; want false, nil", ok, err)
	}
	d.SetIgnore(false)

	if ok, err := d.PrepareFrame(testView(4)); err != nil || !ok {
		t.Errorf("prepare after re-enable = %v, %v; want true, nil", ok, err)
	}
}

// TestPrepareFrameErrors tests the fatal argument errors.
func TestPrepareFrameErrors(t *testing.T) {
	d, cleanup := newTestDrawer(t)
	defer cleanup()

	if _, err := d.PrepareFrame(nil); err != ErrNilView {
		t.Errorf("nil view error = %v, want ErrNilView", err)
	}

	d.Close()
	if _, err := d.PrepareFrame(testView(1)); err != ErrDrawerClosed {
		t.Errorf("closed error = %v, want ErrDrawerClosed", err)
	}
}

// TestMirrorTracksBatchCapacity tests that a record mirror is sized by
// the batch's CPU capacity, not its length.
func TestMirrorTracksBatchCapacity(t *testing.T) {
	d, cleanup := newTestDrawer(t, WithSettings(Settings{
		Capacities: Capacities{Lines: 2},
	}))
	defer cleanup()

	d.Tick(1.0)
	for i := 0; i < 3; i++ {
		appendTestLine(d, GroupFrame)
	}
	if ok, err := d.PrepareFrame(testView(1)); err != nil || !ok {
		t.Fatalf("prepare = %v, %v; want true, nil", ok, err)
	}

	wantCap := uint64(d.frame.lines.capacity() * lineStride)
	if got := d.frameRes.records[KindLine].Capacity(); got != wantCap {
		t.Errorf("line mirror capacity = %d, want %d", got, wantCap)
	}
}

// TestExecuteImmediate tests the full immediate path on the noop
// backend, including the skip on a second call in the same tick.
func TestExecuteImmediate(t *testing.T) {
	d, cleanup := newTestDrawer(t)
	defer cleanup()

	d.Tick(1.0)
	appendTestLine(d, GroupFrame)
	d.AppendOutlineGroup(GroupFrame, NewOutlineCapsule(mgl32.Vec3{}, mgl32.Vec3{0, 2, 0}, 0.5),
		Cyan, ModNormalFade, 0)

	v := testView(1)
	release := attachTargets(t, d, v)
	defer release()

	if err := d.ExecuteImmediate(v); err != nil {
		t.Fatalf("ExecuteImmediate failed: %v", err)
	}

	// Second call in the same tick is a silent skip.
	if err := d.ExecuteImmediate(v); err != nil {
		t.Fatalf("deduplicated ExecuteImmediate failed: %v", err)
	}
}

// TestExecuteImmediateNoTarget tests the missing-attachment guard.
func TestExecuteImmediateNoTarget(t *testing.T) {
	d, cleanup := newTestDrawer(t)
	defer cleanup()

	d.Tick(1.0)
	appendTestLine(d, GroupFrame)

	if err := d.ExecuteImmediate(testView(1)); err != ErrNoTarget {
		t.Errorf("error = %v, want ErrNoTarget", err)
	}
	if err := d.ExecuteImmediate(nil); err != ErrNilView {
		t.Errorf("nil view error = %v, want ErrNilView", err)
	}
}

// TestExecuteUnprepared tests that Execute is safe before any prepare.
func TestExecuteUnprepared(t *testing.T) {
	d, cleanup := newTestDrawer(t)
	defer cleanup()

	// No pipelines, no pass: must simply record nothing.
	d.Execute(nil)
}

// TestReleaseGPUResources tests release and lazy rebuild, including the
// forced re-upload of batches that were clean at release time.
func TestReleaseGPUResources(t *testing.T) {
	d, cleanup := newTestDrawer(t)
	defer cleanup()

	d.Tick(1.0)
	appendTestLine(d, GroupGizmo)
	if ok, err := d.PrepareFrame(testView(1)); err != nil || !ok {
		t.Fatalf("prepare = %v, %v; want true, nil", ok, err)
	}
	genBefore := d.gizmoRes.records[KindLine].Generation()

	d.ReleaseGPUResources()
	if d.gpuReady {
		t.Error("gpuReady after release")
	}
	if d.gizmoRes.records[KindLine].Buffer() != nil {
		t.Error("record mirror still has a buffer after release")
	}
	if got := d.Stats().Gizmo.Lines; got != 1 {
		t.Errorf("gizmo lines after release = %d, want 1 (CPU state kept)", got)
	}

	// The next prepared frame rebuilds everything and re-uploads the
	// untouched batch.
	d.Tick(1.0)
	if ok, err := d.PrepareFrame(testView(1)); err != nil || !ok {
		t.Fatalf("prepare after release = %v, %v; want true, nil", ok, err)
	}
	if !d.gpuReady {
		t.Error("gpuReady not restored")
	}
	if d.gizmoRes.records[KindLine].Buffer() == nil {
		t.Error("record mirror not rebuilt")
	}
	if got := d.gizmoRes.records[KindLine].Generation(); got <= genBefore {
		t.Errorf("generation = %d, want > %d after rebuild", got, genBefore)
	}
}

// TestCloseReleasesGPU tests that Close tears the GPU state down.
func TestCloseReleasesGPU(t *testing.T) {
	d, cleanup := newTestDrawer(t)
	defer cleanup()

	d.Tick(1.0)
	appendTestLine(d, GroupFrame)
	if ok, err := d.PrepareFrame(testView(1)); err != nil || !ok {
		t.Fatalf("prepare = %v, %v; want true, nil", ok, err)
	}

	d.Close()
	if d.gpuReady {
		t.Error("gpuReady after close")
	}
	if d.viewBuf != nil {
		t.Error("view uniform buffer survived close")
	}
	for k := 0; k < kindCount; k++ {
		if d.pipes[k] != nil || d.meshes[k] != nil {
			t.Errorf("kind %v pipeline or mesh survived close", Kind(k))
		}
	}
}
