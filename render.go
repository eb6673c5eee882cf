package debugdraw

import (
	"github.com/gogpu/debugdraw/internal/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// mirrorUsage is the usage of every record and side-channel mirror: the
// shaders read them as storage buffers, the sync path writes them.
const mirrorUsage = gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst

// groupResources mirrors one accumulation group on the GPU: one record
// mirror per kind, the group's shared color and modification mirrors,
// and the per-kind draw bindings. starts and counts snapshot the last
// sync and feed Execute.
type groupResources struct {
	label    string
	records  [kindCount]*gpu.Mirror
	colors   *gpu.Mirror
	mods     *gpu.Mirror
	bindings [kindCount]*gpu.DrawBinding
	starts   [kindCount]uint32
	counts   [kindCount]uint32

	// lost forces a full re-upload after the GPU side was released out
	// from under otherwise-clean batches.
	lost bool
}

func (r *groupResources) init(label string) {
	r.label = label
	for k := 0; k < kindCount; k++ {
		r.records[k] = gpu.NewMirror(label+"_"+Kind(k).String(), mirrorUsage)
		r.bindings[k] = &gpu.DrawBinding{}
	}
	r.colors = gpu.NewMirror(label+"_colors", mirrorUsage)
	r.mods = gpu.NewMirror(label+"_mods", mirrorUsage)
}

// mirrorBytes sums the GPU capacity of every mirror in the group.
func (r *groupResources) mirrorBytes() uint64 {
	n := r.colors.Capacity() + r.mods.Capacity()
	for _, m := range r.records {
		n += m.Capacity()
	}
	return n
}

func (r *groupResources) release(device hal.Device) {
	for k := 0; k < kindCount; k++ {
		r.records[k].Destroy(device)
		r.bindings[k].Destroy(device)
	}
	r.colors.Destroy(device)
	r.mods.Destroy(device)
	r.starts = [kindCount]uint32{}
	r.counts = [kindCount]uint32{}
	r.lost = true
}

func kindShader(k Kind) string {
	switch k {
	case KindLine:
		return gpu.LineShaderSource()
	case KindArc:
		return gpu.ArcShaderSource()
	case KindBox:
		return gpu.BoxShaderSource()
	default:
		return gpu.OutlineShaderSource()
	}
}

func kindMeshData(k Kind) []byte {
	switch k {
	case KindLine:
		return gpu.BuildLineMesh()
	case KindArc:
		return gpu.BuildArcMesh()
	case KindBox:
		return gpu.BuildBoxMesh()
	default:
		return gpu.BuildOutlineMesh()
	}
}

// ensureGPU lazily creates the pipeline sets, unit meshes, and view
// uniform buffer. Runs on the first prepared frame and again after
// ReleaseGPUResources.
func (d *Drawer) ensureGPU() error {
	if d.gpuReady {
		return nil
	}
	for k := Kind(0); k < kindCount; k++ {
		if d.pipes[k] == nil {
			ps, err := gpu.CreatePipelineSet(d.device, gpu.PipelineConfig{
				Label:       "debugdraw_" + k.String(),
				Shader:      kindShader(k),
				ColorFormat: d.opts.colorFormat,
				DepthFormat: d.opts.depthFormat,
				SampleCount: d.opts.sampleCount,
			})
			if err != nil {
				d.releaseGPU()
				return err
			}
			d.pipes[k] = ps
		}
		if d.meshes[k] == nil {
			m, err := gpu.CreateMesh(d.device, d.queue, "debugdraw_"+k.String()+"_mesh", kindMeshData(k))
			if err != nil {
				d.releaseGPU()
				return err
			}
			d.meshes[k] = m
		}
	}
	if d.viewBuf == nil {
		buf, err := gpu.CreateUniformBuffer(d.device, "debugdraw_view", gpu.ViewUniformSize)
		if err != nil {
			d.releaseGPU()
			return err
		}
		d.viewBuf = buf
	}
	d.gpuReady = true
	Logger().Debug("gpu resources created",
		"color_format", d.opts.colorFormat,
		"depth_format", d.opts.depthFormat,
		"sample_count", d.opts.sampleCount)
	return nil
}

// releaseGPU destroys every GPU-side object. CPU accumulation state is
// untouched; the next prepared frame re-creates and re-uploads.
func (d *Drawer) releaseGPU() {
	d.frameRes.release(d.device)
	d.gizmoRes.release(d.device)
	for k := 0; k < kindCount; k++ {
		if d.pipes[k] != nil {
			d.pipes[k].Destroy(d.device)
			d.pipes[k] = nil
		}
		if d.meshes[k] != nil {
			d.meshes[k].Destroy(d.device)
			d.meshes[k] = nil
		}
	}
	if d.viewBuf != nil {
		d.device.DestroyBuffer(d.viewBuf)
		d.viewBuf = nil
	}
	d.gpuReady = false
}

// ReleaseGPUResources frees every GPU object while keeping the
// accumulated shapes. Use it on device loss or a hot-reload boundary;
// the next prepared frame rebuilds everything.
func (d *Drawer) ReleaseGPUResources() {
	if d.closed {
		return
	}
	d.releaseGPU()
}

// syncGroup mirrors one accumulation group to the GPU. Record mirrors
// are sized by batch capacity, so a growing batch reallocates its
// mirror before overflowing it; uploads cover only the live records.
// The shared color and modification mirrors are rebuilt whole whenever
// any batch changed, keeping the accumulated start offsets consistent
// across kinds.
func (d *Drawer) syncGroup(g *group, res *groupResources) error {
	batches := g.batches()

	// Start offsets accumulate over the draw order.
	var start uint32
	for i, b := range batches {
		res.starts[i] = start
		res.counts[i] = uint32(b.count())
		start += res.counts[i]
	}
	total := start

	anyDirty := res.lost
	for _, b := range batches {
		if b.isDirty() {
			anyDirty = true
		}
	}

	for i, b := range batches {
		if b.count() == 0 || !(b.isDirty() || res.lost) {
			continue
		}
		stride := b.kindID().stride()
		if err := res.records[i].Ensure(d.device, uint64(b.capacity()*stride)); err != nil {
			return err
		}
		d.staging = b.appendRecords(d.staging[:0])
		if err := res.records[i].Upload(d.queue, d.staging); err != nil {
			return err
		}
	}

	if anyDirty && total > 0 {
		capTotal := 0
		for _, b := range batches {
			capTotal += b.capacity()
		}
		if err := res.colors.Ensure(d.device, uint64(capTotal*colorStride)); err != nil {
			return err
		}
		d.staging = d.staging[:0]
		for _, b := range batches {
			d.staging = b.appendColors(d.staging)
		}
		if err := res.colors.Upload(d.queue, d.staging); err != nil {
			return err
		}

		if err := res.mods.Ensure(d.device, uint64(capTotal*modStride)); err != nil {
			return err
		}
		d.staging = d.staging[:0]
		for _, b := range batches {
			d.staging = b.appendMods(d.staging)
		}
		if err := res.mods.Upload(d.queue, d.staging); err != nil {
			return err
		}
	}

	for i := 0; i < kindCount; i++ {
		if res.counts[i] == 0 {
			continue
		}
		err := res.bindings[i].Ensure(d.device, res.label+"_"+Kind(i).String(),
			d.pipes[i].BindGroupLayout(), d.viewBuf,
			res.records[i], res.colors, res.mods)
		if err != nil {
			return err
		}
		res.bindings[i].SetStart(d.queue, res.starts[i])
	}

	for _, b := range batches {
		b.markClean()
	}
	res.lost = false

	if anyDirty {
		Logger().Debug("group synced", "group", res.label, "records", total)
	}
	return nil
}

// PrepareFrame syncs both accumulation groups to the GPU and uploads
// the view uniform for v. It returns true when Execute should run for
// this view, and false when the draw was skipped: the render gate
// refused the view, the drawer is ignoring, the view was already drawn
// this tick, or there is nothing to draw. A skipped draw is not an
// error; errors mean a GPU allocation failed and are fatal.
//
// PrepareFrame submits no GPU work itself. Buffer writes are queued on
// the host queue and the draws happen in Execute or ExecuteImmediate.
func (d *Drawer) PrepareFrame(v *View) (bool, error) {
	if d.closed {
		return false, ErrDrawerClosed
	}
	if v == nil {
		return false, ErrNilView
	}
	if !d.ShouldRender(v) {
		return false, nil
	}
	if d.state == StateIgnore {
		return false, nil
	}
	if seq, ok := d.lastRendered[v.ID]; ok && seq == d.tickSeq {
		return false, nil
	}
	if d.frame.total()+d.gizmo.total() == 0 {
		return false, nil
	}

	if err := d.ensureGPU(); err != nil {
		return false, err
	}
	if err := d.syncGroup(&d.frame, &d.frameRes); err != nil {
		return false, err
	}
	if err := d.syncGroup(&d.gizmo, &d.gizmoRes); err != nil {
		return false, err
	}
	d.uploadView(v)

	d.lastRendered[v.ID] = d.tickSeq
	return true, nil
}

// uploadView packs and uploads the per-view uniform. The configured
// line width is in pixels; dividing by the view height turns it into
// the clip-space half width the shaders extrude by, and the aspect
// ratio keeps that width square on screen. A 1080-pixel-tall 16:9
// viewport stands in when the view does not say.
func (d *Drawer) uploadView(v *View) {
	h := v.ViewportHeight
	if h <= 0 {
		h = 1080
	}
	w := v.ViewportWidth
	if w <= 0 {
		w = h * 16 / 9
	}
	u := gpu.ViewUniform{
		ViewProj: [16]float32(v.ViewProj),
		Eye:      [4]float32{v.Eye.X(), v.Eye.Y(), v.Eye.Z(), 1},
		Params: [4]float32{
			d.opts.settings.OccludedFade,
			d.opts.settings.LineWidth / h,
			d.opts.settings.NormalFade,
			w / h,
		},
	}
	d.staging = u.Pack(d.staging[:0])
	d.queue.WriteBuffer(d.viewBuf, 0, d.staging)
}

// Execute records the overlay into the host's open render pass: first
// the occluded variants, faded where scene geometry covers them, then
// the visible variants on top. Call it after PrepareFrame returned true
// for the pass's view. With a nil pass or an unprepared drawer it
// records nothing.
func (d *Drawer) Execute(rp hal.RenderPassEncoder) {
	if rp == nil || d.closed || !d.gpuReady {
		return
	}
	groups := [2]*groupResources{&d.frameRes, &d.gizmoRes}
	for _, res := range groups {
		for k := 0; k < kindCount; k++ {
			gpu.RecordBatch(rp, d.pipes[k].Occluded(), res.bindings[k], d.meshes[k], res.counts[k])
		}
	}
	for _, res := range groups {
		for k := 0; k < kindCount; k++ {
			gpu.RecordBatch(rp, d.pipes[k].Visible(), res.bindings[k], d.meshes[k], res.counts[k])
		}
	}
}

// ExecuteImmediate prepares and draws v in one call, opening a render
// pass over the view's own attachments and blocking until the GPU
// finishes. A skipped draw returns nil. Use Execute instead when the
// host already has a pass open.
func (d *Drawer) ExecuteImmediate(v *View) error {
	if d.closed {
		return ErrDrawerClosed
	}
	if v == nil {
		return ErrNilView
	}
	if v.ColorTarget == nil || v.DepthTarget == nil {
		return ErrNoTarget
	}
	ok, err := d.PrepareFrame(v)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return gpu.SubmitOverlay(d.device, d.queue, "debugdraw", gpu.OverlayTarget{
		Color: v.ColorTarget,
		Depth: v.DepthTarget,
	}, func(rp hal.RenderPassEncoder) {
		d.Execute(rp)
	})
}
