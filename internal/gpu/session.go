// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrSubmitTimeout is returned when the GPU does not signal the overlay
// fence within submitTimeout.
var ErrSubmitTimeout = errors.New("gpu: overlay submit timed out")

// submitTimeout bounds the fence wait after an immediate submit.
const submitTimeout = 5 * time.Second

// Uniform buffer sizes. Must match the ViewUniform and BatchUniform structs
// in the shaders under shaders/.
const (
	// ViewUniformSize: view_proj mat4x4 (64) + eye vec4 (16) + params vec4 (16).
	ViewUniformSize = 96

	// BatchUniformSize: shared_start u32 padded to 16 bytes.
	BatchUniformSize = 16
)

// ViewUniform is the CPU-side image of the per-view shader uniform.
// ViewProj is column-major, matching both WGSL and mgl32.
type ViewUniform struct {
	ViewProj [16]float32
	Eye      [4]float32
	Params   [4]float32
}

// Pack appends the 96-byte GPU encoding of u to dst.
func (u *ViewUniform) Pack(dst []byte) []byte {
	for _, v := range u.ViewProj {
		dst = appendF32(dst, v)
	}
	for _, v := range u.Eye {
		dst = appendF32(dst, v)
	}
	for _, v := range u.Params {
		dst = appendF32(dst, v)
	}
	return dst
}

func appendF32(dst []byte, v float32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	return append(dst, b[:]...)
}

// CreateUniformBuffer allocates a uniform buffer of the given size.
func CreateUniformBuffer(device hal.Device, label string, size uint64) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return buf, nil
}

// DrawBinding is the per-batch GPU binding: the batch uniform holding the
// shared-buffer start offset, and the bind group tying the view uniform,
// batch uniform, record mirror, and the group's shared side-channel mirrors
// together. The bind group is rebuilt only when one of the mirrors has
// reallocated since it was built.
type DrawBinding struct {
	uniform   hal.Buffer
	bindGroup hal.BindGroup

	built  bool
	recGen uint64
	colGen uint64
	modGen uint64
}

// Ensure creates or refreshes the binding. viewBuf must stay stable for the
// binding's lifetime (it is allocated once per drawer).
func (d *DrawBinding) Ensure(
	device hal.Device,
	label string,
	layout hal.BindGroupLayout,
	viewBuf hal.Buffer,
	records, colors, modFlags *Mirror,
) error {
	if d.uniform == nil {
		buf, err := CreateUniformBuffer(device, label+"_batch_uniform", BatchUniformSize)
		if err != nil {
			return err
		}
		d.uniform = buf
	}

	if d.built &&
		d.recGen == records.Generation() &&
		d.colGen == colors.Generation() &&
		d.modGen == modFlags.Generation() {
		return nil
	}

	if d.bindGroup != nil {
		device.DestroyBindGroup(d.bindGroup)
		d.bindGroup = nil
		d.built = false
	}

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: bindingViewUniform, Resource: gputypes.BufferBinding{
				Buffer: viewBuf.NativeHandle(), Offset: 0, Size: ViewUniformSize,
			}},
			{Binding: bindingBatchUniform, Resource: gputypes.BufferBinding{
				Buffer: d.uniform.NativeHandle(), Offset: 0, Size: BatchUniformSize,
			}},
			{Binding: bindingRecords, Resource: gputypes.BufferBinding{
				Buffer: records.Buffer().NativeHandle(), Offset: 0, Size: records.Capacity(),
			}},
			{Binding: bindingColors, Resource: gputypes.BufferBinding{
				Buffer: colors.Buffer().NativeHandle(), Offset: 0, Size: colors.Capacity(),
			}},
			{Binding: bindingModFlags, Resource: gputypes.BufferBinding{
				Buffer: modFlags.Buffer().NativeHandle(), Offset: 0, Size: modFlags.Capacity(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create %s bind group: %w", label, err)
	}
	d.bindGroup = bindGroup
	d.built = true
	d.recGen = records.Generation()
	d.colGen = colors.Generation()
	d.modGen = modFlags.Generation()
	return nil
}

// SetStart uploads the shared-buffer start offset for this batch. Both
// depth passes read the same value, so instance i of this batch addresses
// colors[start+i] and mod_flags[start+i] consistently across passes.
func (d *DrawBinding) SetStart(queue hal.Queue, start uint32) {
	var data [BatchUniformSize]byte
	binary.LittleEndian.PutUint32(data[0:], start)
	queue.WriteBuffer(d.uniform, 0, data[:])
}

// BindGroup returns the current bind group, or nil before the first Ensure.
func (d *DrawBinding) BindGroup() hal.BindGroup { return d.bindGroup }

// Destroy releases the binding's GPU resources. Safe to call repeatedly.
func (d *DrawBinding) Destroy(device hal.Device) {
	if d.bindGroup != nil {
		device.DestroyBindGroup(d.bindGroup)
		d.bindGroup = nil
	}
	if d.uniform != nil {
		device.DestroyBuffer(d.uniform)
		d.uniform = nil
	}
	d.built = false
}

// RecordBatch records one instanced draw for a batch into an open render
// pass. The caller sets the pass-wide pipeline variant; RecordBatch is
// pipeline-agnostic beyond that.
func RecordBatch(
	rp hal.RenderPassEncoder,
	pipeline hal.RenderPipeline,
	binding *DrawBinding,
	mesh *Mesh,
	instances uint32,
) {
	if instances == 0 || binding == nil || binding.bindGroup == nil || mesh == nil {
		return
	}
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, binding.bindGroup, nil)
	rp.SetVertexBuffer(0, mesh.buf, 0)
	rp.Draw(mesh.vertexCount, instances, 0, 0)
}

// OverlayTarget is the attachment pair for an immediate overlay submit.
// Both views come from the host; the overlay loads and preserves their
// contents (the debug shapes draw over the already-rendered scene).
type OverlayTarget struct {
	Color hal.TextureView
	Depth hal.TextureView
}

// SubmitOverlay encodes one render pass over the target, invokes record to
// fill it, then submits and blocks until the GPU signals completion.
func SubmitOverlay(
	device hal.Device,
	queue hal.Queue,
	label string,
	target OverlayTarget,
	record func(hal.RenderPassEncoder),
) error {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    target.Color,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:           target.Depth,
			DepthLoadOp:    gputypes.LoadOpLoad,
			DepthStoreOp:   gputypes.StoreOpStore,
			StencilLoadOp:  gputypes.LoadOpLoad,
			StencilStoreOp: gputypes.StoreOpStore,
		},
	})
	record(rp)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := device.Wait(fence, 1, submitTimeout)
	if err != nil {
		return fmt.Errorf("wait for fence: %w", err)
	}
	if !ok {
		return ErrSubmitTimeout
	}
	return nil
}
