// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu implements the HAL-level machinery behind debugdraw: mirror
// buffers for instance data, unit meshes, render pipeline pairs, and the
// per-frame bind group and submit plumbing. The public debugdraw package
// owns all policy (what to draw, when to clear); this package only moves
// bytes and issues commands.
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Common errors returned by mirror operations.
var (
	// ErrMirrorSize is returned when a mirror is asked for a zero or
	// unrepresentable capacity.
	ErrMirrorSize = errors.New("gpu: invalid mirror capacity")

	// ErrMirrorNotCreated is returned when uploading to a mirror whose
	// backing buffer has not been allocated yet.
	ErrMirrorNotCreated = errors.New("gpu: mirror buffer not created")
)

// bufferAlignment is the required size alignment for buffer allocations.
// WebGPU requires buffer sizes to be multiples of 4 bytes.
const bufferAlignment = 4

// alignUp rounds size up to the next multiple of bufferAlignment.
func alignUp(size uint64) uint64 {
	return (size + bufferAlignment - 1) &^ (bufferAlignment - 1)
}

// Mirror is a GPU-resident copy of a CPU-side record buffer. The CPU side
// appends freely; before each draw the owner calls Ensure with the CPU
// capacity in bytes and Upload with the packed live range.
//
// Capacity only grows. Ensure reallocates at the requested capacity (the CPU
// capacity, not the CPU length) so that a sync immediately followed by more
// appends does not force a second reallocation. Each reallocation bumps a
// generation counter; bind groups referencing the old buffer rebuild when
// they observe a new generation.
type Mirror struct {
	label      string
	usage      gputypes.BufferUsage
	buf        hal.Buffer
	capacity   uint64
	generation uint64
}

// NewMirror returns an empty mirror. No GPU memory is allocated until the
// first Ensure call.
func NewMirror(label string, usage gputypes.BufferUsage) *Mirror {
	return &Mirror{label: label, usage: usage}
}

// Ensure guarantees the mirror's capacity is at least capacity bytes.
// If the current buffer is large enough this is a no-op. Otherwise the old
// buffer is destroyed and a new one created at the requested size (aligned
// up to 4 bytes), and the generation counter advances.
func (m *Mirror) Ensure(device hal.Device, capacity uint64) error {
	if capacity == 0 {
		return fmt.Errorf("%w: %s", ErrMirrorSize, m.label)
	}
	capacity = alignUp(capacity)
	if m.buf != nil && m.capacity >= capacity {
		return nil
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: m.label,
		Size:  capacity,
		Usage: m.usage,
	})
	if err != nil {
		return fmt.Errorf("create %s (%d bytes): %w", m.label, capacity, err)
	}
	if m.buf != nil {
		device.DestroyBuffer(m.buf)
	}
	slogger().Debug("mirror buffer grown",
		"label", m.label, "old", m.capacity, "new", capacity)
	m.buf = buf
	m.capacity = capacity
	m.generation++
	return nil
}

// Upload writes data into the mirror starting at byte offset 0.
// The caller must have called Ensure with at least len(data) first.
func (m *Mirror) Upload(queue hal.Queue, data []byte) error {
	return m.UploadAt(queue, 0, data)
}

// UploadAt writes data into the mirror at the given byte offset. Used for
// the shared side-channel buffers, where each batch owns a sub-range.
func (m *Mirror) UploadAt(queue hal.Queue, offset uint64, data []byte) error {
	if m.buf == nil {
		return fmt.Errorf("%w: %s", ErrMirrorNotCreated, m.label)
	}
	if len(data) == 0 {
		return nil
	}
	if offset+uint64(len(data)) > m.capacity {
		return fmt.Errorf("%w: %s: write [%d, %d) exceeds capacity %d",
			ErrMirrorSize, m.label, offset, offset+uint64(len(data)), m.capacity)
	}
	queue.WriteBuffer(m.buf, offset, data)
	return nil
}

// Buffer returns the backing hal buffer, or nil before the first Ensure.
func (m *Mirror) Buffer() hal.Buffer { return m.buf }

// Capacity returns the current capacity in bytes.
func (m *Mirror) Capacity() uint64 { return m.capacity }

// Generation returns the reallocation counter. It starts at zero and
// advances every time Ensure replaces the backing buffer.
func (m *Mirror) Generation() uint64 { return m.generation }

// Destroy releases the backing buffer. Safe to call multiple times.
// After Destroy the mirror can be reused; the next Ensure reallocates.
func (m *Mirror) Destroy(device hal.Device) {
	if m.buf != nil {
		device.DestroyBuffer(m.buf)
		m.buf = nil
	}
	m.capacity = 0
}
