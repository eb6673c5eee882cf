// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrMeshData is returned when a mesh is created from empty or misaligned
// vertex data.
var ErrMeshData = errors.New("gpu: invalid mesh vertex data")

// MeshVertexStride is the size of one unit-mesh vertex in bytes:
//   - offset 0:  param.x float32 (position along the primitive, 0..1)
//   - offset 4:  param.y float32 (extrusion side, -1 or +1)
//   - offset 8:  aux     float32 (primitive-local index, kind-specific)
//
// Must match the VertexIn struct in the shaders under shaders/.
const MeshVertexStride = 12

// ArcSegments is the number of quads in the arc unit mesh. The shader maps
// each quad onto an equal angular span of the arc.
const ArcSegments = 32

// Mesh is an immutable unit mesh shared by every instance of one shape kind.
// The vertex data carries no world-space geometry; shaders expand each
// vertex from the instance record.
type Mesh struct {
	buf         hal.Buffer
	vertexCount uint32
}

// CreateMesh uploads packed vertex data and returns the mesh.
func CreateMesh(device hal.Device, queue hal.Queue, label string, data []byte) (*Mesh, error) {
	if len(data) == 0 || len(data)%MeshVertexStride != 0 {
		return nil, fmt.Errorf("%w: %s: %d bytes", ErrMeshData, label, len(data))
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return &Mesh{
		buf:         buf,
		vertexCount: uint32(len(data) / MeshVertexStride),
	}, nil
}

// Buffer returns the vertex buffer.
func (m *Mesh) Buffer() hal.Buffer { return m.buf }

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() uint32 { return m.vertexCount }

// Destroy releases the vertex buffer. Safe to call multiple times.
func (m *Mesh) Destroy(device hal.Device) {
	if m.buf != nil {
		device.DestroyBuffer(m.buf)
		m.buf = nil
	}
	m.vertexCount = 0
}

// MeshVertexLayout returns the vertex buffer layout shared by all shape
// pipelines.
func MeshVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: MeshVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // param
				{Format: gputypes.VertexFormatFloat32, Offset: 8, ShaderLocation: 1},   // aux
			},
		},
	}
}

// writeMeshVertex packs one vertex at dst[offset:].
func writeMeshVertex(dst []byte, offset int, u, v, aux float32) {
	binary.LittleEndian.PutUint32(dst[offset:], math.Float32bits(u))
	binary.LittleEndian.PutUint32(dst[offset+4:], math.Float32bits(v))
	binary.LittleEndian.PutUint32(dst[offset+8:], math.Float32bits(aux))
}

// appendQuad packs one extruded segment quad: two triangles spanning
// param.x in [t0, t1] and param.y in [-1, +1].
func appendQuad(dst []byte, offset int, t0, t1, aux float32) int {
	verts := [6][2]float32{
		{t0, -1}, {t1, -1}, {t1, +1},
		{t0, -1}, {t1, +1}, {t0, +1},
	}
	for _, v := range verts {
		writeMeshVertex(dst, offset, v[0], v[1], aux)
		offset += MeshVertexStride
	}
	return offset
}

// BuildLineMesh returns the line unit mesh: a single quad the shader
// stretches between the record's endpoints and extrudes sideways in screen
// space. 6 vertices.
func BuildLineMesh() []byte {
	data := make([]byte, 6*MeshVertexStride)
	appendQuad(data, 0, 0, 1, 0)
	return data
}

// BuildArcMesh returns the arc unit mesh: ArcSegments quads, each covering
// 1/ArcSegments of the record's angular span. 6*ArcSegments vertices.
func BuildArcMesh() []byte {
	data := make([]byte, 6*ArcSegments*MeshVertexStride)
	offset := 0
	for s := range ArcSegments {
		t0 := float32(s) / ArcSegments
		t1 := float32(s+1) / ArcSegments
		offset = appendQuad(data, offset, t0, t1, 0)
	}
	return data
}

// boxEdges lists the 12 wireframe edges of a unit cube. Corners are encoded
// in 3 bits: bit 0 selects +x, bit 1 selects +y, bit 2 selects +z.
var boxEdges = [12][2]uint32{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along x
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along z
}

// BuildBoxMesh returns the box wireframe unit mesh: one quad per cube edge.
// aux packs both corner ids (low 3 bits and next 3 bits) for the shader to
// decode. 72 vertices.
func BuildBoxMesh() []byte {
	data := make([]byte, 6*len(boxEdges)*MeshVertexStride)
	offset := 0
	for _, e := range boxEdges {
		aux := float32(e[0] | e[1]<<3)
		offset = appendQuad(data, offset, 0, 1, aux)
	}
	return data
}

// BuildOutlineMesh returns the outline-group unit mesh: one quad per group
// member. aux selects the member (0, 1, 2). 18 vertices.
func BuildOutlineMesh() []byte {
	data := make([]byte, 6*3*MeshVertexStride)
	offset := 0
	for member := range 3 {
		offset = appendQuad(data, offset, 0, 1, float32(member))
	}
	return data
}
