// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrShaderEmpty is returned when a pipeline set is created from an empty
// shader source (a broken embed).
var ErrShaderEmpty = errors.New("gpu: shader source is empty")

// Bind group layout slots shared by all shape pipelines. Instance records,
// colors, and modification flags are read-only storage addressed by
// instance_index (+ shared_start for the side channels).
const (
	bindingViewUniform  = 0
	bindingBatchUniform = 1
	bindingRecords      = 2
	bindingColors       = 3
	bindingModFlags     = 4
)

// PipelineConfig describes one shape kind's pipeline set.
type PipelineConfig struct {
	// Label prefixes all GPU object labels ("line", "arc", ...).
	Label string

	// Shader is the WGSL source with vs_main, fs_main, and fs_occluded.
	Shader string

	// ColorFormat is the render target format.
	ColorFormat gputypes.TextureFormat

	// DepthFormat is the depth/stencil attachment format.
	DepthFormat gputypes.TextureFormat

	// SampleCount is the MSAA sample count (1 for no MSAA).
	SampleCount uint32
}

// PipelineSet holds one shape kind's shader module, layouts, and the two
// depth-variant render pipelines:
//
//   - visible: depth test LessEqual, full-strength fragment (fs_main).
//     Draws the parts of shapes in front of the host scene's geometry.
//   - occluded: depth test Greater, faded fragment (fs_occluded).
//     Draws the parts hidden behind geometry at reduced alpha.
//
// Neither variant writes depth; the overlay never disturbs the host depth
// buffer. Both pipelines share the bind group layout, so one bind group per
// batch serves both passes with identical buffer offsets.
type PipelineSet struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	visible    hal.RenderPipeline
	occluded   hal.RenderPipeline
}

// CreatePipelineSet builds the pipeline pair for one shape kind.
func CreatePipelineSet(device hal.Device, cfg PipelineConfig) (*PipelineSet, error) {
	if cfg.Shader == "" {
		return nil, fmt.Errorf("%w: %s", ErrShaderEmpty, cfg.Label)
	}
	if cfg.SampleCount == 0 {
		cfg.SampleCount = 1
	}

	ps := &PipelineSet{}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  cfg.Label + "_shader",
		Source: hal.ShaderSource{WGSL: cfg.Shader},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", cfg.Label, err)
	}
	ps.shader = shader

	storage := &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}
	uniform := &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}
	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: cfg.Label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    bindingViewUniform,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     uniform,
			},
			{
				Binding:    bindingBatchUniform,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     uniform,
			},
			{
				Binding:    bindingRecords,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     storage,
			},
			{
				Binding:    bindingColors,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     storage,
			},
			{
				Binding:    bindingModFlags,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     storage,
			},
		},
	})
	if err != nil {
		ps.Destroy(device)
		return nil, fmt.Errorf("create %s bind layout: %w", cfg.Label, err)
	}
	ps.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            cfg.Label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		ps.Destroy(device)
		return nil, fmt.Errorf("create %s pipeline layout: %w", cfg.Label, err)
	}
	ps.pipeLayout = pipeLayout

	visible, err := ps.createVariant(device, cfg, "visible", "fs_main", gputypes.CompareFunctionLessEqual)
	if err != nil {
		ps.Destroy(device)
		return nil, err
	}
	ps.visible = visible

	occluded, err := ps.createVariant(device, cfg, "occluded", "fs_occluded", gputypes.CompareFunctionGreater)
	if err != nil {
		ps.Destroy(device)
		return nil, err
	}
	ps.occluded = occluded

	slogger().Debug("pipeline set created", "label", cfg.Label,
		"color", cfg.ColorFormat, "depth", cfg.DepthFormat)
	return ps, nil
}

// createVariant builds one depth-variant render pipeline.
func (ps *PipelineSet) createVariant(
	device hal.Device,
	cfg PipelineConfig,
	variant, fragEntry string,
	depthCompare gputypes.CompareFunction,
) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	// Stencil is unused but the attachment format carries stencil bits, so
	// both faces are configured as Always/Keep.
	noStencil := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  cfg.Label + "_" + variant + "_pipeline",
		Layout: ps.pipeLayout,
		Vertex: hal.VertexState{
			Module:     ps.shader,
			EntryPoint: "vs_main",
			Buffers:    MeshVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     ps.shader,
			EntryPoint: fragEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    cfg.ColorFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            cfg.DepthFormat,
			DepthWriteEnabled: false,
			DepthCompare:      depthCompare,
			StencilFront:      noStencil,
			StencilBack:       noStencil,
			StencilReadMask:   0xFF,
			StencilWriteMask:  0xFF,
		},
		Multisample: gputypes.MultisampleState{
			Count: cfg.SampleCount,
			Mask:  0xFFFFFFFF,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s %s pipeline: %w", cfg.Label, variant, err)
	}
	return pipeline, nil
}

// Visible returns the LessEqual-depth pipeline.
func (ps *PipelineSet) Visible() hal.RenderPipeline { return ps.visible }

// Occluded returns the Greater-depth faded pipeline.
func (ps *PipelineSet) Occluded() hal.RenderPipeline { return ps.occluded }

// BindGroupLayout returns the shared bind group layout.
func (ps *PipelineSet) BindGroupLayout() hal.BindGroupLayout { return ps.bindLayout }

// Destroy releases all pipeline resources in reverse creation order.
// Each resource is nil-checked so partial creation failures clean up safely.
func (ps *PipelineSet) Destroy(device hal.Device) {
	if ps.occluded != nil {
		device.DestroyRenderPipeline(ps.occluded)
		ps.occluded = nil
	}
	if ps.visible != nil {
		device.DestroyRenderPipeline(ps.visible)
		ps.visible = nil
	}
	if ps.pipeLayout != nil {
		device.DestroyPipelineLayout(ps.pipeLayout)
		ps.pipeLayout = nil
	}
	if ps.bindLayout != nil {
		device.DestroyBindGroupLayout(ps.bindLayout)
		ps.bindLayout = nil
	}
	if ps.shader != nil {
		device.DestroyShaderModule(ps.shader)
		ps.shader = nil
	}
}
