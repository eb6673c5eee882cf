// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func testPipelineConfig(label, shader string) PipelineConfig {
	return PipelineConfig{
		Label:       label,
		Shader:      shader,
		ColorFormat: gputypes.TextureFormatBGRA8Unorm,
		DepthFormat: gputypes.TextureFormatDepth24PlusStencil8,
		SampleCount: 1,
	}
}

func TestCreatePipelineSet(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	ps, err := CreatePipelineSet(device, testPipelineConfig("test_line", LineShaderSource()))
	if err != nil {
		t.Fatalf("CreatePipelineSet failed: %v", err)
	}
	if ps.Visible() == nil {
		t.Error("expected visible pipeline")
	}
	if ps.Occluded() == nil {
		t.Error("expected occluded pipeline")
	}
	if ps.BindGroupLayout() == nil {
		t.Error("expected bind group layout")
	}
	ps.Destroy(device)
	ps.Destroy(device) // idempotent
	if ps.Visible() != nil || ps.Occluded() != nil || ps.BindGroupLayout() != nil {
		t.Error("Destroy must release every resource")
	}
}

func TestCreatePipelineSetAllShapes(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	shaders := map[string]string{
		"line":    LineShaderSource(),
		"arc":     ArcShaderSource(),
		"box":     BoxShaderSource(),
		"outline": OutlineShaderSource(),
	}
	for name, src := range shaders {
		ps, err := CreatePipelineSet(device, testPipelineConfig("test_"+name, src))
		if err != nil {
			t.Errorf("%s: CreatePipelineSet failed: %v", name, err)
			continue
		}
		ps.Destroy(device)
	}
}

func TestCreatePipelineSetEmptyShader(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	cfg := testPipelineConfig("test_empty", "")
	if _, err := CreatePipelineSet(device, cfg); !errors.Is(err, ErrShaderEmpty) {
		t.Errorf("empty shader = %v, want ErrShaderEmpty", err)
	}
}

func TestCreatePipelineSetDefaultSampleCount(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	cfg := testPipelineConfig("test_samples", LineShaderSource())
	cfg.SampleCount = 0
	ps, err := CreatePipelineSet(device, cfg)
	if err != nil {
		t.Fatalf("CreatePipelineSet with zero sample count failed: %v", err)
	}
	ps.Destroy(device)
}
