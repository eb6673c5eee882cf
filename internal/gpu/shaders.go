// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
)

// Embedded WGSL shader sources, one per shape kind. Each module exposes a
// vs_main vertex entry and two fragment entries: fs_main for the visible
// depth pass and fs_occluded for the faded behind-geometry pass.

//go:embed shaders/line.wgsl
var lineShaderSource string

//go:embed shaders/arc.wgsl
var arcShaderSource string

//go:embed shaders/box.wgsl
var boxShaderSource string

//go:embed shaders/outline.wgsl
var outlineShaderSource string

// LineShaderSource returns the WGSL source for the line shader.
func LineShaderSource() string { return lineShaderSource }

// ArcShaderSource returns the WGSL source for the arc shader.
func ArcShaderSource() string { return arcShaderSource }

// BoxShaderSource returns the WGSL source for the box shader.
func BoxShaderSource() string { return boxShaderSource }

// OutlineShaderSource returns the WGSL source for the outline shader.
func OutlineShaderSource() string { return outlineShaderSource }
