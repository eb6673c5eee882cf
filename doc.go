// Package debugdraw provides a debug-shape accumulation and rendering
// overlay for Go applications built on the GoGPU ecosystem.
//
// # Overview
//
// debugdraw collects transient geometric shapes (lines, arcs, boxes,
// capsule outlines) submitted from anywhere in a frame, batches them into
// GPU-resident instance buffers, and renders them over an already-drawn
// scene with depth-aware styling: fragments that pass the depth test draw
// at full strength, occluded fragments draw faded. It is a per-frame
// overlay, not a scene graph — shapes are cleared when game time advances
// and retained while it is paused.
//
// # Quick Start
//
//	import "github.com/gogpu/debugdraw"
//
//	// Create a drawer bound to the host's HAL device and queue.
//	dd, err := debugdraw.New(device, queue)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dd.Close()
//
//	// Each frame: advance the clock, then accumulate shapes.
//	dd.Tick(now)
//	dd.AppendLine(debugdraw.GroupFrame,
//		debugdraw.NewLine(from, to), debugdraw.Red, debugdraw.ModNone, 0)
//
//	// For every camera that should see the overlay:
//	ok, err := dd.PrepareFrame(view)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if ok {
//		dd.Execute(renderPass) // records into the host's open pass
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Drawer, shape records (Line, Arc, Box, OutlineGroup),
//     Color, DrawModifications, View, Settings
//   - Internal: gpu (HAL buffer mirrors, shape pipelines, draw bindings,
//     WGSL shaders)
//
// Shape records are fixed-size and instanced: one unit mesh per shape
// kind, expanded in the vertex shader from a structured record buffer.
// Colors and modification flags live in buffers shared across shape
// kinds, addressed by a per-batch start offset.
//
// # Concurrency
//
// A Drawer is NOT safe for concurrent use. All appends, ticks, and draw
// calls must happen on the same thread, matching the render loop of the
// host application.
package debugdraw

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
