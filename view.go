package debugdraw

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/wgpu/hal"
)

// View describes one camera rendering the debug overlay.
type View struct {
	// ID distinguishes views for the once-per-tick draw guard. Hosts
	// with a single camera can leave it zero.
	ID uint32

	// Name appears in log output.
	Name string

	// ViewProj transforms world space to clip space. Column-major,
	// as produced by mgl32.
	ViewProj mgl32.Mat4

	// Eye is the camera position in world space, used for view-facing
	// extrusion of outline members.
	Eye mgl32.Vec3

	// ViewportWidth and ViewportHeight are the target size in pixels,
	// used to hold the configured line width steady on screen. Zero
	// fields fall back to a 1080-pixel-tall 16:9 viewport.
	ViewportWidth  float32
	ViewportHeight float32

	// Interactive marks the active interactive view. Non-interactive
	// views that render to an offscreen target are refused by the
	// render gate.
	Interactive bool

	// OffscreenTarget marks a view rendering to a texture rather than
	// the display.
	OffscreenTarget bool

	// ColorTarget and DepthTarget are required by ExecuteImmediate,
	// which opens its own render pass over them. Execute records into
	// the host's open pass instead and ignores both.
	ColorTarget hal.TextureView
	DepthTarget hal.TextureView
}

// ShouldRender reports whether the drawer would draw for this view.
// The rules, in order: if gizmos are globally disabled, refuse every
// view; if the view is not interactive and targets an offscreen
// texture, refuse (the overlay is for interactive viewing, not baked
// render-to-texture output); otherwise accept.
//
// The gate is evaluated fresh on every call; nothing is cached across
// frames.
func (d *Drawer) ShouldRender(v *View) bool {
	if v == nil || d.closed {
		return false
	}
	if !d.gizmosEnabled {
		return false
	}
	if !v.Interactive && v.OffscreenTarget {
		return false
	}
	return true
}
