package debugdraw

import "github.com/gogpu/gputypes"

// Option configures a Drawer during creation.
// Use functional options to customize Drawer behavior.
//
// Example:
//
//	// Defaults: BGRA8 color, Depth24PlusStencil8 depth, no MSAA
//	dd, err := debugdraw.New(device, queue)
//
//	// Matching a host pipeline with different attachments
//	dd, err := debugdraw.New(device, queue,
//	    debugdraw.WithColorFormat(gputypes.TextureFormatRGBA8Unorm),
//	    debugdraw.WithSampleCount(4))
type Option func(*drawerOptions)

// drawerOptions holds optional configuration for Drawer creation.
type drawerOptions struct {
	settings    Settings
	colorFormat gputypes.TextureFormat
	depthFormat gputypes.TextureFormat
	sampleCount uint32
}

// defaultOptions returns the default drawer options.
func defaultOptions() drawerOptions {
	return drawerOptions{
		settings:    DefaultSettings(),
		colorFormat: gputypes.TextureFormatBGRA8Unorm,
		depthFormat: gputypes.TextureFormatDepth24PlusStencil8,
		sampleCount: 1,
	}
}

// WithSettings applies loaded settings (capacities, widths, fades).
//
// Example:
//
//	s := debugdraw.LoadSettings("debugdraw.yaml")
//	dd, err := debugdraw.New(device, queue, debugdraw.WithSettings(s))
func WithSettings(s Settings) Option {
	return func(o *drawerOptions) {
		o.settings = s.normalize()
	}
}

// WithColorFormat sets the color attachment format of the passes the
// overlay renders into. Must match the host's render target or pipeline
// creation will fail.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(o *drawerOptions) {
		o.colorFormat = f
	}
}

// WithDepthFormat sets the depth-stencil attachment format of the
// passes the overlay renders into.
func WithDepthFormat(f gputypes.TextureFormat) Option {
	return func(o *drawerOptions) {
		o.depthFormat = f
	}
}

// WithSampleCount sets the MSAA sample count of the host passes.
// Zero or one means no multisampling.
func WithSampleCount(n uint32) Option {
	return func(o *drawerOptions) {
		if n == 0 {
			n = 1
		}
		o.sampleCount = n
	}
}
