package debugdraw

import "errors"

// Common errors returned by Drawer operations.
var (
	// ErrDrawerClosed is returned when operations are attempted on a
	// closed drawer.
	ErrDrawerClosed = errors.New("debugdraw: drawer is closed")

	// ErrNilDevice is returned when a nil HAL device or queue is passed.
	ErrNilDevice = errors.New("debugdraw: nil device or queue")

	// ErrNilView is returned when a nil view is passed to a draw entry
	// point.
	ErrNilView = errors.New("debugdraw: nil view")

	// ErrNoHALAccess is returned when a device provider does not expose
	// the underlying wgpu/hal device and queue.
	ErrNoHALAccess = errors.New("debugdraw: provider does not expose HAL types")

	// ErrNoTarget is returned when an immediate execute is requested for
	// a view without color and depth targets.
	ErrNoTarget = errors.New("debugdraw: view has no render targets")
)
