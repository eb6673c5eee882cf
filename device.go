package debugdraw

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// NewFromProvider creates a Drawer that shares the GPU device of a host
// application. The provider must additionally implement HalDevice() any
// and HalQueue() any returning hal.Device and hal.Queue; gogpu's
// App.GPUContextProvider() does.
//
// Example:
//
//	dd, err := debugdraw.NewFromProvider(app.GPUContextProvider())
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Drawer, error) {
	if provider == nil {
		return nil, ErrNilDevice
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}
	return New(device, queue, opts...)
}
