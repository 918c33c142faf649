package native

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// The empty backend is always linked so headless runs and tests can
	// open a device without a driver.
	_ "github.com/gogpu/wgpu/hal/noop"
)

// Config selects the HAL backend Open uses.
type Config struct {
	// Backend is the HAL backend to open. BackendEmpty selects the noop
	// device, which accepts every call and draws nothing.
	Backend gputypes.Backend

	// PreferLowPower picks an integrated GPU over a discrete one when both
	// are present.
	PreferLowPower bool
}

// DefaultConfig returns the configuration used by the plugin when no device
// is supplied: Vulkan on a discrete or integrated GPU.
func DefaultConfig() Config {
	return Config{Backend: gputypes.BackendVulkan}
}

// Open creates an instance of the configured backend, selects an adapter
// and opens a device on it. The returned adapter owns the device; Close
// releases it.
func Open(cfg Config) (*HALAdapter, error) {
	backend, ok := hal.GetBackend(cfg.Backend)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, cfg.Backend)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}
	selected := selectAdapter(adapters, cfg.PreferLowPower)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}

	a := NewHALAdapter(openDev.Device, openDev.Queue)
	a.release = func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	logger().Info("native: device opened",
		"backend", cfg.Backend.String(),
		"adapter", selected.Info.Name,
		"type", selected.Info.DeviceType.String())
	return a, nil
}

// selectAdapter prefers real GPUs over software and CPU adapters.
func selectAdapter(adapters []hal.ExposedAdapter, lowPower bool) *hal.ExposedAdapter {
	first, second := gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU
	if lowPower {
		first, second = second, first
	}
	for _, want := range []gputypes.DeviceType{first, second} {
		for i := range adapters {
			if adapters[i].Info.DeviceType == want {
				return &adapters[i]
			}
		}
	}
	return &adapters[0]
}

// halProvider is implemented by windowing hosts that already own a device.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// halDevice is implemented by a *wgpu.Device handed out as a
// gpucontext.Device.
type halDevice interface {
	HalDevice() hal.Device
	HalQueue() hal.Queue
}

// FromProvider wraps the device and queue exposed by a host such as a
// gogpu application. provider is either a gpucontext.DeviceProvider whose
// Device is a *wgpu.Device, or a host exposing HalDevice and HalQueue
// directly. The host keeps ownership of the device.
func FromProvider(provider any) (*HALAdapter, error) {
	var (
		device hal.Device
		queue  hal.Queue
	)
	switch p := provider.(type) {
	case interface{ Device() gpucontext.Device }:
		d, ok := p.Device().(halDevice)
		if !ok {
			return nil, fmt.Errorf("%w: Device is %T", ErrNotHALProvider, p.Device())
		}
		device, queue = d.HalDevice(), d.HalQueue()
	case halProvider:
		var devOK, queueOK bool
		device, devOK = p.HalDevice().(hal.Device)
		queue, queueOK = p.HalQueue().(hal.Queue)
		if !devOK || !queueOK {
			return nil, fmt.Errorf("%w: HalDevice is %T, HalQueue is %T", ErrNotHALProvider, p.HalDevice(), p.HalQueue())
		}
	default:
		return nil, ErrNotHALProvider
	}
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: device or queue released", ErrNotHALProvider)
	}
	logger().Debug("native: device from provider", "provider", fmt.Sprintf("%T", provider))
	return NewHALAdapter(device, queue), nil
}
