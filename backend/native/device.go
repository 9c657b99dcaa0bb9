// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native implements kidito.GPU on top of the gogpu/wgpu HAL.
//
// A Device owns the programs, textures and vertex buffers a Reloader
// creates, and renders a kidito.State into an offscreen target with
// RenderFrame. Shaders are WGSL and are compiled to SPIR-V with naga.
//
// Each shader file holds one stage. The vertex stage must define vs_main
// and the fragment stage fs_main. Both see the same bindings in group 0:
//
//	@group(0) @binding(0) var<uniform> u: Uniforms; // transform, resolution, time
//	@group(0) @binding(1) var tex: texture_2d<f32>;
//	@group(0) @binding(2) var samp: sampler;
//
// Vertex attributes are position (location 0, vec4), uv (location 1,
// vec2), color (location 2, vec4) and normal (location 3, vec4).
package native

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/kidito"

	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend
)

// Backend selects the HAL implementation Open uses.
type Backend int

const (
	// BackendVulkan renders on a Vulkan adapter, preferring a discrete or
	// integrated GPU.
	BackendVulkan Backend = iota

	// BackendNoop accepts every call and produces no pixels. It is used
	// for headless validation and tests.
	BackendNoop
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendVulkan:
		return "vulkan"
	case BackendNoop:
		return "noop"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend returns the backend with the given name.
func ParseBackend(name string) (Backend, error) {
	switch name {
	case "vulkan":
		return BackendVulkan, nil
	case "noop":
		return BackendNoop, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBackendUnavailable, name)
}

// Device implements kidito.GPU on a HAL device.
//
// Device is safe for concurrent use.
type Device struct {
	mu sync.RWMutex

	instance hal.Instance // nil when the device is borrowed
	device   hal.Device
	queue    hal.Queue
	owned    bool
	name     string

	nextID atomic.Uint64

	programs map[kidito.ProgramID]*program
	textures map[kidito.TextureID]*texture
	buffers  map[kidito.BufferID]*vertexBuffer

	shared *sharedResources
	target *renderTarget
	closed bool
}

var _ kidito.GPU = (*Device)(nil)

// Open creates an instance of the given backend and opens a device on its
// preferred adapter. Close releases both.
func Open(b Backend) (*Device, error) {
	var (
		instance hal.Instance
		err      error
	)
	switch b {
	case BackendVulkan:
		backend, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("%w: vulkan", ErrBackendUnavailable)
		}
		instance, err = backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	case BackendNoop:
		instance, err = noop.API{}.CreateInstance(nil)
	default:
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, b)
	}
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	d := newDevice(openDev.Device, openDev.Queue)
	d.instance = instance
	d.owned = true
	d.name = selected.Info.Name
	slogger().Info("native: device opened", "backend", b.String(), "adapter", d.name)
	return d, nil
}

// New wraps an existing HAL device and queue. The caller keeps ownership:
// Close releases the resources the Device created but not the device.
func New(device hal.Device, queue hal.Queue) *Device {
	return newDevice(device, queue)
}

// halDevice is implemented by *wgpu.Device, which is what a gogpu window's
// DeviceProvider returns from Device.
type halDevice interface {
	HalDevice() hal.Device
	HalQueue() hal.Queue
}

// FromProvider wraps the HAL device and queue of a window's GPU context,
// so frames render on the same device that presents them.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	if provider == nil {
		return nil, ErrInvalidProvider
	}
	hd, ok := provider.Device().(halDevice)
	if !ok {
		return nil, ErrInvalidProvider
	}
	device, queue := hd.HalDevice(), hd.HalQueue()
	if device == nil || queue == nil {
		return nil, ErrInvalidProvider
	}
	return newDevice(device, queue), nil
}

func newDevice(device hal.Device, queue hal.Queue) *Device {
	d := &Device{
		device:   device,
		queue:    queue,
		programs: make(map[kidito.ProgramID]*program),
		textures: make(map[kidito.TextureID]*texture),
		buffers:  make(map[kidito.BufferID]*vertexBuffer),
	}
	d.nextID.Store(1)
	return d
}

// newID generates a new unique resource ID.
func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// Name returns the adapter name, or "" for a borrowed device.
func (d *Device) Name() string { return d.name }

// SetLogger routes backend logs to l. It lets kidito.NewReloader hand its
// logger down.
func (d *Device) SetLogger(l *slog.Logger) { SetLogger(l) }

// Close destroys every resource the device created. An owned device and
// its instance are destroyed too. Close is idempotent.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true

	for id, p := range d.programs {
		p.destroy(d.device)
		delete(d.programs, id)
	}
	for id, t := range d.textures {
		t.destroy(d.device)
		delete(d.textures, id)
	}
	for id, b := range d.buffers {
		d.device.DestroyBuffer(b.buf)
		delete(d.buffers, id)
	}
	if d.target != nil {
		d.target.destroy(d.device)
		d.target = nil
	}
	if d.shared != nil {
		d.shared.destroy(d.device)
		d.shared = nil
	}

	if d.owned {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
}

// Stats reports the number of live resources.
type Stats struct {
	Programs int
	Textures int
	Buffers  int
}

// Stats returns the number of live programs, textures and buffers.
func (d *Device) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Stats{
		Programs: len(d.programs),
		Textures: len(d.textures),
		Buffers:  len(d.buffers),
	}
}
