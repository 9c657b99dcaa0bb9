// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// uniformSize is the size of the Uniforms block:
// transform (mat4x4<f32>), resolution (vec2<f32>), time (f32), padding.
const uniformSize = 80

// sharedResources are created once per device and used by every program.
type sharedResources struct {
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	sampler    hal.Sampler
	uniforms   hal.Buffer
}

func (s *sharedResources) destroy(device hal.Device) {
	if s.uniforms != nil {
		device.DestroyBuffer(s.uniforms)
	}
	if s.sampler != nil {
		device.DestroySampler(s.sampler)
	}
	if s.pipeLayout != nil {
		device.DestroyPipelineLayout(s.pipeLayout)
	}
	if s.bindLayout != nil {
		device.DestroyBindGroupLayout(s.bindLayout)
	}
}

// ensureShared creates the bind group layout, pipeline layout, sampler and
// uniform buffer on first use. d.mu must be held.
func (d *Device) ensureShared() (*sharedResources, error) {
	if d.shared != nil {
		return d.shared, nil
	}

	s := &sharedResources{}
	var err error

	// Binding 0: Uniforms (vertex + fragment)
	// Binding 1: texture_2d<f32> (fragment)
	// Binding 2: sampler (fragment)
	s.bindLayout, err = d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "kidito_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}

	s.pipeLayout, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "kidito_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{s.bindLayout},
	})
	if err != nil {
		s.destroy(d.device)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	s.sampler, err = d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "kidito_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		s.destroy(d.device)
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	s.uniforms, err = d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kidito_uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		s.destroy(d.device)
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}

	d.shared = s
	return s, nil
}
