// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/kidito"
)

// Entry points each stage must define.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// errNoEntryPoint marks a stage that compiled but lacks its entry point.
var errNoEntryPoint = errors.New("native: missing entry point")

// Offscreen target formats. Pipelines are built against them.
const (
	colorFormat = gputypes.TextureFormatRGBA8Unorm
	depthFormat = gputypes.TextureFormatDepth24PlusStencil8
)

// program is a linked vertex and fragment stage pair.
type program struct {
	vert     hal.ShaderModule
	frag     hal.ShaderModule
	pipeline hal.RenderPipeline
}

func (p *program) destroy(device hal.Device) {
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
	}
	if p.frag != nil {
		device.DestroyShaderModule(p.frag)
	}
	if p.vert != nil {
		device.DestroyShaderModule(p.vert)
	}
}

// compileWGSL compiles WGSL source to SPIR-V words. The module must
// declare entry as an entry point of the given stage.
func compileWGSL(source, entry string, stage ir.ShaderStage) ([]uint32, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, err
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("lowering error: %w", err)
	}
	if !hasEntryPoint(module, entry, stage) {
		return nil, fmt.Errorf("%w: no %s entry point %s", errNoEntryPoint, stageName(stage), entry)
	}

	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("validation failed: %w", &verrs[0])
	}

	spirvBytes, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, err
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

func hasEntryPoint(module *ir.Module, name string, stage ir.ShaderStage) bool {
	for _, ep := range module.EntryPoints {
		if ep.Name == name && ep.Stage == stage {
			return true
		}
	}
	return false
}

func stageName(stage ir.ShaderStage) string {
	switch stage {
	case ir.StageVertex:
		return "@vertex"
	case ir.StageFragment:
		return "@fragment"
	}
	return fmt.Sprintf("stage(%d)", stage)
}

// compileStage turns one shader file into a module. Failures are
// *kidito.ShaderError naming the file: ErrShaderLink when the entry point
// is missing, ErrShaderCompile otherwise.
func (d *Device) compileStage(label string, src kidito.ShaderSource, entry string, stage ir.ShaderStage) (hal.ShaderModule, error) {
	words, err := compileWGSL(string(src.Code), entry, stage)
	if err != nil {
		kind := kidito.ErrShaderCompile
		if errors.Is(err, errNoEntryPoint) {
			kind = kidito.ErrShaderLink
		}
		return nil, &kidito.ShaderError{Path: src.Path, Kind: kind, Log: err.Error()}
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, &kidito.ShaderError{Path: src.Path, Kind: kidito.ErrShaderCompile, Log: err.Error()}
	}
	return module, nil
}

// CompileProgram compiles both stages and links them into a render
// pipeline. A stage that does not parse fails with ErrShaderCompile and
// its own path. A missing entry point, or a pipeline the device rejects,
// fails with ErrShaderLink.
func (d *Device) CompileProgram(vert, frag kidito.ShaderSource) (kidito.ProgramID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}

	p := &program{}
	var err error
	if p.vert, err = d.compileStage("kidito_vert", vert, VertexEntryPoint, ir.StageVertex); err != nil {
		return 0, err
	}
	if p.frag, err = d.compileStage("kidito_frag", frag, FragmentEntryPoint, ir.StageFragment); err != nil {
		p.destroy(d.device)
		return 0, err
	}

	shared, err := d.ensureShared()
	if err != nil {
		p.destroy(d.device)
		return 0, &kidito.ShaderError{Kind: kidito.ErrShaderLink, Log: err.Error()}
	}

	p.pipeline, err = d.createPipeline(shared, p.vert, p.frag)
	if err != nil {
		p.destroy(d.device)
		return 0, &kidito.ShaderError{Kind: kidito.ErrShaderLink, Log: err.Error()}
	}

	id := kidito.ProgramID(d.newID())
	d.programs[id] = p
	slogger().Debug("native: program created", "id", id, "vert", vert.Path, "frag", frag.Path)
	return id, nil
}

// DeleteProgram releases a program. Unknown ids are ignored.
func (d *Device) DeleteProgram(id kidito.ProgramID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.programs[id]; ok {
		delete(d.programs, id)
		p.destroy(d.device)
	}
}

func (d *Device) createPipeline(shared *sharedResources, vert, frag hal.ShaderModule) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	return d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "kidito_pipeline",
		Layout: shared.pipeLayout,
		Vertex: hal.VertexState{
			Module:     vert,
			EntryPoint: VertexEntryPoint,
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     frag,
			EntryPoint: FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    colorFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		DepthStencil: &hal.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLess,
			StencilFront: hal.StencilFaceState{
				Compare:     gputypes.CompareFunctionAlways,
				FailOp:      hal.StencilOperationKeep,
				DepthFailOp: hal.StencilOperationKeep,
				PassOp:      hal.StencilOperationKeep,
			},
			StencilBack: hal.StencilFaceState{
				Compare:     gputypes.CompareFunctionAlways,
				FailOp:      hal.StencilOperationKeep,
				DepthFailOp: hal.StencilOperationKeep,
				PassOp:      hal.StencilOperationKeep,
			},
			StencilReadMask:  0x00,
			StencilWriteMask: 0x00,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone, // cube faces mix windings
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
}
