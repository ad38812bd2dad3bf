// Package pipeline builds render pipelines that target the renderer's main pass.
package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is the depth attachment format of the renderer's main pass.
const DepthFormat = wgpu.TextureFormatDepth24Plus

// Target describes the main pass attachments a pipeline must match.
type Target struct {
	Format      wgpu.TextureFormat
	SampleCount uint32
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key    string
	source string

	vertexEntry   string
	fragmentEntry string
	vertexBuffers []wgpu.VertexBufferLayout

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState

	renderPipeline *wgpu.RenderPipeline
}

// Pipeline is a WGSL render pipeline description that can be compiled against a device.
type Pipeline interface {
	// Key returns the label used for the pipeline and its shader module.
	Key() string

	// Descriptor builds the render pipeline descriptor for module and target.
	//
	// Parameters:
	//   - module: the compiled shader module holding both entry points
	//   - target: the main pass attachment formats
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	Descriptor(module *wgpu.ShaderModule, target Target) *wgpu.RenderPipelineDescriptor

	// Create compiles the WGSL source and creates the render pipeline on device.
	// The shader module is released once the pipeline exists.
	//
	// Parameters:
	//   - device: the device to create on
	//   - target: the main pass attachment formats
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the created pipeline, also kept by RenderPipeline
	//   - error: a shader compilation or pipeline creation error
	Create(device *wgpu.Device, target Target) (*wgpu.RenderPipeline, error)

	// RenderPipeline returns the pipeline from the last successful Create, or nil.
	RenderPipeline() *wgpu.RenderPipeline

	// Release frees the created pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description from WGSL source.
// Entry points default to vs_main and fs_main.
//
// Parameters:
//   - key: the unique label for this pipeline
//   - source: WGSL source containing the vertex and fragment entry points
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the new description
func NewPipeline(key, source string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:               key,
		source:            source,
		vertexEntry:       "vs_main",
		fragmentEntry:     "fs_main",
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Descriptor(module *wgpu.ShaderModule, target Target) *wgpu.RenderPipelineDescriptor {
	color := wgpu.ColorTargetState{
		Format:    target.Format,
		WriteMask: p.writeMask,
	}
	if p.blendEnabled {
		color.Blend = p.blendState
	}

	depthCompare := wgpu.CompareFunctionLess
	if !p.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
	}

	return &wgpu.RenderPipelineDescriptor{
		Label: p.key + " Render Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.vertexEntry,
			Buffers:    p.vertexBuffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.fragmentEntry,
			Targets:    []wgpu.ColorTargetState{color},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: max(target.SampleCount, 1),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              DepthFormat,
			DepthWriteEnabled:   p.depthWriteEnabled,
			DepthCompare:        depthCompare,
			DepthBias:           p.depthBias,
			DepthBiasSlopeScale: p.depthBiasSlopeScale,
			StencilFront:        wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:         wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	}
}

func (p *pipeline) Create(device *wgpu.Device, target Target) (*wgpu.RenderPipeline, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          p.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: p.source},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: shader: %w", p.key, err)
	}
	defer module.Release()

	created, err := device.CreateRenderPipeline(p.Descriptor(module, target))
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", p.key, err)
	}
	p.Release()
	p.renderPipeline = created
	return created, nil
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
