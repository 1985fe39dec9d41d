package dieselvk

import (
	"github.com/andewx/dieselvk/gfx"
	vk "github.com/vulkan-go/vulkan"
)

//CorePipeline is the graphics pipeline and its layout
type CorePipeline struct {
	device   vk.Device
	layout   vk.PipelineLayout
	pipeline vk.Pipeline
}

type PipelineBuilder struct {
	_shaderStages         []vk.PipelineShaderStageCreateInfo
	_vertexBindings       []vk.VertexInputBindingDescription
	_vertexAttributes     []vk.VertexInputAttributeDescription
	_inputAssembly        vk.PipelineInputAssemblyStateCreateInfo
	_viewport             vk.Viewport
	_scissor              vk.Rect2D
	_rasterizer           vk.PipelineRasterizationStateCreateInfo
	_colorBlendAttachment vk.PipelineColorBlendAttachmentState
	_multisampling        vk.PipelineMultisampleStateCreateInfo
	_depthStencil         vk.PipelineDepthStencilStateCreateInfo
}

//vertexInput describes gfx.Vertex at binding 0
func vertexInput() ([]vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription) {
	bindings := []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    gfx.VertexSize,
		InputRate: vk.VertexInputRateVertex,
	}}
	attributes := []vk.VertexInputAttributeDescription{{
		Location: gfx.PositionLocation,
		Binding:  0,
		Format:   vk.FormatR32g32b32Sfloat,
		Offset:   gfx.PositionOffset,
	}, {
		Location: gfx.ColorLocation,
		Binding:  0,
		Format:   vk.FormatR32g32b32Sfloat,
		Offset:   gfx.ColorOffset,
	}, {
		Location: gfx.UVLocation,
		Binding:  0,
		Format:   vk.FormatR32g32Sfloat,
		Offset:   gfx.UVOffset,
	}}
	return bindings, attributes
}

//Indexed triangle list pipeline with back face culling and depth testing
func NewPipelineBuilder(vertex vk.ShaderModule, fragment vk.ShaderModule, extent vk.Extent2D) *PipelineBuilder {

	pb := PipelineBuilder{}

	//Shader Stages
	pb._shaderStages = []vk.PipelineShaderStageCreateInfo{{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  vk.ShaderStageVertexBit,
		Module: vertex,
		PName:  safeString("main"),
	}, {
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  vk.ShaderStageFragmentBit,
		Module: fragment,
		PName:  safeString("main"),
	}}

	pb._vertexBindings, pb._vertexAttributes = vertexInput()

	//Input Assembly
	assembly := vk.PipelineInputAssemblyStateCreateInfo{}
	assembly.SType = vk.StructureTypePipelineInputAssemblyStateCreateInfo
	assembly.Topology = vk.PrimitiveTopologyTriangleList
	assembly.PrimitiveRestartEnable = vk.False
	pb._inputAssembly = assembly

	pb._viewport = vk.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	pb._scissor = vk.Rect2D{Offset: vk.Offset2D{}, Extent: extent}

	//Rasterization CreatInfo
	rasterizer := vk.PipelineRasterizationStateCreateInfo{}
	rasterizer.SType = vk.StructureTypePipelineRasterizationStateCreateInfo
	rasterizer.DepthClampEnable = vk.False
	rasterizer.RasterizerDiscardEnable = vk.False
	rasterizer.PolygonMode = vk.PolygonModeFill
	rasterizer.CullMode = vk.CullModeFlags(vk.CullModeBackBit)
	rasterizer.FrontFace = vk.FrontFaceCounterClockwise
	rasterizer.DepthBiasEnable = vk.False
	rasterizer.LineWidth = 1.0
	pb._rasterizer = rasterizer

	//Multisample State
	mss := vk.PipelineMultisampleStateCreateInfo{}
	mss.SType = vk.StructureTypePipelineMultisampleStateCreateInfo
	mss.SampleShadingEnable = vk.False
	mss.RasterizationSamples = vk.SampleCount1Bit
	mss.MinSampleShading = 1.0
	pb._multisampling = mss

	//Color Blend, opaque geometry only
	cbb := vk.PipelineColorBlendAttachmentState{}
	cbb.ColorWriteMask = vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit |
		vk.ColorComponentBBit | vk.ColorComponentABit)
	cbb.BlendEnable = vk.False
	pb._colorBlendAttachment = cbb

	depth := vk.PipelineDepthStencilStateCreateInfo{}
	depth.SType = vk.StructureTypePipelineDepthStencilStateCreateInfo
	depth.DepthTestEnable = vk.True
	depth.DepthWriteEnable = vk.True
	depth.DepthCompareOp = vk.CompareOpLess
	depth.DepthBoundsTestEnable = vk.False
	depth.StencilTestEnable = vk.False
	depth.MinDepthBounds = 0.0
	depth.MaxDepthBounds = 1.0
	pb._depthStencil = depth

	return &pb
}

//BuildPipeline creates the layout over the descriptor set layout, then the pipeline
func (p *PipelineBuilder) BuildPipeline(device vk.Device, renderpass *CoreRenderPass, set_layout vk.DescriptorSetLayout) (*CorePipeline, error) {
	core := &CorePipeline{device: device}

	ret := vk.CreatePipelineLayout(device, &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 1,
		PSetLayouts:    []vk.DescriptorSetLayout{set_layout},
	}, nil, &core.layout)
	if err := NewError(ret, "vkCreatePipelineLayout"); err != nil {
		return nil, err
	}

	vertex_input := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(p._vertexBindings)),
		PVertexBindingDescriptions:      p._vertexBindings,
		VertexAttributeDescriptionCount: uint32(len(p._vertexAttributes)),
		PVertexAttributeDescriptions:    p._vertexAttributes,
	}

	view_create := vk.PipelineViewportStateCreateInfo{}
	view_create.SType = vk.StructureTypePipelineViewportStateCreateInfo
	view_create.ViewportCount = 1
	view_create.PViewports = []vk.Viewport{p._viewport}
	view_create.ScissorCount = 1
	view_create.PScissors = []vk.Rect2D{p._scissor}

	blend_state := vk.PipelineColorBlendStateCreateInfo{}
	blend_state.SType = vk.StructureTypePipelineColorBlendStateCreateInfo
	blend_state.LogicOpEnable = vk.False
	blend_state.LogicOp = vk.LogicOpCopy
	blend_state.AttachmentCount = 1
	blend_state.PAttachments = []vk.PipelineColorBlendAttachmentState{p._colorBlendAttachment}

	pipeline_info := vk.GraphicsPipelineCreateInfo{}
	pipeline_info.SType = vk.StructureTypeGraphicsPipelineCreateInfo
	pipeline_info.StageCount = uint32(len(p._shaderStages))
	pipeline_info.PStages = p._shaderStages
	pipeline_info.PVertexInputState = &vertex_input
	pipeline_info.PInputAssemblyState = &p._inputAssembly
	pipeline_info.PViewportState = &view_create
	pipeline_info.PRasterizationState = &p._rasterizer
	pipeline_info.PMultisampleState = &p._multisampling
	pipeline_info.PDepthStencilState = &p._depthStencil
	pipeline_info.PColorBlendState = &blend_state
	pipeline_info.Layout = core.layout
	pipeline_info.RenderPass = renderpass.renderPass
	pipeline_info.Subpass = 0
	pipeline_info.BasePipelineIndex = -1

	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret = vk.CreateGraphicsPipelines(device, vk.PipelineCache(vk.NullHandle), 1,
		[]vk.GraphicsPipelineCreateInfo{pipeline_info}, nil, pipelines)
	if err := NewError(ret, "vkCreateGraphicsPipelines"); err != nil {
		vk.DestroyPipelineLayout(device, core.layout, nil)
		return nil, err
	}
	core.pipeline = pipelines[0]
	return core, nil
}

func (c *CorePipeline) Destroy() {
	if c.pipeline != vk.NullPipeline {
		vk.DestroyPipeline(c.device, c.pipeline, nil)
		c.pipeline = vk.NullPipeline
	}
	if c.layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(c.device, c.layout, nil)
		c.layout = vk.NullPipelineLayout
	}
}
