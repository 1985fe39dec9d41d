package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"
)

type CoreRenderPass struct {
	device     vk.Device
	renderPass vk.RenderPass
}

//Creates the render pass with a color attachment for presentation and a depth attachment
func NewCoreRenderPass(device vk.Device, color_format vk.Format, depth_format vk.Format) (*CoreRenderPass, error) {
	var c CoreRenderPass
	c.device = device

	attachmentDescriptions := []vk.AttachmentDescription{
		{
			Flags:          vk.AttachmentDescriptionFlags(0),
			Format:         color_format,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpStore,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutPresentSrc},
		{
			Flags:          vk.AttachmentDescriptionFlags(0),
			Format:         depth_format,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal},
	}

	colorReferences := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}
	depthReference := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}

	subpasses := []vk.SubpassDescription{{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    1,
		PColorAttachments:       colorReferences,
		PDepthStencilAttachment: &depthReference,
	}}

	//External to subpass 0, waits for the presentation engine to release the image
	subpass_dependencies := []vk.SubpassDependency{{
		SrcSubpass: vk.SubpassExternal,
		DstSubpass: 0,
		SrcStageMask: vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit |
			vk.PipelineStageEarlyFragmentTestsBit),
		DstStageMask: vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit |
			vk.PipelineStageEarlyFragmentTestsBit),
		SrcAccessMask: 0,
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit |
			vk.AccessDepthStencilAttachmentWriteBit),
	}}

	res := vk.CreateRenderPass(device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachmentDescriptions)),
		PAttachments:    attachmentDescriptions,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
		DependencyCount: uint32(len(subpass_dependencies)),
		PDependencies:   subpass_dependencies,
	}, nil, &c.renderPass)
	if err := NewError(res, "vkCreateRenderPass"); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *CoreRenderPass) Destroy() {
	if c.renderPass != vk.NullRenderPass {
		vk.DestroyRenderPass(c.device, c.renderPass, nil)
		c.renderPass = vk.NullRenderPass
	}
}
