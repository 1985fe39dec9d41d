package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//CoreSwapchain is the swapchain, its image views and the per image
//framebuffers sharing one depth attachment
type CoreSwapchain struct {
	device       vk.Device
	swapchain    vk.Swapchain
	format       vk.SurfaceFormat
	present_mode vk.PresentMode
	extent       vk.Extent2D
	images       []vk.Image
	image_views  []vk.ImageView
	depth        *CoreImage
	framebuffers []vk.Framebuffer
}

//NewCoreSwapchain creates the swapchain for the window size, reusing old
//when it is not null
func NewCoreSwapchain(core *CoreDevice, surface vk.Surface, width, height uint32, old vk.Swapchain) (*CoreSwapchain, error) {
	support, err := core.SurfaceSupport(surface)
	if err != nil {
		return nil, err
	}
	caps := support.Capabilities

	var sc CoreSwapchain
	sc.device = core.handle
	sc.format = ChooseSurfaceFormat(support.Formats)
	sc.present_mode = ChoosePresentMode(support.PresentModes)
	sc.extent = ChooseExtent(caps, width, height)
	if sc.extent.Width == 0 || sc.extent.Height == 0 {
		return nil, errors.Errorf("vulkan: zero swapchain extent %dx%d", sc.extent.Width, sc.extent.Height)
	}

	info := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    ChooseImageCount(caps),
		ImageFormat:      sc.format.Format,
		ImageColorSpace:  sc.format.ColorSpace,
		ImageExtent:      sc.extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      sc.present_mode,
		Clipped:          vk.True,
		OldSwapchain:     old,
	}
	if !core.families.Shared() {
		families := core.families.Unique()
		info.ImageSharingMode = vk.SharingModeConcurrent
		info.QueueFamilyIndexCount = uint32(len(families))
		info.PQueueFamilyIndices = families
	}

	ret := vk.CreateSwapchain(core.handle, &info, nil, &sc.swapchain)
	if err := NewError(ret, "vkCreateSwapchainKHR"); err != nil {
		return nil, err
	}

	var count uint32
	ret = vk.GetSwapchainImages(core.handle, sc.swapchain, &count, nil)
	if err := NewError(ret, "vkGetSwapchainImagesKHR"); err != nil {
		sc.Destroy()
		return nil, err
	}
	sc.images = make([]vk.Image, count)
	ret = vk.GetSwapchainImages(core.handle, sc.swapchain, &count, sc.images)
	if err := NewError(ret, "vkGetSwapchainImagesKHR"); err != nil {
		sc.Destroy()
		return nil, err
	}

	for _, image := range sc.images {
		view, err := createImageView(core.handle, image, sc.format.Format, vk.ImageAspectColorBit)
		if err != nil {
			sc.Destroy()
			return nil, err
		}
		sc.image_views = append(sc.image_views, view)
	}
	return &sc, nil
}

func (sc *CoreSwapchain) Extent() vk.Extent2D {
	return sc.extent
}

//ImageCount is the number of presentable images, one framebuffer and one
//command buffer each
func (sc *CoreSwapchain) ImageCount() int {
	return len(sc.images)
}

//CreateFramebuffers creates the depth attachment and one framebuffer per image
func (sc *CoreSwapchain) CreateFramebuffers(core *CoreDevice, renderpass *CoreRenderPass) error {
	depth, err := NewDepthImage(core, sc.extent)
	if err != nil {
		return errors.Wrap(err, "depth attachment")
	}
	sc.depth = depth

	sc.framebuffers = make([]vk.Framebuffer, 0, len(sc.image_views))
	for _, view := range sc.image_views {
		var framebuffer vk.Framebuffer
		attachments := []vk.ImageView{view, depth.view}
		ret := vk.CreateFramebuffer(sc.device, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderpass.renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           sc.extent.Width,
			Height:          sc.extent.Height,
			Layers:          1,
		}, nil, &framebuffer)
		if err := NewError(ret, "vkCreateFramebuffer"); err != nil {
			sc.DestroyFramebuffers()
			return err
		}
		sc.framebuffers = append(sc.framebuffers, framebuffer)
	}
	return nil
}

//DestroyDepth releases the depth attachment
func (sc *CoreSwapchain) DestroyDepth() {
	if sc.depth != nil {
		sc.depth.Destroy()
		sc.depth = nil
	}
}

//DestroyFramebuffers releases the framebuffers and the depth attachment
func (sc *CoreSwapchain) DestroyFramebuffers() {
	sc.DestroyDepth()
	for _, framebuffer := range sc.framebuffers {
		vk.DestroyFramebuffer(sc.device, framebuffer, nil)
	}
	sc.framebuffers = nil
}

//Destroy releases the image views and the swapchain, framebuffers must be gone first
func (sc *CoreSwapchain) Destroy() {
	for _, view := range sc.image_views {
		vk.DestroyImageView(sc.device, view, nil)
	}
	sc.image_views = nil
	sc.images = nil
	if sc.swapchain != vk.NullSwapchain {
		vk.DestroySwapchain(sc.device, sc.swapchain, nil)
		sc.swapchain = vk.NullSwapchain
	}
}
