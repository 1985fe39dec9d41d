package dieselvk

import (
	"image"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//CoreImage is a 2D image, its memory and a view over it
type CoreImage struct {
	device vk.Device
	image  vk.Image
	memory vk.DeviceMemory
	view   vk.ImageView
	format vk.Format
	width  uint32
	height uint32
}

func NewCoreImage(core *CoreDevice, width, height uint32, format vk.Format, usage vk.ImageUsageFlagBits, aspect vk.ImageAspectFlagBits) (img *CoreImage, err error) {
	defer checkErr(&err)

	img = &CoreImage{device: core.handle, format: format, width: width, height: height}
	ret := vk.CreateImage(core.handle, &vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vk.ImageUsageFlags(usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &img.image)
	orPanic(NewError(ret, "vkCreateImage"))

	var reqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(core.handle, img.image, &reqs)
	reqs.Deref()
	memType, err := core.FindMemoryType(reqs.MemoryTypeBits, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		vk.DestroyImage(core.handle, img.image, nil)
		return nil, err
	}
	ret = vk.AllocateMemory(core.handle, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &img.memory)
	if err := NewError(ret, "vkAllocateMemory"); err != nil {
		vk.DestroyImage(core.handle, img.image, nil)
		return nil, err
	}
	if err := NewError(vk.BindImageMemory(core.handle, img.image, img.memory, 0), "vkBindImageMemory"); err != nil {
		img.Destroy()
		return nil, err
	}

	img.view, err = createImageView(core.handle, img.image, format, aspect)
	if err != nil {
		img.Destroy()
		return nil, err
	}
	return img, nil
}

func createImageView(device vk.Device, image vk.Image, format vk.Format, aspect vk.ImageAspectFlagBits) (vk.ImageView, error) {
	var view vk.ImageView
	ret := vk.CreateImageView(device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(aspect),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}, nil, &view)
	return view, NewError(ret, "vkCreateImageView")
}

func (img *CoreImage) Destroy() {
	if img.device == nil {
		return
	}
	if img.view != vk.NullImageView {
		vk.DestroyImageView(img.device, img.view, nil)
	}
	vk.DestroyImage(img.device, img.image, nil)
	vk.FreeMemory(img.device, img.memory, nil)
	img.device = nil
}

//layoutTransition is the access masks and stages of one supported layout change
type layoutTransition struct {
	src_access vk.AccessFlagBits
	dst_access vk.AccessFlagBits
	src_stage  vk.PipelineStageFlagBits
	dst_stage  vk.PipelineStageFlagBits
}

func transitionFor(from, to vk.ImageLayout) (layoutTransition, error) {
	switch {
	case from == vk.ImageLayoutUndefined && to == vk.ImageLayoutTransferDstOptimal:
		return layoutTransition{
			dst_access: vk.AccessTransferWriteBit,
			src_stage:  vk.PipelineStageTopOfPipeBit,
			dst_stage:  vk.PipelineStageTransferBit,
		}, nil
	case from == vk.ImageLayoutTransferDstOptimal && to == vk.ImageLayoutShaderReadOnlyOptimal:
		return layoutTransition{
			src_access: vk.AccessTransferWriteBit,
			dst_access: vk.AccessShaderReadBit,
			src_stage:  vk.PipelineStageTransferBit,
			dst_stage:  vk.PipelineStageFragmentShaderBit,
		}, nil
	}
	return layoutTransition{}, errors.Errorf("vulkan: unsupported layout transition %d -> %d", from, to)
}

//Transition records a barrier moving the color image between layouts
func (img *CoreImage) Transition(pool *CorePool, from, to vk.ImageLayout) error {
	t, err := transitionFor(from, to)
	if err != nil {
		return err
	}
	return pool.Submit(func(cmd vk.CommandBuffer) {
		vk.CmdPipelineBarrier(cmd,
			vk.PipelineStageFlags(t.src_stage), vk.PipelineStageFlags(t.dst_stage),
			0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
				SType:               vk.StructureTypeImageMemoryBarrier,
				SrcAccessMask:       vk.AccessFlags(t.src_access),
				DstAccessMask:       vk.AccessFlags(t.dst_access),
				OldLayout:           from,
				NewLayout:           to,
				SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
				DstQueueFamilyIndex: vk.QueueFamilyIgnored,
				Image:               img.image,
				SubresourceRange: vk.ImageSubresourceRange{
					AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
					LevelCount: 1,
					LayerCount: 1,
				},
			}})
	})
}

//CopyFrom fills the image, which must be in the transfer destination layout
func (img *CoreImage) CopyFrom(pool *CorePool, src *CoreBuffer) error {
	return pool.Submit(func(cmd vk.CommandBuffer) {
		vk.CmdCopyBufferToImage(cmd, src.buffer, img.image, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{{
			BufferOffset:      0,
			BufferRowLength:   0,
			BufferImageHeight: 0,
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				MipLevel:       0,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
			ImageOffset: vk.Offset3D{X: 0, Y: 0, Z: 0},
			ImageExtent: vk.Extent3D{Width: img.width, Height: img.height, Depth: 1},
		}})
	})
}

//NewDepthImage creates the depth attachment for a swapchain extent
func NewDepthImage(core *CoreDevice, extent vk.Extent2D) (*CoreImage, error) {
	return NewCoreImage(core, extent.Width, extent.Height, core.depth_format,
		vk.ImageUsageDepthStencilAttachmentBit, vk.ImageAspectDepthBit)
}

//TextureBackend is a sampled RGBA8 image
type TextureBackend struct {
	name    string
	image   *CoreImage
	sampler vk.Sampler
}

func (t *TextureBackend) Name() string { return t.name }

func (t *TextureBackend) Size() (int, int) {
	return int(t.image.width), int(t.image.height)
}

func newTextureBackend(core *CoreDevice, pool *CorePool, name string, pixels *image.RGBA) (*TextureBackend, error) {
	if pixels == nil {
		return nil, errors.Errorf("vulkan: texture %s has no pixels", name)
	}
	size := pixels.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, errors.Errorf("vulkan: texture %s is empty", name)
	}
	data := packRGBA(pixels)

	staging, err := NewCoreBuffer(core, len(data), vk.BufferUsageTransferSrcBit,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		return nil, errors.Wrapf(err, "texture %s staging buffer", name)
	}
	defer staging.Destroy()
	if err := staging.Write(data); err != nil {
		return nil, err
	}

	img, err := NewCoreImage(core, uint32(size.X), uint32(size.Y), vk.FormatR8g8b8a8Unorm,
		vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit, vk.ImageAspectColorBit)
	if err != nil {
		return nil, errors.Wrapf(err, "texture %s image", name)
	}
	tex := &TextureBackend{name: name, image: img}
	if err := tex.upload(core, pool, staging); err != nil {
		tex.destroy()
		return nil, errors.Wrapf(err, "texture %s", name)
	}
	return tex, nil
}

//upload fills the image from staging and creates the sampler. On error the
//backend is partially built and destroy releases what exists.
func (t *TextureBackend) upload(core *CoreDevice, pool *CorePool, staging *CoreBuffer) error {
	if err := t.image.Transition(pool, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		return err
	}
	if err := t.image.CopyFrom(pool, staging); err != nil {
		return err
	}
	if err := t.image.Transition(pool, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal); err != nil {
		return err
	}

	ret := vk.CreateSampler(core.handle, &vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.True,
		MaxAnisotropy:           16,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
	}, nil, &t.sampler)
	return NewError(ret, "vkCreateSampler")
}

//packRGBA returns the pixels as tightly packed rows
func packRGBA(pixels *image.RGBA) []byte {
	size := pixels.Bounds().Size()
	row := size.X * 4
	if pixels.Stride == row && len(pixels.Pix) == row*size.Y {
		return pixels.Pix
	}
	data := make([]byte, 0, row*size.Y)
	for y := 0; y < size.Y; y++ {
		start := y * pixels.Stride
		data = append(data, pixels.Pix[start:start+row]...)
	}
	return data
}

//destroy is safe on a partially built or already destroyed backend
func (t *TextureBackend) destroy() {
	if t == nil || t.image == nil {
		return
	}
	if t.sampler != vk.Sampler(vk.NullHandle) && t.image.device != nil {
		vk.DestroySampler(t.image.device, t.sampler, nil)
		t.sampler = vk.Sampler(vk.NullHandle)
	}
	t.image.Destroy()
}
