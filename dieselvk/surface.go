package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//Surface selection policy. Every function here is pure, callers Deref the
//driver structs before handing them over.

var preferredSurfaceFormat = vk.SurfaceFormat{
	Format:     vk.FormatR8g8b8a8Unorm,
	ColorSpace: vk.ColorSpaceSrgbNonlinear,
}

//ChooseSurfaceFormat prefers RGBA8 unorm with the sRGB non linear color
//space. A lone UNDEFINED entry means the surface takes anything.
func ChooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	if len(formats) == 0 {
		return preferredSurfaceFormat
	}
	if len(formats) == 1 && formats[0].Format == vk.FormatUndefined {
		return preferredSurfaceFormat
	}
	for _, f := range formats {
		if f.Format == preferredSurfaceFormat.Format && f.ColorSpace == preferredSurfaceFormat.ColorSpace {
			return f
		}
	}
	return formats[0]
}

//ChoosePresentMode picks mailbox, then immediate, then the always available fifo
func ChoosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	best := vk.PresentModeFifo
	for _, m := range modes {
		switch m {
		case vk.PresentModeMailbox:
			return m
		case vk.PresentModeImmediate:
			best = m
		}
	}
	return best
}

//ChooseExtent uses the window size as is when the surface reports the
//match window sentinel, otherwise it clamps the window size into the
//surface range per axis
func ChooseExtent(caps vk.SurfaceCapabilities, width, height uint32) vk.Extent2D {
	if caps.CurrentExtent.Width == vk.MaxUint32 {
		return vk.Extent2D{Width: width, Height: height}
	}
	return vk.Extent2D{
		Width:  clampUint32(width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

//ChooseImageCount asks for one image over the minimum, max 0 means unbounded
func ChooseImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

var depthCandidates = []vk.Format{
	vk.FormatD32Sfloat,
	vk.FormatD32SfloatS8Uint,
	vk.FormatD24UnormS8Uint,
}

//ChooseDepthFormat returns the first candidate the device can use as an
//optimally tiled depth attachment
func ChooseDepthFormat(supported func(vk.Format) bool) (vk.Format, error) {
	for _, f := range depthCandidates {
		if supported(f) {
			return f, nil
		}
	}
	return vk.FormatUndefined, errors.New("vulkan: no supported depth format")
}
