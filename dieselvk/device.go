package dieselvk

import (
	"github.com/andewx/dieselvk/gfx"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//gpuCandidate is what device selection knows about one physical device
type gpuCandidate struct {
	name              string
	device_type       vk.PhysicalDeviceType
	anisotropy        bool
	geometry_shader   bool
	families_found    bool
	swapchain_support bool
	formats           int
	present_modes     int
}

//check returns why the candidate cannot render, nil when it can
func (c gpuCandidate) check(allow_integrated bool) error {
	switch {
	case !c.anisotropy:
		return errors.Errorf("%s: no sampler anisotropy", c.name)
	case c.device_type != vk.PhysicalDeviceTypeDiscreteGpu &&
		!(allow_integrated && c.device_type == vk.PhysicalDeviceTypeIntegratedGpu):
		return errors.Errorf("%s: not a discrete GPU", c.name)
	case !c.geometry_shader:
		return errors.Errorf("%s: no geometry shader", c.name)
	case !c.families_found:
		return errors.Errorf("%s: no graphics and present queue families", c.name)
	case !c.swapchain_support:
		return errors.Errorf("%s: %s not supported", c.name, swapchainExtension)
	case c.formats == 0 || c.present_modes == 0:
		return errors.Errorf("%s: surface reports no formats or present modes", c.name)
	}
	return nil
}

//SurfaceSupport is what a device reports for a surface
type SurfaceSupport struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

//QuerySurfaceSupport reads and derefs the surface capabilities of gpu
func QuerySurfaceSupport(gpu vk.PhysicalDevice, surface vk.Surface) (support SurfaceSupport, err error) {
	defer checkErr(&err)

	ret := vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &support.Capabilities)
	orPanic(NewError(ret, "vkGetPhysicalDeviceSurfaceCapabilitiesKHR"))
	support.Capabilities.Deref()
	support.Capabilities.CurrentExtent.Deref()
	support.Capabilities.MinImageExtent.Deref()
	support.Capabilities.MaxImageExtent.Deref()

	var count uint32
	ret = vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, nil)
	orPanic(NewError(ret, "vkGetPhysicalDeviceSurfaceFormatsKHR"))
	support.Formats = make([]vk.SurfaceFormat, count)
	if count > 0 {
		ret = vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, support.Formats)
		orPanic(NewError(ret, "vkGetPhysicalDeviceSurfaceFormatsKHR"))
	}
	for index := range support.Formats {
		support.Formats[index].Deref()
	}

	ret = vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &count, nil)
	orPanic(NewError(ret, "vkGetPhysicalDeviceSurfacePresentModesKHR"))
	support.PresentModes = make([]vk.PresentMode, count)
	if count > 0 {
		ret = vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &count, support.PresentModes)
		orPanic(NewError(ret, "vkGetPhysicalDeviceSurfacePresentModesKHR"))
	}
	return support, nil
}

//CoreDevice is the selected physical device, its logical device and queues
type CoreDevice struct {
	gpu               vk.PhysicalDevice
	name              string
	properties        vk.PhysicalDeviceProperties
	memory_properties vk.PhysicalDeviceMemoryProperties
	memory_types      []vk.MemoryPropertyFlags
	queues            *CoreQueue
	families          QueueFamilies
	handle            vk.Device
	graphics_queue    vk.Queue
	present_queue     vk.Queue
	depth_format      vk.Format
}

func describeGPU(gpu vk.PhysicalDevice) (vk.PhysicalDeviceProperties, vk.PhysicalDeviceFeatures) {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()
	var feats vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(gpu, &feats)
	feats.Deref()
	return props, feats
}

//PickPhysicalDevice returns the first GPU able to render to surface
func PickPhysicalDevice(instance vk.Instance, surface vk.Surface, allow_integrated bool, logs *gfx.Logs) (*CoreDevice, error) {
	var count uint32
	ret := vk.EnumeratePhysicalDevices(instance, &count, nil)
	if err := NewError(ret, "vkEnumeratePhysicalDevices"); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("vulkan: no GPU devices found")
	}
	gpus := make([]vk.PhysicalDevice, count)
	ret = vk.EnumeratePhysicalDevices(instance, &count, gpus)
	if err := NewError(ret, "vkEnumeratePhysicalDevices"); err != nil {
		return nil, err
	}

	var rejected []string
	for _, gpu := range gpus {
		props, feats := describeGPU(gpu)
		queues := NewCoreQueue(gpu)
		families, found := queues.FindFamilies(func(family uint32) bool {
			var supported vk.Bool32
			vk.GetPhysicalDeviceSurfaceSupport(gpu, family, surface, &supported)
			return supported.B()
		})
		candidate := gpuCandidate{
			name:            vk.ToString(props.DeviceName[:]),
			device_type:     props.DeviceType,
			anisotropy:      feats.SamplerAnisotropy.B(),
			geometry_shader: feats.GeometryShader.B(),
			families_found:  found,
		}
		if exts, err := NewBaseDeviceExtensions(gpu, nil, []string{swapchainExtension}); err == nil {
			candidate.swapchain_support, _ = exts.HasRequired()
		}
		if candidate.swapchain_support {
			if support, err := QuerySurfaceSupport(gpu, surface); err == nil {
				candidate.formats = len(support.Formats)
				candidate.present_modes = len(support.PresentModes)
			}
		}
		if err := candidate.check(allow_integrated); err != nil {
			logs.Info.Printf("vulkan: skipping GPU %v", err)
			rejected = append(rejected, err.Error())
			continue
		}

		core := &CoreDevice{gpu: gpu, name: candidate.name, properties: props, queues: queues, families: families}
		vk.GetPhysicalDeviceMemoryProperties(gpu, &core.memory_properties)
		core.memory_properties.Deref()
		core.memory_types = make([]vk.MemoryPropertyFlags, core.memory_properties.MemoryTypeCount)
		for index := range core.memory_types {
			core.memory_properties.MemoryTypes[index].Deref()
			core.memory_types[index] = core.memory_properties.MemoryTypes[index].PropertyFlags
		}
		logs.Info.Printf("vulkan: selected GPU %s (graphics family %d, present family %d)",
			core.name, families.Graphics, families.Present)
		return core, nil
	}
	return nil, errors.Errorf("vulkan: no suitable GPU among %d: %v", count, rejected)
}

//CreateLogicalDevice creates the device with anisotropic sampling and the
//swapchain extension, then fetches one queue per family
func (core *CoreDevice) CreateLogicalDevice(layers []string) error {
	infos := core.queues.GetCreateInfos(core.families)
	extensions := safeStrings([]string{swapchainExtension})

	var device vk.Device
	ret := vk.CreateDevice(core.gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(infos)),
		PQueueCreateInfos:       infos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
		PEnabledFeatures: []vk.PhysicalDeviceFeatures{{
			SamplerAnisotropy: vk.True,
		}},
	}, nil, &device)
	if err := NewError(ret, "vkCreateDevice"); err != nil {
		return err
	}
	core.handle = device
	vk.GetDeviceQueue(device, core.families.Graphics, 0, &core.graphics_queue)
	vk.GetDeviceQueue(device, core.families.Present, 0, &core.present_queue)

	format, err := ChooseDepthFormat(core.supportsDepthAttachment)
	if err != nil {
		return err
	}
	core.depth_format = format
	return nil
}

func (core *CoreDevice) supportsDepthAttachment(format vk.Format) bool {
	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(core.gpu, format, &props)
	props.Deref()
	return props.OptimalTilingFeatures&vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit) != 0
}

//findMemoryType returns the first type allowed by filter whose flags hold every requested property
func findMemoryType(types []vk.MemoryPropertyFlags, filter uint32, want vk.MemoryPropertyFlags) (uint32, error) {
	for index, flags := range types {
		if filter&(1<<uint(index)) != 0 && flags&want == want {
			return uint32(index), nil
		}
	}
	return 0, errors.Errorf("vulkan: no memory type in %032b with properties %#x", filter, uint32(want))
}

func (core *CoreDevice) FindMemoryType(filter uint32, want vk.MemoryPropertyFlagBits) (uint32, error) {
	return findMemoryType(core.memory_types, filter, vk.MemoryPropertyFlags(want))
}

func (core *CoreDevice) SurfaceSupport(surface vk.Surface) (SurfaceSupport, error) {
	return QuerySurfaceSupport(core.gpu, surface)
}

func (core *CoreDevice) WaitIdle() error {
	if core.handle == nil {
		return nil
	}
	return NewError(vk.DeviceWaitIdle(core.handle), "vkDeviceWaitIdle")
}

func (core *CoreDevice) Destroy() {
	if core.handle != nil {
		vk.DestroyDevice(core.handle, nil)
		core.handle = nil
	}
}
