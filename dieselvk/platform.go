package dieselvk

import (
	"unsafe"

	"github.com/andewx/dieselvk/gfx"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//instanceRequest is what createInstance enables
type instanceRequest struct {
	extensions []string
	layers     []string
}

//newInstanceRequest adds the debug report extension and the validation
//layer on top of what the window system needs
func newInstanceRequest(window_extensions []string, validation bool) instanceRequest {
	req := instanceRequest{extensions: safeStrings(window_extensions)}
	if validation {
		req.extensions = append(req.extensions, safeString(debugReportExtension))
		req.layers = []string{safeString(validationLayerName)}
	}
	return req
}

//loadVulkan binds the loader glfw found
func loadVulkan() error {
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	return errors.Wrap(vk.Init(), "vulkan loader")
}

//createInstance checks availability first and fails with the missing name
func createInstance(req instanceRequest) (vk.Instance, error) {
	exts, err := NewBaseInstanceExtensions(nil, req.extensions)
	if err != nil {
		return nil, err
	}
	if err := exts.Require(); err != nil {
		return nil, err
	}
	if len(req.layers) > 0 {
		layers, err := NewBaseLayerExtensions(nil, req.layers)
		if err != nil {
			return nil, err
		}
		if err := layers.Require(); err != nil {
			return nil, err
		}
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        applicationInfo(AppName),
		EnabledExtensionCount:   uint32(len(req.extensions)),
		PpEnabledExtensionNames: req.extensions,
		EnabledLayerCount:       uint32(len(req.layers)),
		PpEnabledLayerNames:     req.layers,
	}, nil, &instance)
	if err := NewError(ret, "vkCreateInstance"); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "vulkan instance functions")
	}
	return instance, nil
}

//debugReporter forwards validation messages to the engine loggers
type debugReporter struct {
	logs *gfx.Logs
}

func (r *debugReporter) install(instance vk.Instance) (vk.DebugReportCallback, error) {
	var callback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit),
		PfnCallback: r.callback,
	}, nil, &callback)
	return callback, NewError(ret, "vkCreateDebugReportCallbackEXT")
}

func (r *debugReporter) callback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		r.logs.Error.Printf("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		r.logs.Warn.Printf("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		r.logs.Warn.Printf("PERFORMANCE: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		r.logs.Info.Printf("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
