package dieselvk

import vk "github.com/vulkan-go/vulkan"

const (
	EngineName = "dieselvk"
	AppName    = "diesel"
)

var (
	DefaultVulkanAppVersion = vk.MakeVersion(1, 0, 0)
	DefaultVulkanAPIVersion = vk.MakeVersion(1, 0, 0)
)

//applicationInfo describes the engine to the driver
func applicationInfo(name string) *vk.ApplicationInfo {
	return &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(DefaultVulkanAPIVersion),
		ApplicationVersion: uint32(DefaultVulkanAppVersion),
		PApplicationName:   safeString(name),
		EngineVersion:      uint32(DefaultVulkanAppVersion),
		PEngineName:        safeString(EngineName),
	}
}
