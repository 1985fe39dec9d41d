package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"
)

//QueueFamilies are the family indices the device draws and presents with
type QueueFamilies struct {
	Graphics uint32
	Present  uint32
}

//Unique lists each family once, graphics first
func (f QueueFamilies) Unique() []uint32 {
	if f.Graphics == f.Present {
		return []uint32{f.Graphics}
	}
	return []uint32{f.Graphics, f.Present}
}

//Shared is true when one family does both
func (f QueueFamilies) Shared() bool {
	return f.Graphics == f.Present
}

//CoreQueue holds the queue family flags of one physical device
type CoreQueue struct {
	flags []vk.QueueFlags
}

//NewCoreQueue reads the queue family properties of gpu
func NewCoreQueue(gpu vk.PhysicalDevice) *CoreQueue {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	properties := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, properties)

	var q CoreQueue
	q.flags = make([]vk.QueueFlags, count)
	for index := range properties {
		properties[index].Deref()
		q.flags[index] = properties[index].QueueFlags
	}
	return &q
}

func newCoreQueueFromFlags(flags []vk.QueueFlags) *CoreQueue {
	return &CoreQueue{flags: flags}
}

//FindFamilies picks the first graphics family and the first family that can
//present, preferring one that does both
func (q *CoreQueue) FindFamilies(present func(family uint32) bool) (QueueFamilies, bool) {
	var families QueueFamilies
	graphics_found, present_found := false, false

	for index := range q.flags {
		family := uint32(index)
		is_graphics := q.flags[index]&vk.QueueFlags(vk.QueueGraphicsBit) != 0
		can_present := present(family)
		if is_graphics && can_present {
			return QueueFamilies{Graphics: family, Present: family}, true
		}
		if is_graphics && !graphics_found {
			families.Graphics = family
			graphics_found = true
		}
		if can_present && !present_found {
			families.Present = family
			present_found = true
		}
	}
	return families, graphics_found && present_found
}

//GetCreateInfos requests a single queue with priority 1.0 per unique family
func (q *CoreQueue) GetCreateInfos(families QueueFamilies) []vk.DeviceQueueCreateInfo {
	unique := families.Unique()
	infos := make([]vk.DeviceQueueCreateInfo, len(unique))
	for index, family := range unique {
		infos[index] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}
	return infos
}
