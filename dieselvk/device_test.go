package dieselvk

import (
	"strings"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func goodCandidate() gpuCandidate {
	return gpuCandidate{
		name:              "test gpu",
		device_type:       vk.PhysicalDeviceTypeDiscreteGpu,
		anisotropy:        true,
		geometry_shader:   true,
		families_found:    true,
		swapchain_support: true,
		formats:           2,
		present_modes:     1,
	}
}

func TestCandidateCheck(t *testing.T) {
	tests := []struct {
		name       string
		edit       func(c *gpuCandidate)
		integrated bool
		reason     string
	}{
		{"suitable", func(c *gpuCandidate) {}, false, ""},
		{"no anisotropy", func(c *gpuCandidate) { c.anisotropy = false }, false, "anisotropy"},
		{"integrated", func(c *gpuCandidate) { c.device_type = vk.PhysicalDeviceTypeIntegratedGpu }, false, "discrete"},
		{"integrated allowed", func(c *gpuCandidate) { c.device_type = vk.PhysicalDeviceTypeIntegratedGpu }, true, ""},
		{"cpu never", func(c *gpuCandidate) { c.device_type = vk.PhysicalDeviceTypeCpu }, true, "discrete"},
		{"no geometry shader", func(c *gpuCandidate) { c.geometry_shader = false }, false, "geometry"},
		{"no queues", func(c *gpuCandidate) { c.families_found = false }, false, "queue"},
		{"no swapchain", func(c *gpuCandidate) { c.swapchain_support = false }, false, swapchainExtension},
		{"no formats", func(c *gpuCandidate) { c.formats = 0 }, false, "formats"},
		{"no present modes", func(c *gpuCandidate) { c.present_modes = 0 }, false, "present modes"},
	}
	for _, tt := range tests {
		c := goodCandidate()
		tt.edit(&c)
		err := c.check(tt.integrated)
		switch {
		case tt.reason == "" && err != nil:
			t.Errorf("%s: unexpected rejection: %v", tt.name, err)
		case tt.reason != "" && err == nil:
			t.Errorf("%s: accepted, want rejection for %q", tt.name, tt.reason)
		case tt.reason != "" && !strings.Contains(err.Error(), tt.reason):
			t.Errorf("%s: error %q does not mention %q", tt.name, err, tt.reason)
		}
	}
}

func TestFindMemoryType(t *testing.T) {
	host := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	local := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	types := []vk.MemoryPropertyFlags{local, vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit), host, local | host}

	tests := []struct {
		filter uint32
		want   vk.MemoryPropertyFlags
		index  uint32
		ok     bool
	}{
		{0xf, local, 0, true},
		{0xe, local, 3, true},
		{0xf, host, 2, true},
		{0x3, host, 0, false},
		{0x0, local, 0, false},
	}
	for _, tt := range tests {
		index, err := findMemoryType(types, tt.filter, tt.want)
		if tt.ok && (err != nil || index != tt.index) {
			t.Errorf("filter %04b want %#x: got %d, %v, want %d", tt.filter, uint32(tt.want), index, err, tt.index)
		}
		if !tt.ok && err == nil {
			t.Errorf("filter %04b want %#x: got %d, want error", tt.filter, uint32(tt.want), index)
		}
	}
}

func TestFindFamilies(t *testing.T) {
	graphics := vk.QueueFlags(vk.QueueGraphicsBit)
	compute := vk.QueueFlags(vk.QueueComputeBit)

	tests := []struct {
		name    string
		flags   []vk.QueueFlags
		present []bool
		want    QueueFamilies
		ok      bool
		unique  int
	}{
		{"shared family", []vk.QueueFlags{compute, graphics | compute}, []bool{true, true}, QueueFamilies{1, 1}, true, 1},
		{"separate present", []vk.QueueFlags{graphics, compute}, []bool{false, true}, QueueFamilies{0, 1}, true, 2},
		{"prefers shared", []vk.QueueFlags{graphics, compute, graphics}, []bool{false, true, true}, QueueFamilies{2, 2}, true, 1},
		{"no present", []vk.QueueFlags{graphics}, []bool{false}, QueueFamilies{}, false, 0},
		{"no graphics", []vk.QueueFlags{compute}, []bool{true}, QueueFamilies{}, false, 0},
	}
	for _, tt := range tests {
		q := newCoreQueueFromFlags(tt.flags)
		got, ok := q.FindFamilies(func(family uint32) bool { return tt.present[family] })
		if ok != tt.ok {
			t.Errorf("%s: found = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
		infos := q.GetCreateInfos(got)
		if len(infos) != tt.unique {
			t.Errorf("%s: %d queue create infos, want %d", tt.name, len(infos), tt.unique)
		}
		for _, info := range infos {
			if info.QueueCount != 1 || info.PQueuePriorities[0] != 1.0 {
				t.Errorf("%s: queue info %+v, want one queue at priority 1", tt.name, info)
			}
		}
	}
}
