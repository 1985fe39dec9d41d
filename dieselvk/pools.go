package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"
)

//CorePool is the graphics command pool. Buffers allocated from it can be
//reset one by one.
type CorePool struct {
	device vk.Device
	queue  vk.Queue
	pool   vk.CommandPool
}

func NewCorePool(device vk.Device, queue vk.Queue, family_index uint32) (*CorePool, error) {
	var core CorePool
	var cmdPool vk.CommandPool

	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: family_index,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &cmdPool)
	if err := NewError(ret, "vkCreateCommandPool"); err != nil {
		return nil, err
	}

	core.device = device
	core.queue = queue
	core.pool = cmdPool
	return &core, nil
}

//Allocate returns count primary command buffers
func (c *CorePool) Allocate(count uint32) ([]vk.CommandBuffer, error) {
	buffers := make([]vk.CommandBuffer, count)
	if count == 0 {
		return buffers, nil
	}
	ret := vk.AllocateCommandBuffers(c.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}, buffers)
	if err := NewError(ret, "vkAllocateCommandBuffers"); err != nil {
		return nil, err
	}
	return buffers, nil
}

func (c *CorePool) Free(buffers []vk.CommandBuffer) {
	if len(buffers) > 0 {
		vk.FreeCommandBuffers(c.device, c.pool, uint32(len(buffers)), buffers)
	}
}

//Submit records fn into a one time command buffer, submits it and waits
//for the graphics queue to drain
func (c *CorePool) Submit(fn func(cmd vk.CommandBuffer)) error {
	buffers, err := c.Allocate(1)
	if err != nil {
		return err
	}
	defer c.Free(buffers)
	cmd := buffers[0]

	ret := vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	if err := NewError(ret, "vkBeginCommandBuffer"); err != nil {
		return err
	}
	fn(cmd)
	if err := NewError(vk.EndCommandBuffer(cmd), "vkEndCommandBuffer"); err != nil {
		return err
	}

	ret = vk.QueueSubmit(c.queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    buffers,
	}}, vk.NullFence)
	if err := NewError(ret, "vkQueueSubmit"); err != nil {
		return err
	}
	return NewError(vk.QueueWaitIdle(c.queue), "vkQueueWaitIdle")
}

func (c *CorePool) Destroy() {
	if c.pool != vk.CommandPool(vk.NullHandle) {
		vk.DestroyCommandPool(c.device, c.pool, nil)
		c.pool = vk.CommandPool(vk.NullHandle)
	}
}
