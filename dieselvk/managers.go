package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandBufferManager owns the primary command buffer of each framebuffer.
// It is not thread-safe, the device records from the render thread only.
type CommandBufferManager struct {
	pool    *CorePool
	buffers []vk.CommandBuffer
}

func NewCommandBufferManager(pool *CorePool) *CommandBufferManager {
	return &CommandBufferManager{pool: pool}
}

// Allocate replaces the current buffers with count fresh ones.
func (c *CommandBufferManager) Allocate(count int) error {
	c.Free()
	buffers, err := c.pool.Allocate(uint32(count))
	if err != nil {
		return err
	}
	c.buffers = buffers
	return nil
}

// Get returns the buffer recorded for framebuffer index.
func (c *CommandBufferManager) Get(index uint32) vk.CommandBuffer {
	return c.buffers[index]
}

// Record resets and re-records every buffer, fn receives the framebuffer index.
func (c *CommandBufferManager) Record(fn func(cmd vk.CommandBuffer, index int)) error {
	for index, cmd := range c.buffers {
		ret := vk.ResetCommandBuffer(cmd, 0)
		if err := NewError(ret, "vkResetCommandBuffer"); err != nil {
			return err
		}
		ret = vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
			SType: vk.StructureTypeCommandBufferBeginInfo,
			Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageSimultaneousUseBit),
		})
		if err := NewError(ret, "vkBeginCommandBuffer"); err != nil {
			return err
		}
		fn(cmd, index)
		if err := NewError(vk.EndCommandBuffer(cmd), "vkEndCommandBuffer"); err != nil {
			return err
		}
	}
	return nil
}

func (c *CommandBufferManager) Free() {
	if c.pool != nil {
		c.pool.Free(c.buffers)
	}
	c.buffers = nil
}
