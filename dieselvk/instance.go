package dieselvk

import (
	"fmt"
	"time"

	"github.com/andewx/dieselvk/gfx"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//frameStatus carries the transient surface results of a frame
type frameStatus int

const (
	frameOK frameStatus = iota
	frameStale
)

func (s frameStatus) String() string {
	if s == frameStale {
		return "stale"
	}
	return "ok"
}

//surfaceStatus sorts an acquire or present result into ok, stale or fatal.
//Suboptimal still presents.
func surfaceStatus(ret vk.Result, op string) (frameStatus, error) {
	switch ret {
	case vk.Success, vk.Suboptimal:
		return frameOK, nil
	case vk.ErrorOutOfDate:
		return frameStale, nil
	}
	return frameOK, NewError(ret, op)
}

//Render draws every registered mesh backend for one frame, the drawables
//only have to reference live backends. Pending resizes and shader changes are
//applied first. A stale surface rebuilds the swap chain group, the frame is
//then skipped but it is not an error.
func (d *Device) Render(drawables []gfx.Drawable) error {
	d.mustBeInitialized()
	if d.display.ShouldClose() {
		return nil
	}

	if _, _, resized := d.display.resize.take(); resized {
		if err := d.Rebuild(); err != nil {
			return err
		}
	}
	if d.pipeline_stale {
		if err := d.rebuildPipeline(); err != nil {
			return err
		}
	}

	d.checkDrawables(drawables)
	status, err := d.drawFrame(d.meshes.Items())
	if err != nil {
		return err
	}
	d.frames++
	if status == frameStale {
		return d.Rebuild()
	}
	return nil
}

//checkDrawables panics on a drawable whose mesh backend is not live here
func (d *Device) checkDrawables(drawables []gfx.Drawable) {
	for _, drawable := range drawables {
		b := drawable.Mesh()
		if b == nil {
			continue
		}
		m, ok := b.(*MeshBackend)
		if !ok || !d.meshes.Contains(m) {
			panic(fmt.Sprintf("dieselvk: mesh backend %s is not live on this device", b.Name()))
		}
	}
}

func (d *Device) drawFrame(meshes []*MeshBackend) (frameStatus, error) {
	device := d.core.handle
	extent := d.swapchain.Extent()

	ubo := computeUniforms(time.Since(d.start), extent.Width, extent.Height)
	if err := d.uniforms.Write(ubo.Bytes()); err != nil {
		return frameOK, errors.Wrap(err, "uniform buffer")
	}

	//One texture binding, without it nothing is drawn
	texture, textured := d.textures.First()
	d.descriptors.Update(d.uniforms, texture)

	err := d.commands.Record(func(cmd vk.CommandBuffer, index int) {
		vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
			SType:       vk.StructureTypeRenderPassBeginInfo,
			RenderPass:  d.renderpass.renderPass,
			Framebuffer: d.swapchain.framebuffers[index],
			RenderArea: vk.Rect2D{
				Offset: vk.Offset2D{X: 0, Y: 0},
				Extent: extent,
			},
			ClearValueCount: 2,
			PClearValues: []vk.ClearValue{
				vk.NewClearValue([]float32{0.0, 0.0, 0.0, 1.0}),
				vk.NewClearDepthStencil(1.0, 0),
			},
		}, vk.SubpassContentsInline)
		vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, d.pipeline.pipeline)
		if textured {
			vk.CmdBindDescriptorSets(cmd, vk.PipelineBindPointGraphics, d.pipeline.layout,
				0, 1, []vk.DescriptorSet{d.descriptors.set}, 0, nil)
			for _, m := range meshes {
				m.draw(cmd)
			}
		}
		vk.CmdEndRenderPass(cmd)
	})
	if err != nil {
		return frameOK, errors.Wrap(err, "record command buffers")
	}

	var index uint32
	ret := vk.AcquireNextImage(device, d.swapchain.swapchain, vk.MaxUint64, d.image_available, vk.NullFence, &index)
	status, err := surfaceStatus(ret, "vkAcquireNextImageKHR")
	if err != nil || status == frameStale {
		return status, err
	}

	ret = vk.QueueSubmit(d.core.graphics_queue, 1, []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{d.image_available},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{d.commands.Get(index)},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{d.render_complete},
	}}, vk.NullFence)
	if err := NewError(ret, "vkQueueSubmit"); err != nil {
		return frameOK, err
	}

	ret = vk.QueuePresent(d.core.present_queue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{d.render_complete},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{d.swapchain.swapchain},
		PImageIndices:      []uint32{index},
	})
	status, err = surfaceStatus(ret, "vkQueuePresentKHR")
	if err != nil {
		return status, err
	}

	if err := d.core.WaitIdle(); err != nil {
		return status, err
	}
	return status, nil
}

//Rebuild destroys the swap chain group in reverse order and builds it again
//for the current window size. The old swapchain is handed to its successor.
//Nothing is touched when the window closes while it is minimized.
func (d *Device) Rebuild() error {
	d.mustBeInitialized()
	if !d.display.WaitForArea() {
		d.logs.Info.Printf("dieselvk: window closing, swap chain rebuild skipped")
		return nil
	}
	if err := d.core.WaitIdle(); err != nil {
		return err
	}

	old := d.swapchain
	old.DestroyDepth()
	d.commands.Free()
	old.DestroyFramebuffers()
	d.pipeline.Destroy()
	d.pipeline = nil
	d.renderpass.Destroy()
	d.renderpass = nil

	width, height := d.display.FramebufferSize()
	swapchain, err := NewCoreSwapchain(d.core, d.surface, width, height, old.swapchain)
	old.Destroy()
	d.swapchain = nil
	if err != nil {
		return errors.Wrap(err, "rebuild swapchain")
	}
	d.swapchain = swapchain

	if d.renderpass, err = NewCoreRenderPass(d.core.handle, swapchain.format.Format, d.core.depth_format); err != nil {
		return errors.Wrap(err, "rebuild render pass")
	}
	if err = d.createPipeline(); err != nil {
		return errors.Wrap(err, "rebuild graphics pipeline")
	}
	if err = swapchain.CreateFramebuffers(d.core, d.renderpass); err != nil {
		return errors.Wrap(err, "rebuild framebuffers")
	}
	if err = d.commands.Allocate(swapchain.ImageCount()); err != nil {
		return errors.Wrap(err, "rebuild command buffers")
	}

	d.rebuilds++
	d.logs.Info.Printf("dieselvk: swap chain rebuilt at %dx%d (%d rebuilds)",
		swapchain.extent.Width, swapchain.extent.Height, d.rebuilds)
	return nil
}

//rebuildPipeline swaps in the modules of the current shader backend
func (d *Device) rebuildPipeline() error {
	if err := d.core.WaitIdle(); err != nil {
		return err
	}
	if d.pipeline != nil {
		d.pipeline.Destroy()
		d.pipeline = nil
	}
	return errors.Wrap(d.createPipeline(), "rebuild graphics pipeline")
}
