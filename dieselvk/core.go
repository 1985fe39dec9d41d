package dieselvk

import (
	"fmt"
	"image"
	"time"

	"github.com/andewx/dieselvk/config"
	"github.com/andewx/dieselvk/gfx"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func init() {
	gfx.Register(config.APIVulkan, func(opts config.Options, logs *gfx.Logs) gfx.API {
		return NewDevice(opts, logs)
	})
}

//Device is the Vulkan graphics API. It owns the window, the instance, the
//logical device and the swap chain group, and it builds the GPU side of
//every mesh, texture and shader. Fields are private, everything goes
//through gfx.API.
type Device struct {
	opts config.Options
	logs *gfx.Logs

	//Instance level
	display  *CoreDisplay
	instance vk.Instance
	reporter *debugReporter
	debug    vk.DebugReportCallback
	surface  vk.Surface
	core     *CoreDevice
	layers   []string

	//Swap chain group, rebuilt on resize
	swapchain       *CoreSwapchain
	renderpass      *CoreRenderPass
	descriptors     *CoreDescriptors
	pipeline        *CorePipeline
	pool            *CorePool
	uniforms        *CoreBuffer
	commands        *CommandBufferManager
	image_available vk.Semaphore
	render_complete vk.Semaphore

	meshes   gfx.BackendList[*MeshBackend]
	textures gfx.BackendList[*TextureBackend]
	shaders  gfx.BackendList[*ShaderBackend]

	initialized    bool
	pipeline_stale bool
	start          time.Time
	frames         int
	rebuilds       int
}

func NewDevice(opts config.Options, logs *gfx.Logs) *Device {
	if logs == nil {
		logs = gfx.Discard()
	}
	return &Device{opts: opts, logs: logs}
}

//Initialize runs the whole startup sequence. On error the device holds
//whatever was built so far and Destroy releases it.
func (d *Device) Initialize(width, height int) error {
	if d.initialized {
		panic("dieselvk: device initialized twice")
	}
	if width <= 0 || height <= 0 {
		return errors.Errorf("dieselvk: invalid window size %dx%d", width, height)
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"create window", func() error { return d.createWindow(width, height) }},
		{"create instance", d.createInstance},
		{"install debug callback", d.installDebugCallback},
		{"create surface", d.createSurface},
		{"pick physical device", d.pickPhysicalDevice},
		{"create logical device", d.createLogicalDevice},
		{"create swap chain group", d.createSwapchainGroup},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return errors.Wrap(err, step.name)
		}
		d.logs.Info.Printf("dieselvk: %s", step.name)
	}

	d.initialized = true
	d.start = time.Now()
	return nil
}

func (d *Device) createWindow(width, height int) error {
	display, err := NewCoreDisplay(AppName, width, height)
	if err != nil {
		return err
	}
	d.display = display
	return nil
}

func (d *Device) createInstance() error {
	if err := loadVulkan(); err != nil {
		return err
	}
	req := newInstanceRequest(d.display.RequiredExtensions(), d.opts.Validation)
	instance, err := createInstance(req)
	if err != nil {
		return err
	}
	d.instance = instance
	d.layers = req.layers
	d.logs.Info.Printf("dieselvk: %d instance extensions, %d layers", len(req.extensions), len(req.layers))
	return nil
}

func (d *Device) installDebugCallback() error {
	if !d.opts.Validation {
		return nil
	}
	d.reporter = &debugReporter{logs: d.logs}
	callback, err := d.reporter.install(d.instance)
	if err != nil {
		return err
	}
	d.debug = callback
	return nil
}

func (d *Device) createSurface() error {
	surface, err := d.display.CreateSurface(d.instance)
	if err != nil {
		return err
	}
	d.surface = surface
	return nil
}

func (d *Device) pickPhysicalDevice() error {
	core, err := PickPhysicalDevice(d.instance, d.surface, d.opts.AllowIntegrated, d.logs)
	if err != nil {
		return err
	}
	d.core = core
	return nil
}

func (d *Device) createLogicalDevice() error {
	return d.core.CreateLogicalDevice(d.layers)
}

//createSwapchainGroup builds everything that hangs off the swapchain, in
//dependency order
func (d *Device) createSwapchainGroup() error {
	device := d.core.handle
	width, height := d.display.FramebufferSize()

	var err error
	if d.swapchain, err = NewCoreSwapchain(d.core, d.surface, width, height, vk.NullSwapchain); err != nil {
		return errors.Wrap(err, "swapchain")
	}
	if d.renderpass, err = NewCoreRenderPass(device, d.swapchain.format.Format, d.core.depth_format); err != nil {
		return errors.Wrap(err, "render pass")
	}
	if d.descriptors, err = NewDescriptorLayout(device); err != nil {
		return errors.Wrap(err, "descriptor set layout")
	}
	if err = d.createPipeline(); err != nil {
		return errors.Wrap(err, "graphics pipeline")
	}
	if d.pool, err = NewCorePool(device, d.core.graphics_queue, d.core.families.Graphics); err != nil {
		return errors.Wrap(err, "command pool")
	}
	if err = d.swapchain.CreateFramebuffers(d.core, d.renderpass); err != nil {
		return errors.Wrap(err, "framebuffers")
	}
	if d.uniforms, err = NewCoreBuffer(d.core, uniformBlockSize, vk.BufferUsageUniformBufferBit,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit); err != nil {
		return errors.Wrap(err, "uniform buffer")
	}
	if err = d.descriptors.Allocate(); err != nil {
		return errors.Wrap(err, "descriptor set")
	}
	d.commands = NewCommandBufferManager(d.pool)
	if err = d.commands.Allocate(d.swapchain.ImageCount()); err != nil {
		return errors.Wrap(err, "command buffers")
	}
	if d.image_available, err = createSemaphore(device); err != nil {
		return err
	}
	if d.render_complete, err = createSemaphore(device); err != nil {
		return err
	}
	return nil
}

func createSemaphore(device vk.Device) (vk.Semaphore, error) {
	var semaphore vk.Semaphore
	ret := vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &semaphore)
	return semaphore, NewError(ret, "vkCreateSemaphore")
}

//shaderModules returns the modules of the oldest live shader backend, or
//modules loaded from the configured SPIR-V files along with their cleanup
func (d *Device) shaderModules() (vk.ShaderModule, vk.ShaderModule, func(), error) {
	if s, ok := d.shaders.First(); ok {
		return s.vertex_module, s.fragment_module, func() {}, nil
	}
	device := d.core.handle
	vertex, err := LoadShaderModule(device, d.opts.VertexShader)
	if err != nil {
		return vk.NullShaderModule, vk.NullShaderModule, nil, errors.Wrap(err, d.opts.VertexShader)
	}
	fragment, err := LoadShaderModule(device, d.opts.FragmentShader)
	if err != nil {
		vk.DestroyShaderModule(device, vertex, nil)
		return vk.NullShaderModule, vk.NullShaderModule, nil, errors.Wrap(err, d.opts.FragmentShader)
	}
	return vertex, fragment, func() {
		vk.DestroyShaderModule(device, vertex, nil)
		vk.DestroyShaderModule(device, fragment, nil)
	}, nil
}

func (d *Device) createPipeline() error {
	vertex, fragment, release, err := d.shaderModules()
	if err != nil {
		return err
	}
	defer release()
	builder := NewPipelineBuilder(vertex, fragment, d.swapchain.extent)
	pipeline, err := builder.BuildPipeline(d.core.handle, d.renderpass, d.descriptors.layout)
	if err != nil {
		return err
	}
	d.pipeline = pipeline
	d.pipeline_stale = false
	return nil
}

//Destroy releases leaked backends, the swap chain group, the device, the
//instance and the window. It copes with a partially initialized device.
func (d *Device) Destroy() {
	if d.core != nil {
		if err := d.core.WaitIdle(); err != nil {
			d.logs.Error.Printf("dieselvk: wait idle on destroy: %v", err)
		}
	}

	for _, m := range d.meshes.Drain() {
		d.logs.Warn.Printf("dieselvk: mesh backend %s leaked", m.name)
		m.destroy()
	}
	for _, t := range d.textures.Drain() {
		d.logs.Warn.Printf("dieselvk: texture backend %s leaked", t.name)
		t.destroy()
	}
	for _, s := range d.shaders.Drain() {
		d.logs.Warn.Printf("dieselvk: shader backend %s leaked", s.name)
		s.destroy()
	}

	d.destroySwapchainGroup()

	if d.core != nil {
		d.core.Destroy()
		d.core = nil
	}
	if d.display != nil && d.instance != nil {
		d.display.DestroySurface(d.instance)
	}
	d.surface = vk.NullSurface
	if d.debug != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(d.instance, d.debug, nil)
		d.debug = vk.NullDebugReportCallback
	}
	if d.instance != nil {
		vk.DestroyInstance(d.instance, nil)
		d.instance = nil
	}
	if d.display != nil {
		d.display.Close()
	}
	d.initialized = false
}

func (d *Device) destroySwapchainGroup() {
	if d.core == nil || d.core.handle == nil {
		return
	}
	device := d.core.handle
	if d.render_complete != vk.NullSemaphore {
		vk.DestroySemaphore(device, d.render_complete, nil)
		d.render_complete = vk.NullSemaphore
	}
	if d.image_available != vk.NullSemaphore {
		vk.DestroySemaphore(device, d.image_available, nil)
		d.image_available = vk.NullSemaphore
	}
	if d.commands != nil {
		d.commands.Free()
		d.commands = nil
	}
	if d.descriptors != nil {
		d.descriptors.Destroy()
		d.descriptors = nil
	}
	if d.uniforms != nil {
		d.uniforms.Destroy()
		d.uniforms = nil
	}
	if d.swapchain != nil {
		d.swapchain.DestroyFramebuffers()
	}
	if d.pool != nil {
		d.pool.Destroy()
		d.pool = nil
	}
	if d.pipeline != nil {
		d.pipeline.Destroy()
		d.pipeline = nil
	}
	if d.renderpass != nil {
		d.renderpass.Destroy()
		d.renderpass = nil
	}
	if d.swapchain != nil {
		d.swapchain.Destroy()
		d.swapchain = nil
	}
}

func (d *Device) Window() gfx.Window {
	d.mustBeInitialized()
	return d.display
}

//Frames counts presented or skipped Render calls
func (d *Device) Frames() int { return d.frames }

//Rebuilds counts swap chain group rebuilds since Initialize
func (d *Device) Rebuilds() int { return d.rebuilds }

//Extent is the current swapchain extent
func (d *Device) Extent() vk.Extent2D {
	d.mustBeInitialized()
	return d.swapchain.Extent()
}

func (d *Device) CreateMeshBackend(name string, vertices []gfx.Vertex, indices []uint32) (gfx.MeshBackend, error) {
	d.mustBeInitialized()
	m, err := newMeshBackend(d.core, d.pool, name, vertices, indices)
	if err != nil {
		return nil, err
	}
	d.meshes.Add(m)
	return m, nil
}

func (d *Device) DestroyMeshBackend(b gfx.MeshBackend) {
	m, ok := b.(*MeshBackend)
	if !ok {
		panic(fmt.Sprintf("dieselvk: cannot destroy mesh backend %T", b))
	}
	d.meshes.Remove(m)
	d.waitIdle()
	m.destroy()
}

func (d *Device) CreateTextureBackend(name string, pixels *image.RGBA) (gfx.TextureBackend, error) {
	d.mustBeInitialized()
	t, err := newTextureBackend(d.core, d.pool, name, pixels)
	if err != nil {
		return nil, err
	}
	d.textures.Add(t)
	return t, nil
}

func (d *Device) DestroyTextureBackend(b gfx.TextureBackend) {
	t, ok := b.(*TextureBackend)
	if !ok {
		panic(fmt.Sprintf("dieselvk: cannot destroy texture backend %T", b))
	}
	d.textures.Remove(t)
	d.waitIdle()
	t.destroy()
}

//CreateShaderBackend loads both programs, the pipeline picks them up before the next frame
func (d *Device) CreateShaderBackend(name string, vertexProgram string, fragmentProgram string) (gfx.ShaderBackend, error) {
	d.mustBeInitialized()
	s, err := newShaderBackend(d.core.handle, name, vertexProgram, fragmentProgram)
	if err != nil {
		return nil, err
	}
	d.shaders.Add(s)
	d.pipeline_stale = true
	return s, nil
}

func (d *Device) DestroyShaderBackend(b gfx.ShaderBackend) {
	s, ok := b.(*ShaderBackend)
	if !ok {
		panic(fmt.Sprintf("dieselvk: cannot destroy shader backend %T", b))
	}
	d.shaders.Remove(s)
	d.waitIdle()
	s.destroy()
	d.pipeline_stale = true
}

func (d *Device) waitIdle() {
	if d.core == nil {
		return
	}
	if err := d.core.WaitIdle(); err != nil {
		d.logs.Error.Printf("dieselvk: %v", err)
	}
}

func (d *Device) mustBeInitialized() {
	if !d.initialized {
		panic("dieselvk: device used before Initialize")
	}
}

var _ gfx.API = (*Device)(nil)
