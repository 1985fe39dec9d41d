package dieselvk

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//pendingResize folds any number of resize reports into one rebuild request
//carrying the last reported size
type pendingResize struct {
	pending       bool
	width, height int
}

//notify records a resize, zero area reports (minimized windows) are dropped
func (r *pendingResize) notify(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	r.pending = true
	r.width, r.height = width, height
	return true
}

//take reports whether a rebuild is due and clears the request
func (r *pendingResize) take() (int, int, bool) {
	if !r.pending {
		return 0, 0, false
	}
	r.pending = false
	return r.width, r.height, true
}

//CoreDisplay is the glfw window the device presents to. It implements gfx.Window.
type CoreDisplay struct {
	window  *glfw.Window
	surface vk.Surface
	width   int
	height  int

	resize    pendingResize
	on_resize func(width, height int)
}

//NewCoreDisplay opens a resizable window without a client API
func NewCoreDisplay(title string, width, height int) (*CoreDisplay, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw init")
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, errors.New("glfw: vulkan loader not found")
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "glfw create window")
	}

	var core CoreDisplay
	core.window = window
	core.width, core.height = width, height
	window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		core.onSize(width, height)
	})
	return &core, nil
}

func (core *CoreDisplay) onSize(width, height int) {
	if !core.resize.notify(width, height) {
		return
	}
	core.width, core.height = width, height
	if core.on_resize != nil {
		core.on_resize(width, height)
	}
}

//RequiredExtensions are the instance extensions glfw needs to present
func (core *CoreDisplay) RequiredExtensions() []string {
	return core.window.GetRequiredInstanceExtensions()
}

//CreateSurface creates the presentation surface for instance
func (core *CoreDisplay) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	ret, err := core.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "glfw create window surface")
	}
	core.surface = vk.SurfaceFromPointer(ret)
	return core.surface, nil
}

func (core *CoreDisplay) DestroySurface(instance vk.Instance) {
	if core.surface != vk.NullSurface {
		vk.DestroySurface(instance, core.surface, nil)
		core.surface = vk.NullSurface
	}
}

func (core *CoreDisplay) ShouldClose() bool {
	return core.window == nil || core.window.ShouldClose()
}

func (core *CoreDisplay) ProcessMessages() {
	glfw.PollEvents()
}

//Close destroys the window and shuts glfw down
func (core *CoreDisplay) Close() {
	if core.window == nil {
		return
	}
	core.window.Destroy()
	core.window = nil
	glfw.Terminate()
}

//Size is the cached size from the last UpdateDimensions or resize report
func (core *CoreDisplay) Size() (int, int) {
	return core.width, core.height
}

func (core *CoreDisplay) UpdateDimensions() {
	if core.window == nil {
		return
	}
	width, height := core.window.GetSize()
	if width > 0 && height > 0 {
		core.width, core.height = width, height
	}
}

func (core *CoreDisplay) SetResizeCallback(fn func(width, height int)) {
	core.on_resize = fn
}

//FramebufferSize is the drawable size in pixels
func (core *CoreDisplay) FramebufferSize() (uint32, uint32) {
	if core.window == nil {
		return uint32(core.width), uint32(core.height)
	}
	width, height := core.window.GetFramebufferSize()
	return uint32(width), uint32(height)
}

//framebufferSource is the part of a glfw window WaitForArea polls
type framebufferSource interface {
	ShouldClose() bool
	GetFramebufferSize() (int, int)
}

//WaitForArea blocks on events while the window is minimized. It reports
//false when the window is asked to close before it has an area again.
func (core *CoreDisplay) WaitForArea() bool {
	if core.window == nil {
		return true
	}
	return waitForArea(core.window, glfw.WaitEvents)
}

func waitForArea(w framebufferSource, wait func()) bool {
	for !w.ShouldClose() {
		width, height := w.GetFramebufferSize()
		if width > 0 && height > 0 {
			return true
		}
		wait()
	}
	return false
}

//SetSize asks the window system for a new window size
func (core *CoreDisplay) SetSize(width, height int) {
	if core.window != nil {
		core.window.SetSize(width, height)
	}
}
