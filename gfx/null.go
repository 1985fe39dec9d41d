package gfx

import (
	"fmt"
	"image"

	"github.com/andewx/dieselvk/config"
	"github.com/pkg/errors"
)

func init() {
	Register(config.APINull, func(opts config.Options, logs *Logs) API {
		return NewNull(opts, logs)
	})
}

type nullMesh struct {
	name     string
	vertices int
	indices  int
}

func (m *nullMesh) Name() string     { return m.name }
func (m *nullMesh) VertexCount() int { return m.vertices }
func (m *nullMesh) IndexCount() int  { return m.indices }

type nullTexture struct {
	name          string
	width, height int
}

func (t *nullTexture) Name() string     { return t.name }
func (t *nullTexture) Size() (int, int) { return t.width, t.height }

type nullShader struct {
	name, vertex, fragment string
}

func (s *nullShader) Name() string            { return s.name }
func (s *nullShader) VertexProgram() string   { return s.vertex }
func (s *nullShader) FragmentProgram() string { return s.fragment }

//Null is the no-op API. It allocates nothing on the GPU, it only counts
//frames and keeps track of the backends it handed out.
type Null struct {
	opts   config.Options
	logs   *Logs
	window *headlessWindow

	initialized bool
	frames      int
	drawn       int

	meshes   BackendList[*nullMesh]
	textures BackendList[*nullTexture]
	shaders  BackendList[*nullShader]
}

func NewNull(opts config.Options, logs *Logs) *Null {
	if logs == nil {
		logs = Discard()
	}
	return &Null{opts: opts, logs: logs}
}

func (n *Null) Initialize(width, height int) error {
	if n.initialized {
		panic("gfx: null API initialized twice")
	}
	if width <= 0 || height <= 0 {
		return errors.Errorf("null: invalid window size %dx%d", width, height)
	}
	n.window = newHeadlessWindow(width, height, n.opts.Frames)
	n.initialized = true
	return nil
}

//Render counts one frame and the drawables it was handed
func (n *Null) Render(drawables []Drawable) error {
	n.mustBeInitialized()
	n.frames++
	n.drawn += len(drawables)
	n.window.tick()
	return nil
}

func (n *Null) Destroy() {
	for _, m := range n.meshes.Drain() {
		n.logs.Warn.Printf("null: mesh backend %s leaked", m.name)
	}
	for _, t := range n.textures.Drain() {
		n.logs.Warn.Printf("null: texture backend %s leaked", t.name)
	}
	for _, s := range n.shaders.Drain() {
		n.logs.Warn.Printf("null: shader backend %s leaked", s.name)
	}
	if n.window != nil {
		n.window.Close()
	}
	n.initialized = false
}

func (n *Null) Window() Window {
	n.mustBeInitialized()
	return n.window
}

//Frames is the number of Render calls so far
func (n *Null) Frames() int { return n.frames }

//Drawn is the total number of drawables handed to Render
func (n *Null) Drawn() int { return n.drawn }

//LiveBackends counts backends created and not yet destroyed, all kinds
func (n *Null) LiveBackends() int {
	return n.meshes.Len() + n.textures.Len() + n.shaders.Len()
}

func (n *Null) CreateMeshBackend(name string, vertices []Vertex, indices []uint32) (MeshBackend, error) {
	n.mustBeInitialized()
	m := &nullMesh{name: name, vertices: len(vertices), indices: len(indices)}
	n.meshes.Add(m)
	return m, nil
}

func (n *Null) DestroyMeshBackend(b MeshBackend) {
	m, ok := b.(*nullMesh)
	if !ok {
		panic(fmt.Sprintf("gfx: null API cannot destroy mesh backend %T", b))
	}
	n.meshes.Remove(m)
}

func (n *Null) CreateTextureBackend(name string, pixels *image.RGBA) (TextureBackend, error) {
	n.mustBeInitialized()
	if pixels == nil {
		return nil, errors.Errorf("null: texture %s has no pixels", name)
	}
	size := pixels.Bounds().Size()
	t := &nullTexture{name: name, width: size.X, height: size.Y}
	n.textures.Add(t)
	return t, nil
}

func (n *Null) DestroyTextureBackend(b TextureBackend) {
	t, ok := b.(*nullTexture)
	if !ok {
		panic(fmt.Sprintf("gfx: null API cannot destroy texture backend %T", b))
	}
	n.textures.Remove(t)
}

func (n *Null) CreateShaderBackend(name string, vertexProgram string, fragmentProgram string) (ShaderBackend, error) {
	n.mustBeInitialized()
	s := &nullShader{name: name, vertex: vertexProgram, fragment: fragmentProgram}
	n.shaders.Add(s)
	return s, nil
}

func (n *Null) DestroyShaderBackend(b ShaderBackend) {
	s, ok := b.(*nullShader)
	if !ok {
		panic(fmt.Sprintf("gfx: null API cannot destroy shader backend %T", b))
	}
	n.shaders.Remove(s)
}

func (n *Null) mustBeInitialized() {
	if !n.initialized {
		panic("gfx: null API used before Initialize")
	}
}
