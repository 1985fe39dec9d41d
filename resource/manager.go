package resource

import (
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/andewx/dieselvk/gfx"
	"github.com/pkg/errors"
)

//Resource kinds
const (
	KindMesh    = "mesh"
	KindTexture = "texture"
	KindShader  = "shader"
	KindModel   = "model"
)

//Manager owns one registry per resource kind and builds backends through the
//API it was created with. Obtain calls must come from the render thread and
//never from inside a Render call.
type Manager struct {
	api  gfx.API
	logs *gfx.Logs
	open func(name string) (io.ReadCloser, error)

	meshes   *Registry[*Mesh]
	textures *Registry[*Texture]
	shaders  *Registry[*Shader]
	models   *Registry[*Model]
}

type Option func(*Manager)

//WithFS resolves resource names inside fsys instead of the working directory
func WithFS(fsys fs.FS) Option {
	return func(m *Manager) {
		m.open = func(name string) (io.ReadCloser, error) {
			return fsys.Open(name)
		}
	}
}

func WithLogs(logs *gfx.Logs) Option {
	return func(m *Manager) {
		m.logs = logs
	}
}

func NewManager(api gfx.API, opts ...Option) *Manager {
	m := &Manager{
		api:      api,
		logs:     gfx.Discard(),
		open:     func(name string) (io.ReadCloser, error) { return os.Open(name) },
		meshes:   NewRegistry[*Mesh](KindMesh),
		textures: NewRegistry[*Texture](KindTexture),
		shaders:  NewRegistry[*Shader](KindShader),
		models:   NewRegistry[*Model](KindModel),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Meshes() *Registry[*Mesh]      { return m.meshes }
func (m *Manager) Textures() *Registry[*Texture] { return m.textures }
func (m *Manager) Shaders() *Registry[*Shader]   { return m.shaders }
func (m *Manager) Models() *Registry[*Model]     { return m.models }

//Live counts registered resources of every kind
func (m *Manager) Live() int {
	return m.meshes.Len() + m.textures.Len() + m.shaders.Len() + m.models.Len()
}

//Leaks lists every resource still registered as kind:name
func (m *Manager) Leaks() []string {
	var out []string
	for _, n := range m.models.Names() {
		out = append(out, KindModel+":"+n)
	}
	for _, n := range m.shaders.Names() {
		out = append(out, KindShader+":"+n)
	}
	for _, n := range m.meshes.Names() {
		out = append(out, KindMesh+":"+n)
	}
	for _, n := range m.textures.Names() {
		out = append(out, KindTexture+":"+n)
	}
	return out
}

//read loads a whole source file, failures are LoadErrors naming the file
func (m *Manager) read(kind, name string, parse func(r io.Reader) error) error {
	f, err := m.open(name)
	if err != nil {
		return &LoadError{Kind: kind, Name: name, Err: err}
	}
	defer f.Close()
	if err := parse(f); err != nil {
		return &LoadError{Kind: kind, Name: name, Err: err}
	}
	return nil
}

//parseDescriptor reads the two whitespace separated tokens of a descriptor file
func parseDescriptor(r io.Reader) (string, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", errors.Wrap(err, "read descriptor")
	}
	fields := strings.Fields(string(data))
	if len(fields) != 2 {
		return "", "", errors.Errorf("descriptor needs exactly 2 names, has %d", len(fields))
	}
	return fields[0], fields[1], nil
}
