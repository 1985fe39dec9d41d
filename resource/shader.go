package resource

import (
	"io"

	"github.com/andewx/dieselvk/gfx"
	"github.com/pkg/errors"
)

//Shader names a vertex and a fragment program and owns the backend built
//from them. Its descriptor file holds the two program names in that order.
type Shader struct {
	name     string
	vertex   string
	fragment string
	backend  gfx.ShaderBackend
	factory  gfx.ShaderFactory
}

func (s *Shader) Name() string               { return s.name }
func (s *Shader) VertexProgram() string      { return s.vertex }
func (s *Shader) FragmentProgram() string    { return s.fragment }
func (s *Shader) Backend() gfx.ShaderBackend { return s.backend }

func (s *Shader) destroy() {
	s.factory.DestroyShaderBackend(s.backend)
	s.backend = nil
}

//ObtainShader shares the shader described by the descriptor file name
func (m *Manager) ObtainShader(name string) (*Handle[*Shader], error) {
	return m.shaders.Obtain(name, m.loadShader)
}

func (m *Manager) loadShader(name string) (*Shader, error) {
	s := &Shader{name: name, factory: m.api}
	err := m.read(KindShader, name, func(r io.Reader) error {
		var err error
		s.vertex, s.fragment, err = parseDescriptor(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.backend, err = m.api.CreateShaderBackend(name, s.vertex, s.fragment)
	if err != nil {
		return nil, errors.Wrapf(err, "create shader backend %s", name)
	}
	m.logs.Info.Printf("resource: shader %s loaded, %s + %s", name, s.vertex, s.fragment)
	return s, nil
}
