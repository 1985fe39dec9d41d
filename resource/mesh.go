package resource

import (
	"io"

	"github.com/andewx/dieselvk/gfx"
	"github.com/pkg/errors"
)

//Mesh is OBJ geometry and the vertex/index buffers built from it
type Mesh struct {
	name     string
	vertices []gfx.Vertex
	indices  []uint32
	backend  gfx.MeshBackend
	factory  gfx.MeshFactory
}

func (m *Mesh) Name() string             { return m.name }
func (m *Mesh) Vertices() []gfx.Vertex   { return m.vertices }
func (m *Mesh) Indices() []uint32        { return m.indices }
func (m *Mesh) Backend() gfx.MeshBackend { return m.backend }

func (m *Mesh) destroy() {
	m.factory.DestroyMeshBackend(m.backend)
	m.backend = nil
}

//ObtainMesh shares the mesh loaded from the OBJ file name
func (m *Manager) ObtainMesh(name string) (*Handle[*Mesh], error) {
	return m.meshes.Obtain(name, m.loadMesh)
}

func (m *Manager) loadMesh(name string) (*Mesh, error) {
	mesh := &Mesh{name: name, factory: m.api}
	err := m.read(KindMesh, name, func(r io.Reader) error {
		var err error
		mesh.vertices, mesh.indices, err = ParseOBJ(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	mesh.backend, err = m.api.CreateMeshBackend(name, mesh.vertices, mesh.indices)
	if err != nil {
		return nil, errors.Wrapf(err, "create mesh backend %s", name)
	}
	m.logs.Info.Printf("resource: mesh %s loaded, %d vertices %d indices", name, len(mesh.vertices), len(mesh.indices))
	return mesh, nil
}
