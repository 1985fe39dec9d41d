package resource

import "io"

//Model pairs one mesh with one texture. It has no backend of its own, it
//holds a reference to each part for as long as it lives.
type Model struct {
	name    string
	mesh    *Handle[*Mesh]
	texture *Handle[*Texture]
}

func (m *Model) Name() string      { return m.name }
func (m *Model) Mesh() *Mesh       { return m.mesh.Get() }
func (m *Model) Texture() *Texture { return m.texture.Get() }

func (m *Model) destroy() {
	m.mesh.Release()
	m.texture.Release()
}

//ObtainModel shares the model described by the descriptor file name, its
//descriptor holds the mesh name then the texture name.
func (m *Manager) ObtainModel(name string) (*Handle[*Model], error) {
	return m.models.Obtain(name, m.loadModel)
}

func (m *Manager) loadModel(name string) (*Model, error) {
	var meshName, textureName string
	err := m.read(KindModel, name, func(r io.Reader) error {
		var err error
		meshName, textureName, err = parseDescriptor(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	mesh, err := m.ObtainMesh(meshName)
	if err != nil {
		return nil, err
	}
	texture, err := m.ObtainTexture(textureName)
	if err != nil {
		mesh.Release()
		return nil, err
	}
	m.logs.Info.Printf("resource: model %s loaded, %s + %s", name, meshName, textureName)
	return &Model{name: name, mesh: mesh, texture: texture}, nil
}
