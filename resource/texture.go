package resource

import (
	"image"
	"io"

	"github.com/andewx/dieselvk/gfx"
	"github.com/pkg/errors"
)

//Texture is a decoded RGBA image and the sampled GPU image built from it
type Texture struct {
	name    string
	format  string
	pixels  *image.RGBA
	backend gfx.TextureBackend
	factory gfx.TextureFactory
}

func (t *Texture) Name() string                { return t.name }
func (t *Texture) Format() string              { return t.format }
func (t *Texture) Pixels() *image.RGBA         { return t.pixels }
func (t *Texture) Backend() gfx.TextureBackend { return t.backend }

func (t *Texture) Size() (int, int) {
	s := t.pixels.Bounds().Size()
	return s.X, s.Y
}

func (t *Texture) destroy() {
	t.factory.DestroyTextureBackend(t.backend)
	t.backend = nil
}

//ObtainTexture shares the texture decoded from the image file name
func (m *Manager) ObtainTexture(name string) (*Handle[*Texture], error) {
	return m.textures.Obtain(name, m.loadTexture)
}

func (m *Manager) loadTexture(name string) (*Texture, error) {
	tex := &Texture{name: name, factory: m.api}
	err := m.read(KindTexture, name, func(r io.Reader) error {
		var err error
		tex.pixels, tex.format, err = DecodeImage(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	tex.backend, err = m.api.CreateTextureBackend(name, tex.pixels)
	if err != nil {
		return nil, errors.Wrapf(err, "create texture backend %s", name)
	}
	w, h := tex.Size()
	m.logs.Info.Printf("resource: texture %s loaded, %s %dx%d", name, tex.format, w, h)
	return tex, nil
}
