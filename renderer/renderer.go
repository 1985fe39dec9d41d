//Package renderer keeps the ordered list of things to draw and hands it to
//the graphics API once per frame.
package renderer

import (
	"fmt"

	"github.com/andewx/dieselvk/gfx"
	"github.com/andewx/dieselvk/resource"
)

//Renderable draws one model. It owns the model handle it was built with.
type Renderable struct {
	model *resource.Handle[*resource.Model]
}

func NewRenderable(model *resource.Handle[*resource.Model]) *Renderable {
	return &Renderable{model: model}
}

func (r *Renderable) Model() *resource.Model {
	return r.model.Get()
}

func (r *Renderable) Mesh() gfx.MeshBackend {
	return r.model.Get().Mesh().Backend()
}

func (r *Renderable) Texture() gfx.TextureBackend {
	return r.model.Get().Texture().Backend()
}

func (r *Renderable) String() string {
	return "renderable(" + r.model.Name() + ")"
}

//Release drops the model reference
func (r *Renderable) Release() {
	r.model.Release()
}

//Renderer draws its renderables in insertion order
type Renderer struct {
	api         gfx.API
	renderables []*Renderable
	frames      uint64
}

func New(api gfx.API) *Renderer {
	return &Renderer{api: api}
}

//Add appends r to the draw list, adding the same renderable twice panics
func (rd *Renderer) Add(r *Renderable) {
	if rd.index(r) >= 0 {
		panic(fmt.Sprintf("renderer: %v already added", r))
	}
	rd.renderables = append(rd.renderables, r)
}

//Remove drops r from the draw list, removing an unknown renderable panics
func (rd *Renderer) Remove(r *Renderable) {
	i := rd.index(r)
	if i < 0 {
		panic(fmt.Sprintf("renderer: %v was never added", r))
	}
	rd.renderables = append(rd.renderables[:i], rd.renderables[i+1:]...)
}

func (rd *Renderer) index(r *Renderable) int {
	for i, it := range rd.renderables {
		if it == r {
			return i
		}
	}
	return -1
}

func (rd *Renderer) Len() int {
	return len(rd.renderables)
}

func (rd *Renderer) Renderables() []*Renderable {
	out := make([]*Renderable, len(rd.renderables))
	copy(out, rd.renderables)
	return out
}

//Frames counts successful Render calls
func (rd *Renderer) Frames() uint64 {
	return rd.frames
}

//Render draws one frame of every renderable
func (rd *Renderer) Render() error {
	drawables := make([]gfx.Drawable, len(rd.renderables))
	for i, r := range rd.renderables {
		drawables[i] = r
	}
	if err := rd.api.Render(drawables); err != nil {
		return err
	}
	rd.frames++
	return nil
}

//Destroy removes and releases every renderable, last added first
func (rd *Renderer) Destroy() {
	for i := len(rd.renderables) - 1; i >= 0; i-- {
		rd.renderables[i].Release()
	}
	rd.renderables = nil
}
