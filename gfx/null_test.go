package gfx

import (
	"image"
	"testing"
)

type drawable struct {
	mesh    MeshBackend
	texture TextureBackend
}

func (d drawable) Mesh() MeshBackend       { return d.mesh }
func (d drawable) Texture() TextureBackend { return d.texture }

func TestNullRendersFrames(t *testing.T) {
	n := NewNull(nullOptions(), nil)
	if err := n.Initialize(640, 480); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer n.Destroy()

	mesh, err := n.CreateMeshBackend("cube.obj", make([]Vertex, 8), make([]uint32, 36))
	if err != nil {
		t.Fatalf("CreateMeshBackend: %v", err)
	}
	tex, err := n.CreateTextureBackend("uv.png", image.NewRGBA(image.Rect(0, 0, 4, 2)))
	if err != nil {
		t.Fatalf("CreateTextureBackend: %v", err)
	}
	if w, h := tex.Size(); w != 4 || h != 2 {
		t.Errorf("texture size %dx%d, expected 4x2", w, h)
	}
	if mesh.VertexCount() != 8 || mesh.IndexCount() != 36 {
		t.Errorf("mesh counts %d/%d, expected 8/36", mesh.VertexCount(), mesh.IndexCount())
	}

	const frames = 5
	list := []Drawable{drawable{mesh, tex}}
	for i := 0; i < frames; i++ {
		if err := n.Render(list); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if n.Frames() != frames {
		t.Errorf("Frames() = %d, expected %d", n.Frames(), frames)
	}
	if n.Drawn() != frames {
		t.Errorf("Drawn() = %d, expected %d", n.Drawn(), frames)
	}

	n.DestroyMeshBackend(mesh)
	n.DestroyTextureBackend(tex)
	if n.LiveBackends() != 0 {
		t.Errorf("LiveBackends() = %d after destroying everything", n.LiveBackends())
	}
}

func TestNullDestroyUnknownBackendPanics(t *testing.T) {
	n := NewNull(nullOptions(), nil)
	n.Initialize(10, 10)
	defer n.Destroy()

	shader, _ := n.CreateShaderBackend("s", "v.spv", "f.spv")
	n.DestroyShaderBackend(shader)
	defer func() {
		if recover() == nil {
			t.Errorf("destroying a shader backend twice should panic")
		}
	}()
	n.DestroyShaderBackend(shader)
}

func TestNullUseBeforeInitializePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Render before Initialize should panic")
		}
	}()
	NewNull(nullOptions(), nil).Render(nil)
}

func TestNullInvalidSize(t *testing.T) {
	n := NewNull(nullOptions(), nil)
	if err := n.Initialize(0, 480); err == nil {
		t.Errorf("Initialize(0, 480) should fail")
	}
}

func TestNullDestroyReleasesLeaks(t *testing.T) {
	n := NewNull(nullOptions(), nil)
	n.Initialize(10, 10)
	n.CreateMeshBackend("leak.obj", nil, nil)
	n.Destroy()
	if n.LiveBackends() != 0 {
		t.Errorf("Destroy left %d backends alive", n.LiveBackends())
	}
}

func TestHeadlessWindowBudget(t *testing.T) {
	opts := nullOptions()
	opts.Frames = 3
	n := NewNull(opts, nil)
	n.Initialize(10, 10)
	defer n.Destroy()

	w := n.Window()
	frames := 0
	for !w.ShouldClose() {
		w.ProcessMessages()
		n.Render(nil)
		frames++
		if frames > 10 {
			t.Fatalf("window never asked to close")
		}
	}
	if frames != 3 {
		t.Errorf("ran %d frames, expected 3", frames)
	}
}

func TestHeadlessWindowIgnoresZeroArea(t *testing.T) {
	w := newHeadlessWindow(800, 600, 0)
	calls := 0
	w.SetResizeCallback(func(int, int) { calls++ })

	w.Resize(0, 300)
	w.Resize(400, 0)
	if calls != 0 {
		t.Errorf("zero area resize reached the callback")
	}
	w.Resize(400, 300)
	if calls != 1 {
		t.Errorf("resize callback ran %d times, expected 1", calls)
	}
	if width, height := w.Size(); width != 400 || height != 300 {
		t.Errorf("size %dx%d, expected 400x300", width, height)
	}
}
