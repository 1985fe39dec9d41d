package resource

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/andewx/dieselvk/config"
	"github.com/andewx/dieselvk/gfx"
	"github.com/pkg/errors"
)

const quadOBJ = `# unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3
f 1/1 3/3 4/4
`

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testAssets(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"quad.obj":       {Data: []byte(quadOBJ)},
		"broken.obj":     {Data: []byte("v 0 0 0\nf 1 2 3\n")},
		"checker.png":    {Data: pngBytes(t, 4, 2)},
		"garbage.png":    {Data: []byte("not an image")},
		"quad.model":     {Data: []byte("quad.obj checker.png")},
		"missing.model":  {Data: []byte("quad.obj nowhere.png")},
		"short.model":    {Data: []byte("quad.obj")},
		"default.shader": {Data: []byte("vert.spv\n  frag.spv\n")},
	}
}

func newTestManager(t *testing.T) (*Manager, *gfx.Null) {
	t.Helper()
	api := gfx.NewNull(config.Default(), nil)
	if err := api.Initialize(64, 64); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(api.Destroy)
	return NewManager(api, WithFS(testAssets(t))), api
}

func TestObtainSharesInstance(t *testing.T) {
	m, api := newTestManager(t)

	first, err := m.ObtainMesh("quad.obj")
	if err != nil {
		t.Fatalf("ObtainMesh: %v", err)
	}
	second, err := m.ObtainMesh("quad.obj")
	if err != nil {
		t.Fatalf("ObtainMesh: %v", err)
	}
	if first.Get() != second.Get() {
		t.Errorf("two live obtains returned different meshes")
	}
	if refs := m.Meshes().Refs("quad.obj"); refs != 2 {
		t.Errorf("Refs = %d, expected 2", refs)
	}
	if api.LiveBackends() != 1 {
		t.Errorf("LiveBackends = %d, expected one shared backend", api.LiveBackends())
	}

	first.Release()
	if !m.Meshes().Contains("quad.obj") {
		t.Errorf("mesh unregistered while a handle is still live")
	}
	second.Release()
	if m.Meshes().Contains("quad.obj") {
		t.Errorf("mesh still registered after the last release")
	}
	if api.LiveBackends() != 0 {
		t.Errorf("backend survived the last release")
	}
}

func TestObtainAfterReleaseReloads(t *testing.T) {
	m, _ := newTestManager(t)

	h, err := m.ObtainTexture("checker.png")
	if err != nil {
		t.Fatalf("ObtainTexture: %v", err)
	}
	old := h.Get()
	h.Release()

	h, err = m.ObtainTexture("checker.png")
	if err != nil {
		t.Fatalf("ObtainTexture: %v", err)
	}
	defer h.Release()
	if h.Get() == old {
		t.Errorf("obtain after the last release reused the destroyed texture")
	}
	if old.Backend() != nil {
		t.Errorf("destroyed texture kept its backend")
	}
}

func TestObtainMissingFile(t *testing.T) {
	m, api := newTestManager(t)

	h, err := m.ObtainMesh("nowhere.obj")
	if h != nil {
		t.Errorf("expected no handle for a missing file")
	}
	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("error %v is not a LoadError", err)
	}
	if lerr.Name != "nowhere.obj" || lerr.Kind != KindMesh {
		t.Errorf("LoadError names %s %s, expected mesh nowhere.obj", lerr.Kind, lerr.Name)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v should wrap fs.ErrNotExist", err)
	}
	if m.Live() != 0 || api.LiveBackends() != 0 {
		t.Errorf("failed load left %d resources and %d backends", m.Live(), api.LiveBackends())
	}
}

func TestObtainMalformed(t *testing.T) {
	m, _ := newTestManager(t)
	tests := []struct {
		name   string
		obtain func(string) error
	}{
		{"broken.obj", func(n string) error { _, err := m.ObtainMesh(n); return err }},
		{"garbage.png", func(n string) error { _, err := m.ObtainTexture(n); return err }},
		{"short.model", func(n string) error { _, err := m.ObtainModel(n); return err }},
	}
	for _, tt := range tests {
		err := tt.obtain(tt.name)
		var lerr *LoadError
		if !errors.As(err, &lerr) || lerr.Name != tt.name {
			t.Errorf("%s: error %v, expected a LoadError naming the file", tt.name, err)
		}
	}
	if m.Live() != 0 {
		t.Errorf("malformed sources registered %v", m.Leaks())
	}
}

func TestModelHoldsParts(t *testing.T) {
	m, api := newTestManager(t)

	model, err := m.ObtainModel("quad.model")
	if err != nil {
		t.Fatalf("ObtainModel: %v", err)
	}
	if model.Get().Mesh().Name() != "quad.obj" || model.Get().Texture().Name() != "checker.png" {
		t.Errorf("model parts %s + %s", model.Get().Mesh().Name(), model.Get().Texture().Name())
	}
	if w, h := model.Get().Texture().Size(); w != 4 || h != 2 {
		t.Errorf("texture size %dx%d, expected 4x2", w, h)
	}
	if api.LiveBackends() != 2 {
		t.Errorf("LiveBackends = %d, expected mesh and texture", api.LiveBackends())
	}

	model.Release()
	if m.Live() != 0 || api.LiveBackends() != 0 {
		t.Errorf("model release left %v", m.Leaks())
	}
}

func TestModelMissingTextureReleasesMesh(t *testing.T) {
	m, api := newTestManager(t)
	if _, err := m.ObtainModel("missing.model"); err == nil {
		t.Fatalf("expected an error for a model with a missing texture")
	}
	if m.Live() != 0 || api.LiveBackends() != 0 {
		t.Errorf("partial model load left %v", m.Leaks())
	}
}

func TestShaderDescriptor(t *testing.T) {
	m, _ := newTestManager(t)
	h, err := m.ObtainShader("default.shader")
	if err != nil {
		t.Fatalf("ObtainShader: %v", err)
	}
	defer h.Release()
	s := h.Get()
	if s.VertexProgram() != "vert.spv" || s.FragmentProgram() != "frag.spv" {
		t.Errorf("programs %q %q", s.VertexProgram(), s.FragmentProgram())
	}
	if s.Backend().VertexProgram() != "vert.spv" {
		t.Errorf("backend was not built from the descriptor")
	}
}

func TestHandleMisuse(t *testing.T) {
	m, _ := newTestManager(t)
	h, err := m.ObtainMesh("quad.obj")
	if err != nil {
		t.Fatalf("ObtainMesh: %v", err)
	}
	clone := h.Clone()
	h.Release()
	if !h.Released() || clone.Released() {
		t.Errorf("Released() reports the wrong handle")
	}

	for name, fn := range map[string]func(){
		"release twice":     h.Release,
		"get after release": func() { h.Get() },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected a panic", name)
				}
			}()
			fn()
		}()
	}
	clone.Release()
}

func TestRegistryRegisterTwicePanics(t *testing.T) {
	r := NewRegistry[*Shader](KindShader)
	r.Register(&Shader{name: "a"})
	defer func() {
		if recover() == nil {
			t.Errorf("registering a live name twice should panic")
		}
	}()
	r.Register(&Shader{name: "a"})
}

func TestRegistryUnregisterMissingPanics(t *testing.T) {
	r := NewRegistry[*Shader](KindShader)
	defer func() {
		if recover() == nil {
			t.Errorf("releasing an unregistered name should panic")
		}
	}()
	r.unregister("ghost")
}
