package resource

import (
	"strings"
	"testing"

	"github.com/andewx/dieselvk/gfx"
	"github.com/udhos/gwob"
)

func TestParseOBJQuad(t *testing.T) {
	vertices, indices, err := ParseOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(vertices) != 4 {
		t.Errorf("%d vertices, expected 4", len(vertices))
	}
	expected := []uint32{0, 1, 2, 0, 2, 3}
	if len(indices) != len(expected) {
		t.Fatalf("indices %v, expected %v", indices, expected)
	}
	for i := range expected {
		if indices[i] != expected[i] {
			t.Errorf("indices %v, expected %v", indices, expected)
			break
		}
	}
	for i, v := range vertices {
		if v.Color != gfx.White {
			t.Errorf("vertex %d color %v, expected white", i, v.Color)
		}
	}
	//vt 0 0 is flipped to the top-left origin
	if vertices[0].UV != [2]float32{0, 1} {
		t.Errorf("vertex 0 uv %v, expected [0 1]", vertices[0].UV)
	}
	if vertices[2].UV != [2]float32{1, 0} {
		t.Errorf("vertex 2 uv %v, expected [1 0]", vertices[2].UV)
	}
}

//objCoords builds decoder output with (x, y, z, u, v) strides
func objCoords(indices []int, coords ...float32) *gwob.Obj {
	return &gwob.Obj{
		Indices:              indices,
		Coord:                coords,
		TextCoordFound:       true,
		StrideSize:           5 * 4,
		StrideOffsetPosition: 0,
		StrideOffsetTexture:  3 * 4,
	}
}

func TestMeshFromOBJDedup(t *testing.T) {
	//decoder vertices 0 and 3 only differ in slot, 1 and 2 share a position
	o := objCoords([]int{0, 1, 2, 3, 1, 2},
		0, 0, 0, 0.5, 0.25,
		1, 0, 0, 0, 0,
		1, 0, 0, 1, 0,
		0, 0, 0, 0.5, 0.25,
	)
	vertices, indices, err := meshFromOBJ(o)
	if err != nil {
		t.Fatalf("meshFromOBJ: %v", err)
	}
	if len(vertices) != 3 {
		t.Errorf("%d vertices, expected 3", len(vertices))
	}
	expected := []uint32{0, 1, 2, 0, 1, 2}
	for i := range expected {
		if indices[i] != expected[i] {
			t.Errorf("indices %v, expected %v", indices, expected)
			break
		}
	}
	if vertices[0].UV != [2]float32{0.5, 0.75} {
		t.Errorf("vertex 0 uv %v, expected [0.5 0.75]", vertices[0].UV)
	}
	if vertices[1].Position != [3]float32{1, 0, 0} {
		t.Errorf("vertex 1 position %v", vertices[1].Position)
	}
}

func TestMeshFromOBJWithoutTexture(t *testing.T) {
	o := &gwob.Obj{
		Indices:    []int{0, 1, 2},
		Coord:      []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		StrideSize: 3 * 4,
	}
	vertices, _, err := meshFromOBJ(o)
	if err != nil {
		t.Fatalf("meshFromOBJ: %v", err)
	}
	for i, v := range vertices {
		if v.UV != [2]float32{} || v.Color != gfx.White {
			t.Errorf("vertex %d uv %v color %v", i, v.UV, v.Color)
		}
	}
}

func TestMeshFromOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		obj  *gwob.Obj
	}{
		{"no faces", objCoords(nil)},
		{"index out of range", objCoords([]int{0, 1, 2}, 0, 0, 0, 0, 0)},
		{"negative index", objCoords([]int{-1, 0, 0}, 0, 0, 0, 0, 0)},
		{"not triangles", objCoords([]int{0, 0}, 0, 0, 0, 0, 0)},
		{"no stride", &gwob.Obj{Indices: []int{0, 0, 0}, Coord: []float32{0, 0, 0}}},
	}
	for _, tt := range tests {
		if _, _, err := meshFromOBJ(tt.obj); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestParseOBJNoFaces(t *testing.T) {
	for _, src := range []string{"", "v 0 0 0\n"} {
		if _, _, err := ParseOBJ(strings.NewReader(src)); err == nil {
			t.Errorf("%q: expected an error", src)
		}
	}
}
