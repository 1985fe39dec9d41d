package resource

import (
	"io"

	"github.com/andewx/dieselvk/gfx"
	"github.com/pkg/errors"
	"github.com/udhos/gwob"
)

var objOptions = &gwob.ObjParserOptions{IgnoreNormals: true}

//ParseOBJ decodes Wavefront OBJ geometry into an indexed triangle list.
//Normals, groups and materials are dropped.
func ParseOBJ(r io.Reader) ([]gfx.Vertex, []uint32, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read obj")
	}
	o, err := gwob.NewObjFromBuf("mesh", buf, objOptions)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decode obj")
	}
	return meshFromOBJ(o)
}

type objKey struct {
	position [3]float32
	uv       [2]float32
}

//meshFromOBJ turns decoded stride data into engine vertices. Every vertex
//is white, V is flipped to the top-left texture origin and corners sharing
//a position and texture coordinate become one vertex.
func meshFromOBJ(o *gwob.Obj) ([]gfx.Vertex, []uint32, error) {
	if len(o.Indices) == 0 {
		return nil, nil, errors.New("obj has no faces")
	}
	if o.StrideSize <= 0 || o.StrideSize%4 != 0 {
		return nil, nil, errors.Errorf("obj stride of %d bytes", o.StrideSize)
	}
	stride := o.StrideSize / 4
	position := o.StrideOffsetPosition / 4
	texture := o.StrideOffsetTexture / 4

	var (
		vertices []gfx.Vertex
		indices  = make([]uint32, 0, len(o.Indices))
		seen     = make(map[objKey]uint32)
	)
	for _, i := range o.Indices {
		base := i * stride
		if i < 0 || base+stride > len(o.Coord) {
			return nil, nil, errors.Errorf("obj index %d out of range, %d vertices", i, len(o.Coord)/stride)
		}
		c := o.Coord[base : base+stride]
		var key objKey
		copy(key.position[:], c[position:position+3])
		if o.TextCoordFound {
			key.uv = [2]float32{c[texture], 1 - c[texture+1]}
		}

		idx, ok := seen[key]
		if !ok {
			idx = uint32(len(vertices))
			vertices = append(vertices, gfx.Vertex{Position: key.position, Color: gfx.White, UV: key.uv})
			seen[key] = idx
		}
		indices = append(indices, idx)
	}
	if len(indices)%3 != 0 {
		return nil, nil, errors.Errorf("obj has %d indices, not a triangle list", len(indices))
	}
	return vertices, indices, nil
}
