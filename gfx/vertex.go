package gfx

import "unsafe"

//Vertex layout shared by every mesh: position, color and texture coordinates
type Vertex struct {
	Position [3]float32
	Color    [3]float32
	UV       [2]float32
}

//Attribute locations and byte offsets of Vertex as seen by the vertex program
const (
	VertexSize     = uint32(unsafe.Sizeof(Vertex{}))
	PositionOffset = uint32(unsafe.Offsetof(Vertex{}.Position))
	ColorOffset    = uint32(unsafe.Offsetof(Vertex{}.Color))
	UVOffset       = uint32(unsafe.Offsetof(Vertex{}.UV))

	PositionLocation = 0
	ColorLocation    = 1
	UVLocation       = 2
)

//White is the color every loaded vertex carries
var White = [3]float32{1, 1, 1}

//VertexBytes views vertices as raw bytes for upload
func VertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*int(VertexSize))
}

//IndexBytes views indices as raw bytes for upload
func IndexBytes(indices []uint32) []byte {
	if len(indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*4)
}
