//Package gfx is the graphics API abstraction. Exactly one API implementation
//is active at a time, it builds the GPU side (backend) of every resource and
//draws one frame per Render call.
package gfx

import "image"

//MeshBackend is the GPU resident vertex and index data of one mesh
type MeshBackend interface {
	Name() string
	VertexCount() int
	IndexCount() int
}

//TextureBackend is the GPU resident image of one texture
type TextureBackend interface {
	Name() string
	Size() (int, int)
}

//ShaderBackend is the GPU side of one vertex/fragment program pair
type ShaderBackend interface {
	Name() string
	VertexProgram() string
	FragmentProgram() string
}

type MeshFactory interface {
	CreateMeshBackend(name string, vertices []Vertex, indices []uint32) (MeshBackend, error)
	DestroyMeshBackend(MeshBackend)
}

type TextureFactory interface {
	CreateTextureBackend(name string, pixels *image.RGBA) (TextureBackend, error)
	DestroyTextureBackend(TextureBackend)
}

type ShaderFactory interface {
	CreateShaderBackend(name string, vertexProgram string, fragmentProgram string) (ShaderBackend, error)
	DestroyShaderBackend(ShaderBackend)
}

//Drawable is anything the renderer hands to the API for a frame
type Drawable interface {
	Mesh() MeshBackend
	Texture() TextureBackend
}

//Window is the platform window owned by an API
type Window interface {
	ShouldClose() bool
	ProcessMessages()
	Close()
	Size() (int, int)
	UpdateDimensions()
	SetResizeCallback(func(width, height int))
}

//API is implemented once per graphics backend. Initialize must be called
//before any other method. Factory and destroy calls may happen any number of
//times during the API lifetime but never concurrently or from inside Render.
type API interface {
	Initialize(width, height int) error
	Render(drawables []Drawable) error
	Destroy()
	Window() Window

	MeshFactory
	TextureFactory
	ShaderFactory
}
