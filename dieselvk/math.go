package dieselvk

import (
	"time"
	"unsafe"

	lin "github.com/xlab/linmath"
)

//Spin rate of the model about Z, degrees per second
const spinDegreesPerSecond = -45.0

//uniformBlock matches the uniform buffer at binding 0 of the vertex program
type uniformBlock struct {
	Model lin.Mat4x4
	View  lin.Mat4x4
	Proj  lin.Mat4x4
}

const uniformBlockSize = int(unsafe.Sizeof(uniformBlock{}))

func (u *uniformBlock) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), uniformBlockSize)
}

//computeUniforms spins the model about Z and looks at it from (2,2,2).
//linmath builds GL style projections, Y is flipped for Vulkan clip space.
func computeUniforms(elapsed time.Duration, width, height uint32) uniformBlock {
	var u uniformBlock
	var identity lin.Mat4x4
	identity.Identity()

	angle := float32(elapsed.Seconds()) * lin.DegreesToRadians(spinDegreesPerSecond)
	u.Model.Rotate(&identity, 0.0, 0.0, 1.0, angle)
	u.View.LookAt(&lin.Vec3{2, 2, 2}, &lin.Vec3{0, 0, 0}, &lin.Vec3{0, 0, 1})

	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	u.Proj.Perspective(lin.DegreesToRadians(45), aspect, 0.1, 10.0)
	u.Proj[1][1] *= -1
	return u
}
