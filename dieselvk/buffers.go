package dieselvk

import (
	"unsafe"

	"github.com/andewx/dieselvk/gfx"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//CoreBuffer is a buffer and the memory bound to it
type CoreBuffer struct {
	device vk.Device
	buffer vk.Buffer
	memory vk.DeviceMemory
	size   vk.DeviceSize
}

//NewCoreBuffer creates a buffer of size bytes in memory with the given properties
func NewCoreBuffer(core *CoreDevice, size int, usage vk.BufferUsageFlagBits, props vk.MemoryPropertyFlagBits) (buf *CoreBuffer, err error) {
	defer checkErr(&err)
	if size <= 0 {
		return nil, errors.Errorf("vulkan: buffer size %d", size)
	}

	buf = &CoreBuffer{device: core.handle, size: vk.DeviceSize(size)}
	ret := vk.CreateBuffer(core.handle, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        buf.size,
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buf.buffer)
	orPanic(NewError(ret, "vkCreateBuffer"))

	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(core.handle, buf.buffer, &reqs)
	reqs.Deref()

	memType, err := core.FindMemoryType(reqs.MemoryTypeBits, props)
	if err != nil {
		vk.DestroyBuffer(core.handle, buf.buffer, nil)
		return nil, err
	}

	ret = vk.AllocateMemory(core.handle, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &buf.memory)
	if err := NewError(ret, "vkAllocateMemory"); err != nil {
		vk.DestroyBuffer(core.handle, buf.buffer, nil)
		return nil, err
	}
	ret = vk.BindBufferMemory(core.handle, buf.buffer, buf.memory, 0)
	if err := NewError(ret, "vkBindBufferMemory"); err != nil {
		buf.Destroy()
		return nil, err
	}
	return buf, nil
}

//Write copies data to the start of a host visible buffer
func (b *CoreBuffer) Write(data []byte) error {
	if vk.DeviceSize(len(data)) > b.size {
		return errors.Errorf("vulkan: write of %d bytes into a %d byte buffer", len(data), b.size)
	}
	var mapped unsafe.Pointer
	ret := vk.MapMemory(b.device, b.memory, 0, vk.DeviceSize(len(data)), 0, &mapped)
	if err := NewError(ret, "vkMapMemory"); err != nil {
		return err
	}
	vk.Memcopy(mapped, data)
	vk.UnmapMemory(b.device, b.memory)
	return nil
}

func (b *CoreBuffer) Destroy() {
	if b.device == nil {
		return
	}
	vk.DestroyBuffer(b.device, b.buffer, nil)
	vk.FreeMemory(b.device, b.memory, nil)
	b.device = nil
}

//UploadBuffer moves data into a device local buffer through a staging buffer
func UploadBuffer(core *CoreDevice, pool *CorePool, data []byte, usage vk.BufferUsageFlagBits) (*CoreBuffer, error) {
	staging, err := NewCoreBuffer(core, len(data), vk.BufferUsageTransferSrcBit,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		return nil, errors.Wrap(err, "staging buffer")
	}
	defer staging.Destroy()
	if err := staging.Write(data); err != nil {
		return nil, err
	}

	local, err := NewCoreBuffer(core, len(data), usage|vk.BufferUsageTransferDstBit, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		return nil, errors.Wrap(err, "device local buffer")
	}
	err = pool.Submit(func(cmd vk.CommandBuffer) {
		vk.CmdCopyBuffer(cmd, staging.buffer, local.buffer, 1, []vk.BufferCopy{{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      vk.DeviceSize(len(data)),
		}})
	})
	if err != nil {
		local.Destroy()
		return nil, errors.Wrap(err, "copy staging buffer")
	}
	return local, nil
}

//MeshBackend holds the vertex and index buffers of one mesh
type MeshBackend struct {
	name         string
	vertices     *CoreBuffer
	indices      *CoreBuffer
	vertex_count int
	index_count  int
}

func (m *MeshBackend) Name() string     { return m.name }
func (m *MeshBackend) VertexCount() int { return m.vertex_count }
func (m *MeshBackend) IndexCount() int  { return m.index_count }

func newMeshBackend(core *CoreDevice, pool *CorePool, name string, vertices []gfx.Vertex, indices []uint32) (*MeshBackend, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errors.Errorf("vulkan: mesh %s is empty", name)
	}
	vb, err := UploadBuffer(core, pool, gfx.VertexBytes(vertices), vk.BufferUsageVertexBufferBit)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %s vertex buffer", name)
	}
	ib, err := UploadBuffer(core, pool, gfx.IndexBytes(indices), vk.BufferUsageIndexBufferBit)
	if err != nil {
		vb.Destroy()
		return nil, errors.Wrapf(err, "mesh %s index buffer", name)
	}
	return &MeshBackend{
		name:         name,
		vertices:     vb,
		indices:      ib,
		vertex_count: len(vertices),
		index_count:  len(indices),
	}, nil
}

//draw binds the mesh buffers and issues one indexed draw
func (m *MeshBackend) draw(cmd vk.CommandBuffer) {
	vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{m.vertices.buffer}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cmd, m.indices.buffer, 0, vk.IndexTypeUint32)
	vk.CmdDrawIndexed(cmd, uint32(m.index_count), 1, 0, 0, 0)
}

func (m *MeshBackend) destroy() {
	m.vertices.Destroy()
	m.indices.Destroy()
}
