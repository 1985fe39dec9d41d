package dieselvk

import (
	vk "github.com/vulkan-go/vulkan"
)

//Descriptor bindings shared with the shader programs
const (
	uniformBinding = 0
	samplerBinding = 1
)

//CoreDescriptors is the set layout, pool and single set the frame binds
type CoreDescriptors struct {
	device vk.Device
	layout vk.DescriptorSetLayout
	pool   vk.DescriptorPool
	set    vk.DescriptorSet
}

func descriptorBindings() []vk.DescriptorSetLayoutBinding {
	return []vk.DescriptorSetLayoutBinding{{
		Binding:         uniformBinding,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
	}, {
		Binding:         samplerBinding,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
	}}
}

//NewDescriptorLayout creates the uniform buffer and sampler layout
func NewDescriptorLayout(device vk.Device) (*CoreDescriptors, error) {
	core := &CoreDescriptors{device: device}
	bindings := descriptorBindings()
	ret := vk.CreateDescriptorSetLayout(device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}, nil, &core.layout)
	if err := NewError(ret, "vkCreateDescriptorSetLayout"); err != nil {
		return nil, err
	}
	return core, nil
}

//Allocate creates the pool and the one set drawn with
func (core *CoreDescriptors) Allocate() error {
	sizes := []vk.DescriptorPoolSize{{
		Type:            vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
	}, {
		Type:            vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 1,
	}}
	ret := vk.CreateDescriptorPool(core.device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       1,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &core.pool)
	if err := NewError(ret, "vkCreateDescriptorPool"); err != nil {
		return err
	}

	ret = vk.AllocateDescriptorSets(core.device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     core.pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{core.layout},
	}, &core.set)
	return NewError(ret, "vkAllocateDescriptorSets")
}

//Update points the set at the uniform buffer and, when there is one, the texture
func (core *CoreDescriptors) Update(uniforms *CoreBuffer, texture *TextureBackend) {
	writes := []vk.WriteDescriptorSet{{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          core.set,
		DstBinding:      uniformBinding,
		DstArrayElement: 0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		PBufferInfo: []vk.DescriptorBufferInfo{{
			Buffer: uniforms.buffer,
			Offset: 0,
			Range:  uniforms.size,
		}},
	}}
	if texture != nil {
		writes = append(writes, vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          core.set,
			DstBinding:      samplerBinding,
			DstArrayElement: 0,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			PImageInfo: []vk.DescriptorImageInfo{{
				Sampler:     texture.sampler,
				ImageView:   texture.image.view,
				ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
			}},
		})
	}
	vk.UpdateDescriptorSets(core.device, uint32(len(writes)), writes, 0, nil)
}

func (core *CoreDescriptors) Destroy() {
	if core.pool != vk.DescriptorPool(vk.NullHandle) {
		vk.DestroyDescriptorPool(core.device, core.pool, nil)
		core.pool = vk.DescriptorPool(vk.NullHandle)
	}
	if core.layout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(core.device, core.layout, nil)
		core.layout = vk.NullDescriptorSetLayout
	}
}
