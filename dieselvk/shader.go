package dieselvk

import (
	"os"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

const spirvMagic = 0x07230203

//ShaderBackend is a vertex and fragment SPIR-V module pair
type ShaderBackend struct {
	device   vk.Device
	name     string
	vertex   string
	fragment string

	vertex_module   vk.ShaderModule
	fragment_module vk.ShaderModule
}

func (s *ShaderBackend) Name() string            { return s.name }
func (s *ShaderBackend) VertexProgram() string   { return s.vertex }
func (s *ShaderBackend) FragmentProgram() string { return s.fragment }

func newShaderBackend(device vk.Device, name, vertex, fragment string) (*ShaderBackend, error) {
	s := &ShaderBackend{device: device, name: name, vertex: vertex, fragment: fragment}
	var err error
	if s.vertex_module, err = LoadShaderModule(device, vertex); err != nil {
		return nil, errors.Wrapf(err, "shader %s vertex program", name)
	}
	if s.fragment_module, err = LoadShaderModule(device, fragment); err != nil {
		vk.DestroyShaderModule(device, s.vertex_module, nil)
		return nil, errors.Wrapf(err, "shader %s fragment program", name)
	}
	return s, nil
}

func (s *ShaderBackend) destroy() {
	if s.device == nil {
		return
	}
	vk.DestroyShaderModule(s.device, s.vertex_module, nil)
	vk.DestroyShaderModule(s.device, s.fragment_module, nil)
	s.device = nil
}

//checkSPIRV rejects data that cannot be a SPIR-V module
func checkSPIRV(data []byte) error {
	if len(data) < 20 || len(data)%4 != 0 {
		return errors.Errorf("spir-v: %d bytes is not a whole module", len(data))
	}
	if magic := sliceUint32(data[:4])[0]; magic != spirvMagic {
		return errors.Errorf("spir-v: bad magic %#08x", magic)
	}
	return nil
}

//LoadShaderModule reads a SPIR-V file and creates a shader module from it
func LoadShaderModule(device vk.Device, path string) (vk.ShaderModule, error) {
	var shaderModule vk.ShaderModule
	buffer, err := os.ReadFile(path)
	if err != nil {
		return shaderModule, errors.Wrap(err, "read shader")
	}
	if err := checkSPIRV(buffer); err != nil {
		return shaderModule, errors.Wrap(err, path)
	}

	//Vulkan expects to recieve type uint32 data
	module := vk.ShaderModuleCreateInfo{}
	module.SType = vk.StructureTypeShaderModuleCreateInfo
	module.CodeSize = uint(len(buffer))
	module.PCode = sliceUint32(buffer)

	res := vk.CreateShaderModule(device, &module, nil, &shaderModule)
	return shaderModule, NewError(res, "vkCreateShaderModule")
}
