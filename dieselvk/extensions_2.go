package dieselvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//BaseExtensions matches required and wanted names against the names a
//driver reports. The same type serves instance extensions, device
//extensions and layers.
type BaseExtensions struct {
	kind     string
	wanted   []string
	required []string
	actual   []string
}

func NewBaseExtensions(kind string, actual []string, wanted []string, required []string) *BaseExtensions {
	var base BaseExtensions
	base.kind = kind
	base.actual = actual
	base.wanted = wanted
	base.required = required
	return &base
}

func NewBaseInstanceExtensions(wanted []string, required []string) (*BaseExtensions, error) {
	actual, err := InstanceExtensions()
	if err != nil {
		return nil, err
	}
	return NewBaseExtensions("instance extension", actual, wanted, required), nil
}

func NewBaseDeviceExtensions(gpu vk.PhysicalDevice, wanted []string, required []string) (*BaseExtensions, error) {
	actual, err := DeviceExtensions(gpu)
	if err != nil {
		return nil, err
	}
	return NewBaseExtensions("device extension", actual, wanted, required), nil
}

func NewBaseLayerExtensions(wanted []string, required []string) (*BaseExtensions, error) {
	actual, err := ValidationLayers()
	if err != nil {
		return nil, err
	}
	return NewBaseExtensions("layer", actual, wanted, required), nil
}

func (e *BaseExtensions) HasRequired() (bool, []string) {
	_, missing := checkExisting(e.actual, e.required)
	return len(missing) == 0, missing
}

func (e *BaseExtensions) HasWanted() (bool, []string) {
	_, missing := checkExisting(e.actual, e.wanted)
	return len(missing) == 0, missing
}

//GetExtensions lists every required name followed by the wanted names the
//driver has, terminated for the C side and without duplicates
func (e *BaseExtensions) GetExtensions() []string {
	implement := []string{}
	seen := map[string]bool{}

	for _, req := range e.required {
		if !seen[trimString(req)] {
			seen[trimString(req)] = true
			implement = append(implement, safeString(req))
		}
	}

	available, _ := checkExisting(e.actual, e.wanted)
	for _, want := range available {
		if !seen[trimString(want)] {
			seen[trimString(want)] = true
			implement = append(implement, safeString(want))
		}
	}
	return implement
}

//Require fails with the first missing required name
func (e *BaseExtensions) Require() error {
	if ok, missing := e.HasRequired(); !ok {
		return errors.Errorf("vulkan: required %s %s is not available", e.kind, missing[0])
	}
	return nil
}

var _ Extensions = (*BaseExtensions)(nil)
