package dieselvk

import (
	"reflect"
	"strings"
	"testing"
)

func TestSafeString(t *testing.T) {
	if got := safeString("main"); got != "main\x00" {
		t.Errorf("got %q", got)
	}
	if got := safeString("main\x00"); got != "main\x00" {
		t.Errorf("terminated twice: %q", got)
	}
	if got := trimString("VK_KHR_surface\x00"); got != "VK_KHR_surface" {
		t.Errorf("got %q", got)
	}
}

func TestSliceUint32(t *testing.T) {
	got := sliceUint32([]byte{0x03, 0x02, 0x23, 0x07, 0x01, 0x00, 0x00, 0x00, 0xff})
	want := []uint32{spirvMagic, 1, 0xff}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#x, want %#x", got, want)
	}
}

func TestCheckExisting(t *testing.T) {
	actual := []string{"VK_KHR_surface", "VK_KHR_xcb_surface", "VK_EXT_debug_report"}
	existing, missing := checkExisting(actual, []string{"VK_KHR_surface\x00", "VK_KHR_wayland_surface"})
	if !reflect.DeepEqual(existing, []string{"VK_KHR_surface\x00"}) {
		t.Errorf("existing = %q", existing)
	}
	if !reflect.DeepEqual(missing, []string{"VK_KHR_wayland_surface"}) {
		t.Errorf("missing = %q", missing)
	}
}

func TestBaseExtensions(t *testing.T) {
	actual := []string{"VK_KHR_surface", "VK_KHR_xcb_surface", debugReportExtension}
	exts := NewBaseExtensions("instance extension", actual,
		[]string{debugReportExtension, "VK_KHR_surface", "VK_EXT_missing"},
		[]string{"VK_KHR_surface", "VK_KHR_xcb_surface"})

	if ok, missing := exts.HasRequired(); !ok {
		t.Errorf("required missing: %v", missing)
	}
	if ok, missing := exts.HasWanted(); ok || !reflect.DeepEqual(missing, []string{"VK_EXT_missing"}) {
		t.Errorf("wanted = %v, %v", ok, missing)
	}
	want := []string{"VK_KHR_surface\x00", "VK_KHR_xcb_surface\x00", debugReportExtension + "\x00"}
	if got := exts.GetExtensions(); !reflect.DeepEqual(got, want) {
		t.Errorf("GetExtensions = %q, want %q", got, want)
	}
	if err := exts.Require(); err != nil {
		t.Errorf("Require: %v", err)
	}

	layers := NewBaseExtensions("layer", nil, nil, []string{validationLayerName})
	err := layers.Require()
	if err == nil {
		t.Fatal("missing validation layer accepted")
	}
	if want := "required layer " + validationLayerName; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not name %q", err, want)
	}
}

func TestCheckSPIRV(t *testing.T) {
	module := make([]byte, 20)
	copy(module, []byte{0x03, 0x02, 0x23, 0x07})
	if err := checkSPIRV(module); err != nil {
		t.Errorf("valid header rejected: %v", err)
	}
	if err := checkSPIRV(module[:18]); err == nil {
		t.Error("truncated module accepted")
	}
	module[0] = 0
	if err := checkSPIRV(module); err == nil {
		t.Error("bad magic accepted")
	}
}

func TestNewInstanceRequest(t *testing.T) {
	req := newInstanceRequest([]string{"VK_KHR_surface", "VK_KHR_xcb_surface"}, false)
	if len(req.layers) != 0 || len(req.extensions) != 2 {
		t.Errorf("without validation: %q %q", req.extensions, req.layers)
	}

	req = newInstanceRequest([]string{"VK_KHR_surface"}, true)
	want := []string{"VK_KHR_surface\x00", debugReportExtension + "\x00"}
	if !reflect.DeepEqual(req.extensions, want) {
		t.Errorf("extensions = %q, want %q", req.extensions, want)
	}
	if !reflect.DeepEqual(req.layers, []string{validationLayerName + "\x00"}) {
		t.Errorf("layers = %q", req.layers)
	}
}
