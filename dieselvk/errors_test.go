package dieselvk

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func TestNewError(t *testing.T) {
	if err := NewError(vk.Success, "vkCreateImage"); err != nil {
		t.Fatalf("success reported as %v", err)
	}

	err := NewError(vk.ErrorOutOfDeviceMemory, "vkAllocateMemory")
	if err == nil {
		t.Fatal("failure not reported")
	}
	if !strings.Contains(err.Error(), "vkAllocateMemory") || !strings.Contains(err.Error(), "TestNewError") {
		t.Errorf("error %q does not name the call and the caller", err)
	}

	wrapped := errors.Wrap(err, "uniform buffer")
	ret, ok := ResultOf(wrapped)
	if !ok || ret != vk.ErrorOutOfDeviceMemory {
		t.Errorf("ResultOf = %v, %v", ret, ok)
	}
	if _, ok := ResultOf(errors.New("plain")); ok {
		t.Error("plain error carries a result")
	}
}

func TestCheckErr(t *testing.T) {
	run := func(v interface{}) (err error) {
		defer checkErr(&err)
		panic(v)
	}

	cause := NewError(vk.ErrorDeviceLost, "vkQueueSubmit")
	if err := run(cause); err != cause {
		t.Errorf("error panic: got %v, want %v", err, cause)
	}
	if err := run("boom"); err == nil || err.Error() != "boom" {
		t.Errorf("string panic: got %v", err)
	}
}

func TestSurfaceStatus(t *testing.T) {
	tests := []struct {
		ret    vk.Result
		status frameStatus
		fatal  bool
	}{
		{vk.Success, frameOK, false},
		{vk.Suboptimal, frameOK, false},
		{vk.ErrorOutOfDate, frameStale, false},
		{vk.ErrorDeviceLost, frameOK, true},
		{vk.ErrorSurfaceLost, frameOK, true},
	}
	for _, tt := range tests {
		status, err := surfaceStatus(tt.ret, "vkQueuePresentKHR")
		if status != tt.status || (err != nil) != tt.fatal {
			t.Errorf("result %d: got %v, %v, want %v, fatal %v", tt.ret, status, err, tt.status, tt.fatal)
		}
	}
}

func TestPendingResize(t *testing.T) {
	var r pendingResize
	if _, _, ok := r.take(); ok {
		t.Fatal("resize pending before any report")
	}
	if r.notify(0, 600) || r.notify(800, 0) {
		t.Error("zero area report accepted")
	}
	if _, _, ok := r.take(); ok {
		t.Fatal("zero area report made a resize pending")
	}

	r.notify(800, 600)
	r.notify(640, 480)
	r.notify(400, 300)
	width, height, ok := r.take()
	if !ok || width != 400 || height != 300 {
		t.Errorf("take = %d, %d, %v, want 400, 300, true", width, height, ok)
	}
	if _, _, ok := r.take(); ok {
		t.Error("one batch of resizes rebuilt twice")
	}
}
