package dieselvk

import "testing"

//fakeFramebuffer reports sizes[polls], the last size repeats. It asks to
//close once polls reaches closeAt, a zero closeAt never closes.
type fakeFramebuffer struct {
	sizes   [][2]int
	closeAt int
	polls   int
}

func (f *fakeFramebuffer) ShouldClose() bool {
	return f.closeAt > 0 && f.polls >= f.closeAt
}

func (f *fakeFramebuffer) GetFramebufferSize() (int, int) {
	i := f.polls
	if i >= len(f.sizes) {
		i = len(f.sizes) - 1
	}
	return f.sizes[i][0], f.sizes[i][1]
}

func TestWaitForArea(t *testing.T) {
	minimized := [][2]int{{0, 0}}
	tests := []struct {
		name      string
		fb        *fakeFramebuffer
		want      bool
		wantWaits int
	}{
		{"visible", &fakeFramebuffer{sizes: [][2]int{{800, 600}}}, true, 0},
		{"restored", &fakeFramebuffer{sizes: [][2]int{{0, 0}, {0, 600}, {400, 300}}}, true, 2},
		{"closed while minimized", &fakeFramebuffer{sizes: minimized, closeAt: 3}, false, 3},
		{"closed before polling", &fakeFramebuffer{sizes: minimized, closeAt: 1, polls: 1}, false, 0},
	}
	for _, tt := range tests {
		waits := 0
		got := waitForArea(tt.fb, func() {
			waits++
			tt.fb.polls++
		})
		if got != tt.want {
			t.Errorf("%s: waitForArea() = %t, want %t", tt.name, got, tt.want)
		}
		if waits != tt.wantWaits {
			t.Errorf("%s: waited %d times, want %d", tt.name, waits, tt.wantWaits)
		}
	}
}

func TestWaitForAreaHeadless(t *testing.T) {
	var display CoreDisplay
	if !display.WaitForArea() {
		t.Error("a display without a window always has an area")
	}
}
