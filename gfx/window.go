package gfx

//headlessWindow stands in for a platform window when nothing is displayed.
//It asks to close once its frame budget is spent, a zero budget never closes.
type headlessWindow struct {
	width, height int
	budget        int
	frames        int
	closed        bool
	onResize      func(width, height int)
}

func newHeadlessWindow(width, height, budget int) *headlessWindow {
	return &headlessWindow{width: width, height: height, budget: budget}
}

func (w *headlessWindow) ShouldClose() bool {
	return w.closed || (w.budget > 0 && w.frames >= w.budget)
}

func (w *headlessWindow) ProcessMessages() {}

func (w *headlessWindow) Close() { w.closed = true }

func (w *headlessWindow) Size() (int, int) { return w.width, w.height }

func (w *headlessWindow) UpdateDimensions() {}

func (w *headlessWindow) SetResizeCallback(fn func(width, height int)) {
	w.onResize = fn
}

//Resize simulates the window system reporting a new size. Zero area reports
//are dropped the same way a minimized platform window's are.
func (w *headlessWindow) Resize(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *headlessWindow) tick() { w.frames++ }
