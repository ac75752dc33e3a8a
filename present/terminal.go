package present

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/soundbox/render"
)

// halfBlock draws the upper pixel as foreground and the lower as background
const halfBlock = '▀'

// Terminal presents the pixel buffer with half-block cells, two pixel rows per cell row
// The bottom cell row is reserved for a status line
type Terminal struct {
	screen tcell.Screen
	bg     render.RGB
	accent render.RGB

	mu     sync.Mutex
	status string
	flat   []byte

	closeOnce sync.Once
}

// OpenTerminal initializes the controlling terminal
func OpenTerminal(bg render.RGB) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	t := NewTerminal(screen, bg)
	crashTerminal.Store(t)
	return t, nil
}

// NewTerminal wraps an initialized screen
func NewTerminal(screen tcell.Screen, bg render.RGB) *Terminal {
	screen.HideCursor()
	screen.SetStyle(tcell.StyleDefault.Background(rgbColor(bg)))
	screen.Clear()
	return &Terminal{
		screen: screen,
		bg:     bg,
		accent: render.RGB{R: 0xe8, G: 0xa8, B: 0x38},
	}
}

// Size returns the drawable area in pixels
func (t *Terminal) Size() (int, int) {
	w, h := t.screen.Size()
	if h < 2 {
		return w, 0
	}
	return w, (h - 1) * 2
}

// SetStatus replaces the status line text
func (t *Terminal) SetStatus(s string) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Present draws buf and the status line, then shows the screen
func (t *Terminal) Present(buf *render.PixelBuffer) error {
	w, h := buf.Width(), buf.Height()
	need := w * h * 4
	if cap(t.flat) < need {
		t.flat = make([]byte, need)
	}
	t.flat = t.flat[:need]
	buf.Flatten(t.flat, t.bg)

	sw, sh := t.screen.Size()
	rows := min(h/2, sh-1)
	cols := min(w, sw)
	for cy := 0; cy < rows; cy++ {
		top := cy * 2 * w * 4
		bottom := top + w*4
		for x := 0; x < cols; x++ {
			i, j := top+x*4, bottom+x*4
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(t.flat[i]), int32(t.flat[i+1]), int32(t.flat[i+2]))).
				Background(tcell.NewRGBColor(int32(t.flat[j]), int32(t.flat[j+1]), int32(t.flat[j+2])))
			t.screen.SetContent(x, cy, halfBlock, nil, style)
		}
	}

	t.drawStatus(sw, sh)
	t.screen.Show()
	return nil
}

func (t *Terminal) drawStatus(w, h int) {
	if h < 1 {
		return
	}
	t.mu.Lock()
	status := t.status
	t.mu.Unlock()

	style := tcell.StyleDefault.
		Foreground(rgbColor(render.Scale(t.accent, 0.8))).
		Background(rgbColor(t.bg))
	x := 0
	for _, r := range status {
		if x >= w {
			break
		}
		t.screen.SetContent(x, h-1, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		t.screen.SetContent(x, h-1, ' ', nil, style)
	}
}

// Run polls input until ctx is done or the screen is finalized, passing commands to handle
func (t *Terminal) Run(ctx context.Context, handle func(Command)) {
	events := make(chan tcell.Event, 100)
	Go(func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	})

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if cmd := KeyCommand(ev); cmd != CmdNone {
					handle(cmd)
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		}
	}
}

// Close restores the terminal; safe to call more than once
func (t *Terminal) Close() {
	t.closeOnce.Do(func() {
		crashTerminal.CompareAndSwap(t, nil)
		t.screen.Fini()
	})
}

func rgbColor(c render.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
