package present

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/soundbox/render"
)

func newSimTerminal(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	screen.SetSize(w, h)
	term := NewTerminal(screen, render.RGBBlack)
	t.Cleanup(term.Close)
	return term, screen
}

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want Command
	}{
		{tcell.KeyRune, ' ', CmdTogglePlay},
		{tcell.KeyRune, 's', CmdStop},
		{tcell.KeyRune, 'L', CmdToggleLoop},
		{tcell.KeyRune, 'm', CmdNextPattern},
		{tcell.KeyRune, 'c', CmdNextColor},
		{tcell.KeyRune, 'b', CmdNextBeat},
		{tcell.KeyRune, 'q', CmdQuit},
		{tcell.KeyEscape, 0, CmdQuit},
		{tcell.KeyRune, 'x', CmdNone},
		{tcell.KeyEnter, 0, CmdNone},
	}
	for _, tt := range tests {
		ev := tcell.NewEventKey(tt.key, tt.r, tcell.ModNone)
		if got := KeyCommand(ev); got != tt.want {
			t.Errorf("key %v %q = %s, want %s", tt.key, tt.r, got, tt.want)
		}
	}
}

func TestTerminalSizeReservesStatusRow(t *testing.T) {
	term, _ := newSimTerminal(t, 20, 11)
	w, h := term.Size()
	if w != 20 || h != 20 {
		t.Errorf("size = %dx%d, want 20x20", w, h)
	}
}

func TestTerminalPresentHalfBlocks(t *testing.T) {
	term, screen := newSimTerminal(t, 4, 3)
	buf := render.NewPixelBuffer(4, 4)
	buf.BlendOver(1, 0, render.RGBWhite, 1) // upper half of cell (1,0)
	buf.BlendOver(2, 1, render.RGBWhite, 1) // lower half of cell (2,0)
	term.SetStatus("ok")

	if err := term.Present(buf); err != nil {
		t.Fatal(err)
	}

	cells, w, _ := screen.GetContents()
	cell := func(x, y int) tcell.SimCell { return cells[y*w+x] }

	fg, bg, _ := cell(1, 0).Style.Decompose()
	if r, _, _ := fg.RGB(); r != 255 {
		t.Errorf("cell (1,0) foreground red = %d, want 255", r)
	}
	if r, _, _ := bg.RGB(); r != 0 {
		t.Errorf("cell (1,0) background red = %d, want 0", r)
	}

	fg, bg, _ = cell(2, 0).Style.Decompose()
	if r, _, _ := fg.RGB(); r != 0 {
		t.Errorf("cell (2,0) foreground red = %d, want 0", r)
	}
	if r, _, _ := bg.RGB(); r != 255 {
		t.Errorf("cell (2,0) background red = %d, want 255", r)
	}

	if got := cell(1, 0).Runes; len(got) != 1 || got[0] != halfBlock {
		t.Errorf("cell rune = %q", got)
	}
	if got := cell(0, 2).Runes; len(got) != 1 || got[0] != 'o' {
		t.Errorf("status row = %q", got)
	}
}

func TestTerminalRunDispatchesKeys(t *testing.T) {
	term, screen := newSimTerminal(t, 10, 5)
	got := make(chan Command, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		term.Run(ctx, func(c Command) { got <- c })
		close(done)
	}()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)

	select {
	case c := <-got:
		if c != CmdTogglePlay {
			t.Errorf("command = %s", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no command dispatched")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestTerminalCloseTwice(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	term := NewTerminal(screen, render.RGBBlack)
	term.Close()
	term.Close()
}

// pollPanicScreen fails on the first input poll
type pollPanicScreen struct {
	tcell.SimulationScreen
}

func (pollPanicScreen) PollEvent() tcell.Event { panic("poll failed") }

func TestTerminalRunRestoresOnPollPanic(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	term := NewTerminal(pollPanicScreen{screen}, render.RGBBlack)
	crashTerminal.Store(term)

	var out bytes.Buffer
	exited := make(chan int, 1)
	crashOutput, crashExit = &out, func(code int) { exited <- code }
	t.Cleanup(func() {
		crashOutput, crashExit = os.Stderr, os.Exit
		crashTerminal.Store(nil)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go term.Run(ctx, func(Command) {})

	select {
	case code := <-exited:
		if code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("panic in the input poller was not handled")
	}
	if crashTerminal.Load() != nil {
		t.Error("terminal not restored before the crash report")
	}
	if !strings.Contains(out.String(), "poll failed") {
		t.Errorf("crash report = %q", out.String())
	}
}
