// Command soundbox-window plays digit sequences with the visualizer in a desktop window
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lixenwraith/soundbox/config"
	"github.com/lixenwraith/soundbox/present"
	"github.com/lixenwraith/soundbox/render"
	"github.com/lixenwraith/soundbox/session"
)

var (
	configFlag = flag.String("config", "", "Configuration file path")
	widthFlag  = flag.Int("width", 480, "Logical width in pixels")
	heightFlag = flag.Int("height", 360, "Logical height in pixels")
	scaleFlag  = flag.Int("scale", 2, "Window scale factor")
)

var background = render.RGB{R: 6, G: 6, B: 14}

// keyCommands mirrors the terminal bindings
var keyCommands = map[ebiten.Key]present.Command{
	ebiten.KeySpace:  present.CmdTogglePlay,
	ebiten.KeyS:      present.CmdStop,
	ebiten.KeyL:      present.CmdToggleLoop,
	ebiten.KeyM:      present.CmdNextPattern,
	ebiten.KeyC:      present.CmdNextColor,
	ebiten.KeyB:      present.CmdNextBeat,
	ebiten.KeyQ:      present.CmdQuit,
	ebiten.KeyEscape: present.CmdQuit,
}

// windowSurface keeps the last flattened frame for Draw
type windowSurface struct {
	w, h int
	pix  []byte
}

func (s *windowSurface) Size() (int, int) { return s.w, s.h }

func (s *windowSurface) Present(buf *render.PixelBuffer) error {
	need := buf.Width() * buf.Height() * 4
	if len(s.pix) != need {
		s.pix = make([]byte, need)
	}
	buf.Flatten(s.pix, background)
	return nil
}

type game struct {
	sess    *session.Session
	surface *windowSurface

	mu     sync.Mutex
	title  string
	titled string
}

func (g *game) setStatus(line string) {
	g.mu.Lock()
	g.title = line
	g.mu.Unlock()
}

// Update runs on ebiten's update goroutine, which serves as the frame loop
func (g *game) Update() error {
	for key, cmd := range keyCommands {
		if inpututil.IsKeyJustPressed(key) {
			g.sess.Dispatch(cmd)
		}
	}
	if g.sess.Quit() {
		return ebiten.Termination
	}
	if err := g.sess.Loop.Tick(); err != nil {
		return err
	}

	g.mu.Lock()
	if g.title != g.titled {
		g.titled = g.title
		ebiten.SetWindowTitle("soundbox " + g.title)
	}
	g.mu.Unlock()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if len(g.surface.pix) == g.surface.w*g.surface.h*4 {
		screen.WritePixels(g.surface.pix)
	}
}

func (g *game) Layout(_, _ int) (int, int) { return g.surface.w, g.surface.h }

func run() error {
	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *widthFlag < 1 || *heightFlag < 1 || *scaleFlag < 1 {
		return fmt.Errorf("width, height and scale must be positive")
	}

	g := &game{surface: &windowSurface{w: *widthFlag, h: *heightFlag}}
	g.sess = session.New(cfg, g.surface, g.setStatus, nil)
	g.sess.SetSequences(flag.Args())
	if flag.NArg() > 0 {
		g.sess.Dispatch(present.CmdTogglePlay)
	}

	if err := g.sess.Start(); err != nil {
		return err
	}
	defer g.sess.Close()

	ebiten.SetTPS(cfg.Visual.FPS)
	scale := *scaleFlag
	ebiten.SetWindowSize(*widthFlag*scale, *heightFlag*scale)
	ebiten.SetWindowTitle("soundbox")
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
