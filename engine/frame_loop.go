package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/soundbox/modulation"
	"github.com/lixenwraith/soundbox/parameter"
	"github.com/lixenwraith/soundbox/render"
)

// ErrLoopRunning is returned by Run when the loop is already active
var ErrLoopRunning = errors.New("frame loop already running")

// Surface is the host drawing target
type Surface interface {
	// Size returns the current pixel dimensions of the surface
	Size() (width, height int)
	// Present displays a rendered frame; the buffer must not be retained
	Present(buf *render.PixelBuffer) error
}

// FrameLoop drives a Visualizer at a fixed rate on a single goroutine
// Work from other goroutines (timers, input) is marshalled through Post so visual state has one owner
type FrameLoop struct {
	vis      *Visualizer
	surface  Surface
	source   modulation.Source
	interval time.Duration
	logger   *slog.Logger

	tasks    chan func()
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	frames atomic.Uint64
}

// NewFrameLoop creates a loop presenting vis onto surface at fps, reading analysis from source
func NewFrameLoop(vis *Visualizer, surface Surface, source modulation.Source, fps int, logger *slog.Logger) *FrameLoop {
	if fps < parameter.MinFPS {
		fps = parameter.MinFPS
	}
	if fps > parameter.MaxFPS {
		fps = parameter.MaxFPS
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FrameLoop{
		vis:      vis,
		surface:  surface,
		source:   source,
		interval: time.Second / time.Duration(fps),
		logger:   logger,
		tasks:    make(chan func(), 256),
		stopChan: make(chan struct{}),
	}
}

// Post queues fn to run on the loop goroutine before the next frame
// Returns false once the loop has stopped
func (l *FrameLoop) Post(fn func()) bool {
	select {
	case <-l.stopChan:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.stopChan:
		return false
	}
}

// Interval returns the frame period
func (l *FrameLoop) Interval() time.Duration { return l.interval }

// Frames returns the number of presented frames
func (l *FrameLoop) Frames() uint64 { return l.frames.Load() }

// Tick drains posted work, follows surface size, renders and presents one frame
func (l *FrameLoop) Tick() error {
	l.drain()

	w, h := l.surface.Size()
	buf := l.vis.Buffer()
	if w != buf.Width() || h != buf.Height() {
		l.vis.Resize(w, h)
	}

	frame := l.vis.Frame(l.source)
	if err := l.surface.Present(frame); err != nil {
		return fmt.Errorf("present frame %d: %w", l.frames.Load(), err)
	}
	l.frames.Add(1)
	return nil
}

// drain runs every queued task without blocking
func (l *FrameLoop) drain() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		default:
			return
		}
	}
}

// Run ticks until ctx is done, Stop is called, or presentation fails
func (l *FrameLoop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("frame loop started", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			l.logger.Info("frame loop stopped", "frames", l.frames.Load())
			return nil
		case <-l.stopChan:
			l.logger.Info("frame loop stopped", "frames", l.frames.Load())
			return nil
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			if err := l.Tick(); err != nil {
				l.Stop()
				return err
			}
		}
	}
}

// Stop ends Run; safe to call more than once
func (l *FrameLoop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
}
