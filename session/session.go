// Package session wires one visualizer, audio engine, and sequencer behind a presentation surface
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/lixenwraith/soundbox/audio"
	"github.com/lixenwraith/soundbox/config"
	"github.com/lixenwraith/soundbox/core"
	"github.com/lixenwraith/soundbox/engine"
	"github.com/lixenwraith/soundbox/palindrome"
	"github.com/lixenwraith/soundbox/present"
	"github.com/lixenwraith/soundbox/sequencer"
)

// StatusFunc receives a one-line summary whenever transport or modes change
type StatusFunc func(string)

// Session holds the running instance
type Session struct {
	// ===== Immutable After Init =====

	Visual *engine.Visualizer
	Loop   *engine.FrameLoop
	Audio  *audio.Engine
	Seq    *sequencer.Sequencer

	logger *slog.Logger
	status StatusFunc

	// ===== Atomic =====

	quit atomic.Bool
}

// New builds a session drawing to surface; status may be nil
func New(cfg *config.Config, surface engine.Surface, status StatusFunc, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if status == nil {
		status = func(string) {}
	}

	w, h := surface.Size()
	vc := cfg.VisualConfig()
	s := &Session{
		Visual: engine.NewVisualizer(vc, w, h, logger.With("component", "visual")),
		Audio:  audio.NewEngine(cfg.AudioConfig(), logger.With("component", "audio")),
		logger: logger,
		status: status,
	}
	s.Loop = engine.NewFrameLoop(s.Visual, surface, s.Audio, vc.FPS, logger.With("component", "loop"))

	// Scheduler callbacks and hooks run on the loop goroutine, the only mutator of visual state
	opts := cfg.SequencerOptions(logger.With("component", "sequencer"))
	opts.OnStep = func(ev sequencer.Event) {
		if ev.Valid {
			s.Visual.Highlight(ev.Digit)
		}
	}
	opts.OnState = func(core.PlaybackState) { s.publish() }
	s.Seq = sequencer.New(s.Audio, sequencer.NewLoopScheduler(s.Loop.Post), opts)
	return s
}

// SetSequences loads digit sequences into the sequencer and the visual signature
// Call from the loop goroutine, or before Run
func (s *Session) SetSequences(seqs []string) {
	s.Seq.SetSequences(seqs)
	s.Visual.SetPalindrome(palindrome.Build(seqs))
	s.publish()
}

// Dispatch queues cmd onto the loop goroutine; safe from any goroutine
func (s *Session) Dispatch(cmd present.Command) {
	if cmd == present.CmdQuit {
		s.quit.Store(true)
		s.Loop.Stop()
		return
	}
	s.Loop.Post(func() { s.Apply(cmd) })
}

// Apply executes cmd; loop goroutine only
func (s *Session) Apply(cmd present.Command) {
	switch cmd {
	case present.CmdTogglePlay:
		if err := s.Seq.Toggle(); err != nil {
			s.logger.Debug("toggle rejected", "error", err)
			s.status(s.Status() + " | " + err.Error())
			return
		}
	case present.CmdStop:
		s.Seq.Stop()
	case present.CmdToggleLoop:
		s.Seq.SetLoop(!s.Seq.Loop())
	case present.CmdNextPattern:
		s.Visual.SetPatternMode(s.Visual.PatternMode().Next())
	case present.CmdNextColor:
		s.Visual.SetColorMode(s.Visual.ColorMode().Next())
	case present.CmdNextBeat:
		// A style change alters the scheduling discipline, so restart cleanly
		playing := s.Seq.State() == core.StatePlaying
		s.Seq.Stop()
		s.Audio.SetBeatStyle((s.Audio.BeatStyle() + 1) % core.BeatStyleCount)
		if playing {
			if err := s.Seq.Play(); err != nil {
				s.logger.Debug("restart after beat change failed", "error", err)
			}
		}
	case present.CmdQuit:
		s.quit.Store(true)
		s.Loop.Stop()
		return
	}
	s.publish()
}

// Quit reports whether a quit command was received
func (s *Session) Quit() bool { return s.quit.Load() }

// Status formats the current state line
func (s *Session) Status() string {
	loop := "off"
	if s.Seq.Loop() {
		loop = "on"
	}
	return fmt.Sprintf(" %s | %s | %s | beat %s | loop %s | %d bpm | space play  s stop  l loop  m mode  c color  b beat  q quit",
		s.Seq.State(), s.Visual.PatternMode(), s.Visual.ColorMode(), s.Audio.BeatStyle(), loop, s.Audio.BPM())
}

func (s *Session) publish() { s.status(s.Status()) }

// Start starts audio output; hosts that drive Loop.Tick themselves call Start and Close
func (s *Session) Start() error {
	if err := s.Audio.Start(); err != nil {
		return fmt.Errorf("start audio: %w", err)
	}
	s.publish()
	return nil
}

// Close stops playback and audio
func (s *Session) Close() {
	s.Seq.Stop()
	s.Audio.Stop()
}

// Run starts audio and drives the frame loop until ctx is done or a quit command arrives
func (s *Session) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Close()
	return s.Loop.Run(ctx)
}
