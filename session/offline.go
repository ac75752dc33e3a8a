package session

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/soundbox/audio"
	"github.com/lixenwraith/soundbox/config"
	"github.com/lixenwraith/soundbox/engine"
	"github.com/lixenwraith/soundbox/palindrome"
	"github.com/lixenwraith/soundbox/render"
	"github.com/lixenwraith/soundbox/sequencer"
)

// offlineBlock is the audio granularity at which scheduled callbacks fire
const offlineBlock = 256

// Offline renders frames against the audio clock with no device and no wall time
// The same config and sequences always produce the same frames
type Offline struct {
	Visual *engine.Visualizer
	Audio  *audio.Engine
	Seq    *sequencer.Sequencer

	sched    *sequencer.ManualScheduler
	format   beep.Format
	record   *beep.Buffer
	frameDur time.Duration
	scratch  [][2]float64
}

// NewOffline builds an offline renderer; record keeps the audio for WriteWAV
func NewOffline(cfg *config.Config, width, height int, record bool, logger *slog.Logger) *Offline {
	vc := cfg.VisualConfig()
	ac := cfg.AudioConfig()
	ac.Enabled = false

	o := &Offline{
		Visual:   engine.NewVisualizer(vc, width, height, logger),
		Audio:    audio.NewEngine(ac, logger),
		sched:    sequencer.NewManualScheduler(),
		format:   beep.Format{SampleRate: beep.SampleRate(ac.SampleRate), NumChannels: 2, Precision: 2},
		frameDur: time.Second / time.Duration(vc.FPS),
		scratch:  make([][2]float64, offlineBlock),
	}
	if record {
		o.record = beep.NewBuffer(o.format)
	}

	opts := cfg.SequencerOptions(logger)
	opts.OnStep = func(ev sequencer.Event) {
		if ev.Valid {
			o.Visual.Highlight(ev.Digit)
		}
	}
	o.Seq = sequencer.New(o.Audio, o.sched, opts)
	return o
}

// SetSequences loads sequences into the sequencer and the visual signature
func (o *Offline) SetSequences(seqs []string) {
	o.Seq.SetSequences(seqs)
	o.Visual.SetPalindrome(palindrome.Build(seqs))
}

// Play starts the sequencer at the current audio time
func (o *Offline) Play() error {
	return o.Seq.Play()
}

// Step renders one frame period of audio, firing due callbacks, then one visual frame
func (o *Offline) Step() *render.PixelBuffer {
	rate := o.format.SampleRate
	n := rate.N(o.frameDur)
	for n > 0 {
		chunk := min(n, offlineBlock)
		if o.record != nil {
			o.record.Append(beep.Take(chunk, o.Audio))
		} else {
			o.Audio.Stream(o.scratch[:chunk])
		}
		n -= chunk
		o.sched.Advance(o.Audio.Now())
	}
	return o.Visual.Frame(o.Audio)
}

// Render steps frames times and returns the final buffer
func (o *Offline) Render(frames int) *render.PixelBuffer {
	buf := o.Visual.Buffer()
	for i := 0; i < frames; i++ {
		buf = o.Step()
	}
	return buf
}

// Recorded returns the duration of captured audio
func (o *Offline) Recorded() time.Duration {
	if o.record == nil {
		return 0
	}
	return o.format.SampleRate.D(o.record.Len())
}

// WriteWAV encodes the captured audio as 16-bit stereo
func (o *Offline) WriteWAV(w io.WriteSeeker) error {
	if o.record == nil {
		return fmt.Errorf("offline renderer was created without recording")
	}
	if err := wav.Encode(w, o.record.Streamer(0, o.record.Len()), o.format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}
