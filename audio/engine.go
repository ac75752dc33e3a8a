package audio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/soundbox/core"
	"github.com/lixenwraith/soundbox/parameter"
)

// ErrEngineRunning is returned by Start on a running engine
var ErrEngineRunning = errors.New("audio engine already running")

// scheduledTone tracks a tone handed to the mixer so it can be cancelled before it starts
type scheduledTone struct {
	ctrl  *beep.Ctrl
	start int64 // absolute sample of the audible onset
	end   int64
}

// Engine is the tone sink, drum machine, and analysis tap
// It is itself the root beep.Streamer; the sample clock advances only as output is pulled,
// so Now is the audio clock the sequencer schedules against
type Engine struct {
	mu sync.Mutex

	rate     beep.SampleRate
	mixer    *beep.Mixer
	drums    *DrumTrack
	master   *effects.Volume
	analyzer *Analyzer
	tones    []scheduledTone
	clock    int64

	bpm       atomic.Int32
	style     atomic.Int32
	tempoBits atomic.Uint64
	volume    atomic.Uint64

	cfg     Config
	logger  *slog.Logger
	running atomic.Bool
	device  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewEngine creates a stopped engine
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	cfg.normalize()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		rate:     beep.SampleRate(cfg.SampleRate),
		mixer:    &beep.Mixer{},
		drums:    NewDrumTrack(cfg.SampleRate),
		analyzer: NewAnalyzer(parameter.AnalyzerSize),
		cfg:      cfg,
		logger:   logger,
	}
	e.master = newVolume(bus{e}, cfg.MasterVolume)
	e.bpm.Store(int32(cfg.BPM))
	e.style.Store(int32(cfg.BeatStyle))
	e.tempoBits.Store(floatBits(cfg.TempoMultiplier))
	e.volume.Store(floatBits(cfg.MasterVolume))
	e.syncDrumsLocked()
	return e
}

// bus sums tones and drums before the master volume
type bus struct{ e *Engine }

func (b bus) Stream(samples [][2]float64) (int, bool) {
	clear(samples)
	b.e.mixer.Stream(samples)
	b.e.drums.Render(samples, b.e.clock)
	return len(samples), true
}

func (b bus) Err() error { return nil }

// Stream implements beep.Streamer; it never drains
func (e *Engine) Stream(samples [][2]float64) (n int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.master.Stream(samples)
	e.analyzer.Push(samples)
	e.clock += int64(len(samples))
	e.pruneLocked()
	return len(samples), true
}

// Err implements beep.Streamer
func (e *Engine) Err() error { return nil }

// Start opens the output device, or clocks the engine headless when disabled or no device is available
func (e *Engine) Start() error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrEngineRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	if e.cfg.Enabled {
		err := speaker.Init(e.rate, e.rate.N(parameter.AudioBufferDuration))
		if err == nil {
			e.device = true
			speaker.Play(e)
			e.logger.Info("audio started", "sample_rate", int(e.rate))
			return nil
		}
		// Silent mode, not an error
		e.logger.Warn("audio device unavailable, running silent", "error", err)
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.RunHeadless(ctx)
	}()
	return nil
}

// Stop releases the device or ends the headless clock
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	if e.cancel != nil {
		e.cancel()
	}
	if e.device {
		speaker.Clear()
		speaker.Close()
		e.device = false
	}
	e.wg.Wait()
	e.logger.Info("audio stopped")
}

// RunHeadless pulls output in real time without a device until ctx is done
func (e *Engine) RunHeadless(ctx context.Context) {
	ticker := time.NewTicker(parameter.AudioBufferDuration)
	defer ticker.Stop()

	buf := make([][2]float64, e.rate.N(parameter.AudioBufferDuration)*2)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n := e.rate.N(now.Sub(last))
			last = now
			for n > 0 {
				chunk := min(n, len(buf))
				e.Stream(buf[:chunk])
				n -= chunk
			}
		}
	}
}

// Now returns the audio clock
func (e *Engine) Now() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate.D(int(e.clock))
}

// PlayTone sounds digit for duration, immediately or at the absolute audio time at
// Digits outside 0-9 are ignored
func (e *Engine) PlayTone(digit int, duration, at time.Duration, scheduled bool) {
	freq := DigitFreq(digit)
	if freq == 0 {
		return
	}
	tone := NewTone(freq, duration, e.rate)

	e.mu.Lock()
	defer e.mu.Unlock()

	start := e.clock
	if scheduled {
		if s := int64(e.rate.N(at)); s > start {
			tone = beep.Seq(beep.Silence(int(s-start)), tone)
			start = s
		}
	}
	ctrl := &beep.Ctrl{Streamer: tone}
	e.mixer.Add(ctrl)
	e.tones = append(e.tones, scheduledTone{
		ctrl:  ctrl,
		start: start,
		end:   start + int64(e.rate.N(max(duration, parameter.ToneMinDuration))),
	})
}

// CancelScheduled drops tones whose onset has not been reached
func (e *Engine) CancelScheduled() {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.tones[:0]
	dropped := 0
	for _, t := range e.tones {
		if t.start > e.clock {
			t.ctrl.Streamer = nil
			dropped++
			continue
		}
		kept = append(kept, t)
	}
	e.tones = kept
	if dropped > 0 {
		e.logger.Debug("cancelled scheduled tones", "count", dropped)
	}
}

// Pending returns the number of tones not yet finished
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tones)
}

func (e *Engine) pruneLocked() {
	kept := e.tones[:0]
	for _, t := range e.tones {
		if t.end > e.clock {
			kept = append(kept, t)
		}
	}
	e.tones = kept
}

// BPM returns the tempo
func (e *Engine) BPM() int { return int(e.bpm.Load()) }

// SetBPM changes tempo, clamped to the supported range
func (e *Engine) SetBPM(bpm int) {
	e.bpm.Store(int32(clampBPM(bpm)))
	e.mu.Lock()
	e.syncDrumsLocked()
	e.mu.Unlock()
}

// BeatStyle returns the drum groove
func (e *Engine) BeatStyle() core.BeatStyle { return core.BeatStyle(e.style.Load()) }

// SetBeatStyle switches the drum groove
func (e *Engine) SetBeatStyle(style core.BeatStyle) {
	if style < 0 || style >= core.BeatStyleCount {
		style = core.BeatNone
	}
	e.style.Store(int32(style))
	e.mu.Lock()
	e.syncDrumsLocked()
	e.mu.Unlock()
	e.logger.Debug("beat style", "style", style.String())
}

// TempoMultiplier returns the step rate scale shared with the sequencer
func (e *Engine) TempoMultiplier() float64 { return floatFrom(e.tempoBits.Load()) }

// SetTempoMultiplier scales the drum step grid
func (e *Engine) SetTempoMultiplier(m float64) {
	c := Config{TempoMultiplier: m}
	c.normalize()
	e.tempoBits.Store(floatBits(c.TempoMultiplier))
	e.mu.Lock()
	e.syncDrumsLocked()
	e.mu.Unlock()
}

// MasterVolume returns the output gain
func (e *Engine) MasterVolume() float64 { return floatFrom(e.volume.Load()) }

// SetMasterVolume sets the output gain in [0,1]
func (e *Engine) SetMasterVolume(v float64) {
	v = clampUnit(v)
	e.volume.Store(floatBits(v))
	e.mu.Lock()
	setGain(e.master, v)
	e.mu.Unlock()
}

func (e *Engine) syncDrumsLocked() {
	e.drums.SetStyle(core.BeatStyle(e.style.Load()))
	e.drums.SetStepDuration(parameter.StepDuration(int(e.bpm.Load()), floatFrom(e.tempoBits.Load())))
}

// Volume implements the modulation source
func (e *Engine) Volume() float64 { return e.analyzer.Volume() }

// FrequencyData implements the modulation source
func (e *Engine) FrequencyData() []float64 { return e.analyzer.FrequencyData() }

// Analyzer exposes the output tap
func (e *Engine) Analyzer() *Analyzer { return e.analyzer }

func floatBits(f float64) uint64 { return math.Float64bits(f) }

func floatFrom(b uint64) float64 { return math.Float64frombits(b) }
