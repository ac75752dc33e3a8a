package sequencer

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/soundbox/core"
)

// fakeClock is a manual scheduler and audio clock; callbacks fire inside Advance
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward, firing due timers in deadline order
func (c *fakeClock) Advance(d time.Duration) {
	end := c.now + d
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > end {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.fn()
	}
	c.now = end
}

type tone struct {
	digit     int
	duration  time.Duration
	at        time.Duration
	scheduled bool
}

type fakeAudio struct {
	clock   *fakeClock
	bpm     int
	style   core.BeatStyle
	tones   []tone
	cancels int
}

func (a *fakeAudio) PlayTone(digit int, duration, at time.Duration, scheduled bool) {
	if !scheduled {
		at = a.clock.now
	}
	a.tones = append(a.tones, tone{digit, duration, at, scheduled})
}

func (a *fakeAudio) BPM() int                  { return a.bpm }
func (a *fakeAudio) BeatStyle() core.BeatStyle { return a.style }
func (a *fakeAudio) Now() time.Duration        { return a.clock.now }

// CancelScheduled drops tones that have not started yet
func (a *fakeAudio) CancelScheduled() {
	a.cancels++
	kept := a.tones[:0]
	for _, t := range a.tones {
		if t.at <= a.clock.now {
			kept = append(kept, t)
		}
	}
	a.tones = kept
}

type harness struct {
	clock  *fakeClock
	audio  *fakeAudio
	seq    *Sequencer
	events []Event
	states []core.PlaybackState
}

func newHarness(style core.BeatStyle, opts Options) *harness {
	h := &harness{clock: &fakeClock{}}
	h.audio = &fakeAudio{clock: h.clock, bpm: 120, style: style}
	opts.OnStep = func(e Event) { h.events = append(h.events, e) }
	opts.OnState = func(s core.PlaybackState) { h.states = append(h.states, s) }
	h.seq = New(h.audio, h.clock, opts)
	return h
}

const step120 = 125 * time.Millisecond

func TestPlayWithoutSequence(t *testing.T) {
	h := newHarness(core.BeatNone, DefaultOptions())
	h.seq.SetSequences([]string{"", "  "})
	if err := h.seq.Play(); !errors.Is(err, ErrNoActiveSequence) {
		t.Fatalf("err = %v, want ErrNoActiveSequence", err)
	}
	if h.seq.State() != core.StateStopped || len(h.states) != 0 {
		t.Errorf("rejected start changed state: %s %v", h.seq.State(), h.states)
	}
}

func TestStartGuard(t *testing.T) {
	h := newHarness(core.BeatNone, DefaultOptions())
	h.seq.SetSequences([]string{"1"})
	h.seq.starting.Store(true)
	if err := h.seq.Play(); !errors.Is(err, ErrStartInProgress) {
		t.Fatalf("err = %v, want ErrStartInProgress", err)
	}
	h.seq.starting.Store(false)
	if err := h.seq.Play(); err != nil {
		t.Fatal(err)
	}
}

func TestStepDuration(t *testing.T) {
	if got := StepDuration(120, 1); got != step120 {
		t.Errorf("StepDuration(120,1) = %v", got)
	}
	if got := StepDuration(120, 2); got != step120/2 {
		t.Errorf("StepDuration(120,2) = %v", got)
	}
}

func TestFreeRunningPlaysThenStops(t *testing.T) {
	h := newHarness(core.BeatNone, DefaultOptions())
	h.seq.SetSequences([]string{"12"})
	if err := h.seq.Play(); err != nil {
		t.Fatal(err)
	}
	if len(h.audio.tones) != 1 || h.audio.tones[0].digit != 1 || h.audio.tones[0].scheduled {
		t.Fatalf("first tone = %+v", h.audio.tones)
	}

	h.clock.Advance(8*step120 - time.Millisecond)
	if len(h.audio.tones) != 1 {
		t.Fatalf("second note early: %+v", h.audio.tones)
	}
	h.clock.Advance(time.Millisecond)
	if len(h.audio.tones) != 2 || h.audio.tones[1].digit != 2 {
		t.Fatalf("second tone = %+v", h.audio.tones)
	}
	if want := time.Duration(float64(8*step120) * 0.9); h.audio.tones[1].duration != want {
		t.Errorf("note length = %v, want %v", h.audio.tones[1].duration, want)
	}

	h.clock.Advance(8 * step120)
	if h.seq.State() != core.StateStopped {
		t.Errorf("state = %s, want stopped after last sequence", h.seq.State())
	}
	want := []core.PlaybackState{core.StatePlaying, core.StateStopped}
	if len(h.states) != 2 || h.states[0] != want[0] || h.states[1] != want[1] {
		t.Errorf("states = %v", h.states)
	}
}

func TestFreeRunningSequencesInOrder(t *testing.T) {
	h := newHarness(core.BeatNone, DefaultOptions())
	h.seq.SetSequences([]string{"3", "", "45"})
	_ = h.seq.Play()
	h.clock.Advance(4 * time.Second)

	var got []int
	for _, tn := range h.audio.tones {
		got = append(got, tn.digit)
	}
	if len(got) != 3 || got[0] != 3 || got[1] != 4 || got[2] != 5 {
		t.Errorf("digits = %v, want [3 4 5]", got)
	}
	if h.events[1].Sequence != 1 {
		t.Errorf("empty sequence not skipped: %+v", h.events[1])
	}
}

func TestLoopRestarts(t *testing.T) {
	opts := DefaultOptions()
	opts.Loop = true
	h := newHarness(core.BeatNone, opts)
	h.seq.SetSequences([]string{"1"})
	_ = h.seq.Play()
	h.clock.Advance(3 * 16 * step120)

	if len(h.audio.tones) != 4 {
		t.Errorf("%d tones after three bars, want 4", len(h.audio.tones))
	}
	if h.seq.State() != core.StatePlaying {
		t.Errorf("looping sequencer stopped")
	}
	if len(h.states) != 1 {
		t.Errorf("loop produced state changes %v", h.states)
	}
}

func TestInvalidDigitConsumesStep(t *testing.T) {
	h := newHarness(core.BeatNone, DefaultOptions())
	h.seq.SetSequences([]string{"1x"})
	_ = h.seq.Play()
	h.clock.Advance(16 * step120)

	if len(h.audio.tones) != 1 {
		t.Errorf("tones = %+v, want only the valid digit", h.audio.tones)
	}
	if len(h.events) != 2 || h.events[1].Valid || h.events[1].Digit != -1 {
		t.Fatalf("events = %+v", h.events)
	}
	if h.events[1].At != 8*step120 {
		t.Errorf("invalid step at %v, want %v", h.events[1].At, 8*step120)
	}
}

func TestPauseResumeFreeRunning(t *testing.T) {
	h := newHarness(core.BeatNone, DefaultOptions())
	h.seq.SetSequences([]string{"12"})
	_ = h.seq.Play()
	h.clock.Advance(500 * time.Millisecond)
	h.seq.Pause()
	if h.seq.State() != core.StatePaused {
		t.Fatalf("state = %s", h.seq.State())
	}

	h.clock.Advance(5 * time.Second)
	if len(h.audio.tones) != 1 {
		t.Fatalf("tones while paused: %+v", h.audio.tones)
	}

	if err := h.seq.Play(); err != nil {
		t.Fatal(err)
	}
	if len(h.audio.tones) != 2 || h.audio.tones[1].digit != 2 {
		t.Errorf("resume did not continue at next step: %+v", h.audio.tones)
	}
}

func TestStopThenPlayNoDuplicates(t *testing.T) {
	h := newHarness(core.BeatNone, DefaultOptions())
	h.seq.SetSequences([]string{"12"})
	_ = h.seq.Play()
	h.seq.Stop()
	_ = h.seq.Play()
	h.clock.Advance(8 * step120)

	at := make(map[time.Duration]int)
	for _, tn := range h.audio.tones {
		at[tn.at]++
	}
	if at[8*step120] != 1 {
		t.Errorf("%d tones at second step, want 1 (stale chain fired)", at[8*step120])
	}
	if h.audio.cancels != 1 {
		t.Errorf("cancels = %d", h.audio.cancels)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := newHarness(core.BeatNone, DefaultOptions())
	h.seq.SetSequences([]string{"1"})
	h.seq.Stop()
	_ = h.seq.Play()
	h.seq.Stop()
	h.seq.Stop()
	if len(h.states) != 2 {
		t.Errorf("states = %v", h.states)
	}
	h.clock.Advance(10 * time.Second)
	if len(h.audio.tones) != 1 {
		t.Errorf("stale callback after stop: %+v", h.audio.tones)
	}
}

func TestBeatLockedBarsAreExact(t *testing.T) {
	opts := DefaultOptions()
	opts.Loop = true
	h := newHarness(core.BeatBasic, opts)
	h.clock.now = 300 * time.Millisecond
	h.seq.SetSequences([]string{"12321", "9x"})
	_ = h.seq.Play()

	bar := 16 * step120
	firstBar := bar
	if len(h.audio.tones) != 5 {
		t.Fatalf("first bar handed %d tones, want 5", len(h.audio.tones))
	}
	offsets := []int{0, 3, 6, 10, 13}
	for i, tn := range h.audio.tones {
		if !tn.scheduled {
			t.Errorf("tone %d not absolute", i)
		}
		if want := firstBar + time.Duration(offsets[i])*step120; tn.at != want {
			t.Errorf("tone %d at %v, want %v", i, tn.at, want)
		}
	}

	h.clock.Advance(4 * bar)
	starts := make(map[int][]time.Duration)
	for _, e := range h.events {
		if e.Step == 0 {
			starts[e.Sequence] = append(starts[e.Sequence], e.At)
		}
	}
	var all []time.Duration
	all = append(all, starts[0]...)
	all = append(all, starts[1]...)
	if len(all) < 4 {
		t.Fatalf("bar starts = %v", starts)
	}
	for _, a := range all {
		if (a-firstBar)%bar != 0 {
			t.Errorf("bar start %v off the grid", a)
		}
	}
	if starts[1][0]-starts[0][0] != bar {
		t.Errorf("second pattern starts %v after first, want %v", starts[1][0]-starts[0][0], bar)
	}
}

func TestBeatLockedHandsOffEarly(t *testing.T) {
	h := newHarness(core.BeatDriving, DefaultOptions())
	h.seq.SetSequences([]string{"1", "2"})
	_ = h.seq.Play()

	bar := 16 * step120
	h.clock.Advance(bar - 60*time.Millisecond)
	if len(h.audio.tones) != 1 {
		t.Fatalf("second bar handed off too early: %+v", h.audio.tones)
	}
	h.clock.Advance(10 * time.Millisecond)
	if len(h.audio.tones) != 2 || h.audio.tones[1].at != bar {
		t.Errorf("second bar = %+v, want tone at %v", h.audio.tones, bar)
	}
}

func TestBeatLockedStopCancelsScheduled(t *testing.T) {
	h := newHarness(core.BeatBasic, DefaultOptions())
	h.seq.SetSequences([]string{"12321"})
	_ = h.seq.Play()
	h.clock.Advance(step120)
	h.seq.Stop()
	if len(h.audio.tones) != 1 {
		t.Errorf("pending tones survived stop: %+v", h.audio.tones)
	}
	_ = h.seq.Play()
	if len(h.audio.tones) != 6 {
		t.Errorf("replay handed %d tones, want 1+5", len(h.audio.tones))
	}
	if got := h.audio.tones[1].at; got != 16*step120 {
		t.Errorf("replayed bar at %v, want next bar line %v", got, 16*step120)
	}
	eventsBefore := len(h.events)
	h.clock.Advance(4 * time.Second)
	if got := len(h.events) - eventsBefore; got != 5 {
		t.Errorf("%d onsets after replay, want 5 (stale highlights fired)", got)
	}
}

func TestBeatLockedPauseRestartsBar(t *testing.T) {
	h := newHarness(core.BeatHalftime, DefaultOptions())
	h.seq.SetSequences([]string{"7", "8"})
	_ = h.seq.Play()
	h.clock.Advance(16*step120 + step120)
	h.seq.Pause()
	h.clock.Advance(time.Second)
	_ = h.seq.Play()

	last := h.audio.tones[len(h.audio.tones)-1]
	if last.digit != 8 {
		t.Errorf("resume played %d, want interrupted bar's 8", last.digit)
	}
	if last.at != 32*step120 {
		t.Errorf("resumed bar at %v, want next bar line %v", last.at, 32*step120)
	}
}
