package sequencer

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/soundbox/core"
	"github.com/lixenwraith/soundbox/palindrome"
	"github.com/lixenwraith/soundbox/parameter"
)

var (
	// ErrNoActiveSequence rejects Play when every sequence is empty
	ErrNoActiveSequence = errors.New("no active sequence")
	// ErrStartInProgress rejects a Play racing another Play
	ErrStartInProgress = errors.New("start already in progress")
)

// Audio is the tone sink and clock the sequencer schedules against
type Audio interface {
	// PlayTone sounds digit for duration; with scheduled set, at is an absolute audio clock time
	PlayTone(digit int, duration, at time.Duration, scheduled bool)
	BPM() int
	BeatStyle() core.BeatStyle
	// Now returns the audio clock
	Now() time.Duration
}

// Canceler is implemented by sinks able to drop tones not yet started
type Canceler interface {
	CancelScheduled()
}

// Timer is a pending callback; *time.Timer satisfies it
type Timer interface {
	Stop() bool
}

// Scheduler runs fn after d on the host's callback goroutine
// fn must not run synchronously inside AfterFunc
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Event reports a note onset, fired when the note sounds
type Event struct {
	Sequence int // index into the active sequences
	Step     int // index into the allocated pattern
	Digit    int // -1 for a rest or non-digit
	Valid    bool
	At       time.Duration // audio clock time of the onset
	Duration time.Duration
}

// Options configures a Sequencer
type Options struct {
	TempoMultiplier float64
	Lookahead       time.Duration // how early a beat-locked bar is handed to the audio sink
	NoteLength      float64       // sounding fraction of each note's slot, (0,1]
	Loop            bool

	OnStep  func(Event)
	OnState func(core.PlaybackState)
	Logger  *slog.Logger
}

// DefaultOptions returns stock sequencer settings
func DefaultOptions() Options {
	return Options{
		TempoMultiplier: parameter.DefaultTempoMul,
		Lookahead:       parameter.DefaultLookahead,
		NoteLength:      parameter.DefaultNoteLength,
	}
}

// Sequencer is the transport state machine over the active sequences
// Every scheduled callback carries the generation it was created under; Stop and Pause bump the
// generation so stale callbacks fall through without effect
type Sequencer struct {
	audio  Audio
	sched  Scheduler
	opts   Options
	logger *slog.Logger

	starting atomic.Bool

	mu         sync.Mutex
	sequences  []string
	state      core.PlaybackState
	generation uint64

	seqIndex  int
	stepIndex int
	steps     []Step
	barSeq    int // sequence of the bar currently sounding in beat-locked mode

	nextBeatTime time.Duration
	timers       []Timer
	current      Event
}

// New creates a stopped sequencer
func New(audio Audio, sched Scheduler, opts Options) *Sequencer {
	if opts.TempoMultiplier <= 0 {
		opts.TempoMultiplier = parameter.DefaultTempoMul
	}
	opts.TempoMultiplier = clampTempo(opts.TempoMultiplier)
	if opts.NoteLength <= 0 || opts.NoteLength > 1 {
		opts.NoteLength = parameter.DefaultNoteLength
	}
	if opts.Lookahead < 0 {
		opts.Lookahead = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sequencer{
		audio:   audio,
		sched:   sched,
		opts:    opts,
		logger:  logger,
		state:   core.StateStopped,
		current: Event{Digit: -1},
	}
}

func clampTempo(m float64) float64 {
	if m < parameter.MinTempoMul {
		return parameter.MinTempoMul
	}
	if m > parameter.MaxTempoMul {
		return parameter.MaxTempoMul
	}
	return m
}

// StepDuration returns the length of one step at bpm and tempo multiplier
func StepDuration(bpm int, tempoMul float64) time.Duration {
	return parameter.StepDuration(bpm, tempoMul)
}

// SetSequences replaces the sequence list; empty entries are dropped
// A running pattern finishes; the new list applies from the next pattern
func (s *Sequencer) SetSequences(seqs []string) {
	active := palindrome.Active(seqs)
	s.mu.Lock()
	s.sequences = active
	if s.seqIndex >= len(active) {
		s.seqIndex = 0
		s.stepIndex = 0
		s.steps = nil
	}
	s.mu.Unlock()
}

// Sequences returns a copy of the active sequences
func (s *Sequencer) Sequences() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sequences...)
}

// SetLoop toggles restarting from the first sequence after the last
func (s *Sequencer) SetLoop(loop bool) {
	s.mu.Lock()
	s.opts.Loop = loop
	s.mu.Unlock()
}

// Loop reports the loop flag
func (s *Sequencer) Loop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Loop
}

// SetTempoMultiplier scales the step rate; applies from the next step or bar
func (s *Sequencer) SetTempoMultiplier(m float64) {
	s.mu.Lock()
	s.opts.TempoMultiplier = clampTempo(m)
	s.mu.Unlock()
}

// State returns the transport state
func (s *Sequencer) State() core.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the most recent onset event
func (s *Sequencer) Current() Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Generation returns the cancellation generation, for diagnostics
func (s *Sequencer) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Play starts from stopped or resumes from paused
// Free-running resumes at the paused step; beat-locked restarts the interrupted bar on the next bar line
func (s *Sequencer) Play() error {
	if !s.starting.CompareAndSwap(false, true) {
		return ErrStartInProgress
	}
	defer s.starting.Store(false)

	s.mu.Lock()
	switch s.state {
	case core.StatePlaying:
		s.mu.Unlock()
		return nil
	case core.StateStopped:
		if len(s.sequences) == 0 {
			s.mu.Unlock()
			return ErrNoActiveSequence
		}
		s.seqIndex, s.stepIndex, s.steps = 0, 0, nil
	case core.StatePaused:
		if len(s.sequences) == 0 {
			s.mu.Unlock()
			return ErrNoActiveSequence
		}
	}

	s.generation++
	gen := s.generation
	s.state = core.StatePlaying
	if s.audio.BeatStyle().Locked() {
		s.nextBeatTime = s.alignToBar(s.audio.Now())
	}
	s.logger.Debug("sequencer play", "sequence", s.seqIndex, "step", s.stepIndex, "generation", gen)
	onState := s.opts.OnState
	s.mu.Unlock()

	if onState != nil {
		onState(core.StatePlaying)
	}
	s.tick(gen)
	return nil
}

// Pause halts playback keeping the position
func (s *Sequencer) Pause() {
	s.mu.Lock()
	if s.state != core.StatePlaying {
		s.mu.Unlock()
		return
	}
	s.generation++
	s.state = core.StatePaused
	s.stopTimersLocked()
	if s.audio.BeatStyle().Locked() {
		s.seqIndex, s.stepIndex, s.steps = s.barSeq, 0, nil
	}
	onState := s.opts.OnState
	s.mu.Unlock()

	s.cancelAudio()
	if onState != nil {
		onState(core.StatePaused)
	}
}

// Stop halts playback and rewinds to the first sequence
func (s *Sequencer) Stop() {
	s.mu.Lock()
	if s.state == core.StateStopped {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	onState := s.opts.OnState
	s.mu.Unlock()

	s.cancelAudio()
	if onState != nil {
		onState(core.StateStopped)
	}
}

// Toggle plays when not playing and pauses otherwise
func (s *Sequencer) Toggle() error {
	if s.State() == core.StatePlaying {
		s.Pause()
		return nil
	}
	return s.Play()
}

func (s *Sequencer) stopLocked() {
	s.generation++
	s.state = core.StateStopped
	s.stopTimersLocked()
	s.seqIndex, s.stepIndex, s.steps = 0, 0, nil
	s.current = Event{Digit: -1}
}

func (s *Sequencer) stopTimersLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = s.timers[:0]
}

func (s *Sequencer) cancelAudio() {
	if c, ok := s.audio.(Canceler); ok {
		c.CancelScheduled()
	}
}

// alignToBar rounds t up to the next bar boundary of the audio clock,
// the grid the drum track counts its 16 steps on
func (s *Sequencer) alignToBar(t time.Duration) time.Duration {
	bar := s.stepDuration() * parameter.StepsPerBar
	if bar <= 0 {
		return t
	}
	n := (t + bar - 1) / bar
	return n * bar
}

func (s *Sequencer) stepDuration() time.Duration {
	return StepDuration(s.audio.BPM(), s.opts.TempoMultiplier)
}

// schedule registers fn under generation gen
func (s *Sequencer) schedule(d time.Duration, gen uint64, fn func(uint64)) {
	if d < 0 {
		d = 0
	}
	s.timers = append(s.timers, s.sched.AfterFunc(d, func() { fn(gen) }))
}

// resolveLocked loads the pattern at seqIndex, wrapping or stopping past the end
// Returns false when playback has ended
func (s *Sequencer) resolveLocked() bool {
	if s.steps != nil {
		return true
	}
	if s.seqIndex >= len(s.sequences) {
		if !s.opts.Loop || len(s.sequences) == 0 {
			return false
		}
		s.seqIndex = 0
		s.logger.Debug("sequencer loop")
	}
	s.steps = Allocate(s.sequences[s.seqIndex])
	s.stepIndex = 0
	return true
}

// tick is the single scheduling entry point; gen guards against stale callbacks
func (s *Sequencer) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.state != core.StatePlaying {
		s.mu.Unlock()
		return
	}
	// Older entries are generation-guarded, so forgetting them is safe
	s.timers = s.timers[:0]

	if !s.resolveLocked() {
		s.stopLocked()
		onState := s.opts.OnState
		s.mu.Unlock()
		s.logger.Debug("sequencer finished")
		if onState != nil {
			onState(core.StateStopped)
		}
		return
	}

	var ev *Event
	if s.audio.BeatStyle().Locked() {
		s.scheduleBarLocked(gen)
	} else {
		e := s.playStepLocked(gen)
		ev = &e
	}
	onStep := s.opts.OnStep
	s.mu.Unlock()

	if ev != nil && onStep != nil {
		onStep(*ev)
	}
}

// playStepLocked sounds the current step now and schedules the next tick after its duration
func (s *Sequencer) playStepLocked(gen uint64) Event {
	stepDur := s.stepDuration()
	st := s.steps[s.stepIndex]
	slot := time.Duration(st.Duration) * stepDur

	ev := Event{
		Sequence: s.seqIndex,
		Step:     s.stepIndex,
		Digit:    st.Digit,
		Valid:    st.Valid(),
		At:       s.audio.Now(),
		Duration: slot,
	}
	if ev.Valid {
		s.audio.PlayTone(st.Digit, s.noteLength(slot), 0, false)
	}
	s.current = ev

	s.stepIndex++
	if s.stepIndex >= len(s.steps) {
		s.seqIndex++
		s.stepIndex = 0
		s.steps = nil
	}
	s.schedule(slot, gen, s.tick)
	return ev
}

// scheduleBarLocked hands a whole bar to the audio sink at absolute times and schedules the bar end
func (s *Sequencer) scheduleBarLocked(gen uint64) {
	stepDur := s.stepDuration()
	now := s.audio.Now()
	if s.nextBeatTime < now {
		s.nextBeatTime = s.alignToBar(now)
	}
	barStart := s.nextBeatTime
	s.barSeq = s.seqIndex

	for i, st := range s.steps {
		at := barStart + time.Duration(st.Offset)*stepDur
		slot := time.Duration(st.Duration) * stepDur
		if st.Valid() {
			s.audio.PlayTone(st.Digit, s.noteLength(slot), at, true)
		}
		ev := Event{
			Sequence: s.seqIndex,
			Step:     i,
			Digit:    st.Digit,
			Valid:    st.Valid(),
			At:       at,
			Duration: slot,
		}
		s.schedule(at-now, gen, func(g uint64) { s.emit(g, ev) })
	}

	s.nextBeatTime = barStart + parameter.StepsPerBar*stepDur
	s.seqIndex++
	s.stepIndex = 0
	s.steps = nil

	s.schedule(s.nextBeatTime-s.opts.Lookahead-now, gen, s.tick)
	s.logger.Debug("bar scheduled", "sequence", s.barSeq, "start", barStart, "next", s.nextBeatTime)
}

// emit delivers a pre-scheduled onset if its generation is still live
func (s *Sequencer) emit(gen uint64, ev Event) {
	s.mu.Lock()
	if gen != s.generation || s.state != core.StatePlaying {
		s.mu.Unlock()
		return
	}
	s.current = ev
	onStep := s.opts.OnStep
	s.mu.Unlock()

	if onStep != nil {
		onStep(ev)
	}
}

func (s *Sequencer) noteLength(slot time.Duration) time.Duration {
	return time.Duration(float64(slot) * s.opts.NoteLength)
}
