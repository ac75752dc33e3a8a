package sequencer

import (
	"sort"
	"sync"
	"time"
)

// LoopScheduler fires callbacks through post, typically FrameLoop.Post, so sequencer
// callbacks run on the goroutine that owns the visual state
// A nil post runs callbacks on the timer goroutine
type LoopScheduler struct {
	post func(func()) bool
}

// NewLoopScheduler creates a scheduler that forwards fired timers to post
func NewLoopScheduler(post func(func()) bool) *LoopScheduler {
	return &LoopScheduler{post: post}
}

// AfterFunc implements Scheduler
func (l *LoopScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	if l.post == nil {
		return time.AfterFunc(d, fn)
	}
	return time.AfterFunc(d, func() {
		l.post(fn)
	})
}

// ManualScheduler fires timers only when Advance moves its clock past their deadline
// Offline rendering drives it from the audio clock so playback is sample-exact and repeatable
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	owner *ManualScheduler
	at    time.Duration
	seq   uint64
	fn    func()
	done  bool
}

// Stop implements Timer
func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// NewManualScheduler creates a scheduler whose clock starts at zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements Scheduler
func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{owner: m, at: m.now + max(d, 0), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Now returns the scheduler clock
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of timers not yet fired or stopped
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves the clock to to, firing due timers in deadline order
// Timers created by a callback fire in the same call when already due
func (m *ManualScheduler) Advance(to time.Duration) {
	for {
		m.mu.Lock()
		next := m.nextDueLocked(to)
		if next == nil {
			if to > m.now {
				m.now = to
			}
			m.mu.Unlock()
			return
		}
		next.done = true
		if next.at > m.now {
			m.now = next.at
		}
		m.mu.Unlock()
		next.fn()
	}
}

func (m *ManualScheduler) nextDueLocked(to time.Duration) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	m.timers = live
	sort.Slice(live, func(i, j int) bool {
		if live[i].at != live[j].at {
			return live[i].at < live[j].at
		}
		return live[i].seq < live[j].seq
	})
	if len(live) == 0 || live[0].at > to {
		return nil
	}
	return live[0]
}
