// Package timer runs an interval workout: a phase state machine driven by a
// one-second countdown, with hooks for cues and screen-wake presence.
//
// A Timer is not safe for concurrent use. Every method and every tick must
// come from the same goroutine, which in the TUI is the Bubble Tea update loop.
package timer

import (
	"errors"
	"io"
	"log/slog"

	"github.com/sadopc/intervals/internal/workout"
)

// ErrSessionActive is returned when the configuration is changed mid-session.
var ErrSessionActive = errors.New("session in progress")

// Notifier plays the cue for a phase. It is called once per entered phase
// and once with Ready when a session completes.
type Notifier interface {
	Notify(Phase)
}

// Presence keeps the screen awake. Both calls must return without waiting.
type Presence interface {
	Hold()
	Release()
}

// Observer receives every Event the timer emits.
type Observer func(Event)

// Option configures a Timer.
type Option func(*Timer)

func WithNotifier(n Notifier) Option { return func(t *Timer) { t.notifier = n } }
func WithPresence(p Presence) Option { return func(t *Timer) { t.presence = p } }
func WithObserver(o Observer) Option { return func(t *Timer) { t.observe = o } }
func WithLogger(l *slog.Logger) Option {
	return func(t *Timer) {
		if l != nil {
			t.log = l
		}
	}
}

// Timer owns the run state of one interval session.
type Timer struct {
	cfg       workout.Config
	machine   Machine
	countdown *Countdown

	notifier Notifier
	presence Presence
	observe  Observer
	log      *slog.Logger

	running  bool
	finished bool
}

// New returns a timer at Ready that will tick on ticks.
func New(cfg workout.Config, ticks TickSource, opts ...Option) *Timer {
	t := &Timer{
		cfg:      cfg.Normalize(),
		machine:  NewMachine(),
		notifier: nopNotifier{},
		presence: nopPresence{},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		finished: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.countdown = NewCountdown(ticks, t.onTick, t.expire)
	return t
}

// Config returns the configuration the next session will use.
func (t *Timer) Config() workout.Config { return t.cfg }

// SetConfig replaces the configuration. It fails while a session is in
// progress, paused or not.
func (t *Timer) SetConfig(cfg workout.Config) error {
	if t.machine.Phase() != Ready {
		return ErrSessionActive
	}
	t.cfg = cfg.Normalize()
	return nil
}

// State returns a snapshot of the run state.
func (t *Timer) State() RunState {
	return RunState{
		Phase:         t.machine.Phase(),
		Round:         t.machine.Round(),
		Rounds:        t.cfg.Rounds,
		TimeLeft:      t.countdown.Remaining(),
		PhaseDuration: t.countdown.Total(),
		Running:       t.running,
		Finished:      t.finished,
	}
}

// Toggle is the single start/pause/resume control.
func (t *Timer) Toggle() {
	switch {
	case t.running:
		t.Pause()
	case t.finished:
		t.Start()
	default:
		t.Resume()
	}
}

// Start begins a new session from the warm-up, abandoning any current one.
func (t *Timer) Start() {
	t.countdown.Clear()
	t.finished = false
	t.running = true
	t.log.Info("session started",
		"warmup", t.cfg.Warmup, "work", t.cfg.Work, "rest", t.cfg.Rest,
		"cooldown", t.cfg.Cooldown, "rounds", t.cfg.Rounds)
	t.presence.Hold()
	t.enter(t.machine.Start(t.cfg))
}

// Pause stops the countdown where it is.
func (t *Timer) Pause() {
	if !t.running {
		return
	}
	t.countdown.Pause()
	t.running = false
	t.presence.Release()
	t.emit(EventPause)
}

// Resume continues a paused session. It is a no-op when running or finished.
func (t *Timer) Resume() {
	if t.running || t.finished {
		return
	}
	t.running = true
	t.countdown.Resume()
	t.presence.Hold()
	t.emit(EventResume)
}

// Reset abandons any session and returns to Ready. It is always safe to call.
func (t *Timer) Reset() {
	t.countdown.Clear()
	t.machine.Reset()
	t.running = false
	t.finished = true
	t.presence.Release()
	t.emit(EventReset)
}

// Visible reports that the display became visible again. The platform may
// have dropped the wake lock while it was hidden, so ask for it again.
func (t *Timer) Visible() {
	if t.running && !t.finished {
		t.presence.Hold()
	}
}

func (t *Timer) enter(p Phase) {
	if p == Ready {
		t.finish()
		return
	}
	d := t.machine.Duration(p)
	t.log.Debug("phase entered", "phase", p.Key(), "round", t.machine.Round(), "seconds", d)
	t.notifier.Notify(p)
	t.countdown.Run(d)
	t.emit(EventPhase)
}

func (t *Timer) expire() {
	t.enter(t.machine.Advance())
}

func (t *Timer) finish() {
	t.countdown.Clear()
	t.machine.Reset()
	t.running = false
	t.finished = true
	t.log.Info("session complete")
	t.notifier.Notify(Ready)
	t.presence.Release()
	t.emit(EventFinished)
}

func (t *Timer) onTick(_, _ int) {
	t.emit(EventTick)
}

func (t *Timer) emit(kind EventKind) {
	if t.observe != nil {
		t.observe(Event{Kind: kind, State: t.State()})
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(Phase) {}

type nopPresence struct{}

func (nopPresence) Hold()    {}
func (nopPresence) Release() {}
