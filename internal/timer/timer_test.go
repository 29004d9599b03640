package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/intervals/internal/workout"
)

// fakeTicker fires only when the test says so.
type fakeTicker struct {
	onTick   func()
	active   bool
	starts   int
	overlaps int
	interval time.Duration
}

func (f *fakeTicker) Start(interval time.Duration, onTick func()) {
	if f.active {
		f.overlaps++
	}
	f.active = true
	f.onTick = onTick
	f.interval = interval
	f.starts++
}

func (f *fakeTicker) Stop() {
	f.active = false
	f.onTick = nil
}

func (f *fakeTicker) tick() bool {
	if !f.active {
		return false
	}
	f.onTick()
	return true
}

type recordingNotifier struct {
	phases []Phase
}

func (r *recordingNotifier) Notify(p Phase) { r.phases = append(r.phases, p) }

type countingPresence struct {
	holds    int
	releases int
}

func (c *countingPresence) Hold()    { c.holds++ }
func (c *countingPresence) Release() { c.releases++ }

type harness struct {
	timer    *Timer
	ticks    *fakeTicker
	notifier *recordingNotifier
	presence *countingPresence
	events   []Event
}

func newHarness(cfg workout.Config) *harness {
	h := &harness{
		ticks:    &fakeTicker{},
		notifier: &recordingNotifier{},
		presence: &countingPresence{},
	}
	h.timer = New(cfg, h.ticks,
		WithNotifier(h.notifier),
		WithPresence(h.presence),
		WithObserver(func(e Event) { h.events = append(h.events, e) }),
	)
	return h
}

// runToEnd ticks until the session finishes and returns the tick count.
func (h *harness) runToEnd(t *testing.T) int {
	t.Helper()
	n := 0
	for h.ticks.tick() {
		n++
		require.Less(t, n, 100000, "session never finished")
	}
	return n
}

func (h *harness) entered() []RunState {
	var out []RunState
	for _, e := range h.events {
		if e.Kind == EventPhase {
			out = append(out, e.State)
		}
	}
	return out
}

// ============================================================
// Session sequencing
// ============================================================

func TestFullSessionSequence(t *testing.T) {
	h := newHarness(workout.Config{Warmup: 5, Work: 20, Rest: 10, Cooldown: 5, Rounds: 2})

	h.timer.Toggle()
	ticks := h.runToEnd(t)
	assert.Equal(t, 70, ticks)

	type step struct {
		phase Phase
		round int
		secs  int
	}
	var got []step
	for _, s := range h.entered() {
		got = append(got, step{s.Phase, s.Round, s.PhaseDuration})
	}
	assert.Equal(t, []step{
		{Warmup, 1, 5},
		{Work, 1, 20},
		{Rest, 1, 10},
		{Work, 2, 20},
		{Rest, 2, 10},
		{Cooldown, 2, 5},
	}, got)

	assert.Equal(t, []Phase{Warmup, Work, Rest, Work, Rest, Cooldown, Ready}, h.notifier.phases)

	st := h.timer.State()
	assert.Equal(t, Ready, st.Phase)
	assert.Equal(t, 1, st.Round)
	assert.True(t, st.Finished)
	assert.False(t, st.Running)
	assert.Equal(t, EventFinished, h.events[len(h.events)-1].Kind)
}

func TestMachineTransitionCount(t *testing.T) {
	for rounds := 1; rounds <= 6; rounds++ {
		m := NewMachine()
		p := m.Start(workout.Config{Warmup: 1, Work: 1, Rest: 1, Cooldown: 1, Rounds: rounds})
		require.Equal(t, Warmup, p)

		n := 0
		for p != Ready {
			p = m.Advance()
			n++
		}
		assert.Equal(t, 2+rounds*2, n, "rounds=%d", rounds)
	}
}

func TestMachineRoundStaysInRange(t *testing.T) {
	m := NewMachine()
	p := m.Start(workout.Config{Warmup: 1, Work: 1, Rest: 1, Cooldown: 1, Rounds: 3})
	for p != Ready {
		assert.GreaterOrEqual(t, m.Round(), 1)
		assert.LessOrEqual(t, m.Round(), 3)
		p = m.Advance()
	}
	assert.Equal(t, 1, m.Round())
}

func TestMachineAdvanceFromReady(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, Ready, m.Advance())
	assert.Equal(t, 1, m.Round())
}

func TestTickSourceInterval(t *testing.T) {
	h := newHarness(workout.Default())
	h.timer.Start()
	assert.Equal(t, time.Second, h.ticks.interval)
}

// ============================================================
// Zero-duration phases
// ============================================================

func TestZeroWorkNeverObserved(t *testing.T) {
	h := newHarness(workout.Config{Warmup: 3, Work: 0, Rest: 2, Cooldown: 1, Rounds: 3})
	h.timer.Start()
	h.runToEnd(t)

	for _, e := range h.events {
		assert.NotEqual(t, Work, e.State.Phase, "event %s showed Work", e.Kind)
	}
	assert.Equal(t, []Phase{Warmup, Rest, Rest, Rest, Cooldown, Ready}, h.notifier.phases)
}

func TestZeroWarmupStartsWithWork(t *testing.T) {
	h := newHarness(workout.Config{Warmup: 0, Work: 4, Rest: 0, Cooldown: 0, Rounds: 2})
	h.timer.Start()

	st := h.timer.State()
	assert.Equal(t, Work, st.Phase)
	assert.Equal(t, 4, st.TimeLeft)

	ticks := h.runToEnd(t)
	assert.Equal(t, 8, ticks)
	assert.Equal(t, []Phase{Work, Work, Ready}, h.notifier.phases)
}

func TestAllZeroConfigFinishesImmediately(t *testing.T) {
	h := newHarness(workout.Config{Rounds: 50})
	h.timer.Start()

	st := h.timer.State()
	assert.True(t, st.Finished)
	assert.False(t, st.Running)
	assert.Equal(t, Ready, st.Phase)
	assert.Equal(t, []Phase{Ready}, h.notifier.phases)
	assert.Equal(t, 0, h.ticks.starts)
	assert.Empty(t, h.entered())
}

func TestZeroWorkAndRestSkipsAllRounds(t *testing.T) {
	h := newHarness(workout.Config{Work: 0, Rest: 0, Cooldown: 5, Rounds: 1_000_000_000})

	start := time.Now()
	h.timer.Start()
	assert.Less(t, time.Since(start), time.Second)

	st := h.timer.State()
	assert.Equal(t, Cooldown, st.Phase)
	assert.Equal(t, 1_000_000_000, st.Round)
	assert.Equal(t, 5, st.TimeLeft)
	assert.Equal(t, []Phase{Cooldown}, h.notifier.phases)

	assert.Equal(t, 5, h.runToEnd(t))
	assert.True(t, h.timer.State().Finished)
}

func TestMachineZeroCycleSkipsToCooldown(t *testing.T) {
	m := NewMachine()
	p := m.Start(workout.Config{Warmup: 2, Cooldown: 3, Rounds: 7})
	require.Equal(t, Warmup, p)

	assert.Equal(t, Cooldown, m.Advance())
	assert.Equal(t, 7, m.Round())
	assert.Equal(t, Ready, m.Advance())
	assert.Equal(t, 1, m.Round())
}

func TestCountdownTicking(t *testing.T) {
	ticks := &fakeTicker{}
	expired := 0
	c := NewCountdown(ticks, nil, func() { expired++ })
	assert.False(t, c.Ticking())

	c.Run(2)
	assert.True(t, c.Ticking())
	c.Pause()
	assert.False(t, c.Ticking())
	assert.Equal(t, 2, c.Remaining())

	c.Resume()
	require.True(t, ticks.tick())
	require.True(t, ticks.tick())
	assert.False(t, c.Ticking())
	assert.Equal(t, 0, c.Remaining())
	assert.Equal(t, 1, expired)

	c.Resume()
	assert.False(t, c.Ticking(), "nothing left to count")
}

// ============================================================
// Pause / resume / toggle
// ============================================================

func TestPauseResumeKeepsTimeLeft(t *testing.T) {
	h := newHarness(workout.Config{Warmup: 10, Work: 10, Rest: 10, Cooldown: 10, Rounds: 1})
	h.timer.Start()
	h.ticks.tick()
	h.ticks.tick()

	before := h.timer.State().TimeLeft
	h.timer.Pause()
	assert.False(t, h.ticks.active)
	assert.False(t, h.ticks.tick(), "paused timer must not tick")
	h.timer.Resume()

	st := h.timer.State()
	assert.Equal(t, before, st.TimeLeft)
	assert.Equal(t, 8, st.TimeLeft)
	assert.True(t, st.Running)
}

func TestToggleCycle(t *testing.T) {
	h := newHarness(workout.Config{Warmup: 5, Work: 5, Rest: 5, Cooldown: 5, Rounds: 1})

	h.timer.Toggle()
	assert.True(t, h.timer.State().Running)

	h.timer.Toggle()
	st := h.timer.State()
	assert.False(t, st.Running)
	assert.False(t, st.Finished)
	assert.Equal(t, Warmup, st.Phase)

	h.timer.Toggle()
	assert.True(t, h.timer.State().Running)
	assert.Equal(t, Warmup, h.timer.State().Phase)

	// Only the first toggle entered a phase.
	assert.Equal(t, []Phase{Warmup}, h.notifier.phases)
}

func TestToggleAfterFinishStartsNewSession(t *testing.T) {
	h := newHarness(workout.Config{Warmup: 1, Work: 1, Rest: 1, Cooldown: 1, Rounds: 1})
	h.timer.Toggle()
	h.runToEnd(t)
	require.True(t, h.timer.State().Finished)

	h.timer.Toggle()
	st := h.timer.State()
	assert.Equal(t, Warmup, st.Phase)
	assert.True(t, st.Running)
	assert.False(t, st.Finished)
}

func TestRapidDoubleStartKeepsOneSchedule(t *testing.T) {
	h := newHarness(workout.Config{Warmup: 10, Work: 10, Rest: 10, Cooldown: 10, Rounds: 1})
	h.timer.Start()
	h.timer.Start()
	h.timer.Resume()
	h.timer.Resume()

	assert.Equal(t, 0, h.ticks.overlaps)
	h.ticks.tick()
	assert.Equal(t, 9, h.timer.State().TimeLeft)
}

func TestRapidToggleNeverOverlaps(t *testing.T) {
	h := newHarness(workout.Config{Warmup: 10, Work: 10, Rest: 10, Cooldown: 10, Rounds: 1})
	for i := 0; i < 9; i++ {
		h.timer.Toggle()
	}
	assert.Equal(t, 0, h.ticks.overlaps)
	assert.True(t, h.timer.State().Running)
	h.ticks.tick()
	assert.Equal(t, 9, h.timer.State().TimeLeft)
}

func TestResumeWhenFinishedIsNoop(t *testing.T) {
	h := newHarness(workout.Default())
	h.timer.Resume()
	assert.False(t, h.timer.State().Running)
	assert.Equal(t, 0, h.ticks.starts)
}

// ============================================================
// Reset
// ============================================================

func TestResetFromAnyState(t *testing.T) {
	cfg := workout.Config{Warmup: 2, Work: 3, Rest: 2, Cooldown: 2, Rounds: 2}
	for ticks := 0; ticks <= 14; ticks++ {
		for _, paused := range []bool{false, true} {
			h := newHarness(cfg)
			h.timer.Start()
			for i := 0; i < ticks; i++ {
				h.ticks.tick()
			}
			if paused {
				h.timer.Pause()
			}
			h.timer.Reset()

			st := h.timer.State()
			assert.Equal(t, Ready, st.Phase, "ticks=%d paused=%v", ticks, paused)
			assert.Equal(t, 1, st.Round)
			assert.True(t, st.Finished)
			assert.False(t, st.Running)
			assert.Equal(t, 0, st.TimeLeft)
			assert.False(t, h.ticks.tick(), "tick fired after reset")
		}
	}
}

func TestResetBeforeStart(t *testing.T) {
	h := newHarness(workout.Default())
	h.timer.Reset()
	st := h.timer.State()
	assert.Equal(t, RunState{Phase: Ready, Round: 1, Rounds: 8, Finished: true}, st)
}

// ============================================================
// Configuration
// ============================================================

func TestSetConfigWhileActive(t *testing.T) {
	h := newHarness(workout.Default())
	h.timer.Start()
	h.timer.Pause()

	err := h.timer.SetConfig(workout.Config{Work: 1, Rounds: 1})
	assert.ErrorIs(t, err, ErrSessionActive)

	h.timer.Reset()
	require.NoError(t, h.timer.SetConfig(workout.Config{Work: 1, Rounds: 0}))
	assert.Equal(t, 1, h.timer.Config().Rounds)
}

// ============================================================
// Presence
// ============================================================

func TestPresenceLifecycle(t *testing.T) {
	h := newHarness(workout.Config{Warmup: 2, Work: 0, Rest: 0, Cooldown: 0, Rounds: 1})

	h.timer.Start()
	assert.Equal(t, 1, h.presence.holds)

	h.timer.Visible()
	assert.Equal(t, 2, h.presence.holds)

	h.timer.Pause()
	assert.Equal(t, 1, h.presence.releases)

	h.timer.Visible()
	assert.Equal(t, 2, h.presence.holds, "no wake lock while paused")

	h.timer.Resume()
	assert.Equal(t, 3, h.presence.holds)

	h.runToEnd(t)
	assert.Equal(t, 2, h.presence.releases)

	h.timer.Visible()
	assert.Equal(t, 3, h.presence.holds, "no wake lock once finished")

	h.timer.Reset()
	assert.Equal(t, 3, h.presence.releases)
}

// ============================================================
// Snapshots
// ============================================================

func TestTickEventsCarrySnapshot(t *testing.T) {
	h := newHarness(workout.Config{Warmup: 3, Work: 1, Rest: 1, Cooldown: 1, Rounds: 1})
	h.timer.Start()
	h.ticks.tick()

	last := h.events[len(h.events)-1]
	assert.Equal(t, EventTick, last.Kind)
	assert.Equal(t, RunState{Phase: Warmup, Round: 1, Rounds: 1, TimeLeft: 2, PhaseDuration: 3, Running: true}, last.State)
}

func TestTimeLeftNeverExceedsDuration(t *testing.T) {
	h := newHarness(workout.Config{Warmup: 2, Work: 3, Rest: 1, Cooldown: 2, Rounds: 2})
	h.timer.Start()
	h.runToEnd(t)
	for _, e := range h.events {
		assert.LessOrEqual(t, e.State.TimeLeft, e.State.PhaseDuration)
		if e.State.Finished {
			assert.Equal(t, Ready, e.State.Phase)
			assert.False(t, e.State.Running)
		}
	}
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, RunState{}.Progress())
	assert.Equal(t, 0.5, RunState{TimeLeft: 5, PhaseDuration: 10}.Progress())
	assert.Equal(t, 1.0, RunState{TimeLeft: 0, PhaseDuration: 10}.Progress())
}

func TestPhaseNames(t *testing.T) {
	for _, p := range Phases {
		got, ok := ParsePhase(p.Key())
		assert.True(t, ok)
		assert.Equal(t, p, got)
		assert.NotEqual(t, "Unknown", p.String())
	}
	_, ok := ParsePhase("sprint")
	assert.False(t, ok)
	assert.Equal(t, "Warm Up", Warmup.String())
}
