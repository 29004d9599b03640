package timer

// Phase is one segment of the workout cycle.
type Phase int

const (
	Ready Phase = iota
	Warmup
	Work
	Rest
	Cooldown
)

var phaseTitles = map[Phase]string{
	Ready:    "Ready",
	Warmup:   "Warm Up",
	Work:     "Work",
	Rest:     "Rest",
	Cooldown: "Cooldown",
}

var phaseKeys = map[Phase]string{
	Ready:    "ready",
	Warmup:   "warmup",
	Work:     "work",
	Rest:     "rest",
	Cooldown: "cooldown",
}

// Phases lists every phase in session order, Ready last.
var Phases = []Phase{Warmup, Work, Rest, Cooldown, Ready}

func (p Phase) String() string {
	if s, ok := phaseTitles[p]; ok {
		return s
	}
	return "Unknown"
}

// Key is the lower-case identifier used in config files and logs.
func (p Phase) Key() string {
	return phaseKeys[p]
}

// ParsePhase maps a Key back to its phase.
func ParsePhase(key string) (Phase, bool) {
	for p, k := range phaseKeys {
		if k == key {
			return p, true
		}
	}
	return Ready, false
}

// InRound reports whether the phase belongs to a numbered round.
func (p Phase) InRound() bool {
	return p == Work || p == Rest
}

// EventKind identifies what changed in a timer Event.
type EventKind string

const (
	EventTick     EventKind = "tick"
	EventPhase    EventKind = "phase"
	EventPause    EventKind = "pause"
	EventResume   EventKind = "resume"
	EventFinished EventKind = "finished"
	EventReset    EventKind = "reset"
)

// RunState is a read-only snapshot of the timer.
type RunState struct {
	Phase         Phase
	Round         int
	Rounds        int
	TimeLeft      int
	PhaseDuration int
	Running       bool
	Finished      bool
}

// Progress is the elapsed fraction of the current phase, in [0, 1].
func (s RunState) Progress() float64 {
	if s.PhaseDuration <= 0 {
		return 0
	}
	p := 1 - float64(s.TimeLeft)/float64(s.PhaseDuration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Event is delivered to observers on every tick and state change.
type Event struct {
	Kind  EventKind
	State RunState
}
