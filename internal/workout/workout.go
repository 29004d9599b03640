// Package workout holds the interval session configuration and the entry
// fields it is computed from.
package workout

import (
	"strconv"
	"strings"

	"github.com/sadopc/intervals/internal/duration"
)

// Config is a validated set of phase durations in seconds plus the round count.
type Config struct {
	Warmup   int
	Work     int
	Rest     int
	Cooldown int
	Rounds   int
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		Warmup:   30,
		Work:     20,
		Rest:     10,
		Cooldown: 30,
		Rounds:   8,
	}
}

// Normalize clamps negative durations to zero and rounds to at least one.
func (c Config) Normalize() Config {
	c.Warmup = max(c.Warmup, 0)
	c.Work = max(c.Work, 0)
	c.Rest = max(c.Rest, 0)
	c.Cooldown = max(c.Cooldown, 0)
	if c.Rounds < 1 {
		c.Rounds = 1
	}
	return c
}

// TotalWorkTime is the time spent in the work/rest cycle. The rest after the
// last round is included because the session always runs it.
func (c Config) TotalWorkTime() int {
	return (c.Work + c.Rest) * c.Rounds
}

// TotalSessionTime is warm-up, all rounds and cool-down.
func (c Config) TotalSessionTime() int {
	return c.Warmup + c.TotalWorkTime() + c.Cooldown
}

// Field is one duration entry box. It remembers the last value parsed from
// keypad-style input separately from the text shown to the user.
type Field struct {
	text    string
	seconds int
	parsed  bool
}

// NewField returns a field showing secs.
func NewField(secs int) Field {
	secs = max(secs, 0)
	return Field{text: duration.Format(secs), seconds: secs, parsed: true}
}

// FieldFromText returns a field holding text as typed, without a parsed value.
func FieldFromText(text string) Field {
	return Field{text: text}
}

// Input applies raw keypad input. Input without digits leaves the field unchanged.
func (f *Field) Input(raw string) {
	secs, ok := duration.ParseDigits(raw)
	if !ok {
		return
	}
	f.seconds = secs
	f.parsed = true
	f.text = raw
}

// Seconds prefers the parsed value and falls back to reading the text as M:SS.
func (f Field) Seconds() int {
	if f.parsed && f.seconds > 0 {
		return f.seconds
	}
	return duration.ParseColon(f.text)
}

// Text is the field formatted as M:SS.
func (f Field) Text() string {
	return duration.Format(f.Seconds())
}

// Inputs are the raw values of the configuration form.
type Inputs struct {
	Warmup   Field
	Work     Field
	Rest     Field
	Cooldown Field
	Rounds   string
}

// InputsFrom fills the form fields from an existing configuration.
func InputsFrom(c Config) Inputs {
	return Inputs{
		Warmup:   NewField(c.Warmup),
		Work:     NewField(c.Work),
		Rest:     NewField(c.Rest),
		Cooldown: NewField(c.Cooldown),
		Rounds:   strconv.Itoa(c.Rounds),
	}
}

// Recompute derives a configuration from the form. Unparsable rounds fall
// back to one.
func Recompute(in Inputs) Config {
	return Config{
		Warmup:   in.Warmup.Seconds(),
		Work:     in.Work.Seconds(),
		Rest:     in.Rest.Seconds(),
		Cooldown: in.Cooldown.Seconds(),
		Rounds:   ParseRounds(in.Rounds),
	}
}

// ParseRounds reads the leading integer of s as a round count, so "3x" is 3
// and "2.5" is 2. Anything without a positive leading integer is one round.
func ParseRounds(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[0] == '+' || s[0] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return 1
	}
	return n
}
