package workout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotals(t *testing.T) {
	cfg := Config{Warmup: 5, Work: 20, Rest: 10, Cooldown: 5, Rounds: 2}
	assert.Equal(t, 60, cfg.TotalWorkTime())
	assert.Equal(t, 70, cfg.TotalSessionTime())
}

func TestNormalize(t *testing.T) {
	cfg := Config{Warmup: -1, Work: 10, Rest: -5, Cooldown: 0, Rounds: 0}.Normalize()
	assert.Equal(t, Config{Warmup: 0, Work: 10, Rest: 0, Cooldown: 0, Rounds: 1}, cfg)
}

func TestFieldInput(t *testing.T) {
	var f Field
	f.Input("530")
	assert.Equal(t, 330, f.Seconds())
	assert.Equal(t, "5:30", f.Text())

	// Input without digits keeps the prior value.
	f.Input("")
	assert.Equal(t, 330, f.Seconds())
	f.Input("::")
	assert.Equal(t, 330, f.Seconds())

	f.Input("190")
	assert.Equal(t, 150, f.Seconds())
	assert.Equal(t, "2:30", f.Text())
}

func TestFieldFallsBackToText(t *testing.T) {
	f := FieldFromText("2:05")
	assert.Equal(t, 125, f.Seconds())

	f = FieldFromText("nonsense")
	assert.Equal(t, 0, f.Seconds())
}

func TestRecompute(t *testing.T) {
	in := Inputs{
		Warmup:   FieldFromText("0:05"),
		Work:     NewField(20),
		Rest:     FieldFromText("0:10"),
		Cooldown: NewField(5),
		Rounds:   "2",
	}
	cfg := Recompute(in)
	assert.Equal(t, Config{Warmup: 5, Work: 20, Rest: 10, Cooldown: 5, Rounds: 2}, cfg)
}

func TestParseRounds(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"4", 4},
		{" 12 ", 12},
		{"0", 1},
		{"-3", 1},
		{"abc", 1},
		{"", 1},
		{"3x", 3},
		{"2.5", 2},
		{"+5", 5},
		{"x3", 1},
		{"99999999999999999999", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRounds(tt.in), "ParseRounds(%q)", tt.in)
	}
}

func TestInputsFromRoundTrip(t *testing.T) {
	cfg := Config{Warmup: 90, Work: 45, Rest: 15, Cooldown: 60, Rounds: 6}
	assert.Equal(t, cfg, Recompute(InputsFrom(cfg)))
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.Equal(t, cfg, cfg.Normalize())
}
