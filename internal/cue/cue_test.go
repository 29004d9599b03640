package cue

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/intervals/internal/timer"
)

type started struct {
	name string
	args []string
}

func newTestPlayer(cfg Config) (*Player, *bytes.Buffer, *[]started) {
	var bell bytes.Buffer
	var runs []started
	p := Load(cfg, &bell, nil)
	p.start = func(name string, args ...string) error {
		runs = append(runs, started{name, args})
		return nil
	}
	return p, &bell, &runs
}

func TestBellWhenNoFiles(t *testing.T) {
	p, bell, runs := newTestPlayer(Config{Enabled: true, Bell: true})

	p.Notify(timer.Work)
	p.Notify(timer.Ready)
	assert.Equal(t, "\a\a", bell.String())
	assert.Empty(t, *runs)
}

func TestDisabledPlaysNothing(t *testing.T) {
	p, bell, runs := newTestPlayer(Config{Enabled: false, Bell: true, Desktop: true})
	p.Notify(timer.Work)
	assert.Empty(t, bell.String())
	assert.Empty(t, *runs)

	p.SetEnabled(true)
	assert.True(t, p.Enabled())
	p.Notify(timer.Rest)
	assert.Equal(t, "\a", bell.String())
}

func TestLoadSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	work := filepath.Join(dir, "work.wav")
	require.NoError(t, os.WriteFile(work, []byte("RIFF"), 0o644))

	p := Load(Config{
		Enabled: true,
		Player:  os.Args[0],
		Files: map[string]string{
			"work":   work,
			"rest":   filepath.Join(dir, "missing.wav"),
			"warmup": dir,
			"sprint": work,
		},
	}, nil, nil)

	assert.Equal(t, map[timer.Phase]string{timer.Work: work}, p.files)
}

func TestNotifyPlaysLoadedFile(t *testing.T) {
	dir := t.TempDir()
	work := filepath.Join(dir, "work.wav")
	require.NoError(t, os.WriteFile(work, []byte("RIFF"), 0o644))

	var bell bytes.Buffer
	p := Load(Config{Enabled: true, Bell: true, Player: os.Args[0], Files: map[string]string{"work": work}}, &bell, nil)
	var runs []started
	p.start = func(name string, args ...string) error {
		runs = append(runs, started{name, args})
		return nil
	}

	p.Notify(timer.Work)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{work}, runs[0].args)
	assert.Empty(t, bell.String(), "a played file replaces the bell")

	p.Notify(timer.Rest)
	assert.Equal(t, "\a", bell.String(), "phases without a file fall back to the bell")
}

func TestPlaybackFailureFallsBackToBell(t *testing.T) {
	p, bell, _ := newTestPlayer(Config{Enabled: true, Bell: true})
	p.files[timer.Work] = "/nowhere.wav"
	p.start = func(string, ...string) error { return errors.New("exec failed") }

	p.Notify(timer.Work)
	assert.Equal(t, "\a", bell.String())
}

func TestResolvePlayerMissing(t *testing.T) {
	_, err := resolvePlayer("definitely-not-an-audio-player")
	assert.ErrorIs(t, err, ErrCueUnavailable)
}

func TestCheckReadable(t *testing.T) {
	assert.ErrorIs(t, checkReadable(filepath.Join(t.TempDir(), "nope")), ErrCueUnavailable)
	assert.ErrorIs(t, checkReadable(t.TempDir()), ErrCueUnavailable)
}

func TestEscapeAppleScript(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "hello"},
		{`say "hello"`, `say \"hello\"`},
		{`path\to\file`, `path\\to\\file`},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeAppleScript(tt.input))
	}
}
