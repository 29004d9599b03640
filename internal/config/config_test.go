package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/intervals/internal/workout"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, workout.Default(), cfg.Session())
	assert.True(t, cfg.Sounds.Enabled)
	assert.True(t, cfg.WakeLock)
	assert.True(t, cfg.History)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
workout:
  warmup: "1:00"
  work: "130"
  rest: "15"
  cooldown: "0:00"
  rounds: 3
sounds:
  enabled: false
  desktop: true
  files:
    work: /tmp/work.wav
wake_lock: false
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, workout.Config{Warmup: 60, Work: 90, Rest: 15, Cooldown: 0, Rounds: 3}, cfg.Session())
	assert.False(t, cfg.WakeLock)
	assert.True(t, cfg.History, "unset keys keep their defaults")

	c := cfg.Cue()
	assert.False(t, c.Enabled)
	assert.True(t, c.Desktop)
	assert.Equal(t, "/tmp/work.wav", c.Files["work"])

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "workout: [not, a, map")

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestLoadBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log:\n  level: loud\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "log.level")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INTERVALS_WORK", "45")
	t.Setenv("INTERVALS_REST", "0:05")
	t.Setenv("INTERVALS_ROUNDS", "x")
	t.Setenv("INTERVALS_SOUNDS", "false")
	t.Setenv("INTERVALS_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	s := cfg.Session()
	assert.Equal(t, 45, s.Work)
	assert.Equal(t, 5, s.Rest)
	assert.Equal(t, 1, s.Rounds)
	assert.False(t, cfg.Sounds.Enabled)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestSessionBadDurations(t *testing.T) {
	cfg := Default()
	cfg.Workout.Warmup = "abc"
	cfg.Workout.Rounds = 0

	s := cfg.Session()
	assert.Equal(t, 0, s.Warmup)
	assert.Equal(t, 1, s.Rounds)
}

func TestLogPath(t *testing.T) {
	cfg := Default()
	cfg.Log.File = "/var/tmp/x.log"
	p, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/x.log", p)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "workout:\n  rounds: 2\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 16)
	done := make(chan error, 1)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() { done <- Watch(ctx, path, log, func(c *Config) { got <- c }) }()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "other.yaml"), "ignored: true\n")
	writeFile(t, path, "workout:\n  rounds: 5\n")

	// A truncating write can surface as more than one event.
	deadline := time.After(5 * time.Second)
	for rounds := 0; rounds != 5; {
		select {
		case c := <-got:
			rounds = c.Workout.Rounds
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
