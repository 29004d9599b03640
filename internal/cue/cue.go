// Package cue plays the audible and visible signal for each workout phase.
package cue

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/sadopc/intervals/internal/timer"
)

// ErrCueUnavailable marks a sound that could not be loaded. The phase it
// belongs to plays no sound file.
var ErrCueUnavailable = errors.New("cue unavailable")

// Config selects which cues play.
type Config struct {
	Enabled bool
	Bell    bool
	Desktop bool
	// Player is the command used to play sound files. Empty picks one for
	// the current OS.
	Player string
	// Files maps a phase key ("warmup", "work", ...) to a sound file.
	Files map[string]string
}

// Player implements timer.Notifier.
type Player struct {
	enabled bool
	bell    bool
	desktop bool
	player  string
	files   map[timer.Phase]string

	bellOut io.Writer
	log     *slog.Logger
	start   func(name string, args ...string) error
}

// Load checks every configured sound file and returns a ready player. A file
// that cannot be read is logged and its phase falls back to the bell.
func Load(cfg Config, bellOut io.Writer, log *slog.Logger) *Player {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &Player{
		enabled: cfg.Enabled,
		bell:    cfg.Bell,
		desktop: cfg.Desktop,
		files:   make(map[timer.Phase]string),
		bellOut: bellOut,
		log:     log,
		start:   startDetached,
	}

	if len(cfg.Files) > 0 {
		player, err := resolvePlayer(cfg.Player)
		if err != nil {
			log.Warn("sound files disabled", "error", err)
		} else {
			p.player = player
			p.loadFiles(cfg.Files)
		}
	}
	return p
}

func (p *Player) loadFiles(files map[string]string) {
	for key, path := range files {
		phase, ok := timer.ParsePhase(key)
		if !ok {
			p.log.Warn("unknown phase in sound files", "phase", key)
			continue
		}
		if err := checkReadable(path); err != nil {
			p.log.Warn("sound not loaded", "phase", key, "error", err)
			continue
		}
		p.files[phase] = path
		p.log.Debug("sound loaded", "phase", key, "path", path)
	}
}

// Enabled reports whether cues play at all.
func (p *Player) Enabled() bool { return p.enabled }

// SetEnabled turns every cue on or off.
func (p *Player) SetEnabled(on bool) { p.enabled = on }

// Notify plays the cue for entering phase. Ready means the session is over.
func (p *Player) Notify(phase timer.Phase) {
	if !p.enabled {
		return
	}

	played := false
	if path, ok := p.files[phase]; ok {
		if err := p.start(p.player, path); err != nil {
			p.log.Warn("sound playback failed", "phase", phase.Key(), "error", err)
		} else {
			played = true
		}
	}
	if !played && p.bell && p.bellOut != nil {
		if _, err := io.WriteString(p.bellOut, "\a"); err != nil {
			p.log.Debug("bell failed", "error", err)
		}
	}
	if p.desktop {
		p.notifyDesktop(phase)
	}
}

func (p *Player) notifyDesktop(phase timer.Phase) {
	msg := phase.String()
	if phase == timer.Ready {
		msg = "Session complete!"
	}
	name, args, err := desktopCommand("intervals", msg)
	if err != nil {
		p.log.Debug("desktop notification unavailable", "error", err)
		return
	}
	if err := p.start(name, args...); err != nil {
		p.log.Warn("desktop notification failed", "error", err)
	}
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCueUnavailable, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCueUnavailable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrCueUnavailable, path)
	}
	return nil
}

func resolvePlayer(name string) (string, error) {
	candidates := []string{name}
	if name == "" {
		switch runtime.GOOS {
		case "darwin":
			candidates = []string{"afplay"}
		default:
			candidates = []string{"paplay", "pw-play", "aplay"}
		}
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no audio player found (tried %v)", ErrCueUnavailable, candidates)
}

// startDetached launches a command and reaps it in the background.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
