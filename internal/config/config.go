// Package config loads the optional YAML configuration file. The file is only
// ever read; changes made in the app are not written back.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/intervals/internal/cue"
	"github.com/sadopc/intervals/internal/duration"
	"github.com/sadopc/intervals/internal/workout"
)

// AppName names the config directory and the wake-lock inhibitor.
const AppName = "intervals"

const fileName = "config.yaml"

type Config struct {
	Workout  WorkoutConfig `yaml:"workout"`
	Sounds   SoundsConfig  `yaml:"sounds"`
	WakeLock bool          `yaml:"wake_lock"`
	History  bool          `yaml:"history"`
	Log      LogConfig     `yaml:"log"`
}

// WorkoutConfig holds durations as entered by a person: "0:30", "130" or "45".
type WorkoutConfig struct {
	Warmup   string `yaml:"warmup"`
	Work     string `yaml:"work"`
	Rest     string `yaml:"rest"`
	Cooldown string `yaml:"cooldown"`
	Rounds   int    `yaml:"rounds"`
}

type SoundsConfig struct {
	Enabled bool              `yaml:"enabled"`
	Bell    bool              `yaml:"bell"`
	Desktop bool              `yaml:"desktop"`
	Player  string            `yaml:"player"`
	Files   map[string]string `yaml:"files"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	d := workout.Default()
	return &Config{
		Workout: WorkoutConfig{
			Warmup:   duration.Format(d.Warmup),
			Work:     duration.Format(d.Work),
			Rest:     duration.Format(d.Rest),
			Cooldown: duration.Format(d.Cooldown),
			Rounds:   d.Rounds,
		},
		Sounds:   SoundsConfig{Enabled: true, Bell: true},
		WakeLock: true,
		History:  true,
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, then applies environment overrides:
//
//	INTERVALS_WARMUP, INTERVALS_WORK, INTERVALS_REST, INTERVALS_COOLDOWN,
//	INTERVALS_ROUNDS, INTERVALS_SOUNDS, INTERVALS_LOG_LEVEL
//
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INTERVALS_WARMUP"); v != "" {
		cfg.Workout.Warmup = v
	}
	if v := os.Getenv("INTERVALS_WORK"); v != "" {
		cfg.Workout.Work = v
	}
	if v := os.Getenv("INTERVALS_REST"); v != "" {
		cfg.Workout.Rest = v
	}
	if v := os.Getenv("INTERVALS_COOLDOWN"); v != "" {
		cfg.Workout.Cooldown = v
	}
	if v := os.Getenv("INTERVALS_ROUNDS"); v != "" {
		cfg.Workout.Rounds = workout.ParseRounds(v)
	}
	if v := os.Getenv("INTERVALS_SOUNDS"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Sounds.Enabled = on
		}
	}
	if v := os.Getenv("INTERVALS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Session converts the workout section into a timer configuration. Bad
// durations become zero and a bad round count becomes one.
func (c *Config) Session() workout.Config {
	return workout.Recompute(c.Inputs())
}

// Inputs returns the workout section as form fields.
func (c *Config) Inputs() workout.Inputs {
	return workout.Inputs{
		Warmup:   field(c.Workout.Warmup),
		Work:     field(c.Workout.Work),
		Rest:     field(c.Workout.Rest),
		Cooldown: field(c.Workout.Cooldown),
		Rounds:   strconv.Itoa(c.Workout.Rounds),
	}
}

func field(text string) workout.Field {
	if strings.Contains(text, ":") {
		return workout.FieldFromText(text)
	}
	var f workout.Field
	f.Input(text)
	return f
}

// Cue returns the sounds section as player settings.
func (c *Config) Cue() cue.Config {
	return cue.Config{
		Enabled: c.Sounds.Enabled,
		Bell:    c.Sounds.Bell,
		Desktop: c.Sounds.Desktop,
		Player:  c.Sounds.Player,
		Files:   c.Sounds.Files,
	}
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return lvl, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Dir returns the per-user directory holding config, history and logs.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(cfg, AppName), nil
}

// DefaultPath returns <user config dir>/intervals/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// LogPath returns the configured log file or the default one.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".log"), nil
}
