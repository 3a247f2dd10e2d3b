package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/alarm-reminder/internal/logger"
)

// Config holds the settings of the alarm-reminder daemon and its control clients.
type Config struct {
	// AlarmInterval is the time from arming a cycle to the alarm.
	AlarmInterval Duration `yaml:"alarm_interval"`
	// ReminderInterval is the cadence of reminders within a cycle.
	ReminderInterval Duration `yaml:"reminder_interval"`
	// Sound configures the alarm clip.
	Sound Sound `yaml:"sound"`
	// Control configures the gRPC control endpoint.
	Control Control `yaml:"control"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Sound describes how the alarm is played.
type Sound struct {
	// File is the clip to play; empty rings the terminal bell.
	File string `yaml:"file"`
	// Repeat is how many times the clip is played per alarm.
	Repeat int `yaml:"repeat"`
	// Command is the player executable and its arguments; "{file}" is replaced by File,
	// otherwise File is appended. Empty selects a player for the current OS.
	Command []string `yaml:"command,omitempty"`
}

// Control describes the remote control endpoint.
type Control struct {
	// Address is where the daemon listens and clients connect; empty disables the endpoint.
	Address string `yaml:"address"`
	// RequestsPerSecond limits control requests accepted by the daemon.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	// Timeout bounds client calls.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-reminder-settings.yaml"

	// DefaultAlarmInterval is the time between arming and the alarm.
	DefaultAlarmInterval = 13*time.Minute + 40*time.Second

	// DefaultReminderInterval is the default reminder cadence.
	DefaultReminderInterval = time.Minute

	// DefaultSoundFile is the default alarm clip.
	DefaultSoundFile = "alarm.mp3"

	// DefaultSoundRepeat is how many times the clip is played by default.
	DefaultSoundRepeat = 3

	// DefaultRequestsPerSecond is the default control request rate.
	DefaultRequestsPerSecond = 5

	// DefaultTimeout is the default duration for control calls.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidRepeat is returned for a negative repeat count.
	errInvalidRepeat = errors.New("sound repeat must not be negative")
	// errInvalidRate is returned for a negative request rate.
	errInvalidRate = errors.New("control requests per second must not be negative")
	// errInvalidLogLevel is returned for an unknown log level.
	errInvalidLogLevel = errors.New("unknown log level")
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		AlarmInterval:    Duration(DefaultAlarmInterval),
		ReminderInterval: Duration(DefaultReminderInterval),
		Sound: Sound{
			File:   DefaultSoundFile,
			Repeat: DefaultSoundRepeat,
		},
		Control: Control{
			RequestsPerSecond: DefaultRequestsPerSecond,
			Timeout:           DefaultTimeout,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads configuration from path over the defaults and validates it.
// A missing file is only accepted when path is empty or the default filename.
func Load(path string) (*Config, error) {
	usingDefault := path == "" || path == DefaultConfigFilename
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && usingDefault:
		// Built-in defaults.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills zero values with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.AlarmInterval <= 0 {
		return fmt.Errorf("alarm interval %s: %w", cfg.AlarmInterval, ErrInvalidDuration)
	}

	if cfg.ReminderInterval <= 0 {
		return fmt.Errorf("reminder interval %s: %w", cfg.ReminderInterval, ErrInvalidDuration)
	}

	switch {
	case cfg.Sound.Repeat < 0:
		return errInvalidRepeat
	case cfg.Sound.Repeat == 0:
		cfg.Sound.Repeat = DefaultSoundRepeat
	}

	switch {
	case cfg.Control.RequestsPerSecond < 0:
		return errInvalidRate
	case cfg.Control.RequestsPerSecond == 0:
		cfg.Control.RequestsPerSecond = DefaultRequestsPerSecond
	}

	// Set default timeout if not specified.
	if cfg.Control.Timeout <= 0 {
		cfg.Control.Timeout = DefaultTimeout
	}

	if cfg.Control.Address != "" {
		if _, _, err := net.SplitHostPort(cfg.Control.Address); err != nil {
			return fmt.Errorf("invalid control address: %w", err)
		}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.LogLevel)
	}

	return nil
}

// SoundCommand returns the configured player command or the default for the current OS.
func (c *Config) SoundCommand() []string {
	if len(c.Sound.Command) > 0 {
		return c.Sound.Command
	}

	return DefaultSoundCommand(runtime.GOOS)
}

// DefaultSoundCommand returns a player available out of the box on the given OS.
func DefaultSoundCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"afplay"}
	case "windows":
		return []string{
			"powershell.exe", "-NoProfile", "-Command",
			"Add-Type -AssemblyName presentationCore; " +
				"$p = New-Object System.Windows.Media.MediaPlayer; $p.Open('{file}'); $p.Play(); " +
				"Start-Sleep -Milliseconds 500; Start-Sleep -Seconds $p.NaturalDuration.TimeSpan.TotalSeconds",
		}
	default:
		return []string{"mpg123", "-q"}
	}
}
