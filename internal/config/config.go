package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultStreamURL is played when neither the config nor the command line
// names a stream.
const DefaultStreamURL = "https://scogo-grafana-dashboard-backup.s3.ap-south-1.amazonaws.com/Scogo+_+Scan+%26+Book+an+Engineer+!.mp3"

const (
	appName = "onair"

	defaultPollInterval = 500 * time.Millisecond
	defaultSeekStep     = 5 * time.Second
	defaultSeekStepLong = 15 * time.Second
	defaultLogLevel     = "info"
	minPollInterval     = 50 * time.Millisecond
)

type Config struct {
	StreamURL    string        `koanf:"stream_url"`
	Autoplay     *bool         `koanf:"autoplay"`      // prepare with autoplay (default: true)
	PollInterval time.Duration `koanf:"poll_interval"` // progress poller period (default: 500ms)
	SeekStep     time.Duration `koanf:"seek_step"`
	SeekStepLong time.Duration `koanf:"seek_step_long"`
	Volume       *float64      `koanf:"volume"` // initial volume 0..1 when no session is saved
	Resume       *bool         `koanf:"resume"` // restore the last position of the same URL (default: true)
	CoverCache   string        `koanf:"cover_cache"`

	Notifications NotificationsConfig `koanf:"notifications"`
	MPRIS         MPRISConfig         `koanf:"mpris"`
	Remote        RemoteConfig        `koanf:"remote"`
	Log           LogConfig           `koanf:"log"`
}

// NotificationsConfig controls the persistent now-playing notification.
type NotificationsConfig struct {
	Enabled   *bool `koanf:"enabled"`    // default: true
	TimeoutMS int   `koanf:"timeout_ms"` // 0 keeps the notification until closed
}

// MPRISConfig controls the D-Bus media session.
type MPRISConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// RemoteConfig controls the HTTP remote control API.
type RemoteConfig struct {
	Listen string `koanf:"listen"` // e.g. "127.0.0.1:7878"; empty disables
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name (default: "info")
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/onair/onair.log
}

// Load reads the config files in order of priority (last wins). explicit is
// the --config path; unlike the default locations it must exist.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	if explicit != "" {
		explicit = expandPath(explicit)
		if err := k.Load(file.Provider(explicit), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", explicit, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize applies defaults and expands ~ in paths.
func (c *Config) Normalize() {
	c.StreamURL = strings.TrimSpace(c.StreamURL)
	if c.StreamURL == "" {
		c.StreamURL = DefaultStreamURL
	} else {
		c.StreamURL = expandPath(c.StreamURL)
	}

	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	} else if c.PollInterval < minPollInterval {
		c.PollInterval = minPollInterval
	}
	if c.SeekStep <= 0 {
		c.SeekStep = defaultSeekStep
	}
	if c.SeekStepLong <= 0 {
		c.SeekStepLong = defaultSeekStepLong
	}
	if c.Volume != nil {
		v := min(max(*c.Volume, 0), 1)
		c.Volume = &v
	}
	if c.Notifications.TimeoutMS < 0 {
		c.Notifications.TimeoutMS = 0
	}

	c.Remote.Listen = strings.TrimSpace(c.Remote.Listen)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.File != "" {
		c.Log.File = expandPath(c.Log.File)
	}
	if c.CoverCache != "" {
		c.CoverCache = expandPath(c.CoverCache)
	}
}

// AutoplayEnabled reports whether Prepare should start playing.
func (c *Config) AutoplayEnabled() bool {
	return c.Autoplay == nil || *c.Autoplay
}

// ResumeEnabled reports whether the last position of a URL is restored.
func (c *Config) ResumeEnabled() bool {
	return c.Resume == nil || *c.Resume
}

// NotificationsEnabled reports whether the now-playing notification is shown.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications.Enabled == nil || *c.Notifications.Enabled
}

// MPRISEnabled reports whether the media session is exported on D-Bus.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.Enabled == nil || *c.MPRIS.Enabled
}

// HasRemote returns true if the remote control API is configured.
func (c *Config) HasRemote() bool {
	return c.Remote.Listen != ""
}

// InitialVolume returns the configured volume and whether one was set.
func (c *Config) InitialVolume() (float64, bool) {
	if c.Volume == nil {
		return 1, false
	}
	return *c.Volume, true
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/onair/config.toml
	paths = append(paths, filepath.Join(xdg.ConfigHome, appName, "config.toml"))

	// 2. ~/.config/onair/config.toml, when XDG_CONFIG_HOME points elsewhere
	if home, err := os.UserHomeDir(); err == nil {
		legacy := filepath.Join(home, ".config", appName, "config.toml")
		if legacy != paths[0] {
			paths = append(paths, legacy)
		}
	}

	// 3. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
