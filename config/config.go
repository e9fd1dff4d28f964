// Package config assembles runtime settings from an optional YAML file and
// environment variables. Everything has a default; a bare binary runs with
// no configuration at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory.
const DefaultFile = "playhead.yaml"

type Config struct {
	// DebugDir selects the diagnostic log directory. Informational only;
	// protocol behavior does not depend on it.
	DebugDir string `yaml:"debug_dir"`

	// FramesPerBuffer is the audio block size requested from the device.
	FramesPerBuffer int `yaml:"frames_per_buffer"`

	// LogLevel is the diagnostic log level (trace, debug, info, warn,
	// error, off).
	LogLevel string `yaml:"log_level"`
}

// Load reads .env (if present), the YAML config file (if present), and then
// applies environment overrides. Env always wins over the file.
func Load() (*Config, error) {
	// A missing .env is normal for a packaged desktop app.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: failed to load .env: %w", err)
	}

	cfg := &Config{
		FramesPerBuffer: 1024,
		LogLevel:        "info",
	}

	if data, err := os.ReadFile(DefaultFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", DefaultFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: failed to read %s: %w", DefaultFile, err)
	}

	if v := os.Getenv("PLAYHEAD_DEBUG_DIR"); v != "" {
		cfg.DebugDir = v
	}
	if v := os.Getenv("PLAYHEAD_FRAMES_PER_BUFFER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("config: invalid PLAYHEAD_FRAMES_PER_BUFFER %q", v)
		}
		cfg.FramesPerBuffer = n
	}
	if v := os.Getenv("PLAYHEAD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if cfg.FramesPerBuffer < 1 {
		cfg.FramesPerBuffer = 1024
	}

	return cfg, nil
}

// LogPath returns the diagnostic log file path, or "" when no debug
// directory is configured.
func (c *Config) LogPath() string {
	if c.DebugDir == "" {
		return ""
	}
	return filepath.Join(c.DebugDir, "playhead.log")
}
