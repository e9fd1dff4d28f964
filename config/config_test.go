package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FramesPerBuffer != 1024 {
		t.Errorf("FramesPerBuffer = %d, want 1024", cfg.FramesPerBuffer)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.DebugDir != "" || cfg.LogPath() != "" {
		t.Errorf("DebugDir = %q, LogPath = %q, want empty", cfg.DebugDir, cfg.LogPath())
	}
}

func TestLoadFromYamlFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "debug_dir: /tmp/playhead-debug\nframes_per_buffer: 256\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DebugDir != "/tmp/playhead-debug" {
		t.Errorf("DebugDir = %q", cfg.DebugDir)
	}
	if cfg.FramesPerBuffer != 256 {
		t.Errorf("FramesPerBuffer = %d, want 256", cfg.FramesPerBuffer)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if got := cfg.LogPath(); got != filepath.Join("/tmp/playhead-debug", "playhead.log") {
		t.Errorf("LogPath = %q", got)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "frames_per_buffer: 256\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PLAYHEAD_FRAMES_PER_BUFFER", "512")
	t.Setenv("PLAYHEAD_LOG_LEVEL", "warn")
	t.Setenv("PLAYHEAD_DEBUG_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FramesPerBuffer != 512 {
		t.Errorf("FramesPerBuffer = %d, want 512", cfg.FramesPerBuffer)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.DebugDir != dir {
		t.Errorf("DebugDir = %q, want %q", cfg.DebugDir, dir)
	}
}

func TestInvalidFramesPerBuffer(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PLAYHEAD_FRAMES_PER_BUFFER", "zero")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric frames per buffer")
	}
}

func TestInvalidYaml(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte("{not yaml"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid config file")
	}
}
