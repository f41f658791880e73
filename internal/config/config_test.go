package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, projectDir, body string) {
	t.Helper()
	dir := filepath.Join(projectDir, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(strings.TrimSpace(body)), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", cfg.Project.Version)
	}
	if cfg.PlaybackInterval() != 2500*time.Millisecond {
		t.Fatalf("expected default interval 2.5s, got %s", cfg.PlaybackInterval())
	}
	if cfg.DefaultWorkload() != defaultWorkloadID {
		t.Fatalf("expected default workload %q, got %q", defaultWorkloadID, cfg.DefaultWorkload())
	}
	if want := filepath.Join(projectDir, Dir, "workloads"); cfg.WorkloadsDir() != want {
		t.Fatalf("expected workloads dir %s, got %s", want, cfg.WorkloadsDir())
	}
}

func TestInitDirWritesLoadableConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, sub := range []string{"logs", "workloads"} {
		if info, err := os.Stat(filepath.Join(projectDir, Dir, sub)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s directory: %v", sub, err)
		}
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("load generated config: %v", err)
	}
	host, port := cfg.ServerAddress()
	if host != "127.0.0.1" || port != 8085 {
		t.Fatalf("unexpected server address %s:%d", host, port)
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	writeConfig(t, projectDir, `
version: 1
playback:
  interval: 750ms
logging:
  level: DEBUG
  format: json
server:
  port: 9100
workloads:
  dir: sets
  default: convoy
`)
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.PlaybackInterval() != 750*time.Millisecond {
		t.Fatalf("wrong interval: %s", cfg.PlaybackInterval())
	}
	if cfg.Project.Logging.Level != "debug" || cfg.Project.Logging.Format != "json" {
		t.Fatalf("logging not normalized: %+v", cfg.Project.Logging)
	}
	if host, port := cfg.ServerAddress(); host != defaultHost || port != 9100 {
		t.Fatalf("unexpected server address %s:%d", host, port)
	}
	if cfg.WorkloadsDir() != filepath.Join(projectDir, "sets") {
		t.Fatalf("expected workloads dir to be resolved, got %s", cfg.WorkloadsDir())
	}
	if cfg.DefaultWorkload() != "convoy" {
		t.Fatalf("wrong default workload: %s", cfg.DefaultWorkload())
	}
}

func TestNewConfigValidation(t *testing.T) {
	tests := map[string]string{
		"bad interval":  "playback:\n  interval: soon\n",
		"zero interval": "playback:\n  interval: 0s\n",
		"bad port":      "server:\n  port: 70000\n",
		"bad format":    "logging:\n  format: xml\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			projectDir := t.TempDir()
			writeConfig(t, projectDir, body)
			if _, err := NewConfig(projectDir); err == nil {
				t.Fatalf("expected validation error but got none")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SJF_INTERVAL", "1s")
	t.Setenv("SJF_SERVER_PORT", "9200")
	t.Setenv("SJF_LOG_LEVEL", "WARN")
	cfg, err := NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.PlaybackInterval() != time.Second {
		t.Fatalf("expected env interval, got %s", cfg.PlaybackInterval())
	}
	if _, port := cfg.ServerAddress(); port != 9200 {
		t.Fatalf("expected env port, got %d", port)
	}
	if cfg.Project.Logging.Level != "warn" {
		t.Fatalf("expected env log level, got %s", cfg.Project.Logging.Level)
	}
}

func TestSetDefaultWorkloadPersists(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.SetDefaultWorkload("convoy"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	reloaded, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.DefaultWorkload() != "convoy" {
		t.Fatalf("expected persisted default, got %s", reloaded.DefaultWorkload())
	}
	if reloaded.WorkloadsDir() != cfg.WorkloadsDir() {
		t.Fatalf("workloads dir changed on save: %s vs %s", reloaded.WorkloadsDir(), cfg.WorkloadsDir())
	}
	if err := cfg.SetDefaultWorkload("  "); err == nil {
		t.Fatalf("expected error for empty workload id")
	}
}

func TestSetDefaultWorkloadKeepsEnvOverridesOutOfFile(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Setenv("SJF_INTERVAL", "10ms")
	t.Setenv("SJF_SERVER_PORT", "9999")
	t.Setenv("SJF_LOG_LEVEL", "debug")
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PlaybackInterval() != 10*time.Millisecond {
		t.Fatalf("env interval not applied: %s", cfg.PlaybackInterval())
	}
	if err := cfg.SetDefaultWorkload("other"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if cfg.PlaybackInterval() != 10*time.Millisecond || cfg.DefaultWorkload() != "other" {
		t.Fatalf("effective config changed by save: %s %s", cfg.PlaybackInterval(), cfg.DefaultWorkload())
	}

	data, err := os.ReadFile(cfg.ConfigPath())
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	saved := string(data)
	for _, leaked := range []string{"10ms", "9999", "debug"} {
		if strings.Contains(saved, leaked) {
			t.Fatalf("env override %q written to config:\n%s", leaked, saved)
		}
	}
	if !strings.Contains(saved, "default: other") {
		t.Fatalf("default workload not persisted:\n%s", saved)
	}

	t.Setenv("SJF_INTERVAL", "")
	t.Setenv("SJF_SERVER_PORT", "")
	t.Setenv("SJF_LOG_LEVEL", "")
	reloaded, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.PlaybackInterval() != 2500*time.Millisecond {
		t.Fatalf("expected file interval 2.5s, got %s", reloaded.PlaybackInterval())
	}
	if _, port := reloaded.ServerAddress(); port != 8085 {
		t.Fatalf("expected file port 8085, got %d", port)
	}
}
