// internal/config/config.go
//
// This package handles configuration and the .sjf directory structure.
// Every project that runs the visualizer gets a .sjf/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the name of the directory we create in each project
	Dir = ".sjf"

	defaultWorkloadID = "textbook"
	defaultInterval   = 2500 * time.Millisecond
	defaultHost       = "127.0.0.1"
	defaultPort       = 8085
)

const defaultProjectConfigYAML = `# sjf visualizer configuration
version: 1

# How long each animation step stays on screen while playing.
playback:
  interval: 2500ms

logging:
  level: info   # debug, info, warn, error
  format: text  # text or json

# Address for "sjf serve".
server:
  host: 127.0.0.1
  port: 8085

# Process sets live in YAML files under workloads.dir (relative to the project).
workloads:
  dir: .sjf/workloads
  default: textbook
`

// PlaybackConfig controls the timeline player.
type PlaybackConfig struct {
	Interval string `yaml:"interval"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig is the bind address of the HTTP API.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// WorkloadConfig points at the process-set files.
type WorkloadConfig struct {
	Dir     string `yaml:"dir"`
	Default string `yaml:"default"`
}

// ProjectConfig models .sjf/config.yaml.
type ProjectConfig struct {
	Version   int            `yaml:"version"`
	Playback  PlaybackConfig `yaml:"playback"`
	Logging   LoggingConfig  `yaml:"logging"`
	Server    ServerConfig   `yaml:"server"`
	Workloads WorkloadConfig `yaml:"workloads"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory the command was run from
	ProjectDir string

	// ProjectConfigDir is ProjectDir/.sjf
	ProjectConfigDir string

	// Project is the effective configuration, environment overrides included.
	Project ProjectConfig

	// stored is what config.yaml holds; saves write this, never Project.
	stored ProjectConfig

	interval time.Duration
}

// InitDir creates the .sjf directory structure in the given project directory.
//
// Structure created:
// .sjf/
// ├── config.yaml
// ├── logs/        <- slog output and the playback journal
// └── workloads/   <- process-set YAML files
func InitDir(projectDir string) error {
	root := filepath.Join(projectDir, Dir)
	dirs := []string{
		filepath.Join(root, "logs"),
		filepath.Join(root, "workloads"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// NewConfig loads .sjf/config.yaml (defaults when it does not exist) and
// applies SJF_* environment overrides.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:       projectDir,
		ProjectConfigDir: filepath.Join(projectDir, Dir),
		Project:          defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	cfg.stored = cfg.Project
	cfg.applyEnvOverrides()
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.ProjectConfigDir, "logs")
}

// ConfigPath returns the on-disk location for the project config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.ProjectConfigDir, "config.yaml")
}

// WorkloadsDir returns the absolute directory holding workload files.
func (c *Config) WorkloadsDir() string {
	return c.Project.Workloads.Dir
}

// DefaultWorkload returns the workload shown when none is requested.
func (c *Config) DefaultWorkload() string {
	return c.Project.Workloads.Default
}

// PlaybackInterval returns the parsed auto-advance period.
func (c *Config) PlaybackInterval() time.Duration {
	if c == nil || c.interval <= 0 {
		return defaultInterval
	}
	return c.interval
}

// ServerAddress returns host:port for the HTTP API.
func (c *Config) ServerAddress() (string, int) {
	return c.Project.Server.Host, c.Project.Server.Port
}

// SetDefaultWorkload updates the default workload and persists the value back
// to .sjf/config.yaml. Environment overrides stay out of the file.
func (c *Config) SetDefaultWorkload(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("config: workload id is required")
	}
	c.Project.Workloads.Default = id
	c.stored.Workloads.Default = id
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Project.normalize(c.ProjectDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func (c *Config) applyEnvOverrides() {
	if value := strings.TrimSpace(os.Getenv("SJF_INTERVAL")); value != "" {
		c.Project.Playback.Interval = value
	}
	if value := strings.TrimSpace(os.Getenv("SJF_SERVER_PORT")); value != "" {
		if port, err := strconv.Atoi(value); err == nil && isValidPort(port) {
			c.Project.Server.Port = port
		}
	}
	if value := strings.TrimSpace(os.Getenv("SJF_LOG_LEVEL")); value != "" {
		c.Project.Logging.Level = strings.ToLower(value)
	}
}

// finalize parses derived values once overrides are in place.
func (c *Config) finalize() error {
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	interval, err := time.ParseDuration(c.Project.Playback.Interval)
	if err != nil {
		return fmt.Errorf("config: playback.interval: %w", err)
	}
	c.interval = interval
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:  1,
		Playback: PlaybackConfig{Interval: defaultInterval.String()},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Server:   ServerConfig{Host: defaultHost, Port: defaultPort},
		Workloads: WorkloadConfig{
			Dir:     filepath.Join(Dir, "workloads"),
			Default: defaultWorkloadID,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Playback.Interval) == "" {
		pc.Playback.Interval = defaultInterval.String()
	}
	if strings.TrimSpace(pc.Server.Host) == "" {
		pc.Server.Host = defaultHost
	}
	if pc.Server.Port == 0 {
		pc.Server.Port = defaultPort
	}
	if strings.TrimSpace(pc.Workloads.Dir) == "" {
		pc.Workloads.Dir = filepath.Join(Dir, "workloads")
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Playback.Interval = strings.TrimSpace(pc.Playback.Interval)
	pc.Logging.Level = strings.ToLower(strings.TrimSpace(pc.Logging.Level))
	pc.Logging.Format = strings.ToLower(strings.TrimSpace(pc.Logging.Format))
	pc.Server.Host = strings.TrimSpace(pc.Server.Host)
	pc.Workloads.Dir = resolvePath(base, pc.Workloads.Dir)
	pc.Workloads.Default = strings.TrimSpace(pc.Workloads.Default)
	if pc.Workloads.Default == "" {
		pc.Workloads.Default = defaultWorkloadID
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	interval, err := time.ParseDuration(pc.Playback.Interval)
	if err != nil {
		return fmt.Errorf("playback.interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("playback.interval must be positive, got %s", pc.Playback.Interval)
	}
	switch pc.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error")
	}
	switch pc.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}
	if !isValidPort(pc.Server.Port) {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", pc.Server.Port)
	}
	return nil
}

func isValidPort(port int) bool {
	return port > 0 && port <= 65535
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	out := c.stored
	out.applyDefaults()
	if err := out.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.ProjectConfigDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure config dir: %w", err)
	}
	if rel, err := filepath.Rel(c.ProjectDir, out.Workloads.Dir); err == nil && !strings.HasPrefix(rel, "..") {
		out.Workloads.Dir = rel
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
