package api

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/devanathsugavasi/sjf-visualizer-lab/internal/config"
)

const (
	// DefaultHost is the loopback interface used when no host override is provided.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the default TCP port for the API server.
	DefaultPort = 8085
	// DefaultMaxBodyBytes limits request payloads to 256 KB.
	DefaultMaxBodyBytes int64 = 256 << 10
	// DefaultMaxProcesses caps the size of a single process set.
	DefaultMaxProcesses = 1000
	// DefaultReadTimeout guards hung clients.
	DefaultReadTimeout = 15 * time.Second
	// DefaultWriteTimeout bounds handler writes.
	DefaultWriteTimeout = 15 * time.Second
	// DefaultIdleTimeout bounds keep-alive connections.
	DefaultIdleTimeout = 60 * time.Second
)

// Settings captures runtime configuration for the HTTP API.
type Settings struct {
	Host         string
	Port         int
	MaxBodyBytes int64
	MaxProcesses int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SettingsFromConfig builds Settings from the project's .sjf config.
func SettingsFromConfig(cfg *config.Config) Settings {
	settings := Settings{Host: DefaultHost, Port: DefaultPort}
	if cfg != nil {
		host, port := cfg.ServerAddress()
		if host = strings.TrimSpace(host); host != "" {
			settings.Host = host
		}
		if isValidPort(port) {
			settings.Port = port
		}
	}
	settings.normalize()
	return settings
}

func (s *Settings) normalize() {
	s.Host = strings.TrimSpace(s.Host)
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.Port != 0 && !isValidPort(s.Port) {
		s.Port = DefaultPort
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if s.MaxProcesses <= 0 {
		s.MaxProcesses = DefaultMaxProcesses
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
}

// Address returns the TCP bind address in host:port form. Port 0 asks the
// kernel for a free port.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the HTTP base URL for the server.
func (s Settings) URL() string {
	return "http://" + s.Address()
}

func isValidPort(port int) bool {
	return port > 0 && port <= 65535
}
