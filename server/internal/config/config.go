package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort     = 8080
	DefaultScorePath    = "/calculateCreditScore"
	DefaultBureauPath   = "/calculateBureauScore"
	DefaultMaxBodyBytes = 1 << 20
	DefaultLogLevel     = "info"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultMetricsPath  = "/metrics"
)

// HealthPath is the fixed liveness route; no configurable route may use it.
const HealthPath = "/healthz"

// PortEnv is the environment variable that, when set, overrides HTTPPort.
// Serverless hosts inject it.
const PortEnv = "PORT"

// Config holds the configuration parsed from the `server:` section of the
// config file.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the scoring API listens on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// ScorePath is the route serving the 0–100 credit score.
	ScorePath string `yaml:"score_path"`

	// BureauPath is the route serving the 300–900 bureau-scale score.
	BureauPath string `yaml:"bureau_path"`

	// MaxBodyBytes caps the request body. Larger bodies are rejected as
	// invalid JSON.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// LogLevel is one of: debug | info | warn | error.
	// It is the only field applied live on reload.
	LogLevel string `yaml:"log_level"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// Metrics controls the Prometheus text endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig controls the Prometheus text endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Level returns the slog level named by LogLevel.
// validate guarantees the name parses.
func (s ServerConfig) Level() slog.Level {
	var l slog.Level
	_ = l.UnmarshalText([]byte(s.LogLevel))
	return l
}

// Addr returns the listen address for HTTPPort.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.HTTPPort)
}

// Load reads and parses the config file at path, returning the server
// configuration. Missing fields are filled with defaults before validation.
// An empty path skips the file and returns defaults (plus env overrides).
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("server config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("server config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:     DefaultHTTPPort,
			ScorePath:    DefaultScorePath,
			BureauPath:   DefaultBureauPath,
			MaxBodyBytes: DefaultMaxBodyBytes,
			LogLevel:     DefaultLogLevel,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    DefaultMetricsPath,
			},
		},
	}
}

// applyEnv overlays environment overrides onto cfg.
func applyEnv(cfg *Config) error {
	v := strings.TrimSpace(os.Getenv(PortEnv))
	if v == "" {
		return nil
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s=%q is not a port number", PortEnv, v)
	}
	cfg.Server.HTTPPort = port
	return nil
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	if err := checkRoute("server.score_path", s.ScorePath); err != nil {
		return err
	}
	if err := checkRoute("server.bureau_path", s.BureauPath); err != nil {
		return err
	}
	if s.ScorePath == HealthPath || s.BureauPath == HealthPath {
		return fmt.Errorf("server.score_path and server.bureau_path must not be %s", HealthPath)
	}
	if s.ScorePath == s.BureauPath {
		return fmt.Errorf("server.bureau_path must differ from server.score_path (%q)", s.ScorePath)
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", s.LogLevel)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 {
		return fmt.Errorf("server.read_timeout and server.write_timeout must not be negative")
	}
	if s.Metrics.Enabled {
		if err := checkRoute("server.metrics.path", s.Metrics.Path); err != nil {
			return err
		}
		if s.Metrics.Path == s.ScorePath || s.Metrics.Path == s.BureauPath || s.Metrics.Path == HealthPath {
			return fmt.Errorf("server.metrics.path %q collides with a scoring route", s.Metrics.Path)
		}
	}
	return nil
}

// checkRoute rejects paths that http.ServeMux would refuse to register:
// routes are literal, so wildcard braces and whitespace are not allowed.
func checkRoute(key, path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%s %q must start with /", key, path)
	}
	if strings.ContainsAny(path, "{}") {
		return fmt.Errorf("%s %q must not contain { or }", key, path)
	}
	if strings.IndexFunc(path, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%s %q must not contain whitespace", key, path)
	}
	return nil
}
