package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
type Config struct {
	Version    string           `yaml:"version,omitempty"`
	Platform   PlatformConfig   `yaml:"platform"`
	NATS       NATSConfig       `yaml:"nats"`
	Scan       ScanConfig       `yaml:"scan"`
	Feed       FeedConfig       `yaml:"feed"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PlatformConfig defines platform identity. Org and ID become NATS subject
// parts, so both must be subject-safe.
type PlatformConfig struct {
	Org         string `yaml:"org"`
	ID          string `yaml:"id"`
	InstanceID  string `yaml:"instance_id,omitempty"`
	Environment string `yaml:"environment,omitempty"`
}

// NATSConfig defines NATS connection settings. Disabled deployments run the
// scan pipeline without publishing decoded events.
type NATSConfig struct {
	Enabled       bool     `yaml:"enabled"`
	URLs          []string `yaml:"urls,omitempty"`
	MaxReconnects int      `yaml:"max_reconnects,omitempty"`
	ReconnectWait Duration `yaml:"reconnect_wait,omitempty"`
	Username      string   `yaml:"username,omitempty"`
	Password      string   `yaml:"password,omitempty"`
	Token         string   `yaml:"token,omitempty"`
}

// ScanConfig carries the per-surface session settings. Zero MinLength or
// MaxLength disables that bound.
type ScanConfig struct {
	MinLength      int      `yaml:"min_length,omitempty"`
	MaxLength      int      `yaml:"max_length,omitempty"`
	Timeout        Duration `yaml:"timeout,omitempty"`
	SuccessVisible Duration `yaml:"success_visible,omitempty"`
	Disabled       bool     `yaml:"disabled,omitempty"`
}

// FeedConfig configures the WebSocket key-event feed server.
type FeedConfig struct {
	Enabled         bool            `yaml:"enabled"`
	Port            int             `yaml:"port,omitempty"`
	Path            string          `yaml:"path,omitempty"`
	ReadBufferSize  int             `yaml:"read_buffer_size,omitempty"`
	WriteBufferSize int             `yaml:"write_buffer_size,omitempty"`
	Auth            AuthConfig      `yaml:"auth,omitempty"`
	RateLimit       RateLimitConfig `yaml:"rate_limit,omitempty"`
}

// AuthConfig selects feed authentication. The bearer token itself lives in
// the environment, never in the config file.
type AuthConfig struct {
	Type           string `yaml:"type,omitempty"` // "none" or "bearer"
	BearerTokenEnv string `yaml:"bearer_token_env,omitempty"`
}

// RateLimitConfig throttles key events per feed connection.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second,omitempty"`
	Burst     int     `yaml:"burst,omitempty"`
}

// GatewayConfig configures the HTTP decode/vocabulary gateway.
type GatewayConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// VocabularyConfig points at an optional AI definition overlay file.
type VocabularyConfig struct {
	OverlayPath string `yaml:"overlay_path,omitempty"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // json or text
}

// Defaults returns the baseline configuration every layer merges onto.
func Defaults() *Config {
	return &Config{
		Platform: PlatformConfig{
			Org: "c360",
		},
		NATS: NATSConfig{
			Enabled:       true,
			URLs:          []string{"nats://localhost:4222"},
			MaxReconnects: -1,
			ReconnectWait: Duration(2 * time.Second),
		},
		Scan: ScanConfig{
			Timeout:        Duration(2000 * time.Millisecond),
			SuccessVisible: Duration(3000 * time.Millisecond),
		},
		Feed: FeedConfig{
			Enabled:         true,
			Port:            8090,
			Path:            "/scan/feed",
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Auth:            AuthConfig{Type: "none"},
			RateLimit:       RateLimitConfig{PerSecond: 200, Burst: 400},
		},
		Gateway: GatewayConfig{
			Enabled: true,
			Port:    8080,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.Platform.Org == "" {
		return errors.New("platform.org is required")
	}
	c.Platform.Org = strings.ToLower(c.Platform.Org)
	if !isValidNATSSubjectPart(c.Platform.Org) {
		return fmt.Errorf(
			"platform.org %q is not valid for NATS subjects (must be alphanumeric with dots, dashes, underscores)",
			c.Platform.Org,
		)
	}

	if c.Platform.ID == "" {
		return errors.New("platform.id is required")
	}
	if !isValidNATSSubjectPart(c.Platform.ID) {
		return fmt.Errorf("platform.id %q is not valid for NATS subjects", c.Platform.ID)
	}

	if c.Scan.MinLength < 0 || c.Scan.MaxLength < 0 {
		return errors.New("scan length bounds cannot be negative")
	}
	if c.Scan.MinLength > 0 && c.Scan.MaxLength > 0 && c.Scan.MinLength > c.Scan.MaxLength {
		return fmt.Errorf("scan.min_length %d exceeds scan.max_length %d", c.Scan.MinLength, c.Scan.MaxLength)
	}
	if c.Scan.Timeout < 0 || c.Scan.SuccessVisible < 0 {
		return errors.New("scan timers cannot be negative")
	}

	switch c.Feed.Auth.Type {
	case "", "none":
	case "bearer":
		if c.Feed.Auth.BearerTokenEnv == "" {
			return errors.New("feed.auth.bearer_token_env is required for bearer auth")
		}
	default:
		return fmt.Errorf("feed.auth.type %q is not supported (none, bearer)", c.Feed.Auth.Type)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("logging.format %q is not supported (json, text)", c.Logging.Format)
	}

	return nil
}

// isValidNATSSubjectPart checks if a string is valid for use in NATS
// subjects. Valid characters are alphanumeric, dots, dashes, and
// underscores.
func isValidNATSSubjectPart(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) &&
			r != '-' && r != '_' && r != '.' {
			return false
		}
	}
	return true
}

// GetPlatform returns the platform identifier, preferring instance_id.
func (c *Config) GetPlatform() string {
	if c.Platform.InstanceID != "" {
		return c.Platform.InstanceID
	}
	return c.Platform.ID
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		copied := *c
		return &copied
	}

	var clone Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		copied := *c
		return &copied
	}
	return &clone
}

// String returns a YAML representation of the config.
func (c *Config) String() string {
	data, _ := yaml.Marshal(c)
	return string(data)
}

// SafeConfig provides thread-safe access to configuration.
type SafeConfig struct {
	mu     sync.RWMutex
	config *Config
}

// NewSafeConfig creates a new thread-safe config wrapper.
func NewSafeConfig(cfg *Config) *SafeConfig {
	if cfg == nil {
		cfg = &Config{}
	}
	return &SafeConfig{config: cfg}
}

// Get returns a deep copy of the current configuration.
func (sc *SafeConfig) Get() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config.Clone()
}

// Update atomically replaces the configuration after validation.
func (sc *SafeConfig) Update(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.config = cfg
	return nil
}
