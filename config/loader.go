package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with layered files and environment
// overrides. Later layers win field by field; environment variables win
// over every file.
type Loader struct {
	layers     []string
	validation bool
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		envPrefix: "SCANSTREAM",
	}
}

// AddLayer adds a configuration file layer.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables configuration validation.
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads configuration from a single file.
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load loads and merges all configuration layers.
func (l *Loader) Load() (*Config, error) {
	cfg := Defaults()

	for _, path := range l.layers {
		raw, err := l.loadRawYAML(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		cfg, err = l.mergeFromMap(cfg, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to merge %s: %w", path, err)
		}
	}

	l.applyEnvOverrides(cfg)

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadRawYAML loads one configuration file as a raw map.
func (l *Loader) loadRawYAML(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if err := validateYAMLDepth(&node, 0); err != nil {
		return nil, fmt.Errorf("invalid YAML structure: %w", err)
	}

	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// mergeFromMap merges a raw layer onto the base config, only overriding
// fields present in the layer.
func (l *Loader) mergeFromMap(base *Config, override map[string]any) (*Config, error) {
	if override == nil {
		return base, nil
	}

	baseYAML, err := yaml.Marshal(base)
	if err != nil {
		return base, err
	}
	var baseMap map[string]any
	if err := yaml.Unmarshal(baseYAML, &baseMap); err != nil {
		return base, err
	}

	mergedMap := deepMergeMaps(baseMap, override)

	mergedYAML, err := yaml.Marshal(mergedMap)
	if err != nil {
		return base, err
	}
	var merged Config
	if err := yaml.Unmarshal(mergedYAML, &merged); err != nil {
		return base, err
	}
	return &merged, nil
}

// deepMergeMaps recursively merges two maps, with override taking
// precedence. Explicit nulls in the override are ignored.
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base))
	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		if v == nil {
			continue
		}
		if baseMap, ok := base[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}
		result[k] = v
	}

	return result
}

// applyEnvOverrides applies environment variable overrides.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if val := l.getenv("PLATFORM_ORG"); val != "" {
		cfg.Platform.Org = val
	}
	if val := l.getenv("PLATFORM_ID"); val != "" {
		cfg.Platform.ID = val
	}
	if val := l.getenv("PLATFORM_INSTANCE_ID"); val != "" {
		cfg.Platform.InstanceID = val
	}

	if val := l.getenv("NATS_URLS"); val != "" {
		cfg.NATS.URLs = strings.Split(val, ",")
	}
	if val := l.getenv("NATS_USERNAME"); val != "" {
		cfg.NATS.Username = val
	}
	if val := l.getenv("NATS_PASSWORD"); val != "" {
		cfg.NATS.Password = val
	}
	if val := l.getenv("NATS_TOKEN"); val != "" {
		cfg.NATS.Token = val
	}

	if val := l.getenv("SCAN_MIN_LENGTH"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Scan.MinLength = n
		}
	}
	if val := l.getenv("SCAN_MAX_LENGTH"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Scan.MaxLength = n
		}
	}
	if val := l.getenv("SCAN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Scan.Timeout = Duration(d)
		}
	}

	if val := l.getenv("LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := l.getenv("LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}

func (l *Loader) getenv(suffix string) string {
	key := l.envPrefix + "_" + suffix
	val := os.Getenv(key)
	if err := validateEnvVar(key, val); err != nil {
		return ""
	}
	return val
}

// SaveToFile saves the configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return safeWriteFile(path, data)
}
