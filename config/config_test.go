package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validConfig() *Config {
	cfg := Defaults()
	cfg.Platform.Org = "c360"
	cfg.Platform.ID = "station-1"
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid config", func(*Config) {}, ""},
		{"missing org", func(c *Config) { c.Platform.Org = "" }, "platform.org is required"},
		{"missing id", func(c *Config) { c.Platform.ID = "" }, "platform.id is required"},
		{"org with spaces", func(c *Config) { c.Platform.Org = "my org" }, "not valid for NATS subjects"},
		{"id with slash", func(c *Config) { c.Platform.ID = "a/b" }, "not valid for NATS subjects"},
		{"negative min length", func(c *Config) { c.Scan.MinLength = -1 }, "cannot be negative"},
		{"min above max", func(c *Config) {
			c.Scan.MinLength = 10
			c.Scan.MaxLength = 5
		}, "exceeds scan.max_length"},
		{"bearer auth without env", func(c *Config) {
			c.Feed.Auth = AuthConfig{Type: "bearer"}
		}, "bearer_token_env is required"},
		{"unknown auth type", func(c *Config) {
			c.Feed.Auth = AuthConfig{Type: "oauth"}
		}, "not supported"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, "not supported"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigValidateNormalizesOrg(t *testing.T) {
	cfg := validConfig()
	cfg.Platform.Org = "C360"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "c360", cfg.Platform.Org)
}

func TestConfigClone(t *testing.T) {
	cfg := validConfig()
	cfg.NATS.URLs = []string{"nats://a:4222", "nats://b:4222"}

	clone := cfg.Clone()
	clone.Platform.ID = "station-2"
	clone.NATS.URLs[0] = "nats://changed:4222"

	assert.Equal(t, "station-1", cfg.Platform.ID)
	assert.Equal(t, "nats://a:4222", cfg.NATS.URLs[0])
}

func TestGetPlatform(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "station-1", cfg.GetPlatform())

	cfg.Platform.InstanceID = "west-1"
	assert.Equal(t, "west-1", cfg.GetPlatform())
}

func TestSafeConfig(t *testing.T) {
	sc := NewSafeConfig(validConfig())

	got := sc.Get()
	assert.Equal(t, "station-1", got.Platform.ID)

	// Mutating the copy does not leak back.
	got.Platform.ID = "mutated"
	assert.Equal(t, "station-1", sc.Get().Platform.ID)

	next := validConfig()
	next.Platform.ID = "station-2"
	require.NoError(t, sc.Update(next))
	assert.Equal(t, "station-2", sc.Get().Platform.ID)

	bad := validConfig()
	bad.Platform.Org = ""
	err := sc.Update(bad)
	require.Error(t, err)
	assert.Equal(t, "station-2", sc.Get().Platform.ID, "failed update leaves config untouched")

	assert.Error(t, sc.Update(nil))
}

func TestDurationUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{"go duration string", `d: 2s`, 2 * time.Second},
		{"milliseconds string", `d: 2500ms`, 2500 * time.Millisecond},
		{"day suffix", `d: 2d`, 48 * time.Hour},
		{"bare integer is milliseconds", `d: 3000`, 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				D Duration `yaml:"d"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(tt.input), &out))
			assert.Equal(t, tt.want, out.D.Std())
		})
	}
}

func TestDurationUnmarshalYAMLInvalid(t *testing.T) {
	var out struct {
		D Duration `yaml:"d"`
	}
	assert.Error(t, yaml.Unmarshal([]byte(`d: "nonsense"`), &out))
	assert.Error(t, yaml.Unmarshal([]byte(`d: [1, 2]`), &out))
}

func TestDurationRoundTrip(t *testing.T) {
	in := struct {
		D Duration `yaml:"d"`
	}{D: Duration(2500 * time.Millisecond)}

	data, err := yaml.Marshal(in)
	require.NoError(t, err)

	var out struct {
		D Duration `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, in.D, out.D)
}
