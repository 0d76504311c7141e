package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
mongo:
  uri: "mongodb://db.example.com:27017"
  database: "mine_data"
  collection: "lecturas"
api:
  host: "127.0.0.1"
  port: 9000
security:
  api_keys: "alpha,beta"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Mongo.URI != "mongodb://db.example.com:27017" {
		t.Errorf("Mongo.URI = %q, want %q", cfg.Mongo.URI, "mongodb://db.example.com:27017")
	}
	if cfg.Mongo.Database != "mine_data" {
		t.Errorf("Mongo.Database = %q, want %q", cfg.Mongo.Database, "mine_data")
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if got := cfg.Security.ValidKeys(); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Errorf("ValidKeys() = %v, want [alpha beta]", got)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want defaults for missing file", err)
	}

	if cfg.Mongo.Database != "sensor_data" {
		t.Errorf("Mongo.Database = %q, want %q", cfg.Mongo.Database, "sensor_data")
	}
	if cfg.Mongo.Collection != "readings" {
		t.Errorf("Mongo.Collection = %q, want %q", cfg.Mongo.Collection, "readings")
	}
	if cfg.API.Port != 8000 {
		t.Errorf("API.Port = %d, want 8000", cfg.API.Port)
	}
	if got := cfg.Security.ValidKeys(); !reflect.DeepEqual(got, []string{"defaultkey"}) {
		t.Errorf("ValidKeys() = %v, want [defaultkey]", got)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MINETEL_MONGO_URI", "mongodb://override:27017")
	t.Setenv("MINETEL_API_KEYS", "env-key-1,env-key-2")
	t.Setenv("MINETEL_API_PORT", "8100")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Mongo.URI != "mongodb://override:27017" {
		t.Errorf("Mongo.URI = %q, want env override", cfg.Mongo.URI)
	}
	if cfg.API.Port != 8100 {
		t.Errorf("API.Port = %d, want 8100", cfg.API.Port)
	}
	if got := cfg.Security.ValidKeys(); !reflect.DeepEqual(got, []string{"env-key-1", "env-key-2"}) {
		t.Errorf("ValidKeys() = %v, want env keys", got)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty uri", func(c *Config) { c.Mongo.URI = "" }},
		{"empty database", func(c *Config) { c.Mongo.Database = "" }},
		{"empty collection", func(c *Config) { c.Mongo.Collection = "" }},
		{"bad port", func(c *Config) { c.API.Port = 0 }},
		{"no keys", func(c *Config) { c.Security.APIKeys = " , ," }},
		{"mqtt bad qos", func(c *Config) { c.MQTT.Enabled = true; c.MQTT.QoS = 3 }},
		{"mqtt empty topic", func(c *Config) { c.MQTT.Enabled = true; c.MQTT.Topic = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestValidKeys_TrimsAndDropsEmpty(t *testing.T) {
	s := SecurityConfig{APIKeys: " alpha , ,beta,"}
	got := s.ValidKeys()
	want := []string{"alpha", "beta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ValidKeys() = %v, want %v", got, want)
	}
}

// The duration getters are the single conversion point from config seconds
// to time.Duration; the HTTP server builds its timeouts from them.
func TestAPIConfig_TimeoutGetters(t *testing.T) {
	a := APIConfig{Timeouts: APITimeoutConfig{Read: 30, Write: 45, Idle: 60}}

	if got := a.GetReadTimeout(); got != 30*time.Second {
		t.Errorf("GetReadTimeout() = %v, want 30s", got)
	}
	if got := a.GetWriteTimeout(); got != 45*time.Second {
		t.Errorf("GetWriteTimeout() = %v, want 45s", got)
	}
	if got := a.GetIdleTimeout(); got != 60*time.Second {
		t.Errorf("GetIdleTimeout() = %v, want 60s", got)
	}
}
