package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for minetel.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Mongo    MongoConfig    `yaml:"mongo"`
	API      APIConfig      `yaml:"api"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MongoConfig contains MongoDB connection settings.
type MongoConfig struct {
	URI            string `yaml:"uri"`
	Database       string `yaml:"database"`
	Collection     string `yaml:"collection"`
	ConnectTimeout int    `yaml:"connect_timeout"` // seconds
	SocketTimeout  int    `yaml:"socket_timeout"`  // seconds
	MaxPoolSize    uint64 `yaml:"max_pool_size"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
// An empty origin list allows all origins, matching the permissive
// posture of the original deployment.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// MQTTConfig contains MQTT ingestion settings.
// Ingestion is optional; when disabled the API serves whatever lands in the
// collection by other means.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Topic     string              `yaml:"topic"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// SecurityConfig contains API access settings.
type SecurityConfig struct {
	// APIKeys is the comma-separated shared-secret allow-list checked against
	// the X-API-KEY header. Split once at load time via ValidKeys().
	APIKeys string `yaml:"api_keys"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: MINETEL_SECTION_KEY
// For example: MINETEL_MONGO_URI, MINETEL_API_PORT
//
// A missing config file is not an error: the service can run entirely from
// defaults and environment variables.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be parsed or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parsing config file: %w", unmarshalErr)
		}
	case os.IsNotExist(err):
		// Env-only operation; defaults apply.
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with the documented fallback values.
func defaultConfig() *Config {
	return &Config{
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "sensor_data",
			Collection:     "readings",
			ConnectTimeout: 5,
			SocketTimeout:  5,
			MaxPoolSize:    100,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8000,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		MQTT: MQTTConfig{
			Enabled: false,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "minetel-core",
			},
			Topic: "minetel/readings",
			QoS:   1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Security: SecurityConfig{
			APIKeys: "defaultkey",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: MINETEL_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Mongo
	if v := os.Getenv("MINETEL_MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("MINETEL_MONGO_DATABASE"); v != "" {
		cfg.Mongo.Database = v
	}
	if v := os.Getenv("MINETEL_MONGO_COLLECTION"); v != "" {
		cfg.Mongo.Collection = v
	}

	// API
	if v := os.Getenv("MINETEL_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("MINETEL_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// MQTT
	if v := os.Getenv("MINETEL_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("MINETEL_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Broker.Username = v
	}
	if v := os.Getenv("MINETEL_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Broker.Password = v
	}

	// Security - API keys (IMPORTANT: always override in production)
	if v := os.Getenv("MINETEL_API_KEYS"); v != "" {
		cfg.Security.APIKeys = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Mongo.URI == "" {
		errs = append(errs, "mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		errs = append(errs, "mongo.database is required")
	}
	if c.Mongo.Collection == "" {
		errs = append(errs, "mongo.collection is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(c.Security.ValidKeys()) == 0 {
		errs = append(errs, "security.api_keys must contain at least one non-empty key (set MINETEL_API_KEYS)")
	}

	if c.MQTT.Enabled {
		if c.MQTT.Topic == "" {
			errs = append(errs, "mqtt.topic is required when mqtt is enabled")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ValidKeys splits the comma-separated key list into individual keys.
// Surrounding whitespace is trimmed and empty entries are discarded, so a
// trailing comma cannot create an always-matching empty key.
func (s SecurityConfig) ValidKeys() []string {
	parts := strings.Split(s.APIKeys, ",")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// GetConnectTimeout returns the Mongo connect timeout as a Duration.
func (c *MongoConfig) GetConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}

// GetSocketTimeout returns the Mongo socket timeout as a Duration.
func (c *MongoConfig) GetSocketTimeout() time.Duration {
	return time.Duration(c.SocketTimeout) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (a APIConfig) GetReadTimeout() time.Duration {
	return time.Duration(a.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (a APIConfig) GetWriteTimeout() time.Duration {
	return time.Duration(a.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (a APIConfig) GetIdleTimeout() time.Duration {
	return time.Duration(a.Timeouts.Idle) * time.Second
}
