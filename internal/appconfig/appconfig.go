// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"

	defaultRedisAddr       = "localhost:6379"
	defaultLivenessPattern = "latest:*"
	defaultResultsDir      = "results"
	defaultBatchPattern    = "test*.csv"
	defaultWindowSeconds   = 120.0
	defaultSettleSeconds   = 30
	defaultPollSeconds     = 5
	defaultDowntimePolls   = 12
	defaultRecoveryPolls   = 18
	defaultBroker          = "tcp://localhost:1883"
	defaultTenant          = "acme-clinic"
	defaultDevices         = 5
	defaultPublishSeconds  = 2
)

// Config represents the top-level application configuration. Field
// names match the camelCase config keys closely enough for viper's
// case-insensitive unmarshal to bind them without tags.
type Config struct {
	RedisAddr       string  `json:"redisAddr,omitempty"`
	RedisPassword   string  `json:"redisPassword,omitempty"`
	RedisDB         int     `json:"redisDB,omitempty"`
	LivenessPattern string  `json:"livenessPattern,omitempty"`
	ResultsDir      string  `json:"resultsDir,omitempty"`
	BatchPattern    string  `json:"batchPattern,omitempty"`
	WindowSeconds   float64 `json:"windowSeconds,omitempty"`
	SettleSeconds   int     `json:"settleSeconds,omitempty"`
	PollSeconds     int     `json:"pollSeconds,omitempty"`
	DowntimePolls   int     `json:"downtimePolls,omitempty"`
	RecoveryPolls   int     `json:"recoveryPolls,omitempty"`
	Broker          string  `json:"broker,omitempty"`
	Tenant          string  `json:"tenant,omitempty"`
	Devices         int     `json:"devices,omitempty"`
	PublishSeconds  int     `json:"publishSeconds,omitempty"`
	Debug           bool    `json:"debug"`
	LogFile         string  `json:"logFile,omitempty"`
	ConfigPath      string  `json:"-"`
}

// RedisAddress returns the Redis host:port the liveness oracle scans.
func (c Config) RedisAddress() string {
	if addr := strings.TrimSpace(c.RedisAddr); addr != "" {
		return addr
	}
	return defaultRedisAddr
}

// KeyPattern returns the Redis key glob that counts as one live device.
func (c Config) KeyPattern() string {
	if p := strings.TrimSpace(c.LivenessPattern); p != "" {
		return p
	}
	return defaultLivenessPattern
}

// ResultsDirPath returns the directory run artifacts are written to.
func (c Config) ResultsDirPath() string {
	if dir := strings.TrimSpace(c.ResultsDir); dir != "" {
		return dir
	}
	return defaultResultsDir
}

// BatchGlob returns the filename pattern batch discovery scans for.
func (c Config) BatchGlob() string {
	if p := strings.TrimSpace(c.BatchPattern); p != "" {
		return p
	}
	return defaultBatchPattern
}

// Window returns the throughput window in seconds.
func (c Config) Window() float64 {
	if c.WindowSeconds <= 0 {
		return defaultWindowSeconds
	}
	return c.WindowSeconds
}

// SettleDelay returns how long a recovery run idles before sampling
// its baseline.
func (c Config) SettleDelay() time.Duration {
	if c.SettleSeconds <= 0 {
		return defaultSettleSeconds * time.Second
	}
	return time.Duration(c.SettleSeconds) * time.Second
}

// PollInterval returns the delay between oracle polls.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return defaultPollSeconds * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// DowntimePollCount returns how many polls the downtime phase records.
func (c Config) DowntimePollCount() int {
	if c.DowntimePolls <= 0 {
		return defaultDowntimePolls
	}
	return c.DowntimePolls
}

// RecoveryPollCount returns the size of the recovery watch window.
func (c Config) RecoveryPollCount() int {
	if c.RecoveryPolls <= 0 {
		return defaultRecoveryPolls
	}
	return c.RecoveryPolls
}

// BrokerURL returns the MQTT broker the simulated fleet publishes to.
func (c Config) BrokerURL() string {
	if b := strings.TrimSpace(c.Broker); b != "" {
		return b
	}
	return defaultBroker
}

// TenantID returns the tenant the simulated fleet publishes under.
func (c Config) TenantID() string {
	if t := strings.TrimSpace(c.Tenant); t != "" {
		return t
	}
	return defaultTenant
}

// DeviceCount returns the number of simulated devices.
func (c Config) DeviceCount() int {
	if c.Devices <= 0 {
		return defaultDevices
	}
	return c.Devices
}

// PublishInterval returns the per-device publish cadence.
func (c Config) PublishInterval() time.Duration {
	if c.PublishSeconds <= 0 {
		return defaultPublishSeconds * time.Second
	}
	return time.Duration(c.PublishSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "dokimi.log"
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := validateConfig(raw); err != nil {
		return Config{}, err
	}

	var config Config
	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}
