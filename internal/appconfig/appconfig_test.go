// internal/appconfig/appconfig_test.go
package appconfig

import (
	"os"
	"testing"
	"time"
)

// writeConfig drops body into a temp file and returns its path,
// cleaning up when the test finishes.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "config.json")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })
	if _, err := tmpfile.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

// TestLoad tests the Load function to ensure it correctly handles various
// scenarios, including valid and invalid configurations. It verifies that a
// valid configuration file is loaded without error, while files with invalid
// JSON, unknown keys, out-of-range values, or that are nonexistent result in
// an appropriate error.
func TestLoad(t *testing.T) {
	validConfig := `{
        "redisAddr": "10.0.0.5:6379",
        "livenessPattern": "latest:*",
        "resultsDir": "out",
        "devices": 50,
        "pollSeconds": 3,
        "debug": true
    }`
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.RedisAddress() != "10.0.0.5:6379" {
		t.Fatalf("expected configured redis address, got %q", cfg.RedisAddress())
	}
	if cfg.ResultsDirPath() != "out" {
		t.Fatalf("expected configured results dir, got %q", cfg.ResultsDirPath())
	}
	if cfg.DeviceCount() != 50 {
		t.Fatalf("expected 50 devices, got %d", cfg.DeviceCount())
	}
	if cfg.PollInterval() != 3*time.Second {
		t.Fatalf("expected 3s poll interval, got %v", cfg.PollInterval())
	}
	if !cfg.Debug {
		t.Fatal("expected debug to be set")
	}
	if cfg.ConfigPath != path {
		t.Fatalf("expected ConfigPath %q, got %q", path, cfg.ConfigPath)
	}

	if _, err := Load(writeConfig(t, `{ "devices": `)); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	if _, err := Load(writeConfig(t, `{ "divices": 50 }`)); err == nil {
		t.Fatal("Load() with an unknown key should have failed")
	}

	if _, err := Load(writeConfig(t, `{ "pollSeconds": -3 }`)); err == nil {
		t.Fatal("Load() with a negative poll interval should have failed")
	}

	if _, err := Load("nonexistent.json"); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

// TestConfigDefaults verifies every accessor falls back to its
// documented default when the corresponding key is absent.
func TestConfigDefaults(t *testing.T) {
	var cfg Config

	if cfg.RedisAddress() != "localhost:6379" {
		t.Errorf("redis address default: got %q", cfg.RedisAddress())
	}
	if cfg.KeyPattern() != "latest:*" {
		t.Errorf("key pattern default: got %q", cfg.KeyPattern())
	}
	if cfg.ResultsDirPath() != "results" {
		t.Errorf("results dir default: got %q", cfg.ResultsDirPath())
	}
	if cfg.BatchGlob() != "test*.csv" {
		t.Errorf("batch glob default: got %q", cfg.BatchGlob())
	}
	if cfg.Window() != 120.0 {
		t.Errorf("window default: got %f", cfg.Window())
	}
	if cfg.SettleDelay() != 30*time.Second {
		t.Errorf("settle delay default: got %v", cfg.SettleDelay())
	}
	if cfg.PollInterval() != 5*time.Second {
		t.Errorf("poll interval default: got %v", cfg.PollInterval())
	}
	if cfg.DowntimePollCount() != 12 {
		t.Errorf("downtime poll default: got %d", cfg.DowntimePollCount())
	}
	if cfg.RecoveryPollCount() != 18 {
		t.Errorf("recovery poll default: got %d", cfg.RecoveryPollCount())
	}
	if cfg.BrokerURL() != "tcp://localhost:1883" {
		t.Errorf("broker default: got %q", cfg.BrokerURL())
	}
	if cfg.TenantID() != "acme-clinic" {
		t.Errorf("tenant default: got %q", cfg.TenantID())
	}
	if cfg.DeviceCount() != 5 {
		t.Errorf("device count default: got %d", cfg.DeviceCount())
	}
	if cfg.PublishInterval() != 2*time.Second {
		t.Errorf("publish interval default: got %v", cfg.PublishInterval())
	}
	if cfg.LogFilePath() != "dokimi.log" {
		t.Errorf("log file default: got %q", cfg.LogFilePath())
	}
}
