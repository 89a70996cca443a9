// internal/cli/root_flags_test.go
package dokimi

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/dokimi/internal/logging"
	"github.com/spf13/viper"
)

func resetFlag(cmdFlag string) {
	flag := rootCmd.PersistentFlags().Lookup(cmdFlag)
	if flag == nil {
		return
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func useTempConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := writeTempConfig(t, content)

	prevCfgFile := cfgFile
	cfgFile = configPath
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
	})
	t.Cleanup(func() { _ = logging.Close() })
	return configPath
}

func TestPersistentPreRunEUsesFlagValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dokimi.log")
	configPath := useTempConfig(t, "{}")

	for _, name := range []string{"debug", "logFile", "resultsDir"} {
		resetFlag(name)
	}
	_ = rootCmd.PersistentFlags().Set("debug", "true")
	_ = rootCmd.PersistentFlags().Set("logFile", logPath)
	_ = rootCmd.PersistentFlags().Set("resultsDir", "run-artifacts")

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	if currentConfig == nil || currentConfig.ConfigPath != configPath {
		t.Fatalf("expected config loaded with path %s", configPath)
	}
	if !currentConfig.Debug {
		t.Fatalf("expected debug flag to flow into config: %+v", currentConfig)
	}
	if currentConfig.LogFile != logPath {
		t.Fatalf("expected logFile set, got %s", currentConfig.LogFile)
	}
	if currentConfig.ResultsDir != "run-artifacts" {
		t.Fatalf("expected resultsDir set, got %s", currentConfig.ResultsDir)
	}
}

func TestPersistentPreRunEAppliesConfigValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dokimi.log")
	useTempConfig(t, `{ "resultsDir": "artifacts", "devices": 42, "tenant": "rehab-west" }`)

	for _, name := range []string{"debug", "logFile", "resultsDir"} {
		resetFlag(name)
	}
	_ = rootCmd.PersistentFlags().Set("logFile", logPath)

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	if currentConfig.ResultsDirPath() != "artifacts" {
		t.Fatalf("expected resultsDir from config, got %s", currentConfig.ResultsDirPath())
	}
	if currentConfig.DeviceCount() != 42 {
		t.Fatalf("expected devices from config, got %d", currentConfig.DeviceCount())
	}
	if currentConfig.TenantID() != "rehab-west" {
		t.Fatalf("expected tenant from config, got %s", currentConfig.TenantID())
	}
}

func TestPersistentPreRunERejectsInvalidConfig(t *testing.T) {
	useTempConfig(t, `{ "divices": 50 }`)

	for _, name := range []string{"debug", "logFile", "resultsDir"} {
		resetFlag(name)
	}

	err := rootCmd.PersistentPreRunE(rootCmd, []string{})
	if err == nil {
		t.Fatalf("expected error for config with unknown key")
	}
	if !strings.Contains(err.Error(), "divices") {
		t.Fatalf("expected schema violation to name the key, got %v", err)
	}
}

func TestShowConfigCommandOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dokimi.log")
	configPath := useTempConfig(t, "{}")

	for _, name := range []string{"debug", "logFile", "resultsDir"} {
		resetFlag(name)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--debug", "--logFile", logPath, "show", "config"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	_, err := rootCmd.ExecuteC()
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Config file: "+configPath) {
		t.Fatalf("expected config file path in output, got %s", out)
	}
	if !strings.Contains(out, "Debug:           true") {
		t.Fatalf("expected debug in output, got %s", out)
	}
	if !strings.Contains(out, "Tenant:          acme-clinic") {
		t.Fatalf("expected tenant default in output, got %s", out)
	}
}
