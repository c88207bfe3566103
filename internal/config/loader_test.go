package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := &Loader{}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg.Analysis.Mode != ModeSimulated {
		t.Errorf("Expected default mode simulated, got %s", cfg.Analysis.Mode)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
client:
  base_url: "http://analysis.internal:9000"
  timeout: 5s
analysis:
  mode: remote
  tick_interval: 50ms
  progress_step: 20
output:
  default_format: json
  verbose: true
`)

	cfg, err := (&Loader{}).LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Client.BaseURL != "http://analysis.internal:9000" {
		t.Errorf("Expected base URL from file, got %s", cfg.Client.BaseURL)
	}
	if cfg.Client.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.Client.Timeout)
	}
	if cfg.Analysis.Mode != ModeRemote {
		t.Errorf("Expected remote mode, got %s", cfg.Analysis.Mode)
	}
	if cfg.Analysis.TickInterval != 50*time.Millisecond {
		t.Errorf("Expected 50ms tick interval, got %v", cfg.Analysis.TickInterval)
	}
	if cfg.Analysis.ProgressStep != 20 {
		t.Errorf("Expected progress step 20, got %d", cfg.Analysis.ProgressStep)
	}
	if cfg.Output.DefaultFormat != "json" || !cfg.Output.Verbose {
		t.Errorf("Expected json verbose output, got %+v", cfg.Output)
	}
	if cfg.Analysis.MaxPreviewBytes != DefaultConfig().Analysis.MaxPreviewBytes {
		t.Errorf("Expected default preview limit to be kept")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "client: [unclosed"},
		{"invalid value", "analysis:\n  progress_step: 500\n"},
		{"invalid mode", "analysis:\n  mode: quantum\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (&Loader{}).LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error loading config, but got none")
			}
		})
	}
}

func TestLoadConfigSearchPathPriority(t *testing.T) {
	dir := t.TempDir()
	low := filepath.Join(dir, "system.yaml")
	high := filepath.Join(dir, "project.yaml")

	if err := os.WriteFile(low, []byte("analysis:\n  progress_step: 5\n  mode: remote\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(high, []byte("analysis:\n  progress_step: 25\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := &Loader{configPaths: []string{high, low}}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Analysis.ProgressStep != 25 {
		t.Errorf("Expected higher priority file to win, got step %d", cfg.Analysis.ProgressStep)
	}
	if cfg.Analysis.Mode != ModeRemote {
		t.Errorf("Expected lower priority values to survive, got %s", cfg.Analysis.Mode)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("XRAYLAB_CLIENT_BASE_URL", "https://env.example.org")
	t.Setenv("XRAYLAB_CLIENT_TIMEOUT", "3s")
	t.Setenv("XRAYLAB_ANALYSIS_MODE", "remote")
	t.Setenv("XRAYLAB_ANALYSIS_PROGRESS_STEP", "50")
	t.Setenv("XRAYLAB_ANALYSIS_MAX_PREVIEW_BYTES", "2048")
	t.Setenv("XRAYLAB_OUTPUT_VERBOSE", "true")
	t.Setenv("XRAYLAB_OUTPUT_STYLE", "plain")
	t.Setenv("XRAYLAB_SERVER_ADDR", "127.0.0.1:9999")

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Client.BaseURL != "https://env.example.org" {
		t.Errorf("Expected base URL from env, got %s", cfg.Client.BaseURL)
	}
	if cfg.Client.Timeout != 3*time.Second {
		t.Errorf("Expected 3s timeout, got %v", cfg.Client.Timeout)
	}
	if cfg.Analysis.Mode != ModeRemote || cfg.Analysis.ProgressStep != 50 {
		t.Errorf("Expected analysis overrides, got %+v", cfg.Analysis)
	}
	if cfg.Analysis.MaxPreviewBytes != 2048 {
		t.Errorf("Expected preview limit 2048, got %d", cfg.Analysis.MaxPreviewBytes)
	}
	if !cfg.Output.Verbose || cfg.Output.Style != StylePlain {
		t.Errorf("Expected output overrides, got %+v", cfg.Output)
	}
	if cfg.Server.Addr != "127.0.0.1:9999" {
		t.Errorf("Expected server addr override, got %s", cfg.Server.Addr)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "XRAYLAB_ANALYSIS_PROGRESS_STEP", "not-a-number"},
		{"invalid int64", "XRAYLAB_SERVER_MAX_UPLOAD_BYTES", "ten"},
		{"invalid bool", "XRAYLAB_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "XRAYLAB_ANALYSIS_TICK_INTERVAL", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			if err := NewLoader().applyEnvOverrides(DefaultConfig()); err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	const key = "XRAYLAB_OUTPUT_THEME"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set in environment", key)
	}
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte(key+"=minimal\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := &Loader{envFiles: []string{envFile}}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Output.Theme != "minimal" {
		t.Errorf("Expected theme from .env, got %s", cfg.Output.Theme)
	}
}

func TestParseHelpers(t *testing.T) {
	var d time.Duration
	if err := parseDuration("250ms", &d); err != nil || d != 250*time.Millisecond {
		t.Errorf("parseDuration: got %v, %v", d, err)
	}

	var i int
	if err := parseInt("42", &i); err != nil || i != 42 {
		t.Errorf("parseInt: got %d, %v", i, err)
	}

	var i64 int64
	if err := parseInt64("10485760", &i64); err != nil || i64 != 10485760 {
		t.Errorf("parseInt64: got %d, %v", i64, err)
	}

	var b bool
	if err := parseBool("true", &b); err != nil || !b {
		t.Errorf("parseBool: got %v, %v", b, err)
	}
}

func TestFindConfigFile(t *testing.T) {
	if _, found := FindConfigFile(); found {
		t.Skip("a config file exists on this machine")
	}

	tempConfigPath := "./.xraylab.yaml"
	if err := os.WriteFile(tempConfigPath, []byte("version: 1.0"), 0o600); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	defer func() { _ = os.Remove(tempConfigPath) }()

	configPath, found := FindConfigFile()
	if !found {
		t.Error("Expected config file to be found, but none was found")
	}
	if configPath != tempConfigPath {
		t.Errorf("Expected config path %s, got %s", tempConfigPath, configPath)
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid yaml file", "config.yaml", false},
		{"valid yml file", "config.yml", false},
		{"path traversal attempt", "../../../etc/passwd", true},
		{"non-yaml file", "config.txt", true},
		{"proc filesystem access", "/proc/version.yaml", true},
		{"nested relative path", "configs/xraylab.yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfigPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
