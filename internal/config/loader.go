package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "XRAYLAB_"

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.xraylab.yaml",               // Project-specific config (highest priority)
	"~/.config/xraylab/config.yaml", // User config
	"/etc/xraylab/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	envFiles    []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		envFiles:    []string{".env"},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables, including those set by ./.env
// 3. ./.xraylab.yaml
// 4. ~/.config/xraylab/config.yaml
// 5. /etc/xraylab/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	if err := l.loadEnvFiles(); err != nil {
		return nil, err
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadEnvFiles populates the environment from dotenv files without
// overriding variables that are already set
func (l *Loader) loadEnvFiles() error {
	for _, path := range l.envFiles {
		if !fileExists(path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Client Config
		"CLIENT_BASE_URL": func(v string) error { config.Client.BaseURL = v; return nil },
		"CLIENT_TIMEOUT":  func(v string) error { return parseDuration(v, &config.Client.Timeout) },

		// Analysis Config
		"ANALYSIS_MODE":              func(v string) error { config.Analysis.Mode = v; return nil },
		"ANALYSIS_TICK_INTERVAL":     func(v string) error { return parseDuration(v, &config.Analysis.TickInterval) },
		"ANALYSIS_PROGRESS_STEP":     func(v string) error { return parseInt(v, &config.Analysis.ProgressStep) },
		"ANALYSIS_MAX_PREVIEW_BYTES": func(v string) error { return parseInt64(v, &config.Analysis.MaxPreviewBytes) },

		// Output Config
		"OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"OUTPUT_STYLE":          func(v string) error { config.Output.Style = v; return nil },
		"OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },

		// Server Config
		"SERVER_ADDR":             func(v string) error { config.Server.Addr = v; return nil },
		"SERVER_MAX_UPLOAD_BYTES": func(v string) error { return parseInt64(v, &config.Server.MaxUploadBytes) },
	}

	for name, setter := range envMappings {
		envVar := EnvPrefix + name
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination.
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeClientConfig(&dst.Client, &src.Client)
	mergeAnalysisConfig(&dst.Analysis, &src.Analysis)
	mergeOutputConfig(&dst.Output, &src.Output)
	mergeServerConfig(&dst.Server, &src.Server)
}

func mergeClientConfig(dst, src *ClientConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
}

func mergeAnalysisConfig(dst, src *AnalysisConfig) {
	if src.Mode != "" {
		dst.Mode = src.Mode
	}
	if src.TickInterval != 0 {
		dst.TickInterval = src.TickInterval
	}
	if src.ProgressStep != 0 {
		dst.ProgressStep = src.ProgressStep
	}
	if src.MaxPreviewBytes != 0 {
		dst.MaxPreviewBytes = src.MaxPreviewBytes
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.Style != "" {
		dst.Style = src.Style
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	// an unset bool is indistinguishable from false; env overrides cover the gap
	if src.Verbose {
		dst.Verbose = true
	}
}

func mergeServerConfig(dst, src *ServerConfig) {
	if src.Addr != "" {
		dst.Addr = src.Addr
	}
	if src.MaxUploadBytes != 0 {
		dst.MaxUploadBytes = src.MaxUploadBytes
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
