package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Client   ClientConfig   `yaml:"client" json:"client"`
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Server   ServerConfig   `yaml:"server" json:"server"`
}

// ClientConfig configures the remote analysis service client
type ClientConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"` // analysis service endpoint
	Timeout time.Duration `yaml:"timeout" json:"timeout"`   // per-request timeout
}

// AnalysisConfig configures how a session runs an analysis
type AnalysisConfig struct {
	Mode            string        `yaml:"mode" json:"mode"`                           // simulated|remote
	TickInterval    time.Duration `yaml:"tick_interval" json:"tick_interval"`         // simulated progress period
	ProgressStep    int           `yaml:"progress_step" json:"progress_step"`         // progress added per tick
	MaxPreviewBytes int64         `yaml:"max_preview_bytes" json:"max_preview_bytes"` // full-read limit for previews
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|terminal|json|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
	Style         string `yaml:"style" json:"style"`                   // plain|styled
	Theme         string `yaml:"theme" json:"theme"`                   // clinical|high-contrast|minimal
}

// ServerConfig configures the research stub API
type ServerConfig struct {
	Addr           string `yaml:"addr" json:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" json:"max_upload_bytes"`
}

const (
	ModeSimulated = "simulated"
	ModeRemote    = "remote"

	StylePlain  = "plain"
	StyleStyled = "styled"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Client: ClientConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Analysis: AnalysisConfig{
			Mode:            ModeSimulated,
			TickInterval:    200 * time.Millisecond,
			ProgressStep:    10,
			MaxPreviewBytes: 10 * 1024 * 1024, // 10MB
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			Style:         StyleStyled,
			Theme:         "clinical",
		},
		Server: ServerConfig{
			Addr:           ":8000",
			MaxUploadBytes: 10 * 1024 * 1024,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateClientConfig(); err != nil {
		return err
	}
	if err := c.validateAnalysisConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateClientConfig() error {
	if c.Client.BaseURL == "" {
		return fmt.Errorf("client.base_url is required")
	}
	u, err := url.Parse(c.Client.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid client.base_url: %s (must be an http or https URL)", c.Client.BaseURL)
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive")
	}
	return nil
}

func (c *Config) validateAnalysisConfig() error {
	switch c.Analysis.Mode {
	case ModeSimulated, ModeRemote:
	default:
		return fmt.Errorf("invalid analysis mode: %s (must be one of: simulated, remote)", c.Analysis.Mode)
	}
	if c.Analysis.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive")
	}
	if c.Analysis.ProgressStep < 1 || c.Analysis.ProgressStep > 100 {
		return fmt.Errorf("progress_step must be between 1 and 100")
	}
	if c.Analysis.MaxPreviewBytes < 1 {
		return fmt.Errorf("max_preview_bytes must be greater than 0")
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"terminal": true,
			"markdown": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: text, terminal, json, markdown)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Style != "" && c.Output.Style != StylePlain && c.Output.Style != StyleStyled {
		return fmt.Errorf("invalid style: %s (must be one of: plain, styled)", c.Output.Style)
	}
	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("max_upload_bytes must be greater than 0")
	}
	return nil
}
