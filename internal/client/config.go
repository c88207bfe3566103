package client

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultBaseURL is where the research analysis service listens by default
const DefaultBaseURL = "http://localhost:8000"

// Config holds client configuration
type Config struct {
	// BaseURL is the analysis service endpoint
	BaseURL string `json:"base_url"`

	// Timeout bounds each HTTP request
	Timeout time.Duration `json:"timeout"`

	// UserAgent is sent with every request
	UserAgent string `json:"user_agent"`
}

// DefaultConfig returns a default client configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   30 * time.Second,
		UserAgent: "xraylab",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https, got %q", u.Scheme)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
