package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if !strings.HasPrefix(c.YouTube.BaseURL, "http://") && !strings.HasPrefix(c.YouTube.BaseURL, "https://") {
		return fmt.Errorf("youtube.base_url: %q is not an http(s) URL", c.YouTube.BaseURL)
	}
	if c.YouTube.RequestsPerMinute <= 0 {
		return fmt.Errorf("youtube.requests_per_minute must be positive")
	}
	if c.Browser.CommandTimeoutSeconds <= 0 {
		return fmt.Errorf("browser.command_timeout_seconds must be positive")
	}
	return nil
}
