package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.DedupOptions().Validate(); err != nil {
		return fmt.Errorf("dedup: %w", err)
	}
	if c.Dedup.Workers < 0 {
		return errors.New("dedup.workers must be >= 0")
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if c.Search.Limit < 0 {
		return errors.New("search.limit must be >= 0")
	}
	return c.validateLogging()
}

func (c *Config) validateOutput() error {
	if c.Output.Dir == "" {
		return errors.New("output.dir must be set")
	}
	switch c.Output.Report {
	case "table", "json":
	default:
		return fmt.Errorf("output.report must be table or json, got %q", c.Output.Report)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
