package config

import (
	"fmt"
	"strings"

	"github.com/chriscorrea/winnow/internal/corpus"
	"github.com/chriscorrea/winnow/internal/counter"
	"github.com/chriscorrea/winnow/internal/dedup"
	"github.com/chriscorrea/winnow/internal/pii"
	"github.com/chriscorrea/winnow/internal/shingle"
)

// normalize trims and lowercases string settings, expands paths, and
// resolves enumerated settings into their typed forms.
func (c *Config) normalize() error {
	if err := c.normalizeDedup(); err != nil {
		return err
	}
	if err := c.normalizeFilters(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

// Refresh re-runs normalization and validation after fields were changed
// in place, for example by command-line flags.
func (c *Config) Refresh() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) normalizeDedup() error {
	var err error
	if c.Dedup.mode, err = shingle.ParseMode(c.Dedup.Mode); err != nil {
		return fmt.Errorf("dedup.mode: %w", err)
	}
	c.Dedup.Mode = c.Dedup.mode.String()

	if c.Dedup.keep, err = dedup.ParseKeepPolicy(c.Dedup.Keep); err != nil {
		return fmt.Errorf("dedup.keep: %w", err)
	}
	c.Dedup.Keep = c.Dedup.keep.String()

	if c.Dedup.empty, err = dedup.ParseEmptyPolicy(c.Dedup.Empty); err != nil {
		return fmt.Errorf("dedup.empty: %w", err)
	}
	c.Dedup.Empty = c.Dedup.empty.String()
	return nil
}

func (c *Config) normalizeFilters() error {
	c.Filters.Selector = strings.TrimSpace(c.Filters.Selector)
	kinds, err := pii.ParseKinds(c.Filters.MaskPII)
	if err != nil {
		return fmt.Errorf("filters.mask_pii: %w", err)
	}
	c.Filters.piiKinds = kinds
	return nil
}

func (c *Config) normalizeOutput() error {
	var err error
	if c.Output.layout, err = corpus.ParseLayout(strings.TrimSpace(c.Output.Layout)); err != nil {
		return fmt.Errorf("output.layout: %w", err)
	}
	c.Output.Layout = c.Output.layout.String()

	c.Output.Report = strings.ToLower(strings.TrimSpace(c.Output.Report))
	if c.Output.Report == "" {
		c.Output.Report = defaultReport
	}

	method, ok := counter.ParseMethod(strings.ToLower(strings.TrimSpace(c.Output.Count)))
	if !ok {
		return fmt.Errorf("output.count: unknown counting method %q", c.Output.Count)
	}
	c.Output.count = method
	c.Output.Count = method.String()

	c.Output.Encoding = strings.TrimSpace(c.Output.Encoding)
	if c.Output.Encoding == "" {
		c.Output.Encoding = defaultEncoding
	}

	if c.Output.Dir, err = expandPath(strings.TrimSpace(c.Output.Dir)); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLedger() error {
	path := strings.TrimSpace(c.Ledger.Path)
	if path == "" {
		path = defaultLedgerPath
	}
	var err error
	if c.Ledger.Path, err = expandPath(path); err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
