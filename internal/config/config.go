package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/chriscorrea/winnow/internal/corpus"
	"github.com/chriscorrea/winnow/internal/counter"
	"github.com/chriscorrea/winnow/internal/dedup"
	"github.com/chriscorrea/winnow/internal/pii"
	"github.com/chriscorrea/winnow/internal/shingle"
)

//go:embed sample_config.toml
var sampleConfig string

// Dedup contains near-duplicate detection settings.
type Dedup struct {
	NumHashes int     `toml:"num_hashes"`
	NumBands  int     `toml:"num_bands"`
	NgramSize int     `toml:"ngram_size"`
	Mode      string  `toml:"mode"`      // chars | words
	Threshold float64 `toml:"threshold"` // minimum estimated similarity to remove
	Keep      string  `toml:"keep"`      // first | longest
	Empty     string  `toml:"empty"`     // duplicate | keep
	Workers   int     `toml:"workers"`   // 0 uses every CPU

	mode  shingle.Mode
	keep  dedup.KeepPolicy
	empty dedup.EmptyPolicy
}

// Filters contains the cleaning stages run before deduplication.
type Filters struct {
	ExtractHTML      bool     `toml:"extract_html"`
	Selector         string   `toml:"selector"`
	IncludeAll       bool     `toml:"include_all"`
	StripBoilerplate bool     `toml:"strip_boilerplate"`
	MaskPII          []string `toml:"mask_pii"`
	Gopher           bool     `toml:"gopher"`
	LineDedup        bool     `toml:"line_dedup"`

	piiKinds []pii.Kind
}

// Output contains where and how survivors and the run report are written.
type Output struct {
	Dir      string `toml:"dir"`      // directory for files, file path for jsonl
	Layout   string `toml:"layout"`   // files | jsonl
	Report   string `toml:"report"`   // table | json
	Count    string `toml:"count"`    // tokens | words | characters
	Encoding string `toml:"encoding"` // tiktoken encoding for token counts
	EOS      bool   `toml:"eos"`      // count one end-of-text token per document

	layout corpus.Layout
	count  counter.CountingMethod
}

// Ledger contains run ledger settings.
type Ledger struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Search contains spot-check search settings.
type Search struct {
	Limit int `toml:"limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"` // text | json
	Level  string `toml:"level"`  // debug | info | warn | error
}

// Config encapsulates all configuration values for winnow.
type Config struct {
	Dedup   Dedup   `toml:"dedup"`
	Filters Filters `toml:"filters"`
	Output  Output  `toml:"output"`
	Ledger  Ledger  `toml:"ledger"`
	Search  Search  `toml:"search"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/winnow/config.toml")
}

// Load locates, parses, and validates a configuration file. An empty path
// checks the user configuration file and then winnow.toml in the working
// directory; when neither exists the defaults are used. Load returns the
// resolved path and whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	} else if path != "" {
		return nil, "", false, fmt.Errorf("config file %q does not exist", resolvedPath)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("winnow.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// DedupOptions returns the resolved deduplication options.
func (c *Config) DedupOptions() dedup.Options {
	return dedup.Options{
		NumHashes: c.Dedup.NumHashes,
		NumBands:  c.Dedup.NumBands,
		NgramSize: c.Dedup.NgramSize,
		Mode:      c.Dedup.mode,
		Threshold: c.Dedup.Threshold,
		Keep:      c.Dedup.keep,
		Empty:     c.Dedup.empty,
		Workers:   c.Dedup.Workers,
	}
}

// PIIKinds returns the resolved PII kinds to mask; empty disables masking.
func (c *Config) PIIKinds() []pii.Kind {
	return c.Filters.piiKinds
}

// Layout returns the resolved output layout.
func (c *Config) Layout() corpus.Layout {
	return c.Output.layout
}

// CountingMethod returns the resolved statistics counting method.
func (c *Config) CountingMethod() counter.CountingMethod {
	return c.Output.count
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for flag values.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// Sample returns the annotated sample configuration.
func Sample() string {
	return sampleConfig
}

// CreateSample writes the sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
