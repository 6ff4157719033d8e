package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/chriscorrea/winnow/internal/config"
	"github.com/chriscorrea/winnow/internal/corpus"
	"github.com/chriscorrea/winnow/internal/counter"
	"github.com/chriscorrea/winnow/internal/dedup"
	"github.com/chriscorrea/winnow/internal/pii"
	"github.com/chriscorrea/winnow/internal/shingle"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenNoFileExists(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "winnow", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}

	opts := cfg.DedupOptions()
	if opts.NumHashes != 128 || opts.NumBands != 16 || opts.NgramSize != 5 || opts.Threshold != 0.8 {
		t.Fatalf("unexpected dedup defaults: %+v", opts)
	}
	if opts.Mode != shingle.Chars || opts.Keep != dedup.KeepFirst || opts.Empty != dedup.EmptyAsDuplicate {
		t.Fatalf("unexpected dedup policies: %+v", opts)
	}
	if cfg.Ledger.Path != filepath.Join(tempHome, ".local", "share", "winnow", "ledger.db") {
		t.Fatalf("unexpected ledger path %q", cfg.Ledger.Path)
	}
	if cfg.Layout() != corpus.Files || cfg.CountingMethod() != counter.Tokens {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if len(cfg.PIIKinds()) != 0 {
		t.Fatalf("expected PII masking disabled by default, got %v", cfg.PIIKinds())
	}
	if !cfg.Filters.ExtractHTML {
		t.Fatal("expected HTML extraction enabled by default")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[dedup]
num_hashes = 64
num_bands = 8
ngram_size = 3
mode = "Words"
threshold = 0.5
keep = "longest"
empty = "keep"

[filters]
mask_pii = ["email", "ip"]
gopher = true

[output]
dir = "out/curated.jsonl.gz"
layout = "jsonl"
report = "JSON"
count = "words"

[logging]
level = "DEBUG"
format = "json"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %q to be read, got %q (exists=%v)", path, resolved, exists)
	}

	opts := cfg.DedupOptions()
	if opts.NumHashes != 64 || opts.NumBands != 8 || opts.NgramSize != 3 || opts.Threshold != 0.5 {
		t.Fatalf("unexpected dedup options: %+v", opts)
	}
	if opts.Mode != shingle.Words || opts.Keep != dedup.KeepLongest || opts.Empty != dedup.EmptyKeep {
		t.Fatalf("unexpected dedup policies: %+v", opts)
	}
	if cfg.Dedup.Mode != "words" {
		t.Fatalf("expected canonical mode name, got %q", cfg.Dedup.Mode)
	}

	kinds := cfg.PIIKinds()
	if len(kinds) != 2 || kinds[0] != pii.Email || kinds[1] != pii.IPAddress {
		t.Fatalf("unexpected PII kinds: %v", kinds)
	}
	if !cfg.Filters.Gopher {
		t.Fatal("expected gopher filter enabled")
	}

	if cfg.Layout() != corpus.JSONL || cfg.Output.Report != "json" || cfg.CountingMethod() != counter.Words {
		t.Fatalf("unexpected output settings: %+v", cfg.Output)
	}
	if !filepath.IsAbs(cfg.Output.Dir) || !strings.HasSuffix(cfg.Output.Dir, "curated.jsonl.gz") {
		t.Fatalf("expected absolute output path, got %q", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging settings: %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bands exceed hashes", "[dedup]\nnum_hashes = 4\nnum_bands = 8\n", "num_bands"},
		{"threshold above one", "[dedup]\nthreshold = 1.5\n", "threshold"},
		{"unknown mode", "[dedup]\nmode = \"bytes\"\n", "dedup.mode"},
		{"unknown keep", "[dedup]\nkeep = \"random\"\n", "dedup.keep"},
		{"unknown pii", "[filters]\nmask_pii = [\"ssn\"]\n", "filters.mask_pii"},
		{"unknown layout", "[output]\nlayout = \"parquet\"\n", "output.layout"},
		{"unknown report", "[output]\nreport = \"yaml\"\n", "output.report"},
		{"unknown count", "[output]\ncount = \"bytes\"\n", "output.count"},
		{"unknown log level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
		{"unknown key", "[dedup]\nbands = 4\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestInvalidDedupOptionsWrapSentinel(t *testing.T) {
	_, _, _, err := config.Load(writeConfig(t, "[dedup]\nnum_hashes = 0\n"))
	if !errors.Is(err, dedup.ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestRefreshAppliesOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Dedup.Keep = "longest"
	cfg.Dedup.NumBands = 4
	if err := cfg.Refresh(); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if opts := cfg.DedupOptions(); opts.Keep != dedup.KeepLongest || opts.NumBands != 4 {
		t.Fatalf("overrides not applied: %+v", opts)
	}

	cfg.Dedup.Threshold = -1
	if err := cfg.Refresh(); err == nil {
		t.Fatal("expected invalid threshold to fail")
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	var fromSample config.Config
	if err := toml.Unmarshal([]byte(config.Sample()), &fromSample); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}

	defaults := config.Default()
	if fromSample.Dedup != defaults.Dedup {
		t.Fatalf("sample [dedup] = %+v, defaults = %+v", fromSample.Dedup, defaults.Dedup)
	}
	if fromSample.Output != defaults.Output {
		t.Fatalf("sample [output] = %+v, defaults = %+v", fromSample.Output, defaults.Output)
	}
	if fromSample.Ledger != defaults.Ledger || fromSample.Logging != defaults.Logging || fromSample.Search != defaults.Search {
		t.Fatal("sample ledger, search, or logging sections drift from defaults")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("sample config did not load: exists=%v err=%v", exists, err)
	}
	if cfg.DedupOptions().NumHashes != 128 {
		t.Fatalf("unexpected hashes from sample: %d", cfg.DedupOptions().NumHashes)
	}
}
