package config

const (
	defaultNumHashes   = 128
	defaultNumBands    = 16
	defaultNgramSize   = 5
	defaultMode        = "chars"
	defaultThreshold   = 0.8
	defaultKeep        = "first"
	defaultEmpty       = "duplicate"
	defaultOutputDir   = "curated"
	defaultLayout      = "files"
	defaultReport      = "table"
	defaultCount       = "tokens"
	defaultEncoding    = "r50k_base"
	defaultLedgerPath  = "~/.local/share/winnow/ledger.db"
	defaultLogFormat   = "text"
	defaultLogLevel    = "error"
	defaultSearchLimit = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Dedup: Dedup{
			NumHashes: defaultNumHashes,
			NumBands:  defaultNumBands,
			NgramSize: defaultNgramSize,
			Mode:      defaultMode,
			Threshold: defaultThreshold,
			Keep:      defaultKeep,
			Empty:     defaultEmpty,
		},
		Filters: Filters{
			ExtractHTML: true,
		},
		Output: Output{
			Dir:      defaultOutputDir,
			Layout:   defaultLayout,
			Report:   defaultReport,
			Count:    defaultCount,
			Encoding: defaultEncoding,
		},
		Ledger: Ledger{
			Path: defaultLedgerPath,
		},
		Search: Search{
			Limit: defaultSearchLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
