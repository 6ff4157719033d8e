package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/chriscorrea/winnow/internal/app"
	"github.com/chriscorrea/winnow/internal/config"
	"github.com/chriscorrea/winnow/internal/report"

	"github.com/spf13/cobra"
)

// loadSettings reads the config file and applies any flags the user set.
// Flags left at their defaults never override file values.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	settings, _, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("num-hashes") {
		settings.Dedup.NumHashes, _ = flags.GetInt("num-hashes")
	}
	if flags.Changed("num-bands") {
		settings.Dedup.NumBands, _ = flags.GetInt("num-bands")
	}
	if flags.Changed("ngram") {
		settings.Dedup.NgramSize, _ = flags.GetInt("ngram")
	}
	if flags.Changed("mode") {
		settings.Dedup.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("threshold") {
		settings.Dedup.Threshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("keep") {
		settings.Dedup.Keep, _ = flags.GetString("keep")
	}
	if flags.Changed("empty") {
		settings.Dedup.Empty, _ = flags.GetString("empty")
	}
	if flags.Changed("workers") {
		settings.Dedup.Workers, _ = flags.GetInt("workers")
	}

	if flags.Changed("selector") {
		settings.Filters.Selector, _ = flags.GetString("selector")
	}
	if flags.Changed("include-all") {
		settings.Filters.IncludeAll, _ = flags.GetBool("include-all")
	}
	if flags.Changed("no-extract") {
		noExtract, _ := flags.GetBool("no-extract")
		settings.Filters.ExtractHTML = !noExtract
	}
	if flags.Changed("strip-boilerplate") {
		settings.Filters.StripBoilerplate, _ = flags.GetBool("strip-boilerplate")
	}
	if flags.Changed("mask-pii") {
		settings.Filters.MaskPII, _ = flags.GetStringSlice("mask-pii")
	}
	if flags.Changed("gopher") {
		settings.Filters.Gopher, _ = flags.GetBool("gopher")
	}
	if flags.Changed("line-dedup") {
		settings.Filters.LineDedup, _ = flags.GetBool("line-dedup")
	}

	if flags.Changed("output") {
		output, _ := flags.GetString("output")
		if settings.Output.Dir, err = config.ExpandPath(output); err != nil {
			return nil, err
		}
	}
	if flags.Changed("layout") {
		settings.Output.Layout, _ = flags.GetString("layout")
	}
	if flags.Changed("count") {
		settings.Output.Count, _ = flags.GetString("count")
	}
	if flags.Changed("json") {
		if jsonFlag, _ := flags.GetBool("json"); jsonFlag {
			settings.Output.Report = "json"
		}
	}
	if flags.Changed("ledger") {
		settings.Ledger.Enabled, _ = flags.GetBool("ledger")
	}
	if flags.Changed("limit") {
		settings.Search.Limit, _ = flags.GetInt("limit")
	}

	if err := settings.Refresh(); err != nil {
		return nil, err
	}
	return settings, nil
}

// sourcesFromArgs falls back to stdin when no sources are given
func sourcesFromArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

// setupLogger configures the default slog logger. The debug flag wins over
// the configured level.
func setupLogger(debug bool, logging config.Logging) {
	level := slog.LevelError
	switch logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	}
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// prepare loads settings and configures logging for a command
func prepare(cmd *cobra.Command) (*config.Config, report.Format, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, report.Table, fmt.Errorf("configuration error: %w", err)
	}

	debug, _ := cmd.Flags().GetBool("debug")
	setupLogger(debug, settings.Logging)

	format, err := report.ParseFormat(settings.Output.Report)
	if err != nil {
		return nil, report.Table, fmt.Errorf("configuration error: %w", err)
	}
	return settings, format, nil
}

var rootCmd = &cobra.Command{
	Use:   "winnow [sources...]",
	Short: "Near-duplicate removal and cleanup for text corpora",
	Long: `Winnow curates text corpora for language model training. It loads documents
from files, directories, JSON Lines shards, URLs, or standard input, optionally
cleans them, and removes near-duplicates using MinHash signatures and LSH.

Examples:
  winnow crawl/ -o curated/
  winnow shard-*.jsonl.gz --layout jsonl -o curated.jsonl.gz --threshold 0.7
  winnow pages/ --strip-boilerplate --mask-pii email,phone_number --gopher
  cat page.html | winnow --dry-run`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, format, err := prepare(cmd)
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		// create context with signal handling for graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		summary, err := app.Run(ctx, app.Config{
			Sources:  sourcesFromArgs(args),
			Settings: settings,
			DryRun:   dryRun,
			Quiet:    quiet,
			Stderr:   os.Stderr,
		})
		if err != nil {
			return fmt.Errorf("winnow failed: %w", err)
		}

		if quiet && format == report.Table {
			return nil
		}
		return report.Write(cmd.OutOrStdout(), summary, format)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY [sources...]",
	Short: "Rank documents against a query to spot-check curated output",
	Long: `Search scores every document with BM25md and prints the best matches.

Examples:
  winnow search "privacy policy" curated/
  winnow search "tide tables" curated.jsonl.gz --limit 5 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, format, err := prepare(cmd)
		if err != nil {
			return err
		}
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		query := strings.TrimSpace(args[0])
		if query == "" {
			return fmt.Errorf("search query is empty")
		}

		hits, err := app.Search(ctx, app.Config{
			Sources:  sourcesFromArgs(args[1:]),
			Settings: settings,
			Quiet:    quiet,
			Stderr:   os.Stderr,
		}, query, settings.Search.Limit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		return report.WriteHits(cmd.OutOrStdout(), hits, format)
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs [RUN_ID]",
	Short: "List runs recorded in the ledger, or the decisions of one run",
	Long: `Runs reads the SQLite ledger written by runs with --ledger.

Examples:
  winnow runs
  winnow runs 6f1c1d1e-4b7a-4c55-9a43-2f0d9c1e8b21 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, format, err := prepare(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if len(args) == 0 {
			runs, err := app.Runs(ctx, settings)
			if err != nil {
				return err
			}
			return report.WriteRuns(cmd.OutOrStdout(), runs, format)
		}

		decisions, err := app.RunDecisions(ctx, settings, args[0])
		if err != nil {
			return err
		}
		return report.WriteDecisions(cmd.OutOrStdout(), decisions, format)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the annotated sample configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), config.Sample())
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the sample configuration (default ~/.config/winnow/config.toml)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		var err error
		if len(args) == 1 {
			path, err = config.ExpandPath(args[0])
		} else {
			path, err = config.DefaultConfigPath()
		}
		if err != nil {
			return err
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.CreateSample(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	// shared flags
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.config/winnow/config.toml or ./winnow.toml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress warnings, progress, and the run report")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")
	_ = rootCmd.PersistentFlags().MarkHidden("debug")
	rootCmd.PersistentFlags().Bool("json", false, "Print the report as JSON")
	rootCmd.PersistentFlags().StringP("selector", "s", "", "CSS selector for HTML extraction")
	rootCmd.PersistentFlags().BoolP("include-all", "i", false, "Convert whole HTML pages without readability filtering")
	rootCmd.PersistentFlags().Bool("no-extract", false, "Treat HTML sources as plain text")

	// near-duplicate detection
	rootCmd.Flags().Int("num-hashes", 0, "MinHash signature length (default 128)")
	rootCmd.Flags().Int("num-bands", 0, "LSH bands (default 16)")
	rootCmd.Flags().IntP("ngram", "n", 0, "Shingle size (default 5)")
	rootCmd.Flags().String("mode", "", "Shingle mode: chars or words (default chars)")
	rootCmd.Flags().Float64P("threshold", "t", 0, "Similarity at or above which documents are duplicates (default 0.8)")
	rootCmd.Flags().String("keep", "", "Survivor of a duplicate pair: first or longest (default first)")
	rootCmd.Flags().String("empty", "", "Documents too short to shingle: duplicate or keep (default duplicate)")
	rootCmd.Flags().Int("workers", 0, "Signing workers (default: all CPUs)")

	// cleaning
	rootCmd.Flags().Bool("strip-boilerplate", false, "Drop navigation, cookie, and share lines")
	rootCmd.Flags().StringSlice("mask-pii", nil, "Mask personal data: email, phone_number, ip_address")
	rootCmd.Flags().Bool("gopher", false, "Drop documents failing the Gopher quality rules")
	rootCmd.Flags().Bool("line-dedup", false, "Drop lines repeated anywhere in the corpus")

	// output
	rootCmd.Flags().StringP("output", "o", "", "Output directory, or file for --layout jsonl (default ./curated)")
	rootCmd.Flags().String("layout", "", "Output layout: files or jsonl (default files)")
	rootCmd.Flags().StringP("count", "c", "", "Corpus statistics unit: tokens, words, or characters (default tokens)")
	rootCmd.Flags().Bool("ledger", false, "Record decisions in the SQLite run ledger")
	rootCmd.Flags().Bool("dry-run", false, "Report what would be removed without writing anything")

	searchCmd.Flags().Int("limit", 0, "Maximum hits to print (default 10)")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(searchCmd, runsCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
