package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"FomcToneScanner/internal/app"
	"FomcToneScanner/internal/config"
	"FomcToneScanner/internal/logging"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fomctonescanner",
	Short: "Scan Federal Reserve speech sources and score their policy tone",
	Long: `fomctonescanner collects new FOMC speeches from the Board of Governors
and the twelve regional Reserve Banks, scores each with a hawk/dove
classifier, and merges the results into corpus.json.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one ingestion run",
	Long: `Execute one ingestion run over the lookback window.

Examples:
  fomctonescanner run
  fomctonescanner run --lookback-days 30          # manual backfill
  fomctonescanner run --config scanner.yaml --corpus data/corpus.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		corpusPath, _ := cmd.Flags().GetString("corpus")
		lookback, _ := cmd.Flags().GetInt("lookback-days")

		cfg := config.Load()
		if configPath != "" {
			cfg = config.LoadFile(configPath)
		}
		if corpusPath != "" {
			cfg.Pipeline.CorpusFile = corpusPath
		}
		if !cmd.Flags().Changed("lookback-days") {
			lookback = cfg.Pipeline.LookbackDays
		}

		logger := logging.New(cfg.Logging.Level)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application := app.New(cfg, logger)
		summary, err := application.Run(ctx, lookback)
		if err != nil {
			logger.Error("run failed", "error", err)
			return err
		}

		fmt.Fprintf(os.Stdout,
			"run %s: fetched=%d rejected=%d new=%d scored=%d failed=%d merged=%d source_errors=%d\n",
			summary.RunID, summary.Fetched, summary.Rejected, summary.New,
			summary.Scored, summary.Failed, summary.Merged, len(summary.SourceErrors))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scanner version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "fomctonescanner %s\n", version)
	},
}

func init() {
	runCmd.Flags().Int("lookback-days", 0, "days to look back for new speeches (default from config)")
	runCmd.Flags().String("config", "", "path to YAML config file")
	runCmd.Flags().String("corpus", "", "path to the corpus JSON file")

	rootCmd.AddCommand(runCmd, versionCmd)
}
