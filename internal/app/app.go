package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"FomcToneScanner/internal/config"
	"FomcToneScanner/internal/corpus"
	"FomcToneScanner/internal/domain"
	"FomcToneScanner/internal/infrastructure/llm"
	"FomcToneScanner/internal/infrastructure/parser"
	"FomcToneScanner/internal/infrastructure/storage"
	"FomcToneScanner/internal/logging"
	"FomcToneScanner/internal/scanner"
	"FomcToneScanner/internal/scoring"
	"FomcToneScanner/internal/usecase"
)

// Application wires configuration to the pipeline and its adapters.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Fetcher.TimeoutSeconds) * time.Second,
	}
	textFetcher := parser.NewTextFetcher(httpClient, cfg.Fetcher.TextChars)

	registry := scanner.NewRegistry()
	registry.Register(parser.NewBoardScanner(httpClient, textFetcher, baseLogger.With("component", "scanner.board")))
	registry.Register(parser.NewListPageScanner(httpClient, textFetcher, baseLogger.With("component", "scanner.listpage")))

	source := parser.NewSourceSet(registry, cfg.Sites, baseLogger.With("component", "source"))

	classifier := llm.NewClaudeClient(cfg.Classifier)
	gateway := scoring.NewGateway(classifier, scoring.Options{
		Workers:       cfg.Classifier.Workers,
		MaxAttempts:   cfg.Classifier.MaxAttempts,
		CallTimeout:   time.Duration(cfg.Classifier.CallTimeoutSeconds) * time.Second,
		MaxScoreChars: cfg.Classifier.MaxScoreChars,
	}, baseLogger.With("component", "gateway"))

	store := storage.NewFileStore(cfg.Pipeline.CorpusFile, baseLogger.With("component", "storage"))
	lock := storage.NewFileLock(cfg.Pipeline.CorpusFile + ".lock")

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source: source,
		Scorer: gateway,
		Store:  store,
		Lock:   lock,
		Merger: corpus.NewMerger(cfg.Pipeline.StoreTextChars),
		Logger: baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline}
}

// Run executes one pipeline run over the given lookback window.
func (a *Application) Run(ctx context.Context, lookbackDays int) (domain.RunSummary, error) {
	return a.pipeline.Run(ctx, lookbackDays)
}
