package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"FomcToneScanner/internal/corpus"
	"FomcToneScanner/internal/dedup"
	"FomcToneScanner/internal/domain"
	"FomcToneScanner/internal/normalizer"
	"FomcToneScanner/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source ports.SpeechSource
	Scorer ports.Scorer
	Store  ports.CorpusStore
	Lock   ports.RunLock
	Merger *corpus.Merger
	Logger *slog.Logger
	Now    func() time.Time
}

// Pipeline drives one ingestion run end to end:
// fetch -> normalize -> dedup -> score -> merge -> persist.
type Pipeline struct {
	source ports.SpeechSource
	scorer ports.Scorer
	store  ports.CorpusStore
	lock   ports.RunLock
	merger *corpus.Merger
	logger *slog.Logger
	now    func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	merger := deps.Merger
	if merger == nil {
		merger = corpus.NewMerger(0)
	}
	return &Pipeline{
		source: deps.Source,
		scorer: deps.Scorer,
		store:  deps.Store,
		lock:   deps.Lock,
		merger: merger,
		logger: logger,
		now:    now,
	}
}

// Run executes a single pipeline run over the given lookback window and
// returns its summary. Per-source and per-speech failures are isolated;
// only corpus read/write failures (and cancellation) abort the run.
func (p *Pipeline) Run(ctx context.Context, lookbackDays int) (domain.RunSummary, error) {
	if lookbackDays <= 0 {
		return domain.RunSummary{}, fmt.Errorf("lookback_days must be positive, got %d", lookbackDays)
	}

	summary := domain.RunSummary{
		RunID:        uuid.New().String(),
		StartedAt:    p.now().UTC(),
		LookbackDays: lookbackDays,
		SourceErrors: map[string]string{},
	}

	if p.lock != nil {
		release, err := p.lock.Acquire()
		if err != nil {
			return summary, fmt.Errorf("acquire run lock: %w", err)
		}
		defer release()
	}

	existing, err := p.store.Load()
	if err != nil {
		return summary, fmt.Errorf("load corpus: %w", err)
	}
	p.logger.Info("run started",
		"run_id", summary.RunID, "lookback_days", lookbackDays,
		"corpus_size", len(existing.Speeches))

	since := summary.StartedAt.Truncate(24 * time.Hour).AddDate(0, 0, -lookbackDays)
	raws := p.fetchAll(ctx, since, &summary)
	summary.Fetched = len(raws)

	var candidates []domain.Speech
	for _, raw := range raws {
		sp, err := normalizer.Normalize(raw)
		if err != nil {
			summary.Rejected++
			p.logger.Warn("speech rejected", "source", raw.SourceID, "title", raw.Title, "error", err)
			continue
		}
		candidates = append(candidates, sp)
	}
	summary.Normalized = len(candidates)

	fresh := dedup.New(existing).FilterNew(candidates)
	summary.New = len(fresh)
	p.logger.Info("dedup complete", "candidates", len(candidates), "new", len(fresh))

	outcomes := p.scorer.ScoreBatch(ctx, fresh)
	for _, o := range outcomes {
		if o.Scored() {
			summary.Scored++
		} else {
			summary.Failed++
		}
	}

	// Merge is the only stage that mutates persisted state; bail out before
	// it if the run was cancelled so the committed corpus stays untouched.
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("run cancelled before merge: %w", err)
	}

	merged, upserts := p.merger.Merge(existing, outcomes, p.now().UTC())
	summary.Merged = upserts
	summary.FinishedAt = p.now().UTC()
	merged.LastUpdated = summary.FinishedAt
	summaryCopy := summary
	merged.RunSummary = &summaryCopy

	if err := p.store.Save(merged); err != nil {
		return summary, fmt.Errorf("persist corpus: %w", err)
	}

	p.logger.Info("run finished",
		"run_id", summary.RunID,
		"fetched", summary.Fetched, "rejected", summary.Rejected,
		"new", summary.New, "scored", summary.Scored,
		"failed", summary.Failed, "merged", summary.Merged,
		"source_errors", len(summary.SourceErrors))
	return summary, nil
}

// fetchAll queries every configured source concurrently. A failing source
// is recorded in the summary and skipped; it never aborts the run.
func (p *Pipeline) fetchAll(ctx context.Context, since time.Time, summary *domain.RunSummary) []domain.RawSpeech {
	sources := p.source.Sources()
	results := make([][]domain.RawSpeech, len(sources))

	var mu sync.Mutex
	grp, grpCtx := errgroup.WithContext(ctx)
	for i, sourceID := range sources {
		i, sourceID := i, sourceID
		grp.Go(func() error {
			raws, err := p.source.Fetch(grpCtx, sourceID, since)
			if err != nil {
				fetchErr := &domain.SourceFetchError{SourceID: sourceID, Err: err}
				p.logger.Warn("source fetch failed", "source", sourceID, "error", err)
				mu.Lock()
				summary.SourceErrors[sourceID] = fetchErr.Error()
				mu.Unlock()
				return nil
			}
			results[i] = raws
			return nil
		})
	}
	_ = grp.Wait()

	var all []domain.RawSpeech
	for _, raws := range results {
		all = append(all, raws...)
	}
	return all
}
