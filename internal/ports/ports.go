package ports

import (
	"context"
	"time"

	"FomcToneScanner/internal/domain"
)

// SpeechSource pulls speech listings from upstream Federal Reserve sites.
// Fetch failures are per-source and recoverable.
type SpeechSource interface {
	Sources() []string
	Fetch(ctx context.Context, sourceID string, since time.Time) ([]domain.RawSpeech, error)
}

// Classifier scores a single speech text on the hawk/dove scale. Failures
// are typed as domain.TransientScoreError or domain.PermanentScoreError.
type Classifier interface {
	Score(ctx context.Context, speaker, text string) (domain.ToneScore, error)
}

// Scorer runs a batch of speeches through the classifier under bounded
// concurrency and returns one outcome per speech.
type Scorer interface {
	ScoreBatch(ctx context.Context, speeches []domain.Speech) []domain.Outcome
}

// CorpusStore loads and persists corpus snapshots. Save must be atomic so a
// failed run never corrupts the previously committed file.
type CorpusStore interface {
	Load() (domain.Corpus, error)
	Save(corpus domain.Corpus) error
}

// RunLock serializes pipeline runs so two invocations never merge into the
// corpus concurrently.
type RunLock interface {
	Acquire() (release func(), err error)
}
