package domain

import "time"

// RawSpeech is the unprocessed record handed over by a single source adapter.
// It is discarded after normalization.
type RawSpeech struct {
	SourceID     string
	URL          string
	Title        string
	Description  string
	RawText      string
	PublishedRaw string
	FetchedAt    time.Time
}

// ScoringStatus tracks where a speech sits in its scoring lifecycle.
type ScoringStatus string

const (
	StatusPending ScoringStatus = "pending"
	StatusScored  ScoringStatus = "scored"
	StatusFailed  ScoringStatus = "failed"
)

// ToneLabel is the categorical hawk/dove classification.
type ToneLabel string

const (
	LabelHawkish ToneLabel = "hawkish"
	LabelDovish  ToneLabel = "dovish"
	LabelNeutral ToneLabel = "neutral"
)

const labelThreshold = 0.15

// LabelFor maps a composite score in [-1, 1] onto a tone label.
func LabelFor(score float64) ToneLabel {
	switch {
	case score >= labelThreshold:
		return LabelHawkish
	case score <= -labelThreshold:
		return LabelDovish
	default:
		return LabelNeutral
	}
}

// Keyword is a signal phrase the classifier extracted from a speech.
type Keyword struct {
	Word string `json:"word"`
	Type string `json:"type"`
}

// ToneScore is the classifier output for one speech. Score is the composite
// value in [-1, 1]; the three components keep the raw [-100, 100] scale.
type ToneScore struct {
	Score     float64   `json:"score"`
	Stance    int       `json:"stance"`
	Balance   int       `json:"balance"`
	Direction int       `json:"direction"`
	Label     ToneLabel `json:"label"`
	Reason    string    `json:"reason,omitempty"`
	Keywords  []Keyword `json:"keywords,omitempty"`
	Model     string    `json:"model,omitempty"`
}

// Speech is the canonical, deduplicated record stored in the corpus.
type Speech struct {
	ID            string        `json:"id"`
	SourceID      string        `json:"source_id"`
	Speaker       string        `json:"speaker,omitempty"`
	Title         string        `json:"title"`
	URL           string        `json:"url"`
	PublishedAt   time.Time     `json:"published_at"`
	Text          string        `json:"text,omitempty"`
	Truncated     bool          `json:"truncated,omitempty"`
	Tone          *ToneScore    `json:"tone,omitempty"`
	ScoringStatus ScoringStatus `json:"scoring_status"`
	ScoredAt      *time.Time    `json:"scored_at,omitempty"`
	LastError     string        `json:"last_error,omitempty"`
	FetchedAt     time.Time     `json:"fetched_at"`
}

// Outcome pairs a speech with its scoring result. Tone is set when the
// classifier succeeded; Err carries the failure reason otherwise.
type Outcome struct {
	Speech Speech
	Tone   *ToneScore
	Err    error
}

// Scored reports whether the outcome carries a usable tone score.
func (o Outcome) Scored() bool {
	return o.Err == nil && o.Tone != nil
}

// RunSummary is the observability record of a single pipeline run.
type RunSummary struct {
	RunID        string            `json:"run_id"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   time.Time         `json:"finished_at"`
	LookbackDays int               `json:"lookback_days"`
	Fetched      int               `json:"fetched"`
	Normalized   int               `json:"normalized"`
	Rejected     int               `json:"rejected"`
	New          int               `json:"new"`
	Scored       int               `json:"scored"`
	Failed       int               `json:"failed"`
	Merged       int               `json:"merged"`
	SourceErrors map[string]string `json:"source_errors,omitempty"`
}

// Corpus is the full persisted collection of speeches across all runs,
// ordered by published date ascending with ties broken by id.
type Corpus struct {
	LastUpdated time.Time   `json:"last_updated"`
	RunSummary  *RunSummary `json:"run_summary,omitempty"`
	Speeches    []Speech    `json:"speeches"`
}
