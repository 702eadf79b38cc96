package domain

import (
	"errors"
	"fmt"
)

// Normalization rejection reasons. A rejected speech is dropped from the
// current run and logged; it stays eligible for re-fetch on a later run.
var (
	ErrUnresolvedDate = errors.New("unresolved publication date")
	ErrEmptyText      = errors.New("empty speech text")
)

// ErrMaxAttempts marks a transient scoring failure that exhausted its retry
// budget for this run.
var ErrMaxAttempts = errors.New("max scoring attempts exhausted")

// SourceFetchError is a per-source, recoverable fetch failure. It never
// aborts the run; the orchestrator records it in the run summary.
type SourceFetchError struct {
	SourceID string
	Err      error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("source %s: %v", e.SourceID, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// TransientScoreError is a retriable classifier failure (timeout, rate
// limit, 5xx, malformed model reply).
type TransientScoreError struct {
	Err error
}

func (e *TransientScoreError) Error() string {
	return fmt.Sprintf("transient scoring error: %v", e.Err)
}

func (e *TransientScoreError) Unwrap() error { return e.Err }

// PermanentScoreError is a classifier failure no retry can fix.
type PermanentScoreError struct {
	Err error
}

func (e *PermanentScoreError) Error() string {
	return fmt.Sprintf("permanent scoring error: %v", e.Err)
}

func (e *PermanentScoreError) Unwrap() error { return e.Err }

// CorpusCorruptError is fatal: the persisted corpus is unreadable and the
// run must abort before any write.
type CorpusCorruptError struct {
	Path string
	Err  error
}

func (e *CorpusCorruptError) Error() string {
	return fmt.Sprintf("corpus %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorpusCorruptError) Unwrap() error { return e.Err }
