// Package scoring wraps the external tone classifier with bounded
// concurrency, retries, and deterministic truncation.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"FomcToneScanner/internal/domain"
	"FomcToneScanner/internal/ports"
)

const truncationMarker = "\n...\n"

// Options tune the gateway. Zero values fall back to the defaults below.
type Options struct {
	Workers       int           // concurrent classifier calls
	MaxAttempts   int           // attempts per speech, including the first
	CallTimeout   time.Duration // budget per individual classifier call
	MaxScoreChars int           // text longer than this is truncated head+tail
	RetryInterval time.Duration // initial backoff interval
}

// Gateway schedules classifier calls for a batch of speeches. It never
// mutates the corpus; failures become typed outcomes for the merger.
type Gateway struct {
	classifier ports.Classifier
	opts       Options
	logger     *slog.Logger
}

var _ ports.Scorer = (*Gateway)(nil)

// NewGateway wires a classifier behind the batch scoring policy.
func NewGateway(classifier ports.Classifier, opts Options, logger *slog.Logger) *Gateway {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 60 * time.Second
	}
	if opts.MaxScoreChars <= 0 {
		opts.MaxScoreChars = 6000
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{classifier: classifier, opts: opts, logger: logger}
}

// ScoreBatch scores each speech with at most Workers concurrent classifier
// calls. The returned slice is positionally aligned with the input; a
// failure for one speech never affects the others.
func (g *Gateway) ScoreBatch(ctx context.Context, speeches []domain.Speech) []domain.Outcome {
	outcomes := make([]domain.Outcome, len(speeches))

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(g.opts.Workers)

	for i, sp := range speeches {
		i, sp := i, sp
		grp.Go(func() error {
			outcomes[i] = g.scoreOne(grpCtx, sp)
			return nil
		})
	}
	_ = grp.Wait()

	return outcomes
}

func (g *Gateway) scoreOne(ctx context.Context, sp domain.Speech) domain.Outcome {
	text, truncated := TruncateForScoring(sp.Text, g.opts.MaxScoreChars)
	sp.Truncated = truncated

	var tone domain.ToneScore
	attempts := 0
	op := func() error {
		attempts++
		callCtx, cancel := context.WithTimeout(ctx, g.opts.CallTimeout)
		defer cancel()

		scored, err := g.classifier.Score(callCtx, sp.Speaker, text)
		if err != nil {
			var perm *domain.PermanentScoreError
			if errors.As(err, &perm) {
				return backoff.Permanent(err)
			}
			g.logger.Warn("scoring attempt failed",
				"speech", sp.ID, "attempt", attempts, "error", err)
			return err
		}
		tone = scored
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.opts.RetryInterval
	policy := backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(g.opts.MaxAttempts-1)), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		var perm *domain.PermanentScoreError
		if !errors.As(err, &perm) && attempts >= g.opts.MaxAttempts {
			err = fmt.Errorf("%w after %d attempts: %v", domain.ErrMaxAttempts, attempts, err)
		}
		return domain.Outcome{Speech: sp, Err: err}
	}

	return domain.Outcome{Speech: sp, Tone: &tone}
}

// TruncateForScoring shortens text that exceeds the classifier's input cap,
// keeping the head and tail of the speech. The cut is a pure function of
// the input so repeated runs submit identical payloads.
func TruncateForScoring(text string, maxChars int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text, false
	}

	headLen := maxChars * 2 / 3
	tailLen := maxChars - headLen
	return string(runes[:headLen]) + truncationMarker + string(runes[len(runes)-tailLen:]), true
}
