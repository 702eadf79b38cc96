// Package corpus folds scored speeches into the persistent corpus while
// preserving prior entries and deterministic ordering.
package corpus

import (
	"sort"
	"time"

	"FomcToneScanner/internal/domain"
)

// Merger upserts scoring outcomes into a corpus value. It never touches
// disk; persistence is the store's separate, atomic step.
type Merger struct {
	storeTextChars int
}

// NewMerger configures the merger. storeTextChars caps how much speech text
// is retained per corpus entry; <= 0 keeps the full text.
func NewMerger(storeTextChars int) *Merger {
	return &Merger{storeTextChars: storeTextChars}
}

// Merge returns a new corpus with every outcome upserted and the entry list
// re-sorted, plus the number of entries actually upserted. Rules:
//   - a scored outcome lands with status scored and tone fields populated
//   - a failed outcome lands with status failed so a later run retries it
//   - an existing scored entry is never regressed, duplicated, or mutated
//   - merging zero outcomes reproduces the input entry list exactly
func (m *Merger) Merge(existing domain.Corpus, outcomes []domain.Outcome, now time.Time) (domain.Corpus, int) {
	speeches := make([]domain.Speech, len(existing.Speeches))
	copy(speeches, existing.Speeches)

	position := make(map[string]int, len(speeches))
	for i, sp := range speeches {
		position[sp.ID] = i
	}

	upserts := 0
	for _, outcome := range outcomes {
		entry := outcome.Speech
		entry.Text = clampText(entry.Text, m.storeTextChars)

		if outcome.Scored() {
			tone := *outcome.Tone
			scoredAt := now.UTC()
			entry.Tone = &tone
			entry.ScoringStatus = domain.StatusScored
			entry.ScoredAt = &scoredAt
			entry.LastError = ""
		} else {
			entry.Tone = nil
			entry.ScoringStatus = domain.StatusFailed
			entry.ScoredAt = nil
			if outcome.Err != nil {
				entry.LastError = outcome.Err.Error()
			}
		}

		if i, ok := position[entry.ID]; ok {
			if speeches[i].ScoringStatus == domain.StatusScored {
				continue
			}
			speeches[i] = entry
		} else {
			position[entry.ID] = len(speeches)
			speeches = append(speeches, entry)
		}
		upserts++
	}

	Sort(speeches)

	merged := existing
	merged.Speeches = speeches
	return merged, upserts
}

// Sort orders speeches by published date ascending, ties broken by id
// ascending. The rule is total over unique ids, so the order is stable
// across runs.
func Sort(speeches []domain.Speech) {
	sort.SliceStable(speeches, func(i, j int) bool {
		if !speeches[i].PublishedAt.Equal(speeches[j].PublishedAt) {
			return speeches[i].PublishedAt.Before(speeches[j].PublishedAt)
		}
		return speeches[i].ID < speeches[j].ID
	})
}

func clampText(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
