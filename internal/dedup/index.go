// Package dedup decides which discovered speeches are new relative to the
// persisted corpus.
package dedup

import "FomcToneScanner/internal/domain"

// Index is a per-run membership index over corpus speech ids. Build it once
// from the loaded corpus; lookups are O(1).
type Index struct {
	status map[string]domain.ScoringStatus
}

// New builds an index from the current corpus.
func New(corpus domain.Corpus) *Index {
	status := make(map[string]domain.ScoringStatus, len(corpus.Speeches))
	for _, sp := range corpus.Speeches {
		status[sp.ID] = sp.ScoringStatus
	}
	return &Index{status: status}
}

// IsNew reports whether a speech id should enter this run's scoring batch:
// either the id is absent from the corpus, or it is present but not yet
// scored and therefore eligible for retry. A scored entry always wins over
// any colliding candidate.
func (i *Index) IsNew(id string) bool {
	st, ok := i.status[id]
	if !ok {
		return true
	}
	return st != domain.StatusScored
}

// FilterNew keeps the candidates IsNew accepts, preserving input order and
// dropping repeated ids within the batch itself (first occurrence wins).
func (i *Index) FilterNew(candidates []domain.Speech) []domain.Speech {
	kept := make([]domain.Speech, 0, len(candidates))
	seen := map[string]struct{}{}
	for _, sp := range candidates {
		if _, dup := seen[sp.ID]; dup {
			continue
		}
		if !i.IsNew(sp.ID) {
			continue
		}
		seen[sp.ID] = struct{}{}
		kept = append(kept, sp)
	}
	return kept
}
