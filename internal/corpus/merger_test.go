package corpus

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"FomcToneScanner/internal/domain"
)

var (
	day1 = time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)
	day3 = time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
)

func scoredEntry(id string, day time.Time, score float64) domain.Speech {
	at := day.Add(12 * time.Hour)
	return domain.Speech{
		ID:            id,
		PublishedAt:   day,
		Tone:          &domain.ToneScore{Score: score, Label: domain.LabelFor(score)},
		ScoringStatus: domain.StatusScored,
		ScoredAt:      &at,
	}
}

func TestMergeAppendsScoredOutcomes(t *testing.T) {
	t.Parallel()

	existing := domain.Corpus{Speeches: []domain.Speech{scoredEntry("aaa", day1, 0.2)}}
	now := time.Date(2025, time.November, 4, 8, 0, 0, 0, time.UTC)

	outcomes := []domain.Outcome{
		{
			Speech: domain.Speech{ID: "bbb", PublishedAt: day2, ScoringStatus: domain.StatusPending},
			Tone:   &domain.ToneScore{Score: -0.4, Label: domain.LabelDovish},
		},
	}

	merged, upserts := NewMerger(0).Merge(existing, outcomes, now)
	if upserts != 1 {
		t.Fatalf("expected 1 upsert, got %d", upserts)
	}
	if len(merged.Speeches) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(merged.Speeches))
	}

	got := merged.Speeches[1]
	if got.ID != "bbb" || got.ScoringStatus != domain.StatusScored {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.ScoredAt == nil || !got.ScoredAt.Equal(now) {
		t.Fatalf("scored_at not set to merge time: %v", got.ScoredAt)
	}
}

func TestMergeUpsertsFailedForRetry(t *testing.T) {
	t.Parallel()

	outcomes := []domain.Outcome{
		{
			Speech: domain.Speech{ID: "bbb", PublishedAt: day2},
			Err:    errors.New("classifier unreachable"),
		},
	}

	merged, upserts := NewMerger(0).Merge(domain.Corpus{}, outcomes, day3)
	if upserts != 1 {
		t.Fatalf("expected 1 upsert, got %d", upserts)
	}
	got := merged.Speeches[0]
	if got.ScoringStatus != domain.StatusFailed {
		t.Fatalf("expected failed status, got %s", got.ScoringStatus)
	}
	if got.Tone != nil || got.ScoredAt != nil {
		t.Fatal("failed entry must carry no tone fields")
	}
	if got.LastError == "" {
		t.Fatal("failure reason must be recorded")
	}
}

func TestMergeNeverRegressesScoredEntries(t *testing.T) {
	t.Parallel()

	original := scoredEntry("aaa", day1, 0.2)
	existing := domain.Corpus{Speeches: []domain.Speech{original}}

	outcomes := []domain.Outcome{
		// Same id rediscovered and rescored differently.
		{Speech: domain.Speech{ID: "aaa", PublishedAt: day1}, Tone: &domain.ToneScore{Score: -0.9}},
		// Same id with a failure.
		{Speech: domain.Speech{ID: "aaa", PublishedAt: day1}, Err: errors.New("boom")},
	}

	merged, upserts := NewMerger(0).Merge(existing, outcomes, day3)
	if upserts != 0 {
		t.Fatalf("expected 0 upserts, got %d", upserts)
	}
	if len(merged.Speeches) != 1 {
		t.Fatalf("duplicate introduced: %d entries", len(merged.Speeches))
	}
	if !reflect.DeepEqual(merged.Speeches[0], original) {
		t.Fatalf("scored entry mutated: %+v", merged.Speeches[0])
	}
}

func TestMergeUpgradesFailedToScored(t *testing.T) {
	t.Parallel()

	existing := domain.Corpus{Speeches: []domain.Speech{{
		ID:            "bbb",
		PublishedAt:   day2,
		ScoringStatus: domain.StatusFailed,
		LastError:     "timeout",
	}}}

	outcomes := []domain.Outcome{{
		Speech: domain.Speech{ID: "bbb", PublishedAt: day2},
		Tone:   &domain.ToneScore{Score: 0.6, Label: domain.LabelHawkish},
	}}

	merged, upserts := NewMerger(0).Merge(existing, outcomes, day3)
	if upserts != 1 {
		t.Fatalf("expected 1 upsert, got %d", upserts)
	}
	if len(merged.Speeches) != 1 {
		t.Fatalf("retry duplicated the entry: %d", len(merged.Speeches))
	}
	got := merged.Speeches[0]
	if got.ScoringStatus != domain.StatusScored || got.LastError != "" {
		t.Fatalf("failed entry not upgraded cleanly: %+v", got)
	}
}

func TestMergeOrdersByDateThenID(t *testing.T) {
	t.Parallel()

	existing := domain.Corpus{Speeches: []domain.Speech{
		scoredEntry("zzz", day2, 0),
		scoredEntry("mmm", day1, 0),
	}}
	outcomes := []domain.Outcome{
		{Speech: domain.Speech{ID: "aaa", PublishedAt: day2}, Tone: &domain.ToneScore{}},
		{Speech: domain.Speech{ID: "bbb", PublishedAt: day3}, Tone: &domain.ToneScore{}},
	}

	merged, _ := NewMerger(0).Merge(existing, outcomes, day3)

	var order []string
	for _, sp := range merged.Speeches {
		order = append(order, sp.ID)
	}
	want := []string{"mmm", "aaa", "zzz", "bbb"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order %v, want %v", order, want)
	}
}

func TestMergeEmptyOutcomesIsIdempotent(t *testing.T) {
	t.Parallel()

	existing := domain.Corpus{Speeches: []domain.Speech{
		scoredEntry("mmm", day1, 0.1),
		scoredEntry("zzz", day2, -0.2),
	}}

	merged, upserts := NewMerger(0).Merge(existing, nil, day3)
	if upserts != 0 {
		t.Fatalf("expected 0 upserts, got %d", upserts)
	}
	if !reflect.DeepEqual(merged.Speeches, existing.Speeches) {
		t.Fatal("entry list changed on empty merge")
	}
}

func TestMergeClampsStoredText(t *testing.T) {
	t.Parallel()

	outcomes := []domain.Outcome{{
		Speech: domain.Speech{ID: "bbb", PublishedAt: day2, Text: strings.Repeat("x", 500)},
		Tone:   &domain.ToneScore{},
	}}

	merged, _ := NewMerger(100).Merge(domain.Corpus{}, outcomes, day3)
	if len(merged.Speeches[0].Text) != 100 {
		t.Fatalf("stored text not clamped: %d chars", len(merged.Speeches[0].Text))
	}
}
