// Package normalizer turns raw adapter output into canonical Speech records
// with stable identity keys.
package normalizer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"FomcToneScanner/internal/dates"
	"FomcToneScanner/internal/domain"
)

var whitespaceExpr = regexp.MustCompile(`\s+`)

// speakerScanChars bounds how much of the speech body is inspected when the
// listing text did not name the speaker.
const speakerScanChars = 400

// Normalize canonicalizes a raw speech. It is pure and deterministic:
// repeated runs over overlapping windows produce identical records.
// Rejections wrap domain.ErrUnresolvedDate or domain.ErrEmptyText.
func Normalize(raw domain.RawSpeech) (domain.Speech, error) {
	title := CollapseWhitespace(raw.Title)
	text := CollapseWhitespace(raw.RawText)

	if text == "" {
		return domain.Speech{}, fmt.Errorf("%s %q: %w", raw.SourceID, title, domain.ErrEmptyText)
	}

	publishedAt, err := dates.Parse(raw.PublishedRaw)
	if err != nil {
		return domain.Speech{}, fmt.Errorf("%s %q: %w: %v", raw.SourceID, title, domain.ErrUnresolvedDate, err)
	}

	speaker := MatchMember(raw.Description + " " + title)
	if speaker == "" {
		head := text
		if len(head) > speakerScanChars {
			head = head[:speakerScanChars]
		}
		speaker = MatchMember(head)
	}

	return domain.Speech{
		ID:            SpeechID(raw.SourceID, raw.URL, title, publishedAt),
		SourceID:      raw.SourceID,
		Speaker:       speaker,
		Title:         title,
		URL:           raw.URL,
		PublishedAt:   publishedAt,
		Text:          text,
		ScoringStatus: domain.StatusPending,
		FetchedAt:     raw.FetchedAt.UTC(),
	}, nil
}

// SpeechID derives the stable identity key: a 12-hex-char digest over
// (source_id, url), falling back to (source_id, title, published_at) when
// the source gave no URL.
func SpeechID(sourceID, url, title string, publishedAt time.Time) string {
	var key string
	if url != "" {
		key = sourceID + "\n" + url
	} else {
		key = sourceID + "\n" + title + "\n" + publishedAt.Format("2006-01-02")
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}

// CollapseWhitespace trims the string and folds internal whitespace runs
// into single spaces.
func CollapseWhitespace(s string) string {
	return whitespaceExpr.ReplaceAllString(strings.TrimSpace(s), " ")
}
