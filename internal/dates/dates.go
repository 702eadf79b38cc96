// Package dates parses the publication-date strings Federal Reserve sites
// publish in a dozen inconsistent formats.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	spaceExpr    = regexp.MustCompile(`\s+`)
	ordinalExpr  = regexp.MustCompile(`(st|nd|rd|th),`)
	longDateExpr = regexp.MustCompile(`[A-Za-z]+ \d{1,2},? \d{4}`)
	isoDateExpr  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// Layouts the sites are known to use and dateparse handles poorly.
var fallbackLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2,2006",
	"2 January 2006",
	"01/02/2006",
	"January 2006",
}

// Parse resolves a date string into a UTC midnight time. It tries dateparse
// first, then explicit layouts, then extracts a date-looking substring from
// surrounding text. Deterministic for any given input.
func Parse(raw string) (time.Time, error) {
	text := spaceExpr.ReplaceAllString(strings.TrimSpace(raw), " ")
	if text == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}
	text = ordinalExpr.ReplaceAllString(text, ",")

	head := text
	if len(head) > 30 {
		head = head[:30]
	}

	if t, err := dateparse.ParseAny(head); err == nil {
		return day(t), nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, head); err == nil {
			return day(t), nil
		}
	}

	if m := longDateExpr.FindString(text); m != "" && m != head {
		if t, err := Parse(m); err == nil {
			return t, nil
		}
	}
	if m := isoDateExpr.FindString(text); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return day(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// FromYMD builds a UTC midnight time from numeric components, validating
// that they denote a real calendar day.
func FromYMD(year, month, dayOfMonth int) (time.Time, error) {
	t := time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != dayOfMonth {
		return time.Time{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, month, dayOfMonth)
	}
	return t, nil
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
