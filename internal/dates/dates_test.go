package dates

import (
	"testing"
	"time"
)

func TestParseFormats(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC)

	cases := []string{
		"November 8, 2025",
		"Nov 8, 2025",
		"November 8th, 2025",
		"2025-11-08",
		"11/08/2025",
		"8 November 2025",
		"  November   8,  2025  ",
	}

	for _, raw := range cases {
		got, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", raw, err)
		}
		if !got.Equal(want) {
			t.Fatalf("Parse(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestParseExtractsDateFromSurroundingText(t *testing.T) {
	t.Parallel()

	got, err := Parse("Remarks by President Daly at the Economic Club, November 8, 2025, San Francisco")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseExtractsISODateFromText(t *testing.T) {
	t.Parallel()

	got, err := Parse("published 2025-11-08 by the bank")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got.Format("2006-01-02") != "2025-11-08" {
		t.Fatalf("got %v", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "no date here"} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("Parse(%q) succeeded, want error", raw)
		}
	}
}

func TestParseIsDeterministic(t *testing.T) {
	t.Parallel()

	a, err := Parse("January 3, 2026")
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	b, err := Parse("January 3, 2026")
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("parses differ: %v vs %v", a, b)
	}
}

func TestFromYMDValidatesCalendar(t *testing.T) {
	t.Parallel()

	if _, err := FromYMD(2025, 2, 30); err == nil {
		t.Fatal("expected error for February 30")
	}
	got, err := FromYMD(2024, 2, 29)
	if err != nil {
		t.Fatalf("leap day rejected: %v", err)
	}
	if got.Format("2006-01-02") != "2024-02-29" {
		t.Fatalf("got %v", got)
	}
}
