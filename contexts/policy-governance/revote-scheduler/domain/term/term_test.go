package term_test

import (
	"errors"
	"testing"
	"time"

	"concord/contexts/policy-governance/revote-scheduler/domain/entities"
	domainerrors "concord/contexts/policy-governance/revote-scheduler/domain/errors"
	"concord/contexts/policy-governance/revote-scheduler/domain/term"
)

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func TestNextRevoteDate(t *testing.T) {
	cases := []struct {
		name     string
		start    time.Time
		duration entities.TermDuration
		want     time.Time
	}{
		{"monthly", day(2024, time.January, 1), entities.TermMonthly, day(2024, time.February, 1)},
		{"quarterly", day(2024, time.January, 1), entities.TermQuarterly, day(2024, time.April, 1)},
		{"biannual", day(2024, time.January, 1), entities.TermBiannual, day(2024, time.July, 1)},
		{"yearly", day(2024, time.January, 1), entities.TermYearly, day(2025, time.January, 1)},
		{"quarterly across year end", day(2024, time.November, 15), entities.TermQuarterly, day(2025, time.February, 15)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := term.NextRevoteDate(tc.start, tc.duration)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("NextRevoteDate(%v, %s) = %v, want %v", tc.start, tc.duration, got, tc.want)
			}
		})
	}
}

func TestNextRevoteDateUnknownDuration(t *testing.T) {
	_, err := term.NextRevoteDate(day(2024, time.January, 1), entities.TermDuration("weekly"))
	if !errors.Is(err, domainerrors.ErrUnknownTermDuration) {
		t.Fatalf("expected ErrUnknownTermDuration, got %v", err)
	}
}

func TestSameCalendarMonth(t *testing.T) {
	if !term.SameCalendarMonth(day(2024, time.April, 1), day(2024, time.April, 29)) {
		t.Fatalf("same month must match")
	}
	if term.SameCalendarMonth(day(2024, time.April, 1), day(2025, time.April, 1)) {
		t.Fatalf("same month of a different year must not match")
	}
}
