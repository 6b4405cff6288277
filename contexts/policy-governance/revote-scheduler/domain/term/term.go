// Package term holds the calendar arithmetic behind revote scheduling.
package term

import (
	"time"

	"concord/contexts/policy-governance/revote-scheduler/domain/entities"
	domainerrors "concord/contexts/policy-governance/revote-scheduler/domain/errors"
)

// NextRevoteDate advances the term start by one term length using
// calendar-aware addition, not fixed day counts.
func NextRevoteDate(termStart time.Time, duration entities.TermDuration) (time.Time, error) {
	switch duration {
	case entities.TermMonthly:
		return termStart.AddDate(0, 1, 0), nil
	case entities.TermQuarterly:
		return termStart.AddDate(0, 3, 0), nil
	case entities.TermBiannual:
		return termStart.AddDate(0, 6, 0), nil
	case entities.TermYearly:
		return termStart.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, domainerrors.ErrUnknownTermDuration
	}
}

// SameCalendarMonth reports whether two dates share year and month.
func SameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
