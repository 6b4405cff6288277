// Package revote schedules future elections from position term rules: it
// computes the next revote date, finds or creates an event for it, and
// materializes the election agenda item.
package revote
