// Package outcome turns closed voting sessions into workflow effects:
// advancing an amendment to its next hop, terminating it, or flagging the
// agenda item for a revote. It owns no entities; it orchestrates the
// amendment workflow and the event agenda.
package outcome
