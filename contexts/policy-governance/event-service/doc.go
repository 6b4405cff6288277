// Package event owns events and their agenda items, and runs the disruption
// recovery that repairs agenda and amendment routes when an event is
// cancelled: validation, best-effort reassignment, and path recalculation.
package event
