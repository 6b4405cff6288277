package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	revotemodule "concord/contexts/policy-governance/revote-scheduler"
	"concord/contexts/policy-governance/revote-scheduler/application/commands"
	"concord/contexts/policy-governance/revote-scheduler/domain/entities"
	domainerrors "concord/contexts/policy-governance/revote-scheduler/domain/errors"
	"concord/contexts/policy-governance/revote-scheduler/ports"
)

func chairPosition() entities.Position {
	return entities.Position{
		PositionID:    "position-chair",
		GroupID:       "regional",
		Title:         "Chair",
		TermDuration:  entities.TermQuarterly,
		TermStartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestScheduleRevoteCreatesEventWhenMonthIsEmpty(t *testing.T) {
	module := revotemodule.NewInMemoryModule([]entities.Position{chairPosition()}, nil)
	module.Store.SetNow(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))

	result, err := module.Schedules.ScheduleRevote(context.Background(), commands.ScheduleRevoteCommand{
		PositionID: "position-chair",
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	want := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	if !result.Election.ScheduledFor.Equal(want) {
		t.Fatalf("quarterly revote for 2024-01-01 must be 2024-04-01, got %v", result.Election.ScheduledFor)
	}
	if !result.EventCreated {
		t.Fatalf("expected a new event when the month has none")
	}
	if result.Election.Status != entities.ElectionStatusEventCreated {
		t.Fatalf("expected event_created status, got %s", result.Election.Status)
	}
	if result.Election.AgendaItemID == "" {
		t.Fatalf("election agenda item must be created")
	}
	if result.Position.ScheduledRevoteDate == nil || !result.Position.ScheduledRevoteDate.Equal(want) {
		t.Fatalf("position revote date not stamped: %v", result.Position.ScheduledRevoteDate)
	}
	items := module.Store.AgendaItemsForEvent(result.EventID)
	if len(items) != 1 {
		t.Fatalf("expected one agenda item on the event, got %v", items)
	}
}

func TestScheduleRevoteReusesEventInSameCalendarMonth(t *testing.T) {
	module := revotemodule.NewInMemoryModule([]entities.Position{chairPosition()}, nil)
	module.Store.SetNow(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	module.Store.SetEvent("regional", ports.EventRef{
		EventID:  "event-april",
		StartsAt: time.Date(2024, 4, 20, 18, 0, 0, 0, time.UTC),
	})
	module.Store.SetEvent("regional", ports.EventRef{
		EventID:   "event-april-cancelled",
		StartsAt:  time.Date(2024, 4, 5, 18, 0, 0, 0, time.UTC),
		Cancelled: true,
	})
	module.Store.SetEvent("regional", ports.EventRef{
		EventID:  "event-may",
		StartsAt: time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC),
	})

	result, err := module.Schedules.ScheduleRevote(context.Background(), commands.ScheduleRevoteCommand{
		PositionID: "position-chair",
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if result.EventCreated {
		t.Fatalf("existing same-month event must be reused")
	}
	if result.EventID != "event-april" {
		t.Fatalf("expected non-cancelled April event, got %s", result.EventID)
	}
}

func TestScheduleRevoteYearlyTerm(t *testing.T) {
	position := chairPosition()
	position.TermDuration = entities.TermYearly
	module := revotemodule.NewInMemoryModule([]entities.Position{position}, nil)
	module.Store.SetNow(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))

	result, err := module.Schedules.ScheduleRevote(context.Background(), commands.ScheduleRevoteCommand{
		PositionID: "position-chair",
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !result.Election.ScheduledFor.Equal(want) {
		t.Fatalf("yearly revote for 2024-01-01 must be 2025-01-01, got %v", result.Election.ScheduledFor)
	}
}

func TestCancelScheduledRevoteOnlyFlipsStatus(t *testing.T) {
	module := revotemodule.NewInMemoryModule([]entities.Position{chairPosition()}, nil)
	module.Store.SetNow(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))

	result, err := module.Schedules.ScheduleRevote(context.Background(), commands.ScheduleRevoteCommand{
		PositionID: "position-chair",
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}

	cancelled, err := module.Schedules.CancelScheduledRevote(context.Background(), result.Election.ScheduledElectionID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != entities.ElectionStatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("cancellation must flip status with timestamp: %+v", cancelled)
	}
	// The created agenda item is intentionally retained.
	if items := module.Store.AgendaItemsForEvent(result.EventID); len(items) != 1 {
		t.Fatalf("cancellation must not retract the agenda item, got %v", items)
	}

	if _, err := module.Schedules.CancelScheduledRevote(context.Background(), result.Election.ScheduledElectionID); !errors.Is(err, domainerrors.ErrElectionAlreadyCanceled) {
		t.Fatalf("expected ErrElectionAlreadyCanceled, got %v", err)
	}
}
