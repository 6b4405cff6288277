package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "concord/contexts/policy-governance/revote-scheduler/application"
	"concord/contexts/policy-governance/revote-scheduler/domain/entities"
	domainerrors "concord/contexts/policy-governance/revote-scheduler/domain/errors"
	"concord/contexts/policy-governance/revote-scheduler/domain/term"
	"concord/contexts/policy-governance/revote-scheduler/ports"
)

type ScheduleRevoteCommand struct {
	PositionID string
	// TermStart overrides the position's stored term start, for scheduling
	// off the confirmation date of a fresh term.
	TermStart *time.Time
}

type ScheduleRevoteResult struct {
	Position     entities.Position
	Election     entities.ScheduledElection
	EventID      string
	EventCreated bool
}

// ScheduleUseCase materializes future elections from term rules.
type ScheduleUseCase struct {
	Positions ports.PositionRepository
	Elections ports.ElectionRepository
	Events    ports.EventPlanner
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// ScheduleRevote computes the position's next revote date, finds or creates
// an owning-group event in that calendar month, creates the election agenda
// item and the ScheduledElection record, and stamps the position.
func (uc ScheduleUseCase) ScheduleRevote(ctx context.Context, cmd ScheduleRevoteCommand) (ScheduleRevoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	position, err := uc.Positions.GetPosition(ctx, strings.TrimSpace(cmd.PositionID))
	if err != nil {
		return ScheduleRevoteResult{}, err
	}

	termStart := position.TermStartDate
	if cmd.TermStart != nil {
		termStart = *cmd.TermStart
	}
	revoteDate, err := term.NextRevoteDate(termStart, position.TermDuration)
	if err != nil {
		return ScheduleRevoteResult{}, err
	}

	eventRef, created, err := uc.findOrCreateEventForDate(ctx, position, revoteDate)
	if err != nil {
		return ScheduleRevoteResult{}, err
	}

	now := uc.Clock.Now().UTC()
	electionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ScheduleRevoteResult{}, err
	}
	election := entities.ScheduledElection{
		ScheduledElectionID: electionID,
		PositionID:          position.PositionID,
		GroupID:             position.GroupID,
		EventID:             eventRef.EventID,
		ScheduledFor:        revoteDate,
		Status:              entities.ElectionStatusScheduled,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return ScheduleRevoteResult{}, err
	}

	itemTitle := fmt.Sprintf("Election: %s", position.Title)
	agendaItemID, err := uc.Events.CreateElectionAgendaItem(ctx, eventRef.EventID, itemTitle, position.PositionID, election.ScheduledElectionID)
	if err != nil {
		return ScheduleRevoteResult{}, err
	}
	election.AgendaItemID = agendaItemID
	election.Status = entities.ElectionStatusEventCreated
	election.UpdatedAt = now
	if err := uc.Elections.UpdateElection(ctx, election); err != nil {
		return ScheduleRevoteResult{}, err
	}

	scheduled := revoteDate
	position.ScheduledRevoteDate = &scheduled
	position.UpdatedAt = now
	if err := uc.Positions.UpdatePosition(ctx, position); err != nil {
		return ScheduleRevoteResult{}, err
	}

	logger.Info("revote scheduled",
		"event", "revote_scheduled",
		"module", "policy-governance/revote-scheduler",
		"layer", "application",
		"position_id", position.PositionID,
		"election_id", election.ScheduledElectionID,
		"event_id", eventRef.EventID,
		"event_created", created,
		"revote_date", revoteDate,
	)
	return ScheduleRevoteResult{
		Position:     position,
		Election:     election,
		EventID:      eventRef.EventID,
		EventCreated: created,
	}, nil
}

// CancelScheduledRevote flips the election to cancelled with a timestamp. It
// does not retract an already-created agenda item or event.
func (uc ScheduleUseCase) CancelScheduledRevote(ctx context.Context, scheduledElectionID string) (entities.ScheduledElection, error) {
	logger := application.ResolveLogger(uc.Logger)
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(scheduledElectionID))
	if err != nil {
		return entities.ScheduledElection{}, err
	}
	if election.Status == entities.ElectionStatusCancelled {
		return entities.ScheduledElection{}, domainerrors.ErrElectionAlreadyCanceled
	}

	now := uc.Clock.Now().UTC()
	cancelledAt := now
	election.Status = entities.ElectionStatusCancelled
	election.CancelledAt = &cancelledAt
	election.UpdatedAt = now
	if err := uc.Elections.UpdateElection(ctx, election); err != nil {
		return entities.ScheduledElection{}, err
	}

	logger.Info("scheduled revote cancelled",
		"event", "revote_cancelled",
		"module", "policy-governance/revote-scheduler",
		"layer", "application",
		"election_id", election.ScheduledElectionID,
		"position_id", election.PositionID,
	)
	return election, nil
}

// findOrCreateEventForDate reuses the group's first non-cancelled event in
// the calendar month containing the target date, and creates one at the
// target date otherwise.
func (uc ScheduleUseCase) findOrCreateEventForDate(ctx context.Context, position entities.Position, target time.Time) (ports.EventRef, bool, error) {
	events, err := uc.Events.ListGroupEvents(ctx, position.GroupID)
	if err != nil {
		return ports.EventRef{}, false, err
	}
	for _, ref := range events {
		if ref.Cancelled {
			continue
		}
		if term.SameCalendarMonth(ref.StartsAt, target) {
			return ref, false, nil
		}
	}

	title := fmt.Sprintf("Election event %s", target.Format("2006-01"))
	ref, err := uc.Events.CreateEvent(ctx, position.GroupID, title, target)
	if err != nil {
		return ports.EventRef{}, false, err
	}
	return ref, true, nil
}
