package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pairtime-api/core/clock"
	"pairtime-api/core/errors"
	"pairtime-api/core/logger"
	"pairtime-api/core/metrics"
	"pairtime-api/modules/slot/entity"

	"github.com/google/uuid"
)

// SlotStore persists internal slots. Every call is scoped by owner upstream.
type SlotStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.TimeSlot, error)
	// GetByID returns nil, nil when no slot has that id.
	GetByID(ctx context.Context, id string) (*entity.TimeSlot, error)
	Insert(ctx context.Context, ownerID uuid.UUID, date, start, end, title string, kind entity.SlotKind) (*entity.TimeSlot, error)
	Update(ctx context.Context, id string, update entity.SlotUpdate) (*entity.TimeSlot, error)
	Delete(ctx context.Context, id string) error
}

// ReminderScheduler arranges a reminder about slot for ownerID at remindAt.
type ReminderScheduler interface {
	Schedule(ctx context.Context, ownerID uuid.UUID, slot entity.TimeSlot, remindAt time.Time) error
}

// ReminderPolicy selects which transition schedules a reminder.
type ReminderPolicy string

const (
	// ReminderOnBook reminds before the slot that was just booked.
	ReminderOnBook ReminderPolicy = "book"
	// ReminderOnDefer reminds before the owner's nearest future mutual slot
	// whenever a suggestion is deferred.
	ReminderOnDefer ReminderPolicy = "defer"
	ReminderOnBoth  ReminderPolicy = "both"
)

func (p ReminderPolicy) onBook() bool  { return p == ReminderOnBook || p == ReminderOnBoth }
func (p ReminderPolicy) onDefer() bool { return p == ReminderOnDefer || p == ReminderOnBoth }

const DefaultReminderLead = 2 * time.Hour

// Lifecycle drives slots through mutual -> suggested -> booked.
type Lifecycle struct {
	store     SlotStore
	reminders ReminderScheduler
	clock     clock.Clock
	policy    ReminderPolicy
	lead      time.Duration
}

func NewLifecycle(store SlotStore, reminders ReminderScheduler, clk clock.Clock, policy ReminderPolicy, lead time.Duration) *Lifecycle {
	if policy == "" {
		policy = ReminderOnBook
	}
	return &Lifecycle{
		store:     store,
		reminders: reminders,
		clock:     clk,
		policy:    policy,
		lead:      lead,
	}
}

func (l *Lifecycle) Policy() ReminderPolicy {
	return l.policy
}

// Accept books the suggested window.
func (l *Lifecycle) Accept(ctx context.Context, ownerID uuid.UUID, s entity.Suggestion) (*entity.TimeSlot, *errors.AppError) {
	slot, appErr := l.persistSuggestion(ctx, ownerID, s, entity.SlotKindBooked)
	if appErr != nil {
		return nil, appErr
	}
	metrics.SlotTransitions.WithLabelValues("accept").Inc()

	if l.policy.onBook() {
		l.remind(ctx, ownerID, *slot)
	}
	return slot, nil
}

// Defer keeps the window as a low-commitment suggested slot.
func (l *Lifecycle) Defer(ctx context.Context, ownerID uuid.UUID, s entity.Suggestion) (*entity.TimeSlot, *errors.AppError) {
	slot, appErr := l.persistSuggestion(ctx, ownerID, s, entity.SlotKindSuggested)
	if appErr != nil {
		return nil, appErr
	}
	metrics.SlotTransitions.WithLabelValues("defer").Inc()

	if l.policy.onDefer() {
		l.remindNextMutual(ctx, ownerID)
	}
	return slot, nil
}

func (l *Lifecycle) persistSuggestion(ctx context.Context, ownerID uuid.UUID, s entity.Suggestion, kind entity.SlotKind) (*entity.TimeSlot, *errors.AppError) {
	if !ValidDate(s.Date) || !ValidTime(s.Start) || !ValidTime(s.End) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Malformed suggestion window", nil)
	}
	if ParseTime(s.Start) >= ParseTime(s.End) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Suggestion window is empty or inverted", nil)
	}

	start := snapMinutes(ParseTime(s.Start))
	end := snapMinutes(ParseTime(s.End))
	if end <= start {
		// sub-half-hour windows occupy the one grid cell they start in
		end = start + GridMinutes
	}
	if end > lastGridMinute {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Suggestion window does not fit the half-hour grid", nil)
	}

	slot, err := l.store.Insert(ctx, ownerID, s.Date, FormatTime(start), FormatTime(end), s.Reason, kind)
	if err != nil {
		logger.Error("Lifecycle:persistSuggestion:Insert:Error", "owner_id", ownerID, "kind", kind, "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save slot", err)
	}
	return slot, nil
}

// Add creates a mutual slot from a manual entry.
func (l *Lifecycle) Add(ctx context.Context, ownerID uuid.UUID, date, start, end, title string) (*entity.TimeSlot, *errors.AppError) {
	snappedStart, snappedEnd, appErr := snapWindow(date, start, end)
	if appErr != nil {
		return nil, appErr
	}

	slot, err := l.store.Insert(ctx, ownerID, date, snappedStart, snappedEnd, title, entity.SlotKindMutual)
	if err != nil {
		logger.Error("Lifecycle:Add:Insert:Error", "owner_id", ownerID, "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save slot", err)
	}
	metrics.SlotTransitions.WithLabelValues("add").Inc()
	return slot, nil
}

// Edit changes an internal slot owned by ownerID. Kind may only move forward.
func (l *Lifecycle) Edit(ctx context.Context, ownerID uuid.UUID, target entity.TimeSlot, update entity.SlotUpdate) (*entity.TimeSlot, *errors.AppError) {
	if appErr := checkMutable(ownerID, target); appErr != nil {
		return nil, appErr
	}

	date, start, end := target.Date, target.Start, target.End
	if update.Date != nil {
		date = *update.Date
	}
	if update.Start != nil {
		start = *update.Start
	}
	if update.End != nil {
		end = *update.End
	}

	snappedStart, snappedEnd, appErr := snapWindow(date, start, end)
	if appErr != nil {
		return nil, appErr
	}

	if update.Kind != nil {
		if !update.Kind.Valid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Unknown slot kind %q", *update.Kind), nil)
		}
		if update.Kind.Rank() < target.Kind.Rank() {
			return nil, errors.NewAppError(errors.ErrInvalidTransition,
				fmt.Sprintf("Slot cannot move from %s back to %s", target.Kind, *update.Kind), nil)
		}
	}

	normalized := entity.SlotUpdate{
		Date:  &date,
		Start: &snappedStart,
		End:   &snappedEnd,
		Title: update.Title,
		Kind:  update.Kind,
	}

	slot, err := l.store.Update(ctx, target.ID, normalized)
	if err != nil {
		logger.Error("Lifecycle:Edit:Update:Error", "slot_id", target.ID, "error", err)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update slot", err)
	}
	metrics.SlotTransitions.WithLabelValues("edit").Inc()

	// the worker drops reminders for the old start, so arrange a new one
	if slot.Date != target.Date || slot.Start != target.Start {
		switch {
		case slot.Kind == entity.SlotKindBooked && l.policy.onBook():
			l.remind(ctx, ownerID, *slot)
		case slot.Kind == entity.SlotKindMutual && l.policy.onDefer():
			l.remindNextMutual(ctx, ownerID)
		}
	}
	return slot, nil
}

// Delete removes an internal slot owned by ownerID.
func (l *Lifecycle) Delete(ctx context.Context, ownerID uuid.UUID, target entity.TimeSlot) *errors.AppError {
	if appErr := checkMutable(ownerID, target); appErr != nil {
		return appErr
	}

	if err := l.store.Delete(ctx, target.ID); err != nil {
		logger.Error("Lifecycle:Delete:Error", "slot_id", target.ID, "error", err)
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete slot", err)
	}
	metrics.SlotTransitions.WithLabelValues("delete").Inc()
	return nil
}

func checkMutable(ownerID uuid.UUID, target entity.TimeSlot) *errors.AppError {
	if !target.Mutable() {
		return errors.NewAppError(errors.ErrReadOnlySlot,
			fmt.Sprintf("Slot imported from %s is read-only", target.SourceTag()), nil)
	}
	if target.OwnerID != ownerID {
		return errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}
	return nil
}

// snapWindow validates a manual window and aligns it to the half-hour grid.
func snapWindow(date, start, end string) (string, string, *errors.AppError) {
	if !ValidDate(date) {
		return "", "", errors.NewAppError(errors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD", nil)
	}
	if !ValidTime(start) || !ValidTime(end) {
		return "", "", errors.NewAppError(errors.ErrInvalidInput, "Invalid time, expected HH:MM", nil)
	}

	snappedStart, snappedEnd := SnapToHalfHour(start), SnapToHalfHour(end)
	if ParseTime(snappedStart) >= ParseTime(snappedEnd) {
		return "", "", errors.NewAppError(errors.ErrInvalidInput, "Start must be before end", nil)
	}
	return snappedStart, snappedEnd, nil
}

// remindNextMutual reminds the owner about their nearest future mutual slot.
func (l *Lifecycle) remindNextMutual(ctx context.Context, ownerID uuid.UUID) {
	slots, err := l.store.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("Lifecycle:remindNextMutual:ListByOwner:Error", "owner_id", ownerID, "error", err)
		return
	}

	next, ok := NextMutual(slots, l.clock.Now())
	if !ok {
		logger.Debug("Lifecycle:remindNextMutual:NoUpcomingMutual", "owner_id", ownerID)
		return
	}
	l.remind(ctx, ownerID, next)
}

func (l *Lifecycle) remind(ctx context.Context, ownerID uuid.UUID, slot entity.TimeSlot) {
	if l.reminders == nil {
		return
	}

	now := l.clock.Now()
	at, ok := SlotInstant(slot, now.Location())
	if !ok || !at.After(now) {
		return
	}

	remindAt := at.Add(-l.lead)
	if err := l.reminders.Schedule(ctx, ownerID, slot, remindAt); err != nil {
		metrics.RemindersScheduled.WithLabelValues("failed").Inc()
		logger.Error("Lifecycle:remind:Schedule:Error", "owner_id", ownerID, "slot_id", slot.ID, "error", err)
		return
	}
	metrics.RemindersScheduled.WithLabelValues("scheduled").Inc()
	logger.Info("Lifecycle:remind:Scheduled", "owner_id", ownerID, "slot_id", slot.ID, "remind_at", remindAt)
}

// SlotInstant is the start of slot as an instant in loc.
func SlotInstant(slot entity.TimeSlot, loc *time.Location) (time.Time, bool) {
	day, err := time.ParseInLocation(DateLayout, slot.Date, loc)
	if err != nil || !ValidTime(slot.Start) {
		return time.Time{}, false
	}
	m := ParseTime(slot.Start)
	return time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, loc), true
}

// NextMutual returns the earliest mutual slot starting after now.
func NextMutual(slots []entity.TimeSlot, now time.Time) (entity.TimeSlot, bool) {
	var upcoming []entity.TimeSlot
	for _, s := range slots {
		if s.Kind != entity.SlotKindMutual || !s.Mutable() {
			continue
		}
		if at, ok := SlotInstant(s, now.Location()); ok && at.After(now) {
			upcoming = append(upcoming, s)
		}
	}
	if len(upcoming) == 0 {
		return entity.TimeSlot{}, false
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].Date != upcoming[j].Date {
			return upcoming[i].Date < upcoming[j].Date
		}
		return ParseTime(upcoming[i].Start) < ParseTime(upcoming[j].Start)
	})
	return upcoming[0], true
}
