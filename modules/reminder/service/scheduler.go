package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"pairtime-api/core/constants"
	"pairtime-api/core/logger"
	slotEntity "pairtime-api/modules/slot/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Payload is the body of a slot reminder task. SlotDate and SlotStart record
// where the slot was when the reminder was scheduled.
type Payload struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	SlotID    string    `json:"slot_id"`
	SlotDate  string    `json:"slot_date"`
	SlotStart string    `json:"slot_start"`
	RemindAt  time.Time `json:"remind_at"`
}

// Moved reports whether slot no longer starts where it did at scheduling time.
func (p Payload) Moved(slot slotEntity.TimeSlot) bool {
	if p.SlotDate == "" && p.SlotStart == "" {
		return false
	}
	return slot.Date != p.SlotDate || slot.Start != p.SlotStart
}

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler enqueues reminder tasks to fire at the reminder instant.
type Scheduler struct {
	client Enqueuer
}

func NewScheduler(client Enqueuer) *Scheduler {
	return &Scheduler{client: client}
}

// NewReminderTask builds the task and its dedup id for one slot and instant.
func NewReminderTask(ownerID uuid.UUID, slot slotEntity.TimeSlot, remindAt time.Time) (*asynq.Task, string, error) {
	payload, err := json.Marshal(Payload{
		OwnerID:   ownerID,
		SlotID:    slot.ID,
		SlotDate:  slot.Date,
		SlotStart: slot.Start,
		RemindAt:  remindAt.UTC(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("marshal reminder payload: %w", err)
	}
	taskID := fmt.Sprintf("%s:%s:%d", constants.TaskTypeSlotReminder, slot.ID, remindAt.Unix())
	return asynq.NewTask(constants.TaskTypeSlotReminder, payload), taskID, nil
}

// Schedule enqueues the reminder. Scheduling the same slot and instant twice
// is a no-op.
func (s *Scheduler) Schedule(ctx context.Context, ownerID uuid.UUID, slot slotEntity.TimeSlot, remindAt time.Time) error {
	task, taskID, err := NewReminderTask(ownerID, slot, remindAt)
	if err != nil {
		return err
	}

	info, err := s.client.EnqueueContext(ctx, task,
		asynq.Queue(constants.QueueReminders),
		asynq.ProcessAt(remindAt),
		asynq.TaskID(taskID),
		asynq.MaxRetry(3),
	)
	if stderrors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Debug("ReminderScheduler:Schedule:AlreadyScheduled", "task_id", taskID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}

	logger.Info("ReminderScheduler:Schedule:Enqueued", "task_id", info.ID, "queue", info.Queue, "process_at", remindAt)
	return nil
}
