package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"pairtime-api/core/constants"
	"pairtime-api/core/logger"
	notificationDto "pairtime-api/modules/notification/dto"
	notificationEntity "pairtime-api/modules/notification/entity"
	reminderService "pairtime-api/modules/reminder/service"
	slotEntity "pairtime-api/modules/slot/entity"

	"github.com/hibiken/asynq"
)

// SlotLookup finds the slot a reminder points at; nil when it was deleted.
type SlotLookup interface {
	GetByID(ctx context.Context, id string) (*slotEntity.TimeSlot, error)
}

// Notifier stores an in-app notification.
type Notifier interface {
	Create(ctx context.Context, req *notificationDto.CreateNotificationRequest) error
}

// Handler turns due reminder tasks into inbox notifications.
type Handler struct {
	slots    SlotLookup
	notifier Notifier
}

func NewHandler(slots SlotLookup, notifier Notifier) *Handler {
	return &Handler{slots: slots, notifier: notifier}
}

// Register mounts the handler on mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(constants.TaskTypeSlotReminder, h.ProcessTask)
}

// ProcessTask drops reminders whose slot is gone, no longer owned by the
// recipient or moved since scheduling. Store errors are returned so asynq retries the task.
func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload reminderService.Payload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	slot, err := h.slots.GetByID(ctx, payload.SlotID)
	if err != nil {
		return fmt.Errorf("load slot: %w", err)
	}
	if slot == nil || slot.OwnerID != payload.OwnerID {
		logger.Info("ReminderWorker:ProcessTask:SlotGone", "slot_id", payload.SlotID)
		return nil
	}
	if payload.Moved(*slot) {
		logger.Info("ReminderWorker:ProcessTask:SlotMoved", "slot_id", slot.ID,
			"scheduled_for", payload.SlotDate+" "+payload.SlotStart, "now_at", slot.Date+" "+slot.Start)
		return nil
	}

	title := "Upcoming time together"
	if slot.Title != "" {
		title = slot.Title
	}

	err = h.notifier.Create(ctx, &notificationDto.CreateNotificationRequest{
		UserID:  payload.OwnerID,
		Title:   title,
		Message: fmt.Sprintf("%s from %s to %s", slot.Date, slot.Start, slot.End),
		Type:    notificationEntity.TypeSlotReminder,
		Data: map[string]any{
			"slot_id": slot.ID,
			"date":    slot.Date,
			"start":   slot.Start,
			"end":     slot.End,
			"kind":    string(slot.Kind),
		},
	})
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	logger.Info("ReminderWorker:ProcessTask:Delivered", "owner_id", payload.OwnerID, "slot_id", slot.ID)
	return nil
}
