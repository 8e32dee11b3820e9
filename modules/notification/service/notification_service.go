package service

import (
	"context"

	"pairtime-api/core/clock"
	"pairtime-api/core/errors"
	"pairtime-api/core/params"
	"pairtime-api/modules/notification/dto"
	"pairtime-api/modules/notification/entity"
	"pairtime-api/modules/notification/repository"

	"github.com/google/uuid"
)

type NotificationService struct {
	repo  *repository.NotificationRepository
	clock clock.Clock
}

func NewNotificationService(repo *repository.NotificationRepository, clk clock.Clock) *NotificationService {
	return &NotificationService{repo: repo, clock: clk}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	notif := &entity.Notification{
		UserID:    req.UserID,
		Title:     req.Title,
		Message:   req.Message,
		Type:      req.Type,
		Data:      entity.JSONB(req.Data),
		IsRead:    false,
		CreatedAt: s.clock.Now().UTC(),
	}
	return s.repo.Create(ctx, notif)
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotifications, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// Dismiss deletes a notification from the user's inbox.
func (s *NotificationService) Dismiss(ctx context.Context, userID uuid.UUID, id string) *errors.AppError {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "Invalid notification id", err)
	}
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to dismiss notification", err)
	}
	if !deleted {
		return errors.NewAppError(errors.ErrNotFound, "Notification not found", nil)
	}
	return nil
}
