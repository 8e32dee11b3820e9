package repository

import (
	"context"

	"pairtime-api/core/database"
	"pairtime-api/core/logger"
	"pairtime-api/core/params"
	"pairtime-api/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotificationRepository struct {
	db database.IDatabase
}

func NewNotificationRepository(db database.IDatabase) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	query := `
		INSERT INTO notifications (id, title, message, type, data, user_id, is_read, created_at)
		VALUES (:id, :title, :message, :type, :data, :user_id, :is_read, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		logger.Error("NotificationRepository:Create:Error", "user_id", notification.UserID, "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedNotifications, error) {
	// Base query
	baseQuery := `FROM notifications WHERE user_id = ?`

	// Count query
	var totalItems int
	err := r.db.GetContext(ctx, &totalItems, r.db.Rebind("SELECT COUNT(*) "+baseQuery), userID.String())
	if err != nil {
		logger.Error("NotificationRepository:GetByUserID:Count:Error", "error", err)
		return nil, err
	}

	// Data query
	query := r.db.Rebind(`
		SELECT id, user_id, title, message, type, data, is_read, created_at ` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)

	notifications := []entity.Notification{}
	err = r.db.SelectContext(ctx, &notifications, query, userID.String(), params.PageSize, params.Offset())
	if err != nil {
		logger.Error("NotificationRepository:GetByUserID:Select:Error", "error", err)
		return nil, err
	}

	return &entity.PaginatedNotifications{
		Items:      notifications,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE notifications SET is_read = ? WHERE user_id = ? AND id IN (?)`, true, userID.String(), ids)
	if err != nil {
		return err
	}

	if err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		logger.Error("NotificationRepository:MarkAsRead:Error", "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	query := r.db.Rebind(`UPDATE notifications SET is_read = ? WHERE user_id = ?`)
	if err := r.db.ExecContext(ctx, query, true, userID.String()); err != nil {
		logger.Error("NotificationRepository:MarkAllAsRead:Error", "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = ?`)
	if err := r.db.GetContext(ctx, &count, query, userID.String(), false); err != nil {
		logger.Error("NotificationRepository:CountUnread:Error", "error", err)
		return 0, err
	}
	return count, nil
}

// Delete removes one of the user's notifications. It reports false when the
// notification does not exist or belongs to someone else.
func (r *NotificationRepository) Delete(ctx context.Context, userID uuid.UUID, id string) (bool, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM notifications WHERE id = ? AND user_id = ?`)
	if err := r.db.GetContext(ctx, &n, query, id, userID.String()); err != nil {
		logger.Error("NotificationRepository:Delete:Error", "id", id, "error", err)
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	query = r.db.Rebind(`DELETE FROM notifications WHERE id = ? AND user_id = ?`)
	if err := r.db.ExecContext(ctx, query, id, userID.String()); err != nil {
		logger.Error("NotificationRepository:Delete:Error", "id", id, "error", err)
		return false, err
	}
	return true, nil
}
