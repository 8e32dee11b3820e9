package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pairtime-api/core/clock"
	"pairtime-api/core/database"
	"pairtime-api/core/logger"
	"pairtime-api/modules/calendar/entity"

	"github.com/google/uuid"
)

type CalendarRepository interface {
	CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	GetConnectionsByUserID(ctx context.Context, userID uuid.UUID, provider string) ([]entity.CalendarConnection, error)
	ListActiveByProvider(ctx context.Context, provider string) ([]entity.CalendarConnection, error)
	UpdateTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string, expiresAt *time.Time) error
	DeleteConnection(ctx context.Context, userID, id uuid.UUID) (bool, error)

	SaveOAuthState(ctx context.Context, state *entity.OAuthState) error
	ConsumeOAuthState(ctx context.Context, state string) (*entity.OAuthState, error)
	DeleteExpiredOAuthStates(ctx context.Context) error
}

type calendarRepository struct {
	db    database.IDatabase
	clock clock.Clock
}

func NewCalendarRepository(db database.IDatabase, clk clock.Clock) CalendarRepository {
	return &calendarRepository{db: db, clock: clk}
}

const connectionColumns = `id, user_id, provider, access_token, refresh_token, token_expires_at, feed_url, label, is_active, created_at, updated_at`

// CreateConnection creates a new calendar connection
func (r *calendarRepository) CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	now := r.clock.Now().UTC()
	conn.ID = uuid.New()
	conn.IsActive = true
	conn.CreatedAt = now
	conn.UpdatedAt = now

	query := `
		INSERT INTO calendar_connections (` + connectionColumns + `)
		VALUES (:id, :user_id, :provider, :access_token, :refresh_token, :token_expires_at, :feed_url, :label, :is_active, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, conn); err != nil {
		logger.Error("CalendarRepository:CreateConnection", "user_id", conn.UserID, "error", err)
		return nil, fmt.Errorf("create connection: %w", err)
	}
	return conn, nil
}

// GetConnectionsByUserID gets the active connections of a user for provider
func (r *calendarRepository) GetConnectionsByUserID(ctx context.Context, userID uuid.UUID, provider string) ([]entity.CalendarConnection, error) {
	query := `SELECT ` + connectionColumns + ` FROM calendar_connections WHERE user_id = ? AND is_active = ?`
	args := []any{userID.String(), true}
	if provider != "" {
		query += ` AND provider = ?`
		args = append(args, provider)
	}
	query += ` ORDER BY created_at`

	var connections []entity.CalendarConnection
	if err := r.db.SelectContext(ctx, &connections, r.db.Rebind(query), args...); err != nil {
		logger.Error("CalendarRepository:GetConnectionsByUserID", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return connections, nil
}

// ListActiveByProvider is used by background feed refreshes
func (r *calendarRepository) ListActiveByProvider(ctx context.Context, provider string) ([]entity.CalendarConnection, error) {
	query := r.db.Rebind(`SELECT ` + connectionColumns + ` FROM calendar_connections WHERE provider = ? AND is_active = ? ORDER BY created_at`)

	var connections []entity.CalendarConnection
	if err := r.db.SelectContext(ctx, &connections, query, provider, true); err != nil {
		logger.Error("CalendarRepository:ListActiveByProvider", "provider", provider, "error", err)
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return connections, nil
}

// UpdateTokens stores a refreshed OAuth token
func (r *calendarRepository) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string, expiresAt *time.Time) error {
	query := r.db.Rebind(`
		UPDATE calendar_connections
		SET access_token = ?, refresh_token = ?, token_expires_at = ?, updated_at = ?
		WHERE id = ?
	`)
	return r.db.ExecContext(ctx, query, accessToken, refreshToken, expiresAt, r.clock.Now().UTC(), id.String())
}

// DeleteConnection soft deletes a connection owned by userID. It reports
// whether a row was affected.
func (r *calendarRepository) DeleteConnection(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	query := r.db.Rebind(`
		UPDATE calendar_connections
		SET is_active = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_active = ?
	`)
	res, err := r.db.SQLx().ExecContext(ctx, query, false, r.clock.Now().UTC(), id.String(), userID.String(), true)
	if err != nil {
		logger.Error("CalendarRepository:DeleteConnection", "id", id, "error", err)
		return false, fmt.Errorf("delete connection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete connection: %w", err)
	}
	return n > 0, nil
}

// SaveOAuthState stores a consent state token
func (r *calendarRepository) SaveOAuthState(ctx context.Context, state *entity.OAuthState) error {
	state.CreatedAt = r.clock.Now().UTC()
	state.ExpiresAt = state.ExpiresAt.UTC()

	query := `INSERT INTO oauth_states (state, user_id, expires_at, created_at) VALUES (:state, :user_id, :expires_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, state); err != nil {
		logger.Error("CalendarRepository:SaveOAuthState", "user_id", state.UserID, "error", err)
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// ConsumeOAuthState returns the unexpired state and deletes it, so each token
// is usable once. It returns nil, nil when the token is unknown or expired.
func (r *calendarRepository) ConsumeOAuthState(ctx context.Context, state string) (*entity.OAuthState, error) {
	var found entity.OAuthState
	query := r.db.Rebind(`SELECT state, user_id, expires_at, created_at FROM oauth_states WHERE state = ?`)
	if err := r.db.GetContext(ctx, &found, query, state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("CalendarRepository:ConsumeOAuthState", "error", err)
		return nil, fmt.Errorf("get oauth state: %w", err)
	}

	if err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM oauth_states WHERE state = ?`), state); err != nil {
		logger.Error("CalendarRepository:ConsumeOAuthState:Delete", "error", err)
		return nil, fmt.Errorf("delete oauth state: %w", err)
	}

	if !found.ExpiresAt.After(r.clock.Now()) {
		return nil, nil
	}
	return &found, nil
}

// DeleteExpiredOAuthStates removes abandoned consent round trips
func (r *calendarRepository) DeleteExpiredOAuthStates(ctx context.Context) error {
	query := r.db.Rebind(`DELETE FROM oauth_states WHERE expires_at < ?`)
	if err := r.db.ExecContext(ctx, query, r.clock.Now().UTC()); err != nil {
		logger.Error("CalendarRepository:DeleteExpiredOAuthStates", "error", err)
		return fmt.Errorf("delete expired oauth states: %w", err)
	}
	return nil
}
