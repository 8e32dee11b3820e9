package service

import (
	"context"
	"net/url"
	"sort"

	"pairtime-api/core/clock"
	"pairtime-api/core/constants"
	"pairtime-api/core/errors"
	"pairtime-api/core/logger"
	"pairtime-api/core/utils"
	"pairtime-api/modules/calendar/dto"
	"pairtime-api/modules/calendar/entity"
	"pairtime-api/modules/calendar/repository"

	"github.com/google/uuid"
)

type CalendarService interface {
	// Connection management
	GetConnections(ctx context.Context, userID uuid.UUID) (*dto.CalendarConnectionListResponse, *errors.AppError)
	ConnectGoogle(ctx context.Context, userID uuid.UUID, req *dto.ConnectGoogleRequest) (*dto.CalendarConnectionResponse, *errors.AppError)
	GetGoogleAuthURL(ctx context.Context, userID uuid.UUID) (*dto.GoogleAuthURLResponse, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, userID uuid.UUID, req *dto.GoogleCallbackRequest) (*dto.CalendarConnectionResponse, *errors.AppError)
	SubscribeICS(ctx context.Context, userID uuid.UUID, req *dto.SubscribeICSRequest) (*dto.CalendarConnectionResponse, *errors.AppError)
	DisconnectCalendar(ctx context.Context, userID, connectionID uuid.UUID) *errors.AppError

	// Imported events as read-only slots
	GetImportedEvents(ctx context.Context, userID uuid.UUID) ([]dto.ImportedEventResponse, *errors.AppError)
}

type calendarService struct {
	repo   repository.CalendarRepository
	google *GoogleImporter
	ics    *ICSImporter
	clock  clock.Clock
}

func NewCalendarService(repo repository.CalendarRepository, google *GoogleImporter, ics *ICSImporter, clk clock.Clock) CalendarService {
	return &calendarService{
		repo:   repo,
		google: google,
		ics:    ics,
		clock:  clk,
	}
}

// GetConnections returns all active calendar connections for a user
func (s *calendarService) GetConnections(ctx context.Context, userID uuid.UUID) (*dto.CalendarConnectionListResponse, *errors.AppError) {
	connections, err := s.repo.GetConnectionsByUserID(ctx, userID, "")
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load calendar connections", err)
	}

	result := &dto.CalendarConnectionListResponse{Connections: []dto.CalendarConnectionResponse{}}
	for _, conn := range connections {
		source := conn.Provider
		if conn.Provider == dto.ProviderICS {
			source = SourceTag(conn)
		}
		resp := dto.ToConnectionResponse(conn, source)
		if conn.Provider == dto.ProviderICS {
			if at, ok := s.ics.LastSynced(conn.ID); ok {
				resp.LastSyncedAt = &at
			}
		}
		result.Connections = append(result.Connections, resp)
	}
	return result, nil
}

// ConnectGoogle stores Google tokens handed over by the account service
func (s *calendarService) ConnectGoogle(ctx context.Context, userID uuid.UUID, req *dto.ConnectGoogleRequest) (*dto.CalendarConnectionResponse, *errors.AppError) {
	if req.AccessToken == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "access_token is required", nil)
	}

	conn, err := s.repo.CreateConnection(ctx, &entity.CalendarConnection{
		UserID:         userID,
		Provider:       dto.ProviderGoogle,
		AccessToken:    req.AccessToken,
		RefreshToken:   req.RefreshToken,
		TokenExpiresAt: req.ExpiresAt,
		Label:          req.Label,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save Google connection", err)
	}

	logger.Info("CalendarService:ConnectGoogle:Success", "user_id", userID, "connection_id", conn.ID)
	resp := dto.ToConnectionResponse(*conn, dto.ProviderGoogle)
	return &resp, nil
}

// GetGoogleAuthURL starts the consent flow for the user
func (s *calendarService) GetGoogleAuthURL(ctx context.Context, userID uuid.UUID) (*dto.GoogleAuthURLResponse, *errors.AppError) {
	if !s.google.Configured() {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Google OAuth configuration is missing", nil)
	}

	if err := s.repo.DeleteExpiredOAuthStates(ctx); err != nil {
		logger.Warn("CalendarService:GetGoogleAuthURL:Cleanup:Error", "error", err)
	}

	state, err := utils.GenerateState()
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate state token", err)
	}

	expiresAt := s.clock.Now().Add(constants.OAuthStateTTL)
	if err := s.repo.SaveOAuthState(ctx, &entity.OAuthState{State: state, UserID: userID, ExpiresAt: expiresAt}); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to store state token", err)
	}

	logger.Info("CalendarService:GetGoogleAuthURL:StateStored", "user_id", userID, "expires_at", expiresAt)
	return &dto.GoogleAuthURLResponse{AuthURL: s.google.AuthCodeURL(state), State: state}, nil
}

// HandleGoogleCallback exchanges the authorization code and stores the connection
func (s *calendarService) HandleGoogleCallback(ctx context.Context, userID uuid.UUID, req *dto.GoogleCallbackRequest) (*dto.CalendarConnectionResponse, *errors.AppError) {
	if req.Code == "" || req.State == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "code and state are required", nil)
	}

	oauthState, err := s.repo.ConsumeOAuthState(ctx, req.State)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to validate state token", err)
	}
	if oauthState == nil || oauthState.UserID != userID {
		logger.Warn("CalendarService:HandleGoogleCallback:StateRejected", "user_id", userID)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid or expired state token", nil)
	}

	token, err := s.google.Exchange(ctx, req.Code)
	if err != nil {
		logger.Error("CalendarService:HandleGoogleCallback:Exchange:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Failed to exchange authorization code", err)
	}

	connect := &dto.ConnectGoogleRequest{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Label:        req.Label,
	}
	if !token.Expiry.IsZero() {
		connect.ExpiresAt = &token.Expiry
	}
	return s.ConnectGoogle(ctx, userID, connect)
}

// SubscribeICS adds an ICS feed subscription
func (s *calendarService) SubscribeICS(ctx context.Context, userID uuid.UUID, req *dto.SubscribeICSRequest) (*dto.CalendarConnectionResponse, *errors.AppError) {
	u, err := url.Parse(req.FeedURL)
	if err != nil || u.Host == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "feed_url must be an absolute URL", nil)
	}
	switch u.Scheme {
	case "http", "https":
	case "webcal":
		u.Scheme = "https"
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "feed_url must use http, https or webcal", nil)
	}

	conn, err := s.repo.CreateConnection(ctx, &entity.CalendarConnection{
		UserID:   userID,
		Provider: dto.ProviderICS,
		FeedURL:  u.String(),
		Label:    req.Label,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save ICS subscription", err)
	}

	logger.Info("CalendarService:SubscribeICS:Success", "user_id", userID, "connection_id", conn.ID)
	resp := dto.ToConnectionResponse(*conn, SourceTag(*conn))
	return &resp, nil
}

// DisconnectCalendar deactivates a connection owned by the user
func (s *calendarService) DisconnectCalendar(ctx context.Context, userID, connectionID uuid.UUID) *errors.AppError {
	found, err := s.repo.DeleteConnection(ctx, userID, connectionID)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to disconnect calendar", err)
	}
	if !found {
		return errors.NewAppError(errors.ErrNotFound, "Calendar connection not found", nil)
	}

	s.ics.Invalidate(connectionID)
	return nil
}

// GetImportedEvents runs every importer for the user
func (s *calendarService) GetImportedEvents(ctx context.Context, userID uuid.UUID) ([]dto.ImportedEventResponse, *errors.AppError) {
	slots := append(s.google.FetchUpcomingEvents(ctx, userID), s.ics.FetchUpcomingEvents(ctx, userID)...)

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Start < slots[j].Start
	})

	result := make([]dto.ImportedEventResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, dto.ImportedEventResponse{
			ID:     slot.ID,
			Date:   slot.Date,
			Start:  slot.Start,
			End:    slot.End,
			Title:  slot.Title,
			Source: slot.SourceTag(),
		})
	}
	return result, nil
}
