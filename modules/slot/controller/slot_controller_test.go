package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pairtime-api/core/errors"
	"pairtime-api/core/middleware"
	"pairtime-api/core/testutil"
	"pairtime-api/modules/slot/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "slot-secret"

// stubService records what the controller passed through.
type stubService struct {
	ownerID    uuid.UUID
	parentMode bool
	locale     string
	date       string
	slotID     string
	create     *dto.CreateSlotRequest
	action     *dto.SuggestionActionRequest
	err        *errors.AppError
}

func (s *stubService) ListSlots(_ context.Context, ownerID uuid.UUID) (*dto.SlotListResponse, *errors.AppError) {
	s.ownerID = ownerID
	return &dto.SlotListResponse{Slots: []dto.SlotResponse{}, Conflicts: []string{}}, s.err
}

func (s *stubService) GetConflicts(_ context.Context, ownerID uuid.UUID, date string) (*dto.ConflictResponse, *errors.AppError) {
	s.ownerID, s.date = ownerID, date
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ConflictResponse{Date: date, SlotIDs: []string{}}, nil
}

func (s *stubService) GetSuggestions(_ context.Context, ownerID uuid.UUID, parentMode bool, locale string) (*dto.SuggestionListResponse, *errors.AppError) {
	s.ownerID, s.parentMode, s.locale = ownerID, parentMode, locale
	return &dto.SuggestionListResponse{ParentMode: parentMode, Suggestions: []dto.SuggestionResponse{}}, nil
}

func (s *stubService) AcceptSuggestion(_ context.Context, ownerID uuid.UUID, req *dto.SuggestionActionRequest) (*dto.SlotResponse, *errors.AppError) {
	s.ownerID, s.action = ownerID, req
	return &dto.SlotResponse{ID: "slot-1", Kind: "booked"}, nil
}

func (s *stubService) DeferSuggestion(_ context.Context, ownerID uuid.UUID, req *dto.SuggestionActionRequest) (*dto.SlotResponse, *errors.AppError) {
	s.ownerID, s.action = ownerID, req
	return &dto.SlotResponse{ID: "slot-1", Kind: "suggested"}, nil
}

func (s *stubService) CreateSlot(_ context.Context, ownerID uuid.UUID, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	s.ownerID, s.create = ownerID, req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SlotResponse{ID: "slot-1", Kind: "mutual"}, nil
}

func (s *stubService) UpdateSlot(_ context.Context, ownerID uuid.UUID, slotID string, _ *dto.UpdateSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	s.ownerID, s.slotID = ownerID, slotID
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SlotResponse{ID: slotID}, nil
}

func (s *stubService) DeleteSlot(_ context.Context, ownerID uuid.UUID, slotID string) *errors.AppError {
	s.ownerID, s.slotID = ownerID, slotID
	return s.err
}

type harness struct {
	e     *echo.Echo
	svc   *stubService
	user  uuid.UUID
	token string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	e := echo.New()
	svc := &stubService{}
	ctrl := NewSlotController(svc, false, "en")
	mw := middleware.NewMiddleware(testSecret)

	g := e.Group("/api/v1/private", mw.AuthMiddleware())
	g.GET("/slots", ctrl.ListSlots)
	g.POST("/slots", ctrl.CreateSlot)
	g.GET("/slots/conflicts", ctrl.GetConflicts)
	g.PUT("/slots/:id", ctrl.UpdateSlot)
	g.DELETE("/slots/:id", ctrl.DeleteSlot)
	g.GET("/suggestions", ctrl.GetSuggestions)
	g.POST("/suggestions/accept", ctrl.AcceptSuggestion)
	g.POST("/suggestions/defer", ctrl.DeferSuggestion)

	user := uuid.New()
	token, err := testutil.SignToken(user, []byte(testSecret), jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)
	return &harness{e: e, svc: svc, user: user, token: token}
}

func (h *harness) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+h.token)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func TestSlotController_RequiresAuth(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/private/slots", nil)
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSlotController_ListSlots(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/api/v1/private/slots", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, h.user, h.svc.ownerID)
}

func TestSlotController_GetSuggestions(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		headers    []string
		status     int
		parentMode bool
		locale     string
	}{
		{"defaults", "/api/v1/private/suggestions", nil, http.StatusOK, false, "en"},
		{"parent mode and lang", "/api/v1/private/suggestions?parent_mode=true&lang=vi", nil, http.StatusOK, true, "vi"},
		{"accept language", "/api/v1/private/suggestions", []string{"Accept-Language", "vi-VN,vi;q=0.9"}, http.StatusOK, false, "vi-VN,vi;q=0.9"},
		{"lang wins over header", "/api/v1/private/suggestions?lang=en", []string{"Accept-Language", "vi"}, http.StatusOK, false, "en"},
		{"bad parent mode", "/api/v1/private/suggestions?parent_mode=maybe", nil, http.StatusBadRequest, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			rec := h.do(http.MethodGet, tt.target, "", tt.headers...)
			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.parentMode, h.svc.parentMode)
				assert.Equal(t, tt.locale, h.svc.locale)
			}
		})
	}
}

func TestSlotController_CreateSlot(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/api/v1/private/slots", `{"date":"2024-01-15","start":"09:00","end":"10:00","title":"coffee"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, h.svc.create)
	assert.Equal(t, "coffee", h.svc.create.Title)

	var body struct {
		Data dto.SlotResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "slot-1", body.Data.ID)
}

func TestSlotController_ErrorMapping(t *testing.T) {
	tests := []struct {
		code   errors.ErrorCode
		status int
	}{
		{errors.ErrInvalidInput, http.StatusBadRequest},
		{errors.ErrReadOnlySlot, http.StatusForbidden},
		{errors.ErrForbidden, http.StatusForbidden},
		{errors.ErrInvalidTransition, http.StatusConflict},
		{errors.ErrNotFound, http.StatusNotFound},
		{errors.ErrUpdateFailed, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		h := newHarness(t)
		h.svc.err = errors.NewAppError(tt.code, "nope", nil)

		rec := h.do(http.MethodPut, "/api/v1/private/slots/google:evt-1", `{"title":"x"}`)
		assert.Equal(t, tt.status, rec.Code, "code %d", tt.code)
		assert.Equal(t, "google:evt-1", h.svc.slotID)

		var body struct {
			Code    errors.ErrorCode `json:"code"`
			Message string           `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tt.code, body.Code)
		assert.Equal(t, "nope", body.Message)
	}
}

func TestSlotController_SuggestionActions(t *testing.T) {
	h := newHarness(t)
	payload := `{"date":"2024-01-15","start":"10:00","end":"11:00","reason":"balanced energy","match":"80%"}`

	rec := h.do(http.MethodPost, "/api/v1/private/suggestions/accept", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, h.svc.action)
	assert.Equal(t, "10:00", h.svc.action.Start)
	assert.Equal(t, "balanced energy", h.svc.action.Reason)

	rec = h.do(http.MethodPost, "/api/v1/private/suggestions/defer", payload)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/private/slots/conflicts?date=2024-01-15", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-01-15", h.svc.date)

	rec = h.do(http.MethodDelete, "/api/v1/private/slots/slot-9", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "slot-9", h.svc.slotID)
}
