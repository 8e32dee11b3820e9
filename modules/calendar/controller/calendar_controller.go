package controller

import (
	"pairtime-api/core/controller"
	"pairtime-api/core/errors"
	"pairtime-api/core/middleware"
	"pairtime-api/modules/calendar/dto"
	"pairtime-api/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	calendarService service.CalendarService
}

func NewCalendarController(calendarService service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		calendarService: calendarService,
	}
}

// GetConnections returns all calendar connections for the current user
// @Summary Get calendar connections
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CalendarConnectionListResponse
// @Router /private/calendar/connections [get]
func (c *CalendarController) GetConnections(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.calendarService.GetConnections(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// ConnectGoogle stores a Google Calendar connection
// @Summary Connect Google Calendar
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ConnectGoogleRequest true "OAuth tokens"
// @Success 201 {object} dto.CalendarConnectionResponse
// @Router /private/calendar/connections/google [post]
func (c *CalendarController) ConnectGoogle(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ConnectGoogleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.calendarService.ConnectGoogle(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "Google Calendar connected")
}

// GetGoogleAuthURL starts the Google consent flow
// @Summary Google Calendar consent URL
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.GoogleAuthURLResponse
// @Router /private/calendar/connections/google/authorize [get]
func (c *CalendarController) GetGoogleAuthURL(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.calendarService.GetGoogleAuthURL(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// HandleGoogleCallback completes the Google consent flow
// @Summary Complete Google Calendar consent
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.GoogleCallbackRequest true "Authorization code and state"
// @Success 201 {object} dto.CalendarConnectionResponse
// @Router /private/calendar/connections/google/callback [post]
func (c *CalendarController) HandleGoogleCallback(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.GoogleCallbackRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.calendarService.HandleGoogleCallback(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "Google Calendar connected")
}

// SubscribeICS subscribes to an ICS feed
// @Summary Subscribe to an ICS feed
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SubscribeICSRequest true "Feed"
// @Success 201 {object} dto.CalendarConnectionResponse
// @Router /private/calendar/connections/ics [post]
func (c *CalendarController) SubscribeICS(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SubscribeICSRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.calendarService.SubscribeICS(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "ICS feed subscribed")
}

// DisconnectCalendar disconnects a calendar connection
// @Summary Disconnect calendar
// @Tags Calendar
// @Security BearerAuth
// @Param id path string true "Connection ID"
// @Success 200
// @Router /private/calendar/connections/{id} [delete]
func (c *CalendarController) DisconnectCalendar(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	connectionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid connection ID")
	}

	if appErr := c.calendarService.DisconnectCalendar(ctx.Request().Context(), userID, connectionID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Calendar disconnected")
}

// GetImportedEvents lists upcoming imported events
// @Summary Imported calendar events
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ImportedEventResponse
// @Router /private/calendar/events [get]
func (c *CalendarController) GetImportedEvents(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.calendarService.GetImportedEvents(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
