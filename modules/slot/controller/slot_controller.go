package controller

import (
	"strconv"

	"pairtime-api/core/controller"
	"pairtime-api/core/errors"
	"pairtime-api/core/middleware"
	"pairtime-api/modules/slot/dto"
	"pairtime-api/modules/slot/service"

	"github.com/labstack/echo/v4"
)

// SlotController handles slot and suggestion HTTP requests
type SlotController struct {
	controller.BaseController
	SlotService service.SlotServiceInterface

	// applied when the request does not say
	parentModeDefault bool
	defaultLocale     string
}

// NewSlotController creates a new controller
func NewSlotController(svc service.SlotServiceInterface, parentModeDefault bool, defaultLocale string) *SlotController {
	return &SlotController{
		BaseController:    controller.NewBaseController(),
		SlotService:       svc,
		parentModeDefault: parentModeDefault,
		defaultLocale:     defaultLocale,
	}
}

// ListSlots handles GET /slots
// @Summary List own and imported slots
// @Description Returns the caller's slots, imported events included, with conflict flags
// @Tags Slot
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SlotListResponse
// @Failure 401 {object} errors.AppError
// @Router /private/slots [get]
func (c *SlotController) ListSlots(ctx echo.Context) error {
	ownerID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.SlotService.ListSlots(ctx.Request().Context(), ownerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetConflicts handles GET /slots/conflicts?date=YYYY-MM-DD
// @Summary Conflicting slots on a date
// @Tags Slot
// @Security BearerAuth
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.ConflictResponse
// @Failure 400 {object} errors.AppError
// @Router /private/slots/conflicts [get]
func (c *SlotController) GetConflicts(ctx echo.Context) error {
	ownerID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.SlotService.GetConflicts(ctx.Request().Context(), ownerID, ctx.QueryParam("date"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// CreateSlot handles POST /slots
// @Summary Add a mutual availability slot
// @Description Times are snapped to the nearest half hour
// @Tags Slot
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateSlotRequest true "Slot window"
// @Success 201 {object} dto.SlotResponse
// @Failure 400 {object} errors.AppError
// @Router /private/slots [post]
func (c *SlotController) CreateSlot(ctx echo.Context) error {
	ownerID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SlotService.CreateSlot(ctx.Request().Context(), ownerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Slot created successfully")
}

// UpdateSlot handles PUT /slots/:id
// @Summary Edit an internal slot
// @Description Imported slots are read-only; kind may only move forward
// @Tags Slot
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param request body dto.UpdateSlotRequest true "Fields to change"
// @Success 200 {object} dto.SlotResponse
// @Failure 403 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/slots/{id} [put]
func (c *SlotController) UpdateSlot(ctx echo.Context) error {
	ownerID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.UpdateSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SlotService.UpdateSlot(ctx.Request().Context(), ownerID, ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Slot updated successfully")
}

// DeleteSlot handles DELETE /slots/:id
// @Summary Delete an internal slot
// @Tags Slot
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200
// @Failure 403 {object} errors.AppError
// @Router /private/slots/{id} [delete]
func (c *SlotController) DeleteSlot(ctx echo.Context) error {
	ownerID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	if appErr := c.SlotService.DeleteSlot(ctx.Request().Context(), ownerID, ctx.Param("id")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Slot deleted successfully")
}

// GetSuggestions handles GET /suggestions
// @Summary Ranked shared-time suggestions
// @Tags Suggestion
// @Security BearerAuth
// @Produce json
// @Param parent_mode query bool false "Offer short check-in windows"
// @Param lang query string false "Display locale (en, vi)"
// @Success 200 {object} dto.SuggestionListResponse
// @Router /private/suggestions [get]
func (c *SlotController) GetSuggestions(ctx echo.Context) error {
	ownerID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	parentMode := c.parentModeDefault
	if raw := ctx.QueryParam("parent_mode"); raw != "" {
		parentMode, err = strconv.ParseBool(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "parent_mode must be a boolean")
		}
	}

	locale := ctx.QueryParam("lang")
	if locale == "" {
		locale = ctx.Request().Header.Get("Accept-Language")
	}
	if locale == "" {
		locale = c.defaultLocale
	}

	result, appErr := c.SlotService.GetSuggestions(ctx.Request().Context(), ownerID, parentMode, locale)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// AcceptSuggestion handles POST /suggestions/accept
// @Summary Book a suggested window
// @Tags Suggestion
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SuggestionActionRequest true "Suggestion"
// @Success 201 {object} dto.SlotResponse
// @Router /private/suggestions/accept [post]
func (c *SlotController) AcceptSuggestion(ctx echo.Context) error {
	ownerID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SuggestionActionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SlotService.AcceptSuggestion(ctx.Request().Context(), ownerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Suggestion booked")
}

// DeferSuggestion handles POST /suggestions/defer
// @Summary Keep a suggested window for later
// @Tags Suggestion
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SuggestionActionRequest true "Suggestion"
// @Success 201 {object} dto.SlotResponse
// @Router /private/suggestions/defer [post]
func (c *SlotController) DeferSuggestion(ctx echo.Context) error {
	ownerID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SuggestionActionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SlotService.DeferSuggestion(ctx.Request().Context(), ownerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Suggestion saved for later")
}
