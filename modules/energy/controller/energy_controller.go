package controller

import (
	"pairtime-api/core/controller"
	"pairtime-api/core/errors"
	"pairtime-api/core/middleware"
	"pairtime-api/modules/energy/dto"
	"pairtime-api/modules/energy/service"

	"github.com/labstack/echo/v4"
)

type EnergyController struct {
	controller.BaseController
	EnergyService service.EnergyServiceInterface
}

func NewEnergyController(svc service.EnergyServiceInterface) *EnergyController {
	return &EnergyController{
		BaseController: controller.NewBaseController(),
		EnergyService:  svc,
	}
}

// GetCurrentPhase handles GET /energy
// @Summary Current energy phase
// @Tags Energy
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.EnergyPhaseResponse
// @Router /private/energy [get]
func (c *EnergyController) GetCurrentPhase(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.EnergyService.GetCurrentPhase(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// RecordPhase handles POST /energy
// @Summary Report energy phase
// @Tags Energy
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RecordPhaseRequest true "Phase"
// @Success 201 {object} dto.EnergyPhaseResponse
// @Router /private/energy [post]
func (c *EnergyController) RecordPhase(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.RecordPhaseRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EnergyService.RecordPhase(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, result, "Energy phase recorded")
}
