package router

import (
	"pairtime-api/core/middleware"
	"pairtime-api/modules/slot/controller"

	"github.com/labstack/echo/v4"
)

// SlotRouter handles slot and suggestion routes
type SlotRouter struct {
	SlotController *controller.SlotController
}

// NewSlotRouter creates a new router
func NewSlotRouter(slotController *controller.SlotController) *SlotRouter {
	return &SlotRouter{
		SlotController: slotController,
	}
}

// Setup registers slot routes
func (r *SlotRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	slotRoutes := privateRoutes.Group("/slots", mw.AuthMiddleware())
	slotRoutes.GET("", r.SlotController.ListSlots)
	slotRoutes.POST("", r.SlotController.CreateSlot)
	slotRoutes.GET("/conflicts", r.SlotController.GetConflicts)
	slotRoutes.PUT("/:id", r.SlotController.UpdateSlot)
	slotRoutes.DELETE("/:id", r.SlotController.DeleteSlot)

	suggestionRoutes := privateRoutes.Group("/suggestions", mw.AuthMiddleware())
	suggestionRoutes.GET("", r.SlotController.GetSuggestions)
	suggestionRoutes.POST("/accept", r.SlotController.AcceptSuggestion)
	suggestionRoutes.POST("/defer", r.SlotController.DeferSuggestion)
}
