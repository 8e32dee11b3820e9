package router

import (
	"pairtime-api/core/middleware"
	"pairtime-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Private routes (require authentication)
	calendarRoutes := v1.Group("/private/calendar")
	calendarRoutes.Use(mw.AuthMiddleware())

	// Calendar connections
	calendarRoutes.GET("/connections", r.controller.GetConnections)
	calendarRoutes.POST("/connections/google", r.controller.ConnectGoogle)
	calendarRoutes.GET("/connections/google/authorize", r.controller.GetGoogleAuthURL)
	calendarRoutes.POST("/connections/google/callback", r.controller.HandleGoogleCallback)
	calendarRoutes.POST("/connections/ics", r.controller.SubscribeICS)
	calendarRoutes.DELETE("/connections/:id", r.controller.DisconnectCalendar)

	// Imported events
	calendarRoutes.GET("/events", r.controller.GetImportedEvents)
}
