package router

import (
	"pairtime-api/core/middleware"
	"pairtime-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

type NotificationRouter struct {
	controller *controller.NotificationController
}

func NewNotificationRouter(controller *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{controller: controller}
}

// Register mounts the inbox under /notifications. Reminder deliveries land here.
func (r *NotificationRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	inbox := e.Group("/notifications", mw.AuthMiddleware())
	inbox.GET("", r.controller.GetMyNotifications)
	inbox.GET("/unread-count", r.controller.CountUnread)
	inbox.PUT("/mark-read", r.controller.MarkAsRead)
	inbox.PUT("/mark-all-read", r.controller.MarkAllAsRead)
	inbox.DELETE("/:id", r.controller.Dismiss)
}
