package notification

import (
	"pairtime-api/core/clock"
	"pairtime-api/core/database"
	"pairtime-api/core/middleware"
	"pairtime-api/modules/notification/controller"
	"pairtime-api/modules/notification/repository"
	"pairtime-api/modules/notification/router"
	"pairtime-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.IDatabase, mw *middleware.Middleware, clk clock.Clock) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, clk)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
