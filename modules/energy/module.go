package energy

import (
	"pairtime-api/core/cache"
	"pairtime-api/core/clock"
	"pairtime-api/core/database"
	"pairtime-api/core/middleware"
	"pairtime-api/modules/energy/controller"
	"pairtime-api/modules/energy/repository"
	"pairtime-api/modules/energy/router"
	"pairtime-api/modules/energy/service"

	"github.com/labstack/echo/v4"
)

// Init registers the energy routes and returns the service so the slot
// engine can read the current phase. c may be nil to run without Redis.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, mw *middleware.Middleware, clk clock.Clock) *service.EnergyService {
	repo := repository.NewEnergyRepository(db)
	svc := service.NewEnergyService(repo, c, clk)
	ctrl := controller.NewEnergyController(svc)
	router.NewEnergyRouter(ctrl).Setup(e, mw)
	return svc
}
