package router

import (
	"pairtime-api/core/middleware"
	"pairtime-api/modules/energy/controller"

	"github.com/labstack/echo/v4"
)

type EnergyRouter struct {
	EnergyController *controller.EnergyController
}

func NewEnergyRouter(energyController *controller.EnergyController) *EnergyRouter {
	return &EnergyRouter{EnergyController: energyController}
}

func (r *EnergyRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	energyRoutes := e.Group("/api/v1/private/energy", mw.AuthMiddleware())
	energyRoutes.GET("", r.EnergyController.GetCurrentPhase)
	energyRoutes.POST("", r.EnergyController.RecordPhase)
}
