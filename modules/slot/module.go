package slot

import (
	"pairtime-api/core/clock"
	"pairtime-api/core/config"
	"pairtime-api/core/middleware"
	"pairtime-api/modules/slot/controller"
	"pairtime-api/modules/slot/router"
	"pairtime-api/modules/slot/service"
	"time"

	"github.com/labstack/echo/v4"
)

// Deps are the collaborators the engine reads from and writes to.
type Deps struct {
	Store     service.SlotStore
	Pairs     service.PairRepository
	Importers []service.CalendarImporter
	Energy    service.EnergySignal
	Reminders service.ReminderScheduler
	Clock     clock.Clock
}

// Init initializes the slot module and registers routes
func Init(e *echo.Echo, mw *middleware.Middleware, cfg config.SchedulingConfig, deps Deps) *service.SlotService {
	lead := time.Duration(cfg.ReminderLeadMinutes) * time.Minute
	lifecycle := service.NewLifecycle(deps.Store, deps.Reminders, deps.Clock, service.ReminderPolicy(cfg.ReminderPolicy), lead)
	svc := service.NewSlotService(deps.Store, deps.Pairs, deps.Importers, deps.Energy, lifecycle, deps.Clock)
	ctrl := controller.NewSlotController(svc, cfg.ParentModeDefault, cfg.DefaultLocale)
	rtr := router.NewSlotRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
