package calendar

import (
	"pairtime-api/core/clock"
	"pairtime-api/core/config"
	"pairtime-api/core/database"
	"pairtime-api/core/middleware"
	"pairtime-api/modules/calendar/controller"
	"pairtime-api/modules/calendar/repository"
	"pairtime-api/modules/calendar/router"
	"pairtime-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// Module exposes the importers to the slot engine.
type Module struct {
	Google *service.GoogleImporter
	ICS    *service.ICSImporter
}

// Init wires the calendar module, registers routes and starts the ICS refresh job.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, cfg *config.Config, clk clock.Clock) (*Module, error) {
	// Initialize layers
	repo := repository.NewCalendarRepository(db, clk)
	google := service.NewGoogleImporter(repo, cfg.GoogleAPI, clk, cfg.Scheduling.ImportDaysAhead)
	ics := service.NewICSImporter(repo, service.NewParser(), clk, cfg.Scheduling.ImportDaysAhead, cfg.Scheduling.ICSRefreshMinutes)
	calendarService := service.NewCalendarService(repo, google, ics, clk)
	calendarController := controller.NewCalendarController(calendarService)

	// Setup routes
	router.NewCalendarRouter(calendarController).Setup(e, mw)

	if err := ics.Start(); err != nil {
		return nil, err
	}
	return &Module{Google: google, ICS: ics}, nil
}

// Stop halts background refreshes.
func (m *Module) Stop() {
	m.ICS.Stop()
}
