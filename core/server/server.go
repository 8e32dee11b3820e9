package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pairtime-api/core/cache"
	"pairtime-api/core/clock"
	"pairtime-api/core/config"
	"pairtime-api/core/database"
	"pairtime-api/core/logger"
	"pairtime-api/core/middleware"
	"pairtime-api/core/queue"
	"pairtime-api/modules/calendar"
	"pairtime-api/modules/energy"
	"pairtime-api/modules/notification"
	"pairtime-api/modules/reminder"
	"pairtime-api/modules/slot"
	slotRepository "pairtime-api/modules/slot/repository"
	slotService "pairtime-api/modules/slot/service"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run loads configuration, wires every module and serves until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Init(os.Getenv("SHARED_TIME_CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	db, err := database.InitDB(database.DatabaseConfig{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		Path:     cfg.Database.Path,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			return err
		}
	}

	// Redis backs the energy cache and the reminder queue. Both degrade
	// gracefully: no cache means direct reads, no queue means no reminders.
	var redisCache cache.Cache
	if c, err := cache.NewRedisCache(cache.RedisConfig(cfg.Redis)); err != nil {
		logger.Warn("Server:Run:RedisUnavailable", "error", err)
	} else {
		redisCache = c
		defer redisCache.Close()
	}

	clk := clock.New()
	e := newEcho()
	mw := middleware.NewMiddleware(cfg.JWT.Secret)
	private := e.Group("/api/v1/private")

	notificationService := notification.Init(private, db, mw, clk)
	slotStore := slotRepository.NewSlotRepository(db, clk)

	var reminders slotService.ReminderScheduler
	if redisCache != nil {
		reminderModule, err := reminder.Init(queue.RedisConfig(cfg.Redis), cfg.Scheduling.WorkerConcurrency, slotStore, notificationService)
		if err != nil {
			logger.Warn("Server:Run:ReminderWorkerUnavailable", "error", err)
		} else {
			reminders = reminderModule.Scheduler
			defer reminderModule.Stop()
		}
	}

	calendarModule, err := calendar.Init(e, db, mw, cfg, clk)
	if err != nil {
		return err
	}
	defer calendarModule.Stop()

	energyService := energy.Init(e, db, redisCache, mw, clk)

	slot.Init(e, mw, cfg.Scheduling, slot.Deps{
		Store:     slotStore,
		Pairs:     slotRepository.NewPairRepository(db),
		Importers: []slotService.CalendarImporter{calendarModule.Google, calendarModule.ICS},
		Energy:    energyService,
		Reminders: reminders,
		Clock:     clk,
	})

	return serve(e, fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}

func serve(e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:serve:Listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Server:serve:Shutdown", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
