package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"pairtime-api/core/clock"
	"pairtime-api/core/logger"
	"pairtime-api/core/metrics"
	"pairtime-api/modules/calendar/dto"
	calendarEntity "pairtime-api/modules/calendar/entity"
	"pairtime-api/modules/calendar/repository"
	slotEntity "pairtime-api/modules/slot/entity"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/robfig/cron/v3"
)

type feedCache struct {
	events    []calendarEntity.Event
	fetchedAt time.Time
}

// ICSImporter serves subscribed ICS feeds from a cache that a cron job
// refreshes in the background. A feed is fetched inline the first time it is
// asked for.
type ICSImporter struct {
	repo      repository.CalendarRepository
	parser    *Parser
	clock     clock.Clock
	daysAhead int
	interval  int

	cron    *cron.Cron
	entryID cron.EntryID

	mu    sync.RWMutex
	feeds map[uuid.UUID]feedCache // connection id -> last good fetch
}

func NewICSImporter(repo repository.CalendarRepository, parser *Parser, clk clock.Clock, daysAhead, refreshMinutes int) *ICSImporter {
	if daysAhead <= 0 {
		daysAhead = 14
	}
	if refreshMinutes <= 0 {
		refreshMinutes = 30
	}
	return &ICSImporter{
		repo:      repo,
		parser:    parser,
		clock:     clk,
		daysAhead: daysAhead,
		interval:  refreshMinutes,
		cron:      cron.New(),
		feeds:     make(map[uuid.UUID]feedCache),
	}
}

func (i *ICSImporter) Source() string {
	return dto.ProviderICS
}

// SourceTag names one feed, e.g. "ics-work-calendar".
func SourceTag(conn calendarEntity.CalendarConnection) string {
	label := conn.Label
	if label == "" {
		if u, err := url.Parse(conn.FeedURL); err == nil && u.Host != "" {
			label = u.Host
		}
	}
	if s := slug.Make(label); s != "" {
		return dto.ProviderICS + "-" + s
	}
	return dto.ProviderICS
}

// Start schedules the periodic refresh of every active feed.
func (i *ICSImporter) Start() error {
	entryID, err := i.cron.AddFunc(fmt.Sprintf("@every %dm", i.interval), func() {
		i.RefreshAll(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule ics refresh: %w", err)
	}
	i.entryID = entryID
	i.cron.Start()
	logger.Info("ICSImporter:Start", "interval_minutes", i.interval)
	return nil
}

// Stop waits for a running refresh to finish.
func (i *ICSImporter) Stop() {
	<-i.cron.Stop().Done()
	logger.Info("ICSImporter:Stop")
}

func (i *ICSImporter) FetchUpcomingEvents(ctx context.Context, ownerID uuid.UUID) []slotEntity.TimeSlot {
	conns, err := i.repo.GetConnectionsByUserID(ctx, ownerID, dto.ProviderICS)
	if err != nil {
		metrics.ImportFailures.WithLabelValues(dto.ProviderICS).Inc()
		logger.Error("ICSImporter:FetchUpcomingEvents:GetConnections:Error", "owner_id", ownerID, "error", err)
		return []slotEntity.TimeSlot{}
	}

	now := i.clock.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, i.daysAhead)

	slots := []slotEntity.TimeSlot{}
	for _, conn := range conns {
		i.mu.RLock()
		cached, ok := i.feeds[conn.ID]
		i.mu.RUnlock()

		if !ok {
			if !i.refresh(ctx, conn) {
				continue
			}
			i.mu.RLock()
			cached = i.feeds[conn.ID]
			i.mu.RUnlock()
		}
		slots = append(slots, ToTimeSlots(SourceTag(conn), cached.events, from, to)...)
	}
	return slots
}

// RefreshAll refetches every active feed and drops cache entries of feeds
// that were disconnected.
func (i *ICSImporter) RefreshAll(ctx context.Context) {
	conns, err := i.repo.ListActiveByProvider(ctx, dto.ProviderICS)
	if err != nil {
		logger.Error("ICSImporter:RefreshAll:ListActive:Error", "error", err)
		return
	}

	active := make(map[uuid.UUID]bool, len(conns))
	refreshed := 0
	for _, conn := range conns {
		active[conn.ID] = true
		if i.refresh(ctx, conn) {
			refreshed++
		}
	}

	i.mu.Lock()
	for id := range i.feeds {
		if !active[id] {
			delete(i.feeds, id)
		}
	}
	i.mu.Unlock()

	logger.Info("ICSImporter:RefreshAll:Done", "feeds", len(conns), "refreshed", refreshed)
}

// Invalidate forgets the cached events of one feed.
func (i *ICSImporter) Invalidate(connectionID uuid.UUID) {
	i.mu.Lock()
	delete(i.feeds, connectionID)
	i.mu.Unlock()
}

// refresh keeps the previous cache entry when the fetch fails.
func (i *ICSImporter) refresh(ctx context.Context, conn calendarEntity.CalendarConnection) bool {
	events, err := i.parser.FetchAndParse(ctx, conn.FeedURL, i.clock.Now().Location())
	if err != nil {
		metrics.ImportFailures.WithLabelValues(dto.ProviderICS).Inc()
		logger.Error("ICSImporter:refresh:Error", "connection_id", conn.ID, "error", err)
		return false
	}

	i.mu.Lock()
	i.feeds[conn.ID] = feedCache{events: events, fetchedAt: i.clock.Now()}
	i.mu.Unlock()
	return true
}

// LastSynced reports when a feed was last fetched successfully.
func (i *ICSImporter) LastSynced(connectionID uuid.UUID) (time.Time, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	cached, ok := i.feeds[connectionID]
	return cached.fetchedAt, ok
}
