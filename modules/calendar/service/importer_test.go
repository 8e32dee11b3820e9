package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pairtime-api/core/clock"
	"pairtime-api/core/config"
	"pairtime-api/core/database"
	"pairtime-api/modules/calendar/dto"
	"pairtime-api/modules/calendar/entity"
	"pairtime-api/modules/calendar/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 13, 8, 0, 0, 0, time.UTC)

var testCreds = config.GoogleAPIConfig{ClientID: "id", ClientSecret: "secret", RedirectURI: "https://pairtime.test/calendar/google/callback"}

func newTestRepo(t *testing.T) repository.CalendarRepository {
	t.Helper()
	db, err := database.InitDB(database.DatabaseConfig{Driver: "sqlite3", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return repository.NewCalendarRepository(db, clock.NewFixed(testNow))
}

const googleEvents = `{"items":[
	{"id":"e1","summary":"Gym","status":"confirmed",
	 "start":{"dateTime":"2025-01-14T10:00:00Z"},"end":{"dateTime":"2025-01-14T11:00:00Z"}},
	{"id":"e2","summary":"Holiday","status":"confirmed",
	 "start":{"date":"2025-01-15"},"end":{"date":"2025-01-16"}},
	{"id":"e3","summary":"Dropped","status":"cancelled",
	 "start":{"dateTime":"2025-01-14T12:00:00Z"},"end":{"dateTime":"2025-01-14T13:00:00Z"}}
]}`

func TestGoogleImporter_FetchUpcomingEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, googleEvents)
	}))
	defer srv.Close()

	ctx := context.Background()
	repo := newTestRepo(t)
	owner := uuid.New()
	_, err := repo.CreateConnection(ctx, &entity.CalendarConnection{
		UserID: owner, Provider: dto.ProviderGoogle, AccessToken: "access-1",
	})
	require.NoError(t, err)

	importer := NewGoogleImporter(repo, testCreds, clock.NewFixed(testNow), 7)
	importer.eventsURL = srv.URL

	slots := importer.FetchUpcomingEvents(ctx, owner)
	require.Len(t, slots, 2)
	assert.Equal(t, "google:e1", slots[0].ID)
	assert.Equal(t, "10:00", slots[0].Start)
	assert.Equal(t, "google:e2", slots[1].ID)
	assert.Equal(t, "00:00", slots[1].Start)
	assert.Equal(t, "23:59", slots[1].End)
}

func TestGoogleImporter_FollowsPageTokens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("pageToken") {
		case "":
			fmt.Fprint(w, `{"nextPageToken":"p2","items":[
				{"id":"e1","start":{"dateTime":"2025-01-14T10:00:00Z"},"end":{"dateTime":"2025-01-14T11:00:00Z"}}]}`)
		case "p2":
			fmt.Fprint(w, `{"items":[
				{"id":"e2","start":{"dateTime":"2025-01-16T15:00:00Z"},"end":{"dateTime":"2025-01-16T16:00:00Z"}}]}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	repo := newTestRepo(t)
	owner := uuid.New()
	_, err := repo.CreateConnection(ctx, &entity.CalendarConnection{
		UserID: owner, Provider: dto.ProviderGoogle, AccessToken: "access-1",
	})
	require.NoError(t, err)

	importer := NewGoogleImporter(repo, testCreds, clock.NewFixed(testNow), 7)
	importer.eventsURL = srv.URL

	slots := importer.FetchUpcomingEvents(ctx, owner)
	require.Len(t, slots, 2)
	assert.Equal(t, "google:e1", slots[0].ID)
	assert.Equal(t, "google:e2", slots[1].ID)
	assert.Equal(t, "2025-01-16", slots[1].Date)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGoogleImporter_FailureYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx := context.Background()
	repo := newTestRepo(t)
	owner := uuid.New()
	_, err := repo.CreateConnection(ctx, &entity.CalendarConnection{
		UserID: owner, Provider: dto.ProviderGoogle, AccessToken: "access-1",
	})
	require.NoError(t, err)

	importer := NewGoogleImporter(repo, testCreds, clock.NewFixed(testNow), 7)
	importer.eventsURL = srv.URL

	slots := importer.FetchUpcomingEvents(ctx, owner)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestICSImporter_CachesFeed(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, sampleFeed)
	}))
	defer srv.Close()

	ctx := context.Background()
	repo := newTestRepo(t)
	owner := uuid.New()
	conn, err := repo.CreateConnection(ctx, &entity.CalendarConnection{
		UserID: owner, Provider: dto.ProviderICS, FeedURL: srv.URL, Label: "Work Calendar",
	})
	require.NoError(t, err)

	importer := NewICSImporter(repo, NewParser(), clock.NewFixed(testNow), 7, 30)

	first := importer.FetchUpcomingEvents(ctx, owner)
	second := importer.FetchUpcomingEvents(ctx, owner)
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "ics-work-calendar:evt-1@example.com", first[0].ID)
	assert.Equal(t, "ics-work-calendar", first[0].SourceTag())

	_, ok := importer.LastSynced(conn.ID)
	assert.True(t, ok)

	importer.RefreshAll(ctx)
	assert.Equal(t, int32(2), hits.Load())

	importer.Invalidate(conn.ID)
	_, ok = importer.LastSynced(conn.ID)
	assert.False(t, ok)
}

func TestICSImporter_UnreachableFeedYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	owner := uuid.New()
	_, err := repo.CreateConnection(ctx, &entity.CalendarConnection{
		UserID: owner, Provider: dto.ProviderICS, FeedURL: "http://127.0.0.1:1/feed.ics",
	})
	require.NoError(t, err)

	importer := NewICSImporter(repo, NewParser(), clock.NewFixed(testNow), 7, 30)
	assert.Empty(t, importer.FetchUpcomingEvents(ctx, owner))
}

func TestSourceTag(t *testing.T) {
	assert.Equal(t, "ics-my-team", SourceTag(entity.CalendarConnection{Label: "My Team!"}))
	assert.Equal(t, "ics-calendar-example-com", SourceTag(entity.CalendarConnection{FeedURL: "https://calendar.example.com/x.ics"}))
	assert.Equal(t, "ics", SourceTag(entity.CalendarConnection{}))
}
