package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pairtime-api/core/clock"
	"pairtime-api/core/config"
	"pairtime-api/core/constants"
	"pairtime-api/core/logger"
	"pairtime-api/core/metrics"
	"pairtime-api/modules/calendar/dto"
	calendarEntity "pairtime-api/modules/calendar/entity"
	"pairtime-api/modules/calendar/repository"
	slotEntity "pairtime-api/modules/slot/entity"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleEventsAPI = "https://www.googleapis.com/calendar/v3/calendars/primary/events"

// maxEventPages caps the pages fetched per connection and import.
const maxEventPages = 20

var googleScopes = []string{"https://www.googleapis.com/auth/calendar.readonly"}

// GoogleImporter reads upcoming events from each connected Google calendar.
type GoogleImporter struct {
	repo      repository.CalendarRepository
	oauth     *oauth2.Config
	clock     clock.Clock
	daysAhead int
	eventsURL string
}

func NewGoogleImporter(repo repository.CalendarRepository, creds config.GoogleAPIConfig, clk clock.Clock, daysAhead int) *GoogleImporter {
	if daysAhead <= 0 {
		daysAhead = 14
	}
	return &GoogleImporter{
		repo: repo,
		oauth: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       googleScopes,
			Endpoint:     google.Endpoint,
		},
		clock:     clk,
		daysAhead: daysAhead,
		eventsURL: googleEventsAPI,
	}
}

func (i *GoogleImporter) Source() string {
	return dto.ProviderGoogle
}

// Configured reports whether the OAuth client can run a consent flow.
func (i *GoogleImporter) Configured() bool {
	return i.oauth.ClientID != "" && i.oauth.ClientSecret != "" && i.oauth.RedirectURL != ""
}

// AuthCodeURL is the consent page for read-only calendar access. Offline
// access with forced approval makes Google return a refresh token.
func (i *GoogleImporter) AuthCodeURL(state string) string {
	return i.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for tokens.
func (i *GoogleImporter) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := i.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return token, nil
}

// FetchUpcomingEvents never fails: any error is logged, counted and yields
// whatever was fetched before it.
func (i *GoogleImporter) FetchUpcomingEvents(ctx context.Context, ownerID uuid.UUID) []slotEntity.TimeSlot {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	conns, err := i.repo.GetConnectionsByUserID(ctx, ownerID, dto.ProviderGoogle)
	if err != nil {
		i.fail("GetConnections", ownerID, err)
		return []slotEntity.TimeSlot{}
	}

	now := i.clock.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, i.daysAhead)

	slots := []slotEntity.TimeSlot{}
	for _, conn := range conns {
		events, err := i.fetchEvents(ctx, conn, from, to)
		if err != nil {
			i.fail("FetchEvents", ownerID, err)
			continue
		}
		slots = append(slots, ToTimeSlots(i.Source(), events, from, to)...)
	}
	return slots
}

func (i *GoogleImporter) fail(step string, ownerID uuid.UUID, err error) {
	metrics.ImportFailures.WithLabelValues(dto.ProviderGoogle).Inc()
	logger.Error("GoogleImporter:"+step+":Error", "owner_id", ownerID, "error", err)
}

// tokenSource refreshes an expired access token and persists the new one.
func (i *GoogleImporter) tokenSource(ctx context.Context, conn calendarEntity.CalendarConnection) (oauth2.TokenSource, error) {
	stored := &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
	}
	if conn.TokenExpiresAt != nil {
		stored.Expiry = *conn.TokenExpiresAt
	}

	fresh, err := i.oauth.TokenSource(ctx, stored).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	if fresh.AccessToken != conn.AccessToken {
		logger.Info("GoogleImporter:tokenSource:Refreshed", "connection_id", conn.ID)
		var expiresAt *time.Time
		if !fresh.Expiry.IsZero() {
			expiresAt = &fresh.Expiry
		}
		refreshToken := fresh.RefreshToken
		if refreshToken == "" {
			refreshToken = conn.RefreshToken
		}
		if err := i.repo.UpdateTokens(ctx, conn.ID, fresh.AccessToken, refreshToken, expiresAt); err != nil {
			logger.Error("GoogleImporter:tokenSource:UpdateTokens:Error", "connection_id", conn.ID, "error", err)
		}
	}
	return oauth2.StaticTokenSource(fresh), nil
}

type googleEventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

type googleEvent struct {
	ID      string          `json:"id"`
	Summary string          `json:"summary"`
	Status  string          `json:"status"`
	Start   googleEventTime `json:"start"`
	End     googleEventTime `json:"end"`
}

func (i *GoogleImporter) fetchEvents(ctx context.Context, conn calendarEntity.CalendarConnection, from, to time.Time) ([]calendarEntity.Event, error) {
	ts, err := i.tokenSource(ctx, conn)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)
	var items []googleEvent
	pageToken := ""
	for page := 0; ; page++ {
		if page >= maxEventPages {
			logger.Warn("GoogleImporter:fetchEvents:PageLimit", "connection_id", conn.ID, "pages", page)
			break
		}

		payload, err := i.fetchPage(ctx, client, from, to, pageToken)
		if err != nil {
			return nil, err
		}
		items = append(items, payload.Items...)

		pageToken = payload.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return toEvents(items, from.Location()), nil
}

type googleEventPage struct {
	Items         []googleEvent `json:"items"`
	NextPageToken string        `json:"nextPageToken"`
}

func (i *GoogleImporter) fetchPage(ctx context.Context, client *http.Client, from, to time.Time, pageToken string) (*googleEventPage, error) {
	params := url.Values{}
	params.Add("singleEvents", "true")
	params.Add("orderBy", "startTime")
	params.Add("timeMin", from.Format(time.RFC3339))
	params.Add("timeMax", to.Format(time.RFC3339))
	if pageToken != "" {
		params.Add("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.eventsURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google calendar api error %d: %s", resp.StatusCode, string(body))
	}

	var payload googleEventPage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return &payload, nil
}

func toEvents(items []googleEvent, loc *time.Location) []calendarEntity.Event {
	events := make([]calendarEntity.Event, 0, len(items))
	for _, item := range items {
		if item.Status == "cancelled" {
			continue
		}
		ev := calendarEntity.Event{UID: item.ID, Summary: item.Summary}

		if item.Start.DateTime != "" {
			start, err1 := time.Parse(time.RFC3339, item.Start.DateTime)
			end, err2 := time.Parse(time.RFC3339, item.End.DateTime)
			if err1 != nil || err2 != nil {
				continue
			}
			ev.Start, ev.End = start.In(loc), end.In(loc)
		} else {
			start, err1 := time.ParseInLocation(dateLayout, item.Start.Date, loc)
			end, err2 := time.ParseInLocation(dateLayout, item.End.Date, loc)
			if err1 != nil || err2 != nil {
				continue
			}
			ev.Start, ev.End, ev.AllDay = start, end, true
		}
		events = append(events, ev)
	}
	return events
}
