package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pairtime-api/core/constants"
	"pairtime-api/modules/calendar/entity"
)

// Parser parses iCal/ICS calendar feeds.
type Parser struct {
	httpClient *http.Client
}

// NewParser creates a new iCal parser.
func NewParser() *Parser {
	return &Parser{
		httpClient: &http.Client{Timeout: constants.DefaultRequestTimeout},
	}
}

// FetchAndParse downloads and parses an iCal feed. Floating times are read in loc.
func (p *Parser) FetchAndParse(ctx context.Context, url string, loc *time.Location) ([]entity.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar returned status %d", resp.StatusCode)
	}

	return p.Parse(resp.Body, loc)
}

// Parse reads VEVENTs from r. Events without DTSTART are dropped; a missing
// DTEND defaults per RFC 5545 (one day for a date, zero length otherwise).
func (p *Parser) Parse(r io.Reader, loc *time.Location) ([]entity.Event, error) {
	var events []entity.Event
	var current *entity.Event
	var field, params string
	var value strings.Builder

	flush := func() {
		if field != "" && current != nil {
			p.setEventField(current, field, params, value.String(), loc)
		}
		field, params = "", ""
		value.Reset()
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		// folded continuation line
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			if field != "" {
				value.WriteString(line[1:])
			}
			continue
		}
		flush()

		colonIdx := strings.Index(line, ":")
		if colonIdx == -1 {
			continue
		}
		name, val := line[:colonIdx], line[colonIdx+1:]
		var props string
		if semi := strings.Index(name, ";"); semi != -1 {
			name, props = name[:semi], name[semi+1:]
		}

		switch name {
		case "BEGIN":
			if val == "VEVENT" {
				current = &entity.Event{}
			}
		case "END":
			if val == "VEVENT" && current != nil {
				if !current.Start.IsZero() {
					if current.End.IsZero() {
						defaultEnd(current)
					}
					events = append(events, *current)
				}
				current = nil
			}
		case "UID", "SUMMARY", "DTSTART", "DTEND":
			if current != nil {
				field, params = name, props
				value.WriteString(val)
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading calendar: %w", err)
	}
	return events, nil
}

func (p *Parser) setEventField(event *entity.Event, field, params, value string, loc *time.Location) {
	value = strings.ReplaceAll(value, "\\n", "\n")
	value = strings.ReplaceAll(value, "\\,", ",")
	value = strings.ReplaceAll(value, "\\;", ";")
	value = strings.ReplaceAll(value, "\\\\", "\\")

	switch field {
	case "UID":
		event.UID = value
	case "SUMMARY":
		event.Summary = value
	case "DTSTART":
		event.Start, event.AllDay = parseDateTime(value, params, loc)
	case "DTEND":
		event.End, _ = parseDateTime(value, params, loc)
	}
}

func defaultEnd(event *entity.Event) {
	if event.AllDay {
		event.End = event.Start.AddDate(0, 0, 1)
		return
	}
	event.End = event.Start
}

// parseDateTime parses an iCal date/time value. The bool reports a date-only value.
func parseDateTime(value, params string, loc *time.Location) (time.Time, bool) {
	for _, param := range strings.Split(params, ";") {
		if strings.HasPrefix(param, "TZID=") {
			if tz, err := time.LoadLocation(strings.TrimPrefix(param, "TZID=")); err == nil {
				loc = tz
			}
		}
	}

	if t, err := time.Parse("20060102T150405Z", value); err == nil {
		return t.In(loc), false
	}
	if t, err := time.ParseInLocation("20060102T150405", value, loc); err == nil {
		return t, false
	}
	if t, err := time.ParseInLocation("20060102", value, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}
