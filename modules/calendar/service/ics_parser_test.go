package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:evt-1@example.com\r\n" +
	"SUMMARY:Dentist\\, downtown\r\n" +
	"DTSTART:20250114T100000Z\r\n" +
	"DTEND:20250114T110000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:evt-2\r\n" +
	"SUMMARY:Conference day with a very long\r\n" +
	"  title\r\n" +
	"DTSTART;VALUE=DATE:20250115\r\n" +
	"DTEND;VALUE=DATE:20250116\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:no-end\r\n" +
	"DTSTART:20250114T100000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParser_Parse(t *testing.T) {
	events, err := NewParser().Parse(strings.NewReader(sampleFeed), time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "evt-1@example.com", events[0].UID)
	assert.Equal(t, "Dentist, downtown", events[0].Summary)
	assert.Equal(t, time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC), events[0].Start)
	assert.False(t, events[0].AllDay)

	assert.Equal(t, "Conference day with a very long title", events[1].Summary)
	assert.True(t, events[1].AllDay)
	assert.Equal(t, time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), events[1].End)

	assert.Equal(t, "no-end", events[2].UID)
	assert.Equal(t, events[2].Start, events[2].End)
}

func TestParser_MissingDTENDOnDateBlocksOneDay(t *testing.T) {
	feed := "BEGIN:VEVENT\nUID:holiday\nDTSTART;VALUE=DATE:20250115\nEND:VEVENT\n"

	events, err := NewParser().Parse(strings.NewReader(feed), time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].AllDay)
	assert.Equal(t, time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), events[0].End)

	from := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	slots := ToTimeSlots("ics-home", events, from, from.AddDate(0, 0, 7))
	require.Len(t, slots, 1)
	assert.Equal(t, "2025-01-15", slots[0].Date)
	assert.Equal(t, "00:00", slots[0].Start)
	assert.Equal(t, "23:59", slots[0].End)
}

func TestParser_FloatingTimeUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	feed := "BEGIN:VEVENT\nUID:x\nDTSTART:20250114T090000\nDTEND:20250114T093000\nEND:VEVENT\n"

	events, err := NewParser().Parse(strings.NewReader(feed), loc)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 9, events[0].Start.Hour())
	assert.Equal(t, loc, events[0].Start.Location())
}
