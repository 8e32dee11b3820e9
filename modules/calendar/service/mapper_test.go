package service

import (
	"strings"
	"testing"
	"time"

	calendarEntity "pairtime-api/modules/calendar/entity"
	slotEntity "pairtime-api/modules/slot/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTimeSlots(t *testing.T) {
	from := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 14)

	events := []calendarEntity.Event{
		{UID: "a", Summary: "Standup", Start: at(2025, 1, 14, 9, 0), End: at(2025, 1, 14, 9, 30)},
		{UID: "b", Summary: "Late show", Start: at(2025, 1, 14, 22, 0), End: at(2025, 1, 15, 1, 0)},
		{UID: "c", Start: at(2025, 1, 16, 0, 0), End: at(2025, 1, 18, 0, 0), AllDay: true},
		{UID: "old", Start: at(2025, 1, 1, 9, 0), End: at(2025, 1, 1, 10, 0)},
		{UID: "inverted", Start: at(2025, 1, 14, 11, 0), End: at(2025, 1, 14, 10, 0)},
	}

	slots := ToTimeSlots("google", events, from, to)
	require.Len(t, slots, 5)

	assert.Equal(t, "google:a", slots[0].ID)
	assert.Equal(t, "2025-01-14", slots[0].Date)
	assert.Equal(t, "09:00", slots[0].Start)
	assert.Equal(t, "09:30", slots[0].End)
	assert.Equal(t, slotEntity.ExternalOwnerID, slots[0].OwnerID)
	assert.False(t, slots[0].Mutable())
	assert.True(t, slots[0].Occupied())
	assert.Equal(t, "google", slots[0].SourceTag())

	assert.Equal(t, "google:b", slots[1].ID)
	assert.Equal(t, "22:00", slots[1].Start)
	assert.Equal(t, "23:59", slots[1].End)
	assert.Equal(t, "google:b:1", slots[2].ID)
	assert.Equal(t, "2025-01-15", slots[2].Date)
	assert.Equal(t, "00:00", slots[2].Start)
	assert.Equal(t, "01:00", slots[2].End)

	assert.Equal(t, "google:c", slots[3].ID)
	assert.Equal(t, "2025-01-16", slots[3].Date)
	assert.Equal(t, "00:00", slots[3].Start)
	assert.Equal(t, "23:59", slots[3].End)
	assert.Equal(t, "google:c:1", slots[4].ID)
	assert.Equal(t, "2025-01-17", slots[4].Date)
}

func TestToTimeSlots_MultiDayTimedEvent(t *testing.T) {
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	slots := ToTimeSlots("google", []calendarEntity.Event{
		{UID: "trip", Start: at(2024, 1, 15, 22, 0), End: at(2024, 1, 17, 10, 0)},
	}, from, from.AddDate(0, 0, 7))

	type window struct{ id, date, start, end string }
	var got []window
	for _, s := range slots {
		got = append(got, window{s.ID, s.Date, s.Start, s.End})
	}
	assert.Equal(t, []window{
		{"google:trip", "2024-01-15", "22:00", "23:59"},
		{"google:trip:1", "2024-01-16", "00:00", "23:59"},
		{"google:trip:2", "2024-01-17", "00:00", "10:00"},
	}, got)
}

func TestToTimeSlots_ClampsToWindow(t *testing.T) {
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 2)
	slots := ToTimeSlots("google", []calendarEntity.Event{
		{UID: "conf", Start: at(2024, 1, 13, 9, 0), End: at(2024, 1, 15, 12, 0)},
		{UID: "long", Start: at(2024, 1, 16, 20, 0), End: at(2024, 1, 19, 8, 0)},
		{UID: "midnight", Start: at(2024, 1, 15, 23, 0), End: at(2024, 1, 16, 0, 0)},
	}, from, to)

	require.Len(t, slots, 3)
	assert.Equal(t, "google:conf:2", slots[0].ID)
	assert.Equal(t, "2024-01-15", slots[0].Date)
	assert.Equal(t, "00:00", slots[0].Start)
	assert.Equal(t, "12:00", slots[0].End)

	assert.Equal(t, "google:long", slots[1].ID)
	assert.Equal(t, "2024-01-16", slots[1].Date)
	assert.Equal(t, "20:00", slots[1].Start)
	assert.Equal(t, "23:59", slots[1].End)

	assert.Equal(t, "google:midnight", slots[2].ID)
	assert.Equal(t, "23:00", slots[2].Start)
	assert.Equal(t, "23:59", slots[2].End)
}

func TestToTimeSlots_MissingUIDGetsGeneratedID(t *testing.T) {
	from := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	slots := ToTimeSlots("ics-work", []calendarEntity.Event{
		{Start: at(2025, 1, 14, 9, 0), End: at(2025, 1, 14, 10, 0)},
	}, from, from.AddDate(0, 0, 7))

	require.Len(t, slots, 1)
	assert.True(t, strings.HasPrefix(slots[0].ID, "ics-work:"))
	assert.Greater(t, len(slots[0].ID), len("ics-work:"))
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}
