package service

import (
	"fmt"
	"time"

	"pairtime-api/core/utils"
	calendarEntity "pairtime-api/modules/calendar/entity"
	slotEntity "pairtime-api/modules/slot/entity"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
	endOfDay    = "23:59"
)

// ToTimeSlots shapes provider events into read-only slots tagged with source.
// Every event yields one slot per calendar day it covers inside [from, to):
// the first day starts at the event's clock time, covered middle days block
// 00:00-23:59 and the last day ends at the event's end clock. Days before
// from's date are dropped. Later days carry a ":<n>" id suffix.
func ToTimeSlots(source string, events []calendarEntity.Event, from, to time.Time) []slotEntity.TimeSlot {
	slots := make([]slotEntity.TimeSlot, 0, len(events))
	provenance := slotEntity.Imported{ProviderID: source}
	loc := from.Location()
	firstDay := midnight(from, loc)

	for _, ev := range events {
		if !ev.End.After(ev.Start) || !ev.End.After(from) || !ev.Start.Before(to) {
			continue
		}

		uid := ev.UID
		if uid == "" {
			uid = utils.GenerateID()
		}

		start, end := ev.Start.In(loc), ev.End.In(loc)
		if ev.AllDay {
			// all-day values are dates; keep them on their own calendar day
			start = midnight(ev.Start, loc)
			end = midnight(ev.End, loc)
		}

		day := midnight(start, loc)
		for i := 0; day.Before(end) && day.Before(to); i++ {
			next := day.AddDate(0, 0, 1)
			if day.Before(firstDay) {
				day = next
				continue
			}

			segStart, segEnd := start, end
			if segStart.Before(day) {
				segStart = day
			}
			if segEnd.After(next) {
				segEnd = next
			}
			startClock := segStart.Format(clockLayout)
			endClock := segEnd.Format(clockLayout)
			if !segEnd.Before(next) {
				endClock = endOfDay
			}

			if endClock > startClock {
				id := fmt.Sprintf("%s:%s", source, uid)
				if i > 0 {
					id = fmt.Sprintf("%s:%s:%d", source, uid, i)
				}
				slots = append(slots, slotEntity.TimeSlot{
					ID:      id,
					OwnerID: slotEntity.ExternalOwnerID,
					Date:    day.Format(dateLayout),
					Start:   startClock,
					End:     endClock,
					Kind:    slotEntity.SlotKindBooked,
					Title:   ev.Summary,
					Source:  provenance,
				})
			}
			day = next
		}
	}
	return slots
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
