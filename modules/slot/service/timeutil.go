package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay  = 24 * 60
	GridMinutes    = 30
	lastGridMinute = MinutesPerDay - GridMinutes // 23:30

	DateLayout = "2006-01-02"
)

func parseClock(hhmm string) (int, bool) {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok || len(h) != 2 || len(m) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// ValidTime reports whether hhmm is a well-formed HH:MM wall-clock time.
func ValidTime(hhmm string) bool {
	_, ok := parseClock(hhmm)
	return ok
}

// ValidDate reports whether date is a YYYY-MM-DD calendar date.
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// ParseTime converts HH:MM into minutes since midnight. Callers validate
// input upstream; malformed input yields 0.
func ParseTime(hhmm string) int {
	m, _ := parseClock(hhmm)
	return m
}

// FormatTime is the inverse of ParseTime.
func FormatTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func snapMinutes(minutes int) int {
	snapped := (minutes + GridMinutes/2) / GridMinutes * GridMinutes
	return max(0, min(snapped, lastGridMinute))
}

// SnapToHalfHour rounds to the nearest half hour and clamps to [00:00, 23:30].
func SnapToHalfHour(hhmm string) string {
	return FormatTime(snapMinutes(ParseTime(hhmm)))
}
