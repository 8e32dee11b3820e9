package service

import (
	"fmt"
	"time"

	"pairtime-api/modules/slot/entity"
)

const (
	baselineMatch  = 80
	alignedMatch   = 95
	misalignMatch  = 70
	weekendBonus   = 2
	baselineReason = "balanced energy"
)

type minuteRange struct {
	start, end int
}

// phaseRanges are inclusive minute windows in which a phase counts as aligned.
var phaseRanges = map[entity.EnergyPhase]minuteRange{
	entity.EnergyPhasePeak:     {start: 9 * 60, end: 17 * 60},
	entity.EnergyPhaseRecovery: {start: 17 * 60, end: 22 * 60},
	entity.EnergyPhaseLow:      {start: 6 * 60, end: 9 * 60},
}

var fullDay = minuteRange{start: 0, end: MinutesPerDay - 1}

func rangeFor(phase entity.EnergyPhase) minuteRange {
	if r, ok := phaseRanges[phase]; ok {
		return r
	}
	return fullDay
}

// Score rates a candidate window starting at startMinutes on date against the
// optional energy phase. It is pure: equal inputs give equal outputs.
func Score(date string, startMinutes int, phase *entity.EnergyPhase) (int, string) {
	match := baselineMatch
	reason := baselineReason

	if phase != nil {
		r := rangeFor(*phase)
		if startMinutes >= r.start && startMinutes <= r.end {
			match = alignedMatch
			reason = fmt.Sprintf("aligns with your %s energy", *phase)
		} else {
			match = misalignMatch
			reason = fmt.Sprintf("outside your %s energy", *phase)
		}
	}

	if isWeekend(date) {
		match += weekendBonus
		reason += " on weekend"
	}
	return match, reason
}

// FormatMatch renders a match value as a percentage string.
func FormatMatch(match int) string {
	return fmt.Sprintf("%d%%", match)
}

func isWeekend(date string) bool {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
