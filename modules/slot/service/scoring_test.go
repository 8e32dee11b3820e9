package service

import (
	"testing"

	"pairtime-api/modules/slot/entity"

	"github.com/stretchr/testify/assert"
)

// 2024-01-15 is a Monday, 2024-01-13 a Saturday, 2024-01-14 a Sunday.

func TestScore_Baseline(t *testing.T) {
	match, reason := Score("2024-01-15", ParseTime("10:00"), nil)
	assert.Equal(t, 80, match)
	assert.Equal(t, "balanced energy", reason)
}

func TestScore_Phases(t *testing.T) {
	tests := []struct {
		name   string
		phase  entity.EnergyPhase
		start  string
		match  int
		reason string
	}{
		{"peak inside", entity.EnergyPhasePeak, "10:00", 95, "aligns with your peak energy"},
		{"peak lower bound", entity.EnergyPhasePeak, "09:00", 95, "aligns with your peak energy"},
		{"peak upper bound", entity.EnergyPhasePeak, "17:00", 95, "aligns with your peak energy"},
		{"peak outside", entity.EnergyPhasePeak, "08:30", 70, "outside your peak energy"},
		{"low inside", entity.EnergyPhaseLow, "07:00", 95, "aligns with your low energy"},
		{"low outside", entity.EnergyPhaseLow, "12:00", 70, "outside your low energy"},
		{"recovery inside", entity.EnergyPhaseRecovery, "20:00", 95, "aligns with your recovery energy"},
		{"recovery outside", entity.EnergyPhaseRecovery, "22:30", 70, "outside your recovery energy"},
		{"unknown phase covers the day", entity.EnergyPhase("focus"), "03:00", 95, "aligns with your focus energy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, reason := Score("2024-01-15", ParseTime(tt.start), phasePtr(tt.phase))
			assert.Equal(t, tt.match, match)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestScore_WeekendBonus(t *testing.T) {
	match, reason := Score("2024-01-13", ParseTime("10:00"), nil)
	assert.Equal(t, 82, match)
	assert.Equal(t, "balanced energy on weekend", reason)

	match, reason = Score("2024-01-14", ParseTime("10:00"), phasePtr(entity.EnergyPhasePeak))
	assert.Equal(t, 97, match)
	assert.Equal(t, "aligns with your peak energy on weekend", reason)

	match, _ = Score("2024-01-14", ParseTime("06:00"), phasePtr(entity.EnergyPhasePeak))
	assert.Equal(t, 72, match)
}

func TestScore_Deterministic(t *testing.T) {
	phase := phasePtr(entity.EnergyPhaseRecovery)
	firstMatch, firstReason := Score("2024-01-13", 1080, phase)
	for i := 0; i < 50; i++ {
		match, reason := Score("2024-01-13", 1080, phase)
		assert.Equal(t, firstMatch, match)
		assert.Equal(t, firstReason, reason)
	}
}

func TestFormatMatch(t *testing.T) {
	assert.Equal(t, "95%", FormatMatch(95))
	assert.Equal(t, 95, entity.Suggestion{Match: FormatMatch(95)}.MatchValue())
	assert.Equal(t, 0, entity.Suggestion{Match: "n/a"}.MatchValue())
}
