package entity

import (
	"strconv"
	"strings"
)

// Suggestion is a scored candidate window shared by both partners. It is
// derived on every recomputation and never stored as such.
type Suggestion struct {
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Display string `json:"display"`
	Match   string `json:"match"` // "95%"
	Reason  string `json:"reason"`
	Micro   bool   `json:"micro,omitempty"`
}

// MatchValue parses Match back to its integer percentage.
func (s Suggestion) MatchValue() int {
	v, err := strconv.Atoi(strings.TrimSuffix(s.Match, "%"))
	if err != nil {
		return 0
	}
	return v
}

// EnergyPhase is the partner-reported energy signal used to bias scoring.
type EnergyPhase string

const (
	EnergyPhasePeak     EnergyPhase = "peak"
	EnergyPhaseLow      EnergyPhase = "low"
	EnergyPhaseRecovery EnergyPhase = "recovery"
)
