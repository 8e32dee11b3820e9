package dto

import "time"

// RecordPhaseRequest reports the caller's current energy phase
type RecordPhaseRequest struct {
	Phase string `json:"phase" validate:"required"`
}

// EnergyPhaseResponse is the current phase; Phase is empty when none is known
type EnergyPhaseResponse struct {
	Phase      string     `json:"phase,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}
