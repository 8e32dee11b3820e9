package entity

import (
	"time"

	"github.com/google/uuid"
)

// EnergyReading is one reported energy phase. The newest reading is current.
type EnergyReading struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Phase      string    `db:"phase" json:"phase"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
