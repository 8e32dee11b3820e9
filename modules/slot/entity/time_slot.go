package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlotKind is the commitment level of a slot.
type SlotKind string

const (
	SlotKindMutual    SlotKind = "mutual"
	SlotKindSuggested SlotKind = "suggested"
	SlotKindBooked    SlotKind = "booked"
)

// Rank orders kinds along mutual -> suggested -> booked. Unknown kinds rank -1.
func (k SlotKind) Rank() int {
	switch k {
	case SlotKindMutual:
		return 0
	case SlotKindSuggested:
		return 1
	case SlotKindBooked:
		return 2
	default:
		return -1
	}
}

func (k SlotKind) Valid() bool {
	return k.Rank() >= 0
}

// ExternalOwnerID owns every slot imported from an external calendar.
var ExternalOwnerID = uuid.Nil

// TimeSlot is a half-open [Start, End) wall-clock window on Date.
type TimeSlot struct {
	ID      string     `json:"id"`
	OwnerID uuid.UUID  `json:"owner_id"`
	Date    string     `json:"date"`  // YYYY-MM-DD
	Start   string     `json:"start"` // HH:MM
	End     string     `json:"end"`   // HH:MM, exclusive
	Kind    SlotKind   `json:"kind"`
	Title   string     `json:"title,omitempty"`
	Source  Provenance `json:"-"`
}

// Mutable reports whether the slot may be edited or deleted.
func (s TimeSlot) Mutable() bool {
	return s.Source == nil || s.Source.Mutable()
}

// Occupied reports whether the slot blocks its owner's time: booked slots and
// every imported event.
func (s TimeSlot) Occupied() bool {
	return s.Kind == SlotKindBooked || !s.Mutable()
}

// SourceTag is the provenance string stored and rendered for the slot.
func (s TimeSlot) SourceTag() string {
	if s.Source == nil {
		return SourceInternal
	}
	return s.Source.Tag()
}

// SlotRecord is the persisted row of an internal slot.
type SlotRecord struct {
	ID        string    `db:"id"`
	OwnerID   uuid.UUID `db:"owner_id"`
	Date      string    `db:"slot_date"`
	Start     string    `db:"start_time"`
	End       string    `db:"end_time"`
	Kind      SlotKind  `db:"kind"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r SlotRecord) ToTimeSlot() TimeSlot {
	return TimeSlot{
		ID:      r.ID,
		OwnerID: r.OwnerID,
		Date:    r.Date,
		Start:   r.Start,
		End:     r.End,
		Kind:    r.Kind,
		Title:   r.Title,
		Source:  Internal{},
	}
}

// SlotUpdate carries the editable fields of a slot; nil fields are unchanged.
type SlotUpdate struct {
	Date  *string
	Start *string
	End   *string
	Title *string
	Kind  *SlotKind
}
