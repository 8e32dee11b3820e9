package dto

import (
	"pairtime-api/modules/slot/entity"
)

// ===================== Request DTOs =====================

// CreateSlotRequest for a manual availability entry
type CreateSlotRequest struct {
	Date  string `json:"date" validate:"required"`  // YYYY-MM-DD
	Start string `json:"start" validate:"required"` // HH:MM
	End   string `json:"end" validate:"required"`   // HH:MM
	Title string `json:"title"`
}

// UpdateSlotRequest for editing a slot; omitted fields are unchanged
type UpdateSlotRequest struct {
	Date  *string `json:"date"`
	Start *string `json:"start"`
	End   *string `json:"end"`
	Title *string `json:"title"`
	Kind  *string `json:"kind"`
}

// SuggestionActionRequest echoes a suggestion back for accept/defer
type SuggestionActionRequest struct {
	Date   string `json:"date" validate:"required"`
	Start  string `json:"start" validate:"required"`
	End    string `json:"end" validate:"required"`
	Reason string `json:"reason"`
	Match  string `json:"match"`
}

// ===================== Response DTOs =====================

// SlotResponse for a single slot in the normalized view
type SlotResponse struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id,omitempty"`
	Date     string `json:"date"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Kind     string `json:"kind"`
	Title    string `json:"title,omitempty"`
	Source   string `json:"source"`
	ReadOnly bool   `json:"read_only"`
	Conflict bool   `json:"conflict"`
}

// SlotListResponse for the caller's own and imported slots
type SlotListResponse struct {
	Slots     []SlotResponse `json:"slots"`
	Conflicts []string       `json:"conflicts"`
}

// ConflictResponse for one date
type ConflictResponse struct {
	Date    string   `json:"date"`
	SlotIDs []string `json:"slot_ids"`
}

// SuggestionResponse for one ranked candidate window
type SuggestionResponse struct {
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Display string `json:"display"`
	Match   string `json:"match"`
	Reason  string `json:"reason"`
	Micro   bool   `json:"micro"`
}

// SuggestionListResponse for the ranked suggestions of a pair
type SuggestionListResponse struct {
	PartnerID   string               `json:"partner_id,omitempty"`
	ParentMode  bool                 `json:"parent_mode"`
	EnergyPhase string               `json:"energy_phase,omitempty"`
	Version     uint64               `json:"version"`
	Stale       bool                 `json:"stale"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}

// ===================== Mapper Functions =====================

// ToSlotResponse maps entity to DTO
func ToSlotResponse(s entity.TimeSlot, conflict bool) SlotResponse {
	resp := SlotResponse{
		ID:       s.ID,
		Date:     s.Date,
		Start:    s.Start,
		End:      s.End,
		Kind:     string(s.Kind),
		Title:    s.Title,
		Source:   s.SourceTag(),
		ReadOnly: !s.Mutable(),
		Conflict: conflict,
	}
	if s.OwnerID != entity.ExternalOwnerID {
		resp.OwnerID = s.OwnerID.String()
	}
	return resp
}

// ToSuggestionResponses maps entities to DTOs
func ToSuggestionResponses(items []entity.Suggestion) []SuggestionResponse {
	result := make([]SuggestionResponse, 0, len(items))
	for _, s := range items {
		result = append(result, SuggestionResponse{
			Date:    s.Date,
			Start:   s.Start,
			End:     s.End,
			Display: s.Display,
			Match:   s.Match,
			Reason:  s.Reason,
			Micro:   s.Micro,
		})
	}
	return result
}

// ToSuggestion maps an action request back to the entity
func (r SuggestionActionRequest) ToSuggestion() entity.Suggestion {
	return entity.Suggestion{
		Date:   r.Date,
		Start:  r.Start,
		End:    r.End,
		Match:  r.Match,
		Reason: r.Reason,
	}
}

// ToSlotUpdate maps the request to the entity update
func (r UpdateSlotRequest) ToSlotUpdate() entity.SlotUpdate {
	update := entity.SlotUpdate{
		Date:  r.Date,
		Start: r.Start,
		End:   r.End,
		Title: r.Title,
	}
	if r.Kind != nil {
		kind := entity.SlotKind(*r.Kind)
		update.Kind = &kind
	}
	return update
}
