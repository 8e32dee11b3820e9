package service

import (
	"context"
	"sync"

	"pairtime-api/core/clock"
	"pairtime-api/core/errors"
	"pairtime-api/core/logger"
	"pairtime-api/core/metrics"
	"pairtime-api/modules/slot/dto"
	"pairtime-api/modules/slot/entity"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CalendarImporter fetches read-only slots from one external calendar
// provider. Failures are absorbed by the importer and yield an empty list.
type CalendarImporter interface {
	Source() string
	FetchUpcomingEvents(ctx context.Context, ownerID uuid.UUID) []entity.TimeSlot
}

// EnergySignal reports the user's current energy phase; nil means unknown.
type EnergySignal interface {
	FetchCurrentPhase(ctx context.Context, userID uuid.UUID) (*entity.EnergyPhase, error)
}

// PairRepository resolves a user's partner; uuid.Nil when unpaired.
type PairRepository interface {
	GetPartnerID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// SlotServiceInterface defines the service contract
type SlotServiceInterface interface {
	ListSlots(ctx context.Context, ownerID uuid.UUID) (*dto.SlotListResponse, *errors.AppError)
	GetConflicts(ctx context.Context, ownerID uuid.UUID, date string) (*dto.ConflictResponse, *errors.AppError)
	GetSuggestions(ctx context.Context, ownerID uuid.UUID, parentMode bool, locale string) (*dto.SuggestionListResponse, *errors.AppError)
	AcceptSuggestion(ctx context.Context, ownerID uuid.UUID, req *dto.SuggestionActionRequest) (*dto.SlotResponse, *errors.AppError)
	DeferSuggestion(ctx context.Context, ownerID uuid.UUID, req *dto.SuggestionActionRequest) (*dto.SlotResponse, *errors.AppError)
	CreateSlot(ctx context.Context, ownerID uuid.UUID, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError)
	UpdateSlot(ctx context.Context, ownerID uuid.UUID, slotID string, req *dto.UpdateSlotRequest) (*dto.SlotResponse, *errors.AppError)
	DeleteSlot(ctx context.Context, ownerID uuid.UUID, slotID string) *errors.AppError
}

// SlotService loads both partners' latest snapshots from the collaborators and
// runs the pure engine over them.
type SlotService struct {
	store     SlotStore
	pairs     PairRepository
	importers []CalendarImporter
	energy    EnergySignal
	generator *SuggestionGenerator
	lifecycle *Lifecycle
	clock     clock.Clock

	boards sync.Map // uuid.UUID -> *Board
}

func NewSlotService(
	store SlotStore,
	pairs PairRepository,
	importers []CalendarImporter,
	energy EnergySignal,
	lifecycle *Lifecycle,
	clk clock.Clock,
) *SlotService {
	return &SlotService{
		store:     store,
		pairs:     pairs,
		importers: importers,
		energy:    energy,
		generator: NewSuggestionGenerator(),
		lifecycle: lifecycle,
		clock:     clk,
	}
}

func (s *SlotService) board(ownerID uuid.UUID) *Board {
	b, _ := s.boards.LoadOrStore(ownerID, &Board{})
	return b.(*Board)
}

// ListSlots returns the caller's normalized slots with conflict flags.
func (s *SlotService) ListSlots(ctx context.Context, ownerID uuid.UUID) (*dto.SlotListResponse, *errors.AppError) {
	slots, appErr := s.loadOwn(ctx, ownerID)
	if appErr != nil {
		return nil, appErr
	}

	conflicts := ConflictSet(slots)
	resp := &dto.SlotListResponse{
		Slots:     make([]dto.SlotResponse, 0, len(slots)),
		Conflicts: []string{},
	}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, dto.ToSlotResponse(slot, conflicts[slot.ID]))
		if conflicts[slot.ID] {
			resp.Conflicts = append(resp.Conflicts, slot.ID)
		}
	}
	return resp, nil
}

// GetConflicts returns the ids of the caller's overlapping slots on date.
func (s *SlotService) GetConflicts(ctx context.Context, ownerID uuid.UUID, date string) (*dto.ConflictResponse, *errors.AppError) {
	if !ValidDate(date) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD", nil)
	}

	slots, appErr := s.loadOwn(ctx, ownerID)
	if appErr != nil {
		return nil, appErr
	}

	return &dto.ConflictResponse{
		Date:    date,
		SlotIDs: DetectConflicts(slots, date),
	}, nil
}

// GetSuggestions recomputes the caller's suggestions from fresh snapshots.
func (s *SlotService) GetSuggestions(ctx context.Context, ownerID uuid.UUID, parentMode bool, locale string) (*dto.SuggestionListResponse, *errors.AppError) {
	board := s.board(ownerID)
	version := board.NextVersion()

	mine, appErr := s.loadOwn(ctx, ownerID)
	if appErr != nil {
		return nil, appErr
	}

	partnerID, err := s.pairs.GetPartnerID(ctx, ownerID)
	if err != nil {
		logger.Error("SlotService:GetSuggestions:GetPartnerID:Error", "owner_id", ownerID, "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load partner", err)
	}

	var partner []entity.TimeSlot
	if partnerID != uuid.Nil {
		partner, err = s.store.ListByOwner(ctx, partnerID)
		if err != nil {
			logger.Error("SlotService:GetSuggestions:ListPartner:Error", "partner_id", partnerID, "error", err)
			return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load partner slots", err)
		}
	}

	phase := s.currentPhase(ctx, ownerID)

	suggestions := s.generator.Generate(Snapshot{
		Mine:       mine,
		Partner:    partner,
		ParentMode: parentMode,
		Phase:      phase,
		Locale:     locale,
	})
	metrics.SuggestionsGenerated.Add(float64(len(suggestions)))

	result := &Result{Version: version, ComputedAt: s.clock.Now(), Suggestions: suggestions}
	published := board.Publish(result)
	if !published {
		logger.Info("SlotService:GetSuggestions:Superseded", "owner_id", ownerID, "version", version)
	}

	// The caller always gets the suggestions built from its own parameters;
	// another request may have published a result for a different mode or locale.
	resp := &dto.SuggestionListResponse{
		ParentMode:  parentMode,
		Version:     result.Version,
		Stale:       !published,
		Suggestions: dto.ToSuggestionResponses(result.Suggestions),
	}
	if partnerID != uuid.Nil {
		resp.PartnerID = partnerID.String()
	}
	if phase != nil {
		resp.EnergyPhase = string(*phase)
	}
	return resp, nil
}

func (s *SlotService) AcceptSuggestion(ctx context.Context, ownerID uuid.UUID, req *dto.SuggestionActionRequest) (*dto.SlotResponse, *errors.AppError) {
	slot, appErr := s.lifecycle.Accept(ctx, ownerID, req.ToSuggestion())
	if appErr != nil {
		return nil, appErr
	}
	resp := dto.ToSlotResponse(*slot, false)
	return &resp, nil
}

func (s *SlotService) DeferSuggestion(ctx context.Context, ownerID uuid.UUID, req *dto.SuggestionActionRequest) (*dto.SlotResponse, *errors.AppError) {
	slot, appErr := s.lifecycle.Defer(ctx, ownerID, req.ToSuggestion())
	if appErr != nil {
		return nil, appErr
	}
	resp := dto.ToSlotResponse(*slot, false)
	return &resp, nil
}

func (s *SlotService) CreateSlot(ctx context.Context, ownerID uuid.UUID, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	slot, appErr := s.lifecycle.Add(ctx, ownerID, req.Date, req.Start, req.End, req.Title)
	if appErr != nil {
		return nil, appErr
	}
	resp := dto.ToSlotResponse(*slot, false)
	return &resp, nil
}

func (s *SlotService) UpdateSlot(ctx context.Context, ownerID uuid.UUID, slotID string, req *dto.UpdateSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	target, appErr := s.resolve(ctx, ownerID, slotID)
	if appErr != nil {
		return nil, appErr
	}

	slot, appErr := s.lifecycle.Edit(ctx, ownerID, *target, req.ToSlotUpdate())
	if appErr != nil {
		return nil, appErr
	}
	resp := dto.ToSlotResponse(*slot, false)
	return &resp, nil
}

func (s *SlotService) DeleteSlot(ctx context.Context, ownerID uuid.UUID, slotID string) *errors.AppError {
	target, appErr := s.resolve(ctx, ownerID, slotID)
	if appErr != nil {
		return appErr
	}
	return s.lifecycle.Delete(ctx, ownerID, *target)
}

// resolve finds slotID among stored slots, then among the caller's imports so
// that mutations of imported events are rejected as read-only, not missing.
func (s *SlotService) resolve(ctx context.Context, ownerID uuid.UUID, slotID string) (*entity.TimeSlot, *errors.AppError) {
	slot, err := s.store.GetByID(ctx, slotID)
	if err != nil {
		logger.Error("SlotService:resolve:GetByID:Error", "slot_id", slotID, "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load slot", err)
	}
	if slot != nil {
		return slot, nil
	}

	for _, imported := range s.fetchImports(ctx, ownerID) {
		if imported.ID == slotID {
			return &imported, nil
		}
	}
	return nil, errors.NewAppError(errors.ErrNotFound, "Slot not found", nil)
}

func (s *SlotService) loadOwn(ctx context.Context, ownerID uuid.UUID) ([]entity.TimeSlot, *errors.AppError) {
	own, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("SlotService:loadOwn:ListByOwner:Error", "owner_id", ownerID, "error", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load slots", err)
	}
	return Normalize(own, s.fetchImports(ctx, ownerID)), nil
}

// fetchImports queries every importer concurrently and concatenates the
// batches in importer order.
func (s *SlotService) fetchImports(ctx context.Context, ownerID uuid.UUID) []entity.TimeSlot {
	if len(s.importers) == 0 {
		return nil
	}

	batches := make([][]entity.TimeSlot, len(s.importers))
	g, gctx := errgroup.WithContext(ctx)
	for i, imp := range s.importers {
		g.Go(func() error {
			batches[i] = imp.FetchUpcomingEvents(gctx, ownerID)
			return nil
		})
	}
	_ = g.Wait()

	var all []entity.TimeSlot
	for _, batch := range batches {
		all = append(all, batch...)
	}
	return all
}

func (s *SlotService) currentPhase(ctx context.Context, ownerID uuid.UUID) *entity.EnergyPhase {
	if s.energy == nil {
		return nil
	}
	phase, err := s.energy.FetchCurrentPhase(ctx, ownerID)
	if err != nil {
		logger.Warn("SlotService:currentPhase:Error", "owner_id", ownerID, "error", err)
		return nil
	}
	return phase
}
