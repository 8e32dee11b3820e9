package service

import (
	"context"
	stderrors "errors"
	"regexp"
	"strings"

	"pairtime-api/core/cache"
	"pairtime-api/core/clock"
	"pairtime-api/core/constants"
	"pairtime-api/core/errors"
	"pairtime-api/core/logger"
	"pairtime-api/modules/energy/dto"
	"pairtime-api/modules/energy/entity"
	"pairtime-api/modules/energy/repository"
	slotEntity "pairtime-api/modules/slot/entity"

	"github.com/google/uuid"
)

// noPhase caches the absence of a reading so unpaired lookups stay off the database.
const noPhase = "-"

var phasePattern = regexp.MustCompile(`^[a-z][a-z_]{0,31}$`)

type EnergyServiceInterface interface {
	FetchCurrentPhase(ctx context.Context, userID uuid.UUID) (*slotEntity.EnergyPhase, error)
	GetCurrentPhase(ctx context.Context, userID uuid.UUID) (*dto.EnergyPhaseResponse, *errors.AppError)
	RecordPhase(ctx context.Context, userID uuid.UUID, req *dto.RecordPhaseRequest) (*dto.EnergyPhaseResponse, *errors.AppError)
}

type EnergyService struct {
	repo  repository.EnergyRepository
	cache cache.Cache
	clock clock.Clock
}

func NewEnergyService(repo repository.EnergyRepository, c cache.Cache, clk clock.Clock) *EnergyService {
	return &EnergyService{repo: repo, cache: c, clock: clk}
}

func cacheKey(userID uuid.UUID) string {
	return constants.RedisKeyEnergyPhase + userID.String()
}

// FetchCurrentPhase returns nil when the user has no reading. Cache errors
// fall through to the database.
func (s *EnergyService) FetchCurrentPhase(ctx context.Context, userID uuid.UUID) (*slotEntity.EnergyPhase, error) {
	if s.cache != nil {
		val, err := s.cache.Get(ctx, cacheKey(userID))
		switch {
		case err == nil:
			if val == noPhase {
				return nil, nil
			}
			phase := slotEntity.EnergyPhase(val)
			return &phase, nil
		case !stderrors.Is(err, cache.ErrCacheMiss):
			logger.Warn("EnergyService:FetchCurrentPhase:Cache:Error", "user_id", userID, "error", err)
		}
	}

	reading, err := s.repo.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}

	cached := noPhase
	if reading != nil {
		cached = reading.Phase
	}
	s.store(ctx, userID, cached)

	if reading == nil {
		return nil, nil
	}
	phase := slotEntity.EnergyPhase(reading.Phase)
	return &phase, nil
}

func (s *EnergyService) GetCurrentPhase(ctx context.Context, userID uuid.UUID) (*dto.EnergyPhaseResponse, *errors.AppError) {
	reading, err := s.repo.Latest(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load energy phase", err)
	}
	if reading == nil {
		return &dto.EnergyPhaseResponse{}, nil
	}
	return &dto.EnergyPhaseResponse{Phase: reading.Phase, RecordedAt: &reading.RecordedAt}, nil
}

// RecordPhase stores a new reading and refreshes the cache. Phase names
// outside peak, low and recovery are kept; scoring treats them as all-day.
func (s *EnergyService) RecordPhase(ctx context.Context, userID uuid.UUID, req *dto.RecordPhaseRequest) (*dto.EnergyPhaseResponse, *errors.AppError) {
	phase := strings.ToLower(strings.TrimSpace(req.Phase))
	if !phasePattern.MatchString(phase) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid energy phase", nil)
	}

	reading := &entity.EnergyReading{
		ID:         uuid.New(),
		UserID:     userID,
		Phase:      phase,
		RecordedAt: s.clock.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, reading); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save energy phase", err)
	}
	s.store(ctx, userID, phase)

	logger.Info("EnergyService:RecordPhase:Success", "user_id", userID, "phase", phase)
	return &dto.EnergyPhaseResponse{Phase: phase, RecordedAt: &reading.RecordedAt}, nil
}

func (s *EnergyService) store(ctx context.Context, userID uuid.UUID, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(userID), value, constants.EnergyPhaseCacheTTL); err != nil {
		logger.Warn("EnergyService:store:Cache:Error", "user_id", userID, "error", err)
	}
}
