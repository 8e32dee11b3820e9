package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"pairtime-api/core/database"
	"pairtime-api/core/logger"
	"pairtime-api/modules/energy/entity"

	"github.com/google/uuid"
)

type EnergyRepository interface {
	Insert(ctx context.Context, reading *entity.EnergyReading) error
	// Latest returns nil, nil when the user never reported a phase.
	Latest(ctx context.Context, userID uuid.UUID) (*entity.EnergyReading, error)
}

type energyRepository struct {
	db database.IDatabase
}

func NewEnergyRepository(db database.IDatabase) EnergyRepository {
	return &energyRepository{db: db}
}

func (r *energyRepository) Insert(ctx context.Context, reading *entity.EnergyReading) error {
	query := `
		INSERT INTO energy_phases (id, user_id, phase, recorded_at)
		VALUES (:id, :user_id, :phase, :recorded_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, reading); err != nil {
		logger.Error("EnergyRepository:Insert", "user_id", reading.UserID, "error", err)
		return fmt.Errorf("insert energy phase: %w", err)
	}
	return nil
}

func (r *energyRepository) Latest(ctx context.Context, userID uuid.UUID) (*entity.EnergyReading, error) {
	query := r.db.Rebind(`
		SELECT id, user_id, phase, recorded_at
		FROM energy_phases
		WHERE user_id = ?
		ORDER BY recorded_at DESC
		LIMIT 1
	`)

	var reading entity.EnergyReading
	if err := r.db.GetContext(ctx, &reading, query, userID.String()); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EnergyRepository:Latest", "user_id", userID, "error", err)
		return nil, fmt.Errorf("latest energy phase: %w", err)
	}
	return &reading, nil
}
