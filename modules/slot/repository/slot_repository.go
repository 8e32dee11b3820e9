package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"pairtime-api/core/clock"
	"pairtime-api/core/database"
	"pairtime-api/core/logger"
	"pairtime-api/modules/slot/entity"

	"github.com/google/uuid"
)

// SlotRepository handles time_slots persistence
type SlotRepository struct {
	DB    database.IDatabase
	clock clock.Clock
}

// NewSlotRepository creates a new repository instance
func NewSlotRepository(db database.IDatabase, clk clock.Clock) *SlotRepository {
	return &SlotRepository{DB: db, clock: clk}
}

const slotColumns = `id, owner_id, slot_date, start_time, end_time, kind, title, created_at, updated_at`

func (r *SlotRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.TimeSlot, error) {
	query := r.DB.Rebind(`
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE owner_id = ?
		ORDER BY slot_date, start_time, created_at
	`)

	var records []entity.SlotRecord
	if err := r.DB.SelectContext(ctx, &records, query, ownerID.String()); err != nil {
		logger.Error("SlotRepository:ListByOwner", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("list slots: %w", err)
	}

	slots := make([]entity.TimeSlot, 0, len(records))
	for _, rec := range records {
		slots = append(slots, rec.ToTimeSlot())
	}
	return slots, nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id string) (*entity.TimeSlot, error) {
	query := r.DB.Rebind(`SELECT ` + slotColumns + ` FROM time_slots WHERE id = ?`)

	var rec entity.SlotRecord
	if err := r.DB.GetContext(ctx, &rec, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("SlotRepository:GetByID", "slot_id", id, "error", err)
		return nil, fmt.Errorf("get slot: %w", err)
	}

	slot := rec.ToTimeSlot()
	return &slot, nil
}

func (r *SlotRepository) Insert(ctx context.Context, ownerID uuid.UUID, date, start, end, title string, kind entity.SlotKind) (*entity.TimeSlot, error) {
	now := r.clock.Now().UTC()
	rec := entity.SlotRecord{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Date:      date,
		Start:     start,
		End:       end,
		Kind:      kind,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO time_slots (id, owner_id, slot_date, start_time, end_time, kind, title, created_at, updated_at)
		VALUES (:id, :owner_id, :slot_date, :start_time, :end_time, :kind, :title, :created_at, :updated_at)
	`
	if _, err := r.DB.NamedExecContext(ctx, query, rec); err != nil {
		logger.Error("SlotRepository:Insert", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("insert slot: %w", err)
	}

	slot := rec.ToTimeSlot()
	return &slot, nil
}

func (r *SlotRepository) Update(ctx context.Context, id string, update entity.SlotUpdate) (*entity.TimeSlot, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("update slot %s: %w", id, sql.ErrNoRows)
	}

	if update.Date != nil {
		current.Date = *update.Date
	}
	if update.Start != nil {
		current.Start = *update.Start
	}
	if update.End != nil {
		current.End = *update.End
	}
	if update.Title != nil {
		current.Title = *update.Title
	}
	if update.Kind != nil {
		current.Kind = *update.Kind
	}

	query := r.DB.Rebind(`
		UPDATE time_slots
		SET slot_date = ?, start_time = ?, end_time = ?, kind = ?, title = ?, updated_at = ?
		WHERE id = ?
	`)
	err = r.DB.ExecContext(ctx, query,
		current.Date, current.Start, current.End, string(current.Kind), current.Title,
		r.clock.Now().UTC(), id)
	if err != nil {
		logger.Error("SlotRepository:Update", "slot_id", id, "error", err)
		return nil, fmt.Errorf("update slot: %w", err)
	}

	return current, nil
}

func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	query := r.DB.Rebind(`DELETE FROM time_slots WHERE id = ?`)
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("SlotRepository:Delete", "slot_id", id, "error", err)
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}
