package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"pairtime-api/core/database"
	"pairtime-api/core/logger"

	"github.com/google/uuid"
)

// PairRepository reads the pairing table maintained by the account service.
type PairRepository struct {
	DB database.IDatabase
}

func NewPairRepository(db database.IDatabase) *PairRepository {
	return &PairRepository{DB: db}
}

// GetPartnerID returns uuid.Nil when userID is not paired.
func (r *PairRepository) GetPartnerID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	query := r.DB.Rebind(`SELECT partner_id FROM pairs WHERE user_id = ?`)

	var partner string
	if err := r.DB.GetContext(ctx, &partner, query, userID.String()); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, nil
		}
		logger.Error("PairRepository:GetPartnerID", "user_id", userID, "error", err)
		return uuid.Nil, fmt.Errorf("get partner: %w", err)
	}

	id, err := uuid.Parse(partner)
	if err != nil {
		return uuid.Nil, fmt.Errorf("partner id %q: %w", partner, err)
	}
	return id, nil
}
