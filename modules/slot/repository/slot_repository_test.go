package repository

import (
	"context"
	"testing"
	"time"

	"pairtime-api/core/clock"
	"pairtime-api/core/database"
	"pairtime-api/core/testutil"
	"pairtime-api/modules/slot/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.InitDB(database.DatabaseConfig{Driver: "sqlite3", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

var fixedNow = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

func TestSlotRepository_InsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository(newTestDB(t), clock.NewFixed(fixedNow))
	owner := uuid.New()
	other := uuid.New()

	late, err := repo.Insert(ctx, owner, "2025-01-15", "14:00", "15:00", "walk", entity.SlotKindMutual)
	require.NoError(t, err)
	early, err := repo.Insert(ctx, owner, "2025-01-15", "09:00", "10:00", "", entity.SlotKindBooked)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, other, "2025-01-15", "09:00", "10:00", "", entity.SlotKindMutual)
	require.NoError(t, err)

	slots, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, early.ID, slots[0].ID)
	assert.Equal(t, late.ID, slots[1].ID)
	assert.Equal(t, owner, slots[1].OwnerID)
	assert.Equal(t, "walk", slots[1].Title)
	assert.Equal(t, entity.SourceInternal, slots[1].SourceTag())
	assert.True(t, slots[1].Mutable())
}

func TestSlotRepository_GetByIDMissing(t *testing.T) {
	repo := NewSlotRepository(newTestDB(t), clock.NewFixed(fixedNow))

	slot, err := repo.GetByID(context.Background(), "google:nope")
	require.NoError(t, err)
	assert.Nil(t, slot)
}

func TestSlotRepository_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository(newTestDB(t), clock.NewFixed(fixedNow))
	owner := uuid.New()

	created, err := repo.Insert(ctx, owner, "2025-01-15", "09:00", "10:00", "coffee", entity.SlotKindMutual)
	require.NoError(t, err)

	kind := entity.SlotKindSuggested
	end := "11:00"
	updated, err := repo.Update(ctx, created.ID, entity.SlotUpdate{End: &end, Kind: &kind})
	require.NoError(t, err)
	assert.Equal(t, "09:00", updated.Start)
	assert.Equal(t, "11:00", updated.End)
	assert.Equal(t, "coffee", updated.Title)

	reloaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, entity.SlotKindSuggested, reloaded.Kind)
	assert.Equal(t, "11:00", reloaded.End)
}

func TestSlotRepository_UpdateMissing(t *testing.T) {
	repo := NewSlotRepository(newTestDB(t), clock.NewFixed(fixedNow))

	_, err := repo.Update(context.Background(), uuid.NewString(), entity.SlotUpdate{})
	assert.Error(t, err)
}

func TestSlotRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository(newTestDB(t), clock.NewFixed(fixedNow))
	owner := uuid.New()

	created, err := repo.Insert(ctx, owner, "2025-01-15", "09:00", "10:00", "", entity.SlotKindMutual)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, created.ID))

	slots, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestPairRepository_GetPartnerID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPairRepository(db)
	a, b := uuid.New(), uuid.New()

	partner, err := repo.GetPartnerID(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, partner)

	require.NoError(t, testutil.PairUsers(ctx, db, a, b, fixedNow))

	partner, err = repo.GetPartnerID(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, b, partner)

	partner, err = repo.GetPartnerID(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, a, partner)
}
