package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/records"
)

func newRecord(name string, savedAt time.Time) *domain.SavedExpRecord {
	return &domain.SavedExpRecord{
		ID:           uuid.New().String(),
		MonsterName:  name,
		Minutes:      30,
		ExpPerMinute: 600,
		TotalExp:     18000,
		SavedAt:      savedAt,
		UpdatedAt:    savedAt,
	}
}

func TestRecordRepository_CRUD(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewRecordRepository(pool)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	rec := newRecord("Cave Troll", base)
	require.NoError(t, repo.CreateRecord(ctx, rec))

	got, err := repo.GetRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, *rec, *got)

	rec.TotalExp = 999
	rec.TotalExpManual = true
	rec.UpdatedAt = base.Add(time.Minute)
	require.NoError(t, repo.UpdateRecord(ctx, rec))

	got, err = repo.GetRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(999), got.TotalExp)
	assert.True(t, got.TotalExpManual)
	assert.Equal(t, base, got.SavedAt)

	require.NoError(t, repo.DeleteRecord(ctx, rec.ID))
	_, err = repo.GetRecord(ctx, rec.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.ErrorIs(t, repo.DeleteRecord(ctx, rec.ID), domain.ErrRecordNotFound)
}

func TestRecordRepository_MissingAndMalformedIDs(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewRecordRepository(pool)
	ctx := context.Background()

	_, err := repo.GetRecord(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	_, err = repo.GetRecord(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	assert.ErrorIs(t, repo.UpdateRecord(ctx, newRecord("Ghost", time.Now().UTC())), domain.ErrRecordNotFound)
}

func TestRecordRepository_DuplicateID(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewRecordRepository(pool)
	ctx := context.Background()

	rec := newRecord("Slime", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, repo.CreateRecord(ctx, rec))
	assert.ErrorIs(t, repo.CreateRecord(ctx, rec), domain.ErrInvalidInput)
}

func TestRecordRepository_ListNewestFirst(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewRecordRepository(pool)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"Slime", "Orc", "Dragon"} {
		require.NoError(t, repo.CreateRecord(ctx, newRecord(name, base.Add(time.Duration(i)*time.Minute))))
	}

	list, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Dragon", "Orc", "Slime"},
		[]string{list[0].MonsterName, list[1].MonsterName, list[2].MonsterName})
}

func TestRecordService_OnPostgres(t *testing.T) {
	pool := setupTestPool(t)
	svc := records.NewService(NewRecordRepository(pool))
	ctx := context.Background()

	rec, err := svc.Save(ctx, domain.RecordDraft{MonsterName: "Orc", Minutes: 10}, 120)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), rec.TotalExp)

	override := int64(5000)
	rec, err = svc.Update(ctx, rec.ID, domain.RecordDraft{MonsterName: "Orc", Minutes: 10, TotalExpOverride: &override})
	require.NoError(t, err)
	assert.True(t, rec.TotalExpManual)

	rec, err = svc.ResetTotal(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), rec.TotalExp)
	assert.False(t, rec.TotalExpManual)
}
