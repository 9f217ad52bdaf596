package records

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/repository"
)

func newTestService(repo repository.Records) *service {
	svc := NewService(repo).(*service)
	clock := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	seq := 0
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("rec-%d", seq)
	}
	return svc
}

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func TestSave_DefaultsTotalToRateTimesMinutes(t *testing.T) {
	svc := newTestService(NewMemoryRepository())
	ctx := context.Background()

	rec, err := svc.Save(ctx, domain.RecordDraft{MonsterName: "  Cave Troll ", Minutes: 30}, 600)
	require.NoError(t, err)

	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, "Cave Troll", rec.MonsterName)
	assert.Equal(t, int64(18000), rec.TotalExp)
	assert.False(t, rec.TotalExpManual)
	assert.Equal(t, rec.SavedAt, rec.UpdatedAt)
}

func TestSave_RoundsFractionalTotal(t *testing.T) {
	svc := newTestService(NewMemoryRepository())

	rec, err := svc.Save(context.Background(), domain.RecordDraft{MonsterName: "Slime", Minutes: 2.5}, 33.3)
	require.NoError(t, err)
	assert.Equal(t, int64(83), rec.TotalExp)
}

func TestSave_OverrideTakesPrecedence(t *testing.T) {
	svc := newTestService(NewMemoryRepository())

	rec, err := svc.Save(context.Background(), domain.RecordDraft{
		MonsterName:      "Slime",
		Minutes:          10,
		TotalExpOverride: int64Ptr(12345),
	}, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), rec.TotalExp)
	assert.True(t, rec.TotalExpManual)
}

func TestSave_InvalidDrafts(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.RecordDraft
		rate  float64
	}{
		{"empty name", domain.RecordDraft{MonsterName: "   ", Minutes: 10}, 1},
		{"control chars", domain.RecordDraft{MonsterName: "Orc\nWarrior", Minutes: 10}, 1},
		{"zero minutes", domain.RecordDraft{MonsterName: "Orc", Minutes: 0}, 1},
		{"over a week", domain.RecordDraft{MonsterName: "Orc", Minutes: 10081}, 1},
		{"negative override", domain.RecordDraft{MonsterName: "Orc", Minutes: 1, TotalExpOverride: int64Ptr(-1)}, 1},
		{"negative rate", domain.RecordDraft{MonsterName: "Orc", Minutes: 1}, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := newTestService(repo)

			_, err := svc.Save(context.Background(), tt.draft, tt.rate)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			repo.AssertNotCalled(t, "CreateRecord", mock.Anything, mock.Anything)
		})
	}
}

func TestSave_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CreateRecord", mock.Anything, mock.AnythingOfType("*domain.SavedExpRecord")).Return(errors.New("disk full"))
	svc := newTestService(repo)

	_, err := svc.Save(context.Background(), domain.RecordDraft{MonsterName: "Orc", Minutes: 1}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgSaveFailed)
	repo.AssertExpectations(t)
}

func TestUpdate_ManualTotalSurvivesEdits(t *testing.T) {
	svc := newTestService(NewMemoryRepository())
	ctx := context.Background()

	rec, err := svc.Save(ctx, domain.RecordDraft{MonsterName: "Orc", Minutes: 10, TotalExpOverride: int64Ptr(999)}, 100)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, rec.ID, domain.RecordDraft{MonsterName: "Orc Chief", Minutes: 20})
	require.NoError(t, err)
	assert.Equal(t, rec.ID, updated.ID)
	assert.Equal(t, "Orc Chief", updated.MonsterName)
	assert.Equal(t, int64(999), updated.TotalExp)
	assert.True(t, updated.TotalExpManual)
	assert.True(t, updated.UpdatedAt.After(updated.SavedAt))

	reset, err := svc.ResetTotal(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), reset.TotalExp)
	assert.False(t, reset.TotalExpManual)

	stored, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, *reset, *stored)
}

func TestUpdate_AutomaticTotalFollowsInputs(t *testing.T) {
	svc := newTestService(NewMemoryRepository())
	ctx := context.Background()

	rec, err := svc.Save(ctx, domain.RecordDraft{MonsterName: "Orc", Minutes: 10}, 100)
	require.NoError(t, err)
	require.Equal(t, int64(1000), rec.TotalExp)

	updated, err := svc.Update(ctx, rec.ID, domain.RecordDraft{MonsterName: "Orc", Minutes: 15, ExpPerMinute: float64Ptr(200)})
	require.NoError(t, err)
	assert.Equal(t, int64(3000), updated.TotalExp)
	assert.False(t, updated.TotalExpManual)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *updated, list[0])
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService(NewMemoryRepository())

	_, err := svc.Update(context.Background(), "missing", domain.RecordDraft{MonsterName: "Orc", Minutes: 1})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestDelete(t *testing.T) {
	svc := newTestService(NewMemoryRepository())
	ctx := context.Background()

	rec, err := svc.Save(ctx, domain.RecordDraft{MonsterName: "Orc", Minutes: 1}, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rec.ID))
	_, err = svc.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, rec.ID), domain.ErrRecordNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, ""), domain.ErrInvalidInput)
}

func TestList_NewestFirst(t *testing.T) {
	svc := newTestService(NewMemoryRepository())
	ctx := context.Background()

	for _, name := range []string{"Slime", "Orc", "Dragon"} {
		_, err := svc.Save(ctx, domain.RecordDraft{MonsterName: name, Minutes: 1}, 1)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Dragon", list[0].MonsterName)
	assert.Equal(t, "Orc", list[1].MonsterName)
	assert.Equal(t, "Slime", list[2].MonsterName)
}

func TestAutoTotal(t *testing.T) {
	assert.Equal(t, int64(0), AutoTotal(0, 60))
	assert.Equal(t, int64(36000), AutoTotal(600, 60))
	assert.Equal(t, int64(2), AutoTotal(1.5, 1))
}
