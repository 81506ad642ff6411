package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadUnknownUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPutAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profile := domain.Profile{Name: "Ana", WeightKg: 68.5, Currency: "GTQ"}
	history := []domain.HistoryItem{{ID: "1", Timestamp: 1700000000000, Analysis: domain.Analysis{Food: "Pepian", Calories: domain.Calories{Total: 650}}}}
	exercises := []domain.ExerciseLog{{ID: "e1", DateString: "2026-03-09", Type: "Running", Amount: 30, Unit: "min"}}
	water := domain.WaterLog{Date: "2026-03-09", Count: 4}

	require.NoError(t, s.PutProfile(ctx, "u1", profile))
	require.NoError(t, s.PutHistory(ctx, "u1", history))
	require.NoError(t, s.PutExerciseHistory(ctx, "u1", exercises))
	require.NoError(t, s.PutWaterLog(ctx, "u1", water))

	data, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, profile, data.Profile)
	assert.Equal(t, history, data.History)
	assert.Equal(t, exercises, data.ExerciseHistory)
	assert.Equal(t, water, data.WaterLog)
}

func TestPutOverwritesSection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutWaterLog(ctx, "u1", domain.WaterLog{Date: "2026-03-09", Count: 2}))
	require.NoError(t, s.PutWaterLog(ctx, "u1", domain.WaterLog{Date: "2026-03-09", Count: 5}))

	data, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, data.WaterLog.Count)
}

func TestSectionsAreIndependentPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProfile(ctx, "u1", domain.Profile{Name: "Ana"}))
	require.NoError(t, s.PutProfile(ctx, "u2", domain.Profile{Name: "Luis"}))

	d1, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	d2, err := s.Load(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Ana", d1.Profile.Name)
	assert.Equal(t, "Luis", d2.Profile.Name)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProfile(ctx, "u1", domain.Profile{Name: "Ana"}))
	require.NoError(t, s.Delete(ctx, "u1"))

	_, err := s.Load(ctx, "u1")
	assert.True(t, errors.Is(err, ErrNotFound))
}
