package workout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

func TestRankOrderedByScore(t *testing.T) {
	profile := domain.Profile{WeightKg: 80, TargetWeightKg: 70, ExerciseDays: 3}

	ranked := Rank(profile)

	require.NotEmpty(t, ranked)
	require.LessOrEqual(t, len(ranked), 5)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
	// Weight loss puts the cardio HIIT routine on top with a goal reason.
	assert.Equal(t, "meta_burn", ranked[0].Routine.ID)
	assert.Equal(t, ReasonGoal, ranked[0].Reason)
}

func TestRankMuscleGainFavorsStrength(t *testing.T) {
	profile := domain.Profile{WeightKg: 70, TargetWeightKg: 78, ExerciseDays: 3}

	ranked := Rank(profile)

	require.NotEmpty(t, ranked)
	assert.Equal(t, 5, ranked[0].Score)
	assert.Contains(t, []string{"gladiator", "leg_day"}, ranked[0].Routine.ID)
	// Stable sort keeps catalog order between the two strength routines.
	assert.Equal(t, "gladiator", ranked[0].Routine.ID)
	assert.Equal(t, "leg_day", ranked[1].Routine.ID)
}

func TestRankMaintenanceFavorsTone(t *testing.T) {
	profile := domain.Profile{WeightKg: 70, TargetWeightKg: 70, ExerciseDays: 3}

	ranked := Rank(profile)

	require.NotEmpty(t, ranked)
	assert.Equal(t, ReasonGoal, ranked[0].Reason)
	assert.Contains(t, ranked[0].Routine.Tags, "tone")
}

func TestRankBeginnerBoost(t *testing.T) {
	profile := domain.Profile{WeightKg: 70, TargetWeightKg: 70, ExerciseDays: 1}

	ranked := Rank(profile)

	// power_10 carries both tone (+5) and beginner (+5).
	assert.Equal(t, "power_10", ranked[0].Routine.ID)
	assert.Equal(t, 10, ranked[0].Score)
	// Goal reason outranks the level reason when both apply.
	assert.Equal(t, ReasonGoal, ranked[0].Reason)
}

func TestRankFrequentExerciserLevelBoost(t *testing.T) {
	profile := domain.Profile{WeightKg: 70, TargetWeightKg: 78, ExerciseDays: 6}

	ranked := Rank(profile)

	var metaBurn *Scored
	for i := range ranked {
		if ranked[i].Routine.ID == "meta_burn" {
			metaBurn = &ranked[i]
		}
	}
	require.NotNil(t, metaBurn)
	assert.Equal(t, 3, metaBurn.Score)
	assert.Equal(t, ReasonLevel, metaBurn.Reason)
}

func TestSelectRotatesByDay(t *testing.T) {
	profile := domain.Profile{WeightKg: 80, TargetWeightKg: 70, ExerciseDays: 3}
	ranked := Rank(profile)
	require.Len(t, ranked, 5)

	day1 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	first, ok := Select(ranked, day1, 0)
	require.True(t, ok)
	second, ok := Select(ranked, day2, 0)
	require.True(t, ok)
	assert.NotEqual(t, first.Routine.ID, second.Routine.ID)

	// A full shuffle cycle comes back to the same routine.
	again, ok := Select(ranked, day1, len(ranked))
	require.True(t, ok)
	assert.Equal(t, first.Routine.ID, again.Routine.ID)
}

func TestSelectEmpty(t *testing.T) {
	_, ok := Select(nil, time.Now(), 0)
	assert.False(t, ok)
}
