package goal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

func baseProfile() domain.Profile {
	return domain.Profile{
		StartWeight:    80,
		WeightKg:       80,
		TargetWeightKg: 70,
		GoalWeeks:      10,
		GoalStartDate:  "2026-01-05",
	}
}

func TestProjectIdealPace(t *testing.T) {
	now := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	proj := Project(baseProfile(), now)

	require.Len(t, proj.Points, 11)
	assert.Equal(t, 80.0, proj.Points[0].Ideal)
	assert.Equal(t, 75.0, proj.Points[5].Ideal)
	assert.Equal(t, 70.0, proj.Points[10].Ideal)
	for _, p := range proj.Points {
		assert.Equal(t, 70.0, p.Target)
	}
}

func TestProjectPercentComplete(t *testing.T) {
	now := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)

	profile := baseProfile()
	profile.WeightKg = 75
	proj := Project(profile, now)
	assert.InDelta(t, 50, proj.Percent, 0.001)

	// Moving away from the goal clamps at zero instead of going negative.
	profile.WeightKg = 82
	proj = Project(profile, now)
	assert.Equal(t, 0.0, proj.Percent)
}

func TestProjectMaintenanceGoal(t *testing.T) {
	now := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	profile := baseProfile()
	profile.TargetWeightKg = 80

	proj := Project(profile, now)

	assert.True(t, proj.Maintenance)
	assert.Equal(t, 0.0, proj.Percent)
	for _, p := range proj.Points {
		assert.Equal(t, 80.0, p.Ideal)
	}
}

func TestProjectMatchesWeighInsToWeekWindows(t *testing.T) {
	now := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	profile := baseProfile()
	profile.WeightHistory = []domain.WeightLog{
		// Week 1 anchor is 2026-01-12; both fall inside the +/- 3 day window.
		{ID: "a", Date: "2026-01-10", Weight: 79.5},
		{ID: "b", Date: "2026-01-13", Weight: 79.0},
		// Far from any anchor window (week 2 anchor is 2026-01-19, week 3 is 2026-01-26).
		{ID: "c", Date: "2026-01-23", Weight: 78.2},
	}

	proj := Project(profile, now)

	// Week 0 has no log in window but history exists, so it anchors at start weight.
	require.NotNil(t, proj.Points[0].Actual)
	assert.Equal(t, 80.0, *proj.Points[0].Actual)

	// Latest log inside the window wins.
	require.NotNil(t, proj.Points[1].Actual)
	assert.Equal(t, 79.0, *proj.Points[1].Actual)

	assert.Nil(t, proj.Points[2].Actual)

	// 2026-01-23 is within 3 days of the week 3 anchor.
	require.NotNil(t, proj.Points[3].Actual)
	assert.Equal(t, 78.2, *proj.Points[3].Actual)
}

func TestProjectNoHistoryLeavesActualEmpty(t *testing.T) {
	now := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	proj := Project(baseProfile(), now)
	for _, p := range proj.Points {
		assert.Nil(t, p.Actual)
	}
}

func TestProjectDefaultsWeeksAndStartWeight(t *testing.T) {
	now := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	profile := domain.Profile{WeightKg: 90, TargetWeightKg: 84}

	proj := Project(profile, now)

	assert.Equal(t, 12, proj.Weeks)
	assert.Equal(t, 90.0, proj.StartWeight)
	require.Len(t, proj.Points, 13)
	assert.Equal(t, 84.0, proj.Points[12].Ideal)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		newW     float64
		prevW    float64
		start    float64
		target   float64
		expected Feedback
	}{
		{"reached within tolerance", 70.3, 72, 80, 70, FeedbackReached},
		{"losing and lost", 78, 79, 80, 70, FeedbackProgressing},
		{"gaining and gained", 82, 81, 80, 90, FeedbackProgressing},
		{"no change", 79, 79, 80, 70, FeedbackStalled},
		{"small regression", 79.8, 79, 80, 70, FeedbackRegressing},
		{"large regression", 81, 79, 80, 70, FeedbackRegressingBadly},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.newW, tc.prevW, tc.start, tc.target))
		})
	}
}
