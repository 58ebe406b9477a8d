package srs_test

import (
	"testing"
	"time"

	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/domain/srs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshState(t *testing.T) *domain.ReviewState {
	t.Helper()
	state, err := domain.NewReviewState(1, 100)
	require.NoError(t, err)
	return state
}

func TestAdvanceFirstSuccessfulReview(t *testing.T) {
	t.Parallel()

	reviewedAt := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for quality := srs.SuccessThreshold; quality <= srs.MaxQuality; quality++ {
		state := freshState(t)

		next, err := srs.Advance(state, quality, reviewedAt)
		require.NoError(t, err)

		assert.Equal(t, 1, next.IntervalDays, "quality %d", quality)
		assert.Equal(t, 1, next.Repetitions, "quality %d", quality)
		assert.Equal(t, reviewedAt, next.LastReviewedAt)
		assert.Equal(t, reviewedAt.AddDate(0, 0, 1), next.NextDueAt)
	}
}

func TestAdvanceSecondSuccessfulReview(t *testing.T) {
	t.Parallel()

	reviewedAt := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)

	for quality := srs.SuccessThreshold; quality <= srs.MaxQuality; quality++ {
		state := freshState(t)
		state.Repetitions = 1

		next, err := srs.Advance(state, quality, reviewedAt)
		require.NoError(t, err)

		assert.Equal(t, 6, next.IntervalDays, "quality %d", quality)
		assert.Equal(t, 2, next.Repetitions, "quality %d", quality)
		assert.Equal(t, reviewedAt.AddDate(0, 0, 6), next.NextDueAt)
	}
}

func TestAdvanceMatureCardMultipliesIntervalByEase(t *testing.T) {
	t.Parallel()

	reviewedAt := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)

	state := freshState(t)
	state.Repetitions = 2
	state.IntervalDays = 6
	state.EaseFactor = 2.5

	next, err := srs.Advance(state, 5, reviewedAt)
	require.NoError(t, err)

	// round(6 * 2.5) = 15
	assert.Equal(t, 15, next.IntervalDays)
	assert.Equal(t, 3, next.Repetitions)
	assert.InDelta(t, 2.6, next.EaseFactor, 1e-9)
	assert.Equal(t, reviewedAt.AddDate(0, 0, 15), next.NextDueAt)
}

func TestAdvanceFailedRecallResetsScheduleButNotEase(t *testing.T) {
	t.Parallel()

	reviewedAt := time.Date(2025, 3, 13, 8, 0, 0, 0, time.UTC)

	for quality := srs.MinQuality; quality < srs.SuccessThreshold; quality++ {
		state := freshState(t)
		state.Repetitions = 7
		state.IntervalDays = 120
		state.EaseFactor = 2.1

		next, err := srs.Advance(state, quality, reviewedAt)
		require.NoError(t, err)

		assert.Equal(t, 0, next.Repetitions, "quality %d", quality)
		assert.Equal(t, 1, next.IntervalDays, "quality %d", quality)
		assert.InDelta(t, 2.1, next.EaseFactor, 1e-9, "ease must be untouched on failure")
		assert.Equal(t, reviewedAt.AddDate(0, 0, 1), next.NextDueAt)
	}
}

func TestAdvanceEaseFactorAdjustments(t *testing.T) {
	t.Parallel()

	reviewedAt := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		ease     float64
		quality  int
		wantEase float64
	}{
		{name: "quality 5 gains a tenth", ease: 2.5, quality: 5, wantEase: 2.6},
		{name: "quality 4 is neutral", ease: 2.5, quality: 4, wantEase: 2.5},
		{name: "quality 3 loses", ease: 2.5, quality: 3, wantEase: 2.36},
		{name: "clamped at floor", ease: 1.3, quality: 3, wantEase: 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := freshState(t)
			state.EaseFactor = tt.ease

			next, err := srs.Advance(state, tt.quality, reviewedAt)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantEase, next.EaseFactor, 1e-9)
		})
	}
}

func TestAdvanceEaseNeverBelowFloor(t *testing.T) {
	t.Parallel()

	state := freshState(t)
	reviewedAt := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)

	// Grind the ease down with the harshest passing grade for a long
	// sequence; the floor must hold throughout.
	for i := 0; i < 100; i++ {
		next, err := srs.Advance(state, srs.SuccessThreshold, reviewedAt)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, next.EaseFactor, domain.MinEaseFactor)
		state = next
		reviewedAt = next.NextDueAt
	}
}

func TestAdvanceRejectsOutOfRangeQuality(t *testing.T) {
	t.Parallel()

	state := freshState(t)
	reviewedAt := time.Now().UTC()

	for _, quality := range []int{-1, 6, 42} {
		next, err := srs.Advance(state, quality, reviewedAt)
		assert.Nil(t, next, "quality %d", quality)
		assert.ErrorIs(t, err, srs.ErrInvalidQuality, "quality %d", quality)
	}
}

func TestAdvanceNilState(t *testing.T) {
	t.Parallel()

	next, err := srs.Advance(nil, 4, time.Now().UTC())
	assert.Nil(t, next)
	assert.ErrorIs(t, err, srs.ErrNilState)
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	state := freshState(t)
	before := *state

	_, err := srs.Advance(state, 5, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, before, *state)
}

// TestAdvanceThreeReviewScenario walks a fresh card through two
// successful reviews and a lapse, checking the full trajectory.
func TestAdvanceThreeReviewScenario(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	state := freshState(t)

	first, err := srs.Advance(state, 4, day1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Repetitions)
	assert.Equal(t, 1, first.IntervalDays)
	assert.InDelta(t, 2.5, first.EaseFactor, 1e-9)

	second, err := srs.Advance(first, 4, first.NextDueAt)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Repetitions)
	assert.Equal(t, 6, second.IntervalDays)
	assert.InDelta(t, 2.5, second.EaseFactor, 1e-9)

	third, err := srs.Advance(second, 2, second.NextDueAt)
	require.NoError(t, err)
	assert.Equal(t, 0, third.Repetitions)
	assert.Equal(t, 1, third.IntervalDays)
	assert.InDelta(t, second.EaseFactor, third.EaseFactor, 1e-9,
		"failed recall must leave ease unchanged")
}

// TestAdvanceReplayIsNotIdempotent documents the recurrence property the
// sync coordinator has to guard against: replaying an event against the
// already-advanced state diverges from applying it once.
func TestAdvanceReplayIsNotIdempotent(t *testing.T) {
	t.Parallel()

	reviewedAt := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)

	state := freshState(t)
	once, err := srs.Advance(state, 5, reviewedAt)
	require.NoError(t, err)

	twice, err := srs.Advance(once, 5, reviewedAt)
	require.NoError(t, err)

	assert.NotEqual(t, once.Repetitions, twice.Repetitions)
	assert.NotEqual(t, once.IntervalDays, twice.IntervalDays)
}
