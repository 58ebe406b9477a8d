package srs

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/quizdeck/quizdeck-api/internal/domain"
)

// Quality bounds and the recall-success threshold for SM-2.
const (
	// MinQuality is the lowest accepted quality-of-recall score.
	MinQuality = 0

	// MaxQuality is the highest accepted quality-of-recall score.
	MaxQuality = 5

	// SuccessThreshold is the quality at or above which a recall is
	// judged successful.
	SuccessThreshold = 3

	// SecondIntervalDays is the fixed interval after the second
	// consecutive successful review.
	SecondIntervalDays = 6
)

// Common errors
var (
	// ErrInvalidQuality is returned when the quality score is outside
	// the closed range [0, 5]. This is a caller contract violation and
	// rejects the single event, never a whole batch.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")

	// ErrNilState is returned when the prior review state is nil.
	ErrNilState = errors.New("review state cannot be nil")
)

// Advance applies one review event to the given state and returns the
// resulting state. It follows the SM-2 recurrence exactly:
//
//   - quality >= 3 (successful recall): the interval becomes 1 day after
//     the first success, 6 days after the second, and round(interval*ease)
//     thereafter; repetitions increments; the ease factor moves by
//     0.1 - (5-q)*(0.08 + (5-q)*0.02) and is clamped at 1.3.
//   - quality < 3 (failed recall): repetitions resets to 0, the interval
//     resets to 1 day, and the ease factor is left unchanged.
//
// The next due date is reviewedAt plus the new interval in calendar days.
//
// Advance is deliberately not idempotent: it is a recurrence over the
// prior state, so applying the same event twice double-advances the
// schedule. Replay protection is the sync coordinator's responsibility.
//
// The input state is never mutated; a new instance is returned.
func Advance(state *domain.ReviewState, quality int, reviewedAt time.Time) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if quality < MinQuality || quality > MaxQuality {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}

	next := *state

	if quality >= SuccessThreshold {
		switch state.Repetitions {
		case 0:
			next.IntervalDays = 1
		case 1:
			next.IntervalDays = SecondIntervalDays
		default:
			next.IntervalDays = int(math.Round(float64(state.IntervalDays) * state.EaseFactor))
		}
		next.Repetitions = state.Repetitions + 1
		next.EaseFactor = nextEaseFactor(state.EaseFactor, quality)
	} else {
		next.Repetitions = 0
		next.IntervalDays = 1
	}

	next.LastReviewedAt = reviewedAt
	next.NextDueAt = reviewedAt.AddDate(0, 0, next.IntervalDays)
	next.UpdatedAt = reviewedAt

	return &next, nil
}

// nextEaseFactor applies the SM-2 ease adjustment for a successful recall
// and clamps the result at the 1.3 floor.
func nextEaseFactor(ease float64, quality int) float64 {
	q := float64(MaxQuality - quality)
	next := ease + (0.1 - q*(0.08+q*0.02))
	return math.Max(domain.MinEaseFactor, next)
}
