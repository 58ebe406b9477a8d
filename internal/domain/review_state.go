package domain

import (
	"errors"
	"time"
)

// Default scheduling values for a card a learner has never reviewed.
const (
	// DefaultEaseFactor is the ease factor assigned on first review.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the lower bound the ease factor is clamped to.
	MinEaseFactor = 1.3

	// DefaultIntervalDays is the interval assigned on first review.
	DefaultIntervalDays = 1
)

// Common validation errors for ReviewState
var (
	ErrStateLearnerIDEmpty = errors.New("review state learner ID cannot be empty")
	ErrStateCardIDEmpty    = errors.New("review state card ID cannot be empty")
	ErrStateInvalidEase    = errors.New("ease factor must be at least 1.3")
	ErrStateInvalidInterval = errors.New(
		"interval must be at least 1 day",
	)
	ErrStateInvalidRepetitions = errors.New("repetitions cannot be negative")
)

// ReviewState is the per-(learner, card) spaced-repetition cursor.
// Exactly one ReviewState exists per (learner, card) pair; it is created
// lazily on the learner's first review of the card and mutated only by
// the sync coordinator applying the SM-2 scheduler.
type ReviewState struct {
	LearnerID      int64     `json:"learner_id"`
	CardID         int64     `json:"card_id"`
	EaseFactor     float64   `json:"ease_factor"`
	IntervalDays   int       `json:"interval_days"`
	Repetitions    int       `json:"repetitions"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	NextDueAt      time.Time `json:"next_due_at"`
	LastSyncedAt   time.Time `json:"last_synced_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewReviewState creates the initial review state for a (learner, card)
// pair: ease factor 2.5, a one-day interval, zero repetitions, and due
// immediately so the first review is never blocked on the schedule.
func NewReviewState(learnerID, cardID int64) (*ReviewState, error) {
	now := time.Now().UTC()
	state := &ReviewState{
		LearnerID:    learnerID,
		CardID:       cardID,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: DefaultIntervalDays,
		Repetitions:  0,
		NextDueAt:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the ReviewState has valid data.
// Returns an error if any field fails validation.
func (s *ReviewState) Validate() error {
	if s.LearnerID == 0 {
		return ErrStateLearnerIDEmpty
	}

	if s.CardID == 0 {
		return ErrStateCardIDEmpty
	}

	if s.EaseFactor < MinEaseFactor {
		return ErrStateInvalidEase
	}

	if s.IntervalDays < 1 {
		return ErrStateInvalidInterval
	}

	if s.Repetitions < 0 {
		return ErrStateInvalidRepetitions
	}

	return nil
}

// Due reports whether the card this state tracks is due at the given time.
func (s *ReviewState) Due(now time.Time) bool {
	return !s.NextDueAt.After(now)
}

// Progress summarizes a learner's review states for read-only reporting
// consumers (dashboards, analytics). It is derived data, never stored.
type Progress struct {
	LearnerID    int64   `json:"learner_id"`
	TrackedCards int     `json:"tracked_cards"`
	DueNow       int     `json:"due_now"`
	AverageEase  float64 `json:"average_ease"`
	TotalReviews int     `json:"total_reviews"`
}
