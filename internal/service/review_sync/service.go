// Package review_sync applies batches of offline-recorded review events
// to learners' spaced-repetition schedules. Events are applied strictly
// in submission order because the SM-2 recurrence makes each event
// depend on the state its predecessor produced.
package review_sync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Per-event failure reasons reported in the sync result.
const (
	ReasonCardNotFound   = "card_not_found"
	ReasonInvalidQuality = "invalid_quality"
)

// EventStatus is the per-event outcome of a sync batch.
type EventStatus string

// Possible event statuses
const (
	// StatusSynced means the event advanced the schedule.
	StatusSynced EventStatus = "synced"

	// StatusDuplicate means the event carried a review token that was
	// already applied; the schedule was left untouched.
	StatusDuplicate EventStatus = "duplicate"

	// StatusFailed means the event was rejected; Reason says why.
	StatusFailed EventStatus = "failed"
)

// ReviewEvent is one offline-recorded review. ReviewedAt may be
// arbitrarily far in the past and is trusted as-is; client clocks are
// untrusted but not treated as adversarial. ReviewID, when set, is a
// stable client-generated token making replay of the event a no-op.
type ReviewEvent struct {
	CardID     int64
	Quality    int
	ReviewedAt time.Time
	ReviewID   *uuid.UUID
}

// EventResult is the per-event outcome.
type EventResult struct {
	CardID int64
	Status EventStatus
	Reason string
}

// Result is the outcome of a whole sync batch. SyncedCount counts only
// events that actually advanced a schedule (duplicates excluded).
type Result struct {
	SyncedCount int
	Results     []EventResult
}

// Service defines the sync coordinator contract.
type Service interface {
	// SyncReviews applies the events in the order submitted. Per-event
	// failures (unknown card, out-of-range quality) are recovered
	// locally and reported in the result; the only whole-call failure
	// is an unknown learner (store.ErrLearnerNotFound), since no event
	// could be attributed. Events already persisted stay persisted if
	// the caller abandons the call mid-batch.
	SyncReviews(ctx context.Context, learnerID int64, events []ReviewEvent) (*Result, error)
}
