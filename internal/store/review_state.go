package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-api/internal/domain"
)

// ReviewStateStore defines the interface for per-(learner, card) review
// state persistence. Review state rows are exclusively mutated by the
// sync coordinator on behalf of the owning learner.
type ReviewStateStore interface {
	// GetForUpdate retrieves the review state for a (learner, card) pair
	// and takes a row-level lock on it, serializing concurrent syncs for
	// the same pair. Must be called within a transaction. Returns
	// ErrReviewStateNotFound if no state exists yet.
	GetForUpdate(ctx context.Context, learnerID, cardID int64) (*domain.ReviewState, error)

	// Upsert inserts or replaces the review state for the pair the state
	// belongs to. Returns validation errors if the state is invalid.
	Upsert(ctx context.Context, state *domain.ReviewState) error

	// RecordReview writes the idempotency ledger entry for a client-
	// generated review token. It reports false, without error, when the
	// token was already recorded, meaning the event must not be applied
	// again.
	RecordReview(
		ctx context.Context,
		learnerID int64,
		reviewID uuid.UUID,
		cardID int64,
		quality int,
		reviewedAt time.Time,
	) (bool, error)

	// GetProgress returns read-only aggregates over the learner's review
	// states for reporting consumers.
	GetProgress(ctx context.Context, learnerID int64, now time.Time) (*domain.Progress, error)

	// WithTx returns a ReviewStateStore bound to the given transaction.
	WithTx(tx *sql.Tx) ReviewStateStore
}

// LearnerStore defines the interface for the local mirror of externally
// managed learner identities.
type LearnerStore interface {
	// Upsert records or refreshes the local mirror of a learner.
	Upsert(ctx context.Context, learner *domain.Learner) error

	// Exists reports whether the learner is known to this system.
	Exists(ctx context.Context, id int64) (bool, error)

	// WithTx returns a LearnerStore bound to the given transaction.
	WithTx(tx *sql.Tx) LearnerStore
}
