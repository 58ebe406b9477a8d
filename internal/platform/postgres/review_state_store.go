package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/platform/logger"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// PostgresReviewStateStore implements the store.ReviewStateStore
// interface using a PostgreSQL database as the storage backend.
type PostgresReviewStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStateStore creates a new PostgreSQL implementation of
// the ReviewStateStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReviewStateStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStateStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_state_store")),
	}
}

// Ensure PostgresReviewStateStore implements store.ReviewStateStore interface
var _ store.ReviewStateStore = (*PostgresReviewStateStore)(nil)

const reviewStateColumns = `learner_id, card_id, ease_factor, interval_days, repetitions,
	last_reviewed_at, next_due_at, last_synced_at, created_at, updated_at`

// GetForUpdate implements store.ReviewStateStore.GetForUpdate
// The row lock serializes concurrent syncs for the same (learner, card)
// pair; callers must hold a transaction.
func (s *PostgresReviewStateStore) GetForUpdate(ctx context.Context, learnerID, cardID int64) (*domain.ReviewState, error) {
	query := `SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE learner_id = $1 AND card_id = $2
		FOR UPDATE`
	return s.get(ctx, query, learnerID, cardID)
}

func (s *PostgresReviewStateStore) get(ctx context.Context, query string, learnerID, cardID int64) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		state          domain.ReviewState
		lastReviewedAt sql.NullTime
		lastSyncedAt   sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, learnerID, cardID).Scan(
		&state.LearnerID,
		&state.CardID,
		&state.EaseFactor,
		&state.IntervalDays,
		&state.Repetitions,
		&lastReviewedAt,
		&state.NextDueAt,
		&lastSyncedAt,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewStateNotFound
		}
		log.Error("failed to get review state",
			slog.String("error", err.Error()),
			slog.Int64("learner_id", learnerID),
			slog.Int64("card_id", cardID))
		return nil, err
	}

	state.LastReviewedAt = lastReviewedAt.Time
	state.LastSyncedAt = lastSyncedAt.Time
	return &state, nil
}

// Upsert implements store.ReviewStateStore.Upsert
// The (learner_id, card_id) primary key guarantees exactly one state per
// pair; a conflicting insert replaces the scheduling fields.
func (s *PostgresReviewStateStore) Upsert(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("review state validation failed during upsert",
			slog.String("error", err.Error()),
			slog.Int64("learner_id", state.LearnerID),
			slog.Int64("card_id", state.CardID))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO review_states (learner_id, card_id, ease_factor, interval_days, repetitions,
			last_reviewed_at, next_due_at, last_synced_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (learner_id, card_id) DO UPDATE
		SET ease_factor = EXCLUDED.ease_factor,
		    interval_days = EXCLUDED.interval_days,
		    repetitions = EXCLUDED.repetitions,
		    last_reviewed_at = EXCLUDED.last_reviewed_at,
		    next_due_at = EXCLUDED.next_due_at,
		    last_synced_at = EXCLUDED.last_synced_at,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		state.LearnerID,
		state.CardID,
		state.EaseFactor,
		state.IntervalDays,
		state.Repetitions,
		nullTime(state.LastReviewedAt),
		state.NextDueAt,
		nullTime(state.LastSyncedAt),
		state.CreatedAt,
		state.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: card %d", store.ErrCardNotFound, state.CardID)
		}
		log.Error("failed to upsert review state",
			slog.String("error", err.Error()),
			slog.Int64("learner_id", state.LearnerID),
			slog.Int64("card_id", state.CardID))
		return err
	}

	return nil
}

// RecordReview implements store.ReviewStateStore.RecordReview
// The (learner_id, review_id) primary key makes the insert a conditional
// write: a second attempt with the same token is a no-op reported as
// already applied.
func (s *PostgresReviewStateStore) RecordReview(
	ctx context.Context,
	learnerID int64,
	reviewID uuid.UUID,
	cardID int64,
	quality int,
	reviewedAt time.Time,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO review_log (learner_id, review_id, card_id, quality, reviewed_at, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (learner_id, review_id) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		learnerID,
		reviewID,
		cardID,
		quality,
		reviewedAt,
		time.Now().UTC(),
	)
	if err != nil {
		log.Error("failed to record review token",
			slog.String("error", err.Error()),
			slog.Int64("learner_id", learnerID),
			slog.String("review_id", reviewID.String()))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if affected == 0 {
		log.Debug("review token already recorded",
			slog.Int64("learner_id", learnerID),
			slog.String("review_id", reviewID.String()))
		return false, nil
	}
	return true, nil
}

// GetProgress implements store.ReviewStateStore.GetProgress
func (s *PostgresReviewStateStore) GetProgress(
	ctx context.Context,
	learnerID int64,
	now time.Time,
) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE next_due_at <= $2),
		       COALESCE(AVG(ease_factor), 0),
		       (SELECT COUNT(*) FROM review_log WHERE learner_id = $1)
		FROM review_states
		WHERE learner_id = $1
	`

	progress := domain.Progress{LearnerID: learnerID}
	err := s.db.QueryRowContext(ctx, query, learnerID, now).Scan(
		&progress.TrackedCards,
		&progress.DueNow,
		&progress.AverageEase,
		&progress.TotalReviews,
	)
	if err != nil {
		log.Error("failed to get learner progress",
			slog.String("error", err.Error()),
			slog.Int64("learner_id", learnerID))
		return nil, err
	}

	return &progress, nil
}

// WithTx implements store.ReviewStateStore.WithTx
func (s *PostgresReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &PostgresReviewStateStore{
		db:     tx,
		logger: s.logger,
	}
}

// nullTime maps the zero time to SQL NULL for columns that are unset
// until the first review or sync.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
