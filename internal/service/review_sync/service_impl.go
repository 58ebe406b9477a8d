package review_sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/domain/srs"
	"github.com/quizdeck/quizdeck-api/internal/platform/logger"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// Sentinel errors used to classify per-event transaction outcomes.
var (
	errEventCardNotFound = errors.New("event card not found")
	errEventDuplicate    = errors.New("event already applied")
)

// Verify interface compliance at compile time
var _ Service = (*syncServiceImpl)(nil)

// syncServiceImpl implements the Service interface.
type syncServiceImpl struct {
	db           *sql.DB
	cardStore    store.CardStore
	stateStore   store.ReviewStateStore
	learnerStore store.LearnerStore
	logger       *slog.Logger
	now          func() time.Time
	// runTx executes fn transactionally; tests substitute a runner that
	// calls fn directly so the event application logic runs against mocks.
	runTx func(ctx context.Context, fn store.TxFn) error
}

// NewService creates a new sync coordinator Service implementation.
func NewService(
	db *sql.DB,
	cardStore store.CardStore,
	stateStore store.ReviewStateStore,
	learnerStore store.LearnerStore,
	logger *slog.Logger,
) Service {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardStore cannot be nil")
	}
	if stateStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("stateStore cannot be nil")
	}
	if learnerStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("learnerStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	svc := &syncServiceImpl{
		db:           db,
		cardStore:    cardStore,
		stateStore:   stateStore,
		learnerStore: learnerStore,
		logger:       logger.With(slog.String("component", "sync_service")),
		now:          time.Now,
	}
	svc.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, svc.db, fn)
	}
	return svc
}

// SyncReviews implements Service.SyncReviews.
// The batch is a fold over the ordered event list: each event is applied
// in its own transaction against the state its predecessors produced, so
// the within-card sequence is never reordered regardless of how the
// caller schedules the work. Concurrent syncs for the same (learner,
// card) pair serialize on the review state row lock.
func (s *syncServiceImpl) SyncReviews(
	ctx context.Context,
	learnerID int64,
	events []ReviewEvent,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	exists, err := s.learnerStore.Exists(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check learner: %w", err)
	}
	if !exists {
		log.Warn("sync rejected for unknown learner", slog.Int64("learner_id", learnerID))
		return nil, store.ErrLearnerNotFound
	}

	result := &Result{Results: make([]EventResult, 0, len(events))}

	for _, event := range events {
		outcome := s.applyEvent(ctx, learnerID, event)
		result.Results = append(result.Results, outcome)
		if outcome.Status == StatusSynced {
			result.SyncedCount++
		}
	}

	log.Info("review batch synced",
		slog.Int64("learner_id", learnerID),
		slog.Int("events", len(events)),
		slog.Int("synced", result.SyncedCount))
	return result, nil
}

// applyEvent applies a single review event in its own transaction.
// Partial application of a batch is acceptable: an event persisted
// before the caller abandons the call stays persisted.
func (s *syncServiceImpl) applyEvent(
	ctx context.Context,
	learnerID int64,
	event ReviewEvent,
) EventResult {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Quality is validated before touching storage so a contract
	// violation rejects only the single event.
	if event.Quality < srs.MinQuality || event.Quality > srs.MaxQuality {
		return EventResult{CardID: event.CardID, Status: StatusFailed, Reason: ReasonInvalidQuality}
	}

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)
		states := s.stateStore.WithTx(tx)

		if _, err := cards.GetByID(ctx, event.CardID); err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return errEventCardNotFound
			}
			return fmt.Errorf("failed to load card %d: %w", event.CardID, err)
		}

		// Conditional write on the client token: if it was already
		// recorded, the schedule has seen this event and re-applying it
		// would double-advance the recurrence.
		if event.ReviewID != nil {
			applied, err := states.RecordReview(
				ctx, learnerID, *event.ReviewID, event.CardID, event.Quality, event.ReviewedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to record review token: %w", err)
			}
			if !applied {
				return errEventDuplicate
			}
		}

		state, err := states.GetForUpdate(ctx, learnerID, event.CardID)
		if err != nil {
			if !errors.Is(err, store.ErrReviewStateNotFound) {
				return fmt.Errorf("failed to load review state: %w", err)
			}
			// First review of this card by this learner.
			state, err = domain.NewReviewState(learnerID, event.CardID)
			if err != nil {
				return fmt.Errorf("failed to create review state: %w", err)
			}
		}

		next, err := srs.Advance(state, event.Quality, event.ReviewedAt)
		if err != nil {
			return fmt.Errorf("failed to advance schedule: %w", err)
		}
		next.LastSyncedAt = s.now().UTC()

		if err := states.Upsert(ctx, next); err != nil {
			return fmt.Errorf("failed to persist review state: %w", err)
		}

		return nil
	})

	switch {
	case err == nil:
		return EventResult{CardID: event.CardID, Status: StatusSynced}
	case errors.Is(err, errEventDuplicate):
		return EventResult{CardID: event.CardID, Status: StatusDuplicate}
	case errors.Is(err, errEventCardNotFound):
		return EventResult{CardID: event.CardID, Status: StatusFailed, Reason: ReasonCardNotFound}
	default:
		log.Error("failed to apply review event",
			slog.String("error", err.Error()),
			slog.Int64("learner_id", learnerID),
			slog.Int64("card_id", event.CardID))
		return EventResult{CardID: event.CardID, Status: StatusFailed, Reason: "internal_error"}
	}
}
