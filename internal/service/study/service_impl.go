package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/platform/logger"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*studyServiceImpl)(nil)

// studyServiceImpl implements the Service interface.
type studyServiceImpl struct {
	deckStore    store.DeckStore
	cardStore    store.CardStore
	stateStore   store.ReviewStateStore
	learnerStore store.LearnerStore
	logger       *slog.Logger
	now          func() time.Time
}

// NewService creates a new study Service implementation.
func NewService(
	deckStore store.DeckStore,
	cardStore store.CardStore,
	stateStore store.ReviewStateStore,
	learnerStore store.LearnerStore,
	logger *slog.Logger,
) Service {
	if deckStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deckStore cannot be nil")
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

	return &studyServiceImpl{
		deckStore:    deckStore,
		cardStore:    cardStore,
		stateStore:   stateStore,
		learnerStore: learnerStore,
		logger:       logger.With(slog.String("component", "study_service")),
		now:          time.Now,
	}
}

// GetDueCards implements Service.GetDueCards.
func (s *studyServiceImpl) GetDueCards(ctx context.Context, learnerID int64, limit int) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = DefaultDueLimit
	}
	if limit > MaxDueLimit {
		limit = MaxDueLimit
	}

	cards, err := s.cardStore.ListDue(ctx, learnerID, s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}

	log.Debug("due set selected",
		slog.Int64("learner_id", learnerID),
		slog.Int("count", len(cards)))
	return cards, nil
}

// ListDecks implements Service.ListDecks.
func (s *studyServiceImpl) ListDecks(ctx context.Context, filter store.DeckFilter) ([]*DeckWithCards, error) {
	decks, err := s.deckStore.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}

	listed := make([]*DeckWithCards, 0, len(decks))
	for _, deck := range decks {
		cards, err := s.cardStore.ListByDeck(ctx, deck.ID, true)
		if err != nil {
			return nil, fmt.Errorf("failed to list cards for deck %d: %w", deck.ID, err)
		}
		listed = append(listed, &DeckWithCards{Deck: deck, Cards: cards})
	}

	return listed, nil
}

// GetProgress implements Service.GetProgress.
func (s *studyServiceImpl) GetProgress(ctx context.Context, learnerID int64) (*domain.Progress, error) {
	exists, err := s.learnerStore.Exists(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check learner: %w", err)
	}
	if !exists {
		return nil, store.ErrLearnerNotFound
	}

	progress, err := s.stateStore.GetProgress(ctx, learnerID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	return progress, nil
}
