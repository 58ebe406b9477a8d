package moderation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/generation"
	"github.com/quizdeck/quizdeck-api/internal/platform/logger"
	"github.com/quizdeck/quizdeck-api/internal/service"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*moderationServiceImpl)(nil)

// moderationServiceImpl implements the Service interface.
type moderationServiceImpl struct {
	db        *sql.DB
	deckStore store.DeckStore
	cardStore store.CardStore
	generator generation.Generator
	logger    *slog.Logger
	// runTx executes fn transactionally; tests substitute a runner that
	// calls fn directly so the batch logic runs against mocks.
	runTx func(ctx context.Context, fn store.TxFn) error
}

// NewService creates a new moderation Service implementation.
func NewService(
	db *sql.DB,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	generator generation.Generator,
	logger *slog.Logger,
) Service {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if deckStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deckStore cannot be nil")
	}
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardStore cannot be nil")
	}
	if generator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("generator cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	svc := &moderationServiceImpl{
		db:        db,
		deckStore: deckStore,
		cardStore: cardStore,
		generator: generator,
		logger:    logger.With(slog.String("component", "moderation_service")),
	}
	svc.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, svc.db, fn)
	}
	return svc
}

// CreateDeck implements Service.CreateDeck.
func (s *moderationServiceImpl) CreateDeck(
	ctx context.Context,
	principal domain.Principal,
	name, description string,
	subject domain.Subject,
	difficulty domain.Difficulty,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !principal.CanAuthor() {
		log.Warn("deck creation denied",
			slog.Int64("principal_id", principal.ID),
			slog.String("role", string(principal.Role)))
		return nil, service.ErrForbidden
	}

	deck, err := domain.NewDeck(name, description, subject, difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if err := s.deckStore.Create(ctx, deck); err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	log.Info("deck created",
		slog.Int64("deck_id", deck.ID),
		slog.Int64("principal_id", principal.ID))
	return deck, nil
}

// CreateDraftCard implements Service.CreateDraftCard.
func (s *moderationServiceImpl) CreateDraftCard(
	ctx context.Context,
	principal domain.Principal,
	deckID int64,
	front, back, imageURL string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !principal.CanAuthor() {
		log.Warn("draft card creation denied",
			slog.Int64("principal_id", principal.ID),
			slog.String("role", string(principal.Role)))
		return nil, service.ErrForbidden
	}

	card, err := domain.NewCard(deckID, front, back, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	// The store maps a foreign key violation on deck_id to
	// store.ErrDeckNotFound, so a bad deck reference fails the whole
	// call with no partial effect.
	if err := s.cardStore.Create(ctx, card); err != nil {
		return nil, err
	}

	log.Info("draft card created",
		slog.Int64("card_id", card.ID),
		slog.Int64("deck_id", deckID),
		slog.Int64("principal_id", principal.ID))
	return card, nil
}

// Moderate implements Service.Moderate.
// The whole batch, including the card_count recomputation of every
// touched deck, runs in one transaction so readers never observe a count
// that predates the decisions.
func (s *moderationServiceImpl) Moderate(
	ctx context.Context,
	principal domain.Principal,
	cardIDs []int64,
	decision domain.ModerationDecision,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !principal.CanModerate() {
		log.Warn("moderation denied",
			slog.Int64("principal_id", principal.ID),
			slog.String("role", string(principal.Role)))
		return nil, service.ErrForbidden
	}

	if !decision.IsValid() {
		return nil, ErrInvalidDecision
	}

	if len(cardIDs) == 0 {
		return nil, ErrNoCardIDs
	}

	result := &Result{CardCounts: make(map[int64]int)}

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)
		decks := s.deckStore.WithTx(tx)
		now := time.Now().UTC()

		touchedDecks := make(map[int64]struct{})

		for _, id := range cardIDs {
			card, err := cards.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, store.ErrCardNotFound) {
					// Unknown ids are skipped, not errors, so a
					// partial-batch retry never poisons the call.
					result.SkippedIDs = append(result.SkippedIDs, id)
					continue
				}
				return fmt.Errorf("failed to load card %d: %w", id, err)
			}

			switch decision {
			case domain.DecisionApprove:
				if card.DeletedAt != nil {
					// Rejection is terminal; a rejected card is never
					// resurrected.
					result.SkippedIDs = append(result.SkippedIDs, id)
					continue
				}
				if !card.Approved {
					card.Approve(principal.ID, now)
					if err := cards.Update(ctx, card); err != nil {
						return fmt.Errorf("failed to approve card %d: %w", id, err)
					}
					touchedDecks[card.DeckID] = struct{}{}
				}
				result.ApprovedIDs = append(result.ApprovedIDs, id)

			case domain.DecisionReject:
				if card.Approved {
					// Approval is terminal too.
					result.SkippedIDs = append(result.SkippedIDs, id)
					continue
				}
				if card.DeletedAt == nil {
					card.Reject(now)
					if err := cards.Update(ctx, card); err != nil {
						return fmt.Errorf("failed to reject card %d: %w", id, err)
					}
					touchedDecks[card.DeckID] = struct{}{}
				}
				result.RejectedIDs = append(result.RejectedIDs, id)
			}
		}

		// Recount live cards for every deck the batch touched. The
		// count is always derived by recount, never trusted
		// incrementally.
		for deckID := range touchedDecks {
			count, err := decks.RecomputeCardCount(ctx, deckID)
			if err != nil {
				return fmt.Errorf("failed to recompute count for deck %d: %w", deckID, err)
			}
			result.CardCounts[deckID] = count
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("moderation batch processed",
		slog.Int64("principal_id", principal.ID),
		slog.String("decision", string(decision)),
		slog.Int("approved", len(result.ApprovedIDs)),
		slog.Int("rejected", len(result.RejectedIDs)),
		slog.Int("skipped", len(result.SkippedIDs)))
	return result, nil
}

// GenerateDrafts implements Service.GenerateDrafts.
func (s *moderationServiceImpl) GenerateDrafts(
	ctx context.Context,
	principal domain.Principal,
	deckID int64,
	topic string,
	count int,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !principal.CanAuthor() {
		return nil, service.ErrForbidden
	}

	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}

	drafts, err := s.generator.GenerateCards(ctx, generation.Request{
		DeckName: deck.Name,
		Subject:  deck.Subject,
		Topic:    topic,
		Count:    count,
	})
	if err != nil {
		log.Error("draft generation failed",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, err
	}

	var created []*domain.Card
	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)
		for _, draft := range drafts {
			card, err := domain.NewCard(deckID, draft.Front, draft.Back, "")
			if err != nil {
				log.Warn("skipping invalid generated draft",
					slog.String("error", err.Error()))
				continue
			}
			if err := cards.Create(ctx, card); err != nil {
				return fmt.Errorf("failed to insert generated draft: %w", err)
			}
			created = append(created, card)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("generated drafts inserted",
		slog.Int64("deck_id", deckID),
		slog.Int("count", len(created)),
		slog.Int64("principal_id", principal.ID))
	return created, nil
}
