package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/quizdeck/quizdeck-api/internal/domain"
)

// CardStore defines the interface for card persistence.
type CardStore interface {
	// Create inserts a new draft card and populates its ID.
	// Returns ErrDeckNotFound if the owning deck does not exist.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its ID, including soft-deleted cards.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Card, error)

	// Update persists the card's mutable fields (approval, soft-delete,
	// content). Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// ListByDeck returns the cards of a deck in creation order. When
	// onlyLive is true, only schedulable cards (approved and not
	// soft-deleted) are returned.
	ListByDeck(ctx context.Context, deckID int64, onlyLive bool) ([]*domain.Card, error)

	// ListDue returns up to limit schedulable cards whose review state
	// for the learner has next_due_at at or before now. Cards that were
	// soft-deleted or never approved are excluded even when a review
	// state row still references them.
	ListDue(ctx context.Context, learnerID int64, now time.Time, limit int) ([]*domain.Card, error)

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}
