package store

import (
	"context"
	"database/sql"

	"github.com/quizdeck/quizdeck-api/internal/domain"
)

// DeckFilter narrows a deck listing. Zero-value fields are ignored.
// PreferredSubjects, when set, restricts results to any of the given
// subjects and is combined with Subject as a union.
type DeckFilter struct {
	Subject           domain.Subject
	Difficulty        domain.Difficulty
	PreferredSubjects []domain.Subject
}

// DeckStore defines the interface for deck persistence.
type DeckStore interface {
	// Create inserts a new deck and populates its ID.
	// Returns validation errors if the deck data is invalid.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Deck, error)

	// List returns decks matching the filter, most recently created first.
	List(ctx context.Context, filter DeckFilter) ([]*domain.Deck, error)

	// RecomputeCardCount recounts the deck's live (approved, not
	// soft-deleted) cards, persists the result on the deck row, and
	// returns the fresh count. The stored card_count is a cache and is
	// always recomputed this way, never adjusted incrementally.
	// Returns ErrDeckNotFound if the deck does not exist.
	RecomputeCardCount(ctx context.Context, deckID int64) (int, error)

	// WithTx returns a DeckStore bound to the given transaction so
	// multiple operations can share one atomic unit.
	WithTx(tx *sql.Tx) DeckStore
}
