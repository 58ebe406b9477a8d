// Package study is the read side of the scheduling engine: due-set
// selection, schedulable deck listings, and per-learner progress
// aggregates for external reporting consumers.
package study

import (
	"context"

	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// Limits applied to due-set queries.
const (
	DefaultDueLimit = 20
	MaxDueLimit     = 100
)

// DeckWithCards pairs a deck with its schedulable cards only. Unapproved
// and soft-deleted cards never appear here regardless of filter.
type DeckWithCards struct {
	Deck  *domain.Deck
	Cards []*domain.Card
}

// Service defines the read-path operations.
type Service interface {
	// GetDueCards returns up to limit cards due for the learner now, in
	// no particular order. A limit outside (0, MaxDueLimit] is clamped.
	GetDueCards(ctx context.Context, learnerID int64, limit int) ([]*domain.Card, error)

	// ListDecks returns decks matching the filter together with their
	// schedulable cards.
	ListDecks(ctx context.Context, filter store.DeckFilter) ([]*DeckWithCards, error)

	// GetProgress returns per-learner review aggregates. Returns
	// store.ErrLearnerNotFound for an unknown learner.
	GetProgress(ctx context.Context, learnerID int64) (*domain.Progress, error)
}
