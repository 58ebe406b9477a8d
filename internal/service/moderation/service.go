// Package moderation manages the lifecycle of draft cards: authoring
// (human or AI-generated), approval, and rejection. It is the only
// writer of card approval state and of the denormalized deck card_count.
package moderation

import (
	"context"
	"errors"

	"github.com/quizdeck/quizdeck-api/internal/domain"
)

// Common moderation errors
var (
	// ErrInvalidDecision is returned when a moderation decision is
	// neither approve nor reject.
	ErrInvalidDecision = errors.New("moderation decision must be approve or reject")

	// ErrNoCardIDs is returned when a moderation batch is empty.
	ErrNoCardIDs = errors.New("moderation batch cannot be empty")
)

// Result reports the outcome of a moderation batch. Unknown or
// already-terminal card ids are skipped, not errors; they are surfaced
// in SkippedIDs for auditing. CardCounts holds the freshly recomputed
// live-card count for every deck the batch touched.
type Result struct {
	ApprovedIDs []int64
	RejectedIDs []int64
	SkippedIDs  []int64
	CardCounts  map[int64]int
}

// Service defines the moderation pipeline operations.
type Service interface {
	// CreateDeck creates a new deck. Requires teacher or admin
	// capability; returns service.ErrForbidden otherwise.
	CreateDeck(
		ctx context.Context,
		principal domain.Principal,
		name, description string,
		subject domain.Subject,
		difficulty domain.Difficulty,
	) (*domain.Deck, error)

	// CreateDraftCard authors a new unapproved card in the given deck.
	// Requires teacher or admin capability. Returns
	// store.ErrDeckNotFound if the deck reference is invalid.
	CreateDraftCard(
		ctx context.Context,
		principal domain.Principal,
		deckID int64,
		front, back, imageURL string,
	) (*domain.Card, error)

	// Moderate applies one decision to a batch of card ids atomically:
	// approvals record the moderator and approval time, rejections set
	// the soft-delete timestamp. Unknown ids are skipped. After
	// processing, the card_count of every touched deck is recomputed in
	// the same transaction. Requires moderator or admin capability.
	Moderate(
		ctx context.Context,
		principal domain.Principal,
		cardIDs []int64,
		decision domain.ModerationDecision,
	) (*Result, error)

	// GenerateDrafts asks the AI generator for draft cards on the given
	// topic and inserts them into the deck as unapproved cards, subject
	// to the same moderation flow as human-authored drafts. Requires
	// teacher or admin capability.
	GenerateDrafts(
		ctx context.Context,
		principal domain.Principal,
		deckID int64,
		topic string,
		count int,
	) ([]*domain.Card, error)
}
