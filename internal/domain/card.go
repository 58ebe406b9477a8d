package domain

import (
	"errors"
	"time"
)

// Card-specific validation errors
var (
	// ErrCardDeckIDEmpty is returned when a card's deck reference is missing.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front text is empty.
	ErrCardFrontEmpty = errors.New("card front text cannot be empty")

	// ErrCardBackEmpty is returned when a card's back text is empty.
	ErrCardBackEmpty = errors.New("card back text cannot be empty")
)

// ModerationDecision is the verdict applied to a batch of draft cards.
type ModerationDecision string

// Possible moderation decisions
const (
	DecisionApprove ModerationDecision = "approve"
	DecisionReject  ModerationDecision = "reject"
)

// IsValid reports whether the decision is approve or reject.
func (d ModerationDecision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// Card is the atomic unit of study. Cards are created in an unapproved
// draft state regardless of whether a teacher authored them directly or
// the generation pipeline drafted them; the data model does not
// distinguish the two.
//
// A card is schedulable iff it is approved and not soft-deleted. Both
// approval and rejection are terminal: an approved card is never
// un-approved and a rejected (soft-deleted) card is never resurrected.
// Cards are never hard-deleted.
type Card struct {
	ID         int64      `json:"id"`
	DeckID     int64      `json:"deck_id"`
	Front      string     `json:"front"`
	Back       string     `json:"back"`
	ImageURL   string     `json:"image_url,omitempty"`
	Approved   bool       `json:"approved"`
	ApprovedBy *int64     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewCard creates a new draft Card in the given deck. The card starts
// unapproved; the ID is assigned by the store on insert.
// Returns an error if validation fails.
func NewCard(deckID int64, front, back, imageURL string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		DeckID:    deckID,
		Front:     front,
		Back:      back,
		ImageURL:  imageURL,
		Approved:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.DeckID == 0 {
		return ErrCardDeckIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if c.Back == "" {
		return ErrCardBackEmpty
	}

	return nil
}

// Schedulable reports whether the card is eligible for due-sets and deck
// listings: approved and not soft-deleted.
func (c *Card) Schedulable() bool {
	return c.Approved && c.DeletedAt == nil
}

// Approve marks the card as approved by the given moderator at the given
// time. Approval is terminal.
func (c *Card) Approve(moderatorID int64, now time.Time) {
	c.Approved = true
	c.ApprovedBy = &moderatorID
	c.ApprovedAt = &now
	c.UpdatedAt = now
}

// Reject soft-deletes the card at the given time. Rejection is terminal;
// the row persists but the card is never schedulable again.
func (c *Card) Reject(now time.Time) {
	c.DeletedAt = &now
	c.UpdatedAt = now
}
