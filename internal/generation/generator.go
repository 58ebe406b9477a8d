package generation

import (
	"context"

	"github.com/quizdeck/quizdeck-api/internal/domain"
)

// CardDraft is one generated (front, back) pair. Drafts carry no
// identity; the moderation service turns them into unapproved cards.
type CardDraft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Request describes what to generate drafts for.
type Request struct {
	DeckName string
	Subject  domain.Subject
	Topic    string
	Count    int
}

// Generator defines the interface for AI draft-card generation.
type Generator interface {
	// GenerateCards produces draft (front, back) pairs for the request.
	// Returns ErrEmptyTopic for a request without topic text,
	// ErrContentBlocked when the provider refuses on safety grounds, and
	// ErrGenerationFailed when retries are exhausted.
	GenerateCards(ctx context.Context, req Request) ([]CardDraft, error)
}
