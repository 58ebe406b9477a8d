package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/quizdeck/quizdeck-api/internal/domain"
)

// validate is the shared validator instance for request payloads.
var validate = validator.New()

// decodeAndValidate decodes the request body into dst and runs struct
// validation. Callers treat a returned error as a 400.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// ReviewEventRequest is a single offline review inside a sync batch.
// Quality is deliberately not range-validated here: an out-of-range
// quality fails that event alone, not the whole batch.
type ReviewEventRequest struct {
	CardID     int64      `json:"card_id" validate:"required"`
	Quality    int        `json:"quality"`
	ReviewedAt time.Time  `json:"reviewed_at" validate:"required"`
	ReviewID   *uuid.UUID `json:"review_id,omitempty"`
}

// SyncReviewsRequest is the payload for POST /api/reviews/sync.
type SyncReviewsRequest struct {
	Reviews []ReviewEventRequest `json:"reviews" validate:"required,min=1,dive"`
}

// ReviewResultResponse reports the per-event outcome of a sync batch.
type ReviewResultResponse struct {
	CardID int64  `json:"card_id"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// SyncReviewsResponse is the response for POST /api/reviews/sync.
type SyncReviewsResponse struct {
	SyncedCount int                    `json:"synced_count"`
	Results     []ReviewResultResponse `json:"results"`
}

// CardResponse is the wire representation of a card.
type CardResponse struct {
	ID         int64      `json:"id"`
	DeckID     int64      `json:"deck_id"`
	Front      string     `json:"front"`
	Back       string     `json:"back"`
	ImageURL   string     `json:"image_url,omitempty"`
	Approved   bool       `json:"approved"`
	ApprovedBy *int64     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toCardResponse(c *domain.Card) CardResponse {
	return CardResponse{
		ID:         c.ID,
		DeckID:     c.DeckID,
		Front:      c.Front,
		Back:       c.Back,
		ImageURL:   c.ImageURL,
		Approved:   c.Approved,
		ApprovedBy: c.ApprovedBy,
		ApprovedAt: c.ApprovedAt,
		CreatedAt:  c.CreatedAt,
	}
}

func toCardResponses(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardResponse(c))
	}
	return out
}

// DueCardsResponse is the response for GET /api/cards/due.
type DueCardsResponse struct {
	Cards []CardResponse `json:"cards"`
}

// DeckResponse is the wire representation of a deck, optionally
// including its live cards.
type DeckResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Subject     string         `json:"subject"`
	Difficulty  string         `json:"difficulty"`
	CardCount   int            `json:"card_count"`
	CreatedAt   time.Time      `json:"created_at"`
	Cards       []CardResponse `json:"cards,omitempty"`
}

func toDeckResponse(d *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Subject:     string(d.Subject),
		Difficulty:  string(d.Difficulty),
		CardCount:   d.CardCount,
		CreatedAt:   d.CreatedAt,
	}
}

// ListDecksResponse is the response for GET /api/decks.
type ListDecksResponse struct {
	Decks []DeckResponse `json:"decks"`
}

// ProgressResponse is the response for GET /api/progress.
type ProgressResponse struct {
	TrackedCards int     `json:"tracked_cards"`
	DueNow       int     `json:"due_now"`
	AverageEase  float64 `json:"average_ease"`
	TotalReviews int     `json:"total_reviews"`
}

// CreateDeckRequest is the payload for POST /api/decks.
type CreateDeckRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject" validate:"required"`
	Difficulty  string `json:"difficulty" validate:"required"`
}

// CreateCardRequest is the payload for POST /api/decks/{deckID}/cards.
// Cards always enter the pipeline as unapproved drafts.
type CreateCardRequest struct {
	Front    string `json:"front" validate:"required"`
	Back     string `json:"back" validate:"required"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// GenerateCardsRequest is the payload for POST /api/decks/{deckID}/generate.
type GenerateCardsRequest struct {
	Topic string `json:"topic" validate:"required"`
	Count int    `json:"count" validate:"omitempty,min=1,max=50"`
}

// GenerateCardsResponse reports the drafts inserted by a generation run.
type GenerateCardsResponse struct {
	Cards []CardResponse `json:"cards"`
}

// ModerateCardsRequest is the payload for POST /api/cards/moderate.
type ModerateCardsRequest struct {
	CardIDs  []int64 `json:"card_ids" validate:"required,min=1"`
	Decision string  `json:"decision" validate:"required"`
}

// ModerateCardsResponse is the response for POST /api/cards/moderate.
type ModerateCardsResponse struct {
	ApprovedIDs []int64       `json:"approved_ids"`
	RejectedIDs []int64       `json:"rejected_ids"`
	SkippedIDs  []int64       `json:"skipped_ids"`
	CardCounts  map[int64]int `json:"card_counts"`
}
