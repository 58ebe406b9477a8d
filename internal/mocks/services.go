package mocks

import (
	"context"

	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/service/auth"
	"github.com/quizdeck/quizdeck-api/internal/service/moderation"
	"github.com/quizdeck/quizdeck-api/internal/service/review_sync"
	"github.com/quizdeck/quizdeck-api/internal/service/study"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// Interface compliance checks
var (
	_ review_sync.Service = (*MockSyncService)(nil)
	_ study.Service       = (*MockStudyService)(nil)
	_ moderation.Service  = (*MockModerationService)(nil)
	_ auth.JWTService     = (*MockJWTService)(nil)
)

// MockSyncService implements review_sync.Service for testing.
type MockSyncService struct {
	SyncReviewsFn func(ctx context.Context, learnerID int64, events []review_sync.ReviewEvent) (*review_sync.Result, error)
}

func (m *MockSyncService) SyncReviews(
	ctx context.Context,
	learnerID int64,
	events []review_sync.ReviewEvent,
) (*review_sync.Result, error) {
	if m.SyncReviewsFn != nil {
		return m.SyncReviewsFn(ctx, learnerID, events)
	}
	return &review_sync.Result{}, nil
}

// MockStudyService implements study.Service for testing.
type MockStudyService struct {
	GetDueCardsFn func(ctx context.Context, learnerID int64, limit int) ([]*domain.Card, error)
	ListDecksFn   func(ctx context.Context, filter store.DeckFilter) ([]*study.DeckWithCards, error)
	GetProgressFn func(ctx context.Context, learnerID int64) (*domain.Progress, error)
}

func (m *MockStudyService) GetDueCards(ctx context.Context, learnerID int64, limit int) ([]*domain.Card, error) {
	if m.GetDueCardsFn != nil {
		return m.GetDueCardsFn(ctx, learnerID, limit)
	}
	return nil, nil
}

func (m *MockStudyService) ListDecks(ctx context.Context, filter store.DeckFilter) ([]*study.DeckWithCards, error) {
	if m.ListDecksFn != nil {
		return m.ListDecksFn(ctx, filter)
	}
	return nil, nil
}

func (m *MockStudyService) GetProgress(ctx context.Context, learnerID int64) (*domain.Progress, error) {
	if m.GetProgressFn != nil {
		return m.GetProgressFn(ctx, learnerID)
	}
	return &domain.Progress{LearnerID: learnerID}, nil
}

// MockModerationService implements moderation.Service for testing.
type MockModerationService struct {
	CreateDeckFn      func(ctx context.Context, principal domain.Principal, name, description string, subject domain.Subject, difficulty domain.Difficulty) (*domain.Deck, error)
	CreateDraftCardFn func(ctx context.Context, principal domain.Principal, deckID int64, front, back, imageURL string) (*domain.Card, error)
	ModerateFn        func(ctx context.Context, principal domain.Principal, cardIDs []int64, decision domain.ModerationDecision) (*moderation.Result, error)
	GenerateDraftsFn  func(ctx context.Context, principal domain.Principal, deckID int64, topic string, count int) ([]*domain.Card, error)
}

func (m *MockModerationService) CreateDeck(
	ctx context.Context,
	principal domain.Principal,
	name, description string,
	subject domain.Subject,
	difficulty domain.Difficulty,
) (*domain.Deck, error) {
	if m.CreateDeckFn != nil {
		return m.CreateDeckFn(ctx, principal, name, description, subject, difficulty)
	}
	return nil, nil
}

func (m *MockModerationService) CreateDraftCard(
	ctx context.Context,
	principal domain.Principal,
	deckID int64,
	front, back, imageURL string,
) (*domain.Card, error) {
	if m.CreateDraftCardFn != nil {
		return m.CreateDraftCardFn(ctx, principal, deckID, front, back, imageURL)
	}
	return nil, nil
}

func (m *MockModerationService) Moderate(
	ctx context.Context,
	principal domain.Principal,
	cardIDs []int64,
	decision domain.ModerationDecision,
) (*moderation.Result, error) {
	if m.ModerateFn != nil {
		return m.ModerateFn(ctx, principal, cardIDs, decision)
	}
	return &moderation.Result{}, nil
}

func (m *MockModerationService) GenerateDrafts(
	ctx context.Context,
	principal domain.Principal,
	deckID int64,
	topic string,
	count int,
) ([]*domain.Card, error) {
	if m.GenerateDraftsFn != nil {
		return m.GenerateDraftsFn(ctx, principal, deckID, topic, count)
	}
	return nil, nil
}

// MockJWTService implements auth.JWTService for testing.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, principal domain.Principal) (string, error)
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)
}

func (m *MockJWTService) GenerateToken(ctx context.Context, principal domain.Principal) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, principal)
	}
	return "mock-token", nil
}

func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return nil, auth.ErrInvalidToken
}
