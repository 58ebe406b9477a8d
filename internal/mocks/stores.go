package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// Interface compliance checks
var (
	_ store.DeckStore        = (*MockDeckStore)(nil)
	_ store.CardStore        = (*MockCardStore)(nil)
	_ store.ReviewStateStore = (*MockReviewStateStore)(nil)
	_ store.LearnerStore     = (*MockLearnerStore)(nil)
)

// MockDeckStore implements store.DeckStore for testing.
type MockDeckStore struct {
	CreateFn             func(ctx context.Context, deck *domain.Deck) error
	GetByIDFn            func(ctx context.Context, id int64) (*domain.Deck, error)
	ListFn               func(ctx context.Context, filter store.DeckFilter) ([]*domain.Deck, error)
	RecomputeCardCountFn func(ctx context.Context, deckID int64) (int, error)
}

func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, deck)
	}
	return nil
}

func (m *MockDeckStore) GetByID(ctx context.Context, id int64) (*domain.Deck, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrDeckNotFound
}

func (m *MockDeckStore) List(ctx context.Context, filter store.DeckFilter) ([]*domain.Deck, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, nil
}

func (m *MockDeckStore) RecomputeCardCount(ctx context.Context, deckID int64) (int, error) {
	if m.RecomputeCardCountFn != nil {
		return m.RecomputeCardCountFn(ctx, deckID)
	}
	return 0, nil
}

// WithTx returns the mock itself; mocks have no transaction scope.
func (m *MockDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return m
}

// MockCardStore implements store.CardStore for testing.
type MockCardStore struct {
	CreateFn     func(ctx context.Context, card *domain.Card) error
	GetByIDFn    func(ctx context.Context, id int64) (*domain.Card, error)
	UpdateFn     func(ctx context.Context, card *domain.Card) error
	ListByDeckFn func(ctx context.Context, deckID int64, onlyLive bool) ([]*domain.Card, error)
	ListDueFn    func(ctx context.Context, learnerID int64, now time.Time, limit int) ([]*domain.Card, error)
}

func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}
	return nil
}

func (m *MockCardStore) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrCardNotFound
}

func (m *MockCardStore) Update(ctx context.Context, card *domain.Card) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, card)
	}
	return nil
}

func (m *MockCardStore) ListByDeck(ctx context.Context, deckID int64, onlyLive bool) ([]*domain.Card, error) {
	if m.ListByDeckFn != nil {
		return m.ListByDeckFn(ctx, deckID, onlyLive)
	}
	return nil, nil
}

func (m *MockCardStore) ListDue(
	ctx context.Context,
	learnerID int64,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, learnerID, now, limit)
	}
	return nil, nil
}

// WithTx returns the mock itself; mocks have no transaction scope.
func (m *MockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}

// MockReviewStateStore implements store.ReviewStateStore for testing.
type MockReviewStateStore struct {
	GetForUpdateFn func(ctx context.Context, learnerID, cardID int64) (*domain.ReviewState, error)
	UpsertFn       func(ctx context.Context, state *domain.ReviewState) error
	RecordReviewFn func(ctx context.Context, learnerID int64, reviewID uuid.UUID, cardID int64, quality int, reviewedAt time.Time) (bool, error)
	GetProgressFn  func(ctx context.Context, learnerID int64, now time.Time) (*domain.Progress, error)
}

func (m *MockReviewStateStore) GetForUpdate(ctx context.Context, learnerID, cardID int64) (*domain.ReviewState, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, learnerID, cardID)
	}
	return nil, store.ErrReviewStateNotFound
}

func (m *MockReviewStateStore) Upsert(ctx context.Context, state *domain.ReviewState) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, state)
	}
	return nil
}

func (m *MockReviewStateStore) RecordReview(
	ctx context.Context,
	learnerID int64,
	reviewID uuid.UUID,
	cardID int64,
	quality int,
	reviewedAt time.Time,
) (bool, error) {
	if m.RecordReviewFn != nil {
		return m.RecordReviewFn(ctx, learnerID, reviewID, cardID, quality, reviewedAt)
	}
	return true, nil
}

func (m *MockReviewStateStore) GetProgress(
	ctx context.Context,
	learnerID int64,
	now time.Time,
) (*domain.Progress, error) {
	if m.GetProgressFn != nil {
		return m.GetProgressFn(ctx, learnerID, now)
	}
	return &domain.Progress{LearnerID: learnerID}, nil
}

// WithTx returns the mock itself; mocks have no transaction scope.
func (m *MockReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return m
}

// MockLearnerStore implements store.LearnerStore for testing.
type MockLearnerStore struct {
	UpsertFn func(ctx context.Context, learner *domain.Learner) error
	ExistsFn func(ctx context.Context, id int64) (bool, error)
}

func (m *MockLearnerStore) Upsert(ctx context.Context, learner *domain.Learner) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, learner)
	}
	return nil
}

func (m *MockLearnerStore) Exists(ctx context.Context, id int64) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, id)
	}
	return true, nil
}

// WithTx returns the mock itself; mocks have no transaction scope.
func (m *MockLearnerStore) WithTx(tx *sql.Tx) store.LearnerStore {
	return m
}
