package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdeck/quizdeck-api/internal/api"
	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/mocks"
	"github.com/quizdeck/quizdeck-api/internal/service/study"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

func TestGetDueCardsHandler(t *testing.T) {
	t.Parallel()

	learner := domain.Principal{ID: 7, Role: domain.RoleLearner}

	t.Run("returns due cards with parsed limit", func(t *testing.T) {
		t.Parallel()

		studyService := &mocks.MockStudyService{
			GetDueCardsFn: func(ctx context.Context, learnerID int64, limit int) ([]*domain.Card, error) {
				assert.Equal(t, int64(7), learnerID)
				assert.Equal(t, 5, limit)
				return []*domain.Card{
					{ID: 1, DeckID: 2, Front: "f", Back: "b", Approved: true},
				}, nil
			},
		}
		handler := api.NewStudyHandler(studyService, nil)

		rec := httptest.NewRecorder()
		handler.GetDueCards(rec, authenticatedRequest(
			t, http.MethodGet, "/api/cards/due?limit=5", nil, learner))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Cards []struct {
				ID int64 `json:"id"`
			} `json:"cards"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Cards, 1)
		assert.Equal(t, int64(1), resp.Cards[0].ID)
	})

	t.Run("rejects non-integer limit", func(t *testing.T) {
		t.Parallel()

		handler := api.NewStudyHandler(&mocks.MockStudyService{}, nil)

		rec := httptest.NewRecorder()
		handler.GetDueCards(rec, authenticatedRequest(
			t, http.MethodGet, "/api/cards/due?limit=lots", nil, learner))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()

		handler := api.NewStudyHandler(&mocks.MockStudyService{}, nil)

		rec := httptest.NewRecorder()
		handler.GetDueCards(rec, httptest.NewRequest(http.MethodGet, "/api/cards/due", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListDecksHandler(t *testing.T) {
	t.Parallel()

	learner := domain.Principal{ID: 7, Role: domain.RoleLearner}

	t.Run("builds filter from query parameters", func(t *testing.T) {
		t.Parallel()

		var gotFilter store.DeckFilter
		studyService := &mocks.MockStudyService{
			ListDecksFn: func(ctx context.Context, filter store.DeckFilter) ([]*study.DeckWithCards, error) {
				gotFilter = filter
				return []*study.DeckWithCards{
					{
						Deck: &domain.Deck{
							ID: 1, Name: "Algebra",
							Subject: domain.SubjectMath, Difficulty: domain.DifficultyEasy,
						},
						Cards: []*domain.Card{{ID: 9, DeckID: 1, Approved: true}},
					},
				}, nil
			},
		}
		handler := api.NewStudyHandler(studyService, nil)

		rec := httptest.NewRecorder()
		handler.ListDecks(rec, authenticatedRequest(
			t, http.MethodGet,
			"/api/decks?subject=math&difficulty=easy&subjects=science,history",
			nil, learner))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.SubjectMath, gotFilter.Subject)
		assert.Equal(t, domain.DifficultyEasy, gotFilter.Difficulty)
		assert.Equal(t,
			[]domain.Subject{domain.SubjectScience, domain.SubjectHistory},
			gotFilter.PreferredSubjects)

		var resp struct {
			Decks []struct {
				ID    int64 `json:"id"`
				Cards []struct {
					ID int64 `json:"id"`
				} `json:"cards"`
			} `json:"decks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Decks, 1)
		require.Len(t, resp.Decks[0].Cards, 1)
	})

	t.Run("rejects unknown subject", func(t *testing.T) {
		t.Parallel()

		handler := api.NewStudyHandler(&mocks.MockStudyService{}, nil)

		rec := httptest.NewRecorder()
		handler.ListDecks(rec, authenticatedRequest(
			t, http.MethodGet, "/api/decks?subject=astrology", nil, learner))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown difficulty", func(t *testing.T) {
		t.Parallel()

		handler := api.NewStudyHandler(&mocks.MockStudyService{}, nil)

		rec := httptest.NewRecorder()
		handler.ListDecks(rec, authenticatedRequest(
			t, http.MethodGet, "/api/decks?difficulty=brutal", nil, learner))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetProgressHandler(t *testing.T) {
	t.Parallel()

	learner := domain.Principal{ID: 7, Role: domain.RoleLearner}

	t.Run("returns aggregates", func(t *testing.T) {
		t.Parallel()

		studyService := &mocks.MockStudyService{
			GetProgressFn: func(ctx context.Context, learnerID int64) (*domain.Progress, error) {
				return &domain.Progress{
					LearnerID:    learnerID,
					TrackedCards: 12,
					DueNow:       3,
					AverageEase:  2.41,
					TotalReviews: 57,
				}, nil
			},
		}
		handler := api.NewStudyHandler(studyService, nil)

		rec := httptest.NewRecorder()
		handler.GetProgress(rec, authenticatedRequest(
			t, http.MethodGet, "/api/progress", nil, learner))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			TrackedCards int     `json:"tracked_cards"`
			DueNow       int     `json:"due_now"`
			AverageEase  float64 `json:"average_ease"`
			TotalReviews int     `json:"total_reviews"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 12, resp.TrackedCards)
		assert.Equal(t, 3, resp.DueNow)
		assert.InDelta(t, 2.41, resp.AverageEase, 1e-9)
		assert.Equal(t, 57, resp.TotalReviews)
	})

	t.Run("maps unknown learner to 404", func(t *testing.T) {
		t.Parallel()

		studyService := &mocks.MockStudyService{
			GetProgressFn: func(ctx context.Context, learnerID int64) (*domain.Progress, error) {
				return nil, store.ErrLearnerNotFound
			},
		}
		handler := api.NewStudyHandler(studyService, nil)

		rec := httptest.NewRecorder()
		handler.GetProgress(rec, authenticatedRequest(
			t, http.MethodGet, "/api/progress", nil, learner))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
