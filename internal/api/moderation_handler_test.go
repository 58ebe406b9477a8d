package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdeck/quizdeck-api/internal/api"
	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/mocks"
	"github.com/quizdeck/quizdeck-api/internal/service"
	"github.com/quizdeck/quizdeck-api/internal/service/moderation"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

var (
	testTeacher   = domain.Principal{ID: 1, Role: domain.RoleTeacher}
	testLearner   = domain.Principal{ID: 2, Role: domain.RoleLearner}
	testModerator = domain.Principal{ID: 3, Role: domain.RoleModerator}
)

// moderationRouter mounts the handler's deck-scoped routes so URL
// parameters resolve the way they do in the real router.
func moderationRouter(handler *api.ModerationHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/decks", handler.CreateDeck)
	r.Post("/api/decks/{deckID}/cards", handler.CreateCard)
	r.Post("/api/decks/{deckID}/generate", handler.GenerateCards)
	r.Post("/api/cards/moderate", handler.ModerateCards)
	return r
}

func TestCreateDeckHandler(t *testing.T) {
	t.Parallel()

	t.Run("creates deck", func(t *testing.T) {
		t.Parallel()

		moderationService := &mocks.MockModerationService{
			CreateDeckFn: func(ctx context.Context, principal domain.Principal, name, description string, subject domain.Subject, difficulty domain.Difficulty) (*domain.Deck, error) {
				assert.Equal(t, testTeacher, principal)
				return &domain.Deck{
					ID: 11, Name: name, Description: description,
					Subject: subject, Difficulty: difficulty,
				}, nil
			},
		}
		router := moderationRouter(api.NewModerationHandler(moderationService, nil))

		body := []byte(`{"name":"Algebra","description":"Linear equations","subject":"math","difficulty":"easy"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authenticatedRequest(t, http.MethodPost, "/api/decks", body, testTeacher))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			ID      int64  `json:"id"`
			Subject string `json:"subject"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(11), resp.ID)
		assert.Equal(t, "math", resp.Subject)
	})

	t.Run("rejects unknown subject before the service", func(t *testing.T) {
		t.Parallel()

		router := moderationRouter(api.NewModerationHandler(&mocks.MockModerationService{}, nil))

		body := []byte(`{"name":"Decks","subject":"astrology","difficulty":"easy"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authenticatedRequest(t, http.MethodPost, "/api/decks", body, testTeacher))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps forbidden to 403", func(t *testing.T) {
		t.Parallel()

		moderationService := &mocks.MockModerationService{
			CreateDeckFn: func(ctx context.Context, principal domain.Principal, name, description string, subject domain.Subject, difficulty domain.Difficulty) (*domain.Deck, error) {
				return nil, service.ErrForbidden
			},
		}
		router := moderationRouter(api.NewModerationHandler(moderationService, nil))

		body := []byte(`{"name":"Algebra","subject":"math","difficulty":"easy"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authenticatedRequest(t, http.MethodPost, "/api/decks", body, testLearner))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestCreateCardHandler(t *testing.T) {
	t.Parallel()

	t.Run("creates draft card in deck from URL", func(t *testing.T) {
		t.Parallel()

		moderationService := &mocks.MockModerationService{
			CreateDraftCardFn: func(ctx context.Context, principal domain.Principal, deckID int64, front, back, imageURL string) (*domain.Card, error) {
				assert.Equal(t, int64(5), deckID)
				return &domain.Card{ID: 21, DeckID: deckID, Front: front, Back: back}, nil
			},
		}
		router := moderationRouter(api.NewModerationHandler(moderationService, nil))

		body := []byte(`{"front":"2+2?","back":"4"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authenticatedRequest(
			t, http.MethodPost, "/api/decks/5/cards", body, testTeacher))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			ID       int64 `json:"id"`
			Approved bool  `json:"approved"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(21), resp.ID)
		assert.False(t, resp.Approved)
	})

	t.Run("rejects non-numeric deck ID", func(t *testing.T) {
		t.Parallel()

		router := moderationRouter(api.NewModerationHandler(&mocks.MockModerationService{}, nil))

		body := []byte(`{"front":"f","back":"b"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authenticatedRequest(
			t, http.MethodPost, "/api/decks/abc/cards", body, testTeacher))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps unknown deck to 404", func(t *testing.T) {
		t.Parallel()

		moderationService := &mocks.MockModerationService{
			CreateDraftCardFn: func(ctx context.Context, principal domain.Principal, deckID int64, front, back, imageURL string) (*domain.Card, error) {
				return nil, store.ErrDeckNotFound
			},
		}
		router := moderationRouter(api.NewModerationHandler(moderationService, nil))

		body := []byte(`{"front":"f","back":"b"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authenticatedRequest(
			t, http.MethodPost, "/api/decks/999/cards", body, testTeacher))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGenerateCardsHandler(t *testing.T) {
	t.Parallel()

	t.Run("returns generated drafts", func(t *testing.T) {
		t.Parallel()

		moderationService := &mocks.MockModerationService{
			GenerateDraftsFn: func(ctx context.Context, principal domain.Principal, deckID int64, topic string, count int) ([]*domain.Card, error) {
				assert.Equal(t, int64(5), deckID)
				assert.Equal(t, "fractions", topic)
				assert.Equal(t, 3, count)
				return []*domain.Card{
					{ID: 31, DeckID: deckID, Front: "1/2 + 1/2?", Back: "1"},
				}, nil
			},
		}
		router := moderationRouter(api.NewModerationHandler(moderationService, nil))

		body := []byte(`{"topic":"fractions","count":3}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authenticatedRequest(
			t, http.MethodPost, "/api/decks/5/generate", body, testTeacher))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Cards []struct {
				ID int64 `json:"id"`
			} `json:"cards"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Cards, 1)
	})

	t.Run("rejects missing topic", func(t *testing.T) {
		t.Parallel()

		router := moderationRouter(api.NewModerationHandler(&mocks.MockModerationService{}, nil))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authenticatedRequest(
			t, http.MethodPost, "/api/decks/5/generate", []byte(`{"count":3}`), testTeacher))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestModerateCardsHandler(t *testing.T) {
	t.Parallel()

	t.Run("applies batch decision", func(t *testing.T) {
		t.Parallel()

		moderationService := &mocks.MockModerationService{
			ModerateFn: func(ctx context.Context, principal domain.Principal, cardIDs []int64, decision domain.ModerationDecision) (*moderation.Result, error) {
				assert.Equal(t, []int64{1, 2, 3}, cardIDs)
				assert.Equal(t, domain.DecisionApprove, decision)
				return &moderation.Result{
					ApprovedIDs: []int64{1, 2},
					SkippedIDs:  []int64{3},
					CardCounts:  map[int64]int{5: 7},
				}, nil
			},
		}
		router := moderationRouter(api.NewModerationHandler(moderationService, nil))

		body := []byte(`{"card_ids":[1,2,3],"decision":"approve"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authenticatedRequest(
			t, http.MethodPost, "/api/cards/moderate", body, testModerator))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			ApprovedIDs []int64        `json:"approved_ids"`
			SkippedIDs  []int64        `json:"skipped_ids"`
			CardCounts  map[string]int `json:"card_counts"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []int64{1, 2}, resp.ApprovedIDs)
		assert.Equal(t, []int64{3}, resp.SkippedIDs)
		assert.Equal(t, 7, resp.CardCounts["5"])
	})

	t.Run("maps invalid decision to 400", func(t *testing.T) {
		t.Parallel()

		moderationService := &mocks.MockModerationService{
			ModerateFn: func(ctx context.Context, principal domain.Principal, cardIDs []int64, decision domain.ModerationDecision) (*moderation.Result, error) {
				return nil, moderation.ErrInvalidDecision
			},
		}
		router := moderationRouter(api.NewModerationHandler(moderationService, nil))

		body := []byte(`{"card_ids":[1],"decision":"defer"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authenticatedRequest(
			t, http.MethodPost, "/api/cards/moderate", body, testModerator))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty id list before the service", func(t *testing.T) {
		t.Parallel()

		router := moderationRouter(api.NewModerationHandler(&mocks.MockModerationService{}, nil))

		body := []byte(`{"card_ids":[],"decision":"approve"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authenticatedRequest(
			t, http.MethodPost, "/api/cards/moderate", body, testModerator))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
