package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdeck/quizdeck-api/internal/api"
	"github.com/quizdeck/quizdeck-api/internal/api/shared"
	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/mocks"
	"github.com/quizdeck/quizdeck-api/internal/service/review_sync"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

func authenticatedRequest(t *testing.T, method, target string, body []byte, principal domain.Principal) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := shared.SetPrincipal(req.Context(), principal)
	return req.WithContext(ctx)
}

func TestSyncReviewsHandler(t *testing.T) {
	t.Parallel()

	learner := domain.Principal{ID: 7, Role: domain.RoleLearner}

	t.Run("returns per-event outcomes", func(t *testing.T) {
		t.Parallel()

		syncService := &mocks.MockSyncService{
			SyncReviewsFn: func(ctx context.Context, learnerID int64, events []review_sync.ReviewEvent) (*review_sync.Result, error) {
				assert.Equal(t, int64(7), learnerID)
				require.Len(t, events, 2)
				assert.Equal(t, int64(1), events[0].CardID)
				assert.Equal(t, 5, events[0].Quality)

				return &review_sync.Result{
					SyncedCount: 1,
					Results: []review_sync.EventResult{
						{CardID: 1, Status: review_sync.StatusSynced},
						{CardID: 2, Status: review_sync.StatusFailed, Reason: review_sync.ReasonCardNotFound},
					},
				}, nil
			},
		}
		handler := api.NewSyncHandler(syncService, nil)

		body, err := json.Marshal(map[string]interface{}{
			"reviews": []map[string]interface{}{
				{"card_id": 1, "quality": 5, "reviewed_at": time.Now().UTC()},
				{"card_id": 2, "quality": 3, "reviewed_at": time.Now().UTC()},
			},
		})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		handler.SyncReviews(rec, authenticatedRequest(t, http.MethodPost, "/api/reviews/sync", body, learner))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			SyncedCount int `json:"synced_count"`
			Results     []struct {
				CardID int64  `json:"card_id"`
				Status string `json:"status"`
				Reason string `json:"reason"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.SyncedCount)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "synced", resp.Results[0].Status)
		assert.Equal(t, "failed", resp.Results[1].Status)
		assert.Equal(t, "card_not_found", resp.Results[1].Reason)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()

		handler := api.NewSyncHandler(&mocks.MockSyncService{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reviews/sync", bytes.NewReader(nil))
		rec := httptest.NewRecorder()
		handler.SyncReviews(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		t.Parallel()

		handler := api.NewSyncHandler(&mocks.MockSyncService{}, nil)

		rec := httptest.NewRecorder()
		handler.SyncReviews(rec, authenticatedRequest(
			t, http.MethodPost, "/api/reviews/sync", []byte("{not json"), learner))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		t.Parallel()

		handler := api.NewSyncHandler(&mocks.MockSyncService{}, nil)

		rec := httptest.NewRecorder()
		handler.SyncReviews(rec, authenticatedRequest(
			t, http.MethodPost, "/api/reviews/sync", []byte(`{"reviews":[]}`), learner))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps unknown learner to 404", func(t *testing.T) {
		t.Parallel()

		syncService := &mocks.MockSyncService{
			SyncReviewsFn: func(ctx context.Context, learnerID int64, events []review_sync.ReviewEvent) (*review_sync.Result, error) {
				return nil, store.ErrLearnerNotFound
			},
		}
		handler := api.NewSyncHandler(syncService, nil)

		body := []byte(`{"reviews":[{"card_id":1,"quality":4,"reviewed_at":"2026-08-29T10:00:00Z"}]}`)
		rec := httptest.NewRecorder()
		handler.SyncReviews(rec, authenticatedRequest(
			t, http.MethodPost, "/api/reviews/sync", body, learner))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
