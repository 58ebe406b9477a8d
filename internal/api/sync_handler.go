package api

import (
	"log/slog"
	"net/http"

	"github.com/quizdeck/quizdeck-api/internal/api/shared"
	"github.com/quizdeck/quizdeck-api/internal/platform/logger"
	"github.com/quizdeck/quizdeck-api/internal/service/review_sync"
)

// SyncHandler handles review synchronization endpoints.
type SyncHandler struct {
	syncService review_sync.Service
	logger      *slog.Logger
}

// NewSyncHandler creates a new SyncHandler with the given dependencies.
func NewSyncHandler(syncService review_sync.Service, log *slog.Logger) *SyncHandler {
	if syncService == nil {
		panic("syncService cannot be nil") // ALLOW-PANIC
	}
	if log == nil {
		log = slog.Default()
	}
	return &SyncHandler{
		syncService: syncService,
		logger:      log.With(slog.String("component", "sync_handler")),
	}
}

// SyncReviews handles POST /api/reviews/sync. It applies a batch of
// offline review events in submission order and reports a per-event
// outcome; the whole call fails only when the learner is unknown.
func (h *SyncHandler) SyncReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	principal, ok := shared.GetPrincipal(ctx)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SyncReviewsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	events := make([]review_sync.ReviewEvent, 0, len(req.Reviews))
	for _, item := range req.Reviews {
		events = append(events, review_sync.ReviewEvent{
			CardID:     item.CardID,
			Quality:    item.Quality,
			ReviewedAt: item.ReviewedAt,
			ReviewID:   item.ReviewID,
		})
	}

	result, err := h.syncService.SyncReviews(ctx, principal.ID, events)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	resp := SyncReviewsResponse{
		SyncedCount: result.SyncedCount,
		Results:     make([]ReviewResultResponse, 0, len(result.Results)),
	}
	for _, res := range result.Results {
		resp.Results = append(resp.Results, ReviewResultResponse{
			CardID: res.CardID,
			Status: string(res.Status),
			Reason: res.Reason,
		})
	}

	log.Info("review batch synced",
		slog.Int64("learner_id", principal.ID),
		slog.Int("batch_size", len(events)),
		slog.Int("synced_count", result.SyncedCount))

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
