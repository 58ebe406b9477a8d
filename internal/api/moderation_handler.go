package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quizdeck/quizdeck-api/internal/api/shared"
	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/platform/logger"
	"github.com/quizdeck/quizdeck-api/internal/service/moderation"
)

// ModerationHandler handles the authoring and moderation endpoints:
// deck creation, draft cards (human and AI-generated), and moderation
// decisions.
type ModerationHandler struct {
	moderationService moderation.Service
	logger            *slog.Logger
}

// NewModerationHandler creates a new ModerationHandler with the given
// dependencies.
func NewModerationHandler(moderationService moderation.Service, log *slog.Logger) *ModerationHandler {
	if moderationService == nil {
		panic("moderationService cannot be nil") // ALLOW-PANIC
	}
	if log == nil {
		log = slog.Default()
	}
	return &ModerationHandler{
		moderationService: moderationService,
		logger:            log.With(slog.String("component", "moderation_handler")),
	}
}

// CreateDeck handles POST /api/decks.
func (h *ModerationHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	principal, ok := shared.GetPrincipal(ctx)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateDeckRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	subject := domain.Subject(req.Subject)
	if !subject.IsValid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown subject")
		return
	}
	difficulty := domain.Difficulty(req.Difficulty)
	if !difficulty.IsValid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown difficulty")
		return
	}

	deck, err := h.moderationService.CreateDeck(
		ctx, principal, req.Name, req.Description, subject, difficulty)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("deck created",
		slog.Int64("deck_id", deck.ID),
		slog.Int64("author_id", principal.ID))

	shared.RespondWithJSON(w, r, http.StatusCreated, toDeckResponse(deck))
}

// CreateCard handles POST /api/decks/{deckID}/cards. The new card is an
// unapproved draft until a moderator approves it.
func (h *ModerationHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := shared.GetPrincipal(ctx)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	deckID, err := deckIDFromURL(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	var req CreateCardRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	card, err := h.moderationService.CreateDraftCard(
		ctx, principal, deckID, req.Front, req.Back, req.ImageURL)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, toCardResponse(card))
}

// GenerateCards handles POST /api/decks/{deckID}/generate. Generated
// drafts enter the same moderation queue as human-authored cards.
func (h *ModerationHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	principal, ok := shared.GetPrincipal(ctx)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	deckID, err := deckIDFromURL(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
		return
	}

	var req GenerateCardsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	cards, err := h.moderationService.GenerateDrafts(ctx, principal, deckID, req.Topic, req.Count)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("draft cards generated",
		slog.Int64("deck_id", deckID),
		slog.String("topic", req.Topic),
		slog.Int("draft_count", len(cards)))

	shared.RespondWithJSON(w, r, http.StatusCreated, GenerateCardsResponse{
		Cards: toCardResponses(cards),
	})
}

// ModerateCards handles POST /api/cards/moderate.
func (h *ModerationHandler) ModerateCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	principal, ok := shared.GetPrincipal(ctx)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ModerateCardsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	result, err := h.moderationService.Moderate(
		ctx, principal, req.CardIDs, domain.ModerationDecision(req.Decision))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("moderation batch applied",
		slog.Int64("moderator_id", principal.ID),
		slog.String("decision", req.Decision),
		slog.Int("approved", len(result.ApprovedIDs)),
		slog.Int("rejected", len(result.RejectedIDs)),
		slog.Int("skipped", len(result.SkippedIDs)))

	shared.RespondWithJSON(w, r, http.StatusOK, ModerateCardsResponse{
		ApprovedIDs: result.ApprovedIDs,
		RejectedIDs: result.RejectedIDs,
		SkippedIDs:  result.SkippedIDs,
		CardCounts:  result.CardCounts,
	})
}

// deckIDFromURL extracts the deckID path parameter.
func deckIDFromURL(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "deckID"), 10, 64)
}
