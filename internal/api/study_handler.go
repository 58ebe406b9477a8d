package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/quizdeck/quizdeck-api/internal/api/shared"
	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/platform/logger"
	"github.com/quizdeck/quizdeck-api/internal/service/study"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// StudyHandler handles the read-path endpoints: due cards, deck
// listings, and learner progress.
type StudyHandler struct {
	studyService study.Service
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler with the given dependencies.
func NewStudyHandler(studyService study.Service, log *slog.Logger) *StudyHandler {
	if studyService == nil {
		panic("studyService cannot be nil") // ALLOW-PANIC
	}
	if log == nil {
		log = slog.Default()
	}
	return &StudyHandler{
		studyService: studyService,
		logger:       log.With(slog.String("component", "study_handler")),
	}
}

// GetDueCards handles GET /api/cards/due. The optional limit query
// parameter caps the due set; out-of-range values are clamped by the
// service.
func (h *StudyHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := shared.GetPrincipal(ctx)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := study.DefaultDueLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	cards, err := h.studyService.GetDueCards(ctx, principal.ID, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueCardsResponse{Cards: toCardResponses(cards)})
}

// ListDecks handles GET /api/decks. Filters: subject (repeatable or
// comma-separated), difficulty.
func (h *StudyHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := shared.GetPrincipal(ctx); !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter, err := deckFilterFromQuery(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	decks, err := h.studyService.ListDecks(ctx, filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	resp := ListDecksResponse{Decks: make([]DeckResponse, 0, len(decks))}
	for _, dc := range decks {
		deckResp := toDeckResponse(dc.Deck)
		deckResp.Cards = toCardResponses(dc.Cards)
		resp.Decks = append(resp.Decks, deckResp)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetProgress handles GET /api/progress.
func (h *StudyHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	principal, ok := shared.GetPrincipal(ctx)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	progress, err := h.studyService.GetProgress(ctx, principal.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("progress fetched", slog.Int64("learner_id", principal.ID))

	shared.RespondWithJSON(w, r, http.StatusOK, ProgressResponse{
		TrackedCards: progress.TrackedCards,
		DueNow:       progress.DueNow,
		AverageEase:  progress.AverageEase,
		TotalReviews: progress.TotalReviews,
	})
}

// deckFilterFromQuery builds a DeckFilter from query parameters,
// rejecting unknown enum values up front. "subject" narrows to one
// subject; "subjects" takes a comma-separated preference list.
func deckFilterFromQuery(r *http.Request) (store.DeckFilter, error) {
	var filter store.DeckFilter

	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		difficulty := domain.Difficulty(raw)
		if !difficulty.IsValid() {
			return filter, errInvalidQueryParam("difficulty", raw)
		}
		filter.Difficulty = difficulty
	}

	if raw := r.URL.Query().Get("subject"); raw != "" {
		subject := domain.Subject(raw)
		if !subject.IsValid() {
			return filter, errInvalidQueryParam("subject", raw)
		}
		filter.Subject = subject
	}

	if raw := r.URL.Query().Get("subjects"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			subject := domain.Subject(part)
			if !subject.IsValid() {
				return filter, errInvalidQueryParam("subjects", part)
			}
			filter.PreferredSubjects = append(filter.PreferredSubjects, subject)
		}
	}

	return filter, nil
}

type queryParamError struct {
	param string
	value string
}

func errInvalidQueryParam(param, value string) error {
	return &queryParamError{param: param, value: value}
}

func (e *queryParamError) Error() string {
	return "invalid value for " + e.param + ": " + e.value
}
