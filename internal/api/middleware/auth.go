package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/quizdeck/quizdeck-api/internal/api/shared"
	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/redact"
	"github.com/quizdeck/quizdeck-api/internal/service/auth"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService   auth.JWTService
	learnerStore store.LearnerStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, learnerStore store.LearnerStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		learnerStore: learnerStore,
	}
}

// Authenticate validates JWT tokens from the Authorization header and
// adds the resolved principal to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			switch err {
			case auth.ErrExpiredToken:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case auth.ErrInvalidToken, auth.ErrTokenNotYetValid, auth.ErrMissingToken:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(
					w,
					r,
					http.StatusInternalServerError,
					"Authentication error",
				)
			}
			return
		}

		principal := claims.Principal()

		// Keep the local learner mirror current with the validated token.
		// Identity is issued externally; this row is what lets the sync
		// and study services distinguish an unknown learner from one with
		// no schedule yet, and what the review state foreign keys point at.
		learner := &domain.Learner{ID: principal.ID, Role: principal.Role}
		if err := m.learnerStore.Upsert(r.Context(), learner); err != nil {
			slog.Error("failed to upsert learner mirror",
				"error", redact.Error(err),
				"learner_id", principal.ID)
			shared.RespondWithError(
				w,
				r,
				http.StatusInternalServerError,
				"Authentication error",
			)
			return
		}

		ctx := shared.SetPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
