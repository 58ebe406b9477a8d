// Package auth validates the bearer tokens issued by the external
// identity service and resolves them into domain principals. Identity
// issuance (registration, login, passwords) is out of scope; this
// system only consumes tokens.
package auth

import (
	"context"

	"github.com/quizdeck/quizdeck-api/internal/domain"
)

// Claims is the decoded, validated content of a bearer token.
type Claims struct {
	LearnerID int64
	Role      domain.Role
}

// Principal converts the claims into the domain principal handed to
// services.
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{ID: c.LearnerID, Role: c.Role}
}

// JWTService defines the interface for token generation and validation.
type JWTService interface {
	// GenerateToken creates a signed token for the given principal.
	// Primarily used by tests and local tooling; production tokens come
	// from the identity service sharing the signing secret.
	GenerateToken(ctx context.Context, principal domain.Principal) (string, error)

	// ValidateToken validates a token and returns its claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, or ErrInvalidToken.
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}
