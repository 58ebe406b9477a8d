package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdeck/quizdeck-api/internal/config"
	"github.com/quizdeck/quizdeck-api/internal/domain"
)

const testSecret = "test-secret-key-thats-long-enough-for-hmac"

func newTestService(t *testing.T) *hmacJWTService {
	t.Helper()

	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	impl, ok := svc.(*hmacJWTService)
	require.True(t, ok)
	return impl
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "too-short",
			TokenLifetimeMinutes: 60,
		})
		assert.Error(t, err)
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	principal := domain.Principal{ID: 42, Role: domain.RoleModerator}

	token, err := svc.GenerateToken(ctx, principal)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.LearnerID)
	assert.Equal(t, domain.RoleModerator, claims.Role)
	assert.Equal(t, principal, claims.Principal())
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	issued := time.Now().UTC()
	svc.timeFunc = func() time.Time { return issued }

	token, err := svc.GenerateToken(ctx, domain.Principal{ID: 1, Role: domain.RoleLearner})
	require.NoError(t, err)

	// Move past the lifetime plus the allowed clock skew.
	svc.timeFunc = func() time.Time {
		return issued.Add(svc.tokenLifetime + svc.clockSkew + time.Minute)
	}

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWithinClockSkew(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	issued := time.Now().UTC()
	svc.timeFunc = func() time.Time { return issued }

	token, err := svc.GenerateToken(ctx, domain.Principal{ID: 1, Role: domain.RoleLearner})
	require.NoError(t, err)

	// Just past expiry but inside the skew allowance.
	svc.timeFunc = func() time.Time {
		return issued.Add(svc.tokenLifetime + time.Minute)
	}

	_, err = svc.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, domain.Principal{ID: 1, Role: domain.RoleLearner})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = svc.ValidateToken(ctx, tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	other, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "another-secret-key-thats-also-long-enough",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	token, err := other.GenerateToken(ctx, domain.Principal{ID: 1, Role: domain.RoleLearner})
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenMissing(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	_, err := svc.ValidateToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsInvalidPrincipalClaims(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, domain.Principal{ID: 1, Role: domain.Role("superuser")})
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
