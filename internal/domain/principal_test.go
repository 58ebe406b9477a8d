package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quizdeck/quizdeck-api/internal/domain"
)

func TestPrincipalCapabilities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role        domain.Role
		canAuthor   bool
		canModerate bool
	}{
		{domain.RoleLearner, false, false},
		{domain.RoleTeacher, true, false},
		{domain.RoleModerator, false, true},
		{domain.RoleAdmin, true, true},
	}

	for _, tc := range tests {
		p := domain.Principal{ID: 1, Role: tc.role}
		assert.Equal(t, tc.canAuthor, p.CanAuthor(), "CanAuthor for role %q", tc.role)
		assert.Equal(t, tc.canModerate, p.CanModerate(), "CanModerate for role %q", tc.role)
	}
}

func TestRoleIsValid(t *testing.T) {
	t.Parallel()

	for _, r := range []domain.Role{
		domain.RoleLearner, domain.RoleTeacher, domain.RoleModerator, domain.RoleAdmin,
	} {
		assert.True(t, r.IsValid(), "role %q should be valid", r)
	}

	assert.False(t, domain.Role("").IsValid())
	assert.False(t, domain.Role("superuser").IsValid())
}
