package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdeck/quizdeck-api/internal/domain"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	t.Run("creates unapproved draft", func(t *testing.T) {
		t.Parallel()

		card, err := domain.NewCard(1, "2+2?", "4", "")
		require.NoError(t, err)

		assert.False(t, card.Approved)
		assert.Nil(t, card.ApprovedBy)
		assert.Nil(t, card.ApprovedAt)
		assert.Nil(t, card.DeletedAt)
		assert.False(t, card.Schedulable())
	})

	t.Run("rejects missing deck reference", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCard(0, "front", "back", "")
		assert.ErrorIs(t, err, domain.ErrCardDeckIDEmpty)
	})

	t.Run("rejects empty sides", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCard(1, "", "back", "")
		assert.ErrorIs(t, err, domain.ErrCardFrontEmpty)

		_, err = domain.NewCard(1, "front", "", "")
		assert.ErrorIs(t, err, domain.ErrCardBackEmpty)
	})
}

func TestCardApprove(t *testing.T) {
	t.Parallel()

	card, err := domain.NewCard(1, "front", "back", "")
	require.NoError(t, err)

	now := time.Now().UTC()
	card.Approve(42, now)

	assert.True(t, card.Approved)
	require.NotNil(t, card.ApprovedBy)
	assert.Equal(t, int64(42), *card.ApprovedBy)
	require.NotNil(t, card.ApprovedAt)
	assert.Equal(t, now, *card.ApprovedAt)
	assert.True(t, card.Schedulable())
}

func TestCardReject(t *testing.T) {
	t.Parallel()

	card, err := domain.NewCard(1, "front", "back", "")
	require.NoError(t, err)

	now := time.Now().UTC()
	card.Reject(now)

	require.NotNil(t, card.DeletedAt)
	assert.Equal(t, now, *card.DeletedAt)
	assert.False(t, card.Schedulable())
}

func TestCardSchedulable(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	// An approved card that was later soft-deleted must never be
	// schedulable, whatever its approval fields say.
	card, err := domain.NewCard(1, "front", "back", "")
	require.NoError(t, err)
	card.Approve(7, now)
	card.Reject(now)

	assert.False(t, card.Schedulable())
}

func TestModerationDecisionIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.DecisionApprove.IsValid())
	assert.True(t, domain.DecisionReject.IsValid())
	assert.False(t, domain.ModerationDecision("").IsValid())
	assert.False(t, domain.ModerationDecision("defer").IsValid())
}
