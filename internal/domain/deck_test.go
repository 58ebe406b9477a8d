package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdeck/quizdeck-api/internal/domain"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()

	t.Run("creates valid deck with zero cards", func(t *testing.T) {
		t.Parallel()

		deck, err := domain.NewDeck(
			"Algebra Basics", "Linear equations", domain.SubjectMath, domain.DifficultyEasy)
		require.NoError(t, err)

		assert.Equal(t, "Algebra Basics", deck.Name)
		assert.Equal(t, domain.SubjectMath, deck.Subject)
		assert.Equal(t, domain.DifficultyEasy, deck.Difficulty)
		assert.Zero(t, deck.CardCount)
		assert.False(t, deck.CreatedAt.IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewDeck("", "", domain.SubjectMath, domain.DifficultyEasy)
		assert.ErrorIs(t, err, domain.ErrDeckNameEmpty)
	})

	t.Run("rejects unknown subject", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewDeck("Decks", "", domain.Subject("astrology"), domain.DifficultyEasy)
		assert.ErrorIs(t, err, domain.ErrDeckSubjectInvalid)
	})

	t.Run("rejects unknown difficulty", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewDeck("Decks", "", domain.SubjectMath, domain.Difficulty("brutal"))
		assert.ErrorIs(t, err, domain.ErrDeckDifficultyInvalid)
	})
}

func TestSubjectIsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []domain.Subject{
		domain.SubjectMath, domain.SubjectScience, domain.SubjectLanguage,
		domain.SubjectHistory, domain.SubjectGeography, domain.SubjectArts,
	} {
		assert.True(t, s.IsValid(), "subject %q should be valid", s)
	}

	assert.False(t, domain.Subject("").IsValid())
	assert.False(t, domain.Subject("philosophy").IsValid())
}

func TestDifficultyIsValid(t *testing.T) {
	t.Parallel()

	for _, d := range []domain.Difficulty{
		domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard,
	} {
		assert.True(t, d.IsValid(), "difficulty %q should be valid", d)
	}

	assert.False(t, domain.Difficulty("").IsValid())
	assert.False(t, domain.Difficulty("Easy").IsValid())
}
