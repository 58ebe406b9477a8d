package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quizdeck/quizdeck-api/internal/store"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	for _, err := range []error{
		store.ErrNotFound,
		store.ErrDeckNotFound,
		store.ErrCardNotFound,
		store.ErrLearnerNotFound,
		store.ErrReviewStateNotFound,
		fmt.Errorf("loading failed: %w", store.ErrCardNotFound),
	} {
		assert.True(t, store.IsNotFoundError(err), "expected %v to be a not-found error", err)
	}

	assert.False(t, store.IsNotFoundError(nil))
	assert.False(t, store.IsNotFoundError(errors.New("boom")))
	assert.False(t, store.IsNotFoundError(store.ErrInvalidEntity))
}

func TestEntityErrorsAreDistinguishable(t *testing.T) {
	t.Parallel()

	assert.False(t, errors.Is(store.ErrDeckNotFound, store.ErrCardNotFound))
	assert.False(t, errors.Is(store.ErrCardNotFound, store.ErrLearnerNotFound))
}
