package mocks

import (
	"context"

	"github.com/quizdeck/quizdeck-api/internal/generation"
)

// Interface compliance check
var _ generation.Generator = (*MockGenerator)(nil)

// MockGenerator implements generation.Generator for testing.
type MockGenerator struct {
	GenerateCardsFn func(ctx context.Context, req generation.Request) ([]generation.CardDraft, error)

	// Default response values used when GenerateCardsFn is unset.
	Drafts []generation.CardDraft
	Err    error
}

func (m *MockGenerator) GenerateCards(
	ctx context.Context,
	req generation.Request,
) ([]generation.CardDraft, error) {
	if m.GenerateCardsFn != nil {
		return m.GenerateCardsFn(ctx, req)
	}
	return m.Drafts, m.Err
}
