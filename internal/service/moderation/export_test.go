package moderation

import (
	"context"

	"github.com/quizdeck/quizdeck-api/internal/store"
)

// SetTxRunner replaces the service's transaction runner so tests can run
// moderation batches against repository mocks without a live database.
func SetTxRunner(s Service, runTx func(ctx context.Context, fn store.TxFn) error) {
	s.(*moderationServiceImpl).runTx = runTx
}
