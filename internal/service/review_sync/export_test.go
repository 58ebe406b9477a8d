package review_sync

import (
	"context"
	"time"

	"github.com/quizdeck/quizdeck-api/internal/store"
)

// SetTxRunner replaces the service's transaction runner so tests can run
// event application against repository mocks without a live database.
func SetTxRunner(s Service, runTx func(ctx context.Context, fn store.TxFn) error) {
	s.(*syncServiceImpl).runTx = runTx
}

// SetNow replaces the service's clock.
func SetNow(s Service, now func() time.Time) {
	s.(*syncServiceImpl).now = now
}
