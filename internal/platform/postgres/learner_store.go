package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/platform/logger"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// PostgresLearnerStore implements the store.LearnerStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLearnerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearnerStore creates a new PostgreSQL implementation of the
// LearnerStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresLearnerStore(db store.DBTX, logger *slog.Logger) *PostgresLearnerStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearnerStore{
		db:     db,
		logger: logger.With(slog.String("component", "learner_store")),
	}
}

// Ensure PostgresLearnerStore implements store.LearnerStore interface
var _ store.LearnerStore = (*PostgresLearnerStore)(nil)

// Upsert implements store.LearnerStore.Upsert
// Identity is owned by the external auth system; this keeps the local
// mirror current with whatever role the token carried last.
func (s *PostgresLearnerStore) Upsert(ctx context.Context, learner *domain.Learner) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if learner.CreatedAt.IsZero() {
		learner.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO learners (id, role, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role
	`
	_, err := s.db.ExecContext(ctx, query, learner.ID, string(learner.Role), learner.CreatedAt)
	if err != nil {
		log.Error("failed to upsert learner",
			slog.String("error", err.Error()),
			slog.Int64("learner_id", learner.ID))
		return err
	}

	return nil
}

// Exists implements store.LearnerStore.Exists
func (s *PostgresLearnerStore) Exists(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM learners WHERE id = $1)`
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		log.Error("failed to check learner existence",
			slog.String("error", err.Error()),
			slog.Int64("learner_id", id))
		return false, err
	}

	return exists, nil
}

// WithTx implements store.LearnerStore.WithTx
func (s *PostgresLearnerStore) WithTx(tx *sql.Tx) store.LearnerStore {
	return &PostgresLearnerStore{
		db:     tx,
		logger: s.logger,
	}
}
