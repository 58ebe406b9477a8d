package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/platform/logger"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

const cardColumns = `id, deck_id, front, back, image_url, approved, approved_by, approved_at, deleted_at, created_at, updated_at`

// Create implements store.CardStore.Create
// Returns store.ErrDeckNotFound if the owning deck does not exist
// (foreign key violation).
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", card.DeckID))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO cards (deck_id, front, back, image_url, approved, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		card.DeckID,
		card.Front,
		card.Back,
		card.ImageURL,
		card.Approved,
		card.CreatedAt,
		card.UpdatedAt,
	).Scan(&card.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during card creation",
				slog.String("error", err.Error()),
				slog.Int64("deck_id", card.DeckID))
			return fmt.Errorf("%w: deck %d", store.ErrDeckNotFound, card.DeckID)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", card.DeckID))
		return err
	}

	log.Info("card created successfully",
		slog.Int64("card_id", card.ID),
		slog.Int64("deck_id", card.DeckID))
	return nil
}

// GetByID implements store.CardStore.GetByID
// Soft-deleted cards are returned; schedulability filtering is the
// caller's concern. Returns store.ErrCardNotFound if the card does not
// exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.Int64("card_id", id))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return nil, err
	}

	return card, nil
}

// Update implements store.CardStore.Update
// It persists approval, soft-delete, and content fields.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cards
		SET front = $2,
		    back = $3,
		    image_url = NULLIF($4, ''),
		    approved = $5,
		    approved_by = $6,
		    approved_at = $7,
		    deleted_at = $8,
		    updated_at = $9
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.Front,
		card.Back,
		card.ImageURL,
		card.Approved,
		card.ApprovedBy,
		card.ApprovedAt,
		card.DeletedAt,
		card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Debug("card not found for update", slog.Int64("card_id", card.ID))
		return store.ErrCardNotFound
	}

	return nil
}

// ListByDeck implements store.CardStore.ListByDeck
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID int64, onlyLive bool) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE deck_id = $1`
	if onlyLive {
		query += ` AND approved = TRUE AND deleted_at IS NULL`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		log.Error("failed to list cards by deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	return collectCards(rows)
}

// ListDue implements store.CardStore.ListDue
// The join against review_states keeps dangling states (for cards since
// soft-deleted or never approved) out of the due set without cleaning
// them up.
func (s *PostgresCardStore) ListDue(
	ctx context.Context,
	learnerID int64,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.id, c.deck_id, c.front, c.back, c.image_url, c.approved,
		       c.approved_by, c.approved_at, c.deleted_at, c.created_at, c.updated_at
		FROM cards c
		JOIN review_states rs ON rs.card_id = c.id
		WHERE rs.learner_id = $1
		  AND rs.next_due_at <= $2
		  AND c.approved = TRUE
		  AND c.deleted_at IS NULL
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, now, limit)
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.Int64("learner_id", learnerID))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	return collectCards(rows)
}

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card     domain.Card
		imageURL sql.NullString
	)
	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&imageURL,
		&card.Approved,
		&card.ApprovedBy,
		&card.ApprovedAt,
		&card.DeletedAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	card.ImageURL = imageURL.String
	return &card, nil
}

func collectCards(rows *sql.Rows) ([]*domain.Card, error) {
	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
