package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quizdeck/quizdeck-api/internal/domain"
	"github.com/quizdeck/quizdeck-api/internal/platform/logger"
	"github.com/quizdeck/quizdeck-api/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the
// DeckStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// Create implements store.DeckStore.Create
// It inserts a new deck and populates its generated ID.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("name", deck.Name))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO decks (name, description, subject, difficulty, card_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		deck.Name,
		deck.Description,
		string(deck.Subject),
		string(deck.Difficulty),
		deck.CardCount,
		deck.CreatedAt,
		deck.UpdatedAt,
	).Scan(&deck.ID)

	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("name", deck.Name))
		return err
	}

	log.Info("deck created successfully",
		slog.Int64("deck_id", deck.ID),
		slog.String("subject", string(deck.Subject)))
	return nil
}

// GetByID implements store.DeckStore.GetByID
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id int64) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, subject, difficulty, card_count, created_at, updated_at
		FROM decks
		WHERE id = $1
	`

	deck, err := scanDeck(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.Int64("deck_id", id))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", id))
		return nil, err
	}

	return deck, nil
}

// List implements store.DeckStore.List
// Zero-value filter fields are ignored; PreferredSubjects and Subject
// combine as a union of acceptable subjects.
func (s *PostgresDeckStore) List(ctx context.Context, filter store.DeckFilter) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		conds []string
		args  []any
	)

	subjects := make([]string, 0, len(filter.PreferredSubjects)+1)
	if filter.Subject != "" {
		subjects = append(subjects, string(filter.Subject))
	}
	for _, subj := range filter.PreferredSubjects {
		subjects = append(subjects, string(subj))
	}
	if len(subjects) > 0 {
		placeholders := make([]string, len(subjects))
		for i, subj := range subjects {
			args = append(args, subj)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, fmt.Sprintf("subject IN (%s)", strings.Join(placeholders, ", ")))
	}

	if filter.Difficulty != "" {
		args = append(args, string(filter.Difficulty))
		conds = append(conds, fmt.Sprintf("difficulty = $%d", len(args)))
	}

	query := `
		SELECT id, name, description, subject, difficulty, card_count, created_at, updated_at
		FROM decks
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list decks", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var decks []*domain.Deck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row", slog.String("error", err.Error()))
			return nil, err
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return decks, nil
}

// RecomputeCardCount implements store.DeckStore.RecomputeCardCount
// The count is always derived from a fresh recount of live cards; the
// stored value is a cache, never incremented in place.
func (s *PostgresDeckStore) RecomputeCardCount(ctx context.Context, deckID int64) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE decks
		SET card_count = (
			SELECT COUNT(*)
			FROM cards
			WHERE cards.deck_id = decks.id
			  AND cards.approved = TRUE
			  AND cards.deleted_at IS NULL
		),
		updated_at = $2
		WHERE id = $1
		RETURNING card_count
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, deckID, time.Now().UTC()).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found for recount", slog.Int64("deck_id", deckID))
			return 0, store.ErrDeckNotFound
		}
		log.Error("failed to recompute deck card count",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return 0, err
	}

	log.Debug("deck card count recomputed",
		slog.Int64("deck_id", deckID),
		slog.Int("card_count", count))
	return count, nil
}

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*domain.Deck, error) {
	var (
		deck       domain.Deck
		subject    string
		difficulty string
	)
	err := row.Scan(
		&deck.ID,
		&deck.Name,
		&deck.Description,
		&subject,
		&difficulty,
		&deck.CardCount,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	deck.Subject = domain.Subject(subject)
	deck.Difficulty = domain.Difficulty(difficulty)
	return &deck, nil
}
