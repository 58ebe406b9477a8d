package domain

import (
	"errors"
	"time"
)

// Deck-specific validation errors
var (
	// ErrDeckNameEmpty is returned when a deck name is empty.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")

	// ErrDeckSubjectInvalid is returned when a deck subject is not a known subject.
	ErrDeckSubjectInvalid = errors.New("deck subject is not valid")

	// ErrDeckDifficultyInvalid is returned when a deck difficulty is not easy, medium, or hard.
	ErrDeckDifficultyInvalid = errors.New("deck difficulty must be easy, medium, or hard")
)

// Subject classifies a deck by the area of study it covers.
type Subject string

// Known subject values
const (
	SubjectMath      Subject = "math"
	SubjectScience   Subject = "science"
	SubjectLanguage  Subject = "language"
	SubjectHistory   Subject = "history"
	SubjectGeography Subject = "geography"
	SubjectArts      Subject = "arts"
)

// IsValid reports whether the subject is one of the known values.
func (s Subject) IsValid() bool {
	switch s {
	case SubjectMath, SubjectScience, SubjectLanguage,
		SubjectHistory, SubjectGeography, SubjectArts:
		return true
	}
	return false
}

// Difficulty is the difficulty tier of a deck.
type Difficulty string

// Possible difficulty values
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether the difficulty is one of the known tiers.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Deck groups cards by subject and difficulty tier.
//
// CardCount is a denormalized cache of the number of schedulable cards
// (approved and not soft-deleted) in the deck. It is recomputed from the
// cards table whenever deck membership changes and must never be trusted
// as a source of truth or adjusted incrementally.
//
// Decks are never hard-deleted; a deck with zero live cards is inert.
type Deck struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Subject     Subject    `json:"subject"`
	Difficulty  Difficulty `json:"difficulty"`
	CardCount   int        `json:"card_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewDeck creates a new Deck with the given attributes and zero cards.
// The ID is assigned by the store on insert.
// Returns an error if validation fails.
func NewDeck(name, description string, subject Subject, difficulty Difficulty) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		Name:        name,
		Description: description,
		Subject:     subject,
		Difficulty:  difficulty,
		CardCount:   0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d *Deck) Validate() error {
	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	if !d.Subject.IsValid() {
		return ErrDeckSubjectInvalid
	}

	if !d.Difficulty.IsValid() {
		return ErrDeckDifficultyInvalid
	}

	return nil
}
