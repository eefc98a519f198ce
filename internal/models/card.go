package models

import (
	"time"

	"github.com/google/uuid"
)

// Card is a single flashcard with its scheduling state. Scheduling fields are
// mutated only by the scheduler; a nil DueAt means the card has never been
// scheduled and is immediately due.
type Card struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	DeckID       uuid.UUID  `json:"deck_id"`
	FrontText    string     `json:"front_text"`
	BackText     string     `json:"back_text"`
	EaseFactor   float64    `json:"ease_factor"`
	IntervalDays int        `json:"interval_days"`
	DueAt        *time.Time `json:"due_at"`
	ReviewCount  int        `json:"review_count"`
	LapseCount   int        `json:"lapse_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DefaultEaseFactor is the ease assigned to newly created cards.
const DefaultEaseFactor = 2.5

// Rating is a self-assessed review outcome.
type Rating string

const (
	RatingEasy      Rating = "easy"
	RatingGood      Rating = "good"
	RatingDifficult Rating = "difficult"
)

// Valid reports whether the rating is one of the three accepted values.
func (r Rating) Valid() bool {
	switch r {
	case RatingEasy, RatingGood, RatingDifficult:
		return true
	}
	return false
}

// ReviewEvent is the ephemeral input to a single review. It is not persisted
// beyond what the resulting ledger transaction references.
type ReviewEvent struct {
	CardID     uuid.UUID `json:"card_id"`
	Rating     Rating    `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Deck groups the cards generated from one source text.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	SourceChars int       `json:"source_chars"`
	CardCount   int       `json:"card_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// CardFilter narrows card listings.
type CardFilter struct {
	UserID  uuid.UUID
	DeckID  uuid.UUID
	DueOnly bool
	Limit   int
	Offset  int
}
