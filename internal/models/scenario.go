package models

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty tiers a scenario quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is one of the three accepted values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ScenarioQuestion is one multiple-choice question inside a scenario.
type ScenarioQuestion struct {
	Prompt             string   `json:"prompt"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
}

// Scenario is a generated quiz. It is scored once; CorrectCount is nil until
// then and the record is immutable afterwards — re-submission replays the
// recorded result.
type Scenario struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	Title         string             `json:"title"`
	Difficulty    Difficulty         `json:"difficulty"`
	Questions     []ScenarioQuestion `json:"questions"`
	CorrectCount  *int               `json:"correct_count"`
	PointsAwarded int64              `json:"points_awarded"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Scored reports whether the scenario has already been submitted.
func (s *Scenario) Scored() bool {
	return s.CorrectCount != nil
}
