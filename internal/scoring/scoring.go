// Package scoring converts scenario-quiz results into points. Pure functions
// only; crediting the points is the caller's business.
package scoring

import (
	"fmt"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/models"
)

// Base points awarded for a fully correct scenario, per difficulty.
var basePoints = map[models.Difficulty]int64{
	models.DifficultyEasy:   10,
	models.DifficultyMedium: 20,
	models.DifficultyHard:   30,
}

// Score returns the points for answering correctCount of totalQuestions in a
// scenario of the given difficulty: base points scaled by the correct ratio,
// rounded down. A scenario with no questions is malformed.
func Score(difficulty models.Difficulty, correctCount, totalQuestions int) (int64, error) {
	base, ok := basePoints[difficulty]
	if !ok {
		return 0, errors.NewInvalidScenarioError(fmt.Sprintf("unknown difficulty %q", difficulty))
	}
	if totalQuestions <= 0 {
		return 0, errors.NewInvalidScenarioError("scenario must have at least one question")
	}
	if correctCount < 0 || correctCount > totalQuestions {
		return 0, errors.NewInvalidScenarioError(
			fmt.Sprintf("correct count %d out of range for %d questions", correctCount, totalQuestions))
	}
	return base * int64(correctCount) / int64(totalQuestions), nil
}

// Grade counts correct answers against a scenario's answer key. The answers
// slice must cover every question; a stray option index simply counts as
// wrong.
func Grade(questions []models.ScenarioQuestion, answers []int) (int, error) {
	if len(questions) == 0 {
		return 0, errors.NewInvalidScenarioError("scenario must have at least one question")
	}
	if len(answers) != len(questions) {
		return 0, errors.NewInvalidScenarioError(
			fmt.Sprintf("expected %d answers, got %d", len(questions), len(answers)))
	}

	correct := 0
	for i, q := range questions {
		if answers[i] == q.CorrectOptionIndex {
			correct++
		}
	}
	return correct, nil
}
