package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/scoring"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		difficulty models.Difficulty
		correct    int
		total      int
		want       int64
	}{
		{"easy partial", models.DifficultyEasy, 8, 10, 8},
		{"easy perfect", models.DifficultyEasy, 10, 10, 10},
		{"medium half", models.DifficultyMedium, 5, 10, 10},
		{"hard none", models.DifficultyHard, 0, 5, 0},
		{"hard perfect", models.DifficultyHard, 5, 5, 30},
		{"rounds down", models.DifficultyHard, 1, 7, 4}, // 30/7 = 4.28…
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scoring.Score(tt.difficulty, tt.correct, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScore_InvalidScenario(t *testing.T) {
	tests := []struct {
		name       string
		difficulty models.Difficulty
		correct    int
		total      int
	}{
		{"zero questions", models.DifficultyEasy, 0, 0},
		{"negative correct", models.DifficultyMedium, -1, 5},
		{"correct exceeds total", models.DifficultyHard, 6, 5},
		{"unknown difficulty", models.Difficulty("extreme"), 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scoring.Score(tt.difficulty, tt.correct, tt.total)
			require.Error(t, err)
			appErr, ok := err.(*errors.AppError)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeInvalidScenario, appErr.Code)
		})
	}
}

func TestGrade(t *testing.T) {
	questions := []models.ScenarioQuestion{
		{Prompt: "q1", Options: []string{"a", "b"}, CorrectOptionIndex: 0},
		{Prompt: "q2", Options: []string{"a", "b", "c"}, CorrectOptionIndex: 2},
		{Prompt: "q3", Options: []string{"a", "b"}, CorrectOptionIndex: 1},
	}

	correct, err := scoring.Grade(questions, []int{0, 2, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, correct)
}

func TestGrade_AnswerCountMismatch(t *testing.T) {
	questions := []models.ScenarioQuestion{
		{Prompt: "q1", Options: []string{"a", "b"}, CorrectOptionIndex: 0},
	}

	_, err := scoring.Grade(questions, []int{0, 1})
	require.Error(t, err)

	_, err = scoring.Grade(nil, nil)
	require.Error(t, err)
}

func TestGrade_StrayIndexCountsAsWrong(t *testing.T) {
	questions := []models.ScenarioQuestion{
		{Prompt: "q1", Options: []string{"a", "b"}, CorrectOptionIndex: 1},
	}

	correct, err := scoring.Grade(questions, []int{7})
	require.NoError(t, err)
	assert.Equal(t, 0, correct)
}
