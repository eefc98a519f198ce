package services

import (
	"context"
	goerrors "errors"
	"strings"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/generator"
	"github.com/hsaleh/murajaa/internal/ledger"
	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
	"github.com/hsaleh/murajaa/internal/scoring"
)

// SubmitResult is the outcome of a scenario submission.
type SubmitResult struct {
	CorrectCount   int   `json:"correct_count"`
	TotalQuestions int   `json:"total_questions"`
	PointsEarned   int64 `json:"points_earned"`
	NewBalance     int64 `json:"new_balance"`
}

// ScenarioService handles scenario generation and scoring
type ScenarioService interface {
	GenerateScenario(ctx context.Context, userID uuid.UUID, sourceText string, difficulty models.Difficulty, questionCount int) (*models.Scenario, error)
	GetScenario(ctx context.Context, userID, scenarioID uuid.UUID) (*models.Scenario, error)
	ListScenarios(ctx context.Context, userID uuid.UUID) ([]models.Scenario, error)
	SubmitAnswers(ctx context.Context, userID, scenarioID uuid.UUID, answers []int) (*SubmitResult, error)
}

type scenarioService struct {
	scenarios repository.ScenarioRepository
	accounts  repository.AccountRepository
	ledger    *ledger.Ledger
	gen       generator.Generator
}

// NewScenarioService creates a new ScenarioService
func NewScenarioService(scenarios repository.ScenarioRepository, accounts repository.AccountRepository, l *ledger.Ledger, gen generator.Generator) ScenarioService {
	return &scenarioService{scenarios: scenarios, accounts: accounts, ledger: l, gen: gen}
}

func (s *scenarioService) GenerateScenario(ctx context.Context, userID uuid.UUID, sourceText string, difficulty models.Difficulty, questionCount int) (*models.Scenario, error) {
	log := logger.FromContext(ctx)

	if !difficulty.Valid() {
		return nil, errors.NewValidationError("difficulty", "must be 'easy', 'medium', or 'hard'")
	}
	sourceText = strings.TrimSpace(sourceText)
	if sourceText == "" {
		return nil, errors.NewValidationError("source_text", "must not be empty")
	}
	if questionCount <= 0 || questionCount > 20 {
		questionCount = 5
	}

	generated, err := s.gen.GenerateScenario(ctx, sourceText, string(difficulty), questionCount)
	if err != nil {
		log.Error("scenario generation failed: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if len(generated.Questions) == 0 {
		return nil, errors.NewInvalidScenarioError("generation produced no questions")
	}

	questions := make([]models.ScenarioQuestion, 0, len(generated.Questions))
	for _, q := range generated.Questions {
		if len(q.Options) < 2 || q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return nil, errors.NewInvalidScenarioError("generation produced a malformed question")
		}
		questions = append(questions, models.ScenarioQuestion{
			Prompt:             q.Prompt,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectOptionIndex,
		})
	}

	scenario := models.Scenario{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      generated.Title,
		Difficulty: difficulty,
		Questions:  questions,
	}
	if err := s.scenarios.Insert(ctx, scenario); err != nil {
		log.Error("failed to insert scenario: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("scenario created: id=%s, difficulty=%s, questions=%d", scenario.ID, difficulty, len(questions))
	return &scenario, nil
}

func (s *scenarioService) GetScenario(ctx context.Context, userID, scenarioID uuid.UUID) (*models.Scenario, error) {
	scenario, err := s.scenarios.Get(ctx, scenarioID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if scenario == nil || scenario.UserID != userID {
		return nil, errors.NewNotFoundError("scenario", scenarioID)
	}
	return scenario, nil
}

func (s *scenarioService) ListScenarios(ctx context.Context, userID uuid.UUID) ([]models.Scenario, error) {
	scenarios, err := s.scenarios.List(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return scenarios, nil
}

// SubmitAnswers grades the answers, records the result, and credits the
// points. A scenario is scored exactly once: a second submission replays the
// recorded result regardless of the answers sent with it.
func (s *scenarioService) SubmitAnswers(ctx context.Context, userID, scenarioID uuid.UUID, answers []int) (*SubmitResult, error) {
	log := logger.FromContext(ctx)

	scenario, err := s.GetScenario(ctx, userID, scenarioID)
	if err != nil {
		return nil, err
	}
	if scenario.Scored() {
		return s.replay(ctx, scenario)
	}

	correct, err := scoring.Grade(scenario.Questions, answers)
	if err != nil {
		return nil, err
	}
	points, err := scoring.Score(scenario.Difficulty, correct, len(scenario.Questions))
	if err != nil {
		return nil, err
	}

	if err := s.scenarios.MarkScored(ctx, scenarioID, correct, points); err != nil {
		if goerrors.Is(err, repository.ErrAlreadyScored) {
			// Lost a race to a concurrent submission; answer from the record.
			stored, getErr := s.GetScenario(ctx, userID, scenarioID)
			if getErr != nil {
				return nil, getErr
			}
			return s.replay(ctx, stored)
		}
		log.Error("failed to record scenario score: %v", err)
		return nil, errors.NewInternalError(err)
	}

	balance, err := s.creditPoints(ctx, scenario, points)
	if err != nil {
		return nil, err
	}

	log.Info("scenario scored: id=%s, correct=%d/%d, points=%d", scenarioID, correct, len(scenario.Questions), points)
	return &SubmitResult{
		CorrectCount:   correct,
		TotalQuestions: len(scenario.Questions),
		PointsEarned:   points,
		NewBalance:     balance,
	}, nil
}

// replay answers a re-submission from the stored score. The credit replays
// under the scenario's idempotency key, so coins move at most once.
func (s *scenarioService) replay(ctx context.Context, scenario *models.Scenario) (*SubmitResult, error) {
	balance, err := s.creditPoints(ctx, scenario, scenario.PointsAwarded)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{
		CorrectCount:   *scenario.CorrectCount,
		TotalQuestions: len(scenario.Questions),
		PointsEarned:   scenario.PointsAwarded,
		NewBalance:     balance,
	}, nil
}

// creditPoints moves the awarded points through the ledger. A zero award has
// no transaction to record; the current balance is read instead.
func (s *scenarioService) creditPoints(ctx context.Context, scenario *models.Scenario, points int64) (int64, error) {
	if points > 0 {
		return s.ledger.Credit(ctx, scenario.UserID, points, models.KindScenarioReward,
			scenario.ID.String(), "scenario:"+scenario.ID.String())
	}

	account, err := s.accounts.Get(ctx, scenario.UserID)
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	if account == nil {
		return 0, errors.NewNotFoundError("account", scenario.UserID)
	}
	return account.CoinBalance, nil
}
