package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
)

type scenarioRepository struct {
	db *sql.DB
}

// NewScenarioRepository creates a new ScenarioRepository implementation
func NewScenarioRepository(db *sql.DB) repository.ScenarioRepository {
	return &scenarioRepository{db: db}
}

func (r *scenarioRepository) Insert(ctx context.Context, s models.Scenario) error {
	log := logger.FromContext(ctx).WithPrefix("scenario_repo")
	log.Debug("inserting scenario: id=%s, difficulty=%s", s.ID, s.Difficulty)

	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO scenarios (id, user_id, title, difficulty, questions)
VALUES (?, ?, ?, ?, ?)
`, s.ID.String(), s.UserID.String(), s.Title, string(s.Difficulty), string(questions))
	if err != nil {
		log.Error("failed to insert scenario: %v", err)
	}
	return err
}

func (r *scenarioRepository) Get(ctx context.Context, id uuid.UUID) (*models.Scenario, error) {
	log := logger.FromContext(ctx).WithPrefix("scenario_repo")
	log.Debug("getting scenario: id=%s", id)

	var s models.Scenario
	var scenarioID, userID, difficulty, questions string
	var correctCount sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, difficulty, questions, correct_count, points_awarded, created_at
FROM scenarios
WHERE id = ?
`, id.String()).Scan(&scenarioID, &userID, &s.Title, &difficulty, &questions, &correctCount, &s.PointsAwarded, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get scenario: %v", err)
		return nil, err
	}

	if s.ID, err = uuid.Parse(scenarioID); err != nil {
		return nil, err
	}
	if s.UserID, err = uuid.Parse(userID); err != nil {
		return nil, err
	}
	s.Difficulty = models.Difficulty(difficulty)
	if err := json.Unmarshal([]byte(questions), &s.Questions); err != nil {
		log.Error("failed to decode scenario questions: %v", err)
		return nil, err
	}
	if correctCount.Valid {
		n := int(correctCount.Int64)
		s.CorrectCount = &n
	}
	return &s, nil
}

func (r *scenarioRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Scenario, error) {
	log := logger.FromContext(ctx).WithPrefix("scenario_repo")
	log.Debug("listing scenarios: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, difficulty, questions, correct_count, points_awarded, created_at
FROM scenarios
WHERE user_id = ?
ORDER BY created_at DESC
`, userID.String())
	if err != nil {
		log.Error("failed to list scenarios: %v", err)
		return nil, err
	}
	defer rows.Close()

	var scenarios []models.Scenario
	for rows.Next() {
		var s models.Scenario
		var scenarioID, uid, difficulty, questions string
		var correctCount sql.NullInt64
		if err := rows.Scan(&scenarioID, &uid, &s.Title, &difficulty, &questions, &correctCount, &s.PointsAwarded, &s.CreatedAt); err != nil {
			log.Error("failed to scan scenario row: %v", err)
			return nil, err
		}
		if s.ID, err = uuid.Parse(scenarioID); err != nil {
			return nil, err
		}
		if s.UserID, err = uuid.Parse(uid); err != nil {
			return nil, err
		}
		s.Difficulty = models.Difficulty(difficulty)
		if err := json.Unmarshal([]byte(questions), &s.Questions); err != nil {
			return nil, err
		}
		if correctCount.Valid {
			n := int(correctCount.Int64)
			s.CorrectCount = &n
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, rows.Err()
}

// MarkScored records the result exactly once: the guard on correct_count
// keeps an already-scored scenario immutable.
func (r *scenarioRepository) MarkScored(ctx context.Context, id uuid.UUID, correctCount int, pointsAwarded int64) error {
	log := logger.FromContext(ctx).WithPrefix("scenario_repo")
	log.Debug("marking scenario scored: id=%s, correct=%d, points=%d", id, correctCount, pointsAwarded)

	res, err := r.db.ExecContext(ctx, `
UPDATE scenarios
SET correct_count = ?, points_awarded = ?
WHERE id = ? AND correct_count IS NULL
`, correctCount, pointsAwarded, id.String())
	if err != nil {
		log.Error("failed to mark scenario scored: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrAlreadyScored
	}
	return nil
}
