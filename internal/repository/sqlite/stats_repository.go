package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) LearningStats(ctx context.Context, userID uuid.UUID) (*models.LearningStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching learning stats: user_id=%s", userID)

	var stat models.LearningStat
	err := r.db.QueryRowContext(ctx, `
SELECT
    COUNT(*) AS total_cards,
    COUNT(CASE WHEN due_at IS NULL OR due_at <= CURRENT_TIMESTAMP THEN 1 END) AS cards_due,
    COUNT(CASE WHEN review_count = 0 THEN 1 END) AS cards_new,
    COUNT(CASE WHEN review_count > 0 AND interval_days < 21 THEN 1 END) AS cards_learning,
    COUNT(CASE WHEN review_count > 0 AND interval_days >= 21 THEN 1 END) AS cards_mature,
    COALESCE(SUM(review_count), 0) AS total_reviews,
    COALESCE(SUM(lapse_count), 0) AS total_lapses,
    COALESCE(AVG(ease_factor), 0) AS avg_ease_factor,
    COALESCE(AVG(interval_days), 0) AS avg_interval_days
FROM cards
WHERE user_id = ?
`, userID.String()).Scan(
		&stat.TotalCards,
		&stat.CardsDue,
		&stat.CardsNew,
		&stat.CardsLearning,
		&stat.CardsMature,
		&stat.TotalReviews,
		&stat.TotalLapses,
		&stat.AvgEaseFactor,
		&stat.AvgIntervalDays,
	)
	if err != nil && err != sql.ErrNoRows {
		log.Error("failed to get learning stats: %v", err)
		return nil, err
	}
	return &stat, nil
}
