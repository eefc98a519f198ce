package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
)

// StatsOverview bundles the numbers a progress screen shows: card collection
// health plus the account's coin and streak state.
type StatsOverview struct {
	Learning     models.LearningStat `json:"learning"`
	CoinBalance  int64               `json:"coin_balance"`
	StreakCount  int                 `json:"streak_count"`
	ReviewsToday int                 `json:"reviews_today"`
	DailyGoal    int                 `json:"daily_goal"`
	GoalReached  bool                `json:"goal_reached"`
}

// StatsService handles learning statistics
type StatsService interface {
	Overview(ctx context.Context, userID uuid.UUID) (*StatsOverview, error)
}

type statsService struct {
	stats    repository.StatsRepository
	accounts repository.AccountRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(stats repository.StatsRepository, accounts repository.AccountRepository) StatsService {
	return &statsService{stats: stats, accounts: accounts}
}

func (s *statsService) Overview(ctx context.Context, userID uuid.UUID) (*StatsOverview, error) {
	log := logger.FromContext(ctx)
	log.Debug("building stats overview: user_id=%s", userID)

	account, err := s.accounts.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get account: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if account == nil {
		return nil, errors.NewNotFoundError("account", userID)
	}

	learning, err := s.stats.LearningStats(ctx, userID)
	if err != nil {
		log.Error("failed to get learning stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &StatsOverview{
		Learning:     *learning,
		CoinBalance:  account.CoinBalance,
		StreakCount:  account.StreakCount,
		ReviewsToday: account.ReviewsToday,
		DailyGoal:    account.DailyGoal,
		GoalReached:  account.DailyGoal > 0 && account.ReviewsToday >= account.DailyGoal,
	}, nil
}
