package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/ledger"
	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
)

// RewardService handles the reward catalog and purchases
type RewardService interface {
	ListCatalog(ctx context.Context) ([]models.Reward, error)
	ListOwned(ctx context.Context, userID uuid.UUID) ([]models.AccountReward, error)
	Purchase(ctx context.Context, userID uuid.UUID, rewardID, idempotencyKey string) (*models.PurchaseResult, error)
}

type rewardService struct {
	rewards repository.RewardRepository
	ledger  *ledger.Ledger
}

// NewRewardService creates a new RewardService
func NewRewardService(rewards repository.RewardRepository, l *ledger.Ledger) RewardService {
	return &rewardService{rewards: rewards, ledger: l}
}

func (s *rewardService) ListCatalog(ctx context.Context) ([]models.Reward, error) {
	rewards, err := s.rewards.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return rewards, nil
}

func (s *rewardService) ListOwned(ctx context.Context, userID uuid.UUID) ([]models.AccountReward, error) {
	owned, err := s.rewards.ListOwned(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return owned, nil
}

// Purchase spends coins on a catalog reward. A missing idempotency key gets
// one derived from the user and reward, which makes an accidental double
// submit of the same purchase replay instead of charging twice.
func (s *rewardService) Purchase(ctx context.Context, userID uuid.UUID, rewardID, idempotencyKey string) (*models.PurchaseResult, error) {
	log := logger.FromContext(ctx)

	reward, err := s.rewards.Get(ctx, rewardID)
	if err != nil {
		log.Error("failed to get reward: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if reward == nil {
		return nil, errors.NewNotFoundError("reward", rewardID)
	}

	if idempotencyKey == "" {
		idempotencyKey = "purchase:" + userID.String() + ":" + rewardID
	}
	return s.ledger.Purchase(ctx, userID, *reward, idempotencyKey)
}
