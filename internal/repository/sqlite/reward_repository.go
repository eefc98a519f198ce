package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
)

type rewardRepository struct {
	db *sql.DB
}

// NewRewardRepository creates a new RewardRepository implementation
func NewRewardRepository(db *sql.DB) repository.RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) Get(ctx context.Context, id string) (*models.Reward, error) {
	log := logger.FromContext(ctx).WithPrefix("reward_repo")
	log.Debug("getting reward: id=%s", id)

	var reward models.Reward
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, kind, cost, created_at
FROM rewards
WHERE id = ?
`, id).Scan(&reward.ID, &reward.Name, &reward.Kind, &reward.Cost, &reward.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get reward: %v", err)
		return nil, err
	}
	return &reward, nil
}

func (r *rewardRepository) List(ctx context.Context) ([]models.Reward, error) {
	log := logger.FromContext(ctx).WithPrefix("reward_repo")
	log.Debug("listing rewards")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, kind, cost, created_at
FROM rewards
ORDER BY cost ASC
`)
	if err != nil {
		log.Error("failed to list rewards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var rewards []models.Reward
	for rows.Next() {
		var reward models.Reward
		if err := rows.Scan(&reward.ID, &reward.Name, &reward.Kind, &reward.Cost, &reward.CreatedAt); err != nil {
			log.Error("failed to scan reward row: %v", err)
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	return rewards, rows.Err()
}

func (r *rewardRepository) ListOwned(ctx context.Context, userID uuid.UUID) ([]models.AccountReward, error) {
	log := logger.FromContext(ctx).WithPrefix("reward_repo")
	log.Debug("listing owned rewards: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, reward_id, transaction_id, created_at
FROM account_rewards
WHERE user_id = ?
ORDER BY created_at DESC
`, userID.String())
	if err != nil {
		log.Error("failed to list owned rewards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var owned []models.AccountReward
	for rows.Next() {
		var ar models.AccountReward
		var id, uid, txnID string
		if err := rows.Scan(&id, &uid, &ar.RewardID, &txnID, &ar.CreatedAt); err != nil {
			log.Error("failed to scan owned reward row: %v", err)
			return nil, err
		}
		if ar.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if ar.UserID, err = uuid.Parse(uid); err != nil {
			return nil, err
		}
		if ar.TransactionID, err = uuid.Parse(txnID); err != nil {
			return nil, err
		}
		owned = append(owned, ar)
	}
	return owned, rows.Err()
}

func (r *rewardRepository) InsertEntitlement(ctx context.Context, e models.AccountReward) error {
	log := logger.FromContext(ctx).WithPrefix("reward_repo")
	log.Debug("inserting entitlement: user_id=%s, reward_id=%s", e.UserID, e.RewardID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO account_rewards (id, user_id, reward_id, transaction_id)
VALUES (?, ?, ?, ?)
`, e.ID.String(), e.UserID.String(), e.RewardID, e.TransactionID.String())
	if err != nil {
		log.Error("failed to insert entitlement: %v", err)
	}
	return err
}
