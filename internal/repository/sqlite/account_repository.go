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

type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository implementation
func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a models.Account) error {
	log := logger.FromContext(ctx).WithPrefix("account_repo")
	log.Debug("creating account: user_id=%s", a.UserID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO accounts (user_id, display_name, coin_balance, streak_count, last_active_date, daily_goal, reviews_today)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, a.UserID.String(), a.DisplayName, a.CoinBalance, a.StreakCount, a.LastActiveDate, a.DailyGoal, a.ReviewsToday)
	if err != nil {
		log.Error("failed to create account: %v", err)
	}
	return err
}

func (r *accountRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	log := logger.FromContext(ctx).WithPrefix("account_repo")
	log.Debug("getting account: user_id=%s", userID)

	var a models.Account
	var id string
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, display_name, coin_balance, streak_count, last_active_date, daily_goal, reviews_today, created_at
FROM accounts
WHERE user_id = ?
`, userID.String()).Scan(&id, &a.DisplayName, &a.CoinBalance, &a.StreakCount, &a.LastActiveDate, &a.DailyGoal, &a.ReviewsToday, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get account: %v", err)
		return nil, err
	}
	a.UserID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) List(ctx context.Context) ([]models.Account, error) {
	log := logger.FromContext(ctx).WithPrefix("account_repo")
	log.Debug("listing accounts")

	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, display_name, coin_balance, streak_count, last_active_date, daily_goal, reviews_today, created_at
FROM accounts
ORDER BY created_at ASC
`)
	if err != nil {
		log.Error("failed to list accounts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		var id string
		if err := rows.Scan(&id, &a.DisplayName, &a.CoinBalance, &a.StreakCount, &a.LastActiveDate, &a.DailyGoal, &a.ReviewsToday, &a.CreatedAt); err != nil {
			log.Error("failed to scan account row: %v", err)
			return nil, err
		}
		if a.UserID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) UpdateProgress(ctx context.Context, userID uuid.UUID, streak int, lastActiveDate string, reviewsToday int) error {
	log := logger.FromContext(ctx).WithPrefix("account_repo")
	log.Debug("updating progress: user_id=%s, streak=%d, last_active=%s", userID, streak, lastActiveDate)

	res, err := r.db.ExecContext(ctx, `
UPDATE accounts
SET streak_count = ?, last_active_date = ?, reviews_today = ?
WHERE user_id = ?
`, streak, lastActiveDate, reviewsToday, userID.String())
	if err != nil {
		log.Error("failed to update progress: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
