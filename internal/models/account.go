package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDailyGoal is the review target assigned to new accounts.
const DefaultDailyGoal = 20

// Account is the aggregate owning a user's coin balance and streak. The
// balance is mutated only through the ledger; the streak only through the
// session coordinator's daily rule. Everything the UI shows is a read-only
// projection of this row.
type Account struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	CoinBalance int64     `json:"coin_balance"`
	StreakCount int       `json:"streak_count"`
	// LastActiveDate is a UTC calendar date in YYYY-MM-DD form, empty until
	// the first recorded study activity.
	LastActiveDate string    `json:"last_active_date"`
	DailyGoal      int       `json:"daily_goal"`
	ReviewsToday   int       `json:"reviews_today"`
	CreatedAt      time.Time `json:"created_at"`
}
