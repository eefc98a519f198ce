package models

import (
	"time"

	"github.com/google/uuid"
)

// Reward is a shop catalog entry.
type Reward struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Cost      int64     `json:"cost"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountReward is a purchased entitlement, referencing the ledger
// transaction that paid for it.
type AccountReward struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	RewardID      string    `json:"reward_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// PurchaseResult is the outcome of a purchase attempt. A decline carries the
// current balance and the required amount so the caller can explain the
// shortfall.
type PurchaseResult struct {
	Success      bool   `json:"success"`
	Reason       string `json:"reason,omitempty"`
	NewBalance   int64  `json:"new_balance,omitempty"`
	CurrentCoins int64  `json:"current_coins,omitempty"`
	Required     int64  `json:"required,omitempty"`
}
