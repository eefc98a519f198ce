package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind classifies ledger entries.
type TransactionKind string

const (
	KindReviewReward   TransactionKind = "review_reward"
	KindScenarioReward TransactionKind = "scenario_reward"
	KindPurchase       TransactionKind = "purchase"
	KindRefund         TransactionKind = "refund"
)

// Transaction is one append-only ledger entry. BalanceAfter is the account
// balance at the moment the entry applied; an idempotent replay answers from
// it without recomputation. An account's balance always equals the sum of its
// applied transaction amounts.
type Transaction struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Amount         int64           `json:"amount"`
	Kind           TransactionKind `json:"kind"`
	ReferenceID    string          `json:"reference_id"`
	IdempotencyKey string          `json:"idempotency_key"`
	BalanceAfter   int64           `json:"balance_after"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	UserID uuid.UUID
	Kind   TransactionKind
	Limit  int
	Offset int
}
