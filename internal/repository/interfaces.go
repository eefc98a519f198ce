package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/models"
)

// Sentinel errors returned by implementations so callers can branch without
// knowing the storage technology.
var (
	// ErrDuplicateKey is returned when a transaction with the same
	// (user, idempotency key) pair already exists.
	ErrDuplicateKey = errors.New("duplicate idempotency key")

	// ErrStaleBalance is returned when the optimistic balance guard on an
	// account did not match at write time.
	ErrStaleBalance = errors.New("stale account balance")

	// ErrAlreadyScored is returned when a scenario result has already been
	// recorded.
	ErrAlreadyScored = errors.New("scenario already scored")
)

// AccountRepository handles account data access
type AccountRepository interface {
	Create(ctx context.Context, account models.Account) error
	Get(ctx context.Context, userID uuid.UUID) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	UpdateProgress(ctx context.Context, userID uuid.UUID, streak int, lastActiveDate string, reviewsToday int) error
}

// CardRepository handles card data access
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) error
	InsertBatch(ctx context.Context, cards []models.Card) error
	Get(ctx context.Context, id uuid.UUID) (*models.Card, error)
	Update(ctx context.Context, card models.Card) error
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]models.Card, error)
}

// DeckRepository handles deck data access
type DeckRepository interface {
	Insert(ctx context.Context, deck models.Deck) error
	Get(ctx context.Context, id uuid.UUID) (*models.Deck, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Deck, error)
}

// TransactionRepository is the durable half of the ledger. Apply appends the
// transaction and moves the account balance to txn.BalanceAfter in one
// storage transaction, guarded by the balance the caller read
// (expectedBalance). It returns ErrDuplicateKey or ErrStaleBalance so the
// ledger can replay or retry.
type TransactionRepository interface {
	Apply(ctx context.Context, txn models.Transaction, expectedBalance int64) error
	GetByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.Transaction, error)
	List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	SumAmounts(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ScenarioRepository handles scenario data access
type ScenarioRepository interface {
	Insert(ctx context.Context, scenario models.Scenario) error
	Get(ctx context.Context, id uuid.UUID) (*models.Scenario, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Scenario, error)
	MarkScored(ctx context.Context, id uuid.UUID, correctCount int, pointsAwarded int64) error
}

// RewardRepository handles the reward catalog and purchased entitlements
type RewardRepository interface {
	Get(ctx context.Context, id string) (*models.Reward, error)
	List(ctx context.Context) ([]models.Reward, error)
	ListOwned(ctx context.Context, userID uuid.UUID) ([]models.AccountReward, error)
	InsertEntitlement(ctx context.Context, entitlement models.AccountReward) error
}

// StatsRepository handles aggregate learning statistics
type StatsRepository interface {
	LearningStats(ctx context.Context, userID uuid.UUID) (*models.LearningStat, error)
}
