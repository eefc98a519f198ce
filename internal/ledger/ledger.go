// Package ledger is the single authority for coin balances. Every balance
// mutation goes through here, is serialized per account, and lands as one
// append-only transaction row.
package ledger

import (
	"context"
	goerrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
)

// Ledger owns per-account balances and the transaction log. Mutations on one
// account are serialized by a per-account lock; different accounts proceed in
// parallel. Credit and Debit are idempotent under the caller's key, so a
// caller that times out retries with the same key and relies on replay
// instead of guessing the outcome.
type Ledger struct {
	accounts repository.AccountRepository
	txns     repository.TransactionRepository
	rewards  repository.RewardRepository

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// New creates a Ledger over the given repositories.
func New(accounts repository.AccountRepository, txns repository.TransactionRepository, rewards repository.RewardRepository) *Ledger {
	return &Ledger{
		accounts: accounts,
		txns:     txns,
		rewards:  rewards,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

func (l *Ledger) accountLock(userID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}

// Credit adds amount coins to the account. Replaying an idempotency key
// returns the balance recorded when the transaction first applied. Never
// declines for valid positive amounts.
func (l *Ledger) Credit(ctx context.Context, userID uuid.UUID, amount int64, kind models.TransactionKind, referenceID, idempotencyKey string) (int64, error) {
	txn, _, err := l.apply(ctx, userID, amount, kind, referenceID, idempotencyKey)
	if err != nil {
		return 0, err
	}
	return txn.BalanceAfter, nil
}

// Debit removes amount coins from the account. Declines with
// InsufficientFunds when the balance cannot cover it; the check and the
// update are one indivisible step under the account lock.
func (l *Ledger) Debit(ctx context.Context, userID uuid.UUID, amount int64, kind models.TransactionKind, referenceID, idempotencyKey string) (int64, error) {
	txn, _, err := l.apply(ctx, userID, -amount, kind, referenceID, idempotencyKey)
	if err != nil {
		return 0, err
	}
	return txn.BalanceAfter, nil
}

// apply serializes, replays, or appends one signed mutation. The signed
// amount's magnitude must be positive. The returned bool reports whether the
// result came from an idempotent replay rather than a fresh append.
func (l *Ledger) apply(ctx context.Context, userID uuid.UUID, amount int64, kind models.TransactionKind, referenceID, idempotencyKey string) (*models.Transaction, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("ledger")

	if amount == 0 {
		return nil, false, errors.NewValidationError("amount", "must be positive")
	}
	if idempotencyKey == "" {
		return nil, false, errors.NewValidationError("idempotency_key", "must not be empty")
	}

	lock := l.accountLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if existing, err := l.txns.GetByIdempotencyKey(ctx, userID, idempotencyKey); err != nil {
		return nil, false, errors.NewInternalError(err)
	} else if existing != nil {
		log.Debug("idempotent replay: user_id=%s, key=%s, balance=%d", userID, idempotencyKey, existing.BalanceAfter)
		return existing, true, nil
	}

	// One retry covers a guard trip; a second trip means the serialization
	// contract is broken and the operation fails.
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		txn, err := l.applyOnce(ctx, userID, amount, kind, referenceID, idempotencyKey)
		if err == nil {
			return txn, false, nil
		}
		if goerrors.Is(err, repository.ErrStaleBalance) {
			log.Warn("stale balance applying transaction: user_id=%s, key=%s, attempt=%d", userID, idempotencyKey, attempt+1)
			lastErr = err
			continue
		}
		if goerrors.Is(err, repository.ErrDuplicateKey) {
			// Lost a race to an identical retry; answer from the winner.
			existing, lookupErr := l.txns.GetByIdempotencyKey(ctx, userID, idempotencyKey)
			if lookupErr != nil || existing == nil {
				return nil, false, errors.NewInternalError(err)
			}
			log.Debug("duplicate key resolved by replay: user_id=%s, key=%s", userID, idempotencyKey)
			return existing, true, nil
		}
		return nil, false, err
	}

	log.Error("concurrent modification on account %s: %v", userID, lastErr)
	return nil, false, errors.NewConcurrentModificationError(userID.String())
}

func (l *Ledger) applyOnce(ctx context.Context, userID uuid.UUID, amount int64, kind models.TransactionKind, referenceID, idempotencyKey string) (*models.Transaction, error) {
	log := logger.FromContext(ctx).WithPrefix("ledger")

	account, err := l.accounts.Get(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if account == nil {
		return nil, errors.NewNotFoundError("account", userID)
	}

	newBalance := account.CoinBalance + amount
	if newBalance < 0 {
		log.Debug("debit declined: user_id=%s, balance=%d, required=%d", userID, account.CoinBalance, -amount)
		return nil, errors.NewInsufficientFundsError(account.CoinBalance, -amount)
	}

	txn := models.Transaction{
		ID:             uuid.New(),
		UserID:         userID,
		Amount:         amount,
		Kind:           kind,
		ReferenceID:    referenceID,
		IdempotencyKey: idempotencyKey,
		BalanceAfter:   newBalance,
		OccurredAt:     time.Now().UTC(),
	}

	if err := l.txns.Apply(ctx, txn, account.CoinBalance); err != nil {
		if goerrors.Is(err, repository.ErrStaleBalance) || goerrors.Is(err, repository.ErrDuplicateKey) {
			return nil, err
		}
		return nil, errors.NewInternalError(err)
	}

	log.Info("transaction applied: user_id=%s, amount=%d, kind=%s, balance=%d", userID, amount, kind, newBalance)
	return &txn, nil
}

// Purchase debits the reward's cost and records the entitlement. If the
// entitlement cannot be recorded after a successful debit, a compensating
// refund credit reverses it, so the caller sees either a completed purchase
// or an untouched balance. An insufficient balance is a declined result, not
// an error.
func (l *Ledger) Purchase(ctx context.Context, userID uuid.UUID, reward models.Reward, idempotencyKey string) (*models.PurchaseResult, error) {
	log := logger.FromContext(ctx).WithPrefix("ledger")

	txn, replayed, err := l.apply(ctx, userID, -reward.Cost, models.KindPurchase, reward.ID, idempotencyKey)
	if err != nil {
		var appErr *errors.AppError
		if goerrors.As(err, &appErr) && appErr.Code == errors.ErrCodeInsufficientFunds {
			account, getErr := l.accounts.Get(ctx, userID)
			if getErr != nil || account == nil {
				return nil, errors.NewInternalError(getErr)
			}
			return &models.PurchaseResult{
				Success:      false,
				Reason:       errors.ErrCodeInsufficientFunds,
				CurrentCoins: account.CoinBalance,
				Required:     reward.Cost,
			}, nil
		}
		return nil, err
	}

	if replayed {
		// A replayed debit is a completed purchase only if no compensating
		// refund reversed it; otherwise the first attempt failed after the
		// debit and the retry must replay that failure, not claim success.
		refund, lookupErr := l.txns.GetByIdempotencyKey(ctx, userID, idempotencyKey+":refund")
		if lookupErr != nil {
			return nil, errors.NewInternalError(lookupErr)
		}
		if refund != nil {
			log.Warn("replayed purchase was reversed by refund: user_id=%s, reward=%s, key=%s", userID, reward.ID, idempotencyKey)
			return nil, errors.NewInternalError(goerrors.New("purchase was reversed after the entitlement could not be recorded"))
		}
		return &models.PurchaseResult{Success: true, NewBalance: txn.BalanceAfter}, nil
	}

	entitlement := models.AccountReward{
		ID:            uuid.New(),
		UserID:        userID,
		RewardID:      reward.ID,
		TransactionID: txn.ID,
	}
	if err := l.rewards.InsertEntitlement(ctx, entitlement); err != nil {
		log.Error("entitlement recording failed, refunding: user_id=%s, reward=%s: %v", userID, reward.ID, err)
		if _, refundErr := l.Credit(ctx, userID, reward.Cost, models.KindRefund, txn.ID.String(), idempotencyKey+":refund"); refundErr != nil {
			log.Error("compensating refund failed: user_id=%s, txn=%s: %v", userID, txn.ID, refundErr)
			return nil, errors.NewInternalError(refundErr)
		}
		return nil, errors.NewInternalError(err)
	}

	log.Info("purchase completed: user_id=%s, reward=%s, balance=%d", userID, reward.ID, txn.BalanceAfter)
	return &models.PurchaseResult{Success: true, NewBalance: txn.BalanceAfter}, nil
}
