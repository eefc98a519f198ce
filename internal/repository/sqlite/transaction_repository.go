package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
)

const transactionColumns = "id, user_id, amount, kind, reference_id, idempotency_key, balance_after, occurred_at"

type transactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository implementation
func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// Apply appends the transaction and moves the account balance in one storage
// transaction. The balance update is guarded by the balance the ledger read
// under its account lock; a mismatch means the serialization discipline was
// violated and surfaces as ErrStaleBalance. The whole unit commits or rolls
// back, so a cancelled call never leaves a partial transaction record.
func (r *transactionRepository) Apply(ctx context.Context, txn models.Transaction, expectedBalance int64) error {
	log := logger.FromContext(ctx).WithPrefix("transaction_repo")
	log.Debug("applying transaction: user_id=%s, amount=%d, kind=%s, key=%s",
		txn.UserID, txn.Amount, txn.Kind, txn.IdempotencyKey)

	err := tx(ctx, r.db, func(t *sql.Tx) error {
		_, err := t.ExecContext(ctx, `
INSERT INTO transactions (id, user_id, amount, kind, reference_id, idempotency_key, balance_after, occurred_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, txn.ID.String(), txn.UserID.String(), txn.Amount, string(txn.Kind),
			txn.ReferenceID, txn.IdempotencyKey, txn.BalanceAfter, txn.OccurredAt)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDuplicateKey
			}
			return err
		}

		res, err := t.ExecContext(ctx, `
UPDATE accounts
SET coin_balance = ?
WHERE user_id = ? AND coin_balance = ?
`, txn.BalanceAfter, txn.UserID.String(), expectedBalance)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return repository.ErrStaleBalance
		}
		return nil
	})
	if err != nil && !errors.Is(err, repository.ErrDuplicateKey) && !errors.Is(err, repository.ErrStaleBalance) {
		log.Error("failed to apply transaction: %v", err)
	}
	return err
}

func (r *transactionRepository) GetByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.Transaction, error) {
	log := logger.FromContext(ctx).WithPrefix("transaction_repo")
	log.Debug("looking up transaction: user_id=%s, key=%s", userID, key)

	row := r.db.QueryRowContext(ctx, `
SELECT `+transactionColumns+`
FROM transactions
WHERE user_id = ? AND idempotency_key = ?
`, userID.String(), key)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to look up transaction: %v", err)
		return nil, err
	}
	return txn, nil
}

func (r *transactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	log := logger.FromContext(ctx).WithPrefix("transaction_repo")
	log.Debug("listing transactions: user_id=%s", filter.UserID)

	query := sqlBuilder.Select(transactionColumns).From("transactions").
		OrderBy("occurred_at DESC", "id DESC")
	if filter.UserID != uuid.Nil {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID.String()})
	}
	if filter.Kind != "" {
		query = query.Where(squirrel.Eq{"kind": string(filter.Kind)})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list transactions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	return txns, rows.Err()
}

func (r *transactionRepository) SumAmounts(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = ?
`, userID.String()).Scan(&sum)
	return sum, err
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var txn models.Transaction
	var id, userID, kind string
	if err := row.Scan(&id, &userID, &txn.Amount, &kind, &txn.ReferenceID,
		&txn.IdempotencyKey, &txn.BalanceAfter, &txn.OccurredAt); err != nil {
		return nil, err
	}

	var err error
	if txn.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if txn.UserID, err = uuid.Parse(userID); err != nil {
		return nil, err
	}
	txn.Kind = models.TransactionKind(kind)
	return &txn, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
