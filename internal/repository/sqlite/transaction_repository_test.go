package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/hsaleh/murajaa/internal/db"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
	"github.com/hsaleh/murajaa/internal/repository/sqlite"
	"github.com/hsaleh/murajaa/internal/testutil"
)

type TransactionRepositorySuite struct {
	suite.Suite
	db     *db.DB
	repo   repository.TransactionRepository
	userID uuid.UUID
}

func (s *TransactionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewTransactionRepository(s.db.DB)

	s.userID = uuid.New()
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO accounts (user_id, display_name) VALUES (?, ?)`, s.userID.String(), "testuser")
	s.Require().NoError(err)
}

func (s *TransactionRepositorySuite) txn(amount, balanceAfter int64, key string) models.Transaction {
	return models.Transaction{
		ID:             uuid.New(),
		UserID:         s.userID,
		Amount:         amount,
		Kind:           models.KindReviewReward,
		ReferenceID:    "card-1",
		IdempotencyKey: key,
		BalanceAfter:   balanceAfter,
		OccurredAt:     time.Now().UTC(),
	}
}

func (s *TransactionRepositorySuite) balance() int64 {
	var balance int64
	err := s.db.QueryRowContext(context.Background(),
		`SELECT coin_balance FROM accounts WHERE user_id = ?`, s.userID.String()).Scan(&balance)
	s.Require().NoError(err)
	return balance
}

func (s *TransactionRepositorySuite) TestApplyMovesBalance() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Apply(ctx, s.txn(10, 10, "k1"), 0))
	s.Assert().Equal(int64(10), s.balance())

	s.Require().NoError(s.repo.Apply(ctx, s.txn(-4, 6, "k2"), 10))
	s.Assert().Equal(int64(6), s.balance())
}

func (s *TransactionRepositorySuite) TestApplyDuplicateKey() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Apply(ctx, s.txn(10, 10, "same"), 0))

	err := s.repo.Apply(ctx, s.txn(10, 20, "same"), 10)
	s.Require().ErrorIs(err, repository.ErrDuplicateKey)

	// The duplicate rolled back entirely: balance untouched.
	s.Assert().Equal(int64(10), s.balance())

	sum, err := s.repo.SumAmounts(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(int64(10), sum)
}

func (s *TransactionRepositorySuite) TestApplyStaleBalance() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Apply(ctx, s.txn(10, 10, "k1"), 0))

	// Guard expects 0 but the balance is 10 now.
	err := s.repo.Apply(ctx, s.txn(5, 5, "k2"), 0)
	s.Require().ErrorIs(err, repository.ErrStaleBalance)

	// The insert rolled back with the failed guard.
	s.Assert().Equal(int64(10), s.balance())
	stored, err := s.repo.GetByIdempotencyKey(ctx, s.userID, "k2")
	s.Require().NoError(err)
	s.Assert().Nil(stored)
}

func (s *TransactionRepositorySuite) TestGetByIdempotencyKey() {
	ctx := context.Background()
	txn := s.txn(25, 25, "lookup")
	s.Require().NoError(s.repo.Apply(ctx, txn, 0))

	stored, err := s.repo.GetByIdempotencyKey(ctx, s.userID, "lookup")
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Assert().Equal(txn.ID, stored.ID)
	s.Assert().Equal(int64(25), stored.BalanceAfter)
	s.Assert().Equal(models.KindReviewReward, stored.Kind)

	missing, err := s.repo.GetByIdempotencyKey(ctx, s.userID, "nope")
	s.Require().NoError(err)
	s.Assert().Nil(missing)
}

func (s *TransactionRepositorySuite) TestListFilters() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Apply(ctx, s.txn(10, 10, "k1"), 0))

	purchase := s.txn(-5, 5, "k2")
	purchase.Kind = models.KindPurchase
	s.Require().NoError(s.repo.Apply(ctx, purchase, 10))

	all, err := s.repo.List(ctx, models.TransactionFilter{UserID: s.userID})
	s.Require().NoError(err)
	s.Assert().Len(all, 2)

	purchases, err := s.repo.List(ctx, models.TransactionFilter{UserID: s.userID, Kind: models.KindPurchase})
	s.Require().NoError(err)
	s.Require().Len(purchases, 1)
	s.Assert().Equal(int64(-5), purchases[0].Amount)
}

func TestTransactionRepositorySuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}
