package session_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/ledger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
	"github.com/hsaleh/murajaa/internal/repository/sqlite"
	"github.com/hsaleh/murajaa/internal/session"
	"github.com/hsaleh/murajaa/internal/testutil"
)

var sessionNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestCoinReward(t *testing.T) {
	tests := []struct {
		rating models.Rating
		coins  int64
	}{
		{models.RatingEasy, 5},
		{models.RatingGood, 10},
		{models.RatingDifficult, 15},
		{models.Rating("unknown"), 0},
	}
	for _, tt := range tests {
		if got := session.CoinReward(tt.rating); got != tt.coins {
			t.Errorf("CoinReward(%q) = %d, want %d", tt.rating, got, tt.coins)
		}
	}
}

func TestNextStreak(t *testing.T) {
	yesterday := session.DateOf(sessionNow.AddDate(0, 0, -1))
	today := session.DateOf(sessionNow)

	tests := []struct {
		name       string
		current    int
		lastActive string
		want       int
	}{
		{"first activity ever", 0, "", 1},
		{"active yesterday extends", 3, yesterday, 4},
		{"active today unchanged", 3, today, 3},
		{"two-day gap resets", 7, session.DateOf(sessionNow.AddDate(0, 0, -2)), 1},
		{"long gap resets", 30, "2025-11-01", 1},
		{"today with zero streak floors at one", 0, today, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := session.NextStreak(tt.current, tt.lastActive, sessionNow); got != tt.want {
				t.Errorf("NextStreak(%d, %q) = %d, want %d", tt.current, tt.lastActive, got, tt.want)
			}
		})
	}
}

type CoordinatorSuite struct {
	suite.Suite
	accounts    repository.AccountRepository
	cards       repository.CardRepository
	txns        repository.TransactionRepository
	coordinator *session.Coordinator
	userID      uuid.UUID
	deckID      uuid.UUID
}

func (s *CoordinatorSuite) SetupTest() {
	database := testutil.NewTestDB(s.T())
	s.accounts = sqlite.NewAccountRepository(database.DB)
	s.cards = sqlite.NewCardRepository(database.DB)
	s.txns = sqlite.NewTransactionRepository(database.DB)
	rewards := sqlite.NewRewardRepository(database.DB)
	decks := sqlite.NewDeckRepository(database.DB)

	l := ledger.New(s.accounts, s.txns, rewards)
	s.coordinator = session.NewCoordinator(s.cards, s.accounts, l,
		session.WithClock(func() time.Time { return sessionNow }))

	ctx := context.Background()
	s.userID = uuid.New()
	s.Require().NoError(s.accounts.Create(ctx, models.Account{
		UserID:      s.userID,
		DisplayName: "tester",
		DailyGoal:   20,
	}))

	s.deckID = uuid.New()
	s.Require().NoError(decks.Insert(ctx, models.Deck{
		ID:     s.deckID,
		UserID: s.userID,
		Title:  "biology",
	}))
}

func (s *CoordinatorSuite) newCard(front string) models.Card {
	card := models.Card{
		ID:         uuid.New(),
		UserID:     s.userID,
		DeckID:     s.deckID,
		FrontText:  front,
		BackText:   "back of " + front,
		EaseFactor: models.DefaultEaseFactor,
	}
	s.Require().NoError(s.cards.Insert(context.Background(), card))
	return card
}

func (s *CoordinatorSuite) TestStartUnknownAccount() {
	_, err := s.coordinator.Start(context.Background(), uuid.New(), 10)
	s.Require().Error(err)

	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeNotFound, appErr.Code)
}

func (s *CoordinatorSuite) TestFullSessionFlow() {
	ctx := context.Background()
	first := s.newCard("mitosis")
	second := s.newCard("meiosis")

	sess, err := s.coordinator.Start(ctx, s.userID, 10)
	s.Require().NoError(err)
	s.Require().Len(sess.Cards, 2)

	result, err := s.coordinator.SubmitRating(ctx, sess.ID, first.ID, models.RatingEasy)
	s.Require().NoError(err)
	s.Assert().Equal(int64(5), result.CoinsEarned)
	s.Assert().Equal(int64(5), result.NewBalance)
	s.Assert().Equal(1, result.NewStreak)
	s.Assert().Equal(1, result.Remaining)
	s.Assert().Nil(result.Summary)
	s.Require().NotNil(result.NextDueAt)
	s.Assert().Equal(sessionNow.AddDate(0, 0, 1), result.NextDueAt.UTC())

	result, err = s.coordinator.SubmitRating(ctx, sess.ID, second.ID, models.RatingGood)
	s.Require().NoError(err)
	s.Assert().Equal(int64(10), result.CoinsEarned)
	s.Assert().Equal(int64(15), result.NewBalance)
	s.Assert().Equal(0, result.Remaining)
	s.Require().NotNil(result.Summary)
	s.Assert().Equal(models.SessionSummary{
		CardsCompleted: 2,
		CoinsEarned:    15,
		NewStreak:      1,
	}, *result.Summary)

	// The exhausted session is gone.
	_, err = s.coordinator.Summary(sess.ID)
	s.Require().Error(err)

	// The balance reconciles against the ledger, not session arithmetic.
	sum, err := s.txns.SumAmounts(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(int64(15), sum)
}

func (s *CoordinatorSuite) TestSessionExcludesFutureCards() {
	ctx := context.Background()
	due := s.newCard("due now")

	future := s.newCard("not yet")
	futureAt := sessionNow.AddDate(0, 0, 3)
	future.DueAt = &futureAt
	future.IntervalDays = 3
	future.ReviewCount = 1
	s.Require().NoError(s.cards.Update(ctx, future))

	sess, err := s.coordinator.Start(ctx, s.userID, 10)
	s.Require().NoError(err)
	s.Require().Len(sess.Cards, 1)
	s.Assert().Equal(due.ID, sess.Cards[0].ID)

	_, err = s.coordinator.SubmitRating(ctx, sess.ID, future.ID, models.RatingGood)
	s.Require().Error(err, "a card outside the working set cannot be rated")
}

func (s *CoordinatorSuite) TestInvalidRatingLeavesSessionIntact() {
	ctx := context.Background()
	card := s.newCard("osmosis")

	sess, err := s.coordinator.Start(ctx, s.userID, 10)
	s.Require().NoError(err)

	_, err = s.coordinator.SubmitRating(ctx, sess.ID, card.ID, models.Rating("superb"))
	s.Require().Error(err)

	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeInvalidRating, appErr.Code)

	// No coins moved and the card can still be rated.
	sum, err := s.txns.SumAmounts(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(int64(0), sum)

	result, err := s.coordinator.SubmitRating(ctx, sess.ID, card.ID, models.RatingGood)
	s.Require().NoError(err)
	s.Assert().Equal(int64(10), result.CoinsEarned)

	// The failed submission did not consume an attempt: the credit landed
	// under the first attempt's key, so a retry would have replayed it.
	txn, err := s.txns.GetByIdempotencyKey(ctx, s.userID,
		fmt.Sprintf("%s:%s:%d", sess.ID, card.ID, 1))
	s.Require().NoError(err)
	s.Require().NotNil(txn)
	s.Assert().Equal(int64(10), txn.Amount)
}

func (s *CoordinatorSuite) TestReviewCardStandalone() {
	ctx := context.Background()
	card := s.newCard("photosynthesis")

	result, err := s.coordinator.ReviewCard(ctx, s.userID, card.ID, models.RatingDifficult)
	s.Require().NoError(err)
	s.Assert().Equal(int64(15), result.CoinsEarned)
	s.Assert().Equal(int64(15), result.NewBalance)
	s.Assert().Equal(1, result.Card.IntervalDays)
	s.Assert().Equal(1, result.Card.LapseCount)
	s.Assert().Nil(result.Summary)

	stored, err := s.cards.Get(ctx, card.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Assert().Equal(1, stored.ReviewCount)
}

func (s *CoordinatorSuite) TestReviewCardWrongOwner() {
	ctx := context.Background()
	card := s.newCard("krebs cycle")

	other := uuid.New()
	s.Require().NoError(s.accounts.Create(ctx, models.Account{UserID: other, DisplayName: "other"}))

	_, err := s.coordinator.ReviewCard(ctx, other, card.ID, models.RatingGood)
	s.Require().Error(err)

	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok)
	s.Assert().Equal(errors.ErrCodeNotFound, appErr.Code)
}

func (s *CoordinatorSuite) TestStreakExtendsFromYesterday() {
	ctx := context.Background()
	card := s.newCard("golgi apparatus")

	yesterday := session.DateOf(sessionNow.AddDate(0, 0, -1))
	s.Require().NoError(s.accounts.UpdateProgress(ctx, s.userID, 3, yesterday, 12))

	result, err := s.coordinator.ReviewCard(ctx, s.userID, card.ID, models.RatingGood)
	s.Require().NoError(err)
	s.Assert().Equal(4, result.NewStreak)

	account, err := s.accounts.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(4, account.StreakCount)
	s.Assert().Equal(session.DateOf(sessionNow), account.LastActiveDate)
	s.Assert().Equal(1, account.ReviewsToday, "the daily counter restarts on a new day")
}

func (s *CoordinatorSuite) TestStreakResetsAfterGap() {
	ctx := context.Background()
	card := s.newCard("ribosome")

	s.Require().NoError(s.accounts.UpdateProgress(ctx, s.userID, 9, "2026-03-10", 5))

	result, err := s.coordinator.ReviewCard(ctx, s.userID, card.ID, models.RatingGood)
	s.Require().NoError(err)
	s.Assert().Equal(1, result.NewStreak)
}

func (s *CoordinatorSuite) TestSameDayReviewsKeepStreak() {
	ctx := context.Background()
	first := s.newCard("xylem")
	second := s.newCard("phloem")

	today := session.DateOf(sessionNow)
	s.Require().NoError(s.accounts.UpdateProgress(ctx, s.userID, 5, today, 2))

	result, err := s.coordinator.ReviewCard(ctx, s.userID, first.ID, models.RatingGood)
	s.Require().NoError(err)
	s.Assert().Equal(5, result.NewStreak)

	result, err = s.coordinator.ReviewCard(ctx, s.userID, second.ID, models.RatingGood)
	s.Require().NoError(err)
	s.Assert().Equal(5, result.NewStreak)

	account, err := s.accounts.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(4, account.ReviewsToday)
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}
