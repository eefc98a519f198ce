// Package session orchestrates study sessions: it pulls due cards, applies
// scheduling results, forwards coin rewards to the ledger, and maintains the
// per-account streak. All state outside the account row is session-local.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/ledger"
	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
	"github.com/hsaleh/murajaa/internal/scheduler"
)

// DefaultSessionSize caps the working set when the caller does not ask for a
// specific number of cards.
const DefaultSessionSize = 20

// CoinReward is the canonical coin award per review rating. A harder recall
// earns more: the card cost more effort to answer.
func CoinReward(rating models.Rating) int64 {
	switch rating {
	case models.RatingEasy:
		return 5
	case models.RatingGood:
		return 10
	case models.RatingDifficult:
		return 15
	default:
		return 0
	}
}

// DateOf reduces a point in time to its UTC calendar date, the granularity
// the streak rule works in.
func DateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// NextStreak applies the daily streak rule: active yesterday extends the
// streak, active today leaves it alone, anything older resets it to 1. An
// account with no recorded activity starts at 1.
func NextStreak(current int, lastActiveDate string, now time.Time) int {
	switch lastActiveDate {
	case DateOf(now):
		if current < 1 {
			return 1
		}
		return current
	case DateOf(now.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

// Session is the caller-facing snapshot of a started session.
type Session struct {
	ID     uuid.UUID     `json:"id"`
	UserID uuid.UUID     `json:"user_id"`
	Cards  []models.Card `json:"cards"`
}

// RatingResult is returned for each submitted rating. Summary is set only on
// the rating that exhausts the session's working set.
type RatingResult struct {
	Card        models.Card            `json:"card"`
	NextDueAt   *time.Time             `json:"next_due_at"`
	CoinsEarned int64                  `json:"coins_earned"`
	NewBalance  int64                  `json:"new_balance"`
	NewStreak   int                    `json:"new_streak"`
	Remaining   int                    `json:"remaining"`
	Summary     *models.SessionSummary `json:"summary,omitempty"`
}

type sessionState struct {
	mu             sync.Mutex
	userID         uuid.UUID
	queue          []models.Card
	attempts       map[uuid.UUID]int
	cardsCompleted int
	coinsEarned    int64
	lastStreak     int
}

// Coordinator runs study sessions. Sessions live in memory only; losing one
// costs nothing durable because every card update and coin credit is already
// persisted when the rating returns.
type Coordinator struct {
	cards    repository.CardRepository
	accounts repository.AccountRepository
	ledger   *ledger.Ledger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionState
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock overrides the coordinator's time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// NewCoordinator creates a Coordinator over the given stores and ledger.
func NewCoordinator(cards repository.CardRepository, accounts repository.AccountRepository, l *ledger.Ledger, opts ...Option) *Coordinator {
	c := &Coordinator{
		cards:    cards,
		accounts: accounts,
		ledger:   l,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*sessionState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start selects up to limit due cards for the account and opens a session
// over them. A session with no due cards is valid and already complete.
func (c *Coordinator) Start(ctx context.Context, userID uuid.UUID, limit int) (*Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session")

	if limit <= 0 {
		limit = DefaultSessionSize
	}

	account, err := c.accounts.Get(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if account == nil {
		return nil, errors.NewNotFoundError("account", userID)
	}

	due, err := c.cards.ListDue(ctx, userID, c.now(), limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	session := &Session{ID: uuid.New(), UserID: userID, Cards: due}
	state := &sessionState{
		userID:     userID,
		queue:      append([]models.Card(nil), due...),
		attempts:   make(map[uuid.UUID]int),
		lastStreak: account.StreakCount,
	}

	c.mu.Lock()
	c.sessions[session.ID] = state
	c.mu.Unlock()

	log.Info("session started: id=%s, user_id=%s, cards=%d", session.ID, userID, len(due))
	return session, nil
}

// SubmitRating records one rating inside a session: the card is rescheduled,
// the reward credited, and the streak touched. The idempotency key is derived
// from the session, the card, and the attempt number, so retrying a timed-out
// submission replays rather than double-credits.
func (c *Coordinator) SubmitRating(ctx context.Context, sessionID, cardID uuid.UUID, rating models.Rating) (*RatingResult, error) {
	c.mu.Lock()
	state, ok := c.sessions[sessionID]
	c.mu.Unlock()
	if !ok {
		return nil, errors.NewNotFoundError("session", sessionID)
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	idx := -1
	for i, card := range state.queue {
		if card.ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	// The attempt number advances only on success, so a retry after a failed
	// or ambiguous submission reuses the same key and replays.
	attempt := state.attempts[cardID] + 1
	key := fmt.Sprintf("%s:%s:%d", sessionID, cardID, attempt)

	result, err := c.review(ctx, state.userID, state.queue[idx], rating, key)
	if err != nil {
		return nil, err
	}
	state.attempts[cardID] = attempt

	state.queue = append(state.queue[:idx], state.queue[idx+1:]...)
	state.cardsCompleted++
	state.coinsEarned += result.CoinsEarned
	state.lastStreak = result.NewStreak
	result.Remaining = len(state.queue)

	if len(state.queue) == 0 {
		result.Summary = &models.SessionSummary{
			CardsCompleted: state.cardsCompleted,
			CoinsEarned:    state.coinsEarned,
			NewStreak:      state.lastStreak,
		}
		c.mu.Lock()
		delete(c.sessions, sessionID)
		c.mu.Unlock()
	}
	return result, nil
}

// Summary reports the running totals of an open session.
func (c *Coordinator) Summary(sessionID uuid.UUID) (*models.SessionSummary, error) {
	c.mu.Lock()
	state, ok := c.sessions[sessionID]
	c.mu.Unlock()
	if !ok {
		return nil, errors.NewNotFoundError("session", sessionID)
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return &models.SessionSummary{
		CardsCompleted: state.cardsCompleted,
		CoinsEarned:    state.coinsEarned,
		NewStreak:      state.lastStreak,
	}, nil
}

// ReviewCard records a single rating outside any session, for callers that
// review one card at a time. The idempotency key is derived from the card's
// attempt number, so a retried request for the same attempt replays.
func (c *Coordinator) ReviewCard(ctx context.Context, userID, cardID uuid.UUID, rating models.Rating) (*RatingResult, error) {
	card, err := c.cards.Get(ctx, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil || card.UserID != userID {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	key := fmt.Sprintf("review:%s:%d", cardID, card.ReviewCount+1)
	return c.review(ctx, userID, *card, rating, key)
}

// review is the shared rating pipeline: reschedule, persist the card, credit
// the reward, touch the streak.
func (c *Coordinator) review(ctx context.Context, userID uuid.UUID, card models.Card, rating models.Rating, idempotencyKey string) (*RatingResult, error) {
	log := logger.FromContext(ctx).WithPrefix("session")
	now := c.now()

	updated, err := scheduler.ScheduleReview(card, rating, now)
	if err != nil {
		return nil, err
	}
	if err := c.cards.Update(ctx, updated); err != nil {
		return nil, errors.NewInternalError(err)
	}

	balance, err := c.ledger.Credit(ctx, userID, CoinReward(rating), models.KindReviewReward, card.ID.String(), idempotencyKey)
	if err != nil {
		return nil, err
	}

	streak, err := c.touchStreak(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	log.Debug("rating recorded: user_id=%s, card_id=%s, rating=%s, interval=%d",
		userID, card.ID, rating, updated.IntervalDays)
	return &RatingResult{
		Card:        updated,
		NextDueAt:   updated.DueAt,
		CoinsEarned: CoinReward(rating),
		NewBalance:  balance,
		NewStreak:   streak,
	}, nil
}

// touchStreak applies the daily streak rule and bumps the daily review
// counter. The rule is idempotent within a calendar day, so applying it on
// every rating is safe.
func (c *Coordinator) touchStreak(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	account, err := c.accounts.Get(ctx, userID)
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	if account == nil {
		return 0, errors.NewNotFoundError("account", userID)
	}

	today := DateOf(now)
	streak := NextStreak(account.StreakCount, account.LastActiveDate, now)
	reviewsToday := 1
	if account.LastActiveDate == today {
		reviewsToday = account.ReviewsToday + 1
	}

	if err := c.accounts.UpdateProgress(ctx, userID, streak, today, reviewsToday); err != nil {
		return 0, errors.NewInternalError(err)
	}
	return streak, nil
}
