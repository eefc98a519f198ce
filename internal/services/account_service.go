package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
)

// AccountService handles account-related business logic
type AccountService interface {
	CreateAccount(ctx context.Context, displayName string, dailyGoal int) (*models.Account, error)
	GetAccount(ctx context.Context, userID uuid.UUID) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transaction, error)
}

type accountService struct {
	accounts repository.AccountRepository
	txns     repository.TransactionRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts repository.AccountRepository, txns repository.TransactionRepository) AccountService {
	return &accountService{accounts: accounts, txns: txns}
}

func (s *accountService) CreateAccount(ctx context.Context, displayName string, dailyGoal int) (*models.Account, error) {
	log := logger.FromContext(ctx)

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, errors.NewValidationError("display_name", "must not be empty")
	}
	if dailyGoal <= 0 {
		dailyGoal = models.DefaultDailyGoal
	}

	account := models.Account{
		UserID:      uuid.New(),
		DisplayName: displayName,
		DailyGoal:   dailyGoal,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		log.Error("failed to create account: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("account created: user_id=%s, display_name=%s", account.UserID, displayName)
	return &account, nil
}

func (s *accountService) GetAccount(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	log := logger.FromContext(ctx)

	account, err := s.accounts.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get account: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if account == nil {
		return nil, errors.NewNotFoundError("account", userID)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return accounts, nil
}

func (s *accountService) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transaction, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing transactions: user_id=%s, limit=%d", userID, limit)

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	txns, err := s.txns.List(ctx, models.TransactionFilter{UserID: userID, Limit: limit})
	if err != nil {
		log.Error("failed to list transactions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return txns, nil
}
