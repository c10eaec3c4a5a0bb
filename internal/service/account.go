package service

import (
	"regexp"
	"time"

	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/store"
)

var (
	accountIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)
	assetIDRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
)

// RegisterAccountRequest represents the input for account registration.
type RegisterAccountRequest struct {
	AccountID      string
	InitialBalance int64
}

// AccountService handles account registration, deposits, and balance
// queries against the ledger.
type AccountService struct {
	ledger *store.LedgerStore
}

// NewAccountService creates a new AccountService.
func NewAccountService(ledger *store.LedgerStore) *AccountService {
	return &AccountService{ledger: ledger}
}

// Register validates the request and creates a funded account.
func (s *AccountService) Register(req RegisterAccountRequest) (*domain.Account, error) {
	if !accountIDRegex.MatchString(req.AccountID) {
		return nil, &domain.ValidationError{
			Message: "account_id must match ^[a-zA-Z0-9_.-]{1,64}$",
		}
	}
	if req.InitialBalance < 0 {
		return nil, &domain.ValidationError{
			Message: "initial_balance must be >= 0",
		}
	}

	account := &domain.Account{
		AccountID: req.AccountID,
		Balance:   req.InitialBalance,
		CreatedAt: time.Now(),
	}
	if err := s.ledger.CreateAccount(account); err != nil {
		return nil, err
	}
	return account, nil
}

// Deposit credits an existing account.
func (s *AccountService) Deposit(accountID string, amount int64) (*domain.Account, error) {
	if amount <= 0 {
		return nil, &domain.ValidationError{
			Message: "amount must be > 0",
		}
	}
	if err := s.ledger.Deposit(accountID, amount); err != nil {
		return nil, err
	}
	return s.ledger.Get(accountID)
}

// GetBalance returns the account's current balance.
func (s *AccountService) GetBalance(accountID string) (*domain.Account, error) {
	return s.ledger.Get(accountID)
}
