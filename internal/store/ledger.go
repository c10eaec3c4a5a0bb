package store

import (
	"sync"

	"github.com/mintbay/mintbay/internal/domain"
)

// Entry is a single value transfer inside a batch.
type Entry struct {
	From   string
	To     string
	Amount int64
}

// LedgerStore is a thread-safe in-memory ledger of account balances.
// All balance mutation goes through Deposit or Apply; Apply commits a
// whole batch of transfers or none of it, which gives the trading engine
// its all-or-nothing fund movement.
type LedgerStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewLedgerStore creates an empty LedgerStore.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		accounts: make(map[string]*domain.Account),
	}
}

// CreateAccount adds an account to the ledger. It returns
// domain.ErrAccountAlreadyExists if the ID is taken.
func (s *LedgerStore) CreateAccount(a *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[a.AccountID]; exists {
		return domain.ErrAccountAlreadyExists
	}
	s.accounts[a.AccountID] = a
	return nil
}

// Get retrieves an account by ID. It returns
// domain.ErrAccountNotFound if the account does not exist.
func (s *LedgerStore) Get(id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

// Exists returns true if an account with the given ID exists.
func (s *LedgerStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.accounts[id]
	return ok
}

// BalanceOf returns the current balance of an account.
func (s *LedgerStore) BalanceOf(id string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	return a.Balance, nil
}

// Deposit credits an account. Amount must be positive.
func (s *LedgerStore) Deposit(id string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Balance += amount
	return nil
}

// Apply executes a batch of transfers atomically. Entries are evaluated
// in order against working balances, so an earlier credit can fund a
// later debit within the same batch (refund-then-accept ordering for
// auction escrow relies on this). If any entry references a missing
// account or would drive a balance negative, no entry is applied.
// Entries with a zero amount are skipped.
func (s *LedgerStore) Apply(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stage against working balances first.
	working := make(map[string]int64, len(entries)*2)
	balance := func(id string) (int64, bool) {
		if b, ok := working[id]; ok {
			return b, true
		}
		a, ok := s.accounts[id]
		if !ok {
			return 0, false
		}
		return a.Balance, true
	}

	for _, e := range entries {
		if e.Amount == 0 {
			continue
		}
		from, ok := balance(e.From)
		if !ok {
			return domain.ErrAccountNotFound
		}
		to, ok := balance(e.To)
		if !ok {
			return domain.ErrAccountNotFound
		}
		if from < e.Amount {
			return domain.ErrInsufficientFunds
		}
		working[e.From] = from - e.Amount
		working[e.To] = to + e.Amount
	}

	// Commit.
	for id, b := range working {
		s.accounts[id].Balance = b
	}
	return nil
}

// TotalSupply returns the sum of all account balances. Transfers never
// change it; only deposits do.
func (s *LedgerStore) TotalSupply() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, a := range s.accounts {
		total += a.Balance
	}
	return total
}
