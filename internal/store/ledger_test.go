package store

import (
	"errors"
	"testing"
	"time"

	"github.com/mintbay/mintbay/internal/domain"
)

func newTestLedger(t *testing.T, balances map[string]int64) *LedgerStore {
	t.Helper()
	s := NewLedgerStore()
	for id, balance := range balances {
		if err := s.CreateAccount(&domain.Account{AccountID: id, CreatedAt: time.Now()}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
		if balance > 0 {
			if err := s.Deposit(id, balance); err != nil {
				t.Fatalf("deposit %s: %v", id, err)
			}
		}
	}
	return s
}

func mustBalance(t *testing.T, s *LedgerStore, id string) int64 {
	t.Helper()
	b, err := s.BalanceOf(id)
	if err != nil {
		t.Fatalf("balance of %s: %v", id, err)
	}
	return b
}

func TestLedger_CreateAccount(t *testing.T) {
	s := NewLedgerStore()
	if err := s.CreateAccount(&domain.Account{AccountID: "alice"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.CreateAccount(&domain.Account{AccountID: "alice"}); !errors.Is(err, domain.ErrAccountAlreadyExists) {
		t.Errorf("expected ErrAccountAlreadyExists, got %v", err)
	}
	if _, err := s.BalanceOf("bob"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestLedger_ApplyCommitsWholeBatch(t *testing.T) {
	s := newTestLedger(t, map[string]int64{"alice": 100, "bob": 0, "carol": 0})

	err := s.Apply([]Entry{
		{From: "alice", To: "bob", Amount: 60},
		{From: "alice", To: "carol", Amount: 40},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mustBalance(t, s, "alice"); got != 0 {
		t.Errorf("alice = %d, want 0", got)
	}
	if got := mustBalance(t, s, "bob"); got != 60 {
		t.Errorf("bob = %d, want 60", got)
	}
	if got := mustBalance(t, s, "carol"); got != 40 {
		t.Errorf("carol = %d, want 40", got)
	}
}

func TestLedger_ApplyFailureLeavesBalancesUntouched(t *testing.T) {
	s := newTestLedger(t, map[string]int64{"alice": 100, "bob": 0, "carol": 0})

	// The first entry alone would succeed; the second overdraws.
	err := s.Apply([]Entry{
		{From: "alice", To: "bob", Amount: 60},
		{From: "alice", To: "carol", Amount: 60},
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := mustBalance(t, s, "alice"); got != 100 {
		t.Errorf("alice = %d, want 100", got)
	}
	if got := mustBalance(t, s, "bob"); got != 0 {
		t.Errorf("bob = %d, want 0", got)
	}
}

func TestLedger_ApplyUnknownAccount(t *testing.T) {
	s := newTestLedger(t, map[string]int64{"alice": 100})

	err := s.Apply([]Entry{{From: "alice", To: "ghost", Amount: 10}})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if got := mustBalance(t, s, "alice"); got != 100 {
		t.Errorf("alice = %d, want 100", got)
	}
}

// An earlier credit funds a later debit inside one batch. This is the
// auction pattern: refund the outbid bidder from escrow, then take the
// new bid, without escrow ever holding both bids at once.
func TestLedger_ApplyRefundFundsLaterDebit(t *testing.T) {
	s := newTestLedger(t, map[string]int64{"escrow": 100, "bob": 0, "carol": 105})

	err := s.Apply([]Entry{
		{From: "escrow", To: "bob", Amount: 100},
		{From: "carol", To: "escrow", Amount: 105},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mustBalance(t, s, "escrow"); got != 105 {
		t.Errorf("escrow = %d, want 105", got)
	}
	if got := mustBalance(t, s, "bob"); got != 100 {
		t.Errorf("bob = %d, want 100", got)
	}
	if got := mustBalance(t, s, "carol"); got != 0 {
		t.Errorf("carol = %d, want 0", got)
	}
}

func TestLedger_ApplySkipsZeroAmounts(t *testing.T) {
	s := newTestLedger(t, map[string]int64{"alice": 10, "bob": 0})

	err := s.Apply([]Entry{
		{From: "alice", To: "bob", Amount: 0},
		{From: "alice", To: "bob", Amount: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mustBalance(t, s, "bob"); got != 10 {
		t.Errorf("bob = %d, want 10", got)
	}
}

func TestLedger_TotalSupply(t *testing.T) {
	s := newTestLedger(t, map[string]int64{"alice": 100, "bob": 50})

	if got := s.TotalSupply(); got != 150 {
		t.Fatalf("supply = %d, want 150", got)
	}
	if err := s.Apply([]Entry{{From: "alice", To: "bob", Amount: 70}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.TotalSupply(); got != 150 {
		t.Errorf("supply after transfer = %d, want 150", got)
	}
	if err := s.Deposit("alice", 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.TotalSupply(); got != 175 {
		t.Errorf("supply after deposit = %d, want 175", got)
	}
}
