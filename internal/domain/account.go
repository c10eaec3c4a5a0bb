package domain

import "time"

// Account represents a participant on the marketplace with a value
// balance. Balances are plain int64 value units; all mutation goes
// through the ledger store's transfer batches.
type Account struct {
	AccountID string
	Balance   int64
	CreatedAt time.Time
}
