// Package storage persists the ledger as independent key-value documents.
//
// Each key is written on its own; there is no cross-key transaction, so a
// crash between two writes can leave the keys mutually inconsistent.
package storage

import "context"

// Keys of the persisted documents.
const (
	KeyTransactions = "transactions"
	KeyBudget       = "budget"
	KeyDarkMode     = "darkMode"
	KeyRecurring    = "recurringTransactions"
	KeyGoals        = "savingsGoals"
	KeyAccounts     = "accounts"
	KeyBaseCurrency = "baseCurrency"
)

// Keys lists every persisted key in save order.
var Keys = []string{
	KeyTransactions, KeyBudget, KeyDarkMode, KeyRecurring,
	KeyGoals, KeyAccounts, KeyBaseCurrency,
}

// KV is the load/save contract the ledger needs from a backend.
type KV interface {
	// Load returns the stored blob and whether the key exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}
