// Package ledger owns the mutable state aggregate and the mutations that
// keep account balances consistent with transaction history.
//
// For every account a, a.Balance equals the signed sum of the transactions
// posted against a.ID. Every exported mutation preserves that.
package ledger

import (
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/goals"
	"fintrack/internal/notify"

	"github.com/shopspring/decimal"
)

// DefaultBudget is the monthly budget of a fresh ledger.
var DefaultBudget = decimal.NewFromInt(5000)

// State is the single aggregate holding everything a user owns.
// It is not safe for concurrent use; callers serialize commands.
type State struct {
	Accounts      []core.Account
	Transactions  []core.Transaction
	Rules         []core.RecurringRule
	Goals         *goals.Tracker
	Notifications *notify.Bus
	Budget        decimal.Decimal
	BaseCurrency  string
	DarkMode      bool
}

// NewDefault returns the state of a first launch.
func NewDefault() *State {
	return &State{
		Accounts: []core.Account{
			{ID: 1, Name: "Main Account", Balance: decimal.Zero, Currency: core.DefaultCurrency},
			{ID: 2, Name: "Savings", Balance: decimal.Zero, Currency: core.DefaultCurrency},
		},
		Transactions:  []core.Transaction{},
		Rules:         []core.RecurringRule{},
		Goals:         goals.NewTracker(nil),
		Notifications: notify.NewBus(notify.DefaultCapacity),
		Budget:        DefaultBudget,
		BaseCurrency:  core.DefaultCurrency,
	}
}

// SetBudget replaces the monthly budget limit.
func (s *State) SetBudget(limit decimal.Decimal) error {
	if !limit.IsPositive() {
		return core.ErrInvalidBudget
	}
	s.Budget = core.RoundCents(limit)
	return nil
}

// SetBaseCurrency changes the display currency. Stored amounts are not
// converted.
func (s *State) SetBaseCurrency(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !core.IsKnownCurrency(code) {
		return core.ErrUnknownCurrency
	}
	s.BaseCurrency = code
	return nil
}

func (s *State) SetDarkMode(on bool) { s.DarkMode = on }

// Format renders an amount in the base currency.
func (s *State) Format(amount decimal.Decimal) string {
	return core.FormatCurrency(amount, s.BaseCurrency)
}

// ClearAll empties the transaction list. The caller must have obtained an
// explicit confirmation; without it nothing changes.
func (s *State) ClearAll(confirmed bool) error {
	if !confirmed {
		return core.ErrConfirmationRequired
	}
	s.Transactions = []core.Transaction{}
	s.Rebalance()
	return nil
}
