package ledger

import (
	"fmt"
	"strings"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// AddAccount creates an empty account. Balances only move through
// transactions, so there is no opening balance.
func (s *State) AddAccount(name, currency string) (core.Account, error) {
	a := core.Account{
		Name:     strings.TrimSpace(name),
		Currency: normalizeCurrency(currency),
		Balance:  decimal.Zero,
	}
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if !core.IsKnownCurrency(a.Currency) {
		return core.Account{}, core.ErrUnknownCurrency
	}
	a.ID = s.nextAccountID()
	s.Accounts = append(s.Accounts, a)
	return a, nil
}

// UpdateAccount renames an account or changes its currency label.
func (s *State) UpdateAccount(id int64, name, currency string) (core.Account, error) {
	acct := s.account(id)
	if acct == nil {
		return core.Account{}, fmt.Errorf("account %d: %w", id, core.ErrAccountNotFound)
	}
	next := *acct
	if strings.TrimSpace(name) != "" {
		next.Name = strings.TrimSpace(name)
	}
	if strings.TrimSpace(currency) != "" {
		next.Currency = normalizeCurrency(currency)
		if !core.IsKnownCurrency(next.Currency) {
			return core.Account{}, core.ErrUnknownCurrency
		}
	}
	if err := next.Validate(); err != nil {
		return core.Account{}, err
	}
	*acct = next
	return next, nil
}

// DeleteAccount removes an account unless it is the last one. Transactions
// posted to it are kept.
func (s *State) DeleteAccount(id int64) error {
	idx := -1
	for i, a := range s.Accounts {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("account %d: %w", id, core.ErrAccountNotFound)
	}
	if len(s.Accounts) <= 1 {
		return core.ErrLastAccount
	}
	s.Accounts = append(s.Accounts[:idx:idx], s.Accounts[idx+1:]...)
	return nil
}

// Account returns a copy of the account with the given id.
func (s *State) Account(id int64) (core.Account, bool) {
	if a := s.account(id); a != nil {
		return *a, true
	}
	return core.Account{}, false
}

func (s *State) account(id int64) *core.Account {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return &s.Accounts[i]
		}
	}
	return nil
}

// nextAccountID returns an id above every account id still referenced.
// Transactions and rules of a deleted account keep its id, so it is never
// handed out again.
func (s *State) nextAccountID() int64 {
	var high int64
	for _, a := range s.Accounts {
		high = max(high, a.ID)
	}
	for _, tx := range s.Transactions {
		high = max(high, tx.Account)
	}
	for _, r := range s.Rules {
		high = max(high, r.Account)
	}
	return high + 1
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return core.DefaultCurrency
	}
	return code
}
