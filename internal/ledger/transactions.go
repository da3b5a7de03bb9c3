package ledger

import (
	"fmt"
	"strings"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/budget"
	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// AddTransaction assigns identity and timestamp to d, prepends it to the
// transaction list and posts it to the account. Expenses are checked
// against the budget before the confirmation notice is published.
func (s *State) AddTransaction(d core.TransactionDraft, accountID int64, now time.Time) (core.Transaction, error) {
	d.Description = strings.TrimSpace(d.Description)
	d.Amount = core.RoundCents(d.Amount)
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}
	acct := s.account(accountID)
	if acct == nil {
		return core.Transaction{}, fmt.Errorf("account %d: %w", accountID, core.ErrAccountNotFound)
	}

	tx := core.Transaction{
		ID:          core.NewTransactionID(),
		Description: d.Description,
		Amount:      d.Amount,
		Category:    d.Category,
		Type:        d.Type,
		Account:     accountID,
		Date:        now,
	}
	s.Transactions = append([]core.Transaction{tx}, s.Transactions...)
	acct.Balance = acct.Balance.Add(tx.Signed())

	if tx.IsExpense() {
		for _, a := range budget.Evaluate(analytics.TotalExpenses(s.Transactions), s.Budget, s.BaseCurrency) {
			s.Notifications.Publish(a.Kind, a.Message)
		}
	}
	s.Notifications.Info(fmt.Sprintf("Added %s: %s", tx.Type, tx.Description))
	return tx, nil
}

// DeleteTransaction reverses the balance effect of the transaction and
// removes it. An unknown id is a no-op and reports false.
func (s *State) DeleteTransaction(id core.TransactionID) (core.Transaction, bool) {
	for i, tx := range s.Transactions {
		if tx.ID != id {
			continue
		}
		if acct := s.account(tx.Account); acct != nil {
			acct.Balance = acct.Balance.Sub(tx.Signed())
		}
		s.Transactions = append(s.Transactions[:i:i], s.Transactions[i+1:]...)
		s.Notifications.Info("Transaction deleted")
		return tx, true
	}
	return core.Transaction{}, false
}

// ApplyBatch prepends txs in the given order and posts each to its account.
// It raises no budget alerts.
func (s *State) ApplyBatch(txs []core.Transaction) {
	if len(txs) == 0 {
		return
	}
	merged := make([]core.Transaction, 0, len(txs)+len(s.Transactions))
	merged = append(merged, txs...)
	s.Transactions = append(merged, s.Transactions...)
	for _, tx := range txs {
		if acct := s.account(tx.Account); acct != nil {
			acct.Balance = acct.Balance.Add(tx.Signed())
		}
	}
}

// ReplaceTransactions swaps the whole transaction list and recomputes
// every account balance from it.
func (s *State) ReplaceTransactions(txs []core.Transaction) {
	s.Transactions = append([]core.Transaction{}, txs...)
	s.Rebalance()
}

// Rebalance recomputes every account balance from the transaction list.
func (s *State) Rebalance() {
	sums := make(map[int64]decimal.Decimal, len(s.Accounts))
	for _, tx := range s.Transactions {
		sums[tx.Account] = sums[tx.Account].Add(tx.Signed())
	}
	for i := range s.Accounts {
		s.Accounts[i].Balance = sums[s.Accounts[i].ID]
	}
}

// FindTransaction returns the transaction with the given id.
func (s *State) FindTransaction(id core.TransactionID) (core.Transaction, bool) {
	for _, tx := range s.Transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return core.Transaction{}, false
}
