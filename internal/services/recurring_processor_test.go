package services

import (
	"context"
	"io"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(log.Config{Output: io.Discard})
}

func ruleState(t *testing.T, rules ...core.RecurringRule) *ledger.State {
	t.Helper()
	s := ledger.NewDefault()
	for _, r := range rules {
		last := r.LastProcessed
		added, err := s.AddRule(r)
		require.NoError(t, err)
		if last != nil {
			s.MarkProcessed([]int64{added.ID}, *last)
		}
	}
	return s
}

func rule(desc string, freq core.Frequency, typ core.TransactionType, amount string, last *time.Time) core.RecurringRule {
	return core.RecurringRule{
		Description:   desc,
		Amount:        decimal.RequireFromString(amount),
		Category:      core.CategoryUtilities,
		Type:          typ,
		Account:       1,
		Frequency:     freq,
		StartDate:     core.NewDate(2024, 1, 1),
		LastProcessed: last,
	}
}

func TestTick_OverdueDailyFiresOnce(t *testing.T) {
	ref := time.Date(2025, 2, 10, 6, 0, 0, 0, time.UTC)
	twoDaysAgo := ref.AddDate(0, 0, -2)
	s := ruleState(t, rule("Coffee sub", core.Daily, core.Expense, "5", &twoDaysAgo))

	p := NewRecurringProcessor(quietLogger())
	res := p.Tick(context.Background(), s, ref)

	require.Equal(t, 1, res.Count())
	tx := res.Generated[0]
	assert.True(t, tx.IsRecurring)
	require.NotNil(t, tx.RecurringID)
	assert.Equal(t, int64(1), *tx.RecurringID)
	assert.Equal(t, ref, tx.Date)
	assert.Equal(t, "Coffee sub", tx.Description)

	require.Len(t, s.Transactions, 1)
	acct, _ := s.Account(1)
	assert.Equal(t, "-5", acct.Balance.String())
	require.NotNil(t, s.Rules[0].LastProcessed)
	assert.Equal(t, ref, *s.Rules[0].LastProcessed)
	assert.Equal(t, "Added 1 recurring transactions", s.Notifications.List()[0].Message)
}

func TestTick_Idempotent(t *testing.T) {
	ref := time.Date(2025, 2, 10, 6, 0, 0, 0, time.UTC)
	s := ruleState(t,
		rule("Rent", core.Monthly, core.Expense, "900", nil),
		rule("Salary", core.Monthly, core.Income, "3000", nil),
		rule("Paper", core.Weekly, core.Expense, "3", nil),
	)
	p := NewRecurringProcessor(quietLogger())

	first := p.Tick(context.Background(), s, ref)
	assert.Equal(t, 3, first.Count())
	assert.Equal(t, []int64{1, 2, 3}, first.Fired)
	notes := s.Notifications.Len()

	second := p.Tick(context.Background(), s, ref)
	assert.Zero(t, second.Count())
	assert.Len(t, s.Transactions, 3)
	assert.Equal(t, notes, s.Notifications.Len(), "no notification for an empty batch")

	acct, _ := s.Account(1)
	assert.Equal(t, "2097", acct.Balance.String())
}

func TestTick_MixedDueness(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recent := ref.AddDate(0, 0, -3)
	old := ref.AddDate(0, 0, -40)
	s := ruleState(t,
		rule("weekly recent", core.Weekly, core.Expense, "1", &recent),
		rule("monthly old", core.Monthly, core.Expense, "2", &old),
		rule("daily recent", core.Daily, core.Expense, "3", &recent),
	)

	res := NewRecurringProcessor(quietLogger()).Tick(context.Background(), s, ref)
	assert.Equal(t, []int64{2, 3}, res.Fired)
	assert.Equal(t, recent, *s.Rules[0].LastProcessed)
	assert.Equal(t, ref, *s.Rules[1].LastProcessed)
}

func TestTick_UnknownFrequencySkipped(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := ledger.NewDefault()
	s.Rules = []core.RecurringRule{{ID: 9, Description: "odd", Amount: decimal.NewFromInt(1), Type: core.Expense, Account: 1, Frequency: "hourly"}}

	res := NewRecurringProcessor(quietLogger()).Tick(context.Background(), s, ref)
	assert.Zero(t, res.Count())
	assert.Nil(t, s.Rules[0].LastProcessed)
}

func TestTick_FiringIndependentOfTransactionLifecycle(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := ruleState(t, rule("Gym", core.Monthly, core.Expense, "30", nil))
	p := NewRecurringProcessor(quietLogger())

	res := p.Tick(context.Background(), s, ref)
	require.Equal(t, 1, res.Count())
	_, ok := s.DeleteTransaction(res.Generated[0].ID)
	require.True(t, ok)

	assert.Zero(t, p.Tick(context.Background(), s, ref.Add(time.Hour)).Count())
	assert.Equal(t, 1, p.Tick(context.Background(), s, ref.AddDate(0, 0, 30)).Count())
}
