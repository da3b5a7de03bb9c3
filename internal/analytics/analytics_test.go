package analytics

import (
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func expense(cat core.Category, amount string, at time.Time) core.Transaction {
	return core.Transaction{
		ID:       core.NewTransactionID(),
		Amount:   decimal.RequireFromString(amount),
		Category: cat,
		Type:     core.Expense,
		Account:  1,
		Date:     at,
	}
}

func income(cat core.Category, amount string, at time.Time) core.Transaction {
	t := expense(cat, amount, at)
	t.Type = core.Income
	return t
}

func TestBreakdown(t *testing.T) {
	txs := []core.Transaction{
		expense(core.CategoryFood, "10.005", today),
		expense(core.CategoryRent, "800", today),
		expense(core.CategoryFood, "20", today),
		income(core.CategorySalary, "3000", today),
		expense("mystery", "5", today),
		expense(core.CategoryOther, "1", today),
	}

	got := Breakdown(txs)
	require.Len(t, got, 3)
	assert.Equal(t, core.CategoryRent, got[0].Category)
	assert.Equal(t, "Rent", got[0].Name)
	assert.Equal(t, core.CategoryFood, got[1].Category)
	assert.Equal(t, "30.01", got[1].Amount.StringFixed(2))
	assert.Equal(t, core.CategoryOther, got[2].Category)
	assert.True(t, got[2].Amount.Equal(decimal.NewFromInt(6)))
}

func TestBreakdown_SumsToTotalExpenses(t *testing.T) {
	txs := []core.Transaction{
		expense(core.CategoryFood, "12.34", today),
		expense(core.CategoryTransport, "0.66", today),
		expense(core.CategoryFood, "7.5", today),
		expense(core.CategoryHealth, "100", today),
		income(core.CategorySalary, "50", today),
	}
	sum := decimal.Zero
	for _, b := range Breakdown(txs) {
		sum = sum.Add(b.Amount)
	}
	assert.True(t, sum.Equal(TotalExpenses(txs)), "sum %s", sum)
}

func TestBreakdown_TiesKeepFirstSeenOrder(t *testing.T) {
	txs := []core.Transaction{
		expense(core.CategoryHealth, "5", today),
		expense(core.CategoryFood, "5", today),
	}
	got := Breakdown(txs)
	require.Len(t, got, 2)
	assert.Equal(t, core.CategoryHealth, got[0].Category)
	assert.Equal(t, core.CategoryFood, got[1].Category)
}

func TestTrend(t *testing.T) {
	txs := []core.Transaction{
		expense(core.CategoryFood, "10", today.Add(-8*time.Hour)),
		expense(core.CategoryFood, "2.5", time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)),
		expense(core.CategoryFood, "4", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)),
		expense(core.CategoryFood, "99", time.Date(2025, 3, 3, 23, 0, 0, 0, time.UTC)),
		income(core.CategorySalary, "1000", today),
	}

	got := Trend(txs, today)
	require.Len(t, got, TrendDays)
	assert.Equal(t, "2025-03-04", got[0].Date.String())
	assert.Equal(t, "Mar 4", got[0].Label)
	assert.Equal(t, "2025-03-10", got[6].Date.String())

	assert.Equal(t, "4", got[0].Amount.String())
	assert.Equal(t, "2.5", got[5].Amount.String())
	assert.Equal(t, "10", got[6].Amount.String())
	for _, d := range got[1:5] {
		assert.True(t, d.Amount.IsZero())
	}
}

func TestTopAndTotals(t *testing.T) {
	txs := []core.Transaction{
		expense(core.CategoryFood, "1", today),
		expense(core.CategoryRent, "4", today),
		expense(core.CategoryHealth, "3", today),
		expense(core.CategoryShopping, "2", today),
		income(core.CategorySalary, "20", today),
	}

	top := Top(txs, TopCategories)
	require.Len(t, top, 3)
	assert.Equal(t, []core.Category{core.CategoryRent, core.CategoryHealth, core.CategoryShopping},
		[]core.Category{top[0].Category, top[1].Category, top[2].Category})

	totals := ComputeTotals(txs)
	assert.Equal(t, "20", totals.Income.String())
	assert.Equal(t, "10", totals.Expenses.String())
	assert.Equal(t, "10", totals.Balance.String())

	assert.Len(t, Top(txs[:1], TopCategories), 1)
}

func TestComputeStats(t *testing.T) {
	txs := []core.Transaction{
		income(core.CategorySalary, "3000", today),
		expense(core.CategoryRent, "900", today),
		expense(core.CategoryFood, "50", today),
		expense(core.CategoryHealth, "40", today),
		expense(core.CategoryTransport, "30", today),
		expense(core.CategoryShopping, "20", today),
		expense(core.CategoryUtilities, "10", today),
	}

	s := ComputeStats(txs)
	assert.Equal(t, 7, s.Count)
	assert.Equal(t, "3000", s.TotalIncome.String())
	assert.Equal(t, "1050", s.TotalExpenses.String())
	require.Len(t, s.TopCategories, StatsTop)
	assert.Equal(t, core.CategorySalary, s.TopCategories[0].Category)
	assert.Equal(t, core.CategoryTransport, s.TopCategories[4].Category)
}

func TestBuild(t *testing.T) {
	r := Build(nil, today)
	assert.Empty(t, r.Breakdown)
	assert.Empty(t, r.Top)
	assert.Len(t, r.Trend, TrendDays)
	assert.True(t, r.Totals.Balance.IsZero())
}
