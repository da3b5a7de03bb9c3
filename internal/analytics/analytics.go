// Package analytics derives summaries from a transaction set.
//
// Every function recomputes from the full input; nothing is cached.
package analytics

import (
	"sort"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

const (
	TrendDays     = 7
	TopCategories = 3
	StatsTop      = 5
)

// Bucket is one category cell of a breakdown.
type Bucket struct {
	Category core.Category   `json:"category"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"value"`
}

// DayBucket is one calendar day of the spending trend.
type DayBucket struct {
	Date   core.Date       `json:"date"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type Totals struct {
	Income   decimal.Decimal `json:"totalIncome"`
	Expenses decimal.Decimal `json:"totalExpenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// Stats summarises the whole data set, income and expense alike.
type Stats struct {
	Count         int             `json:"totalTransactions"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	TopCategories []Bucket        `json:"topCategories"`
}

// Report bundles the dashboard views.
type Report struct {
	Totals    Totals      `json:"totals"`
	Breakdown []Bucket    `json:"breakdown"`
	Trend     []DayBucket `json:"trend"`
	Top       []Bucket    `json:"top"`
}

// Build computes every dashboard view for today.
func Build(txs []core.Transaction, today time.Time) Report {
	breakdown := Breakdown(txs)
	return Report{
		Totals:    ComputeTotals(txs),
		Breakdown: breakdown,
		Trend:     Trend(txs, today),
		Top:       head(breakdown, TopCategories),
	}
}

// Breakdown partitions expenses by category and returns the per-category
// sums rounded to cents, largest first. Equal sums keep first-seen order.
func Breakdown(txs []core.Transaction) []Bucket {
	return groupByCategory(txs, func(t core.Transaction) bool { return t.IsExpense() })
}

// Top returns the n largest expense categories.
func Top(txs []core.Transaction, n int) []Bucket {
	return head(Breakdown(txs), n)
}

// Trend returns one bucket per calendar day for the seven days ending on
// today, oldest first. Days are compared in today's location.
func Trend(txs []core.Transaction, today time.Time) []DayBucket {
	loc := today.Location()
	y, m, d := today.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, loc)

	out := make([]DayBucket, TrendDays)
	index := make(map[time.Time]int, TrendDays)
	for i := 0; i < TrendDays; i++ {
		day := end.AddDate(0, 0, i-(TrendDays-1))
		out[i] = DayBucket{
			Date:   core.NewDate(day.Year(), int(day.Month()), day.Day()),
			Label:  day.Format("Jan 2"),
			Amount: decimal.Zero,
		}
		index[day] = i
	}

	for _, t := range txs {
		if !t.IsExpense() {
			continue
		}
		ty, tm, td := t.Date.In(loc).Date()
		if i, ok := index[time.Date(ty, tm, td, 0, 0, 0, 0, loc)]; ok {
			out[i].Amount = out[i].Amount.Add(t.Amount)
		}
	}
	for i := range out {
		out[i].Amount = core.RoundCents(out[i].Amount)
	}
	return out
}

func ComputeTotals(txs []core.Transaction) Totals {
	income, expenses := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.IsExpense() {
			expenses = expenses.Add(t.Amount)
		} else {
			income = income.Add(t.Amount)
		}
	}
	return Totals{Income: income, Expenses: expenses, Balance: income.Sub(expenses)}
}

// TotalExpenses is the amount the budget is measured against.
func TotalExpenses(txs []core.Transaction) decimal.Decimal {
	return ComputeTotals(txs).Expenses
}

// ComputeStats returns the count, totals and the five categories with the
// largest summed amount across all transactions.
func ComputeStats(txs []core.Transaction) Stats {
	totals := ComputeTotals(txs)
	return Stats{
		Count:         len(txs),
		TotalIncome:   totals.Income,
		TotalExpenses: totals.Expenses,
		TopCategories: head(groupByCategory(txs, func(core.Transaction) bool { return true }), StatsTop),
	}
}

func groupByCategory(txs []core.Transaction, keep func(core.Transaction) bool) []Bucket {
	sums := make(map[core.Category]decimal.Decimal)
	var order []core.Category
	for _, t := range txs {
		if !keep(t) {
			continue
		}
		c := t.Category.Normalize()
		if _, seen := sums[c]; !seen {
			order = append(order, c)
			sums[c] = decimal.Zero
		}
		sums[c] = sums[c].Add(t.Amount)
	}

	out := make([]Bucket, 0, len(order))
	for _, c := range order {
		out = append(out, Bucket{Category: c, Name: c.Name(), Amount: core.RoundCents(sums[c])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

func head(b []Bucket, n int) []Bucket {
	if n < len(b) {
		return b[:n]
	}
	return b
}
