// Package filter selects transactions matching a conjunctive set of criteria.
package filter

import (
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// All disables a predicate.
const All = "all"

const (
	RangeWeek  = "week"
	RangeMonth = "month"

	AmountSmall  = "small"
	AmountMedium = "medium"
	AmountLarge  = "large"
)

var (
	smallUpper  = decimal.NewFromInt(50)
	mediumUpper = decimal.NewFromInt(200)
)

// Criteria is a conjunction of five predicates. Empty or "all" values
// make the corresponding predicate always true.
type Criteria struct {
	Category    string `json:"category"`
	Search      string `json:"search"`
	DateRange   string `json:"dateRange"`
	AmountRange string `json:"amountRange"`
	Account     string `json:"account"`
}

// Default returns criteria that match every transaction.
func Default() Criteria {
	return Criteria{Category: All, DateRange: All, AmountRange: All, Account: All}
}

// Apply returns the transactions satisfying every active predicate,
// preserving input order. now anchors the week and month ranges.
func Apply(txs []core.Transaction, c Criteria, now time.Time) []core.Transaction {
	m := c.matcher(now)
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if m(t) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether a single transaction passes the criteria.
func (c Criteria) Matches(t core.Transaction, now time.Time) bool {
	return c.matcher(now)(t)
}

func (c Criteria) matcher(now time.Time) func(core.Transaction) bool {
	search := strings.ToLower(c.Search)
	accountAll := isAll(c.Account)
	accountID, accountErr := strconv.ParseInt(strings.TrimSpace(c.Account), 10, 64)
	since, hasSince := rangeStart(c.DateRange, now)

	return func(t core.Transaction) bool {
		if !isAll(c.Category) && string(t.Category) != c.Category {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			return false
		}
		if !accountAll && (accountErr != nil || t.Account != accountID) {
			return false
		}
		if hasSince && t.Date.Before(since) {
			return false
		}
		return matchesAmount(c.AmountRange, t.Amount)
	}
}

// StartOfWeek returns midnight of the most recent Sunday in now's location.
func StartOfWeek(now time.Time) time.Time {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -int(now.Weekday()))
}

// StartOfMonth returns midnight of the first day of now's month.
func StartOfMonth(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
}

func rangeStart(r string, now time.Time) (time.Time, bool) {
	switch r {
	case RangeWeek:
		return StartOfWeek(now), true
	case RangeMonth:
		return StartOfMonth(now), true
	default:
		return time.Time{}, false
	}
}

func matchesAmount(r string, amount decimal.Decimal) bool {
	switch r {
	case AmountSmall:
		return amount.LessThan(smallUpper)
	case AmountMedium:
		return amount.GreaterThanOrEqual(smallUpper) && amount.LessThan(mediumUpper)
	case AmountLarge:
		return amount.GreaterThanOrEqual(mediumUpper)
	default:
		return true
	}
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == All
}
