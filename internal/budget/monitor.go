// Package budget evaluates aggregate expenses against the monthly budget.
//
// Alerts are edge-triggered: callers evaluate only when an expense is
// inserted, never on deletion or on a timer.
package budget

import (
	"fmt"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

var (
	warningRatio = decimal.NewFromFloat(0.8)
	hundred      = decimal.NewFromInt(100)
)

// Alert is a notification the monitor wants published.
type Alert struct {
	Kind    core.NotificationKind
	Message string
}

// Level buckets budget usage for display.
type Level string

const (
	LevelOK      Level = "ok"
	LevelCaution Level = "caution"
	LevelDanger  Level = "danger"
)

// Progress summarises how much of the budget is used.
type Progress struct {
	Limit     decimal.Decimal `json:"limit"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   decimal.Decimal `json:"percent"`
	Level     Level           `json:"level"`
}

// Evaluate returns the alerts raised by a total that already includes the
// expense just added. A ratio above 0.8 yields a warning; above 1.0 it
// additionally yields an error naming the overage in currency.
func Evaluate(totalExpenses, limit decimal.Decimal, currency string) []Alert {
	if !limit.IsPositive() {
		return nil
	}
	var alerts []Alert
	if totalExpenses.GreaterThan(limit.Mul(warningRatio)) {
		pct := totalExpenses.Div(limit).Mul(hundred).Round(0)
		alerts = append(alerts, Alert{
			Kind:    core.KindWarning,
			Message: fmt.Sprintf("Warning: You've used %s%% of your budget!", pct.String()),
		})
	}
	if totalExpenses.GreaterThan(limit) {
		over := totalExpenses.Sub(limit)
		alerts = append(alerts, Alert{
			Kind:    core.KindError,
			Message: fmt.Sprintf("Alert: You've exceeded your budget by %s!", core.FormatCurrency(over, currency)),
		})
	}
	return alerts
}

// Compute reports usage with the percentage capped at 100.
func Compute(totalExpenses, limit decimal.Decimal) Progress {
	p := Progress{
		Limit:     limit,
		Spent:     totalExpenses,
		Remaining: limit.Sub(totalExpenses),
		Percent:   decimal.Zero,
		Level:     LevelOK,
	}
	if limit.IsPositive() {
		p.Percent = decimal.Min(totalExpenses.Div(limit).Mul(hundred), hundred).Round(2)
	}
	switch {
	case p.Percent.LessThan(decimal.NewFromInt(50)):
		p.Level = LevelOK
	case p.Percent.LessThan(decimal.NewFromInt(80)):
		p.Level = LevelCaution
	default:
		p.Level = LevelDanger
	}
	return p
}
