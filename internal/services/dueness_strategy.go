// Package services orchestrates ledger commands: the recurring scheduler
// and the serialized command facade used by every entry point.
//
// This file holds the dueness strategies. Each frequency maps to a checker
// that decides, from lastProcessed and the reference instant alone, whether
// a rule fires.
package services

import (
	"fmt"
	"math"
	"sync"
	"time"

	"fintrack/internal/core"
)

// DuenessChecker decides whether a rule is due at ref. A zero lastProcessed
// means the rule never fired and is measured from the Unix epoch.
type DuenessChecker interface {
	IsDue(lastProcessed, ref time.Time, startDate core.Date) bool
}

// IntervalChecker fires once at least Days whole days have elapsed.
//
// Monthly and yearly rules use 30 and 365 days rather than calendar
// arithmetic, so a monthly rule drifts earlier across 31-day months.
type IntervalChecker struct {
	Days int
}

func (c IntervalChecker) IsDue(lastProcessed, ref time.Time, _ core.Date) bool {
	return ElapsedDays(lastProcessed, ref) >= c.Days
}

// ElapsedDays is the floor of (ref - lastProcessed) in 24h units.
// Negative when lastProcessed is after ref.
func ElapsedDays(lastProcessed, ref time.Time) int {
	if lastProcessed.IsZero() {
		lastProcessed = time.Unix(0, 0)
	}
	return int(math.Floor(ref.Sub(lastProcessed).Hours() / 24))
}

var (
	strategiesMu      sync.RWMutex
	duenessStrategies = map[core.Frequency]DuenessChecker{
		core.Daily:   IntervalChecker{Days: 1},
		core.Weekly:  IntervalChecker{Days: 7},
		core.Monthly: IntervalChecker{Days: 30},
		core.Yearly:  IntervalChecker{Days: 365},
	}
)

// GetDuenessChecker returns the checker for a frequency.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	strategiesMu.RLock()
	defer strategiesMu.RUnlock()
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownFrequency, frequency)
	}
	return checker, nil
}

// RegisterDuenessChecker adds or replaces the checker for a frequency.
func RegisterDuenessChecker(frequency core.Frequency, checker DuenessChecker) {
	strategiesMu.Lock()
	defer strategiesMu.Unlock()
	duenessStrategies[frequency] = checker
}

// IsRuleDue evaluates a rule against ref. Unknown frequencies are never due.
func IsRuleDue(r core.RecurringRule, ref time.Time) (bool, error) {
	checker, err := GetDuenessChecker(r.Frequency)
	if err != nil {
		return false, err
	}
	var last time.Time
	if r.LastProcessed != nil {
		last = *r.LastProcessed
	}
	return checker.IsDue(last, ref, r.StartDate), nil
}
