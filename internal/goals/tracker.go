// Package goals owns savings goals and their progress math.
package goals

import (
	"fmt"
	"math"
	"strings"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusCompleted Status = "Completed"
	StatusOverdue   Status = "Overdue"
	StatusDueSoon   Status = "Due Soon"
	StatusOnTrack   Status = "On Track"
)

// DueSoonDays is the window in which an unfinished goal is flagged.
const DueSoonDays = 30

var hundred = decimal.NewFromInt(100)

// Progress is the derived view of a goal at a point in time.
type Progress struct {
	Goal          core.SavingsGoal `json:"goal"`
	Percent       decimal.Decimal  `json:"percent"`
	DaysRemaining *int             `json:"daysRemaining,omitempty"`
	Status        Status           `json:"status"`
	Current       string           `json:"currentFormatted"`
	Target        string           `json:"targetFormatted"`
	Remaining     string           `json:"remainingFormatted"`
}

// Tracker holds goals in creation order.
type Tracker struct {
	goals  []core.SavingsGoal
	nextID int64
}

func NewTracker(goals []core.SavingsGoal) *Tracker {
	t := &Tracker{}
	t.Replace(goals)
	return t
}

// Replace swaps the goal set wholesale, e.g. after loading a snapshot.
func (t *Tracker) Replace(goals []core.SavingsGoal) {
	t.goals = append([]core.SavingsGoal(nil), goals...)
	t.nextID = 0
	for _, g := range t.goals {
		if g.ID > t.nextID {
			t.nextID = g.ID
		}
	}
}

func (t *Tracker) List() []core.SavingsGoal {
	return append([]core.SavingsGoal(nil), t.goals...)
}

func (t *Tracker) Get(id int64) (core.SavingsGoal, error) {
	i := t.index(id)
	if i < 0 {
		return core.SavingsGoal{}, fmt.Errorf("goal %d: %w", id, core.ErrGoalNotFound)
	}
	return t.goals[i], nil
}

// Add assigns identity and creation time to g and stores it.
func (t *Tracker) Add(g core.SavingsGoal, now time.Time) (core.SavingsGoal, error) {
	g.Name = strings.TrimSpace(g.Name)
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	t.nextID++
	g.ID = t.nextID
	g.CreatedAt = now
	t.goals = append(t.goals, g)
	return g, nil
}

// Update replaces the editable fields of an existing goal, keeping its
// identity and creation time.
func (t *Tracker) Update(g core.SavingsGoal) (core.SavingsGoal, error) {
	i := t.index(g.ID)
	if i < 0 {
		return core.SavingsGoal{}, fmt.Errorf("goal %d: %w", g.ID, core.ErrGoalNotFound)
	}
	g.Name = strings.TrimSpace(g.Name)
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	g.CreatedAt = t.goals[i].CreatedAt
	t.goals[i] = g
	return g, nil
}

// Delete removes a goal; unknown ids are ignored.
func (t *Tracker) Delete(id int64) bool {
	i := t.index(id)
	if i < 0 {
		return false
	}
	t.goals = append(t.goals[:i], t.goals[i+1:]...)
	return true
}

// Contribute adds delta to the goal's current amount. Negative deltas
// withdraw, but the amount never drops below zero.
func (t *Tracker) Contribute(id int64, delta decimal.Decimal) (core.SavingsGoal, error) {
	i := t.index(id)
	if i < 0 {
		return core.SavingsGoal{}, fmt.Errorf("goal %d: %w", id, core.ErrGoalNotFound)
	}
	if delta.IsZero() {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}
	next := t.goals[i].CurrentAmount.Add(delta)
	if next.IsNegative() {
		next = decimal.Zero
	}
	t.goals[i].CurrentAmount = core.RoundCents(next)
	return t.goals[i], nil
}

// SetProgress overwrites the current amount.
func (t *Tracker) SetProgress(id int64, amount decimal.Decimal) (core.SavingsGoal, error) {
	i := t.index(id)
	if i < 0 {
		return core.SavingsGoal{}, fmt.Errorf("goal %d: %w", id, core.ErrGoalNotFound)
	}
	if amount.IsNegative() {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}
	t.goals[i].CurrentAmount = core.RoundCents(amount)
	return t.goals[i], nil
}

// Evaluate derives progress for every goal, formatting money in currency.
func (t *Tracker) Evaluate(now time.Time, currency string) []Progress {
	out := make([]Progress, 0, len(t.goals))
	for _, g := range t.goals {
		out = append(out, Evaluate(g, now, currency))
	}
	return out
}

// Evaluate derives the progress of a single goal.
func Evaluate(g core.SavingsGoal, now time.Time, currency string) Progress {
	p := Progress{
		Goal:    g,
		Percent: Percent(g.CurrentAmount, g.TargetAmount),
		Current: core.FormatCurrency(g.CurrentAmount, currency),
		Target:  core.FormatCurrency(g.TargetAmount, currency),
	}
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	p.Remaining = core.FormatCurrency(remaining, currency)

	if !g.TargetDate.IsEmpty() {
		d := DaysRemaining(g.TargetDate, now)
		p.DaysRemaining = &d
	}
	p.Status = statusOf(p.Percent, p.DaysRemaining)
	return p
}

// Percent is current/target as a percentage capped at 100.
func Percent(current, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	pct := current.Div(target).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return pct.Round(2)
}

// DaysRemaining counts days from now until midnight UTC of the target
// date, rounding partial days up. Past dates give negative values.
func DaysRemaining(target core.Date, now time.Time) int {
	diff := target.Sub(now).Hours() / 24
	return int(math.Ceil(diff))
}

func statusOf(pct decimal.Decimal, days *int) Status {
	switch {
	case pct.GreaterThanOrEqual(hundred):
		return StatusCompleted
	case days == nil:
		return StatusOnTrack
	case *days < 0:
		return StatusOverdue
	case *days < DueSoonDays:
		return StatusDueSoon
	default:
		return StatusOnTrack
	}
}

func (t *Tracker) index(id int64) int {
	for i, g := range t.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}
