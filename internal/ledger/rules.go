package ledger

import (
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
)

// AddRule stores a new recurring rule. It has never fired.
func (s *State) AddRule(r core.RecurringRule) (core.RecurringRule, error) {
	r.Description = strings.TrimSpace(r.Description)
	r.Amount = core.RoundCents(r.Amount)
	if err := r.Validate(); err != nil {
		return core.RecurringRule{}, err
	}
	if s.account(r.Account) == nil {
		return core.RecurringRule{}, fmt.Errorf("account %d: %w", r.Account, core.ErrAccountNotFound)
	}
	r.LastProcessed = nil
	r.ID = s.nextRuleID()
	s.Rules = append(s.Rules, r)
	return r, nil
}

// UpdateRule edits a rule's user-facing fields. lastProcessed belongs to
// the scheduler and survives the edit.
func (s *State) UpdateRule(r core.RecurringRule) (core.RecurringRule, error) {
	i := s.ruleIndex(r.ID)
	if i < 0 {
		return core.RecurringRule{}, fmt.Errorf("rule %d: %w", r.ID, core.ErrRuleNotFound)
	}
	r.Description = strings.TrimSpace(r.Description)
	r.Amount = core.RoundCents(r.Amount)
	if err := r.Validate(); err != nil {
		return core.RecurringRule{}, err
	}
	if s.account(r.Account) == nil {
		return core.RecurringRule{}, fmt.Errorf("account %d: %w", r.Account, core.ErrAccountNotFound)
	}
	r.LastProcessed = s.Rules[i].LastProcessed
	s.Rules[i] = r
	return r, nil
}

// DeleteRule removes a rule. Transactions it generated are kept.
func (s *State) DeleteRule(id int64) bool {
	i := s.ruleIndex(id)
	if i < 0 {
		return false
	}
	s.Rules = append(s.Rules[:i:i], s.Rules[i+1:]...)
	return true
}

// MarkProcessed records that the given rules fired at ref.
func (s *State) MarkProcessed(ids []int64, ref time.Time) {
	for _, id := range ids {
		if i := s.ruleIndex(id); i >= 0 {
			t := ref
			s.Rules[i].LastProcessed = &t
		}
	}
}

// nextRuleID returns an id above every rule id still referenced, including
// the recurringId of transactions generated by deleted rules.
func (s *State) nextRuleID() int64 {
	var high int64
	for _, r := range s.Rules {
		high = max(high, r.ID)
	}
	for _, tx := range s.Transactions {
		if tx.RecurringID != nil {
			high = max(high, *tx.RecurringID)
		}
	}
	return high + 1
}

func (s *State) ruleIndex(id int64) int {
	for i, r := range s.Rules {
		if r.ID == id {
			return i
		}
	}
	return -1
}
