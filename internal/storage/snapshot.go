package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/goals"
	"fintrack/internal/ledger"

	"github.com/shopspring/decimal"
)

// Defaults seed a store that has never been written. Zero fields keep the
// built-in values.
type Defaults struct {
	Budget       decimal.Decimal
	BaseCurrency string
}

func (d Defaults) apply(s *ledger.State) {
	if d.Budget.IsPositive() {
		s.Budget = d.Budget
	}
	if code := strings.TrimSpace(d.BaseCurrency); code != "" {
		s.BaseCurrency = strings.ToUpper(code)
	}
}

// LoadState rebuilds the ledger from kv. Missing keys keep their default
// value; a key that fails to decode aborts the load.
func LoadState(ctx context.Context, kv KV) (*ledger.State, error) {
	return LoadStateWithDefaults(ctx, kv, Defaults{})
}

// LoadStateWithDefaults is LoadState with d applied before stored keys.
func LoadStateWithDefaults(ctx context.Context, kv KV, d Defaults) (*ledger.State, error) {
	s := ledger.NewDefault()
	d.apply(s)

	var (
		txs      []core.Transaction
		rules    []core.RecurringRule
		goalList []core.SavingsGoal
		accounts []core.Account
		budget   decimal.Decimal
		dark     bool
	)
	docs := []struct {
		key   string
		into  any
		apply func()
	}{
		{KeyTransactions, &txs, func() { s.Transactions = nonNil(txs) }},
		{KeyBudget, &budget, func() { s.Budget = budget }},
		{KeyDarkMode, &dark, func() { s.DarkMode = dark }},
		{KeyRecurring, &rules, func() { s.Rules = nonNil(rules) }},
		{KeyGoals, &goalList, func() { s.Goals = goals.NewTracker(goalList) }},
		{KeyAccounts, &accounts, func() {
			if len(accounts) > 0 {
				s.Accounts = accounts
			}
		}},
	}
	for _, d := range docs {
		raw, ok, err := kv.Load(ctx, d.key)
		if err != nil {
			return nil, err
		}
		if !ok || len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, d.into); err != nil {
			return nil, fmt.Errorf("decode %s: %w", d.key, err)
		}
		d.apply()
	}

	raw, ok, err := kv.Load(ctx, KeyBaseCurrency)
	if err != nil {
		return nil, err
	}
	if ok {
		if code := strings.TrimSpace(string(raw)); code != "" {
			s.BaseCurrency = strings.ToUpper(code)
		}
	}
	return s, nil
}

// SaveState writes every key. It stops at the first failing write, leaving
// earlier keys already updated.
func SaveState(ctx context.Context, kv KV, s *ledger.State) error {
	docs := map[string]any{
		KeyTransactions: nonNil(s.Transactions),
		KeyBudget:       s.Budget,
		KeyDarkMode:     s.DarkMode,
		KeyRecurring:    nonNil(s.Rules),
		KeyGoals:        nonNil(s.Goals.List()),
		KeyAccounts:     nonNil(s.Accounts),
	}
	for _, key := range Keys {
		var raw []byte
		if key == KeyBaseCurrency {
			raw = []byte(s.BaseCurrency)
		} else {
			var err error
			if raw, err = json.Marshal(docs[key]); err != nil {
				return fmt.Errorf("encode %s: %w", key, err)
			}
		}
		if err := kv.Save(ctx, key, raw); err != nil {
			return err
		}
	}
	return nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
