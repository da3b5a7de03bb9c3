package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/budget"
	"fintrack/internal/codec"
	"fintrack/internal/core"
	"fintrack/internal/filter"
	"fintrack/internal/goals"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/notify"
	"fintrack/internal/sheets"
	"fintrack/internal/storage"

	"github.com/shopspring/decimal"
)

// EventPublisher receives ledger events after a command completes.
type EventPublisher interface {
	Publish(ctx context.Context, e *amqp.Event) error
}

// Settings are the user preferences exposed alongside the ledger.
type Settings struct {
	BaseCurrency string          `json:"baseCurrency"`
	DarkMode     bool            `json:"darkMode"`
	Budget       decimal.Decimal `json:"budget"`
}

// SettingsUpdate carries optional changes; nil fields are left alone.
type SettingsUpdate struct {
	BaseCurrency *string `json:"baseCurrency"`
	DarkMode     *bool   `json:"darkMode"`
}

// Option configures a LedgerService.
type Option func(*LedgerService)

func WithPublisher(p EventPublisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

func WithExporter(e sheets.TransactionExporter) Option {
	return func(s *LedgerService) { s.exporter = e }
}

func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) { s.logger = l }
}

// WithDefaults sets the budget and currency used for keys the store lacks.
func WithDefaults(d storage.Defaults) Option {
	return func(s *LedgerService) { s.defaults = d }
}

// ErrExportUnavailable is returned when no spreadsheet exporter is set.
var ErrExportUnavailable = errors.New("spreadsheet export not configured")

// LedgerService runs one command at a time against the ledger state,
// persists the result and publishes the resulting events. Every entry
// point (HTTP, CLI, worker) goes through it.
type LedgerService struct {
	mu        sync.Mutex
	state     *ledger.State
	kv        storage.KV
	processor *RecurringProcessor
	publisher EventPublisher
	exporter  sheets.TransactionExporter
	now       func() time.Time
	logger    *log.Logger
	defaults  storage.Defaults

	pending []*amqp.Event
}

// NewLedgerService loads the state from kv.
func NewLedgerService(ctx context.Context, kv storage.KV, opts ...Option) (*LedgerService, error) {
	s := &LedgerService{kv: kv, now: time.Now, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)
	s.processor = NewRecurringProcessor(s.logger)

	state, err := storage.LoadStateWithDefaults(ctx, kv, s.defaults)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	s.attach(state)
	s.logger.InfoContext(ctx, "Ledger loaded",
		log.FieldCount, len(state.Transactions),
		"accounts", len(state.Accounts),
		"rules", len(state.Rules))
	return s, nil
}

func (s *LedgerService) attach(state *ledger.State) {
	if s.state != nil {
		state.Notifications = s.state.Notifications
	} else {
		state.Notifications.WithClock(s.now)
		state.Notifications.Subscribe(notify.SinkFunc(func(n core.Notification) {
			s.emit(amqp.EventNotification, n)
		}))
	}
	s.state = state
}

// Reload replaces the in-memory state with what the store holds. Used by
// processes that share the store with another writer.
func (s *LedgerService) Reload(ctx context.Context) error {
	state, err := storage.LoadStateWithDefaults(ctx, s.kv, s.defaults)
	if err != nil {
		return fmt.Errorf("reload ledger: %w", err)
	}
	s.mu.Lock()
	s.attach(state)
	s.mu.Unlock()
	return nil
}

// emit queues an event; callers hold s.mu.
func (s *LedgerService) emit(typ amqp.EventType, payload any) {
	if s.publisher == nil {
		return
	}
	e, err := amqp.NewEvent(typ, payload, s.now())
	if err != nil {
		s.logger.Error("Failed to build event", log.FieldError, err, "event", typ)
		return
	}
	s.pending = append(s.pending, e)
}

// mutate runs fn under the lock, persists on success and publishes queued
// events once the lock is released.
func (s *LedgerService) mutate(ctx context.Context, op string, fn func(st *ledger.State) error) error {
	s.mu.Lock()
	err := fn(s.state)
	if err == nil {
		if perr := storage.SaveState(ctx, s.kv, s.state); perr != nil {
			s.logger.Failure(ctx, "Failed to persist ledger", op, perr)
			err = fmt.Errorf("persist: %w", perr)
		}
	}
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, e := range events {
		if perr := s.publisher.Publish(ctx, e); perr != nil {
			s.logger.WarnContext(ctx, "Failed to publish event",
				log.FieldOperation, log.OpPublish, "event", e.Type, log.FieldError, perr)
		}
	}
	return err
}

func (s *LedgerService) read(fn func(st *ledger.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Transactions returns the transactions matching c, newest first.
func (s *LedgerService) Transactions(c filter.Criteria) []core.Transaction {
	var out []core.Transaction
	s.read(func(st *ledger.State) { out = filter.Apply(st.Transactions, c, s.now()) })
	return out
}

func (s *LedgerService) AddTransaction(ctx context.Context, d core.TransactionDraft, accountID int64) (core.Transaction, error) {
	var tx core.Transaction
	err := s.mutate(ctx, log.OpAddTransaction, func(st *ledger.State) error {
		var err error
		if tx, err = st.AddTransaction(d, accountID, s.now()); err != nil {
			return err
		}
		s.emit(amqp.EventTransactionAdded, tx)
		return nil
	})
	if err != nil {
		return tx, err
	}
	s.logger.Mutation(ctx, log.OpAddTransaction,
		log.FieldTransactionID, tx.ID,
		log.FieldAccountID, tx.Account,
		log.FieldType, tx.Type,
		log.FieldAmount, tx.Amount.String())
	return tx, nil
}

// DeleteTransaction removes a transaction. Unknown ids are not an error.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id core.TransactionID) (bool, error) {
	var found bool
	err := s.mutate(ctx, log.OpDeleteTransaction, func(st *ledger.State) error {
		var tx core.Transaction
		if tx, found = st.DeleteTransaction(id); found {
			s.emit(amqp.EventTransactionDeleted, tx)
		}
		return nil
	})
	if err == nil && found {
		s.logger.Mutation(ctx, log.OpDeleteTransaction, log.FieldTransactionID, id)
	}
	return found, err
}

func (s *LedgerService) Accounts() []core.Account {
	var out []core.Account
	s.read(func(st *ledger.State) { out = append([]core.Account(nil), st.Accounts...) })
	return out
}

func (s *LedgerService) AddAccount(ctx context.Context, name, currency string) (core.Account, error) {
	var a core.Account
	err := s.mutate(ctx, log.OpAddAccount, func(st *ledger.State) error {
		var err error
		a, err = st.AddAccount(name, currency)
		return err
	})
	if err == nil {
		s.logger.Mutation(ctx, log.OpAddAccount, log.FieldAccountID, a.ID)
	}
	return a, err
}

func (s *LedgerService) UpdateAccount(ctx context.Context, id int64, name, currency string) (core.Account, error) {
	var a core.Account
	err := s.mutate(ctx, log.OpUpdateAccount, func(st *ledger.State) error {
		var err error
		a, err = st.UpdateAccount(id, name, currency)
		return err
	})
	return a, err
}

func (s *LedgerService) DeleteAccount(ctx context.Context, id int64) error {
	err := s.mutate(ctx, log.OpDeleteAccount, func(st *ledger.State) error {
		return st.DeleteAccount(id)
	})
	if err == nil {
		s.logger.Mutation(ctx, log.OpDeleteAccount, log.FieldAccountID, id)
	}
	return err
}

func (s *LedgerService) Rules() []core.RecurringRule {
	var out []core.RecurringRule
	s.read(func(st *ledger.State) { out = append([]core.RecurringRule(nil), st.Rules...) })
	return out
}

func (s *LedgerService) AddRule(ctx context.Context, r core.RecurringRule) (core.RecurringRule, error) {
	var added core.RecurringRule
	err := s.mutate(ctx, log.OpAddRule, func(st *ledger.State) error {
		var err error
		added, err = st.AddRule(r)
		return err
	})
	if err == nil {
		s.logger.Mutation(ctx, log.OpAddRule, log.FieldRuleID, added.ID, log.FieldFrequency, added.Frequency)
	}
	return added, err
}

func (s *LedgerService) UpdateRule(ctx context.Context, r core.RecurringRule) (core.RecurringRule, error) {
	var updated core.RecurringRule
	err := s.mutate(ctx, log.OpUpdateRule, func(st *ledger.State) error {
		var err error
		updated, err = st.UpdateRule(r)
		return err
	})
	return updated, err
}

func (s *LedgerService) DeleteRule(ctx context.Context, id int64) error {
	return s.mutate(ctx, log.OpDeleteRule, func(st *ledger.State) error {
		if !st.DeleteRule(id) {
			return fmt.Errorf("rule %d: %w", id, core.ErrRuleNotFound)
		}
		return nil
	})
}

// Tick fires due recurring rules at the current time.
func (s *LedgerService) Tick(ctx context.Context) (TickResult, error) {
	return s.TickAt(ctx, s.now())
}

// TickAt fires due recurring rules at ref. Startup and the periodic timer
// both end up here.
func (s *LedgerService) TickAt(ctx context.Context, ref time.Time) (TickResult, error) {
	var res TickResult
	err := s.mutate(ctx, log.OpTick, func(st *ledger.State) error {
		res = s.processor.Tick(ctx, st, ref)
		if res.Count() > 0 {
			s.emit(amqp.EventRecurringTick, amqp.TickSummary{
				Reference: ref, Generated: res.Count(), RuleIDs: res.Fired,
			})
		}
		return nil
	})
	return res, err
}

func (s *LedgerService) Goals() []goals.Progress {
	var out []goals.Progress
	s.read(func(st *ledger.State) { out = st.Goals.Evaluate(s.now(), st.BaseCurrency) })
	return out
}

func (s *LedgerService) AddGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	var added core.SavingsGoal
	err := s.mutate(ctx, log.OpAddGoal, func(st *ledger.State) error {
		var err error
		added, err = st.Goals.Add(g, s.now())
		return err
	})
	if err == nil {
		s.logger.Mutation(ctx, log.OpAddGoal, log.FieldGoalID, added.ID)
	}
	return added, err
}

func (s *LedgerService) UpdateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	var updated core.SavingsGoal
	err := s.mutate(ctx, log.OpUpdateGoal, func(st *ledger.State) error {
		var err error
		updated, err = st.Goals.Update(g)
		return err
	})
	return updated, err
}

func (s *LedgerService) DeleteGoal(ctx context.Context, id int64) error {
	return s.mutate(ctx, log.OpDeleteGoal, func(st *ledger.State) error {
		if !st.Goals.Delete(id) {
			return fmt.Errorf("goal %d: %w", id, core.ErrGoalNotFound)
		}
		return nil
	})
}

// Contribute adds delta to a goal's saved amount.
func (s *LedgerService) Contribute(ctx context.Context, id int64, delta decimal.Decimal) (core.SavingsGoal, error) {
	var g core.SavingsGoal
	err := s.mutate(ctx, log.OpContribute, func(st *ledger.State) error {
		var err error
		g, err = st.Goals.Contribute(id, delta)
		return err
	})
	if err == nil {
		s.logger.Mutation(ctx, log.OpContribute, log.FieldGoalID, id, log.FieldAmount, delta.String())
	}
	return g, err
}

// SetGoalProgress overwrites a goal's saved amount.
func (s *LedgerService) SetGoalProgress(ctx context.Context, id int64, amount decimal.Decimal) (core.SavingsGoal, error) {
	var g core.SavingsGoal
	err := s.mutate(ctx, log.OpContribute, func(st *ledger.State) error {
		var err error
		g, err = st.Goals.SetProgress(id, amount)
		return err
	})
	return g, err
}

// Analytics recomputes the dashboard from the full transaction set.
func (s *LedgerService) Analytics() analytics.Report {
	var r analytics.Report
	s.read(func(st *ledger.State) { r = analytics.Build(st.Transactions, s.now()) })
	return r
}

func (s *LedgerService) Stats() analytics.Stats {
	var st analytics.Stats
	s.read(func(state *ledger.State) { st = analytics.ComputeStats(state.Transactions) })
	return st
}

func (s *LedgerService) Budget() budget.Progress {
	var p budget.Progress
	s.read(func(st *ledger.State) {
		p = budget.Compute(analytics.TotalExpenses(st.Transactions), st.Budget)
	})
	return p
}

func (s *LedgerService) SetBudget(ctx context.Context, limit decimal.Decimal) error {
	err := s.mutate(ctx, log.OpSetBudget, func(st *ledger.State) error {
		return st.SetBudget(limit)
	})
	if err == nil {
		s.logger.Mutation(ctx, log.OpSetBudget, log.FieldAmount, limit.String())
	}
	return err
}

func (s *LedgerService) Settings() Settings {
	var out Settings
	s.read(func(st *ledger.State) {
		out = Settings{BaseCurrency: st.BaseCurrency, DarkMode: st.DarkMode, Budget: st.Budget}
	})
	return out
}

func (s *LedgerService) UpdateSettings(ctx context.Context, u SettingsUpdate) (Settings, error) {
	err := s.mutate(ctx, log.OpSettings, func(st *ledger.State) error {
		if u.BaseCurrency != nil {
			if err := st.SetBaseCurrency(*u.BaseCurrency); err != nil {
				return err
			}
		}
		if u.DarkMode != nil {
			st.SetDarkMode(*u.DarkMode)
		}
		return nil
	})
	return s.Settings(), err
}

// FormatAmount renders amount in the base currency.
func (s *LedgerService) FormatAmount(amount decimal.Decimal) string {
	var out string
	s.read(func(st *ledger.State) { out = st.Format(amount) })
	return out
}

func (s *LedgerService) Notifications() []core.Notification {
	var out []core.Notification
	s.read(func(st *ledger.State) { out = st.Notifications.List() })
	return out
}

func (s *LedgerService) ClearNotifications() {
	s.read(func(st *ledger.State) { st.Notifications.Clear() })
}

func (s *LedgerService) ExportJSON() ([]byte, error) {
	var txs []core.Transaction
	s.read(func(st *ledger.State) { txs = append([]core.Transaction(nil), st.Transactions...) })
	return codec.ExportJSON(txs, s.now())
}

func (s *LedgerService) ExportCSV() []byte {
	var out []byte
	s.read(func(st *ledger.State) { out = codec.ExportCSV(st.Transactions) })
	return out
}

// ExportToSheet pushes the transaction table to the configured spreadsheet.
func (s *LedgerService) ExportToSheet(ctx context.Context) (string, error) {
	if s.exporter == nil {
		return "", ErrExportUnavailable
	}
	var txs []core.Transaction
	s.read(func(st *ledger.State) { txs = append([]core.Transaction(nil), st.Transactions...) })

	ref, err := s.exporter.ExportTransactions(ctx, txs)
	if err != nil {
		s.logger.Failure(ctx, "Sheet export failed", log.OpExport, err)
		return "", err
	}
	return ref, nil
}

// Import validates the document and, only if every entry is valid,
// replaces the transaction set and recomputes account balances.
func (s *LedgerService) Import(ctx context.Context, data []byte) (int, error) {
	txs, err := codec.Import(data)
	if err != nil {
		s.logger.WarnContext(ctx, "Import rejected", log.FieldOperation, log.OpImport, log.FieldError, err)
		return 0, err
	}
	err = s.mutate(ctx, log.OpImport, func(st *ledger.State) error {
		st.ReplaceTransactions(txs)
		s.emit(amqp.EventImported, map[string]int{"count": len(txs)})
		return nil
	})
	if err == nil {
		s.logger.Mutation(ctx, log.OpImport, log.FieldCount, len(txs))
	}
	return len(txs), err
}

// ClearAll empties the transaction list once the caller has confirmed.
func (s *LedgerService) ClearAll(ctx context.Context, confirmed bool) error {
	err := s.mutate(ctx, log.OpClear, func(st *ledger.State) error {
		if err := st.ClearAll(confirmed); err != nil {
			return err
		}
		s.emit(amqp.EventCleared, nil)
		return nil
	})
	if err == nil {
		s.logger.Mutation(ctx, log.OpClear)
	}
	return err
}

// Ready reports whether the backing store is reachable.
func (s *LedgerService) Ready(ctx context.Context) error {
	if p, ok := s.kv.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
