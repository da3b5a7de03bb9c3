// Package worker keeps external mirrors of the ledger up to date from the
// event stream.
package worker

import (
	"context"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/log"
)

// LedgerSource is the part of the ledger service the sync needs.
type LedgerSource interface {
	Reload(ctx context.Context) error
	ExportToSheet(ctx context.Context) (string, error)
}

// SheetSync rewrites the spreadsheet after ledger changes. Bursts of events
// inside the debounce window collapse into one export.
type SheetSync struct {
	source   LedgerSource
	debounce time.Duration
	logger   *log.Logger
	dirty    chan struct{}
}

func NewSheetSync(source LedgerSource, debounce time.Duration, logger *log.Logger) *SheetSync {
	if logger == nil {
		logger = log.Default()
	}
	return &SheetSync{
		source:   source,
		debounce: debounce,
		logger:   logger.WithComponent(log.ComponentSheets),
		dirty:    make(chan struct{}, 1),
	}
}

// HandleEvent is an amqp consumer callback. Events that change the
// transaction table schedule an export; others are acknowledged and ignored.
func (w *SheetSync) HandleEvent(ctx context.Context, e *amqp.Event) error {
	switch e.Type {
	case amqp.EventTransactionAdded, amqp.EventTransactionDeleted,
		amqp.EventRecurringTick, amqp.EventImported, amqp.EventCleared:
		w.logger.DebugContext(ctx, "Ledger change received", "event", e.Type)
		w.markDirty()
	}
	return nil
}

func (w *SheetSync) markDirty() {
	select {
	case w.dirty <- struct{}{}:
	default:
	}
}

// Run exports once at startup to catch changes made while the worker was
// down, then after every debounced burst of changes until ctx ends.
func (w *SheetSync) Run(ctx context.Context) error {
	w.SyncNow(ctx, "startup")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.dirty:
		}

		timer := time.NewTimer(w.debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		// events that arrived while waiting are covered by this export
		select {
		case <-w.dirty:
		default:
		}
		w.SyncNow(ctx, "event")
	}
}

// SyncNow reloads the ledger and exports it. Failures are logged; the next
// change retries.
func (w *SheetSync) SyncNow(ctx context.Context, trigger string) bool {
	if err := w.source.Reload(ctx); err != nil {
		w.logger.Failure(ctx, "Reload before sheet export failed", log.OpExport, err, "trigger", trigger)
		return false
	}
	ref, err := w.source.ExportToSheet(ctx)
	if err != nil {
		w.logger.Failure(ctx, "Sheet export failed", log.OpExport, err, "trigger", trigger)
		return false
	}
	w.logger.InfoContext(ctx, "Spreadsheet updated", "range", ref, "trigger", trigger)
	return true
}
