// Package sheets defines the outbound port for spreadsheet exports.
package sheets

import (
	"context"

	"fintrack/internal/core"
)

// TransactionExporter replaces the contents of an external sheet with the
// given transactions and returns a reference to the written range.
type TransactionExporter interface {
	ExportTransactions(ctx context.Context, txs []core.Transaction) (ref string, err error)
}
