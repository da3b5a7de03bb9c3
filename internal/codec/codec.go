// Package codec converts the transaction set to and from its external
// document formats: a versioned JSON document and a flat CSV table.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// Version is written into every exported document.
const Version = "1.0.0"

// CSVHeader is the fixed column order of the tabular export.
var CSVHeader = []string{"Date", "Description", "Amount", "Type", "Category", "Account"}

// Document is the structured export schema.
type Document struct {
	Transactions []core.Transaction `json:"transactions"`
	ExportDate   string             `json:"exportDate"`
	Version      string             `json:"version"`
}

// ExportJSON renders txs as an indented export document dated now.
func ExportJSON(txs []core.Transaction, now time.Time) ([]byte, error) {
	if txs == nil {
		txs = []core.Transaction{}
	}
	doc := Document{
		Transactions: txs,
		ExportDate:   now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Version:      Version,
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export document: %w", err)
	}
	return b, nil
}

// WriteCSV writes the header and one row per transaction. Descriptions
// are always quoted; embedded quotes are doubled.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(CSVHeader, ","))
	for _, t := range txs {
		buf.WriteByte('\n')
		buf.WriteString(strings.Join([]string{
			ShortDate(t.Date),
			`"` + strings.ReplaceAll(t.Description, `"`, `""`) + `"`,
			t.Amount.String(),
			string(t.Type),
			string(t.Category),
			strconv.FormatInt(t.Account, 10),
		}, ","))
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ExportCSV is WriteCSV into a byte slice.
func ExportCSV(txs []core.Transaction) []byte {
	var buf bytes.Buffer
	_ = WriteCSV(&buf, txs)
	return buf.Bytes()
}

// ShortDate formats t as the en-US short date, e.g. 3/7/2025.
func ShortDate(t time.Time) string {
	return t.Format("1/2/2006")
}

var requiredFields = []string{"id", "description", "amount", "type", "category"}

// Import parses an export document and returns its transactions. The whole
// document is rejected with the first violation found; nothing is returned
// on failure, so callers can swap the set in atomically.
func Import(data []byte) ([]core.Transaction, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &core.ValidationError{Index: -1, Reason: "document is not a JSON object"}
	}
	raw, ok := envelope["transactions"]
	if !ok || !isArray(raw) {
		return nil, &core.ValidationError{Index: -1, Reason: "expected transactions array"}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, &core.ValidationError{Index: -1, Reason: err.Error()}
	}

	out := make([]core.Transaction, 0, len(elems))
	for i, elem := range elems {
		t, err := decodeTransaction(i, elem)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeTransaction(i int, elem json.RawMessage) (core.Transaction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
		return core.Transaction{}, &core.ValidationError{Index: i, Reason: "is not an object"}
	}
	for _, name := range requiredFields {
		if !truthy(fields[name]) {
			return core.Transaction{}, &core.ValidationError{Index: i, Field: name, Reason: "is missing or empty"}
		}
	}

	var t core.Transaction
	if err := json.Unmarshal(elem, &t); err != nil {
		return core.Transaction{}, &core.ValidationError{Index: i, Reason: err.Error()}
	}
	if t.Type != core.Income && t.Type != core.Expense {
		return core.Transaction{}, &core.ValidationError{Index: i, Field: "type", Reason: "must be income or expense"}
	}
	if t.Amount.IsNegative() {
		return core.Transaction{}, &core.ValidationError{Index: i, Field: "amount", Reason: "must not be negative"}
	}
	return t, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// truthy treats absent, null, false, "", 0 and non-numeric amounts as
// missing.
func truthy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch string(trimmed) {
	case "null", "false", `""`:
		return false
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return false
		}
		return s != ""
	}
	if d, err := decimal.NewFromString(string(trimmed)); err == nil {
		return !d.IsZero()
	}
	return true
}
