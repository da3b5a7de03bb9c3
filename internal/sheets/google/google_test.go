package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{CredentialsJSON: "{}"})
	if err == nil || err.Error() != "missing spreadsheet id" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := credentials(Config{CredentialsFile: path})
	if err != nil || string(got) != `{"type":"service_account"}` {
		t.Errorf("credentials(file) = %q, %v", got, err)
	}

	got, err = credentials(Config{CredentialsJSON: `{"inline":true}`, CredentialsFile: path})
	if err != nil || string(got) != `{"inline":true}` {
		t.Errorf("inline JSON should win, got %q, %v", got, err)
	}

	if _, err := credentials(Config{CredentialsFile: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Error("expected error for unreadable file")
	}
}

func TestExportTransactions_Uninitialized(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if _, err := c.ExportTransactions(context.Background(), nil); err == nil {
		t.Error("expected error with nil service")
	}
}

func TestRows(t *testing.T) {
	txs := []core.Transaction{
		{Description: "Rent", Amount: decimal.NewFromInt(900), Type: core.Expense, Category: core.CategoryRent,
			Account: 1, Date: time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)},
		{Description: "Pay", Amount: decimal.RequireFromString("2500.5"), Type: core.Income, Category: core.CategorySalary,
			Account: 2, Date: time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)},
	}
	rows := Rows(txs)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][5] != "Account" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "2025-02-01" || rows[1][2] != float64(-900) || rows[1][4] != "Rent" {
		t.Errorf("expense row = %v", rows[1])
	}
	if rows[2][2] != 2500.5 || rows[2][5] != int64(2) {
		t.Errorf("income row = %v", rows[2])
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		baseName string
		year     int
		expected string
	}{
		{"Transactions", 2025, "2025 Transactions"},
		{"", 2023, ""},
		{"Test Sheet", 2022, "2022 Test Sheet"},
		{"2025 Already Prefixed", 2024, "2025 Already Prefixed"},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.baseName, tt.year); got != tt.expected {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.baseName, tt.year, got, tt.expected)
		}
	}
}
