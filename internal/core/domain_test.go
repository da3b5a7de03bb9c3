package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, 3, 9))
	if err != nil || string(b) != `"2025-03-09"` {
		t.Fatalf("marshal = %s, %v", b, err)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-02-29T10:00:00Z"`), &d); err != nil {
		t.Fatalf("unmarshal rfc3339: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("got %s", d)
	}
	if err := json.Unmarshal([]byte(`null`), &d); err != nil || !d.IsEmpty() {
		t.Fatalf("null should clear the date: %v %v", d, err)
	}
	if err := json.Unmarshal([]byte(`"not a date"`), &d); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTransactionIDUnmarshal(t *testing.T) {
	var ids []TransactionID
	if err := json.Unmarshal([]byte(`["abc", 1712345678901, 1712345678901.5]`), &ids); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []TransactionID{"abc", "1712345678901", "1712345678901.5"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("id %d = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestNewTransactionIDUnique(t *testing.T) {
	seen := make(map[TransactionID]struct{})
	for i := 0; i < 1000; i++ {
		id := NewTransactionID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s after %d inserts", id, i)
		}
		seen[id] = struct{}{}
	}
}

func TestSignedAmount(t *testing.T) {
	amt := decimal.NewFromInt(25)
	if !SignedAmount(amt, Income).Equal(amt) {
		t.Error("income must be positive")
	}
	if !SignedAmount(amt, Expense).Equal(amt.Neg()) {
		t.Error("expense must be negative")
	}
}

func TestTransactionDraftValidate(t *testing.T) {
	good := TransactionDraft{
		Description: "ok",
		Amount:      decimal.NewFromInt(1),
		Category:    CategoryFood,
		Type:        Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []TransactionDraft{
		{Description: "", Amount: decimal.NewFromInt(1), Category: CategoryFood, Type: Expense},
		{Description: "   ", Amount: decimal.NewFromInt(1), Category: CategoryFood, Type: Expense},
		{Description: "a", Amount: decimal.Zero, Category: CategoryFood, Type: Expense},
		{Description: "a", Amount: decimal.NewFromInt(-1), Category: CategoryFood, Type: Expense},
		{Description: "a", Amount: decimal.NewFromInt(1), Category: "", Type: Expense},
		{Description: "a", Amount: decimal.NewFromInt(1), Category: CategoryFood, Type: "transfer"},
	}
	for i, d := range bads {
		err := d.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected ErrValidation, got %v", i, err)
		}
	}
}

func TestRecurringRuleValidate(t *testing.T) {
	good := RecurringRule{
		Description: "Rent",
		Amount:      decimal.NewFromInt(900),
		Category:    CategoryRent,
		Type:        Expense,
		Account:     1,
		Frequency:   Monthly,
		StartDate:   NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.Frequency = "hourly"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
	bad = good
	bad.Account = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for missing account")
	}
}

func TestCategoryName(t *testing.T) {
	if CategoryFood.Name() != "Food & Dining" {
		t.Errorf("got %q", CategoryFood.Name())
	}
	if Category("mystery").Name() != "Other" || Category("mystery").Normalize() != CategoryOther {
		t.Error("unknown categories must fold into other")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Index: 2, Field: "amount", Reason: "is required"}
	if err.Error() != `transaction #3: field "amount" is required` {
		t.Errorf("got %q", err.Error())
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError must unwrap to ErrValidation")
	}
	shape := &ValidationError{Index: -1, Reason: "expected transactions array"}
	if shape.Error() != "invalid data format: expected transactions array" {
		t.Errorf("got %q", shape.Error())
	}
}
