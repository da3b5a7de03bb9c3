package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	KindInfo    NotificationKind = "info"
	KindWarning NotificationKind = "warning"
	KindError   NotificationKind = "error"
)

type (
	Frequency        string
	TransactionType  string
	NotificationKind string

	// TransactionID is a time-ordered identity. Imported documents may carry
	// numeric ids, which are kept verbatim as their decimal text.
	TransactionID string

	Date struct {
		time.Time
	}

	Account struct {
		ID       int64           `json:"id"`
		Name     string          `json:"name" validate:"required,max=100"`
		Balance  decimal.Decimal `json:"balance"`
		Currency string          `json:"currency" validate:"required,len=3"`
	}

	Transaction struct {
		ID          TransactionID   `json:"id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Category    Category        `json:"category"`
		Type        TransactionType `json:"type"`
		Account     int64           `json:"account"`
		Date        time.Time       `json:"date"`
		IsRecurring bool            `json:"isRecurring"`
		RecurringID *int64          `json:"recurringId,omitempty"`
	}

	// TransactionDraft is the user-supplied part of a transaction; identity,
	// timestamp and account are assigned by the ledger.
	TransactionDraft struct {
		Description string          `validate:"required,max=200"`
		Amount      decimal.Decimal `validate:"-"`
		Category    Category        `validate:"required"`
		Type        TransactionType `validate:"required,oneof=income expense"`
	}

	RecurringRule struct {
		ID            int64           `json:"id"`
		Description   string          `json:"description" validate:"required,max=200"`
		Amount        decimal.Decimal `json:"amount" validate:"-"`
		Category      Category        `json:"category" validate:"required"`
		Type          TransactionType `json:"type" validate:"required,oneof=income expense"`
		Account       int64           `json:"account" validate:"required"`
		Frequency     Frequency       `json:"frequency" validate:"required,oneof=daily weekly monthly yearly"`
		StartDate     Date            `json:"startDate"`
		LastProcessed *time.Time      `json:"lastProcessed"`
	}

	SavingsGoal struct {
		ID            int64           `json:"id"`
		Name          string          `json:"name" validate:"required,max=100"`
		Category      string          `json:"category"`
		TargetAmount  decimal.Decimal `json:"targetAmount" validate:"-"`
		CurrentAmount decimal.Decimal `json:"currentAmount" validate:"-"`
		TargetDate    Date            `json:"targetDate"`
		Description   string          `json:"description" validate:"max=500"`
		CreatedAt     time.Time       `json:"createdAt"`
	}

	Notification struct {
		ID        int64            `json:"id"`
		Message   string           `json:"message"`
		Kind      NotificationKind `json:"type"`
		Timestamp time.Time        `json:"timestamp"`
	}
)

// Signed returns the balance effect of the transaction: income adds,
// expense subtracts.
func (t Transaction) Signed() decimal.Decimal {
	return SignedAmount(t.Amount, t.Type)
}

func (t Transaction) IsExpense() bool { return t.Type == Expense }

// SignedAmount applies the income=+ / expense=- convention.
func SignedAmount(amount decimal.Decimal, typ TransactionType) decimal.Decimal {
	if typ == Income {
		return amount
	}
	return amount.Neg()
}

func (d TransactionDraft) Validate() error {
	if err := validateStruct(d); err != nil {
		return err
	}
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (r RecurringRule) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !r.StartDate.IsEmpty() {
		if err := r.StartDate.Validate(); err != nil {
			return errors.New("invalid start date: " + err.Error())
		}
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if err := validateStruct(g); err != nil {
		return err
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return validateStruct(a)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true if the date is zero (for optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// MarshalJSON encodes the date as YYYY-MM-DD, or an empty string when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD, a full RFC 3339 timestamp, "" or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDate parses YYYY-MM-DD or RFC 3339 input.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	y, m, day := t.Date()
	return NewDate(y, int(m), day), nil
}

// UnmarshalJSON accepts both string and numeric ids.
func (id *TransactionID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TransactionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = TransactionID(n.String())
	return nil
}

func (id TransactionID) String() string { return string(id) }
