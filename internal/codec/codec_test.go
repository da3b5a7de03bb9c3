package codec

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportedAt = time.Date(2025, 3, 7, 14, 5, 9, 123e6, time.UTC)

func sample() []core.Transaction {
	rid := int64(4)
	return []core.Transaction{
		{
			ID: "0195f0e2-7a1c-7c44-b1a1-3f2b4c5d6e7f", Description: `Dinner "La Piazza", Rome`,
			Amount: decimal.RequireFromString("42.5"), Category: core.CategoryFood, Type: core.Expense,
			Account: 1, Date: time.Date(2025, 3, 7, 20, 0, 0, 0, time.UTC),
		},
		{
			ID: "1712345678901", Description: "Salary",
			Amount: decimal.NewFromInt(3000), Category: core.CategorySalary, Type: core.Income,
			Account: 2, Date: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), IsRecurring: true, RecurringID: &rid,
		},
	}
}

func TestExportJSON(t *testing.T) {
	b, err := ExportJSON(sample(), exportedAt)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "1.0.0", doc["version"])
	assert.Equal(t, "2025-03-07T14:05:09.123Z", doc["exportDate"])
	assert.Len(t, doc["transactions"], 2)

	empty, err := ExportJSON(nil, exportedAt)
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"transactions": []`)
}

func TestRoundTrip(t *testing.T) {
	want := sample()
	b, err := ExportJSON(want, exportedAt)
	require.NoError(t, err)

	got, err := Import(b)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Description, got[i].Description)
		assert.True(t, want[i].Amount.Equal(got[i].Amount))
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.Equal(t, want[i].Type, got[i].Type)
		assert.Equal(t, want[i].Account, got[i].Account)
		assert.True(t, want[i].Date.Equal(got[i].Date))
		assert.Equal(t, want[i].IsRecurring, got[i].IsRecurring)
		assert.Equal(t, want[i].RecurringID, got[i].RecurringID)
	}
}

func TestExportCSV(t *testing.T) {
	out := string(ExportCSV(sample()))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Description,Amount,Type,Category,Account", lines[0])
	assert.Equal(t, `3/7/2025,"Dinner ""La Piazza"", Rome",42.5,expense,food,1`, lines[1])
	assert.Equal(t, `3/1/2025,"Salary",3000,income,salary,2`, lines[2])

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, `Dinner "La Piazza", Rome`, records[1][1])
}

func TestImport_NumericIDs(t *testing.T) {
	got, err := Import([]byte(`{"transactions":[
		{"id": 1712345678901.123, "description": "Bus", "amount": 2.75, "type": "expense",
		 "category": "transport", "account": 1, "date": "2024-04-05T12:00:00.000Z"}
	]}`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, core.TransactionID("1712345678901.123"), got[0].ID)
	assert.Equal(t, "2.75", got[0].Amount.String())
}

func TestImport_Violations(t *testing.T) {
	valid := `{"id":"a","description":"d","amount":1,"type":"expense","category":"food"}`

	tests := []struct {
		name    string
		doc     string
		index   int
		field   string
		message string
	}{
		{"not json", `nope`, -1, "", "invalid data format: document is not a JSON object"},
		{"missing array", `{"items": []}`, -1, "", "invalid data format: expected transactions array"},
		{"array is object", `{"transactions": {}}`, -1, "", "invalid data format: expected transactions array"},
		{"element not object", `{"transactions": [` + valid + `, 7]}`, 1, "", "transaction #2: is not an object"},
		{"missing amount", `{"transactions": [` + valid + `, {"id":"b","description":"d","type":"expense","category":"food"}]}`, 1, "amount", `transaction #2: field "amount" is missing or empty`},
		{"zero amount", `{"transactions": [{"id":"b","description":"d","amount":0,"type":"expense","category":"food"}]}`, 0, "amount", ""},
		{"empty description", `{"transactions": [{"id":"b","description":"","amount":3,"type":"expense","category":"food"}]}`, 0, "description", ""},
		{"bad type", `{"transactions": [{"id":"b","description":"d","amount":3,"type":"transfer","category":"food"}]}`, 0, "type", ""},
		{"negative amount", `{"transactions": [{"id":"b","description":"d","amount":-3,"type":"income","category":"food"}]}`, 0, "amount", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Import([]byte(tt.doc))
			assert.Nil(t, got)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrValidation)

			var verr *core.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.index, verr.Index)
			assert.Equal(t, tt.field, verr.Field)
			if tt.message != "" {
				assert.EqualError(t, err, tt.message)
			}
		})
	}
}

func TestImport_ReportsFirstViolation(t *testing.T) {
	doc := `{"transactions": [
		{"id":"1","description":"a","amount":1,"type":"expense","category":"food"},
		{"id":"2","description":"b","amount":2,"type":"expense","category":"food"},
		{"id":"3","description":"c","type":"expense","category":"food"},
		{"id":"4","description":"","amount":4,"type":"expense","category":"food"},
		{"id":"5","description":"e","amount":5,"type":"expense","category":"food"}
	]}`
	_, err := Import([]byte(doc))
	var verr *core.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 2, verr.Index)
	assert.Equal(t, "amount", verr.Field)
}
