// Package google exports the transaction table to a Google spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/codec"
	"fintrack/internal/core"
	"fintrack/internal/log"
	ports "fintrack/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var _ ports.TransactionExporter = (*Client)(nil)

// Config selects the spreadsheet and the service account used to reach it.
// CredentialsJSON wins over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// New validates cfg and builds a Sheets client with service account
// credentials. The sheet name is prefixed with the current year.
func New(ctx context.Context, cfg Config) (*Client, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	base := strings.TrimSpace(cfg.SheetName)
	if base == "" {
		base = "Transactions"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: id,
		sheetName:     yearPrefixedName(base, time.Now().Year()),
		logger:        log.Default().WithComponent(log.ComponentSheets),
	}, nil
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// ExportTransactions clears the sheet and writes the header plus one row
// per transaction, in the same column order as the CSV export.
func (c *Client) ExportTransactions(ctx context.Context, txs []core.Transaction) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	all := fmt.Sprintf("%s!A:F", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, all, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", all, err)
	}

	values := Rows(txs)
	rng := fmt.Sprintf("%s!A1:F%d", c.sheetName, len(values))
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", rng, err)
	}

	c.logger.InfoContext(ctx, "Transactions exported to sheet",
		log.FieldCount, len(txs), "range", rng)
	return rng, nil
}

// Rows builds the header and data rows. Amounts are signed so the sheet
// can sum a column into the net balance.
func Rows(txs []core.Transaction) [][]any {
	header := make([]any, len(codec.CSVHeader))
	for i, h := range codec.CSVHeader {
		header[i] = h
	}
	out := make([][]any, 0, len(txs)+1)
	out = append(out, header)
	for _, t := range txs {
		amount, _ := t.Signed().Float64()
		out = append(out, []any{
			t.Date.Format(time.DateOnly),
			t.Description,
			amount,
			string(t.Type),
			t.Category.Name(),
			t.Account,
		})
	}
	return out
}

// yearPrefixedName returns "<year> <base>" unless base already starts with
// a four-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
