package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/core"
	"fintrack/internal/filter"
	"fintrack/internal/services"

	"github.com/google/subcommands"
)

type listCmd struct {
	criteria filter.Criteria
	asJSON   bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list transactions, newest first" }
func (*listCmd) Usage() string {
	return `fintrackctl list [-category <key>] [-search <text>] [-range all|week|month]
                 [-amount all|small|medium|large] [-account <id>] [-json]

  Lists the transactions matching every given filter.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.criteria.Category, "category", filter.All, "Category key to keep.")
	f.StringVar(&c.criteria.Search, "search", "", "Case-insensitive description search.")
	f.StringVar(&c.criteria.DateRange, "range", filter.All, "Date range: all, week or month.")
	f.StringVar(&c.criteria.AmountRange, "amount", filter.All, "Amount bucket: all, small (<50), medium (50-200) or large (>200).")
	f.StringVar(&c.criteria.Account, "account", filter.All, "Account id to keep.")
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table.")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(app *cli.App) error {
		txs := app.Service.Transactions(c.criteria)
		if c.asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(txs)
		}
		printTransactions(os.Stdout, app.Service, txs)
		return nil
	})
}

func printTransactions(out io.Writer, svc *services.LedgerService, txs []core.Transaction) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tCATEGORY\tACCOUNT\tAMOUNT\tDESCRIPTION")
	for _, t := range txs {
		amount := svc.FormatAmount(t.Signed())
		desc := t.Description
		if t.IsRecurring {
			desc += " (recurring)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			t.ID, t.Date.Local().Format(time.DateOnly), t.Type, t.Category.Name(), t.Account, amount, desc)
	}
	w.Flush()
}

type addCmd struct {
	typ      string
	category string
	account  int64
	desc     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income or expense" }
func (*addCmd) Usage() string {
	return `fintrackctl add [-type expense|income] [-category <key>] [-account <id>] -d <description> <amount>

  Records a transaction dated now. Amounts accept either "." or "," as the
  decimal separator.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", string(core.Expense), "Transaction type: expense or income.")
	f.StringVar(&c.category, "category", string(core.CategoryOther), "Category key.")
	f.Int64Var(&c.account, "account", 1, "Account id.")
	f.StringVar(&c.desc, "d", "", "Description.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "add expects exactly one amount argument")
		return subcommands.ExitUsageError
	}
	amount, err := core.ParseAmount(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount %q: %v\n", f.Arg(0), err)
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(app *cli.App) error {
		tx, err := app.Service.AddTransaction(ctx, core.TransactionDraft{
			Description: c.desc,
			Amount:      amount,
			Category:    core.Category(c.category),
			Type:        core.TransactionType(c.typ),
		}, c.account)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s %s (%s)\n", tx.Type, app.Service.FormatAmount(tx.Amount), tx.ID)
		printNotifications(app)
		return nil
	})
}

// printNotifications echoes warnings raised by the last command.
func printNotifications(app *cli.App) {
	for _, n := range app.Service.Notifications() {
		if n.Kind != core.KindInfo {
			fmt.Fprintf(os.Stderr, "%s: %s\n", n.Kind, n.Message)
		}
	}
}

type deleteCmd struct{}

func (*deleteCmd) Name() string           { return "delete" }
func (*deleteCmd) Synopsis() string       { return "delete a transaction by id" }
func (*deleteCmd) Usage() string          { return "fintrackctl delete <id>\n" }
func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "delete expects a transaction id")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(app *cli.App) error {
		found, err := app.Service.DeleteTransaction(ctx, core.TransactionID(f.Arg(0)))
		if err != nil {
			return err
		}
		if !found {
			fmt.Println("No such transaction; nothing deleted")
			return nil
		}
		fmt.Println("Transaction deleted")
		return nil
	})
}

type tickCmd struct{}

func (*tickCmd) Name() string           { return "tick" }
func (*tickCmd) Synopsis() string       { return "generate transactions for due recurring rules" }
func (*tickCmd) Usage() string          { return "fintrackctl tick\n" }
func (*tickCmd) SetFlags(*flag.FlagSet) {}

func (*tickCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(app *cli.App) error {
		res, err := app.Service.Tick(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Generated %d recurring transactions\n", res.Count())
		if res.Count() > 0 {
			printTransactions(os.Stdout, app.Service, res.Generated)
		}
		return nil
	})
}
