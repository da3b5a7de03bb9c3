package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"fintrack/internal/cli"
	"fintrack/internal/core"

	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string           { return "accounts" }
func (*accountsCmd) Synopsis() string       { return "list accounts and balances" }
func (*accountsCmd) Usage() string          { return "fintrackctl accounts\n" }
func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (*accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(app *cli.App) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCURRENCY\tBALANCE")
		for _, a := range app.Service.Accounts() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Name, a.Currency, core.FormatCurrency(a.Balance, a.Currency))
		}
		return w.Flush()
	})
}

type budgetCmd struct{}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "show or set the spending limit" }
func (*budgetCmd) Usage() string {
	return `fintrackctl budget [<limit>]

  Without an argument prints spending against the limit. With one, sets
  the limit; it must be greater than zero.
`
}
func (*budgetCmd) SetFlags(*flag.FlagSet) {}

func (*budgetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "budget takes at most one argument")
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(app *cli.App) error {
		if f.NArg() == 1 {
			limit, err := core.ParseAmount(f.Arg(0))
			if err != nil {
				return fmt.Errorf("parse limit %q: %w", f.Arg(0), err)
			}
			if err := app.Service.SetBudget(ctx, limit); err != nil {
				return err
			}
		}
		p := app.Service.Budget()
		fmt.Printf("Spent %s of %s (%s%%), %s remaining [%s]\n",
			app.Service.FormatAmount(p.Spent),
			app.Service.FormatAmount(p.Limit),
			p.Percent.StringFixed(1),
			app.Service.FormatAmount(p.Remaining),
			p.Level)
		return nil
	})
}

type summaryCmd struct{}

func (*summaryCmd) Name() string           { return "summary" }
func (*summaryCmd) Synopsis() string       { return "print totals, top categories and savings goals" }
func (*summaryCmd) Usage() string          { return "fintrackctl summary\n" }
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(app *cli.App) error {
		svc := app.Service
		report := svc.Analytics()
		stats := svc.Stats()

		fmt.Printf("Transactions: %d\n", stats.Count)
		fmt.Printf("Income:   %s\n", svc.FormatAmount(report.Totals.Income))
		fmt.Printf("Expenses: %s\n", svc.FormatAmount(report.Totals.Expenses))
		fmt.Printf("Balance:  %s\n", svc.FormatAmount(report.Totals.Balance))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if len(report.Top) > 0 {
			fmt.Fprintln(w, "\nTOP SPENDING\tAMOUNT")
			for _, b := range report.Top {
				fmt.Fprintf(w, "%s\t%s\n", b.Name, svc.FormatAmount(b.Amount))
			}
		}
		if goals := svc.Goals(); len(goals) > 0 {
			fmt.Fprintln(w, "\nGOAL\tSAVED\tTARGET\tPROGRESS\tSTATUS")
			for _, g := range goals {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s%%\t%s\n",
					g.Goal.Name, g.Current, g.Target, g.Percent.StringFixed(0), g.Status)
			}
		}
		return w.Flush()
	})
}

type clearCmd struct {
	confirm bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete every transaction" }
func (*clearCmd) Usage() string {
	return `fintrackctl clear -confirm

  Removes all transactions. Accounts, rules and goals are kept. Nothing
  happens without -confirm.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.confirm, "confirm", false, "Confirm that all transactions should be deleted.")
}

func (c *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(app *cli.App) error {
		if err := app.Service.ClearAll(ctx, c.confirm); err != nil {
			return fmt.Errorf("%w: pass -confirm to delete all transactions", err)
		}
		fmt.Println("All transactions cleared")
		return nil
	})
}
