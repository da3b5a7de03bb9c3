package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"fintrack/internal/cli"

	"github.com/google/subcommands"
)

type exportCmd struct {
	format string
	out    string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export transactions as json, csv or to Google Sheets" }
func (*exportCmd) Usage() string {
	return `fintrackctl export [-format json|csv|sheets] [-o <file>]

  Writes the transaction set to stdout or to -o. The sheets format replaces
  the configured spreadsheet tab instead.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "json", "Output format: json, csv or sheets.")
	f.StringVar(&c.out, "o", "", "Output file (defaults to stdout).")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch c.format {
	case "json", "csv", "sheets":
	default:
		fmt.Fprintf(os.Stderr, "unknown export format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(app *cli.App) error {
		var data []byte
		switch c.format {
		case "sheets":
			ref, err := app.Service.ExportToSheet(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", ref)
			return nil
		case "csv":
			data = app.Service.ExportCSV()
		default:
			var err error
			if data, err = app.Service.ExportJSON(); err != nil {
				return err
			}
		}
		if c.out == "" {
			_, err := os.Stdout.Write(data)
			return err
		}
		return os.WriteFile(c.out, data, 0o644)
	})
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace all transactions with an export document" }
func (*importCmd) Usage() string {
	return `fintrackctl import <file|->

  Reads a JSON export document. Every transaction is validated first; on
  any error nothing is changed. Account balances are recomputed.
`
}
func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "import expects a file name, or - for stdin")
		return subcommands.ExitUsageError
	}
	var (
		data []byte
		err  error
	)
	if name := f.Arg(0); name == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return withApp(ctx, func(app *cli.App) error {
		n, err := app.Service.Import(ctx, data)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d transactions\n", n)
		return nil
	})
}
