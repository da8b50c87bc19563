package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/ynamazon/ynamazon"
	"github.com/ynamazon/ynamazon/renderer"
)

// amazonCmd holds the flags for the 'amazon' subcommand.
type amazonCmd struct {
	amazonFlags
	md bool
}

func (*amazonCmd) Name() string     { return "amazon" }
func (*amazonCmd) Synopsis() string { return "print Amazon transactions joined with their orders" }
func (*amazonCmd) Usage() string {
	return `yna amazon [-force-refresh-amazon | -no-force-refresh-amazon] [-years 2024,2025] [-days 31] [-md]

  Logs into Amazon, fetches the order history and the recent payment
  transactions, and prints every transaction with the order it paid for.
  Transactions whose order is not in the fetched years are left out.

  Results are cached for 10 minutes; -force-refresh-amazon ignores the cache.
`
}

func (c *amazonCmd) SetFlags(f *flag.FlagSet) {
	c.amazonFlags.SetFlags(f)
	f.BoolVar(&c.md, "md", false, "Print a markdown report instead of plain text")
}

func (c *amazonCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, a, err := newApp(ctx)
	if err != nil {
		return fail("loading settings", err)
	}
	defer a.close()

	fetch, err := a.amazonTransactions()
	if err != nil {
		return fail("creating Amazon session", err)
	}
	q := ynamazon.Query{Account: a.settings.AmazonUser, Window: c.window(time.Now())}
	records, err := fetch(ctx, q, !c.forceRefresh)
	if err != nil {
		return fail("fetching Amazon transactions", err)
	}

	if c.md {
		printMarkdown(renderer.TransactionsMarkdown(records, a.settings.Currency))
		return subcommands.ExitSuccess
	}
	var b bytes.Buffer
	if err := renderer.PrintTransactions(&b, records, a.settings.Currency); err != nil {
		return fail("printing transactions", err)
	}
	os.Stdout.Write(b.Bytes())
	return subcommands.ExitSuccess
}
