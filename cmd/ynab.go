package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/ynamazon/ynamazon/renderer"
	"github.com/ynamazon/ynamazon/ynab"
)

type ynabCmd struct{}

func (*ynabCmd) Name() string     { return "ynab" }
func (*ynabCmd) Synopsis() string { return "list the YNAB transactions waiting for a memo" }
func (*ynabCmd) Usage() string {
	return `yna ynab

  Lists the YNAB transactions of the payee named by
  YNAB_PAYEE_NAME_TO_BE_PROCESSED (default "Amazon - Needs Memo").
`
}

func (*ynabCmd) SetFlags(*flag.FlagSet) {}

func (*ynabCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, a, err := newApp(ctx)
	if err != nil {
		return fail("loading settings", err)
	}
	defer a.close()

	client, err := a.ynab()
	if err != nil {
		return fail("loading settings", err)
	}
	txs, _, err := client.GetTransactions(ctx, a.settings.YNABPayeeNameToBeProcessed, a.settings.YNABPayeeNameProcessingCompleted)
	a.metrics.ObserveFetch("ynab", err)
	if err != nil {
		return fail("fetching YNAB transactions", err)
	}
	printMarkdown(renderer.YNABTransactionsMarkdown(txs, a.settings.Currency))
	return subcommands.ExitSuccess
}

// ynab returns a YNAB client, failing when the YNAB settings are missing.
func (a *app) ynab() (*ynab.Client, error) {
	if err := a.settings.RequireYNAB(); err != nil {
		return nil, err
	}
	return ynab.NewClient(a.settings.YNABAPIKey.Reveal(), a.settings.YNABBudgetID.Reveal()), nil
}
