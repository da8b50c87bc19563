package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/ynamazon/ynamazon"
	"github.com/ynamazon/ynamazon/agent"
	"github.com/ynamazon/ynamazon/logger"
	"github.com/ynamazon/ynamazon/metrics"
	"github.com/ynamazon/ynamazon/renderer"
	"github.com/ynamazon/ynamazon/ynab"
)

// processCmd holds the flags for the 'process' subcommand.
type processCmd struct {
	amazonFlags
	dryRun bool
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "write Amazon order details into YNAB memos" }
func (*processCmd) Usage() string {
	return `yna process [-dry-run] [-force-refresh-amazon | -no-force-refresh-amazon] [-years 2024,2025] [-days 31]

  Matches every YNAB transaction waiting for a memo with an Amazon
  transaction of the same amount, writes the order items and link into its
  memo, and moves it to the "processing completed" payee.

  With -dry-run, nothing is written to YNAB.
`
}

func (c *processCmd) SetFlags(f *flag.FlagSet) {
	c.amazonFlags.SetFlags(f)
	f.BoolVar(&c.dryRun, "dry-run", false, "Print what would be updated without writing to YNAB")
}

func (c *processCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, a, err := newApp(ctx)
	if err != nil {
		return fail("loading settings", err)
	}
	defer a.close()

	client, err := a.ynab()
	if err != nil {
		return fail("loading settings", err)
	}
	txs, completed, err := client.GetTransactions(ctx, a.settings.YNABPayeeNameToBeProcessed, a.settings.YNABPayeeNameProcessingCompleted)
	a.metrics.ObserveFetch("ynab", err)
	if err != nil {
		return fail("fetching YNAB transactions", err)
	}
	if len(txs) == 0 {
		a.log.Info().Msg("no YNAB transaction waiting for a memo")
		return subcommands.ExitSuccess
	}

	fetch, err := a.amazonTransactions()
	if err != nil {
		return fail("creating Amazon session", err)
	}
	q := ynamazon.Query{Account: a.settings.AmazonUser, Window: c.window(time.Now())}
	records, err := fetch(ctx, q, !c.forceRefresh)
	if err != nil {
		return fail("fetching Amazon transactions", err)
	}

	p := processor{
		records:   records,
		payeeID:   completed.ID,
		markdown:  a.settings.YNABUseMarkdown,
		dryRun:    c.dryRun,
		updater:   client,
		metrics:   a.metrics,
	}
	if a.settings.UseAISummarization {
		gc, err := agent.NewClient(ctx, a.settings.GeminiAPIKey.Reveal())
		if err != nil {
			return fail("starting the summarizer", err)
		}
		e := agent.NewSummarizer()
		e.Start(gc)
		p.summarize = func(ctx context.Context, items []string) (string, error) {
			return agent.Summarize(ctx, e, items)
		}
	}

	report, err := p.run(ctx, txs)
	report.Currency = a.settings.Currency
	printMarkdown(renderer.ProcessMarkdown(report))
	if err != nil {
		return fail("updating YNAB", err)
	}
	return subcommands.ExitSuccess
}

// memoUpdater writes a memo into a budget transaction.
type memoUpdater interface {
	UpdateTransaction(ctx context.Context, tx ynab.Transaction, memo, payeeID string) (ynab.Transaction, error)
}

// processor matches budget transactions with Amazon records and updates
// their memo.
type processor struct {
	records   []ynamazon.TransactionWithOrderInfo
	payeeID   string // payee of processed transactions
	markdown  bool
	dryRun    bool
	updater   memoUpdater
	metrics   *metrics.Metrics
	summarize func(ctx context.Context, items []string) (string, error) // optional
}

// run processes txs in order. Every transaction gets a result line; update
// failures do not stop the run and are reported together in the returned error.
func (p *processor) run(ctx context.Context, txs []ynab.Transaction) (renderer.ProcessReport, error) {
	log := logger.FromContext(ctx)
	report := renderer.ProcessReport{DryRun: p.dryRun}
	m := ynamazon.NewMatcher(p.records)
	failed := 0
	for _, tx := range txs {
		res := renderer.Processed{Date: tx.Date, Amount: tx.Amount}
		r, ok := m.Match(tx.Amount)
		if !ok {
			log.Warn().Str("date", tx.Date).Stringer("amount", tx.Amount).Msg("no Amazon transaction matches")
			res.Status = "no match"
			report.Results = append(report.Results, res)
			continue
		}
		res.OrderNumber = r.OrderNumber
		res.Memo = ynamazon.Memo(r, ynamazon.MemoOptions{Markdown: p.markdown, Summary: p.summary(ctx, r)})

		switch {
		case p.dryRun:
			res.Status = "would update"
		default:
			_, err := p.updater.UpdateTransaction(ctx, tx, res.Memo, p.payeeID)
			p.metrics.ObserveMemoUpdate(err)
			if err != nil {
				log.Error().Err(err).Str("transaction", tx.ID).Msg("memo update failed")
				res.Status = "failed"
				failed++
			} else {
				log.Info().Str("transaction", tx.ID).Str("order", r.OrderNumber).Msg("memo updated")
				res.Status = "updated"
			}
		}
		report.Results = append(report.Results, res)
	}
	report.Unused = m.Unused()
	if failed > 0 {
		return report, fmt.Errorf("%d of %d memo updates failed", failed, len(txs))
	}
	return report, nil
}

// summary returns the AI summary of the items of r, or "" to list them.
func (p *processor) summary(ctx context.Context, r ynamazon.TransactionWithOrderInfo) string {
	if p.summarize == nil || len(r.ItemNames) == 0 {
		return ""
	}
	s, err := p.summarize(ctx, r.ItemNames)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("order", r.OrderNumber).Msg("summary failed, listing items")
		return ""
	}
	return s
}
