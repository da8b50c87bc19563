// Package renderer formats reconciliation results for people: a plain text
// listing, and markdown reports displayed through glamour.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/ynamazon/ynamazon"
	"github.com/ynamazon/ynamazon/ynab"
)

//go:embed templates/*.md
var templates embed.FS

// DateLayout is the layout of dates in reports.
const DateLayout = "2006-01-02 15:04:05"

var funcs = template.FuncMap{
	"money": func(m ynamazon.Milliunits, currency string) string { return m.Format(currency) },
	"date":  func(t time.Time) string { return t.Format(DateLayout) },
	"inc":   func(i int) int { return i + 1 },
	// memos are multi line, table cells are not
	"oneline": func(s string) string {
		return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", `\|`)
	},
}

// TransactionsMarkdown renders joined records as a markdown report: a table of
// transactions then the items of each order.
func TransactionsMarkdown(records []ynamazon.TransactionWithOrderInfo, currency string) string {
	partials := map[string]string{
		"transactions_title": "transactions_title.md",
		"transactions_table": "transactions_table.md",
		"transactions_items": "transactions_items.md",
	}
	data := struct {
		Records  []ynamazon.TransactionWithOrderInfo
		Currency string
	}{records, currency}
	return renderTemplate("transactions", "transactions.md", partials, data)
}

// YNABTransactionsMarkdown renders budget transactions waiting for a memo.
func YNABTransactionsMarkdown(txs []ynab.Transaction, currency string) string {
	data := struct {
		Transactions []ynab.Transaction
		Currency     string
	}{txs, currency}
	return renderTemplate("ynab_transactions", "ynab_transactions.md", nil, data)
}

// Processed is the outcome of memo processing for one budget transaction.
type Processed struct {
	Date        string
	Amount      ynamazon.Milliunits // budget amount, negative for outflows
	OrderNumber string              // empty when unmatched
	Memo        string
	Status      string
}

// ProcessReport is the outcome of a memo processing run.
type ProcessReport struct {
	DryRun   bool
	Currency string
	Results  []Processed
	Unused   []ynamazon.TransactionWithOrderInfo // joined records no budget transaction matched
}

// ProcessMarkdown renders a ProcessReport.
func ProcessMarkdown(r ProcessReport) string {
	return renderTemplate("process", "process.md", nil, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
