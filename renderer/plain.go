package renderer

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ynamazon/ynamazon"
)

// PrintTransactions writes one block per record, one "label: value" line per
// field in field order, then a blank line:
//
//	completed_date: 2024-01-05 10:00:00
//	transaction_total: $20.00
//	order_total: $20.00
//	order_number: A1
//	order_link: https://example.com/A1
//	item_names:
//	    1: Widget
func PrintTransactions(w io.Writer, records []ynamazon.TransactionWithOrderInfo, currency string) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		fmt.Fprintf(bw, "completed_date: %s\n", r.CompletedDate.Format(DateLayout))
		fmt.Fprintf(bw, "transaction_total: %s\n", r.TransactionTotal.Format(currency))
		fmt.Fprintf(bw, "order_total: %s\n", r.OrderTotal.Format(currency))
		fmt.Fprintf(bw, "order_number: %s\n", r.OrderNumber)
		fmt.Fprintf(bw, "order_link: %s\n", r.OrderLink)
		fmt.Fprintln(bw, "item_names:")
		for i, name := range r.ItemNames {
			fmt.Fprintf(bw, "    %d: %s\n", i+1, name)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
