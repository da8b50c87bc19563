package ynamazon

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxMemoLength is the longest memo YNAB accepts, in characters.
const MaxMemoLength = 500

const partialOrderPrefix = "-This transaction doesn't represent the entire order."

// MemoOptions controls how a memo is rendered.
type MemoOptions struct {
	Markdown bool   // link the order as [Order #N](url) instead of a raw url
	Summary  string // when set, replaces the item list
}

// Memo renders the YNAB memo of a joined record:
//
//	-This transaction doesn't represent the entire order. The order total is $56.78-
//	**Items**
//	- 1. first item
//	- 2. second item
//	https://www.amazon.com/gp/your-account/order-details?orderID=...
//
// The partial order line is only present for partial orders, and a single item
// is rendered as "- title" without the "**Items**" header. The result is
// truncated to MaxMemoLength.
func Memo(r TransactionWithOrderInfo, opts MemoOptions) string {
	var lines []string
	if r.IsPartialOrder() {
		lines = append(lines, fmt.Sprintf("%s The order total is $%s-", partialOrderPrefix, r.OrderTotal.Decimal().StringFixed(2)))
	}

	switch {
	case opts.Summary != "":
		lines = append(lines, "- "+opts.Summary)
	case len(r.ItemNames) == 1:
		lines = append(lines, "- "+r.ItemNames[0])
	case len(r.ItemNames) > 1:
		lines = append(lines, "**Items**")
		for i, name := range r.ItemNames {
			lines = append(lines, fmt.Sprintf("- %d. %s", i+1, name))
		}
	}

	lines = append(lines, orderLink(r, opts.Markdown))
	memo, _ := TruncateMemo(strings.Join(lines, "\n"))
	return memo
}

func orderLink(r TransactionWithOrderInfo, markdown bool) string {
	if markdown {
		return fmt.Sprintf("[Order #%s](%s)", r.OrderNumber, r.OrderLink)
	}
	return r.OrderLink
}

// TruncateMemo shortens memo to MaxMemoLength characters and reports whether
// it did. The partial order line and the last line (the order link) are kept
// whole; the lines in between are cut and end with "...".
func TruncateMemo(memo string) (string, bool) {
	if utf8.RuneCountInString(memo) <= MaxMemoLength {
		return memo, false
	}

	lines := strings.Split(memo, "\n")
	link := lines[len(lines)-1]
	middle := lines[:len(lines)-1]

	header := ""
	if len(middle) > 0 && strings.HasPrefix(middle[0], partialOrderPrefix) {
		header = middle[0] + "\n\n"
		middle = middle[1:]
	}

	remaining := MaxMemoLength - utf8.RuneCountInString(header) - utf8.RuneCountInString(link) - 4 // "...\n"
	content := strings.Join(middle, "\n")
	if remaining < 0 {
		remaining = 0
	}
	if utf8.RuneCountInString(content) > remaining {
		content = string([]rune(content)[:remaining]) + "..."
	}

	memo = header + content + "\n" + link
	if utf8.RuneCountInString(memo) > MaxMemoLength {
		// the link alone does not fit
		memo = string([]rune(memo)[:MaxMemoLength])
	}
	return memo, true
}
