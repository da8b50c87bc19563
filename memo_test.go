package ynamazon

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestMemo(t *testing.T) {
	const link = "https://www.amazon.com/gp/your-account/order-details?orderID=A1"
	tests := []struct {
		name string
		r    TransactionWithOrderInfo
		opts MemoOptions
		want string
	}{
		{
			name: "single item",
			r:    TransactionWithOrderInfo{TransactionTotal: 20000, OrderTotal: 20000, OrderNumber: "A1", OrderLink: link, ItemNames: []string{"Widget"}},
			want: "- Widget\n" + link,
		},
		{
			name: "several items",
			r:    TransactionWithOrderInfo{TransactionTotal: 20000, OrderTotal: 20000, OrderNumber: "A1", OrderLink: link, ItemNames: []string{"Widget", "Gadget"}},
			want: "**Items**\n- 1. Widget\n- 2. Gadget\n" + link,
		},
		{
			name: "partial order",
			r:    TransactionWithOrderInfo{TransactionTotal: 12340, OrderTotal: 56780, OrderNumber: "A1", OrderLink: link, ItemNames: []string{"Widget"}},
			want: "-This transaction doesn't represent the entire order. The order total is $56.78-\n- Widget\n" + link,
		},
		{
			name: "markdown link",
			r:    TransactionWithOrderInfo{TransactionTotal: 20000, OrderTotal: 20000, OrderNumber: "A1", OrderLink: link, ItemNames: []string{"Widget"}},
			opts: MemoOptions{Markdown: true},
			want: "- Widget\n[Order #A1](" + link + ")",
		},
		{
			name: "summary replaces items",
			r:    TransactionWithOrderInfo{TransactionTotal: 20000, OrderTotal: 20000, OrderNumber: "A1", OrderLink: link, ItemNames: []string{"Widget", "Gadget"}},
			opts: MemoOptions{Summary: "Home tools"},
			want: "- Home tools\n" + link,
		},
		{
			name: "no items",
			r:    TransactionWithOrderInfo{TransactionTotal: 20000, OrderTotal: 20000, OrderNumber: "A1", OrderLink: link, ItemNames: []string{}},
			want: link,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Memo(tt.r, tt.opts); got != tt.want {
				t.Errorf("Memo() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestMemo_MarkdownParsesAsLink(t *testing.T) {
	r := TransactionWithOrderInfo{OrderNumber: "114-1234567-7654321", OrderLink: "https://example.com/o?id=1", ItemNames: []string{"a", "b"}}
	src := []byte(Memo(r, MemoOptions{Markdown: true}))

	var dest, label string
	root := goldmark.DefaultParser().Parse(text.NewReader(src))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if l, ok := n.(*ast.Link); ok && entering {
			dest = string(l.Destination)
			for c := l.FirstChild(); c != nil; c = c.NextSibling() {
				if tx, ok := c.(*ast.Text); ok {
					label += string(tx.Segment.Value(src))
				}
			}
		}
		return ast.WalkContinue, nil
	})
	if dest != r.OrderLink {
		t.Errorf("link destination = %q, want %q", dest, r.OrderLink)
	}
	if label != "Order #114-1234567-7654321" {
		t.Errorf("link text = %q", label)
	}
}

func TestTruncateMemo(t *testing.T) {
	const link = "https://example.com/order"
	header := partialOrderPrefix + " The order total is $10.00-"

	var items []string
	for i := 0; i < 40; i++ {
		items = append(items, "- a rather long item title that repeats a lot")
	}
	long := header + "\n**Items**\n" + strings.Join(items, "\n") + "\n" + link

	got, truncated := TruncateMemo(long)
	if !truncated {
		t.Fatal("TruncateMemo() did not truncate")
	}
	if n := utf8.RuneCountInString(got); n > MaxMemoLength {
		t.Errorf("len = %d, want <= %d", n, MaxMemoLength)
	}
	if !strings.HasPrefix(got, header+"\n\n**Items**") {
		t.Errorf("header lost:\n%s", got)
	}
	if !strings.HasSuffix(got, "...\n"+link) {
		t.Errorf("link lost:\n%s", got)
	}

	short := "- Widget\n" + link
	if got, truncated := TruncateMemo(short); truncated || got != short {
		t.Errorf("TruncateMemo(short) = %q, %v", got, truncated)
	}
}

func TestTruncateMemo_NoHeaderKeepsFirstLine(t *testing.T) {
	const link = "https://example.com/order"
	long := "**Items**\n" + strings.Repeat("x", 600) + "\n" + link
	got, _ := TruncateMemo(long)
	if !strings.HasPrefix(got, "**Items**\n") {
		t.Errorf("first line lost: %q", got[:20])
	}
	if utf8.RuneCountInString(got) != MaxMemoLength {
		t.Errorf("len = %d, want %d", utf8.RuneCountInString(got), MaxMemoLength)
	}
}

func TestMatcher(t *testing.T) {
	records := []TransactionWithOrderInfo{
		{OrderNumber: "A", TransactionTotal: 20000},
		{OrderNumber: "B", TransactionTotal: 5000},
		{OrderNumber: "C", TransactionTotal: 20000},
	}
	m := NewMatcher(records)

	tests := []struct {
		amount Milliunits
		want   string
		ok     bool
	}{
		{-20000, "A", true},
		{-20000, "C", true},
		{-20000, "", false},
		{20000, "", false}, // inflow never matches a charge
		{-5000, "B", true},
	}
	for _, tt := range tests {
		got, ok := m.Match(tt.amount)
		if ok != tt.ok || got.OrderNumber != tt.want {
			t.Errorf("Match(%d) = %q, %v, want %q, %v", tt.amount, got.OrderNumber, ok, tt.want, tt.ok)
		}
	}
	if len(m.Unused()) != 0 {
		t.Errorf("Unused() = %v, want none", m.Unused())
	}
}
