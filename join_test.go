package ynamazon

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func usd(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestJoin_Scenario(t *testing.T) {
	orders := []Order{
		{Number: "A1", PlacedDate: at("2024-01-02T08:00:00"), GrandTotal: usd("20.00"), Items: []Item{{Title: "Widget"}}, DetailsLink: "https://example.com/A1"},
	}
	transactions := []Transaction{
		{OrderNumber: "A1", GrandTotal: usd("-20.00"), CompletedDate: at("2024-01-05T10:00:00")},
		{OrderNumber: "B9", GrandTotal: usd("-5.00"), CompletedDate: at("2024-01-06T10:00:00")},
	}

	got, dropped := Join(orders, transactions)

	want := []TransactionWithOrderInfo{{
		CompletedDate:    at("2024-01-05T10:00:00"),
		TransactionTotal: 20000,
		OrderTotal:       20000,
		OrderNumber:      "A1",
		OrderLink:        "https://example.com/A1",
		ItemNames:        []string{"Widget"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Join() mismatch (-want +got):\n%s", diff)
	}
	if len(dropped) != 1 || dropped[0].OrderNumber != "B9" {
		t.Errorf("Join() dropped = %v, want the B9 transaction", dropped)
	}
}

func TestJoin_SignPolicy(t *testing.T) {
	orders := []Order{{Number: "X", GrandTotal: usd("56.78")}}
	transactions := []Transaction{{OrderNumber: "X", GrandTotal: usd("-12.34")}}

	got, _ := Join(orders, transactions)
	if len(got) != 1 {
		t.Fatalf("Join() returned %d records, want 1", len(got))
	}
	if got[0].TransactionTotal != 12340 {
		t.Errorf("TransactionTotal = %d, want 12340", got[0].TransactionTotal)
	}
	if got[0].OrderTotal != 56780 {
		t.Errorf("OrderTotal = %d, want 56780", got[0].OrderTotal)
	}
	if !got[0].IsPartialOrder() {
		t.Error("IsPartialOrder() = false, want true")
	}
}

func TestJoin_DuplicateOrderNumberLastWins(t *testing.T) {
	orders := []Order{
		{Number: "D", GrandTotal: usd("1.00"), Items: []Item{{Title: "first"}}},
		{Number: "D", GrandTotal: usd("2.00"), Items: []Item{{Title: "second"}}},
	}
	got, _ := Join(orders, []Transaction{{OrderNumber: "D", GrandTotal: usd("-2.00")}})
	if len(got) != 1 || got[0].OrderTotal != 2000 || got[0].ItemNames[0] != "second" {
		t.Errorf("Join() = %+v, want the second order", got)
	}
}

func TestJoin_LinkFallsBackToOrder(t *testing.T) {
	orders := []Order{{Number: "L", DetailsLink: "order-link"}}
	tests := []struct {
		name string
		tx   Transaction
		want string
	}{
		{"transaction link", Transaction{OrderNumber: "L", DetailsLink: "tx-link"}, "tx-link"},
		{"order link", Transaction{OrderNumber: "L"}, "order-link"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Join(orders, []Transaction{tt.tx})
			if got[0].OrderLink != tt.want {
				t.Errorf("OrderLink = %q, want %q", got[0].OrderLink, tt.want)
			}
		})
	}
}

func TestJoin_NoItemsIsEmptyList(t *testing.T) {
	got, _ := Join([]Order{{Number: "E"}}, []Transaction{{OrderNumber: "E"}})
	if got[0].ItemNames == nil || len(got[0].ItemNames) != 0 {
		t.Errorf("ItemNames = %#v, want empty non nil list", got[0].ItemNames)
	}
}

// TestJoin_Properties checks completeness and ordering on random inputs.
func TestJoin_Properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	start := at("2024-01-01T00:00:00")
	for round := 0; round < 50; round++ {
		var orders []Order
		known := make(map[string]bool)
		for i := 0; i < rnd.Intn(20); i++ {
			n := fmt.Sprintf("O%d", rnd.Intn(30))
			orders = append(orders, Order{Number: n, GrandTotal: decimal.New(rnd.Int63n(100000), -2)})
			known[n] = true
		}
		var transactions []Transaction
		for i := 0; i < rnd.Intn(30); i++ {
			transactions = append(transactions, Transaction{
				OrderNumber:   fmt.Sprintf("O%d", rnd.Intn(30)),
				CompletedDate: start.Add(time.Duration(i) * time.Hour),
				GrandTotal:    decimal.New(-rnd.Int63n(100000), -2),
			})
		}

		got, dropped := Join(orders, transactions)

		matching := 0
		for _, tx := range transactions {
			if known[tx.OrderNumber] {
				matching++
			}
		}
		if len(got) != matching {
			t.Fatalf("round %d: %d records, want %d", round, len(got), matching)
		}
		if len(got)+len(dropped) != len(transactions) {
			t.Fatalf("round %d: %d records + %d dropped != %d transactions", round, len(got), len(dropped), len(transactions))
		}
		for i, r := range got {
			if !known[r.OrderNumber] {
				t.Fatalf("round %d: record %d has unknown order %q", round, i, r.OrderNumber)
			}
			if i > 0 && r.CompletedDate.Before(got[i-1].CompletedDate) {
				t.Fatalf("round %d: record %d is out of order", round, i)
			}
		}
	}
}
