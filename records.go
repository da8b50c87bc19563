package ynamazon

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrAuthentication is returned when the remote account rejects the login.
var ErrAuthentication = errors.New("authentication failed")

// Item is a line item of an order.
type Item struct {
	Title string
}

// Order is an order as returned by the remote account.
type Order struct {
	Number      string
	PlacedDate  time.Time
	GrandTotal  decimal.Decimal // credit, as displayed on the order
	Items       []Item
	DetailsLink string
}

// Transaction is a payment as returned by the remote account. The order it
// pays for may or may not be part of the fetched orders.
type Transaction struct {
	OrderNumber   string
	CompletedDate time.Time
	GrandTotal    decimal.Decimal // debit, negative in the feed
	DetailsLink   string
}

// TransactionWithOrderInfo is a transaction joined with the order it paid for.
//
// Field order is significant: it is the order used by the printed report and by
// the cache artifact.
type TransactionWithOrderInfo struct {
	CompletedDate    time.Time  `json:"completed_date"`
	TransactionTotal Milliunits `json:"transaction_total"` // positive charge
	OrderTotal       Milliunits `json:"order_total"`
	OrderNumber      string     `json:"order_number"`
	OrderLink        string     `json:"order_link"`
	ItemNames        []string   `json:"item_names"`
}

// IsPartialOrder reports whether the transaction only paid for part of the order.
func (t TransactionWithOrderInfo) IsPartialOrder() bool {
	return t.TransactionTotal != t.OrderTotal
}
