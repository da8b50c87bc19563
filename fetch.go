package ynamazon

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// DefaultTransactionDays is the default transactions lookback window.
const DefaultTransactionDays = 31

// Provider is the remote account holding orders and transactions.
//
// Login must succeed before any fetch. Implementations own pagination and
// retries; callers see complete lists.
type Provider interface {
	Login(ctx context.Context) error
	OrderHistory(ctx context.Context, year int) ([]Order, error)
	Transactions(ctx context.Context, days int) ([]Transaction, error)
}

// Window is the lookback window of a fetch.
type Window struct {
	OrderYears      []int `json:"order_years"`      // calendar years of order history
	TransactionDays int   `json:"transaction_days"` // days of transactions
}

// DefaultWindow returns the current calendar year of orders and
// DefaultTransactionDays of transactions.
//
// Near the beginning of a year, transactions may pay for orders placed the
// previous year; those are not fetched unless the year is listed explicitly.
func DefaultWindow(today time.Time) Window {
	return Window{OrderYears: []int{today.Year()}, TransactionDays: DefaultTransactionDays}
}

// NormalizeYears returns years with two digit values interpreted in the 2000s
// (22 is 2022). Duplicates are removed, order is preserved.
func NormalizeYears(years []int) ([]int, error) {
	var out []int
	for _, y := range years {
		switch {
		case y >= 0 && y < 100:
			y += 2000
		case y < 1995 || y > 9999:
			return nil, fmt.Errorf("invalid order year %d", y)
		}
		if !slices.Contains(out, y) {
			out = append(out, y)
		}
	}
	return out, nil
}

// Fetch logs into p and returns the orders of every year in w, sorted by
// placement date, and the transactions of the last w.TransactionDays days,
// sorted by completion date.
//
// Login happens first, then orders, then transactions. A rejected login is
// reported as ErrAuthentication.
func Fetch(ctx context.Context, p Provider, w Window) (orders []Order, transactions []Transaction, err error) {
	if err := p.Login(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	for _, year := range w.OrderYears {
		o, err := p.OrderHistory(ctx, year)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot fetch %d order history: %w", year, err)
		}
		orders = append(orders, o...)
	}

	days := w.TransactionDays
	if days <= 0 {
		days = DefaultTransactionDays
	}
	transactions, err = p.Transactions(ctx, days)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot fetch transactions: %w", err)
	}

	slices.SortStableFunc(orders, func(a, b Order) int { return a.PlacedDate.Compare(b.PlacedDate) })
	slices.SortStableFunc(transactions, func(a, b Transaction) int { return a.CompletedDate.Compare(b.CompletedDate) })
	return orders, transactions, nil
}
