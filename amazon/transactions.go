package amazon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ynamazon/ynamazon"
	"github.com/ynamazon/ynamazon/logger"
)

const transactionsPath = "/cpe/yourpayments/transactions.json"

// Transactions returns the payment transactions completed in the last days.
//
// A sample page:
//
//	{
//	    "transactions": [
//	        {
//	            "orderNumber": "112-0000000-0000000",
//	            "completedDate": "2024-01-05",
//	            "grandTotal": "-$20.00",
//	            "orderDetailsLink": "https://www.amazon.com/gp/your-account/order-details?orderID=112-0000000-0000000"
//	        }
//	    ],
//	    "nextPageToken": ""
//	}
func Transactions(ctx context.Context, s *Session, days int) ([]ynamazon.Transaction, error) {
	if !s.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	var transactions []ynamazon.Transaction
	err := paginate(ctx, s, transactionsPath, url.Values{"days": {strconv.Itoa(days)}}, func(page any) error {
		for _, t := range list("$.transactions", page) {
			tx, err := parseTransaction(t)
			if err != nil {
				return err
			}
			transactions = append(transactions, tx)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot fetch transactions: %w", err)
	}
	log := logger.FromContext(ctx)
	log.Debug().Int("days", days).Int("transactions", len(transactions)).Msg("fetched transactions")
	return transactions, nil
}

func parseTransaction(t any) (ynamazon.Transaction, error) {
	number := str("$.orderNumber", t)
	completed, err := date("$.completedDate", t)
	if err != nil {
		return ynamazon.Transaction{}, fmt.Errorf("transaction %s: %w", number, err)
	}
	total, err := amount("$.grandTotal", t)
	if err != nil {
		return ynamazon.Transaction{}, fmt.Errorf("transaction %s: %w", number, err)
	}
	return ynamazon.Transaction{
		OrderNumber:   number,
		CompletedDate: completed,
		GrandTotal:    total,
		DetailsLink:   str("$.orderDetailsLink", t),
	}, nil
}
