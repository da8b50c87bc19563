package amazon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ynamazon/ynamazon"
	"github.com/ynamazon/ynamazon/logger"
)

const ordersPath = "/your-orders/orders.json"

// Orders returns the order history of a calendar year. Two digit years are in
// the 2000s.
//
// A sample page:
//
//	{
//	    "orders": [
//	        {
//	            "orderNumber": "112-0000000-0000000",
//	            "orderPlacedDate": "2024-01-02",
//	            "grandTotal": "$20.00",
//	            "orderDetailsLink": "https://www.amazon.com/gp/your-account/order-details?orderID=112-0000000-0000000",
//	            "items": [{"title": "Widget"}]
//	        }
//	    ],
//	    "nextPageToken": "..."
//	}
func Orders(ctx context.Context, s *Session, year int) ([]ynamazon.Order, error) {
	if !s.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if year < 100 {
		year += 2000
	}

	var orders []ynamazon.Order
	err := paginate(ctx, s, ordersPath, url.Values{"year": {strconv.Itoa(year)}}, func(page any) error {
		for _, o := range list("$.orders", page) {
			order, err := parseOrder(o)
			if err != nil {
				return err
			}
			orders = append(orders, order)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot fetch %d orders: %w", year, err)
	}
	log := logger.FromContext(ctx)
	log.Debug().Int("year", year).Int("orders", len(orders)).Msg("fetched order history")
	return orders, nil
}

func parseOrder(o any) (ynamazon.Order, error) {
	number := str("$.orderNumber", o)
	if number == "" {
		return ynamazon.Order{}, fmt.Errorf("order without number")
	}
	placed, err := date("$.orderPlacedDate", o)
	if err != nil {
		return ynamazon.Order{}, fmt.Errorf("order %s: %w", number, err)
	}
	total, err := amount("$.grandTotal", o)
	if err != nil {
		return ynamazon.Order{}, fmt.Errorf("order %s: %w", number, err)
	}
	order := ynamazon.Order{
		Number:      number,
		PlacedDate:  placed,
		GrandTotal:  total,
		DetailsLink: str("$.orderDetailsLink", o),
	}
	for _, item := range list("$.items", o) {
		order.Items = append(order.Items, ynamazon.Item{Title: str("$.title", item)})
	}
	return order, nil
}

// paginate calls visit with every page of path, following nextPageToken.
func paginate(ctx context.Context, s *Session, path string, query url.Values, visit func(page any) error) error {
	seen := make(map[string]bool)
	for {
		data, err := s.get(ctx, path, query)
		if err != nil {
			return err
		}
		page, err := decode(data)
		if err != nil {
			return err
		}
		if err := visit(page); err != nil {
			return err
		}
		token := str("$.nextPageToken", page)
		if token == "" {
			return nil
		}
		if seen[token] {
			return fmt.Errorf("page token %q repeated", token)
		}
		seen[token] = true
		query.Set("pageToken", token)
	}
}
