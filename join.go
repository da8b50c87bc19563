package ynamazon

// Join matches each transaction with the order it paid for, using the order
// number.
//
// Records follow the order of transactions. A transaction whose order is not
// in orders is not an error: its order may simply be older than the fetched
// order history. Such transactions are returned in dropped, in input order.
//
// When several orders share a number, the last one wins.
func Join(orders []Order, transactions []Transaction) (records []TransactionWithOrderInfo, dropped []Transaction) {
	byNumber := make(map[string]Order, len(orders))
	for _, o := range orders {
		byNumber[o.Number] = o
	}

	records = make([]TransactionWithOrderInfo, 0, len(transactions))
	for _, tx := range transactions {
		order, ok := byNumber[tx.OrderNumber]
		if !ok {
			dropped = append(dropped, tx)
			continue
		}
		records = append(records, joinOne(tx, order))
	}
	return records, dropped
}

func joinOne(tx Transaction, order Order) TransactionWithOrderInfo {
	link := tx.DetailsLink
	if link == "" {
		link = order.DetailsLink
	}
	names := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		names = append(names, item.Title)
	}
	return TransactionWithOrderInfo{
		CompletedDate:    tx.CompletedDate,
		TransactionTotal: EncodeMilliunits(tx.GrandTotal, true),
		OrderTotal:       EncodeMilliunits(order.GrandTotal, false),
		OrderNumber:      tx.OrderNumber,
		OrderLink:        link,
		ItemNames:        names,
	}
}
