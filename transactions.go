package ynamazon

import (
	"context"

	"github.com/ynamazon/ynamazon/cache"
	"github.com/ynamazon/ynamazon/logger"
	"github.com/ynamazon/ynamazon/metrics"
)

// AmazonTransactionsCacheName names the cached joined records.
const AmazonTransactionsCacheName = "amazon_transactions_json_compatible_amazon_transactions"

// Query identifies a fetch: whose account, and how far back. It is the cache
// key, so it must never hold credentials.
type Query struct {
	Account string `json:"account"`
	Window
}

// AmazonTransactionsFunc returns the joined records of a Query. With useCache
// set, a fresh cached result is returned instead of contacting the remote
// account.
type AmazonTransactionsFunc func(ctx context.Context, q Query, useCache bool) ([]TransactionWithOrderInfo, error)

// NewAmazonTransactions returns the memoized fetch and join pipeline over p.
//
// m may be nil.
func NewAmazonTransactions(c *cache.Cache, p Provider, m *metrics.Metrics) AmazonTransactionsFunc {
	compute := func(ctx context.Context, q Query) ([]TransactionWithOrderInfo, error) {
		log := logger.FromContext(ctx)

		orders, transactions, err := Fetch(ctx, p, q.Window)
		m.ObserveFetch("amazon", err)
		if err != nil {
			return nil, err
		}
		log.Info().Int("orders", len(orders)).Int("transactions", len(transactions)).Msg("fetched amazon history")

		records, dropped := Join(orders, transactions)
		m.ObserveJoin(len(records), len(dropped))
		if len(dropped) > 0 {
			log.Info().Int("dropped", len(dropped)).Msg("transactions without a matching order in the fetched years")
			for _, tx := range dropped {
				log.Debug().Str("order_number", tx.OrderNumber).Time("completed", tx.CompletedDate).Msg("dropped transaction")
			}
		}
		return records, nil
	}
	return AmazonTransactionsFunc(cache.Wrap(c, AmazonTransactionsCacheName, compute))
}
