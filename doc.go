// Package ynamazon reconciles Amazon payment transactions with the Amazon
// orders they paid for, so that budget entries can be annotated with what was
// actually bought.
//
// The core functionalities include:
//   - Record fetching: a thin seam (Provider) around the remote account that
//     returns orders and transactions sorted by date.
//   - Reconciliation: an exact join of transactions to orders on the order
//     number. Transactions whose order was not fetched are dropped.
//   - Fixed-point money: every amount is converted to Milliunits, an exact
//     integer count of thousandths of a currency unit.
//   - Memoization: the network-bound fetch-and-join is wrapped in a
//     time-bounded cache (see package cache) so that repeated runs within a few
//     minutes do not hit the network again.
//   - Budget annotation: matching joined records to YNAB transactions and
//     building the memo that describes the order.
//
// This package serves as the foundational logic for the `yna` command-line
// tool.
package ynamazon
