// Package ynab is a small client of the YNAB API, limited to what memo
// processing needs: payees, transactions of a payee, and transaction updates.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ynamazon/ynamazon"
	"github.com/ynamazon/ynamazon/logger"
)

// DefaultBaseURL is the YNAB API root.
const DefaultBaseURL = "https://api.ynab.com/v1"

// ErrSetup is returned when the budget is not set up for memo processing.
var ErrSetup = errors.New("ynab setup error")

// FlagOrange marks transactions updated by ynamazon.
const FlagOrange = "orange"

// Payee of a budget.
type Payee struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}

// Transaction of a budget. Amount is negative for outflows.
type Transaction struct {
	ID        string              `json:"id"`
	Date      string              `json:"date"`
	Amount    ynamazon.Milliunits `json:"amount"`
	Memo      string              `json:"memo,omitempty"`
	PayeeID   string              `json:"payee_id,omitempty"`
	PayeeName string              `json:"payee_name,omitempty"`
	FlagColor string              `json:"flag_color,omitempty"`
	Approved  bool                `json:"approved"`
	Cleared   string              `json:"cleared,omitempty"`
	Deleted   bool                `json:"deleted,omitempty"`
}

// Client calls the YNAB API for one budget.
type Client struct {
	BaseURL  string
	Token    string
	BudgetID string
	HTTP     *http.Client
}

// NewClient returns a Client of budgetID authenticated with token.
func NewClient(token, budgetID string) *Client {
	return &Client{BaseURL: DefaultBaseURL, Token: token, BudgetID: budgetID, HTTP: http.DefaultClient}
}

// Payees returns the payees of the budget.
func (c *Client) Payees(ctx context.Context) ([]Payee, error) {
	var resp struct {
		Data struct {
			Payees []Payee `json:"payees"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/payees", nil, &resp); err != nil {
		return nil, fmt.Errorf("cannot list payees: %w", err)
	}
	return resp.Data.Payees, nil
}

// TransactionsByPayee returns the transactions of payeeID.
func (c *Client) TransactionsByPayee(ctx context.Context, payeeID string) ([]Transaction, error) {
	var resp struct {
		Data struct {
			Transactions []Transaction `json:"transactions"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/payees/"+url.PathEscape(payeeID)+"/transactions", nil, &resp); err != nil {
		return nil, fmt.Errorf("cannot list transactions of payee %s: %w", payeeID, err)
	}
	return resp.Data.Transactions, nil
}

// UpdateTransaction sets the memo and payee of tx, and flags it orange.
func (c *Client) UpdateTransaction(ctx context.Context, tx Transaction, memo, payeeID string) (Transaction, error) {
	tx.Memo = memo
	tx.PayeeID = payeeID
	tx.PayeeName = ""
	tx.FlagColor = FlagOrange

	body := struct {
		Transaction Transaction `json:"transaction"`
	}{tx}
	var resp struct {
		Data struct {
			Transaction Transaction `json:"transaction"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(tx.ID), body, &resp); err != nil {
		return Transaction{}, fmt.Errorf("cannot update transaction %s: %w", tx.ID, err)
	}
	return resp.Data.Transaction, nil
}

// FindPayee returns the first payee called name. Several payees with the same
// name are reported in the log.
func FindPayee(ctx context.Context, payees []Payee, name string) (Payee, bool) {
	var found []Payee
	for _, p := range payees {
		if p.Name == name && !p.Deleted {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return Payee{}, false
	}
	if len(found) > 1 {
		log := logger.FromContext(ctx)
		log.Warn().Str("payee", name).Int("count", len(found)).Msg("multiple payees with this name, using the first one")
	}
	return found[0], true
}

// GetTransactions returns the transactions waiting for a memo, and the payee
// to move them to once processed.
func (c *Client) GetTransactions(ctx context.Context, toBeProcessed, processingCompleted string) ([]Transaction, Payee, error) {
	payees, err := c.Payees(ctx)
	if err != nil {
		return nil, Payee{}, err
	}
	needsMemo, ok := FindPayee(ctx, payees, toBeProcessed)
	if !ok {
		return nil, Payee{}, fmt.Errorf("%w: payee %q not found in YNAB", ErrSetup, toBeProcessed)
	}
	withMemo, ok := FindPayee(ctx, payees, processingCompleted)
	if !ok {
		return nil, Payee{}, fmt.Errorf("%w: payee %q not found in YNAB", ErrSetup, processingCompleted)
	}
	txs, err := c.TransactionsByPayee(ctx, needsMemo.ID)
	if err != nil {
		return nil, Payee{}, err
	}
	return txs, withMemo, nil
}

// do calls the budget endpoint path and decodes the JSON answer into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	addr := c.BaseURL + "/budgets/" + url.PathEscape(c.BudgetID) + path
	req, err := http.NewRequestWithContext(ctx, method, addr, body)
	if err != nil {
		return fmt.Errorf("cannot create http request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot execute http request: %w", err)
	}
	defer resp.Body.Close()

	log := logger.FromContext(ctx)
	log.Debug().Str("status", resp.Status).Msgf("%s %s%s", method, req.URL.Host, req.URL.Path)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cannot read http body: %w", err)
	}
	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				ID     string `json:"id"`
				Name   string `json:"name"`
				Detail string `json:"detail"`
			} `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Detail != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error.Detail)
		}
		return fmt.Errorf("%s", resp.Status)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("cannot decode ynab json: %w", err)
	}
	return nil
}
