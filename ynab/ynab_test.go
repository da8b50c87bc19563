package ynab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeBudget serves budget "b1" with token "tok".
type fakeBudget struct {
	payees  string
	updated []Transaction
}

func (f *fakeBudget) server(t *testing.T) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /budgets/b1/payees", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data": {"payees": %s}}`, f.payees)
	})
	mux.HandleFunc("GET /budgets/b1/payees/p-needs/transactions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"transactions": [
			{"id": "t1", "date": "2024-01-05", "amount": -20000, "payee_id": "p-needs", "approved": true},
			{"id": "t2", "date": "2024-01-06", "amount": -5000, "payee_id": "p-needs"}
		]}}`)
	})
	mux.HandleFunc("PUT /budgets/b1/transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Transaction Transaction `json:"transaction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.updated = append(f.updated, body.Transaction)
		json.NewEncoder(w).Encode(map[string]any{"data": body})
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error": {"id": "401", "name": "unauthorized", "detail": "Unauthorized"}}`)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", "b1")
	c.BaseURL = srv.URL
	c.HTTP = srv.Client()
	return c
}

const setUpPayees = `[
	{"id": "p-needs", "name": "Amazon - Needs Memo"},
	{"id": "p-done", "name": "Amazon"},
	{"id": "p-done-2", "name": "Amazon"}
]`

func TestGetTransactions(t *testing.T) {
	f := &fakeBudget{payees: setUpPayees}
	c := f.server(t)

	txs, done, err := c.GetTransactions(context.Background(), "Amazon - Needs Memo", "Amazon")
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if done.ID != "p-done" {
		t.Errorf("completed payee = %q, want the first match p-done", done.ID)
	}
	if len(txs) != 2 || txs[0].Amount != -20000 {
		t.Errorf("transactions = %+v", txs)
	}
}

func TestGetTransactions_MissingPayee(t *testing.T) {
	tests := []struct {
		name   string
		payees string
		want   string
	}{
		{"no needs memo payee", `[{"id": "p-done", "name": "Amazon"}]`, "Amazon - Needs Memo"},
		{"no completed payee", `[{"id": "p-needs", "name": "Amazon - Needs Memo"}]`, `"Amazon"`},
		{"deleted payee", `[{"id": "p-needs", "name": "Amazon - Needs Memo", "deleted": true}, {"id": "p-done", "name": "Amazon"}]`, "Amazon - Needs Memo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := (&fakeBudget{payees: tt.payees}).server(t)
			_, _, err := c.GetTransactions(context.Background(), "Amazon - Needs Memo", "Amazon")
			if !errors.Is(err, ErrSetup) {
				t.Fatalf("GetTransactions() error = %v, want ErrSetup", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not name %s", err, tt.want)
			}
		})
	}
}

func TestUpdateTransaction(t *testing.T) {
	f := &fakeBudget{payees: setUpPayees}
	c := f.server(t)

	tx := Transaction{ID: "t1", Date: "2024-01-05", Amount: -20000, PayeeID: "p-needs", PayeeName: "Amazon - Needs Memo", Approved: true}
	got, err := c.UpdateTransaction(context.Background(), tx, "- Widget\nhttps://example.com/A1", "p-done")
	if err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}
	if len(f.updated) != 1 {
		t.Fatalf("server received %d updates, want 1", len(f.updated))
	}
	sent := f.updated[0]
	if sent.Memo != "- Widget\nhttps://example.com/A1" || sent.PayeeID != "p-done" || sent.FlagColor != FlagOrange {
		t.Errorf("sent = %+v", sent)
	}
	if sent.PayeeName != "" {
		t.Errorf("payee name %q sent, it would override the payee id", sent.PayeeName)
	}
	if sent.Amount != -20000 || !sent.Approved {
		t.Errorf("other fields not preserved: %+v", sent)
	}
	if got.ID != "t1" {
		t.Errorf("returned transaction = %+v", got)
	}
}

func TestUnauthorized(t *testing.T) {
	c := (&fakeBudget{payees: setUpPayees}).server(t)
	c.Token = "wrong"
	_, err := c.Payees(context.Background())
	if err == nil || !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("Payees() error = %v, want the API detail", err)
	}
}
