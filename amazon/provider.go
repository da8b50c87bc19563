package amazon

import (
	"context"

	"github.com/ynamazon/ynamazon"
)

// Provider serves a Session as a ynamazon.Provider.
type Provider struct {
	Session *Session
}

// NewProvider returns a Provider for the account of username on baseURL.
func NewProvider(baseURL, username, password string) (*Provider, error) {
	s, err := NewSession(baseURL, username, password)
	if err != nil {
		return nil, err
	}
	return &Provider{Session: s}, nil
}

func (p *Provider) Login(ctx context.Context) error { return p.Session.Login(ctx) }

func (p *Provider) OrderHistory(ctx context.Context, year int) ([]ynamazon.Order, error) {
	return Orders(ctx, p.Session, year)
}

func (p *Provider) Transactions(ctx context.Context, days int) ([]ynamazon.Transaction, error) {
	return Transactions(ctx, p.Session, days)
}

var _ ynamazon.Provider = (*Provider)(nil)
