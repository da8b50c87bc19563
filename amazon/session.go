// Package amazon fetches order history and payment transactions from an
// Amazon account.
//
// The account is reached through its JSON endpoints, with a cookie based
// session opened by Login. Nothing is fetched before a successful login.
package amazon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/ynamazon/ynamazon/logger"
)

// DefaultBaseURL is the account site.
const DefaultBaseURL = "https://www.amazon.com"

// sessionCookie is set by the site on successful sign in.
const sessionCookie = "session-token"

var (
	// ErrLoginFailed is returned when the site rejects the credentials.
	ErrLoginFailed = errors.New("amazon login failed")
	// ErrUnauthenticated is returned by fetchers called before Login.
	ErrUnauthenticated = errors.New("session must be authenticated")
)

// Session is a signed in browsing session.
type Session struct {
	base     *url.URL
	username string
	password string
	client   *http.Client

	authenticated bool
}

// NewSession returns an unauthenticated session on baseURL (DefaultBaseURL
// if empty).
func NewSession(baseURL, username, password string) (*Session, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid amazon base url %q: %w", baseURL, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Session{
		base:     base,
		username: username,
		password: password,
		client:   &http.Client{Jar: jar},
	}, nil
}

// IsAuthenticated reports whether Login succeeded.
func (s *Session) IsAuthenticated() bool { return s.authenticated }

// Login signs in with the session credentials.
func (s *Session) Login(ctx context.Context) error {
	form := url.Values{
		"email":    {s.username},
		"password": {s.password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url("/ap/signin", nil), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("cannot create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot login: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	log := logger.FromContext(ctx)
	log.Debug().Str("status", resp.Status).Msgf("POST %s/ap/signin", s.base.Host)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", ErrLoginFailed, resp.Status)
	}
	if !s.hasSessionCookie() {
		return fmt.Errorf("%w: no session cookie", ErrLoginFailed)
	}
	s.authenticated = true
	log.Info().Str("user", s.username).Msg("logged into amazon")
	return nil
}

func (s *Session) hasSessionCookie() bool {
	for _, c := range s.client.Jar.Cookies(s.base) {
		if c.Name == sessionCookie && c.Value != "" {
			return true
		}
	}
	return false
}

func (s *Session) url(path string, query url.Values) string {
	u := *s.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// get reads the body of a GET on path.
func (s *Session) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if !s.authenticated {
		return nil, ErrUnauthenticated
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(path, query), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot execute http request: %w", err)
	}
	defer resp.Body.Close()

	log := logger.FromContext(ctx)
	log.Debug().Str("status", resp.Status).Msgf("GET %s%s", s.base.Host, path)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %s%s: %s", s.base.Host, path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read http body: %w", err)
	}
	return body, nil
}
