package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"kanbanstudio/internal/api"
)

// SessionGate signs in against the server's cookie session endpoints
type SessionGate struct {
	client     *api.Client
	httpClient *http.Client
}

func NewSessionGate(baseURL string, timeout time.Duration) (*SessionGate, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	hc := &http.Client{Jar: jar}
	return &SessionGate{
		client:     api.NewClient(baseURL, api.WithTimeout(timeout), api.WithHTTPClient(hc)),
		httpClient: hc,
	}, nil
}

// HTTPClient returns the client holding the session cookie
func (g *SessionGate) HTTPClient() *http.Client {
	return g.httpClient
}

func (g *SessionGate) Status(ctx context.Context) (Session, error) {
	resp, err := g.client.AuthStatus(ctx)
	if err != nil {
		return Session{}, err
	}
	return Session{Authenticated: resp.Authenticated, Username: resp.Username}, nil
}

func (g *SessionGate) Login(ctx context.Context, username, password string) (Session, error) {
	resp, err := g.client.Login(ctx, api.Credentials{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
	})
	if api.IsUnauthorized(err) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !resp.Success {
		return Session{}, ErrInvalidCredentials
	}
	return Session{Authenticated: true, Username: resp.Username}, nil
}

func (g *SessionGate) Logout(ctx context.Context) error {
	return g.client.Logout(ctx)
}
