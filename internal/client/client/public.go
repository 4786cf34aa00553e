package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
)

// DefaultLoginTimeout is used for POST /api/token/.
const DefaultLoginTimeout = 30 * time.Second

// PublicClient calls endpoints that need no access token.
type PublicClient struct {
	t            transport
	loginTimeout time.Duration
}

// NewPublic creates a client for the unauthenticated endpoints.
func NewPublic(baseURL string, timeout, loginTimeout time.Duration, hc *http.Client) *PublicClient {
	if loginTimeout <= 0 {
		loginTimeout = DefaultLoginTimeout
	}
	return &PublicClient{t: newTransport(baseURL, "", timeout, hc), loginTimeout: loginTimeout}
}

// BaseURL returns the normalised API base URL.
func (c *PublicClient) BaseURL() string { return c.t.baseURL }

// Login exchanges credentials for a token pair.
func (c *PublicClient) Login(ctx context.Context, username, password string) (*api.TokenPair, error) {
	var pair api.TokenPair
	req := api.LoginRequest{Username: username, Password: password}
	if err := c.t.doRequestTimeout(ctx, c.loginTimeout, http.MethodPost, "/api/token/", req, &pair); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if !pair.Valid() {
		return nil, fmt.Errorf("client.Login: %w: token pair incomplete", ErrMalformedResponse)
	}
	return &pair, nil
}

// Register creates an account and returns its first token pair.
func (c *PublicClient) Register(ctx context.Context, r api.RegisterRequest) (*api.TokenPair, error) {
	var pair api.TokenPair
	if err := c.t.post(ctx, "/users/register/", r, &pair); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	if !pair.Valid() {
		return nil, fmt.Errorf("client.Register: %w: token pair incomplete", ErrMalformedResponse)
	}
	return &pair, nil
}

// Refresh trades a refresh token for a new pair. The server rotates the
// refresh token, so the old one is unusable afterwards.
func (c *PublicClient) Refresh(ctx context.Context, refreshToken string) (*api.TokenPair, error) {
	var pair api.TokenPair
	if err := c.t.post(ctx, "/api/token/refresh/", api.RefreshRequest{Refresh: refreshToken}, &pair); err != nil {
		return nil, fmt.Errorf("client.Refresh: %w", err)
	}
	if !pair.Valid() {
		return nil, fmt.Errorf("client.Refresh: %w: token pair incomplete", ErrMalformedResponse)
	}
	return &pair, nil
}

// ListInjuryTypes returns the injury catalogue shown at sign-up.
func (c *PublicClient) ListInjuryTypes(ctx context.Context) ([]api.InjuryType, error) {
	var out []api.InjuryType
	if err := c.t.get(ctx, "/injury-types/", &out); err != nil {
		return nil, fmt.Errorf("client.ListInjuryTypes: %w", err)
	}
	return out, nil
}
