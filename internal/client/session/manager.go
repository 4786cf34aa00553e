package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/credstore"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/logging"
)

const (
	refreshKey            = "refresh"
	defaultRefreshTimeout = 15 * time.Second
)

var errNoRefreshToken = errors.New("no refresh token stored")

// Operation is one protected API interaction. It may be invoked twice: once
// with the current token and once more after a successful refresh.
type Operation func(ctx context.Context, c *client.AuthenticatedClient) error

// Caller runs operations with automatic 401 recovery.
type Caller interface {
	Call(ctx context.Context, op Operation) error
}

// Options configures a Manager. Zero values select defaults.
type Options struct {
	BaseURL        string
	RequestTimeout time.Duration
	LoginTimeout   time.Duration
	RefreshTimeout time.Duration
	HTTPClient     *http.Client
	Notifier       Notifier
	Logger         logging.Logger
}

// Manager implements the session lifecycle on top of a credential store.
type Manager struct {
	store          credstore.Store
	public         *client.PublicClient
	baseURL        string
	timeout        time.Duration
	refreshTimeout time.Duration
	hc             *http.Client
	notifier       Notifier
	log            logging.Logger
	state          *AuthState
	group          singleflight.Group
}

// NewManager builds a Manager. The initial AuthState is false until
// Hydrate or a login sets it.
func NewManager(store credstore.Store, opts Options) *Manager {
	if opts.HTTPClient == nil {
		opts.HTTPClient = client.NewHTTPClient()
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = client.DefaultTimeout
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = defaultRefreshTimeout
	}

	public := client.NewPublic(opts.BaseURL, opts.RequestTimeout, opts.LoginTimeout, opts.HTTPClient)

	return &Manager{
		store:          store,
		public:         public,
		baseURL:        public.BaseURL(),
		timeout:        opts.RequestTimeout,
		refreshTimeout: opts.RefreshTimeout,
		hc:             opts.HTTPClient,
		notifier:       opts.Notifier,
		log:            opts.Logger.With("module", "session"),
		state:          newAuthState(),
	}
}

// State exposes the session flag for observers.
func (m *Manager) State() *AuthState { return m.state }

// Public returns the client for unauthenticated endpoints.
func (m *Manager) Public() *client.PublicClient { return m.public }

// Hydrate sets the AuthState from the store, e.g. after a restart.
func (m *Manager) Hydrate(ctx context.Context) bool {
	_, ok := m.accessToken(ctx)
	m.state.set(ok)
	return ok
}

func (m *Manager) accessToken(ctx context.Context) (string, bool) {
	token, ok := m.store.Get(ctx, common.AccessTokenKey)
	return token, ok && token != ""
}

// CreateClient binds a client to the access token currently in the store.
// Without a token it signals LoginRequired and returns
// common.ErrLoginRequired.
func (m *Manager) CreateClient(ctx context.Context) (*client.AuthenticatedClient, error) {
	token, ok := m.accessToken(ctx)
	if !ok {
		m.state.set(false)
		m.notifier.LoginRequired(ctx)
		return nil, common.ErrLoginRequired
	}
	return client.NewAuthenticated(m.baseURL, token, m.timeout, m.hc), nil
}

// Refresh exchanges the stored refresh token for a new pair and returns the
// new access token. Concurrent callers share one refresh. On failure both
// tokens are deleted, SessionExpired is signalled and the returned error
// wraps common.ErrSessionExpired.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	ch := m.group.DoChan(refreshKey, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.refreshTimeout)
		defer cancel()
		return m.refresh(rctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	refreshToken, ok := m.store.Get(ctx, common.RefreshTokenKey)
	if !ok || refreshToken == "" {
		return "", m.expire(ctx, errNoRefreshToken)
	}

	pair, err := m.public.Refresh(ctx, refreshToken)
	if err != nil {
		return "", m.expire(ctx, err)
	}

	if err := m.store.SetPair(ctx, pair.Access, pair.Refresh); err != nil {
		return "", m.expire(ctx, err)
	}

	m.state.set(true)
	m.logTokenRefreshed(ctx, pair.Access)
	return pair.Access, nil
}

func (m *Manager) logTokenRefreshed(ctx context.Context, token string) {
	info, err := InspectToken(token)
	if err != nil {
		m.log.Info(ctx, "token pair refreshed")
		return
	}
	m.log.Info(ctx, "token pair refreshed", "expires_at", info.ExpiresAt)
}

// expire clears the session after an unrecoverable refresh failure.
func (m *Manager) expire(ctx context.Context, cause error) error {
	if err := m.store.DeletePair(ctx); err != nil {
		m.log.Error(ctx, "failed to delete token pair", "error", err)
	}
	m.state.set(false)
	m.log.Warn(ctx, "session expired", "cause", cause)
	m.notifier.SessionExpired(ctx)
	return fmt.Errorf("%w: %w", common.ErrSessionExpired, cause)
}

// Call runs op with a client for the current token. If op fails with HTTP
// 401 the token is refreshed and op runs once more with a new client; that
// second result is returned as is. If the refresh fails the original 401 is
// returned. Other errors are never retried.
func (m *Manager) Call(ctx context.Context, op Operation) error {
	c, err := m.CreateClient(ctx)
	if err != nil {
		return err
	}

	err = op(ctx, c)
	if err == nil || !client.IsStatus(err, http.StatusUnauthorized) {
		return err
	}

	token, rerr := m.tokenAfterUnauthorized(ctx, c.Token())
	if rerr != nil {
		m.log.Debug(ctx, "not retrying after 401", "error", rerr)
		return err
	}

	m.log.Debug(ctx, "retrying with refreshed token")
	return op(ctx, client.NewAuthenticated(m.baseURL, token, m.timeout, m.hc))
}

// tokenAfterUnauthorized returns a token to retry with. If another caller
// already rotated the pair since used was read, the stored token is reused
// instead of refreshing again.
func (m *Manager) tokenAfterUnauthorized(ctx context.Context, used string) (string, error) {
	if current, ok := m.accessToken(ctx); ok && current != used {
		return current, nil
	}
	return m.Refresh(ctx)
}

// Do is Call for operations that produce a value.
func Do[T any](ctx context.Context, c Caller, op func(ctx context.Context, c *client.AuthenticatedClient) (T, error)) (T, error) {
	var out T
	err := c.Call(ctx, func(ctx context.Context, ac *client.AuthenticatedClient) error {
		v, err := op(ctx, ac)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Login authenticates with username and password and stores the pair.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	pair, err := m.public.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return m.startSession(ctx, pair)
}

// Register creates an account and starts a session with its tokens.
func (m *Manager) Register(ctx context.Context, r api.RegisterRequest) error {
	pair, err := m.public.Register(ctx, r)
	if err != nil {
		return err
	}
	return m.startSession(ctx, pair)
}

func (m *Manager) startSession(ctx context.Context, pair *api.TokenPair) error {
	if err := m.store.SetPair(ctx, pair.Access, pair.Refresh); err != nil {
		if derr := m.store.DeletePair(ctx); derr != nil {
			m.log.Error(ctx, "failed to delete token pair", "error", derr)
		}
		m.state.set(false)
		return fmt.Errorf("persist session: %w", err)
	}
	m.state.set(true)
	m.log.Info(ctx, "session started")
	return nil
}

// Logout deletes both tokens. The AuthState is cleared even if the store
// reports an error.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.store.DeletePair(ctx)
	m.state.set(false)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	m.log.Info(ctx, "logged out")
	return nil
}

// Status inspects the stored access token.
func (m *Manager) Status(ctx context.Context) (*TokenInfo, error) {
	token, err := m.store.Lookup(ctx, common.AccessTokenKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrLoginRequired
		}
		return nil, err
	}
	return InspectToken(token)
}
