package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/credstore"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/logging"
)

type recordingNotifier struct {
	loginRequired  atomic.Int32
	sessionExpired atomic.Int32
}

func (n *recordingNotifier) LoginRequired(context.Context)  { n.loginRequired.Add(1) }
func (n *recordingNotifier) SessionExpired(context.Context) { n.sessionExpired.Add(1) }

// fakeAPI serves the token refresh endpoint and a protected /users/me/.
type fakeAPI struct {
	srv *httptest.Server

	mu            sync.Mutex
	refreshStatus int
	refreshPair   api.TokenPair
	refreshDelay  time.Duration
	gate          chan struct{}
	validToken    string
	refreshBodies []string

	refreshCalls atomic.Int32
	meCalls      atomic.Int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		refreshStatus: http.StatusOK,
		refreshPair:   api.TokenPair{Access: "a2", Refresh: "r2"},
		validToken:    "a2",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh/", f.handleRefresh)
	mux.HandleFunc("/users/me/", f.handleMe)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	f.refreshCalls.Add(1)
	var req api.RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.refreshBodies = append(f.refreshBodies, req.Refresh)
	status, pair, delay, gate := f.refreshStatus, f.refreshPair, f.refreshDelay, f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status == http.StatusOK {
		_ = json.NewEncoder(w).Encode(pair)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Token is invalid or expired"})
}

func (f *fakeAPI) handleMe(w http.ResponseWriter, r *http.Request) {
	f.meCalls.Add(1)
	f.mu.Lock()
	valid := f.validToken
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.Header.Get(common.AuthorizationHeaderName) != common.BearerPrefix+valid {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Given token not valid for any token type"})
		return
	}
	_ = json.NewEncoder(w).Encode(api.Profile{Username: "ann"})
}

// failingStore wraps a Memory store with injectable pair failures.
type failingStore struct {
	*credstore.Memory
	getBroken       bool
	setPairErr      error
	deletePairErr   error
	setPairCalls    atomic.Int32
	deletePairCalls atomic.Int32
}

func newFailingStore() *failingStore {
	return &failingStore{Memory: credstore.NewMemory()}
}

func (s *failingStore) Get(ctx context.Context, name string) (string, bool) {
	if s.getBroken {
		return "", false
	}
	return s.Memory.Get(ctx, name)
}

func (s *failingStore) SetPair(ctx context.Context, access, refresh string) error {
	s.setPairCalls.Add(1)
	if s.setPairErr != nil {
		return s.setPairErr
	}
	return s.Memory.SetPair(ctx, access, refresh)
}

func (s *failingStore) DeletePair(ctx context.Context) error {
	s.deletePairCalls.Add(1)
	if s.deletePairErr != nil {
		return s.deletePairErr
	}
	return s.Memory.DeletePair(ctx)
}

func newTestManager(t *testing.T, store credstore.Store, baseURL string) (*Manager, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	m := NewManager(store, Options{
		BaseURL:        baseURL,
		RequestTimeout: 2 * time.Second,
		RefreshTimeout: 2 * time.Second,
		Notifier:       n,
		Logger:         logging.Discard(),
	})
	return m, n
}

// seedPair stores a pair before the test starts. A failingStore is seeded
// underneath its counters and injected errors.
func seedPair(t *testing.T, s credstore.Store, access, refresh string) {
	t.Helper()
	if fs, ok := s.(*failingStore); ok {
		s = fs.Memory
	}
	require.NoError(t, s.SetPair(context.Background(), access, refresh))
}

func requireNoTokens(t *testing.T, s credstore.Store) {
	t.Helper()
	ctx := context.Background()
	_, okA := s.Get(ctx, common.AccessTokenKey)
	_, okR := s.Get(ctx, common.RefreshTokenKey)
	require.False(t, okA, "access token must be gone")
	require.False(t, okR, "refresh token must be gone")
}

func requireTokens(t *testing.T, s credstore.Store, access, refresh string) {
	t.Helper()
	ctx := context.Background()
	a, okA := s.Get(ctx, common.AccessTokenKey)
	r, okR := s.Get(ctx, common.RefreshTokenKey)
	require.True(t, okA)
	require.True(t, okR)
	require.Equal(t, access, a)
	require.Equal(t, refresh, r)
}

// opRecorder is an Operation that fails with the queued errors in order
// and records the token of every client it was given.
type opRecorder struct {
	mu     sync.Mutex
	errs   []error
	tokens []string
}

func (o *opRecorder) op(_ context.Context, c *client.AuthenticatedClient) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tokens = append(o.tokens, c.Token())
	if len(o.errs) == 0 {
		return nil
	}
	err := o.errs[0]
	o.errs = o.errs[1:]
	return err
}

func (o *opRecorder) calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.tokens)
}

func unauthorized() error {
	return &client.HTTPError{StatusCode: http.StatusUnauthorized, Message: "token expired"}
}

func signedToken(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"user_id": userID, "exp": exp.Unix()}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}
