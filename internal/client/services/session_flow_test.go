package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/credstore"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

// rotatingAPI issues a1/r1 on login, rotates to a2/r2 on refresh and only
// accepts a2 on /users/me/.
type rotatingAPI struct {
	refreshes atomic.Int32
	profiles  atomic.Int32
}

func (a *rotatingAPI) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "ann" || req.Password != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
			return
		}
		writeJSON(w, http.StatusOK, api.TokenPair{Access: "a1", Refresh: "r1"})
	})
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		a.refreshes.Add(1)
		var req api.RefreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Refresh != "r1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
			return
		}
		writeJSON(w, http.StatusOK, api.TokenPair{Access: "a2", Refresh: "r2"})
	})
	mux.HandleFunc("/users/me/", func(w http.ResponseWriter, r *http.Request) {
		a.profiles.Add(1)
		if r.Header.Get(common.AuthorizationHeaderName) != common.BearerPrefix+"a2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		writeJSON(w, http.StatusOK, api.Profile{Username: "ann"})
	})
	return mux
}

func newFlow(t *testing.T) (*rotatingAPI, *credstore.Memory, *session.Manager) {
	t.Helper()
	fake := &rotatingAPI{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	store := credstore.NewMemory()
	mgr := session.NewManager(store, session.Options{
		BaseURL:        srv.URL,
		RequestTimeout: time.Second,
		HTTPClient:     srv.Client(),
	})
	return fake, store, mgr
}

func TestFlow_LoginThenRecoverFromExpiredAccess(t *testing.T) {
	fake, store, mgr := newFlow(t)
	ctx := context.Background()

	password := []byte("pw")
	require.NoError(t, NewAuthService(mgr).Login(ctx, "ann", password))
	assert.Equal(t, []byte{0, 0}, password)
	assert.True(t, mgr.State().IsAuthenticated())

	p, err := NewProfileService(mgr).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann", p.Username)
	assert.Equal(t, int32(1), fake.refreshes.Load())
	assert.Equal(t, int32(2), fake.profiles.Load(), "one retry after refresh")

	access, _ := store.Get(ctx, common.AccessTokenKey)
	refresh, _ := store.Get(ctx, common.RefreshTokenKey)
	assert.Equal(t, "a2", access)
	assert.Equal(t, "r2", refresh)
}

func TestFlow_RefreshRejectedExpiresSession(t *testing.T) {
	fake, store, mgr := newFlow(t)
	ctx := context.Background()
	require.NoError(t, store.SetPair(ctx, "stale", "revoked"))
	require.True(t, mgr.Hydrate(ctx))

	_, err := NewProfileService(mgr).Get(ctx)
	require.Error(t, err)
	assert.Equal(t, AlertSessionExpired, UserMessage(err, MsgProfileLoadFailed))
	assert.Equal(t, int32(1), fake.refreshes.Load())
	assert.Equal(t, int32(1), fake.profiles.Load(), "no retry without a new token")
	assert.False(t, mgr.State().IsAuthenticated())

	_, ok := store.Get(ctx, common.AccessTokenKey)
	assert.False(t, ok)
}

func TestFlow_LoggedOutCallerNeedsLogin(t *testing.T) {
	fake, _, mgr := newFlow(t)

	_, err := NewDashboardService(mgr).Load(context.Background())
	require.ErrorIs(t, err, common.ErrLoginRequired)
	assert.Equal(t, AlertLoginRequired, UserMessage(err, MsgDashboardFailed))
	assert.Zero(t, fake.profiles.Load())
}

func TestFlow_LoginWrongPassword(t *testing.T) {
	_, store, mgr := newFlow(t)
	ctx := context.Background()

	err := NewAuthService(mgr).Login(ctx, "ann", []byte("nope"))
	require.Error(t, err)
	assert.False(t, mgr.State().IsAuthenticated())
	_, ok := store.Get(ctx, common.AccessTokenKey)
	assert.False(t, ok)
}
