package httpapi

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/credstore"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

func me(ctx context.Context, c *client.AuthenticatedClient) (*api.Profile, error) {
	return c.Me(ctx)
}

// The client session recovers from a rejected access token by rotating the
// refresh token against the real API.
func TestSession_RefreshesAgainstServer(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	store := credstore.NewMemory()
	m := session.NewManager(store, session.Options{BaseURL: ts.URL, HTTPClient: ts.Client()})

	require.NoError(t, m.Register(ctx, registration("ann")))
	require.True(t, m.State().IsAuthenticated())

	p, err := session.Do(ctx, m, me)
	require.NoError(t, err)
	assert.Equal(t, "ann", p.Username)

	firstRefresh, _ := store.Get(ctx, common.RefreshTokenKey)
	require.NoError(t, store.Set(ctx, common.AccessTokenKey, "stale"))

	p, err = session.Do(ctx, m, me)
	require.NoError(t, err)
	assert.Equal(t, "ann", p.Username)

	access, _ := store.Get(ctx, common.AccessTokenKey)
	refresh, _ := store.Get(ctx, common.RefreshTokenKey)
	assert.NotEqual(t, "stale", access)
	assert.NotEqual(t, firstRefresh, refresh)

	// concurrent 401s share one rotation
	require.NoError(t, store.Set(ctx, common.AccessTokenKey, "stale"))
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = session.Do(ctx, m, me)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.True(t, m.State().IsAuthenticated())
}

func TestSession_ExpiresWhenRefreshRejected(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	store := credstore.NewMemory()
	m := session.NewManager(store, session.Options{BaseURL: ts.URL, HTTPClient: ts.Client()})

	err := m.Login(ctx, "nobody", "whatever-1")
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
	assert.False(t, m.State().IsAuthenticated())

	require.NoError(t, m.Register(ctx, registration("ann")))
	require.NoError(t, store.SetPair(ctx, "stale", "revoked"))

	_, err = session.Do(ctx, m, me)
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
	assert.False(t, m.State().IsAuthenticated())

	_, ok := store.Get(ctx, common.AccessTokenKey)
	assert.False(t, ok)

	_, err = session.Do(ctx, m, me)
	assert.ErrorIs(t, err, common.ErrLoginRequired)
}
