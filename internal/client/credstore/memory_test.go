package credstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

var _ Store = (*Memory)(nil)
var _ Store = (*Sealed)(nil)

func TestMemory_Basics(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Lookup(ctx, "x")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, m.Set(ctx, "x", "1"))
	v, ok := m.Get(ctx, "x")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, m.Delete(ctx, "x"))
	_, ok = m.Get(ctx, "x")
	assert.False(t, ok)
}

func TestMemory_Pair(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SetPair(ctx, "a", "r"))
	a, _ := m.Get(ctx, common.AccessTokenKey)
	r, _ := m.Get(ctx, common.RefreshTokenKey)
	assert.Equal(t, "a", a)
	assert.Equal(t, "r", r)

	require.NoError(t, m.DeletePair(ctx))
	_, okA := m.Get(ctx, common.AccessTokenKey)
	_, okR := m.Get(ctx, common.RefreshTokenKey)
	assert.False(t, okA)
	assert.False(t, okR)
}

func TestMemory_ConcurrentPairsStayConsistent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.SetPair(ctx, "a", "r")
		}()
		go func() {
			defer wg.Done()
			_ = m.DeletePair(ctx)
		}()
	}
	wg.Wait()

	_, okA := m.Get(ctx, common.AccessTokenKey)
	_, okR := m.Get(ctx, common.RefreshTokenKey)
	assert.Equal(t, okA, okR)
}
