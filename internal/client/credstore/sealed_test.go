package credstore

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/physiokeeper/internal/client/models"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/cryptox"
	"github.com/dmitrijs2005/physiokeeper/internal/logging"
)

func openTemp(t *testing.T, dir string) *Sealed {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(dir, "pk.db"), filepath.Join(dir, "pk.key"), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSealed_SetGetDelete(t *testing.T) {
	s := openTemp(t, t.TempDir())
	ctx := context.Background()

	_, ok := s.Get(ctx, common.AccessTokenKey)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, common.AccessTokenKey, "a1"))
	v, ok := s.Get(ctx, common.AccessTokenKey)
	require.True(t, ok)
	assert.Equal(t, "a1", v)

	require.NoError(t, s.Delete(ctx, common.AccessTokenKey))
	_, err := s.Lookup(ctx, common.AccessTokenKey)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSealed_PairSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := openTemp(t, dir)
	require.NoError(t, s.SetPair(ctx, "a2", "r2"))
	require.NoError(t, s.Close())

	s2 := openTemp(t, dir)
	a, ok := s2.Get(ctx, common.AccessTokenKey)
	require.True(t, ok)
	r, ok := s2.Get(ctx, common.RefreshTokenKey)
	require.True(t, ok)
	assert.Equal(t, "a2", a)
	assert.Equal(t, "r2", r)

	require.NoError(t, s2.DeletePair(ctx))
	_, ok = s2.Get(ctx, common.AccessTokenKey)
	assert.False(t, ok)
	_, ok = s2.Get(ctx, common.RefreshTokenKey)
	assert.False(t, ok)
}

func TestSealed_CiphertextAtRest(t *testing.T) {
	s := openTemp(t, t.TempDir())
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, common.AccessTokenKey, "plain-token"))

	var raw []byte
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE name = ?`, common.AccessTokenKey).Scan(&raw))
	assert.False(t, bytes.Contains(raw, []byte("plain-token")))
}

func TestSealed_WrongKeyReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := openTemp(t, dir)
	require.NoError(t, s.Set(ctx, common.AccessTokenKey, "a1"))

	var buf bytes.Buffer
	other, err := NewSealed(s.repo, cryptox.DeriveKey([]byte("another device"), []byte(keySalt)), logging.New(&buf, slog.LevelWarn))
	require.NoError(t, err)

	_, err = other.Lookup(ctx, common.AccessTokenKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)

	_, ok := other.Get(ctx, common.AccessTokenKey)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "credential read failed")
}

func TestNewSealed_InvalidKey(t *testing.T) {
	_, err := NewSealed(&fakeRepo{}, []byte("short"), logging.Discard())
	require.ErrorIs(t, err, cryptox.ErrInvalidKey)
}

type fakeRepo struct {
	putAllErr    error
	deleteAllErr error
	putAllCalls  int
	deletedNames []string
}

func (f *fakeRepo) Get(context.Context, string) (*models.Credential, error) {
	return nil, common.ErrNotFound
}
func (f *fakeRepo) Put(context.Context, *models.Credential) error { return nil }
func (f *fakeRepo) Delete(context.Context, string) error          { return nil }
func (f *fakeRepo) PutAll(_ context.Context, cs ...*models.Credential) error {
	f.putAllCalls++
	return f.putAllErr
}
func (f *fakeRepo) DeleteAll(_ context.Context, names ...string) error {
	f.deletedNames = append(f.deletedNames, names...)
	return f.deleteAllErr
}

func TestSealed_PairErrorsSurface(t *testing.T) {
	boom := errors.New("disk full")
	repo := &fakeRepo{putAllErr: boom, deleteAllErr: boom}
	s, err := NewSealed(repo, make([]byte, cryptox.KeySize), logging.Discard())
	require.NoError(t, err)
	ctx := context.Background()

	err = s.SetPair(ctx, "a", "r")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, repo.putAllCalls)

	err = s.DeletePair(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{common.AccessTokenKey, common.RefreshTokenKey}, repo.deletedNames)
}

func TestOpen_EmptySecretFileFails(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "pk.key")
	require.NoError(t, writeEmpty(keyPath))

	_, err := Open(context.Background(), filepath.Join(dir, "pk.db"), keyPath, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device secret")
}
