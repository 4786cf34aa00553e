package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/client/models"
	"github.com/dmitrijs2005/physiokeeper/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/cryptox"
	"github.com/dmitrijs2005/physiokeeper/internal/filex"
	"github.com/dmitrijs2005/physiokeeper/internal/logging"
)

const (
	deviceSecretSize = 32
	keySalt          = "physiokeeper/credentials"
)

// Sealed stores credentials encrypted with a key derived from a per-device
// secret file.
type Sealed struct {
	repo credentials.Repository
	key  []byte
	log  logging.Logger
	now  func() time.Time
	db   *sql.DB
}

// NewSealed wraps repo. key must be cryptox.KeySize bytes long.
func NewSealed(repo credentials.Repository, key []byte, log logging.Logger) (*Sealed, error) {
	if len(key) != cryptox.KeySize {
		return nil, cryptox.ErrInvalidKey
	}
	return &Sealed{
		repo: repo,
		key:  key,
		log:  log.With("module", "credstore"),
		now:  time.Now,
	}, nil
}

// Open builds a Sealed store backed by the database at storePath. The
// device secret at keyPath is created on first use.
func Open(ctx context.Context, storePath, keyPath string, log logging.Logger) (*Sealed, error) {
	if err := filex.EnsureParentDir(storePath); err != nil {
		return nil, err
	}

	secret, err := filex.LoadOrCreateSecret(keyPath, func() []byte {
		return common.GenerateRandByteArray(deviceSecretSize)
	})
	if err != nil {
		return nil, fmt.Errorf("device secret: %w", err)
	}
	key := cryptox.DeriveKey(secret, []byte(keySalt))
	common.WipeByteArray(secret)

	db, err := OpenDatabase(ctx, storePath)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	s, err := NewSealed(credentials.NewSQLiteRepository(db), key, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.db = db
	return s, nil
}

// Close releases the underlying database, if Open created one.
func (s *Sealed) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Sealed) Get(ctx context.Context, name string) (string, bool) {
	v, err := s.Lookup(ctx, name)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "credential read failed, treating as absent", "name", name, "error", err)
		}
		return "", false
	}
	return v, true
}

func (s *Sealed) Lookup(ctx context.Context, name string) (string, error) {
	c, err := s.repo.Get(ctx, name)
	if err != nil {
		return "", err
	}
	plain, err := cryptox.Open(c.Value, c.Nonce, s.key)
	if err != nil {
		return "", fmt.Errorf("open credential %s: %w", name, err)
	}
	return string(plain), nil
}

func (s *Sealed) Set(ctx context.Context, name, value string) error {
	c, err := s.seal(name, value)
	if err != nil {
		return err
	}
	return s.repo.Put(ctx, c)
}

func (s *Sealed) Delete(ctx context.Context, name string) error {
	return s.repo.Delete(ctx, name)
}

func (s *Sealed) SetPair(ctx context.Context, access, refresh string) error {
	a, err := s.seal(common.AccessTokenKey, access)
	if err != nil {
		return err
	}
	r, err := s.seal(common.RefreshTokenKey, refresh)
	if err != nil {
		return err
	}
	if err := s.repo.PutAll(ctx, a, r); err != nil {
		return fmt.Errorf("write token pair: %w", err)
	}
	return nil
}

func (s *Sealed) DeletePair(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx, common.AccessTokenKey, common.RefreshTokenKey); err != nil {
		return fmt.Errorf("delete token pair: %w", err)
	}
	return nil
}

func (s *Sealed) seal(name, value string) (*models.Credential, error) {
	ct, nonce, err := cryptox.Seal([]byte(value), s.key)
	if err != nil {
		return nil, fmt.Errorf("seal credential %s: %w", name, err)
	}
	return &models.Credential{Name: name, Value: ct, Nonce: nonce, UpdatedAt: s.now().UTC()}, nil
}
