package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/client/models"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/dbx"
)

const (
	selectQuery = `SELECT name, value, nonce, updated_at FROM credentials WHERE name = ?`
	upsertQuery = `
		INSERT INTO credentials (name, value, nonce, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			nonce = excluded.nonce,
			updated_at = excluded.updated_at`
	deleteQuery = `DELETE FROM credentials WHERE name = ?`
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, name string) (*models.Credential, error) {
	var (
		c       models.Credential
		updated int64
	)
	err := r.db.QueryRowContext(ctx, selectQuery, name).Scan(&c.Name, &c.Value, &c.Nonce, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential[%s]: %w", name, err)
	}
	c.UpdatedAt = time.UnixMilli(updated).UTC()
	return &c, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, c *models.Credential) error {
	return put(ctx, r.db, c)
}

func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	return del(ctx, r.db, name)
}

// PutAll upserts every credential in one transaction.
func (r *SQLiteRepository) PutAll(ctx context.Context, cs ...*models.Credential) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, c := range cs {
			if err := put(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteAll removes every named credential in one transaction. Missing names
// are not an error.
func (r *SQLiteRepository) DeleteAll(ctx context.Context, names ...string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, name := range names {
			if err := del(ctx, tx, name); err != nil {
				return err
			}
		}
		return nil
	})
}

func put(ctx context.Context, db dbx.DBTX, c *models.Credential) error {
	updated := c.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	if _, err := db.ExecContext(ctx, upsertQuery, c.Name, c.Value, c.Nonce, updated.UnixMilli()); err != nil {
		return fmt.Errorf("failed to put credential[%s]: %w", c.Name, err)
	}
	return nil
}

func del(ctx context.Context, db dbx.DBTX, name string) error {
	if _, err := db.ExecContext(ctx, deleteQuery, name); err != nil {
		return fmt.Errorf("failed to delete credential[%s]: %w", name, err)
	}
	return nil
}
