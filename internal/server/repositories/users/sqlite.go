package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/dbx"
	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, date_of_birth,
		       COALESCE(injury_type_id, 0), last_reset, created_at`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, email, password_hash, first_name, last_name, date_of_birth, injury_type_id, last_reset, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.DateOfBirth, nullableID(user.InjuryTypeID), unixMilli(user.LastReset), user.CreatedAt.UnixMilli()).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLiteRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return scanOne(r.db.QueryRowContext(ctx, query, userName))
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET email = ?, first_name = ?, last_name = ?, date_of_birth = ?, injury_type_id = ?
		 WHERE id = ?`

	return r.exec(ctx, query, user.Email, user.FirstName, user.LastName, user.DateOfBirth,
		nullableID(user.InjuryTypeID), user.ID)
}

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, id int64, hash []byte) error {
	return r.exec(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
}

func (r *SQLiteRepository) SetLastReset(ctx context.Context, id int64, at time.Time) error {
	return r.exec(ctx, `UPDATE users SET last_reset = ? WHERE id = ?`, at.UnixMilli(), id)
}

func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanOne(row *sql.Row) (*models.User, error) {
	var (
		user             models.User
		lastReset, added int64
	)
	err := row.Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.FirstName,
		&user.LastName, &user.DateOfBirth, &user.InjuryTypeID, &lastReset, &added)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if lastReset > 0 {
		user.LastReset = time.UnixMilli(lastReset).UTC()
	}
	user.CreatedAt = time.UnixMilli(added).UTC()
	return &user, nil
}

// unixMilli stores the zero time as 0.
func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
