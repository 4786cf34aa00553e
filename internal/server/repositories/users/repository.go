// Package users provides the SQLite-backed user repository of the
// development server.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, hash []byte) error
	SetLastReset(ctx context.Context, id int64, at time.Time) error
}
