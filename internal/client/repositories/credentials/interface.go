package credentials

import (
	"context"

	"github.com/dmitrijs2005/physiokeeper/internal/client/models"
)

type Repository interface {
	// Get returns common.ErrNotFound when name is absent.
	Get(ctx context.Context, name string) (*models.Credential, error)
	Put(ctx context.Context, c *models.Credential) error
	Delete(ctx context.Context, name string) error
	PutAll(ctx context.Context, cs ...*models.Credential) error
	DeleteAll(ctx context.Context, names ...string) error
}
