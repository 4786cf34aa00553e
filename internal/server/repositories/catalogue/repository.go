// Package catalogue reads the seeded exercise catalogue and injury types.
package catalogue

import (
	"context"

	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
)

type Repository interface {
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
	FindByCategory(ctx context.Context, categoryID int64, difficulty string) (*models.Exercise, error)
	GetInjuryType(ctx context.Context, id int64) (*models.InjuryType, error)
	ListInjuryTypes(ctx context.Context) ([]models.InjuryType, error)
}
