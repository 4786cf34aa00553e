// Package userexercises stores the exercises assigned to each user.
package userexercises

import (
	"context"

	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, ue *models.UserExercise) (*models.UserExercise, error)
	Get(ctx context.Context, userID, id int64) (*models.AssignedExercise, error)
	FindByExercise(ctx context.Context, userID, exerciseID int64) (*models.UserExercise, error)
	List(ctx context.Context, userID int64, active bool) ([]models.AssignedExercise, error)
	Update(ctx context.Context, ue *models.UserExercise) error
	CountActiveInCategory(ctx context.Context, userID, categoryID, excludeID int64) (int, error)
	ResetDaily(ctx context.Context, userID int64) error
}
