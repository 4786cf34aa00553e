// Package reports stores daily exercise reports.
package reports

import (
	"context"

	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
)

type Repository interface {
	EnsureDaily(ctx context.Context, userID int64, date string) (int64, error)
	AddExercise(ctx context.Context, re *models.ReportExercise) error
	RecentPain(ctx context.Context, userExerciseID int64, limit int) ([]int, error)
	List(ctx context.Context, userID int64, from, to string) ([]models.DailyReport, error)
}
