package userexercises

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/dbx"
	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
)

const assignedSelect = `
	SELECT ue.id, ue.user_id, ue.exercise_id, ue.sets, ue.reps, ue.hold, ue.pain_level, ue.completed, ue.is_active,
	       e.id, e.name, e.slug, e.video_link, e.video_id, e.difficulty_level, e.additional_notes, e.category_id
	FROM user_exercises ue
	JOIN exercises e ON e.id = ue.exercise_id`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, ue *models.UserExercise) (*models.UserExercise, error) {
	query := `
		INSERT INTO user_exercises (user_id, exercise_id, sets, reps, hold, pain_level, completed, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, ue.UserID, ue.ExerciseID, ue.Sets, ue.Reps, ue.Hold,
		ue.PainLevel, ue.Completed, ue.IsActive).Scan(&ue.ID)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ue, nil
}

// Get returns assignment id if it belongs to userID.
func (r *SQLiteRepository) Get(ctx context.Context, userID, id int64) (*models.AssignedExercise, error) {
	row := r.db.QueryRowContext(ctx, assignedSelect+` WHERE ue.user_id = ? AND ue.id = ?`, userID, id)

	a, err := scanAssigned(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) FindByExercise(ctx context.Context, userID, exerciseID int64) (*models.UserExercise, error) {
	row := r.db.QueryRowContext(ctx, assignedSelect+` WHERE ue.user_id = ? AND ue.exercise_id = ?`, userID, exerciseID)

	a, err := scanAssigned(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &a.UserExercise, nil
}

// List returns the user's active or inactive assignments in creation order.
func (r *SQLiteRepository) List(ctx context.Context, userID int64, active bool) ([]models.AssignedExercise, error) {
	rows, err := r.db.QueryContext(ctx, assignedSelect+` WHERE ue.user_id = ? AND ue.is_active = ? ORDER BY ue.id`, userID, active)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.AssignedExercise{}
	for rows.Next() {
		a, err := scanAssigned(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, ue *models.UserExercise) error {
	query := `
		UPDATE user_exercises
		SET sets = ?, reps = ?, hold = ?, pain_level = ?, completed = ?, is_active = ?
		WHERE id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query, ue.Sets, ue.Reps, ue.Hold, ue.PainLevel, ue.Completed, ue.IsActive, ue.ID, ue.UserID)
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

// CountActiveInCategory counts the user's active assignments whose exercise
// is in categoryID, ignoring assignment excludeID.
func (r *SQLiteRepository) CountActiveInCategory(ctx context.Context, userID, categoryID, excludeID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM user_exercises ue
		JOIN exercises e ON e.id = ue.exercise_id
		WHERE ue.user_id = ? AND ue.is_active = 1 AND e.category_id = ? AND ue.id <> ?`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID, categoryID, excludeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// ResetDaily clears completion and pain on the user's active assignments.
func (r *SQLiteRepository) ResetDaily(ctx context.Context, userID int64) error {
	query := `UPDATE user_exercises SET completed = 0, pain_level = 0 WHERE user_id = ? AND is_active = 1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAssigned(s scanner) (*models.AssignedExercise, error) {
	var a models.AssignedExercise
	err := s.Scan(&a.ID, &a.UserID, &a.ExerciseID, &a.Sets, &a.Reps, &a.Hold, &a.PainLevel, &a.Completed, &a.IsActive,
		&a.Exercise.ID, &a.Exercise.Name, &a.Exercise.Slug, &a.Exercise.VideoLink, &a.Exercise.VideoID,
		&a.Exercise.DifficultyLevel, &a.Exercise.AdditionalNotes, &a.Exercise.CategoryID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
