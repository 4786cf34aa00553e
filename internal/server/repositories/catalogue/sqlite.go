package catalogue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/dbx"
	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
)

const exerciseColumns = `id, name, slug, video_link, video_id, difficulty_level, additional_notes, category_id`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = ?`
	return scanExercise(r.db.QueryRowContext(ctx, query, id))
}

// FindByCategory returns the exercise of categoryID at the given difficulty.
func (r *SQLiteRepository) FindByCategory(ctx context.Context, categoryID int64, difficulty string) (*models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises
		WHERE category_id = ? AND difficulty_level = ?
		ORDER BY id LIMIT 1`
	return scanExercise(r.db.QueryRowContext(ctx, query, categoryID, difficulty))
}

func (r *SQLiteRepository) GetInjuryType(ctx context.Context, id int64) (*models.InjuryType, error) {
	it := &models.InjuryType{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, description FROM injury_types WHERE id = ?`, id).
		Scan(&it.ID, &it.Name, &it.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	treatments, err := r.treatments(ctx, id)
	if err != nil {
		return nil, err
	}
	it.Treatment = treatments[id]
	return it, nil
}

func (r *SQLiteRepository) ListInjuryTypes(ctx context.Context) ([]models.InjuryType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM injury_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.InjuryType
	for rows.Next() {
		var it models.InjuryType
		if err := rows.Scan(&it.ID, &it.Name, &it.Description); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	treatments, err := r.treatments(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Treatment = treatments[out[i].ID]
	}
	return out, nil
}

// treatments maps injury type ids to exercise ids. Zero selects every type.
func (r *SQLiteRepository) treatments(ctx context.Context, injuryTypeID int64) (map[int64][]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT injury_type_id, exercise_id FROM injury_treatments
		 WHERE ? = 0 OR injury_type_id = ?
		 ORDER BY injury_type_id, exercise_id`, injuryTypeID, injuryTypeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]int64)
	for rows.Next() {
		var typeID, exerciseID int64
		if err := rows.Scan(&typeID, &exerciseID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out[typeID] = append(out[typeID], exerciseID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func scanExercise(row *sql.Row) (*models.Exercise, error) {
	var e models.Exercise
	err := row.Scan(&e.ID, &e.Name, &e.Slug, &e.VideoLink, &e.VideoID, &e.DifficultyLevel, &e.AdditionalNotes, &e.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &e, nil
}
