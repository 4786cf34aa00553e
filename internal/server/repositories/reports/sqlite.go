package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/dbx"
	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// EnsureDaily returns the id of the user's report for date, creating it on
// first use. There is at most one report per user and day.
func (r *SQLiteRepository) EnsureDaily(ctx context.Context, userID int64, date string) (int64, error) {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (user_id, date) VALUES (?, ?) ON CONFLICT(user_id, date) DO NOTHING`,
		userID, date); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM reports WHERE user_id = ? AND date = ?`, userID, date).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) AddExercise(ctx context.Context, re *models.ReportExercise) error {
	if re.CreatedAt.IsZero() {
		re.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO report_exercises (report_id, user_exercise_id, sets, reps, pain_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, re.ReportID, re.UserExerciseID, re.Sets, re.Reps, re.PainLevel, re.CreatedAt.UnixMilli()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// RecentPain returns up to limit pain levels reported for the assignment,
// newest first.
func (r *SQLiteRepository) RecentPain(ctx context.Context, userExerciseID int64, limit int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT pain_level FROM report_exercises WHERE user_exercise_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userExerciseID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// List returns the user's reports dated within [from, to], newest first,
// each with its exercises in completion order. Empty bounds are open.
func (r *SQLiteRepository) List(ctx context.Context, userID int64, from, to string) ([]models.DailyReport, error) {
	query := `
		SELECT r.id, r.date, re.user_exercise_id, e.name, re.sets, re.reps, re.pain_level, re.created_at
		FROM reports r
		JOIN report_exercises re ON re.report_id = r.id
		JOIN user_exercises ue ON ue.id = re.user_exercise_id
		JOIN exercises e ON e.id = ue.exercise_id
		WHERE r.user_id = ? AND (? = '' OR r.date >= ?) AND (? = '' OR r.date <= ?)
		ORDER BY r.date DESC, re.created_at, re.id`

	rows, err := r.db.QueryContext(ctx, query, userID, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.DailyReport{}
	for rows.Next() {
		var (
			id      int64
			date    string
			re      models.ReportExercise
			created int64
		)
		if err := rows.Scan(&id, &date, &re.UserExerciseID, &re.Name, &re.Sets, &re.Reps, &re.PainLevel, &created); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		re.ReportID = id
		re.CreatedAt = time.UnixMilli(created).UTC()

		if n := len(out); n == 0 || out[n-1].ID != id {
			out = append(out, models.DailyReport{ID: id, Date: date})
		}
		last := &out[len(out)-1]
		last.Exercises = append(last.Exercises, re)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
