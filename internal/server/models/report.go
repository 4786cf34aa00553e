package models

import "time"

// ReportExercise records one completed exercise inside a daily report.
type ReportExercise struct {
	ReportID       int64
	UserExerciseID int64
	Name           string
	Sets           int
	Reps           int
	PainLevel      int
	CreatedAt      time.Time
}

// DailyReport aggregates a user's completions for one date (YYYY-MM-DD).
type DailyReport struct {
	ID        int64
	Date      string
	Exercises []ReportExercise
}
