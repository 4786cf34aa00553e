package models

// Difficulty levels, easiest first.
const (
	Beginner     = "Beginner"
	Intermediate = "Intermediate"
	Advanced     = "Advanced"
)

// Exercise is a catalogue entry.
type Exercise struct {
	ID              int64
	Name            string
	Slug            string
	VideoLink       string
	VideoID         string
	DifficultyLevel string
	AdditionalNotes string
	CategoryID      int64
}

// UserExercise assigns a catalogue exercise to a user.
type UserExercise struct {
	ID         int64
	UserID     int64
	ExerciseID int64
	Sets       int
	Reps       int
	Hold       int
	PainLevel  int
	Completed  bool
	IsActive   bool
}

// AssignedExercise joins an assignment with its catalogue entry.
type AssignedExercise struct {
	UserExercise
	Exercise Exercise
}
