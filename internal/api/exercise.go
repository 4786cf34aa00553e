package api

// Exercise is a catalogue exercise, GET /exercises/{id}/.
type Exercise struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	VideoLink       string `json:"video_link"`
	VideoID         string `json:"video_id"`
	DifficultyLevel string `json:"difficulty_level"`
	AdditionalNotes string `json:"additional_notes"`
	Category        int64  `json:"category"`
}

// UserExercise is an exercise assigned to the current user.
type UserExercise struct {
	ID        int64 `json:"id"`
	User      int64 `json:"user"`
	Exercise  int64 `json:"exercise"`
	Sets      int   `json:"sets"`
	Reps      int   `json:"reps"`
	Hold      int   `json:"hold"`
	PainLevel int   `json:"pain_level"`
	Completed bool  `json:"completed"`
	IsActive  bool  `json:"is_active"`
}

// DashboardExercise is an entry of the active and inactive exercise lists.
type DashboardExercise struct {
	ID             int64  `json:"id"`
	UserExerciseID int64  `json:"user_exercise_id"`
	Name           string `json:"name"`
	Sets           int    `json:"sets"`
	Reps           int    `json:"reps"`
	Completed      bool   `json:"completed"`
}

// CompletionUpdate is the body of PUT /user-exercises/{id}/.
type CompletionUpdate struct {
	Reps      int  `json:"reps"`
	Sets      int  `json:"sets"`
	PainLevel int  `json:"pain_level"`
	Completed bool `json:"completed"`
}

// CompletionResult tells the client which follow-up to offer.
type CompletionResult struct {
	ShouldDecrease bool `json:"should_decrease"`
	ShouldIncrease bool `json:"should_increase"`
	ShouldRemove   bool `json:"should_remove"`
}

// Confirm is the body of the confirm_increase, confirm_decrease and
// confirm_removal actions: "yes" or "no".
type Confirm struct {
	Confirm string `json:"confirm"`
}

// ConfirmValue maps a decision onto the wire value.
func ConfirmValue(yes bool) Confirm {
	if yes {
		return Confirm{Confirm: "yes"}
	}
	return Confirm{Confirm: "no"}
}

// Reactivate is the body of PUT /user-exercises/{id}/reactivate_exercise/.
type Reactivate struct {
	ExerciseID int64 `json:"exercise_id"`
}
