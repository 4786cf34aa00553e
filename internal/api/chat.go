package api

// ChatRequest is the body of POST /api/chatbot/. ExerciseContext holds a
// JSON-encoded ExerciseContext.
type ChatRequest struct {
	Message         string `json:"message"`
	ExerciseContext string `json:"exerciseContext"`
}

// ChatResponse is the assistant reply.
type ChatResponse struct {
	Message string `json:"message"`
}

// ExerciseContext gives the assistant the user's current plan.
type ExerciseContext struct {
	Exercises  []UserExercise `json:"exercises"`
	RecentPain int            `json:"recentPain"`
}
