package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
)

// maxTurns bounds the remembered conversation per user.
const maxTurns = 20

// ChatService is a rule-based stand-in for the assistant. It keeps a short
// per-user conversation in memory and answers from the exercise context the
// client sends along.
type ChatService struct {
	mu      sync.Mutex
	history map[int64][]string
}

func NewChatService() *ChatService {
	return &ChatService{history: make(map[int64][]string)}
}

// Reply answers message for userID. exerciseContext is the JSON-encoded
// api.ExerciseContext; an undecodable context is treated as empty.
func (s *ChatService) Reply(userID int64, message, exerciseContext string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", &ValidationError{Fields: map[string][]string{"message": {msgRequired}}}
	}

	var ec api.ExerciseContext
	if exerciseContext != "" {
		_ = json.Unmarshal([]byte(exerciseContext), &ec)
	}

	s.mu.Lock()
	turns := append(s.history[userID], message)
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	s.history[userID] = turns
	first := len(turns) == 1
	s.mu.Unlock()

	return compose(message, ec, first), nil
}

// Reset forgets the user's conversation.
func (s *ChatService) Reset(userID int64) {
	s.mu.Lock()
	delete(s.history, userID)
	s.mu.Unlock()
}

// Turns reports how many messages are remembered for userID.
func (s *ChatService) Turns(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history[userID])
}

func compose(message string, ec api.ExerciseContext, first bool) string {
	var b strings.Builder
	if first {
		b.WriteString("Thanks for checking in. ")
	}

	lower := strings.ToLower(message)
	switch {
	case ec.RecentPain >= painRemove:
		fmt.Fprintf(&b, "Your recent pain level is %d/10. Please stop any exercise that makes it worse and contact your physiotherapist before continuing.", ec.RecentPain)
	case strings.Contains(lower, "pain") || strings.Contains(lower, "hurt"):
		b.WriteString("Some discomfort is normal, but sharp pain is not. Reduce the range of motion or the number of reps, and report your pain level after each session.")
	case len(ec.Exercises) == 0:
		b.WriteString("You have no active exercises yet. Your physiotherapist can add some to your plan.")
	default:
		done := 0
		for _, e := range ec.Exercises {
			if e.Completed {
				done++
			}
		}
		fmt.Fprintf(&b, "You have completed %d of %d exercises today. ", done, len(ec.Exercises))
		if done < len(ec.Exercises) {
			b.WriteString("Take your time with the rest and focus on slow, controlled movements.")
		} else {
			b.WriteString("Great work, remember to rest and stay hydrated.")
		}
	}
	return b.String()
}
