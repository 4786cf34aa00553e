package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
	"github.com/dmitrijs2005/physiokeeper/internal/server/services"
)

func (s *Server) handleInjuryTypes(w http.ResponseWriter, r *http.Request) {
	list, err := s.exercises.InjuryTypes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]api.InjuryType, 0, len(list))
	for _, it := range list {
		treatment := it.Treatment
		if treatment == nil {
			treatment = []int64{}
		}
		out = append(out, api.InjuryType{ID: it.ID, Name: it.Name, Description: it.Description, Treatment: treatment})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExercise(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.exercises.Exercise(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExercise(e))
}

func (s *Server) handleUserExercises(w http.ResponseWriter, r *http.Request) {
	list, err := s.exercises.All(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]api.UserExercise, 0, len(list))
	for _, a := range list {
		out = append(out, toUserExercise(a.UserExercise))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUserExercise(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.exercises.Get(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserExercise(a.UserExercise))
}

// handleComplete saves a session report and answers with the suggested
// follow-up.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req api.CompletionUpdate
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.exercises.Complete(r.Context(), userIDFrom(r.Context()), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type confirmFunc func(ctx context.Context, userID, id int64, yes bool) error

func (s *Server) handleConfirm(fn confirmFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var req api.Confirm
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		var yes bool
		switch req.Confirm {
		case "yes":
			yes = true
		case "no":
		default:
			s.writeError(w, r, &services.ValidationError{Fields: map[string][]string{"confirm": {`Expected "yes" or "no".`}}})
			return
		}

		if err := fn(r.Context(), userIDFrom(r.Context()), id, yes); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageBody{Message: "OK"})
	}
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.exercises.Remove(r.Context(), userIDFrom(r.Context()), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Exercise removed"})
}

func (s *Server) handleReactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req api.Reactivate
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.exercises.Reactivate(r.Context(), userIDFrom(r.Context()), id, req.ExerciseID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Exercise reactivated"})
}

func toExercise(e *models.Exercise) api.Exercise {
	return api.Exercise{
		ID:              e.ID,
		Name:            e.Name,
		Slug:            e.Slug,
		VideoLink:       e.VideoLink,
		VideoID:         e.VideoID,
		DifficultyLevel: e.DifficultyLevel,
		AdditionalNotes: e.AdditionalNotes,
		Category:        e.CategoryID,
	}
}

func toUserExercise(ue models.UserExercise) api.UserExercise {
	return api.UserExercise{
		ID:        ue.ID,
		User:      ue.UserID,
		Exercise:  ue.ExerciseID,
		Sets:      ue.Sets,
		Reps:      ue.Reps,
		Hold:      ue.Hold,
		PainLevel: ue.PainLevel,
		Completed: ue.Completed,
		IsActive:  ue.IsActive,
	}
}
