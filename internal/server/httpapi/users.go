package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/server/models"
	"github.com/dmitrijs2005/physiokeeper/internal/server/services"
)

const msgRequired = "This field is required."

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	missing := map[string][]string{}
	if req.Username == "" {
		missing["username"] = []string{msgRequired}
	}
	if req.Password == "" {
		missing["password"] = []string{msgRequired}
	}
	if len(missing) > 0 {
		s.writeError(w, r, &services.ValidationError{Fields: missing})
		return
	}

	pair, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Refresh == "" {
		s.writeError(w, r, &services.ValidationError{Fields: map[string][]string{"refresh": {msgRequired}}})
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.Refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	pair, err := s.users.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "user registered", "username", req.Username)
	writeJSON(w, http.StatusCreated, pair)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Profile(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(u))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.ProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.users.UpdateProfile(r.Context(), userIDFrom(r.Context()), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(u))
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req api.PasswordUpdate
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.users.UpdatePassword(r.Context(), userIDFrom(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Password updated successfully"})
}

// handleDashboard lists active or inactive assignments in dashboard form.
func (s *Server) handleDashboard(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.exercises.List(r.Context(), userIDFrom(r.Context()), active)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		out := make([]api.DashboardExercise, 0, len(list))
		for _, a := range list {
			out = append(out, api.DashboardExercise{
				ID:             a.Exercise.ID,
				UserExerciseID: a.ID,
				Name:           a.Exercise.Name,
				Sets:           a.Sets,
				Reps:           a.Reps,
				Completed:      a.Completed,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toProfile(u *models.User) api.Profile {
	p := api.Profile{
		Username:    u.UserName,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DateOfBirth: u.DateOfBirth,
		InjuryType:  u.InjuryTypeID,
	}
	if !u.LastReset.IsZero() {
		p.LastReset = u.LastReset.UTC().Format(time.RFC3339)
	}
	return p
}
