package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID, s.logRequests, s.recoverPanics)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, detailBody{Detail: detailNotFound})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, detailBody{Detail: `Method "` + r.Method + `" not allowed.`})
	})

	// public
	r.HandleFunc("/api/token/", s.handleToken).Methods(http.MethodPost)
	r.HandleFunc("/api/token/refresh/", s.handleTokenRefresh).Methods(http.MethodPost)
	r.HandleFunc("/users/register/", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/injury-types/", s.handleInjuryTypes).Methods(http.MethodGet)

	// users
	r.HandleFunc("/users/me/", s.private(s.handleMe)).Methods(http.MethodGet)
	r.HandleFunc("/users/update_profile/", s.private(s.handleUpdateProfile)).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/users/update_password/", s.private(s.handleUpdatePassword)).Methods(http.MethodPut)
	r.HandleFunc("/users/active_exercises/", s.private(s.handleDashboard(true))).Methods(http.MethodGet)
	r.HandleFunc("/users/inactive_exercises/", s.private(s.handleDashboard(false))).Methods(http.MethodGet)

	// exercises
	r.HandleFunc("/exercises/{id}/", s.private(s.handleExercise)).Methods(http.MethodGet)
	r.HandleFunc("/user-exercises/", s.private(s.handleUserExercises)).Methods(http.MethodGet)
	r.HandleFunc("/user-exercises/{id}/", s.private(s.handleUserExercise)).Methods(http.MethodGet)
	r.HandleFunc("/user-exercises/{id}/", s.private(s.handleComplete)).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/user-exercises/{id}/confirm_increase/", s.private(s.handleConfirm(s.exercises.ConfirmIncrease))).Methods(http.MethodPost)
	r.HandleFunc("/user-exercises/{id}/confirm_decrease/", s.private(s.handleConfirm(s.exercises.ConfirmDecrease))).Methods(http.MethodPost)
	r.HandleFunc("/user-exercises/{id}/confirm_removal/", s.private(s.handleConfirm(s.exercises.ConfirmRemoval))).Methods(http.MethodPost)
	r.HandleFunc("/user-exercises/{id}/remove_exercise/", s.private(s.handleRemove)).Methods(http.MethodPut)
	r.HandleFunc("/user-exercises/{id}/reactivate_exercise/", s.private(s.handleReactivate)).Methods(http.MethodPut)

	// reports
	r.HandleFunc("/reports/", s.private(s.handleReports)).Methods(http.MethodGet)
	r.HandleFunc("/reports/exercise_history/", s.private(s.handleHistory)).Methods(http.MethodGet)
	r.HandleFunc("/reports/adherence_stats/", s.private(s.handleAdherence)).Methods(http.MethodGet)
	r.HandleFunc("/reports/pain_stats/", s.private(s.handlePain)).Methods(http.MethodGet)

	// chat
	r.HandleFunc("/api/chatbot/", s.private(s.handleChat)).Methods(http.MethodPost)
	r.HandleFunc("/api/reset-chat/", s.private(s.handleResetChat)).Methods(http.MethodPost)

	return r
}
