package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	reply, err := s.chat.Reply(userIDFrom(r.Context()), req.Message, req.ExerciseContext)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ChatResponse{Message: reply})
}

func (s *Server) handleResetChat(w http.ResponseWriter, r *http.Request) {
	s.chat.Reset(userIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, messageBody{Message: "Chat history cleared"})
}
