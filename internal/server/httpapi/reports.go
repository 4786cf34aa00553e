package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/server/services"
	"github.com/dmitrijs2005/physiokeeper/internal/timex"
)

// endDate reads ?end_date=YYYY-MM-DD, defaulting to today.
func (s *Server) endDate(r *http.Request) (time.Time, error) {
	v := r.URL.Query().Get("end_date")
	if v == "" {
		return s.reports.Today(), nil
	}
	t, err := time.Parse(timex.DateLayout, v)
	if err != nil {
		return time.Time{}, &services.ValidationError{Message: "Invalid date format. Use YYYY-MM-DD"}
	}
	return t, nil
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	out, err := s.reports.Reports(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	items, err := s.reports.History(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.HistoryResponse{History: items})
}

func (s *Server) handleAdherence(w http.ResponseWriter, r *http.Request) {
	end, err := s.endDate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stats, err := s.reports.Adherence(r.Context(), userIDFrom(r.Context()), end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handlePain(w http.ResponseWriter, r *http.Request) {
	end, err := s.endDate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stats, err := s.reports.Pain(r.Context(), userIDFrom(r.Context()), end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
