package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/server/services"
)

const (
	detailNotFound      = "Not found."
	detailServerError   = "A server error occurred."
	detailNoCredentials = "Authentication credentials were not provided."
	detailBadLogin      = "No active account found with the given credentials"
	detailTokenInvalid  = "Given token not valid for any token type"
	detailMalformed     = "Malformed request body."

	codeTokenNotValid = "token_not_valid"
)

type detailBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps service errors onto status codes and bodies.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		if len(verr.Fields) > 0 {
			writeJSON(w, http.StatusBadRequest, verr.Fields)
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Message})
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, detailBody{Detail: detailNotFound})
	case errors.Is(err, common.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, detailBody{Detail: detailBadLogin})
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeJSON(w, http.StatusUnauthorized, detailBody{Detail: "Token is invalid or expired", Code: codeTokenNotValid})
	case errors.Is(err, common.ErrConflict):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err, "request_id", requestIDFrom(r.Context()))
		writeJSON(w, http.StatusInternalServerError, detailBody{Detail: detailServerError})
	}
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &services.ValidationError{Message: detailMalformed}
}

// pathID parses the {id} route variable. Non-numeric ids do not match any
// resource.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrNotFound
	}
	return id, nil
}
