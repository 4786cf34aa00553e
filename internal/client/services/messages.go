package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

// Alert is a titled message for the user.
type Alert struct {
	Title   string
	Message string
}

func (a Alert) String() string {
	if a.Title == "" {
		return a.Message
	}
	return a.Title + ": " + a.Message
}

var (
	AlertLoginRequired  = Alert{Title: "Login Required", Message: "Please sign in to continue"}
	AlertSessionExpired = Alert{Title: "Session Expired", Message: "Please login again"}
	AlertNetwork        = Alert{Title: "Error", Message: "Network error. Please check your connection and try again."}
)

// UserMessage maps err to an alert. Session errors and transport failures
// get fixed wording; anything else becomes fallback.
func UserMessage(err error, fallback string) Alert {
	switch {
	case err == nil:
		return Alert{}
	case errors.Is(err, common.ErrLoginRequired):
		return AlertLoginRequired
	case errors.Is(err, common.ErrSessionExpired), client.IsStatus(err, http.StatusUnauthorized):
		return AlertSessionExpired
	case errors.Is(err, client.ErrUnavailable):
		return AlertNetwork
	case errors.Is(err, ErrInvalidExerciseID):
		return Alert{Title: "Error", Message: MsgInvalidExerciseID}
	case errors.Is(err, ErrIncompleteForm):
		return Alert{Title: "Error", Message: MsgIncompleteForm}
	case errors.Is(err, ErrNothingToUpdate):
		return Alert{Title: "Error", Message: MsgNothingToUpdate}
	default:
		return Alert{Title: "Error", Message: fallback}
	}
}

// RegistrationMessage picks the most specific server complaint about a
// sign-up form.
func RegistrationMessage(err error) string {
	const fallback = "Please check your information and try again"
	he, ok := client.AsHTTPError(err)
	if !ok {
		if errors.Is(err, client.ErrUnavailable) {
			return AlertNetwork.Message
		}
		return fallback
	}
	if msgs := he.Fields["username"]; len(msgs) > 0 {
		return "Username: " + strings.Join(msgs, " ")
	}
	if msgs := he.Fields["email"]; len(msgs) > 0 {
		return "Email: " + strings.Join(msgs, " ")
	}
	if he.StatusCode == http.StatusBadRequest && he.Message != "" {
		return he.Message
	}
	return fallback
}
