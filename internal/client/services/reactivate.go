package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
)

const (
	MsgReactivated         = "Exercise added successfully"
	msgReactivateConflict  = "You already have an active exercise in this category with the same difficulty level."
	msgReactivateFailed    = "Failed to reactivate the exercise. Please try again."
	msgReactivateNoNetwork = "Failed to reactivate the exercise. Please check your connection and try again."
)

type ReactivateService interface {
	Reactivate(ctx context.Context, userExerciseID, exerciseID int64) error
}

type reactivateService struct {
	caller session.Caller
}

func NewReactivateService(caller session.Caller) ReactivateService {
	return &reactivateService{caller: caller}
}

// Reactivate puts an inactive exercise back on the dashboard. exerciseID
// defaults to userExerciseID when zero.
func (s *reactivateService) Reactivate(ctx context.Context, userExerciseID, exerciseID int64) error {
	if userExerciseID <= 0 {
		return ErrInvalidExerciseID
	}
	if exerciseID == 0 {
		exerciseID = userExerciseID
	}
	return s.caller.Call(ctx, func(ctx context.Context, c *client.AuthenticatedClient) error {
		return c.ReactivateExercise(ctx, userExerciseID, exerciseID)
	})
}

// ReactivateAlert maps a reactivation failure to an alert. A 400 means the
// category already holds an active exercise of the same difficulty.
func ReactivateAlert(err error) Alert {
	if he, ok := client.AsHTTPError(err); ok {
		switch he.StatusCode {
		case http.StatusBadRequest:
			msg := he.Message
			if msg == "" || msg == http.StatusText(http.StatusBadRequest) {
				msg = msgReactivateConflict
			}
			return Alert{Title: "Cannot Add Exercise", Message: msg}
		case http.StatusUnauthorized:
			return AlertSessionExpired
		default:
			return Alert{Title: "Error", Message: msgReactivateFailed}
		}
	}
	if errors.Is(err, client.ErrUnavailable) {
		return Alert{Title: "Error", Message: msgReactivateNoNetwork}
	}
	return UserMessage(err, msgReactivateFailed)
}
