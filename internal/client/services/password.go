package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

const (
	MsgPasswordUpdated       = "Password updated successfully!"
	MsgPasswordFieldsMissing = "All fields are required."
	MsgPasswordSame          = "New password cannot be the same as current password."
	incorrectPasswordServer  = "Current password is incorrect"
)

var (
	ErrPasswordFieldsMissing = errors.New("password fields missing")
	ErrPasswordUnchanged     = errors.New("new password equals current password")
)

type PasswordService interface {
	Update(ctx context.Context, current, next []byte) error
}

type passwordService struct {
	caller session.Caller
}

func NewPasswordService(caller session.Caller) PasswordService {
	return &passwordService{caller: caller}
}

// Update changes the password. Both buffers are wiped before returning.
func (s *passwordService) Update(ctx context.Context, current, next []byte) error {
	defer common.WipeByteArray(current)
	defer common.WipeByteArray(next)

	if len(current) == 0 || len(next) == 0 {
		return ErrPasswordFieldsMissing
	}
	if string(current) == string(next) {
		return ErrPasswordUnchanged
	}

	body := api.PasswordUpdate{CurrentPassword: string(current), NewPassword: string(next)}
	return s.caller.Call(ctx, func(ctx context.Context, c *client.AuthenticatedClient) error {
		return c.UpdatePassword(ctx, body)
	})
}

// PasswordAlert maps a password update failure to an alert.
func PasswordAlert(err error) Alert {
	switch {
	case errors.Is(err, ErrPasswordFieldsMissing):
		return Alert{Title: "Error", Message: MsgPasswordFieldsMissing}
	case errors.Is(err, ErrPasswordUnchanged):
		return Alert{Title: "Error", Message: MsgPasswordSame}
	}

	if he, ok := client.AsHTTPError(err); ok && he.StatusCode != http.StatusUnauthorized {
		if he.StatusCode == http.StatusBadRequest && he.Message == incorrectPasswordServer {
			return Alert{
				Title:   "Incorrect Password",
				Message: "The password you entered doesn't match your current password. Please try again.",
			}
		}
		if he.Message != "" {
			return Alert{Title: "Error", Message: he.Message}
		}
	}
	return UserMessage(err, "Failed to update password")
}
