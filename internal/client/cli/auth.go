package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/client/services"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
	"github.com/dmitrijs2005/physiokeeper/internal/timex"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and starts a session. The password is
// wiped by the auth service.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	if userName == "" || len(password) == 0 {
		common.WipeByteArray(password)
		a.alert(services.Alert{Title: "Error", Message: "Please enter username and password"})
		return services.ErrIncompleteForm
	}

	_, err = runAsync(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.auth.Login(ctx, userName, password)
	})
	if err != nil {
		a.log.Debug(ctx, "login failed", "error", err)
		return a.report(err, loginAlert(err))
	}

	a.setUserName(userName)
	a.println("Login successful")
	return nil
}

func loginAlert(err error) services.Alert {
	al := services.UserMessage(err, "Invalid credentials")
	if al == services.AlertSessionExpired {
		return services.Alert{Title: "Error", Message: "Invalid credentials"}
	}
	return al
}

// Register collects the sign-up form and starts a session with the tokens
// the server returns.
func (a *App) Register(ctx context.Context) error {
	var form services.RegisterForm
	var err error

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Enter username", &form.Username},
		{"Enter email", &form.Email},
		{"Enter first name", &form.FirstName},
		{"Enter last name", &form.LastName},
		{"Enter date of birth (YYYY-MM-DD, optional)", &form.DateOfBirth},
	} {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}
	if form.DateOfBirth != "" {
		if _, perr := time.Parse(timex.DateLayout, form.DateOfBirth); perr != nil {
			a.alert(services.Alert{Title: "Error", Message: "Date of birth must be YYYY-MM-DD"})
			return perr
		}
	}

	if err := a.chooseInjuryType(ctx, &form); err != nil {
		return err
	}

	if form.Password, err = getPassword("Enter password", a.out); err != nil {
		return err
	}
	if form.Username == "" || form.Email == "" || len(form.Password) == 0 {
		common.WipeByteArray(form.Password)
		a.alert(services.Alert{Title: "Error", Message: services.MsgIncompleteForm})
		return services.ErrIncompleteForm
	}

	_, err = runAsync(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.auth.Register(ctx, form)
	})
	if err != nil {
		a.alert(services.Alert{Title: "Registration Failed", Message: services.RegistrationMessage(err)})
		return err
	}

	a.setUserName(form.Username)
	a.println("Registration successful")
	return nil
}

// chooseInjuryType lists the public injury catalogue and lets the user pick
// one. A failed lookup leaves the field empty.
func (a *App) chooseInjuryType(ctx context.Context, form *services.RegisterForm) error {
	types, err := runAsync(ctx, a.auth.InjuryTypes)
	if err != nil {
		if errors.Is(err, errInterrupted) {
			return err
		}
		a.log.Warn(ctx, "injury types unavailable", "error", err)
		return nil
	}
	if len(types) == 0 {
		return nil
	}

	for _, t := range types {
		a.printf("  %d  %s\n", t.ID, t.Name)
	}
	s, err := getSimpleText(a.reader, "Select injury type (optional)", a.out)
	if err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		a.alert(services.Alert{Title: "Error", Message: "Unknown injury type"})
		return err
	}
	form.InjuryType = id
	return nil
}

// Logout deletes the stored token pair.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
		return err
	}
	a.println("Logged out")
	return nil
}

// Status prints whether a session is stored and when its access token
// expires.
func (a *App) Status(ctx context.Context) error {
	info, err := a.auth.Status(ctx)
	if err != nil {
		if errors.Is(err, common.ErrLoginRequired) {
			a.println("Not logged in")
			return nil
		}
		a.alert(services.Alert{Title: "Error", Message: "Stored session is unreadable"})
		return err
	}

	state := "logged in"
	if !a.isLoggedIn() {
		state = "token stored, session not active"
	}
	a.printf("Status: %s\n", state)
	if info.UserID != "" {
		a.printf("User: %s\n", info.UserID)
	}
	if !info.ExpiresAt.IsZero() {
		suffix := ""
		if info.Expired(a.now()) {
			suffix = " (expired, will refresh on next request)"
		}
		a.printf("Access token expires: %s%s\n", info.ExpiresAt.Local().Format(time.RFC1123), suffix)
	}
	return nil
}
