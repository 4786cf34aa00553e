package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/services"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

func (a *App) Profile(ctx context.Context) error {
	p, err := runAsync(ctx, a.profile.Get)
	if err != nil {
		return a.fail(err, services.MsgProfileLoadFailed)
	}
	printProfile(a, p)
	return nil
}

func printProfile(a *App, p *api.Profile) {
	a.printf("Username:      %s\n", p.Username)
	a.printf("Email:         %s\n", p.Email)
	a.printf("Name:          %s %s\n", p.FirstName, p.LastName)
	if p.DateOfBirth != "" {
		a.printf("Date of birth: %s\n", p.DateOfBirth)
	}
	if p.InjuryType != 0 {
		a.printf("Injury type:   %d\n", p.InjuryType)
	}
}

// EditProfile asks for each editable field; empty answers keep the value.
func (a *App) EditProfile(ctx context.Context) error {
	var u api.ProfileUpdate
	for _, f := range []struct {
		prompt string
		dst    **string
	}{
		{"New email (empty to keep)", &u.Email},
		{"New first name (empty to keep)", &u.FirstName},
		{"New last name (empty to keep)", &u.LastName},
		{"New date of birth YYYY-MM-DD (empty to keep)", &u.DateOfBirth},
	} {
		s, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		if s != "" {
			*f.dst = &s
		}
	}

	s, err := getSimpleText(a.reader, "New injury type id (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			a.alert(services.Alert{Title: "Error", Message: "Unknown injury type"})
			return err
		}
		u.InjuryType = &id
	}

	p, err := runAsync(ctx, func(ctx context.Context) (*api.Profile, error) {
		return a.profile.Update(ctx, u)
	})
	if err != nil {
		return a.fail(err, services.MsgProfileUpdateFailed)
	}
	a.println(services.MsgProfileUpdated)
	printProfile(a, p)
	return nil
}

// Password changes the account password. Both entries are read without
// echo and wiped after the request.
func (a *App) Password(ctx context.Context) error {
	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	next, err := getPassword("New password", a.out)
	if err != nil {
		common.WipeByteArray(current)
		return err
	}

	if _, err := runAsync(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.password.Update(ctx, current, next)
	}); err != nil {
		return a.report(err, services.PasswordAlert(err))
	}
	a.println(services.MsgPasswordUpdated)
	return nil
}
