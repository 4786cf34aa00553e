package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

// AuthService defines the account operations of the CLI.
//
// Contract:
//   - Login: authenticate and start a session. The password buffer is wiped.
//   - Register: create an account and start a session. The password buffer is wiped.
//   - Logout: end the session locally.
//   - Status: describe the stored access token.
//   - InjuryTypes: the public injury catalogue used by the sign-up form.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) error
	Register(ctx context.Context, form RegisterForm) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) (*session.TokenInfo, error)
	InjuryTypes(ctx context.Context) ([]api.InjuryType, error)
}

// RegisterForm is the sign-up input.
type RegisterForm struct {
	Username    string
	Email       string
	Password    []byte
	FirstName   string
	LastName    string
	DateOfBirth string
	InjuryType  int64
}

type authService struct {
	mgr *session.Manager
}

// NewAuthService constructs an AuthService bound to the session manager.
func NewAuthService(mgr *session.Manager) AuthService {
	return &authService{mgr: mgr}
}

func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	defer common.WipeByteArray(password)
	return a.mgr.Login(ctx, username, string(password))
}

func (a *authService) Register(ctx context.Context, form RegisterForm) error {
	defer common.WipeByteArray(form.Password)
	return a.mgr.Register(ctx, api.RegisterRequest{
		Username:    form.Username,
		Email:       form.Email,
		Password:    string(form.Password),
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		DateOfBirth: form.DateOfBirth,
		InjuryType:  form.InjuryType,
	})
}

func (a *authService) Logout(ctx context.Context) error {
	return a.mgr.Logout(ctx)
}

func (a *authService) Status(ctx context.Context) (*session.TokenInfo, error) {
	return a.mgr.Status(ctx)
}

func (a *authService) InjuryTypes(ctx context.Context) ([]api.InjuryType, error) {
	types, err := a.mgr.Public().ListInjuryTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("injury types: %w", err)
	}
	return types, nil
}
