package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
)

const (
	MsgProfileLoadFailed   = "Failed to load your profile. Please check your connection and try again."
	MsgProfileUpdated      = "Profile updated successfully!"
	MsgProfileUpdateFailed = "Failed to update profile"
	MsgNothingToUpdate     = "Please fill in at least one field"
)

var ErrNothingToUpdate = errors.New("nothing to update")

type ProfileService interface {
	Get(ctx context.Context) (*api.Profile, error)
	Update(ctx context.Context, u api.ProfileUpdate) (*api.Profile, error)
}

type profileService struct {
	caller session.Caller
}

func NewProfileService(caller session.Caller) ProfileService {
	return &profileService{caller: caller}
}

func (s *profileService) Get(ctx context.Context) (*api.Profile, error) {
	return session.Do(ctx, s.caller, func(ctx context.Context, c *client.AuthenticatedClient) (*api.Profile, error) {
		return c.Me(ctx)
	})
}

// Update sends only the fields that are set. An empty update is rejected
// without a request.
func (s *profileService) Update(ctx context.Context, u api.ProfileUpdate) (*api.Profile, error) {
	if u.Empty() {
		return nil, ErrNothingToUpdate
	}
	return session.Do(ctx, s.caller, func(ctx context.Context, c *client.AuthenticatedClient) (*api.Profile, error) {
		return c.UpdateProfile(ctx, u)
	})
}
